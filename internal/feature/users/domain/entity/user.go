// Package entity defines the domain entities for the users feature.
package entity

import "time"

// Role is the business role assigned to a user account.
type Role string

// Valid user roles.
const (
	RoleCustomer Role = "CUSTOMER"
	RoleSeller   Role = "SELLER"
	RoleAdmin    Role = "ADMIN"
)

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// User represents a registered marketplace account.
// It contains authentication credentials and profile metadata.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey"`

	// Username is the unique login name of the account.
	Username string `gorm:"uniqueIndex;size:50;not null"`

	// Email is the user's email address.
	// It must be unique across all users.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// Password is the bcrypt hash of the user's password.
	// This should never store plaintext passwords and is never projected
	// into transport-facing views.
	Password string `gorm:"size:255;not null"`

	// FirstName is the user's given name.
	FirstName string `gorm:"size:50"`

	// LastName is the user's family name.
	LastName string `gorm:"size:50"`

	// Role is the account's business role (CUSTOMER, SELLER or ADMIN).
	Role Role `gorm:"size:20;not null;default:CUSTOMER"`

	// Enabled gates whether the account may authenticate.
	Enabled bool `gorm:"not null;default:true"`

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time

	// UpdatedAt is the timestamp when the user was last updated.
	UpdatedAt time.Time
}
