// Package entity defines the domain entities for the categories feature.
package entity

import "time"

// Category groups products under a unique name.
type Category struct {
	// ID is the unique identifier for the category.
	ID uint `gorm:"primaryKey"`

	// Name is the category's display name.
	// It must be unique across all categories.
	Name string `gorm:"uniqueIndex;size:100;not null"`

	// Description is an optional free-text description.
	Description string `gorm:"size:500"`

	// ImageURL points to the category's illustration image.
	ImageURL string `gorm:"size:255"`

	// Active gates whether the category appears in default listings.
	Active bool `gorm:"not null;default:true"`

	// CreatedAt is the timestamp when the category was created.
	CreatedAt time.Time

	// UpdatedAt is the timestamp when the category was last updated.
	UpdatedAt time.Time
}
