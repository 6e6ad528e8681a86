// Package entity defines the domain entities for the products feature.
package entity

import "time"

// Product is a catalog item offered on the marketplace.
// Category and seller are optional many-to-one references held as scalar
// foreign ids; the referenced side keeps no back-collection.
type Product struct {
	// ID is the unique identifier for the product.
	ID uint `gorm:"primaryKey"`

	// Name is the product's display name.
	Name string `gorm:"size:200;not null"`

	// Description is an optional free-text description.
	Description string `gorm:"size:1000"`

	// Price is the unit price, persisted with two decimal places.
	// It must never be negative.
	Price float64 `gorm:"type:decimal(10,2);not null"`

	// Quantity is the number of units in stock. It must never be negative.
	Quantity int `gorm:"not null"`

	// ImageURL points to the product's illustration image.
	ImageURL string `gorm:"size:255"`

	// Active gates whether the product appears in default listings.
	Active bool `gorm:"not null;default:true"`

	// CategoryID references the owning category, nil when uncategorized.
	CategoryID *uint `gorm:"index"`

	// SellerID references the selling user, nil when the marketplace itself sells.
	SellerID *uint `gorm:"index"`

	// CreatedAt is the timestamp when the product was created.
	CreatedAt time.Time

	// UpdatedAt is the timestamp when the product was last updated.
	UpdatedAt time.Time
}
