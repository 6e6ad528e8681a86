package api

import "time"

// ProductRequest is the JSON body of product create/update requests.
// CategoryID and SellerID are optional references; when present the referenced
// entity must exist.
type ProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"gte=0"`
	Quantity    int     `json:"quantity" binding:"gte=0"`
	ImageURL    string  `json:"imageUrl"`
	Active      *bool   `json:"active"`
	CategoryID  *uint   `json:"categoryId"`
	SellerID    *uint   `json:"sellerId"`
}

// ProductResponse is the transport shape of a product projection.
// References are flattened to scalar ids.
type ProductResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	ImageURL    string    `json:"imageUrl"`
	Active      bool      `json:"active"`
	CategoryID  *uint     `json:"categoryId"`
	SellerID    *uint     `json:"sellerId"`
	CreatedAt   time.Time `json:"createdAt"`
}
