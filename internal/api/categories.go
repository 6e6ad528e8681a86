package api

import "time"

// CategoryRequest is the JSON body of category create/update requests.
type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Active      *bool  `json:"active"`
}

// CategoryResponse is the transport shape of a category projection.
type CategoryResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
}
