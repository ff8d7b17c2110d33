package models

import "time"

// Offer представляет акционное предложение
type Offer struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Discount    float64   `json:"discount"` // скидка в процентах
	ImageURL    string    `json:"image"`
	ImageID     string    `json:"imageId,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
}
