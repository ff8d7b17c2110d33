package models

import "time"

// Review представляет отзыв клиента
type Review struct {
	ID        int64     `json:"id"`
	UserID    *int64    `json:"userId,omitempty"`
	Name      string    `json:"name"`
	Rating    int       `json:"rating"` // от 1 до 5
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}
