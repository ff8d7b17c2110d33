package models

import "time"

// Product представляет позицию каталога. Картинка хранится у внешнего
// медиа-хостинга: бэкенд сохраняет только URL и его идентификатор.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	ImageURL    string    `json:"image"`
	ImageID     string    `json:"imageId,omitempty"` // идентификатор у медиа-хостинга
	Featured    bool      `json:"featured"`
	CreatedAt   time.Time `json:"createdAt"`
}
