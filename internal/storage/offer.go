package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ampizza/pizza-shop/internal/domain/models"
)

var ErrOfferNotFound = errors.New("offer not found")

// OfferStorage описывает методы для работы с акциями.
type OfferStorage interface {
	// ListOffers возвращает акции; onlyActive ограничивает выборку действующими.
	ListOffers(ctx context.Context, onlyActive bool) ([]*models.Offer, error)
	GetOfferByID(ctx context.Context, id int64) (*models.Offer, error)
	CreateOffer(ctx context.Context, offer *models.Offer) (*models.Offer, error)
	UpdateOffer(ctx context.Context, offer *models.Offer) error
	DeleteOffer(ctx context.Context, id int64) error
}

// offerRepository — конкретная реализация OfferStorage.
type offerRepository struct {
	db *sql.DB
}

func NewOfferRepository(db *sql.DB) OfferStorage {
	return &offerRepository{db: db}
}

func (r *offerRepository) ListOffers(ctx context.Context, onlyActive bool) ([]*models.Offer, error) {
	query := `SELECT id, title, description, discount, image_url, image_id, active, created_at FROM offers`
	if onlyActive {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offers []*models.Offer
	for rows.Next() {
		offer := &models.Offer{}
		if err := rows.Scan(&offer.ID, &offer.Title, &offer.Description, &offer.Discount,
			&offer.ImageURL, &offer.ImageID, &offer.Active, &offer.CreatedAt); err != nil {
			return nil, err
		}
		offers = append(offers, offer)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return offers, nil
}

func (r *offerRepository) GetOfferByID(ctx context.Context, id int64) (*models.Offer, error) {
	offer := &models.Offer{}
	query := `SELECT id, title, description, discount, image_url, image_id, active, created_at
	          FROM offers WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)
	if err := row.Scan(&offer.ID, &offer.Title, &offer.Description, &offer.Discount,
		&offer.ImageURL, &offer.ImageID, &offer.Active, &offer.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOfferNotFound
		}
		return nil, err
	}
	return offer, nil
}

func (r *offerRepository) CreateOffer(ctx context.Context, offer *models.Offer) (*models.Offer, error) {
	query := `INSERT INTO offers (title, description, discount, image_url, image_id, active)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query,
		offer.Title, offer.Description, offer.Discount, offer.ImageURL, offer.ImageID, offer.Active,
	).Scan(&offer.ID, &offer.CreatedAt)
	if err != nil {
		return nil, err
	}
	return offer, nil
}

func (r *offerRepository) UpdateOffer(ctx context.Context, offer *models.Offer) error {
	query := `UPDATE offers SET title = $1, description = $2, discount = $3,
	          image_url = $4, image_id = $5, active = $6 WHERE id = $7`
	res, err := r.db.ExecContext(ctx, query,
		offer.Title, offer.Description, offer.Discount, offer.ImageURL, offer.ImageID, offer.Active, offer.ID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOfferNotFound
	}
	return nil
}

func (r *offerRepository) DeleteOffer(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM offers WHERE id = $1", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOfferNotFound
	}
	return nil
}
