package storage

import (
	"context"
	"database/sql"

	"github.com/ampizza/pizza-shop/internal/domain/models"
)

// ReviewStorage описывает методы для работы с отзывами.
type ReviewStorage interface {
	ListReviews(ctx context.Context) ([]*models.Review, error)
	CreateReview(ctx context.Context, review *models.Review) (*models.Review, error)
}

// reviewRepository — конкретная реализация ReviewStorage.
type reviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) ReviewStorage {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) ListReviews(ctx context.Context) ([]*models.Review, error) {
	query := `SELECT id, user_id, name, rating, comment, created_at FROM reviews ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*models.Review
	for rows.Next() {
		review := &models.Review{}
		if err := rows.Scan(&review.ID, &review.UserID, &review.Name, &review.Rating, &review.Comment, &review.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) CreateReview(ctx context.Context, review *models.Review) (*models.Review, error) {
	query := `INSERT INTO reviews (user_id, name, rating, comment) VALUES ($1, $2, $3, $4)
	          RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query,
		review.UserID, review.Name, review.Rating, review.Comment,
	).Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		return nil, err
	}
	return review, nil
}
