package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ampizza/pizza-shop/internal/domain/models"
)

var ErrUserNotFound = errors.New("user not found")

type UserStorage interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	UpdateProfile(ctx context.Context, id int64, name string, passHash []byte) error
	SetResetToken(ctx context.Context, id int64, token string, expires time.Time) error
	GetUserByResetToken(ctx context.Context, token string) (*models.User, error)
	ClearResetToken(ctx context.Context, id int64, passHash []byte) error
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *userRepository {
	return &userRepository{db: db}
}

// получение уже существующего пользователя
func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	row := r.db.QueryRowContext(ctx,
		"SELECT id, name, email, pass_hash, is_admin, created_at FROM users WHERE email = $1", email)
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PassHash, &user.IsAdmin, &user.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO users (name, email, pass_hash, is_admin) VALUES ($1, $2, $3, $4) RETURNING id",
		user.Name, user.Email, user.PassHash, user.IsAdmin,
	).Scan(&id)
	if err != nil {
		return nil, err
	}
	user.ID = id
	return user, nil
}

func (r *userRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	user := &models.User{}
	row := r.db.QueryRowContext(ctx,
		"SELECT id, name, email, pass_hash, is_admin, created_at FROM users WHERE id = $1", id)
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PassHash, &user.IsAdmin, &user.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile обновляет имя и, если передан непустой хэш, пароль
func (r *userRepository) UpdateProfile(ctx context.Context, id int64, name string, passHash []byte) error {
	var res sql.Result
	var err error
	if len(passHash) > 0 {
		res, err = r.db.ExecContext(ctx,
			"UPDATE users SET name = $1, pass_hash = $2 WHERE id = $3", name, passHash, id)
	} else {
		res, err = r.db.ExecContext(ctx,
			"UPDATE users SET name = $1 WHERE id = $2", name, id)
	}
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) SetResetToken(ctx context.Context, id int64, token string, expires time.Time) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET reset_token = $1, reset_expires = $2 WHERE id = $3", token, expires, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// GetUserByResetToken ищет пользователя по действующему токену восстановления
func (r *userRepository) GetUserByResetToken(ctx context.Context, token string) (*models.User, error) {
	user := &models.User{}
	row := r.db.QueryRowContext(ctx,
		"SELECT id, name, email, pass_hash, is_admin, created_at FROM users WHERE reset_token = $1 AND reset_expires > NOW()",
		token)
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PassHash, &user.IsAdmin, &user.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ClearResetToken устанавливает новый пароль и гасит токен восстановления
func (r *userRepository) ClearResetToken(ctx context.Context, id int64, passHash []byte) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET pass_hash = $1, reset_token = NULL, reset_expires = NULL WHERE id = $2", passHash, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}
