package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ampizza/pizza-shop/internal/domain/models"
	security "github.com/ampizza/pizza-shop/internal/jwt-new"
	"github.com/ampizza/pizza-shop/internal/storage"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrResetTokenInvalid  = errors.New("reset token is invalid or expired")
)

// срок действия токена восстановления пароля
const resetTokenTTL = time.Hour

type AuthService struct {
	log      *slog.Logger
	userRepo storage.UserStorage
	tokenTTL time.Duration
}

func NewAuthService(log *slog.Logger, userRepo storage.UserStorage, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		log:      log,
		userRepo: userRepo,
		tokenTTL: tokenTTL,
	}
}

type AuthServiceInterface interface {
	Register(ctx context.Context, name, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
	Profile(ctx context.Context, userID int64) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, name, newPassword string) error
}

// Register создаёт нового пользователя (пароль хэшируется через bcrypt,
// который автоматически добавляет соль) и сразу выдаёт JWT-токен.
func (a *AuthService) Register(ctx context.Context, name, email, password string) (string, error) {
	const op = "auth.Register"
	logger := a.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)
	logger.Info("registering user")

	if _, err := a.userRepo.GetUserByEmail(ctx, email); err == nil {
		logger.Warn("email already registered")
		return "", fmt.Errorf("%s: %w", op, ErrEmailTaken)
	} else if !errors.Is(err, storage.ErrUserNotFound) {
		logger.Error("failed to check user", slog.Any("error", err))
		return "", fmt.Errorf("%s: failed to check user: %w", op, err)
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("failed to hash password", slog.Any("error", err))
		return "", fmt.Errorf("%s: failed to hash password: %w", op, err)
	}

	user, err := a.userRepo.CreateUser(ctx, &models.User{
		Name:     name,
		Email:    email,
		PassHash: passHash,
	})
	if err != nil {
		logger.Error("failed to create user", slog.Any("error", err))
		return "", fmt.Errorf("%s: failed to create user: %w", op, err)
	}

	token, err := security.NewToken(ctx, user, a.tokenTTL)
	if err != nil {
		logger.Error("failed to generate token", slog.Any("error", err))
		return "", fmt.Errorf("%s: failed to generate token: %w", op, err)
	}

	logger.Info("user registered", slog.Int64("userID", user.ID))
	return token, nil
}

// Login осуществляет аутентификацию пользователя: введённый пароль сравнивается
// с сохранённым хэшированным значением, после успешной проверки генерируется
// JWT-токен (секрет для подписи берется из переменной окружения).
func (a *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	const op = "auth.Login"
	logger := a.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)
	logger.Info("checking user")

	user, err := a.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			logger.Warn("user not found")
			return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		logger.Error("failed to get user", slog.Any("error", err))
		return "", fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PassHash, []byte(password)); err != nil {
		logger.Warn("invalid password")
		return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	token, err := security.NewToken(ctx, user, a.tokenTTL)
	if err != nil {
		logger.Error("failed to generate token", slog.Any("error", err))
		return "", fmt.Errorf("%s: failed to generate token: %w", op, err)
	}

	logger.Info("user logged in successfully", slog.Int64("userID", user.ID))
	return token, nil
}

// ForgotPassword выдаёт одноразовый токен восстановления пароля. Доставка
// токена (почта) — внешний коллаборатор; сервис только сохраняет токен и срок.
func (a *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	const op = "auth.ForgotPassword"
	logger := a.log.With(slog.String("op", op), slog.String("email", email))

	user, err := a.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			logger.Warn("user not found")
			return "", fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		logger.Error("failed to get user", slog.Any("error", err))
		return "", fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	token := uuid.NewString()
	if err := a.userRepo.SetResetToken(ctx, user.ID, token, time.Now().Add(resetTokenTTL)); err != nil {
		logger.Error("failed to set reset token", slog.Any("error", err))
		return "", fmt.Errorf("%s: failed to set reset token: %w", op, err)
	}

	logger.Info("reset token issued", slog.Int64("userID", user.ID))
	return token, nil
}

// ResetPassword устанавливает новый пароль по действующему токену восстановления
func (a *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	const op = "auth.ResetPassword"
	logger := a.log.With(slog.String("op", op))

	user, err := a.userRepo.GetUserByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			logger.Warn("reset token invalid or expired")
			return fmt.Errorf("%s: %w", op, ErrResetTokenInvalid)
		}
		logger.Error("failed to get user by reset token", slog.Any("error", err))
		return fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("failed to hash password", slog.Any("error", err))
		return fmt.Errorf("%s: failed to hash password: %w", op, err)
	}

	if err := a.userRepo.ClearResetToken(ctx, user.ID, passHash); err != nil {
		logger.Error("failed to update password", slog.Any("error", err))
		return fmt.Errorf("%s: failed to update password: %w", op, err)
	}

	logger.Info("password reset", slog.Int64("userID", user.ID))
	return nil
}

// Profile возвращает учётную запись текущего пользователя
func (a *AuthService) Profile(ctx context.Context, userID int64) (*models.User, error) {
	const op = "auth.Profile"

	user, err := a.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			a.log.Warn("user not found", slog.String("op", op), slog.Int64("userID", userID))
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		a.log.Error("failed to get user", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}
	return user, nil
}

// UpdateProfile меняет имя и, если передан непустой пароль, пароль пользователя
func (a *AuthService) UpdateProfile(ctx context.Context, userID int64, name, newPassword string) error {
	const op = "auth.UpdateProfile"
	logger := a.log.With(slog.String("op", op), slog.Int64("userID", userID))

	var passHash []byte
	if newPassword != "" {
		var err error
		passHash, err = bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			logger.Error("failed to hash password", slog.Any("error", err))
			return fmt.Errorf("%s: failed to hash password: %w", op, err)
		}
	}

	if err := a.userRepo.UpdateProfile(ctx, userID, name, passHash); err != nil {
		logger.Error("failed to update profile", slog.Any("error", err))
		return fmt.Errorf("%s: failed to update profile: %w", op, err)
	}

	logger.Info("profile updated")
	return nil
}
