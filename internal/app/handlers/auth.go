package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ampizza/pizza-shop/internal/jwt-new/jwtmiddleware"
	"github.com/ampizza/pizza-shop/internal/service"
	"github.com/ampizza/pizza-shop/internal/storage"
	"github.com/go-chi/chi/v5"
)

// RegisterRequest представляет структуру запроса на регистрацию с тегами валидации
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest представляет структуру запроса для аутентификации
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse представляет структуру ответа с JWT-токеном
type AuthResponse struct {
	Token string `json:"token"`
}

// RegisterHandler – HTTP-обработчик регистрации нового пользователя
func RegisterHandler(log *slog.Logger, authService service.AuthServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.RegisterHandler"
		logger := log.With(slog.String("op", op))

		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "invalid request")
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "validation error")
			return
		}

		token, err := authService.Register(r.Context(), req.Name, req.Email, req.Password)
		if err != nil {
			if errors.Is(err, service.ErrEmailTaken) {
				writeError(w, logger, http.StatusConflict, "email already registered")
				return
			}
			logger.Error("registration failed", slog.Any("error", err))
			writeError(w, logger, http.StatusInternalServerError, "registration failed")
			return
		}

		writeJSON(w, logger, http.StatusCreated, AuthResponse{Token: token})
	}
}

// LoginHandler – HTTP-обработчик для аутентификации
func LoginHandler(log *slog.Logger, authService service.AuthServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.LoginHandler"
		logger := log.With(slog.String("op", op))

		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "invalid request")
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "validation error")
			return
		}

		token, err := authService.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			logger.Warn("login failed", slog.Any("error", err))
			writeError(w, logger, http.StatusUnauthorized, "invalid credentials")
			return
		}

		writeJSON(w, logger, http.StatusOK, AuthResponse{Token: token})
	}
}

// ForgotPasswordRequest — запрос на выдачу токена восстановления
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ForgotPasswordHandler выдаёт токен восстановления пароля. Токен возвращается
// в ответе: доставка по почте — внешний коллаборатор.
func ForgotPasswordHandler(log *slog.Logger, authService service.AuthServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ForgotPasswordHandler"
		logger := log.With(slog.String("op", op))

		var req ForgotPasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "invalid request")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, logger, http.StatusBadRequest, "validation error")
			return
		}

		token, err := authService.ForgotPassword(r.Context(), req.Email)
		if err != nil {
			if errors.Is(err, storage.ErrUserNotFound) {
				writeError(w, logger, http.StatusNotFound, "user not found")
				return
			}
			logger.Error("forgot password failed", slog.Any("error", err))
			writeError(w, logger, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(w, logger, http.StatusOK, map[string]string{"resetToken": token})
	}
}

// ResetPasswordRequest — запрос на установку нового пароля
type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

// ResetPasswordHandler устанавливает новый пароль по токену из path-параметра
func ResetPasswordHandler(log *slog.Logger, authService service.AuthServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ResetPasswordHandler"
		logger := log.With(slog.String("op", op))

		token := chi.URLParam(r, "token")
		if token == "" {
			writeError(w, logger, http.StatusBadRequest, "reset token is required")
			return
		}

		var req ResetPasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "invalid request")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, logger, http.StatusBadRequest, "validation error")
			return
		}

		if err := authService.ResetPassword(r.Context(), token, req.Password); err != nil {
			if errors.Is(err, service.ErrResetTokenInvalid) {
				writeError(w, logger, http.StatusBadRequest, "reset token is invalid or expired")
				return
			}
			logger.Error("reset password failed", slog.Any("error", err))
			writeError(w, logger, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(w, logger, http.StatusOK, map[string]string{"message": "password updated"})
	}
}

// ProfileResponse — данные учётной записи без служебных полей
type ProfileResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

// ProfileHandler возвращает профиль текущего пользователя
func ProfileHandler(log *slog.Logger, authService service.AuthServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ProfileHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			writeError(w, logger, http.StatusUnauthorized, "unauthorized")
			return
		}

		user, err := authService.Profile(r.Context(), userID)
		if err != nil {
			if errors.Is(err, storage.ErrUserNotFound) {
				writeError(w, logger, http.StatusNotFound, "user not found")
				return
			}
			logger.Error("failed to get profile", slog.Any("error", err))
			writeError(w, logger, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(w, logger, http.StatusOK, ProfileResponse{
			ID:      user.ID,
			Name:    user.Name,
			Email:   user.Email,
			IsAdmin: user.IsAdmin,
		})
	}
}

// UpdateProfileRequest — запрос на обновление профиля; пароль опционален
type UpdateProfileRequest struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"omitempty,min=8"`
}

// UpdateProfileHandler обновляет профиль текущего пользователя
func UpdateProfileHandler(log *slog.Logger, authService service.AuthServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateProfileHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			writeError(w, logger, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req UpdateProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "invalid request")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, logger, http.StatusBadRequest, "validation error")
			return
		}

		if err := authService.UpdateProfile(r.Context(), userID, req.Name, req.Password); err != nil {
			if errors.Is(err, storage.ErrUserNotFound) {
				writeError(w, logger, http.StatusNotFound, "user not found")
				return
			}
			logger.Error("update profile failed", slog.Any("error", err))
			writeError(w, logger, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(w, logger, http.StatusOK, map[string]string{"message": "profile updated"})
	}
}
