package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ampizza/pizza-shop/internal/domain/models"
	"github.com/ampizza/pizza-shop/internal/service"
	"github.com/ampizza/pizza-shop/internal/storage"
	"github.com/go-chi/chi/v5"
)

// ProductRequest — тело создания/обновления позиции каталога. Картинку
// загружает внешний медиа-хостинг: сюда приходят уже готовые URL и идентификатор.
type ProductRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Category    string  `json:"category" validate:"required"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	ImageURL    string  `json:"image" validate:"required,url"`
	ImageID     string  `json:"imageId"`
	Featured    bool    `json:"featured"`
}

// ListProductsHandler обрабатывает GET /api/products
func ListProductsHandler(log *slog.Logger, productService service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListProductsHandler"
		logger := log.With(slog.String("op", op))

		products, err := productService.List(r.Context())
		if err != nil {
			logger.Error("failed to list products", slog.Any("error", err))
			writeError(w, logger, http.StatusInternalServerError, "failed to fetch products")
			return
		}
		writeJSON(w, logger, http.StatusOK, products)
	}
}

// GetProductHandler обрабатывает GET /api/products/{id}
func GetProductHandler(log *slog.Logger, productService service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetProductHandler"
		logger := log.With(slog.String("op", op))

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, logger, http.StatusBadRequest, "invalid product id")
			return
		}

		product, err := productService.GetByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, storage.ErrProductNotFound) {
				writeError(w, logger, http.StatusNotFound, "product not found")
				return
			}
			logger.Error("failed to get product", slog.Any("error", err))
			writeError(w, logger, http.StatusInternalServerError, "failed to fetch product")
			return
		}
		writeJSON(w, logger, http.StatusOK, product)
	}
}

// CreateProductHandler обрабатывает POST /api/products (только администратор)
func CreateProductHandler(log *slog.Logger, productService service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateProductHandler"
		logger := log.With(slog.String("op", op))

		var req ProductRequest
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

		product, err := productService.Create(r.Context(), &models.Product{
			Name:        req.Name,
			Description: req.Description,
			Category:    req.Category,
			Price:       req.Price,
			ImageURL:    req.ImageURL,
			ImageID:     req.ImageID,
			Featured:    req.Featured,
		})
		if err != nil {
			logger.Error("failed to create product", slog.Any("error", err))
			writeError(w, logger, http.StatusInternalServerError, "failed to create product")
			return
		}
		writeJSON(w, logger, http.StatusCreated, product)
	}
}

// UpdateProductHandler обрабатывает PUT /api/products/{id} (только администратор)
func UpdateProductHandler(log *slog.Logger, productService service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateProductHandler"
		logger := log.With(slog.String("op", op))

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, logger, http.StatusBadRequest, "invalid product id")
			return
		}

		var req ProductRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "invalid request")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, logger, http.StatusBadRequest, "validation error")
			return
		}

		product, err := productService.Update(r.Context(), &models.Product{
			ID:          id,
			Name:        req.Name,
			Description: req.Description,
			Category:    req.Category,
			Price:       req.Price,
			ImageURL:    req.ImageURL,
			ImageID:     req.ImageID,
			Featured:    req.Featured,
		})
		if err != nil {
			if errors.Is(err, storage.ErrProductNotFound) {
				writeError(w, logger, http.StatusNotFound, "product not found")
				return
			}
			logger.Error("failed to update product", slog.Any("error", err))
			writeError(w, logger, http.StatusInternalServerError, "failed to update product")
			return
		}
		writeJSON(w, logger, http.StatusOK, product)
	}
}

// DeleteProductHandler обрабатывает DELETE /api/products/{id} (только администратор)
func DeleteProductHandler(log *slog.Logger, productService service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.DeleteProductHandler"
		logger := log.With(slog.String("op", op))

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, logger, http.StatusBadRequest, "invalid product id")
			return
		}

		if err := productService.Delete(r.Context(), id); err != nil {
			if errors.Is(err, storage.ErrProductNotFound) {
				writeError(w, logger, http.StatusNotFound, "product not found")
				return
			}
			logger.Error("failed to delete product", slog.Any("error", err))
			writeError(w, logger, http.StatusInternalServerError, "failed to delete product")
			return
		}
		writeJSON(w, logger, http.StatusOK, map[string]string{"message": "product deleted"})
	}
}
