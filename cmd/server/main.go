package main

import (
	"context"

	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"

	"github.com/ampizza/pizza-shop/internal/app"
	"github.com/ampizza/pizza-shop/internal/app/handlers"
	"github.com/ampizza/pizza-shop/internal/config"
	"github.com/ampizza/pizza-shop/internal/geo"
	"github.com/ampizza/pizza-shop/internal/jwt-new/jwtmiddleware"
	"github.com/ampizza/pizza-shop/internal/lib/logger"
	"github.com/ampizza/pizza-shop/internal/lib/logger/handlers/urllog"
	"github.com/ampizza/pizza-shop/internal/realtime"
	"github.com/ampizza/pizza-shop/internal/service"
	"github.com/ampizza/pizza-shop/internal/storage"
)

func main() {
	// загрузка конфигурации
	cfg := config.MustLoad()

	// инициализация логгера, зависит от настройки окружения
	log := logger.SetupLogger(cfg.Env)
	log.Info("starting app", slog.String("env", cfg.Env))

	// загружаем объект приложения, конфигом и подключением к БД
	application, err := app.NewApp(log, cfg)
	if err != nil {
		log.Error("failed to initialize app", slog.Any("error", err))
		panic(errors.Wrap(err, "failed to initialize app"))
	}
	defer application.DB.Close()

	// хаб комнат живёт в процессе; при включённой общей шине события
	// дополнительно уходят в Redis и доходят до остальных инстансов
	hub := realtime.NewHub(log)
	var broadcaster realtime.Broadcaster = hub
	if cfg.Redis.Enabled {
		bridge := realtime.NewRedisBridge(log, cfg.Redis.Address, cfg.Redis.Channel, hub)
		defer bridge.Close()
		go func() {
			if err := bridge.Run(context.Background()); err != nil {
				log.Error("event bus bridge stopped", slog.Any("error", err))
			}
		}()
		broadcaster = bridge
	}

	router := chi.NewRouter()
	// настройка middleware
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	// реализация слоев по работе с БД по каждому направлению
	userRepo := storage.NewUserRepository(application.DB)
	productRepo := storage.NewProductRepository(application.DB)
	orderRepo := storage.NewOrderRepository(application.DB)
	reviewRepo := storage.NewReviewRepository(application.DB)
	offerRepo := storage.NewOfferRepository(application.DB)
	salesRepo := storage.NewSalesRepository(application.DB)

	resolver := geo.NewHTTPResolver(cfg.Delivery.GeocoderURL, cfg.Delivery.GeocoderTimeout)

	authService := service.NewAuthService(application.Logger, userRepo, time.Duration(cfg.JWT.TokenTTL)*time.Minute)
	deliveryService := service.NewDeliveryService(application.Logger, resolver, cfg.Delivery)
	orderService := service.NewOrderService(application.Logger, application.DB, orderRepo, productRepo, deliveryService, broadcaster)
	productService := service.NewProductService(application.Logger, productRepo)
	reviewService := service.NewReviewService(application.Logger, reviewRepo)
	offerService := service.NewOfferService(application.Logger, offerRepo)
	salesService := service.NewSalesService(application.Logger, salesRepo)

	jwtMW := jwtmiddleware.NewJWTMiddleware()

	// публичная витрина и аутентификация
	router.Post("/api/auth/register", handlers.RegisterHandler(application.Logger, authService))
	router.Post("/api/auth/login", handlers.LoginHandler(application.Logger, authService))
	router.Post("/api/auth/forgot-password", handlers.ForgotPasswordHandler(application.Logger, authService))
	router.Post("/api/auth/reset-password/{token}", handlers.ResetPasswordHandler(application.Logger, authService))
	router.Get("/api/products", handlers.ListProductsHandler(application.Logger, productService))
	router.Get("/api/products/{id}", handlers.GetProductHandler(application.Logger, productService))
	router.Get("/api/offers", handlers.ListOffersHandler(application.Logger, offerService))
	router.Get("/api/offers/{offerID}", handlers.GetOfferHandler(application.Logger, offerService))
	router.Get("/api/reviews", handlers.ListReviewsHandler(application.Logger, reviewService))
	router.Post("/api/delivery/calculate", handlers.CalculateDeliveryHandler(application.Logger, deliveryService))

	// страница отслеживания доступна по идентификатору заказа без токена
	router.Get("/api/orders/{id}", handlers.GetOrderHandler(application.Logger, orderService))

	// чекаут и живые события работают и для гостя, и для вошедшего:
	// токен разбирается, если передан
	router.Group(func(r chi.Router) {
		r.Use(jwtmiddleware.Optional())
		r.Post("/api/orders", handlers.CreateOrderHandler(application.Logger, orderService))
		r.Post("/api/reviews", handlers.CreateReviewHandler(application.Logger, reviewService))
		r.Get("/api/events", handlers.EventsHandler(application.Logger, hub))
	})

	// личный кабинет
	router.Group(func(r chi.Router) {
		r.Use(jwtMW)
		r.Get("/api/auth/profile", handlers.ProfileHandler(application.Logger, authService))
		r.Put("/api/auth/update-profile", handlers.UpdateProfileHandler(application.Logger, authService))
	})

	// панель администратора
	router.Group(func(r chi.Router) {
		r.Use(jwtMW)
		r.Use(jwtmiddleware.AdminOnly)
		r.Get("/api/orders", handlers.ListOrdersHandler(application.Logger, orderService))
		r.Put("/api/orders/{id}/status", handlers.UpdateOrderStatusHandler(application.Logger, orderService))
		r.Post("/api/orders/{id}/ready", handlers.MarkReadyHandler(application.Logger, orderService))
		r.Post("/api/products", handlers.CreateProductHandler(application.Logger, productService))
		r.Put("/api/products/{id}", handlers.UpdateProductHandler(application.Logger, productService))
		r.Delete("/api/products/{id}", handlers.DeleteProductHandler(application.Logger, productService))
		r.Get("/api/offers/all", handlers.ListAllOffersHandler(application.Logger, offerService))
		r.Post("/api/offers", handlers.CreateOfferHandler(application.Logger, offerService))
		r.Put("/api/offers/{offerID}", handlers.UpdateOfferHandler(application.Logger, offerService))
		r.Delete("/api/offers/{offerID}", handlers.DeleteOfferHandler(application.Logger, offerService))
		r.Get("/api/sales/report", handlers.SalesReportHandler(application.Logger, salesService))
		r.Get("/api/sales/stats", handlers.SalesStatsHandler(application.Logger, salesService))
	})

	srv := &http.Server{
		Addr:        cfg.HTTPServer.Address,
		Handler:     router,
		ReadTimeout: cfg.HTTPServer.Timeout,
		// запись не ограничиваем таймаутом: SSE-подключения живут часами
		IdleTimeout: cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.Any("error", err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	stopSign := <-stop
	log.Info("received shutdown signal", slog.String("signal", stopSign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", slog.Any("error", err))
	}
	log.Info("server gracefully stopped")
}
