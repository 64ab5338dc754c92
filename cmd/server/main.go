package main

import (
	"net/http"
	"os"
	"time"

	"maison-be/internal/booking"
	"maison-be/internal/cart"
	"maison-be/internal/category"
	"maison-be/internal/config"
	"maison-be/internal/db"
	"maison-be/internal/logger"
	"maison-be/internal/order"
	"maison-be/internal/payment"
	"maison-be/internal/payment/webhook"
	"maison-be/internal/product"
	"maison-be/internal/salonservice"
	"maison-be/internal/transport/httpapi"
	"maison-be/internal/user"
	"maison-be/internal/worker"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()
	database := db.InitDB(cfg)
	defer database.Close()

	loc, err := time.LoadLocation(cfg.BusinessTimezone)
	if err != nil {
		logger.L().Warn("failed to load business timezone, using UTC",
			zap.String("timezone", cfg.BusinessTimezone),
			zap.Error(err),
		)
		loc = time.UTC
	}

	productRepo := product.NewRepository(database)
	productSvc := product.NewService(productRepo)

	serviceRepo := salonservice.NewRepository(database)

	categoryRepo := category.NewRepository(database)
	categorySvc := category.NewService(categoryRepo)

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo)

	cartRepo := cart.NewRepository(database)
	cartSvc := cart.NewService(cartRepo, productRepo)
	merges := cart.NewMergeRegistry(cartRepo, productRepo)

	bookingRepo := booking.NewRepository(database)
	bookingSvc := booking.NewService(bookingRepo, loc)

	paymentRepo := payment.NewRepository(database)
	paymentGate := payment.NewGateway(cfg.PaymentSecretKey)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, paymentRepo, paymentGate)

	sweeper := worker.NewSweeper(bookingRepo, 12*time.Hour)
	if err := sweeper.Start("@hourly"); err != nil {
		logger.L().Error("failed to start booking sweeper", zap.Error(err))
	}
	defer sweeper.Stop()

	router := httpapi.NewRouter(httpapi.Handlers{
		Auth:     httpapi.NewAuthHandler(userSvc, merges),
		Product:  httpapi.NewProductHandler(productSvc, serviceRepo),
		Category: httpapi.NewCategoryHandler(categorySvc),
		Cart:     httpapi.NewCartHandler(cartSvc, merges),
		Booking:  httpapi.NewBookingHandler(bookingSvc, serviceRepo, loc),
		Order:    httpapi.NewOrderHandler(orderSvc),
		Webhook:  webhook.NewWebhookHandler(orderSvc, bookingSvc, paymentGate),
	})

	addr := ":" + cfg.AppPort
	logger.L().Info("server listening", zap.String("addr", addr))

	if err := http.ListenAndServe(addr, router); err != nil {
		logger.L().Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}
