package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"livemart-be/internal/account"
	"livemart-be/internal/api"
	"livemart-be/internal/cart"
	"livemart-be/internal/category"
	"livemart-be/internal/config"
	"livemart-be/internal/db"
	"livemart-be/internal/feedback"
	"livemart-be/internal/logger"
	"livemart-be/internal/mail"
	"livemart-be/internal/oauth"
	"livemart-be/internal/order"
	"livemart-be/internal/otp"
	"livemart-be/internal/product"
	"livemart-be/internal/wholesale"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	mailer := mail.NewSMTPDispatcher(cfg)

	otpRepo := otp.NewRepository(database)
	otpSvc := otp.NewService(otpRepo)

	accountRepo := account.NewRepository(database)
	accountSvc := account.NewService(accountRepo, otpSvc, mailer, cfg.JWTSecret)

	categoryRepo := category.NewRepository(database)

	productRepo := product.NewRepository(database)
	productSvc := product.NewService(productRepo)

	cartRepo := cart.NewRepository(database)
	cartSvc := cart.NewService(cartRepo, productRepo)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, mailer)

	wholesaleRepo := wholesale.NewRepository(database)
	wholesaleSvc := wholesale.NewService(wholesaleRepo)

	feedbackRepo := feedback.NewRepository(database)
	feedbackSvc := feedback.NewService(feedbackRepo, productRepo)

	google := oauth.NewGoogleClient(cfg)

	server := api.NewServer(cfg, accountSvc, productSvc, categoryRepo,
		cartSvc, orderSvc, wholesaleSvc, feedbackSvc, mailer, google)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: server.Routes(),
	}

	go func() {
		log.Printf("🚀 Live MART API running at http://localhost:%s/", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down, draining in-flight requests")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("server stopped")
}
