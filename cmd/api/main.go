package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bazario-backend/internal/config"
	"bazario-backend/internal/database"
	"bazario-backend/internal/handlers"
	"bazario-backend/internal/payments"
	"bazario-backend/internal/services"
	"bazario-backend/internal/uploads"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, db, err := database.Connect(ctx, cfg.MongoURL, cfg.DBName)
	if err != nil {
		log.Fatalf("mongodb: %v", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Printf("mongodb disconnect: %v", err)
		}
	}()

	if err := database.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("mongodb indexes: %v", err)
	}

	users := database.NewUserStore(db)
	products := database.NewProductStore(db)
	categories := database.NewCategoryStore(db)
	subcategories := database.NewSubCategoryStore(db)
	brands := database.NewBrandStore(db)
	carts := database.NewCartStore(db)
	orders := database.NewOrderStore(db)
	coupons := database.NewCouponStore(db)
	rentals := database.NewRentalStore(db)

	gateway := payments.NewClient(payments.Config{
		SecretKey:     cfg.Stripe.SecretKey,
		WebhookSecret: cfg.Stripe.WebhookSecret,
		SuccessURL:    cfg.ClientURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     cfg.ClientURL + "/cart",
	})
	uploader := uploads.NewClient(uploads.Config{
		CloudName: cfg.Cloudinary.CloudName,
		APIKey:    cfg.Cloudinary.APIKey,
		APISecret: cfg.Cloudinary.APISecret,
	})

	authSvc := services.NewAuthService(users, cfg.JWTSecret, cfg.JWTTTL)
	catalogSvc := services.NewCatalogService(products, categories, subcategories, brands)
	cartSvc := services.NewCartService(carts, products, coupons)
	checkoutSvc := services.NewCheckoutService(carts, orders, products, gateway)
	couponSvc := services.NewCouponService(coupons)
	usersSvc := services.NewUsersService(users, products)
	rentalSvc := services.NewRentalService(rentals, products)
	statsSvc := services.NewStatsService(users, products, orders, rentals)

	router := handlers.NewRouter(handlers.Deps{
		Auth:          handlers.NewAuthHandler(authSvc),
		Users:         handlers.NewUserHandler(usersSvc),
		Products:      handlers.NewProductHandler(catalogSvc, uploader),
		Categories:    handlers.NewCategoryHandler(catalogSvc),
		SubCategories: handlers.NewSubCategoryHandler(catalogSvc),
		Brands:        handlers.NewBrandHandler(catalogSvc),
		Cart:          handlers.NewCartHandler(cartSvc),
		Orders:        handlers.NewOrderHandler(checkoutSvc, cfg.Stripe.WebhookSecret),
		Coupons:       handlers.NewCouponHandler(couponSvc),
		Rentals:       handlers.NewRentalHandler(rentalSvc, uploader),
		Stats:         handlers.NewStatsHandler(statsSvc),

		Authenticator:  authSvc,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		log.Printf("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}
	log.Println("server stopped")
}
