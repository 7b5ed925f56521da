package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string
	MongoURL   string
	DBName     string
	ClientURL  string

	JWTSecret []byte
	JWTTTL    time.Duration

	AllowedOrigins []string

	Stripe struct {
		SecretKey     string
		WebhookSecret string
	}

	Cloudinary struct {
		CloudName string
		APIKey    string
		APISecret string
	}
}

func Load() (*Config, error) {
	// Load .env file if it exists (useful for local dev)
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.ServerPort = os.Getenv("SERVER_PORT")
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}

	cfg.MongoURL = os.Getenv("MONGO_URL")
	if cfg.MongoURL == "" {
		return nil, fmt.Errorf("MONGO_URL must be set")
	}

	cfg.DBName = os.Getenv("DB_NAME")
	if cfg.DBName == "" {
		cfg.DBName = "bazario"
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}
	cfg.JWTSecret = []byte(secret)

	cfg.JWTTTL = 24 * time.Hour
	if ttl := os.Getenv("JWT_TTL_HOURS"); ttl != "" {
		hours, err := strconv.Atoi(ttl)
		if err != nil || hours <= 0 {
			return nil, fmt.Errorf("JWT_TTL_HOURS must be a positive integer")
		}
		cfg.JWTTTL = time.Duration(hours) * time.Hour
	}

	cfg.ClientURL = os.Getenv("CLIENT_URL")
	if cfg.ClientURL == "" {
		cfg.ClientURL = "http://localhost:3000"
	}

	if origin := os.Getenv("CORS_ORIGIN"); origin != "" {
		cfg.AllowedOrigins = []string{origin}
	} else {
		cfg.AllowedOrigins = []string{cfg.ClientURL}
	}

	cfg.Stripe.SecretKey = os.Getenv("STRIPE_SECRET_KEY")
	cfg.Stripe.WebhookSecret = os.Getenv("STRIPE_WEBHOOK_SECRET")

	cfg.Cloudinary.CloudName = os.Getenv("CLOUDINARY_CLOUD_NAME")
	cfg.Cloudinary.APIKey = os.Getenv("CLOUDINARY_API_KEY")
	cfg.Cloudinary.APISecret = os.Getenv("CLOUDINARY_API_SECRET")

	return cfg, nil
}
