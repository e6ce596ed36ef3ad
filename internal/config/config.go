package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	AppPort    string
	AppEnv     string

	JWTSecret string

	MailHost     string
	MailPort     string
	MailUsername string
	MailPassword string
	MailFrom     string
	AdminEmail   string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	ProductImageDir   string
	ProfilePictureDir string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     os.Getenv("DB_PORT"),
		AppPort:    os.Getenv("APP_PORT"),
		AppEnv:     os.Getenv("APP_ENV"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		MailHost:     os.Getenv("MAIL_SERVER"),
		MailPort:     os.Getenv("MAIL_PORT"),
		MailUsername: os.Getenv("MAIL_USERNAME"),
		MailPassword: os.Getenv("MAIL_PASSWORD"),
		MailFrom:     os.Getenv("MAIL_FROM"),
		AdminEmail:   os.Getenv("ADMIN_EMAIL"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET_KEY"),
		GoogleRedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),

		ProductImageDir:   os.Getenv("PRODUCT_IMAGE_DIR"),
		ProfilePictureDir: os.Getenv("PROFILE_PICTURE_DIR"),
	}

	if cfg.AppPort == "" {
		cfg.AppPort = "8000"
	}
	if cfg.ProductImageDir == "" {
		cfg.ProductImageDir = "./data/product_images"
	}
	if cfg.ProfilePictureDir == "" {
		cfg.ProfilePictureDir = "./data/profile_pictures"
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	return cfg
}
