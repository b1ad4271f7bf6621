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

	// Currency is the single ISO code this deployment charges in.
	// All amounts are integers in its minor unit (paise for INR).
	Currency string

	// PaymentMethodCode selects which payment_methods row holds the
	// Razorpay credentials for this deployment.
	PaymentMethodCode string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:            os.Getenv("DB_HOST"),
		DBUser:            os.Getenv("DB_USER"),
		DBPassword:        os.Getenv("DB_PASSWORD"),
		DBName:            os.Getenv("DB_NAME"),
		DBPort:            os.Getenv("DB_PORT"),
		AppPort:           os.Getenv("APP_PORT"),
		AppEnv:            os.Getenv("APP_ENV"),
		Currency:          os.Getenv("CURRENCY"),
		PaymentMethodCode: os.Getenv("PAYMENT_METHOD_CODE"),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	if cfg.Currency == "" {
		cfg.Currency = "INR"
	}
	if cfg.PaymentMethodCode == "" {
		cfg.PaymentMethodCode = "razorpay"
	}

	return cfg
}
