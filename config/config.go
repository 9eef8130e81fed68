package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Config holds all configuration for the application
type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string
	Port       string
	Env        string
	// ReturnEligibleFrom is the earliest preorder status from which a
	// customer may request a return: "delivered" (default) or "shipping".
	ReturnEligibleFrom string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		return nil, fmt.Errorf("error loading .env file: %v", err)
	}

	config := &Config{
		DBHost:             os.Getenv("DB_HOST"),
		DBPort:             os.Getenv("DB_PORT"),
		DBUser:             os.Getenv("DB_USER"),
		DBPassword:         os.Getenv("DB_PASSWORD"),
		DBName:             os.Getenv("DB_NAME"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		Port:               os.Getenv("PORT"),
		Env:                os.Getenv("ENV"),
		ReturnEligibleFrom: os.Getenv("RETURN_ELIGIBLE_FROM"),
	}
	if config.ReturnEligibleFrom == "" {
		config.ReturnEligibleFrom = "delivered"
	}

	return config, nil
}

// ReturnEligibleFrom returns the configured return eligibility policy,
// falling back to "delivered" when the environment is not loaded.
func ReturnEligibleFrom() string {
	policy := os.Getenv("RETURN_ELIGIBLE_FROM")
	if policy != "shipping" {
		return "delivered"
	}
	return policy
}
