// Package config reads process configuration from the environment, with
// an optional .env file for local development.
package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr      string
	DataDir   string
	JWTSecret string

	// UseSQLite selects the database path; when false tasks and time
	// logs live in the key-value store instead.
	UseSQLite bool

	Admin AccountConfig
	VA    AccountConfig
}

// AccountConfig seeds one of the two team members.
type AccountConfig struct {
	Name     string
	Email    string
	Password string
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("error loading .env: %v", err)
	}

	return Config{
		Addr:      getEnv("VATRACK_ADDR", ":8080"),
		DataDir:   getEnv("VATRACK_DATA_DIR", "data"),
		JWTSecret: getEnv("VATRACK_JWT_SECRET", "dev-secret-change-me"),
		UseSQLite: strings.EqualFold(getEnv("VATRACK_SQLITE", "true"), "true"),
		Admin: AccountConfig{
			Name:     getEnv("VATRACK_ADMIN_NAME", "Admin"),
			Email:    getEnv("VATRACK_ADMIN_EMAIL", "admin@example.com"),
			Password: getEnv("VATRACK_ADMIN_PASSWORD", "admin"),
		},
		VA: AccountConfig{
			Name:     getEnv("VATRACK_VA_NAME", "Assistant"),
			Email:    getEnv("VATRACK_VA_EMAIL", "va@example.com"),
			Password: getEnv("VATRACK_VA_PASSWORD", "assistant"),
		},
	}
}
