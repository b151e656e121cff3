package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
)

const (
	productionAPIBaseURL  = "https://gift-shops-backend.onrender.com/api/v1"
	developmentAPIBaseURL = "http://localhost:5000/api/v1"
)

var AppEnv Config

type Config struct {
	Environment      string
	Port             string
	APIBaseURL       string
	MongoURI         string
	DBName           string
	TokenCookieTTL   time.Duration
	SessionIdleTTL   time.Duration
	// SessionCookieTTL bounds the sid cookie, not the in-memory session.
	SessionCookieTTL time.Duration
	CookieSecure     bool
	AllowedOrigins   []string
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	environment := getEnvOrDefault("APP_ENV", "development")
	AppEnv = Config{
		Environment:      environment,
		Port:             getEnvOrDefault("PORT", "8080"),
		APIBaseURL:       getEnvOrDefault("API_BASE_URL", defaultAPIBaseURL(environment)),
		MongoURI:         getEnvOrDefault("MONGO_URI", ""),
		DBName:           getEnvOrDefault("DB_NAME", "storefront"),
		TokenCookieTTL:   getDurationEnv("TOKEN_COOKIE_TTL", 7, 24*time.Hour),
		SessionIdleTTL:   getDurationEnv("SESSION_IDLE_TTL", 30, time.Minute),
		SessionCookieTTL: getDurationEnv("SESSION_COOKIE_TTL", 7, 24*time.Hour),
		CookieSecure:     getBoolEnv("COOKIE_SECURE", false),
		AllowedOrigins:   getListEnv("ALLOWED_ORIGINS"),
	}
}

// IsProduction reports whether the storefront talks to the production backend.
func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func defaultAPIBaseURL(environment string) string {
	if environment == "production" {
		return productionAPIBaseURL
	}
	return developmentAPIBaseURL
}
