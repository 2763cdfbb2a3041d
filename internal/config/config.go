package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port     int
	APIToken string
	DevMode  bool
	LogLevel string

	// DatabaseConnStr empty means the server runs on in-memory storage
	DatabaseConnStr string

	// SimulatedPrices swaps the live price feeds for a local simulator
	SimulatedPrices bool
	VsCurrency      string

	PriceRefreshInterval time.Duration
	NewsRefreshInterval  time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:                 getEnvAsInt("PORT", 8080),
		APIToken:             getEnv("API_TOKEN", "dev-token"),
		DevMode:              getEnvAsBool("DEV_MODE", false),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		DatabaseConnStr:      databaseConnStr(),
		SimulatedPrices:      getEnvAsBool("SIMULATED_PRICES", false),
		VsCurrency:           getEnv("VS_CURRENCY", "inr"),
		PriceRefreshInterval: getEnvAsDuration("PRICE_REFRESH_INTERVAL", 60*time.Second),
		NewsRefreshInterval:  getEnvAsDuration("NEWS_REFRESH_INTERVAL", 5*time.Minute),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT %d is out of range", c.Port)
	}
	if c.APIToken == "" {
		return fmt.Errorf("API_TOKEN is required")
	}
	if c.PriceRefreshInterval <= 0 {
		return fmt.Errorf("PRICE_REFRESH_INTERVAL must be positive")
	}
	if c.NewsRefreshInterval <= 0 {
		return fmt.Errorf("NEWS_REFRESH_INTERVAL must be positive")
	}
	return nil
}

// databaseConnStr resolves the Postgres connection string. An explicit
// DB_CONN_STR wins; otherwise it is built from individual DB_* vars
// (Docker friendly). An empty DB_HOST with no DB_CONN_STR means no
// database at all, which selects the in-memory repositories.
func databaseConnStr() string {
	if connStr := os.Getenv("DB_CONN_STR"); connStr != "" {
		return connStr
	}

	host := os.Getenv("DB_HOST")
	if host == "" {
		return ""
	}

	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "postgres")
	password := getEnv("DB_PASSWORD", "postgres")
	dbname := getEnv("DB_NAME", "finboard")

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
