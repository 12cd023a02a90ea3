package config

import (
	"log"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Supported values of DB_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds application configuration.
type Config struct {
	DBDriver     string
	SQLitePath   string
	DatabaseURL  string
	PgMaxConns   int32
	ClearData    bool
	Port         string
	IsProduction bool
	LogLevel     slog.Level

	// BudgetAlertThreshold is the consumed percentage at which a budget alerts.
	BudgetAlertThreshold decimal.Decimal

	// ResetRateLimit is a ulule limiter formatted rate, e.g. "5-M".
	ResetRateLimit     string
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("SQLITE_PATH", "data/finance_manager.db")
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PGSQL_MAX_CONNS", 10)
	v.SetDefault("DATA_CLEAR", false)
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("BUDGET_ALERT_THRESHOLD", "90")
	v.SetDefault("RESET_RATE_LIMIT", "5-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	// Environment variables override defaults and .env values
	v.AutomaticEnv()

	cfg := &Config{}

	cfg.DBDriver = strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER")))
	switch cfg.DBDriver {
	case DriverSQLite, DriverPostgres:
	case "pgsql", "postgresql":
		cfg.DBDriver = DriverPostgres
	default:
		log.Printf("Warning: unknown DB_DRIVER ('%s'). Defaulting to %s.\n", cfg.DBDriver, DriverSQLite)
		cfg.DBDriver = DriverSQLite
	}

	cfg.SQLitePath = v.GetString("SQLITE_PATH")
	cfg.DatabaseURL = v.GetString("PGSQL_URL")
	if cfg.DBDriver == DriverPostgres && cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.PgMaxConns = v.GetInt32("PGSQL_MAX_CONNS")
	if cfg.PgMaxConns <= 0 {
		cfg.PgMaxConns = 10
		log.Printf("Warning: invalid PGSQL_MAX_CONNS. Defaulting to %d.\n", cfg.PgMaxConns)
	}

	cfg.ClearData = v.GetBool("DATA_CLEAR")
	if cfg.ClearData {
		log.Println("Warning: DATA_CLEAR is set, all tables will be dropped on startup.")
	}

	cfg.Port = v.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = v.GetBool("IS_PRODUCTION")

	levelStr := v.GetString("LOG_LEVEL")
	if err := cfg.LogLevel.UnmarshalText([]byte(levelStr)); err != nil {
		cfg.LogLevel = slog.LevelInfo
		log.Printf("Warning: Invalid value for LOG_LEVEL ('%s'). Defaulting to %s.\n", levelStr, cfg.LogLevel.String())
	}

	thresholdStr := v.GetString("BUDGET_ALERT_THRESHOLD")
	threshold, err := decimal.NewFromString(thresholdStr)
	if err != nil || !threshold.IsPositive() {
		threshold = decimal.NewFromInt(90)
		log.Printf("Warning: Invalid value for BUDGET_ALERT_THRESHOLD ('%s'). Defaulting to %s.\n", thresholdStr, threshold.String())
	}
	cfg.BudgetAlertThreshold = threshold

	cfg.ResetRateLimit = v.GetString("RESET_RATE_LIMIT")
	if cfg.ResetRateLimit == "" {
		cfg.ResetRateLimit = "5-M"
	}

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"*"}
	}

	return cfg, nil
}
