package config

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	EventsBackendNone  = "none"
	EventsBackendAMQP  = "amqp"
	EventsBackendKafka = "kafka"
)

// Config holds application configuration.
type Config struct {
	// Storage
	DBDriver           string
	DatabaseURL        string
	SQLitePath         string
	RunMigrations      bool
	DBOperationTimeout time.Duration

	// Balance
	AccountName string
	Location    *time.Location

	// HTTP
	Port               string
	IsProduction       bool
	LogLevel           slog.Level
	CORSAllowedOrigins []string
	RateLimit          string

	// Operator auth
	JWTSecret            string
	JWTExpiryDuration    time.Duration
	JWTIssuer            string
	OperatorUsername     string
	OperatorPasswordHash string
	OperatorEmail        string

	// External OAuth Providers
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	// Analytics
	PosthogAPIKey   string
	PosthogEndpoint string

	// Events
	EventsBackend string
	AMQPURL       string
	AMQPExchange  string
	AMQPQueue     string
	KafkaBrokers  []string
	KafkaTopic    string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DB_DRIVER", DBDriverSQLite)
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("SQLITE_PATH", "./data/balance.db")
	v.SetDefault("RUN_MIGRATIONS", true)
	v.SetDefault("DB_OPERATION_TIMEOUT", "10s")
	v.SetDefault("ACCOUNT_NAME", "Voya 401(k)")
	v.SetDefault("TIMEZONE", "Local")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT", "10-M")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_EXPIRY_DURATION", "1h")
	v.SetDefault("JWT_ISSUER", "balance-updater")
	v.SetDefault("OPERATOR_USERNAME", "operator")
	v.SetDefault("OPERATOR_PASSWORD_HASH", "")
	v.SetDefault("OPERATOR_EMAIL", "")
	v.SetDefault("GOOGLE_CLIENT_ID", "")
	v.SetDefault("GOOGLE_CLIENT_SECRET", "")
	v.SetDefault("GOOGLE_REDIRECT_URL", "")
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("POSTHOG_ENDPOINT", "https://us.i.posthog.com")
	v.SetDefault("EVENTS_BACKEND", EventsBackendNone)
	v.SetDefault("AMQP_URL", "")
	v.SetDefault("AMQP_EXCHANGE", "balance")
	v.SetDefault("AMQP_QUEUE", "balance_recorded")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "balance_recorded")
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	return LoadConfigWithFlags(nil)
}

// LoadConfigWithFlags is LoadConfig with command line overrides. A flag overrides the
// key matching its upper-snake name, so --db-driver overrides DB_DRIVER.
func LoadConfigWithFlags(flags *pflag.FlagSet) (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			key := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if err := v.BindPFlag(key, f); err != nil && bindErr == nil {
				bindErr = fmt.Errorf("failed to bind flag %s: %w", f.Name, err)
			}
		})
		if bindErr != nil {
			return nil, bindErr
		}
	}

	cfg := &Config{
		DBDriver:             strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER"))),
		DatabaseURL:          v.GetString("PGSQL_URL"),
		SQLitePath:           v.GetString("SQLITE_PATH"),
		RunMigrations:        v.GetBool("RUN_MIGRATIONS"),
		AccountName:          strings.TrimSpace(v.GetString("ACCOUNT_NAME")),
		Port:                 v.GetString("PORT"),
		IsProduction:         v.GetBool("IS_PRODUCTION"),
		RateLimit:            v.GetString("RATE_LIMIT"),
		CORSAllowedOrigins:   splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		JWTSecret:            v.GetString("JWT_SECRET"),
		JWTIssuer:            v.GetString("JWT_ISSUER"),
		OperatorUsername:     v.GetString("OPERATOR_USERNAME"),
		OperatorPasswordHash: v.GetString("OPERATOR_PASSWORD_HASH"),
		OperatorEmail:        strings.ToLower(strings.TrimSpace(v.GetString("OPERATOR_EMAIL"))),
		GoogleClientID:       v.GetString("GOOGLE_CLIENT_ID"),
		GoogleClientSecret:   v.GetString("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:    v.GetString("GOOGLE_REDIRECT_URL"),
		PosthogAPIKey:        v.GetString("POSTHOG_API_KEY"),
		PosthogEndpoint:      v.GetString("POSTHOG_ENDPOINT"),
		EventsBackend:        strings.ToLower(strings.TrimSpace(v.GetString("EVENTS_BACKEND"))),
		AMQPURL:              v.GetString("AMQP_URL"),
		AMQPExchange:         v.GetString("AMQP_EXCHANGE"),
		AMQPQueue:            v.GetString("AMQP_QUEUE"),
		KafkaBrokers:         splitList(v.GetString("KAFKA_BROKERS")),
		KafkaTopic:           v.GetString("KAFKA_TOPIC"),
	}

	var err error
	if cfg.DBOperationTimeout, err = time.ParseDuration(v.GetString("DB_OPERATION_TIMEOUT")); err != nil {
		return nil, fmt.Errorf("invalid DB_OPERATION_TIMEOUT %q: %w", v.GetString("DB_OPERATION_TIMEOUT"), err)
	}
	if cfg.JWTExpiryDuration, err = time.ParseDuration(v.GetString("JWT_EXPIRY_DURATION")); err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRY_DURATION %q: %w", v.GetString("JWT_EXPIRY_DURATION"), err)
	}
	if cfg.Location, err = time.LoadLocation(v.GetString("TIMEZONE")); err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", v.GetString("TIMEZONE"), err)
	}
	if err = cfg.LogLevel.UnmarshalText([]byte(v.GetString("LOG_LEVEL"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", v.GetString("LOG_LEVEL"), err)
	}

	return cfg, nil
}

// Validate checks the storage and publishing settings every binary depends on.
func (c *Config) Validate() error {
	var errs []string

	switch c.DBDriver {
	case DBDriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, "PGSQL_URL is required when DB_DRIVER=postgres")
		}
	case DBDriverSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, "SQLITE_PATH is required when DB_DRIVER=sqlite")
		}
	default:
		errs = append(errs, fmt.Sprintf("invalid DB_DRIVER '%s': must be one of [%s %s]", c.DBDriver, DBDriverPostgres, DBDriverSQLite))
	}

	if c.AccountName == "" {
		errs = append(errs, "ACCOUNT_NAME cannot be empty")
	}
	if c.DBOperationTimeout < 0 {
		errs = append(errs, "DB_OPERATION_TIMEOUT cannot be negative")
	}

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.EventsBackend {
	case "", EventsBackendNone:
	case EventsBackendAMQP:
		if c.AMQPURL == "" {
			errs = append(errs, "AMQP_URL is required when EVENTS_BACKEND=amqp")
		}
	case EventsBackendKafka:
		if len(c.KafkaBrokers) == 0 {
			errs = append(errs, "KAFKA_BROKERS is required when EVENTS_BACKEND=kafka")
		}
		if c.KafkaTopic == "" {
			errs = append(errs, "KAFKA_TOPIC is required when EVENTS_BACKEND=kafka")
		}
	default:
		errs = append(errs, fmt.Sprintf("invalid EVENTS_BACKEND '%s': must be one of [%s %s %s]", c.EventsBackend, EventsBackendNone, EventsBackendAMQP, EventsBackendKafka))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// ValidateServer adds the checks only the HTTP API needs.
func (c *Config) ValidateServer() error {
	var errs []string
	if err := c.Validate(); err != nil {
		errs = append(errs, err.Error())
	}
	if c.JWTSecret == "" {
		errs = append(errs, "JWT_SECRET is required to run the API")
	} else if c.IsProduction && len(c.JWTSecret) < 32 {
		errs = append(errs, "JWT_SECRET must be at least 32 characters in production")
	}
	if c.JWTExpiryDuration <= 0 {
		errs = append(errs, "JWT_EXPIRY_DURATION must be positive")
	}
	if c.OperatorPasswordHash == "" && c.OperatorEmail == "" {
		errs = append(errs, "set OPERATOR_PASSWORD_HASH or OPERATOR_EMAIL so an operator can sign in")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "\n"))
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
