package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

// Data source kinds
const (
	SourceFixture  = "fixture"
	SourceRemote   = "remote"
	SourceDatabase = "database"
)

// Database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var (
	ErrUnknownSource    = errors.New("unknown data source")
	ErrUnknownDriver    = errors.New("unknown database driver")
	ErrMissingRemoteURL = errors.New("REMOTE_BASE_URL is required for the remote data source")
)

type Config struct {
	Server   ServerConfig
	Source   SourceConfig
	Sessions SessionConfig
	Database DatabaseConfig
	Security SecurityConfig
}

type ServerConfig struct {
	Port             string
	Host             string
	Environment      string
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	CORSAllowOrigins []string
}

// SourceConfig selects and tunes the candidate source behind the query pipeline
type SourceConfig struct {
	Kind                string
	RemoteBaseURL       string
	RemoteTimeout       time.Duration
	BreakerMaxFailures  int
	BreakerResetTimeout time.Duration
	FixtureDelay        time.Duration
	StrictRecords       bool
	Location            *time.Location
}

// SessionConfig bounds the interactive query sessions kept in memory
type SessionConfig struct {
	MaxActive   int
	IdleTimeout time.Duration
}

type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	SQLitePath      string
	MaxConnections  int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
	SeedDatabase    bool
	MigrationsPath  string
	SeedsPath       string
	LogQueries      bool
}

type SecurityConfig struct {
	RateLimitPerSecond int
	RateLimitBurst     int
}

func Load() *Config {
	config := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			Environment:  getEnv("APP_ENV", "development"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
		},
		Source: SourceConfig{
			Kind:                strings.ToLower(getEnv("DATA_SOURCE", SourceFixture)),
			RemoteBaseURL:       strings.TrimRight(getEnv("REMOTE_BASE_URL", ""), "/"),
			RemoteTimeout:       getDurationEnv("REMOTE_TIMEOUT", 30*time.Second),
			BreakerMaxFailures:  getIntEnv("REMOTE_BREAKER_MAX_FAILURES", 5),
			BreakerResetTimeout: getDurationEnv("REMOTE_BREAKER_RESET_TIMEOUT", 30*time.Second),
			FixtureDelay:        getDurationEnv("FIXTURE_DELAY", 0),
			StrictRecords:       getBoolEnv("QUERY_STRICT_RECORDS", false),
		},
		Sessions: SessionConfig{
			MaxActive:   getIntEnv("SESSION_MAX_ACTIVE", 1000),
			IdleTimeout: getDurationEnv("SESSION_IDLE_TIMEOUT", 30*time.Minute),
		},
		Database: DatabaseConfig{
			Driver:          strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "txquery_user"),
			Password:        getEnv("DB_PASSWORD", "txquery_password"),
			Name:            getEnv("DB_NAME", "txquery_db"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			SQLitePath:      getEnv("DB_SQLITE_PATH", "transactions.db"),
			MaxConnections:  getIntEnv("DB_MAX_CONNECTIONS", 25),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
			AutoMigrate:     getBoolEnv("AUTO_MIGRATE", false),
			SeedDatabase:    getBoolEnv("SEED_DATABASE", false),
			MigrationsPath:  getEnv("DB_MIGRATIONS_PATH", "db/migrations"),
			SeedsPath:       getEnv("DB_SEEDS_PATH", "db/seeds"),
			LogQueries:      getBoolEnv("DB_LOG_QUERIES", false),
		},
		Security: SecurityConfig{
			RateLimitPerSecond: getIntEnv("RATE_LIMIT_PER_SECOND", 5),
			RateLimitBurst:     getIntEnv("RATE_LIMIT_BURST", 10),
		},
	}

	config.Server.CORSAllowOrigins = config.loadCORSAllowOrigins()
	config.Source.Location = loadLocation(getEnv("QUERY_TIMEZONE", "UTC"))

	return config
}

// Validate checks the combinations Load cannot default its way out of
func (c *Config) Validate() error {
	switch c.Source.Kind {
	case SourceFixture, SourceDatabase:
	case SourceRemote:
		if c.Source.RemoteBaseURL == "" {
			return ErrMissingRemoteURL
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSource, c.Source.Kind)
	}

	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Database.Driver)
	}

	return nil
}

func (c *DatabaseConfig) DSN() string {
	if c.Driver == DriverSQLite {
		return c.SQLitePath
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

func (c *Config) UsesDatabase() bool {
	return c.Source.Kind == SourceDatabase
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// loadLocation resolves the zone used for date-times that carry no offset, falling back to UTC
func loadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("WARNING: unknown QUERY_TIMEZONE %q, using UTC", name)
		return time.UTC
	}
	return loc
}

// loadCORSAllowOrigins retrieves CORS allowed origins from environment or returns default
func (c *Config) loadCORSAllowOrigins() []string {
	corsOrigins := os.Getenv("CORS_ALLOW_ORIGINS")

	if corsOrigins == "" {
		if c.IsProduction() {
			log.Println("WARNING: CORS_ALLOW_ORIGINS not set in production environment, defaulting to '*' (all origins). Consider setting specific origins for security.")
		} else {
			log.Println("INFO: CORS_ALLOW_ORIGINS not set, defaulting to '*' (all origins)")
		}
		return []string{"*"}
	}

	origins := strings.Split(corsOrigins, ",")
	for i, origin := range origins {
		origins[i] = strings.TrimSpace(origin)
	}

	log.Printf("CORS allowed origins configured: %v", origins)
	return origins
}
