// Package config provides configuration structures and validation for the
// ledger service. It handles environment-based configuration for the HTTP
// server, both databases, the event stream, the leaderboard cache and the
// ledger rules themselves.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config holds the complete application configuration. Each field represents
// a major subsystem and is validated during startup.
type Config struct {
	Application ApplicationConfig
	Logging     LoggingConfig
	Server      ServerConfig
	Postgres    PostgresConfig
	MongoDB     MongoDBConfig
	Kafka       KafkaConfig
	Redis       RedisConfig
	Ledger      LedgerConfig
	WorkerPool  WorkerPoolConfig
}

// ApplicationConfig contains general application configuration
type ApplicationConfig struct {
	Env  string
	Name string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port            int           // Port to listen on
	ShutdownTimeout time.Duration // Grace period for server shutdown
	ReadTimeout     time.Duration // Maximum duration for reading entire request
	WriteTimeout    time.Duration // Maximum duration for writing response
	IdleTimeout     time.Duration // Maximum duration to wait for next request
}

// PostgresConfig contains PostgreSQL configuration
type PostgresConfig struct {
	URL             string        // Database connection string
	MaxConns        int32         // Maximum number of open connections
	MinConns        int32         // Maximum number of idle connections
	ConnMaxLifetime time.Duration // Maximum lifetime of a connection
	ConnMaxIdleTime time.Duration // Maximum idle time of a connection
	MigrationsPath  string        // Path to migration files
}

// MongoDBConfig contains MongoDB configuration
type MongoDBConfig struct {
	URI             string
	Database        string
	Timeout         time.Duration
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
}

// KafkaConfig configures the committed-transaction event stream
type KafkaConfig struct {
	Enabled           bool // Event publishing is optional
	Brokers           string
	EventsTopic       string
	NumPartitions     int
	ReplicationFactor int
	WriteTimeout      time.Duration
}

// RedisConfig configures the optional leaderboard cache
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	CacheTTL time.Duration
}

// LedgerConfig contains the ledger business rules
type LedgerConfig struct {
	MinAmount       int64  // Smallest accepted operation amount
	MaxAmount       int64  // Largest accepted operation amount
	MainCurrency    string // Currency assumed when a request names none
	TransactionLog  bool   // Audit-log toggle for mutations
	HistoryPageSize int    // Page size of the default history view
	CurrenciesFile  string // Path to the currency definitions YAML
}

// WorkerPoolConfig contains worker pool configuration
type WorkerPoolConfig struct {
	Size int
}

// validate performs validation on the configuration values
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if strings.TrimSpace(c.Postgres.URL) == "" {
		return errors.New("postgres URL cannot be empty")
	}
	if strings.TrimSpace(c.MongoDB.URI) == "" {
		return errors.New("mongodb URI cannot be empty")
	}
	if strings.TrimSpace(c.MongoDB.Database) == "" {
		return errors.New("mongodb database name cannot be empty")
	}

	if c.Kafka.Enabled && strings.TrimSpace(c.Kafka.Brokers) == "" {
		return errors.New("kafka brokers cannot be empty when event publishing is enabled")
	}
	if c.Redis.Enabled && strings.TrimSpace(c.Redis.Addr) == "" {
		return errors.New("redis address cannot be empty when the cache is enabled")
	}

	if c.Ledger.MinAmount < 1 {
		return fmt.Errorf("minimum amount must be at least 1, got %d", c.Ledger.MinAmount)
	}
	if c.Ledger.MaxAmount < c.Ledger.MinAmount {
		return fmt.Errorf("maximum amount %d is below minimum amount %d", c.Ledger.MaxAmount, c.Ledger.MinAmount)
	}
	if strings.TrimSpace(c.Ledger.MainCurrency) == "" {
		return errors.New("main currency cannot be empty")
	}
	if c.Ledger.HistoryPageSize < 1 {
		return fmt.Errorf("history page size must be at least 1, got %d", c.Ledger.HistoryPageSize)
	}
	if strings.TrimSpace(c.Ledger.CurrenciesFile) == "" {
		return errors.New("currencies file path cannot be empty")
	}

	if c.WorkerPool.Size < 1 {
		return fmt.Errorf("worker pool size must be at least 1, got %d", c.WorkerPool.Size)
	}

	return nil
}
