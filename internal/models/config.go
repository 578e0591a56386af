package models

import "time"

// Config represents the application configuration
type Config struct {
	Store  StoreConfig
	Server ServerConfig
}

// StoreConfig selects the durable segment backend and holds the settings for each one
type StoreConfig struct {
	Backend  string // sqlite, bolt, redis or memory
	Database DatabaseConfig
	Bolt     BoltConfig
	Redis    RedisConfig
	SeedFile string
}

// DatabaseConfig holds SQLite connection settings
type DatabaseConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// BoltConfig holds BoltDB file settings
type BoltConfig struct {
	Path        string
	OpenTimeout time.Duration
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Port              string
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
	EnableH2C         bool
}
