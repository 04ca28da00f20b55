package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ArowuTest/valera-classroom/internal/game"
	"github.com/spf13/viper"
)

// DefaultJWTSecret is only meant for local runs; main warns when it is used.
const DefaultJWTSecret = "valera-dev-secret"

// Storage drivers.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Balance modes of the game sessions.
const (
	BalanceLocal  = "local"
	BalanceRemote = "remote"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	MongoDB  MongoDBConfig
	Postgres PostgresConfig
	JWT      JWTConfig
	Admin    AdminConfig
	Game     GameConfig
	LogLevel string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port            string
	AllowedHosts    []string
	StaticDir       string
	StaticURL       string
	ShutdownTimeout time.Duration
}

// StorageConfig selects the repository backend
type StorageConfig struct {
	Driver string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// PostgresConfig holds PostgreSQL-specific configuration
type PostgresConfig struct {
	DSN string
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int // seconds
}

// AdminConfig is the account created at startup when it does not exist
type AdminConfig struct {
	Username string
	Password string
}

// GameConfig holds the game session settings
type GameConfig struct {
	RulesFile      string
	BalanceMode    string
	RemoteBaseURL  string
	RemoteToken    string
	RemoteTimeout  time.Duration
	ValeraPrizes   []string
	StudentsPrizes []string
}

// Load loads configuration from config.yaml, the environment and defaults.
// An explicit path overrides the search in "." and "./config".
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("Server.Port", "5000")
	v.SetDefault("Server.AllowedHosts", []string{"localhost:5000"})
	v.SetDefault("Server.StaticDir", "./static")
	v.SetDefault("Server.StaticURL", "/static/")
	v.SetDefault("Server.ShutdownTimeout", 5*time.Second)
	v.SetDefault("Storage.Driver", DriverMemory)
	v.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	v.SetDefault("MongoDB.Database", "valera")
	v.SetDefault("MongoDB.Timeout", 10*time.Second)
	v.SetDefault("Postgres.DSN", "postgres://localhost:5432/valera?sslmode=disable")
	v.SetDefault("JWT.Secret", DefaultJWTSecret)
	v.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	v.SetDefault("Admin.Username", "admin")
	v.SetDefault("Admin.Password", "admin")
	v.SetDefault("Game.RulesFile", "")
	v.SetDefault("Game.BalanceMode", BalanceLocal)
	v.SetDefault("Game.RemoteBaseURL", "")
	v.SetDefault("Game.RemoteToken", "")
	v.SetDefault("Game.RemoteTimeout", 10*time.Second)
	v.SetDefault("Game.ValeraPrizes", []string{})
	v.SetDefault("Game.StudentsPrizes", []string{})
	v.SetDefault("LogLevel", "info")
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMongo, DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	switch c.Game.BalanceMode {
	case BalanceLocal:
	case BalanceRemote:
		if c.Game.RemoteBaseURL == "" {
			return errors.New("game.remotebaseurl is required in remote balance mode")
		}
	default:
		return fmt.Errorf("unknown balance mode %q", c.Game.BalanceMode)
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret must not be empty")
	}
	if c.JWT.ExpiresIn <= 0 {
		return errors.New("jwt.expiresin must be positive")
	}
	return nil
}

// TokenTTL is the lifetime of admin tokens.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWT.ExpiresIn) * time.Second
}

// GameRules loads the rules file and applies the prize lists injected
// through configuration.
func (c *Config) GameRules() (game.Rules, error) {
	rules, err := game.LoadRules(c.Game.RulesFile)
	if err != nil {
		return game.Rules{}, err
	}
	if prizes := game.ParsePrizes(c.Game.ValeraPrizes); len(prizes) > 0 {
		rules.Prizes.Valera = prizes
	}
	if prizes := game.ParsePrizes(c.Game.StudentsPrizes); len(prizes) > 0 {
		rules.Prizes.Students = prizes
	}
	return rules, nil
}
