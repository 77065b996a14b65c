package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type AppCfg struct {
	Env                 string `mapstructure:"env"`
	Port                int    `mapstructure:"port"`
	ReadTimeoutSeconds  int    `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds"`
	IdleTimeoutSeconds  int    `mapstructure:"idle_timeout_seconds"`
}

type MongoCfg struct {
	URI                   string `mapstructure:"uri"`
	Database              string `mapstructure:"database"`
	ConnectTimeoutSeconds int    `mapstructure:"connect_timeout_seconds"`
}

type JWTCfg struct {
	Secret           string `mapstructure:"secret"`
	Algorithm        string `mapstructure:"algorithm"`
	AccessTTLMinutes int    `mapstructure:"access_ttl_minutes"`
}

type SecurityCfg struct {
	PasswordMinLength int `mapstructure:"password_min_length"`
	PasswordMaxLength int `mapstructure:"password_max_length"`
	BcryptCost        int `mapstructure:"bcrypt_cost"`
}

type UserCfg struct {
	Collection string `mapstructure:"collection"`
}

type Config struct {
	App      AppCfg      `mapstructure:"app"`
	Mongo    MongoCfg    `mapstructure:"mongo"`
	JWT      JWTCfg      `mapstructure:"jwt"`
	Security SecurityCfg `mapstructure:"security"`
	User     UserCfg     `mapstructure:"user"`

	// Derived
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AccessTTL      time.Duration
	ConnectTimeout time.Duration
}

// Load reads the YAML config at path and applies environment overrides
// (AUTH_JWT_SECRET, AUTH_MONGO_URI, AUTH_APP_PORT, ...). A .env file is
// loaded first when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("AUTH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 8000)
	v.SetDefault("app.read_timeout_seconds", 15)
	v.SetDefault("app.write_timeout_seconds", 15)
	v.SetDefault("app.idle_timeout_seconds", 60)
	// empty defaults register the keys so AutomaticEnv can override them
	v.SetDefault("jwt.secret", "")
	v.SetDefault("mongo.uri", "")
	v.SetDefault("mongo.database", "")
	v.SetDefault("mongo.connect_timeout_seconds", 15)
	v.SetDefault("jwt.algorithm", "HS256")
	v.SetDefault("jwt.access_ttl_minutes", 30)
	v.SetDefault("security.password_min_length", 8)
	v.SetDefault("security.password_max_length", 100)
	v.SetDefault("security.bcrypt_cost", 0) // 0 selects the bcrypt default cost
	v.SetDefault("user.collection", "users")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.JWT.Secret == "" {
		return nil, errors.New("AUTH_JWT_SECRET is required (set in .env or config.yaml)")
	}
	if cfg.JWT.Algorithm != "HS256" {
		return nil, fmt.Errorf("unsupported jwt algorithm %q", cfg.JWT.Algorithm)
	}
	if cfg.Mongo.URI == "" {
		return nil, errors.New("AUTH_MONGO_URI is required")
	}
	if cfg.Mongo.Database == "" {
		return nil, errors.New("AUTH_MONGO_DATABASE is required")
	}

	cfg.ReadTimeout = time.Duration(cfg.App.ReadTimeoutSeconds) * time.Second
	cfg.WriteTimeout = time.Duration(cfg.App.WriteTimeoutSeconds) * time.Second
	cfg.IdleTimeout = time.Duration(cfg.App.IdleTimeoutSeconds) * time.Second
	cfg.AccessTTL = time.Duration(cfg.JWT.AccessTTLMinutes) * time.Minute
	cfg.ConnectTimeout = time.Duration(cfg.Mongo.ConnectTimeoutSeconds) * time.Second

	return cfg, nil
}
