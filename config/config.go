package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"coleccion-arte/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port    string `mapstructure:"port"`
	GinMode string `mapstructure:"gin_mode"`

	DBURL      string `mapstructure:"db_url"`
	DBUser     string `mapstructure:"db_user"`
	DBPassword string `mapstructure:"db_password"`
	DBHost     string `mapstructure:"db_host"`
	DBPort     string `mapstructure:"db_port"`
	DBName     string `mapstructure:"db_database"`

	JWTSecret          string        `mapstructure:"jwt_secret"`
	JWTTTL             time.Duration `mapstructure:"jwt_ttl"`
	MasterPasswordHash string        `mapstructure:"master_password_hash"`

	CORSOrigin string `mapstructure:"cors_origin"`
	UploadsDir string `mapstructure:"uploads_dir"`
	AssetsDir  string `mapstructure:"assets_dir"`
	BackupDir  string `mapstructure:"backup_dir"`

	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	StatsTTL      time.Duration `mapstructure:"stats_ttl"`

	LoginRate  float64 `mapstructure:"login_rate"`
	LoginBurst int     `mapstructure:"login_burst"`

	ChromePath string `mapstructure:"chrome_path"`
}

// LoadEnv reads a .env file into the process environment when present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found. Using system environment variables.")
	}
}

// Load builds the configuration from environment variables and defaults.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "4000")
	v.SetDefault("gin_mode", "debug")

	v.SetDefault("db_url", "")
	v.SetDefault("db_user", "")
	v.SetDefault("db_password", "")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_database", "")

	v.SetDefault("jwt_secret", "")
	v.SetDefault("jwt_ttl", time.Hour)
	v.SetDefault("master_password_hash", "")

	v.SetDefault("cors_origin", "http://localhost:5173")
	v.SetDefault("uploads_dir", "uploads")
	v.SetDefault("assets_dir", "assets")
	v.SetDefault("backup_dir", "backups")

	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("stats_ttl", 30*time.Second)

	v.SetDefault("login_rate", 5.0)
	v.SetDefault("login_burst", 10)

	v.SetDefault("chrome_path", "")
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("missing required environment variable: JWT_SECRET")
	}
	if c.DBURL == "" && c.DBName == "" {
		return errors.New("missing database configuration: set DB_URL or DB_DATABASE")
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive, got %s", c.JWTTTL)
	}
	return nil
}

// DSN returns DB_URL, or a postgres URL assembled from the DB_* parts.
func (c *Config) DSN() string {
	if c.DBURL != "" {
		return c.DBURL
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DBUser, c.DBPassword),
		Host:   c.DBHost + ":" + c.DBPort,
		Path:   c.DBName,
	}
	q := u.Query()
	q.Set("sslmode", "disable")
	u.RawQuery = q.Encode()
	return u.String()
}
