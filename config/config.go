package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	JWT           JWTConfig
	Logger        LoggerConfig
	Redis         RedisConfig
	Cloudinary    CloudinaryConfig
	Admin         AdminConfig
	Notifications NotificationConfig
}

type ServerConfig struct {
	Port         string        `envconfig:"PORT" default:"8080"`
	Env          string        `envconfig:"ENV" default:"development"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"10s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"10s"`
	CORSOrigins  []string      `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`
	RateLimit    int           `envconfig:"RATE_LIMIT" default:"100"`
	RateWindow   time.Duration `envconfig:"RATE_WINDOW" default:"60s"`
}

// DatabaseConfig selects the gorm driver: "mysql" in deployments, "sqlite" for local runs.
type DatabaseConfig struct {
	Driver          string        `envconfig:"DRIVER" default:"mysql"`
	DSN             string        `envconfig:"DSN" default:"root:@tcp(localhost:3306)/commissionhub?charset=utf8mb4&parseTime=True&loc=Local"`
	MaxIdleConns    int           `envconfig:"MAX_IDLE_CONNS" default:"10"`
	MaxOpenConns    int           `envconfig:"MAX_OPEN_CONNS" default:"100"`
	ConnMaxLifetime time.Duration `envconfig:"CONN_MAX_LIFETIME" default:"1h"`
}

type JWTConfig struct {
	AccessSecret  string        `envconfig:"ACCESS_SECRET" default:"change-me-in-production"`
	RefreshSecret string        `envconfig:"REFRESH_SECRET" default:"change-me-refresh"`
	AccessExpiry  time.Duration `envconfig:"ACCESS_EXPIRY" default:"168h"`
	RefreshExpiry time.Duration `envconfig:"REFRESH_EXPIRY" default:"720h"`
	Issuer        string        `envconfig:"ISSUER" default:"commissionhub"`
	CookieName    string        `envconfig:"COOKIE_NAME" default:"auth-token"`
}

type LoggerConfig struct {
	Level       string `envconfig:"LEVEL" default:"info"`
	Encoding    string `envconfig:"ENCODING" default:"json"`
	Development bool   `envconfig:"DEVELOPMENT" default:"false"`
}

// RedisConfig enables the distributed product lock and payment reminders when Addr is set.
type RedisConfig struct {
	Addr     string        `envconfig:"ADDR"`
	Password string        `envconfig:"PASSWORD"`
	DB       int           `envconfig:"DB" default:"0"`
	LockTTL  time.Duration `envconfig:"LOCK_TTL" default:"5s"`
}

type CloudinaryConfig struct {
	CloudName string `envconfig:"CLOUD_NAME"`
	APIKey    string `envconfig:"API_KEY"`
	APISecret string `envconfig:"API_SECRET"`
	Folder    string `envconfig:"FOLDER" default:"commissionhub"`
}

// AdminConfig seeds the operator account; registration never creates admins.
type AdminConfig struct {
	Email    string `envconfig:"EMAIL" default:"admin@commissionhub.local"`
	Password string `envconfig:"PASSWORD"`
	Name     string `envconfig:"NAME" default:"Admin"`
}

type NotificationConfig struct {
	PaymentReminderDelay time.Duration `envconfig:"PAYMENT_REMINDER_DELAY" default:"24h"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool { return c.Server.Env == "production" }
