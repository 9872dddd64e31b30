package config

import (
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds everything the billing server reads from the environment.
type Config struct {
	Env  string `env:"ENV" env-default:"development"`
	Port string `env:"PORT" env-default:"3000"`

	AllowOrigins string `env:"CORS_ALLOW_ORIGINS" env-default:"http://localhost:5173"`

	JWTSecret string `env:"JWT_SECRET" env-required:"true"`

	Database struct {
		Host            string        `env:"DB_HOST" env-default:"localhost"`
		Port            string        `env:"DB_PORT" env-default:"5432"`
		User            string        `env:"DB_USER" env-default:"postgres"`
		Password        string        `env:"DB_PASSWORD" env-default:"postgres"`
		Name            string        `env:"DB_NAME" env-default:"fitdesk"`
		SSLMode         string        `env:"DB_SSLMODE" env-default:"disable"`
		MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" env-default:"10"`
		MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" env-default:"100"`
		ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"1h"`
		ConnMaxIdleTime time.Duration `env:"DB_CONN_MAX_IDLE_TIME" env-default:"30m"`
	}

	Redis struct {
		Host     string        `env:"REDIS_HOST" env-default:"localhost"`
		Port     string        `env:"REDIS_PORT" env-default:"6379"`
		Password string        `env:"REDIS_PASSWORD" env-default:""`
		DB       int           `env:"REDIS_DB" env-default:"0"`
		TTL      time.Duration `env:"REDIS_TTL" env-default:"10m"`
	}

	Billing struct {
		Currency       string        `env:"BILLING_CURRENCY" env-default:"PEN"`
		StripeKey      string        `env:"STRIPE_SECRET_KEY" env-default:""`
		IdempotencyTTL time.Duration `env:"BILLING_IDEMPOTENCY_TTL" env-default:"24h"`
	}
}

// LoadEnv loads variables from a .env file if present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found: %v", err)
	}
}

// Load reads the environment (after .env, when present) into a Config.
func Load() (*Config, error) {
	LoadEnv()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsProduction checks if the app runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// UseStripe reports whether real provider calls are configured.
func (c *Config) UseStripe() bool {
	return c.Billing.StripeKey != ""
}
