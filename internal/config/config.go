package config

import (
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

type Config struct {
	Port        string        `env:"PORT,default=8080"`
	GinMode     string        `env:"GIN_MODE,default=debug"`
	LogLevel    string        `env:"LOG_LEVEL,default=info"`
	DatabaseURL string        `env:"DATABASE_URL"`
	RedisAddr   string        `env:"REDIS_ADDR"`
	JWTSecret   string        `env:"JWT_SECRET,default=secret_key_change_me"`
	JWTTTL      time.Duration `env:"JWT_TTL,default=1h"`
}

// Load reads .env when present, then decodes the environment.
func Load() (*Config, error) {
	_ = godotenv.Load() // absence is fine, env vars may come from the system

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}
