package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Server     Server     `yaml:"server"`
	Logger     Logger     `yaml:"logger"`
	PostgresDB PostgresDB `yaml:"db"`
	Auth       Auth       `yaml:"auth"`
	RedisCache RedisCache `yaml:"rdb"`
	Market     Market     `yaml:"market"`
	Mail       Mail       `yaml:"mail"`
	Alerts     Alerts     `yaml:"alerts"`
	RateLimit  RateLimit  `yaml:"ratelimit"`
}

type Server struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	IdleTimeout  time.Duration `yaml:"idleTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
}

type Logger struct {
	Level     string   `yaml:"level"`
	Output    []string `yaml:"output"`
	ErrOutput []string `yaml:"errOutput"`
}

type PostgresDB struct {
	Addr          string `yaml:"addr"`
	Username      string `env:"POSTGRES_USER"     env-required:"true" yaml:"username"`
	Password      string `env:"POSTGRES_PASSWORD" yaml:"password"`
	DB            string `env:"POSTGRES_DB"       env-required:"true" yaml:"db"`
	SSLmode       string `env-default:"disable"   yaml:"sslmode"`
	MaxConns      string `env-default:"10"        yaml:"maxConns"`
	Reload        bool   `yaml:"reload"`
	Version       int    `yaml:"version"`
	MigrationsDir string `env-default:"./migrations" yaml:"migrationsDir"`
}

type Auth struct {
	TTL             time.Duration `env-default:"24h"   yaml:"ttl"`
	Secret          string        `env:"SECRET"        env-required:"true" yaml:"secret"`
	VerifyTTL       time.Duration `env-default:"24h"   yaml:"verifyTTL"`
	RequireVerified bool          `yaml:"requireVerified"`
	BaseURL         string        `env-default:"http://localhost:8080" yaml:"baseURL"`
	SecureCookie    bool          `yaml:"secureCookie"`
}

type RedisCache struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	ExpTime  time.Duration `yaml:"exp"`
}

type Market struct {
	CoinGeckoURL     string        `env-default:"https://api.coingecko.com/api/v3" yaml:"coingeckoURL"`
	CoinGeckoKey     string        `env:"COINGECKO_API_KEY"                         yaml:"coingeckoKey"`
	CoinMarketCapURL string        `env-default:"https://pro-api.coinmarketcap.com" yaml:"coinmarketcapURL"`
	CoinMarketCapKey string        `env:"COINMARKETCAP_API_KEY"                     yaml:"coinmarketcapKey"`
	FearGreedURL     string        `env-default:"https://api.alternative.me"        yaml:"fearGreedURL"`
	Timeout          time.Duration `env-default:"10s"                               yaml:"timeout"`
	CacheTTL         time.Duration `env-default:"1m"                                yaml:"cacheTTL"`
	DefaultCurrency  string        `env-default:"usd"                               yaml:"defaultCurrency"`
}

type Mail struct {
	APIKey    string `env:"SENDGRID_API_KEY" yaml:"apiKey"`
	FromName  string `env-default:"Crypto Dashboard" yaml:"fromName"`
	FromEmail string `env-default:"noreply@localhost" yaml:"fromEmail"`
}

type Alerts struct {
	Enabled  bool   `yaml:"enabled"`
	Schedule string `env-default:"@every 1m" yaml:"schedule"`
}

type RateLimit struct {
	RPS   float64 `env-default:"5"  yaml:"rps"`
	Burst int     `env-default:"10" yaml:"burst"`
}

func New(configPath string) (Config, error) {
	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return Config{}, fmt.Errorf("read config error: %w", err)
	}

	return cfg, nil
}
