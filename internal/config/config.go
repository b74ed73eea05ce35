package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort           string        `env:"HTTP_PORT" envDefault:"5000"`
	StoreDriver        string        `env:"STORE_DRIVER" envDefault:"mongo"`
	MongoURI           string        `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase      string        `env:"MONGO_DATABASE" envDefault:"hellomap"`
	MongoCollection    string        `env:"MONGO_COLLECTION" envDefault:"messages"`
	DatabaseURL        string        `env:"DATABASE_URL"`
	RedisAddr          string        `env:"REDIS_ADDR"`
	RedisPassword      string        `env:"REDIS_PASSWORD"`
	RedisDB            int           `env:"REDIS_DB" envDefault:"0"`
	RateLimitPerMinute int           `env:"RATE_LIMIT_PER_MINUTE" envDefault:"0"`
	RequestTimeout     time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	CORSOrigin         string        `env:"CORS_ORIGIN" envDefault:"*"`
	TrustedProxies     []string      `env:"TRUSTED_PROXIES" envSeparator:","`
}

// ClientConfig agrupa la configuración del cliente de mapa en terminal.
type ClientConfig struct {
	APIURL     string        `env:"HELLOMAP_API_URL" envDefault:"http://localhost:5000/api/v1"`
	Latitude   *float64      `env:"HELLOMAP_LAT"`
	Longitude  *float64      `env:"HELLOMAP_LNG"`
	GeoIPURL   string        `env:"GEO_IP_URL" envDefault:"https://ipapi.co/json"`
	GeoTimeout time.Duration `env:"GEO_TIMEOUT" envDefault:"5s"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadClientConfig carga la configuración del cliente desde variables de entorno.
func LoadClientConfig() (*ClientConfig, error) {
	var cfg ClientConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case StoreMongo, StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config: DATABASE_URL is required when STORE_DRIVER=%s", StorePostgres)
		}
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("config: RATE_LIMIT_PER_MINUTE must be >= 0")
	}
	return nil
}
