package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Server   Server   `yaml:"server"`
	Logger   Logger   `yaml:"logger"`
	SQLiteDB SQLiteDB `yaml:"db"`
	Auth     Auth     `yaml:"auth"`
}

type Server struct {
	Addr         string        `env:"ADDR"  env-default:":80" yaml:"addr"`
	ReadTimeout  time.Duration `env-default:"10s"             yaml:"readTimeout"`
	IdleTimeout  time.Duration `env-default:"30s"             yaml:"idleTimeout"`
	WriteTimeout time.Duration `env-default:"10s"             yaml:"writeTimeout"`
}

type Logger struct {
	Level     string   `env-default:"info" yaml:"level"`
	Output    []string `yaml:"output"`
	ErrOutput []string `yaml:"errOutput"`
}

type SQLiteDB struct {
	Path    string `env:"DB_PATH" env-default:"banners.db" yaml:"path"`
	Reload  bool   `yaml:"reload"`
	Version int    `env-default:"2" yaml:"version"`
}

type Auth struct {
	TTL           time.Duration `env-default:"24h" yaml:"ttl"`
	Secret        string        `env:"SECRET"         env-required:"true" yaml:"secret"`
	AdminUsername string        `env:"ADMIN_USERNAME" yaml:"adminUsername"`
	AdminPassword string        `env:"ADMIN_PASSWORD" yaml:"adminPassword"`
}

// New reads configPath and applies environment overrides. An empty
// configPath means environment-only configuration, which is how the
// container runs.
func New(configPath string) (Config, error) {
	var cfg Config

	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, fmt.Errorf("read env config error: %w", err)
		}

		return cfg, nil
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return Config{}, fmt.Errorf("read config error: %w", err)
	}

	return cfg, nil
}
