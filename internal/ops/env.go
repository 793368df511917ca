package ops

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/yanun0323/errors"

	"tradereport/pkg/conn"
)

// Env holds settings read from the process environment.
type Env struct {
	Postgres PostgresEnv `envPrefix:"POSTGRES_"`
}

// PostgresEnv is the environment form of conn.Option.
type PostgresEnv struct {
	URL      string `env:"URL"`
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     int    `env:"PORT" envDefault:"5432"`
	User     string `env:"USER"`
	Password string `env:"PASSWORD"`
	Database string `env:"DATABASE" envDefault:"tradereport"`
	SSLMode  string `env:"SSLMODE" envDefault:"disable"`
}

// Option converts the settings into connection options.
func (p PostgresEnv) Option() conn.Option {
	return conn.Option{
		ConnString: p.URL,
		Host:       p.Host,
		Port:       p.Port,
		User:       p.User,
		Password:   p.Password,
		Database:   p.Database,
		SSLMode:    p.SSLMode,
	}
}

// LoadEnv loads the given dotenv files, or .env when none are given, and
// parses the environment. Missing dotenv files are ignored.
func LoadEnv(files ...string) (Env, error) {
	_ = godotenv.Load(files...)

	var cfg Env
	if err := env.Parse(&cfg); err != nil {
		return Env{}, errors.Wrap(err, "parse env")
	}
	return cfg, nil
}
