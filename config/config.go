// payment-reminder/config/config.go

package config

import "github.com/caarlos0/env/v11"

// Config holds every runtime setting the application reads from the
// environment. SMTP settings may stay empty: the mailer then reports every
// send as a configuration failure instead of crashing the API.
type Config struct {
	Port      string `env:"PORT" envDefault:"8080"`
	DBURL     string `env:"DB_URL,required"`
	RedisAddr string `env:"REDIS_ADDR"`

	SMTPHost  string `env:"SMTP_HOST"`
	SMTPPort  int    `env:"SMTP_PORT" envDefault:"587"`
	EmailUser string `env:"EMAIL_USER"`
	EmailPass string `env:"EMAIL_PASS"`
}

// Load parses the process environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
