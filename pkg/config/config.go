package config

import (
	"time"

	"github.com/dmitrymomot/regform/pkg/httpserver"
)

// Config is the regform process configuration.
type Config struct {
	Env  string `env:"APP_ENV" envDefault:"development" validate:"oneof=development staging production test"`
	Log  LogConfig
	Form FormConfig
	HTTP httpserver.Config
}

// LogConfig overrides the per-environment logging defaults when set.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" validate:"omitempty,oneof=debug info warn error DEBUG INFO WARN ERROR"`
	Format string `env:"LOG_FORMAT" validate:"omitempty,oneof=json text"`
}

// FormConfig tunes the registration form behavior.
type FormConfig struct {
	SuccessMessage string        `env:"FORM_SUCCESS_MESSAGE" envDefault:"Registration Successful." validate:"required"`
	DismissDelay   time.Duration `env:"FORM_SUCCESS_DISMISS_DELAY" envDefault:"3500ms" validate:"gt=0"`
	ReferenceFile  string        `env:"FORM_REFERENCE_FILE" validate:"omitempty,file"`
	SessionTTL     time.Duration `env:"FORM_SESSION_TTL" envDefault:"30m" validate:"gt=0"`
}

// IsProduction reports whether the process runs in a production-like environment.
func (c Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "staging"
}
