package httpserver

import "time"

// Config is the env-driven server configuration. There is no write timeout:
// the form event stream is a long-lived response.
type Config struct {
	Addr              string        `env:"HTTP_ADDR" envDefault:":8080" validate:"required"`
	ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" envDefault:"5s" validate:"gte=0"`
	ReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s" validate:"gte=0"`
	IdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s" validate:"gte=0"`
	ShutdownTimeout   time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"5s" validate:"gt=0"`
}

// Option configures the HTTP server.
type Option func(*Server)

// WithConfig applies the non-zero values of cfg.
func WithConfig(cfg Config) Option {
	return func(s *Server) {
		if cfg.Addr != "" {
			s.addr = cfg.Addr
		}
		if cfg.ReadHeaderTimeout > 0 {
			s.readHeaderTimeout = cfg.ReadHeaderTimeout
		}
		if cfg.ReadTimeout > 0 {
			s.readTimeout = cfg.ReadTimeout
		}
		if cfg.IdleTimeout > 0 {
			s.idleTimeout = cfg.IdleTimeout
		}
		if cfg.ShutdownTimeout > 0 {
			s.shutdownTimeout = cfg.ShutdownTimeout
		}
	}
}

// WithAddr sets the listen address. Use "127.0.0.1:0" for an ephemeral port.
func WithAddr(addr string) Option {
	if addr == "" {
		panic("WithAddr: addr cannot be empty")
	}
	return func(s *Server) { s.addr = addr }
}

func WithShutdownTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("WithShutdownTimeout: duration must be > 0")
	}
	return func(s *Server) { s.shutdownTimeout = d }
}
