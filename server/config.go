package server

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"github.com/s00inx/oldhttp/server/engine"
)

// Config is everything the server needs. It can be read from a TOML file,
// keys match the toml tags below.
type Config struct {
	Addr string `toml:"addr" validate:"required,hostname_port"`
	Root string `toml:"root" validate:"required"`

	ReadChunk  int `toml:"read_chunk" validate:"min=1,max=1048576"`
	MaxRequest int `toml:"max_request" validate:"min=0"`

	// 0 keeps one goroutine per connection with no cap
	MaxSessions int `toml:"max_sessions" validate:"min=0"`

	MetricsAddr string `toml:"metrics_addr" validate:"omitempty,hostname_port"`

	LogLevel  string `toml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string `toml:"log_format" validate:"oneof=auto text json"`
}

func DefaultConfig() Config {
	return Config{
		Addr:       "127.0.0.1:8080",
		Root:       ".",
		ReadChunk:  engine.DefaultReadChunk,
		MaxRequest: engine.DefaultMaxRequest,
		LogLevel:   "info",
		LogFormat:  "auto",
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("config: %s fails %q (got %v)", fe.Field(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// LoadConfig reads path on top of DefaultConfig. Unknown keys are an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	dec := toml.NewDecoder(f).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var serr *toml.StrictMissingError
		if errors.As(err, &serr) {
			return cfg, fmt.Errorf("config: %s: unknown keys\n%s", path, serr.String())
		}
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}
