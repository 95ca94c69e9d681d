package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Prefix is prepended to every environment variable the app reads.
const Prefix = "LEARNASSIST_"

// Config is the process-level configuration shared by all commands.
type Config struct {
	Addr   string `env:"ADDR" envDefault:":8080"`
	DBPath string `env:"DB"`

	Log Log `envPrefix:"LOG_"`

	// QuestionSource selects the question generator: "random" or "llm".
	QuestionSource string `env:"QUESTION_SOURCE" envDefault:"random"`

	// Grader selects the feedback source: "coinflip" or "llm".
	Grader string `env:"GRADER" envDefault:"coinflip"`

	// AllowedOrigins is the CORS allow-list for the HTTP API.
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// Log configures the zerolog logger.
type Log struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"console"` // console | json
}

// LoadDotEnv loads variables from the given .env files (default ".env")
// without overriding ones already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ParseEnv fills target from LEARNASSIST_-prefixed environment variables.
func ParseEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: Prefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads .env and then the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := LoadDotEnv(); err != nil {
		return cfg, err
	}
	if err := ParseEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks enumerated settings.
func (c Config) Validate() error {
	switch c.QuestionSource {
	case "random", "llm":
	default:
		return fmt.Errorf("unknown question source %q (want random or llm)", c.QuestionSource)
	}
	switch c.Grader {
	case "coinflip", "llm":
	default:
		return fmt.Errorf("unknown grader %q (want coinflip or llm)", c.Grader)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}
