// Package config reads command-line flags and the environment.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/abrezinsky/spwtrack/pkg/coach"
)

// Environment variables holding the Gemini API key, in lookup order
const (
	EnvGeminiAPIKey = "GEMINI_API_KEY"
	EnvAPIKey       = "API_KEY"
)

// Config is the resolved runtime configuration
type Config struct {
	Port          int
	DBPath        string
	LogLevel      string
	LogFormat     string
	NoAnimate     bool
	NoKeyboard    bool
	ShowVersion   bool
	SeedPath      string
	ResetSchedule string

	GeminiAPIKey  string
	GeminiModel   string
	Fallback      bool
	FallbackDelay time.Duration
	EnvFile       string
}

// Usage is printed for -help
const Usage = `SPW Track - Team Leader routine and KPI dashboard

Usage:
  spwtrack [options]

Options:
  -port int             HTTP server port (default 8081)
  -db string            SQLite database path (default "spwtrack.db")
  -loglevel str         Log level: debug, info, warn, error (default "info")
  -logformat str        Log format: text, json (default "text")
  -seed string          YAML file with the initial dataset (built-in when empty)
  -reset-schedule str   Cron expression for clearing routines, e.g. "0 6 * * *"
  -gemini-model str     Gemini model for coaching summaries
  -fallback             Use rule-based coaching when no API key is set (default true)
  -fallback-delay dur   Artificial delay for rule-based coaching (default 1.5s)
  -env string           Dotenv file to load (default ".env")
  -noanimate            Skip the startup banner animation
  -nokeyboard           Disable keyboard shortcuts
  -version              Show version and exit
  -help                 Show this help message

Environment:
  GEMINI_API_KEY, API_KEY   Gemini API key; coaching falls back to rules without one

Keyboard Shortcuts (when enabled):
  o              Open dashboard in browser
  h              Toggle HTTP request logging
  l              Cycle log level (debug → info → warn → error)
  r              Reset daily routines
  q              Quit server
  ?              Show keyboard help
`

// Parse reads flags from args, then loads the dotenv file and the API key
// from the environment. A missing dotenv file is not an error.
func Parse(args []string, stderr io.Writer) (*Config, error) {
	cfg := &Config{}

	flags := flag.NewFlagSet("spwtrack", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() { fmt.Fprint(stderr, Usage) }

	flags.IntVar(&cfg.Port, "port", 8081, "HTTP server port")
	flags.StringVar(&cfg.DBPath, "db", "spwtrack.db", "SQLite database path")
	flags.StringVar(&cfg.LogLevel, "loglevel", "info", "Log level (debug, info, warn, error)")
	flags.StringVar(&cfg.LogFormat, "logformat", "text", "Log format (text, json)")
	flags.BoolVar(&cfg.NoAnimate, "noanimate", false, "Skip the startup banner animation")
	flags.BoolVar(&cfg.NoKeyboard, "nokeyboard", false, "Disable keyboard shortcuts")
	flags.BoolVar(&cfg.ShowVersion, "version", false, "Show version and exit")
	flags.StringVar(&cfg.SeedPath, "seed", "", "YAML seed dataset")
	flags.StringVar(&cfg.ResetSchedule, "reset-schedule", "", "Cron expression for routine resets")
	flags.StringVar(&cfg.GeminiModel, "gemini-model", coach.DefaultModel, "Gemini model")
	flags.BoolVar(&cfg.Fallback, "fallback", true, "Use rule-based coaching without an API key")
	flags.DurationVar(&cfg.FallbackDelay, "fallback-delay", 1500*time.Millisecond, "Rule-based coaching delay")
	flags.StringVar(&cfg.EnvFile, "env", ".env", "Dotenv file")

	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if flags.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", flags.Args())
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if err := loadEnvFile(cfg.EnvFile); err != nil {
		return nil, err
	}
	cfg.GeminiAPIKey = apiKeyFromEnv()
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("invalid log format %q", c.LogFormat)
	}
	if c.FallbackDelay < 0 {
		return fmt.Errorf("fallback delay must not be negative")
	}
	return nil
}

// loadEnvFile sets variables from path without overriding ones already set
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load %s: %w", path, err)
}

func apiKeyFromEnv() string {
	for _, name := range []string{EnvGeminiAPIKey, EnvAPIKey} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// Addr is the listen address for Port
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
