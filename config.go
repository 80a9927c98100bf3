package main

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultPort    = 3000
	defaultRoot    = "."
	defaultEnvFile = ".env"
)

// Environment variables read by configFromEnv.
const (
	envHost  = "STATIC_HOST"
	envPort  = "STATIC_PORT"
	envRoot  = "STATIC_ROOT"
	envDebug = "STATIC_DEBUG"
)

// Config is everything the server needs to start. An empty Host binds all
// interfaces.
type Config struct {
	Host  string
	Port  int
	Root  string
	Debug bool
}

func defaultConfig() Config {
	return Config{
		Port: defaultPort,
		Root: defaultRoot,
	}
}

// Addr returns the host:port the server listens on.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c Config) validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return &OpError{
			Op:   "config.validate",
			Kind: KindInvalidConfig,
			Err:  fmt.Errorf("port %d out of range [0, 65535]", c.Port),
		}
	}
	if strings.TrimSpace(c.Root) == "" {
		return &OpError{
			Op:   "config.validate",
			Kind: KindInvalidConfig,
			Err:  errors.New("root directory is empty"),
		}
	}
	return nil
}

// loadEnvFile loads variables from a dotenv file into the process
// environment. Variables already set are kept. A missing file is ignored.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return &OpError{
			Op:   "config.load_env_file",
			Kind: KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}
	return nil
}

// configFromEnv starts from the defaults and applies every variable lookup
// knows about.
func configFromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := defaultConfig()

	if v, ok := lookup(envHost); ok {
		cfg.Host = strings.TrimSpace(v)
	}
	if v, ok := lookup(envPort); ok && strings.TrimSpace(v) != "" {
		port, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return Config{}, &OpError{
				Op:   "config.env",
				Kind: KindInvalidConfig,
				Err:  fmt.Errorf("%s: %w", envPort, err),
			}
		}
		cfg.Port = port
	}
	if v, ok := lookup(envRoot); ok && strings.TrimSpace(v) != "" {
		cfg.Root = v
	}
	if v, ok := lookup(envDebug); ok && strings.TrimSpace(v) != "" {
		debug, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return Config{}, &OpError{
				Op:   "config.env",
				Kind: KindInvalidConfig,
				Err:  fmt.Errorf("%s: %w", envDebug, err),
			}
		}
		cfg.Debug = debug
	}

	return cfg, nil
}
