package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the runtime settings of the canopy CLI and servers.
type Config struct {
	Log        LogConfig        `yaml:"log"`
	Evaluation EvaluationConfig `yaml:"evaluation"`
	HTTP       HTTPConfig       `yaml:"http"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type EvaluationConfig struct {
	// Mode is "strict" or "optimal".
	Mode string `yaml:"mode"`
	// Policy is "max-utility", "min-cost" or "net-benefit".
	Policy           string  `yaml:"policy"`
	WillingnessToPay float64 `yaml:"willingness_to_pay"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// Environment variables read by Load.
const (
	EnvLogLevel = "CANOPY_LOG_LEVEL"
	EnvMode     = "CANOPY_MODE"
	EnvPolicy   = "CANOPY_POLICY"
	EnvWTP      = "CANOPY_WTP"
	EnvHTTPAddr = "CANOPY_HTTP_ADDR"
)

// Load reads settings from an optional YAML file, then applies defaults and
// environment overrides. A missing file is not an error; an empty path skips it.
func Load(path string) (Config, error) {
	// Load a .env file if present.
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config yaml: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg = applyDefaults(cfg)
	return applyEnv(cfg)
}

// Default returns the built-in settings.
func Default() Config {
	return applyDefaults(Config{})
}

func applyDefaults(cfg Config) Config {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Evaluation.Mode == "" {
		cfg.Evaluation.Mode = "strict"
	}
	if cfg.Evaluation.Policy == "" {
		cfg.Evaluation.Policy = "max-utility"
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	return cfg
}

func applyEnv(cfg Config) (Config, error) {
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv(EnvMode); v != "" {
		cfg.Evaluation.Mode = v
	}
	if v := os.Getenv(EnvPolicy); v != "" {
		cfg.Evaluation.Policy = v
	}
	if v := os.Getenv(EnvWTP); v != "" {
		wtp, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", EnvWTP, err)
		}
		cfg.Evaluation.WillingnessToPay = wtp
	}
	if v := os.Getenv(EnvHTTPAddr); v != "" {
		cfg.HTTP.Addr = v
	}
	return cfg, nil
}
