package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config drives the API server and the solver defaults. Values come from
// an optional YAML file, overridden by environment variables.
type Config struct {
	Server struct {
		Addr         string  `yaml:"addr"`
		RateLimitRPS float64 `yaml:"rate_limit_rps"`
		RateBurst    int     `yaml:"rate_burst"`
	} `yaml:"server"`
	Solver struct {
		Seed      int64   `yaml:"seed"`
		MaxRounds int     `yaml:"max_rounds"`
		Speed     float64 `yaml:"speed"`
	} `yaml:"solver"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Default returns the configuration used when no file or env is present.
func Default() Config {
	var c Config
	c.Server.Addr = ":8080"
	c.Server.RateLimitRPS = 50
	c.Server.RateBurst = 100
	c.Solver.Seed = 84
	c.Solver.MaxRounds = 100
	c.Solver.Speed = 1
	c.Log.Level = "info"
	return c
}

// Load reads the YAML file at path (skipped when empty), then applies env
// overrides: PORT, SOLVER_SEED, SOLVER_MAX_ROUNDS, SOLVER_SPEED, LOG_LEVEL.
func Load(path string) (Config, error) {
	c := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return c, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &c); err != nil {
			return c, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Addr = ":" + v
	}
	if v := os.Getenv("SOLVER_SEED"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c, fmt.Errorf("config: SOLVER_SEED: %w", err)
		}
		c.Solver.Seed = n
	}
	if v := os.Getenv("SOLVER_MAX_ROUNDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c, fmt.Errorf("config: SOLVER_MAX_ROUNDS: %w", err)
		}
		c.Solver.MaxRounds = n
	}
	if v := os.Getenv("SOLVER_SPEED"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c, fmt.Errorf("config: SOLVER_SPEED: %w", err)
		}
		c.Solver.Speed = f
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return c, nil
}
