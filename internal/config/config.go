// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const envPrefix = "MEAL_PLANNER_"

type Config struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	DBPath   string `yaml:"db_path"`
	LogMode  string `yaml:"log_mode"`
	SeedFile string `yaml:"seed_file"`

	Population  int   `yaml:"population"`
	Generations int   `yaml:"generations"`
	Workers     int   `yaml:"workers"`
	RandomSeed  int64 `yaml:"random_seed"` // 0 seeds from the clock
}

func Default() Config {
	return Config{
		Host:        "localhost",
		Port:        8080,
		DBPath:      "./meal-plans.db",
		LogMode:     "development",
		Population:  50,
		Generations: 100,
		Workers:     4,
	}
}

// Load layers defaults, the optional YAML file, a .env file in the
// working directory and MEAL_PLANNER_* variables, in that order. The
// result is not validated; callers apply their overrides first.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// .env is optional; variables already set win over it.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"HOST":      &c.Host,
		"DB_PATH":   &c.DBPath,
		"LOG_MODE":  &c.LogMode,
		"SEED_FILE": &c.SeedFile,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"PORT":        &c.Port,
		"POPULATION":  &c.Population,
		"GENERATIONS": &c.Generations,
		"WORKERS":     &c.Workers,
	}
	for key, dst := range ints {
		v, ok := os.LookupEnv(envPrefix + key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", envPrefix, key, err)
		}
		*dst = n
	}

	if v, ok := os.LookupEnv(envPrefix + "RANDOM_SEED"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %sRANDOM_SEED: %w", envPrefix, err)
		}
		c.RandomSeed = n
	}
	return nil
}

func (c Config) Validate() error {
	switch {
	case c.Port <= 0 || c.Port > 65535:
		return fmt.Errorf("invalid port %d", c.Port)
	case c.DBPath == "":
		return errors.New("db path is required")
	case c.Population < 2:
		return fmt.Errorf("population must be at least 2, got %d", c.Population)
	case c.Generations < 0:
		return fmt.Errorf("generations must not be negative, got %d", c.Generations)
	}
	return nil
}

func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
