package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ListenAddr        string
	DBPath            string
	LogLevel          string
	LogFile           string
	RedisAddr         string
	RedisPassword     string
	RateLimit         int
	RateWindow        time.Duration
	LowStockThreshold float64
	ShutdownTimeout   time.Duration
}

// fileConfig is the optional YAML file named by BOATLOG_CONFIG. Empty values
// leave the defaults in place.
type fileConfig struct {
	ListenAddr        string  `yaml:"listenAddr"`
	DBPath            string  `yaml:"dbPath"`
	LogLevel          string  `yaml:"logLevel"`
	LogFile           string  `yaml:"logFile"`
	RedisAddr         string  `yaml:"redisAddr"`
	RedisPassword     string  `yaml:"redisPassword"`
	RateLimit         int     `yaml:"rateLimit"`
	RateWindow        string  `yaml:"rateWindow"`
	LowStockThreshold float64 `yaml:"lowStockThreshold"`
	ShutdownTimeout   string  `yaml:"shutdownTimeout"`
}

func defaults() *Config {
	return &Config{
		ListenAddr:        ":8080",
		DBPath:            "/data/boatlog.db",
		LogLevel:          "info",
		RateLimit:         120,
		RateWindow:        time.Minute,
		LowStockThreshold: 5,
		ShutdownTimeout:   10 * time.Second,
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// BOATLOG_CONFIG (if any), then environment variables.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("BOATLOG_CONFIG"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	cfg.ListenAddr = getEnv("LISTEN_ADDR", cfg.ListenAddr)
	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFile = getEnv("LOG_FILE", cfg.LogFile)
	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", cfg.RedisPassword)

	var err error
	if cfg.RateLimit, err = getEnvInt("RATE_LIMIT", cfg.RateLimit); err != nil {
		return nil, err
	}
	if cfg.RateWindow, err = getEnvDuration("RATE_WINDOW", cfg.RateWindow); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getEnvDuration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout); err != nil {
		return nil, err
	}
	if v, ok := os.LookupEnv("LOW_STOCK_THRESHOLD"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("config: LOW_STOCK_THRESHOLD: %w", err)
		}
		cfg.LowStockThreshold = f
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	setString(&c.ListenAddr, fc.ListenAddr)
	setString(&c.DBPath, fc.DBPath)
	setString(&c.LogLevel, fc.LogLevel)
	setString(&c.LogFile, fc.LogFile)
	setString(&c.RedisAddr, fc.RedisAddr)
	setString(&c.RedisPassword, fc.RedisPassword)
	if fc.RateLimit > 0 {
		c.RateLimit = fc.RateLimit
	}
	if fc.LowStockThreshold > 0 {
		c.LowStockThreshold = fc.LowStockThreshold
	}
	if fc.RateWindow != "" {
		d, err := time.ParseDuration(fc.RateWindow)
		if err != nil {
			return fmt.Errorf("parse config: rateWindow: %w", err)
		}
		c.RateWindow = d
	}
	if fc.ShutdownTimeout != "" {
		d, err := time.ParseDuration(fc.ShutdownTimeout)
		if err != nil {
			return fmt.Errorf("parse config: shutdownTimeout: %w", err)
		}
		c.ShutdownTimeout = d
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}
