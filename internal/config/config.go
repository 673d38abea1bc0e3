package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all lampwatch configuration.
type Config struct {
	LogLevel string `yaml:"log_level"`
	LogJSON  bool   `yaml:"log_json"`

	Remote RemoteConfig `yaml:"remote"`
	Status StatusConfig `yaml:"status"`
	Store  StoreConfig  `yaml:"store"`
	Kafka  KafkaConfig  `yaml:"kafka"`
}

// RemoteConfig points at the PostgREST endpoint serving the four tables.
type RemoteConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"api_key"`
}

// StatusConfig tunes the refresh pipeline.
type StatusConfig struct {
	PollInterval time.Duration `yaml:"poll_interval"`
	ChunkSize    int           `yaml:"chunk_size"`
	ReportCap    int           `yaml:"report_cap"`
}

// StoreConfig controls local snapshot persistence.
type StoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// KafkaConfig controls the transition publisher.
type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		LogJSON:  true,
		Status: StatusConfig{
			PollInterval: 60 * time.Second,
			ChunkSize:    200,
			ReportCap:    5000,
		},
		Store: StoreConfig{
			Enabled: false,
			Path:    "lampwatch.db",
		},
		Kafka: KafkaConfig{
			Enabled: false,
			Topic:   "light-status-transitions",
		},
	}
}

// Load builds the configuration: defaults, then the optional YAML file
// named by LAMPWATCH_CONFIG, then environment variables on top. A .env
// file in the working directory is read first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("LAMPWATCH_CONFIG"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}
	applyEnv(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if strings.TrimSpace(string(content)) == "" {
		return errors.New("config: file is empty")
	}
	if err := yaml.Unmarshal(content, cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.LogLevel = getenv("LAMPWATCH_LOG_LEVEL", cfg.LogLevel)
	cfg.LogJSON = getenvBool("LAMPWATCH_LOG_JSON", cfg.LogJSON)

	cfg.Remote.Endpoint = getenv("LAMPWATCH_ENDPOINT", cfg.Remote.Endpoint)
	cfg.Remote.APIKey = getenv("LAMPWATCH_API_KEY", cfg.Remote.APIKey)

	cfg.Status.PollInterval = getenvDuration("LAMPWATCH_POLL_INTERVAL", cfg.Status.PollInterval)
	cfg.Status.ChunkSize = getenvInt("LAMPWATCH_CHUNK_SIZE", cfg.Status.ChunkSize)
	cfg.Status.ReportCap = getenvInt("LAMPWATCH_REPORT_CAP", cfg.Status.ReportCap)

	cfg.Store.Enabled = getenvBool("LAMPWATCH_STORE_ENABLED", cfg.Store.Enabled)
	cfg.Store.Path = getenv("LAMPWATCH_STORE_PATH", cfg.Store.Path)

	cfg.Kafka.Enabled = getenvBool("LAMPWATCH_KAFKA_ENABLED", cfg.Kafka.Enabled)
	if v := os.Getenv("LAMPWATCH_KAFKA_BROKERS"); v != "" {
		var brokers []string
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
		cfg.Kafka.Brokers = brokers
	}
	cfg.Kafka.Topic = getenv("LAMPWATCH_KAFKA_TOPIC", cfg.Kafka.Topic)
}

// Validate rejects configurations the service cannot run with.
func Validate(cfg *Config) error {
	if cfg.Remote.Endpoint == "" {
		return errors.New("config: remote endpoint is required (LAMPWATCH_ENDPOINT)")
	}
	if cfg.Status.ChunkSize <= 0 {
		return errors.New("config: status.chunk_size must be > 0")
	}
	if cfg.Status.ReportCap <= 0 {
		return errors.New("config: status.report_cap must be > 0")
	}
	if cfg.Status.PollInterval <= 0 {
		return errors.New("config: status.poll_interval must be > 0")
	}
	if cfg.Kafka.Enabled && (len(cfg.Kafka.Brokers) == 0 || cfg.Kafka.Topic == "") {
		return errors.New("config: kafka requires brokers and topic when enabled")
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
