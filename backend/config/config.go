package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultStorageKey = "mlops-progress"

type Config struct {
	StorageDriver string `yaml:"storage_driver"` // file, sqlite, postgres, memory
	StoragePath   string `yaml:"storage_path"`
	StorageKey    string `yaml:"storage_key"`
	WatchStorage  bool   `yaml:"watch_storage"`

	DBHost     string `yaml:"db_host"`
	DBPort     string `yaml:"db_port"`
	DBUser     string `yaml:"db_user"`
	DBPassword string `yaml:"db_password"`
	DBName     string `yaml:"db_name"`

	ServerPort string `yaml:"server_port"`
	LogLevel   string `yaml:"log_level"`
	LogFormat  string `yaml:"log_format"`
}

func defaults() Config {
	return Config{
		StorageDriver: "file",
		StoragePath:   "roadmap-progress.json",
		StorageKey:    DefaultStorageKey,
		WatchStorage:  true,
		DBHost:        "localhost",
		DBPort:        "5432",
		DBUser:        "postgres",
		DBPassword:    "postgres",
		DBName:        "roadmap",
		ServerPort:    "8080",
		LogLevel:      "info",
		LogFormat:     "console",
	}
}

// LoadConfig builds the configuration from, in increasing priority: built-in defaults, the
// optional YAML file at path (or ROADMAP_CONFIG when path is empty), .env, and the process
// environment.
func LoadConfig(path ...string) (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	cfg := defaults()

	file := os.Getenv("ROADMAP_CONFIG")
	if len(path) > 0 && path[0] != "" {
		file = path[0]
	}
	if file != "" {
		if err := loadYAML(file, &cfg); err != nil {
			return nil, err
		}
	}

	cfg = Config{
		StorageDriver: getEnv("STORAGE_DRIVER", cfg.StorageDriver),
		StoragePath:   getEnv("STORAGE_PATH", cfg.StoragePath),
		StorageKey:    getEnv("STORAGE_KEY", cfg.StorageKey),
		WatchStorage:  getEnvBool("WATCH_STORAGE", cfg.WatchStorage),
		DBHost:        getEnv("DB_HOST", cfg.DBHost),
		DBPort:        getEnv("DB_PORT", cfg.DBPort),
		DBUser:        getEnv("DB_USER", cfg.DBUser),
		DBPassword:    getEnv("DB_PASSWORD", cfg.DBPassword),
		DBName:        getEnv("DB_NAME", cfg.DBName),
		ServerPort:    getEnv("SERVER_PORT", cfg.ServerPort),
		LogLevel:      getEnv("LOG_LEVEL", cfg.LogLevel),
		LogFormat:     getEnv("LOG_FORMAT", cfg.LogFormat),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.StorageDriver {
	case "file", "sqlite", "postgres", "memory":
	default:
		return fmt.Errorf("unsupported storage driver %q", c.StorageDriver)
	}
	if c.StorageKey == "" {
		return errors.New("storage key must not be empty")
	}
	if (c.StorageDriver == "file" || c.StorageDriver == "sqlite") && c.StoragePath == "" {
		return fmt.Errorf("storage driver %q requires STORAGE_PATH", c.StorageDriver)
	}
	return nil
}

// DSN is the postgres connection string for the gorm adapter.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

func loadYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
