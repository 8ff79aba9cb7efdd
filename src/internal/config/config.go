package config

import (
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const defaultConfigPath = "src/internal/config/cfg.yml"

type Configuration struct {
	Logs     LogsSettings   `mapstructure:"logs"`
	App      Application    `mapstructure:"app"`
	Server   ServerSettings `mapstructure:"server"`
	Session  SessionConfig  `mapstructure:"session"`
	Redis    Redis          `mapstructure:"redis"`
	Database Database       `mapstructure:"database"`
	Queue    QueueConfig    `mapstructure:"queue"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

type LogsSettings struct {
	Level            string `mapstructure:"level"`
	Path             string `mapstructure:"log-path"`
	EnableJSONOutput bool   `mapstructure:"enable-json-output"`
}

type Application struct {
	Name     string `mapstructure:"name"`
	Version  string `mapstructure:"version"`
	ClientID string `mapstructure:"client-id"`
}

type ServerSettings struct {
	Host         string `mapstructure:"host"`
	Port         string `mapstructure:"port"`
	Mode         string `mapstructure:"mode"`
	ReadTimeout  int    `mapstructure:"read-timeout"`
	WriteTimeout int    `mapstructure:"write-timeout"`
	IdleTimeout  int    `mapstructure:"idle-timeout"`
}

// SessionConfig controls where the session is persisted and how it expires.
type SessionConfig struct {
	Storage            string `mapstructure:"storage"`
	KeyPrefix          string `mapstructure:"key-prefix"`
	SafetyMarginMillis int64  `mapstructure:"safety-margin-ms"`
	StorageTimeout     int    `mapstructure:"storage-timeout"`
}

type Redis struct {
	Url      string `mapstructure:"url"`
	Password string `mapstructure:"password"`
	Db       int    `mapstructure:"db"`
}

type Database struct {
	Url               string `mapstructure:"url"`
	DbName            string `mapstructure:"dbname"`
	SessionCollection string `mapstructure:"session-collection"`
	Timeout           int    `mapstructure:"timeout"`
}

type QueueConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	RabbitMQ RabbitMQConfig `mapstructure:"rabbitmq"`
}

type RabbitMQConfig struct {
	Url          string `mapstructure:"url"`
	Exchange     string `mapstructure:"exchange"`
	ExchangeType string `mapstructure:"exchange-type"`
	RoutingKey   string `mapstructure:"routing-key"`
	Durable      bool   `mapstructure:"durable"`
	AutoDelete   bool   `mapstructure:"auto-delete"`
	Internal     bool   `mapstructure:"internal"`
	NoWait       bool   `mapstructure:"no-wait"`
}

type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// Storage backends
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageMongo  = "mongo"
)

// SafetyMargin returns the minimum remaining validity a restored session must have.
func (s SessionConfig) SafetyMargin() time.Duration {
	if s.SafetyMarginMillis <= 0 {
		return time.Minute
	}
	return time.Duration(s.SafetyMarginMillis) * time.Millisecond
}

func (s SessionConfig) Timeout() time.Duration {
	if s.StorageTimeout <= 0 {
		return 5 * time.Second
	}
	return time.Duration(s.StorageTimeout) * time.Second
}

func Load() *Configuration {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}

	cfg, err := LoadFile(path)
	if err != nil {
		logrus.Panicf("Error reading config file, %s", err)
	}
	logrus.Info("Configuration loaded")

	applyEnv(cfg)
	return cfg
}

// LoadFile reads configuration from the given yml file without env overrides.
func LoadFile(path string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yml")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "handyhub-session-svc")
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", "8085")
	v.SetDefault("server.mode", "release")
	v.SetDefault("session.storage", StorageMemory)
	v.SetDefault("session.safety-margin-ms", 60000)
	v.SetDefault("session.storage-timeout", 5)
	v.SetDefault("logs.level", "info")
	v.SetDefault("database.session-collection", "client_session")
	v.SetDefault("metrics.namespace", "handyhub_session")
}

func applyEnv(cfg *Configuration) {
	// Override with environment variables
	if storage := os.Getenv("SESSION_STORAGE"); storage != "" {
		cfg.Session.Storage = storage
	}

	if mongoUri := os.Getenv("MONGODB_URL"); mongoUri != "" {
		cfg.Database.Url = mongoUri
	}

	if dbName := os.Getenv("DB_NAME"); dbName != "" {
		cfg.Database.DbName = dbName
	}

	if redisUrl := os.Getenv("REDIS_URL"); redisUrl != "" {
		cfg.Redis.Url = redisUrl
	}

	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		if db, err := strconv.Atoi(redisDB); err == nil {
			cfg.Redis.Db = db
		}
	}

	if rabbitmqUrl := os.Getenv("RABBITMQ_URL"); rabbitmqUrl != "" {
		cfg.Queue.RabbitMQ.Url = rabbitmqUrl
	}

	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.Server.Port = port
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Logs.Level = level
	}
}
