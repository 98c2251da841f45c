package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Cache    CacheConfig    `yaml:"cache"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
	Worker   WorkerConfig   `yaml:"worker"`
}

type HTTPConfig struct {
	Address        string  `yaml:"address" env:"HTTP_ADDRESS"`
	SwaggerDir     string  `yaml:"swagger_dir" env:"HTTP_SWAGGER_DIR"`
	RateLimitRPS   float64 `yaml:"rate_limit_rps" env:"HTTP_RATE_LIMIT_RPS"`
	RateLimitBurst int     `yaml:"rate_limit_burst" env:"HTTP_RATE_LIMIT_BURST"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host" env:"POSTGRES_HOST"`
	Port     int    `yaml:"port" env:"POSTGRES_PORT"`
	User     string `yaml:"user" env:"POSTGRES_USER"`
	Password string `yaml:"password" env:"POSTGRES_PASSWORD"`
	Name     string `yaml:"name" env:"POSTGRES_DB"`
	SSLMode  string `yaml:"ssl_mode" env:"POSTGRES_SSL_MODE"`
	Migrate  bool   `yaml:"migrate" env:"POSTGRES_MIGRATE"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// RedisConfig with an empty Addr selects the in-process cache.
type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB"`
}

type KafkaConfig struct {
	Brokers     []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:","`
	OrdersTopic string   `yaml:"orders_topic" env:"KAFKA_ORDERS_TOPIC"`
	GroupID     string   `yaml:"group_id" env:"KAFKA_GROUP_ID"`
}

type CacheConfig struct {
	FlightsTTLSeconds     int `yaml:"flights_ttl_seconds" env:"CACHE_FLIGHTS_TTL_SECONDS"`
	IdempotencyTTLMinutes int `yaml:"idempotency_ttl_minutes" env:"CACHE_IDEMPOTENCY_TTL_MINUTES"`
}

func (c CacheConfig) FlightsTTL() time.Duration {
	return time.Duration(c.FlightsTTLSeconds) * time.Second
}

func (c CacheConfig) IdempotencyTTL() time.Duration {
	return time.Duration(c.IdempotencyTTLMinutes) * time.Minute
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" env:"AUTH_JWT_SECRET"`
}

type LogConfig struct {
	Env   string `yaml:"env" env:"LOG_ENV"`
	Level string `yaml:"level" env:"LOG_LEVEL"`
}

type WorkerConfig struct {
	OutboxPollSeconds  int `yaml:"outbox_poll_seconds" env:"WORKER_OUTBOX_POLL_SECONDS"`
	OutboxBatchSize    int `yaml:"outbox_batch_size" env:"WORKER_OUTBOX_BATCH_SIZE"`
	OutboxStaleSeconds int `yaml:"outbox_stale_seconds" env:"WORKER_OUTBOX_STALE_SECONDS"`
}

func (w WorkerConfig) OutboxPollInterval() time.Duration {
	return time.Duration(w.OutboxPollSeconds) * time.Second
}

// OutboxStaleAfter is how long a claimed event may sit in processing before
// another relay takes it back.
func (w WorkerConfig) OutboxStaleAfter() time.Duration {
	return time.Duration(w.OutboxStaleSeconds) * time.Second
}

// LoadConfig reads the YAML file at path and then applies environment
// overrides. Unset variables leave the file values untouched.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read env overrides: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.HTTP.RateLimitRPS == 0 {
		c.HTTP.RateLimitRPS = 20
	}
	if c.HTTP.RateLimitBurst == 0 {
		c.HTTP.RateLimitBurst = 40
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Kafka.OrdersTopic == "" {
		c.Kafka.OrdersTopic = "airport.orders"
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "airport-notifications"
	}
	if c.Cache.FlightsTTLSeconds == 0 {
		c.Cache.FlightsTTLSeconds = 30
	}
	if c.Cache.IdempotencyTTLMinutes == 0 {
		c.Cache.IdempotencyTTLMinutes = 24 * 60
	}
	if c.Log.Env == "" {
		c.Log.Env = "development"
	}
	if c.Worker.OutboxPollSeconds == 0 {
		c.Worker.OutboxPollSeconds = 2
	}
	if c.Worker.OutboxBatchSize == 0 {
		c.Worker.OutboxBatchSize = 10
	}
	if c.Worker.OutboxStaleSeconds == 0 {
		c.Worker.OutboxStaleSeconds = 60
	}
}
