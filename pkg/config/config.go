package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development" validate:"required"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080" validate:"gt=0,lte=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		SlowThreshold   time.Duration `yaml:"slow_threshold" default:"500ms"`
		CORSOrigins     []string      `yaml:"cors_origins" default:"[\"*\"]"`
		RateLimit       struct {
			RPS   float64 `yaml:"rps" default:"20" validate:"gt=0"`
			Burst int     `yaml:"burst" default:"40" validate:"gt=0"`
		} `yaml:"rate_limit"`
	} `yaml:"server"`
	Logging struct {
		Level        string        `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
		Format       string        `yaml:"format" default:"json" validate:"oneof=json console"`
		Output       string        `yaml:"output" default:"stdout"`
		CollectTopic string        `yaml:"collect_topic"`
		CollectEvery time.Duration `yaml:"collect_every" default:"30s"`
		CollectMax   int           `yaml:"collect_max" default:"100"`
	} `yaml:"logging"`
	Metrics struct {
		Path string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Backend struct {
		Type string `yaml:"type" default:"clickhouse" validate:"oneof=kafka clickhouse"`
	} `yaml:"backend"`
	Kafka struct {
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic" default:"riskkit.returns"`
		ReportsTopic string   `yaml:"reports_topic"`
		RequiredAcks int      `yaml:"required_acks" default:"-1"`
		Compression  string   `yaml:"compression" default:"gzip" validate:"oneof=gzip snappy lz4 zstd"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			Linger       time.Duration `yaml:"linger" default:"50ms"`
			BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
			BatchSize    int           `yaml:"batch_size" default:"100"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
			ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
		Consumer struct {
			GroupID    string        `yaml:"group_id" default:"riskkit"`
			Workers    int           `yaml:"workers" default:"4" validate:"gt=0"`
			BufferSize int           `yaml:"buffer_size" default:"256"`
			RetryMax   int           `yaml:"retry_max" default:"3"`
			BackoffMin time.Duration `yaml:"backoff_min" default:"50ms"`
			BackoffMax time.Duration `yaml:"backoff_max" default:"2s"`
			DLQTopic   string        `yaml:"dlq_topic"`
			MinBytes   int           `yaml:"min_bytes" default:"1"`
			MaxBytes   int           `yaml:"max_bytes" default:"10000000"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host             string        `yaml:"host" default:"localhost"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"riskkit" validate:"required,alphanum"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout     time.Duration `yaml:"write_timeout" default:"10s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"30s"`
	} `yaml:"clickhouse"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Addr     string `yaml:"addr" default:"localhost:6379"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Risk struct {
		Level           float64       `yaml:"level" default:"5" validate:"gt=0,lt=100"`
		PeriodsPerYear  float64       `yaml:"periods_per_year" default:"12" validate:"gt=0"`
		RiskFreeRate    float64       `yaml:"riskfree_rate"`
		NormalityLevel  float64       `yaml:"normality_level" default:"0.01" validate:"gt=0,lt=1"`
		CacheTTL        time.Duration `yaml:"cache_ttl" default:"1m"`
		Timeout         time.Duration `yaml:"timeout" default:"10s"`
		MaxObservations int           `yaml:"max_observations" default:"5000" validate:"gt=0"`
		StreamPing      time.Duration `yaml:"stream_ping" default:"30s"`
	} `yaml:"risk"`
}

var validate = validator.New()

// Load reads a YAML file, fills unset fields with defaults and validates the result.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML bytes into a validated Config.
func Parse(b []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	c.applyEnv(os.Getenv)
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("RISKKIT_ENV"); v != "" {
		c.Environment = v
	}
	if v := getenv("BACKEND"); v != "" {
		c.Backend.Type = v
	}
	if v := getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
		c.Redis.Enabled = true
	}
}

// Validate checks struct tags and the cross-field rules tags cannot express.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Backend.Type == "kafka" && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when backend.type is 'kafka'")
	}
	if c.Kafka.Consumer.BackoffMax < c.Kafka.Consumer.BackoffMin {
		return fmt.Errorf("kafka.consumer.backoff_max must be >= backoff_min")
	}
	return nil
}

// KafkaEnabled reports whether any component needs a Kafka connection.
func (c *Config) KafkaEnabled() bool {
	return len(c.Kafka.Brokers) > 0
}
