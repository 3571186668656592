package config

import (
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env      string         `yaml:"env" env:"ENV" env-default:"prod"`
	Source   SourceConfig   `yaml:"source"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Display  DisplayConfig  `yaml:"display"`
	Store    StoreConfig    `yaml:"store"`
	Places   PlacesRef      `yaml:"places"`
	Projects ProjectsRef    `yaml:"projects"`
	HTTP     HTTPConfig     `yaml:"http"`
	Health   HealthConfig   `yaml:"health"`
	Log      LogConfig      `yaml:"log"`
	Sinks    SinksConfig    `yaml:"sinks"`
}

type SourceConfig struct {
	URL     string        `yaml:"url" env:"SOURCE_URL" env-default:"https://global-warming.org/api/temperature-api"`
	Timeout time.Duration `yaml:"timeout" env-default:"6s"`
	HTTP2   bool          `yaml:"http2" env-default:"true"`
}

type ScheduleConfig struct {
	RetryInitial time.Duration `yaml:"retry_initial" env-default:"30s"`
	RetryMax     time.Duration `yaml:"retry_max" env-default:"5m"`
	Refresh      time.Duration `yaml:"refresh" env-default:"24h"`
}

type DisplayConfig struct {
	Ceiling float64 `yaml:"ceiling" env-default:"2.0"`
}

type StoreConfig struct {
	Enabled bool          `yaml:"enabled" env-default:"true"`
	Path    string        `yaml:"path" env:"STORE_PATH" env-default:"/var/lib/climate-indicator/readings.db"`
	MaxAge  time.Duration `yaml:"max_age" env-default:"8760h"`

	// PruneInterval is how often readings older than MaxAge are deleted.
	PruneInterval time.Duration `yaml:"prune_interval" env-default:"1h"`
}

type PlacesRef struct {
	ConfigPath    string        `yaml:"config_path" env:"PLACES_PATH" env-default:"config/places.yaml"`
	SlideInterval time.Duration `yaml:"slide_interval" env-default:"4s"`
	ViewerIdle    time.Duration `yaml:"viewer_idle" env-default:"30m"`
}

type ProjectsRef struct {
	ConfigPath string `yaml:"config_path" env:"PROJECTS_PATH" env-default:"config/projects.yaml"`
}

type HTTPConfig struct {
	Address      string        `yaml:"address" env:"HTTP_ADDR" env-default:":8000"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env-default:"5s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env-default:"10s"`
}

type HealthConfig struct {
	Address string `yaml:"address" env:"HEALTH_ADDR" env-default:":8080"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

type SinksConfig struct {
	Webhook WebhookConfig `yaml:"webhook"`
	Kafka   KafkaConfig   `yaml:"kafka"`
	MQTT    MQTTConfig    `yaml:"mqtt"`
	Redis   RedisConfig   `yaml:"redis"`
}

type WebhookConfig struct {
	Enabled bool          `yaml:"enabled"`
	URL     string        `yaml:"url"`
	Token   string        `yaml:"token" env:"WEBHOOK_TOKEN"`
	Timeout time.Duration `yaml:"timeout" env-default:"10s"`
	Retry   RetryConfig   `yaml:"retry"`
}

type RetryConfig struct {
	MaxAttempts  int           `yaml:"max_attempts" env-default:"5"`
	InitialDelay time.Duration `yaml:"initial_delay" env-default:"1s"`
	MaxDelay     time.Duration `yaml:"max_delay" env-default:"60s"`
}

type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	Topic   string   `yaml:"topic" env-default:"climate-readings"`
}

type MQTTConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Broker   string `yaml:"broker" env:"MQTT_BROKER" env-default:"localhost"`
	Port     int    `yaml:"port" env-default:"1883"`
	ClientID string `yaml:"client_id" env-default:"climate-indicator"`
	Topic    string `yaml:"topic" env-default:"climate/warming/latest"`
}

type RedisConfig struct {
	Enabled bool          `yaml:"enabled"`
	URL     string        `yaml:"url" env:"REDIS_URL" env-default:"redis://localhost:6379/0"`
	Key     string        `yaml:"key" env-default:"climate:latest"`
	TTL     time.Duration `yaml:"ttl" env-default:"72h"`
}

func MustLoad(configPath string) *Config {
	if configPath == "" {
		configPath = os.Getenv("CONFIG_PATH")
	}

	if configPath == "" {
		configPath = "config/config.yaml"
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file not found: " + configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("failed to read config: " + err.Error())
	}

	return &cfg
}
