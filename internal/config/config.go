package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config - структура для хранения конфигурации приложения
type Config struct {
	DatabaseURL string `env:"DATABASE_URL"`
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Redis Config
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Webhook Config
	WebhookURL        string        `env:"WEBHOOK_URL"`
	WebhookSecret     string        `env:"WEBHOOK_SECRET"`
	WebhookTimeout    time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"5s"`
	WebhookMaxRetries int           `env:"WEBHOOK_MAX_RETRIES" envDefault:"3"`
	WebhookBaseDelay  time.Duration `env:"WEBHOOK_BASE_DELAY" envDefault:"1s"`

	// Kafka Config - пустой список брокеров отключает push-ленту инцидентов
	KafkaBrokers       []string `env:"KAFKA_BROKERS"`
	KafkaIncidentTopic string   `env:"KAFKA_INCIDENT_TOPIC" envDefault:"incident-changes"`
	KafkaGroupID       string   `env:"KAFKA_GROUP_ID" envDefault:"danger-zone-engine"`

	// Alert Config
	AlertRadiusBase       float64 `env:"ALERT_RADIUS_BASE" envDefault:"25"`
	AlertCooldownMinutes  int     `env:"ALERT_COOLDOWN_MINUTES" envDefault:"5"`
	AlertMinRiskLevel     int     `env:"ALERT_MIN_RISK_LEVEL" envDefault:"1"`
	AlertSoundEnabled     bool    `env:"ALERT_SOUND_ENABLED" envDefault:"true"`
	AlertVibrationEnabled bool    `env:"ALERT_VIBRATION_ENABLED" envDefault:"true"`
	AlertPushEnabled      bool    `env:"ALERT_PUSH_ENABLED" envDefault:"true"`

	// Engine Config
	ProximityMode               string        `env:"PROXIMITY_MODE" envDefault:"radius"`
	NearbyFactor                float64       `env:"NEARBY_FACTOR" envDefault:"2.0"`
	SeverityInterval            time.Duration `env:"SEVERITY_INTERVAL" envDefault:"60m"`
	LevelCheckInterval          time.Duration `env:"LEVEL_CHECK_INTERVAL" envDefault:"30s"`
	FeedPollInterval            time.Duration `env:"FEED_POLL_INTERVAL" envDefault:"30s"`
	SinkTimeout                 time.Duration `env:"SINK_TIMEOUT" envDefault:"2s"`
	BatteryOptimized            bool          `env:"BATTERY_OPTIMIZED" envDefault:"false"`
	LevelChangeWhenAcknowledged bool          `env:"LEVEL_CHANGE_WHEN_ACKNOWLEDGED" envDefault:"true"`
	CooldownBackend             string        `env:"COOLDOWN_BACKEND" envDefault:"memory"`

	// API Keys for authentication
	APIKeys []string `env:"API_KEYS"`
}

// AlertCooldown возвращает окно подавления повторных оповещений
func (c *Config) AlertCooldown() time.Duration {
	return time.Duration(c.AlertCooldownMinutes) * time.Minute
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}

	cfg := &Config{
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:         os.Getenv("REDIS_PASSWORD"),
		RedisDB:           getEnvAsInt("REDIS_DB", 0),
		WebhookURL:        os.Getenv("WEBHOOK_URL"),
		WebhookSecret:     os.Getenv("WEBHOOK_SECRET"),
		WebhookTimeout:    getEnvAsDuration("WEBHOOK_TIMEOUT", 5*time.Second),
		WebhookMaxRetries: getEnvAsInt("WEBHOOK_MAX_RETRIES", 3),
		WebhookBaseDelay:  getEnvAsDuration("WEBHOOK_BASE_DELAY", time.Second),

		KafkaBrokers:       getEnvAsList("KAFKA_BROKERS"),
		KafkaIncidentTopic: getEnv("KAFKA_INCIDENT_TOPIC", "incident-changes"),
		KafkaGroupID:       getEnv("KAFKA_GROUP_ID", "danger-zone-engine"),

		AlertRadiusBase:       getEnvAsFloat("ALERT_RADIUS_BASE", 25),
		AlertCooldownMinutes:  getEnvAsInt("ALERT_COOLDOWN_MINUTES", 5),
		AlertMinRiskLevel:     getEnvAsInt("ALERT_MIN_RISK_LEVEL", 1),
		AlertSoundEnabled:     getEnvAsBool("ALERT_SOUND_ENABLED", true),
		AlertVibrationEnabled: getEnvAsBool("ALERT_VIBRATION_ENABLED", true),
		AlertPushEnabled:      getEnvAsBool("ALERT_PUSH_ENABLED", true),

		ProximityMode:               getEnv("PROXIMITY_MODE", "radius"),
		NearbyFactor:                getEnvAsFloat("NEARBY_FACTOR", 2.0),
		SeverityInterval:            getEnvAsDuration("SEVERITY_INTERVAL", time.Hour),
		LevelCheckInterval:          getEnvAsDuration("LEVEL_CHECK_INTERVAL", 30*time.Second),
		FeedPollInterval:            getEnvAsDuration("FEED_POLL_INTERVAL", 30*time.Second),
		SinkTimeout:                 getEnvAsDuration("SINK_TIMEOUT", 2*time.Second),
		BatteryOptimized:            getEnvAsBool("BATTERY_OPTIMIZED", false),
		LevelChangeWhenAcknowledged: getEnvAsBool("LEVEL_CHANGE_WHEN_ACKNOWLEDGED", true),
		CooldownBackend:             getEnv("COOLDOWN_BACKEND", "memory"),

		APIKeys: getEnvAsList("API_KEYS"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if cfg.AlertMinRiskLevel < 1 || cfg.AlertMinRiskLevel > 5 {
		return nil, fmt.Errorf("ALERT_MIN_RISK_LEVEL must be within 1..5, got %d", cfg.AlertMinRiskLevel)
	}
	if cfg.AlertCooldownMinutes <= 0 {
		return nil, fmt.Errorf("ALERT_COOLDOWN_MINUTES must be positive, got %d", cfg.AlertCooldownMinutes)
	}
	if cfg.CooldownBackend != "memory" && cfg.CooldownBackend != "redis" {
		return nil, fmt.Errorf("COOLDOWN_BACKEND must be memory or redis, got %q", cfg.CooldownBackend)
	}

	return cfg, nil
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt возвращает значение переменной окружения как int или значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration возвращает значение переменной окружения как time.Duration или значение по умолчанию
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}

// getEnvAsList разбирает список через запятую, пустые элементы отбрасываются
func getEnvAsList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
