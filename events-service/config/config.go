package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Port         string       `yaml:"port" env:"PORT" env-default:"8080"`
	Environment  string       `yaml:"environment" env:"APP_ENV" env-default:"development"`
	Database     Database     `yaml:"database"`
	Redis        Redis        `yaml:"redis"`
	Kafka        Kafka        `yaml:"kafka"`
	VenueService VenueService `yaml:"venue_service"`
	Workflow     Workflow     `yaml:"workflow"`
}

type Database struct {
	User         string `yaml:"user" env:"DB_USER" env-default:"postgres"`
	Password     string `yaml:"password" env:"DB_PASSWORD" env-default:"password"`
	DatabaseName string `yaml:"database_name" env:"DB_NAME" env-default:"thamco_events"`
	Host         string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port         string `yaml:"port" env:"DB_PORT" env-default:"5432"`
	SSLMode      string `yaml:"ssl_mode" env:"DB_SSL_MODE" env-default:"disable"`

	// Connection Pool Settings
	MaxOpenConns    int `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	MaxIdleConns    int `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"10"`
	ConnMaxLifetime int `yaml:"conn_max_lifetime_minutes" env:"DB_CONN_MAX_LIFETIME" env-default:"30"`
}

func (d *Database) GetDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DatabaseName, d.SSLMode)
}

type Redis struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

func (r *Redis) GetRedisURL() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

type Kafka struct {
	Brokers           []string `yaml:"brokers" env:"KAFKA_BROKERS" env-default:"localhost:9092" env-separator:","`
	NotificationTopic string   `yaml:"notification_topic" env:"KAFKA_NOTIFICATION_TOPIC" env-default:"event-notifications"`
}

// VenueService points at the external venue/reservation API.
type VenueService struct {
	BaseURL string `yaml:"base_url" env:"VENUE_SERVICE_URL" env-default:"https://localhost:7088"`

	// HTTP Connection Pool Settings
	MaxIdleConns        int `yaml:"max_idle_conns" env:"VENUE_MAX_IDLE_CONNS" env-default:"20"`
	MaxIdleConnsPerHost int `yaml:"max_idle_conns_per_host" env:"VENUE_MAX_IDLE_CONNS_PER_HOST" env-default:"10"`
	MaxConnsPerHost     int `yaml:"max_conns_per_host" env:"VENUE_MAX_CONNS_PER_HOST" env-default:"20"`
	IdleConnTimeout     int `yaml:"idle_conn_timeout_seconds" env:"VENUE_IDLE_CONN_TIMEOUT" env-default:"90"`
	RequestTimeout      int `yaml:"request_timeout_seconds" env:"VENUE_REQUEST_TIMEOUT" env-default:"10"`

	// Retry budget for idempotent calls (GET, DELETE). POST is never retried.
	MaxRetries int `yaml:"max_retries" env:"VENUE_MAX_RETRIES" env-default:"2"`
}

func (v *VenueService) Timeout() time.Duration {
	return time.Duration(v.RequestTimeout) * time.Second
}

type Workflow struct {
	// StaffID is sent to the venue service as the member of staff making the reservation.
	StaffID        string `yaml:"staff_id" env:"WORKFLOW_STAFF_ID" env-default:"1"`
	EventTypesTTL  int    `yaml:"event_types_ttl_seconds" env:"WORKFLOW_EVENT_TYPES_TTL" env-default:"300"`
	EventDetailTTL int    `yaml:"event_detail_ttl_seconds" env:"WORKFLOW_EVENT_DETAIL_TTL" env-default:"60"`
}

func (w *Workflow) EventTypesCacheTTL() time.Duration {
	return time.Duration(w.EventTypesTTL) * time.Second
}

func (w *Workflow) EventDetailCacheTTL() time.Duration {
	return time.Duration(w.EventDetailTTL) * time.Second
}

func Initialise(configPath string, useEnv bool) (*Config, error) {
	cfg := &Config{}

	if useEnv {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment variables: %w", err)
		}
		return cfg, nil
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := cleanenv.ReadConfig(configPath, cfg); err != nil {
				return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
			}
			return cfg, nil
		}
	}

	// Fallback to environment variables
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment variables: %w", err)
	}

	return cfg, nil
}
