package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Port        string `yaml:"port" env:"PORT" env-default:"8084"`
	Environment string `yaml:"environment" env:"APP_ENV" env-default:"development"`
	Kafka       Kafka  `yaml:"kafka"`
	Email       Email  `yaml:"email"`
}

type Kafka struct {
	Brokers           []string `yaml:"brokers" env:"KAFKA_BROKERS" env-default:"localhost:9092" env-separator:","`
	NotificationTopic string   `yaml:"notification_topic" env:"KAFKA_NOTIFICATION_TOPIC" env-default:"event-notifications"`
	ConsumerGroup     string   `yaml:"consumer_group" env:"KAFKA_CONSUMER_GROUP" env-default:"notification-service"`
}

// Email addresses the staff mailbox that receives workflow notifications.
type Email struct {
	FromEmail  string `yaml:"from_email" env:"FROM_EMAIL" env-default:"noreply@thamco.example"`
	FromName   string `yaml:"from_name" env:"FROM_NAME" env-default:"ThAmCo Events"`
	StaffEmail string `yaml:"staff_email" env:"STAFF_EMAIL" env-default:"events-team@thamco.example"`
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
