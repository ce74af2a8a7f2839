package config

import "os"

// RelayConfig holds configuration for the outbox relay service.
// This is a minimal config that only includes what the relay needs.
type RelayConfig struct {
	DatabaseURL string
	RabbitMQURL string
	QueueName   string
	HealthPort  string
}

func LoadRelayConfig() *RelayConfig {
	dbURL := os.Getenv("DB_CONNECTION_STRING")
	if dbURL == "" {
		panic("DB_CONNECTION_STRING environment variable is required")
	}

	rabbitURL := os.Getenv("RABBITMQ_URL")
	if rabbitURL == "" {
		panic("RABBITMQ_URL environment variable is required")
	}

	queueName := os.Getenv("VERIFICATION_QUEUE_NAME")
	if queueName == "" {
		queueName = "verification-events"
	}

	healthPort := os.Getenv("HEALTH_PORT")
	if healthPort == "" {
		healthPort = "8081"
	}

	return &RelayConfig{
		DatabaseURL: dbURL,
		RabbitMQURL: rabbitURL,
		QueueName:   queueName,
		HealthPort:  healthPort,
	}
}
