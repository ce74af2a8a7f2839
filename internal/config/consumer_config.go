package config

import "os"

// ConsumerConfig holds configuration for the platform event consumer.
type ConsumerConfig struct {
	DatabaseURL string
	RabbitMQURL string
	QueueName   string
	HealthPort  string
}

func LoadConsumerConfig() *ConsumerConfig {
	dbURL := os.Getenv("DB_CONNECTION_STRING")
	if dbURL == "" {
		panic("DB_CONNECTION_STRING environment variable is required")
	}

	rabbitURL := os.Getenv("RABBITMQ_URL")
	if rabbitURL == "" {
		panic("RABBITMQ_URL environment variable is required")
	}

	queueName := os.Getenv("USER_EVENTS_QUEUE_NAME")
	if queueName == "" {
		queueName = "user-events"
	}

	healthPort := os.Getenv("HEALTH_PORT")
	if healthPort == "" {
		healthPort = "8082"
	}

	return &ConsumerConfig{
		DatabaseURL: dbURL,
		RabbitMQURL: rabbitURL,
		QueueName:   queueName,
		HealthPort:  healthPort,
	}
}
