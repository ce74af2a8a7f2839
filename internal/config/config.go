package config

import (
	"crypto/rsa"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type Config struct {
	JWTPublicKey   *rsa.PublicKey
	DatabaseURL    string
	Port           string
	RedisAddress   string
	RedisPassword  string
	AllowedOrigins []string
}

func Load() *Config {
	publicKeyPath := os.Getenv("PUBLIC_KEY_PATH")
	if publicKeyPath == "" {
		publicKeyPath = "/etc/certs/public.pem"
	}
	publicKey, err := loadPublicKey(publicKeyPath)
	if err != nil {
		panic("Failed to load public key: " + err.Error())
	}

	dbURL := os.Getenv("DB_CONNECTION_STRING")
	if dbURL == "" {
		panic("DB_CONNECTION_STRING environment variable is required")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	redisAddr := os.Getenv("REDIS_ADDRESS")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	origins := []string{"*"}
	if raw := os.Getenv("ALLOWED_ORIGINS"); raw != "" {
		origins = strings.Split(raw, ",")
	}

	return &Config{
		JWTPublicKey:   publicKey,
		DatabaseURL:    dbURL,
		Port:           port,
		RedisAddress:   redisAddr,
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		AllowedOrigins: origins,
	}
}

func loadPublicKey(path string) (*rsa.PublicKey, error) {
	keyData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(keyData)
	if err != nil {
		return nil, err
	}
	return publicKey, nil
}
