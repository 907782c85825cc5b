package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Security
	JWTSecret string

	// Application
	AppEnv   string
	AppPort  string
	LogLevel string

	// Rate Limiting
	RateLimitPerPlayer int
	RateLimitPerIP     int

	// Gameplay
	RoundBudget         int // rounds per match
	QuestionsPerRound   int // quiz length per phase
	TopicOfferSize      int // topics shown to the chooser
	QuestionTimeSeconds int // advisory per-question limit, not enforced server-side
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "trivia"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "trivia_duel"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret: getEnv("JWT_SECRET_KEY", ""),

		AppEnv:   getEnv("APP_ENV", "development"),
		AppPort:  getEnv("APP_PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		RateLimitPerPlayer: getEnvInt("RATE_LIMIT_PER_PLAYER", 60),
		RateLimitPerIP:     getEnvInt("RATE_LIMIT_PER_IP", 120),

		RoundBudget:         getEnvInt("ROUND_BUDGET", 3),
		QuestionsPerRound:   getEnvInt("QUESTIONS_PER_ROUND", 5),
		TopicOfferSize:      getEnvInt("TOPIC_OFFER_SIZE", 4),
		QuestionTimeSeconds: getEnvInt("QUESTION_TIME_SECONDS", 15),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DBPassword == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET_KEY must be at least 32 characters")
	}
	if c.RoundBudget < 1 {
		return fmt.Errorf("ROUND_BUDGET must be at least 1")
	}
	if c.QuestionsPerRound < 1 {
		return fmt.Errorf("QUESTIONS_PER_ROUND must be at least 1")
	}
	if c.TopicOfferSize < 1 {
		return fmt.Errorf("TOPIC_OFFER_SIZE must be at least 1")
	}
	if c.QuestionTimeSeconds < 1 {
		return fmt.Errorf("QUESTION_TIME_SECONDS must be at least 1")
	}
	return nil
}

func (c *Config) ValidateProductionSecurity() error {
	if c.AppEnv != "production" {
		return nil
	}

	if c.DBSSLMode != "require" {
		return fmt.Errorf("DB_SSLMODE must be 'require' in production")
	}
	if c.JWTSecret == "your_jwt_secret_minimum_32_chars_here_change_this" {
		return fmt.Errorf("JWT_SECRET_KEY must be changed from default in production")
	}

	return nil
}

func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func (c *Config) QuestionTime() time.Duration {
	return time.Duration(c.QuestionTimeSeconds) * time.Second
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
