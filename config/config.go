package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTAccessSecret  string
	JWTRefreshSecret string
	JWTResetSecret   string

	AccessTokenTTL        time.Duration
	RefreshTokenTTL       time.Duration
	ResetTokenTTL         time.Duration
	ImpersonationTokenTTL time.Duration

	LockoutThreshold int
	LockoutDuration  time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KafkaBrokers    string
	KafkaAuditTopic string

	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	SMTPFromName  string
	SMTPFromEmail string

	FrontendURL string
}

// Load reads environment variables and returns a Config object
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file, using environment variables")
	}

	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))

	return &Config{
		Port: getEnv("PORT", "8080"),

		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),

		JWTAccessSecret:  getEnv("JWT_ACCESS_SECRET", "dev_secret"),
		JWTRefreshSecret: getEnv("JWT_REFRESH_SECRET", "dev_refresh"),
		JWTResetSecret:   getEnv("JWT_RESET_SECRET", "dev_reset"),

		// Token and lockout windows are part of the client contract, not
		// deploy-time tunables.
		AccessTokenTTL:        15 * time.Minute,
		RefreshTokenTTL:       7 * 24 * time.Hour,
		ResetTokenTTL:         time.Hour,
		ImpersonationTokenTTL: 5 * time.Minute,
		LockoutThreshold:      5,
		LockoutDuration:       15 * time.Minute,

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,

		KafkaBrokers:    getEnv("KAFKA_BROKERS", "localhost:9092"),
		KafkaAuditTopic: getEnv("KAFKA_AUDIT_TOPIC", "crm.audit.events"),

		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPUsername:  os.Getenv("SMTP_USERNAME"),
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
		SMTPFromName:  os.Getenv("SMTP_FROM_NAME"),
		SMTPFromEmail: os.Getenv("SMTP_FROM_EMAIL"),

		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
