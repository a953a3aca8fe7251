package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Policy holds the scheduling knobs that are configured per deployment and
// passed into the scheduler, never read from the environment inside it.
type Policy struct {
	SlotDurationMin       int
	CancelWindowHours     int
	PatientBookingEnabled bool
}

type Config struct {
	DatabaseURL string
	RedisAddr   string
	JWTSecret   string
	Port        string

	SMTPHost  string
	SMTPPort  int
	EmailUser string
	EmailPass string

	Policy Policy
}

var cfg Config

// Load reads .env (if present) and the process environment. Call once at
// startup before anything touches Get().
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file. Using environment variables directly.")
	}

	cfg = Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		JWTSecret:   getEnv("JWT_SECRET", "solid_secret_key"),
		Port:        getEnv("PORT", "8000"),
		SMTPHost:    os.Getenv("SMTP_HOST"),
		SMTPPort:    getEnvInt("SMTP_PORT", 587),
		EmailUser:   os.Getenv("EMAIL_USER"),
		EmailPass:   os.Getenv("EMAIL_PASS"),
		Policy: Policy{
			SlotDurationMin:       getEnvInt("SLOT_DURATION_MIN", 30),
			CancelWindowHours:     getEnvInt("CANCEL_WINDOW_HOURS", 2),
			PatientBookingEnabled: getEnvBool("PATIENT_BOOKING_ENABLED", true),
		},
	}
	return cfg
}

// Get returns the configuration loaded at startup.
func Get() Config {
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %t", key, v, fallback)
		return fallback
	}
	return b
}
