package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// const dsn = "host=localhost user=postgres password=password dbname=sltourism port=5432 sslmode=disable TimeZone=Asia/Colombo"

var (
	API_ENV    = os.Getenv("API_ENV")
	API_PORT   = getenv("PORT", "9090")
	APP_HOST   = os.Getenv("APP_HOST")
	TEMP_DIR   = getenv("TEMP_DIR", os.TempDir())
	JWT_SECRET = os.Getenv("JWT_SECRET")

	REDIS_HOST = os.Getenv("REDIS_HOST")
	KEY_PREFIX = os.Getenv("KEY_PREFIX")

	GAPI_API_KEY          = os.Getenv("GAPI_API_KEY")
	STRIPE_SECRET_KEY     = os.Getenv("STRIPE_SECRET_KEY")
	STRIPE_WEBHOOK_SECRET = os.Getenv("STRIPE_WEBHOOK_SECRET")

	UPLOAD_PROVIDER          = getenv("UPLOAD_PROVIDER", "inline")
	CLOUDINARY_CLOUD_NAME    = os.Getenv("CLOUDINARY_CLOUD_NAME")
	CLOUDINARY_UPLOAD_PRESET = os.Getenv("CLOUDINARY_UPLOAD_PRESET")
	S3_ASSETS_BUCKET         = os.Getenv("S3_ASSETS_BUCKET")

	EVENT_REMOTES    = os.Getenv("EVENT_REMOTES")
	KAFKA_BROKER     = os.Getenv("KAFKA_BROKER")
	SNS_TOPIC_ARN    = os.Getenv("SNS_TOPIC_ARN")
	SQS_EVENTS_QUEUE = os.Getenv("SQS_EVENTS_QUEUE")
	PUSHER_CHANNEL   = getenv("PUSHER_CHANNEL", "gallery")

	MAIL_PROVIDER = os.Getenv("MAIL_PROVIDER")
	SMTP_FROM     = getenv("SMTP_FROM", "noreply@example.com")

	SECRETS_DIR        = os.Getenv("SECRETS_DIR")
	FCM_TOPIC          = getenv("FCM_TOPIC", "gallery")
	GOOGLE_CALENDAR_ID = os.Getenv("GOOGLE_CALENDAR_ID")

	ADMIN_EMAIL    = os.Getenv("ADMIN_EMAIL")
	ADMIN_PASSWORD = os.Getenv("ADMIN_PASSWORD")
)

const TIME_PARSE_FORMAT = "2006-01-02 15:04:05 -07:00"

// Reload re-reads the environment. Needed after godotenv has loaded a .env
// file because the package vars above are evaluated at init.
func Reload() {
	API_ENV = os.Getenv("API_ENV")
	API_PORT = getenv("PORT", "9090")
	APP_HOST = os.Getenv("APP_HOST")
	TEMP_DIR = getenv("TEMP_DIR", os.TempDir())
	JWT_SECRET = os.Getenv("JWT_SECRET")
	REDIS_HOST = os.Getenv("REDIS_HOST")
	KEY_PREFIX = os.Getenv("KEY_PREFIX")
	GAPI_API_KEY = os.Getenv("GAPI_API_KEY")
	STRIPE_SECRET_KEY = os.Getenv("STRIPE_SECRET_KEY")
	STRIPE_WEBHOOK_SECRET = os.Getenv("STRIPE_WEBHOOK_SECRET")
	UPLOAD_PROVIDER = getenv("UPLOAD_PROVIDER", "inline")
	CLOUDINARY_CLOUD_NAME = os.Getenv("CLOUDINARY_CLOUD_NAME")
	CLOUDINARY_UPLOAD_PRESET = os.Getenv("CLOUDINARY_UPLOAD_PRESET")
	S3_ASSETS_BUCKET = os.Getenv("S3_ASSETS_BUCKET")
	EVENT_REMOTES = os.Getenv("EVENT_REMOTES")
	KAFKA_BROKER = os.Getenv("KAFKA_BROKER")
	SNS_TOPIC_ARN = os.Getenv("SNS_TOPIC_ARN")
	SQS_EVENTS_QUEUE = os.Getenv("SQS_EVENTS_QUEUE")
	PUSHER_CHANNEL = getenv("PUSHER_CHANNEL", "gallery")
	MAIL_PROVIDER = os.Getenv("MAIL_PROVIDER")
	SMTP_FROM = getenv("SMTP_FROM", "noreply@example.com")
	SECRETS_DIR = os.Getenv("SECRETS_DIR")
	FCM_TOPIC = getenv("FCM_TOPIC", "gallery")
	GOOGLE_CALENDAR_ID = os.Getenv("GOOGLE_CALENDAR_ID")
	ADMIN_EMAIL = os.Getenv("ADMIN_EMAIL")
	ADMIN_PASSWORD = os.Getenv("ADMIN_PASSWORD")
}

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := getenv("DATABASE_TIMEZONE", "Asia/Colombo")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := getenv("DATABASE_NAME", "sri_lanka_image_db")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

func IsLocal() bool {
	return API_ENV == "" || API_ENV == "local"
}

func IsProd() bool {
	return API_ENV == "production"
}

// SyncInterval is the period of the single reconcile job.
func SyncInterval() time.Duration {
	return GetDuration("SYNC_INTERVAL", 5*time.Second)
}

func CarouselInterval() time.Duration {
	return GetDuration("CAROUSEL_INTERVAL", 5*time.Second)
}

func SeedSamples() bool {
	return GetBool("SEED_SAMPLES", true)
}

func MaintenanceMode() bool {
	mm := os.Getenv("MAINTENANCE_MODE")
	if mm == "" {
		return false
	}
	on, err := strconv.ParseBool(mm)
	// unparsable values keep the site down, same as an explicit "true"
	return err != nil || on
}

// Remotes lists the event bus mirrors configured in EVENT_REMOTES.
func Remotes() []string {
	var remotes []string
	for _, r := range strings.Split(EVENT_REMOTES, ",") {
		r = strings.TrimSpace(strings.ToLower(r))
		if r != "" {
			remotes = append(remotes, r)
		}
	}
	return remotes
}

func GetDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("[config] Invalid duration for %s=%q, using %s\n", key, v, fallback)
		return fallback
	}
	return d
}

func GetBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("[config] Invalid bool for %s=%q, using %v\n", key, v, fallback)
		return fallback
	}
	return b
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
