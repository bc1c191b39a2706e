package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	AppVersion        string `mapstructure:"APP_VERSION"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisAuthDB   int    `mapstructure:"REDIS_AUTH_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	SettingsCacheTTLSeconds  int `mapstructure:"SETTINGS_CACHE_TTL"`
	PrincipalCacheTTLSeconds int `mapstructure:"PRINCIPAL_CACHE_TTL"`

	// Firebase (auth + FCM).
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`

	// Stripe.
	StripeKey            string `mapstructure:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret  string `mapstructure:"STRIPE_WEBHOOK_SECRET"`
	StripePublishableKey string `mapstructure:"STRIPE_PUBLISHABLE_KEY"`
	PaymentCurrency      string `mapstructure:"PAYMENT_CURRENCY"`

	// Email and SMS providers.
	SendGridAPIKey   string `mapstructure:"SENDGRID_API_KEY"`
	EmailFrom        string `mapstructure:"EMAIL_FROM"`
	EmailFromName    string `mapstructure:"EMAIL_FROM_NAME"`
	TwilioAccountSID string `mapstructure:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string `mapstructure:"TWILIO_AUTH_TOKEN"`
	TwilioFromNumber string `mapstructure:"TWILIO_FROM_NUMBER"`

	// Cloudinary media storage.
	CloudinaryCloudName string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `mapstructure:"CLOUDINARY_API_SECRET"`
	MediaFolder         string `mapstructure:"MEDIA_FOLDER"`

	// Tracing.
	OTelEnabled      bool    `mapstructure:"OTEL_ENABLED"`
	OTelEndpoint     string  `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTelSamplingRate float64 `mapstructure:"OTEL_SAMPLING_RATIO"`

	// Periodic jobs.
	NotificationDispatchSpec string `mapstructure:"NOTIFICATION_DISPATCH_SPEC"`
	DailyAnalyticsSpec       string `mapstructure:"DAILY_ANALYTICS_SPEC"`
	DispatchBatchSize        int    `mapstructure:"DISPATCH_BATCH_SIZE"`
}

var AppConfig Config

func LoadConfig() {
	// A local .env is optional; real deployments inject the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, continuing")
	}

	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_VERSION", "1.0.0")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "lashstudio")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_AUTH_DB", 1)
	viper.SetDefault("REDIS_QUEUE_DB", 2)
	viper.SetDefault("SETTINGS_CACHE_TTL", 300)
	viper.SetDefault("PRINCIPAL_CACHE_TTL", 120)
	viper.SetDefault("FIREBASE_CREDENTIALS_FILE", "firebase-service-account.json")
	viper.SetDefault("PAYMENT_CURRENCY", "usd")
	viper.SetDefault("EMAIL_FROM", "noreply@lashstudio.com")
	viper.SetDefault("EMAIL_FROM_NAME", "Lash Studio")
	viper.SetDefault("MEDIA_FOLDER", "lashstudio/media")
	viper.SetDefault("OTEL_ENABLED", false)
	viper.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	viper.SetDefault("OTEL_SAMPLING_RATIO", 1.0)
	viper.SetDefault("NOTIFICATION_DISPATCH_SPEC", "*/15 * * * *")
	viper.SetDefault("DAILY_ANALYTICS_SPEC", "0 1 * * *")
	viper.SetDefault("DISPATCH_BATCH_SIZE", 100)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
