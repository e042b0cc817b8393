package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration. It is built once at startup and
// injected into the services that need it; there is no ambient global state.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	// Access token (short-lived, never persisted)
	AccessTokenSecret     string
	AccessTokenExpiry     time.Duration
	AccessTokenCookieName string
	TokenIssuer           string

	// Refresh token (long-lived, persisted on the user record)
	RefreshTokenSecret     string
	RefreshTokenExpiry     time.Duration
	RefreshTokenCookieName string

	CookieSecure bool
	CookieDomain string

	// Media host
	CloudinaryURL    string
	CloudinaryFolder string
	UploadTempDir    string
	UploadMaxBytes   int64
	UploadTimeout    time.Duration

	// Registration events
	KafkaBrokers []string
	KafkaTopic   string

	// External OAuth providers
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `mapstructure:"GOOGLE_REDIRECT_URL"`

	PosthogAPIKey string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ACCESS_TOKEN_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("ACCESS_TOKEN_EXPIRY", "15m")
	viper.SetDefault("ACCESS_TOKEN_COOKIE_NAME", "accessToken")
	viper.SetDefault("TOKEN_ISSUER", "vidtube-backend")
	viper.SetDefault("REFRESH_TOKEN_SECRET", "default_insecure_refresh_secret_please_change_this_!@#$")
	viper.SetDefault("REFRESH_TOKEN_EXPIRY", "240h")
	viper.SetDefault("REFRESH_TOKEN_COOKIE_NAME", "refreshToken")
	viper.SetDefault("COOKIE_SECURE", true)
	viper.SetDefault("COOKIE_DOMAIN", "")
	viper.SetDefault("CLOUDINARY_URL", "")
	viper.SetDefault("CLOUDINARY_FOLDER", "vidtube")
	viper.SetDefault("UPLOAD_TEMP_DIR", "./public/temp")
	viper.SetDefault("UPLOAD_MAX_BYTES", int64(8*1024*1024))
	viper.SetDefault("UPLOAD_TIMEOUT", "20s")
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_TOPIC", "vidtube.user.events")
	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_SECRET", "")
	viper.SetDefault("GOOGLE_REDIRECT_URL", "")
	viper.SetDefault("POSTHOG_API_KEY", "")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.AccessTokenSecret = viper.GetString("ACCESS_TOKEN_SECRET")
	cfg.AccessTokenExpiry = parseDurationOr("ACCESS_TOKEN_EXPIRY", 15*time.Minute)
	cfg.AccessTokenCookieName = viper.GetString("ACCESS_TOKEN_COOKIE_NAME")
	cfg.TokenIssuer = viper.GetString("TOKEN_ISSUER")

	cfg.RefreshTokenSecret = viper.GetString("REFRESH_TOKEN_SECRET")
	if cfg.RefreshTokenSecret == "default_insecure_refresh_secret_please_change_this_!@#$" {
		log.Println("Warning: REFRESH_TOKEN_SECRET is not set, using default insecure secret. THIS IS NOT FOR PRODUCTION.")
	}
	cfg.RefreshTokenExpiry = parseDurationOr("REFRESH_TOKEN_EXPIRY", 240*time.Hour)
	cfg.RefreshTokenCookieName = viper.GetString("REFRESH_TOKEN_COOKIE_NAME")

	cfg.CookieSecure = viper.GetBool("COOKIE_SECURE")
	cfg.CookieDomain = viper.GetString("COOKIE_DOMAIN")

	cfg.CloudinaryURL = viper.GetString("CLOUDINARY_URL")
	if cfg.CloudinaryURL == "" {
		log.Println("Warning: CLOUDINARY_URL not set. Media uploads will fail.")
	}
	cfg.CloudinaryFolder = viper.GetString("CLOUDINARY_FOLDER")
	cfg.UploadTempDir = viper.GetString("UPLOAD_TEMP_DIR")
	cfg.UploadMaxBytes = viper.GetInt64("UPLOAD_MAX_BYTES")
	cfg.UploadTimeout = parseDurationOr("UPLOAD_TIMEOUT", 20*time.Second)

	if brokers := viper.GetString("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	cfg.KafkaTopic = viper.GetString("KAFKA_TOPIC")

	cfg.GoogleClientID = viper.GetString("GOOGLE_CLIENT_ID")
	cfg.GoogleClientSecret = viper.GetString("GOOGLE_CLIENT_SECRET")
	cfg.GoogleRedirectURL = viper.GetString("GOOGLE_REDIRECT_URL")
	if cfg.GoogleClientID == "" {
		log.Println("Warning: GOOGLE_CLIENT_ID not set. Google OAuth will not function.")
	}

	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")

	return cfg, nil
}

func parseDurationOr(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}
