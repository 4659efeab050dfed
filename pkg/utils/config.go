package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Email     EmailConfig
	OTP       OTPConfig
	Security  SecurityConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name        string
	Port        string
	Debug       bool
	LogPath     string
	PublicDir   string
	TrustProxy  bool
	CORSOrigins []string
}

type DatabaseConfig struct {
	Driver   string
	Path     string
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	Secure   bool
}

// Enabled reports whether enough SMTP settings are present to send real mail.
func (e EmailConfig) Enabled() bool {
	return e.Host != "" && e.Port != 0 && e.User != "" && e.Password != ""
}

const DefaultOTPExpiryMinutes = 10

type OTPConfig struct {
	ExpiryMinutes int
}

// Minutes is the code lifetime, falling back to DefaultOTPExpiryMinutes when unset or non-positive.
func (o OTPConfig) Minutes() int {
	if o.ExpiryMinutes <= 0 {
		return DefaultOTPExpiryMinutes
	}
	return o.ExpiryMinutes
}

type SecurityConfig struct {
	AdminKey   string
	BcryptCost int
}

type RateLimitConfig struct {
	RedisURL string
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")

	// Set defaults
	v.SetDefault("APP_NAME", "probul-backend")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("PUBLIC_DIR", "public")
	v.SetDefault("TRUST_PROXY", false)
	v.SetDefault("CORS_ORIGINS", "https://pro-bul-server-production.up.railway.app,http://localhost:3000,http://localhost:8080")
	v.SetDefault("STORE_DRIVER", "sqlite")
	v.SetDefault("DB_PATH", "/tmp/probul.db")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("MAIL_HOST", "smtp.gmail.com")
	v.SetDefault("MAIL_PORT", 587)
	v.SetDefault("MAIL_SECURE", false)
	v.SetDefault("OTP_EXPIRY_MINUTES", 10)
	v.SetDefault("BCRYPT_COST", 12)

	// .env is optional, real deployments inject plain environment variables
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read .env: %w", err)
		}
	}

	v.AutomaticEnv()

	mailUser := v.GetString("MAIL_USER")
	mailFrom := v.GetString("MAIL_FROM")
	if mailFrom == "" {
		mailFrom = fmt.Sprintf("\"Pro-Bul\" <%s>", mailUser)
	}

	config := &Config{
		App: AppConfig{
			Name:        v.GetString("APP_NAME"),
			Port:        v.GetString("PORT"),
			Debug:       v.GetBool("DEBUG"),
			LogPath:     v.GetString("LOG_PATH"),
			PublicDir:   v.GetString("PUBLIC_DIR"),
			TrustProxy:  v.GetBool("TRUST_PROXY"),
			CORSOrigins: splitList(v.GetString("CORS_ORIGINS")),
		},
		Database: DatabaseConfig{
			Driver:   strings.ToLower(v.GetString("STORE_DRIVER")),
			Path:     v.GetString("DB_PATH"),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		Email: EmailConfig{
			Host:     v.GetString("MAIL_HOST"),
			Port:     v.GetInt("MAIL_PORT"),
			User:     mailUser,
			Password: v.GetString("MAIL_PASS"),
			From:     mailFrom,
			Secure:   v.GetBool("MAIL_SECURE"),
		},
		OTP: OTPConfig{
			ExpiryMinutes: v.GetInt("OTP_EXPIRY_MINUTES"),
		},
		Security: SecurityConfig{
			AdminKey:   v.GetString("ADMIN_KEY"),
			BcryptCost: v.GetInt("BCRYPT_COST"),
		},
		RateLimit: RateLimitConfig{
			RedisURL: v.GetString("REDIS_URL"),
		},
	}

	return config, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
