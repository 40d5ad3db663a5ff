package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/easyshoppingzone/orderdesk/internal/logging"
)

type Config struct {
	Port           string
	SheetAPIURL    string
	JWTSecret      string
	SessionKey     string
	CSRFKey        string
	CookieSecure   bool
	Location       *time.Location
	FetchTimeout   time.Duration
	LogLevel       string
	AllowedOrigins []string
	UsersFile      string
}

func Load() *Config {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("PORT", "8081"),
		SheetAPIURL:    getEnv("SHEET_API_URL", "https://script.google.com/macros/s/REPLACE_ME/exec"),
		JWTSecret:      getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		SessionKey:     getEnv("SESSION_KEY", "dev-session-key-change-in-production"),
		CSRFKey:        getEnv("CSRF_KEY", "dev-csrf-key-32-bytes-long-12345"),
		CookieSecure:   getEnv("COOKIE_SECURE", "false") == "true",
		Location:       getLocation("TIMEZONE", "Asia/Karachi"),
		FetchTimeout:   getDuration("FETCH_TIMEOUT", 15*time.Second),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: splitCSV(getEnv("ALLOWED_ORIGINS", "http://localhost:8081")),
		UsersFile:      getEnv("USERS_FILE", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		logging.GetLogger().WithFields(logrus.Fields{"key": key, "value": s}).Warn("invalid duration, using default")
		return fallback
	}
	return d
}

func getLocation(key, fallback string) *time.Location {
	name := getEnv(key, fallback)
	loc, err := time.LoadLocation(name)
	if err != nil {
		logging.GetLogger().WithFields(logrus.Fields{"key": key, "value": name}).Warn("unknown timezone, using +05:00")
		return time.FixedZone("PKT", 5*60*60)
	}
	return loc
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
