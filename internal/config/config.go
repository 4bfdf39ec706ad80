package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	SessionSecret string
	SiteURL       string
	GinMode       string
	LogLevel      string
	TemplatesDir  string
	StaticDir     string

	StoreDriver string // file, postgres or memory
	DataFile    string
	DatabaseURL string
	SeedDemo    bool

	GeminiAPIKey string
	LLMModel     string

	GeocoderURL       string
	GeocoderUserAgent string
	GeocoderCountry   string

	ImgurClientID string

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	SMTPFrom string
}

// Load reads .env (if present) and then the process environment.
// The returned bool is false when no .env file was found.
func Load() (*Config, bool) {
	foundEnv := godotenv.Load() == nil
	return FromEnv(), foundEnv
}

// FromEnv builds the config from the current environment, with defaults for local dev.
func FromEnv() *Config {
	return &Config{
		Port:          getenv("PORT", "8080"),
		SessionSecret: getenv("SESSION_SECRET", "secret_key_change_me"),
		SiteURL:       strings.TrimSuffix(getenv("SITE_URL", "http://localhost:8080"), "/"),
		GinMode:       getenv("GIN_MODE", "debug"),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		TemplatesDir:  getenv("TEMPLATES_DIR", "./web/templates"),
		StaticDir:     getenv("STATIC_DIR", "./web/static"),

		StoreDriver: strings.ToLower(getenv("STORE_DRIVER", "file")),
		DataFile:    getenv("DATA_FILE", "./data/farejo.json"),
		DatabaseURL: getenv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=farejo port=5432 sslmode=disable TimeZone=America/Sao_Paulo"),
		SeedDemo:    getbool("SEED_DEMO", false),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		LLMModel:     getenv("LLM_MODEL", "gemini-2.5-flash"),

		GeocoderURL:       strings.TrimSuffix(os.Getenv("GEOCODER_URL"), "/"),
		GeocoderUserAgent: getenv("GEOCODER_USER_AGENT", "farejo/1.0"),
		GeocoderCountry:   getenv("GEOCODER_COUNTRY", "Brasil"),

		ImgurClientID: os.Getenv("IMGUR_CLIENT_ID"),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: os.Getenv("SMTP_PORT"),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		SMTPFrom: os.Getenv("SMTP_FROM"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getbool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
