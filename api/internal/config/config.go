package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port string

	Engine     string
	Language   string
	Whitelist  string
	OCRTimeout time.Duration

	CORSAllowOrigin  string
	CORSAllowMethods string
	CORSAllowHeaders []string
	CORSMaxAge       int

	GeminiAPIKey string
	GeminiModel  string
	OpenAIAPIKey string
	OpenAIModel  string

	YCOAuthToken string
	YCFolderID   string

	TelegramBotToken string
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getDuration(k string, def time.Duration) time.Duration {
	v := getEnv(k, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("config: bad %s=%q, using %s", k, v, def)
		return def
	}
	return d
}

func getInt(k string, def int) int {
	v := getEnv(k, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		log.Printf("config: bad %s=%q, using %d", k, v, def)
		return def
	}
	return n
}

// getList splits a comma separated env value; empty items are dropped.
func getList(k string) []string {
	v := getEnv(k, "")
	if v == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Load reads the environment. Only the tesseract engine is always available,
// so no variable is required.
func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8000"),

		Engine:     strings.ToLower(getEnv("OCR_ENGINE", "tesseract")),
		Language:   getEnv("OCR_LANGUAGE", "eng"),
		Whitelist:  getEnv("OCR_WHITELIST", "0123456789"),
		OCRTimeout: getDuration("OCR_TIMEOUT", 60*time.Second),

		CORSAllowOrigin:  getEnv("CORS_ALLOW_ORIGIN", ""),
		CORSAllowMethods: getEnv("CORS_ALLOW_METHODS", ""),
		CORSAllowHeaders: getList("CORS_ALLOW_HEADERS"),
		CORSMaxAge:       getInt("CORS_MAX_AGE", -1),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		YCOAuthToken: getEnv("YC_OAUTH_TOKEN", ""),
		YCFolderID:   getEnv("YC_FOLDER_ID", ""),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
	}
}
