package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port                string
	AllowedOrigin       string
	APIBaseURL          string
	APITimeoutSeconds   int
	RedisAddr           string
	RedisPassword       string
	RedisDB             int
	ViewCacheTTLSeconds int
	AuthSecret          string
	SessionTTLMinutes   int
	SessionSweepSeconds int
	ReportPageSize      int
	ListPageSize        int
	SMTPHost            string
	SMTPPort            int
	SMTPUsername        string
	SMTPPassword        string
	SMTPFrom            string
}

// Load reads configuration from the environment. When CONFIG_FILE names a
// YAML file of KEY: value pairs, those values are used for keys the
// environment leaves unset.
func Load() Config {
	file := map[string]string{}
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		values, err := readFile(path)
		if err != nil {
			log.Printf("[config] WARN: ignoring %s: %v", path, err)
		} else {
			file = values
		}
	}
	get := func(key, fallback string) string {
		if val := os.Getenv(key); val != "" {
			return val
		}
		if val := file[key]; val != "" {
			return val
		}
		return fallback
	}

	redisDB, _ := strconv.Atoi(get("REDIS_DB", "0"))

	return Config{
		Port:                get("PORT", "8080"),
		AllowedOrigin:       get("ALLOWED_ORIGIN", "http://127.0.0.1:5173"),
		APIBaseURL:          strings.TrimRight(get("API_BASE_URL", "http://127.0.0.1:4000/api"), "/"),
		APITimeoutSeconds:   positive(get("API_TIMEOUT_SECONDS", "10"), 10),
		RedisAddr:           get("REDIS_ADDR", ""),
		RedisPassword:       get("REDIS_PASSWORD", ""),
		RedisDB:             redisDB,
		ViewCacheTTLSeconds: positive(get("VIEW_CACHE_TTL_SECONDS", "30"), 30),
		AuthSecret:          strings.TrimSpace(get("AUTH_SECRET", "")),
		SessionTTLMinutes:   positive(get("SESSION_TTL_MINUTES", "480"), 480),
		SessionSweepSeconds: positive(get("SESSION_SWEEP_SECONDS", "60"), 60),
		ReportPageSize:      positive(get("REPORT_PAGE_SIZE", "8"), 8),
		ListPageSize:        positive(get("LIST_PAGE_SIZE", "10"), 10),
		SMTPHost:            get("SMTP_HOST", ""),
		SMTPPort:            positive(get("SMTP_PORT", "587"), 587),
		SMTPUsername:        get("SMTP_USERNAME", ""),
		SMTPPassword:        get("SMTP_PASSWORD", ""),
		SMTPFrom:            get("SMTP_FROM", "reports@inventora.local"),
	}
}

func (c Config) Address() string {
	return fmt.Sprintf(":%s", c.Port)
}

func readFile(path string) (map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	values := make(map[string]string, len(doc))
	for key, val := range doc {
		if val == nil {
			continue
		}
		values[strings.ToUpper(strings.TrimSpace(key))] = fmt.Sprint(val)
	}
	return values, nil
}

func positive(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
