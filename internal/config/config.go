package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the attendance service.
type Config struct {
	AppName            string
	AppEnv             string
	AppPort            string
	DatabaseURL        string
	RedisURL           string
	JWTSecret          string
	TokenTTL           time.Duration
	Timezone           string
	RestDay            time.Weekday
	AdminName          string
	AdminEmail         string
	AdminPassword      string
	SeedStudents       []string
	SheetsCredentials  string
	SpreadsheetID      string
	WorksheetName      string
	MirrorTimeout      time.Duration
	DashboardCacheTTL  time.Duration
	LoginRateLimit     int
	LoginRateLimitSpan time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Location resolves the configured IANA timezone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}

	return loc, nil
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("ATTEND")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "LHP Attendance API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("timezone", "Asia/Ho_Chi_Minh")
	v.SetDefault("rest.day", "Sunday")
	v.SetDefault("token.ttl", "24h")
	v.SetDefault("sheets.worksheet", "Attendance")
	v.SetDefault("mirror.timeout", "10s")
	v.SetDefault("dashboard.cache_ttl", "30s")
	v.SetDefault("login.rate_limit", 10)
	v.SetDefault("login.rate_limit_span", "1m")

	tokenTTL, err := time.ParseDuration(v.GetString("token.ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid token ttl: %w", err)
	}

	mirrorTimeout, err := time.ParseDuration(v.GetString("mirror.timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid mirror timeout: %w", err)
	}

	cacheTTL, err := time.ParseDuration(v.GetString("dashboard.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid dashboard cache ttl: %w", err)
	}

	rateSpan, err := time.ParseDuration(v.GetString("login.rate_limit_span"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid login rate limit span: %w", err)
	}

	restDay, err := parseWeekday(v.GetString("rest.day"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppName:            v.GetString("app.name"),
		AppEnv:             v.GetString("app.env"),
		AppPort:            v.GetString("app.port"),
		DatabaseURL:        v.GetString("database.url"),
		RedisURL:           v.GetString("redis.url"),
		JWTSecret:          v.GetString("jwt.secret"),
		TokenTTL:           tokenTTL,
		Timezone:           v.GetString("timezone"),
		RestDay:            restDay,
		AdminName:          v.GetString("admin.name"),
		AdminEmail:         v.GetString("admin.email"),
		AdminPassword:      v.GetString("admin.password"),
		SeedStudents:       splitList(v.GetString("seed.students")),
		SheetsCredentials:  v.GetString("sheets.credentials"),
		SpreadsheetID:      v.GetString("sheets.spreadsheet_id"),
		WorksheetName:      v.GetString("sheets.worksheet"),
		MirrorTimeout:      mirrorTimeout,
		DashboardCacheTTL:  cacheTTL,
		LoginRateLimit:     v.GetInt("login.rate_limit"),
		LoginRateLimitSpan: rateSpan,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.LoginRateLimit <= 0 {
		cfg.LoginRateLimit = 10
	}

	return cfg, nil
}

func parseWeekday(name string) (time.Weekday, error) {
	for day := time.Sunday; day <= time.Saturday; day++ {
		if strings.EqualFold(day.String(), strings.TrimSpace(name)) {
			return day, nil
		}
	}

	return time.Sunday, fmt.Errorf("invalid rest day %q", name)
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			names = append(names, trimmed)
		}
	}

	return names
}
