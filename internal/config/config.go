package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

const (
	LogFormatJSON    = "json"
	LogFormatConsole = "console"
)

// Config stores the runtime configuration of the bot.
type Config struct {
	DiscordToken      string        `validate:"required"`
	HypixelAPIKey     string        `validate:"required"`
	Port              int           `validate:"min=1,max=65535"`
	DataDir           string        `validate:"required"`
	UpdateInterval    time.Duration `validate:"gt=0"`
	FetchPacing       time.Duration `validate:"gte=0"`
	RateLimitCooldown time.Duration `validate:"gte=0"`
	MojangBaseURL     string        `validate:"required,url"`
	MojangTimeout     time.Duration `validate:"gt=0"`
	HypixelBaseURL    string        `validate:"required,url"`
	HypixelTimeout    time.Duration `validate:"gt=0"`
	HypixelRequests   int           `validate:"gte=1"`
	HypixelWindow     time.Duration `validate:"gt=0"`
	CommandWorkers    int           `validate:"gte=1"`
	LogLevel          zerolog.Level
	LogFormat         string `validate:"oneof=json console"`
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment
// variables win over it.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, errors.Wrap(err, "load .env")
	}

	cfg := Config{
		DiscordToken:   strings.TrimSpace(getEnv("DISCORD_TOKEN", "")),
		HypixelAPIKey:  strings.TrimSpace(getEnv("HYPIXEL_API_KEY", "")),
		DataDir:        getEnv("DATA_DIR", "."),
		MojangBaseURL:  strings.TrimRight(getEnv("MOJANG_BASE_URL", "https://api.mojang.com"), "/"),
		HypixelBaseURL: strings.TrimRight(getEnv("HYPIXEL_BASE_URL", "https://api.hypixel.net"), "/"),
		LogLevel:       parseLogLevel(getEnv("LOG_LEVEL", "info")),
		LogFormat:      strings.ToLower(strings.TrimSpace(getEnv("LOG_FORMAT", LogFormatJSON))),
	}

	var err error
	if cfg.Port, err = getEnvAsInt("PORT", 8080); err != nil {
		return Config{}, errors.Wrap(err, "parse PORT")
	}
	if cfg.HypixelRequests, err = getEnvAsInt("HYPIXEL_REQUESTS", 300); err != nil {
		return Config{}, errors.Wrap(err, "parse HYPIXEL_REQUESTS")
	}
	if cfg.CommandWorkers, err = getEnvAsInt("COMMAND_WORKERS", 4); err != nil {
		return Config{}, errors.Wrap(err, "parse COMMAND_WORKERS")
	}

	durations := []struct {
		key      string
		fallback string
		target   *time.Duration
	}{
		{"UPDATE_INTERVAL", "15m", &cfg.UpdateInterval},
		{"FETCH_PACING", "600ms", &cfg.FetchPacing},
		{"RATE_LIMIT_COOLDOWN", "60s", &cfg.RateLimitCooldown},
		{"MOJANG_TIMEOUT", "5s", &cfg.MojangTimeout},
		{"HYPIXEL_TIMEOUT", "5s", &cfg.HypixelTimeout},
		{"HYPIXEL_WINDOW", "5m", &cfg.HypixelWindow},
	}
	for _, d := range durations {
		value, err := time.ParseDuration(getEnv(d.key, d.fallback))
		if err != nil {
			return Config{}, errors.Wrapf(err, "parse %s", d.key)
		}
		*d.target = value
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, errors.Wrap(err, "invalid configuration")
	}

	return cfg, nil
}

func parseLogLevel(v string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(v)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}
