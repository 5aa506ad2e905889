/* config.go
 * Loads the configuration of the league services from environment variables. A .env file in the working directory is
 * loaded first when present
 * Authors: Zachary Bower
 */

package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultDBName    = "tennis_league"
	defaultHTTPAddr  = ":8080"
	defaultRateRPS   = 5.0
	defaultRateBurst = 10
)

// Config holds the settings shared by the bot, the web server and the admin commands
type Config struct {
	MongoURI         string
	DBName           string
	DiscordToken     string
	DiscordBetaToken string
	HTTPAddr         string
	CORSOrigins      []string
	RateLimitRPS     float64
	RateLimitBurst   int
	LogLevel         slog.Level
	LogFormat        string
}

// Load reads the configuration from the environment, loading .env first if it exists
func Load() (*Config, error) {
	// a missing .env file is normal in production
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds the configuration from a lookup function
// Preconditions: Receives a function returning the value of an environment variable, "" when unset
// Postconditions: Returns the validated configuration, or an error naming the first invalid variable
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		MongoURI:         getenv("MONGO_URI"),
		DBName:           withDefault(getenv("DB_NAME"), defaultDBName),
		DiscordToken:     getenv("DISCORD_TOKEN"),
		DiscordBetaToken: getenv("DISCORD_BETA_TOKEN"),
		HTTPAddr:         withDefault(getenv("HTTP_ADDR"), defaultHTTPAddr),
		CORSOrigins:      splitList(withDefault(getenv("CORS_ORIGINS"), "*")),
		RateLimitRPS:     defaultRateRPS,
		RateLimitBurst:   defaultRateBurst,
		LogFormat:        strings.ToLower(withDefault(getenv("LOG_FORMAT"), "text")),
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI environment variable is not set")
	}

	if v := getenv("RATE_LIMIT_RPS"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil || rps <= 0 {
			return nil, fmt.Errorf("RATE_LIMIT_RPS must be a positive number, got '%s'", v)
		}
		cfg.RateLimitRPS = rps
	}

	if v := getenv("RATE_LIMIT_BURST"); v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil || burst < 1 {
			return nil, fmt.Errorf("RATE_LIMIT_BURST must be a positive integer, got '%s'", v)
		}
		cfg.RateLimitBurst = burst
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(withDefault(getenv("LOG_LEVEL"), "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got '%s'", cfg.LogFormat)
	}

	return cfg, nil
}

// BotToken returns the Discord token for the production or the beta bot
func (c *Config) BotToken(beta bool) (string, error) {
	token, name := c.DiscordToken, "DISCORD_TOKEN"
	if beta {
		token, name = c.DiscordBetaToken, "DISCORD_BETA_TOKEN"
	}
	if token == "" {
		return "", fmt.Errorf("%s environment variable is not set", name)
	}
	return token, nil
}

// NewLogger creates the structured logger described by LOG_LEVEL and LOG_FORMAT
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func withDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return strings.TrimSpace(value)
}

func splitList(value string) []string {
	var res []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			res = append(res, item)
		}
	}
	return res
}
