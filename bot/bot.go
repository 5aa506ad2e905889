/* bot.go
 * Contains logic used for creating the league bot. Requires a discord bot token, and APIPtr both of which are
 * passed in from main.go
 * Authors: Zachary Bower
 */

package bot

import (
	"fmt"
	"log/slog"
	"strings"
	"tennis-league/api/api"
	"tennis-league/ratelimit"
	"time"

	"github.com/go-andiamo/splitter"
	"golang.org/x/time/rate"
)

const (
	commandPrefix  = "$"
	commandTimeout = 10 * time.Second
)

type Bot struct {
	BotToken string
	APIPtr   *api.API
	Logger   *slog.Logger
	// Limiter is keyed by discord user id
	Limiter *ratelimit.Limiter
	Timeout time.Duration
}

// NewBot creates a bot that allows each user one command every two seconds with bursts of three
func NewBot(botToken string, apiPtr *api.API, logger *slog.Logger) (*Bot, error) {
	if botToken == "" {
		return nil, fmt.Errorf("botToken is required but none was provided")
	}
	if apiPtr == nil {
		return nil, fmt.Errorf("apiPtr is required but none was provided")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Bot{
		BotToken: botToken,
		APIPtr:   apiPtr,
		Logger:   logger.With(slog.String("component", "bot")),
		Limiter:  ratelimit.New(rate.Every(2*time.Second), 3),
		Timeout:  commandTimeout,
	}, nil
}

// Helper function to check if a string starts with a given substring
// Preconditions: Receives an input string and a substring
// Postconditions: Returns true if the substring is at the start of the string, else returns false
func startsWith(inputString string, substring string) bool {
	return len(inputString) >= len(substring) && inputString[:len(substring)] == substring
}

// Function to split a command into its arguments. Arguments that contain spaces are wrapped in quotes
// e.g. `$score "Caio Prado" 6 4`. The quotes are kept on the argument, use unquote to remove them
// Preconditions: Receives the message content
// Postconditions: Returns the non-empty arguments, or an error if a quote is never closed
func splitArgs(content string) ([]string, error) {
	// splitter keeps quoted names with spaces together where strings.Fields would not
	spaceSplitter, err := splitter.NewSplitter(' ', splitter.DoubleQuotes, splitter.LeftRightDoubleDoubleQuotes)
	if err != nil {
		return nil, err
	}
	parts, err := spaceSplitter.Split(strings.TrimSpace(content))
	if err != nil {
		return nil, err
	}

	res := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			res = append(res, p)
		}
	}
	return res, nil
}

func unquote(arg string) string {
	return strings.Trim(arg, "\"“” ")
}
