/* bot_command_test.go
 * Contains unit tests for NewBot
 * Authors: Zachary Bower
 */

package bot

import (
	"io"
	"log/slog"
	"tennis-league/api/api"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// region NewBot tests

func TestNewBot_Success(t *testing.T) {
	apiPtr := api.New(api.NewMockStore(), discardLogger())
	bot, err := NewBot("test_token", apiPtr, discardLogger())

	require.NoError(t, err)
	assert.Equal(t, "test_token", bot.BotToken)
	assert.Same(t, apiPtr, bot.APIPtr)
	assert.NotNil(t, bot.Limiter)
	assert.Equal(t, commandTimeout, bot.Timeout)
}

func TestNewBot_EmptyToken(t *testing.T) {
	_, err := NewBot("", api.New(api.NewMockStore(), discardLogger()), discardLogger())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "botToken is required")
}

func TestNewBot_MissingAPI(t *testing.T) {
	_, err := NewBot("test_token", nil, discardLogger())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "apiPtr is required")
}

func TestNewBot_DefaultLogger(t *testing.T) {
	bot, err := NewBot("test_token", api.New(api.NewMockStore(), nil), nil)

	require.NoError(t, err)
	assert.NotNil(t, bot.Logger)
}

// endregion
