//go:build !test

/* bot_runtime.go
 * Contains runtime-only Discord bot methods that use *discordgo.Session directly.
 * Delegates to testable handlers in handlers.go
 * Authors: Zachary Bower
 */

package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

// Run connects the bot to discord and answers commands until ctx is cancelled
func (b *Bot) Run(ctx context.Context) error {
	discord, err := discordgo.New("Bot " + b.BotToken)
	if err != nil {
		return fmt.Errorf("failed to create discord session: %w", err)
	}
	discord.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages | discordgo.IntentMessageContent

	discord.AddHandler(b.newMessage)

	if err := discord.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}
	defer discord.Close()

	b.logger().Info("tennis league bot started", slog.String("user", discord.State.User.Username))
	<-ctx.Done()
	b.logger().Info("tennis league bot stopping")
	return nil
}

// newMessage delegates to the testable newMessageHandler
// *discordgo.Session implements DiscordSession interface
func (b *Bot) newMessage(discord *discordgo.Session, message *discordgo.MessageCreate) {
	b.newMessageHandler(discord, message, discord.State.User.ID)
}
