/* handlers.go
 * Contains the command handlers of the bot. Handlers accept the DiscordSession interface so they can be tested
 * with a mock session
 * Authors: Zachary Bower
 */

package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"tennis-league/api/api"
	"tennis-league/api/logic"
	"tennis-league/api/shared"
	"tennis-league/api/store"

	"github.com/bwmarrin/discordgo"
)

type handlerFunc func(ctx context.Context, session DiscordSession, message *discordgo.MessageCreate, args []string)

func (b *Bot) commands() map[string]handlerFunc {
	return map[string]handlerFunc{
		"$help":        b.helpMessageHandler,
		"$groups":      b.groupsHandler,
		"$link":        b.linkHandler,
		"$matches":     b.matchesHandler,
		"$score":       b.scoreHandler,
		"$wo":          b.walkoverHandler,
		"$leaderboard": b.leaderboardHandler,
		"$ranking":     b.rankingHandler,
		"$h2h":         b.headToHeadHandler,
		"$round":       b.roundHandler,
		"$available":   b.availabilityHandler,
	}
}

// newMessageHandler routes messages to the command handlers
// botUserID is the bot's user ID to prevent self-responses
func (b *Bot) newMessageHandler(session DiscordSession, message *discordgo.MessageCreate, botUserID string) {
	if message.Author == nil || message.Author.ID == botUserID {
		return
	}
	if !startsWith(message.Content, commandPrefix) {
		return
	}

	fields := strings.Fields(message.Content)
	handler, ok := b.commands()[strings.ToLower(fields[0])]
	if !ok {
		return
	}

	if b.Limiter != nil && !b.Limiter.Allow(message.Author.ID) {
		b.send(session, message.ChannelID, fmt.Sprintf("Slow down %s, try again in a few seconds", message.Author.Username))
		return
	}

	args, err := splitArgs(message.Content)
	if err != nil {
		b.send(session, message.ChannelID, "Could not read that command, check that every quote is closed")
		return
	}

	timeout := b.Timeout
	if timeout <= 0 {
		timeout = commandTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	b.logger().Debug("command received", slog.String("command", args[0]), slog.String("user", message.Author.ID))
	handler(ctx, session, message, args[1:])
}

// helpMessageHandler handles the $help command
func (b *Bot) helpMessageHandler(_ context.Context, session DiscordSession, message *discordgo.MessageCreate, _ []string) {
	var res strings.Builder
	res.WriteString("Tennis League Bot\n")
	res.WriteString("`$link \"Your Name\"`: links your discord account to your player. Most commands need this first\n")
	res.WriteString("`$groups`: lists the groups of the league\n")
	res.WriteString("`$matches [pending|completed]`: shows your matches in your group\n")
	res.WriteString("`$score \"Opponent\" yours theirs`: enters the result of your match, your games first. Use W.O for a walkover (e.g. `$score Bia 6 W.O`)\n")
	res.WriteString("`$wo \"Opponent\"`: reports that your opponent did not show up\n")
	res.WriteString("`$leaderboard [group]`: shows the standings of your group, or of the given group\n")
	res.WriteString("`$ranking [2025_Rodada1]`: shows the league ranking, optionally as it was after a round\n")
	res.WriteString("`$h2h \"Player 1\" \"Player 2\"`: shows every match between two players\n")
	res.WriteString("`$round`: shows the current round and how long is left to play it\n")
	res.WriteString("`$available 2025-03-11 18:00 19:00 [available|maybe|busy|unavailable]`: sets your availability for those hours\n")
	res.WriteString("Names are fuzzy matched. Names that contain spaces need to be in quotes (e.g. \"Caio Prado\")\n")
	b.send(session, message.ChannelID, res.String())
}

// groupsHandler handles the $groups command
func (b *Bot) groupsHandler(ctx context.Context, session DiscordSession, message *discordgo.MessageCreate, _ []string) {
	groups, err := b.APIPtr.GetAvailableGroups(ctx)
	if err != nil {
		b.logger().Error("failed to load groups", slog.Any("error", err))
		b.send(session, message.ChannelID, "An error occurred getting the groups")
		return
	}
	if len(groups) == 0 {
		b.send(session, message.ChannelID, "No groups found")
		return
	}
	b.send(session, message.ChannelID, fmt.Sprintf("Groups: %s", strings.Join(groups, ", ")))
}

// linkHandler handles the $link command. Unquoted names with spaces are joined back together
func (b *Bot) linkHandler(ctx context.Context, session DiscordSession, message *discordgo.MessageCreate, args []string) {
	name := unquote(strings.Join(args, " "))
	if name == "" {
		b.send(session, message.ChannelID, "Usage: `$link \"Your Name\"`")
		return
	}

	user := userFromMessage(message)
	player, err := b.APIPtr.LinkPlayer(ctx, user, name)
	switch {
	case err == nil:
		b.send(session, message.ChannelID, fmt.Sprintf("%s is now linked to %s (group %s)", user.Username, player.Name, player.GroupID))
	case errors.Is(err, api.ErrPlayerNotFound):
		b.send(session, message.ChannelID, fmt.Sprintf("Could not find a player named %s", name))
	case errors.Is(err, api.ErrInvalidInput):
		b.send(session, message.ChannelID, err.Error())
	default:
		b.logger().Error("failed to link player", slog.String("user", user.UserID), slog.Any("error", err))
		b.send(session, message.ChannelID, fmt.Sprintf("An error occurred linking %s", user.Username))
	}
}

// matchesHandler handles the $matches command
func (b *Bot) matchesHandler(ctx context.Context, session DiscordSession, message *discordgo.MessageCreate, args []string) {
	player, ok := b.linkedPlayer(ctx, session, message)
	if !ok {
		return
	}

	state := ""
	if len(args) > 0 {
		state = strings.ToLower(args[0])
	}

	matches, err := b.APIPtr.GetGroupMatches(ctx, player.GroupID, state)
	if err != nil {
		if errors.Is(err, api.ErrInvalidInput) {
			b.send(session, message.ChannelID, "Usage: `$matches [pending|completed]`")
			return
		}
		b.logger().Error("failed to load matches", slog.String("group", player.GroupID), slog.Any("error", err))
		b.send(session, message.ChannelID, "An error occurred getting your matches")
		return
	}

	own := logic.MatchesForPlayer(matches, player.ID)
	if len(own) == 0 {
		b.send(session, message.ChannelID, fmt.Sprintf("No matches found for %s", player.Name))
		return
	}

	var res strings.Builder
	res.WriteString(fmt.Sprintf("%s's matches:\n", player.Name))
	for _, m := range own {
		res.WriteString(fmt.Sprintf("- %s\n", formatMatch(m)))
	}
	b.send(session, message.ChannelID, res.String())
}

// scoreHandler handles the $score command. The user's games come first and are mapped onto the stored player order
func (b *Bot) scoreHandler(ctx context.Context, session DiscordSession, message *discordgo.MessageCreate, args []string) {
	if len(args) != 3 {
		b.send(session, message.ChannelID, "Usage: `$score \"Opponent\" yours theirs` (e.g. `$score Bia 6 4`)")
		return
	}

	own, err := shared.ParseScore(args[1])
	if err != nil {
		b.send(session, message.ChannelID, fmt.Sprintf("Invalid score: %s", err))
		return
	}
	theirs, err := shared.ParseScore(args[2])
	if err != nil {
		b.send(session, message.ChannelID, fmt.Sprintf("Invalid score: %s", err))
		return
	}

	player, ok := b.linkedPlayer(ctx, session, message)
	if !ok {
		return
	}
	match, ok := b.findMatch(ctx, session, message, player, args[0])
	if !ok {
		return
	}

	sub := api.ScoreSubmission{GroupID: match.GroupID, MatchID: match.ID, EditorID: player.ID, Score1: own, Score2: theirs}
	if match.Player2.ID == player.ID {
		sub.Score1, sub.Score2 = theirs, own
	}

	updated, err := b.APIPtr.SubmitScore(ctx, sub)
	if err != nil {
		b.send(session, message.ChannelID, b.editErrorMessage(err, match))
		return
	}
	b.send(session, message.ChannelID, fmt.Sprintf("Score saved: %s", formatMatch(updated)))
}

// walkoverHandler handles the $wo command, recording that the opponent forfeited
func (b *Bot) walkoverHandler(ctx context.Context, session DiscordSession, message *discordgo.MessageCreate, args []string) {
	if len(args) != 1 {
		b.send(session, message.ChannelID, "Usage: `$wo \"Opponent\"`")
		return
	}

	player, ok := b.linkedPlayer(ctx, session, message)
	if !ok {
		return
	}
	match, ok := b.findMatch(ctx, session, message, player, args[0])
	if !ok {
		return
	}

	opponent, _ := match.Opponent(player.ID)
	updated, err := b.APIPtr.ReportWalkover(ctx, match.GroupID, match.ID, player.ID, opponent.ID)
	if err != nil {
		b.send(session, message.ChannelID, b.editErrorMessage(err, match))
		return
	}
	b.send(session, message.ChannelID, fmt.Sprintf("Walkover recorded: %s", formatMatch(updated)))
}

// leaderboardHandler handles the $leaderboard command
func (b *Bot) leaderboardHandler(ctx context.Context, session DiscordSession, message *discordgo.MessageCreate, args []string) {
	var groupID string
	if len(args) > 0 {
		groupID = unquote(args[0])
	} else {
		player, ok := b.linkedPlayer(ctx, session, message)
		if !ok {
			return
		}
		groupID = player.GroupID
	}

	entries, err := b.APIPtr.GetGroupLeaderboard(ctx, groupID, "")
	if err != nil {
		b.logger().Error("failed to load leaderboard", slog.String("group", groupID), slog.Any("error", err))
		b.send(session, message.ChannelID, "An error occurred getting the leaderboard")
		return
	}
	if len(entries) == 0 {
		b.send(session, message.ChannelID, fmt.Sprintf("Group %s has no leaderboard yet", groupID))
		return
	}

	var res strings.Builder
	res.WriteString(fmt.Sprintf("Group %s leaderboard:\n", groupID))
	formatEntries(&res, entries)
	b.send(session, message.ChannelID, res.String())
}

// rankingHandler handles the $ranking command
func (b *Bot) rankingHandler(ctx context.Context, session DiscordSession, message *discordgo.MessageCreate, args []string) {
	var (
		entries []shared.LeaderboardEntry
		err     error
		title   = "League ranking:\n"
	)
	if len(args) > 0 {
		roundID := unquote(args[0])
		entries, err = b.APIPtr.GetRankingForRound(ctx, roundID)
		title = fmt.Sprintf("League ranking after %s:\n", roundID)
	} else {
		entries, err = b.APIPtr.GetRanking(ctx)
	}

	if err != nil {
		if errors.Is(err, api.ErrInvalidInput) {
			b.send(session, message.ChannelID, "Round ids look like 2025_Rodada1")
			return
		}
		b.logger().Error("failed to load ranking", slog.Any("error", err))
		b.send(session, message.ChannelID, "An error occurred getting the ranking")
		return
	}
	if len(entries) == 0 {
		b.send(session, message.ChannelID, "No ranking available")
		return
	}

	var res strings.Builder
	res.WriteString(title)
	formatEntries(&res, entries)
	b.send(session, message.ChannelID, res.String())
}

// headToHeadHandler handles the $h2h command
func (b *Bot) headToHeadHandler(ctx context.Context, session DiscordSession, message *discordgo.MessageCreate, args []string) {
	if len(args) != 2 {
		b.send(session, message.ChannelID, "Usage: `$h2h \"Player 1\" \"Player 2\"`")
		return
	}

	pair, matches, err := b.APIPtr.HeadToHead(ctx, unquote(args[0]), unquote(args[1]))
	switch {
	case errors.Is(err, api.ErrPlayerNotFound), errors.Is(err, api.ErrInvalidInput):
		b.send(session, message.ChannelID, err.Error())
		return
	case err != nil:
		b.logger().Error("failed to load head to head", slog.Any("error", err))
		b.send(session, message.ChannelID, "An error occurred getting the matches")
		return
	}

	if len(matches) == 0 {
		b.send(session, message.ChannelID, fmt.Sprintf("%s and %s have not played each other", pair[0].Name, pair[1].Name))
		return
	}

	var res strings.Builder
	res.WriteString(fmt.Sprintf("%s vs %s:\n", pair[0].Name, pair[1].Name))
	for _, m := range matches {
		res.WriteString(fmt.Sprintf("- %s (%s)\n", formatMatch(m), m.RoundID))
	}
	b.send(session, message.ChannelID, res.String())
}

// roundHandler handles the $round command
func (b *Bot) roundHandler(ctx context.Context, session DiscordSession, message *discordgo.MessageCreate, _ []string) {
	info, err := b.APIPtr.GetRoundInfo(ctx)
	if err != nil {
		b.logger().Error("failed to load round", slog.Any("error", err))
		b.send(session, message.ChannelID, "An error occurred getting the current round")
		return
	}
	b.send(session, message.ChannelID, formatRound(info))
}

// availabilityHandler handles the $available command. The last argument is read as the status when it is one
func (b *Bot) availabilityHandler(ctx context.Context, session DiscordSession, message *discordgo.MessageCreate, args []string) {
	usage := "Usage: `$available 2025-03-11 18:00 19:00 [available|maybe|busy|unavailable]`"
	if len(args) < 2 {
		b.send(session, message.ChannelID, usage)
		return
	}

	date, slots, status := args[0], args[1:], shared.StatusAvailable
	if last := strings.ToLower(slots[len(slots)-1]); logic.ValidStatus(last) {
		status, slots = last, slots[:len(slots)-1]
	}

	player, ok := b.linkedPlayer(ctx, session, message)
	if !ok {
		return
	}

	_, err := b.APIPtr.SetAvailability(ctx, player.ID, date, slots, status, "")
	if err != nil {
		if errors.Is(err, api.ErrInvalidInput) {
			b.send(session, message.ChannelID, fmt.Sprintf("%s\n%s", err, usage))
			return
		}
		b.logger().Error("failed to set availability", slog.String("player", player.ID), slog.Any("error", err))
		b.send(session, message.ChannelID, "An error occurred saving your availability")
		return
	}
	b.send(session, message.ChannelID, fmt.Sprintf("%s is %s on %s at %s", player.Name, status, date, strings.Join(slots, ", ")))
}

// linkedPlayer returns the player linked to the author of the message. When there is none the user is told how to
// link and ok is false
func (b *Bot) linkedPlayer(ctx context.Context, session DiscordSession, message *discordgo.MessageCreate) (store.Player, bool) {
	user := userFromMessage(message)
	player, err := b.APIPtr.PlayerForUser(ctx, user)
	if err != nil {
		if errors.Is(err, api.ErrPlayerNotFound) {
			b.send(session, message.ChannelID, fmt.Sprintf("%s is not linked to a player. Use `$link \"Your Name\"` first", user.Username))
		} else {
			b.logger().Error("failed to load player", slog.String("user", user.UserID), slog.Any("error", err))
			b.send(session, message.ChannelID, "An error occurred loading your player")
		}
		return store.Player{}, false
	}
	return player, true
}

// findMatch finds the player's match against the typed opponent, sending a message when there is none
func (b *Bot) findMatch(ctx context.Context, session DiscordSession, message *discordgo.MessageCreate, player store.Player, opponentArg string) (shared.Match, bool) {
	matches, err := b.APIPtr.GetGroupMatches(ctx, player.GroupID, "")
	if err != nil {
		b.logger().Error("failed to load matches", slog.String("group", player.GroupID), slog.Any("error", err))
		b.send(session, message.ChannelID, "An error occurred getting your matches")
		return shared.Match{}, false
	}

	own := logic.MatchesForPlayer(matches, player.ID)
	names := make([]string, 0, len(own))
	for _, m := range own {
		opponent, _ := m.Opponent(player.ID)
		names = append(names, opponent.Name)
	}

	name, found := logic.MatchPlayerName(opponentArg, names)
	if !found {
		b.send(session, message.ChannelID, fmt.Sprintf("%s has no match against %s", player.Name, unquote(opponentArg)))
		return shared.Match{}, false
	}
	match, _ := pickMatch(own, player.ID, name)
	return match, true
}

// editErrorMessage turns an error from SubmitScore or ReportWalkover into a reply
func (b *Bot) editErrorMessage(err error, match shared.Match) string {
	switch {
	case errors.Is(err, api.ErrInvalidScore):
		return "Invalid score. A set ends 6-0 to 6-4, 7-5 or 7-6. A walkover is W.O against 6"
	case errors.Is(err, api.ErrWalkoverEdit), errors.Is(err, api.ErrLeagueBlocked),
		errors.Is(err, api.ErrNotParticipant), errors.Is(err, api.ErrInvalidInput):
		return err.Error()
	case errors.Is(err, api.ErrMatchNotFound):
		return "That match no longer exists"
	}
	b.logger().Error("failed to update match", slog.String("match", match.ID), slog.Any("error", err))
	return fmt.Sprintf("An error occurred saving %s", formatMatch(match))
}

func (b *Bot) send(session DiscordSession, channelID string, content string) {
	if _, err := session.ChannelMessageSend(channelID, content); err != nil {
		b.logger().Warn("failed to send message", slog.String("channel", channelID), slog.Any("error", err))
	}
}

func (b *Bot) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.Default()
	}
	return b.Logger
}

func userFromMessage(message *discordgo.MessageCreate) shared.User {
	return shared.User{UserID: message.Author.ID, Username: message.Author.Username}
}

// pickMatch returns the match against the named opponent. A pending match is preferred over a played one, then the
// match of the later round
func pickMatch(matches []shared.Match, playerID, opponentName string) (shared.Match, bool) {
	var best shared.Match
	found := false
	for _, m := range matches {
		opponent, ok := m.Opponent(playerID)
		if !ok || opponent.Name != opponentName {
			continue
		}
		if !found || preferMatch(m, best) {
			best, found = m, true
		}
	}
	return best, found
}

func preferMatch(a, b shared.Match) bool {
	pendingA := a.Player1.Score.IsPending() || a.Player2.Score.IsPending()
	pendingB := b.Player1.Score.IsPending() || b.Player2.Score.IsPending()
	if pendingA != pendingB {
		return pendingA
	}
	return logic.RoundOrder(a.RoundID) > logic.RoundOrder(b.RoundID)
}
