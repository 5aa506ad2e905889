/* players.go
 * Contains the API methods for players: linking chat users to players, looking players up by name and managing
 * their weekly availability
 * Authors: Zachary Bower
 */

package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"tennis-league/api/logic"
	"tennis-league/api/shared"
	"tennis-league/api/store"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// FindPlayerByName returns the player whose name best matches the typed name
// Preconditions: Receives the typed name, may be partial or differently cased
// Postconditions: Returns the player, or ErrPlayerNotFound when no name matches
func (a *API) FindPlayerByName(ctx context.Context, name string) (store.Player, error) {
	players, err := a.Store.GetPlayers(ctx)
	if err != nil {
		return store.Player{}, fmt.Errorf("failed to load players: %w", err)
	}
	return findByName(players, name)
}

func findByName(players []store.Player, name string) (store.Player, error) {
	names := make([]string, 0, len(players))
	byName := make(map[string]store.Player, len(players))
	for _, p := range players {
		names = append(names, p.Name)
		byName[p.Name] = p
	}

	match, ok := logic.MatchPlayerName(name, names)
	if !ok {
		return store.Player{}, fmt.Errorf("%w: '%s'", ErrPlayerNotFound, name)
	}
	return byName[match], nil
}

// LinkPlayer links a chat user to the player with the given name so their commands act as that player
// Preconditions: Receives the chat user and the typed player name
// Postconditions: Returns the linked player, ErrPlayerNotFound if the name matches nobody, or ErrInvalidInput if the
// player is already linked to another user
func (a *API) LinkPlayer(ctx context.Context, user shared.User, name string) (store.Player, error) {
	if user.UserID == "" {
		return store.Player{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	player, err := a.FindPlayerByName(ctx, name)
	if err != nil {
		return store.Player{}, err
	}
	if player.DiscordID != "" && player.DiscordID != user.UserID {
		return store.Player{}, fmt.Errorf("%w: %s is already linked to another user", ErrInvalidInput, player.Name)
	}

	if err := a.Store.LinkDiscordID(ctx, player.ID, user.UserID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return store.Player{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, player.ID)
		}
		return store.Player{}, fmt.Errorf("failed to link player: %w", err)
	}

	a.logger().Info("player linked", slog.String("player", player.ID), slog.String("user", user.Username))
	player.DiscordID = user.UserID
	return player, nil
}

// PlayerForUser returns the player linked to a chat user, or ErrPlayerNotFound
func (a *API) PlayerForUser(ctx context.Context, user shared.User) (store.Player, error) {
	player, err := a.Store.GetPlayerByDiscordID(ctx, user.UserID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return store.Player{}, fmt.Errorf("%w: %s is not linked to a player", ErrPlayerNotFound, user.Username)
		}
		return store.Player{}, fmt.Errorf("failed to load player: %w", err)
	}
	return player, nil
}

// UpdateProfile changes the editable part of a player's profile
// Preconditions: Receives the player id and the new profile. Empty name and avatar fields keep the stored values
// Postconditions: Returns the updated player, ErrInvalidInput for a bad hand, or ErrPlayerNotFound
func (a *API) UpdateProfile(ctx context.Context, playerID string, profile store.PlayerProfile) (store.Player, error) {
	if playerID == "" {
		return store.Player{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	profile.Name = strings.TrimSpace(profile.Name)
	switch profile.Details.Hand {
	case "", "right", "left":
	default:
		return store.Player{}, fmt.Errorf("%w: hand must be right or left, got '%s'", ErrInvalidInput, profile.Details.Hand)
	}

	if err := a.Store.UpdatePlayerProfile(ctx, playerID, profile); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return store.Player{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
		}
		return store.Player{}, fmt.Errorf("failed to update profile: %w", err)
	}
	return a.GetPlayer(ctx, playerID)
}

// HeadToHead returns every match played or scheduled between two players, newest round first
// Preconditions: Receives the two typed names, matched fuzzily against the league's players
// Postconditions: Returns both players and their matches. ErrPlayerNotFound names every name that matched nobody,
// ErrInvalidInput is returned when both names resolve to the same player
func (a *API) HeadToHead(ctx context.Context, name1, name2 string) ([2]store.Player, []shared.Match, error) {
	var pair [2]store.Player

	players, err := a.Store.GetPlayers(ctx)
	if err != nil {
		return pair, nil, fmt.Errorf("failed to load players: %w", err)
	}
	names := make([]string, 0, len(players))
	byName := make(map[string]store.Player, len(players))
	for _, p := range players {
		names = append(names, p.Name)
		byName[p.Name] = p
	}

	found, missing := logic.CheckPlayerNames([]string{name1, name2}, names)
	if len(missing) > 0 {
		return pair, nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, strings.Join(missing, ", "))
	}
	pair = [2]store.Player{byName[found[0]], byName[found[1]]}
	if pair[0].ID == pair[1].ID {
		return pair, nil, fmt.Errorf("%w: both names match %s", ErrInvalidInput, pair[0].Name)
	}

	groups := []string{pair[0].GroupID}
	if pair[1].GroupID != pair[0].GroupID {
		groups = append(groups, pair[1].GroupID)
	}

	res := []shared.Match{}
	for _, groupID := range groups {
		if groupID == "" {
			continue
		}
		matches, err := a.Store.GetGroupMatches(ctx, groupID)
		if err != nil {
			return pair, nil, fmt.Errorf("failed to load matches: %w", err)
		}
		for _, m := range logic.MatchesForPlayer(matches, pair[0].ID) {
			if m.HasPlayer(pair[1].ID) {
				res = append(res, m)
			}
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		return logic.RoundOrder(res[i].RoundID) > logic.RoundOrder(res[j].RoundID)
	})
	return pair, res, nil
}

// GetPlayer returns a player by id
func (a *API) GetPlayer(ctx context.Context, playerID string) (store.Player, error) {
	player, err := a.Store.GetPlayer(ctx, playerID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return store.Player{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
		}
		return store.Player{}, fmt.Errorf("failed to load player: %w", err)
	}
	return player, nil
}

// GetAvailability returns the stored availability windows of a player, empty when none were saved
func (a *API) GetAvailability(ctx context.Context, playerID string) ([]shared.Availability, error) {
	if playerID == "" {
		return nil, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	return a.Store.GetAvailability(ctx, playerID)
}

// SetAvailability applies a selection of hourly slots on one day to a player's availability and saves it
// Preconditions: Receives the player id, the date (YYYY-MM-DD), the selected slot start times, the status and notes
// Postconditions: Returns the saved availabilities, ErrInvalidInput for a bad date, slot or status, or the store
// error. Nothing is written if the selection is invalid
func (a *API) SetAvailability(ctx context.Context, playerID, date string, slots []string, status, notes string) ([]shared.Availability, error) {
	if playerID == "" || len(slots) == 0 {
		return nil, fmt.Errorf("%w: player id and at least one slot are required", ErrInvalidInput)
	}

	current, err := a.Store.GetAvailability(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load availability: %w", err)
	}

	updated, err := logic.ApplySelection(current, date, slots, status, notes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := a.Store.StoreAvailability(ctx, playerID, updated); err != nil {
		return nil, fmt.Errorf("failed to save availability: %w", err)
	}
	return updated, nil
}

// GetWeekSummary lays a player's availability out on the slot grid for the Monday to Sunday week containing day
func (a *API) GetWeekSummary(ctx context.Context, playerID string, day time.Time) ([]logic.DaySummary, error) {
	avails, err := a.GetAvailability(ctx, playerID)
	if err != nil {
		return nil, err
	}
	return logic.Summarize(avails, logic.WeekDays(day)), nil
}
