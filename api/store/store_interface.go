/* store_interface.go
 * Contains the Store interface for dependency injection and testing
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"tennis-league/api/shared"
)

// Interface defines the methods that Store implements.
// This allows for mocking in tests.
type Interface interface {
	// players
	GetPlayers(ctx context.Context) ([]Player, error)
	GetGroupPlayers(ctx context.Context, groupID string) ([]Player, error)
	GetPlayer(ctx context.Context, playerID string) (Player, error)
	GetPlayerByEmail(ctx context.Context, email string) (Player, error)
	GetPlayerByDiscordID(ctx context.Context, discordID string) (Player, error)
	LinkDiscordID(ctx context.Context, playerID string, discordID string) error
	UpdatePlayerProfile(ctx context.Context, playerID string, profile PlayerProfile) error
	GetAvailableGroupIDs(ctx context.Context) ([]string, error)

	// groups
	GetGroups(ctx context.Context) ([]Group, error)
	SetGroupRound(ctx context.Context, groupID string, roundID string) error

	// matches
	GetGroupMatches(ctx context.Context, groupID string) ([]shared.Match, error)
	GetMatch(ctx context.Context, groupID string, matchID string) (shared.Match, error)
	UpdateMatch(ctx context.Context, match shared.Match) error
	InsertMatches(ctx context.Context, matches []shared.Match) error
	WatchGroupMatches(ctx context.Context, groupID string, fn func([]shared.Match, error)) (func(), error)

	// leaderboards and rankings
	GetLeaderboardEntries(ctx context.Context, groupID string, roundID string) ([]shared.LeaderboardEntry, error)
	StoreLeaderboard(ctx context.Context, leaderboard Leaderboard) error
	GetLatestRankings(ctx context.Context) ([]shared.LeaderboardEntry, error)
	GetPreviousRankings(ctx context.Context) ([]shared.LeaderboardEntry, error)
	GetRankingUntilRound(ctx context.Context, roundID string) ([]shared.LeaderboardEntry, error)
	StoreRanking(ctx context.Context, roundID string, entries []shared.LeaderboardEntry) error

	// rounds
	GetActiveRound(ctx context.Context) (Round, error)
	GetSystemStatus(ctx context.Context) (SystemStatus, error)
	GetAvailableYears(ctx context.Context) ([]int, error)
	GetRoundHistoryPlayers(ctx context.Context, roundID string) ([]shared.LeaderboardEntry, error)

	// availability
	GetAvailability(ctx context.Context, playerID string) ([]shared.Availability, error)
	StoreAvailability(ctx context.Context, playerID string, avails []shared.Availability) error

	Close(ctx context.Context) error
}

// Ensure Store implements Interface
var _ Interface = (*Store)(nil)

// Close disconnects the MongoDB client
func (s *Store) Close(ctx context.Context) error {
	if s.Client == nil {
		return nil
	}
	return s.Client.Disconnect(ctx)
}
