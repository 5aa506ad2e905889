/* rounds.go
 * Contains the methods for interacting with the rounds, rounds_history, rounds_history_players and system
 * collections
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"tennis-league/api/shared"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const systemStatusID = "status"

// GetActiveRound returns the round currently being played. Returns an error wrapping mongo.ErrNoDocuments when no
// round is active
func (s *Store) GetActiveRound(ctx context.Context) (Round, error) {
	var round Round
	err := s.Collections.Rounds.FindOne(ctx, bson.M{"isActive": true}).Decode(&round)
	if err != nil {
		return Round{}, fmt.Errorf("failed to fetch active round: %w", err)
	}
	return round, nil
}

// GetSystemStatus returns the league status. A missing status document means the league is not blocked
func (s *Store) GetSystemStatus(ctx context.Context) (SystemStatus, error) {
	var status SystemStatus
	err := s.Collections.System.FindOne(ctx, bson.M{"_id": systemStatusID}).Decode(&status)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return SystemStatus{}, nil
		}
		return SystemStatus{}, fmt.Errorf("failed to fetch system status: %w", err)
	}
	return status, nil
}

// GetAvailableYears returns the years with round history, newest first
func (s *Store) GetAvailableYears(ctx context.Context) ([]int, error) {
	values, err := s.Collections.RoundsHistory.Distinct(ctx, "year", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history years: %w", err)
	}

	years := make([]int, 0, len(values))
	for _, v := range values {
		switch year := v.(type) {
		case int32:
			years = append(years, int(year))
		case int64:
			years = append(years, int(year))
		case float64:
			years = append(years, int(year))
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years, nil
}

// GetRoundHistoryPlayers returns the final results of every player in a past round as leaderboard entries
func (s *Store) GetRoundHistoryPlayers(ctx context.Context, roundID string) ([]shared.LeaderboardEntry, error) {
	cursor, err := s.Collections.RoundsHistoryPlayers.Find(ctx, bson.M{"roundId": roundID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history for round %s: %w", roundID, err)
	}
	defer cursor.Close(ctx)

	var records []RoundHistoryPlayer
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode history for round %s: %w", roundID, err)
	}

	entries := make([]shared.LeaderboardEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, r.Entry())
	}
	return entries, nil
}
