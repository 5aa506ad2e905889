/* rankings.go
 * Contains the methods for interacting with the rankings collection. Each document is the accumulated league
 * ranking after a round, keyed by round id
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"tennis-league/api/shared"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetLatestRankings returns the entries of the newest ranking document, or an empty slice when there is none
func (s *Store) GetLatestRankings(ctx context.Context) ([]shared.LeaderboardEntry, error) {
	return s.rankingsAt(ctx, 0)
}

// GetPreviousRankings returns the entries of the second newest ranking document, or an empty slice when there is none
func (s *Store) GetPreviousRankings(ctx context.Context) ([]shared.LeaderboardEntry, error) {
	return s.rankingsAt(ctx, 1)
}

func (s *Store) rankingsAt(ctx context.Context, skip int64) ([]shared.LeaderboardEntry, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetSkip(skip)

	raw, err := s.Collections.Rankings.FindOne(ctx, bson.M{}, opts).Raw()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return []shared.LeaderboardEntry{}, nil
		}
		return nil, fmt.Errorf("failed to fetch rankings: %w", err)
	}
	return ExtractEntries(raw), nil
}

// GetRankingUntilRound returns the accumulated ranking stored for a round, or an empty slice when there is none
func (s *Store) GetRankingUntilRound(ctx context.Context, roundID string) ([]shared.LeaderboardEntry, error) {
	raw, err := s.Collections.Rankings.FindOne(ctx, bson.M{"_id": roundID}).Raw()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return []shared.LeaderboardEntry{}, nil
		}
		return nil, fmt.Errorf("failed to fetch ranking for round %s: %w", roundID, err)
	}
	return ExtractEntries(raw), nil
}

// StoreRanking replaces the accumulated ranking of a round
func (s *Store) StoreRanking(ctx context.Context, roundID string, entries []shared.LeaderboardEntry) error {
	doc := bson.M{
		"_id":       roundID,
		"roundId":   roundID,
		"createdAt": time.Now().UTC(),
		"data":      entries,
	}
	opts := options.Replace().SetUpsert(true)
	_, err := s.Collections.Rankings.ReplaceOne(ctx, bson.M{"_id": roundID}, doc, opts)
	if err != nil {
		return fmt.Errorf("failed to store ranking for round %s: %w", roundID, err)
	}
	return nil
}
