/* leaderboard.go
 * Contains the methods for interacting with the leaderboard collection. Leaderboard documents are keyed by
 * "<groupId>_<roundId>" and hold their entries under `data`, older documents used other field names so entries are
 * found by probing the document
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"tennis-league/api/shared"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// entryFields are the fields checked, in order, for the entries array before falling back to the first array field
var entryFields = []string{"data", "leaderboard", "rankings"}

// FetchLeaderboard returns the raw leaderboard document of a group for a round
// Preconditions: Receives the group and round ids
// Postconditions: Returns the document, or an error (wrapping mongo.ErrNoDocuments when there is none)
func (s *Store) FetchLeaderboard(ctx context.Context, groupID string, roundID string) (bson.Raw, error) {
	raw, err := s.Collections.Leaderboard.FindOne(ctx, bson.M{"_id": LeaderboardID(groupID, roundID)}).Raw()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch leaderboard from database: %w", err)
	}
	return raw, nil
}

// GetLeaderboardEntries returns the entries of a group's leaderboard for a round, in stored order
func (s *Store) GetLeaderboardEntries(ctx context.Context, groupID string, roundID string) ([]shared.LeaderboardEntry, error) {
	raw, err := s.FetchLeaderboard(ctx, groupID, roundID)
	if err != nil {
		return nil, err
	}
	return ExtractEntries(raw), nil
}

// StoreLeaderboard updates the leaderboard stored in the DB
// Preconditions: Receives the Leaderboard value to be stored
// Postconditions: Inserts or updates the group's leaderboard document and returns nil, or an error if it occurs
func (s *Store) StoreLeaderboard(ctx context.Context, leaderboard Leaderboard) error {
	if leaderboard.GroupID == "" || leaderboard.RoundID == "" {
		return fmt.Errorf("leaderboard group and round are required")
	}
	leaderboard.ID = LeaderboardID(leaderboard.GroupID, leaderboard.RoundID)

	// Attempt to find an existing document
	var res Leaderboard
	err := s.Collections.Leaderboard.FindOne(ctx, bson.M{"_id": leaderboard.ID}).Decode(&res)
	notFound := errors.Is(err, mongo.ErrNoDocuments)

	if err != nil && !notFound {
		return fmt.Errorf("lookup for existing record failed: %w", err)
	}

	// Perform insert or update
	s.logger().Info("updating leaderboard in db", "group", leaderboard.GroupID, "round", leaderboard.RoundID)
	if notFound {
		_, err := s.Collections.Leaderboard.InsertOne(ctx, leaderboard)
		if err != nil {
			return fmt.Errorf("leaderboard insert failed: %w", err)
		}
		return nil
	}

	filter := bson.M{"_id": leaderboard.ID}
	update := bson.D{{Key: "$set", Value: leaderboard}}

	_, err = s.Collections.Leaderboard.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("leaderboard update failed: %w", err)
	}
	return nil
}

// ExtractEntries finds the entries array of a leaderboard or ranking document
// Preconditions: Receives a raw document of unknown shape
// Postconditions: Returns the decodable entries of the first of data, leaderboard or rankings that is an array, or of
// the first array valued field. Returns an empty slice when there is no array or the document is malformed
func ExtractEntries(doc bson.Raw) []shared.LeaderboardEntry {
	entries := []shared.LeaderboardEntry{}

	arr, ok := findEntriesArray(doc)
	if !ok {
		return entries
	}

	values, err := arr.Values()
	if err != nil {
		return entries
	}

	for _, v := range values {
		sub, ok := v.DocumentOK()
		if !ok {
			continue
		}
		var entry shared.LeaderboardEntry
		if err := bson.Unmarshal(sub, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

func findEntriesArray(doc bson.Raw) (bson.Raw, bool) {
	if len(doc) == 0 {
		return nil, false
	}

	for _, key := range entryFields {
		val, err := doc.LookupErr(key)
		if err != nil {
			continue
		}
		if arr, ok := val.ArrayOK(); ok {
			return arr, true
		}
	}

	elems, err := doc.Elements()
	if err != nil {
		return nil, false
	}
	for _, el := range elems {
		if arr, ok := el.Value().ArrayOK(); ok {
			return arr, true
		}
	}
	return nil, false
}
