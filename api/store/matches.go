/* matches.go
 * Contains the methods for interacting with the matches collection, including the change stream subscription used
 * to push match updates of a group to listeners
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

// GetGroupMatches returns every match of a group
func (s *Store) GetGroupMatches(ctx context.Context, groupID string) ([]shared.Match, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := s.Collections.Matches.Find(ctx, bson.M{"groupId": groupID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch matches for group %s: %w", groupID, err)
	}
	defer cursor.Close(ctx)

	matches := []shared.Match{}
	if err := cursor.All(ctx, &matches); err != nil {
		return nil, fmt.Errorf("failed to decode matches for group %s: %w", groupID, err)
	}
	return matches, nil
}

// GetMatch returns a match of a group. A missing match returns an error wrapping mongo.ErrNoDocuments
func (s *Store) GetMatch(ctx context.Context, groupID string, matchID string) (shared.Match, error) {
	var match shared.Match
	err := s.Collections.Matches.FindOne(ctx, bson.M{"_id": matchID, "groupId": groupID}).Decode(&match)
	if err != nil {
		return shared.Match{}, fmt.Errorf("failed to fetch match %s: %w", matchID, err)
	}
	return match, nil
}

// UpdateMatch writes the scores and winner of an existing match
// Preconditions: Receives the match with its new scores and winner
// Postconditions: Updates the stored match and returns nil, or an error wrapping mongo.ErrNoDocuments when the match
// does not exist, or the write error
func (s *Store) UpdateMatch(ctx context.Context, match shared.Match) error {
	if match.ID == "" {
		return fmt.Errorf("match id is empty")
	}

	filter := bson.M{"_id": match.ID, "groupId": match.GroupID}
	update := bson.M{"$set": bson.M{
		"player1.score": match.Player1.Score,
		"player2.score": match.Player2.Score,
		"winnerId":      match.WinnerID,
		"updatedAt":     time.Now().UTC(),
	}}

	s.logger().Debug("updating match in db", "match", match.ID, "group", match.GroupID)
	res, err := s.Collections.Matches.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("match update failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("match %s not found: %w", match.ID, mongo.ErrNoDocuments)
	}
	return nil
}

// InsertMatches stores newly generated fixtures
func (s *Store) InsertMatches(ctx context.Context, matches []shared.Match) error {
	if len(matches) == 0 {
		return fmt.Errorf("no matches to insert")
	}

	docs := make([]interface{}, len(matches))
	for i := range matches {
		docs[i] = matches[i]
	}

	_, err := s.Collections.Matches.InsertMany(ctx, docs)
	if err != nil {
		return fmt.Errorf("matches insert failed: %w", err)
	}
	return nil
}

// WatchGroupMatches subscribes to the matches of a group
// Preconditions: Receives the group id and a callback. The callback receives the full list of the group's matches,
// or an error when the list could not be read
// Postconditions: Calls fn once with the current matches before returning, then again after every change to a match
// of the group until the returned cancel function is called or ctx is done. cancel returns once the change stream is
// closed, so it must not be called from fn
func (s *Store) WatchGroupMatches(ctx context.Context, groupID string, fn func([]shared.Match, error)) (func(), error) {
	ctx, cancel := context.WithCancel(ctx)

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "fullDocument.groupId", Value: groupID}}}},
	}
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)

	stream, err := s.Collections.Matches.Watch(ctx, pipeline, opts)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to watch matches for group %s: %w", groupID, err)
	}

	fn(s.GetGroupMatches(ctx, groupID))

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer stream.Close(context.Background())
		for stream.Next(ctx) {
			matches, err := s.GetGroupMatches(ctx, groupID)
			if ctx.Err() != nil {
				return
			}
			fn(matches, err)
		}

		if err := stream.Err(); err != nil && ctx.Err() == nil && !errors.Is(err, context.Canceled) {
			s.logger().Error("match change stream closed", "group", groupID, "error", err)
			fn(nil, fmt.Errorf("match change stream for group %s closed: %w", groupID, err))
		}
	}()

	// the stream and its session are released once stop returns. fn must not call stop
	stop := func() {
		cancel()
		<-done
	}
	return stop, nil
}
