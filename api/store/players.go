/* players.go
 * Contains the methods for interacting with the players collection
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetPlayers returns every player sorted by name
func (s *Store) GetPlayers(ctx context.Context) ([]Player, error) {
	return s.findPlayers(ctx, bson.M{})
}

// GetGroupPlayers returns the players of a group sorted by name
func (s *Store) GetGroupPlayers(ctx context.Context, groupID string) ([]Player, error) {
	return s.findPlayers(ctx, bson.M{"groupId": groupID})
}

func (s *Store) findPlayers(ctx context.Context, filter bson.M) ([]Player, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := s.Collections.Players.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch players: %w", err)
	}
	defer cursor.Close(ctx)

	players := []Player{}
	if err := cursor.All(ctx, &players); err != nil {
		return nil, fmt.Errorf("failed to decode players: %w", err)
	}
	return players, nil
}

// GetPlayer returns a player by id. A missing player returns an error wrapping mongo.ErrNoDocuments
func (s *Store) GetPlayer(ctx context.Context, playerID string) (Player, error) {
	return s.findPlayer(ctx, bson.M{"_id": playerID})
}

// GetPlayerByEmail returns the player registered with the email
func (s *Store) GetPlayerByEmail(ctx context.Context, email string) (Player, error) {
	return s.findPlayer(ctx, bson.M{"email": email})
}

// GetPlayerByDiscordID returns the player linked to a discord user
func (s *Store) GetPlayerByDiscordID(ctx context.Context, discordID string) (Player, error) {
	return s.findPlayer(ctx, bson.M{"discordId": discordID})
}

func (s *Store) findPlayer(ctx context.Context, filter bson.M) (Player, error) {
	var player Player
	err := s.Collections.Players.FindOne(ctx, filter).Decode(&player)
	if err != nil {
		return Player{}, fmt.Errorf("failed to fetch player: %w", err)
	}
	return player, nil
}

// LinkDiscordID links a discord user to a player
// Preconditions: Receives the player id and the discord user id
// Postconditions: Stores the discord id on the player, or returns an error wrapping mongo.ErrNoDocuments when the
// player does not exist
func (s *Store) LinkDiscordID(ctx context.Context, playerID string, discordID string) error {
	res, err := s.Collections.Players.UpdateOne(ctx, bson.M{"_id": playerID}, bson.M{"$set": bson.M{"discordId": discordID}})
	if err != nil {
		return fmt.Errorf("failed to link discord user: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("player %s not found: %w", playerID, mongo.ErrNoDocuments)
	}
	return nil
}

// UpdatePlayerProfile updates the editable fields of a player
func (s *Store) UpdatePlayerProfile(ctx context.Context, playerID string, profile PlayerProfile) error {
	res, err := s.Collections.Players.UpdateOne(ctx, bson.M{"_id": playerID}, bson.M{"$set": profile})
	if err != nil {
		return fmt.Errorf("failed to update player profile: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("player %s not found: %w", playerID, mongo.ErrNoDocuments)
	}
	return nil
}

// GetAvailableGroupIDs returns the distinct groups players are assigned to, sorted
func (s *Store) GetAvailableGroupIDs(ctx context.Context) ([]string, error) {
	values, err := s.Collections.Players.Distinct(ctx, "groupId", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch player groups: %w", err)
	}

	groups := make([]string, 0, len(values))
	for _, v := range values {
		if id, ok := v.(string); ok && id != "" {
			groups = append(groups, id)
		}
	}
	sort.Strings(groups)
	return groups, nil
}
