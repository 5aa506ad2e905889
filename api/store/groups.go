/* groups.go
 * Contains the methods for interacting with the groups collection
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetGroups returns every group with the latest round it played
func (s *Store) GetGroups(ctx context.Context) ([]Group, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := s.Collections.Groups.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch groups: %w", err)
	}
	defer cursor.Close(ctx)

	groups := []Group{}
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("failed to decode groups: %w", err)
	}
	return groups, nil
}

// SetGroupRound records the round a group is playing, creating the group if needed
func (s *Store) SetGroupRound(ctx context.Context, groupID string, roundID string) error {
	opts := options.Update().SetUpsert(true)
	_, err := s.Collections.Groups.UpdateOne(ctx, bson.M{"_id": groupID}, bson.M{"$set": bson.M{"roundId": roundID}}, opts)
	if err != nil {
		return fmt.Errorf("failed to set round for group %s: %w", groupID, err)
	}
	return nil
}
