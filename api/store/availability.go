/* availability.go
 * Contains the methods for interacting with the availability collection, one calendar document per player
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
)

// GetAvailability returns a player's availabilities, or an empty slice when the player has no calendar yet
func (s *Store) GetAvailability(ctx context.Context, playerID string) ([]shared.Availability, error) {
	var calendar AvailabilityCalendar
	err := s.Collections.Availability.FindOne(ctx, bson.M{"_id": playerID}).Decode(&calendar)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return []shared.Availability{}, nil
		}
		return nil, fmt.Errorf("failed to fetch availability for %s: %w", playerID, err)
	}
	if calendar.Availabilities == nil {
		return []shared.Availability{}, nil
	}
	return calendar.Availabilities, nil
}

// StoreAvailability replaces a player's availabilities
// Preconditions: Receives the player id and the full list of availabilities
// Postconditions: Inserts or updates the player's calendar and returns nil, or an error if it occurs
func (s *Store) StoreAvailability(ctx context.Context, playerID string, avails []shared.Availability) error {
	if playerID == "" {
		return fmt.Errorf("player id is required")
	}
	calendar := AvailabilityCalendar{PlayerID: playerID, UpdatedAt: time.Now().UTC(), Availabilities: avails}
	if calendar.Availabilities == nil {
		calendar.Availabilities = []shared.Availability{}
	}

	// Attempt to find an existing document
	var existing AvailabilityCalendar
	err := s.Collections.Availability.FindOne(ctx, bson.M{"_id": playerID}).Decode(&existing)
	notFound := errors.Is(err, mongo.ErrNoDocuments)

	if err != nil && !notFound {
		return fmt.Errorf("lookup for existing calendar failed: %w", err)
	}

	if notFound {
		if _, err := s.Collections.Availability.InsertOne(ctx, calendar); err != nil {
			return fmt.Errorf("availability insert failed: %w", err)
		}
		return nil
	}

	update := bson.M{"$set": bson.M{"updatedAt": calendar.UpdatedAt, "availabilities": calendar.Availabilities}}
	if _, err := s.Collections.Availability.UpdateOne(ctx, bson.M{"_id": playerID}, update); err != nil {
		return fmt.Errorf("availability update failed: %w", err)
	}
	return nil
}
