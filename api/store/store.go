/* store.go
 * Contains the store struct and NewStore function. The methods for this package are split into one file per part of
 * the database: players, groups, matches, leaderboard, rankings, rounds and availability
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const connectTimeout = 10 * time.Second

// Collections holds the collections used by the league
type Collections struct {
	Players              *mongo.Collection
	Groups               *mongo.Collection
	Matches              *mongo.Collection
	Leaderboard          *mongo.Collection
	Rankings             *mongo.Collection
	Rounds               *mongo.Collection
	RoundsHistory        *mongo.Collection
	RoundsHistoryPlayers *mongo.Collection
	Availability         *mongo.Collection
	System               *mongo.Collection
}

type Store struct {
	Client      *mongo.Client
	Database    *mongo.Database
	Collections Collections
	Logger      *slog.Logger
}

// NewCollections binds every league collection of db
func NewCollections(db *mongo.Database) Collections {
	return Collections{
		Players:              db.Collection("players"),
		Groups:               db.Collection("groups"),
		Matches:              db.Collection("matches"),
		Leaderboard:          db.Collection("leaderboard"),
		Rankings:             db.Collection("rankings"),
		Rounds:               db.Collection("rounds"),
		RoundsHistory:        db.Collection("rounds_history"),
		RoundsHistoryPlayers: db.Collection("rounds_history_players"),
		Availability:         db.Collection("availability"),
		System:               db.Collection("system"),
	}
}

// Function for initialising Store. Opens the db connection and binds the collections
// Preconditions: Receives strings containing dbName and mongoURI, and the logger used by the store
// Postconditions: Returns pointer to the Store object, or error if it occurs
func NewStore(dbName string, mongoURI string, logger *slog.Logger) (*Store, error) {
	if dbName == "" {
		return nil, fmt.Errorf("dbName cannot be empty")
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	db := client.Database(dbName)

	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		Client:      client,
		Database:    db,
		Collections: NewCollections(db),
		Logger:      logger,
	}, nil
}

func (s *Store) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}
