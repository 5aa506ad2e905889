/* store_test.go
 * Contains unit tests for store.go and the players, groups and availability collections
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

// newTestStore binds a Store to the mock deployment of mt
func newTestStore(mt *mtest.T) *Store {
	return &Store{
		Client:      mt.Client,
		Database:    mt.DB,
		Collections: NewCollections(mt.DB),
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func updateResponse(matched int) bson.D {
	return mtest.CreateSuccessResponse(
		bson.E{Key: "n", Value: matched},
		bson.E{Key: "nModified", Value: matched},
	)
}

// region NewStore tests

func TestNewStore_EmptyDBName(t *testing.T) {
	_, err := NewStore("", "mongodb://localhost:27017", nil)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "dbName cannot be empty")
}

func TestNewCollections(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("binds every collection", func(mt *mtest.T) {
		cols := NewCollections(mt.DB)

		assert.Equal(t, "players", cols.Players.Name())
		assert.Equal(t, "matches", cols.Matches.Name())
		assert.Equal(t, "leaderboard", cols.Leaderboard.Name())
		assert.Equal(t, "rounds_history_players", cols.RoundsHistoryPlayers.Name())
		assert.Equal(t, "availability", cols.Availability.Name())
	})
}

func TestClose_NilClient(t *testing.T) {
	s := &Store{}
	assert.NoError(t, s.Close(context.Background()))
}

// endregion

// region players tests

func TestGetGroupPlayers_Success(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns the players of a group", func(mt *mtest.T) {
		s := newTestStore(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.players", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "p1"}, {Key: "name", Value: "Ana"}, {Key: "groupId", Value: "A"}},
			bson.D{{Key: "_id", Value: "p2"}, {Key: "name", Value: "Bia"}, {Key: "groupId", Value: "A"}},
		))

		players, err := s.GetGroupPlayers(context.Background(), "A")

		require.NoError(t, err)
		require.Len(t, players, 2)
		assert.Equal(t, "Ana", players[0].Name)
		assert.Equal(t, "A", players[1].GroupID)
	})
}

func TestGetPlayerByDiscordID_NotFound(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("wraps ErrNoDocuments", func(mt *mtest.T) {
		s := newTestStore(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.players", mtest.FirstBatch))

		_, err := s.GetPlayerByDiscordID(context.Background(), "d9")

		assert.True(t, errors.Is(err, mongo.ErrNoDocuments))
	})
}

func TestGetPlayerByEmail_Success(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns the player", func(mt *mtest.T) {
		s := newTestStore(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(1, "test.players", mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: "p1"},
				{Key: "name", Value: "Ana"},
				{Key: "email", Value: "ana@example.com"},
				{Key: "games", Value: bson.D{{Key: "victories", Value: 4}, {Key: "points", Value: 12}}},
			},
		))

		player, err := s.GetPlayerByEmail(context.Background(), "ana@example.com")

		require.NoError(t, err)
		assert.Equal(t, "p1", player.ID)
		assert.Equal(t, 4, player.Games.Victories)
		assert.Equal(t, 12, player.Games.Points)
	})
}

func TestLinkDiscordID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("links an existing player", func(mt *mtest.T) {
		s := newTestStore(mt)
		mt.AddMockResponses(updateResponse(1))

		assert.NoError(t, s.LinkDiscordID(context.Background(), "p1", "d1"))
	})

	mt.Run("returns ErrNoDocuments for an unknown player", func(mt *mtest.T) {
		s := newTestStore(mt)
		mt.AddMockResponses(updateResponse(0))

		err := s.LinkDiscordID(context.Background(), "p9", "d1")
		assert.True(t, errors.Is(err, mongo.ErrNoDocuments))
	})
}

func TestUpdatePlayerProfile_DatabaseError(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns the write error", func(mt *mtest.T) {
		s := newTestStore(mt)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 11000, Message: "database error"}))

		err := s.UpdatePlayerProfile(context.Background(), "p1", PlayerProfile{Name: "Ana Maria"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to update player profile")
	})
}

func TestGetAvailableGroupIDs(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns sorted distinct groups", func(mt *mtest.T) {
		s := newTestStore(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "values", Value: bson.A{"C", "", "A", "B"}}))

		groups, err := s.GetAvailableGroupIDs(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B", "C"}, groups)
	})
}

// endregion

// region groups tests

func TestGetGroups(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns groups with their latest round", func(mt *mtest.T) {
		s := newTestStore(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.groups", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "A"}, {Key: "roundId", Value: "2025_Rodada2"}},
			bson.D{{Key: "_id", Value: "B"}},
		))

		groups, err := s.GetGroups(context.Background())

		require.NoError(t, err)
		require.Len(t, groups, 2)
		assert.Equal(t, "2025_Rodada2", groups[0].RoundID)
		assert.Equal(t, "", groups[1].RoundID)
	})

	mt.Run("returns error on database failure", func(mt *mtest.T) {
		s := newTestStore(mt)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "bad"}))

		_, err := s.GetGroups(context.Background())
		assert.Error(t, err)
	})
}

// endregion

// region availability tests

func TestGetAvailability(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns empty when the player has no calendar", func(mt *mtest.T) {
		s := newTestStore(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.availability", mtest.FirstBatch))

		avails, err := s.GetAvailability(context.Background(), "p1")

		require.NoError(t, err)
		assert.NotNil(t, avails)
		assert.Empty(t, avails)
	})

	mt.Run("returns stored availabilities", func(mt *mtest.T) {
		s := newTestStore(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(1, "test.availability", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "p1"},
			{Key: "availabilities", Value: bson.A{
				bson.D{
					{Key: "date", Value: "2025-03-10"},
					{Key: "startTime", Value: "19:00"},
					{Key: "endTime", Value: "20:00"},
					{Key: "status", Value: "available"},
				},
			}},
		}))

		avails, err := s.GetAvailability(context.Background(), "p1")

		require.NoError(t, err)
		require.Len(t, avails, 1)
		assert.Equal(t, "19:00", avails[0].StartTime)
	})
}

func TestStoreAvailability(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("inserts a new calendar", func(mt *mtest.T) {
		s := newTestStore(mt)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "test.availability", mtest.FirstBatch),
			mtest.CreateSuccessResponse(),
		)

		assert.NoError(t, s.StoreAvailability(context.Background(), "p1", nil))
	})

	mt.Run("updates an existing calendar", func(mt *mtest.T) {
		s := newTestStore(mt)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "test.availability", mtest.FirstBatch, bson.D{{Key: "_id", Value: "p1"}}),
			updateResponse(1),
		)

		assert.NoError(t, s.StoreAvailability(context.Background(), "p1", nil))
	})

	mt.Run("requires a player id", func(mt *mtest.T) {
		s := newTestStore(mt)
		assert.Error(t, s.StoreAvailability(context.Background(), "", nil))
	})
}

// endregion
