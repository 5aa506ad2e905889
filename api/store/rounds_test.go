/* rounds_test.go
 * Contains unit tests for rounds.go
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestGetActiveRound(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	end := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	mt.Run("returns the active round", func(mt *mtest.T) {
		s := newTestStore(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(1, "test.rounds", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "2025_Rodada2"},
			{Key: "isActive", Value: true},
			{Key: "endDate", Value: end},
		}))

		round, err := s.GetActiveRound(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "2025_Rodada2", round.ID)
		assert.True(t, round.IsActive)
		assert.True(t, end.Equal(round.EndDate))
	})

	mt.Run("wraps ErrNoDocuments when no round is active", func(mt *mtest.T) {
		s := newTestStore(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.rounds", mtest.FirstBatch))

		_, err := s.GetActiveRound(context.Background())
		assert.True(t, errors.Is(err, mongo.ErrNoDocuments))
	})
}

func TestGetSystemStatus(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("missing status is not blocked", func(mt *mtest.T) {
		s := newTestStore(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.system", mtest.FirstBatch))

		status, err := s.GetSystemStatus(context.Background())

		require.NoError(t, err)
		assert.False(t, status.IsBlocked)
	})

	mt.Run("returns the stored status", func(mt *mtest.T) {
		s := newTestStore(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(1, "test.system", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "status"},
			{Key: "isBlocked", Value: true},
			{Key: "message", Value: "Maintenance"},
		}))

		status, err := s.GetSystemStatus(context.Background())

		require.NoError(t, err)
		assert.True(t, status.IsBlocked)
		assert.Equal(t, "Maintenance", status.Message)
	})
}

func TestGetAvailableYears(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns years newest first", func(mt *mtest.T) {
		s := newTestStore(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "values", Value: bson.A{int32(2023), int64(2025), 2024.0, "x"}}))

		years, err := s.GetAvailableYears(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []int{2025, 2024, 2023}, years)
	})
}

func TestGetRoundHistoryPlayers(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("converts history records into entries", func(mt *mtest.T) {
		s := newTestStore(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.rounds_history_players", mtest.FirstBatch,
			bson.D{
				{Key: "roundId", Value: "2025_Rodada1"},
				{Key: "playerId", Value: "p1"},
				{Key: "points", Value: 30},
				{Key: "position", Value: 2},
				{Key: "groupId", Value: "A"},
				{Key: "finalRoundIndex", Value: 1},
			},
			bson.D{
				{Key: "roundId", Value: "2025_Rodada1"},
				{Key: "playerId", Value: "p2"},
				{Key: "points", Value: 10},
			},
		))

		entries, err := s.GetRoundHistoryPlayers(context.Background(), "2025_Rodada1")

		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, 30, *entries[0].Points)
		assert.Equal(t, 1, *entries[0].FinalRoundIndex)
		assert.Equal(t, 2, entries[0].Position)
		assert.Nil(t, entries[1].FinalRoundIndex)
	})
}
