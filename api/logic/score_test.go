/* score_test.go
 * Contains unit tests for score.go functions
 * Authors: Zachary Bower
 */

package logic

import (
	"errors"
	"tennis-league/api/shared"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	wo = shared.Walkover()
	g  = shared.Games
)

func testMatch(s1, s2 shared.Score) shared.Match {
	return shared.Match{
		ID:      "m1",
		GroupID: "A",
		RoundID: "2025_Rodada2",
		Player1: shared.PlayerSlot{ID: "1", Name: "Ana", Score: s1},
		Player2: shared.PlayerSlot{ID: "2", Name: "Bia", Score: s2},
	}
}

// region IsValidScore tests

func TestIsValidScore(t *testing.T) {
	tests := []struct {
		name     string
		score1   shared.Score
		score2   shared.Score
		expected bool
	}{
		{"6-0", g(6), g(0), true},
		{"6-4", g(6), g(4), true},
		{"4-6 reversed", g(4), g(6), true},
		{"7-5", g(7), g(5), true},
		{"7-6 tiebreak", g(7), g(6), true},
		{"6-7 tiebreak reversed", g(6), g(7), true},
		{"3-3", g(3), g(3), false},
		{"6-5", g(6), g(5), false},
		{"6-6", g(6), g(6), false},
		{"7-4", g(7), g(4), false},
		{"7-7", g(7), g(7), false},
		{"5-2 below six", g(5), g(2), false},
		{"8-6 above seven", g(8), g(6), false},
		{"W.O vs 6", wo, g(6), true},
		{"6 vs W.O", g(6), wo, true},
		{"double W.O", wo, wo, true},
		{"W.O vs 5", wo, g(5), false},
		{"7 vs W.O", g(7), wo, false},
		{"W.O vs pending", wo, shared.Pending(), false},
		{"pending", shared.Pending(), shared.Pending(), false},
		{"pending vs 6", shared.Pending(), g(6), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsValidScore(tt.score1, tt.score2))
		})
	}
}

// endregion

// region WinnerPlayer tests

func TestWinnerPlayer(t *testing.T) {
	tests := []struct {
		name     string
		score1   shared.Score
		score2   shared.Score
		p1, p2   string
		expected string
	}{
		{"player 1 wins", g(6), g(4), "1", "2", "1"},
		{"player 2 wins", g(5), g(7), "1", "2", "2"},
		{"player 2 forfeited", g(6), wo, "1", "2", "1"},
		{"player 1 forfeited", wo, g(6), "1", "2", "2"},
		{"double walkover", wo, wo, "1", "2", ""},
		{"equal numbers", g(3), g(3), "1", "2", ""},
		{"pending", shared.Pending(), shared.Pending(), "1", "2", ""},
		{"missing player 1", g(6), g(0), "", "2", ""},
		{"missing player 2", g(6), g(0), "1", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, WinnerPlayer(tt.score1, tt.score2, tt.p1, tt.p2))
		})
	}
}

// endregion

// region ApplyWalkover tests

func TestApplyWalkover_Player2Forfeits(t *testing.T) {
	m, err := ApplyWalkover(testMatch(shared.Pending(), shared.Pending()), "2")

	require.NoError(t, err)
	assert.Equal(t, g(6), m.Player1.Score)
	assert.Equal(t, wo, m.Player2.Score)
	assert.Equal(t, "1", m.WinnerID)
}

func TestApplyWalkover_Player1Forfeits(t *testing.T) {
	m, err := ApplyWalkover(testMatch(g(3), g(5)), "1")

	require.NoError(t, err)
	assert.Equal(t, wo, m.Player1.Score)
	assert.Equal(t, g(6), m.Player2.Score)
	assert.Equal(t, "2", m.WinnerID)
}

func TestApplyWalkover_DoubleWalkover(t *testing.T) {
	m, err := ApplyWalkover(testMatch(g(6), wo), "1")

	require.NoError(t, err)
	assert.Equal(t, wo, m.Player1.Score)
	assert.Equal(t, wo, m.Player2.Score)
	assert.Equal(t, "", m.WinnerID)
}

func TestApplyWalkover_UnknownPlayer(t *testing.T) {
	original := testMatch(shared.Pending(), shared.Pending())
	_, err := ApplyWalkover(original, "3")

	assert.True(t, errors.Is(err, ErrPlayerNotInMatch))
	assert.True(t, original.Player1.Score.IsPending(), "input match must not be modified")
}

// endregion

// region CheckWalkoverEdit tests

func TestCheckWalkoverEdit(t *testing.T) {
	tests := []struct {
		name    string
		current shared.Match
		score1  shared.Score
		score2  shared.Score
		wantErr bool
	}{
		{"not a double walkover", testMatch(g(6), g(2)), g(6), g(3), false},
		{"pending to double walkover", testMatch(shared.Pending(), shared.Pending()), wo, wo, true},
		{"played to double walkover", testMatch(g(6), g(2)), wo, wo, true},
		{"one walkover to double walkover", testMatch(wo, g(6)), wo, wo, false},
		{"double walkover kept", testMatch(wo, wo), wo, wo, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckWalkoverEdit(tt.current, tt.score1, tt.score2)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrDoubleWalkover)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// endregion

// region Outcome and filter tests

func TestOutcome(t *testing.T) {
	assert.Equal(t, ResultPending, Outcome(testMatch(shared.Pending(), shared.Pending())).Kind)
	assert.Equal(t, Result{Kind: ResultPlayed, Games1: 7, Games2: 5}, Outcome(testMatch(g(7), g(5))))
	assert.Equal(t, Result{Kind: ResultWalkover, ForfeitedBy: []string{"2"}}, Outcome(testMatch(g(6), wo)))
	assert.Equal(t, []string{"1", "2"}, Outcome(testMatch(wo, wo)).ForfeitedBy)
	assert.Equal(t, ResultInconsistent, Outcome(testMatch(g(6), shared.Pending())).Kind)
	assert.Equal(t, ResultInconsistent, Outcome(testMatch(wo, shared.Pending())).Kind)
}

func TestPendingAndCompletedMatches(t *testing.T) {
	matches := []shared.Match{
		testMatch(shared.Pending(), shared.Pending()),
		testMatch(g(6), g(1)),
		testMatch(wo, g(6)),
		testMatch(g(6), shared.Pending()),
	}

	assert.Len(t, PendingMatches(matches), 2)
	assert.Len(t, CompletedMatches(matches), 2)
	assert.Empty(t, PendingMatches(nil))
	assert.NotNil(t, CompletedMatches(nil))
}

func TestMatchesForPlayer(t *testing.T) {
	other := testMatch(g(6), g(1))
	other.Player1.ID = "3"
	other.Player2.ID = "4"
	matches := []shared.Match{testMatch(g(6), g(1)), other}

	assert.Len(t, MatchesForPlayer(matches, "2"), 1)
	assert.Empty(t, MatchesForPlayer(matches, "9"))
}

// endregion
