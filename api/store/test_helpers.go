/* test_helpers.go
 * Contains sample data builders for store and api tests
 * Authors: Zachary Bower
 */

package store

import (
	"fmt"
	"tennis-league/api/shared"
)

// CreateSampleMatches creates the matches of a three player group: one played, one walkover and one pending
func CreateSampleMatches(groupID, roundID string) []shared.Match {
	return []shared.Match{
		{
			ID:       "m1",
			GroupID:  groupID,
			RoundID:  roundID,
			Player1:  shared.PlayerSlot{ID: "p1", Name: "Ana", Score: shared.Games(6)},
			Player2:  shared.PlayerSlot{ID: "p2", Name: "Bia", Score: shared.Games(3)},
			WinnerID: "p1",
		},
		{
			ID:       "m2",
			GroupID:  groupID,
			RoundID:  roundID,
			Player1:  shared.PlayerSlot{ID: "p2", Name: "Bia", Score: shared.Games(6)},
			Player2:  shared.PlayerSlot{ID: "p3", Name: "Caio", Score: shared.Walkover()},
			WinnerID: "p2",
		},
		{
			ID:      "m3",
			GroupID: groupID,
			RoundID: roundID,
			Player1: shared.PlayerSlot{ID: "p1", Name: "Ana", Score: shared.Pending()},
			Player2: shared.PlayerSlot{ID: "p3", Name: "Caio", Score: shared.Pending()},
		},
	}
}

// CreateSamplePlayers creates the players of the sample group
func CreateSamplePlayers(groupID string) []Player {
	return []Player{
		{ID: "p1", Name: "Ana", Email: "ana@example.com", GroupID: groupID, DiscordID: "d1"},
		{ID: "p2", Name: "Bia", Email: "bia@example.com", GroupID: groupID},
		{ID: "p3", Name: "Caio", Email: "caio@example.com", GroupID: groupID},
	}
}

// CreateSampleEntries creates leaderboard entries with the given points, in order, for players p1..pN
func CreateSampleEntries(points ...int) []shared.LeaderboardEntry {
	entries := make([]shared.LeaderboardEntry, 0, len(points))
	for i, p := range points {
		entries = append(entries, shared.LeaderboardEntry{
			PlayerID: fmt.Sprintf("p%d", i+1),
			Points:   shared.IntPtr(p),
		})
	}
	return entries
}
