/* fixtures.go
 * Contains the logic for generating the round-robin fixtures of a group
 * Authors: Zachary Bower
 */

package logic

import (
	"fmt"
	"tennis-league/api/shared"
)

// RoundRobin pairs every player of a group with every other player once
// Preconditions: Receives the group and round ids, the players in seeding order (at least two, unique ids) and a
// function returning new match ids
// Postconditions: Returns n*(n-1)/2 pending matches, or an error if there are fewer than two players or a duplicate id
func RoundRobin(groupID, roundID string, players []shared.PlayerSlot, newID func() string) ([]shared.Match, error) {
	if len(players) < 2 {
		return nil, fmt.Errorf("group %s needs at least two players, got %d", groupID, len(players))
	}

	seen := make(map[string]bool, len(players))
	for _, p := range players {
		if p.ID == "" || seen[p.ID] {
			return nil, fmt.Errorf("invalid or duplicate player id '%s' in group %s", p.ID, groupID)
		}
		seen[p.ID] = true
	}

	matches := make([]shared.Match, 0, len(players)*(len(players)-1)/2)
	for i := 0; i < len(players); i++ {
		for j := i + 1; j < len(players); j++ {
			matches = append(matches, shared.Match{
				ID:      newID(),
				GroupID: groupID,
				RoundID: roundID,
				Player1: shared.PlayerSlot{ID: players[i].ID, Name: players[i].Name, Score: shared.Pending()},
				Player2: shared.PlayerSlot{ID: players[j].ID, Name: players[j].Name, Score: shared.Pending()},
			})
		}
	}
	return matches, nil
}
