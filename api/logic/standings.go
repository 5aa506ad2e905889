/* standings.go
 * Contains the logic for building a group leaderboard from the results of its matches
 * Authors: Zachary Bower
 */

package logic

import (
	"sort"
	"tennis-league/api/shared"
)

const (
	PointsPerVictory = 3
	walkoverGames    = 6
	UnknownPlayer    = "Unknown"
)

// ComputeStandings tallies the completed matches of a group into leaderboard entries
// Preconditions: Receives the group id, the group's matches and a map of player id to name for every player in the
// group (players without completed matches still get an entry)
// Postconditions: Returns entries sorted by points, score balance, games won and name, with positions 1..N.
// A walkover counts 6-0 for the player who showed up, a double walkover counts as played with no games
func ComputeStandings(groupID string, matches []shared.Match, players map[string]string) []shared.LeaderboardEntry {
	table := make(map[string]*shared.LeaderboardEntry)
	order := make([]string, 0, len(players))

	get := func(slot shared.PlayerSlot) *shared.LeaderboardEntry {
		if e, ok := table[slot.ID]; ok {
			return e
		}
		name := players[slot.ID]
		if name == "" {
			name = slot.Name
		}
		if name == "" {
			name = UnknownPlayer
		}
		e := &shared.LeaderboardEntry{PlayerID: slot.ID, Name: name, GroupID: groupID}
		table[slot.ID] = e
		order = append(order, slot.ID)
		return e
	}

	// players without completed matches still get an entry
	ids := make([]string, 0, len(players))
	for id := range players {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		get(shared.PlayerSlot{ID: id})
	}

	for _, m := range CompletedMatches(matches) {
		if m.Player1.ID == "" || m.Player2.ID == "" {
			continue
		}
		p1, p2 := get(m.Player1), get(m.Player2)

		res := Outcome(m)
		switch res.Kind {
		case ResultPlayed:
			tally(p1, res.Games1, res.Games2)
			tally(p2, res.Games2, res.Games1)
		case ResultWalkover:
			s1, s2 := 0, 0
			if !m.Player1.Score.IsWalkover() {
				s1 = walkoverGames
			}
			if !m.Player2.Score.IsWalkover() {
				s2 = walkoverGames
			}
			tally(p1, s1, s2)
			tally(p2, s2, s1)
			p1.IsWO = p1.IsWO || m.Player1.Score.IsWalkover()
			p2.IsWO = p2.IsWO || m.Player2.Score.IsWalkover()
		default:
			continue
		}

		switch WinnerPlayer(m.Player1.Score, m.Player2.Score, m.Player1.ID, m.Player2.ID) {
		case m.Player1.ID:
			p1.Victories++
		case m.Player2.ID:
			p2.Victories++
		}
	}

	standings := make([]shared.LeaderboardEntry, 0, len(order))
	for _, id := range order {
		e := table[id]
		e.Points = shared.IntPtr(e.Victories * PointsPerVictory)
		e.ScoreBalance = e.PointsInFavor - e.PointsAgainst
		standings = append(standings, *e)
	}

	sort.SliceStable(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if *a.Points != *b.Points {
			return *a.Points > *b.Points
		}
		if a.ScoreBalance != b.ScoreBalance {
			return a.ScoreBalance > b.ScoreBalance
		}
		if a.PointsInFavor != b.PointsInFavor {
			return a.PointsInFavor > b.PointsInFavor
		}
		return a.Name < b.Name
	})

	for i := range standings {
		standings[i].Position = i + 1
	}
	return standings
}

func tally(e *shared.LeaderboardEntry, won, lost int) {
	e.GamesDone++
	e.PointsInFavor += won
	e.PointsAgainst += lost
}
