/* ranking.go
 * Contains the logic for ranking leaderboard snapshots and working out how many places each player moved since the
 * previous snapshot
 * Authors: Zachary Bower
 */

package logic

import (
	"sort"
	"tennis-league/api/shared"
)

// RankLeaderboard sorts a snapshot by its point metric and annotates positions and position changes
// Preconditions: Receives the current snapshot and the previous snapshot (nil or empty when there is none). Neither
// slice is modified
// Postconditions: Returns a new slice with entries lacking a player id or metric removed, duplicates removed (first
// occurrence kept), sorted by metric descending with ties in input order, positions 1..N and
// PositionChange = previous position - current position (0 for players not ranked before)
func RankLeaderboard(current, previous []shared.LeaderboardEntry) []shared.LeaderboardEntry {
	prevPositions := make(map[string]int)
	for i, entry := range sortByMetric(rankable(previous)) {
		prevPositions[entry.PlayerID] = i + 1
	}

	ranked := sortByMetric(rankable(current))
	for i := range ranked {
		ranked[i].Position = i + 1
		ranked[i].PositionChange = 0
		if prev, ok := prevPositions[ranked[i].PlayerID]; ok {
			ranked[i].PositionChange = prev - ranked[i].Position
		}
	}
	return ranked
}

// AccumulateRanking adds the points players earned in a round to the accumulated ranking of the rounds before it
// Preconditions: Receives the accumulated ranking up to the previous round and the entries of every group in the round
// Postconditions: Returns a new ranked slice whose ScorePoints are the totals. Name and group come from the newest
// entry of each player. Entries without a player id or metric are skipped
func AccumulateRanking(previous, round []shared.LeaderboardEntry) []shared.LeaderboardEntry {
	totals := make(map[string]*shared.LeaderboardEntry)
	var order []string

	add := func(e shared.LeaderboardEntry) {
		points, ok := e.Metric()
		if e.PlayerID == "" || !ok {
			return
		}
		total, seen := totals[e.PlayerID]
		if !seen {
			total = &shared.LeaderboardEntry{PlayerID: e.PlayerID, ScorePoints: shared.IntPtr(0)}
			totals[e.PlayerID] = total
			order = append(order, e.PlayerID)
		}
		*total.ScorePoints += points
		if e.Name != "" {
			total.Name = e.Name
		}
		if e.GroupID != "" {
			total.GroupID = e.GroupID
		}
	}
	for _, e := range previous {
		add(e)
	}
	for _, e := range round {
		add(e)
	}

	res := make([]shared.LeaderboardEntry, 0, len(order))
	for _, id := range order {
		res = append(res, *totals[id])
	}
	return RankLeaderboard(res, nil)
}

// RankRound ranks the results of a single round. Players who reached the final stage of the round carry a
// FinalRoundIndex and are ordered by it, everybody else is ordered by points
// Preconditions: Receives the round's entries and the previous round's entries with their stored positions
// Postconditions: Returns a new ranked slice with positions 1..N and position changes against the stored previous
// positions
func RankRound(current, previous []shared.LeaderboardEntry) []shared.LeaderboardEntry {
	prevPositions := make(map[string]int)
	for _, entry := range previous {
		if entry.PlayerID == "" || entry.Position <= 0 {
			continue
		}
		if _, seen := prevPositions[entry.PlayerID]; !seen {
			prevPositions[entry.PlayerID] = entry.Position
		}
	}

	ranked := dedupe(current)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.FinalRoundIndex != nil && b.FinalRoundIndex != nil {
			return *a.FinalRoundIndex < *b.FinalRoundIndex
		}
		ma, _ := a.Metric()
		mb, _ := b.Metric()
		return ma > mb
	})

	for i := range ranked {
		ranked[i].Position = i + 1
		ranked[i].PositionChange = 0
		if prev, ok := prevPositions[ranked[i].PlayerID]; ok {
			ranked[i].PositionChange = prev - ranked[i].Position
		}
	}
	return ranked
}

// rankable copies the entries that can be ranked, dropping duplicates and entries without a player id or metric
func rankable(entries []shared.LeaderboardEntry) []shared.LeaderboardEntry {
	withMetric := make([]shared.LeaderboardEntry, 0, len(entries))
	for _, entry := range entries {
		if _, ok := entry.Metric(); ok {
			withMetric = append(withMetric, entry)
		}
	}
	return dedupe(withMetric)
}

// dedupe copies the entries with a player id, keeping the first occurrence of each player
func dedupe(entries []shared.LeaderboardEntry) []shared.LeaderboardEntry {
	seen := make(map[string]bool, len(entries))
	res := make([]shared.LeaderboardEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.PlayerID == "" || seen[entry.PlayerID] {
			continue
		}
		seen[entry.PlayerID] = true
		res = append(res, entry)
	}
	return res
}

func sortByMetric(entries []shared.LeaderboardEntry) []shared.LeaderboardEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		a, _ := entries[i].Metric()
		b, _ := entries[j].Metric()
		return a > b
	})
	return entries
}
