/* models.go
 * Contains the structs returned by the API that are not database objects
 * Authors: Zachary Bower
 */

package api

import (
	"tennis-league/api/shared"
	"tennis-league/api/store"
)

// ScoreSubmission is a request to set the scores of a match. EditorID is the player id of whoever is entering the
// score, leave it empty for admin edits
type ScoreSubmission struct {
	GroupID  string       `json:"groupId"`
	MatchID  string       `json:"matchId"`
	EditorID string       `json:"editorId,omitempty"`
	Score1   shared.Score `json:"score1"`
	Score2   shared.Score `json:"score2"`
}

// GroupLeaderboard is one branch of a leaderboard fan-out. Error is set when the group could not be loaded, in which
// case Entries is empty
type GroupLeaderboard struct {
	GroupID string                    `json:"groupId"`
	RoundID string                    `json:"roundId"`
	Entries []shared.LeaderboardEntry `json:"entries"`
	Error   string                    `json:"error,omitempty"`
}

// RoundInfo describes the round currently being played
type RoundInfo struct {
	RoundID  string             `json:"roundId"`
	Round    *store.Round       `json:"round,omitempty"`
	DaysLeft int                `json:"daysLeft"`
	Warning  string             `json:"warning,omitempty"`
	Status   store.SystemStatus `json:"status"`
}
