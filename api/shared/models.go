/* models.go
 * This file contain the interfaces, structs and helper functions that are shared between sub packages
 * Authors: Zachary Bower
 */

package shared

import "time"

// User is the chat user issuing a command
type User struct {
	UserID   string
	Username string
}

// PlayerSlot is one side of a match
type PlayerSlot struct {
	ID    string `bson:"id" json:"id"`
	Name  string `bson:"name" json:"name"`
	Score Score  `bson:"score" json:"score"`
}

// Match is a single contest between two players of a group in a round
type Match struct {
	ID        string     `bson:"_id" json:"id"`
	GroupID   string     `bson:"groupId" json:"groupId"`
	RoundID   string     `bson:"roundId" json:"roundId"`
	Player1   PlayerSlot `bson:"player1" json:"player1"`
	Player2   PlayerSlot `bson:"player2" json:"player2"`
	WinnerID  string     `bson:"winnerId" json:"winnerId"`
	UpdatedAt time.Time  `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// HasPlayer reports whether the player takes part in the match
func (m Match) HasPlayer(playerID string) bool {
	return playerID != "" && (m.Player1.ID == playerID || m.Player2.ID == playerID)
}

// Opponent returns the slot of the player facing playerID
func (m Match) Opponent(playerID string) (PlayerSlot, bool) {
	switch playerID {
	case m.Player1.ID:
		return m.Player2, true
	case m.Player2.ID:
		return m.Player1, true
	}
	return PlayerSlot{}, false
}

// LeaderboardEntry is a player's standing within a group (or the whole league) for a round.
// ScorePoints and Points are optional in stored snapshots, the ranking metric is ScorePoints when present
type LeaderboardEntry struct {
	PlayerID        string `bson:"playerId" json:"playerId"`
	Name            string `bson:"name,omitempty" json:"name"`
	GroupID         string `bson:"groupId,omitempty" json:"groupId,omitempty"`
	Position        int    `bson:"position,omitempty" json:"position"`
	ScorePoints     *int   `bson:"scorePoints,omitempty" json:"scorePoints,omitempty"`
	Points          *int   `bson:"points,omitempty" json:"points,omitempty"`
	GamesDone       int    `bson:"gamesDone" json:"gamesDone"`
	Victories       int    `bson:"victories" json:"victories"`
	PointsInFavor   int    `bson:"pointsInFavor" json:"pointsInFavor"`
	PointsAgainst   int    `bson:"pointsAgainst" json:"pointsAgainst"`
	ScoreBalance    int    `bson:"scoreBalance" json:"scoreBalance"`
	IsWO            bool   `bson:"isWO" json:"isWO"`
	FinalRoundIndex *int   `bson:"finalRoundIndex,omitempty" json:"finalRoundIndex,omitempty"`
	PositionChange  int    `bson:"-" json:"positionChange"`
}

// Metric returns the value the entry is ranked by and whether it has one
func (e LeaderboardEntry) Metric() (int, bool) {
	if e.ScorePoints != nil {
		return *e.ScorePoints, true
	}
	if e.Points != nil {
		return *e.Points, true
	}
	return 0, false
}

// IntPtr is a helper for populating the optional metric fields
func IntPtr(n int) *int {
	return &n
}

const (
	StatusAvailable   = "available"
	StatusMaybe       = "maybe"
	StatusBusy        = "busy"
	StatusUnavailable = "unavailable"
)

// Availability is a window of a day in which a player can (or cannot) play
type Availability struct {
	Date      string `bson:"date" json:"date"` // YYYY-MM-DD
	StartTime string `bson:"startTime" json:"startTime"`
	EndTime   string `bson:"endTime" json:"endTime"`
	Status    string `bson:"status" json:"status"`
	Notes     string `bson:"notes,omitempty" json:"notes,omitempty"`
}
