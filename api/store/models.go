/* models.go
 * This file contain the structs that relate to DB objects
 * Authors: Zachary Bower
 */

package store

import (
	"fmt"
	"tennis-league/api/shared"
	"time"
)

type PlayerDetails struct {
	Phone    string `bson:"phone,omitempty" json:"phone,omitempty"`
	Hand     string `bson:"hand,omitempty" json:"hand,omitempty"` // "right" or "left"
	Backhand string `bson:"backhand,omitempty" json:"backhand,omitempty"`
}

type PlayerGames struct {
	Victories    int `bson:"victories" json:"victories"`
	Defeats      int `bson:"defeats" json:"defeats"`
	GamesInFavor int `bson:"gamesInFavor" json:"gamesInFavor"`
	GamesAgainst int `bson:"gamesAgainst" json:"gamesAgainst"`
	ScoreBalance int `bson:"scoreBalance" json:"scoreBalance"`
	Points       int `bson:"points" json:"points"`
}

type Player struct {
	ID        string        `bson:"_id" json:"id"`
	Name      string        `bson:"name" json:"name"`
	Email     string        `bson:"email,omitempty" json:"email,omitempty"`
	GroupID   string        `bson:"groupId,omitempty" json:"groupId,omitempty"`
	AvatarURL string        `bson:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
	DiscordID string        `bson:"discordId,omitempty" json:"-"`
	Details   PlayerDetails `bson:"details,omitempty" json:"details"`
	Games     PlayerGames   `bson:"games,omitempty" json:"games"`
}

// PlayerProfile is the part of a player document the player can edit
type PlayerProfile struct {
	Name      string        `bson:"name,omitempty"`
	AvatarURL string        `bson:"avatarUrl,omitempty"`
	Details   PlayerDetails `bson:"details,omitempty"`
}

type Group struct {
	ID      string `bson:"_id" json:"id"`
	RoundID string `bson:"roundId,omitempty" json:"roundId,omitempty"`
}

// Leaderboard is a group leaderboard snapshot for a round
type Leaderboard struct {
	ID        string                    `bson:"_id"`
	GroupID   string                    `bson:"groupId"`
	RoundID   string                    `bson:"roundId"`
	UpdatedAt time.Time                 `bson:"updatedAt"`
	Data      []shared.LeaderboardEntry `bson:"data"`
}

// LeaderboardID returns the document id of a group's leaderboard for a round
func LeaderboardID(groupID, roundID string) string {
	return fmt.Sprintf("%s_%s", groupID, roundID)
}

type Round struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name,omitempty" json:"name,omitempty"`
	StartDate time.Time `bson:"startDate" json:"startDate"`
	EndDate   time.Time `bson:"endDate" json:"endDate"`
	IsActive  bool      `bson:"isActive" json:"isActive"`
}

// RoundHistoryPlayer is a player's final result in a past round
type RoundHistoryPlayer struct {
	RoundID         string `bson:"roundId"`
	PlayerID        string `bson:"playerId"`
	Points          int    `bson:"points"`
	Position        int    `bson:"position"`
	GroupPosition   int    `bson:"groupPosition"`
	GroupID         string `bson:"groupId"`
	FinalRoundIndex *int   `bson:"finalRoundIndex,omitempty"`
}

// Entry converts the history record into a leaderboard entry for ranking
func (r RoundHistoryPlayer) Entry() shared.LeaderboardEntry {
	return shared.LeaderboardEntry{
		PlayerID:        r.PlayerID,
		GroupID:         r.GroupID,
		Position:        r.Position,
		Points:          shared.IntPtr(r.Points),
		FinalRoundIndex: r.FinalRoundIndex,
	}
}

type AvailabilityCalendar struct {
	PlayerID       string                `bson:"_id"`
	UpdatedAt      time.Time             `bson:"updatedAt"`
	Availabilities []shared.Availability `bson:"availabilities"`
}

// SystemStatus is the league wide switch used to block score entry
type SystemStatus struct {
	IsBlocked bool   `bson:"isBlocked" json:"isBlocked"`
	Message   string `bson:"message,omitempty" json:"message,omitempty"`
}
