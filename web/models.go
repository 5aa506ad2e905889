/* models.go
 * Contains the configuration of the web server and the request and response bodies of the HTTP API
 * Authors: Zachary Bower
 */

package web

import (
	"log/slog"
	"tennis-league/api/api"
	"tennis-league/api/shared"
	"tennis-league/api/store"
)

// Config holds the configuration for the web server
type Config struct {
	Addr        string
	API         *api.API
	Logger      *slog.Logger
	CORSOrigins []string
	// RateLimitRPS of 0 disables the per-IP limiter
	RateLimitRPS   float64
	RateLimitBurst int
}

// scoreRequest is the body of PUT /api/groups/{groupID}/matches/{matchID}/score. Scores are numbers, "W.O" or "-"
type scoreRequest struct {
	EditorID string       `json:"editorId"`
	Score1   shared.Score `json:"score1"`
	Score2   shared.Score `json:"score2"`
}

// walkoverRequest is the body of POST /api/groups/{groupID}/matches/{matchID}/walkover
type walkoverRequest struct {
	EditorID string `json:"editorId"`
	PlayerID string `json:"playerId"`
}

// availabilityRequest is the body of PUT /api/players/{playerID}/availability
type availabilityRequest struct {
	Date   string   `json:"date"`
	Slots  []string `json:"slots"`
	Status string   `json:"status"`
	Notes  string   `json:"notes"`
}

// profileRequest is the body of PUT /api/players/{playerID}. Empty name and avatar keep the stored values
type profileRequest struct {
	Name      string              `json:"name"`
	AvatarURL string              `json:"avatarUrl"`
	Details   store.PlayerDetails `json:"details"`
}

// feedRequest is sent by websocket clients to switch the group they follow
type feedRequest struct {
	GroupID string `json:"groupId"`
}

// feedMessage is pushed to websocket clients every time the followed group changes
type feedMessage struct {
	Type    string         `json:"type"`
	Payload api.BoardState `json:"payload"`
}
