/* api.go
 * This file contains the public methods for interacting with the league. The bot and the web server should only call
 * these methods, not the store or logic packages directly. Leaderboard and ranking methods live in leaderboards.go,
 * availability and player methods in players.go
 * Authors: Zachary Bower
 */

package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"tennis-league/api/logic"
	"tennis-league/api/shared"
	"tennis-league/api/store"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

// API provides methods for interacting with the tennis league data layer
type API struct {
	Store  store.Interface
	Logger *slog.Logger
	// Now and NewID are replaced in tests
	Now   func() time.Time
	NewID func() string
}

// NewAPI creates a new API instance connected to the given database
func NewAPI(dbName string, mongoURI string, logger *slog.Logger) (*API, error) {
	if dbName == "" || mongoURI == "" {
		return nil, fmt.Errorf("dbName and mongoURI are required")
	}

	s, err := store.NewStore(dbName, mongoURI, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	return New(s, logger), nil
}

// New wraps an existing store
func New(s store.Interface, logger *slog.Logger) *API {
	if logger == nil {
		logger = slog.Default()
	}
	return &API{
		Store:  s,
		Logger: logger,
		Now:    time.Now,
		NewID:  uuid.NewString,
	}
}

// Close releases the database connection
func (a *API) Close(ctx context.Context) error {
	return a.Store.Close(ctx)
}

func (a *API) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.Default()
	}
	return a.Logger
}

func (a *API) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

func (a *API) newID() string {
	if a.NewID == nil {
		return uuid.NewString()
	}
	return a.NewID()
}

// GetAvailableGroups returns the ids of every group that has players, sorted
func (a *API) GetAvailableGroups(ctx context.Context) ([]string, error) {
	groups, err := a.Store.GetAvailableGroupIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load groups: %w", err)
	}
	return groups, nil
}

// GetGroupMatches returns the matches of a group filtered by state
// Preconditions: Receives the group id and a state that is "", "all", "pending" or "completed"
// Postconditions: Returns the matches, ErrInvalidInput for an unknown state, or the store error
func (a *API) GetGroupMatches(ctx context.Context, groupID string, state string) ([]shared.Match, error) {
	if groupID == "" {
		return nil, fmt.Errorf("%w: group id is required", ErrInvalidInput)
	}

	var filter func([]shared.Match) []shared.Match
	switch state {
	case "", "all":
		filter = func(m []shared.Match) []shared.Match { return m }
	case "pending":
		filter = logic.PendingMatches
	case "completed":
		filter = logic.CompletedMatches
	default:
		return nil, fmt.Errorf("%w: unknown match state '%s'", ErrInvalidInput, state)
	}

	matches, err := a.Store.GetGroupMatches(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to load matches: %w", err)
	}
	return filter(matches), nil
}

// SubmitScore contains the logic to enter the score of a match.
// Preconditions: Receives the submission. Scores must form a valid completed set, a W.O/W.O pair is only accepted when
// the stored match already has exactly one walkover
// Postconditions: Returns the updated match once the write succeeded. Invalid scores are never written. The group
// leaderboard is regenerated afterwards, a failure there is logged and does not fail the submission
func (a *API) SubmitScore(ctx context.Context, sub ScoreSubmission) (shared.Match, error) {
	if err := a.checkNotBlocked(ctx); err != nil {
		return shared.Match{}, err
	}

	if !logic.IsValidScore(sub.Score1, sub.Score2) {
		return shared.Match{}, fmt.Errorf("%w: %s x %s", ErrInvalidScore, sub.Score1, sub.Score2)
	}

	match, err := a.loadMatchForEdit(ctx, sub.GroupID, sub.MatchID, sub.EditorID)
	if err != nil {
		return shared.Match{}, err
	}

	if err := logic.CheckWalkoverEdit(match, sub.Score1, sub.Score2); err != nil {
		return shared.Match{}, fmt.Errorf("%w: %v", ErrWalkoverEdit, err)
	}

	match.Player1.Score = sub.Score1
	match.Player2.Score = sub.Score2
	match.WinnerID = logic.WinnerPlayer(sub.Score1, sub.Score2, match.Player1.ID, match.Player2.ID)

	return a.saveMatch(ctx, match)
}

// ReportWalkover records that a player did not show up for a match
// Preconditions: Receives the group and match ids, the editor's player id (or "" for admin edits) and the id of the
// player who forfeited
// Postconditions: Returns the updated match. The opponent is given 6 games, or keeps their W.O which makes the match
// a double walkover with no winner
func (a *API) ReportWalkover(ctx context.Context, groupID, matchID, editorID, forfeitingPlayerID string) (shared.Match, error) {
	if err := a.checkNotBlocked(ctx); err != nil {
		return shared.Match{}, err
	}

	match, err := a.loadMatchForEdit(ctx, groupID, matchID, editorID)
	if err != nil {
		return shared.Match{}, err
	}

	updated, err := logic.ApplyWalkover(match, forfeitingPlayerID)
	if err != nil {
		return shared.Match{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return a.saveMatch(ctx, updated)
}

func (a *API) checkNotBlocked(ctx context.Context) error {
	status, err := a.Store.GetSystemStatus(ctx)
	if err != nil {
		return fmt.Errorf("failed to read system status: %w", err)
	}
	if status.IsBlocked {
		if status.Message != "" {
			return fmt.Errorf("%w: %s", ErrLeagueBlocked, status.Message)
		}
		return ErrLeagueBlocked
	}
	return nil
}

func (a *API) loadMatchForEdit(ctx context.Context, groupID, matchID, editorID string) (shared.Match, error) {
	if groupID == "" || matchID == "" {
		return shared.Match{}, fmt.Errorf("%w: group id and match id are required", ErrInvalidInput)
	}

	match, err := a.Store.GetMatch(ctx, groupID, matchID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return shared.Match{}, fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
		}
		return shared.Match{}, fmt.Errorf("failed to load match: %w", err)
	}

	if editorID != "" && !match.HasPlayer(editorID) {
		return shared.Match{}, ErrNotParticipant
	}
	return match, nil
}

func (a *API) saveMatch(ctx context.Context, match shared.Match) (shared.Match, error) {
	match.UpdatedAt = a.now()

	if err := a.Store.UpdateMatch(ctx, match); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return shared.Match{}, fmt.Errorf("%w: %s", ErrMatchNotFound, match.ID)
		}
		return shared.Match{}, fmt.Errorf("failed to save score: %w", err)
	}

	a.logger().Info("match updated",
		slog.String("group", match.GroupID),
		slog.String("match", match.ID),
		slog.String("score", fmt.Sprintf("%s x %s", match.Player1.Score, match.Player2.Score)),
		slog.String("winner", match.WinnerID))

	if _, err := a.generateStandings(ctx, match.GroupID, match.RoundID); err != nil {
		a.logger().Warn("failed to regenerate standings",
			slog.String("group", match.GroupID),
			slog.String("round", match.RoundID),
			slog.Any("error", err))
	}
	return match, nil
}

// GenerateStandings rebuilds and stores the leaderboard of a group from its matches in the group's latest round
// Preconditions: Receives the group id. The group must have at least one match
// Postconditions: Returns the stored entries, or an error if reading or writing fails
func (a *API) GenerateStandings(ctx context.Context, groupID string) ([]shared.LeaderboardEntry, error) {
	matches, err := a.Store.GetGroupMatches(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to load matches: %w", err)
	}

	rounds := make([]string, 0, len(matches))
	for _, m := range matches {
		rounds = append(rounds, m.RoundID)
	}
	roundID := logic.LatestRoundID(rounds)
	if roundID == "" {
		return nil, fmt.Errorf("%w: group %s has no matches", ErrInvalidInput, groupID)
	}
	return a.computeAndStore(ctx, groupID, roundID, matches)
}

// generateStandings rebuilds the leaderboard of one round of a group
func (a *API) generateStandings(ctx context.Context, groupID, roundID string) ([]shared.LeaderboardEntry, error) {
	if roundID == "" {
		return a.GenerateStandings(ctx, groupID)
	}
	matches, err := a.Store.GetGroupMatches(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to load matches: %w", err)
	}
	return a.computeAndStore(ctx, groupID, roundID, matches)
}

func (a *API) computeAndStore(ctx context.Context, groupID, roundID string, matches []shared.Match) ([]shared.LeaderboardEntry, error) {
	roundMatches := make([]shared.Match, 0, len(matches))
	for _, m := range matches {
		if m.RoundID == roundID {
			roundMatches = append(roundMatches, m)
		}
	}

	players, err := a.Store.GetGroupPlayers(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to load players: %w", err)
	}
	names := make(map[string]string, len(players))
	for _, p := range players {
		names[p.ID] = p.Name
	}

	entries := logic.ComputeStandings(groupID, roundMatches, names)
	err = a.Store.StoreLeaderboard(ctx, store.Leaderboard{
		ID:        store.LeaderboardID(groupID, roundID),
		GroupID:   groupID,
		RoundID:   roundID,
		UpdatedAt: a.now(),
		Data:      entries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store standings: %w", err)
	}
	return entries, nil
}

// SeedGroup creates the round-robin fixtures of a group for a round
// Preconditions: Receives the group id and a round id of the form <year>_Rodada<n>
// Postconditions: Returns the created pending matches. Fails with ErrInvalidInput if the group already has matches
// in the round or has fewer than two players
func (a *API) SeedGroup(ctx context.Context, groupID string, roundID string) ([]shared.Match, error) {
	if _, _, err := logic.ParseRoundID(roundID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	existing, err := a.Store.GetGroupMatches(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to load matches: %w", err)
	}
	for _, m := range existing {
		if m.RoundID == roundID {
			return nil, fmt.Errorf("%w: group %s already has fixtures for %s", ErrInvalidInput, groupID, roundID)
		}
	}

	players, err := a.Store.GetGroupPlayers(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to load players: %w", err)
	}
	slots := make([]shared.PlayerSlot, 0, len(players))
	for _, p := range players {
		slots = append(slots, shared.PlayerSlot{ID: p.ID, Name: p.Name})
	}

	matches, err := logic.RoundRobin(groupID, roundID, slots, a.newID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := a.Store.InsertMatches(ctx, matches); err != nil {
		return nil, err
	}
	if err := a.Store.SetGroupRound(ctx, groupID, roundID); err != nil {
		return nil, err
	}

	a.logger().Info("group seeded", slog.String("group", groupID), slog.String("round", roundID), slog.Int("matches", len(matches)))
	return matches, nil
}

// WatchGroupMatches subscribes fn to the matches of a group. See store.Interface.WatchGroupMatches
func (a *API) WatchGroupMatches(ctx context.Context, groupID string, fn func([]shared.Match, error)) (func(), error) {
	if groupID == "" {
		return nil, fmt.Errorf("%w: group id is required", ErrInvalidInput)
	}
	return a.Store.WatchGroupMatches(ctx, groupID, fn)
}
