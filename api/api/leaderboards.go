/* leaderboards.go
 * Contains the API methods for group leaderboards, accumulated rankings and round info. Read failures here never fail
 * the request: the affected list is returned empty and the failure is logged
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

	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

// maximum number of group leaderboards loaded at the same time
const leaderboardWorkers = 4

// GetGroupLeaderboard returns the ranked leaderboard of a group with position changes against the previous round
// Preconditions: Receives the group id and optionally the round id. An empty round id means the group's latest round
// Postconditions: Returns the ranked entries with names joined. A missing or unreadable leaderboard gives an empty
// list, a missing previous round gives position changes of zero
func (a *API) GetGroupLeaderboard(ctx context.Context, groupID string, roundID string) ([]shared.LeaderboardEntry, error) {
	if groupID == "" {
		return nil, fmt.Errorf("%w: group id is required", ErrInvalidInput)
	}

	if roundID == "" {
		roundID = a.groupRounds(ctx)[groupID]
		if roundID == "" {
			roundID = a.currentRoundID(ctx)
		}
	}

	entries, err := a.loadGroupLeaderboard(ctx, groupID, roundID, a.playerNames(ctx, groupID))
	if err != nil {
		a.logger().Error("failed to load leaderboard", slog.String("group", groupID), slog.Any("error", err))
		return []shared.LeaderboardEntry{}, nil
	}
	return entries, nil
}

// GetLeaderboards loads the leaderboards of several groups concurrently. A group that fails to load is returned with
// Error set and no entries, the other groups are not affected
// Preconditions: Receives the group ids, nil means every available group
// Postconditions: Returns one GroupLeaderboard per group in input order
func (a *API) GetLeaderboards(ctx context.Context, groupIDs []string) ([]GroupLeaderboard, error) {
	if groupIDs == nil {
		ids, err := a.Store.GetAvailableGroupIDs(ctx)
		if err != nil {
			a.logger().Error("failed to load groups", slog.Any("error", err))
			return []GroupLeaderboard{}, nil
		}
		groupIDs = ids
	}

	rounds := a.groupRounds(ctx)
	var fallback *string
	names := a.playerNames(ctx, "")
	results := make([]GroupLeaderboard, len(groupIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(leaderboardWorkers)
	for i, groupID := range groupIDs {
		i, groupID := i, groupID
		roundID := rounds[groupID]
		if roundID == "" {
			if fallback == nil {
				id := a.currentRoundID(ctx)
				fallback = &id
			}
			roundID = *fallback
		}

		g.Go(func() error {
			res := GroupLeaderboard{GroupID: groupID, RoundID: roundID}
			entries, err := a.loadGroupLeaderboard(gctx, groupID, roundID, names)
			if err != nil {
				a.logger().Error("failed to load leaderboard", slog.String("group", groupID), slog.Any("error", err))
				res.Error = err.Error()
				entries = []shared.LeaderboardEntry{}
			}
			res.Entries = entries
			results[i] = res
			// branches never fail the group so one bad leaderboard does not cancel the others
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// GetGroupsWithLeaderboards returns the groups whose latest leaderboard has at least one entry
func (a *API) GetGroupsWithLeaderboards(ctx context.Context) ([]string, error) {
	boards, err := a.GetLeaderboards(ctx, nil)
	if err != nil {
		return nil, err
	}

	groups := make([]string, 0, len(boards))
	for _, b := range boards {
		if len(b.Entries) > 0 {
			groups = append(groups, b.GroupID)
		}
	}
	return groups, nil
}

func (a *API) loadGroupLeaderboard(ctx context.Context, groupID, roundID string, names map[string]string) ([]shared.LeaderboardEntry, error) {
	if roundID == "" {
		return []shared.LeaderboardEntry{}, nil
	}

	current, err := a.Store.GetLeaderboardEntries(ctx, groupID, roundID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return []shared.LeaderboardEntry{}, nil
		}
		return nil, err
	}

	var previous []shared.LeaderboardEntry
	if prevID, err := logic.PreviousRoundID(roundID); err == nil {
		previous, err = a.Store.GetLeaderboardEntries(ctx, groupID, prevID)
		if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			a.logger().Warn("failed to load previous leaderboard", slog.String("group", groupID),
				slog.String("round", prevID), slog.Any("error", err))
		}
	}

	return withNames(logic.RankLeaderboard(current, previous), names), nil
}

// GetRanking returns the latest accumulated ranking with position changes against the one before it
func (a *API) GetRanking(ctx context.Context) ([]shared.LeaderboardEntry, error) {
	current, err := a.Store.GetLatestRankings(ctx)
	if err != nil {
		a.logger().Error("failed to load latest ranking", slog.Any("error", err))
		return []shared.LeaderboardEntry{}, nil
	}

	previous, err := a.Store.GetPreviousRankings(ctx)
	if err != nil {
		a.logger().Warn("failed to load previous ranking", slog.Any("error", err))
		previous = nil
	}

	return withNames(logic.RankLeaderboard(current, previous), a.playerNames(ctx, "")), nil
}

// GetRankingForRound returns the accumulated ranking up to a round, compared with the ranking up to the round before
func (a *API) GetRankingForRound(ctx context.Context, roundID string) ([]shared.LeaderboardEntry, error) {
	prevID, err := logic.PreviousRoundID(roundID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	current, err := a.Store.GetRankingUntilRound(ctx, roundID)
	if err != nil {
		a.logger().Error("failed to load ranking", slog.String("round", roundID), slog.Any("error", err))
		return []shared.LeaderboardEntry{}, nil
	}

	previous, err := a.Store.GetRankingUntilRound(ctx, prevID)
	if err != nil {
		a.logger().Warn("failed to load previous ranking", slog.String("round", prevID), slog.Any("error", err))
		previous = nil
	}

	return withNames(logic.RankLeaderboard(current, previous), a.playerNames(ctx, "")), nil
}

// GetRoundRanking returns the final standings of a single round. Players who reached the finals are ordered by their
// final result, position changes are taken from the stored positions of the previous round
func (a *API) GetRoundRanking(ctx context.Context, roundID string) ([]shared.LeaderboardEntry, error) {
	prevID, err := logic.PreviousRoundID(roundID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	current, err := a.Store.GetRoundHistoryPlayers(ctx, roundID)
	if err != nil {
		a.logger().Error("failed to load round history", slog.String("round", roundID), slog.Any("error", err))
		return []shared.LeaderboardEntry{}, nil
	}

	previous, err := a.Store.GetRoundHistoryPlayers(ctx, prevID)
	if err != nil {
		a.logger().Warn("failed to load previous round history", slog.String("round", prevID), slog.Any("error", err))
		previous = nil
	}

	return withNames(logic.RankRound(current, previous), a.playerNames(ctx, "")), nil
}

// PublishRanking adds the group leaderboards of a round to the accumulated ranking and stores the result as the
// ranking after that round
// Preconditions: Receives a round id of the form <year>_Rodada<n>. Groups without a leaderboard for the round are
// skipped
// Postconditions: Returns the stored ranking with names joined. Unlike the read paths, any read failure is returned
// so a partial ranking is never stored
func (a *API) PublishRanking(ctx context.Context, roundID string) ([]shared.LeaderboardEntry, error) {
	prevID, err := logic.PreviousRoundID(roundID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	previous, err := a.Store.GetRankingUntilRound(ctx, prevID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ranking for %s: %w", prevID, err)
	}

	groups, err := a.Store.GetGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load groups: %w", err)
	}

	var round []shared.LeaderboardEntry
	for _, g := range groups {
		entries, err := a.Store.GetLeaderboardEntries(ctx, g.ID, roundID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				continue
			}
			return nil, fmt.Errorf("failed to load leaderboard of group %s: %w", g.ID, err)
		}
		for _, e := range entries {
			if e.GroupID == "" {
				e.GroupID = g.ID
			}
			round = append(round, e)
		}
	}

	ranking := logic.AccumulateRanking(previous, round)
	if err := a.Store.StoreRanking(ctx, roundID, ranking); err != nil {
		return nil, err
	}

	a.logger().Info("ranking published", slog.String("round", roundID), slog.Int("players", len(ranking)))
	return withNames(append([]shared.LeaderboardEntry{}, ranking...), a.playerNames(ctx, "")), nil
}

// GetAvailableYears returns the years that have round history, newest first
func (a *API) GetAvailableYears(ctx context.Context) ([]int, error) {
	return a.Store.GetAvailableYears(ctx)
}

// GetRoundInfo describes the round being played: the active round with its deadline warning when one is configured,
// otherwise the round most groups are playing
func (a *API) GetRoundInfo(ctx context.Context) (RoundInfo, error) {
	var info RoundInfo

	status, err := a.Store.GetSystemStatus(ctx)
	if err != nil {
		a.logger().Warn("failed to read system status", slog.Any("error", err))
	}
	info.Status = status

	round, err := a.Store.GetActiveRound(ctx)
	switch {
	case err == nil:
		now := a.now()
		info.RoundID = round.ID
		info.Round = &round
		info.DaysLeft = max(logic.DaysLeft(round.EndDate, now), 0)
		info.Warning = logic.RoundWarning(round.EndDate, now)
	case errors.Is(err, mongo.ErrNoDocuments):
		info.RoundID = logic.CurrentRoundID(a.groupRounds(ctx))
	default:
		return RoundInfo{}, fmt.Errorf("failed to load active round: %w", err)
	}
	return info, nil
}

// currentRoundID returns the active round id, or the round most groups are playing when none is active
func (a *API) currentRoundID(ctx context.Context) string {
	round, err := a.Store.GetActiveRound(ctx)
	if err == nil && round.ID != "" {
		return round.ID
	}
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		a.logger().Warn("failed to load active round", slog.Any("error", err))
	}
	return logic.CurrentRoundID(a.groupRounds(ctx))
}

func (a *API) groupRounds(ctx context.Context) map[string]string {
	groups, err := a.Store.GetGroups(ctx)
	if err != nil {
		a.logger().Warn("failed to load groups", slog.Any("error", err))
		return map[string]string{}
	}
	return groupRoundMap(groups)
}

func groupRoundMap(groups []store.Group) map[string]string {
	res := make(map[string]string, len(groups))
	for _, g := range groups {
		res[g.ID] = g.RoundID
	}
	return res
}

// playerNames returns a player id to name lookup for a group, or for the whole league when groupID is empty
func (a *API) playerNames(ctx context.Context, groupID string) map[string]string {
	var players []store.Player
	var err error
	if groupID == "" {
		players, err = a.Store.GetPlayers(ctx)
	} else {
		players, err = a.Store.GetGroupPlayers(ctx, groupID)
	}
	if err != nil {
		a.logger().Warn("failed to load player names", slog.String("group", groupID), slog.Any("error", err))
	}

	names := make(map[string]string, len(players))
	for _, p := range players {
		names[p.ID] = p.Name
	}
	return names
}

func withNames(entries []shared.LeaderboardEntry, names map[string]string) []shared.LeaderboardEntry {
	for i := range entries {
		if name, ok := names[entries[i].PlayerID]; ok && name != "" {
			entries[i].Name = name
		} else if entries[i].Name == "" {
			entries[i].Name = logic.UnknownPlayer
		}
	}
	return entries
}
