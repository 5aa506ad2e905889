/* test_mocks.go
 * Contains mock structures for testing the API package and the packages built on it
 * Authors: Zachary Bower
 */

package api

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"tennis-league/api/shared"
	"tennis-league/api/store"

	"go.mongodb.org/mongo-driver/mongo"
)

// MockStore implements store.Interface in memory for testing
type MockStore struct {
	mu sync.Mutex

	// Storage for mock data
	Players          []store.Player
	Groups           []store.Group
	Matches          map[string][]shared.Match            // by group id
	Leaderboards     map[string][]shared.LeaderboardEntry // by store.LeaderboardID
	LatestRanking    []shared.LeaderboardEntry
	PreviousRanking  []shared.LeaderboardEntry
	RankingsByRound  map[string][]shared.LeaderboardEntry
	RoundHistory     map[string][]shared.LeaderboardEntry
	ActiveRound      *store.Round
	Status           store.SystemStatus
	Years            []int
	Availability     map[string][]shared.Availability
	SavedBoards      []store.Leaderboard
	UpdatedMatches   []shared.Match

	// Error injection for testing error paths
	GetPlayersError        error
	GetGroupsError         error
	GetGroupMatchesError   error
	GetMatchError          error
	UpdateMatchError       error
	InsertMatchesError     error
	WatchError             error
	StoreLeaderboardError  error
	GetRankingsError       error
	StoreRankingError      error
	GetActiveRoundError    error
	GetSystemStatusError   error
	GetAvailabilityError   error
	StoreAvailabilityError error
	LinkDiscordIDError     error
	// LeaderboardErrors fails GetLeaderboardEntries for single leaderboard ids
	LeaderboardErrors map[string]error

	watchers  map[int]mockWatcher
	nextWatch int
	// Cancelled counts cancelled subscriptions
	Cancelled int
}

type mockWatcher struct {
	groupID string
	fn      func([]shared.Match, error)
}

// Ensure MockStore implements store.Interface
var _ store.Interface = (*MockStore)(nil)

// NewMockStore creates a new MockStore holding the sample players and matches of group A in round 2025_Rodada1
func NewMockStore() *MockStore {
	return &MockStore{
		Players:         store.CreateSamplePlayers("A"),
		Groups:          []store.Group{{ID: "A", RoundID: "2025_Rodada1"}},
		Matches:         map[string][]shared.Match{"A": store.CreateSampleMatches("A", "2025_Rodada1")},
		Leaderboards:    make(map[string][]shared.LeaderboardEntry),
		RankingsByRound: make(map[string][]shared.LeaderboardEntry),
		RoundHistory:    make(map[string][]shared.LeaderboardEntry),
		Availability:    make(map[string][]shared.Availability),
		watchers:        make(map[int]mockWatcher),
	}
}

// region players

func (m *MockStore) GetPlayers(ctx context.Context) ([]store.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPlayersError != nil {
		return nil, m.GetPlayersError
	}
	return append([]store.Player{}, m.Players...), nil
}

func (m *MockStore) GetGroupPlayers(ctx context.Context, groupID string) ([]store.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPlayersError != nil {
		return nil, m.GetPlayersError
	}
	res := []store.Player{}
	for _, p := range m.Players {
		if p.GroupID == groupID {
			res = append(res, p)
		}
	}
	return res, nil
}

func (m *MockStore) findPlayer(match func(store.Player) bool) (store.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPlayersError != nil {
		return store.Player{}, m.GetPlayersError
	}
	for _, p := range m.Players {
		if match(p) {
			return p, nil
		}
	}
	return store.Player{}, fmt.Errorf("player not found: %w", mongo.ErrNoDocuments)
}

func (m *MockStore) GetPlayer(ctx context.Context, playerID string) (store.Player, error) {
	return m.findPlayer(func(p store.Player) bool { return p.ID == playerID })
}

func (m *MockStore) GetPlayerByEmail(ctx context.Context, email string) (store.Player, error) {
	return m.findPlayer(func(p store.Player) bool { return email != "" && p.Email == email })
}

func (m *MockStore) GetPlayerByDiscordID(ctx context.Context, discordID string) (store.Player, error) {
	return m.findPlayer(func(p store.Player) bool { return discordID != "" && p.DiscordID == discordID })
}

func (m *MockStore) LinkDiscordID(ctx context.Context, playerID string, discordID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LinkDiscordIDError != nil {
		return m.LinkDiscordIDError
	}
	for i := range m.Players {
		if m.Players[i].ID == playerID {
			m.Players[i].DiscordID = discordID
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (m *MockStore) UpdatePlayerProfile(ctx context.Context, playerID string, profile store.PlayerProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Players {
		if m.Players[i].ID == playerID {
			if profile.Name != "" {
				m.Players[i].Name = profile.Name
			}
			if profile.AvatarURL != "" {
				m.Players[i].AvatarURL = profile.AvatarURL
			}
			m.Players[i].Details = profile.Details
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (m *MockStore) GetAvailableGroupIDs(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetGroupsError != nil {
		return nil, m.GetGroupsError
	}
	seen := make(map[string]bool)
	ids := []string{}
	for _, p := range m.Players {
		if p.GroupID != "" && !seen[p.GroupID] {
			seen[p.GroupID] = true
			ids = append(ids, p.GroupID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// endregion

// region groups

func (m *MockStore) GetGroups(ctx context.Context) ([]store.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetGroupsError != nil {
		return nil, m.GetGroupsError
	}
	return append([]store.Group{}, m.Groups...), nil
}

func (m *MockStore) SetGroupRound(ctx context.Context, groupID string, roundID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Groups {
		if m.Groups[i].ID == groupID {
			m.Groups[i].RoundID = roundID
			return nil
		}
	}
	m.Groups = append(m.Groups, store.Group{ID: groupID, RoundID: roundID})
	return nil
}

// endregion

// region matches

func (m *MockStore) GetGroupMatches(ctx context.Context, groupID string) ([]shared.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.groupMatches(groupID)
}

func (m *MockStore) groupMatches(groupID string) ([]shared.Match, error) {
	if m.GetGroupMatchesError != nil {
		return nil, m.GetGroupMatchesError
	}
	return append([]shared.Match{}, m.Matches[groupID]...), nil
}

func (m *MockStore) GetMatch(ctx context.Context, groupID string, matchID string) (shared.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetMatchError != nil {
		return shared.Match{}, m.GetMatchError
	}
	for _, match := range m.Matches[groupID] {
		if match.ID == matchID {
			return match, nil
		}
	}
	return shared.Match{}, fmt.Errorf("match %s not found: %w", matchID, mongo.ErrNoDocuments)
}

func (m *MockStore) UpdateMatch(ctx context.Context, match shared.Match) error {
	m.mu.Lock()
	if m.UpdateMatchError != nil {
		m.mu.Unlock()
		return m.UpdateMatchError
	}
	found := false
	for i, existing := range m.Matches[match.GroupID] {
		if existing.ID == match.ID {
			m.Matches[match.GroupID][i] = match
			found = true
		}
	}
	if !found {
		m.mu.Unlock()
		return mongo.ErrNoDocuments
	}
	m.UpdatedMatches = append(m.UpdatedMatches, match)
	m.mu.Unlock()

	m.Emit(match.GroupID)
	return nil
}

func (m *MockStore) InsertMatches(ctx context.Context, matches []shared.Match) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertMatchesError != nil {
		return m.InsertMatchesError
	}
	for _, match := range matches {
		m.Matches[match.GroupID] = append(m.Matches[match.GroupID], match)
	}
	return nil
}

// WatchGroupMatches registers fn and sends it the current matches straight away, like the real change stream
func (m *MockStore) WatchGroupMatches(ctx context.Context, groupID string, fn func([]shared.Match, error)) (func(), error) {
	m.mu.Lock()
	if m.WatchError != nil {
		m.mu.Unlock()
		return nil, m.WatchError
	}
	id := m.nextWatch
	m.nextWatch++
	m.watchers[id] = mockWatcher{groupID: groupID, fn: fn}
	matches, err := m.groupMatches(groupID)
	m.mu.Unlock()

	fn(matches, err)

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			delete(m.watchers, id)
			m.Cancelled++
		})
	}, nil
}

// Emit sends the current matches of a group to its subscribers
func (m *MockStore) Emit(groupID string) {
	m.mu.Lock()
	matches, err := m.groupMatches(groupID)
	var fns []func([]shared.Match, error)
	for _, w := range m.watchers {
		if w.groupID == groupID {
			fns = append(fns, w.fn)
		}
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(matches, err)
	}
}

// EmitError sends err to the subscribers of a group
func (m *MockStore) EmitError(groupID string, err error) {
	m.mu.Lock()
	var fns []func([]shared.Match, error)
	for _, w := range m.watchers {
		if w.groupID == groupID {
			fns = append(fns, w.fn)
		}
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(nil, err)
	}
}

// Subscribers returns the number of open subscriptions
func (m *MockStore) Subscribers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.watchers)
}

// endregion

// region leaderboards and rankings

func (m *MockStore) GetLeaderboardEntries(ctx context.Context, groupID string, roundID string) ([]shared.LeaderboardEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := store.LeaderboardID(groupID, roundID)
	if err := m.LeaderboardErrors[id]; err != nil {
		return nil, err
	}
	entries, ok := m.Leaderboards[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return append([]shared.LeaderboardEntry{}, entries...), nil
}

func (m *MockStore) StoreLeaderboard(ctx context.Context, leaderboard store.Leaderboard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StoreLeaderboardError != nil {
		return m.StoreLeaderboardError
	}
	m.Leaderboards[store.LeaderboardID(leaderboard.GroupID, leaderboard.RoundID)] = leaderboard.Data
	m.SavedBoards = append(m.SavedBoards, leaderboard)
	return nil
}

func (m *MockStore) GetLatestRankings(ctx context.Context) ([]shared.LeaderboardEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetRankingsError != nil {
		return nil, m.GetRankingsError
	}
	return append([]shared.LeaderboardEntry{}, m.LatestRanking...), nil
}

func (m *MockStore) GetPreviousRankings(ctx context.Context) ([]shared.LeaderboardEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]shared.LeaderboardEntry{}, m.PreviousRanking...), nil
}

func (m *MockStore) GetRankingUntilRound(ctx context.Context, roundID string) ([]shared.LeaderboardEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetRankingsError != nil {
		return nil, m.GetRankingsError
	}
	return append([]shared.LeaderboardEntry{}, m.RankingsByRound[roundID]...), nil
}

func (m *MockStore) StoreRanking(ctx context.Context, roundID string, entries []shared.LeaderboardEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StoreRankingError != nil {
		return m.StoreRankingError
	}
	m.RankingsByRound[roundID] = entries
	return nil
}

// endregion

// region rounds

func (m *MockStore) GetActiveRound(ctx context.Context) (store.Round, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetActiveRoundError != nil {
		return store.Round{}, m.GetActiveRoundError
	}
	if m.ActiveRound == nil {
		return store.Round{}, fmt.Errorf("no active round: %w", mongo.ErrNoDocuments)
	}
	return *m.ActiveRound, nil
}

func (m *MockStore) GetSystemStatus(ctx context.Context) (store.SystemStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetSystemStatusError != nil {
		return store.SystemStatus{}, m.GetSystemStatusError
	}
	return m.Status, nil
}

func (m *MockStore) GetAvailableYears(ctx context.Context) ([]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int{}, m.Years...), nil
}

func (m *MockStore) GetRoundHistoryPlayers(ctx context.Context, roundID string) ([]shared.LeaderboardEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetRankingsError != nil {
		return nil, m.GetRankingsError
	}
	return append([]shared.LeaderboardEntry{}, m.RoundHistory[roundID]...), nil
}

// endregion

// region availability

func (m *MockStore) GetAvailability(ctx context.Context, playerID string) ([]shared.Availability, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetAvailabilityError != nil {
		return nil, m.GetAvailabilityError
	}
	return append([]shared.Availability{}, m.Availability[playerID]...), nil
}

func (m *MockStore) StoreAvailability(ctx context.Context, playerID string, avails []shared.Availability) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StoreAvailabilityError != nil {
		return m.StoreAvailabilityError
	}
	m.Availability[playerID] = avails
	return nil
}

// endregion

func (m *MockStore) Close(ctx context.Context) error {
	return nil
}
