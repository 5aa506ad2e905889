/* router_test.go
 * Contains unit tests for the HTTP API using httptest
 * Authors: Zachary Bower
 */

package web

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"tennis-league/api/api"
	"tennis-league/api/logic"
	"tennis-league/api/shared"
	"tennis-league/api/store"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAPI() (*api.API, *api.MockStore) {
	mockStore := api.NewMockStore()
	a := api.New(mockStore, discardLogger())
	a.Now = func() time.Time { return fixedNow }
	return a, mockStore
}

func newTestServer(t *testing.T) (*Server, *api.MockStore) {
	a, mockStore := newTestAPI()
	s, err := NewServer(Config{API: a, Logger: discardLogger()})
	require.NoError(t, err)
	return s, mockStore
}

// do sends a request through the full router and decodes a JSON response into dst when dst is not nil
func do(t *testing.T, s *Server, method, path, body string, dst any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)

	if dst != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
	}
	return rec
}

type errorBody struct {
	Error string `json:"error"`
}

type matchBody struct {
	Match shared.Match `json:"match"`
}

type entriesBody struct {
	Leaderboard []shared.LeaderboardEntry `json:"leaderboard"`
	Ranking     []shared.LeaderboardEntry `json:"ranking"`
}

// region server tests

func TestNewServer(t *testing.T) {
	_, err := NewServer(Config{})
	assert.Error(t, err)

	a, _ := newTestAPI()
	s, err := NewServer(Config{API: a, RateLimitRPS: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"*"}, s.origins)
	assert.NotNil(t, s.limiter)
	assert.NotNil(t, s.logger)
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	var body map[string]string

	rec := do(t, s, http.MethodGet, "/healthz", "", &body)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err      error
		expected int
	}{
		{api.ErrInvalidScore, http.StatusBadRequest},
		{api.ErrInvalidInput, http.StatusBadRequest},
		{api.ErrNotParticipant, http.StatusForbidden},
		{api.ErrMatchNotFound, http.StatusNotFound},
		{api.ErrPlayerNotFound, http.StatusNotFound},
		{api.ErrWalkoverEdit, http.StatusConflict},
		{api.ErrLeagueBlocked, http.StatusConflict},
		{errors.New("timeout"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.expected, statusFor(tt.err))
		})
	}
}

// endregion

// region group and match tests

func TestGroups(t *testing.T) {
	s, mockStore := newTestServer(t)
	var body struct {
		Groups []string `json:"groups"`
	}

	rec := do(t, s, http.MethodGet, "/api/groups", "", &body)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"A"}, body.Groups)

	mockStore.Leaderboards["A_2025_Rodada1"] = store.CreateSampleEntries(1)
	do(t, s, http.MethodGet, "/api/groups?withLeaderboards=true", "", &body)
	assert.Equal(t, []string{"A"}, body.Groups)
}

func TestGroups_StoreErrorIsHidden(t *testing.T) {
	s, mockStore := newTestServer(t)
	mockStore.GetGroupsError = errors.New("connection refused")
	var body errorBody

	rec := do(t, s, http.MethodGet, "/api/groups", "", &body)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, body.Error, "connection refused")
}

func TestGroupMatches(t *testing.T) {
	s, _ := newTestServer(t)
	var body struct {
		Matches []shared.Match `json:"matches"`
	}

	rec := do(t, s, http.MethodGet, "/api/groups/A/matches?state=pending", "", &body)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, body.Matches, 1)
	assert.Equal(t, "m3", body.Matches[0].ID)
	assert.True(t, body.Matches[0].Player1.Score.IsPending())

	rec = do(t, s, http.MethodGet, "/api/groups/A/matches", "", &body)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body.Matches, 3)
	assert.True(t, body.Matches[1].Player2.Score.IsWalkover())

	rec = do(t, s, http.MethodGet, "/api/groups/A/matches?state=soon", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitScore(t *testing.T) {
	s, mockStore := newTestServer(t)
	var body matchBody

	rec := do(t, s, http.MethodPut, "/api/groups/A/matches/m3/score", `{"editorId":"p1","score1":6,"score2":4}`, &body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "p1", body.Match.WinnerID)
	assert.Equal(t, shared.Games(4), body.Match.Player2.Score)
	require.Len(t, mockStore.UpdatedMatches, 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.scoreSubmissions.WithLabelValues("saved")))
}

func TestSubmitScore_Walkover(t *testing.T) {
	s, _ := newTestServer(t)
	var body matchBody

	rec := do(t, s, http.MethodPut, "/api/groups/A/matches/m3/score", `{"score1":"W.O","score2":6}`, &body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "p3", body.Match.WinnerID)
	assert.True(t, body.Match.Player1.Score.IsWalkover())
}

func TestSubmitScore_Errors(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		body     string
		setup    func(*api.MockStore)
		expected int
		contains string
	}{
		{"invalid set", "/api/groups/A/matches/m3/score", `{"score1":6,"score2":6}`, nil, http.StatusBadRequest, "invalid score"},
		{"unknown score", "/api/groups/A/matches/m3/score", `{"score1":"six","score2":6}`, nil, http.StatusBadRequest, "invalid score 'six'"},
		{"unknown field", "/api/groups/A/matches/m3/score", `{"score1":6,"score2":4,"winner":"p1"}`, nil, http.StatusBadRequest, "unknown key"},
		{"empty body", "/api/groups/A/matches/m3/score", "", nil, http.StatusBadRequest, "must not be empty"},
		{"not a participant", "/api/groups/A/matches/m3/score", `{"editorId":"p2","score1":6,"score2":4}`, nil, http.StatusForbidden, "only the players"},
		{"unknown match", "/api/groups/A/matches/m9/score", `{"score1":6,"score2":4}`, nil, http.StatusNotFound, "match not found"},
		{"double walkover", "/api/groups/A/matches/m3/score", `{"score1":"W.O","score2":"W.O"}`, nil, http.StatusConflict, "walkover"},
		{"blocked", "/api/groups/A/matches/m3/score", `{"score1":6,"score2":4}`, func(m *api.MockStore) {
			m.Status = store.SystemStatus{IsBlocked: true, Message: "round closed"}
		}, http.StatusConflict, "round closed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mockStore := newTestServer(t)
			if tt.setup != nil {
				tt.setup(mockStore)
			}
			var body errorBody

			rec := do(t, s, http.MethodPut, tt.path, tt.body, &body)

			assert.Equal(t, tt.expected, rec.Code)
			assert.Contains(t, body.Error, tt.contains)
			assert.Empty(t, mockStore.UpdatedMatches)
		})
	}
}

func TestSubmitScore_CountsResults(t *testing.T) {
	s, mockStore := newTestServer(t)

	do(t, s, http.MethodPut, "/api/groups/A/matches/m3/score", `{"score1":6,"score2":6}`, nil)
	mockStore.UpdateMatchError = errors.New("timeout")
	do(t, s, http.MethodPut, "/api/groups/A/matches/m3/score", `{"score1":6,"score2":4}`, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.scoreSubmissions.WithLabelValues("rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.scoreSubmissions.WithLabelValues("failed")))
	assert.Equal(t, 0.0, testutil.ToFloat64(s.metrics.scoreSubmissions.WithLabelValues("saved")))
}

func TestReportWalkover(t *testing.T) {
	s, _ := newTestServer(t)
	var body matchBody

	rec := do(t, s, http.MethodPost, "/api/groups/A/matches/m3/walkover", `{"editorId":"p1","playerId":"p3"}`, &body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "p1", body.Match.WinnerID)
	assert.Equal(t, shared.Games(6), body.Match.Player1.Score)
	assert.True(t, body.Match.Player2.Score.IsWalkover())

	rec = do(t, s, http.MethodPost, "/api/groups/A/matches/m3/walkover", `{"playerId":"p2"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// endregion

// region leaderboard and ranking tests

func TestGroupLeaderboard(t *testing.T) {
	s, mockStore := newTestServer(t)
	mockStore.Leaderboards["A_2025_Rodada1"] = store.CreateSampleEntries(3, 9, 6)
	var body entriesBody

	rec := do(t, s, http.MethodGet, "/api/groups/A/leaderboard", "", &body)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, body.Leaderboard, 3)
	assert.Equal(t, "Bia", body.Leaderboard[0].Name)
	assert.Equal(t, 1, body.Leaderboard[0].Position)

	do(t, s, http.MethodGet, "/api/groups/A/leaderboard?round=2024_Rodada3", "", &body)
	assert.Empty(t, body.Leaderboard)
}

func TestGenerateStandings(t *testing.T) {
	s, mockStore := newTestServer(t)
	var body entriesBody

	rec := do(t, s, http.MethodPost, "/api/groups/A/standings", "", &body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body.Leaderboard, 3)
	assert.Len(t, mockStore.SavedBoards, 1)

	rec = do(t, s, http.MethodPost, "/api/groups/Z/standings", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLeaderboards(t *testing.T) {
	s, mockStore := newTestServer(t)
	mockStore.Leaderboards["A_2025_Rodada1"] = store.CreateSampleEntries(3, 9)
	var body struct {
		Leaderboards []api.GroupLeaderboard `json:"leaderboards"`
	}

	rec := do(t, s, http.MethodGet, "/api/leaderboards?groups=A,%20B", "", &body)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, body.Leaderboards, 2)
	assert.Equal(t, "A", body.Leaderboards[0].GroupID)
	assert.Len(t, body.Leaderboards[0].Entries, 2)
	assert.Equal(t, "B", body.Leaderboards[1].GroupID)
	assert.Empty(t, body.Leaderboards[1].Entries)
}

func TestRankings(t *testing.T) {
	s, mockStore := newTestServer(t)
	mockStore.LatestRanking = store.CreateSampleEntries(10, 20)
	mockStore.RankingsByRound["2025_Rodada1"] = store.CreateSampleEntries(5)
	mockStore.RoundHistory["2025_Rodada1"] = store.CreateSampleEntries(1, 2, 3)
	var body entriesBody

	rec := do(t, s, http.MethodGet, "/api/rankings", "", &body)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, body.Ranking, 2)
	assert.Equal(t, "p2", body.Ranking[0].PlayerID)

	rec = do(t, s, http.MethodGet, "/api/rankings/2025_Rodada1", "", &body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body.Ranking, 1)

	rec = do(t, s, http.MethodGet, "/api/rounds/2025_Rodada1/ranking", "", &body)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, body.Ranking, 3)
	assert.Equal(t, "Caio", body.Ranking[0].Name)

	rec = do(t, s, http.MethodGet, "/api/rankings/latest", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPublishRanking(t *testing.T) {
	s, mockStore := newTestServer(t)
	mockStore.RankingsByRound["2025_Rodada1"] = []shared.LeaderboardEntry{{PlayerID: "p3", ScorePoints: shared.IntPtr(20)}}
	mockStore.Leaderboards["A_2025_Rodada2"] = store.CreateSampleEntries(9, 6, 3)
	var body entriesBody

	rec := do(t, s, http.MethodPost, "/api/rankings/2025_Rodada2", "", &body)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, body.Ranking, 3)
	assert.Equal(t, "Caio", body.Ranking[0].Name)
	assert.Equal(t, 23, *body.Ranking[0].ScorePoints)
	assert.Len(t, mockStore.RankingsByRound["2025_Rodada2"], 3)

	rec = do(t, s, http.MethodPost, "/api/rankings/latest", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestActiveRound(t *testing.T) {
	s, mockStore := newTestServer(t)
	mockStore.ActiveRound = &store.Round{ID: "2025_Rodada1", IsActive: true, EndDate: fixedNow.Add(72 * time.Hour)}
	var body struct {
		Round api.RoundInfo `json:"round"`
	}

	rec := do(t, s, http.MethodGet, "/api/rounds/active", "", &body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2025_Rodada1", body.Round.RoundID)
	assert.Equal(t, 3, body.Round.DaysLeft)
	assert.Equal(t, "3 days left in the round", body.Round.Warning)
}

func TestYears(t *testing.T) {
	s, mockStore := newTestServer(t)
	mockStore.Years = []int{2025, 2024}
	var body struct {
		Years []int `json:"years"`
	}

	do(t, s, http.MethodGet, "/api/years", "", &body)

	assert.Equal(t, []int{2025, 2024}, body.Years)
}

// endregion

// region player and availability tests

func TestPlayers(t *testing.T) {
	s, _ := newTestServer(t)
	var body struct {
		Player store.Player `json:"player"`
	}

	rec := do(t, s, http.MethodGet, "/api/players?name=cai", "", &body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "p3", body.Player.ID)

	rec = do(t, s, http.MethodGet, "/api/players/p2", "", &body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bia", body.Player.Name)
	assert.NotContains(t, rec.Body.String(), "discordId")

	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/api/players", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/api/players?name=Zeca", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/api/players/p9", "", nil).Code)
}

func TestUpdateProfile(t *testing.T) {
	s, mockStore := newTestServer(t)
	var body struct {
		Player store.Player `json:"player"`
	}

	rec := do(t, s, http.MethodPut, "/api/players/p2",
		`{"avatarUrl":"https://example.com/bia.png","details":{"hand":"left","backhand":"one-handed"}}`, &body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bia", body.Player.Name)
	assert.Equal(t, "left", body.Player.Details.Hand)
	assert.Equal(t, "https://example.com/bia.png", mockStore.Players[1].AvatarURL)

	rec = do(t, s, http.MethodPut, "/api/players/p2", `{"details":{"hand":"both"}}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPut, "/api/players/p9", `{"name":"Zeca"}`, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodPut, "/api/players/p2", `{"nickname":"B"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAvailability(t *testing.T) {
	s, mockStore := newTestServer(t)
	var body struct {
		Availability []shared.Availability `json:"availability"`
	}

	rec := do(t, s, http.MethodPut, "/api/players/p1/availability",
		`{"date":"2025-03-12","slots":["06:00","07:00"],"status":"busy","notes":"work"}`, &body)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, body.Availability, 2)
	assert.Equal(t, "work", body.Availability[0].Notes)
	assert.Len(t, mockStore.Availability["p1"], 2)

	rec = do(t, s, http.MethodGet, "/api/players/p1/availability", "", &body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body.Availability, 2)

	rec = do(t, s, http.MethodPut, "/api/players/p1/availability", `{"date":"2025-03-12","slots":["06:00"],"status":"tired"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAvailabilityWeek(t *testing.T) {
	s, mockStore := newTestServer(t)
	mockStore.Availability["p1"] = []shared.Availability{
		{Date: "2025-03-12", StartTime: "06:00", EndTime: "07:00", Status: shared.StatusMaybe},
	}
	var body struct {
		Slots []string            `json:"slots"`
		Week  []logic.DaySummary `json:"week"`
	}

	rec := do(t, s, http.MethodGet, "/api/players/p1/availability/week?date=2025-03-12", "", &body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, logic.TimeSlots(), body.Slots)
	require.Len(t, body.Week, 7)
	assert.Equal(t, "2025-03-10", body.Week[0].Date)
	assert.Equal(t, shared.StatusMaybe, body.Week[2].Statuses[0])

	rec = do(t, s, http.MethodGet, "/api/players/p1/availability/week?date=12-03-2025", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// endregion

// region middleware tests

func TestRateLimit(t *testing.T) {
	a, _ := newTestAPI()
	s, err := NewServer(Config{API: a, Logger: discardLogger(), RateLimitRPS: 0.01, RateLimitBurst: 1})
	require.NoError(t, err)
	handler := s.Routes()

	send := func(path string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = "10.0.0.1:4000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("/api/groups"))
	assert.Equal(t, http.StatusTooManyRequests, send("/api/groups"))
	// health checks and metrics are not limited
	assert.Equal(t, http.StatusOK, send("/healthz"))
	assert.Equal(t, http.StatusOK, send("/metrics"))
}

func TestCORS(t *testing.T) {
	a, _ := newTestAPI()
	s, err := NewServer(Config{API: a, Logger: discardLogger(), CORSOrigins: []string{"https://tenis.app"}})
	require.NoError(t, err)

	preflight := func(origin string) http.Header {
		req := httptest.NewRequest(http.MethodOptions, "/api/groups/A/matches/m3/score", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPut)
		rec := httptest.NewRecorder()
		s.Routes().ServeHTTP(rec, req)
		return rec.Header()
	}

	assert.Equal(t, "https://tenis.app", preflight("https://tenis.app").Get("Access-Control-Allow-Origin"))
	assert.Empty(t, preflight("https://evil.example").Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	handler := s.Routes()

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/groups/A/matches", nil))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `tennis_league_http_requests_total{method="GET",route="/api/groups/{groupID}/matches",status="200"} 1`)
	assert.Contains(t, rec.Body.String(), "tennis_league_match_feed_clients 0")
}

// endregion
