/* handlers.go
 * Contains the HTTP handlers of the league API. Every handler delegates to the api package and only deals with
 * reading the request and writing the response
 * Authors: Zachary Bower
 */

package web

import (
	"fmt"
	"net/http"
	"strings"
	"tennis-league/api/api"
	"tennis-league/api/logic"
	"tennis-league/api/store"
	"time"

	"github.com/go-chi/chi/v5"
)

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, envelope{"status": "ok"})
}

// region groups and matches

// groupsHandler lists the groups. ?withLeaderboards=true only lists groups that have a leaderboard
func (s *Server) groupsHandler(w http.ResponseWriter, r *http.Request) {
	list := s.api.GetAvailableGroups
	if r.URL.Query().Get("withLeaderboards") == "true" {
		list = s.api.GetGroupsWithLeaderboards
	}

	groups, err := list(r.Context())
	if err != nil {
		s.apiErrorResponse(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"groups": groups})
}

func (s *Server) groupMatchesHandler(w http.ResponseWriter, r *http.Request) {
	matches, err := s.api.GetGroupMatches(r.Context(), chi.URLParam(r, "groupID"), r.URL.Query().Get("state"))
	if err != nil {
		s.apiErrorResponse(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"matches": matches})
}

func (s *Server) submitScoreHandler(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := readJSON(w, r, &req); err != nil {
		s.badRequestResponse(w, err)
		return
	}

	match, err := s.api.SubmitScore(r.Context(), api.ScoreSubmission{
		GroupID:  chi.URLParam(r, "groupID"),
		MatchID:  chi.URLParam(r, "matchID"),
		EditorID: req.EditorID,
		Score1:   req.Score1,
		Score2:   req.Score2,
	})
	s.metrics.recordSubmission(err)
	if err != nil {
		s.apiErrorResponse(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"match": match})
}

func (s *Server) walkoverHandler(w http.ResponseWriter, r *http.Request) {
	var req walkoverRequest
	if err := readJSON(w, r, &req); err != nil {
		s.badRequestResponse(w, err)
		return
	}

	match, err := s.api.ReportWalkover(r.Context(), chi.URLParam(r, "groupID"), chi.URLParam(r, "matchID"), req.EditorID, req.PlayerID)
	s.metrics.recordSubmission(err)
	if err != nil {
		s.apiErrorResponse(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"match": match})
}

// endregion

// region leaderboards and rankings

// groupLeaderboardHandler returns a group's leaderboard, ?round= selects a past round
func (s *Server) groupLeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	entries, err := s.api.GetGroupLeaderboard(r.Context(), chi.URLParam(r, "groupID"), r.URL.Query().Get("round"))
	if err != nil {
		s.apiErrorResponse(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"leaderboard": entries})
}

func (s *Server) generateStandingsHandler(w http.ResponseWriter, r *http.Request) {
	entries, err := s.api.GenerateStandings(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		s.apiErrorResponse(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"leaderboard": entries})
}

// leaderboardsHandler loads several groups at once, ?groups=A,B limits the groups
func (s *Server) leaderboardsHandler(w http.ResponseWriter, r *http.Request) {
	var groupIDs []string
	for _, id := range strings.Split(r.URL.Query().Get("groups"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			groupIDs = append(groupIDs, id)
		}
	}

	boards, err := s.api.GetLeaderboards(r.Context(), groupIDs)
	if err != nil {
		s.apiErrorResponse(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"leaderboards": boards})
}

func (s *Server) rankingHandler(w http.ResponseWriter, r *http.Request) {
	entries, err := s.api.GetRanking(r.Context())
	if err != nil {
		s.apiErrorResponse(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"ranking": entries})
}

func (s *Server) rankingForRoundHandler(w http.ResponseWriter, r *http.Request) {
	entries, err := s.api.GetRankingForRound(r.Context(), chi.URLParam(r, "roundID"))
	if err != nil {
		s.apiErrorResponse(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"ranking": entries})
}

// publishRankingHandler adds the round's group leaderboards to the accumulated ranking
func (s *Server) publishRankingHandler(w http.ResponseWriter, r *http.Request) {
	entries, err := s.api.PublishRanking(r.Context(), chi.URLParam(r, "roundID"))
	if err != nil {
		s.apiErrorResponse(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"ranking": entries})
}

func (s *Server) roundRankingHandler(w http.ResponseWriter, r *http.Request) {
	entries, err := s.api.GetRoundRanking(r.Context(), chi.URLParam(r, "roundID"))
	if err != nil {
		s.apiErrorResponse(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"ranking": entries})
}

func (s *Server) yearsHandler(w http.ResponseWriter, r *http.Request) {
	years, err := s.api.GetAvailableYears(r.Context())
	if err != nil {
		s.apiErrorResponse(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"years": years})
}

func (s *Server) activeRoundHandler(w http.ResponseWriter, r *http.Request) {
	info, err := s.api.GetRoundInfo(r.Context())
	if err != nil {
		s.apiErrorResponse(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"round": info})
}

// endregion

// region players and availability

// findPlayerHandler resolves ?name= to a player with fuzzy matching
func (s *Server) findPlayerHandler(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		s.errorResponse(w, http.StatusBadRequest, "the name query parameter is required")
		return
	}

	player, err := s.api.FindPlayerByName(r.Context(), name)
	if err != nil {
		s.apiErrorResponse(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"player": player})
}

func (s *Server) playerHandler(w http.ResponseWriter, r *http.Request) {
	player, err := s.api.GetPlayer(r.Context(), chi.URLParam(r, "playerID"))
	if err != nil {
		s.apiErrorResponse(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"player": player})
}

func (s *Server) updateProfileHandler(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := readJSON(w, r, &req); err != nil {
		s.badRequestResponse(w, err)
		return
	}

	player, err := s.api.UpdateProfile(r.Context(), chi.URLParam(r, "playerID"), store.PlayerProfile{
		Name:      req.Name,
		AvatarURL: req.AvatarURL,
		Details:   req.Details,
	})
	if err != nil {
		s.apiErrorResponse(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"player": player})
}

func (s *Server) availabilityHandler(w http.ResponseWriter, r *http.Request) {
	avails, err := s.api.GetAvailability(r.Context(), chi.URLParam(r, "playerID"))
	if err != nil {
		s.apiErrorResponse(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"availability": avails})
}

func (s *Server) setAvailabilityHandler(w http.ResponseWriter, r *http.Request) {
	var req availabilityRequest
	if err := readJSON(w, r, &req); err != nil {
		s.badRequestResponse(w, err)
		return
	}

	avails, err := s.api.SetAvailability(r.Context(), chi.URLParam(r, "playerID"), req.Date, req.Slots, req.Status, req.Notes)
	if err != nil {
		s.apiErrorResponse(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"availability": avails})
}

// weekHandler summarises the week containing ?date= (today when missing) slot by slot
func (s *Server) weekHandler(w http.ResponseWriter, r *http.Request) {
	day := time.Now()
	if v := r.URL.Query().Get("date"); v != "" {
		parsed, err := time.Parse(logic.DateLayout, v)
		if err != nil {
			s.badRequestResponse(w, fmt.Errorf("invalid date '%s', expected YYYY-MM-DD", v))
			return
		}
		day = parsed
	}

	week, err := s.api.GetWeekSummary(r.Context(), chi.URLParam(r, "playerID"), day)
	if err != nil {
		s.apiErrorResponse(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"slots": logic.TimeSlots(), "week": week})
}

// endregion
