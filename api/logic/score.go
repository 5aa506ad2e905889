/* score.go
 * Contains the rules for tennis set scores: which pairs of scores are a legal completed result, who won a match,
 * and how a walkover is recorded against a match
 * Authors: Zachary Bower
 */

package logic

import (
	"errors"
	"fmt"
	"tennis-league/api/shared"
)

var (
	ErrPlayerNotInMatch = errors.New("player is not part of this match")
	ErrDoubleWalkover   = errors.New("a double walkover can only be set when one player already has a walkover")
)

// IsValidScore checks whether two scores make a legal completed set
// Preconditions: Receives the scores of player 1 and player 2
// Postconditions: Returns true for W.O/W.O, W.O/6, 6-0..6-4 and 7-5/7-6 in either order, false for everything else
// including pending scores
func IsValidScore(score1, score2 shared.Score) bool {
	if score1.IsWalkover() || score2.IsWalkover() {
		if score1.IsWalkover() && score2.IsWalkover() {
			return true
		}
		other := score1
		if score1.IsWalkover() {
			other = score2
		}
		games, ok := other.Value()
		return ok && games == 6
	}

	a, ok1 := score1.Value()
	b, ok2 := score2.Value()
	if !ok1 || !ok2 {
		return false
	}

	high, low := max(a, b), min(a, b)
	switch high {
	case 6:
		return low >= 0 && low <= 4
	case 7:
		return low == 5 || low == 6
	}
	return false
}

// WinnerPlayer works out the winner of a match from its scores
// Preconditions: Receives both scores and both player ids. Scores should already be validated but invalid input is
// tolerated
// Postconditions: Returns the id of the winner, or "" when there is no winner (missing ids, equal or pending scores,
// double walkover)
func WinnerPlayer(score1, score2 shared.Score, player1ID, player2ID string) string {
	if player1ID == "" || player2ID == "" {
		return ""
	}

	a, ok1 := score1.Value()
	b, ok2 := score2.Value()
	if ok1 && ok2 {
		switch {
		case a > b:
			return player1ID
		case b > a:
			return player2ID
		}
		return ""
	}

	// A double walkover has no winner
	if score1.IsWalkover() && !score2.IsWalkover() {
		return player2ID
	}
	if score2.IsWalkover() && !score1.IsWalkover() {
		return player1ID
	}
	return ""
}

// ApplyWalkover records a walkover by the given player
// Preconditions: Receives the match (with any scores already entered) and the id of the player who did not show up
// Postconditions: Returns a copy of the match with the forfeiting side set to W.O, the opponent set to 6 (or left as
// W.O for a double walkover) and the winner updated, or ErrPlayerNotInMatch
func ApplyWalkover(match shared.Match, forfeitingPlayerID string) (shared.Match, error) {
	if !match.HasPlayer(forfeitingPlayerID) {
		return shared.Match{}, fmt.Errorf("%w: %s", ErrPlayerNotInMatch, forfeitingPlayerID)
	}

	forfeiting, opponent := &match.Player1, &match.Player2
	if match.Player2.ID == forfeitingPlayerID {
		forfeiting, opponent = &match.Player2, &match.Player1
	}

	forfeiting.Score = shared.Walkover()
	if opponent.Score.IsWalkover() {
		match.WinnerID = ""
		return match, nil
	}

	opponent.Score = shared.Games(6)
	match.WinnerID = opponent.ID
	return match, nil
}

// CheckWalkoverEdit guards edits of a match into a double walkover
// Preconditions: Receives the stored match and the scores about to be written
// Postconditions: Returns ErrDoubleWalkover when W.O/W.O is requested but the stored match does not have exactly one
// side with a walkover already, nil otherwise
func CheckWalkoverEdit(current shared.Match, score1, score2 shared.Score) error {
	if !score1.IsWalkover() || !score2.IsWalkover() {
		return nil
	}
	if current.Player1.Score.IsWalkover() != current.Player2.Score.IsWalkover() {
		return nil
	}
	return ErrDoubleWalkover
}

// ResultKind is the match level state derived from both scores
type ResultKind int

const (
	ResultPending ResultKind = iota
	ResultPlayed
	ResultWalkover
	ResultInconsistent
)

// Result is the tagged outcome of a match
type Result struct {
	Kind        ResultKind
	Games1      int
	Games2      int
	ForfeitedBy []string
}

// Outcome classifies a match as pending, played, walkover, or inconsistent (one "-" and one numeric score)
func Outcome(match shared.Match) Result {
	s1, s2 := match.Player1.Score, match.Player2.Score

	if s1.IsWalkover() || s2.IsWalkover() {
		if s1.IsPending() || s2.IsPending() {
			return Result{Kind: ResultInconsistent}
		}
		res := Result{Kind: ResultWalkover}
		if s1.IsWalkover() {
			res.ForfeitedBy = append(res.ForfeitedBy, match.Player1.ID)
		}
		if s2.IsWalkover() {
			res.ForfeitedBy = append(res.ForfeitedBy, match.Player2.ID)
		}
		return res
	}

	a, ok1 := s1.Value()
	b, ok2 := s2.Value()
	switch {
	case ok1 && ok2:
		return Result{Kind: ResultPlayed, Games1: a, Games2: b}
	case !ok1 && !ok2:
		return Result{Kind: ResultPending}
	}
	return Result{Kind: ResultInconsistent}
}

// PendingMatches returns the matches where at least one score is still "-"
func PendingMatches(matches []shared.Match) []shared.Match {
	res := make([]shared.Match, 0, len(matches))
	for _, m := range matches {
		if m.Player1.Score.IsPending() || m.Player2.Score.IsPending() {
			res = append(res, m)
		}
	}
	return res
}

// CompletedMatches returns the matches where both scores have been entered
func CompletedMatches(matches []shared.Match) []shared.Match {
	res := make([]shared.Match, 0, len(matches))
	for _, m := range matches {
		if !m.Player1.Score.IsPending() && !m.Player2.Score.IsPending() {
			res = append(res, m)
		}
	}
	return res
}

// MatchesForPlayer returns the matches the player takes part in
func MatchesForPlayer(matches []shared.Match, playerID string) []shared.Match {
	res := make([]shared.Match, 0)
	for _, m := range matches {
		if m.HasPlayer(playerID) {
			res = append(res, m)
		}
	}
	return res
}
