/* score.go
 * Contains the Score type stored in each player slot of a match. A score is either pending ("-"), a number of
 * games won in the set, or a walkover ("W.O"). The store and the web client exchange the sentinel values as-is,
 * so Score implements its own BSON and JSON codecs
 * Authors: Zachary Bower
 */

package shared

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

const (
	WalkoverSentinel = "W.O"
	PendingSentinel  = "-"
)

type ScoreKind int

const (
	ScorePending ScoreKind = iota
	ScoreGames
	ScoreWalkover
)

// Score is the value held by one side of a match. The zero value is a pending score
type Score struct {
	kind  ScoreKind
	games int
}

// Games returns a played score of n games
func Games(n int) Score {
	return Score{kind: ScoreGames, games: n}
}

// Walkover returns the "W.O" score recorded for a player who forfeited
func Walkover() Score {
	return Score{kind: ScoreWalkover}
}

// Pending returns the "-" score of a match that has not been played yet
func Pending() Score {
	return Score{}
}

func (s Score) Kind() ScoreKind {
	return s.kind
}

func (s Score) IsPending() bool {
	return s.kind == ScorePending
}

func (s Score) IsWalkover() bool {
	return s.kind == ScoreWalkover
}

func (s Score) IsGames() bool {
	return s.kind == ScoreGames
}

// Value returns the number of games and whether the score is numeric
func (s Score) Value() (int, bool) {
	if s.kind != ScoreGames {
		return 0, false
	}
	return s.games, true
}

func (s Score) String() string {
	switch s.kind {
	case ScoreGames:
		return strconv.Itoa(s.games)
	case ScoreWalkover:
		return WalkoverSentinel
	default:
		return PendingSentinel
	}
}

// ParseScore converts user input into a Score
// Preconditions: Receives a string such as "6", "W.O", "wo" or "-"
// Postconditions: Returns the matching Score, or an error if the string is not a score
func ParseScore(str string) (Score, error) {
	str = strings.TrimSpace(str)
	switch strings.ToUpper(str) {
	case WalkoverSentinel, "WO", "W/O":
		return Walkover(), nil
	case PendingSentinel, "":
		return Pending(), nil
	}

	n, err := strconv.Atoi(str)
	if err != nil || n < 0 {
		return Score{}, fmt.Errorf("invalid score '%s'", str)
	}
	return Games(n), nil
}

// MarshalBSONValue stores numeric scores as int32 and the sentinels as strings
func (s Score) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if s.kind == ScoreGames {
		return bsontype.Int32, bsoncore.AppendInt32(nil, int32(s.games)), nil
	}
	return bsontype.String, bsoncore.AppendString(nil, s.String()), nil
}

// UnmarshalBSONValue accepts any numeric BSON type holding a whole number of games, the sentinels, and null for
// pending
func (s *Score) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	val := bsoncore.Value{Type: t, Data: data}
	switch t {
	case bsontype.Int32:
		return s.setGames(float64(val.Int32()))
	case bsontype.Int64:
		return s.setGames(float64(val.Int64()))
	case bsontype.Double:
		return s.setGames(val.Double())
	case bsontype.String:
		parsed, err := ParseScore(val.StringValue())
		if err != nil {
			return err
		}
		*s = parsed
	case bsontype.Null, bsontype.Undefined:
		*s = Pending()
	default:
		return fmt.Errorf("cannot decode score from bson type %s", t)
	}
	return nil
}

// setGames stores a decoded number of games. Fractional and negative values are rejected instead of truncated
func (s *Score) setGames(n float64) error {
	if n < 0 || n != math.Trunc(n) {
		return fmt.Errorf("invalid score '%v'", n)
	}
	*s = Games(int(n))
	return nil
}

func (s Score) MarshalJSON() ([]byte, error) {
	if s.kind == ScoreGames {
		return []byte(strconv.Itoa(s.games)), nil
	}
	return json.Marshal(s.String())
}

func (s *Score) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = Pending()
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		parsed, err := ParseScore(str)
		if err != nil {
			return err
		}
		*s = parsed
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid score: %w", err)
	}
	if n < 0 {
		return fmt.Errorf("invalid score '%d'", n)
	}
	*s = Games(n)
	return nil
}
