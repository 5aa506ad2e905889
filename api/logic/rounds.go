/* rounds.go
 * Contains helpers for round identifiers ("2025_Rodada2"), the round deadline warning and the current round
 * Authors: Zachary Bower
 */

package logic

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	roundSeparator = "_Rodada"
	RoundsPerYear  = 3
	warningDays    = 10
	RoundEndsToday = "The round ends today"
)

// ParseRoundID splits a round id of the form YYYY_RodadaN into its year and round number
func ParseRoundID(roundID string) (int, int, error) {
	yearStr, numStr, found := strings.Cut(roundID, roundSeparator)
	if !found {
		return 0, 0, fmt.Errorf("invalid round id '%s'", roundID)
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year in round id '%s'", roundID)
	}
	num, err := strconv.Atoi(numStr)
	if err != nil || num < 1 {
		return 0, 0, fmt.Errorf("invalid round number in round id '%s'", roundID)
	}
	return year, num, nil
}

// RoundID builds a round id from a year and round number
func RoundID(year, num int) string {
	return fmt.Sprintf("%d%s%d", year, roundSeparator, num)
}

// PreviousRoundID returns the id of the round before roundID. The first round of a year follows the last round of the
// previous year
func PreviousRoundID(roundID string) (string, error) {
	year, num, err := ParseRoundID(roundID)
	if err != nil {
		return "", err
	}
	if num == 1 {
		return RoundID(year-1, RoundsPerYear), nil
	}
	return RoundID(year, num-1), nil
}

// RoundOrder maps a round id to a sortable number, later rounds are greater. Invalid ids give 0
func RoundOrder(roundID string) int {
	year, num, err := ParseRoundID(roundID)
	if err != nil {
		return 0
	}
	return year*1000 + num
}

// LatestRoundID returns the latest valid round id of the list, or "" when there is none
func LatestRoundID(roundIDs []string) string {
	latest := ""
	for _, id := range roundIDs {
		if RoundOrder(id) > RoundOrder(latest) {
			latest = id
		}
	}
	return latest
}

// DaysLeft returns the number of days until end, rounded up
func DaysLeft(end, now time.Time) int {
	return int(math.Ceil(end.Sub(now).Hours() / 24))
}

// RoundWarning returns the deadline message shown while a round is active
// Preconditions: Receives the round end date and the current time
// Postconditions: Returns "N day(s) left in the round" within the last 10 days, RoundEndsToday once the end date is
// reached, or "" otherwise
func RoundWarning(end, now time.Time) string {
	days := DaysLeft(end, now)
	switch {
	case days <= 0:
		return RoundEndsToday
	case days == 1:
		return "1 day left in the round"
	case days <= warningDays:
		return fmt.Sprintf("%d days left in the round", days)
	}
	return ""
}

// CurrentRoundID returns the most common round id among the groups' latest rounds. Ties go to the greater id
func CurrentRoundID(groupRounds map[string]string) string {
	counts := make(map[string]int)
	for _, roundID := range groupRounds {
		if roundID != "" {
			counts[roundID]++
		}
	}

	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if counts[ids[i]] != counts[ids[j]] {
			return counts[ids[i]] > counts[ids[j]]
		}
		return ids[i] > ids[j]
	})

	if len(ids) == 0 {
		return ""
	}
	return ids[0]
}
