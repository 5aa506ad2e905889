/* format.go
 * Contains the helpers that turn league data into discord messages
 * Authors: Zachary Bower
 */

package bot

import (
	"fmt"
	"strings"
	"tennis-league/api/api"
	"tennis-league/api/logic"
	"tennis-league/api/shared"
)

// discord rejects messages over 2000 characters, long lists are cut after maxListLines rows
const maxListLines = 25

// formatMatch renders a match as "Ana 6 x 3 Bia", or "Ana vs Caio" while no score has been entered
func formatMatch(m shared.Match) string {
	if m.Player1.Score.IsPending() && m.Player2.Score.IsPending() {
		return fmt.Sprintf("%s vs %s", m.Player1.Name, m.Player2.Name)
	}
	return fmt.Sprintf("%s %s x %s %s", m.Player1.Name, m.Player1.Score, m.Player2.Score, m.Player2.Name)
}

// formatChange renders a position change as +n, -n or =
func formatChange(change int) string {
	switch {
	case change > 0:
		return fmt.Sprintf("+%d", change)
	case change < 0:
		return fmt.Sprintf("%d", change)
	}
	return "="
}

// formatEntries writes one line per entry: position, name, points and the change since the previous round
func formatEntries(res *strings.Builder, entries []shared.LeaderboardEntry) {
	for i, e := range entries {
		if i == maxListLines {
			res.WriteString(fmt.Sprintf("...and %d more\n", len(entries)-maxListLines))
			break
		}
		points, _ := e.Metric()
		res.WriteString(fmt.Sprintf("%d. %s - %d pts (%s)\n", e.Position, e.Name, points, formatChange(e.PositionChange)))
	}
}

func formatRound(info api.RoundInfo) string {
	if info.RoundID == "" {
		return "No round is being played right now"
	}

	var res strings.Builder
	res.WriteString(fmt.Sprintf("Current round: %s\n", info.RoundID))
	if info.Round != nil {
		res.WriteString(fmt.Sprintf("Ends on %s\n", info.Round.EndDate.Format(logic.DateLayout)))
	}
	if info.Warning != "" {
		res.WriteString(info.Warning + "\n")
	}
	if info.Status.IsBlocked {
		res.WriteString("Score entry is currently blocked")
		if info.Status.Message != "" {
			res.WriteString(": " + info.Status.Message)
		}
		res.WriteString("\n")
	}
	return res.String()
}
