/* utils.go
 * Utility functions used by the admin commands
 * Authors: Zachary Bower
 */

package main

import (
	"fmt"
	"io"
	"tennis-league/api/logic"
	"tennis-league/api/shared"
	"text/tabwriter"
	"time"
)

const shutdownTimeout = 10 * time.Second

// validateRoundArg checks a round id given on the command line
// Preconditions: Receives the raw argument
// Postconditions: Returns nil for ids such as 2025_Rodada1, otherwise an error with an example
func validateRoundArg(roundID string) error {
	if _, _, err := logic.ParseRoundID(roundID); err != nil {
		return fmt.Errorf("%v, round ids look like 2025_Rodada1", err)
	}
	return nil
}

// printMatches writes the fixtures created for a group, one match per line
func printMatches(w io.Writer, groupID string, matches []shared.Match) {
	fmt.Fprintf(w, "Created %d matches for group %s\n", len(matches), groupID)
	for _, m := range matches {
		fmt.Fprintf(w, "  %s vs %s\n", m.Player1.Name, m.Player2.Name)
	}
}

// printStandings writes a group leaderboard as an aligned table
func printStandings(w io.Writer, groupID string, entries []shared.LeaderboardEntry) {
	fmt.Fprintf(w, "Group %s\n", groupID)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tPlayer\tPts\tP\tW\tGames\tBalance")
	for _, e := range entries {
		points, _ := e.Metric()
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d-%d\t%+d\n",
			e.Position, e.Name, points, e.GamesDone, e.Victories, e.PointsInFavor, e.PointsAgainst, e.ScoreBalance)
	}
	tw.Flush()
}

// printRanking writes the accumulated ranking after a round
func printRanking(w io.Writer, roundID string, entries []shared.LeaderboardEntry) {
	fmt.Fprintf(w, "Ranking after %s\n", roundID)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tPlayer\tGroup\tPts")
	for _, e := range entries {
		points, _ := e.Metric()
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", e.Position, e.Name, e.GroupID, points)
	}
	tw.Flush()
}
