/* input_processing.go
 * Contains the logic for processing user input: matching typed player names against the players of the league
 * Authors: Zachary Bower
 */

package logic

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// CheckPlayerNames processes player names from user input and checks if they are valid.
// Preconditions: receives two string slices; one containing the names typed by the user and another that is a list of
// valid player names
// Postconditions: returns two string slices, a slice of correctly formatted player names and slice of strings
// containing the names that matched nobody
func CheckPlayerNames(inputNames []string, validNames []string) ([]string, []string) {
	var formattedNames []string
	var invalidNames []string

	for _, name := range inputNames {
		match, ok := MatchPlayerName(name, validNames)
		if !ok {
			invalidNames = append(invalidNames, name)
			continue
		}
		formattedNames = append(formattedNames, match)
	}
	return formattedNames, invalidNames
}

// MatchPlayerName finds the valid name closest to the typed name
// Preconditions: receives the typed name and the list of valid names
// Postconditions: returns the valid name (original casing) and true, or "" and false when nothing matches. An exact
// (case insensitive) match always wins over closer fuzzy matches
func MatchPlayerName(input string, validNames []string) (string, bool) {
	input = strings.TrimSpace(strings.Trim(input, "\"“”"))
	if input == "" {
		return "", false
	}

	// Convert names to lowercase for better matching
	lookup := make(map[string]string)
	lowerNames := make([]string, 0, len(validNames))
	for _, name := range validNames {
		lower := strings.ToLower(name)
		lookup[lower] = name
		lowerNames = append(lowerNames, lower)
	}

	lowerInput := strings.ToLower(input)
	if original, ok := lookup[lowerInput]; ok {
		return original, true
	}

	results := fuzzy.RankFind(lowerInput, lowerNames)
	if len(results) == 0 {
		return "", false
	}
	sort.Sort(results)
	return lookup[results[0].Target], true
}
