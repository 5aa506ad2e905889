/* errors.go
 * Contains the errors returned by the API. Callers match them with errors.Is
 * Authors: Zachary Bower
 */

package api

import "errors"

var (
	ErrInvalidScore   = errors.New("invalid score")
	ErrNotParticipant = errors.New("only the players of a match can enter its score")
	ErrWalkoverEdit   = errors.New("walkover edit not allowed")
	ErrMatchNotFound  = errors.New("match not found")
	ErrPlayerNotFound = errors.New("player not found")
	ErrLeagueBlocked  = errors.New("score entry is blocked")
	ErrInvalidInput   = errors.New("invalid input")
)
