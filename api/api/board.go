/* board.go
 * Contains MatchBoard, the state of a match list view: the selected group, its matches, a loading flag and a message.
 * Front ends hold one board per view instead of sharing global state
 * Authors: Zachary Bower
 */

package api

import (
	"context"
	"log/slog"
	"sync"
	"tennis-league/api/logic"
	"tennis-league/api/shared"
)

const (
	MessageAllCompleted = "All matches completed!"
	MessageLoadError    = "Error loading matches."
)

// BoardState is a snapshot of a MatchBoard
type BoardState struct {
	GroupID   string         `json:"groupId"`
	Matches   []shared.Match `json:"matches"`
	Pending   []shared.Match `json:"pending"`
	Completed []shared.Match `json:"completed"`
	Loading   bool           `json:"loading"`
	Message   string         `json:"message,omitempty"`
}

// MatchBoard follows the matches of one group at a time. Selecting a group cancels the subscription of the previous
// one, updates from a cancelled subscription are dropped
type MatchBoard struct {
	api      *API
	onChange func(BoardState)

	mu      sync.Mutex
	groupID string
	matches []shared.Match
	loading bool
	message string
	cancel  func()
	// incremented on every Select so late updates of an old subscription can be recognised
	generation int
}

// NewMatchBoard creates a board. onChange may be nil, it is called with a snapshot after every state change and never
// while the board's lock is held
func (a *API) NewMatchBoard(onChange func(BoardState)) *MatchBoard {
	return &MatchBoard{api: a, onChange: onChange, matches: []shared.Match{}}
}

// Select switches the board to a group
// Preconditions: Receives the group id. ctx bounds the lifetime of the subscription
// Postconditions: The previous subscription is cancelled and the board follows the new group. On a read failure the
// board shows no matches and MessageLoadError, and the error is returned
func (b *MatchBoard) Select(ctx context.Context, groupID string) error {
	b.mu.Lock()
	previous := b.cancel
	b.cancel = nil
	b.generation++
	gen := b.generation
	b.groupID = groupID
	b.matches = []shared.Match{}
	b.loading = true
	b.message = ""
	state := b.snapshot()
	b.mu.Unlock()

	// cancelling waits for the old subscription's callbacks, so it runs without the lock
	if previous != nil {
		previous()
	}
	b.notify(state)

	cancel, err := b.api.WatchGroupMatches(ctx, groupID, func(matches []shared.Match, err error) {
		b.update(gen, matches, err)
	})
	if err != nil {
		b.update(gen, nil, err)
		return err
	}

	b.mu.Lock()
	if gen != b.generation {
		// another Select ran while subscribing
		b.mu.Unlock()
		cancel()
		return nil
	}
	b.cancel = cancel
	b.mu.Unlock()
	return nil
}

// State returns a snapshot of the board
func (b *MatchBoard) State() BoardState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshot()
}

func (b *MatchBoard) Matches() []shared.Match {
	return b.State().Matches
}

func (b *MatchBoard) Pending() []shared.Match {
	return b.State().Pending
}

func (b *MatchBoard) Completed() []shared.Match {
	return b.State().Completed
}

func (b *MatchBoard) Loading() bool {
	return b.State().Loading
}

func (b *MatchBoard) Message() string {
	return b.State().Message
}

// Close cancels the current subscription
func (b *MatchBoard) Close() {
	b.mu.Lock()
	b.generation++
	previous := b.cancel
	b.cancel = nil
	b.mu.Unlock()

	if previous != nil {
		previous()
	}
}

func (b *MatchBoard) update(gen int, matches []shared.Match, err error) {
	b.mu.Lock()
	if gen != b.generation {
		b.mu.Unlock()
		return
	}

	b.loading = false
	if err != nil {
		b.matches = []shared.Match{}
		b.message = MessageLoadError
	} else {
		if matches == nil {
			matches = []shared.Match{}
		}
		b.matches = matches
		b.message = ""
		if len(logic.PendingMatches(matches)) == 0 {
			b.message = MessageAllCompleted
		}
	}
	state := b.snapshot()
	b.mu.Unlock()

	if err != nil {
		b.api.logger().Error("failed to load matches", slog.String("group", state.GroupID), slog.Any("error", err))
	}
	b.notify(state)
}

// snapshot must be called with the lock held
func (b *MatchBoard) snapshot() BoardState {
	matches := make([]shared.Match, len(b.matches))
	copy(matches, b.matches)
	return BoardState{
		GroupID:   b.groupID,
		Matches:   matches,
		Pending:   logic.PendingMatches(matches),
		Completed: logic.CompletedMatches(matches),
		Loading:   b.loading,
		Message:   b.message,
	}
}

func (b *MatchBoard) notify(state BoardState) {
	if b.onChange != nil {
		b.onChange(state)
	}
}
