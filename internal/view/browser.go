package view

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/fckoffmw/replay-service/internal/replayapi"
)

type ReplayLister interface {
	List(ctx context.Context, gameID string, limit int) ([]replayapi.Replay, error)
}

// Update is the outcome of one listing request. Stale marks a response that
// arrived after a newer selection superseded it; stale updates carry no data
// and must be discarded by the renderer.
type Update struct {
	GameID  string
	Replays []replayapi.Replay
	Err     error
	Stale   bool
}

// Browser is the replay-list controller. Requests cannot be cancelled once
// issued; instead every selection gets a generation token and a completion
// whose generation no longer matches the latest issued request is dropped,
// so rapid re-selection never renders a stale listing.
type Browser struct {
	replays ReplayLister
	limit   int

	mu         sync.Mutex
	generation uuid.UUID
	gameID     string
	current    []replayapi.Replay
}

func NewBrowser(replays ReplayLister, limit int) *Browser {
	return &Browser{replays: replays, limit: limit}
}

// Select issues a listing request for the game and returns a channel
// delivering its single outcome.
func (b *Browser) Select(ctx context.Context, gameID string) <-chan Update {
	b.mu.Lock()
	generation := uuid.New()
	b.generation = generation
	b.mu.Unlock()

	result := make(chan Update, 1)
	go func() {
		replays, err := b.replays.List(ctx, gameID, b.limit)
		result <- b.apply(generation, gameID, replays, err)
	}()

	return result
}

// Current returns the last successfully applied listing.
func (b *Browser) Current() (string, []replayapi.Replay) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.gameID, b.current
}

func (b *Browser) apply(generation uuid.UUID, gameID string, replays []replayapi.Replay, err error) Update {
	b.mu.Lock()
	defer b.mu.Unlock()

	if generation != b.generation {
		return Update{GameID: gameID, Stale: true}
	}

	if err != nil {
		return Update{GameID: gameID, Err: err}
	}

	b.gameID = gameID
	b.current = replays
	return Update{GameID: gameID, Replays: replays}
}
