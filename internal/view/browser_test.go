package view_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fckoffmw/replay-service/internal/replayapi"
	"github.com/fckoffmw/replay-service/internal/view"
)

func mintToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()

	encode := base64.RawURLEncoding.EncodeToString
	header, err := json.Marshal(map[string]string{"alg": "HS256", "typ": "JWT"})
	require.NoError(t, err)
	payload, err := json.Marshal(map[string]any{
		"user_id": "u1",
		"login":   "player1",
		"exp":     expiresAt.Unix(),
	})
	require.NoError(t, err)

	return encode(header) + "." + encode(payload) + "." + encode([]byte("sig"))
}

// gatedLister blocks each List call until the test releases it, so responses
// can be forced to complete out of order.
type gatedLister struct {
	gates   map[string]chan struct{}
	results map[string][]replayapi.Replay
	err     error
}

func (l *gatedLister) List(_ context.Context, gameID string, _ int) ([]replayapi.Replay, error) {
	if gate, ok := l.gates[gameID]; ok {
		<-gate
	}
	if l.err != nil {
		return nil, l.err
	}
	return l.results[gameID], nil
}

func TestBrowser_Select(t *testing.T) {
	lister := &gatedLister{
		results: map[string][]replayapi.Replay{
			"g1": {{ID: "r1", GameID: "g1", Title: "first"}},
		},
	}
	browser := view.NewBrowser(lister, 100)

	update := <-browser.Select(context.Background(), "g1")

	require.NoError(t, update.Err)
	assert.False(t, update.Stale)
	assert.Equal(t, "g1", update.GameID)
	require.Len(t, update.Replays, 1)

	gameID, current := browser.Current()
	assert.Equal(t, "g1", gameID)
	assert.Equal(t, update.Replays, current)
}

func TestBrowser_Select_ErrorKeepsPreviousListing(t *testing.T) {
	lister := &gatedLister{
		results: map[string][]replayapi.Replay{
			"g1": {{ID: "r1", GameID: "g1"}},
		},
	}
	browser := view.NewBrowser(lister, 100)

	<-browser.Select(context.Background(), "g1")

	lister.err = errors.New("listing failed")
	update := <-browser.Select(context.Background(), "g2")

	require.Error(t, update.Err)
	assert.False(t, update.Stale)

	gameID, current := browser.Current()
	assert.Equal(t, "g1", gameID, "failed selection must not replace the listing")
	require.Len(t, current, 1)
}

func TestBrowser_Select_LateResponseIsStale(t *testing.T) {
	slowGate := make(chan struct{})
	lister := &gatedLister{
		gates: map[string]chan struct{}{"g1": slowGate},
		results: map[string][]replayapi.Replay{
			"g1": {{ID: "r1", GameID: "g1"}},
			"g2": {{ID: "r2", GameID: "g2"}},
		},
	}
	browser := view.NewBrowser(lister, 100)

	first := browser.Select(context.Background(), "g1")
	second := browser.Select(context.Background(), "g2")

	update := <-second
	require.NoError(t, update.Err)
	assert.Equal(t, "g2", update.GameID)

	close(slowGate)
	late := <-first

	assert.True(t, late.Stale, "superseded response must be marked stale")
	assert.Nil(t, late.Replays, "stale updates carry no data")

	gameID, current := browser.Current()
	assert.Equal(t, "g2", gameID, "late response must not overwrite the newer listing")
	require.Len(t, current, 1)
	assert.Equal(t, "r2", current[0].ID)
}
