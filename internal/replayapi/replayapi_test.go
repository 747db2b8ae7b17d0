package replayapi_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fckoffmw/replay-service/internal/gateway"
	"github.com/fckoffmw/replay-service/internal/replayapi"
	"github.com/fckoffmw/replay-service/internal/session"
	pkghttp "github.com/fckoffmw/replay-service/pkg/http"
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

type testEnv struct {
	session *session.Store
	auth    *replayapi.AuthService
	games   *replayapi.GameService
	replays *replayapi.ReplayService
}

func newTestEnv(t *testing.T, serverURL string) testEnv {
	t.Helper()

	sessionStore := session.NewStore(session.NewMemoryStorage(), session.IdentityModeLogin)
	client := pkghttp.NewClient(pkghttp.WithClientDestination("replayService", serverURL))
	gw := gateway.New(client, sessionStore)

	return testEnv{
		session: sessionStore,
		auth:    replayapi.NewAuthService(gw, session.IdentityModeLogin),
		games:   replayapi.NewGameService(gw),
		replays: replayapi.NewReplayService(gw),
	}
}

func TestGameService_CRUD(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/games", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"g1","name":"quake","replay_count":2}]`))
	}).Methods(http.MethodGet)
	router.HandleFunc("/games", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "g2", "name": body["name"], "replay_count": 0})
	}).Methods(http.MethodPost)
	router.HandleFunc("/games/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "g2", mux.Vars(r)["id"])
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodPut)
	router.HandleFunc("/games/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "g2", mux.Vars(r)["id"])
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodDelete)

	server := httptest.NewServer(router)
	defer server.Close()

	env := newTestEnv(t, server.URL)
	ctx := context.Background()

	games, err := env.games.List(ctx)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, replayapi.Game{ID: "g1", Name: "quake", ReplayCount: 2}, games[0])

	created, err := env.games.Create(ctx, "doom")
	require.NoError(t, err)
	assert.Equal(t, "doom", created.Name)

	require.NoError(t, env.games.Rename(ctx, "g2", "doom2"))
	require.NoError(t, env.games.Delete(ctx, "g2"))
}

func TestReplayService_ListPassesLimit(t *testing.T) {
	var gotLimit string
	router := mux.NewRouter()
	router.HandleFunc("/games/{id}/replays", func(w http.ResponseWriter, r *http.Request) {
		gotLimit = r.URL.Query().Get("limit")
		_, _ = w.Write([]byte(`[]`))
	}).Methods(http.MethodGet)

	server := httptest.NewServer(router)
	defer server.Close()

	env := newTestEnv(t, server.URL)

	_, err := env.replays.List(context.Background(), "g1", 25)
	require.NoError(t, err)
	assert.Equal(t, "25", gotLimit)

	_, err = env.replays.List(context.Background(), "g1", 0)
	require.NoError(t, err)
	assert.Equal(t, "100", gotLimit, "zero limit falls back to the default")
}

func TestReplayService_UpdateSendsOnlySetFields(t *testing.T) {
	var gotForm map[string][]string
	router := mux.NewRouter()
	router.HandleFunc("/replays/{id}", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotForm = r.MultipartForm.Value
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodPut)

	server := httptest.NewServer(router)
	defer server.Close()

	env := newTestEnv(t, server.URL)

	title := "renamed"
	err := env.replays.Update(context.Background(), "r1", replayapi.UpdateInput{Title: &title})
	require.NoError(t, err)

	assert.Equal(t, []string{"renamed"}, gotForm["title"])
	_, hasComment := gotForm["comment"]
	assert.False(t, hasComment, "unset fields are not sent")
}

func TestReplayService_Upload(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/games/{id}/replays", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		assert.Equal(t, "match.mp4", header.Filename)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"r9","game_id":"g1","original_name":"match.mp4","size_bytes":10}`))
	}).Methods(http.MethodPost)

	server := httptest.NewServer(router)
	defer server.Close()

	env := newTestEnv(t, server.URL)

	replay, err := env.replays.Upload(context.Background(), "g1", replayapi.UploadInput{
		FileName: "match.mp4",
		File:     strings.NewReader("videobytes"),
		Title:    "final",
	})
	require.NoError(t, err)
	assert.Equal(t, "r9", replay.ID)
	assert.Equal(t, "match.mp4", replay.OriginalName)
}

// Full session lifecycle: login, authenticated listing, then the server
// starts rejecting the token and the local session must follow.
func TestSessionLifecycle(t *testing.T) {
	token := mintToken(t, time.Now().Add(time.Hour))
	var rejectAll atomic.Bool

	router := mux.NewRouter()
	router.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "player1", body["login"])
		assert.Equal(t, "hunter22", body["password"])
		_ = json.NewEncoder(w).Encode(map[string]string{"token": token})
	}).Methods(http.MethodPost)
	router.HandleFunc("/games", func(w http.ResponseWriter, r *http.Request) {
		if rejectAll.Load() || r.Header.Get("Authorization") != "Bearer "+token {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"invalid token"}`))
			return
		}
		_, _ = w.Write([]byte(`[{"id":"g1","name":"quake","replay_count":0}]`))
	}).Methods(http.MethodGet)

	server := httptest.NewServer(router)
	defer server.Close()

	env := newTestEnv(t, server.URL)
	ctx := context.Background()

	assert.False(t, env.session.IsAuthenticated())

	got, err := env.auth.Login(ctx, "player1", "hunter22")
	require.NoError(t, err)
	require.NoError(t, env.session.SetCredential(got))

	assert.True(t, env.session.IsAuthenticated())

	games, err := env.games.List(ctx)
	require.NoError(t, err)
	assert.Len(t, games, 1)

	rejectAll.Store(true)

	_, err = env.games.List(ctx)
	assert.ErrorIs(t, err, gateway.ErrSessionExpired)
	assert.False(t, env.session.IsAuthenticated())
}

func TestAuthService_EmailModeBodies(t *testing.T) {
	var loginBody, registerBody map[string]string
	router := mux.NewRouter()
	router.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&loginBody))
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "t.t.t"})
	}).Methods(http.MethodPost)
	router.HandleFunc("/auth/register", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&registerBody))
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "t.t.t"})
	}).Methods(http.MethodPost)

	server := httptest.NewServer(router)
	defer server.Close()

	sessionStore := session.NewStore(session.NewMemoryStorage(), session.IdentityModeEmail)
	client := pkghttp.NewClient(pkghttp.WithClientDestination("replayService", server.URL))
	auth := replayapi.NewAuthService(gateway.New(client, sessionStore), session.IdentityModeEmail)

	_, err := auth.Login(context.Background(), "p1@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "p1@example.com", loginBody["email"])
	_, hasLogin := loginBody["login"]
	assert.False(t, hasLogin)

	_, err = auth.Register(context.Background(), "p1@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "p1@example.com", registerBody["email"])
	assert.Equal(t, "p1@example.com", registerBody["username"])
}
