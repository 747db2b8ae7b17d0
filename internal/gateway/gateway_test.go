package gateway_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fckoffmw/replay-service/internal/gateway"
	"github.com/fckoffmw/replay-service/internal/session"
	pkghttp "github.com/fckoffmw/replay-service/pkg/http"
)

func newTestGateway(t *testing.T, serverURL string) (*gateway.Gateway, *session.Store) {
	t.Helper()

	storage := session.NewMemoryStorage()
	require.NoError(t, storage.Store("abc.def.ghi"))
	sessionStore := session.NewStore(storage, session.IdentityModeLogin)

	client := pkghttp.NewClient(pkghttp.WithClientDestination("replayService", serverURL))
	return gateway.New(client, sessionStore), sessionStore
}

func TestGateway_Do_StatusClassification(t *testing.T) {
	tests := []struct {
		name            string
		handler         http.HandlerFunc
		expectErr       func(t *testing.T, err error)
		expectNoSession bool
	}{
		{
			name: "success_parses_body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]string{"name": "quake"})
			},
			expectErr: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name: "unauthorized_clears_credential_and_returns_session_expired",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"invalid token"}`))
			},
			expectErr: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, gateway.ErrSessionExpired)
			},
			expectNoSession: true,
		},
		{
			name: "unauthorized_with_unparsable_body_still_expires_session",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte("<html>nope</html>"))
			},
			expectErr: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, gateway.ErrSessionExpired)
			},
			expectNoSession: true,
		},
		{
			name: "server_error_keeps_credential_and_returns_server_message",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error":"boom"}`))
			},
			expectErr: func(t *testing.T, err error) {
				var requestErr *gateway.RequestError
				require.ErrorAs(t, err, &requestErr)
				assert.Equal(t, http.StatusInternalServerError, requestErr.Status)
				assert.Equal(t, "boom", requestErr.Message)
			},
		},
		{
			name: "failure_without_message_synthesizes_one",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusConflict)
			},
			expectErr: func(t *testing.T, err error) {
				var requestErr *gateway.RequestError
				require.ErrorAs(t, err, &requestErr)
				assert.Equal(t, "server returned status 409", requestErr.Message)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			gw, sessionStore := newTestGateway(t, server.URL)

			var out map[string]string
			err := gw.Do(context.Background(), http.MethodGet, "/games/1", nil, &out)
			tt.expectErr(t, err)

			_, hasCredential := sessionStore.Credential()
			assert.Equal(t, !tt.expectNoSession, hasCredential)
		})
	}
}

func TestGateway_Do_AttachesBearerHeader(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	gw, _ := newTestGateway(t, server.URL)

	require.NoError(t, gw.Do(context.Background(), http.MethodGet, "/games", nil, nil))
	assert.Equal(t, "Bearer abc.def.ghi", gotAuth)
}

func TestGateway_Do_NoHeaderWithoutCredential(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	sessionStore := session.NewStore(session.NewMemoryStorage(), session.IdentityModeLogin)
	client := pkghttp.NewClient(pkghttp.WithClientDestination("replayService", server.URL))
	gw := gateway.New(client, sessionStore)

	require.NoError(t, gw.Do(context.Background(), http.MethodGet, "/games", nil, nil))
	assert.Empty(t, gotAuth)
}

func TestGateway_Do_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	gw, sessionStore := newTestGateway(t, server.URL)

	err := gw.Do(context.Background(), http.MethodGet, "/games", nil, nil)

	var networkErr *gateway.NetworkError
	require.ErrorAs(t, err, &networkErr)

	var requestErr *gateway.RequestError
	assert.False(t, errors.As(err, &requestErr), "network failure is not a request failure")

	_, hasCredential := sessionStore.Credential()
	assert.True(t, hasCredential, "network failure must not touch the credential")
}

func TestGateway_DoMultipart(t *testing.T) {
	router := mux.NewRouter()
	var gotAuth, gotFile, gotTitle string
	router.HandleFunc("/games/{gameID}/replays", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, r.ParseMultipartForm(1<<20))

		file, _, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		content := make([]byte, 16)
		n, _ := file.Read(content)
		gotFile = string(content[:n])
		gotTitle = r.FormValue("title")

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"r1"}`))
	}).Methods(http.MethodPost)

	server := httptest.NewServer(router)
	defer server.Close()

	gw, _ := newTestGateway(t, server.URL)

	form := gateway.MultipartForm{
		Files: []gateway.FormFile{{
			Param:  "file",
			Name:   "match.mp4",
			Reader: strings.NewReader("videobytes"),
		}},
		Fields: map[string]string{"title": "first blood"},
	}

	var out struct {
		ID string `json:"id"`
	}
	err := gw.DoMultipart(context.Background(), http.MethodPost, "/games/g1/replays", form, &out)
	require.NoError(t, err)

	assert.Equal(t, "Bearer abc.def.ghi", gotAuth)
	assert.Equal(t, "videobytes", gotFile)
	assert.Equal(t, "first blood", gotTitle)
	assert.Equal(t, "r1", out.ID)
}

func TestGateway_DoMultipart_UnauthorizedClearsCredential(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	gw, sessionStore := newTestGateway(t, server.URL)

	form := gateway.MultipartForm{Fields: map[string]string{"title": "x"}}
	err := gw.DoMultipart(context.Background(), http.MethodPut, "/replays/r1", form, nil)

	assert.ErrorIs(t, err, gateway.ErrSessionExpired)

	_, hasCredential := sessionStore.Credential()
	assert.False(t, hasCredential)
}
