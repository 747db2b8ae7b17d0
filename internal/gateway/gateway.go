package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/fckoffmw/replay-service/internal/session"
	pkghttp "github.com/fckoffmw/replay-service/pkg/http"
	"github.com/fckoffmw/replay-service/pkg/log"
)

type (
	// Gateway issues authenticated calls to the replay-service API and
	// classifies their outcomes. It holds no per-call state: the credential
	// is read fresh from the session store at call time, so a credential
	// cleared mid-flight cannot be resurrected by an older in-flight call.
	Gateway struct {
		client  pkghttp.Client
		session *session.Store
		logger  log.Logger
	}

	Option func(*Gateway)

	FormFile struct {
		Param  string
		Name   string
		Reader io.Reader
	}

	MultipartForm struct {
		Files  []FormFile
		Fields map[string]string
	}
)

func WithLogger(logger log.Logger) Option {
	return func(g *Gateway) { g.logger = logger }
}

func New(client pkghttp.Client, sess *session.Store, opts ...Option) *Gateway {
	gw := &Gateway{
		client:  client,
		session: sess,
		logger:  log.NewStub(),
	}

	for _, opt := range opts {
		opt(gw)
	}
	return gw
}

// Do performs a JSON API call. A nil body sends no payload, a nil out
// discards the response body.
func (g *Gateway) Do(ctx context.Context, method, path string, body, out any) error {
	req := g.newRequest(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json")
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return &NetworkError{Err: err}
	}

	return g.classify(ctx, resp, out)
}

// DoMultipart performs a file-carrying call. It bypasses JSON body
// construction but goes through the same credential-attachment and
// status-classification path as Do.
func (g *Gateway) DoMultipart(ctx context.Context, method, path string, form MultipartForm, out any) error {
	req := g.newRequest(ctx)
	for _, file := range form.Files {
		req.SetFileReader(file.Param, file.Name, file.Reader)
	}
	if len(form.Fields) > 0 {
		req.SetMultipartFormData(form.Fields)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return &NetworkError{Err: err}
	}

	return g.classify(ctx, resp, out)
}

func (g *Gateway) newRequest(ctx context.Context) *resty.Request {
	req := g.client.NewRequest(ctx)
	// the header is attached only when a credential is present, route
	// protection stays the caller's responsibility
	if token, ok := g.session.Credential(); ok {
		req.SetAuthToken(token)
	}
	return req
}

func (g *Gateway) classify(ctx context.Context, resp *resty.Response, out any) error {
	code := resp.StatusCode()
	switch {
	case code == http.StatusUnauthorized:
		// even an unparsable body must tear the session down
		if err := g.session.ClearCredential(); err != nil {
			g.logger.WithError(err).Warn(ctx, "failed to clear credential on authorization failure")
		}
		return ErrSessionExpired
	case code >= http.StatusOK && code < http.StatusMultipleChoices:
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return fmt.Errorf("decode response body: %w", err)
		}
		return nil
	default:
		return &RequestError{Status: code, Message: errorMessage(resp.Body(), code)}
	}
}

func errorMessage(body []byte, code int) string {
	var parsed struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != "" {
		return parsed.Error
	}

	return fmt.Sprintf("server returned status %d", code)
}
