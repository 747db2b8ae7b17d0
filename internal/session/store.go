package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fckoffmw/replay-service/pkg/log"
)

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

type StoreOption func(*Store)

func WithClock(clock Clock) StoreOption {
	return func(s *Store) { s.clock = clock }
}

func WithLogger(logger log.Logger) StoreOption {
	return func(s *Store) { s.logger = logger }
}

// Store owns the credential lifecycle. Validity and expiry are derived
// locally from the token's embedded claims, so access can be gated without a
// network round-trip; a revoked-but-unexpired token stays locally valid until
// the server rejects a request.
type Store struct {
	mu      sync.Mutex
	storage Storage
	mode    IdentityMode
	clock   Clock
	logger  log.Logger
}

func NewStore(storage Storage, mode IdentityMode, opts ...StoreOption) *Store {
	store := &Store{
		storage: storage,
		mode:    mode,
		clock:   systemClock{},
		logger:  log.NewStub(),
	}

	for _, opt := range opts {
		opt(store)
	}
	return store
}

// SetCredential persists the token, overwriting any previous value. Tokens
// are not validated here: the server is trusted to issue well-formed ones,
// bad tokens are caught lazily at read time.
func (s *Store) SetCredential(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.storage.Store(token)
	if err != nil {
		return fmt.Errorf("persist credential: %w", err)
	}
	return nil
}

func (s *Store) Credential() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.credential()
}

// ClearCredential is idempotent and safe to call with no credential present.
func (s *Store) ClearCredential() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.storage.Delete()
	if err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}

// IsAuthenticated reports whether a syntactically valid, unexpired credential
// is present. Malformed and expired credentials are cleared on sight, so any
// call may heal bad storage state. Local decode only, no request is sent.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := s.credential()
	if !ok {
		return false
	}

	data, err := decodeToken(token, s.mode)
	if err != nil {
		s.clearInvalid(err)
		return false
	}

	if data.ExpiresAt.IsZero() {
		s.clearInvalid(fmt.Errorf("%w: missing expiry claim", ErrMalformedCredential))
		return false
	}

	if !s.clock.Now().Before(data.ExpiresAt) {
		s.clearInvalid(ErrExpiredCredential)
		return false
	}

	return true
}

// Identity extracts the identity embedded in the credential's payload. It
// follows the same structural checks as IsAuthenticated minus the expiry
// branch, and clears the credential on any structural failure.
func (s *Store) Identity() (Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := s.credential()
	if !ok {
		return Identity{}, false
	}

	data, err := decodeToken(token, s.mode)
	if err != nil {
		s.clearInvalid(err)
		return Identity{}, false
	}

	return data.Identity, true
}

func (s *Store) credential() (string, bool) {
	token, ok, err := s.storage.Load()
	if err != nil {
		s.logger.WithError(err).Warn(context.Background(), "failed to load credential")
		return "", false
	}
	return token, ok
}

func (s *Store) clearInvalid(reason error) {
	err := s.storage.Delete()
	if err != nil {
		s.logger.WithError(err).Warn(context.Background(), "failed to clear invalid credential")
		return
	}

	msg := "malformed credential cleared"
	if errors.Is(reason, ErrExpiredCredential) {
		msg = "expired credential cleared"
	}
	s.logger.WithError(reason).Debug(context.Background(), msg)
}
