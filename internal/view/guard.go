package view

import (
	"errors"

	"github.com/fckoffmw/replay-service/internal/gateway"
	"github.com/fckoffmw/replay-service/internal/session"
)

type Route string

const (
	RouteLogin Route = "login"
	RouteGames Route = "games"
)

// Decision is a navigation outcome returned to the caller instead of being
// performed as a side effect, so every entry check stays testable.
type Decision struct {
	Allowed  bool
	Redirect Route
}

// Guard gates protected and anonymous entry points on the session state.
type Guard struct {
	session *session.Store
}

func NewGuard(sess *session.Store) Guard {
	return Guard{session: sess}
}

// Check guards a protected view: unauthenticated access redirects to the
// login entry point.
func (g Guard) Check() Decision {
	if g.session.IsAuthenticated() {
		return Decision{Allowed: true}
	}
	return Decision{Allowed: false, Redirect: RouteLogin}
}

// CheckAnonymous guards the login and registration entry points: an already
// authenticated user is sent to the main listing view.
func (g Guard) CheckAnonymous() Decision {
	if g.session.IsAuthenticated() {
		return Decision{Allowed: false, Redirect: RouteGames}
	}
	return Decision{Allowed: true}
}

// OnCallError converts a failed gateway call into a navigation decision.
// Only a rejected session forces a redirect; business and network failures
// stay on the current view.
func OnCallError(err error) (Decision, bool) {
	if errors.Is(err, gateway.ErrSessionExpired) {
		return Decision{Allowed: false, Redirect: RouteLogin}, true
	}
	return Decision{}, false
}
