package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// IdentityMode selects which claims the deployed server embeds in its tokens.
// The current server issues {user_id, login}; the legacy one issued
// {user_id, email, username}.
type IdentityMode string

const (
	IdentityModeLogin IdentityMode = "login"
	IdentityModeEmail IdentityMode = "email"
)

var (
	ErrMalformedCredential = errors.New("credential is malformed")
	ErrExpiredCredential   = errors.New("credential is expired")
)

type Identity struct {
	ID    string
	Login string
	Email string
}

// tokenData holds the decoded claims. ExpiresAt is zero when the token has no
// expiry claim; only the authentication check cares, identity extraction does
// not consult it.
type tokenData struct {
	Identity  Identity
	ExpiresAt time.Time
}

// decodeToken reads the token's embedded claims without verifying the
// signature: the client has no signing key, verification is the server's job.
func decodeToken(token string, mode IdentityMode) (tokenData, error) {
	if len(strings.Split(token, ".")) != 3 {
		return tokenData{}, fmt.Errorf("%w: expected three segments", ErrMalformedCredential)
	}

	claims := jwt.MapClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, claims)
	if err != nil {
		return tokenData{}, fmt.Errorf("%w: %w", ErrMalformedCredential, err)
	}

	expiresAt, err := claims.GetExpirationTime()
	if err != nil {
		return tokenData{}, fmt.Errorf("%w: invalid expiry claim", ErrMalformedCredential)
	}

	identity, err := identityFromClaims(claims, mode)
	if err != nil {
		return tokenData{}, err
	}

	data := tokenData{Identity: identity}
	if expiresAt != nil {
		data.ExpiresAt = expiresAt.Time
	}
	return data, nil
}

func identityFromClaims(claims jwt.MapClaims, mode IdentityMode) (Identity, error) {
	id, ok := stringClaim(claims, "user_id")
	if !ok {
		return Identity{}, fmt.Errorf("%w: missing user_id claim", ErrMalformedCredential)
	}

	identity := Identity{ID: id}
	switch mode {
	case IdentityModeEmail:
		identity.Email, _ = stringClaim(claims, "email")
		identity.Login, _ = stringClaim(claims, "username")
	default:
		identity.Login, _ = stringClaim(claims, "login")
	}

	return identity, nil
}

func stringClaim(claims jwt.MapClaims, name string) (string, bool) {
	value, ok := claims[name]
	if !ok {
		return "", false
	}

	str, ok := value.(string)
	if !ok || str == "" {
		return "", false
	}
	return str, true
}
