package ports

import (
	"context"
	"errors"
)

// ErrInvalidSession is returned for unknown or expired session tokens.
var ErrInvalidSession = errors.New("invalid or expired session")

// SessionStore resolves session tokens written by the external auth service.
type SessionStore interface {
	// Lookup returns the username bound to a live token.
	Lookup(ctx context.Context, token string) (string, error)
	Save(ctx context.Context, username, token string) error
	Delete(ctx context.Context, username string) error
}
