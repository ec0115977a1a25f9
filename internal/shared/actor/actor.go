// Package actor carries the caller identity and its capability flags across bounded contexts.
package actor

import (
	"context"
	"errors"
)

// ErrPermissionDenied is returned when the caller lacks the capability an operation requires.
var ErrPermissionDenied = errors.New("permission denied")

// ErrUnauthenticated signals that no caller identity was attached to the request.
var ErrUnauthenticated = errors.New("authentication required")

// Actor is the authenticated caller of a use case.
type Actor struct {
	UserID        int64  `json:"userId"`
	Username      string `json:"username"`
	IsStaff       bool   `json:"isStaff"`
	CanAssignDogs bool   `json:"canAssignDogs"`
}

// Authenticated reports whether the actor maps to a known user.
func (a Actor) Authenticated() bool {
	return a.UserID > 0
}

// RequireAuthenticated fails when the actor is anonymous.
func RequireAuthenticated(a Actor) error {
	if !a.Authenticated() {
		return ErrUnauthenticated
	}
	return nil
}

// RequireStaff fails unless the actor is a staff member.
func RequireStaff(a Actor) error {
	if err := RequireAuthenticated(a); err != nil {
		return err
	}
	if !a.IsStaff {
		return ErrPermissionDenied
	}
	return nil
}

// RequireAssigner fails unless the actor is staff holding the assign-dogs capability.
func RequireAssigner(a Actor) error {
	if err := RequireStaff(a); err != nil {
		return err
	}
	if !a.CanAssignDogs {
		return ErrPermissionDenied
	}
	return nil
}

type ctxKey struct{}

// WithActor stores the actor on the context.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

// FromContext returns the actor stored on the context, if any.
func FromContext(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(ctxKey{}).(Actor)
	return a, ok
}
