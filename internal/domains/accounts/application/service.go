package application

import (
	"context"
	"errors"
	"strings"

	"github.com/Apurer/daycare-api/internal/domains/accounts/domain"
	"github.com/Apurer/daycare-api/internal/domains/accounts/ports"
	"github.com/Apurer/daycare-api/internal/shared/actor"
)

// Service exposes account use cases.
type Service struct {
	repo     ports.Repository
	sessions ports.SessionStore
}

func NewService(repo ports.Repository, sessions ports.SessionStore) *Service {
	return &Service{repo: repo, sessions: sessions}
}

// CreateUser onboards an owner or staff account. Only staff may create accounts.
func (s *Service) CreateUser(ctx context.Context, caller actor.Actor, input ports.CreateUserInput) (*domain.User, error) {
	if err := actor.RequireStaff(caller); err != nil {
		return nil, err
	}
	if (input.IsStaff || input.CanAssignDogs) && !caller.CanAssignDogs {
		return nil, actor.ErrPermissionDenied
	}
	user, err := domain.NewUser(0, input.Username)
	if err != nil {
		return nil, mapError(err)
	}
	if err := user.UpdateProfile(input.FirstName, input.LastName, input.Email, input.Phone); err != nil {
		return nil, mapError(err)
	}
	user.UpdatePickup(input.Address, input.PickupInstructions)
	if err := user.GrantCapabilities(input.IsStaff, input.CanAssignDogs); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, user)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// GetByID returns an account. Callers may read themselves; staff may read anyone.
func (s *Service) GetByID(ctx context.Context, caller actor.Actor, id int64) (*domain.User, error) {
	if err := actor.RequireAuthenticated(caller); err != nil {
		return nil, err
	}
	if caller.UserID != id && !caller.IsStaff {
		return nil, ports.ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// ListStaff lists every staff member, used when picking an assignee.
func (s *Service) ListStaff(ctx context.Context, caller actor.Actor) ([]*domain.User, error) {
	if err := actor.RequireStaff(caller); err != nil {
		return nil, err
	}
	return s.repo.ListStaff(ctx)
}

// SetCapabilities toggles is_staff and can_assign_dogs. Requires the assign capability.
func (s *Service) SetCapabilities(ctx context.Context, caller actor.Actor, input ports.CapabilitiesInput) (*domain.User, error) {
	if err := actor.RequireAssigner(caller); err != nil {
		return nil, err
	}
	user, err := s.repo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, mapError(err)
	}
	if err := user.GrantCapabilities(input.IsStaff, input.CanAssignDogs); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, user)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// UpdateProfile edits contact and pickup details. Callers may edit themselves; staff may edit anyone.
func (s *Service) UpdateProfile(ctx context.Context, caller actor.Actor, userID int64, input ports.ProfileInput) (*domain.User, error) {
	if err := actor.RequireAuthenticated(caller); err != nil {
		return nil, err
	}
	if caller.UserID != userID && !caller.IsStaff {
		return nil, ports.ErrNotFound
	}
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, mapError(err)
	}
	err = user.UpdateProfile(
		orCurrent(input.FirstName, user.FirstName),
		orCurrent(input.LastName, user.LastName),
		orCurrent(input.Email, user.Email),
		orCurrent(input.Phone, user.Phone),
	)
	if err != nil {
		return nil, mapError(err)
	}
	user.UpdatePickup(orCurrent(input.Address, user.Address), orCurrent(input.PickupInstructions, user.PickupInstructions))
	saved, err := s.repo.Save(ctx, user)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

func orCurrent(value *string, current string) string {
	if value == nil {
		return current
	}
	return *value
}

// ResolveActor maps a session token to the caller's capability set.
func (s *Service) ResolveActor(ctx context.Context, token string) (actor.Actor, error) {
	token = strings.TrimSpace(token)
	if token == "" || s.sessions == nil {
		return actor.Actor{}, mapError(ports.ErrInvalidSession)
	}
	username, err := s.sessions.Lookup(ctx, token)
	if err != nil {
		return actor.Actor{}, mapError(err)
	}
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return actor.Actor{}, mapError(ports.ErrInvalidSession)
		}
		return actor.Actor{}, err
	}
	return user.Actor(), nil
}

// ActorForUser loads the capability set of a user id; used by trusted callers such as dev auth.
func (s *Service) ActorForUser(ctx context.Context, userID int64) (actor.Actor, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return actor.Actor{}, mapError(ports.ErrInvalidSession)
		}
		return actor.Actor{}, err
	}
	return user.Actor(), nil
}

var _ ports.Service = (*Service)(nil)
