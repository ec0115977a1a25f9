package application

import (
	"context"

	"github.com/Apurer/daycare-api/internal/domains/dogs/domain"
	"github.com/Apurer/daycare-api/internal/domains/dogs/ports"
	"github.com/Apurer/daycare-api/internal/shared/actor"
)

// Service exposes dog use cases with owner-versus-staff visibility.
type Service struct {
	repo  ports.Repository
	users ports.UserDirectory
}

// NewService wires the dog service. users may be nil, in which case co-owner ids are not verified.
func NewService(repo ports.Repository, users ports.UserDirectory) *Service {
	return &Service{repo: repo, users: users}
}

// Register enrols a dog. Owners always register for themselves; staff may register for anyone or no one.
func (s *Service) Register(ctx context.Context, caller actor.Actor, input ports.RegisterDogInput) (*ports.DogProjection, error) {
	if err := actor.RequireAuthenticated(caller); err != nil {
		return nil, err
	}
	ownerID := &caller.UserID
	if caller.IsStaff {
		ownerID = input.OwnerID
	}
	if ownerID != nil && *ownerID != caller.UserID {
		if err := s.ensureUser(ctx, *ownerID); err != nil {
			return nil, err
		}
	}
	dog, err := domain.NewDog(0, input.Name, ownerID)
	if err != nil {
		return nil, mapError(err)
	}
	if err := dog.SetDaycareDays(input.DaycareDays); err != nil {
		return nil, mapError(err)
	}
	dog.UpdateCare(input.FoodInstructions, input.MedicalNotes)
	return s.save(ctx, dog)
}

// Get returns a dog visible to the caller. Dogs of other owners read as not found.
func (s *Service) Get(ctx context.Context, caller actor.Actor, id int64) (*ports.DogProjection, error) {
	if err := actor.RequireAuthenticated(caller); err != nil {
		return nil, err
	}
	proj, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(caller, proj.Entity) {
		return nil, ports.ErrNotFound
	}
	return proj, nil
}

// List returns every dog for staff and owned or co-owned dogs for everyone else.
func (s *Service) List(ctx context.Context, caller actor.Actor) ([]*ports.DogProjection, error) {
	if err := actor.RequireAuthenticated(caller); err != nil {
		return nil, err
	}
	if caller.IsStaff {
		return s.repo.List(ctx)
	}
	return s.repo.ListByOwner(ctx, caller.UserID)
}

// UpdateSchedule replaces the weekly daycare days.
func (s *Service) UpdateSchedule(ctx context.Context, caller actor.Actor, id int64, days []int) (*ports.DogProjection, error) {
	dog, err := s.editable(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if err := dog.SetDaycareDays(days); err != nil {
		return nil, mapError(err)
	}
	return s.save(ctx, dog)
}

// UpdateCare replaces the feeding and medical notes.
func (s *Service) UpdateCare(ctx context.Context, caller actor.Actor, input ports.UpdateCareInput) (*ports.DogProjection, error) {
	dog, err := s.editable(ctx, caller, input.DogID)
	if err != nil {
		return nil, err
	}
	dog.UpdateCare(input.FoodInstructions, input.MedicalNotes)
	return s.save(ctx, dog)
}

// AddCoOwner shares a dog with another user.
func (s *Service) AddCoOwner(ctx context.Context, caller actor.Actor, dogID, userID int64) (*ports.DogProjection, error) {
	dog, err := s.editable(ctx, caller, dogID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := dog.AddCoOwner(userID); err != nil {
		return nil, mapError(err)
	}
	return s.save(ctx, dog)
}

func (s *Service) editable(ctx context.Context, caller actor.Actor, id int64) (*domain.Dog, error) {
	proj, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	return proj.Entity.Clone(), nil
}

func (s *Service) ensureUser(ctx context.Context, userID int64) error {
	if s.users == nil {
		return nil
	}
	ok, err := s.users.UserExists(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return mapError(ports.ErrUnknownUser)
	}
	return nil
}

func (s *Service) save(ctx context.Context, dog *domain.Dog) (*ports.DogProjection, error) {
	proj, err := s.repo.Save(ctx, dog)
	if err != nil {
		return nil, mapError(err)
	}
	return proj, nil
}

func canView(caller actor.Actor, dog *domain.Dog) bool {
	return caller.IsStaff || dog.IsOwnedBy(caller.UserID)
}

var _ ports.Service = (*Service)(nil)
