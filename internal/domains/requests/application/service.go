package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/Apurer/daycare-api/internal/domains/requests/domain"
	"github.com/Apurer/daycare-api/internal/domains/requests/ports"
	"github.com/Apurer/daycare-api/internal/shared/actor"
	"github.com/Apurer/daycare-api/internal/shared/calendar"
)

// Service implements date-change and boarding request use cases.
type Service struct {
	repo     ports.Repository
	dogs     ports.DogDirectory
	notifier ports.Notifier
	logger   *slog.Logger
	now      func() time.Time
}

type Option func(*Service)

// WithNotifier enables push notifications on new requests and status changes.
func WithNotifier(n ports.Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithLogger injects the logger used for swallowed notification failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(repo ports.Repository, dogs ports.DogDirectory, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		dogs:   dogs,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreateDateChange files a cancel or change request. Owners may only file for their own dogs.
func (s *Service) CreateDateChange(ctx context.Context, caller actor.Actor, input ports.CreateDateChangeInput) (*domain.DateChangeRequest, error) {
	if err := actor.RequireAuthenticated(caller); err != nil {
		return nil, err
	}
	dog, err := s.dogs.Dog(ctx, input.DogID)
	if err != nil {
		return nil, err
	}
	if !caller.IsStaff && !slices.Contains(dog.OwnerIDs, caller.UserID) {
		return nil, fmt.Errorf("%w: you can only create requests for your own dogs", actor.ErrPermissionDenied)
	}
	kind, err := domain.ParseChangeType(input.Type)
	if err != nil {
		return nil, mapError(err)
	}
	req, err := domain.NewDateChangeRequest(dog.ID, caller.UserID, kind, input.OriginalDate, input.NewDate, input.Reason)
	if err != nil {
		return nil, mapError(err)
	}
	req.CreatedAt = s.now().UTC()
	saved, err := s.repo.SaveDateChange(ctx, req)
	if err != nil {
		return nil, err
	}
	s.notifyStaff(ctx, "New date change request",
		fmt.Sprintf("%s: %s on %s", dog.Name, strings.ToLower(string(kind)), calendar.Format(saved.OriginalDate)),
		map[string]string{
			"type":       "date_change_request",
			"request_id": strconv.FormatInt(saved.ID, 10),
			"dog_id":     strconv.FormatInt(dog.ID, 10),
		})
	return saved, nil
}

// GetDateChange returns a request visible to the caller.
func (s *Service) GetDateChange(ctx context.Context, caller actor.Actor, id int64) (*domain.DateChangeRequest, error) {
	if err := actor.RequireAuthenticated(caller); err != nil {
		return nil, err
	}
	req, err := s.repo.GetDateChange(ctx, id)
	if err != nil {
		return nil, err
	}
	if caller.IsStaff {
		return req, nil
	}
	owned, err := s.dogs.OwnedDogIDs(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(owned, req.DogID) {
		return nil, ports.ErrNotFound
	}
	return req, nil
}

// ListDateChanges returns every request for staff and requests for owned dogs otherwise.
func (s *Service) ListDateChanges(ctx context.Context, caller actor.Actor) ([]*domain.DateChangeRequest, error) {
	if err := actor.RequireAuthenticated(caller); err != nil {
		return nil, err
	}
	if caller.IsStaff {
		return s.repo.ListDateChanges(ctx, nil)
	}
	owned, err := s.dogs.OwnedDogIDs(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	if len(owned) == 0 {
		return []*domain.DateChangeRequest{}, nil
	}
	return s.repo.ListDateChanges(ctx, owned)
}

// ChangeDateChangeStatus reviews a request. Staff only. Setting the current status changes nothing.
func (s *Service) ChangeDateChangeStatus(ctx context.Context, caller actor.Actor, id int64, status string) (*ports.StatusResult[*domain.DateChangeRequest], error) {
	if err := actor.RequireStaff(caller); err != nil {
		return nil, fmt.Errorf("%w: only staff can change request status", err)
	}
	to, err := domain.ParseStatus(status)
	if err != nil {
		return nil, mapError(err)
	}
	req, err := s.repo.GetDateChange(ctx, id)
	if err != nil {
		return nil, err
	}
	if !req.Transition(to, caller.UserID, s.now().UTC()) {
		return &ports.StatusResult[*domain.DateChangeRequest]{Request: req}, nil
	}
	saved, err := s.repo.SaveDateChange(ctx, req)
	if err != nil {
		return nil, err
	}
	if dog, err := s.dogs.Dog(ctx, saved.DogID); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "skipping date change notification", slog.Int64("request.id", saved.ID), slog.String("error", err.Error()))
	} else {
		body := fmt.Sprintf("Your %s request for %s on %s is now %s.",
			strings.ToLower(string(saved.Type)), dog.Name, calendar.Format(saved.OriginalDate), strings.ToLower(string(saved.Status)))
		s.notifyUsers(ctx, dog.OwnerIDs, "Date change request updated", body, map[string]string{
			"type":       "date_change_status",
			"request_id": strconv.FormatInt(saved.ID, 10),
			"status":     string(saved.Status),
		})
	}
	return &ports.StatusResult[*domain.DateChangeRequest]{Request: saved, Changed: true}, nil
}

// CreateBoarding files a boarding stay. Owners may only board their own dogs.
func (s *Service) CreateBoarding(ctx context.Context, caller actor.Actor, input ports.CreateBoardingInput) (*domain.BoardingRequest, error) {
	if err := actor.RequireAuthenticated(caller); err != nil {
		return nil, err
	}
	ownerID := caller.UserID
	if caller.IsStaff && input.OwnerID != nil {
		ownerID = *input.OwnerID
	}
	req, err := domain.NewBoardingRequest(ownerID, input.DogIDs, input.StartDate, input.EndDate, input.Notes)
	if err != nil {
		return nil, mapError(err)
	}
	for _, dogID := range req.DogIDs {
		dog, err := s.dogs.Dog(ctx, dogID)
		if err != nil {
			return nil, err
		}
		if !caller.IsStaff && !slices.Contains(dog.OwnerIDs, caller.UserID) {
			return nil, fmt.Errorf("%w: you can only board your own dogs", actor.ErrPermissionDenied)
		}
	}
	req.CreatedAt = s.now().UTC()
	saved, err := s.repo.SaveBoarding(ctx, req)
	if err != nil {
		return nil, err
	}
	s.notifyStaff(ctx, "New boarding request",
		fmt.Sprintf("%d dog(s) from %s to %s", len(saved.DogIDs), calendar.Format(saved.StartDate), calendar.Format(saved.EndDate)),
		map[string]string{
			"type":       "boarding_request",
			"request_id": strconv.FormatInt(saved.ID, 10),
		})
	return saved, nil
}

// GetBoarding returns a boarding request visible to the caller.
func (s *Service) GetBoarding(ctx context.Context, caller actor.Actor, id int64) (*domain.BoardingRequest, error) {
	if err := actor.RequireAuthenticated(caller); err != nil {
		return nil, err
	}
	req, err := s.repo.GetBoarding(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsStaff && req.OwnerID != caller.UserID {
		return nil, ports.ErrNotFound
	}
	return req, nil
}

// ListBoarding returns every request for staff and the caller's own requests otherwise.
func (s *Service) ListBoarding(ctx context.Context, caller actor.Actor) ([]*domain.BoardingRequest, error) {
	if err := actor.RequireAuthenticated(caller); err != nil {
		return nil, err
	}
	if caller.IsStaff {
		return s.repo.ListBoarding(ctx, nil)
	}
	owner := caller.UserID
	return s.repo.ListBoarding(ctx, &owner)
}

// ChangeBoardingStatus reviews a boarding request with the same rules as date changes.
func (s *Service) ChangeBoardingStatus(ctx context.Context, caller actor.Actor, id int64, status string) (*ports.StatusResult[*domain.BoardingRequest], error) {
	if err := actor.RequireStaff(caller); err != nil {
		return nil, fmt.Errorf("%w: only staff can change request status", err)
	}
	to, err := domain.ParseStatus(status)
	if err != nil {
		return nil, mapError(err)
	}
	req, err := s.repo.GetBoarding(ctx, id)
	if err != nil {
		return nil, err
	}
	if !req.Transition(to, caller.UserID, s.now().UTC()) {
		return &ports.StatusResult[*domain.BoardingRequest]{Request: req}, nil
	}
	saved, err := s.repo.SaveBoarding(ctx, req)
	if err != nil {
		return nil, err
	}
	body := fmt.Sprintf("Your boarding request from %s to %s is now %s.",
		calendar.Format(saved.StartDate), calendar.Format(saved.EndDate), strings.ToLower(string(saved.Status)))
	s.notifyUsers(ctx, []int64{saved.OwnerID}, "Boarding request updated", body, map[string]string{
		"type":       "boarding_status",
		"request_id": strconv.FormatInt(saved.ID, 10),
		"status":     string(saved.Status),
	})
	return &ports.StatusResult[*domain.BoardingRequest]{Request: saved, Changed: true}, nil
}

func (s *Service) notifyStaff(ctx context.Context, title, body string, data map[string]string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyStaff(ctx, title, body, data); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "staff notification failed", slog.String("title", title), slog.String("error", err.Error()))
	}
}

func (s *Service) notifyUsers(ctx context.Context, userIDs []int64, title, body string, data map[string]string) {
	if s.notifier == nil {
		return
	}
	for _, userID := range userIDs {
		if err := s.notifier.Notify(ctx, userID, title, body, data); err != nil {
			s.logger.LogAttrs(ctx, slog.LevelWarn, "owner notification failed", slog.Int64("user.id", userID), slog.String("error", err.Error()))
		}
	}
}

var _ ports.Service = (*Service)(nil)
