package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sort"
	"strconv"
	"time"

	"github.com/Apurer/daycare-api/internal/domains/assignments/domain"
	"github.com/Apurer/daycare-api/internal/domains/assignments/ports"
	"github.com/Apurer/daycare-api/internal/shared/actor"
	"github.com/Apurer/daycare-api/internal/shared/calendar"
)

// Service implements the daily assignment scheduler.
type Service struct {
	repo     ports.Repository
	dogs     ports.DogDirectory
	requests ports.RequestDirectory
	staff    ports.StaffDirectory
	notifier ports.Notifier
	logger   *slog.Logger
	now      func() time.Time
	location *time.Location
	window   domain.Window
}

type Option func(*Service)

// WithNotifier enables owner notifications on status changes.
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

// WithLocation sets the timezone that decides which calendar day is today.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithWindowDays sets how many days past today can be scheduled.
func WithWindowDays(days int) Option {
	return func(s *Service) {
		if days >= 0 {
			s.window = domain.Window{Days: days}
		}
	}
}

func NewService(repo ports.Repository, dogs ports.DogDirectory, requests ports.RequestDirectory, staff ports.StaffDirectory, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		dogs:     dogs,
		requests: requests,
		staff:    staff,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
		location: time.UTC,
		window:   domain.Window{Days: domain.DefaultWindowDays},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// GetExpectedDogs lists dogs due on date, ordered by name.
func (s *Service) GetExpectedDogs(ctx context.Context, caller actor.Actor, date time.Time) ([]ports.DogRef, error) {
	if err := actor.RequireStaff(caller); err != nil {
		return nil, err
	}
	day, err := s.checkDate(date)
	if err != nil {
		return nil, err
	}
	return s.expected(ctx, day)
}

// GetUnassignedDogs lists expected dogs nobody has been assigned to yet.
func (s *Service) GetUnassignedDogs(ctx context.Context, caller actor.Actor, date time.Time) ([]ports.DogRef, error) {
	if err := actor.RequireStaff(caller); err != nil {
		return nil, err
	}
	day, err := s.checkDate(date)
	if err != nil {
		return nil, err
	}
	return s.unassigned(ctx, day)
}

// GetSuggestions proposes a staff member for every unassigned dog with assignment history.
func (s *Service) GetSuggestions(ctx context.Context, caller actor.Actor, date time.Time) ([]ports.Suggestion, error) {
	if err := actor.RequireStaff(caller); err != nil {
		return nil, err
	}
	day, err := s.checkDate(date)
	if err != nil {
		return nil, err
	}
	dogs, err := s.unassigned(ctx, day)
	if err != nil {
		return nil, err
	}
	return s.suggest(ctx, dogs)
}

// AutoAssign assigns every unassigned dog to its suggested staff member.
// Dogs without history are reported as skipped. Rows created concurrently by someone else are not reported.
func (s *Service) AutoAssign(ctx context.Context, caller actor.Actor, date time.Time) (*ports.AutoAssignResult, error) {
	if err := actor.RequireAssigner(caller); err != nil {
		return nil, err
	}
	day, err := s.checkDate(date)
	if err != nil {
		return nil, err
	}
	dogs, err := s.unassigned(ctx, day)
	if err != nil {
		return nil, err
	}
	suggestions, err := s.suggest(ctx, dogs)
	if err != nil {
		return nil, err
	}
	byDog := make(map[int64]ports.Suggestion, len(suggestions))
	for _, suggestion := range suggestions {
		byDog[suggestion.DogID] = suggestion
	}
	result := &ports.AutoAssignResult{Created: []*domain.Assignment{}, Skipped: []int64{}}
	for _, dog := range dogs {
		suggestion, ok := byDog[dog.ID]
		if !ok {
			result.Skipped = append(result.Skipped, dog.ID)
			continue
		}
		assignment, err := domain.NewAssignment(dog.ID, suggestion.StaffID, day)
		if err != nil {
			return nil, mapError(err)
		}
		stored, created, err := s.repo.GetOrCreate(ctx, assignment)
		if err != nil {
			return nil, err
		}
		if created {
			result.Created = append(result.Created, stored)
		}
	}
	return result, nil
}

// AssignToSelf claims dogs for the calling staff member. Existing rows are returned untouched.
func (s *Service) AssignToSelf(ctx context.Context, caller actor.Actor, dogIDs []int64, date time.Time) ([]*domain.Assignment, error) {
	if err := actor.RequireStaff(caller); err != nil {
		return nil, err
	}
	day, err := s.checkDate(date)
	if err != nil {
		return nil, err
	}
	ids, err := s.resolveDogs(ctx, dogIDs)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Assignment, 0, len(ids))
	for _, id := range ids {
		assignment, err := domain.NewAssignment(id, caller.UserID, day)
		if err != nil {
			return nil, mapError(err)
		}
		stored, _, err := s.repo.GetOrCreate(ctx, assignment)
		if err != nil {
			return nil, err
		}
		out = append(out, stored)
	}
	return out, nil
}

// AssignDogs assigns dogs to staffID, moving rows currently held by someone else.
func (s *Service) AssignDogs(ctx context.Context, caller actor.Actor, dogIDs []int64, date time.Time, staffID int64) ([]*domain.Assignment, error) {
	if err := actor.RequireAssigner(caller); err != nil {
		return nil, err
	}
	day, err := s.checkDate(date)
	if err != nil {
		return nil, err
	}
	if _, err := s.staff.Staff(ctx, staffID); err != nil {
		return nil, err
	}
	ids, err := s.resolveDogs(ctx, dogIDs)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Assignment, 0, len(ids))
	for _, id := range ids {
		assignment, err := domain.NewAssignment(id, staffID, day)
		if err != nil {
			return nil, mapError(err)
		}
		stored, created, err := s.repo.GetOrCreate(ctx, assignment)
		if err != nil {
			return nil, err
		}
		if !created {
			if stored, err = s.moveTo(ctx, stored, staffID); err != nil {
				return nil, err
			}
		}
		out = append(out, stored)
	}
	return out, nil
}

// Reassign hands an existing assignment to another staff member.
func (s *Service) Reassign(ctx context.Context, caller actor.Actor, assignmentID, staffID int64) (*domain.Assignment, error) {
	if err := actor.RequireAssigner(caller); err != nil {
		return nil, err
	}
	if _, err := s.staff.Staff(ctx, staffID); err != nil {
		return nil, err
	}
	assignment, err := s.repo.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	return s.moveTo(ctx, assignment, staffID)
}

// Unassign deletes an assignment.
func (s *Service) Unassign(ctx context.Context, caller actor.Actor, assignmentID int64) error {
	if err := actor.RequireAssigner(caller); err != nil {
		return err
	}
	return s.repo.Delete(ctx, assignmentID)
}

// UpdateStatus moves an assignment through the pickup lifecycle and tells the owners when it changed.
func (s *Service) UpdateStatus(ctx context.Context, caller actor.Actor, assignmentID int64, status string) (*domain.Assignment, error) {
	if err := actor.RequireStaff(caller); err != nil {
		return nil, err
	}
	next, err := domain.ParseStatus(status)
	if err != nil {
		return nil, mapError(err)
	}
	assignment, err := s.repo.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	previous, changed := assignment.SetStatus(next)
	if !changed {
		return assignment, nil
	}
	saved, err := s.repo.Save(ctx, assignment)
	if err != nil {
		return nil, err
	}
	s.notifyOwners(ctx, saved, previous)
	return saved, nil
}

// ListAssignments returns the day's assignments. Owners only see rows for dogs they own or co-own.
func (s *Service) ListAssignments(ctx context.Context, caller actor.Actor, date time.Time) ([]*domain.Assignment, error) {
	if err := actor.RequireAuthenticated(caller); err != nil {
		return nil, err
	}
	list, err := s.repo.ListByDate(ctx, calendar.Day(date))
	if err != nil {
		return nil, err
	}
	if caller.IsStaff {
		return list, nil
	}
	owned, err := s.dogs.OwnedDogIDs(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	visible := make([]*domain.Assignment, 0, len(list))
	for _, assignment := range list {
		if slices.Contains(owned, assignment.DogID) {
			visible = append(visible, assignment)
		}
	}
	return visible, nil
}

func (s *Service) checkDate(date time.Time) (time.Time, error) {
	day, err := s.window.Check(calendar.Today(s.now(), s.location), date)
	if err != nil {
		return time.Time{}, mapError(fmt.Errorf("%w: %s", err, calendar.Format(calendar.Day(date))))
	}
	return day, nil
}

func (s *Service) expected(ctx context.Context, day time.Time) ([]ports.DogRef, error) {
	scheduled, err := s.dogs.ScheduledOn(ctx, calendar.ISOWeekday(day))
	if err != nil {
		return nil, err
	}
	boarding, err := s.requests.ApprovedBoardingDogs(ctx, day)
	if err != nil {
		return nil, err
	}
	cancelled, err := s.requests.ApprovedCancellations(ctx, day)
	if err != nil {
		return nil, err
	}
	ids := domain.ResolveExpected(refIDs(scheduled), boarding, cancelled)

	refs := make(map[int64]ports.DogRef, len(ids))
	for _, dog := range scheduled {
		refs[dog.ID] = dog
	}
	var missing []int64
	for _, id := range ids {
		if _, ok := refs[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		boarders, err := s.dogs.Dogs(ctx, missing)
		if err != nil {
			return nil, err
		}
		for _, dog := range boarders {
			refs[dog.ID] = dog
		}
	}
	out := make([]ports.DogRef, 0, len(ids))
	for _, id := range ids {
		if dog, ok := refs[id]; ok {
			out = append(out, dog)
		}
	}
	sortDogs(out)
	return out, nil
}

func (s *Service) unassigned(ctx context.Context, day time.Time) ([]ports.DogRef, error) {
	expected, err := s.expected(ctx, day)
	if err != nil {
		return nil, err
	}
	assigned, err := s.repo.ListByDate(ctx, day)
	if err != nil {
		return nil, err
	}
	open := domain.Unassigned(refIDs(expected), assigned)
	out := make([]ports.DogRef, 0, len(open))
	for _, dog := range expected {
		if slices.Contains(open, dog.ID) {
			out = append(out, dog)
		}
	}
	return out, nil
}

func (s *Service) suggest(ctx context.Context, dogs []ports.DogRef) ([]ports.Suggestion, error) {
	out := make([]ports.Suggestion, 0, len(dogs))
	if len(dogs) == 0 {
		return out, nil
	}
	counts, err := s.repo.PairCounts(ctx, refIDs(dogs))
	if err != nil {
		return nil, err
	}
	names, err := s.staffNames(ctx)
	if err != nil {
		return nil, err
	}
	// History may name users who have since lost staff status.
	current := counts[:0:0]
	for _, pc := range counts {
		if _, ok := names[pc.StaffID]; ok {
			current = append(current, pc)
		}
	}
	top := domain.TopStaff(current)
	if len(top) == 0 {
		return out, nil
	}
	for _, dog := range dogs {
		pick, ok := top[dog.ID]
		if !ok {
			continue
		}
		out = append(out, ports.Suggestion{
			DogID:     dog.ID,
			DogName:   dog.Name,
			StaffID:   pick.StaffID,
			StaffName: names[pick.StaffID],
			Count:     pick.Count,
		})
	}
	return out, nil
}

func (s *Service) staffNames(ctx context.Context) (map[int64]string, error) {
	members, err := s.staff.ListStaff(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(members))
	for _, member := range members {
		names[member.ID] = member.DisplayName()
	}
	return names, nil
}

func (s *Service) resolveDogs(ctx context.Context, dogIDs []int64) ([]int64, error) {
	ids := make([]int64, 0, len(dogIDs))
	for _, id := range dogIDs {
		if id <= 0 {
			return nil, fmt.Errorf("%w: invalid dog id %d", ErrInvalidInput, id)
		}
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: at least one dog is required", ErrInvalidInput)
	}
	known, err := s.dogs.Dogs(ctx, ids)
	if err != nil {
		return nil, err
	}
	found := refIDs(known)
	for _, id := range ids {
		if !slices.Contains(found, id) {
			return nil, fmt.Errorf("%w: %d", ports.ErrUnknownDog, id)
		}
	}
	return ids, nil
}

func (s *Service) moveTo(ctx context.Context, assignment *domain.Assignment, staffID int64) (*domain.Assignment, error) {
	moved, err := assignment.Reassign(staffID)
	if err != nil {
		return nil, mapError(err)
	}
	if !moved {
		return assignment, nil
	}
	return s.repo.Save(ctx, assignment)
}

func (s *Service) notifyOwners(ctx context.Context, assignment *domain.Assignment, previous domain.Status) {
	if s.notifier == nil {
		return
	}
	dogs, err := s.dogs.Dogs(ctx, []int64{assignment.DogID})
	if err != nil || len(dogs) == 0 {
		attrs := []slog.Attr{slog.Int64("assignment.id", assignment.ID), slog.Int64("dog.id", assignment.DogID)}
		if err != nil {
			attrs = append(attrs, slog.String("error", err.Error()))
		}
		s.logger.LogAttrs(ctx, slog.LevelWarn, "skipping status notification, dog lookup failed", attrs...)
		return
	}
	dog := dogs[0]
	data := map[string]string{
		"type":            "assignment_status",
		"assignment_id":   strconv.FormatInt(assignment.ID, 10),
		"dog_id":          strconv.FormatInt(dog.ID, 10),
		"status":          string(assignment.Status),
		"previous_status": string(previous),
	}
	title := fmt.Sprintf("%s: %s", dog.Name, assignment.Status.Label())
	body := assignment.Status.OwnerMessage(dog.Name)
	for _, ownerID := range dog.OwnerIDs {
		if err := s.notifier.Notify(ctx, ownerID, title, body, data); err != nil {
			s.logger.LogAttrs(ctx, slog.LevelWarn, "status notification failed",
				slog.Int64("assignment.id", assignment.ID), slog.Int64("user.id", ownerID), slog.String("error", err.Error()))
		}
	}
}

func refIDs(dogs []ports.DogRef) []int64 {
	ids := make([]int64, 0, len(dogs))
	for _, dog := range dogs {
		ids = append(ids, dog.ID)
	}
	return ids
}

func sortDogs(dogs []ports.DogRef) {
	sort.SliceStable(dogs, func(i, j int) bool {
		if dogs[i].Name != dogs[j].Name {
			return dogs[i].Name < dogs[j].Name
		}
		return dogs[i].ID < dogs[j].ID
	})
}

var _ ports.Service = (*Service)(nil)
