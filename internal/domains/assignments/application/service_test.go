package application

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/daycare-api/internal/domains/assignments/adapters/memory"
	"github.com/Apurer/daycare-api/internal/domains/assignments/domain"
	"github.com/Apurer/daycare-api/internal/domains/assignments/ports"
	"github.com/Apurer/daycare-api/internal/shared/actor"
	"github.com/Apurer/daycare-api/internal/shared/calendar"
)

const (
	fidoID  int64 = 100
	rexID   int64 = 200
	bellaID int64 = 300
	maxID   int64 = 400
)

var (
	monday = time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	alice  = actor.Actor{UserID: 10, Username: "alice", IsStaff: true, CanAssignDogs: true}
	bob    = actor.Actor{UserID: 11, Username: "bob", IsStaff: true}
	olivia = actor.Actor{UserID: 1, Username: "olivia"}
	oscar  = actor.Actor{UserID: 3, Username: "oscar"}
)

type fakeDog struct {
	ref  ports.DogRef
	days []int
}

type fakeDogs struct {
	dogs []fakeDog
}

func (f *fakeDogs) Dogs(_ context.Context, ids []int64) ([]ports.DogRef, error) {
	var out []ports.DogRef
	for _, dog := range f.dogs {
		if slices.Contains(ids, dog.ref.ID) {
			out = append(out, dog.ref)
		}
	}
	return out, nil
}

func (f *fakeDogs) ScheduledOn(_ context.Context, weekday int) ([]ports.DogRef, error) {
	var out []ports.DogRef
	for _, dog := range f.dogs {
		if slices.Contains(dog.days, weekday) {
			out = append(out, dog.ref)
		}
	}
	return out, nil
}

func (f *fakeDogs) OwnedDogIDs(_ context.Context, userID int64) ([]int64, error) {
	var out []int64
	for _, dog := range f.dogs {
		if slices.Contains(dog.ref.OwnerIDs, userID) {
			out = append(out, dog.ref.ID)
		}
	}
	return out, nil
}

type fakeRequests struct {
	cancelled map[string][]int64
	boarding  map[string][]int64
}

func (f *fakeRequests) ApprovedCancellations(_ context.Context, day time.Time) ([]int64, error) {
	return f.cancelled[calendar.Format(day)], nil
}

func (f *fakeRequests) ApprovedBoardingDogs(_ context.Context, day time.Time) ([]int64, error) {
	return f.boarding[calendar.Format(day)], nil
}

type fakeStaff struct {
	members []ports.StaffMember
}

func (f *fakeStaff) Staff(_ context.Context, id int64) (ports.StaffMember, error) {
	for _, member := range f.members {
		if member.ID == id {
			return member, nil
		}
	}
	return ports.StaffMember{}, ports.ErrUnknownStaff
}

func (f *fakeStaff) ListStaff(context.Context) ([]ports.StaffMember, error) {
	return f.members, nil
}

type sentNotification struct {
	userID int64
	title  string
	body   string
	data   map[string]string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
	err  error
}

func (n *recordingNotifier) Notify(_ context.Context, userID int64, title, body string, data map[string]string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNotification{userID: userID, title: title, body: body, data: data})
	return n.err
}

type fixture struct {
	svc      *Service
	repo     *memory.Repository
	requests *fakeRequests
	notifier *recordingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := memory.NewRepository()
	dogs := &fakeDogs{dogs: []fakeDog{
		{ref: ports.DogRef{ID: fidoID, Name: "Fido", OwnerIDs: []int64{1, 2}}, days: []int{1}},
		{ref: ports.DogRef{ID: rexID, Name: "Rex", OwnerIDs: []int64{3}}},
		{ref: ports.DogRef{ID: bellaID, Name: "Bella", OwnerIDs: []int64{3}}, days: []int{1, 3}},
		{ref: ports.DogRef{ID: maxID, Name: "Max", OwnerIDs: []int64{1}}, days: []int{1}},
	}}
	requests := &fakeRequests{cancelled: map[string][]int64{}, boarding: map[string][]int64{}}
	staff := &fakeStaff{members: []ports.StaffMember{
		{ID: 10, Username: "alice", Name: "Alice Smith"},
		{ID: 11, Username: "bob"},
	}}
	notifier := &recordingNotifier{}
	svc := NewService(repo, dogs, requests, staff,
		WithNotifier(notifier),
		WithClock(func() time.Time { return monday.Add(10 * time.Hour) }),
	)
	return &fixture{svc: svc, repo: repo, requests: requests, notifier: notifier}
}

func (f *fixture) history(t *testing.T, dogID, staffID int64, weeksAgo int) {
	t.Helper()
	a, err := domain.NewAssignment(dogID, staffID, monday.AddDate(0, 0, -7*weeksAgo))
	require.NoError(t, err)
	_, _, err = f.repo.GetOrCreate(context.Background(), a)
	require.NoError(t, err)
}

func dogIDs(dogs []ports.DogRef) []int64 {
	ids := make([]int64, 0, len(dogs))
	for _, dog := range dogs {
		ids = append(ids, dog.ID)
	}
	return ids
}

func TestFidoMondayScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	expected, err := f.svc.GetExpectedDogs(ctx, alice, monday)
	require.NoError(t, err)
	assert.Contains(t, dogIDs(expected), fidoID)

	_, err = f.svc.AssignDogs(ctx, alice, []int64{fidoID}, monday, alice.UserID)
	require.NoError(t, err)

	unassigned, err := f.svc.GetUnassignedDogs(ctx, alice, monday)
	require.NoError(t, err)
	assert.NotContains(t, dogIDs(unassigned), fidoID)

	assigned, err := f.svc.ListAssignments(ctx, alice, monday)
	require.NoError(t, err)
	for _, a := range assigned {
		assert.NotContains(t, dogIDs(unassigned), a.DogID)
	}
}

func TestExpectedDogsCombinesScheduleBoardingAndCancellations(t *testing.T) {
	f := newFixture(t)
	day := calendar.Format(monday)
	f.requests.boarding[day] = []int64{rexID, maxID}
	f.requests.cancelled[day] = []int64{maxID}

	expected, err := f.svc.GetExpectedDogs(context.Background(), alice, monday)
	require.NoError(t, err)
	// ordered by name; Max is cancelled even though he is scheduled and boarding
	assert.Equal(t, []int64{bellaID, fidoID, rexID}, dogIDs(expected))

	wednesday, err := f.svc.GetExpectedDogs(context.Background(), alice, monday.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Equal(t, []int64{bellaID}, dogIDs(wednesday))
}

func TestDateWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.GetExpectedDogs(ctx, alice, monday.AddDate(0, 0, 7))
	require.NoError(t, err)

	_, err = f.svc.GetExpectedDogs(ctx, alice, monday.AddDate(0, 0, 8))
	require.ErrorIs(t, err, ErrInvalidDateRange)
	_, err = f.svc.GetUnassignedDogs(ctx, alice, monday.AddDate(0, 0, -1))
	require.ErrorIs(t, err, ErrInvalidDateRange)
	_, err = f.svc.AssignToSelf(ctx, alice, []int64{fidoID}, monday.AddDate(0, 0, -1))
	require.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestCapabilitiesAreChecked(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.GetExpectedDogs(ctx, olivia, monday)
	require.ErrorIs(t, err, actor.ErrPermissionDenied)
	_, err = f.svc.GetSuggestions(ctx, actor.Actor{}, monday)
	require.ErrorIs(t, err, actor.ErrUnauthenticated)
	_, err = f.svc.AutoAssign(ctx, bob, monday)
	require.ErrorIs(t, err, actor.ErrPermissionDenied)
	_, err = f.svc.AssignDogs(ctx, bob, []int64{fidoID}, monday, bob.UserID)
	require.ErrorIs(t, err, actor.ErrPermissionDenied)
	_, err = f.svc.AssignToSelf(ctx, olivia, []int64{fidoID}, monday)
	require.ErrorIs(t, err, actor.ErrPermissionDenied)
	_, err = f.svc.UpdateStatus(ctx, olivia, 1, "PICKED_UP")
	require.ErrorIs(t, err, actor.ErrPermissionDenied)
	require.ErrorIs(t, f.svc.Unassign(ctx, bob, 1), actor.ErrPermissionDenied)
}

func TestAssignToSelfIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.AssignToSelf(ctx, bob, []int64{fidoID, fidoID}, monday)
	require.NoError(t, err)
	require.Len(t, first, 1)
	second, err := f.svc.AssignToSelf(ctx, bob, []int64{fidoID}, monday)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)

	rows, err := f.repo.ListByDate(ctx, monday)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestConcurrentAssignToSelfCreatesOneRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.AssignToSelf(ctx, bob, []int64{fidoID}, monday)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	rows, err := f.repo.ListByDate(ctx, monday)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, bob.UserID, rows[0].StaffID)
}

func TestAssignToSelfKeepsAnotherStaffMembersRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.AssignToSelf(ctx, alice, []int64{fidoID}, monday)
	require.NoError(t, err)
	rows, err := f.svc.AssignToSelf(ctx, bob, []int64{fidoID}, monday)
	require.NoError(t, err)
	assert.Equal(t, alice.UserID, rows[0].StaffID)
}

func TestSuggestionsPickMostFrequentStaffAndBreakTiesOnLowestID(t *testing.T) {
	f := newFixture(t)
	f.history(t, fidoID, 11, 1)
	f.history(t, fidoID, 11, 2)
	f.history(t, fidoID, 10, 3)
	f.history(t, fidoID, 10, 4)
	f.history(t, rexID, 11, 1)
	f.requests.boarding[calendar.Format(monday)] = []int64{rexID}

	suggestions, err := f.svc.GetSuggestions(context.Background(), bob, monday)
	require.NoError(t, err)
	assert.Equal(t, []ports.Suggestion{
		{DogID: fidoID, DogName: "Fido", StaffID: 10, StaffName: "Alice Smith", Count: 2},
		{DogID: rexID, DogName: "Rex", StaffID: 11, StaffName: "bob", Count: 1},
	}, suggestions)
}

func TestAutoAssignCreatesSuggestedAndSkipsDogsWithoutHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.history(t, fidoID, 11, 1)
	f.history(t, maxID, 10, 1)

	result, err := f.svc.AutoAssign(ctx, alice, monday)
	require.NoError(t, err)
	require.Len(t, result.Created, 2)
	assert.Equal(t, fidoID, result.Created[0].DogID)
	assert.Equal(t, int64(11), result.Created[0].StaffID)
	assert.Equal(t, domain.StatusAssigned, result.Created[0].Status)
	assert.Equal(t, maxID, result.Created[1].DogID)
	assert.Equal(t, []int64{bellaID}, result.Skipped)

	again, err := f.svc.AutoAssign(ctx, alice, monday)
	require.NoError(t, err)
	assert.Empty(t, again.Created)
	assert.Equal(t, []int64{bellaID}, again.Skipped)
}

func TestAutoAssignIgnoresHistoryOfFormerStaff(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	const formerStaff int64 = 99
	f.history(t, fidoID, formerStaff, 1)
	f.history(t, fidoID, formerStaff, 2)
	f.history(t, fidoID, 10, 3)
	f.history(t, maxID, formerStaff, 1)

	_, err := f.svc.AssignDogs(ctx, alice, []int64{fidoID}, monday, formerStaff)
	require.ErrorIs(t, err, ports.ErrUnknownStaff)

	suggestions, err := f.svc.GetSuggestions(ctx, alice, monday)
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, int64(10), suggestions[0].StaffID)

	result, err := f.svc.AutoAssign(ctx, alice, monday)
	require.NoError(t, err)
	require.Len(t, result.Created, 1)
	assert.Equal(t, fidoID, result.Created[0].DogID)
	assert.Equal(t, int64(10), result.Created[0].StaffID)
	assert.Equal(t, []int64{bellaID, maxID}, result.Skipped)
}

type staleRepository struct {
	*memory.Repository
}

func (staleRepository) ListByDate(context.Context, time.Time) ([]*domain.Assignment, error) {
	return nil, nil
}

func TestAutoAssignDoesNotReportRowsCreatedConcurrently(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.history(t, fidoID, 11, 1)
	existing, err := domain.NewAssignment(fidoID, 10, monday)
	require.NoError(t, err)
	_, _, err = f.repo.GetOrCreate(ctx, existing)
	require.NoError(t, err)

	f.svc.repo = staleRepository{f.repo}
	result, err := f.svc.AutoAssign(ctx, alice, monday)
	require.NoError(t, err)
	assert.Empty(t, result.Created)
	assert.NotContains(t, result.Skipped, fidoID)

	stored, err := f.repo.ListByDate(ctx, monday)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, int64(10), stored[0].StaffID)
}

func TestAssignDogsMovesExistingRows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.AssignToSelf(ctx, alice, []int64{fidoID}, monday)
	require.NoError(t, err)
	rows, err := f.svc.AssignDogs(ctx, alice, []int64{fidoID, rexID}, monday, bob.UserID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, bob.UserID, row.StaffID)
	}

	_, err = f.svc.AssignDogs(ctx, alice, []int64{fidoID}, monday, 99)
	require.ErrorIs(t, err, ports.ErrUnknownStaff)
	_, err = f.svc.AssignDogs(ctx, alice, []int64{999}, monday, bob.UserID)
	require.ErrorIs(t, err, ports.ErrUnknownDog)
	_, err = f.svc.AssignDogs(ctx, alice, nil, monday, bob.UserID)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestReassignAndUnassign(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rows, err := f.svc.AssignToSelf(ctx, bob, []int64{fidoID}, monday)
	require.NoError(t, err)
	id := rows[0].ID

	moved, err := f.svc.Reassign(ctx, alice, id, alice.UserID)
	require.NoError(t, err)
	assert.Equal(t, alice.UserID, moved.StaffID)
	_, err = f.svc.Reassign(ctx, alice, id, 99)
	require.ErrorIs(t, err, ports.ErrUnknownStaff)
	_, err = f.svc.Reassign(ctx, alice, 999, bob.UserID)
	require.ErrorIs(t, err, ports.ErrNotFound)

	require.NoError(t, f.svc.Unassign(ctx, alice, id))
	require.ErrorIs(t, f.svc.Unassign(ctx, alice, id), ports.ErrNotFound)

	unassigned, err := f.svc.GetUnassignedDogs(ctx, alice, monday)
	require.NoError(t, err)
	assert.Contains(t, dogIDs(unassigned), fidoID)
}

func TestUpdateStatusNotifiesOwnersOnlyOnChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rows, err := f.svc.AssignToSelf(ctx, bob, []int64{fidoID}, monday)
	require.NoError(t, err)
	id := rows[0].ID

	updated, err := f.svc.UpdateStatus(ctx, bob, id, "picked_up")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPickedUp, updated.Status)
	require.Len(t, f.notifier.sent, 2)
	assert.Equal(t, []int64{1, 2}, []int64{f.notifier.sent[0].userID, f.notifier.sent[1].userID})
	assert.Equal(t, "Fido has been picked up.", f.notifier.sent[0].body)
	assert.Equal(t, "assignment_status", f.notifier.sent[0].data["type"])
	assert.Equal(t, "PICKED_UP", f.notifier.sent[0].data["status"])

	_, err = f.svc.UpdateStatus(ctx, bob, id, "PICKED_UP")
	require.NoError(t, err)
	assert.Len(t, f.notifier.sent, 2)

	// backward transitions are accepted
	back, err := f.svc.UpdateStatus(ctx, bob, id, "ASSIGNED")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAssigned, back.Status)
	assert.Len(t, f.notifier.sent, 4)

	_, err = f.svc.UpdateStatus(ctx, bob, id, "ON_THE_MOON")
	require.ErrorIs(t, err, ErrInvalidStatus)
	_, err = f.svc.UpdateStatus(ctx, bob, 999, "PICKED_UP")
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestUpdateStatusSwallowsNotificationFailures(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = errors.New("push gateway down")
	ctx := context.Background()
	rows, err := f.svc.AssignToSelf(ctx, bob, []int64{fidoID}, monday)
	require.NoError(t, err)

	updated, err := f.svc.UpdateStatus(ctx, bob, rows[0].ID, "AT_DAYCARE")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAtDaycare, updated.Status)

	stored, err := f.repo.GetByID(ctx, rows[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAtDaycare, stored.Status)
}

func TestListAssignmentsVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.AssignDogs(ctx, alice, []int64{fidoID, bellaID, maxID}, monday, bob.UserID)
	require.NoError(t, err)

	all, err := f.svc.ListAssignments(ctx, bob, monday)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := f.svc.ListAssignments(ctx, olivia, monday)
	require.NoError(t, err)
	got := []int64{}
	for _, a := range mine {
		got = append(got, a.DogID)
	}
	assert.ElementsMatch(t, []int64{fidoID, maxID}, got)

	theirs, err := f.svc.ListAssignments(ctx, oscar, monday)
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.Equal(t, bellaID, theirs[0].DogID)
}
