//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	pacttest "github.com/Apurer/daycare-api/test/pact"

	"github.com/Apurer/daycare-api/internal/app"
	"github.com/Apurer/daycare-api/internal/app/api"
	accountsmemory "github.com/Apurer/daycare-api/internal/domains/accounts/adapters/memory"
	accountsapp "github.com/Apurer/daycare-api/internal/domains/accounts/application"
	accountsdomain "github.com/Apurer/daycare-api/internal/domains/accounts/domain"
	assignmentsaccounts "github.com/Apurer/daycare-api/internal/domains/assignments/adapters/external/accounts"
	assignmentsdogs "github.com/Apurer/daycare-api/internal/domains/assignments/adapters/external/dogs"
	assignmentsmemory "github.com/Apurer/daycare-api/internal/domains/assignments/adapters/memory"
	assignmentsworkflows "github.com/Apurer/daycare-api/internal/domains/assignments/adapters/workflows"
	assignmentsapp "github.com/Apurer/daycare-api/internal/domains/assignments/application"
	assignmentsdomain "github.com/Apurer/daycare-api/internal/domains/assignments/domain"
	dogsaccounts "github.com/Apurer/daycare-api/internal/domains/dogs/adapters/external/accounts"
	dogsmemory "github.com/Apurer/daycare-api/internal/domains/dogs/adapters/memory"
	dogsapp "github.com/Apurer/daycare-api/internal/domains/dogs/application"
	dogsdomain "github.com/Apurer/daycare-api/internal/domains/dogs/domain"
	notificationsmemory "github.com/Apurer/daycare-api/internal/domains/notifications/adapters/memory"
	"github.com/Apurer/daycare-api/internal/domains/notifications/adapters/push"
	notificationsapp "github.com/Apurer/daycare-api/internal/domains/notifications/application"
	requestsdogs "github.com/Apurer/daycare-api/internal/domains/requests/adapters/external/dogs"
	requestsmemory "github.com/Apurer/daycare-api/internal/domains/requests/adapters/memory"
	requestsapp "github.com/Apurer/daycare-api/internal/domains/requests/application"
	"github.com/Apurer/daycare-api/internal/shared/calendar"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/stretchr/testify/require"
)

func TestDaycareProviderPact(t *testing.T) {
	gin.SetMode(gin.TestMode)

	provider := newContractProvider(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateBaseline: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			provider.reset(t)
			return nil, nil
		},
		pacttest.StateDogUnassigned: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			provider.reset(t)
			return nil, nil
		},
		pacttest.StateDogAssigned: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			provider.reset(t)
			if setup {
				provider.assignDog(t)
			}
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: provider.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			provider.reset(t)
			return nil
		},
	})
	require.NoError(t, err)
}

// contractProvider rebuilds an in-memory daycare behind a stable URL for every provider state.
type contractProvider struct {
	mu          sync.RWMutex
	handler     http.Handler
	assignments *assignmentsmemory.Repository
	server      *httptest.Server
}

func newContractProvider(t testing.TB) *contractProvider {
	t.Helper()
	p := &contractProvider{}
	p.reset(t)
	p.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.mu.RLock()
		handler := p.handler
		p.mu.RUnlock()
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(p.server.Close)
	return p
}

func scheduleDay(t testing.TB) time.Time {
	t.Helper()
	day, err := calendar.Parse(pacttest.ScheduleDate)
	require.NoError(t, err)
	return day
}

func (p *contractProvider) reset(t testing.TB) {
	t.Helper()
	ctx := context.Background()
	day := scheduleDay(t)
	clock := func() time.Time { return day.Add(8 * time.Hour) }

	users := accountsmemory.NewRepository()
	for _, seed := range []struct {
		id       int64
		username string
		staff    bool
	}{
		{pacttest.OwnerID, "olivia", false},
		{pacttest.StaffID, "alice", true},
	} {
		user, err := accountsdomain.NewUser(seed.id, seed.username)
		require.NoError(t, err)
		require.NoError(t, user.GrantCapabilities(seed.staff, seed.staff))
		_, err = users.Save(ctx, user)
		require.NoError(t, err)
	}

	dogs := dogsmemory.NewRepository()
	ownerID := pacttest.OwnerID
	dog, err := dogsdomain.NewDog(pacttest.DogID, pacttest.DogName, &ownerID)
	require.NoError(t, err)
	require.NoError(t, dog.SetDaycareDays([]int{calendar.ISOWeekday(day)}))
	_, err = dogs.Save(ctx, dog)
	require.NoError(t, err)

	requests := requestsmemory.NewRepository()
	dispatcher := notificationsapp.NewDispatcher(notificationsmemory.NewTokenStore(), push.NewLogPusher(nil))
	assignments := assignmentsmemory.NewRepository()
	scheduler := assignmentsapp.NewService(
		assignments,
		assignmentsdogs.NewDirectory(dogs),
		requests,
		assignmentsaccounts.NewStaffDirectory(users),
		assignmentsapp.WithNotifier(dispatcher),
		assignmentsapp.WithClock(clock),
	)
	container := &app.Container{
		Accounts:      accountsapp.NewService(users, accountsmemory.NewSessionStore(time.Hour)),
		Dogs:          dogsapp.NewService(dogs, dogsaccounts.NewDirectory(users)),
		Requests:      requestsapp.NewService(requests, requestsdogs.NewDirectory(dogs), requestsapp.WithNotifier(dispatcher), requestsapp.WithClock(clock)),
		Devices:       dispatcher,
		Notifications: dispatcher,
		Assignments:   scheduler,
	}
	router := api.NewRouter(container, assignmentsworkflows.NewInlineAutoAssign(scheduler), api.RouterOptions{DevAuth: true})

	p.mu.Lock()
	p.handler = router
	p.assignments = assignments
	p.mu.Unlock()
}

func (p *contractProvider) assignDog(t testing.TB) {
	t.Helper()
	assignment, err := assignmentsdomain.NewAssignment(pacttest.DogID, pacttest.StaffID, scheduleDay(t))
	require.NoError(t, err)
	p.mu.RLock()
	repo := p.assignments
	p.mu.RUnlock()
	stored, created, err := repo.GetOrCreate(context.Background(), assignment)
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, pacttest.AssignmentID, stored.ID)
}
