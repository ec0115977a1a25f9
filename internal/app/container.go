package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/Apurer/daycare-api/internal/clients/http/pushgateway"
	accountsmemory "github.com/Apurer/daycare-api/internal/domains/accounts/adapters/memory"
	accountsobs "github.com/Apurer/daycare-api/internal/domains/accounts/adapters/observability"
	accountspostgres "github.com/Apurer/daycare-api/internal/domains/accounts/adapters/persistence/postgres"
	accountsapp "github.com/Apurer/daycare-api/internal/domains/accounts/application"
	accountsdomain "github.com/Apurer/daycare-api/internal/domains/accounts/domain"
	accountsports "github.com/Apurer/daycare-api/internal/domains/accounts/ports"
	assignmentsaccounts "github.com/Apurer/daycare-api/internal/domains/assignments/adapters/external/accounts"
	assignmentsdogs "github.com/Apurer/daycare-api/internal/domains/assignments/adapters/external/dogs"
	assignmentsmemory "github.com/Apurer/daycare-api/internal/domains/assignments/adapters/memory"
	assignmentsobs "github.com/Apurer/daycare-api/internal/domains/assignments/adapters/observability"
	assignmentspostgres "github.com/Apurer/daycare-api/internal/domains/assignments/adapters/persistence/postgres"
	assignmentsapp "github.com/Apurer/daycare-api/internal/domains/assignments/application"
	assignmentsports "github.com/Apurer/daycare-api/internal/domains/assignments/ports"
	dogsaccounts "github.com/Apurer/daycare-api/internal/domains/dogs/adapters/external/accounts"
	dogsmemory "github.com/Apurer/daycare-api/internal/domains/dogs/adapters/memory"
	dogsobs "github.com/Apurer/daycare-api/internal/domains/dogs/adapters/observability"
	dogspostgres "github.com/Apurer/daycare-api/internal/domains/dogs/adapters/persistence/postgres"
	dogsapp "github.com/Apurer/daycare-api/internal/domains/dogs/application"
	dogsports "github.com/Apurer/daycare-api/internal/domains/dogs/ports"
	notificationsmemory "github.com/Apurer/daycare-api/internal/domains/notifications/adapters/memory"
	notificationspostgres "github.com/Apurer/daycare-api/internal/domains/notifications/adapters/persistence/postgres"
	"github.com/Apurer/daycare-api/internal/domains/notifications/adapters/push"
	notificationsapp "github.com/Apurer/daycare-api/internal/domains/notifications/application"
	notificationsports "github.com/Apurer/daycare-api/internal/domains/notifications/ports"
	requestsdogs "github.com/Apurer/daycare-api/internal/domains/requests/adapters/external/dogs"
	requestsmemory "github.com/Apurer/daycare-api/internal/domains/requests/adapters/memory"
	requestsobs "github.com/Apurer/daycare-api/internal/domains/requests/adapters/observability"
	requestspostgres "github.com/Apurer/daycare-api/internal/domains/requests/adapters/persistence/postgres"
	requestsapp "github.com/Apurer/daycare-api/internal/domains/requests/application"
	requestsports "github.com/Apurer/daycare-api/internal/domains/requests/ports"
	platformobservability "github.com/Apurer/daycare-api/internal/platform/observability"
)

// Container holds the decorated services of every bounded context.
type Container struct {
	Accounts      accountsports.Service
	Dogs          dogsports.Service
	Requests      requestsports.Service
	Devices       notificationsports.DeviceService
	Notifications notificationsports.Dispatcher
	Assignments   assignmentsports.Service
}

// Compose builds every context on top of db, or on in-memory repositories when db is nil.
func Compose(ctx context.Context, cfg Config, db *gorm.DB, instruments *platformobservability.Instruments) (*Container, error) {
	logger := effectiveLogger(instruments)

	var (
		userRepo       accountsports.Repository
		sessions       accountsports.SessionStore
		dogRepo        dogsports.Repository
		requestRepo    requestsports.Repository
		tokens         notificationsports.TokenStore
		assignmentRepo assignmentsports.Repository
	)
	if db != nil {
		userRepo = accountspostgres.NewRepository(db)
		sessions = accountspostgres.NewSessionStore(db, cfg.SessionTTL)
		dogRepo = dogspostgres.NewRepository(db)
		requestRepo = requestspostgres.NewRepository(db)
		tokens = notificationspostgres.NewTokenStore(db)
		assignmentRepo = assignmentspostgres.NewRepository(db)
		logger.Info("repositories configured with postgres")
	} else {
		userRepo = accountsmemory.NewRepository()
		sessions = accountsmemory.NewSessionStore(cfg.SessionTTL)
		dogRepo = dogsmemory.NewRepository()
		requestRepo = requestsmemory.NewRepository()
		tokens = notificationsmemory.NewTokenStore()
		assignmentRepo = assignmentsmemory.NewRepository()
		logger.Warn("repositories configured in memory; data is lost on restart")
	}

	if err := bootstrapAdmin(ctx, userRepo, cfg.BootstrapAdmin, logger); err != nil {
		return nil, err
	}

	pusher, err := newPusher(cfg, logger)
	if err != nil {
		return nil, err
	}
	dispatcher := notificationsapp.NewDispatcher(
		tokens,
		pusher,
		notificationsapp.WithLogger(logger),
		notificationsapp.WithRateLimit(cfg.NotifyRatePerSec, int(cfg.NotifyRatePerSec)),
	)

	accounts := accountsobs.New(
		accountsapp.NewService(userRepo, sessions),
		accountsobs.WithLogger(logger),
		accountsobs.WithTracer(instruments.Tracer("internal.accounts.application")),
		accountsobs.WithMeter(instruments.Meter("internal.accounts.application")),
	)
	dogs := dogsobs.New(
		dogsapp.NewService(dogRepo, dogsaccounts.NewDirectory(userRepo)),
		dogsobs.WithLogger(logger),
		dogsobs.WithTracer(instruments.Tracer("internal.dogs.application")),
		dogsobs.WithMeter(instruments.Meter("internal.dogs.application")),
	)
	requests := requestsobs.New(
		requestsapp.NewService(
			requestRepo,
			requestsdogs.NewDirectory(dogRepo),
			requestsapp.WithNotifier(dispatcher),
			requestsapp.WithLogger(logger),
		),
		requestsobs.WithLogger(logger),
		requestsobs.WithTracer(instruments.Tracer("internal.requests.application")),
		requestsobs.WithMeter(instruments.Meter("internal.requests.application")),
	)
	assignments := assignmentsobs.New(
		assignmentsapp.NewService(
			assignmentRepo,
			assignmentsdogs.NewDirectory(dogRepo),
			requestRepo,
			assignmentsaccounts.NewStaffDirectory(userRepo),
			assignmentsapp.WithNotifier(dispatcher),
			assignmentsapp.WithLogger(logger),
			assignmentsapp.WithLocation(cfg.Location),
			assignmentsapp.WithWindowDays(cfg.WindowDays),
		),
		assignmentsobs.WithLogger(logger),
		assignmentsobs.WithTracer(instruments.Tracer("internal.assignments.application")),
		assignmentsobs.WithMeter(instruments.Meter("internal.assignments.application")),
	)

	return &Container{
		Accounts:      accounts,
		Dogs:          dogs,
		Requests:      requests,
		Devices:       dispatcher,
		Notifications: dispatcher,
		Assignments:   assignments,
	}, nil
}

// bootstrapAdmin creates a staff account holding the assign capability when username is set and unknown.
// Account creation otherwise requires an existing staff caller.
func bootstrapAdmin(ctx context.Context, repo accountsports.Repository, username string, logger *slog.Logger) error {
	if username == "" {
		return nil
	}
	if _, err := repo.GetByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, accountsports.ErrNotFound) {
		return err
	}
	user, err := accountsdomain.NewUser(0, username)
	if err != nil {
		return err
	}
	if err := user.GrantCapabilities(true, true); err != nil {
		return err
	}
	saved, err := repo.Save(ctx, user)
	if err != nil {
		return err
	}
	logger.Info("bootstrap admin created", slog.Int64("userId", saved.ID), slog.String("username", saved.Username))
	return nil
}

func newPusher(cfg Config, logger *slog.Logger) (notificationsports.Pusher, error) {
	if cfg.PushGatewayURL == "" {
		return push.NewLogPusher(logger), nil
	}
	client, err := pushgateway.NewClient(cfg.PushGatewayURL, nil)
	if err != nil {
		return nil, fmt.Errorf("push gateway: %w", err)
	}
	logger.Info("push notifications relayed", slog.String("push.gateway", cfg.PushGatewayURL))
	return push.NewGatewayPusher(client), nil
}
