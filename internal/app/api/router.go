package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/Apurer/daycare-api/internal/app"
	accountshttp "github.com/Apurer/daycare-api/internal/domains/accounts/adapters/http"
	accountsports "github.com/Apurer/daycare-api/internal/domains/accounts/ports"
	assignmentshttp "github.com/Apurer/daycare-api/internal/domains/assignments/adapters/http"
	assignmentsports "github.com/Apurer/daycare-api/internal/domains/assignments/ports"
	dogshttp "github.com/Apurer/daycare-api/internal/domains/dogs/adapters/http"
	notificationshttp "github.com/Apurer/daycare-api/internal/domains/notifications/adapters/http"
	requestshttp "github.com/Apurer/daycare-api/internal/domains/requests/adapters/http"
	"github.com/Apurer/daycare-api/internal/platform/metrics"
	"github.com/Apurer/daycare-api/internal/shared/actor"
	apierrors "github.com/Apurer/daycare-api/internal/shared/errors"
)

const (
	requestIDHeader = apierrors.RequestIDHeader
	debugUserHeader = "X-Debug-User-ID"
)

// RouterOptions tune the middleware stack.
type RouterOptions struct {
	ServiceName string
	DevAuth     bool
	Metrics     *metrics.Metrics
}

// NewRouter mounts every context's handlers under /v1 behind the request-id and authentication middleware.
func NewRouter(c *app.Container, workflows assignmentsports.WorkflowOrchestrator, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestID())
	if opts.ServiceName != "" {
		router.Use(otelgin.Middleware(opts.ServiceName))
	}
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware())
		router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}
	router.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	v1 := router.Group("/v1", authenticate(c.Accounts, opts.DevAuth))
	accountshttp.NewHandler(c.Accounts).Register(v1)
	dogshttp.NewHandler(c.Dogs).Register(v1)
	requestshttp.NewHandler(c.Requests).Register(v1)
	notificationshttp.NewHandler(c.Devices).Register(v1)
	assignmentshttp.NewHandler(c.Assignments, workflows).Register(v1)
	return router
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("requestId", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// authenticate attaches the caller to the request context. Requests without credentials stay anonymous
// and the use cases reject them where identity is required.
func authenticate(accounts accountsports.Service, devAuth bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var (
			caller actor.Actor
			err    error
		)
		switch {
		case bearerToken(c.GetHeader("Authorization")) != "":
			caller, err = accounts.ResolveActor(ctx, bearerToken(c.GetHeader("Authorization")))
		case devAuth && c.GetHeader(debugUserHeader) != "":
			id, parseErr := strconv.ParseInt(strings.TrimSpace(c.GetHeader(debugUserHeader)), 10, 64)
			if parseErr != nil {
				err = fmt.Errorf("%w: %s: %w", actor.ErrUnauthenticated, debugUserHeader, parseErr)
				break
			}
			caller, err = accounts.ActorForUser(ctx, id)
		default:
			c.Next()
			return
		}
		if errors.Is(err, actor.ErrUnauthenticated) {
			apierrors.Respond(c, apierrors.ErrUnauthorized.WithDetail(err.Error()))
			c.Abort()
			return
		}
		if err != nil {
			apierrors.RespondError(c, err)
			c.Abort()
			return
		}
		c.Request = c.Request.WithContext(actor.WithActor(ctx, caller))
		c.Next()
	}
}

// bearerToken accepts both "Bearer <token>" and "Token <token>".
func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok {
		return ""
	}
	if !strings.EqualFold(scheme, "Bearer") && !strings.EqualFold(scheme, "Token") {
		return ""
	}
	return strings.TrimSpace(token)
}
