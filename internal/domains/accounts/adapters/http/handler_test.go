package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/daycare-api/internal/domains/accounts/adapters/http/mapper"
	"github.com/Apurer/daycare-api/internal/domains/accounts/adapters/memory"
	"github.com/Apurer/daycare-api/internal/domains/accounts/application"
	"github.com/Apurer/daycare-api/internal/domains/accounts/domain"
	"github.com/Apurer/daycare-api/internal/shared/actor"
)

func newRouter(t *testing.T, caller actor.Actor) (*gin.Engine, *memory.Repository) {
	t.Helper()
	repo := memory.NewRepository()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(actor.WithActor(c.Request.Context(), caller))
		c.Next()
	})
	NewHandler(application.NewService(repo, nil)).Register(router.Group("/v1"))
	return router, repo
}

func seed(t *testing.T, repo *memory.Repository, username string, staff bool) *domain.User {
	t.Helper()
	user, err := domain.NewUser(0, username)
	require.NoError(t, err)
	require.NoError(t, user.GrantCapabilities(staff, false))
	user.UpdatePickup("1 Bark St", "")
	saved, err := repo.Save(context.Background(), user)
	require.NoError(t, err)
	return saved
}

func patch(router http.Handler, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestUpdateProfileOfSelf(t *testing.T) {
	router, repo := newRouter(t, actor.Actor{UserID: 1, Username: "olivia"})
	owner := seed(t, repo, "olivia", false)
	require.Equal(t, int64(1), owner.ID)

	rec := patch(router, "/v1/users/1", `{"phone":"555-0100","pickupInstructions":"ring twice"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body mapper.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "555-0100", body.Phone)
	assert.Equal(t, "ring twice", body.PickupInstructions)
	assert.Equal(t, "1 Bark St", body.Address)
}

func TestUpdateProfileOfAnotherOwnerIsNotFound(t *testing.T) {
	router, repo := newRouter(t, actor.Actor{UserID: 2, Username: "oscar"})
	seed(t, repo, "olivia", false)
	seed(t, repo, "oscar", false)

	rec := patch(router, "/v1/users/1", `{"phone":"555-0100"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	stored, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, stored.Phone)
}

func TestUpdateProfileRejectsBadInput(t *testing.T) {
	router, repo := newRouter(t, actor.Actor{UserID: 1, Username: "sam", IsStaff: true})
	seed(t, repo, "sam", true)

	assert.Equal(t, http.StatusBadRequest, patch(router, "/v1/users/one", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, patch(router, "/v1/users/1", `{"phone":`).Code)
	assert.Equal(t, http.StatusBadRequest, patch(router, "/v1/users/1", `{"email":"nope"}`).Code)
}
