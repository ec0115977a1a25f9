package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/daycare-api/internal/domains/accounts/adapters/http/mapper"
	"github.com/Apurer/daycare-api/internal/domains/accounts/application"
	"github.com/Apurer/daycare-api/internal/domains/accounts/ports"
	apierrors "github.com/Apurer/daycare-api/internal/shared/errors"
	"github.com/Apurer/daycare-api/internal/shared/httpbind"
)

// Handler implements the account endpoints.
type Handler struct {
	service   ports.Service
	responder *apierrors.ChainedResponder
}

// NewHandler wires dependencies.
func NewHandler(service ports.Service) *Handler {
	return &Handler{service: service, responder: apierrors.NewChainedResponder("", MapError)}
}

// Register mounts the routes on the supplied group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/me", h.Me)
	rg.GET("/staff", h.ListStaff)
	rg.POST("/users", h.CreateUser)
	rg.GET("/users/:userId", h.GetUser)
	rg.PATCH("/users/:userId", h.UpdateProfile)
	rg.PUT("/users/:userId/capabilities", h.SetCapabilities)
}

// Get /v1/me
func (h *Handler) Me(c *gin.Context) {
	caller := httpbind.Actor(c)
	user, err := h.service.GetByID(c.Request.Context(), caller, caller.UserID)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomainUser(user))
}

// Get /v1/staff
func (h *Handler) ListStaff(c *gin.Context) {
	users, err := h.service.ListStaff(c.Request.Context(), httpbind.Actor(c))
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomainUsers(users))
}

// Post /v1/users
func (h *Handler) CreateUser(c *gin.Context) {
	var payload mapper.User
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	user, err := h.service.CreateUser(c.Request.Context(), httpbind.Actor(c), mapper.ToCreateInput(payload))
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapper.FromDomainUser(user))
}

// Get /v1/users/:userId
func (h *Handler) GetUser(c *gin.Context) {
	id, err := httpbind.PathInt64(c, "userId")
	if err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	user, err := h.service.GetByID(c.Request.Context(), httpbind.Actor(c), id)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomainUser(user))
}

// Patch /v1/users/:userId
func (h *Handler) UpdateProfile(c *gin.Context) {
	id, err := httpbind.PathInt64(c, "userId")
	if err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	var payload mapper.ProfilePatch
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	user, err := h.service.UpdateProfile(c.Request.Context(), httpbind.Actor(c), id, mapper.ToProfileInput(payload))
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomainUser(user))
}

// Put /v1/users/:userId/capabilities
func (h *Handler) SetCapabilities(c *gin.Context) {
	id, err := httpbind.PathInt64(c, "userId")
	if err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	var payload mapper.Capabilities
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	user, err := h.service.SetCapabilities(c.Request.Context(), httpbind.Actor(c), ports.CapabilitiesInput{
		UserID:        id,
		IsStaff:       payload.IsStaff,
		CanAssignDogs: payload.CanAssignDogs,
	})
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomainUser(user))
}

// MapError translates account errors into problem details.
func MapError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, ports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, ports.ErrUsernameTaken):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, application.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	default:
		return apierrors.ProblemDetail{}, false
	}
}
