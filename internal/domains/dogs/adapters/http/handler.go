package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/daycare-api/internal/domains/dogs/adapters/http/mapper"
	"github.com/Apurer/daycare-api/internal/domains/dogs/application"
	"github.com/Apurer/daycare-api/internal/domains/dogs/ports"
	apierrors "github.com/Apurer/daycare-api/internal/shared/errors"
	"github.com/Apurer/daycare-api/internal/shared/httpbind"
)

// Handler implements the dog endpoints.
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
	rg.GET("/dogs", h.List)
	rg.POST("/dogs", h.Create)
	rg.GET("/dogs/:dogId", h.Get)
	rg.PUT("/dogs/:dogId/schedule", h.UpdateSchedule)
	rg.PUT("/dogs/:dogId/care", h.UpdateCare)
	rg.POST("/dogs/:dogId/co-owners", h.AddCoOwner)
}

// Get /v1/dogs
func (h *Handler) List(c *gin.Context) {
	dogs, err := h.service.List(c.Request.Context(), httpbind.Actor(c))
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromProjections(dogs))
}

// Post /v1/dogs
func (h *Handler) Create(c *gin.Context) {
	var body mapper.RegisterDog
	if err := c.ShouldBindJSON(&body); err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	dog, err := h.service.Register(c.Request.Context(), httpbind.Actor(c), mapper.ToRegisterInput(body))
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapper.FromProjection(dog))
}

// Get /v1/dogs/:dogId
func (h *Handler) Get(c *gin.Context) {
	id, err := httpbind.PathInt64(c, "dogId")
	if err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	dog, err := h.service.Get(c.Request.Context(), httpbind.Actor(c), id)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromProjection(dog))
}

// Put /v1/dogs/:dogId/schedule
func (h *Handler) UpdateSchedule(c *gin.Context) {
	id, err := httpbind.PathInt64(c, "dogId")
	if err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	var body mapper.Schedule
	if err := c.ShouldBindJSON(&body); err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	dog, err := h.service.UpdateSchedule(c.Request.Context(), httpbind.Actor(c), id, body.DaycareDays)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromProjection(dog))
}

// Put /v1/dogs/:dogId/care
func (h *Handler) UpdateCare(c *gin.Context) {
	id, err := httpbind.PathInt64(c, "dogId")
	if err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	var body mapper.Care
	if err := c.ShouldBindJSON(&body); err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	dog, err := h.service.UpdateCare(c.Request.Context(), httpbind.Actor(c), ports.UpdateCareInput{
		DogID:            id,
		FoodInstructions: body.FoodInstructions,
		MedicalNotes:     body.MedicalNotes,
	})
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromProjection(dog))
}

// Post /v1/dogs/:dogId/co-owners
func (h *Handler) AddCoOwner(c *gin.Context) {
	id, err := httpbind.PathInt64(c, "dogId")
	if err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	var body mapper.CoOwner
	if err := c.ShouldBindJSON(&body); err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	dog, err := h.service.AddCoOwner(c.Request.Context(), httpbind.Actor(c), id, body.UserID)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromProjection(dog))
}

// MapError translates dog errors into problem details.
func MapError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, ports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, application.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	default:
		return apierrors.ProblemDetail{}, false
	}
}
