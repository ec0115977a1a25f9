package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/daycare-api/internal/domains/requests/adapters/http/mapper"
	"github.com/Apurer/daycare-api/internal/domains/requests/application"
	"github.com/Apurer/daycare-api/internal/domains/requests/ports"
	apierrors "github.com/Apurer/daycare-api/internal/shared/errors"
	"github.com/Apurer/daycare-api/internal/shared/httpbind"
)

const statusUnchanged = "Status unchanged"

// Handler implements the date change and boarding request endpoints.
type Handler struct {
	service   ports.Service
	responder *apierrors.ChainedResponder
}

func NewHandler(service ports.Service) *Handler {
	return &Handler{service: service, responder: apierrors.NewChainedResponder("", MapError)}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/date-change-requests", h.ListDateChanges)
	rg.POST("/date-change-requests", h.CreateDateChange)
	rg.GET("/date-change-requests/:requestId", h.GetDateChange)
	rg.POST("/date-change-requests/:requestId/status", h.ChangeDateChangeStatus)

	rg.GET("/boarding-requests", h.ListBoarding)
	rg.POST("/boarding-requests", h.CreateBoarding)
	rg.GET("/boarding-requests/:requestId", h.GetBoarding)
	rg.POST("/boarding-requests/:requestId/status", h.ChangeBoardingStatus)
}

// Get /v1/date-change-requests
func (h *Handler) ListDateChanges(c *gin.Context) {
	list, err := h.service.ListDateChanges(c.Request.Context(), httpbind.Actor(c))
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDateChanges(list))
}

// Post /v1/date-change-requests
func (h *Handler) CreateDateChange(c *gin.Context) {
	var body mapper.CreateDateChange
	if err := c.ShouldBindJSON(&body); err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	req, err := h.service.CreateDateChange(c.Request.Context(), httpbind.Actor(c), mapper.ToCreateDateChangeInput(body))
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapper.FromDateChange(req))
}

// Get /v1/date-change-requests/:requestId
func (h *Handler) GetDateChange(c *gin.Context) {
	id, err := httpbind.PathInt64(c, "requestId")
	if err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	req, err := h.service.GetDateChange(c.Request.Context(), httpbind.Actor(c), id)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDateChange(req))
}

// Post /v1/date-change-requests/:requestId/status
func (h *Handler) ChangeDateChangeStatus(c *gin.Context) {
	id, body, ok := h.bindStatus(c)
	if !ok {
		return
	}
	result, err := h.service.ChangeDateChangeStatus(c.Request.Context(), httpbind.Actor(c), id, body.Status)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	if !result.Changed {
		c.JSON(http.StatusOK, mapper.Unchanged{Detail: statusUnchanged})
		return
	}
	c.JSON(http.StatusOK, mapper.FromDateChange(result.Request))
}

// Get /v1/boarding-requests
func (h *Handler) ListBoarding(c *gin.Context) {
	list, err := h.service.ListBoarding(c.Request.Context(), httpbind.Actor(c))
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromBoardings(list))
}

// Post /v1/boarding-requests
func (h *Handler) CreateBoarding(c *gin.Context) {
	var body mapper.CreateBoarding
	if err := c.ShouldBindJSON(&body); err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	req, err := h.service.CreateBoarding(c.Request.Context(), httpbind.Actor(c), mapper.ToCreateBoardingInput(body))
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapper.FromBoarding(req))
}

// Get /v1/boarding-requests/:requestId
func (h *Handler) GetBoarding(c *gin.Context) {
	id, err := httpbind.PathInt64(c, "requestId")
	if err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	req, err := h.service.GetBoarding(c.Request.Context(), httpbind.Actor(c), id)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromBoarding(req))
}

// Post /v1/boarding-requests/:requestId/status
func (h *Handler) ChangeBoardingStatus(c *gin.Context) {
	id, body, ok := h.bindStatus(c)
	if !ok {
		return
	}
	result, err := h.service.ChangeBoardingStatus(c.Request.Context(), httpbind.Actor(c), id, body.Status)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	if !result.Changed {
		c.JSON(http.StatusOK, mapper.Unchanged{Detail: statusUnchanged})
		return
	}
	c.JSON(http.StatusOK, mapper.FromBoarding(result.Request))
}

func (h *Handler) bindStatus(c *gin.Context) (int64, mapper.ChangeStatus, bool) {
	var body mapper.ChangeStatus
	id, err := httpbind.PathInt64(c, "requestId")
	if err != nil {
		h.responder.BadRequest(c, err.Error())
		return 0, body, false
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		h.responder.BadRequest(c, err.Error())
		return 0, body, false
	}
	return id, body, true
}

// MapError translates request errors into problem details.
func MapError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, ports.ErrNotFound), errors.Is(err, ports.ErrUnknownDog):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, application.ErrInvalidStatus):
		return apierrors.ErrInvalidStatus.WithDetail(err.Error()), true
	case errors.Is(err, application.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	default:
		return apierrors.ProblemDetail{}, false
	}
}
