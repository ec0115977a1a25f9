package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/daycare-api/internal/domains/notifications/application"
	"github.com/Apurer/daycare-api/internal/domains/notifications/ports"
	apierrors "github.com/Apurer/daycare-api/internal/shared/errors"
	"github.com/Apurer/daycare-api/internal/shared/httpbind"
)

// Device is the body of the device registration endpoints.
type Device struct {
	Token    string `json:"token" binding:"required"`
	Platform string `json:"platform"`
}

// Handler implements the device registration endpoints.
type Handler struct {
	service   ports.DeviceService
	responder *apierrors.ChainedResponder
}

func NewHandler(service ports.DeviceService) *Handler {
	return &Handler{service: service, responder: apierrors.NewChainedResponder("", MapError)}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/devices", h.RegisterDevice)
	rg.DELETE("/devices", h.UnregisterDevice)
}

// Post /v1/devices
func (h *Handler) RegisterDevice(c *gin.Context) {
	var body Device
	if err := c.ShouldBindJSON(&body); err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	if err := h.service.RegisterDevice(c.Request.Context(), httpbind.Actor(c), body.Token, body.Platform); err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete /v1/devices
func (h *Handler) UnregisterDevice(c *gin.Context) {
	var body Device
	if err := c.ShouldBindJSON(&body); err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	if err := h.service.UnregisterDevice(c.Request.Context(), httpbind.Actor(c), body.Token); err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func MapError(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, application.ErrInvalidInput) {
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}
