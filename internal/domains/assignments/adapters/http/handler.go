package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/daycare-api/internal/domains/assignments/adapters/http/mapper"
	"github.com/Apurer/daycare-api/internal/domains/assignments/application"
	"github.com/Apurer/daycare-api/internal/domains/assignments/ports"
	apierrors "github.com/Apurer/daycare-api/internal/shared/errors"
	"github.com/Apurer/daycare-api/internal/shared/httpbind"
)

// Handler implements the daily assignment endpoints.
type Handler struct {
	service   ports.Service
	workflows ports.WorkflowOrchestrator
	responder *apierrors.ChainedResponder
}

// NewHandler wires dependencies. Auto-assign goes through workflows when set, the service otherwise.
func NewHandler(service ports.Service, workflows ports.WorkflowOrchestrator) *Handler {
	return &Handler{
		service:   service,
		workflows: workflows,
		responder: apierrors.NewChainedResponder("", MapError),
	}
}

// Register mounts the routes on the supplied group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/assignments", h.List)
	rg.GET("/assignments/expected", h.Expected)
	rg.GET("/assignments/unassigned", h.Unassigned)
	rg.GET("/assignments/suggestions", h.Suggestions)
	rg.POST("/assignments/auto-assign", h.AutoAssign)
	rg.POST("/assignments/assign-to-me", h.AssignToSelf)
	rg.POST("/assignments/assign", h.AssignDogs)
	rg.POST("/assignments/:assignmentId/reassign", h.Reassign)
	rg.POST("/assignments/:assignmentId/status", h.UpdateStatus)
	rg.DELETE("/assignments/:assignmentId", h.Unassign)
}

// Get /v1/assignments?date=
func (h *Handler) List(c *gin.Context) {
	date, ok := h.date(c)
	if !ok {
		return
	}
	list, err := h.service.ListAssignments(c.Request.Context(), httpbind.Actor(c), date)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomainAssignments(list))
}

// Get /v1/assignments/expected?date=
func (h *Handler) Expected(c *gin.Context) {
	date, ok := h.date(c)
	if !ok {
		return
	}
	dogs, err := h.service.GetExpectedDogs(c.Request.Context(), httpbind.Actor(c), date)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDogRefs(dogs))
}

// Get /v1/assignments/unassigned?date=
func (h *Handler) Unassigned(c *gin.Context) {
	date, ok := h.date(c)
	if !ok {
		return
	}
	dogs, err := h.service.GetUnassignedDogs(c.Request.Context(), httpbind.Actor(c), date)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDogRefs(dogs))
}

// Get /v1/assignments/suggestions?date=
func (h *Handler) Suggestions(c *gin.Context) {
	date, ok := h.date(c)
	if !ok {
		return
	}
	suggestions, err := h.service.GetSuggestions(c.Request.Context(), httpbind.Actor(c), date)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromSuggestions(suggestions))
}

// Post /v1/assignments/auto-assign
func (h *Handler) AutoAssign(c *gin.Context) {
	var body mapper.DateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	ctx, caller, date := c.Request.Context(), httpbind.Actor(c), httpbind.Date(body.Date)
	var (
		result *ports.AutoAssignResult
		err    error
	)
	if h.workflows != nil {
		result, err = h.workflows.AutoAssign(ctx, caller, date)
	} else {
		result, err = h.service.AutoAssign(ctx, caller, date)
	}
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromAutoAssignResult(result))
}

// Post /v1/assignments/assign-to-me
func (h *Handler) AssignToSelf(c *gin.Context) {
	var body mapper.AssignToSelf
	if err := c.ShouldBindJSON(&body); err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	list, err := h.service.AssignToSelf(c.Request.Context(), httpbind.Actor(c), body.DogIDs, httpbind.Date(body.Date))
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomainAssignments(list))
}

// Post /v1/assignments/assign
func (h *Handler) AssignDogs(c *gin.Context) {
	var body mapper.AssignDogs
	if err := c.ShouldBindJSON(&body); err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	list, err := h.service.AssignDogs(c.Request.Context(), httpbind.Actor(c), body.DogIDs, httpbind.Date(body.Date), body.StaffID)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomainAssignments(list))
}

// Post /v1/assignments/:assignmentId/reassign
func (h *Handler) Reassign(c *gin.Context) {
	id, err := httpbind.PathInt64(c, "assignmentId")
	if err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	var body mapper.Reassign
	if err := c.ShouldBindJSON(&body); err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	assignment, err := h.service.Reassign(c.Request.Context(), httpbind.Actor(c), id, body.StaffID)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomainAssignment(assignment))
}

// Post /v1/assignments/:assignmentId/status
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := httpbind.PathInt64(c, "assignmentId")
	if err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	var body mapper.StatusUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	assignment, err := h.service.UpdateStatus(c.Request.Context(), httpbind.Actor(c), id, body.Status)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomainAssignment(assignment))
}

// Delete /v1/assignments/:assignmentId
func (h *Handler) Unassign(c *gin.Context) {
	id, err := httpbind.PathInt64(c, "assignmentId")
	if err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	if err := h.service.Unassign(c.Request.Context(), httpbind.Actor(c), id); err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) date(c *gin.Context) (time.Time, bool) {
	date, err := httpbind.QueryDate(c, "date", true)
	if err != nil {
		h.responder.BadRequest(c, err.Error())
		return time.Time{}, false
	}
	return date, true
}

// MapError translates scheduler errors into problem details.
func MapError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, ports.ErrNotFound),
		errors.Is(err, ports.ErrUnknownDog),
		errors.Is(err, ports.ErrUnknownStaff):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, ports.ErrConflict):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, application.ErrInvalidDateRange):
		return apierrors.ErrDateOutOfRange.WithDetail(err.Error()), true
	case errors.Is(err, application.ErrInvalidStatus):
		return apierrors.ErrInvalidStatus.WithDetail(err.Error()), true
	case errors.Is(err, application.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	default:
		return apierrors.ProblemDetail{}, false
	}
}
