package mapper

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/Apurer/daycare-api/internal/domains/requests/domain"
	"github.com/Apurer/daycare-api/internal/domains/requests/ports"
	"github.com/Apurer/daycare-api/internal/shared/httpbind"
)

// StatusChange is one history entry.
type StatusChange struct {
	From      string    `json:"fromStatus"`
	To        string    `json:"toStatus"`
	ChangedBy int64     `json:"changedBy"`
	ChangedAt time.Time `json:"changedAt"`
}

// DateChangeRequest is the transport form of a date change request.
type DateChangeRequest struct {
	ID           int64               `json:"id"`
	DogID        int64               `json:"dogId"`
	RequestedBy  int64               `json:"requestedBy"`
	Type         string              `json:"requestType"`
	OriginalDate openapi_types.Date  `json:"originalDate"`
	NewDate      *openapi_types.Date `json:"newDate,omitempty"`
	Reason       string              `json:"reason,omitempty"`
	Status       string              `json:"status"`
	ApprovedBy   *int64              `json:"approvedBy,omitempty"`
	ApprovedAt   *time.Time          `json:"approvedAt,omitempty"`
	History      []StatusChange      `json:"history"`
	CreatedAt    time.Time           `json:"createdAt"`
}

// CreateDateChange is the body of the create endpoint.
type CreateDateChange struct {
	DogID        int64               `json:"dogId" binding:"required"`
	Type         string              `json:"requestType" binding:"required"`
	OriginalDate openapi_types.Date  `json:"originalDate" binding:"required"`
	NewDate      *openapi_types.Date `json:"newDate"`
	Reason       string              `json:"reason"`
}

// BoardingRequest is the transport form of a boarding request.
type BoardingRequest struct {
	ID         int64              `json:"id"`
	OwnerID    int64              `json:"ownerId"`
	DogIDs     []int64            `json:"dogIds"`
	StartDate  openapi_types.Date `json:"startDate"`
	EndDate    openapi_types.Date `json:"endDate"`
	Notes      string             `json:"notes,omitempty"`
	Status     string             `json:"status"`
	ApprovedBy *int64             `json:"approvedBy,omitempty"`
	ApprovedAt *time.Time         `json:"approvedAt,omitempty"`
	History    []StatusChange     `json:"history"`
	CreatedAt  time.Time          `json:"createdAt"`
}

// CreateBoarding is the body of the boarding create endpoint.
type CreateBoarding struct {
	OwnerID   *int64             `json:"ownerId"`
	DogIDs    []int64            `json:"dogIds" binding:"required"`
	StartDate openapi_types.Date `json:"startDate" binding:"required"`
	EndDate   openapi_types.Date `json:"endDate" binding:"required"`
	Notes     string             `json:"notes"`
}

// ChangeStatus is the body of the status endpoints.
type ChangeStatus struct {
	Status string `json:"status" binding:"required"`
}

// Unchanged is returned when a status change was a no-op.
type Unchanged struct {
	Detail string `json:"detail"`
}

func ToCreateDateChangeInput(body CreateDateChange) ports.CreateDateChangeInput {
	input := ports.CreateDateChangeInput{
		DogID:        body.DogID,
		Type:         body.Type,
		OriginalDate: httpbind.Date(body.OriginalDate),
		Reason:       body.Reason,
	}
	if body.NewDate != nil {
		day := httpbind.Date(*body.NewDate)
		input.NewDate = &day
	}
	return input
}

func ToCreateBoardingInput(body CreateBoarding) ports.CreateBoardingInput {
	return ports.CreateBoardingInput{
		OwnerID:   body.OwnerID,
		DogIDs:    body.DogIDs,
		StartDate: httpbind.Date(body.StartDate),
		EndDate:   httpbind.Date(body.EndDate),
		Notes:     body.Notes,
	}
}

func FromDateChange(req *domain.DateChangeRequest) DateChangeRequest {
	out := DateChangeRequest{
		ID:           req.ID,
		DogID:        req.DogID,
		RequestedBy:  req.RequestedBy,
		Type:         string(req.Type),
		OriginalDate: httpbind.ToDate(req.OriginalDate),
		Reason:       req.Reason,
		Status:       string(req.Status),
		ApprovedBy:   req.ApprovedBy,
		ApprovedAt:   req.ApprovedAt,
		History:      fromHistory(req.History),
		CreatedAt:    req.CreatedAt,
	}
	if req.NewDate != nil {
		day := httpbind.ToDate(*req.NewDate)
		out.NewDate = &day
	}
	return out
}

func FromDateChanges(list []*domain.DateChangeRequest) []DateChangeRequest {
	result := make([]DateChangeRequest, 0, len(list))
	for _, req := range list {
		result = append(result, FromDateChange(req))
	}
	return result
}

func FromBoarding(req *domain.BoardingRequest) BoardingRequest {
	return BoardingRequest{
		ID:         req.ID,
		OwnerID:    req.OwnerID,
		DogIDs:     append([]int64{}, req.DogIDs...),
		StartDate:  httpbind.ToDate(req.StartDate),
		EndDate:    httpbind.ToDate(req.EndDate),
		Notes:      req.Notes,
		Status:     string(req.Status),
		ApprovedBy: req.ApprovedBy,
		ApprovedAt: req.ApprovedAt,
		History:    fromHistory(req.History),
		CreatedAt:  req.CreatedAt,
	}
}

func FromBoardings(list []*domain.BoardingRequest) []BoardingRequest {
	result := make([]BoardingRequest, 0, len(list))
	for _, req := range list {
		result = append(result, FromBoarding(req))
	}
	return result
}

func fromHistory(history []domain.StatusChange) []StatusChange {
	out := make([]StatusChange, 0, len(history))
	for _, h := range history {
		out = append(out, StatusChange{From: string(h.From), To: string(h.To), ChangedBy: h.ChangedBy, ChangedAt: h.ChangedAt})
	}
	return out
}
