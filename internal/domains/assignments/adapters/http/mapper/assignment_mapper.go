package mapper

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/Apurer/daycare-api/internal/domains/assignments/domain"
	"github.com/Apurer/daycare-api/internal/domains/assignments/ports"
	"github.com/Apurer/daycare-api/internal/shared/httpbind"
)

// Assignment is the transport form of a daily assignment.
type Assignment struct {
	ID          int64              `json:"id"`
	DogID       int64              `json:"dogId"`
	StaffID     int64              `json:"staffId"`
	Date        openapi_types.Date `json:"date"`
	Status      string             `json:"status"`
	StatusLabel string             `json:"statusLabel"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// Dog is an expected or unassigned dog.
type Dog struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Suggestion recommends a staff member for a dog.
type Suggestion struct {
	DogID     int64  `json:"dogId"`
	DogName   string `json:"dogName"`
	StaffID   int64  `json:"staffId"`
	StaffName string `json:"staffName"`
	Count     int    `json:"assignmentCount"`
}

// AutoAssignResult reports what auto-assign did.
type AutoAssignResult struct {
	Created []Assignment `json:"created"`
	Skipped []int64      `json:"skipped"`
}

// DateBody carries the target day of auto-assign.
type DateBody struct {
	Date openapi_types.Date `json:"date" binding:"required"`
}

// AssignToSelf is the body of the assign-to-me endpoint.
type AssignToSelf struct {
	DogIDs []int64            `json:"dogIds" binding:"required,min=1"`
	Date   openapi_types.Date `json:"date" binding:"required"`
}

// AssignDogs is the body of the assign endpoint.
type AssignDogs struct {
	DogIDs  []int64            `json:"dogIds" binding:"required,min=1"`
	Date    openapi_types.Date `json:"date" binding:"required"`
	StaffID int64              `json:"staffId" binding:"required"`
}

// Reassign is the body of the reassign endpoint.
type Reassign struct {
	StaffID int64 `json:"staffId" binding:"required"`
}

// StatusUpdate is the body of the status endpoint.
type StatusUpdate struct {
	Status string `json:"status" binding:"required"`
}

func FromDomainAssignment(a *domain.Assignment) Assignment {
	return Assignment{
		ID:          a.ID,
		DogID:       a.DogID,
		StaffID:     a.StaffID,
		Date:        httpbind.ToDate(a.Date),
		Status:      string(a.Status),
		StatusLabel: a.Status.Label(),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func FromDomainAssignments(list []*domain.Assignment) []Assignment {
	out := make([]Assignment, 0, len(list))
	for _, a := range list {
		out = append(out, FromDomainAssignment(a))
	}
	return out
}

func FromDogRefs(dogs []ports.DogRef) []Dog {
	out := make([]Dog, 0, len(dogs))
	for _, dog := range dogs {
		out = append(out, Dog{ID: dog.ID, Name: dog.Name})
	}
	return out
}

func FromSuggestions(list []ports.Suggestion) []Suggestion {
	out := make([]Suggestion, 0, len(list))
	for _, s := range list {
		out = append(out, Suggestion{
			DogID:     s.DogID,
			DogName:   s.DogName,
			StaffID:   s.StaffID,
			StaffName: s.StaffName,
			Count:     s.Count,
		})
	}
	return out
}

func FromAutoAssignResult(result *ports.AutoAssignResult) AutoAssignResult {
	skipped := append([]int64{}, result.Skipped...)
	return AutoAssignResult{Created: FromDomainAssignments(result.Created), Skipped: skipped}
}
