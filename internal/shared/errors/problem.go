// Package errors renders RFC 7807 problem documents for the daycare HTTP API.
package errors

import (
	"fmt"
	"net/http"
)

// ProblemDetail is an RFC 7807 problem document. It doubles as an error so handlers can return it directly.
type ProblemDetail struct {
	Type       string         `json:"type"`
	Title      string         `json:"title"`
	Status     int            `json:"status"`
	Detail     string         `json:"detail,omitempty"`
	Instance   string         `json:"instance,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

func (p ProblemDetail) Error() string {
	if p.Detail != "" {
		return fmt.Sprintf("%s: %s", p.Title, p.Detail)
	}
	return p.Title
}

// WithDetail returns a copy carrying an occurrence-specific message.
func (p ProblemDetail) WithDetail(detail string) ProblemDetail {
	p.Detail = detail
	return p
}

// WithExtension returns a copy with one more extension member. The receiver's map is never mutated.
func (p ProblemDetail) WithExtension(key string, value any) ProblemDetail {
	ext := make(map[string]any, len(p.Extensions)+1)
	for k, v := range p.Extensions {
		ext[k] = v
	}
	ext[key] = value
	p.Extensions = ext
	return p
}

// Problem type URIs. Clients match on these, so they are part of the API contract.
const (
	TypeValidation    = "/problems/validation-error"
	TypeNotFound      = "/problems/not-found"
	TypeConflict      = "/problems/conflict"
	TypeInternal      = "/problems/internal-error"
	TypeUnauthorized  = "/problems/unauthorized"
	TypeForbidden     = "/problems/forbidden"
	TypeBadRequest    = "/problems/bad-request"
	TypeDateRange     = "/problems/date-out-of-range"
	TypeInvalidStatus = "/problems/invalid-status"
)

var (
	ErrNotFound       = problem(TypeNotFound, "Resource Not Found", http.StatusNotFound)
	ErrValidation     = problem(TypeValidation, "Validation Error", http.StatusBadRequest)
	ErrBadRequest     = problem(TypeBadRequest, "Bad Request", http.StatusBadRequest)
	ErrConflict       = problem(TypeConflict, "Conflict", http.StatusConflict)
	ErrInternal       = problem(TypeInternal, "Internal Server Error", http.StatusInternalServerError)
	ErrUnauthorized   = problem(TypeUnauthorized, "Unauthorized", http.StatusUnauthorized)
	ErrForbidden      = problem(TypeForbidden, "Forbidden", http.StatusForbidden)
	ErrDateOutOfRange = problem(TypeDateRange, "Date Out Of Range", http.StatusBadRequest)
	ErrInvalidStatus  = problem(TypeInvalidStatus, "Invalid Status", http.StatusBadRequest)
)

func problem(typeURI, title string, status int) ProblemDetail {
	return ProblemDetail{Type: typeURI, Title: title, Status: status}
}
