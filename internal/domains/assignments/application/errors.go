package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/daycare-api/internal/domains/assignments/domain"
)

var (
	// ErrInvalidInput signals the request violated an assignment invariant.
	ErrInvalidInput = errors.New("invalid assignment input")
	// ErrInvalidStatus signals a status outside the assignment lifecycle.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrInvalidDateRange signals a date outside the scheduling window.
	ErrInvalidDateRange = errors.New("invalid date range")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, domain.ErrInvalidStatus):
		return fmt.Errorf("%w: %w", ErrInvalidStatus, err)
	case errors.Is(err, domain.ErrInvalidDateRange):
		return fmt.Errorf("%w: %w", ErrInvalidDateRange, err)
	case errors.Is(err, domain.ErrMissingDog),
		errors.Is(err, domain.ErrMissingStaff),
		errors.Is(err, domain.ErrMissingDate):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	default:
		return err
	}
}
