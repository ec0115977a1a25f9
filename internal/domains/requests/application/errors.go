package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/daycare-api/internal/domains/requests/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid request input")
	// ErrInvalidStatus signals an unknown review status.
	ErrInvalidStatus = errors.New("invalid status")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidStatus) {
		return fmt.Errorf("%w: %w", ErrInvalidStatus, err)
	}
	if errors.Is(err, domain.ErrInvalidChangeType) ||
		errors.Is(err, domain.ErrMissingNewDate) ||
		errors.Is(err, domain.ErrMissingDog) ||
		errors.Is(err, domain.ErrNoDogs) ||
		errors.Is(err, domain.ErrInvertedDate) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
