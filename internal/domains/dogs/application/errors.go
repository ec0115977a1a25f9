package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/daycare-api/internal/domains/dogs/domain"
	"github.com/Apurer/daycare-api/internal/domains/dogs/ports"
)

// ErrInvalidInput signals the request violated a dog invariant.
var ErrInvalidInput = errors.New("invalid dog input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyName) ||
		errors.Is(err, domain.ErrInvalidWeekday) ||
		errors.Is(err, domain.ErrInvalidCoOwner) ||
		errors.Is(err, ports.ErrUnknownUser) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
