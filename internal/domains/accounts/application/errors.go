package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/daycare-api/internal/domains/accounts/domain"
	"github.com/Apurer/daycare-api/internal/domains/accounts/ports"
	"github.com/Apurer/daycare-api/internal/shared/actor"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid user input")
	// ErrAuthentication wraps session resolution failures.
	ErrAuthentication = errors.New("authentication failed")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyUsername) ||
		errors.Is(err, domain.ErrInvalidEmail) ||
		errors.Is(err, domain.ErrAssignerMustBeStaff) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, ports.ErrInvalidSession) {
		return fmt.Errorf("%w: %w: %w", ErrAuthentication, actor.ErrUnauthenticated, err)
	}
	return err
}
