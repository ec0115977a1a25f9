package accounts

import (
	"context"
	"errors"

	accountports "github.com/Apurer/daycare-api/internal/domains/accounts/ports"
	"github.com/Apurer/daycare-api/internal/domains/dogs/ports"
)

// Directory answers dog-side user lookups from the accounts repository.
type Directory struct {
	users accountports.Repository
}

func NewDirectory(users accountports.Repository) *Directory {
	return &Directory{users: users}
}

func (d *Directory) UserExists(ctx context.Context, userID int64) (bool, error) {
	_, err := d.users.GetByID(ctx, userID)
	if errors.Is(err, accountports.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

var _ ports.UserDirectory = (*Directory)(nil)
