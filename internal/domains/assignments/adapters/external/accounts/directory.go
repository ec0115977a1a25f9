package accounts

import (
	"context"
	"errors"
	"strings"

	accountdomain "github.com/Apurer/daycare-api/internal/domains/accounts/domain"
	accountports "github.com/Apurer/daycare-api/internal/domains/accounts/ports"
	"github.com/Apurer/daycare-api/internal/domains/assignments/ports"
)

// StaffDirectory reads staff members from the accounts repository.
type StaffDirectory struct {
	users accountports.Repository
}

func NewStaffDirectory(users accountports.Repository) *StaffDirectory {
	return &StaffDirectory{users: users}
}

func (d *StaffDirectory) Staff(ctx context.Context, id int64) (ports.StaffMember, error) {
	user, err := d.users.GetByID(ctx, id)
	if errors.Is(err, accountports.ErrNotFound) {
		return ports.StaffMember{}, ports.ErrUnknownStaff
	}
	if err != nil {
		return ports.StaffMember{}, err
	}
	if !user.IsStaff {
		return ports.StaffMember{}, ports.ErrUnknownStaff
	}
	return toStaffMember(user), nil
}

func (d *StaffDirectory) ListStaff(ctx context.Context) ([]ports.StaffMember, error) {
	users, err := d.users.ListStaff(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ports.StaffMember, 0, len(users))
	for _, user := range users {
		out = append(out, toStaffMember(user))
	}
	return out, nil
}

func toStaffMember(user *accountdomain.User) ports.StaffMember {
	return ports.StaffMember{
		ID:       user.ID,
		Username: user.Username,
		Name:     strings.TrimSpace(user.FirstName + " " + user.LastName),
	}
}

var _ ports.StaffDirectory = (*StaffDirectory)(nil)
