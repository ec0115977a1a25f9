package dogs

import (
	"context"
	"errors"

	dogports "github.com/Apurer/daycare-api/internal/domains/dogs/ports"
	"github.com/Apurer/daycare-api/internal/domains/requests/ports"
)

// Directory translates the dogs repository into the request-side view of a dog.
type Directory struct {
	dogs dogports.Repository
}

func NewDirectory(dogs dogports.Repository) *Directory {
	return &Directory{dogs: dogs}
}

func (d *Directory) Dog(ctx context.Context, id int64) (ports.DogRef, error) {
	proj, err := d.dogs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, dogports.ErrNotFound) {
			return ports.DogRef{}, ports.ErrUnknownDog
		}
		return ports.DogRef{}, err
	}
	return ports.DogRef{ID: proj.Entity.ID, Name: proj.Entity.Name, OwnerIDs: proj.Entity.Owners()}, nil
}

func (d *Directory) OwnedDogIDs(ctx context.Context, userID int64) ([]int64, error) {
	list, err := d.dogs.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(list))
	for _, proj := range list {
		ids = append(ids, proj.Entity.ID)
	}
	return ids, nil
}

var _ ports.DogDirectory = (*Directory)(nil)
