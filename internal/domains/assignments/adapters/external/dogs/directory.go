package dogs

import (
	"context"

	"github.com/Apurer/daycare-api/internal/domains/assignments/ports"
	dogdomain "github.com/Apurer/daycare-api/internal/domains/dogs/domain"
	dogports "github.com/Apurer/daycare-api/internal/domains/dogs/ports"
)

// Directory translates the dogs repository into the scheduler's view of a dog.
type Directory struct {
	dogs dogports.Repository
}

func NewDirectory(dogs dogports.Repository) *Directory {
	return &Directory{dogs: dogs}
}

func (d *Directory) Dogs(ctx context.Context, ids []int64) ([]ports.DogRef, error) {
	if len(ids) == 0 {
		return []ports.DogRef{}, nil
	}
	list, err := d.dogs.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return toRefs(list), nil
}

func (d *Directory) ScheduledOn(ctx context.Context, weekday int) ([]ports.DogRef, error) {
	list, err := d.dogs.ListByDaycareDay(ctx, weekday)
	if err != nil {
		return nil, err
	}
	return toRefs(list), nil
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

func toRefs(list []*dogports.DogProjection) []ports.DogRef {
	out := make([]ports.DogRef, 0, len(list))
	for _, proj := range list {
		out = append(out, toRef(proj.Entity))
	}
	return out
}

func toRef(dog *dogdomain.Dog) ports.DogRef {
	return ports.DogRef{ID: dog.ID, Name: dog.Name, OwnerIDs: dog.Owners()}
}

var _ ports.DogDirectory = (*Directory)(nil)
