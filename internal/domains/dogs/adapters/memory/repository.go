package memory

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/Apurer/daycare-api/internal/domains/dogs/domain"
	"github.com/Apurer/daycare-api/internal/domains/dogs/ports"
	"github.com/Apurer/daycare-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

type dogEntry struct {
	dog      *domain.Dog
	metadata projection.Metadata
}

// Repository is an in-memory dog persistence adapter.
type Repository struct {
	mu     sync.RWMutex
	dogs   map[int64]*dogEntry
	nextID int64
	now    func() time.Time
}

func NewRepository() *Repository {
	return &Repository{dogs: map[int64]*dogEntry{}, now: time.Now}
}

// WithClock overrides the time source for deterministic testing.
func (r *Repository) WithClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

func (r *Repository) Save(_ context.Context, dog *domain.Dog) (*ports.DogProjection, error) {
	if dog == nil {
		return nil, errors.New("dog is nil")
	}
	clone := dog.Clone()
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	now := r.now().UTC()
	entry, ok := r.dogs[clone.ID]
	if !ok {
		entry = &dogEntry{}
		r.dogs[clone.ID] = entry
	}
	entry.dog = clone
	entry.metadata.Touch(now)
	return entry.project(), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*ports.DogProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.dogs[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return entry.project(), nil
}

func (r *Repository) List(_ context.Context) ([]*ports.DogProjection, error) {
	return r.filter(func(*domain.Dog) bool { return true }), nil
}

func (r *Repository) ListByOwner(_ context.Context, userID int64) ([]*ports.DogProjection, error) {
	return r.filter(func(d *domain.Dog) bool { return d.IsOwnedBy(userID) }), nil
}

func (r *Repository) ListByIDs(_ context.Context, ids []int64) ([]*ports.DogProjection, error) {
	return r.filter(func(d *domain.Dog) bool { return slices.Contains(ids, d.ID) }), nil
}

func (r *Repository) ListByDaycareDay(_ context.Context, weekday int) ([]*ports.DogProjection, error) {
	return r.filter(func(d *domain.Dog) bool { return slices.Contains(d.DaycareDays, weekday) }), nil
}

func (r *Repository) filter(keep func(*domain.Dog) bool) []*ports.DogProjection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*ports.DogProjection, 0)
	for _, entry := range r.dogs {
		if keep(entry.dog) {
			list = append(list, entry.project())
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Entity.Name != list[j].Entity.Name {
			return list[i].Entity.Name < list[j].Entity.Name
		}
		return list[i].Entity.ID < list[j].Entity.ID
	})
	return list
}

func (e *dogEntry) project() *ports.DogProjection {
	return projection.Of(e.dog.Clone(), e.metadata.CreatedAt, e.metadata.UpdatedAt)
}
