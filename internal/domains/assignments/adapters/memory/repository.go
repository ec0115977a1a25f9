package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Apurer/daycare-api/internal/domains/assignments/domain"
	"github.com/Apurer/daycare-api/internal/domains/assignments/ports"
	"github.com/Apurer/daycare-api/internal/shared/calendar"
)

var _ ports.Repository = (*Repository)(nil)

type slot struct {
	dogID int64
	day   string
}

func slotOf(a *domain.Assignment) slot {
	return slot{dogID: a.DogID, day: calendar.Format(a.Date)}
}

// Repository is an in-memory assignment store. The slot index plays the role of the unique constraint.
type Repository struct {
	mu          sync.RWMutex
	assignments map[int64]*domain.Assignment
	slots       map[slot]int64
	nextID      int64
	now         func() time.Time
}

func NewRepository() *Repository {
	return &Repository{
		assignments: map[int64]*domain.Assignment{},
		slots:       map[slot]int64{},
		now:         time.Now,
	}
}

// WithClock overrides the time source for deterministic testing.
func (r *Repository) WithClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

func (r *Repository) GetOrCreate(_ context.Context, a *domain.Assignment) (*domain.Assignment, bool, error) {
	if a == nil {
		return nil, false, errors.New("assignment is nil")
	}
	clone := a.Clone()
	clone.Date = calendar.Day(clone.Date)
	if err := clone.Validate(); err != nil {
		return nil, false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.slots[slotOf(clone)]; ok {
		return r.assignments[id].Clone(), false, nil
	}
	r.nextID++
	now := r.now().UTC()
	clone.ID = r.nextID
	clone.CreatedAt = now
	clone.UpdatedAt = now
	r.assignments[clone.ID] = clone
	r.slots[slotOf(clone)] = clone.ID
	return clone.Clone(), true, nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.assignments[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return a.Clone(), nil
}

func (r *Repository) Save(_ context.Context, a *domain.Assignment) (*domain.Assignment, error) {
	if a == nil {
		return nil, errors.New("assignment is nil")
	}
	clone := a.Clone()
	clone.Date = calendar.Day(clone.Date)
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.assignments[clone.ID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if id, taken := r.slots[slotOf(clone)]; taken && id != clone.ID {
		return nil, ports.ErrConflict
	}
	delete(r.slots, slotOf(existing))
	clone.CreatedAt = existing.CreatedAt
	clone.UpdatedAt = r.now().UTC()
	r.assignments[clone.ID] = clone
	r.slots[slotOf(clone)] = clone.ID
	return clone.Clone(), nil
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.assignments[id]
	if !ok {
		return ports.ErrNotFound
	}
	delete(r.slots, slotOf(existing))
	delete(r.assignments, id)
	return nil
}

func (r *Repository) ListByDate(_ context.Context, day time.Time) ([]*domain.Assignment, error) {
	day = calendar.Day(day)
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Assignment, 0)
	for _, a := range r.assignments {
		if a.Date.Equal(day) {
			list = append(list, a.Clone())
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *Repository) PairCounts(_ context.Context, dogIDs []int64) ([]domain.PairCount, error) {
	wanted := make(map[int64]struct{}, len(dogIDs))
	for _, id := range dogIDs {
		wanted[id] = struct{}{}
	}
	type pair struct{ dogID, staffID int64 }
	counts := map[pair]int{}
	r.mu.RLock()
	for _, a := range r.assignments {
		if _, ok := wanted[a.DogID]; ok {
			counts[pair{a.DogID, a.StaffID}]++
		}
	}
	r.mu.RUnlock()
	out := make([]domain.PairCount, 0, len(counts))
	for p, n := range counts {
		out = append(out, domain.PairCount{DogID: p.dogID, StaffID: p.staffID, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DogID != out[j].DogID {
			return out[i].DogID < out[j].DogID
		}
		return out[i].StaffID < out[j].StaffID
	})
	return out, nil
}

