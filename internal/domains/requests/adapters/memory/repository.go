package memory

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/Apurer/daycare-api/internal/domains/requests/domain"
	"github.com/Apurer/daycare-api/internal/domains/requests/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory request persistence adapter.
type Repository struct {
	mu            sync.RWMutex
	dateChanges   map[int64]*domain.DateChangeRequest
	boardings     map[int64]*domain.BoardingRequest
	nextRequestID int64
	nextHistoryID int64
}

func NewRepository() *Repository {
	return &Repository{
		dateChanges: map[int64]*domain.DateChangeRequest{},
		boardings:   map[int64]*domain.BoardingRequest{},
	}
}

func (r *Repository) SaveDateChange(_ context.Context, req *domain.DateChangeRequest) (*domain.DateChangeRequest, error) {
	if req == nil {
		return nil, errors.New("date change request is nil")
	}
	clone := req.Clone()
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID == 0 {
		r.nextRequestID++
		clone.ID = r.nextRequestID
	} else if _, ok := r.dateChanges[clone.ID]; !ok {
		return nil, ports.ErrNotFound
	}
	r.stampHistory(clone.History)
	r.dateChanges[clone.ID] = clone
	return clone.Clone(), nil
}

func (r *Repository) GetDateChange(_ context.Context, id int64) (*domain.DateChangeRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	req, ok := r.dateChanges[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return req.Clone(), nil
}

func (r *Repository) ListDateChanges(_ context.Context, dogIDs []int64) ([]*domain.DateChangeRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.DateChangeRequest, 0)
	for _, req := range r.dateChanges {
		if dogIDs != nil && !slices.Contains(dogIDs, req.DogID) {
			continue
		}
		list = append(list, req.Clone())
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return list, nil
}

func (r *Repository) SaveBoarding(_ context.Context, req *domain.BoardingRequest) (*domain.BoardingRequest, error) {
	if req == nil {
		return nil, errors.New("boarding request is nil")
	}
	clone := req.Clone()
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID == 0 {
		r.nextRequestID++
		clone.ID = r.nextRequestID
	} else if _, ok := r.boardings[clone.ID]; !ok {
		return nil, ports.ErrNotFound
	}
	r.stampHistory(clone.History)
	r.boardings[clone.ID] = clone
	return clone.Clone(), nil
}

func (r *Repository) GetBoarding(_ context.Context, id int64) (*domain.BoardingRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	req, ok := r.boardings[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return req.Clone(), nil
}

func (r *Repository) ListBoarding(_ context.Context, ownerID *int64) ([]*domain.BoardingRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.BoardingRequest, 0)
	for _, req := range r.boardings {
		if ownerID != nil && req.OwnerID != *ownerID {
			continue
		}
		list = append(list, req.Clone())
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return list, nil
}

func (r *Repository) ApprovedCancellations(_ context.Context, day time.Time) ([]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]int64, 0)
	for _, req := range r.dateChanges {
		if req.CancelsDay(day) && !slices.Contains(ids, req.DogID) {
			ids = append(ids, req.DogID)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

func (r *Repository) ApprovedBoardingDogs(_ context.Context, day time.Time) ([]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]int64, 0)
	for _, req := range r.boardings {
		if !req.IsApproved() || !req.Covers(day) {
			continue
		}
		for _, dogID := range req.DogIDs {
			if !slices.Contains(ids, dogID) {
				ids = append(ids, dogID)
			}
		}
	}
	slices.Sort(ids)
	return ids, nil
}

func (r *Repository) stampHistory(history []domain.StatusChange) {
	for i := range history {
		if history[i].ID == 0 {
			r.nextHistoryID++
			history[i].ID = r.nextHistoryID
		}
	}
}
