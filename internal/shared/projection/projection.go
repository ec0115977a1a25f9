// Package projection pairs a stored aggregate with the bookkeeping timestamps its repository maintains.
package projection

import "time"

// Metadata records when a row was first written and last touched.
type Metadata struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Touch stamps a write at now, setting CreatedAt only on the first write.
func (m *Metadata) Touch(now time.Time) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
}

// Projection is an aggregate as read back from a repository.
type Projection[T any] struct {
	Entity   T
	Metadata Metadata
}

// Of builds a projection from an entity and its stored timestamps.
func Of[T any](entity T, createdAt, updatedAt time.Time) *Projection[T] {
	return &Projection[T]{Entity: entity, Metadata: Metadata{CreatedAt: createdAt, UpdatedAt: updatedAt}}
}
