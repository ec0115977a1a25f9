package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/daycare-api/internal/domains/assignments/domain"
	"github.com/Apurer/daycare-api/internal/domains/assignments/ports"
	"github.com/Apurer/daycare-api/internal/shared/calendar"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists assignments in PostgreSQL. The (dog_id, date) unique index serializes concurrent creates.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. The caller owns the DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type assignmentRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	DogID     int64     `gorm:"column:dog_id;uniqueIndex:idx_assignments_dog_date"`
	Date      time.Time `gorm:"column:date;type:date;uniqueIndex:idx_assignments_dog_date;index"`
	StaffID   int64     `gorm:"column:staff_id;index"`
	Status    string    `gorm:"column:status;type:varchar(32)"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (assignmentRecord) TableName() string { return "assignments" }

type pairCountRow struct {
	DogID   int64 `gorm:"column:dog_id"`
	StaffID int64 `gorm:"column:staff_id"`
	Count   int64 `gorm:"column:count"`
}

// GetOrCreate inserts with ON CONFLICT DO NOTHING and falls back to reading the row that won.
func (r *Repository) GetOrCreate(ctx context.Context, a *domain.Assignment) (*domain.Assignment, bool, error) {
	if err := r.ensureDB(); err != nil {
		return nil, false, err
	}
	if a == nil {
		return nil, false, errors.New("cannot save nil assignment")
	}
	if err := a.Validate(); err != nil {
		return nil, false, err
	}
	record := assignmentRecord{
		DogID:   a.DogID,
		Date:    calendar.Day(a.Date),
		StaffID: a.StaffID,
		Status:  string(a.Status),
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "dog_id"}, {Name: "date"}},
			DoNothing: true,
		}).Create(&record)
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected > 0 {
		return toDomain(&record), true, nil
	}
	var existing assignmentRecord
	if err := r.db.WithContext(ctx).
		Where("dog_id = ? AND date = ?", record.DogID, record.Date).
		First(&existing).Error; err != nil {
		return nil, false, err
	}
	return toDomain(&existing), false, nil
}

// GetByID fetches an assignment by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Assignment, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record assignmentRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return toDomain(&record), nil
}

// Save updates the staff member, status and day of an existing assignment.
func (r *Repository) Save(ctx context.Context, a *domain.Assignment) (*domain.Assignment, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if a == nil {
		return nil, errors.New("cannot save nil assignment")
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	result := r.db.WithContext(ctx).
		Model(&assignmentRecord{}).
		Where("id = ?", a.ID).
		Updates(map[string]any{
			"dog_id":     a.DogID,
			"date":       calendar.Day(a.Date),
			"staff_id":   a.StaffID,
			"status":     string(a.Status),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrConflict
		}
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, a.ID)
}

// Delete removes an assignment.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&assignmentRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// ListByDate returns the assignments of one calendar day ordered by id.
func (r *Repository) ListByDate(ctx context.Context, day time.Time) ([]*domain.Assignment, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []assignmentRecord
	if err := r.db.WithContext(ctx).
		Where("date = ?", calendar.Day(day)).
		Order("id").
		Find(&records).Error; err != nil {
		return nil, err
	}
	list := make([]*domain.Assignment, 0, len(records))
	for i := range records {
		list = append(list, toDomain(&records[i]))
	}
	return list, nil
}

// PairCounts groups the full assignment history by dog and staff member.
func (r *Repository) PairCounts(ctx context.Context, dogIDs []int64) ([]domain.PairCount, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if len(dogIDs) == 0 {
		return []domain.PairCount{}, nil
	}
	var rows []pairCountRow
	if err := r.db.WithContext(ctx).
		Model(&assignmentRecord{}).
		Select("dog_id, staff_id, COUNT(*) AS count").
		Where("dog_id = ANY(?)", pq.Array(dogIDs)).
		Group("dog_id, staff_id").
		Order("dog_id, staff_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.PairCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.PairCount{DogID: row.DogID, StaffID: row.StaffID, Count: int(row.Count)})
	}
	return out, nil
}

func toDomain(record *assignmentRecord) *domain.Assignment {
	return &domain.Assignment{
		ID:        record.ID,
		DogID:     record.DogID,
		StaffID:   record.StaffID,
		Date:      calendar.Day(record.Date),
		Status:    domain.Status(record.Status),
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres assignment repository not configured")
	}
	return nil
}
