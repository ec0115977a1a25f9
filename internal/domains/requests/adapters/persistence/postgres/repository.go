package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/daycare-api/internal/domains/requests/domain"
	"github.com/Apurer/daycare-api/internal/domains/requests/ports"
	"github.com/Apurer/daycare-api/internal/shared/calendar"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists requests and their history in PostgreSQL.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. The caller owns the DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SaveDateChange writes the request row and appends unsaved history entries in one transaction.
func (r *Repository) SaveDateChange(ctx context.Context, req *domain.DateChangeRequest) (*domain.DateChangeRequest, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, errors.New("cannot save nil date change request")
	}
	record := newDateChangeRecord(req)
	var id int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsert(tx, &record, record.ID, map[string]any{
			"request_type":  record.RequestType,
			"original_date": record.OriginalDate,
			"new_date":      record.NewDate,
			"reason":        record.Reason,
			"status":        record.Status,
			"approved_by":   record.ApprovedBy,
			"approved_at":   record.ApprovedAt,
			"updated_at":    gorm.Expr("NOW()"),
		}); err != nil {
			return err
		}
		id = record.ID
		for _, change := range req.History {
			if change.ID != 0 {
				continue
			}
			row := dateChangeHistoryRecord{
				RequestID:  id,
				FromStatus: string(change.From),
				ToStatus:   string(change.To),
				ChangedBy:  change.ChangedBy,
				ChangedAt:  change.ChangedAt,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetDateChange(ctx, id)
}

func (r *Repository) GetDateChange(ctx context.Context, id int64) (*domain.DateChangeRequest, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record dateChangeRecord
	err := r.db.WithContext(ctx).
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) ListDateChanges(ctx context.Context, dogIDs []int64) ([]*domain.DateChangeRequest, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("id") })
	if dogIDs != nil {
		query = query.Where("dog_id = ANY(?)", pq.Array(dogIDs))
	}
	var records []dateChangeRecord
	if err := query.Order("id DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	list := make([]*domain.DateChangeRequest, 0, len(records))
	for i := range records {
		list = append(list, records[i].toDomain())
	}
	return list, nil
}

// SaveBoarding writes the request row and appends unsaved history entries in one transaction.
func (r *Repository) SaveBoarding(ctx context.Context, req *domain.BoardingRequest) (*domain.BoardingRequest, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, errors.New("cannot save nil boarding request")
	}
	record := newBoardingRecord(req)
	var id int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsert(tx, &record, record.ID, map[string]any{
			"dog_ids":     record.DogIDs,
			"start_date":  record.StartDate,
			"end_date":    record.EndDate,
			"notes":       record.Notes,
			"status":      record.Status,
			"approved_by": record.ApprovedBy,
			"approved_at": record.ApprovedAt,
			"updated_at":  gorm.Expr("NOW()"),
		}); err != nil {
			return err
		}
		id = record.ID
		for _, change := range req.History {
			if change.ID != 0 {
				continue
			}
			row := boardingHistoryRecord{
				RequestID:  id,
				FromStatus: string(change.From),
				ToStatus:   string(change.To),
				ChangedBy:  change.ChangedBy,
				ChangedAt:  change.ChangedAt,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetBoarding(ctx, id)
}

func (r *Repository) GetBoarding(ctx context.Context, id int64) (*domain.BoardingRequest, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record boardingRecord
	err := r.db.WithContext(ctx).
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) ListBoarding(ctx context.Context, ownerID *int64) ([]*domain.BoardingRequest, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("id") })
	if ownerID != nil {
		query = query.Where("owner_id = ?", *ownerID)
	}
	var records []boardingRecord
	if err := query.Order("id DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	list := make([]*domain.BoardingRequest, 0, len(records))
	for i := range records {
		list = append(list, records[i].toDomain())
	}
	return list, nil
}

// ApprovedCancellations lists dogs whose approved CANCEL falls exactly on day.
func (r *Repository) ApprovedCancellations(ctx context.Context, day time.Time) ([]int64, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&dateChangeRecord{}).
		Distinct("dog_id").
		Where("status = ? AND request_type = ? AND original_date = ?", string(domain.StatusApproved), string(domain.ChangeCancel), calendar.Format(day)).
		Order("dog_id").
		Pluck("dog_id", &ids).Error
	return ids, err
}

// ApprovedBoardingDogs lists dogs of approved boarding requests whose inclusive range contains day.
func (r *Repository) ApprovedBoardingDogs(ctx context.Context, day time.Time) ([]int64, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var ids []int64
	formatted := calendar.Format(day)
	err := r.db.WithContext(ctx).
		Raw(`SELECT DISTINCT dog_id FROM boarding_requests, unnest(dog_ids) AS dog_id
			WHERE status = ? AND start_date <= ? AND end_date >= ? ORDER BY dog_id`,
			string(domain.StatusApproved), formatted, formatted).
		Scan(&ids).Error
	return ids, err
}

func upsert(tx *gorm.DB, record any, id int64, updates map[string]any) error {
	if id == 0 {
		return tx.Omit(clause.Associations).Create(record).Error
	}
	result := tx.Model(record).Omit(clause.Associations).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres request repository not configured")
	}
	return nil
}
