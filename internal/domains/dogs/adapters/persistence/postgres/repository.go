package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/daycare-api/internal/domains/dogs/domain"
	"github.com/Apurer/daycare-api/internal/domains/dogs/ports"
	"github.com/Apurer/daycare-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists dogs in PostgreSQL using GORM-mapped columns.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. The caller owns the DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type dogRecord struct {
	ID               int64         `gorm:"primaryKey;column:id"`
	OwnerID          *int64        `gorm:"column:owner_id;index"`
	CoOwnerIDs       pq.Int64Array `gorm:"column:co_owner_ids;type:bigint[]"`
	Name             string        `gorm:"column:name"`
	DaycareDays      pq.Int64Array `gorm:"column:daycare_days;type:bigint[]"`
	FoodInstructions string        `gorm:"column:food_instructions"`
	MedicalNotes     string        `gorm:"column:medical_notes"`
	CreatedAt        time.Time     `gorm:"column:created_at"`
	UpdatedAt        time.Time     `gorm:"column:updated_at"`
}

func (dogRecord) TableName() string { return "dogs" }

func newDogRecord(d *domain.Dog) dogRecord {
	rec := dogRecord{
		ID:               d.ID,
		Name:             d.Name,
		CoOwnerIDs:       pq.Int64Array(append([]int64{}, d.CoOwnerIDs...)),
		FoodInstructions: d.FoodInstructions,
		MedicalNotes:     d.MedicalNotes,
	}
	if d.OwnerID != nil {
		owner := *d.OwnerID
		rec.OwnerID = &owner
	}
	rec.DaycareDays = make(pq.Int64Array, 0, len(d.DaycareDays))
	for _, day := range d.DaycareDays {
		rec.DaycareDays = append(rec.DaycareDays, int64(day))
	}
	return rec
}

// Save inserts a new dog or updates an existing one.
func (r *Repository) Save(ctx context.Context, dog *domain.Dog) (*ports.DogProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if dog == nil {
		return nil, errors.New("cannot save nil dog")
	}
	if err := dog.Validate(); err != nil {
		return nil, err
	}
	record := newDogRecord(dog)
	if record.ID == 0 {
		if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
			return nil, err
		}
		return toProjection(&record), nil
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"owner_id":          record.OwnerID,
				"co_owner_ids":      record.CoOwnerIDs,
				"name":              record.Name,
				"daycare_days":      record.DaycareDays,
				"food_instructions": record.FoodInstructions,
				"medical_notes":     record.MedicalNotes,
				"updated_at":        gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, dog.ID)
}

// GetByID fetches a dog by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*ports.DogProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record dogRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return toProjection(&record), nil
}

// List returns every dog ordered by name.
func (r *Repository) List(ctx context.Context) ([]*ports.DogProjection, error) {
	return r.find(ctx, r.db)
}

// ListByOwner returns dogs owned or co-owned by the user.
func (r *Repository) ListByOwner(ctx context.Context, userID int64) ([]*ports.DogProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	return r.find(ctx, r.db.Where("owner_id = ? OR ? = ANY(co_owner_ids)", userID, userID))
}

// ListByIDs returns the dogs among ids that exist.
func (r *Repository) ListByIDs(ctx context.Context, ids []int64) ([]*ports.DogProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return r.find(ctx, r.db.Where("id = ANY(?)", pq.Array(ids)))
}

// ListByDaycareDay returns dogs whose weekly schedule contains weekday.
func (r *Repository) ListByDaycareDay(ctx context.Context, weekday int) ([]*ports.DogProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	return r.find(ctx, r.db.Where("? = ANY(daycare_days)", weekday))
}

func (r *Repository) find(ctx context.Context, query *gorm.DB) ([]*ports.DogProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []dogRecord
	if err := query.WithContext(ctx).Order("name").Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	list := make([]*ports.DogProjection, 0, len(records))
	for i := range records {
		list = append(list, toProjection(&records[i]))
	}
	return list, nil
}

func toProjection(record *dogRecord) *ports.DogProjection {
	dog := &domain.Dog{
		ID:               record.ID,
		Name:             record.Name,
		CoOwnerIDs:       append([]int64{}, record.CoOwnerIDs...),
		FoodInstructions: record.FoodInstructions,
		MedicalNotes:     record.MedicalNotes,
	}
	if record.OwnerID != nil {
		owner := *record.OwnerID
		dog.OwnerID = &owner
	}
	dog.DaycareDays = make([]int, 0, len(record.DaycareDays))
	for _, day := range record.DaycareDays {
		dog.DaycareDays = append(dog.DaycareDays, int(day))
	}
	return projection.Of(dog, record.CreatedAt, record.UpdatedAt)
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres dog repository not configured")
	}
	return nil
}
