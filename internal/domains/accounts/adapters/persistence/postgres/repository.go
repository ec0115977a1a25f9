package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/daycare-api/internal/domains/accounts/domain"
	"github.com/Apurer/daycare-api/internal/domains/accounts/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists accounts in PostgreSQL using GORM. Schema lives in platform/migrations.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type userRecord struct {
	ID                 int64     `gorm:"primaryKey;column:id"`
	Username           string    `gorm:"column:username;uniqueIndex"`
	FirstName          string    `gorm:"column:first_name"`
	LastName           string    `gorm:"column:last_name"`
	Email              string    `gorm:"column:email"`
	Phone              string    `gorm:"column:phone"`
	Address            string    `gorm:"column:address"`
	PickupInstructions string    `gorm:"column:pickup_instructions"`
	IsStaff            bool      `gorm:"column:is_staff;index"`
	CanAssignDogs      bool      `gorm:"column:can_assign_dogs"`
	CreatedAt          time.Time `gorm:"column:created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "users" }

// Save inserts a new account or updates an existing one by id.
func (r *Repository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user is nil")
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(user)
	if record.ID == 0 {
		if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
			return nil, translateError(err)
		}
		return record.toDomain(), nil
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"username":            record.Username,
				"first_name":          record.FirstName,
				"last_name":           record.LastName,
				"email":               record.Email,
				"phone":               record.Phone,
				"address":             record.Address,
				"pickup_instructions": record.PickupInstructions,
				"is_staff":            record.IsStaff,
				"can_assign_dogs":     record.CanAssignDogs,
				"updated_at":          gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, translateError(err)
	}
	return r.GetByID(ctx, record.ID)
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *Repository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.first(ctx, "username = ?", username)
}

// ListStaff returns staff accounts ordered by id.
func (r *Repository) ListStaff(ctx context.Context) ([]*domain.User, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []userRecord
	if err := r.db.WithContext(ctx).Where("is_staff = ?", true).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	users := make([]*domain.User, 0, len(records))
	for i := range records {
		users = append(users, records[i].toDomain())
	}
	return users, nil
}

func (r *Repository) first(ctx context.Context, query string, arg any) (*domain.User, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record userRecord
	if err := r.db.WithContext(ctx).First(&record, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func translateError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ports.ErrUsernameTaken
	}
	return err
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres user repository not configured")
	}
	return nil
}

func toRecord(user *domain.User) userRecord {
	return userRecord{
		ID:                 user.ID,
		Username:           user.Username,
		FirstName:          user.FirstName,
		LastName:           user.LastName,
		Email:              user.Email,
		Phone:              user.Phone,
		Address:            user.Address,
		PickupInstructions: user.PickupInstructions,
		IsStaff:            user.IsStaff,
		CanAssignDogs:      user.CanAssignDogs,
	}
}

func (r userRecord) toDomain() *domain.User {
	return &domain.User{
		ID:                 r.ID,
		Username:           r.Username,
		FirstName:          r.FirstName,
		LastName:           r.LastName,
		Email:              r.Email,
		Phone:              r.Phone,
		Address:            r.Address,
		PickupInstructions: r.PickupInstructions,
		IsStaff:            r.IsStaff,
		CanAssignDogs:      r.CanAssignDogs,
	}
}
