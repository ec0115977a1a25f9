package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Adapters never automigrate on their own.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&userRecord{},
		&sessionRecord{},
		&dogRecord{},
		&dateChangeRecord{},
		&dateChangeHistoryRecord{},
		&boardingRecord{},
		&boardingHistoryRecord{},
		&deviceTokenRecord{},
		&assignmentRecord{},
	)
}

// User schema mirrors the accounts Postgres adapter.
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

// Session schema mirrors the session store.
type sessionRecord struct {
	Token     string     `gorm:"primaryKey;column:token;size:512"`
	Username  string     `gorm:"column:username;index"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time  `gorm:"column:created_at;index"`
	UpdatedAt time.Time  `gorm:"column:updated_at;index"`
}

func (sessionRecord) TableName() string { return "user_sessions" }

// Dog schema mirrors the dogs Postgres adapter.
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

// Date change schema mirrors the requests Postgres adapter.
type dateChangeRecord struct {
	ID           int64      `gorm:"primaryKey;column:id"`
	DogID        int64      `gorm:"column:dog_id;index"`
	RequestedBy  int64      `gorm:"column:requested_by"`
	RequestType  string     `gorm:"column:request_type;type:varchar(16)"`
	OriginalDate time.Time  `gorm:"column:original_date;type:date;index"`
	NewDate      *time.Time `gorm:"column:new_date;type:date"`
	Reason       string     `gorm:"column:reason"`
	Status       string     `gorm:"column:status;type:varchar(16);index"`
	ApprovedBy   *int64     `gorm:"column:approved_by"`
	ApprovedAt   *time.Time `gorm:"column:approved_at"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"`
}

func (dateChangeRecord) TableName() string { return "date_change_requests" }

type dateChangeHistoryRecord struct {
	ID         int64     `gorm:"primaryKey;column:id"`
	RequestID  int64     `gorm:"column:request_id;index"`
	FromStatus string    `gorm:"column:from_status;type:varchar(16)"`
	ToStatus   string    `gorm:"column:to_status;type:varchar(16)"`
	ChangedBy  int64     `gorm:"column:changed_by"`
	ChangedAt  time.Time `gorm:"column:changed_at"`
}

func (dateChangeHistoryRecord) TableName() string { return "date_change_request_history" }

// Boarding schema mirrors the requests Postgres adapter.
type boardingRecord struct {
	ID         int64         `gorm:"primaryKey;column:id"`
	OwnerID    int64         `gorm:"column:owner_id;index"`
	DogIDs     pq.Int64Array `gorm:"column:dog_ids;type:bigint[]"`
	StartDate  time.Time     `gorm:"column:start_date;type:date"`
	EndDate    time.Time     `gorm:"column:end_date;type:date"`
	Notes      string        `gorm:"column:notes"`
	Status     string        `gorm:"column:status;type:varchar(16);index"`
	ApprovedBy *int64        `gorm:"column:approved_by"`
	ApprovedAt *time.Time    `gorm:"column:approved_at"`
	CreatedAt  time.Time     `gorm:"column:created_at"`
	UpdatedAt  time.Time     `gorm:"column:updated_at"`
}

func (boardingRecord) TableName() string { return "boarding_requests" }

type boardingHistoryRecord struct {
	ID         int64     `gorm:"primaryKey;column:id"`
	RequestID  int64     `gorm:"column:request_id;index"`
	FromStatus string    `gorm:"column:from_status;type:varchar(16)"`
	ToStatus   string    `gorm:"column:to_status;type:varchar(16)"`
	ChangedBy  int64     `gorm:"column:changed_by"`
	ChangedAt  time.Time `gorm:"column:changed_at"`
}

func (boardingHistoryRecord) TableName() string { return "boarding_request_history" }

// Device token schema mirrors the notifications Postgres adapter.
type deviceTokenRecord struct {
	Token     string    `gorm:"primaryKey;column:token;size:512"`
	UserID    int64     `gorm:"column:user_id;index"`
	Platform  string    `gorm:"column:platform;size:32"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (deviceTokenRecord) TableName() string { return "device_tokens" }

// Assignment schema mirrors the assignments Postgres adapter. The (dog_id, date) index is unique.
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
