package postgres

import (
	"time"

	"github.com/lib/pq"

	"github.com/Apurer/daycare-api/internal/domains/requests/domain"
)

type dateChangeRecord struct {
	ID           int64                     `gorm:"primaryKey;column:id"`
	DogID        int64                     `gorm:"column:dog_id;index"`
	RequestedBy  int64                     `gorm:"column:requested_by"`
	RequestType  string                    `gorm:"column:request_type;type:varchar(16)"`
	OriginalDate time.Time                 `gorm:"column:original_date;type:date;index"`
	NewDate      *time.Time                `gorm:"column:new_date;type:date"`
	Reason       string                    `gorm:"column:reason"`
	Status       string                    `gorm:"column:status;type:varchar(16);index"`
	ApprovedBy   *int64                    `gorm:"column:approved_by"`
	ApprovedAt   *time.Time                `gorm:"column:approved_at"`
	History      []dateChangeHistoryRecord `gorm:"foreignKey:RequestID"`
	CreatedAt    time.Time                 `gorm:"column:created_at"`
	UpdatedAt    time.Time                 `gorm:"column:updated_at"`
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

type boardingRecord struct {
	ID         int64                   `gorm:"primaryKey;column:id"`
	OwnerID    int64                   `gorm:"column:owner_id;index"`
	DogIDs     pq.Int64Array           `gorm:"column:dog_ids;type:bigint[]"`
	StartDate  time.Time               `gorm:"column:start_date;type:date"`
	EndDate    time.Time               `gorm:"column:end_date;type:date"`
	Notes      string                  `gorm:"column:notes"`
	Status     string                  `gorm:"column:status;type:varchar(16);index"`
	ApprovedBy *int64                  `gorm:"column:approved_by"`
	ApprovedAt *time.Time              `gorm:"column:approved_at"`
	History    []boardingHistoryRecord `gorm:"foreignKey:RequestID"`
	CreatedAt  time.Time               `gorm:"column:created_at"`
	UpdatedAt  time.Time               `gorm:"column:updated_at"`
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

func newDateChangeRecord(req *domain.DateChangeRequest) dateChangeRecord {
	return dateChangeRecord{
		ID:           req.ID,
		DogID:        req.DogID,
		RequestedBy:  req.RequestedBy,
		RequestType:  string(req.Type),
		OriginalDate: req.OriginalDate,
		NewDate:      req.NewDate,
		Reason:       req.Reason,
		Status:       string(req.Status),
		ApprovedBy:   req.ApprovedBy,
		ApprovedAt:   req.ApprovedAt,
		CreatedAt:    req.CreatedAt,
	}
}

func (r dateChangeRecord) toDomain() *domain.DateChangeRequest {
	req := &domain.DateChangeRequest{
		ID:           r.ID,
		DogID:        r.DogID,
		RequestedBy:  r.RequestedBy,
		Type:         domain.ChangeType(r.RequestType),
		OriginalDate: r.OriginalDate.UTC(),
		NewDate:      utcPtr(r.NewDate),
		Reason:       r.Reason,
		Approval: domain.Approval{
			Status:     domain.Status(r.Status),
			ApprovedBy: r.ApprovedBy,
			ApprovedAt: r.ApprovedAt,
		},
		CreatedAt: r.CreatedAt,
	}
	for _, h := range r.History {
		req.History = append(req.History, domain.StatusChange{
			ID:        h.ID,
			From:      domain.Status(h.FromStatus),
			To:        domain.Status(h.ToStatus),
			ChangedBy: h.ChangedBy,
			ChangedAt: h.ChangedAt,
		})
	}
	return req
}

func newBoardingRecord(req *domain.BoardingRequest) boardingRecord {
	return boardingRecord{
		ID:         req.ID,
		OwnerID:    req.OwnerID,
		DogIDs:     pq.Int64Array(append([]int64{}, req.DogIDs...)),
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Notes:      req.Notes,
		Status:     string(req.Status),
		ApprovedBy: req.ApprovedBy,
		ApprovedAt: req.ApprovedAt,
		CreatedAt:  req.CreatedAt,
	}
}

func (r boardingRecord) toDomain() *domain.BoardingRequest {
	req := &domain.BoardingRequest{
		ID:        r.ID,
		OwnerID:   r.OwnerID,
		DogIDs:    append([]int64{}, r.DogIDs...),
		StartDate: r.StartDate.UTC(),
		EndDate:   r.EndDate.UTC(),
		Notes:     r.Notes,
		Approval: domain.Approval{
			Status:     domain.Status(r.Status),
			ApprovedBy: r.ApprovedBy,
			ApprovedAt: r.ApprovedAt,
		},
		CreatedAt: r.CreatedAt,
	}
	for _, h := range r.History {
		req.History = append(req.History, domain.StatusChange{
			ID:        h.ID,
			From:      domain.Status(h.FromStatus),
			To:        domain.Status(h.ToStatus),
			ChangedBy: h.ChangedBy,
			ChangedAt: h.ChangedAt,
		})
	}
	return req
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
