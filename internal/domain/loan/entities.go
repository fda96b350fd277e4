package loan

import (
	"time"

	"gorm.io/gorm"

	"biblioteca-backend/internal/domain/catalog"
	"biblioteca-backend/internal/domain/client"
)

// Status is the persisted loan state. Overdue is deliberately NOT a stored
// status: it is derived from (Status, DueDate, now) so there is a single
// source of truth.
type Status string

const (
	StatusOngoing  Status = "ongoing"
	StatusReturned Status = "returned"
)

type Loan struct {
	ID            uint64         `gorm:"primaryKey;column:id" json:"-"`
	LoanID        string         `gorm:"size:32;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	CopyID        uint64         `gorm:"index:idx_loans_copy" json:"-"`
	Copy          *catalog.Copy  `gorm:"belongsTo;foreignKey:CopyID;references:ID" json:"copy,omitempty"`
	ClientID      uint64         `gorm:"index:idx_loans_client" json:"-"`
	Client        *client.Client `gorm:"belongsTo;foreignKey:ClientID;references:ID" json:"client,omitempty"`
	UserID        *uint64        `gorm:"column:user_id" json:"-"`
	LibraryID     uint64         `gorm:"index:idx_loans_library" json:"library_id"`
	LoanDate      time.Time      `gorm:"type:date" json:"loan_date"`
	DueDate       time.Time      `gorm:"type:date" json:"due_date"`
	ReturnDate    *time.Time     `gorm:"type:date" json:"return_date,omitempty"`
	Status        Status         `gorm:"size:12;default:'ongoing';index:idx_loans_status" json:"status"`
	RenewalsCount int            `gorm:"default:0" json:"renewals_count"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Loan) TableName() string { return "loans" }

// Overdue reports whether the loan is ongoing past its due date. Dates are
// compared at day granularity: a loan becomes overdue the day after DueDate.
func (l *Loan) Overdue(now time.Time) bool {
	if l.Status != StatusOngoing {
		return false
	}
	return truncateDay(l.DueDate).Before(truncateDay(now))
}

// DaysLate is 0 for anything not overdue.
func (l *Loan) DaysLate(now time.Time) int {
	if !l.Overdue(now) {
		return 0
	}
	return int(truncateDay(now).Sub(truncateDay(l.DueDate)).Hours() / 24)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
