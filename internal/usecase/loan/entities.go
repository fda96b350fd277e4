package loan

import (
	"time"

	domainLoan "biblioteca-backend/internal/domain/loan"
)

type CreateLoanInput struct {
	CopyID   string `json:"copy_id" validate:"required,len=32"`
	ClientID string `json:"client_id" validate:"required,len=32"`
}

// LoanDTO is the wire shape. Overdue is derived at serialization time and
// never read back from storage.
type LoanDTO struct {
	LoanID        string     `json:"loan_id"`
	CopyID        string     `json:"copy_id,omitempty"`
	BookTitle     string     `json:"book_title,omitempty"`
	ClientID      string     `json:"client_id,omitempty"`
	ClientName    string     `json:"client_name,omitempty"`
	ClientEmail   string     `json:"-"`
	LibraryID     uint64     `json:"library_id"`
	LoanDate      time.Time  `json:"loan_date"`
	DueDate       time.Time  `json:"due_date"`
	ReturnDate    *time.Time `json:"return_date,omitempty"`
	Status        string     `json:"status"`
	Overdue       bool       `json:"overdue"`
	DaysLate      int        `json:"days_late,omitempty"`
	Fine          float64    `json:"fine,omitempty"`
	RenewalsCount int        `json:"renewals_count"`
	CreatedAt     time.Time  `json:"created_at"`
}

func toDTO(l *domainLoan.Loan, now time.Time) *LoanDTO {
	dto := &LoanDTO{
		LoanID:        l.LoanID,
		LibraryID:     l.LibraryID,
		LoanDate:      l.LoanDate,
		DueDate:       l.DueDate,
		ReturnDate:    l.ReturnDate,
		Status:        string(l.Status),
		Overdue:       l.Overdue(now),
		RenewalsCount: l.RenewalsCount,
		CreatedAt:     l.CreatedAt,
	}
	if l.Copy != nil {
		dto.CopyID = l.Copy.CopyID
		if l.Copy.Book != nil {
			dto.BookTitle = l.Copy.Book.Title
		}
	}
	if l.Client != nil {
		dto.ClientID = l.Client.ClientID
		dto.ClientName = l.Client.FullName
		dto.ClientEmail = l.Client.Email
	}
	return dto
}
