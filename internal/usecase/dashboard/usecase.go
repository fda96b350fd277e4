// Package dashboard serves the read-only aggregations behind the admin
// console landing page.
package dashboard

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domainLibrary "biblioteca-backend/internal/domain/library"
	domainLoan "biblioteca-backend/internal/domain/loan"
)

// Stats is the headline counter block.
type Stats struct {
	Books        int64 `json:"books"`
	Copies       int64 `json:"copies"`
	Clients      int64 `json:"clients"`
	OngoingLoans int64 `json:"ongoing_loans"`
	OverdueLoans int64 `json:"overdue_loans"`
}

type MonthCount struct {
	Month string `json:"month"` // YYYY-MM
	Count int64  `json:"count"`
}

// OverdueAlert is one row of the overdue listing, fine already computed.
type OverdueAlert struct {
	LoanID     string    `json:"loan_id"`
	ClientName string    `json:"client_name"`
	BookTitle  string    `json:"book_title"`
	DueDate    time.Time `json:"due_date"`
	DaysLate   int       `json:"days_late"`
	Fine       float64   `json:"fine"`
}

// Repository is the read-side aggregation surface; implemented over gorm.
type Repository interface {
	Totals(ctx context.Context, libraryID uint64, today time.Time) (Stats, error)
	OverdueLoans(ctx context.Context, libraryID uint64, today time.Time) ([]domainLoan.Loan, error)
	LoansPerMonth(ctx context.Context, libraryID uint64, months int) ([]MonthCount, error)
}

type Usecase struct {
	repo Repository
	libs domainLibrary.Repository
	now  func() time.Time
}

func NewUsecase(repo Repository, libs domainLibrary.Repository) *Usecase {
	return &Usecase{repo: repo, libs: libs, now: time.Now}
}

func (u *Usecase) today() time.Time {
	y, m, d := u.now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (u *Usecase) Stats(ctx context.Context, libraryID uint64) (Stats, error) {
	return u.repo.Totals(ctx, libraryID, u.today())
}

func (u *Usecase) Overdue(ctx context.Context, libraryID uint64) ([]OverdueAlert, error) {
	loans, err := u.repo.OverdueLoans(ctx, libraryID, u.today())
	if err != nil {
		return nil, err
	}

	fine, err := u.libs.GetFinePolicy(ctx, libraryID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		fine = nil // no policy: fines report as zero
	}

	now := u.now()
	out := make([]OverdueAlert, 0, len(loans))
	for i := range loans {
		l := &loans[i]
		alert := OverdueAlert{
			LoanID:   l.LoanID,
			DueDate:  l.DueDate,
			DaysLate: l.DaysLate(now),
		}
		alert.Fine = fine.Fine(alert.DaysLate)
		if l.Client != nil {
			alert.ClientName = l.Client.FullName
		}
		if l.Copy != nil && l.Copy.Book != nil {
			alert.BookTitle = l.Copy.Book.Title
		}
		out = append(out, alert)
	}
	return out, nil
}

func (u *Usecase) LoansPerMonth(ctx context.Context, libraryID uint64) ([]MonthCount, error) {
	return u.repo.LoansPerMonth(ctx, libraryID, 12)
}
