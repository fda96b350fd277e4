package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"

	catalogDomain "biblioteca-backend/internal/domain/catalog"
	clientDomain "biblioteca-backend/internal/domain/client"
	loanDomain "biblioteca-backend/internal/domain/loan"
	"biblioteca-backend/internal/usecase/dashboard"
)

type DashboardRepository struct{ db *gorm.DB }

func NewDashboardRepository(db *gorm.DB) *DashboardRepository { return &DashboardRepository{db: db} }

func (r *DashboardRepository) Totals(ctx context.Context, libraryID uint64, today time.Time) (dashboard.Stats, error) {
	var s dashboard.Stats
	db := r.db.WithContext(ctx)

	scoped := func(q *gorm.DB) *gorm.DB {
		if libraryID != 0 {
			return q.Where("library_id = ?", libraryID)
		}
		return q
	}

	if err := scoped(db.Model(&catalogDomain.Book{})).Count(&s.Books).Error; err != nil {
		return s, err
	}
	if err := scoped(db.Model(&catalogDomain.Copy{})).Count(&s.Copies).Error; err != nil {
		return s, err
	}
	if err := scoped(db.Model(&clientDomain.Client{})).Count(&s.Clients).Error; err != nil {
		return s, err
	}
	if err := scoped(db.Model(&loanDomain.Loan{})).
		Where("status = ?", loanDomain.StatusOngoing).
		Count(&s.OngoingLoans).Error; err != nil {
		return s, err
	}
	if err := scoped(db.Model(&loanDomain.Loan{})).
		Where("status = ? AND due_date < ?", loanDomain.StatusOngoing, today).
		Count(&s.OverdueLoans).Error; err != nil {
		return s, err
	}
	return s, nil
}

func (r *DashboardRepository) OverdueLoans(ctx context.Context, libraryID uint64, today time.Time) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	q := r.db.WithContext(ctx).
		Preload("Copy").Preload("Copy.Book").Preload("Client").
		Where("status = ? AND due_date < ?", loanDomain.StatusOngoing, today).
		Order("due_date ASC")
	if libraryID != 0 {
		q = q.Where("library_id = ?", libraryID)
	}
	res := q.Find(&out)
	return out, res.Error
}

func (r *DashboardRepository) LoansPerMonth(ctx context.Context, libraryID uint64, months int) ([]dashboard.MonthCount, error) {
	var out []dashboard.MonthCount
	since := time.Now().UTC().AddDate(0, -months, 0)

	// sqlite (tests) has no DATE_FORMAT
	monthExpr := "DATE_FORMAT(loan_date, '%Y-%m')"
	if r.db.Dialector.Name() == "sqlite" {
		monthExpr = "strftime('%Y-%m', loan_date)"
	}

	q := r.db.WithContext(ctx).
		Model(&loanDomain.Loan{}).
		Select(monthExpr + " AS month, COUNT(*) AS count").
		Where("loan_date >= ?", since).
		Group("month").
		Order("month ASC")
	if libraryID != 0 {
		q = q.Where("library_id = ?", libraryID)
	}
	res := q.Scan(&out)
	return out, res.Error
}
