package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	loanDomain "biblioteca-backend/internal/domain/loan"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LoanRepository) Delete(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Delete(l).Error
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Preload("Copy").Preload("Copy.Book").Preload("Client").
		Where("loan_id = ?", loanID).
		First(&out)
	return &out, res.Error
}

// GetByLoanIDForUpdate takes a FOR UPDATE row lock; only meaningful inside a
// transaction (see GormUoW.WithinLoanTx). No preloads — associations are not
// needed under the lock.
func (r *LoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("loan_id = ?", loanID).
		First(&out)
	return &out, res.Error
}

func (r *LoanRepository) CountOngoingByClient(ctx context.Context, clientID uint64) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).
		Model(&loanDomain.Loan{}).
		Where("client_id = ? AND status = ?", clientID, loanDomain.StatusOngoing).
		Count(&n)
	return n, res.Error
}

func (r *LoanRepository) CountOngoingByCopy(ctx context.Context, copyID uint64) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).
		Model(&loanDomain.Loan{}).
		Where("copy_id = ? AND status = ?", copyID, loanDomain.StatusOngoing).
		Count(&n)
	return n, res.Error
}

func (r *LoanRepository) List(ctx context.Context, f loanDomain.Filter) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	q := r.db.WithContext(ctx).
		Preload("Copy").Preload("Copy.Book").Preload("Client").
		Order("loan_date DESC, id DESC")
	if f.LibraryID != 0 {
		q = q.Where("library_id = ?", f.LibraryID)
	}
	if f.ClientID != 0 {
		q = q.Where("client_id = ?", f.ClientID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	res := q.Find(&out)
	return out, res.Error
}
