package mysql

import (
	"context"

	"gorm.io/gorm"

	"biblioteca-backend/internal/domain/catalog"
	"biblioteca-backend/internal/domain/loan"
	"biblioteca-backend/internal/domain/uow"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func reposFor(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Loans:     &LoanRepository{db: tx},
		Copies:    &CopyRepository{db: tx},
		Clients:   &ClientRepository{db: tx},
		Libraries: &LibraryRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

func (u *GormUoW) WithinCopyTx(ctx context.Context, copyID string, fn func(r uow.Repos, c *catalog.Copy) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		// lock the copy row up-front: serializes racing borrow attempts
		c, err := r.Copies.GetByCopyIDForUpdate(ctx, copyID)
		if err != nil {
			return err
		}
		return fn(r, c)
	})
}

func (u *GormUoW) WithinLoanTx(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		l, err := r.Loans.GetByLoanIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		return fn(r, l)
	})
}
