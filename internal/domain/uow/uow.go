package uow

import (
	"context"

	"biblioteca-backend/internal/domain/catalog"
	"biblioteca-backend/internal/domain/client"
	"biblioteca-backend/internal/domain/library"
	"biblioteca-backend/internal/domain/loan"
)

// Repos bundles the repositories a transactional flow may touch, all bound
// to the same database transaction.
type Repos struct {
	Loans     loan.Repository
	Copies    catalog.CopyRepository
	Clients   client.Repository
	Libraries library.Repository
}

type UnitOfWork interface {
	// WithinTx runs fn inside a single transaction.
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// WithinCopyTx locks the copy row first, then passes it in. This is the
	// serialization point for loan creation: two requests racing to borrow
	// the same copy are ordered by the row lock.
	WithinCopyTx(ctx context.Context, copyID string, fn func(r Repos, c *catalog.Copy) error) error
	// WithinLoanTx locks the loan row first, then passes it in.
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
