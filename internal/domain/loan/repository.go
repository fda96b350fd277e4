package loan

import "context"

// Filter narrows List; zero values mean "no filter".
type Filter struct {
	LibraryID uint64
	ClientID  uint64
	Status    Status
	// Overdue is derived from due_date and is applied by the usecase after
	// load, not in SQL.
	Overdue bool
}

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// GetByLoanIDForUpdate locks the loan row for the enclosing transaction.
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	CountOngoingByClient(ctx context.Context, clientID uint64) (int64, error)
	CountOngoingByCopy(ctx context.Context, copyID uint64) (int64, error)
	List(ctx context.Context, f Filter) ([]Loan, error)
	Save(ctx context.Context, l *Loan) error
	Delete(ctx context.Context, l *Loan) error
}
