package loan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"biblioteca-backend/internal/domain/catalog"
	domainClient "biblioteca-backend/internal/domain/client"
	domainLibrary "biblioteca-backend/internal/domain/library"
	domainLoan "biblioteca-backend/internal/domain/loan"
	"biblioteca-backend/internal/domain/uow"
	"biblioteca-backend/internal/notify"
	"biblioteca-backend/pkg/id"
)

type Usecase struct {
	repo     domainLoan.Repository
	clients  domainClient.Repository
	libs     domainLibrary.Repository
	uow      uow.UnitOfWork
	notifier notify.Notifier
	now      func() time.Time
}

// NewUsecase: reads go through the repos, every transition goes through the
// UoW. notifier may be notify.Noop{}.
func NewUsecase(repo domainLoan.Repository, clients domainClient.Repository, libs domainLibrary.Repository, tx uow.UnitOfWork, n notify.Notifier) *Usecase {
	if n == nil {
		n = notify.Noop{}
	}
	return &Usecase{repo: repo, clients: clients, libs: libs, uow: tx, notifier: n, now: time.Now}
}

func (u *Usecase) today() time.Time {
	y, m, d := u.now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// loanPolicyFor falls back to the defaults when the library never configured
// a policy row.
func loanPolicyFor(ctx context.Context, libs domainLibrary.Repository, libraryID uint64) (*domainLibrary.LoanPolicy, error) {
	p, err := libs.GetLoanPolicy(ctx, libraryID)
	switch {
	case err == nil:
		return p, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domainLibrary.DefaultLoanPolicy(libraryID), nil
	default:
		return nil, err
	}
}

// Create issues a loan for an available copy. The copy row is locked for the
// whole transaction, so the availability check and the status flip cannot
// interleave with a concurrent request for the same copy.
func (u *Usecase) Create(ctx context.Context, in CreateLoanInput) (*LoanDTO, error) {
	if in.CopyID == "" || in.ClientID == "" {
		return nil, domainLoan.ErrInvalidTransition
	}

	var dto *LoanDTO
	err := u.uow.WithinCopyTx(ctx, in.CopyID, func(r uow.Repos, c *catalog.Copy) error {
		if c.Status != catalog.CopyAvailable {
			return domainLoan.ErrCopyUnavailable
		}

		cl, err := r.Clients.GetByClientID(ctx, in.ClientID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainLoan.ErrClientNotFound
			}
			return err
		}

		pol, err := loanPolicyFor(ctx, r.Libraries, cl.LibraryID)
		if err != nil {
			return err
		}
		ongoing, err := r.Loans.CountOngoingByClient(ctx, cl.ID)
		if err != nil {
			return err
		}
		if ongoing >= int64(pol.LoanLimit) {
			return domainLoan.ErrClientLoanLimit
		}

		today := u.today()
		l := &domainLoan.Loan{
			LoanID:    id.NewID32(),
			CopyID:    c.ID,
			ClientID:  cl.ID,
			LibraryID: cl.LibraryID,
			LoanDate:  today,
			DueDate:   today.AddDate(0, 0, pol.LoanPeriodDays),
			Status:    domainLoan.StatusOngoing,
		}
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}

		c.Status = catalog.CopyBorrowed
		if err := r.Copies.Save(ctx, c); err != nil {
			return err
		}

		l.Copy, l.Client = c, cl
		dto = toDTO(l, u.now())
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainLoan.ErrCopyNotFound
		}
		return nil, err
	}

	u.notifyLoanCreated(dto)
	return dto, nil
}

// Return closes an ongoing loan and frees the copy. A second return of the
// same loan fails with ErrAlreadyReturned and changes nothing.
func (u *Usecase) Return(ctx context.Context, loanID string, returningUserID uint64) (*LoanDTO, error) {
	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if l.Status != domainLoan.StatusOngoing {
			return domainLoan.ErrAlreadyReturned
		}

		today := u.today()
		l.Status = domainLoan.StatusReturned
		l.ReturnDate = &today
		l.UserID = &returningUserID
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}

		c, err := r.Copies.GetByIDForUpdate(ctx, l.CopyID)
		if err != nil {
			return err
		}
		c.Status = catalog.CopyAvailable
		if err := r.Copies.Save(ctx, c); err != nil {
			return err
		}

		if cl, err := r.Clients.GetByID(ctx, l.ClientID); err == nil {
			l.Client = cl
		}
		l.Copy = c
		dto = toDTO(l, u.now())
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainLoan.ErrNotFound
		}
		return nil, err
	}

	u.notifyLoanReturned(dto)
	return dto, nil
}

// Renew extends the due date by the library period, counted from the current
// due date rather than from today. Overdue loans and loans at the renewal cap
// are rejected.
func (u *Usecase) Renew(ctx context.Context, loanID string) (*LoanDTO, error) {
	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if l.Status != domainLoan.StatusOngoing {
			return domainLoan.ErrInvalidTransition
		}
		if l.Overdue(u.now()) {
			return domainLoan.ErrOverdue
		}

		pol, err := loanPolicyFor(ctx, r.Libraries, l.LibraryID)
		if err != nil {
			return err
		}
		if l.RenewalsCount >= pol.RenewalsAllowed {
			return domainLoan.ErrRenewalLimit
		}

		l.DueDate = l.DueDate.AddDate(0, 0, pol.LoanPeriodDays)
		l.RenewalsCount++
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}

		dto = toDTO(l, u.now())
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainLoan.ErrNotFound
		}
		return nil, err
	}
	return dto, nil
}

// Delete is the administrative compensating action: an ongoing loan reverts
// its copy to available before the record is removed.
func (u *Usecase) Delete(ctx context.Context, loanID string) error {
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if l.Status == domainLoan.StatusOngoing {
			c, err := r.Copies.GetByIDForUpdate(ctx, l.CopyID)
			if err != nil {
				return err
			}
			c.Status = catalog.CopyAvailable
			if err := r.Copies.Save(ctx, c); err != nil {
				return err
			}
		}
		return r.Loans.Delete(ctx, l)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainLoan.ErrNotFound
	}
	return err
}

// Get also prices the fine on an overdue loan: days late times the library's
// daily fine, capped. No fine policy row means the fine reads as zero.
func (u *Usecase) Get(ctx context.Context, loanID string) (*LoanDTO, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainLoan.ErrNotFound
		}
		return nil, err
	}
	now := u.now()
	dto := toDTO(l, now)
	if dto.Overdue {
		dto.DaysLate = l.DaysLate(now)
		fine, err := u.libs.GetFinePolicy(ctx, l.LibraryID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		dto.Fine = fine.Fine(dto.DaysLate)
	}
	return dto, nil
}

func (u *Usecase) List(ctx context.Context, f domainLoan.Filter) ([]LoanDTO, error) {
	ls, err := u.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	now := u.now()
	out := make([]LoanDTO, 0, len(ls))
	for i := range ls {
		dto := toDTO(&ls[i], now)
		if f.Overdue && !dto.Overdue {
			continue
		}
		out = append(out, *dto)
	}
	return out, nil
}

// ListByClient resolves the client first so an unknown client id is a 404,
// not an empty list.
func (u *Usecase) ListByClient(ctx context.Context, clientID string) ([]LoanDTO, error) {
	cl, err := u.clients.GetByClientID(ctx, clientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainLoan.ErrClientNotFound
		}
		return nil, err
	}
	return u.List(ctx, domainLoan.Filter{ClientID: cl.ID})
}

func (u *Usecase) notifyLoanCreated(dto *LoanDTO) {
	if dto == nil || dto.ClientEmail == "" {
		return
	}
	subject := "Empréstimo registrado"
	body := fmt.Sprintf("Olá %s,\n\nSeu empréstimo do exemplar %q foi registrado em %s. Devolução até %s.\n",
		dto.ClientName, dto.BookTitle, dto.LoanDate.Format("02/01/2006"), dto.DueDate.Format("02/01/2006"))
	u.notifier.NotifyLoanCreated(dto.LibraryID, dto.ClientEmail, subject, body)
}

func (u *Usecase) notifyLoanReturned(dto *LoanDTO) {
	if dto == nil || dto.ClientEmail == "" {
		return
	}
	subject := "Devolução confirmada"
	body := fmt.Sprintf("Olá %s,\n\nA devolução do exemplar %q foi registrada em %s. Obrigado!\n",
		dto.ClientName, dto.BookTitle, u.today().Format("02/01/2006"))
	u.notifier.NotifyLoanReturned(dto.LibraryID, dto.ClientEmail, subject, body)
}
