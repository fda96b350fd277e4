package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	catalogDomain "biblioteca-backend/internal/domain/catalog"
	loanDomain "biblioteca-backend/internal/domain/loan"
	"biblioteca-backend/internal/domain/uow"
	"biblioteca-backend/pkg/id"
)

func TestGormUoW_WithinCopyTx_Commit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	cl := seedClient(t, db, 1)
	_, cp := seedBookWithCopy(t, db, 1)

	guow := NewGormUoW(db)
	loanID := id.NewID32()

	err := guow.WithinCopyTx(ctx, cp.CopyID, func(r uow.Repos, locked *catalogDomain.Copy) error {
		if locked.Status != catalogDomain.CopyAvailable {
			t.Fatalf("locked copy status=%s", locked.Status)
		}
		if locked.Book == nil || locked.Book.Title != "Dom Casmurro" {
			t.Fatalf("locked copy book not loaded: %+v", locked.Book)
		}

		l := &loanDomain.Loan{
			LoanID:    loanID,
			CopyID:    locked.ID,
			ClientID:  cl.ID,
			LibraryID: cl.LibraryID,
			LoanDate:  time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
			DueDate:   time.Date(2026, 3, 25, 0, 0, 0, 0, time.UTC),
			Status:    loanDomain.StatusOngoing,
		}
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		locked.Status = catalogDomain.CopyBorrowed
		return r.Copies.Save(ctx, locked)
	})
	if err != nil {
		t.Fatalf("WithinCopyTx: %v", err)
	}

	// both writes visible after commit
	got, err := NewLoanRepository(db).GetByLoanID(ctx, loanID)
	if err != nil {
		t.Fatalf("loan not visible after commit: %v", err)
	}
	if got.Status != loanDomain.StatusOngoing {
		t.Fatalf("status=%s", got.Status)
	}
	cpAfter, err := NewCopyRepository(db).GetByCopyID(ctx, cp.CopyID)
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	if cpAfter.Status != catalogDomain.CopyBorrowed {
		t.Fatalf("copy status=%s, want borrowed", cpAfter.Status)
	}
}

func TestGormUoW_WithinCopyTx_RollsBackOnError(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	cl := seedClient(t, db, 1)
	_, cp := seedBookWithCopy(t, db, 1)

	guow := NewGormUoW(db)
	sentinel := errors.New("boom")
	loanID := id.NewID32()

	err := guow.WithinCopyTx(ctx, cp.CopyID, func(r uow.Repos, locked *catalogDomain.Copy) error {
		l := &loanDomain.Loan{
			LoanID:   loanID,
			CopyID:   locked.ID,
			ClientID: cl.ID,
			LoanDate: time.Now().UTC(),
			DueDate:  time.Now().UTC(),
			Status:   loanDomain.StatusOngoing,
		}
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		locked.Status = catalogDomain.CopyBorrowed
		if err := r.Copies.Save(ctx, locked); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("err=%v, want sentinel", err)
	}

	if _, err := NewLoanRepository(db).GetByLoanID(ctx, loanID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("loan survived rollback: %v", err)
	}
	cpAfter, err := NewCopyRepository(db).GetByCopyID(ctx, cp.CopyID)
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	if cpAfter.Status != catalogDomain.CopyAvailable {
		t.Fatalf("copy status=%s, want available after rollback", cpAfter.Status)
	}
}

func TestGormUoW_WithinCopyTx_UnknownCopy(t *testing.T) {
	db := openTestDB(t)
	guow := NewGormUoW(db)

	err := guow.WithinCopyTx(context.Background(), "eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee",
		func(uow.Repos, *catalogDomain.Copy) error {
			t.Fatal("fn must not run for an unknown copy")
			return nil
		})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("err=%v, want ErrRecordNotFound", err)
	}
}

func TestGormUoW_WithinLoanTx_MutatesUnderLock(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	cl := seedClient(t, db, 1)
	_, cp := seedBookWithCopy(t, db, 1)
	l := seedLoan(t, db, cp, cl, time.Date(2026, 3, 25, 0, 0, 0, 0, time.UTC))

	guow := NewGormUoW(db)
	err := guow.WithinLoanTx(ctx, l.LoanID, func(r uow.Repos, locked *loanDomain.Loan) error {
		locked.Status = loanDomain.StatusReturned
		ret := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
		locked.ReturnDate = &ret
		return r.Loans.Save(ctx, locked)
	})
	if err != nil {
		t.Fatalf("WithinLoanTx: %v", err)
	}

	got, err := NewLoanRepository(db).GetByLoanID(ctx, l.LoanID)
	if err != nil {
		t.Fatalf("GetByLoanID: %v", err)
	}
	if got.Status != loanDomain.StatusReturned || got.ReturnDate == nil {
		t.Fatalf("loan not updated: %+v", got)
	}
}
