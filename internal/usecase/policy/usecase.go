// Package policy exposes the per-library singleton configuration rows.
package policy

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domainLibrary "biblioteca-backend/internal/domain/library"
)

type Usecase struct{ libs domainLibrary.Repository }

func NewUsecase(libs domainLibrary.Repository) *Usecase { return &Usecase{libs: libs} }

func (u *Usecase) libraryExists(ctx context.Context, libraryID uint64) error {
	if _, err := u.libs.GetByID(ctx, libraryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domainLibrary.ErrNotFound
		}
		return err
	}
	return nil
}

// GetLoanPolicy returns the stored row, or the defaults when none exists —
// reads never 404 on a missing singleton, only on a missing library.
func (u *Usecase) GetLoanPolicy(ctx context.Context, libraryID uint64) (*domainLibrary.LoanPolicy, error) {
	if err := u.libraryExists(ctx, libraryID); err != nil {
		return nil, err
	}
	p, err := u.libs.GetLoanPolicy(ctx, libraryID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainLibrary.DefaultLoanPolicy(libraryID), nil
	}
	return p, err
}

type LoanPolicyInput struct {
	LoanLimit       int `json:"loan_limit" validate:"required,gte=1,lte=100"`
	LoanPeriodDays  int `json:"loan_period_days" validate:"required,gte=1,lte=365"`
	RenewalsAllowed int `json:"renewals_allowed" validate:"gte=0,lte=20"`
}

func (u *Usecase) PutLoanPolicy(ctx context.Context, libraryID uint64, in LoanPolicyInput) (*domainLibrary.LoanPolicy, error) {
	if err := u.libraryExists(ctx, libraryID); err != nil {
		return nil, err
	}
	p := &domainLibrary.LoanPolicy{
		LibraryID:       libraryID,
		LoanLimit:       in.LoanLimit,
		LoanPeriodDays:  in.LoanPeriodDays,
		RenewalsAllowed: in.RenewalsAllowed,
	}
	if err := u.libs.UpsertLoanPolicy(ctx, p); err != nil {
		return nil, err
	}
	return u.libs.GetLoanPolicy(ctx, libraryID)
}

func (u *Usecase) GetFinePolicy(ctx context.Context, libraryID uint64) (*domainLibrary.FinePolicy, error) {
	if err := u.libraryExists(ctx, libraryID); err != nil {
		return nil, err
	}
	p, err := u.libs.GetFinePolicy(ctx, libraryID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &domainLibrary.FinePolicy{LibraryID: libraryID}, nil
	}
	return p, err
}

type FinePolicyInput struct {
	DailyFine float64 `json:"daily_fine" validate:"gte=0"`
	MaxFine   float64 `json:"max_fine" validate:"gte=0"`
}

func (u *Usecase) PutFinePolicy(ctx context.Context, libraryID uint64, in FinePolicyInput) (*domainLibrary.FinePolicy, error) {
	if err := u.libraryExists(ctx, libraryID); err != nil {
		return nil, err
	}
	p := &domainLibrary.FinePolicy{LibraryID: libraryID, DailyFine: in.DailyFine, MaxFine: in.MaxFine}
	if err := u.libs.UpsertFinePolicy(ctx, p); err != nil {
		return nil, err
	}
	return u.libs.GetFinePolicy(ctx, libraryID)
}

func (u *Usecase) GetNotificationSetting(ctx context.Context, libraryID uint64) (*domainLibrary.NotificationSetting, error) {
	if err := u.libraryExists(ctx, libraryID); err != nil {
		return nil, err
	}
	s, err := u.libs.GetNotificationSetting(ctx, libraryID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &domainLibrary.NotificationSetting{LibraryID: libraryID}, nil
	}
	return s, err
}

type NotificationSettingInput struct {
	LoanCreatedEnabled     bool   `json:"loan_created_enabled"`
	LoanReturnedEnabled    bool   `json:"loan_returned_enabled"`
	OverdueReminderEnabled bool   `json:"overdue_reminder_enabled"`
	ReplyTo                string `json:"reply_to" validate:"omitempty,email"`
}

func (u *Usecase) PutNotificationSetting(ctx context.Context, libraryID uint64, in NotificationSettingInput) (*domainLibrary.NotificationSetting, error) {
	if err := u.libraryExists(ctx, libraryID); err != nil {
		return nil, err
	}
	s := &domainLibrary.NotificationSetting{
		LibraryID:              libraryID,
		LoanCreatedEnabled:     in.LoanCreatedEnabled,
		LoanReturnedEnabled:    in.LoanReturnedEnabled,
		OverdueReminderEnabled: in.OverdueReminderEnabled,
		ReplyTo:                in.ReplyTo,
	}
	if err := u.libs.UpsertNotificationSetting(ctx, s); err != nil {
		return nil, err
	}
	return u.libs.GetNotificationSetting(ctx, libraryID)
}

func (u *Usecase) GetEmailAccount(ctx context.Context, libraryID uint64) (*domainLibrary.EmailAccount, error) {
	if err := u.libraryExists(ctx, libraryID); err != nil {
		return nil, err
	}
	a, err := u.libs.GetEmailAccount(ctx, libraryID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainLibrary.ErrEmailNotConfigured
	}
	return a, err
}

type EmailAccountInput struct {
	GmailUserEmail string `json:"gmail_user_email" validate:"required,email"`
}

// PutEmailAccount creates or re-points the account. Changing the Gmail user
// does not carry old credentials over.
func (u *Usecase) PutEmailAccount(ctx context.Context, libraryID uint64, in EmailAccountInput) (*domainLibrary.EmailAccount, error) {
	if err := u.libraryExists(ctx, libraryID); err != nil {
		return nil, err
	}
	a := &domainLibrary.EmailAccount{
		LibraryID:           libraryID,
		GmailUserEmail:      in.GmailUserEmail,
		AuthorizationStatus: domainLibrary.AuthNotAuthorized,
	}
	if err := u.libs.UpsertEmailAccount(ctx, a); err != nil {
		return nil, err
	}
	return u.libs.GetEmailAccount(ctx, libraryID)
}
