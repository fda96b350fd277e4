package library

import "context"

type Repository interface {
	GetByID(ctx context.Context, id uint64) (*Library, error)

	GetLoanPolicy(ctx context.Context, libraryID uint64) (*LoanPolicy, error)
	UpsertLoanPolicy(ctx context.Context, p *LoanPolicy) error

	GetFinePolicy(ctx context.Context, libraryID uint64) (*FinePolicy, error)
	UpsertFinePolicy(ctx context.Context, p *FinePolicy) error

	GetNotificationSetting(ctx context.Context, libraryID uint64) (*NotificationSetting, error)
	UpsertNotificationSetting(ctx context.Context, s *NotificationSetting) error

	GetEmailAccount(ctx context.Context, libraryID uint64) (*EmailAccount, error)
	UpsertEmailAccount(ctx context.Context, a *EmailAccount) error
	SaveEmailAccount(ctx context.Context, a *EmailAccount) error
}
