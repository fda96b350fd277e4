package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	libraryDomain "biblioteca-backend/internal/domain/library"
)

type LibraryRepository struct{ db *gorm.DB }

func NewLibraryRepository(db *gorm.DB) *LibraryRepository { return &LibraryRepository{db: db} }

func (r *LibraryRepository) GetByID(ctx context.Context, id uint64) (*libraryDomain.Library, error) {
	var out libraryDomain.Library
	res := r.db.WithContext(ctx).First(&out, id)
	return &out, res.Error
}

// Singleton rows are upserted keyed on library_id; the unique index makes a
// concurrent duplicate insert lose to the first writer instead of creating
// a second row.

func (r *LibraryRepository) GetLoanPolicy(ctx context.Context, libraryID uint64) (*libraryDomain.LoanPolicy, error) {
	var out libraryDomain.LoanPolicy
	res := r.db.WithContext(ctx).Where("library_id = ?", libraryID).First(&out)
	return &out, res.Error
}

func (r *LibraryRepository) UpsertLoanPolicy(ctx context.Context, p *libraryDomain.LoanPolicy) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "library_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"loan_limit", "loan_period_days", "renewals_allowed", "updated_at"}),
		}).
		Create(p).Error
}

func (r *LibraryRepository) GetFinePolicy(ctx context.Context, libraryID uint64) (*libraryDomain.FinePolicy, error) {
	var out libraryDomain.FinePolicy
	res := r.db.WithContext(ctx).Where("library_id = ?", libraryID).First(&out)
	return &out, res.Error
}

func (r *LibraryRepository) UpsertFinePolicy(ctx context.Context, p *libraryDomain.FinePolicy) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "library_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"daily_fine", "max_fine", "updated_at"}),
		}).
		Create(p).Error
}

func (r *LibraryRepository) GetNotificationSetting(ctx context.Context, libraryID uint64) (*libraryDomain.NotificationSetting, error) {
	var out libraryDomain.NotificationSetting
	res := r.db.WithContext(ctx).Where("library_id = ?", libraryID).First(&out)
	return &out, res.Error
}

func (r *LibraryRepository) UpsertNotificationSetting(ctx context.Context, s *libraryDomain.NotificationSetting) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "library_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"loan_created_enabled", "loan_returned_enabled", "overdue_reminder_enabled", "reply_to", "updated_at"}),
		}).
		Create(s).Error
}

func (r *LibraryRepository) GetEmailAccount(ctx context.Context, libraryID uint64) (*libraryDomain.EmailAccount, error) {
	var out libraryDomain.EmailAccount
	res := r.db.WithContext(ctx).Where("library_id = ?", libraryID).First(&out)
	return &out, res.Error
}

// UpsertEmailAccount re-points the account at a Gmail address. Stored
// credentials never carry over to the new address.
func (r *LibraryRepository) UpsertEmailAccount(ctx context.Context, a *libraryDomain.EmailAccount) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "library_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"gmail_user_email", "gmail_oauth_token", "gmail_refresh_token",
				"token_expires_at", "authorization_status", "authorized_at", "updated_at",
			}),
		}).
		Create(a).Error
}

func (r *LibraryRepository) SaveEmailAccount(ctx context.Context, a *libraryDomain.EmailAccount) error {
	return r.db.WithContext(ctx).Save(a).Error
}
