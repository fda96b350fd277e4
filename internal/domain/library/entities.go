package library

import "time"

type Library struct {
	ID        uint64    `gorm:"primaryKey;column:id" json:"id"`
	Name      string    `gorm:"size:160" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Library) TableName() string { return "libraries" }

// Policy defaults used whenever a library has no explicit LoanPolicy row.
const (
	DefaultLoanPeriodDays  = 15
	DefaultLoanLimit       = 5
	DefaultRenewalsAllowed = 2
)

// LoanPolicy is a has-one singleton per library; the unique index on
// library_id guards duplicate-row races on concurrent creation.
type LoanPolicy struct {
	ID              uint64    `gorm:"primaryKey;column:id" json:"-"`
	LibraryID       uint64    `gorm:"uniqueIndex:ux_loan_policies_library" json:"library_id"`
	LoanLimit       int       `gorm:"default:5" json:"loan_limit"`
	LoanPeriodDays  int       `gorm:"default:15" json:"loan_period_days"`
	RenewalsAllowed int       `gorm:"default:2" json:"renewals_allowed"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (LoanPolicy) TableName() string { return "loan_policies" }

// DefaultLoanPolicy is what the loan flow uses when no row exists.
func DefaultLoanPolicy(libraryID uint64) *LoanPolicy {
	return &LoanPolicy{
		LibraryID:       libraryID,
		LoanLimit:       DefaultLoanLimit,
		LoanPeriodDays:  DefaultLoanPeriodDays,
		RenewalsAllowed: DefaultRenewalsAllowed,
	}
}

type FinePolicy struct {
	ID        uint64    `gorm:"primaryKey;column:id" json:"-"`
	LibraryID uint64    `gorm:"uniqueIndex:ux_fine_policies_library" json:"library_id"`
	DailyFine float64   `gorm:"type:decimal(10,2)" json:"daily_fine"`
	MaxFine   float64   `gorm:"type:decimal(10,2)" json:"max_fine"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (FinePolicy) TableName() string { return "fine_policies" }

// Fine computes the accrued fine for daysLate, capped at MaxFine when set.
func (p *FinePolicy) Fine(daysLate int) float64 {
	if p == nil || daysLate <= 0 {
		return 0
	}
	f := float64(daysLate) * p.DailyFine
	if p.MaxFine > 0 && f > p.MaxFine {
		return p.MaxFine
	}
	return f
}

type NotificationSetting struct {
	ID                     uint64    `gorm:"primaryKey;column:id" json:"-"`
	LibraryID              uint64    `gorm:"uniqueIndex:ux_notification_settings_library" json:"library_id"`
	LoanCreatedEnabled     bool      `json:"loan_created_enabled"`
	LoanReturnedEnabled    bool      `json:"loan_returned_enabled"`
	OverdueReminderEnabled bool      `json:"overdue_reminder_enabled"`
	ReplyTo                string    `gorm:"size:160" json:"reply_to"`
	CreatedAt              time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (NotificationSetting) TableName() string { return "notification_settings" }

// AuthorizationStatus is the OAuth credential lifecycle state of an
// EmailAccount.
type AuthorizationStatus string

const (
	AuthNotAuthorized AuthorizationStatus = "not_authorized"
	AuthAuthorized    AuthorizationStatus = "authorized"
	AuthExpired       AuthorizationStatus = "expired"
	AuthRevoked       AuthorizationStatus = "revoked"
	AuthFailed        AuthorizationStatus = "failed"
)

// EmailAccount holds the per-library Gmail OAuth credential set.
type EmailAccount struct {
	ID                  uint64              `gorm:"primaryKey;column:id" json:"-"`
	LibraryID           uint64              `gorm:"uniqueIndex:ux_email_accounts_library" json:"library_id"`
	GmailUserEmail      string              `gorm:"size:160" json:"gmail_user_email"`
	GmailOAuthToken     string              `gorm:"column:gmail_oauth_token;type:text" json:"-"`
	GmailRefreshToken   string              `gorm:"column:gmail_refresh_token;type:text" json:"-"`
	TokenExpiresAt      *time.Time          `json:"token_expires_at,omitempty"`
	AuthorizationStatus AuthorizationStatus `gorm:"size:20;default:'not_authorized'" json:"authorization_status"`
	AuthorizedAt        *time.Time          `json:"authorized_at,omitempty"`
	CreatedAt           time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

func (EmailAccount) TableName() string { return "email_accounts" }

// ValidCredentials reports whether the account can authenticate a send:
// a live access token, or a refresh token that allows silent renewal.
func (a *EmailAccount) ValidCredentials(now time.Time) bool {
	if a.GmailOAuthToken != "" && (a.TokenExpiresAt == nil || a.TokenExpiresAt.After(now)) {
		return true
	}
	return a.GmailRefreshToken != ""
}

// TokenExpired is true when an access token exists but its expiry has passed.
func (a *EmailAccount) TokenExpired(now time.Time) bool {
	return a.GmailOAuthToken != "" && a.TokenExpiresAt != nil && !a.TokenExpiresAt.After(now)
}

// ClearCredentials nulls every credential field and marks the account
// revoked. Called unconditionally on revocation, whatever the remote
// revoke call returned.
func (a *EmailAccount) ClearCredentials() {
	a.GmailOAuthToken = ""
	a.GmailRefreshToken = ""
	a.TokenExpiresAt = nil
	a.AuthorizedAt = nil
	a.AuthorizationStatus = AuthRevoked
}
