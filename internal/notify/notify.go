// Package notify is the fire-and-forget boundary for transactional email.
// Core flows depend on the Notifier interface only; delivery failures are
// logged and never surfaced to the request that triggered them.
package notify

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"gorm.io/gorm"

	domainLibrary "biblioteca-backend/internal/domain/library"
)

type Notifier interface {
	NotifyLoanCreated(libraryID uint64, to, subject, body string)
	NotifyLoanReturned(libraryID uint64, to, subject, body string)
	// NotifyDirect ignores NotificationSetting toggles (password resets,
	// credential provisioning).
	NotifyDirect(libraryID uint64, to, subject, body string)
}

// Noop satisfies Notifier for tests and unconfigured deployments.
type Noop struct{}

func (Noop) NotifyLoanCreated(uint64, string, string, string)  {}
func (Noop) NotifyLoanReturned(uint64, string, string, string) {}
func (Noop) NotifyDirect(uint64, string, string, string)       {}

// Sender is the transactional-send operation the mailer exposes
// (implemented by the emailaccount usecase).
type Sender interface {
	Send(ctx context.Context, libraryID uint64, to, subject, body string) (string, error)
}

// EmailNotifier sends through a library's Gmail account in a detached
// goroutine so the HTTP response is never blocked on the provider.
type EmailNotifier struct {
	sender   Sender
	settings domainLibrary.Repository
	logger   *slog.Logger
	timeout  time.Duration
}

func NewEmailNotifier(sender Sender, settings domainLibrary.Repository, logger *slog.Logger) *EmailNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &EmailNotifier{sender: sender, settings: settings, logger: logger, timeout: 30 * time.Second}
}

func (n *EmailNotifier) NotifyLoanCreated(libraryID uint64, to, subject, body string) {
	n.dispatch(libraryID, to, subject, body, func(s *domainLibrary.NotificationSetting) bool {
		return s.LoanCreatedEnabled
	})
}

func (n *EmailNotifier) NotifyLoanReturned(libraryID uint64, to, subject, body string) {
	n.dispatch(libraryID, to, subject, body, func(s *domainLibrary.NotificationSetting) bool {
		return s.LoanReturnedEnabled
	})
}

func (n *EmailNotifier) NotifyDirect(libraryID uint64, to, subject, body string) {
	n.dispatch(libraryID, to, subject, body, nil)
}

func (n *EmailNotifier) dispatch(libraryID uint64, to, subject, body string, enabled func(*domainLibrary.NotificationSetting) bool) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		if enabled != nil {
			s, err := n.settings.GetNotificationSetting(ctx, libraryID)
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				return // never configured: stay silent
			case err != nil:
				n.logger.Error("notify: loading notification setting", "library_id", libraryID, "error", err)
				return
			case !enabled(s):
				return
			}
		}

		msgRef := uuid.NewString()
		providerID, err := n.sender.Send(ctx, libraryID, to, subject, body)
		if err != nil {
			n.logger.Error("notify: send failed", "library_id", libraryID, "to", to, "msg_ref", msgRef, "error", err)
			return
		}
		n.logger.Info("notify: sent", "library_id", libraryID, "to", to, "msg_ref", msgRef, "provider_id", providerID)
	}()
}
