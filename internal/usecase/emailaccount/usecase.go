// Package emailaccount drives the per-library Gmail credential lifecycle:
// not_authorized → authorized → expired → authorized, with revoked and
// failed as administrative exits.
package emailaccount

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	domainLibrary "biblioteca-backend/internal/domain/library"
	"biblioteca-backend/internal/infrastructure/google"
	"biblioteca-backend/pkg/id"
)

// Provider is the slice of the Google client this usecase needs.
type Provider interface {
	AuthCodeURL(state, loginHint string) string
	ExchangeCode(ctx context.Context, code string) (*google.Token, error)
	RefreshToken(ctx context.Context, refreshToken string) (*google.Token, error)
	Revoke(ctx context.Context, token string) error
	SendMessage(ctx context.Context, accessToken, from, to, subject, body string) (string, error)
}

// StateStore holds single-use CSRF nonces between the authorize redirect and
// the provider callback.
type StateStore interface {
	Put(ctx context.Context, nonce string, libraryID uint64, ttl time.Duration) error
	// Consume removes the nonce, returning the library it was issued for.
	Consume(ctx context.Context, nonce string) (uint64, bool, error)
}

var (
	ErrInvalidState  = errors.New("emailaccount: invalid or expired state")
	ErrStateMismatch = errors.New("emailaccount: state issued for another library")
)

const stateTTL = 10 * time.Minute

// oauthState is what travels inside the opaque state parameter.
type oauthState struct {
	LibraryID uint64 `json:"library_id"`
	Nonce     string `json:"nonce"`
}

type Usecase struct {
	libs     domainLibrary.Repository
	provider Provider
	states   StateStore
	logger   *slog.Logger
	now      func() time.Time
}

func NewUsecase(libs domainLibrary.Repository, p Provider, states StateStore, logger *slog.Logger) *Usecase {
	if logger == nil {
		logger = slog.Default()
	}
	return &Usecase{libs: libs, provider: p, states: states, logger: logger, now: time.Now}
}

func (u *Usecase) account(ctx context.Context, libraryID uint64) (*domainLibrary.EmailAccount, error) {
	acct, err := u.libs.GetEmailAccount(ctx, libraryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainLibrary.ErrEmailNotConfigured
		}
		return nil, err
	}
	return acct, nil
}

// AuthorizationURL issues the consent URL for a library's email account.
// The state embeds the library id plus a single-use nonce.
func (u *Usecase) AuthorizationURL(ctx context.Context, libraryID uint64) (string, error) {
	acct, err := u.account(ctx, libraryID)
	if err != nil {
		return "", err
	}

	nonce := id.NewID32()
	if err := u.states.Put(ctx, nonce, libraryID, stateTTL); err != nil {
		return "", errors.Wrap(err, "storing oauth state")
	}
	raw, _ := json.Marshal(oauthState{LibraryID: libraryID, Nonce: nonce})
	state := base64.RawURLEncoding.EncodeToString(raw)

	return u.provider.AuthCodeURL(state, acct.GmailUserEmail), nil
}

// HandleCallback validates the echoed state, exchanges the code and persists
// the credentials. An exchange failure marks the account failed and persists
// nothing else.
func (u *Usecase) HandleCallback(ctx context.Context, libraryID uint64, code, state string) (*domainLibrary.EmailAccount, error) {
	acct, err := u.account(ctx, libraryID)
	if err != nil {
		return nil, err
	}

	raw, err := base64.RawURLEncoding.DecodeString(state)
	if err != nil {
		return nil, ErrInvalidState
	}
	var st oauthState
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, ErrInvalidState
	}
	if st.LibraryID != libraryID {
		return nil, ErrStateMismatch
	}
	owner, ok, err := u.states.Consume(ctx, st.Nonce)
	if err != nil {
		return nil, errors.Wrap(err, "consuming oauth state")
	}
	if !ok || owner != libraryID {
		return nil, ErrInvalidState
	}

	tok, err := u.provider.ExchangeCode(ctx, code)
	if err != nil {
		acct.AuthorizationStatus = domainLibrary.AuthFailed
		if saveErr := u.libs.SaveEmailAccount(ctx, acct); saveErr != nil {
			u.logger.Error("emailaccount: persisting failed status", "library_id", libraryID, "error", saveErr)
		}
		return nil, errors.Wrap(err, "exchanging authorization code")
	}

	now := u.now().UTC()
	acct.GmailOAuthToken = tok.AccessToken
	if tok.RefreshToken != "" {
		acct.GmailRefreshToken = tok.RefreshToken
	}
	expires := tok.ExpiresAt
	acct.TokenExpiresAt = &expires
	acct.AuthorizationStatus = domainLibrary.AuthAuthorized
	acct.AuthorizedAt = &now
	if err := u.libs.SaveEmailAccount(ctx, acct); err != nil {
		return nil, err
	}
	return acct, nil
}

// RefreshAccessToken renews the access token in place. On failure the
// account is marked expired and the error surfaced — no retry loop here;
// Send owns the single retry.
func (u *Usecase) RefreshAccessToken(ctx context.Context, acct *domainLibrary.EmailAccount) error {
	if acct.GmailRefreshToken == "" {
		return domainLibrary.ErrRefreshTokenMissing
	}
	tok, err := u.provider.RefreshToken(ctx, acct.GmailRefreshToken)
	if err != nil {
		acct.AuthorizationStatus = domainLibrary.AuthExpired
		if saveErr := u.libs.SaveEmailAccount(ctx, acct); saveErr != nil {
			u.logger.Error("emailaccount: persisting expired status", "library_id", acct.LibraryID, "error", saveErr)
		}
		return errors.Wrap(err, "refreshing access token")
	}

	acct.GmailOAuthToken = tok.AccessToken
	if tok.RefreshToken != "" {
		acct.GmailRefreshToken = tok.RefreshToken
	}
	expires := tok.ExpiresAt
	acct.TokenExpiresAt = &expires
	acct.AuthorizationStatus = domainLibrary.AuthAuthorized
	return u.libs.SaveEmailAccount(ctx, acct)
}

// Revoke clears local credentials unconditionally; the remote revoke is
// best-effort and only logged.
func (u *Usecase) Revoke(ctx context.Context, libraryID uint64) (*domainLibrary.EmailAccount, error) {
	acct, err := u.account(ctx, libraryID)
	if err != nil {
		return nil, err
	}

	remote := acct.GmailRefreshToken
	if remote == "" {
		remote = acct.GmailOAuthToken
	}
	if remote != "" {
		if err := u.provider.Revoke(ctx, remote); err != nil {
			u.logger.Warn("emailaccount: remote revoke failed", "library_id", libraryID, "error", err)
		}
	}

	acct.ClearCredentials()
	if err := u.libs.SaveEmailAccount(ctx, acct); err != nil {
		return nil, err
	}
	return acct, nil
}

// Send delivers one message through the library's Gmail account. An expired
// access token is refreshed up-front; a provider 401 triggers one refresh
// and one retry, then the error propagates.
func (u *Usecase) Send(ctx context.Context, libraryID uint64, to, subject, body string) (string, error) {
	acct, err := u.account(ctx, libraryID)
	if err != nil {
		return "", err
	}

	switch acct.AuthorizationStatus {
	case domainLibrary.AuthAuthorized, domainLibrary.AuthExpired:
	default:
		return "", domainLibrary.ErrNotAuthorized
	}
	now := u.now().UTC()
	if !acct.ValidCredentials(now) {
		return "", domainLibrary.ErrNotAuthorized
	}

	if acct.GmailOAuthToken == "" || acct.TokenExpired(now) {
		if err := u.RefreshAccessToken(ctx, acct); err != nil {
			return "", err
		}
	}

	msgID, err := u.provider.SendMessage(ctx, acct.GmailOAuthToken, acct.GmailUserEmail, to, subject, body)
	if errors.Is(err, google.ErrUnauthorized) {
		if rerr := u.RefreshAccessToken(ctx, acct); rerr != nil {
			return "", rerr
		}
		msgID, err = u.provider.SendMessage(ctx, acct.GmailOAuthToken, acct.GmailUserEmail, to, subject, body)
	}
	if err != nil {
		return "", err
	}
	return msgID, nil
}
