package emailaccount

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	domainLibrary "biblioteca-backend/internal/domain/library"
	"biblioteca-backend/internal/infrastructure/google"
)

// ----- test doubles -----

type mockProvider struct {
	AuthCodeURLFn  func(state, loginHint string) string
	ExchangeCodeFn func(ctx context.Context, code string) (*google.Token, error)
	RefreshTokenFn func(ctx context.Context, refreshToken string) (*google.Token, error)
	RevokeFn       func(ctx context.Context, token string) error
	SendMessageFn  func(ctx context.Context, accessToken, from, to, subject, body string) (string, error)
}

func (m *mockProvider) AuthCodeURL(state, loginHint string) string {
	if m.AuthCodeURLFn != nil {
		return m.AuthCodeURLFn(state, loginHint)
	}
	return "https://accounts.example/auth?state=" + url.QueryEscape(state)
}

func (m *mockProvider) ExchangeCode(ctx context.Context, code string) (*google.Token, error) {
	if m.ExchangeCodeFn != nil {
		return m.ExchangeCodeFn(ctx, code)
	}
	return nil, errors.New("not implemented")
}

func (m *mockProvider) RefreshToken(ctx context.Context, refreshToken string) (*google.Token, error) {
	if m.RefreshTokenFn != nil {
		return m.RefreshTokenFn(ctx, refreshToken)
	}
	return nil, errors.New("not implemented")
}

func (m *mockProvider) Revoke(ctx context.Context, token string) error {
	if m.RevokeFn != nil {
		return m.RevokeFn(ctx, token)
	}
	return nil
}

func (m *mockProvider) SendMessage(ctx context.Context, accessToken, from, to, subject, body string) (string, error) {
	if m.SendMessageFn != nil {
		return m.SendMessageFn(ctx, accessToken, from, to, subject, body)
	}
	return "", errors.New("not implemented")
}

// memStateStore is the in-memory stand-in for the redis nonce store.
type memStateStore struct {
	mu     sync.Mutex
	nonces map[string]uint64
}

func newMemStateStore() *memStateStore {
	return &memStateStore{nonces: map[string]uint64{}}
}

func (s *memStateStore) Put(_ context.Context, nonce string, libraryID uint64, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nonces[nonce] = libraryID
	return nil
}

func (s *memStateStore) Consume(_ context.Context, nonce string) (uint64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	libID, ok := s.nonces[nonce]
	delete(s.nonces, nonce)
	return libID, ok, nil
}

// acctRepo holds a single EmailAccount, the way a library has exactly one.
type acctRepo struct {
	domainLibrary.Repository // panics on everything not overridden

	acct  *domainLibrary.EmailAccount
	saves int
}

func (r *acctRepo) GetEmailAccount(_ context.Context, libraryID uint64) (*domainLibrary.EmailAccount, error) {
	if r.acct == nil || r.acct.LibraryID != libraryID {
		return nil, gorm.ErrRecordNotFound
	}
	return r.acct, nil
}

func (r *acctRepo) SaveEmailAccount(_ context.Context, a *domainLibrary.EmailAccount) error {
	r.acct = a
	r.saves++
	return nil
}

// ----- fixtures -----

const libID = uint64(1)

func authorizedAccount(expires time.Time) *domainLibrary.EmailAccount {
	exp := expires
	return &domainLibrary.EmailAccount{
		LibraryID:           libID,
		GmailUserEmail:      "biblioteca@gmail.com",
		GmailOAuthToken:     "access-1",
		GmailRefreshToken:   "refresh-1",
		TokenExpiresAt:      &exp,
		AuthorizationStatus: domainLibrary.AuthAuthorized,
	}
}

type fixture struct {
	repo     *acctRepo
	provider *mockProvider
	states   *memStateStore
	uc       *Usecase
	now      time.Time
}

func newFixture(t *testing.T, acct *domainLibrary.EmailAccount) *fixture {
	t.Helper()
	f := &fixture{
		repo:     &acctRepo{acct: acct},
		provider: &mockProvider{},
		states:   newMemStateStore(),
	}
	f.uc = NewUsecase(f.repo, f.provider, f.states, nil)
	f.now = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	f.uc.now = func() time.Time { return f.now }
	return f
}

func encodeState(t *testing.T, libraryID uint64, nonce string) string {
	t.Helper()
	raw, err := json.Marshal(oauthState{LibraryID: libraryID, Nonce: nonce})
	require.NoError(t, err)
	return base64.RawURLEncoding.EncodeToString(raw)
}

// ----- authorization url -----

func TestAuthorizationURL_EmbedsLibraryAndStoresNonce(t *testing.T) {
	f := newFixture(t, &domainLibrary.EmailAccount{
		LibraryID:           libID,
		GmailUserEmail:      "biblioteca@gmail.com",
		AuthorizationStatus: domainLibrary.AuthNotAuthorized,
	})

	var gotState, gotHint string
	f.provider.AuthCodeURLFn = func(state, hint string) string {
		gotState, gotHint = state, hint
		return "https://accounts.example/auth"
	}

	_, err := f.uc.AuthorizationURL(context.Background(), libID)
	require.NoError(t, err)
	assert.Equal(t, "biblioteca@gmail.com", gotHint)

	raw, err := base64.RawURLEncoding.DecodeString(gotState)
	require.NoError(t, err)
	var st oauthState
	require.NoError(t, json.Unmarshal(raw, &st))
	assert.Equal(t, libID, st.LibraryID)
	assert.Len(t, st.Nonce, 32)

	owner, ok, err := f.states.Consume(context.Background(), st.Nonce)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, libID, owner)
}

func TestAuthorizationURL_UnconfiguredLibrary(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.uc.AuthorizationURL(context.Background(), libID)
	assert.ErrorIs(t, err, domainLibrary.ErrEmailNotConfigured)
}

// ----- callback -----

func TestHandleCallback_PersistsCredentials(t *testing.T) {
	f := newFixture(t, &domainLibrary.EmailAccount{
		LibraryID:           libID,
		GmailUserEmail:      "biblioteca@gmail.com",
		AuthorizationStatus: domainLibrary.AuthNotAuthorized,
	})
	require.NoError(t, f.states.Put(context.Background(), "nonce-1", libID, time.Minute))

	f.provider.ExchangeCodeFn = func(_ context.Context, code string) (*google.Token, error) {
		assert.Equal(t, "the-code", code)
		return &google.Token{
			AccessToken:  "access-1",
			RefreshToken: "refresh-1",
			ExpiresAt:    f.now.Add(time.Hour),
		}, nil
	}

	acct, err := f.uc.HandleCallback(context.Background(), libID, "the-code", encodeState(t, libID, "nonce-1"))
	require.NoError(t, err)
	assert.Equal(t, domainLibrary.AuthAuthorized, acct.AuthorizationStatus)
	assert.Equal(t, "access-1", acct.GmailOAuthToken)
	assert.Equal(t, "refresh-1", acct.GmailRefreshToken)
	require.NotNil(t, acct.TokenExpiresAt)
	assert.Equal(t, f.now.Add(time.Hour), *acct.TokenExpiresAt)
	require.NotNil(t, acct.AuthorizedAt)
	assert.Equal(t, 1, f.repo.saves)
}

func TestHandleCallback_RejectsGarbledState(t *testing.T) {
	f := newFixture(t, authorizedAccount(time.Now().Add(time.Hour)))
	_, err := f.uc.HandleCallback(context.Background(), libID, "code", "%%%not-base64%%%")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestHandleCallback_RejectsForeignLibraryState(t *testing.T) {
	f := newFixture(t, authorizedAccount(time.Now().Add(time.Hour)))
	_, err := f.uc.HandleCallback(context.Background(), libID, "code", encodeState(t, 99, "nonce-1"))
	assert.ErrorIs(t, err, ErrStateMismatch)
}

func TestHandleCallback_NonceIsSingleUse(t *testing.T) {
	f := newFixture(t, &domainLibrary.EmailAccount{
		LibraryID:           libID,
		AuthorizationStatus: domainLibrary.AuthNotAuthorized,
	})
	require.NoError(t, f.states.Put(context.Background(), "nonce-1", libID, time.Minute))
	f.provider.ExchangeCodeFn = func(context.Context, string) (*google.Token, error) {
		return &google.Token{AccessToken: "a", ExpiresAt: f.now.Add(time.Hour)}, nil
	}

	state := encodeState(t, libID, "nonce-1")
	_, err := f.uc.HandleCallback(context.Background(), libID, "code", state)
	require.NoError(t, err)

	_, err = f.uc.HandleCallback(context.Background(), libID, "code", state)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestHandleCallback_ExchangeFailureMarksFailed(t *testing.T) {
	f := newFixture(t, &domainLibrary.EmailAccount{
		LibraryID:           libID,
		AuthorizationStatus: domainLibrary.AuthNotAuthorized,
	})
	require.NoError(t, f.states.Put(context.Background(), "nonce-1", libID, time.Minute))
	f.provider.ExchangeCodeFn = func(context.Context, string) (*google.Token, error) {
		return nil, errors.New("invalid_grant")
	}

	_, err := f.uc.HandleCallback(context.Background(), libID, "bad-code", encodeState(t, libID, "nonce-1"))
	require.Error(t, err)
	assert.Equal(t, domainLibrary.AuthFailed, f.repo.acct.AuthorizationStatus)
	assert.Empty(t, f.repo.acct.GmailOAuthToken)
}

// ----- refresh -----

func TestRefreshAccessToken_KeepsRefreshTokenUnlessRotated(t *testing.T) {
	f := newFixture(t, nil)
	acct := authorizedAccount(f.now.Add(-time.Minute))
	f.repo.acct = acct

	f.provider.RefreshTokenFn = func(_ context.Context, rt string) (*google.Token, error) {
		assert.Equal(t, "refresh-1", rt)
		return &google.Token{AccessToken: "access-2", ExpiresAt: f.now.Add(time.Hour)}, nil
	}

	require.NoError(t, f.uc.RefreshAccessToken(context.Background(), acct))
	assert.Equal(t, "access-2", acct.GmailOAuthToken)
	assert.Equal(t, "refresh-1", acct.GmailRefreshToken)
	assert.Equal(t, domainLibrary.AuthAuthorized, acct.AuthorizationStatus)
}

func TestRefreshAccessToken_RotatedRefreshToken(t *testing.T) {
	f := newFixture(t, nil)
	acct := authorizedAccount(f.now.Add(-time.Minute))
	f.repo.acct = acct

	f.provider.RefreshTokenFn = func(context.Context, string) (*google.Token, error) {
		return &google.Token{AccessToken: "access-2", RefreshToken: "refresh-2", ExpiresAt: f.now.Add(time.Hour)}, nil
	}

	require.NoError(t, f.uc.RefreshAccessToken(context.Background(), acct))
	assert.Equal(t, "refresh-2", acct.GmailRefreshToken)
}

func TestRefreshAccessToken_FailureMarksExpired(t *testing.T) {
	f := newFixture(t, nil)
	acct := authorizedAccount(f.now.Add(-time.Minute))
	f.repo.acct = acct

	f.provider.RefreshTokenFn = func(context.Context, string) (*google.Token, error) {
		return nil, errors.New("invalid_grant")
	}

	err := f.uc.RefreshAccessToken(context.Background(), acct)
	require.Error(t, err)
	assert.Equal(t, domainLibrary.AuthExpired, acct.AuthorizationStatus)
}

func TestRefreshAccessToken_MissingRefreshToken(t *testing.T) {
	f := newFixture(t, nil)
	acct := authorizedAccount(f.now.Add(time.Hour))
	acct.GmailRefreshToken = ""

	err := f.uc.RefreshAccessToken(context.Background(), acct)
	assert.ErrorIs(t, err, domainLibrary.ErrRefreshTokenMissing)
}

// ----- revoke -----

func TestRevoke_ClearsCredentialsEvenWhenRemoteFails(t *testing.T) {
	f := newFixture(t, authorizedAccount(time.Now().Add(time.Hour)))
	f.provider.RevokeFn = func(context.Context, string) error {
		return errors.New("network down")
	}

	acct, err := f.uc.Revoke(context.Background(), libID)
	require.NoError(t, err)
	assert.Equal(t, domainLibrary.AuthRevoked, acct.AuthorizationStatus)
	assert.Empty(t, acct.GmailOAuthToken)
	assert.Empty(t, acct.GmailRefreshToken)
	assert.Nil(t, acct.TokenExpiresAt)
	assert.Equal(t, 1, f.repo.saves)
}

func TestRevoke_PrefersRefreshTokenRemotely(t *testing.T) {
	f := newFixture(t, authorizedAccount(time.Now().Add(time.Hour)))
	var revoked string
	f.provider.RevokeFn = func(_ context.Context, token string) error {
		revoked = token
		return nil
	}

	_, err := f.uc.Revoke(context.Background(), libID)
	require.NoError(t, err)
	assert.Equal(t, "refresh-1", revoked)
}

// ----- send -----

func TestSend_HappyPath(t *testing.T) {
	f := newFixture(t, authorizedAccount(time.Date(2026, 4, 1, 13, 0, 0, 0, time.UTC)))
	var sends int
	f.provider.SendMessageFn = func(_ context.Context, accessToken, from, to, subject, body string) (string, error) {
		sends++
		assert.Equal(t, "access-1", accessToken)
		assert.Equal(t, "biblioteca@gmail.com", from)
		assert.Equal(t, "maria@example.com", to)
		return "msg-1", nil
	}

	id, err := f.uc.Send(context.Background(), libID, "maria@example.com", "Oi", "corpo")
	require.NoError(t, err)
	assert.Equal(t, "msg-1", id)
	assert.Equal(t, 1, sends)
}

func TestSend_RefusesUnauthorizedAccount(t *testing.T) {
	acct := authorizedAccount(time.Now().Add(time.Hour))
	acct.AuthorizationStatus = domainLibrary.AuthRevoked
	f := newFixture(t, acct)

	_, err := f.uc.Send(context.Background(), libID, "to@example.com", "s", "b")
	assert.ErrorIs(t, err, domainLibrary.ErrNotAuthorized)
}

func TestSend_RefreshesExpiredTokenUpFront(t *testing.T) {
	f := newFixture(t, nil)
	f.repo.acct = authorizedAccount(f.now.Add(-time.Minute)) // already expired

	refreshes := 0
	f.provider.RefreshTokenFn = func(context.Context, string) (*google.Token, error) {
		refreshes++
		return &google.Token{AccessToken: "access-2", ExpiresAt: f.now.Add(time.Hour)}, nil
	}
	f.provider.SendMessageFn = func(_ context.Context, accessToken string, _, _, _, _ string) (string, error) {
		assert.Equal(t, "access-2", accessToken)
		return "msg-1", nil
	}

	_, err := f.uc.Send(context.Background(), libID, "to@example.com", "s", "b")
	require.NoError(t, err)
	assert.Equal(t, 1, refreshes)
}

func TestSend_RetriesOnceAfterProvider401(t *testing.T) {
	f := newFixture(t, nil)
	f.repo.acct = authorizedAccount(f.now.Add(time.Hour))

	refreshes, sends := 0, 0
	f.provider.RefreshTokenFn = func(context.Context, string) (*google.Token, error) {
		refreshes++
		return &google.Token{AccessToken: "access-2", ExpiresAt: f.now.Add(time.Hour)}, nil
	}
	f.provider.SendMessageFn = func(_ context.Context, accessToken string, _, _, _, _ string) (string, error) {
		sends++
		if sends == 1 {
			return "", google.ErrUnauthorized
		}
		assert.Equal(t, "access-2", accessToken)
		return "msg-2", nil
	}

	id, err := f.uc.Send(context.Background(), libID, "to@example.com", "s", "b")
	require.NoError(t, err)
	assert.Equal(t, "msg-2", id)
	assert.Equal(t, 1, refreshes)
	assert.Equal(t, 2, sends)
}

func TestSend_SecondUnauthorizedPropagates(t *testing.T) {
	f := newFixture(t, nil)
	f.repo.acct = authorizedAccount(f.now.Add(time.Hour))

	sends := 0
	f.provider.RefreshTokenFn = func(context.Context, string) (*google.Token, error) {
		return &google.Token{AccessToken: "access-2", ExpiresAt: f.now.Add(time.Hour)}, nil
	}
	f.provider.SendMessageFn = func(context.Context, string, string, string, string, string) (string, error) {
		sends++
		return "", google.ErrUnauthorized
	}

	_, err := f.uc.Send(context.Background(), libID, "to@example.com", "s", "b")
	assert.ErrorIs(t, err, google.ErrUnauthorized)
	assert.Equal(t, 2, sends) // one retry, no loop
}

func TestSend_NoCredentialsAtAll(t *testing.T) {
	acct := &domainLibrary.EmailAccount{
		LibraryID:           libID,
		AuthorizationStatus: domainLibrary.AuthAuthorized,
	}
	f := newFixture(t, acct)

	_, err := f.uc.Send(context.Background(), libID, "to@example.com", "s", "b")
	assert.ErrorIs(t, err, domainLibrary.ErrNotAuthorized)
}
