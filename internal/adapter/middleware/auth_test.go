package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"biblioteca-backend/internal/domain/access"
	infraauth "biblioteca-backend/internal/infrastructure/auth"
)

func protectedEcho(t *testing.T, tokens *infraauth.TokenService) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.GET("/loans", func(c echo.Context) error {
		actor, _ := ActorFrom(c)
		return c.JSON(http.StatusOK, map[string]string{"actor": actor.PublicID})
	}, Authenticate(tokens), Require(access.ActionLoanRead))
	return e
}

func getLoans(e *echo.Echo, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/loans", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticate_ValidToken(t *testing.T) {
	tokens, err := infraauth.NewTokenService("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	token, err := tokens.Issue(access.Actor{
		PublicID: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		Type:     access.ActorUser,
		Role:     access.RoleLibrarian,
	})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	rec := getLoans(protectedEcho(t, tokens), "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Fatalf("code=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	tokens, _ := infraauth.NewTokenService("test-secret", time.Hour)
	rec := getLoans(protectedEcho(t, tokens), "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("code=%d, want 401", rec.Code)
	}
}

func TestAuthenticate_NotBearer(t *testing.T) {
	tokens, _ := infraauth.NewTokenService("test-secret", time.Hour)
	rec := getLoans(protectedEcho(t, tokens), "Basic dXNlcjpwYXNz")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("code=%d, want 401", rec.Code)
	}
}

func TestAuthenticate_BadToken(t *testing.T) {
	tokens, _ := infraauth.NewTokenService("test-secret", time.Hour)
	rec := getLoans(protectedEcho(t, tokens), "Bearer not.a.jwt")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("code=%d, want 401", rec.Code)
	}
}

func TestRequire_InsufficientRole(t *testing.T) {
	tokens, _ := infraauth.NewTokenService("test-secret", time.Hour)
	token, _ := tokens.Issue(access.Actor{
		PublicID: "dddddddddddddddddddddddddddddddd",
		Type:     access.ActorClient,
		Role:     access.RoleMember,
	})

	rec := getLoans(protectedEcho(t, tokens), "Bearer "+token)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("code=%d, want 403", rec.Code)
	}
}
