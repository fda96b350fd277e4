package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	domainCatalog "biblioteca-backend/internal/domain/catalog"
	domainLibrary "biblioteca-backend/internal/domain/library"
	domainLoan "biblioteca-backend/internal/domain/loan"
	usecaseAuth "biblioteca-backend/internal/usecase/auth"
	usecaseClient "biblioteca-backend/internal/usecase/client"
	usecaseEmail "biblioteca-backend/internal/usecase/emailaccount"
)

// writeError maps domain/usecase errors onto the API status taxonomy:
// 401 authentication, 403 authorization, 404 missing, 409 conflict,
// 422 semantic validation, 500 upstream (sanitized).
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, usecaseAuth.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})
	case errors.Is(err, usecaseAuth.ErrInvalidResetToken):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "invalid or expired reset token"})

	case errors.Is(err, domainLoan.ErrNotFound),
		errors.Is(err, domainLoan.ErrCopyNotFound),
		errors.Is(err, domainLoan.ErrClientNotFound),
		errors.Is(err, domainCatalog.ErrNotFound),
		errors.Is(err, usecaseClient.ErrNotFound),
		errors.Is(err, domainLibrary.ErrNotFound),
		errors.Is(err, domainLibrary.ErrEmailNotConfigured):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})

	case errors.Is(err, domainLoan.ErrCopyUnavailable),
		errors.Is(err, domainCatalog.ErrCopyBorrowed),
		errors.Is(err, usecaseClient.ErrCPFConflict):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})

	case errors.Is(err, domainLoan.ErrAlreadyReturned),
		errors.Is(err, domainLoan.ErrOverdue),
		errors.Is(err, domainLoan.ErrRenewalLimit),
		errors.Is(err, domainLoan.ErrClientLoanLimit),
		errors.Is(err, domainLoan.ErrInvalidTransition),
		errors.Is(err, domainLibrary.ErrNotAuthorized),
		errors.Is(err, domainLibrary.ErrRefreshTokenMissing),
		errors.Is(err, usecaseEmail.ErrInvalidState),
		errors.Is(err, usecaseEmail.ErrStateMismatch):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	}

	// provider/storage failures: full detail to the log, none to the client
	slog.Error("request failed", "path", c.Path(), "error", err)
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// bindAndValidate folds the Bind→Validate boilerplate every handler repeats.
func bindAndValidate(c echo.Context, req any) (ok bool, resp error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}
