package library

import "errors"

var (
	ErrNotFound            = errors.New("library: not found")
	ErrEmailNotConfigured  = errors.New("library: email account not configured")
	ErrNotAuthorized       = errors.New("library: email account not authorized")
	ErrRefreshTokenMissing = errors.New("library: no refresh token available")
)
