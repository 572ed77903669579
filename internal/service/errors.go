package service

import "errors"

var (
	// Unknown email and wrong password share this value so a caller cannot
	// tell which check failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrRefreshInvalid  = errors.New("refresh token invalid or expired")
	ErrRefreshMismatch = errors.New("refresh token mismatch")
)
