package constants

import "errors"

// Errors
var (
	ErrInvalidResponse = errors.New("invalid platform response")
	ErrNoBaseURL       = errors.New("base url not set")
	ErrNoApplicationID = errors.New("application id not set")
	ErrNoCredential    = errors.New("credential source not set")
	ErrSessionExpired  = errors.New("session credential expired")
	ErrNotConnected    = errors.New("connection is not established")
	ErrClosed          = errors.New("connection closed")
)
