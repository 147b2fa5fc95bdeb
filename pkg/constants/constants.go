package constants

import "time"

const (
	// RequestIDLength size of the request id carried in the envelope header
	RequestIDLength = 16
	// DefaultHTTPTimeout timeout applied to the default HTTP client
	DefaultHTTPTimeout = 30 * time.Second
	// DefaultCredentialSkew is subtracted from the credential expiry so a
	// token is refreshed before the platform would actually reject it.
	DefaultCredentialSkew = 5 * time.Minute
)

// Platform status codes returned in the response envelope.
const (
	StatusOK             = 0
	StatusFailed         = 1
	StatusBadMethod      = 3
	StatusInvalidXML     = 5
	StatusAccessDenied   = 8
	StatusSessionExpired = 11
)

const (
	HTTPScheme            = "http"
	HTTPSecureScheme      = "https"
	WebsocketScheme       = "ws"
	SecureWebsocketScheme = "wss"
)
