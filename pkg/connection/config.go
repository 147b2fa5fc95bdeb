package connection

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/carevault/carevault.go/pkg/constants"
	"github.com/carevault/carevault.go/pkg/logger"
)

// Config carries everything a connection needs. Build one with
// NewConfig to get sensible defaults.
type Config struct {
	URL     url.URL
	BaseURL string

	// ApplicationID identifies the calling application to the platform.
	ApplicationID uuid.UUID
	// Credential supplies the auth payload for session creation.
	Credential CredentialSource

	Logger logger.Logger

	// HTTPClient overrides the default client when set.
	HTTPClient *http.Client

	// RequestsPerSecond enables client-side rate limiting when > 0.
	RequestsPerSecond float64
	// Burst is the limiter burst size; defaults to 1 when limiting is on.
	Burst int

	// CredentialSkew is how long before expiry a session is refreshed.
	CredentialSkew time.Duration
}

// NewConfig creates a Config for the platform endpoint at u, such as
// "https://platform.carevault.example". The returned config logs to
// stderr; replace Logger to change that.
func NewConfig(u *url.URL, appID uuid.UUID, source CredentialSource) *Config {
	return &Config{
		URL:            *u,
		BaseURL:        fmt.Sprintf("%s://%s", u.Scheme, u.Host),
		ApplicationID:  appID,
		Credential:     source,
		Logger:         logger.New(os.Stderr),
		CredentialSkew: constants.DefaultCredentialSkew,
	}
}

// Validate checks the config is complete enough to open a connection.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return constants.ErrNoBaseURL
	}
	if c.ApplicationID == uuid.Nil {
		return constants.ErrNoApplicationID
	}
	if c.Credential == nil {
		return constants.ErrNoCredential
	}
	return nil
}
