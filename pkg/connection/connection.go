// Package connection implements the plumbing shared by every way of
// talking to the platform: the envelope codec, the credential sources
// for the web and offline scenarios, and the session refresh guard.
package connection

import (
	"context"
	"encoding/xml"
	"sync"
	"time"

	"github.com/carevault/carevault.go/internal/xmlutil"
	"github.com/carevault/carevault.go/pkg/credential"
	"github.com/carevault/carevault.go/pkg/logger"
)

// Connection is one authenticated channel to the platform.
type Connection interface {
	Connect(ctx context.Context) error
	Close(ctx context.Context) error
	// Send performs one envelope request, authenticating first if the
	// session credential is missing or expired.
	Send(ctx context.Context, req *Request) (*Response, error)
	// Authenticate ensures a live session credential, refreshing it if
	// expired. Concurrent calls result in at most one refresh.
	Authenticate(ctx context.Context) error
	// SessionToken returns the current session token, or "" when the
	// connection has never authenticated.
	SessionToken() string
}

// CredentialSource supplies the credential payload for
// CreateAuthenticatedSessionToken. Implementations cover the two
// authentication scenarios the platform supports.
type CredentialSource interface {
	// WriteAuthInfo emits the children of the <credential> element.
	WriteAuthInfo(enc *xml.Encoder) error
}

// OfflineCredential authenticates an application acting on behalf of a
// person without that person being present, using the application's
// shared secret.
type OfflineCredential struct {
	PersonID     string
	SharedSecret string
}

func (c *OfflineCredential) WriteAuthInfo(enc *xml.Encoder) error {
	if err := xmlutil.WriteElement(enc, "offline-person-id", c.PersonID); err != nil {
		return err
	}
	return xmlutil.WriteElement(enc, "shared-secret", c.SharedSecret)
}

// WebCredential authenticates with the user token the platform shell
// hands back after an interactive sign-in redirect.
type WebCredential struct {
	UserAuthToken string
}

func (c *WebCredential) WriteAuthInfo(enc *xml.Encoder) error {
	return xmlutil.WriteElement(enc, "user-auth-token", c.UserAuthToken)
}

// RefreshFunc performs the underlying credential refresh. Concrete
// connections install one that issues CreateAuthenticatedSessionToken.
type RefreshFunc func(ctx context.Context) (*credential.SessionCredential, error)

// BaseConnection holds the session credential and serializes its
// refresh. Concrete connections embed it.
type BaseConnection struct {
	logger  logger.Logger
	skew    time.Duration
	refresh RefreshFunc

	// authMu serializes refresh; credMu guards reads of the credential
	// pointer so the expiry can be checked without taking authMu.
	authMu sync.Mutex
	credMu sync.RWMutex
	cred   *credential.SessionCredential
}

// NewBaseConnection wires the refresh guard. skew is how long before
// the real expiry a credential is already considered expired.
func NewBaseConnection(log logger.Logger, skew time.Duration, refresh RefreshFunc) BaseConnection {
	return BaseConnection{logger: log, skew: skew, refresh: refresh}
}

// SessionToken returns the current session token, or "".
func (bc *BaseConnection) SessionToken() string {
	bc.credMu.RLock()
	defer bc.credMu.RUnlock()
	if bc.cred == nil {
		return ""
	}
	return bc.cred.Token
}

// CredentialExpired reports whether a refresh is currently needed.
func (bc *BaseConnection) CredentialExpired() bool {
	bc.credMu.RLock()
	defer bc.credMu.RUnlock()
	return bc.cred.Expired(time.Now(), bc.skew)
}

// Invalidate drops the current credential so the next Authenticate
// refreshes unconditionally. Used when the platform reports the
// session as expired before the local expiry was reached.
func (bc *BaseConnection) Invalidate() {
	bc.credMu.Lock()
	bc.cred = nil
	bc.credMu.Unlock()
}

// Authenticate ensures a live session credential. The expiry predicate
// is re-checked after acquiring the lock, so concurrent callers that
// queued behind an in-flight refresh observe the fresh credential and
// return without refreshing again.
func (bc *BaseConnection) Authenticate(ctx context.Context) error {
	if !bc.CredentialExpired() {
		return nil
	}

	bc.authMu.Lock()
	defer bc.authMu.Unlock()

	if !bc.CredentialExpired() {
		return nil
	}

	cred, err := bc.refresh(ctx)
	if err != nil {
		bc.logger.Error("session refresh failed", "err", err)
		return err
	}

	bc.credMu.Lock()
	bc.cred = cred
	bc.credMu.Unlock()

	bc.logger.Debug("session credential refreshed", "expires", cred.Expires)
	return nil
}
