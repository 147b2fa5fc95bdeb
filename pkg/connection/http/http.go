// Package http implements the request/response Connection over the
// platform's HTTP endpoint.
package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/carevault/carevault.go/pkg/connection"
	"github.com/carevault/carevault.go/pkg/constants"
	"github.com/carevault/carevault.go/pkg/credential"
	"github.com/carevault/carevault.go/pkg/logger"
)

// HTTPConnection posts envelope requests to the platform endpoint.
// The session credential is created lazily on first use and refreshed
// under the shared guard in connection.BaseConnection.
type HTTPConnection struct {
	connection.BaseConnection

	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     logger.Logger

	connected atomic.Bool
	closed    atomic.Bool

	config *connection.Config
}

// New builds an HTTPConnection from cfg. Connect must be called before
// Send.
func New(cfg *connection.Config) (*HTTPConnection, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	con := &HTTPConnection{
		baseURL:    cfg.BaseURL,
		httpClient: cfg.HTTPClient,
		logger:     cfg.Logger,
		config:     cfg,
	}
	if con.httpClient == nil {
		con.httpClient = &http.Client{Timeout: constants.DefaultHTTPTimeout}
	}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		con.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	con.BaseConnection = connection.NewBaseConnection(cfg.Logger, cfg.CredentialSkew, con.refreshCredential)
	return con, nil
}

// Connect probes the endpoint. No session is created yet; that happens
// lazily on the first Send.
func (h *HTTPConnection) Connect(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/status", http.NoBody)
	if err != nil {
		return err
	}
	resp, err := h.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("platform status probe failed: %s", resp.Status)
	}
	h.connected.Store(true)
	return nil
}

func (h *HTTPConnection) Close(ctx context.Context) error {
	h.closed.Store(true)
	h.httpClient.CloseIdleConnections()
	return nil
}

// Send authenticates if needed, posts the envelope, and retries once
// when the platform reports the session as expired; the platform's
// view of the expiry wins over the local clock.
func (h *HTTPConnection) Send(ctx context.Context, req *connection.Request) (*connection.Response, error) {
	if h.closed.Load() {
		return nil, constants.ErrClosed
	}
	if !h.connected.Load() {
		return nil, constants.ErrNotConnected
	}
	if h.limiter != nil {
		if err := h.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	if err := h.Authenticate(ctx); err != nil {
		return nil, err
	}

	resp, err := h.post(ctx, req, h.SessionToken())
	if err != nil {
		return nil, err
	}
	if resp.Code == constants.StatusSessionExpired {
		h.logger.Debug("platform reported expired session, refreshing", "method", req.Method)
		h.Invalidate()
		if err := h.Authenticate(ctx); err != nil {
			return nil, err
		}
		resp, err = h.post(ctx, req, h.SessionToken())
		if err != nil {
			return nil, err
		}
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}
	return resp, nil
}

// post performs one envelope exchange without touching the credential.
func (h *HTTPConnection) post(ctx context.Context, req *connection.Request, token string) (*connection.Response, error) {
	body, err := connection.EncodeRequest(req, h.config.ApplicationID, token, time.Now())
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/platform", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "text/xml; charset=utf-8")
	httpReq.Header.Set("Accept", "text/xml")

	httpResp, err := h.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error making HTTP request: %w", err)
	}
	defer httpResp.Body.Close()

	respBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: HTTP %s", constants.ErrInvalidResponse, httpResp.Status)
	}

	return connection.DecodeResponse(respBytes)
}

// refreshCredential issues CreateAuthenticatedSessionToken. It runs
// under the refresh guard and sends without a session token.
func (h *HTTPConnection) refreshCredential(ctx context.Context) (*credential.SessionCredential, error) {
	info, err := connection.EncodeAuthInfo(h.config.ApplicationID, h.config.Credential)
	if err != nil {
		return nil, err
	}
	resp, err := h.post(ctx, &connection.Request{
		Method: "CreateAuthenticatedSessionToken",
		Info:   info,
	}, "")
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}
	return connection.DecodeSessionToken(resp.Info)
}
