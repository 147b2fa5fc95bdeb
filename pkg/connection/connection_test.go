package connection

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carevault/carevault.go/pkg/credential"
	"github.com/carevault/carevault.go/pkg/logger"
)

// countingRefresh counts refreshes and holds each one long enough for
// concurrent callers to pile up behind the lock.
type countingRefresh struct {
	calls atomic.Int32
	delay time.Duration
	ttl   time.Duration
	err   error
}

func (r *countingRefresh) refresh(ctx context.Context) (*credential.SessionCredential, error) {
	n := r.calls.Add(1)
	if r.delay > 0 {
		time.Sleep(r.delay)
	}
	if r.err != nil {
		return nil, r.err
	}
	return credential.New(fmt.Sprintf("session-%d", n), time.Now().Add(r.ttl)), nil
}

func TestAuthenticate_refreshesOnce(t *testing.T) {
	r := &countingRefresh{delay: 50 * time.Millisecond, ttl: time.Hour}
	bc := NewBaseConnection(logger.New(io.Discard), 0, r.refresh)

	const callers = 16
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = bc.Authenticate(context.Background())
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "caller %d", i)
	}
	assert.EqualValues(t, 1, r.calls.Load(), "concurrent callers must share one refresh")
	assert.Equal(t, "session-1", bc.SessionToken())
}

func TestAuthenticate_liveCredentialSkipsRefresh(t *testing.T) {
	r := &countingRefresh{ttl: time.Hour}
	bc := NewBaseConnection(logger.New(io.Discard), 0, r.refresh)

	require.NoError(t, bc.Authenticate(context.Background()))
	require.NoError(t, bc.Authenticate(context.Background()))
	require.NoError(t, bc.Authenticate(context.Background()))
	assert.EqualValues(t, 1, r.calls.Load())
}

func TestAuthenticate_expiredCredentialRefreshesAgain(t *testing.T) {
	r := &countingRefresh{ttl: -time.Minute}
	bc := NewBaseConnection(logger.New(io.Discard), 0, r.refresh)

	require.NoError(t, bc.Authenticate(context.Background()))
	require.NoError(t, bc.Authenticate(context.Background()))
	assert.EqualValues(t, 2, r.calls.Load(), "an already-expired credential refreshes every time")
}

func TestAuthenticate_skewTreatsNearExpiryAsExpired(t *testing.T) {
	r := &countingRefresh{ttl: time.Minute}
	bc := NewBaseConnection(logger.New(io.Discard), 5*time.Minute, r.refresh)

	require.NoError(t, bc.Authenticate(context.Background()))
	require.NoError(t, bc.Authenticate(context.Background()))
	assert.EqualValues(t, 2, r.calls.Load(), "credential expiring within the skew counts as expired")
}

func TestInvalidate_forcesRefresh(t *testing.T) {
	r := &countingRefresh{ttl: time.Hour}
	bc := NewBaseConnection(logger.New(io.Discard), 0, r.refresh)

	require.NoError(t, bc.Authenticate(context.Background()))
	assert.False(t, bc.CredentialExpired())

	bc.Invalidate()
	assert.Empty(t, bc.SessionToken())
	assert.True(t, bc.CredentialExpired())

	require.NoError(t, bc.Authenticate(context.Background()))
	assert.EqualValues(t, 2, r.calls.Load())
	assert.Equal(t, "session-2", bc.SessionToken())
}

func TestAuthenticate_refreshError(t *testing.T) {
	r := &countingRefresh{err: fmt.Errorf("upstream unavailable")}
	bc := NewBaseConnection(logger.New(io.Discard), 0, r.refresh)

	err := bc.Authenticate(context.Background())
	require.Error(t, err)
	assert.Empty(t, bc.SessionToken(), "a failed refresh leaves no credential behind")
}
