package carevault

import (
	"context"
	"io"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carevault/carevault.go/internal/fakevault"
	"github.com/carevault/carevault.go/pkg/connection"
	httpconn "github.com/carevault/carevault.go/pkg/connection/http"
	"github.com/carevault/carevault.go/pkg/logger"
	"github.com/carevault/carevault.go/pkg/things"
)

func newTestClient(t *testing.T, srv *fakevault.Server) *Client {
	t.Helper()
	u, err := url.Parse(srv.URL())
	require.NoError(t, err)
	cfg := connection.NewConfig(u, uuid.New(), &connection.OfflineCredential{
		PersonID:     srv.PersonID().String(),
		SharedSecret: "s3cret",
	})
	cfg.Logger = logger.New(io.Discard)
	conn, err := httpconn.New(cfg)
	require.NoError(t, err)
	require.NoError(t, conn.Connect(context.Background()))
	return FromConnection(conn)
}

func newTestWeight(t *testing.T, kg float64) *things.Weight {
	t.Helper()
	w, err := things.NewWeight(kg)
	require.NoError(t, err)
	return w
}

func TestClient_putAndGetThings(t *testing.T) {
	srv := fakevault.New()
	defer srv.Close()
	client := newTestClient(t, srv)
	defer client.Close(context.Background())
	recordID := uuid.New()

	first := newTestWeight(t, 71.3)
	second := newTestWeight(t, 71.8)
	keys, err := client.PutThings(context.Background(), recordID, first, second)
	require.NoError(t, err)
	require.Len(t, keys, 2)
	assert.NotEqual(t, uuid.Nil, keys[0].ID)
	assert.NotEqual(t, keys[0].ID, keys[1].ID)
	require.NotNil(t, first.Key(), "stored items get their key in place")
	assert.Equal(t, keys[0], *first.Key())

	items, err := client.GetThings(context.Background(), recordID, things.TypeIDWeight)
	require.NoError(t, err)
	require.Len(t, items, 2)
	got, ok := items[0].(*things.Weight)
	require.True(t, ok, "expected *things.Weight, got %T", items[0])
	assert.Equal(t, 71.3, got.Value().Kilograms())
}

func TestClient_putUpdatesInPlace(t *testing.T) {
	srv := fakevault.New()
	defer srv.Close()
	client := newTestClient(t, srv)
	recordID := uuid.New()

	w := newTestWeight(t, 70.0)
	keys, err := client.PutThings(context.Background(), recordID, w)
	require.NoError(t, err)
	firstStamp := keys[0].VersionStamp

	value, err := things.NewWeightValue(69.5)
	require.NoError(t, err)
	require.NoError(t, w.SetValue(value))
	keys, err = client.PutThings(context.Background(), recordID, w)
	require.NoError(t, err)
	assert.Equal(t, keys[0].ID, w.Key().ID, "resending a keyed item keeps its id")
	assert.NotEqual(t, firstStamp, keys[0].VersionStamp, "each write gets a new version stamp")

	items, err := client.GetThings(context.Background(), recordID, things.TypeIDWeight)
	require.NoError(t, err)
	require.Len(t, items, 1, "an update must not create a second thing")
	assert.Equal(t, 69.5, items[0].(*things.Weight).Value().Kilograms())
}

func TestClient_getThing(t *testing.T) {
	srv := fakevault.New()
	defer srv.Close()
	client := newTestClient(t, srv)
	recordID := uuid.New()

	w := newTestWeight(t, 82.1)
	_, err := client.PutThings(context.Background(), recordID, w)
	require.NoError(t, err)

	item, err := client.GetThing(context.Background(), recordID, w.Key().ID)
	require.NoError(t, err)
	assert.Equal(t, w.Key().ID, item.Base().Key().ID)

	_, err = client.GetThing(context.Background(), recordID, uuid.New())
	assert.ErrorIs(t, err, ErrThingNotFound)
}

func TestClient_removeThings(t *testing.T) {
	srv := fakevault.New()
	defer srv.Close()
	client := newTestClient(t, srv)
	recordID := uuid.New()

	w := newTestWeight(t, 90.0)
	keys, err := client.PutThings(context.Background(), recordID, w)
	require.NoError(t, err)

	require.NoError(t, client.RemoveThings(context.Background(), recordID, keys...))

	_, err = client.GetThing(context.Background(), recordID, keys[0].ID)
	assert.ErrorIs(t, err, ErrThingNotFound)
}

func TestClient_getPersonInfo(t *testing.T) {
	srv := fakevault.New()
	defer srv.Close()
	client := newTestClient(t, srv)

	pi, err := client.GetPersonInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, srv.PersonID(), pi.PersonID)
	assert.Equal(t, "Test Person", pi.Name)
}

func TestClient_accessDenied(t *testing.T) {
	srv := fakevault.New()
	defer srv.Close()
	client := newTestClient(t, srv)
	recordID := uuid.New()
	srv.DenyRecord(recordID)

	_, err := client.GetThings(context.Background(), recordID, things.TypeIDWeight)
	var aerr *RecordAccessError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, recordID, aerr.RecordID)
	assert.Contains(t, aerr.Error(), recordID.String())
}

func TestClient_survivesSessionExpiry(t *testing.T) {
	srv := fakevault.New()
	defer srv.Close()
	client := newTestClient(t, srv)
	recordID := uuid.New()

	w := newTestWeight(t, 75.0)
	_, err := client.PutThings(context.Background(), recordID, w)
	require.NoError(t, err)
	require.Equal(t, 1, srv.AuthCalls())

	srv.ExpireSessions()

	items, err := client.GetThings(context.Background(), recordID, things.TypeIDWeight)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 2, srv.AuthCalls(), "an expired session is refreshed transparently")
}

func TestFromEndpointURLString(t *testing.T) {
	srv := fakevault.New()
	defer srv.Close()

	client, err := FromEndpointURLString(context.Background(), srv.URL(), uuid.New(),
		&connection.OfflineCredential{PersonID: "p", SharedSecret: "s"})
	require.NoError(t, err)
	assert.NotEmpty(t, client.Connection())

	_, err = FromEndpointURLString(context.Background(), "ftp://example.com", uuid.New(),
		&connection.OfflineCredential{PersonID: "p", SharedSecret: "s"})
	assert.Error(t, err)
}
