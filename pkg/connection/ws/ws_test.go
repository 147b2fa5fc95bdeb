package ws

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carevault/carevault.go/pkg/logger"
)

// eventServer upgrades /events, records the handshake, and pushes the
// configured messages before closing from the server side.
type eventServer struct {
	messages  []string
	gotToken  chan string
	gotRecord chan string
}

func newEventServer(messages ...string) *eventServer {
	return &eventServer{
		messages:  messages,
		gotToken:  make(chan string, 1),
		gotRecord: make(chan string, 1),
	}
}

func (s *eventServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.gotToken <- strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	s.gotRecord <- r.URL.Query().Get("record-id")

	up := gorilla.Upgrader{}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	for _, msg := range s.messages {
		if err := conn.WriteMessage(gorilla.TextMessage, []byte(msg)); err != nil {
			return
		}
	}
	deadline := time.Now().Add(time.Second)
	_ = conn.WriteControl(gorilla.CloseMessage,
		gorilla.FormatCloseMessage(gorilla.CloseNormalClosure, ""), deadline)
	// Wait for the peer's close response so the normal-closure frame is
	// read before the TCP connection drops.
	conn.SetReadDeadline(time.Now().Add(time.Second))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestDial_receivesEvents(t *testing.T) {
	recordID := uuid.New()
	thingID := uuid.New()
	srv := newEventServer(
		fmt.Sprintf(`<record-change><record-id>%s</record-id><thing-id>%s</thing-id><action>put</action><timestamp>2024-06-01T12:00:00Z</timestamp></record-change>`,
			recordID, thingID),
		`<garbage/>`,
		fmt.Sprintf(`<record-change><record-id>%s</record-id><thing-id>%s</thing-id><action>remove</action></record-change>`,
			recordID, thingID),
	)
	httpSrv := httptest.NewServer(srv)
	defer httpSrv.Close()

	ec, err := Dial(context.Background(), wsURL(httpSrv), "session-1", recordID, logger.New(io.Discard))
	require.NoError(t, err)
	defer ec.Close()

	assert.Equal(t, "session-1", <-srv.gotToken)
	assert.Equal(t, recordID.String(), <-srv.gotRecord)

	first := receiveEvent(t, ec)
	assert.Equal(t, recordID, first.RecordID)
	assert.Equal(t, thingID, first.ThingID)
	assert.Equal(t, "put", first.Action)
	assert.Equal(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), first.Timestamp.UTC())

	// The malformed document is dropped, so the next event is the remove.
	second := receiveEvent(t, ec)
	assert.Equal(t, "remove", second.Action)

	// Server sent a normal close after the last event.
	select {
	case _, open := <-ec.Events():
		assert.False(t, open, "events channel closes when the stream ends")
	case <-time.After(2 * time.Second):
		t.Fatal("events channel did not close")
	}
	assert.NoError(t, ec.Err(), "a server-side normal closure is not an error")
}

func TestClose_isClean(t *testing.T) {
	recordID := uuid.New()
	httpSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		up := gorilla.Upgrader{}
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer httpSrv.Close()

	ec, err := Dial(context.Background(), wsURL(httpSrv), "session-1", recordID, logger.New(io.Discard))
	require.NoError(t, err)

	require.NoError(t, ec.Close())
	require.NoError(t, ec.Close(), "Close is idempotent")

	select {
	case _, open := <-ec.Events():
		assert.False(t, open)
	case <-time.After(2 * time.Second):
		t.Fatal("events channel did not close")
	}
	assert.NoError(t, ec.Err())
}

func receiveEvent(t *testing.T, ec *EventConnection) RecordChange {
	t.Helper()
	select {
	case change, open := <-ec.Events():
		require.True(t, open, "events channel closed early")
		return change
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return RecordChange{}
	}
}

func TestDecodeRecordChange_malformed(t *testing.T) {
	_, err := decodeRecordChange([]byte(`<record-change><thing-id>x</thing-id></record-change>`))
	assert.Error(t, err)

	_, err = decodeRecordChange([]byte(`<other/>`))
	assert.Error(t, err)

	_, err = decodeRecordChange([]byte(`not xml`))
	assert.Error(t, err)
}
