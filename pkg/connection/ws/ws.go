// Package ws implements the record event subscription channel. The
// platform pushes a small XML document for every change to a record
// the session may read; EventConnection turns those into typed events
// on a channel.
package ws

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	gorilla "github.com/gorilla/websocket"

	"github.com/carevault/carevault.go/internal/xmlutil"
	"github.com/carevault/carevault.go/pkg/logger"
)

// DefaultDialer is the gorilla dialer used by Dial. It enables
// compression and announces the platform's xml subprotocol.
var DefaultDialer = &gorilla.Dialer{
	Proxy:             gorilla.DefaultDialer.Proxy,
	HandshakeTimeout:  gorilla.DefaultDialer.HandshakeTimeout,
	EnableCompression: true,
	Subprotocols:      []string{"xml"},
}

// RecordChange is one pushed change notification.
type RecordChange struct {
	RecordID  uuid.UUID
	ThingID   uuid.UUID
	Action    string // "put" or "remove"
	Timestamp time.Time
}

// EventConnection is a live subscription to one record's changes.
// Events are delivered on Events until Close is called or the server
// ends the stream, after which the channel is closed.
type EventConnection struct {
	conn   *gorilla.Conn
	logger logger.Logger

	events    chan RecordChange
	closeChan chan struct{}
	closeOnce sync.Once

	mu       sync.Mutex
	closeErr error
}

// Dial subscribes to changes of recordID. baseURL uses the ws or wss
// scheme; token is the session token of an authenticated connection.
func Dial(ctx context.Context, baseURL, token string, recordID uuid.UUID, log logger.Logger) (*EventConnection, error) {
	endpoint := fmt.Sprintf("%s/events?record-id=%s", baseURL, recordID)
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	conn, resp, err := DefaultDialer.DialContext(ctx, endpoint, header)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	ec := &EventConnection{
		conn:      conn,
		logger:    log,
		events:    make(chan RecordChange),
		closeChan: make(chan struct{}),
	}
	go ec.readLoop()
	return ec, nil
}

// Events returns the channel change notifications arrive on.
func (ec *EventConnection) Events() <-chan RecordChange {
	return ec.events
}

// Close ends the subscription. Safe to call more than once.
func (ec *EventConnection) Close() error {
	var err error
	ec.closeOnce.Do(func() {
		close(ec.closeChan)
		deadline := time.Now().Add(time.Second)
		_ = ec.conn.WriteControl(gorilla.CloseMessage,
			gorilla.FormatCloseMessage(gorilla.CloseNormalClosure, ""), deadline)
		err = ec.conn.Close()
	})
	return err
}

// Err reports why the event stream ended, once Events is closed. A
// clean Close returns nil.
func (ec *EventConnection) Err() error {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	return ec.closeErr
}

func (ec *EventConnection) readLoop() {
	defer close(ec.events)
	for {
		_, data, err := ec.conn.ReadMessage()
		if err != nil {
			select {
			case <-ec.closeChan:
				// closed locally, not an error
			default:
				if gorilla.IsCloseError(err, gorilla.CloseNormalClosure, gorilla.CloseGoingAway) {
					return
				}
				ec.logger.Error("event stream read failed", "err", err)
				ec.mu.Lock()
				ec.closeErr = err
				ec.mu.Unlock()
			}
			return
		}

		change, err := decodeRecordChange(data)
		if err != nil {
			ec.logger.Warn("dropping malformed event", "err", err)
			continue
		}

		select {
		case ec.events <- change:
		case <-ec.closeChan:
			return
		}
	}
}

// decodeRecordChange parses
//
//	<record-change>
//	  <record-id/><thing-id/><action/><timestamp/>
//	</record-change>
func decodeRecordChange(data []byte) (RecordChange, error) {
	var change RecordChange

	n, err := xmlutil.Parse(data)
	if err != nil {
		return change, err
	}
	if n.Name != "record-change" {
		return change, fmt.Errorf("unexpected event element <%s>", n.Name)
	}

	recordText, ok := n.ChildText("record-id")
	if !ok {
		return change, fmt.Errorf("event missing record-id")
	}
	if change.RecordID, err = uuid.Parse(recordText); err != nil {
		return change, err
	}
	thingText, ok := n.ChildText("thing-id")
	if !ok {
		return change, fmt.Errorf("event missing thing-id")
	}
	if change.ThingID, err = uuid.Parse(thingText); err != nil {
		return change, err
	}
	change.Action, _ = n.ChildText("action")
	if ts, ok := n.ChildText("timestamp"); ok {
		if change.Timestamp, err = time.Parse(time.RFC3339, ts); err != nil {
			return change, err
		}
	}
	return change, nil
}
