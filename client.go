package carevault

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"github.com/carevault/carevault.go/internal/xmlutil"
	"github.com/carevault/carevault.go/pkg/connection"
	httpconn "github.com/carevault/carevault.go/pkg/connection/http"
	"github.com/carevault/carevault.go/pkg/constants"
	"github.com/carevault/carevault.go/pkg/things"
)

// Client exposes the platform operations over a Connection.
type Client struct {
	conn connection.Connection
}

// FromConnection wraps an already-connected Connection.
func FromConnection(conn connection.Connection) *Client {
	return &Client{conn: conn}
}

// FromEndpointURLString connects to the platform endpoint at urlStr,
// e.g. "https://platform.carevault.example", choosing the connection
// engine from the URL scheme.
func FromEndpointURLString(ctx context.Context, urlStr string, appID uuid.UUID, source connection.CredentialSource) (*Client, error) {
	u, err := url.Parse(urlStr)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case constants.HTTPScheme, constants.HTTPSecureScheme:
		conn, err := httpconn.New(connection.NewConfig(u, appID, source))
		if err != nil {
			return nil, err
		}
		if err := conn.Connect(ctx); err != nil {
			return nil, err
		}
		return FromConnection(conn), nil
	default:
		return nil, fmt.Errorf("unsupported endpoint scheme %q", u.Scheme)
	}
}

// Connection returns the underlying connection, e.g. to read its
// session token for an event subscription.
func (c *Client) Connection() connection.Connection {
	return c.conn
}

func (c *Client) Close(ctx context.Context) error {
	return c.conn.Close(ctx)
}

// GetThings fetches every thing of the given type from a record.
func (c *Client) GetThings(ctx context.Context, recordID, typeID uuid.UUID) ([]things.Item, error) {
	info, err := encodeGetThings("type-id", typeID)
	if err != nil {
		return nil, err
	}
	resp, err := c.conn.Send(ctx, &connection.Request{
		Method:   "GetThings",
		RecordID: recordID,
		Info:     info,
	})
	if err != nil {
		return nil, mapPlatformErr(err, recordID)
	}
	return decodeThings(resp)
}

// GetThing fetches a single thing by id. Returns ErrThingNotFound when
// the record has no such thing.
func (c *Client) GetThing(ctx context.Context, recordID, thingID uuid.UUID) (things.Item, error) {
	info, err := encodeGetThings("thing-id", thingID)
	if err != nil {
		return nil, err
	}
	resp, err := c.conn.Send(ctx, &connection.Request{
		Method:   "GetThings",
		RecordID: recordID,
		Info:     info,
	})
	if err != nil {
		return nil, mapPlatformErr(err, recordID)
	}
	items, err := decodeThings(resp)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrThingNotFound, thingID)
	}
	return items[0], nil
}

// PutThings writes items to the record and returns the keys the
// platform assigned, in item order. Each item's key is also updated in
// place, so a subsequent PutThings of the same item is an update.
func (c *Client) PutThings(ctx context.Context, recordID uuid.UUID, items ...things.Item) ([]things.ThingKey, error) {
	var info bytes.Buffer
	for _, item := range items {
		data, err := things.MarshalItem(item)
		if err != nil {
			return nil, err
		}
		info.Write(data)
	}

	resp, err := c.conn.Send(ctx, &connection.Request{
		Method:   "PutThings",
		RecordID: recordID,
		Info:     info.Bytes(),
	})
	if err != nil {
		return nil, mapPlatformErr(err, recordID)
	}
	if resp.Info == nil {
		return nil, fmt.Errorf("%w: missing <info>", constants.ErrInvalidResponse)
	}

	idNodes := resp.Info.ChildrenNamed("thing-id")
	if len(idNodes) != len(items) {
		return nil, fmt.Errorf("%w: expected %d thing keys, got %d",
			constants.ErrInvalidResponse, len(items), len(idNodes))
	}
	keys := make([]things.ThingKey, len(idNodes))
	for i, idNode := range idNodes {
		key := things.ThingKey{}
		if key.ID, err = uuid.Parse(idNode.Text()); err != nil {
			return nil, fmt.Errorf("%w: %v", constants.ErrInvalidResponse, err)
		}
		if stamp, ok := idNode.Attr("version-stamp"); ok {
			if key.VersionStamp, err = uuid.Parse(stamp); err != nil {
				return nil, fmt.Errorf("%w: %v", constants.ErrInvalidResponse, err)
			}
		}
		keys[i] = key
		if err := items[i].Base().SetKey(&keys[i]); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

// RemoveThings deletes things from the record by key.
func (c *Client) RemoveThings(ctx context.Context, recordID uuid.UUID, keys ...things.ThingKey) error {
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	for _, key := range keys {
		if err := xmlutil.WriteElement(enc, "thing-id", key.ID.String()); err != nil {
			return err
		}
	}
	if err := enc.Flush(); err != nil {
		return err
	}

	_, err := c.conn.Send(ctx, &connection.Request{
		Method:   "RemoveThings",
		RecordID: recordID,
		Info:     buf.Bytes(),
	})
	return mapPlatformErr(err, recordID)
}

// PersonInfo describes the authenticated person.
type PersonInfo struct {
	PersonID         uuid.UUID
	Name             string
	SelectedRecordID uuid.UUID
}

// GetPersonInfo returns who the session is authenticated as and the
// record currently selected for them.
func (c *Client) GetPersonInfo(ctx context.Context) (*PersonInfo, error) {
	resp, err := c.conn.Send(ctx, &connection.Request{Method: "GetPersonInfo"})
	if err != nil {
		return nil, err
	}
	if resp.Info == nil {
		return nil, fmt.Errorf("%w: missing <info>", constants.ErrInvalidResponse)
	}
	node := resp.Info.Child("person-info")
	if node == nil {
		return nil, fmt.Errorf("%w: missing <person-info>", constants.ErrInvalidResponse)
	}

	pi := &PersonInfo{}
	idText, ok := node.ChildText("person-id")
	if !ok {
		return nil, fmt.Errorf("%w: missing <person-id>", constants.ErrInvalidResponse)
	}
	if pi.PersonID, err = uuid.Parse(idText); err != nil {
		return nil, fmt.Errorf("%w: %v", constants.ErrInvalidResponse, err)
	}
	pi.Name, _ = node.ChildText("name")
	if recordText, ok := node.ChildText("selected-record-id"); ok {
		if pi.SelectedRecordID, err = uuid.Parse(recordText); err != nil {
			return nil, fmt.Errorf("%w: %v", constants.ErrInvalidResponse, err)
		}
	}
	return pi, nil
}

func encodeGetThings(filter string, id uuid.UUID) ([]byte, error) {
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	if err := xmlutil.Open(enc, "get-things"); err != nil {
		return nil, err
	}
	if err := xmlutil.WriteElement(enc, filter, id.String()); err != nil {
		return nil, err
	}
	if err := xmlutil.Close(enc, "get-things"); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeThings(resp *connection.Response) ([]things.Item, error) {
	if resp.Info == nil {
		return nil, nil
	}
	var items []things.Item
	for _, n := range resp.Info.ChildrenNamed("thing") {
		item, err := things.ParseThing(n)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// mapPlatformErr turns an access-denied platform status into a
// RecordAccessError for the record the caller named.
func mapPlatformErr(err error, recordID uuid.UUID) error {
	if err == nil {
		return nil
	}
	var perr *connection.PlatformError
	if errors.As(err, &perr) && perr.Code == constants.StatusAccessDenied {
		return &RecordAccessError{RecordID: recordID}
	}
	return err
}
