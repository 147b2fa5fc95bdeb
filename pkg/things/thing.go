// Package things implements the typed health record entries ("things")
// and their fixed-schema XML wire forms.
//
// Every mutation goes through a validated setter, so an item can never
// hold an invalid in-memory state. Serialization re-validates mandatory
// invariants at write time as a defense against partially-constructed
// items, and parsing is tolerant of absent optional elements.
package things

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/carevault/carevault.go/internal/xmlutil"
)

// Item is implemented by every typed health record entry.
type Item interface {
	// TypeID identifies the platform thing type this item serializes as.
	TypeID() uuid.UUID
	// RootElement is the fixed name of the payload's root element.
	RootElement() string
	// ParseXML reads the payload from its root node.
	ParseXML(n *xmlutil.Node) error
	// WriteXML emits the payload, root element included.
	WriteXML(enc *xml.Encoder) error
	// Base exposes the envelope state shared by all items.
	Base() *Thing
}

// ThingKey identifies a stored thing: the thing id plus the version
// stamp the platform assigns on every write.
type ThingKey struct {
	ID           uuid.UUID
	VersionStamp uuid.UUID
}

// Thing carries the state shared by every item: key, effective date
// and platform flags. Concrete items embed it.
type Thing struct {
	key   *ThingKey
	when  *ApproximateDateTime
	flags int
}

func (t *Thing) Base() *Thing { return t }

// Key returns the item's key, or nil if the item has not been stored.
func (t *Thing) Key() *ThingKey { return t.key }

func (t *Thing) SetKey(key *ThingKey) error {
	if key == nil {
		return &InvalidArgumentError{Field: "key", Reason: "must not be nil"}
	}
	t.key = key
	return nil
}

// When returns the effective date, or nil if none was set.
func (t *Thing) When() *ApproximateDateTime { return t.when }

func (t *Thing) SetWhen(when *ApproximateDateTime) error {
	if when == nil {
		return &InvalidArgumentError{Field: "when", Reason: "must not be nil"}
	}
	t.when = when
	return nil
}

func (t *Thing) Flags() int { return t.flags }

func (t *Thing) SetFlags(flags int) error {
	if flags < 0 {
		return &InvalidArgumentError{Field: "flags", Reason: "must not be negative"}
	}
	t.flags = flags
	return nil
}

// effectiveWhen is used by items whose payload carries a <when>:
// an unset effective date defaults to the current instant.
func (t *Thing) effectiveWhen() *ApproximateDateTime {
	if t.when == nil {
		t.when = FromTime(time.Now())
	}
	return t.when
}

// WriteThing serializes the full <thing> envelope around item's
// payload:
//
//	<thing>
//	  [<thing-id version-stamp="...">...</thing-id>]
//	  <type-id>...</type-id>
//	  <flags>...</flags>
//	  <data-xml>payload</data-xml>
//	</thing>
func WriteThing(enc *xml.Encoder, item Item) error {
	if err := xmlutil.Open(enc, "thing"); err != nil {
		return err
	}
	base := item.Base()
	if base.key != nil {
		err := xmlutil.WriteElement(enc, "thing-id", base.key.ID.String(),
			xmlutil.Attr("version-stamp", base.key.VersionStamp.String()))
		if err != nil {
			return err
		}
	}
	if err := xmlutil.WriteElement(enc, "type-id", item.TypeID().String()); err != nil {
		return err
	}
	if err := xmlutil.WriteInt(enc, "flags", base.flags); err != nil {
		return err
	}
	if err := xmlutil.Open(enc, "data-xml"); err != nil {
		return err
	}
	if err := item.WriteXML(enc); err != nil {
		return err
	}
	if err := xmlutil.Close(enc, "data-xml"); err != nil {
		return err
	}
	return xmlutil.Close(enc, "thing")
}

// MarshalItem returns the <thing> envelope for item as bytes.
func MarshalItem(item Item) ([]byte, error) {
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	if err := WriteThing(enc, item); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ParseThing reads a <thing> envelope and returns the concrete item
// registered for its type id, or an UnrecognizedThing when the type is
// unknown to this SDK build.
func ParseThing(n *xmlutil.Node) (Item, error) {
	typeText, ok := n.ChildText("type-id")
	if !ok {
		return nil, &MissingElementError{Element: "thing/type-id"}
	}
	typeID, err := uuid.Parse(typeText)
	if err != nil {
		return nil, fmt.Errorf("thing/type-id: %w", err)
	}

	data := n.Child("data-xml")
	if data == nil {
		return nil, &MissingElementError{Element: "thing/data-xml"}
	}
	if len(data.Nodes) == 0 {
		return nil, &MissingElementError{Element: "thing/data-xml payload"}
	}
	payload := data.Nodes[0]

	item, known := newItemForType(typeID)
	if !known {
		item = newUnrecognizedThing(typeID)
	}
	if err := item.ParseXML(payload); err != nil {
		return nil, err
	}

	base := item.Base()
	if idNode := n.Child("thing-id"); idNode != nil {
		key := &ThingKey{}
		if key.ID, err = uuid.Parse(idNode.Text()); err != nil {
			return nil, fmt.Errorf("thing/thing-id: %w", err)
		}
		if stamp, ok := idNode.Attr("version-stamp"); ok {
			if key.VersionStamp, err = uuid.Parse(stamp); err != nil {
				return nil, fmt.Errorf("thing/thing-id@version-stamp: %w", err)
			}
		}
		base.key = key
	}
	if flags, ok, err := n.ChildInt("flags"); err != nil {
		return nil, err
	} else if ok {
		if err := base.SetFlags(flags); err != nil {
			return nil, err
		}
	}
	return item, nil
}

// UnmarshalItem parses a serialized <thing> envelope.
func UnmarshalItem(data []byte) (Item, error) {
	n, err := xmlutil.Parse(data)
	if err != nil {
		return nil, err
	}
	if n.Name != "thing" {
		return nil, fmt.Errorf("expected <thing> element, got <%s>", n.Name)
	}
	return ParseThing(n)
}
