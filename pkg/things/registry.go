package things

import (
	"encoding/xml"
	"sync"

	"github.com/google/uuid"

	"github.com/carevault/carevault.go/internal/xmlutil"
)

var (
	registryMu sync.RWMutex
	registry   = map[uuid.UUID]func() Item{}
)

// Register associates a thing type id with a constructor for its
// concrete item. Each typed item registers itself at init time;
// applications may register their own custom types the same way.
func Register(typeID uuid.UUID, newItem func() Item) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[typeID] = newItem
}

func newItemForType(typeID uuid.UUID) (Item, bool) {
	registryMu.RLock()
	newItem, ok := registry[typeID]
	registryMu.RUnlock()
	if !ok {
		return nil, false
	}
	return newItem(), true
}

// UnrecognizedThing carries a payload whose type id has no registered
// constructor. The XML is preserved verbatim so the item can be read
// and written back without loss.
type UnrecognizedThing struct {
	Thing
	typeID uuid.UUID
	node   *xmlutil.Node
}

func newUnrecognizedThing(typeID uuid.UUID) *UnrecognizedThing {
	return &UnrecognizedThing{typeID: typeID}
}

func (u *UnrecognizedThing) TypeID() uuid.UUID { return u.typeID }

func (u *UnrecognizedThing) RootElement() string {
	if u.node == nil {
		return ""
	}
	return u.node.Name
}

func (u *UnrecognizedThing) ParseXML(n *xmlutil.Node) error {
	if n == nil {
		return &MissingElementError{Element: "data-xml payload"}
	}
	u.node = n
	return nil
}

func (u *UnrecognizedThing) WriteXML(enc *xml.Encoder) error {
	if u.node == nil {
		return &SerializationError{Type: "unrecognized thing", Reason: "no payload"}
	}
	return u.node.WriteXML(enc)
}
