package things

import (
	"encoding/xml"

	"github.com/google/uuid"

	"github.com/carevault/carevault.go/internal/xmlutil"
)

// TypeIDHealthJournalEntry is the platform thing type id for free-form
// journal entries.
var TypeIDHealthJournalEntry = uuid.MustParse("e9b8a0c4-51d7-4f3e-b6a9-0d4c2f81e7b5")

func init() {
	Register(TypeIDHealthJournalEntry, func() Item { return &HealthJournalEntry{} })
}

// HealthJournalEntry is a dated free-text note in a record, optionally
// categorized against a vocabulary.
//
// Wire form:
//
//	<health-journal-entry>
//	  <when>...</when>
//	  <content>...</content>
//	  [<category>...</category>]
//	</health-journal-entry>
type HealthJournalEntry struct {
	Thing
	content  string
	category *CodableValue
}

func NewHealthJournalEntry(content string) (*HealthJournalEntry, error) {
	e := &HealthJournalEntry{}
	if err := e.SetContent(content); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *HealthJournalEntry) TypeID() uuid.UUID   { return TypeIDHealthJournalEntry }
func (e *HealthJournalEntry) RootElement() string { return "health-journal-entry" }

func (e *HealthJournalEntry) Content() string { return e.content }

func (e *HealthJournalEntry) SetContent(content string) error {
	if err := requireNonBlank("content", content); err != nil {
		return err
	}
	e.content = content
	return nil
}

func (e *HealthJournalEntry) Category() *CodableValue { return e.category }

func (e *HealthJournalEntry) SetCategory(category *CodableValue) error {
	if category == nil {
		return &InvalidArgumentError{Field: "category", Reason: "must not be nil"}
	}
	e.category = category
	return nil
}

func (e *HealthJournalEntry) WriteXML(enc *xml.Encoder) error {
	if e.content == "" {
		return &SerializationError{Type: "health-journal-entry", Reason: "content was never set"}
	}
	if err := xmlutil.Open(enc, "health-journal-entry"); err != nil {
		return err
	}
	if err := e.effectiveWhen().WriteXMLAs(enc, "when"); err != nil {
		return err
	}
	if err := xmlutil.WriteElement(enc, "content", e.content); err != nil {
		return err
	}
	if e.category != nil {
		if err := e.category.WriteXMLAs(enc, "category"); err != nil {
			return err
		}
	}
	return xmlutil.Close(enc, "health-journal-entry")
}

func (e *HealthJournalEntry) ParseXML(n *xmlutil.Node) error {
	whenNode := n.Child("when")
	if whenNode == nil {
		return &MissingElementError{Element: "health-journal-entry/when"}
	}
	when := &ApproximateDateTime{}
	if err := when.ParseXML(whenNode); err != nil {
		return err
	}
	content, ok := n.ChildText("content")
	if !ok {
		return &MissingElementError{Element: "health-journal-entry/content"}
	}
	parsed := HealthJournalEntry{Thing: e.Thing}
	parsed.when = when
	if err := parsed.SetContent(content); err != nil {
		return err
	}
	if cn := n.Child("category"); cn != nil {
		category := &CodableValue{}
		if err := category.ParseXML(cn); err != nil {
			return err
		}
		parsed.category = category
	}
	*e = parsed
	return nil
}
