package things

import (
	"encoding/xml"

	"github.com/carevault/carevault.go/internal/xmlutil"
)

// Name is a person's name. Full is mandatory; the individual parts are
// optional refinements of it.
//
// Wire form: <name><full/>[<title/>][<first/>][<middle/>][<last/>][<suffix/>]</name>
type Name struct {
	full   string
	title  string
	first  string
	middle string
	last   string
	suffix string
}

func NewName(full string) (*Name, error) {
	n := &Name{}
	if err := n.SetFull(full); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *Name) Full() string { return n.full }

func (n *Name) SetFull(full string) error {
	if err := requireNonBlank("full name", full); err != nil {
		return err
	}
	n.full = full
	return nil
}

func (n *Name) Title() string  { return n.title }
func (n *Name) First() string  { return n.first }
func (n *Name) Middle() string { return n.middle }
func (n *Name) Last() string   { return n.last }
func (n *Name) Suffix() string { return n.suffix }

func (n *Name) SetTitle(title string) error {
	if err := requireNonBlank("title", title); err != nil {
		return err
	}
	n.title = title
	return nil
}

func (n *Name) SetFirst(first string) error {
	if err := requireNonBlank("first name", first); err != nil {
		return err
	}
	n.first = first
	return nil
}

func (n *Name) SetMiddle(middle string) error {
	if err := requireNonBlank("middle name", middle); err != nil {
		return err
	}
	n.middle = middle
	return nil
}

func (n *Name) SetLast(last string) error {
	if err := requireNonBlank("last name", last); err != nil {
		return err
	}
	n.last = last
	return nil
}

func (n *Name) SetSuffix(suffix string) error {
	if err := requireNonBlank("suffix", suffix); err != nil {
		return err
	}
	n.suffix = suffix
	return nil
}

func (n *Name) WriteXML(enc *xml.Encoder) error {
	if n.full == "" {
		return &SerializationError{Type: "name", Reason: "full name was never set"}
	}
	if err := xmlutil.Open(enc, "name"); err != nil {
		return err
	}
	if err := xmlutil.WriteElement(enc, "full", n.full); err != nil {
		return err
	}
	optional := []struct{ name, value string }{
		{"title", n.title},
		{"first", n.first},
		{"middle", n.middle},
		{"last", n.last},
		{"suffix", n.suffix},
	}
	for _, el := range optional {
		if el.value == "" {
			continue
		}
		if err := xmlutil.WriteElement(enc, el.name, el.value); err != nil {
			return err
		}
	}
	return xmlutil.Close(enc, "name")
}

func (n *Name) ParseXML(node *xmlutil.Node) error {
	full, ok := node.ChildText("full")
	if !ok {
		return &MissingElementError{Element: "name/full"}
	}
	parsed := Name{}
	if err := parsed.SetFull(full); err != nil {
		return err
	}
	set := []struct {
		name string
		fn   func(string) error
	}{
		{"title", parsed.SetTitle},
		{"first", parsed.SetFirst},
		{"middle", parsed.SetMiddle},
		{"last", parsed.SetLast},
		{"suffix", parsed.SetSuffix},
	}
	for _, el := range set {
		if value, ok := node.ChildText(el.name); ok {
			if err := el.fn(value); err != nil {
				return err
			}
		}
	}
	*n = parsed
	return nil
}
