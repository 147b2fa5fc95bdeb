package things

import (
	"encoding/xml"

	"github.com/carevault/carevault.go/internal/xmlutil"
)

// CodedValue is a single vocabulary code attached to a CodableValue.
// Value and Family identify the code within the platform vocabularies.
type CodedValue struct {
	value   string
	family  string
	version string
}

func NewCodedValue(value, family string) (*CodedValue, error) {
	if err := requireNonBlank("code value", value); err != nil {
		return nil, err
	}
	if err := requireNonBlank("code family", family); err != nil {
		return nil, err
	}
	return &CodedValue{value: value, family: family}, nil
}

func (c *CodedValue) Value() string  { return c.value }
func (c *CodedValue) Family() string { return c.family }

func (c *CodedValue) Version() string { return c.version }

func (c *CodedValue) SetVersion(version string) error {
	if err := requireNonBlank("code version", version); err != nil {
		return err
	}
	c.version = version
	return nil
}

// CodableValue is display text optionally backed by vocabulary codes.
// The wire form is
//
//	<text>...</text><code><value/><family/><version/></code>*
//
// written under a caller-supplied element name, since the name depends
// on where the value appears (condition, relationship, category, ...).
type CodableValue struct {
	text  string
	codes []*CodedValue
}

func NewCodableValue(text string) (*CodableValue, error) {
	v := &CodableValue{}
	if err := v.SetText(text); err != nil {
		return nil, err
	}
	return v, nil
}

func (c *CodableValue) Text() string { return c.text }

func (c *CodableValue) SetText(text string) error {
	if err := requireNonBlank("codable text", text); err != nil {
		return err
	}
	c.text = text
	return nil
}

func (c *CodableValue) Codes() []*CodedValue { return c.codes }

func (c *CodableValue) AddCode(code *CodedValue) error {
	if code == nil {
		return &InvalidArgumentError{Field: "code", Reason: "must not be nil"}
	}
	c.codes = append(c.codes, code)
	return nil
}

// WriteXMLAs serializes the value under the given element name.
func (c *CodableValue) WriteXMLAs(enc *xml.Encoder, name string) error {
	if c.text == "" {
		return &SerializationError{Type: name, Reason: "text was never set"}
	}
	if err := xmlutil.Open(enc, name); err != nil {
		return err
	}
	if err := xmlutil.WriteElement(enc, "text", c.text); err != nil {
		return err
	}
	for _, code := range c.codes {
		if err := xmlutil.Open(enc, "code"); err != nil {
			return err
		}
		if err := xmlutil.WriteElement(enc, "value", code.value); err != nil {
			return err
		}
		if err := xmlutil.WriteElement(enc, "family", code.family); err != nil {
			return err
		}
		if code.version != "" {
			if err := xmlutil.WriteElement(enc, "version", code.version); err != nil {
				return err
			}
		}
		if err := xmlutil.Close(enc, "code"); err != nil {
			return err
		}
	}
	return xmlutil.Close(enc, name)
}

// ParseXML reads the value from a node, whatever the node is named.
func (c *CodableValue) ParseXML(n *xmlutil.Node) error {
	text, ok := n.ChildText("text")
	if !ok {
		return &MissingElementError{Element: n.Name + "/text"}
	}
	parsed := CodableValue{}
	if err := parsed.SetText(text); err != nil {
		return err
	}
	for _, cn := range n.ChildrenNamed("code") {
		value, ok := cn.ChildText("value")
		if !ok {
			return &MissingElementError{Element: "code/value"}
		}
		family, ok := cn.ChildText("family")
		if !ok {
			return &MissingElementError{Element: "code/family"}
		}
		code, err := NewCodedValue(value, family)
		if err != nil {
			return err
		}
		if version, ok := cn.ChildText("version"); ok {
			if err := code.SetVersion(version); err != nil {
				return err
			}
		}
		parsed.codes = append(parsed.codes, code)
	}
	*c = parsed
	return nil
}
