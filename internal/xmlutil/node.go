// Package xmlutil implements the XML node tree the typed items parse
// themselves from, plus the write helpers they serialize through.
//
// Parsing is tolerant: accessors report whether a child was present so
// callers can distinguish an absent optional node from an invalid one.
package xmlutil

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Node is a single XML element: its name, attributes, child elements
// and accumulated character data.
type Node struct {
	Name     string
	Attrs    []xml.Attr
	Nodes    []*Node
	CharData string
}

// Parse decodes data and returns the root element.
func Parse(data []byte) (*Node, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads from r and returns the first element found.
func Decode(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, fmt.Errorf("no root element found")
		}
		if err != nil {
			return nil, err
		}
		if se, ok := tok.(xml.StartElement); ok {
			return decodeElement(dec, se)
		}
	}
}

func decodeElement(dec *xml.Decoder, se xml.StartElement) (*Node, error) {
	n := &Node{Name: se.Name.Local}
	n.Attrs = append(n.Attrs, se.Attr...)

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := decodeElement(dec, t)
			if err != nil {
				return nil, err
			}
			n.Nodes = append(n.Nodes, child)
		case xml.CharData:
			n.CharData += string(t)
		case xml.EndElement:
			return n, nil
		}
	}
}

// Child returns the first child element with the given name, or nil.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Nodes {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns every child element with the given name, in
// document order.
func (n *Node) ChildrenNamed(name string) []*Node {
	var out []*Node
	for _, c := range n.Nodes {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Attr returns the named attribute value and whether it was present.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// Text returns the element's character data with surrounding
// whitespace removed.
func (n *Node) Text() string {
	return strings.TrimSpace(n.CharData)
}

// ChildText returns the trimmed text of the named child and whether
// the child was present.
func (n *Node) ChildText(name string) (string, bool) {
	c := n.Child(name)
	if c == nil {
		return "", false
	}
	return c.Text(), true
}

// ChildInt parses the named child as an integer. ok reports presence;
// a present but malformed value returns an error.
func (n *Node) ChildInt(name string) (v int, ok bool, err error) {
	s, ok := n.ChildText(name)
	if !ok {
		return 0, false, nil
	}
	v, err = strconv.Atoi(s)
	if err != nil {
		return 0, true, fmt.Errorf("element %q: %w", name, err)
	}
	return v, true, nil
}

// ChildFloat parses the named child as a decimal number.
func (n *Node) ChildFloat(name string) (v float64, ok bool, err error) {
	s, ok := n.ChildText(name)
	if !ok {
		return 0, false, nil
	}
	v, err = strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, true, fmt.Errorf("element %q: %w", name, err)
	}
	return v, true, nil
}

// ChildBool parses the named child as a boolean ("true"/"false").
func (n *Node) ChildBool(name string) (v, ok bool, err error) {
	s, ok := n.ChildText(name)
	if !ok {
		return false, false, nil
	}
	v, err = strconv.ParseBool(s)
	if err != nil {
		return false, true, fmt.Errorf("element %q: %w", name, err)
	}
	return v, true, nil
}

// WriteXML re-emits the node and its subtree through enc, preserving
// element order and attributes. Used to carry unrecognized payloads
// through unchanged.
func (n *Node) WriteXML(enc *xml.Encoder) error {
	start := xml.StartElement{Name: xml.Name{Local: n.Name}, Attr: n.Attrs}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if text := n.Text(); text != "" && len(n.Nodes) == 0 {
		if err := enc.EncodeToken(xml.CharData(text)); err != nil {
			return err
		}
	}
	for _, c := range n.Nodes {
		if err := c.WriteXML(enc); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

// String serializes the subtree back to XML text.
func (n *Node) String() string {
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	if err := n.WriteXML(enc); err != nil {
		return ""
	}
	if err := enc.Flush(); err != nil {
		return ""
	}
	return buf.String()
}
