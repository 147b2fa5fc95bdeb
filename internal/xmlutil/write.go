package xmlutil

import (
	"encoding/xml"
	"strconv"
	"time"
)

// Open emits a start tag.
func Open(enc *xml.Encoder, name string, attrs ...xml.Attr) error {
	return enc.EncodeToken(xml.StartElement{Name: xml.Name{Local: name}, Attr: attrs})
}

// Close emits the matching end tag.
func Close(enc *xml.Encoder, name string) error {
	return enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: name}})
}

// WriteElement emits <name>text</name>.
func WriteElement(enc *xml.Encoder, name, text string, attrs ...xml.Attr) error {
	start := xml.StartElement{Name: xml.Name{Local: name}, Attr: attrs}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if err := enc.EncodeToken(xml.CharData(text)); err != nil {
		return err
	}
	return enc.EncodeToken(start.End())
}

func WriteInt(enc *xml.Encoder, name string, v int) error {
	return WriteElement(enc, name, strconv.Itoa(v))
}

// FormatFloat renders a decimal the way the platform stores it: the
// shortest representation that round-trips.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseFloat parses a platform decimal.
func ParseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

// WriteFloat emits <name> holding a decimal.
func WriteFloat(enc *xml.Encoder, name string, v float64) error {
	return WriteElement(enc, name, FormatFloat(v))
}

func WriteBool(enc *xml.Encoder, name string, v bool) error {
	return WriteElement(enc, name, strconv.FormatBool(v))
}

// WriteTime emits a timestamp in the platform's wire form, RFC 3339
// in UTC.
func WriteTime(enc *xml.Encoder, name string, t time.Time) error {
	return WriteElement(enc, name, t.UTC().Format(time.RFC3339))
}

// Attr is a convenience constructor for xml.Attr.
func Attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}
