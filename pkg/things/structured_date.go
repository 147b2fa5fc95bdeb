package things

import (
	"encoding/xml"

	"github.com/carevault/carevault.go/internal/xmlutil"
)

// StructuredDate is a calendar date with optional precision: a year is
// always present, month and day may be absent (a day requires a month).
//
// Wire form: <date><y/>[<m/>[<d/>]]</date>
type StructuredDate struct {
	year  int
	month *int
	day   *int
}

func NewStructuredDate(year int) (*StructuredDate, error) {
	d := &StructuredDate{}
	if err := d.SetYear(year); err != nil {
		return nil, err
	}
	return d, nil
}

// NewYMD builds a fully specified date.
func NewYMD(year, month, day int) (*StructuredDate, error) {
	d, err := NewStructuredDate(year)
	if err != nil {
		return nil, err
	}
	if err := d.SetMonth(month); err != nil {
		return nil, err
	}
	if err := d.SetDay(day); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *StructuredDate) Year() int { return d.year }

func (d *StructuredDate) Month() (int, bool) {
	if d.month == nil {
		return 0, false
	}
	return *d.month, true
}

func (d *StructuredDate) Day() (int, bool) {
	if d.day == nil {
		return 0, false
	}
	return *d.day, true
}

func (d *StructuredDate) SetYear(year int) error {
	if err := requireRange("year", year, 1000, 9999); err != nil {
		return err
	}
	d.year = year
	return nil
}

func (d *StructuredDate) SetMonth(month int) error {
	if err := requireRange("month", month, 1, 12); err != nil {
		return err
	}
	d.month = &month
	return nil
}

// SetDay requires a month to have been set first.
func (d *StructuredDate) SetDay(day int) error {
	if d.month == nil {
		return &InvalidArgumentError{Field: "day", Reason: "month must be set first"}
	}
	if err := requireRange("day", day, 1, 31); err != nil {
		return err
	}
	d.day = &day
	return nil
}

func (d *StructuredDate) WriteXML(enc *xml.Encoder) error {
	if d.year == 0 {
		return &SerializationError{Type: "date", Reason: "year was never set"}
	}
	if err := xmlutil.Open(enc, "date"); err != nil {
		return err
	}
	if err := xmlutil.WriteInt(enc, "y", d.year); err != nil {
		return err
	}
	if d.month != nil {
		if err := xmlutil.WriteInt(enc, "m", *d.month); err != nil {
			return err
		}
		if d.day != nil {
			if err := xmlutil.WriteInt(enc, "d", *d.day); err != nil {
				return err
			}
		}
	}
	return xmlutil.Close(enc, "date")
}

func (d *StructuredDate) ParseXML(n *xmlutil.Node) error {
	year, ok, err := n.ChildInt("y")
	if err != nil {
		return err
	}
	if !ok {
		return &MissingElementError{Element: "date/y"}
	}
	parsed := StructuredDate{}
	if err := parsed.SetYear(year); err != nil {
		return err
	}
	if month, ok, err := n.ChildInt("m"); err != nil {
		return err
	} else if ok {
		if err := parsed.SetMonth(month); err != nil {
			return err
		}
		if day, ok, err := n.ChildInt("d"); err != nil {
			return err
		} else if ok {
			if err := parsed.SetDay(day); err != nil {
				return err
			}
		}
	}
	*d = parsed
	return nil
}
