package things

import (
	"encoding/xml"
	"time"

	"github.com/carevault/carevault.go/internal/xmlutil"
)

// ApproximateDateTime is a point in time that is either structured
// (a StructuredDate plus optional ApproximateTime) or purely
// descriptive ("as a teenager"). The two forms are mutually exclusive.
//
// Wire form, written under a caller-supplied name:
//
//	<when><structured><date/>[<time/>]</structured></when>
//	<when><descriptive>...</descriptive></when>
type ApproximateDateTime struct {
	date        *StructuredDate
	time        *ApproximateTime
	descriptive string
}

// NewApproximateDateTime builds a structured value from a date.
func NewApproximateDateTime(date *StructuredDate) (*ApproximateDateTime, error) {
	dt := &ApproximateDateTime{}
	if err := dt.SetDate(date); err != nil {
		return nil, err
	}
	return dt, nil
}

// NewDescriptiveDateTime builds a descriptive-only value.
func NewDescriptiveDateTime(text string) (*ApproximateDateTime, error) {
	dt := &ApproximateDateTime{}
	if err := dt.SetDescriptive(text); err != nil {
		return nil, err
	}
	return dt, nil
}

// FromTime builds an exact structured value from t, truncated to
// second precision.
func FromTime(t time.Time) *ApproximateDateTime {
	t = t.UTC()
	date, _ := NewYMD(t.Year(), int(t.Month()), t.Day())
	at, _ := NewApproximateTime(t.Hour(), t.Minute())
	_ = at.SetSecond(t.Second())
	return &ApproximateDateTime{date: date, time: at}
}

func (dt *ApproximateDateTime) Date() *StructuredDate  { return dt.date }
func (dt *ApproximateDateTime) Time() *ApproximateTime { return dt.time }
func (dt *ApproximateDateTime) Descriptive() string    { return dt.descriptive }

// SetDate switches the value to structured form.
func (dt *ApproximateDateTime) SetDate(date *StructuredDate) error {
	if date == nil {
		return &InvalidArgumentError{Field: "date", Reason: "must not be nil"}
	}
	dt.date = date
	dt.descriptive = ""
	return nil
}

// SetTime attaches a time of day; a date must be set first.
func (dt *ApproximateDateTime) SetTime(t *ApproximateTime) error {
	if t == nil {
		return &InvalidArgumentError{Field: "time", Reason: "must not be nil"}
	}
	if dt.date == nil {
		return &InvalidArgumentError{Field: "time", Reason: "date must be set first"}
	}
	dt.time = t
	return nil
}

// SetDescriptive switches the value to descriptive form.
func (dt *ApproximateDateTime) SetDescriptive(text string) error {
	if err := requireNonBlank("descriptive", text); err != nil {
		return err
	}
	dt.descriptive = text
	dt.date, dt.time = nil, nil
	return nil
}

// WriteXMLAs serializes the value under the given element name.
func (dt *ApproximateDateTime) WriteXMLAs(enc *xml.Encoder, name string) error {
	if dt.date == nil && dt.descriptive == "" {
		return &SerializationError{Type: name, Reason: "neither date nor descriptive was set"}
	}
	if err := xmlutil.Open(enc, name); err != nil {
		return err
	}
	if dt.date != nil {
		if err := xmlutil.Open(enc, "structured"); err != nil {
			return err
		}
		if err := dt.date.WriteXML(enc); err != nil {
			return err
		}
		if dt.time != nil {
			if err := dt.time.WriteXML(enc); err != nil {
				return err
			}
		}
		if err := xmlutil.Close(enc, "structured"); err != nil {
			return err
		}
	} else {
		if err := xmlutil.WriteElement(enc, "descriptive", dt.descriptive); err != nil {
			return err
		}
	}
	return xmlutil.Close(enc, name)
}

func (dt *ApproximateDateTime) ParseXML(n *xmlutil.Node) error {
	if structured := n.Child("structured"); structured != nil {
		dn := structured.Child("date")
		if dn == nil {
			return &MissingElementError{Element: "structured/date"}
		}
		date := &StructuredDate{}
		if err := date.ParseXML(dn); err != nil {
			return err
		}
		parsed := ApproximateDateTime{date: date}
		if tn := structured.Child("time"); tn != nil {
			at := &ApproximateTime{}
			if err := at.ParseXML(tn); err != nil {
				return err
			}
			parsed.time = at
		}
		*dt = parsed
		return nil
	}
	if text, ok := n.ChildText("descriptive"); ok {
		return dt.SetDescriptive(text)
	}
	return &MissingElementError{Element: n.Name + "/structured"}
}
