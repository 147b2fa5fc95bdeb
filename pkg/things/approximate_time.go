package things

import (
	"encoding/xml"

	"github.com/carevault/carevault.go/internal/xmlutil"
)

// ApproximateTime is a time of day with optional precision. Hour and
// minute are always present; second and millisecond may be absent.
//
// Wire form: <time><h/><m/>[<s/>[<f/>]]</time>
type ApproximateTime struct {
	hour        int
	minute      int
	second      *int
	millisecond *int
}

func NewApproximateTime(hour, minute int) (*ApproximateTime, error) {
	t := &ApproximateTime{}
	if err := t.SetHour(hour); err != nil {
		return nil, err
	}
	if err := t.SetMinute(minute); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *ApproximateTime) Hour() int   { return t.hour }
func (t *ApproximateTime) Minute() int { return t.minute }

// Second returns the second and whether one was set.
func (t *ApproximateTime) Second() (int, bool) {
	if t.second == nil {
		return 0, false
	}
	return *t.second, true
}

// Millisecond returns the millisecond and whether one was set.
func (t *ApproximateTime) Millisecond() (int, bool) {
	if t.millisecond == nil {
		return 0, false
	}
	return *t.millisecond, true
}

func (t *ApproximateTime) SetHour(hour int) error {
	if err := requireRange("hour", hour, 0, 23); err != nil {
		return err
	}
	t.hour = hour
	return nil
}

func (t *ApproximateTime) SetMinute(minute int) error {
	if err := requireRange("minute", minute, 0, 59); err != nil {
		return err
	}
	t.minute = minute
	return nil
}

func (t *ApproximateTime) SetSecond(second int) error {
	if err := requireRange("second", second, 0, 59); err != nil {
		return err
	}
	t.second = &second
	return nil
}

// SetMillisecond requires a second to have been set first; the wire
// format cannot express a fraction without a second.
func (t *ApproximateTime) SetMillisecond(millisecond int) error {
	if t.second == nil {
		return &InvalidArgumentError{Field: "millisecond", Reason: "second must be set first"}
	}
	if err := requireRange("millisecond", millisecond, 0, 999); err != nil {
		return err
	}
	t.millisecond = &millisecond
	return nil
}

func (t *ApproximateTime) WriteXML(enc *xml.Encoder) error {
	if err := xmlutil.Open(enc, "time"); err != nil {
		return err
	}
	if err := xmlutil.WriteInt(enc, "h", t.hour); err != nil {
		return err
	}
	if err := xmlutil.WriteInt(enc, "m", t.minute); err != nil {
		return err
	}
	if t.second != nil {
		if err := xmlutil.WriteInt(enc, "s", *t.second); err != nil {
			return err
		}
		if t.millisecond != nil {
			if err := xmlutil.WriteInt(enc, "f", *t.millisecond); err != nil {
				return err
			}
		}
	}
	return xmlutil.Close(enc, "time")
}

func (t *ApproximateTime) ParseXML(n *xmlutil.Node) error {
	hour, ok, err := n.ChildInt("h")
	if err != nil {
		return err
	}
	if !ok {
		return &MissingElementError{Element: "time/h"}
	}
	minute, ok, err := n.ChildInt("m")
	if err != nil {
		return err
	}
	if !ok {
		return &MissingElementError{Element: "time/m"}
	}
	parsed := ApproximateTime{}
	if err := parsed.SetHour(hour); err != nil {
		return err
	}
	if err := parsed.SetMinute(minute); err != nil {
		return err
	}
	if second, ok, err := n.ChildInt("s"); err != nil {
		return err
	} else if ok {
		if err := parsed.SetSecond(second); err != nil {
			return err
		}
		if millisecond, ok, err := n.ChildInt("f"); err != nil {
			return err
		} else if ok {
			if err := parsed.SetMillisecond(millisecond); err != nil {
				return err
			}
		}
	}
	*t = parsed
	return nil
}
