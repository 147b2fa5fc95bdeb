package things

import (
	"encoding/xml"

	"github.com/google/uuid"

	"github.com/carevault/carevault.go/internal/xmlutil"
)

// TypeIDHeartRateZone is the platform thing type id for heart rate
// zone definitions.
var TypeIDHeartRateZone = uuid.MustParse("c7e21548-94f0-4b12-9d6a-52e8b0f1a3de")

func init() {
	Register(TypeIDHeartRateZone, func() Item { return &HeartRateZone{} })
}

// HeartRateZone is a named training zone bounded by heart rates in
// beats per minute. Each bound is optional on its own, but when both
// are present the lower bound must stay below the upper bound. The
// ordering is checked at set time against the other bound and again at
// write time, since bounds can be set in either order.
//
// Wire form: <heart-rate-zone>[<name/>][<lower-bound/>][<upper-bound/>]</heart-rate-zone>
type HeartRateZone struct {
	Thing
	name       string
	lowerBound *int
	upperBound *int
}

func (z *HeartRateZone) TypeID() uuid.UUID   { return TypeIDHeartRateZone }
func (z *HeartRateZone) RootElement() string { return "heart-rate-zone" }

func (z *HeartRateZone) Name() string { return z.name }

func (z *HeartRateZone) SetName(name string) error {
	if err := requireNonBlank("zone name", name); err != nil {
		return err
	}
	z.name = name
	return nil
}

// LowerBound returns the lower bound in bpm and whether one was set.
func (z *HeartRateZone) LowerBound() (int, bool) {
	if z.lowerBound == nil {
		return 0, false
	}
	return *z.lowerBound, true
}

// UpperBound returns the upper bound in bpm and whether one was set.
func (z *HeartRateZone) UpperBound() (int, bool) {
	if z.upperBound == nil {
		return 0, false
	}
	return *z.upperBound, true
}

func (z *HeartRateZone) SetLowerBound(bpm int) error {
	if err := requireRange("lower bound", bpm, 0, 300); err != nil {
		return err
	}
	if z.upperBound != nil && bpm >= *z.upperBound {
		return &InvalidArgumentError{Field: "lower bound", Reason: "must be below the upper bound"}
	}
	z.lowerBound = &bpm
	return nil
}

func (z *HeartRateZone) SetUpperBound(bpm int) error {
	if err := requireRange("upper bound", bpm, 0, 300); err != nil {
		return err
	}
	if z.lowerBound != nil && bpm <= *z.lowerBound {
		return &InvalidArgumentError{Field: "upper bound", Reason: "must be above the lower bound"}
	}
	z.upperBound = &bpm
	return nil
}

func (z *HeartRateZone) WriteXML(enc *xml.Encoder) error {
	if z.lowerBound != nil && z.upperBound != nil && *z.lowerBound >= *z.upperBound {
		return &SerializationError{Type: "heart-rate-zone", Reason: "bounds are not ordered"}
	}
	if err := xmlutil.Open(enc, "heart-rate-zone"); err != nil {
		return err
	}
	if z.name != "" {
		if err := xmlutil.WriteElement(enc, "name", z.name); err != nil {
			return err
		}
	}
	if z.lowerBound != nil {
		if err := xmlutil.WriteInt(enc, "lower-bound", *z.lowerBound); err != nil {
			return err
		}
	}
	if z.upperBound != nil {
		if err := xmlutil.WriteInt(enc, "upper-bound", *z.upperBound); err != nil {
			return err
		}
	}
	return xmlutil.Close(enc, "heart-rate-zone")
}

func (z *HeartRateZone) ParseXML(n *xmlutil.Node) error {
	parsed := HeartRateZone{Thing: z.Thing}
	if name, ok := n.ChildText("name"); ok {
		if err := parsed.SetName(name); err != nil {
			return err
		}
	}
	if lower, ok, err := n.ChildInt("lower-bound"); err != nil {
		return err
	} else if ok {
		if err := parsed.SetLowerBound(lower); err != nil {
			return err
		}
	}
	if upper, ok, err := n.ChildInt("upper-bound"); err != nil {
		return err
	} else if ok {
		if err := parsed.SetUpperBound(upper); err != nil {
			return err
		}
	}
	*z = parsed
	return nil
}
