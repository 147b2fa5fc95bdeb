package things

import (
	"encoding/xml"

	"github.com/google/uuid"

	"github.com/carevault/carevault.go/internal/xmlutil"
)

// TypeIDWeight is the platform thing type id for weight measurements.
var TypeIDWeight = uuid.MustParse("93f3a04b-1c6e-4a33-9ac6-3322f8f3d5d0")

func init() {
	Register(TypeIDWeight, func() Item { return &Weight{} })
}

// Weight is a single body weight measurement. The value is stored in
// kilograms; an optional display value preserves the unit the user
// entered it in.
//
// Wire form:
//
//	<weight>
//	  <when>...</when>
//	  <value><kg>75.5</kg>[<display units="lb">166.4</display>]</value>
//	</weight>
type Weight struct {
	Thing
	value *WeightValue
}

// NewWeight builds a weight measurement of kilograms kg, effective now.
func NewWeight(kg float64) (*Weight, error) {
	value, err := NewWeightValue(kg)
	if err != nil {
		return nil, err
	}
	w := &Weight{value: value}
	return w, nil
}

func (w *Weight) TypeID() uuid.UUID   { return TypeIDWeight }
func (w *Weight) RootElement() string { return "weight" }

// Value returns the measurement, or nil if none was set.
func (w *Weight) Value() *WeightValue { return w.value }

func (w *Weight) SetValue(value *WeightValue) error {
	if value == nil {
		return &InvalidArgumentError{Field: "value", Reason: "must not be nil"}
	}
	w.value = value
	return nil
}

func (w *Weight) WriteXML(enc *xml.Encoder) error {
	if w.value == nil {
		return &SerializationError{Type: "weight", Reason: "value was never set"}
	}
	if err := xmlutil.Open(enc, "weight"); err != nil {
		return err
	}
	if err := w.effectiveWhen().WriteXMLAs(enc, "when"); err != nil {
		return err
	}
	if err := w.value.WriteXML(enc); err != nil {
		return err
	}
	return xmlutil.Close(enc, "weight")
}

func (w *Weight) ParseXML(n *xmlutil.Node) error {
	whenNode := n.Child("when")
	if whenNode == nil {
		return &MissingElementError{Element: "weight/when"}
	}
	when := &ApproximateDateTime{}
	if err := when.ParseXML(whenNode); err != nil {
		return err
	}
	valueNode := n.Child("value")
	if valueNode == nil {
		return &MissingElementError{Element: "weight/value"}
	}
	value := &WeightValue{}
	if err := value.ParseXML(valueNode); err != nil {
		return err
	}
	w.when = when
	w.value = value
	return nil
}

// WeightValue is a mass in kilograms with an optional display value in
// the unit the measurement was taken in.
type WeightValue struct {
	kilograms    float64
	displayValue *float64
	displayUnits string
}

func NewWeightValue(kg float64) (*WeightValue, error) {
	v := &WeightValue{}
	if err := v.SetKilograms(kg); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *WeightValue) Kilograms() float64 { return v.kilograms }

func (v *WeightValue) SetKilograms(kg float64) error {
	if kg < 0 {
		return &InvalidArgumentError{Field: "kilograms", Reason: "must not be negative"}
	}
	v.kilograms = kg
	return nil
}

// Display returns the display value and its units, if set.
func (v *WeightValue) Display() (float64, string, bool) {
	if v.displayValue == nil {
		return 0, "", false
	}
	return *v.displayValue, v.displayUnits, true
}

func (v *WeightValue) SetDisplay(value float64, units string) error {
	if value < 0 {
		return &InvalidArgumentError{Field: "display", Reason: "must not be negative"}
	}
	if err := requireNonBlank("display units", units); err != nil {
		return err
	}
	v.displayValue = &value
	v.displayUnits = units
	return nil
}

func (v *WeightValue) WriteXML(enc *xml.Encoder) error {
	if err := xmlutil.Open(enc, "value"); err != nil {
		return err
	}
	if err := xmlutil.WriteFloat(enc, "kg", v.kilograms); err != nil {
		return err
	}
	if v.displayValue != nil {
		err := xmlutil.WriteElement(enc, "display",
			xmlutil.FormatFloat(*v.displayValue), xmlutil.Attr("units", v.displayUnits))
		if err != nil {
			return err
		}
	}
	return xmlutil.Close(enc, "value")
}

func (v *WeightValue) ParseXML(n *xmlutil.Node) error {
	kg, ok, err := n.ChildFloat("kg")
	if err != nil {
		return err
	}
	if !ok {
		return &MissingElementError{Element: "value/kg"}
	}
	parsed := WeightValue{}
	if err := parsed.SetKilograms(kg); err != nil {
		return err
	}
	if dn := n.Child("display"); dn != nil {
		display, err := xmlutil.ParseFloat(dn.Text())
		if err != nil {
			return err
		}
		units, ok := dn.Attr("units")
		if !ok {
			return &MissingElementError{Element: "display@units"}
		}
		if err := parsed.SetDisplay(display, units); err != nil {
			return err
		}
	}
	*v = parsed
	return nil
}
