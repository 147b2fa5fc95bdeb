package things

import (
	"encoding/xml"

	"github.com/google/uuid"

	"github.com/carevault/carevault.go/internal/xmlutil"
)

// TypeIDFamilyHistory is the platform thing type id for family history
// conditions.
var TypeIDFamilyHistory = uuid.MustParse("6e6d0f4e-3c1a-4b5d-8d2e-1f9a7b30c6a2")

func init() {
	Register(TypeIDFamilyHistory, func() Item { return &FamilyHistory{} })
}

// FamilyHistory records a condition of a relative. The condition is
// mandatory; relationship, the relative's date of birth and the age at
// onset are optional.
//
// Wire form:
//
//	<family-history>
//	  <condition>...</condition>
//	  [<relationship>...</relationship>]
//	  [<date-of-birth>...</date-of-birth>]
//	  [<age-of-onset/>]
//	</family-history>
type FamilyHistory struct {
	Thing
	condition    *CodableValue
	relationship *CodableValue
	dateOfBirth  *StructuredDate
	ageOfOnset   *int
}

func NewFamilyHistory(condition *CodableValue) (*FamilyHistory, error) {
	f := &FamilyHistory{}
	if err := f.SetCondition(condition); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *FamilyHistory) TypeID() uuid.UUID   { return TypeIDFamilyHistory }
func (f *FamilyHistory) RootElement() string { return "family-history" }

func (f *FamilyHistory) Condition() *CodableValue { return f.condition }

func (f *FamilyHistory) SetCondition(condition *CodableValue) error {
	if condition == nil {
		return &InvalidArgumentError{Field: "condition", Reason: "must not be nil"}
	}
	f.condition = condition
	return nil
}

func (f *FamilyHistory) Relationship() *CodableValue { return f.relationship }

func (f *FamilyHistory) SetRelationship(relationship *CodableValue) error {
	if relationship == nil {
		return &InvalidArgumentError{Field: "relationship", Reason: "must not be nil"}
	}
	f.relationship = relationship
	return nil
}

func (f *FamilyHistory) DateOfBirth() *StructuredDate { return f.dateOfBirth }

func (f *FamilyHistory) SetDateOfBirth(date *StructuredDate) error {
	if date == nil {
		return &InvalidArgumentError{Field: "date of birth", Reason: "must not be nil"}
	}
	f.dateOfBirth = date
	return nil
}

// AgeOfOnset returns the relative's age when the condition first
// appeared, and whether one was set.
func (f *FamilyHistory) AgeOfOnset() (int, bool) {
	if f.ageOfOnset == nil {
		return 0, false
	}
	return *f.ageOfOnset, true
}

func (f *FamilyHistory) SetAgeOfOnset(age int) error {
	if err := requireRange("age of onset", age, 0, 150); err != nil {
		return err
	}
	f.ageOfOnset = &age
	return nil
}

func (f *FamilyHistory) WriteXML(enc *xml.Encoder) error {
	if f.condition == nil {
		return &SerializationError{Type: "family-history", Reason: "condition was never set"}
	}
	if err := xmlutil.Open(enc, "family-history"); err != nil {
		return err
	}
	if err := f.condition.WriteXMLAs(enc, "condition"); err != nil {
		return err
	}
	if f.relationship != nil {
		if err := f.relationship.WriteXMLAs(enc, "relationship"); err != nil {
			return err
		}
	}
	if f.dateOfBirth != nil {
		if err := xmlutil.Open(enc, "date-of-birth"); err != nil {
			return err
		}
		if err := f.dateOfBirth.WriteXML(enc); err != nil {
			return err
		}
		if err := xmlutil.Close(enc, "date-of-birth"); err != nil {
			return err
		}
	}
	if f.ageOfOnset != nil {
		if err := xmlutil.WriteInt(enc, "age-of-onset", *f.ageOfOnset); err != nil {
			return err
		}
	}
	return xmlutil.Close(enc, "family-history")
}

func (f *FamilyHistory) ParseXML(n *xmlutil.Node) error {
	conditionNode := n.Child("condition")
	if conditionNode == nil {
		return &MissingElementError{Element: "family-history/condition"}
	}
	condition := &CodableValue{}
	if err := condition.ParseXML(conditionNode); err != nil {
		return err
	}
	parsed := FamilyHistory{Thing: f.Thing, condition: condition}
	if rn := n.Child("relationship"); rn != nil {
		relationship := &CodableValue{}
		if err := relationship.ParseXML(rn); err != nil {
			return err
		}
		parsed.relationship = relationship
	}
	if dobNode := n.Child("date-of-birth"); dobNode != nil {
		dn := dobNode.Child("date")
		if dn == nil {
			return &MissingElementError{Element: "date-of-birth/date"}
		}
		date := &StructuredDate{}
		if err := date.ParseXML(dn); err != nil {
			return err
		}
		parsed.dateOfBirth = date
	}
	if age, ok, err := n.ChildInt("age-of-onset"); err != nil {
		return err
	} else if ok {
		if err := parsed.SetAgeOfOnset(age); err != nil {
			return err
		}
	}
	*f = parsed
	return nil
}
