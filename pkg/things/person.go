package things

import (
	"encoding/xml"

	"github.com/google/uuid"

	"github.com/carevault/carevault.go/internal/xmlutil"
)

// TypeIDPerson is the platform thing type id for person records.
var TypeIDPerson = uuid.MustParse("55c5e3a1-9f28-4c0d-8f9b-7a6c2e0d41b8")

func init() {
	Register(TypeIDPerson, func() Item { return &Person{} })
}

// Person describes a person attached to a record, such as a care
// provider or emergency contact. The name is mandatory.
//
// Wire form:
//
//	<person>
//	  <name>...</name>
//	  [<organization/>][<professional-training/>][<id/>]
//	  [<contact>...</contact>]
//	</person>
type Person struct {
	Thing
	name         *Name
	organization string
	training     string
	personID     string
	contact      *Contact
}

func NewPerson(name *Name) (*Person, error) {
	p := &Person{}
	if err := p.SetName(name); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Person) TypeID() uuid.UUID   { return TypeIDPerson }
func (p *Person) RootElement() string { return "person" }

func (p *Person) Name() *Name { return p.name }

func (p *Person) SetName(name *Name) error {
	if name == nil {
		return &InvalidArgumentError{Field: "name", Reason: "must not be nil"}
	}
	p.name = name
	return nil
}

func (p *Person) Organization() string { return p.organization }

func (p *Person) SetOrganization(organization string) error {
	if err := requireNonBlank("organization", organization); err != nil {
		return err
	}
	p.organization = organization
	return nil
}

// ProfessionalTraining describes the person's credentials, e.g.
// "Board Certified Internist".
func (p *Person) ProfessionalTraining() string { return p.training }

func (p *Person) SetProfessionalTraining(training string) error {
	if err := requireNonBlank("professional training", training); err != nil {
		return err
	}
	p.training = training
	return nil
}

// PersonID is the platform-assigned identifier of the person, when
// known.
func (p *Person) PersonID() string { return p.personID }

func (p *Person) SetPersonID(id string) error {
	if err := requireNonBlank("person id", id); err != nil {
		return err
	}
	p.personID = id
	return nil
}

func (p *Person) Contact() *Contact { return p.contact }

func (p *Person) SetContact(contact *Contact) error {
	if contact == nil {
		return &InvalidArgumentError{Field: "contact", Reason: "must not be nil"}
	}
	p.contact = contact
	return nil
}

func (p *Person) WriteXML(enc *xml.Encoder) error {
	if p.name == nil {
		return &SerializationError{Type: "person", Reason: "name was never set"}
	}
	if err := xmlutil.Open(enc, "person"); err != nil {
		return err
	}
	if err := p.name.WriteXML(enc); err != nil {
		return err
	}
	if p.organization != "" {
		if err := xmlutil.WriteElement(enc, "organization", p.organization); err != nil {
			return err
		}
	}
	if p.training != "" {
		if err := xmlutil.WriteElement(enc, "professional-training", p.training); err != nil {
			return err
		}
	}
	if p.personID != "" {
		if err := xmlutil.WriteElement(enc, "id", p.personID); err != nil {
			return err
		}
	}
	if p.contact != nil && !p.contact.empty() {
		if err := p.contact.WriteXML(enc); err != nil {
			return err
		}
	}
	return xmlutil.Close(enc, "person")
}

func (p *Person) ParseXML(n *xmlutil.Node) error {
	nameNode := n.Child("name")
	if nameNode == nil {
		return &MissingElementError{Element: "person/name"}
	}
	name := &Name{}
	if err := name.ParseXML(nameNode); err != nil {
		return err
	}
	parsed := Person{Thing: p.Thing, name: name}
	if organization, ok := n.ChildText("organization"); ok {
		if err := parsed.SetOrganization(organization); err != nil {
			return err
		}
	}
	if training, ok := n.ChildText("professional-training"); ok {
		if err := parsed.SetProfessionalTraining(training); err != nil {
			return err
		}
	}
	if id, ok := n.ChildText("id"); ok {
		if err := parsed.SetPersonID(id); err != nil {
			return err
		}
	}
	if cn := n.Child("contact"); cn != nil {
		contact := &Contact{}
		if err := contact.ParseXML(cn); err != nil {
			return err
		}
		parsed.contact = contact
	}
	*p = parsed
	return nil
}
