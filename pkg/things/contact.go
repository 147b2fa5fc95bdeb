package things

import (
	"encoding/xml"
	"strings"

	"github.com/carevault/carevault.go/internal/xmlutil"
)

// Contact groups a person's addresses, phone numbers and email
// addresses. Every part is optional, but an empty contact is not
// written.
//
// Wire form: <contact><address/>*<phone/>*<email/>*</contact>
type Contact struct {
	addresses []*Address
	phones    []*Phone
	emails    []*Email
}

func (c *Contact) Addresses() []*Address { return c.addresses }
func (c *Contact) Phones() []*Phone      { return c.phones }
func (c *Contact) Emails() []*Email      { return c.emails }

func (c *Contact) AddAddress(a *Address) error {
	if a == nil {
		return &InvalidArgumentError{Field: "address", Reason: "must not be nil"}
	}
	c.addresses = append(c.addresses, a)
	return nil
}

func (c *Contact) AddPhone(p *Phone) error {
	if p == nil {
		return &InvalidArgumentError{Field: "phone", Reason: "must not be nil"}
	}
	c.phones = append(c.phones, p)
	return nil
}

func (c *Contact) AddEmail(e *Email) error {
	if e == nil {
		return &InvalidArgumentError{Field: "email", Reason: "must not be nil"}
	}
	c.emails = append(c.emails, e)
	return nil
}

func (c *Contact) empty() bool {
	return len(c.addresses) == 0 && len(c.phones) == 0 && len(c.emails) == 0
}

func (c *Contact) WriteXML(enc *xml.Encoder) error {
	if err := xmlutil.Open(enc, "contact"); err != nil {
		return err
	}
	for _, a := range c.addresses {
		if err := a.WriteXML(enc); err != nil {
			return err
		}
	}
	for _, p := range c.phones {
		if err := p.WriteXML(enc); err != nil {
			return err
		}
	}
	for _, e := range c.emails {
		if err := e.WriteXML(enc); err != nil {
			return err
		}
	}
	return xmlutil.Close(enc, "contact")
}

func (c *Contact) ParseXML(n *xmlutil.Node) error {
	parsed := Contact{}
	for _, an := range n.ChildrenNamed("address") {
		a := &Address{}
		if err := a.ParseXML(an); err != nil {
			return err
		}
		parsed.addresses = append(parsed.addresses, a)
	}
	for _, pn := range n.ChildrenNamed("phone") {
		p := &Phone{}
		if err := p.ParseXML(pn); err != nil {
			return err
		}
		parsed.phones = append(parsed.phones, p)
	}
	for _, en := range n.ChildrenNamed("email") {
		e := &Email{}
		if err := e.ParseXML(en); err != nil {
			return err
		}
		parsed.emails = append(parsed.emails, e)
	}
	*c = parsed
	return nil
}

// Phone is a telephone number with an optional description ("home",
// "work").
//
// Wire form: <phone>[<description/>]<number/></phone>
type Phone struct {
	description string
	number      string
}

func NewPhone(number string) (*Phone, error) {
	p := &Phone{}
	if err := p.SetNumber(number); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Phone) Number() string      { return p.number }
func (p *Phone) Description() string { return p.description }

func (p *Phone) SetNumber(number string) error {
	if err := requireNonBlank("phone number", number); err != nil {
		return err
	}
	p.number = number
	return nil
}

func (p *Phone) SetDescription(description string) error {
	if err := requireNonBlank("phone description", description); err != nil {
		return err
	}
	p.description = description
	return nil
}

func (p *Phone) WriteXML(enc *xml.Encoder) error {
	if p.number == "" {
		return &SerializationError{Type: "phone", Reason: "number was never set"}
	}
	if err := xmlutil.Open(enc, "phone"); err != nil {
		return err
	}
	if p.description != "" {
		if err := xmlutil.WriteElement(enc, "description", p.description); err != nil {
			return err
		}
	}
	if err := xmlutil.WriteElement(enc, "number", p.number); err != nil {
		return err
	}
	return xmlutil.Close(enc, "phone")
}

func (p *Phone) ParseXML(n *xmlutil.Node) error {
	number, ok := n.ChildText("number")
	if !ok {
		return &MissingElementError{Element: "phone/number"}
	}
	parsed := Phone{}
	if err := parsed.SetNumber(number); err != nil {
		return err
	}
	if description, ok := n.ChildText("description"); ok {
		if err := parsed.SetDescription(description); err != nil {
			return err
		}
	}
	*p = parsed
	return nil
}

// Email is an email address with an optional description.
//
// Wire form: <email>[<description/>]<address/></email>
type Email struct {
	description string
	address     string
}

func NewEmail(address string) (*Email, error) {
	e := &Email{}
	if err := e.SetAddress(address); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Email) Address() string     { return e.address }
func (e *Email) Description() string { return e.description }

func (e *Email) SetAddress(address string) error {
	if err := requireNonBlank("email address", address); err != nil {
		return err
	}
	if !strings.Contains(address, "@") {
		return &InvalidArgumentError{Field: "email address", Reason: "must contain @"}
	}
	e.address = address
	return nil
}

func (e *Email) SetDescription(description string) error {
	if err := requireNonBlank("email description", description); err != nil {
		return err
	}
	e.description = description
	return nil
}

func (e *Email) WriteXML(enc *xml.Encoder) error {
	if e.address == "" {
		return &SerializationError{Type: "email", Reason: "address was never set"}
	}
	if err := xmlutil.Open(enc, "email"); err != nil {
		return err
	}
	if e.description != "" {
		if err := xmlutil.WriteElement(enc, "description", e.description); err != nil {
			return err
		}
	}
	if err := xmlutil.WriteElement(enc, "address", e.address); err != nil {
		return err
	}
	return xmlutil.Close(enc, "email")
}

func (e *Email) ParseXML(n *xmlutil.Node) error {
	address, ok := n.ChildText("address")
	if !ok {
		return &MissingElementError{Element: "email/address"}
	}
	parsed := Email{}
	if err := parsed.SetAddress(address); err != nil {
		return err
	}
	if description, ok := n.ChildText("description"); ok {
		if err := parsed.SetDescription(description); err != nil {
			return err
		}
	}
	*e = parsed
	return nil
}
