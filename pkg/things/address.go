package things

import (
	"encoding/xml"

	"github.com/carevault/carevault.go/internal/xmlutil"
)

// Address is a physical address. Street lines, city, postcode and
// country are mandatory at write time; description, primary flag and
// state are optional.
//
// Wire form:
//
//	<address>
//	  [<description/>][<is-primary/>]
//	  <street/>+ <city/> [<state/>] <postcode/> <country/>
//	</address>
type Address struct {
	description string
	isPrimary   *bool
	streets     []string
	city        string
	state       string
	postcode    string
	country     string
}

func (a *Address) Description() string { return a.description }

func (a *Address) SetDescription(description string) error {
	if err := requireNonBlank("description", description); err != nil {
		return err
	}
	a.description = description
	return nil
}

// IsPrimary reports the primary flag and whether it was set.
func (a *Address) IsPrimary() (bool, bool) {
	if a.isPrimary == nil {
		return false, false
	}
	return *a.isPrimary, true
}

func (a *Address) SetIsPrimary(primary bool) {
	a.isPrimary = &primary
}

func (a *Address) Streets() []string { return a.streets }

func (a *Address) AddStreet(street string) error {
	if err := requireNonBlank("street", street); err != nil {
		return err
	}
	a.streets = append(a.streets, street)
	return nil
}

func (a *Address) City() string { return a.city }

func (a *Address) SetCity(city string) error {
	if err := requireNonBlank("city", city); err != nil {
		return err
	}
	a.city = city
	return nil
}

func (a *Address) State() string { return a.state }

func (a *Address) SetState(state string) error {
	if err := requireNonBlank("state", state); err != nil {
		return err
	}
	a.state = state
	return nil
}

func (a *Address) Postcode() string { return a.postcode }

func (a *Address) SetPostcode(postcode string) error {
	if err := requireNonBlank("postcode", postcode); err != nil {
		return err
	}
	a.postcode = postcode
	return nil
}

func (a *Address) Country() string { return a.country }

func (a *Address) SetCountry(country string) error {
	if err := requireNonBlank("country", country); err != nil {
		return err
	}
	a.country = country
	return nil
}

// WriteXML re-validates the mandatory fields before writing so a
// partially-constructed address never reaches the wire.
func (a *Address) WriteXML(enc *xml.Encoder) error {
	switch {
	case len(a.streets) == 0:
		return &SerializationError{Type: "address", Reason: "at least one street line is required"}
	case a.city == "":
		return &SerializationError{Type: "address", Reason: "city was never set"}
	case a.postcode == "":
		return &SerializationError{Type: "address", Reason: "postcode was never set"}
	case a.country == "":
		return &SerializationError{Type: "address", Reason: "country was never set"}
	}
	if err := xmlutil.Open(enc, "address"); err != nil {
		return err
	}
	if a.description != "" {
		if err := xmlutil.WriteElement(enc, "description", a.description); err != nil {
			return err
		}
	}
	if a.isPrimary != nil {
		if err := xmlutil.WriteBool(enc, "is-primary", *a.isPrimary); err != nil {
			return err
		}
	}
	for _, street := range a.streets {
		if err := xmlutil.WriteElement(enc, "street", street); err != nil {
			return err
		}
	}
	if err := xmlutil.WriteElement(enc, "city", a.city); err != nil {
		return err
	}
	if a.state != "" {
		if err := xmlutil.WriteElement(enc, "state", a.state); err != nil {
			return err
		}
	}
	if err := xmlutil.WriteElement(enc, "postcode", a.postcode); err != nil {
		return err
	}
	if err := xmlutil.WriteElement(enc, "country", a.country); err != nil {
		return err
	}
	return xmlutil.Close(enc, "address")
}

func (a *Address) ParseXML(n *xmlutil.Node) error {
	streets := n.ChildrenNamed("street")
	if len(streets) == 0 {
		return &MissingElementError{Element: "address/street"}
	}
	city, ok := n.ChildText("city")
	if !ok {
		return &MissingElementError{Element: "address/city"}
	}
	postcode, ok := n.ChildText("postcode")
	if !ok {
		return &MissingElementError{Element: "address/postcode"}
	}
	country, ok := n.ChildText("country")
	if !ok {
		return &MissingElementError{Element: "address/country"}
	}

	parsed := Address{}
	for _, s := range streets {
		if err := parsed.AddStreet(s.Text()); err != nil {
			return err
		}
	}
	if err := parsed.SetCity(city); err != nil {
		return err
	}
	if err := parsed.SetPostcode(postcode); err != nil {
		return err
	}
	if err := parsed.SetCountry(country); err != nil {
		return err
	}
	if description, ok := n.ChildText("description"); ok {
		if err := parsed.SetDescription(description); err != nil {
			return err
		}
	}
	if primary, ok, err := n.ChildBool("is-primary"); err != nil {
		return err
	} else if ok {
		parsed.SetIsPrimary(primary)
	}
	if state, ok := n.ChildText("state"); ok {
		if err := parsed.SetState(state); err != nil {
			return err
		}
	}
	*a = parsed
	return nil
}
