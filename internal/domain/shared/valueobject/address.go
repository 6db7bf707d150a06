package valueobject

import (
	"strings"
)

// Address is a value object for shipping and billing addresses.
// Name, Street, City, State, Zip and Country are required; IsDefault marks
// the preferred address in a user's address book.
type Address struct {
	Name      string `bson:"name" json:"name"`
	Street    string `bson:"street" json:"street"`
	City      string `bson:"city" json:"city"`
	State     string `bson:"state" json:"state"`
	Zip       string `bson:"zip" json:"zipCode"`
	Country   string `bson:"country" json:"country"`
	IsDefault bool   `bson:"is_default" json:"isDefault,omitempty"`
}

// NewAddress creates a validated address with all required fields
func NewAddress(name, street, city, state, zip, country string) (Address, error) {
	addr := Address{
		Name:    strings.TrimSpace(name),
		Street:  strings.TrimSpace(street),
		City:    strings.TrimSpace(city),
		State:   strings.TrimSpace(state),
		Zip:     strings.TrimSpace(zip),
		Country: strings.TrimSpace(country),
	}
	if err := addr.Validate(); err != nil {
		return Address{}, err
	}
	return addr, nil
}

// MissingFields returns the names of required fields that are blank,
// in a stable order.
func (a Address) MissingFields() []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"name", a.Name},
		{"street", a.Street},
		{"city", a.City},
		{"state", a.State},
		{"zip", a.Zip},
		{"country", a.Country},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// Validate returns an error naming the missing required fields, if any
func (a Address) Validate() error {
	if missing := a.MissingFields(); len(missing) > 0 {
		return &AddressValidationError{Missing: missing}
	}
	return nil
}

// IsComplete returns true if all required fields are present
func (a Address) IsComplete() bool {
	return len(a.MissingFields()) == 0
}

// IsEmpty returns true if every field is blank
func (a Address) IsEmpty() bool {
	return a.Name == "" && a.Street == "" && a.City == "" &&
		a.State == "" && a.Zip == "" && a.Country == ""
}

// Equals returns true if both addresses have identical fields
func (a Address) Equals(other Address) bool {
	return a.Name == other.Name &&
		a.Street == other.Street &&
		a.City == other.City &&
		a.State == other.State &&
		a.Zip == other.Zip &&
		a.Country == other.Country
}

// String returns the single-line formatted address
func (a Address) String() string {
	if a.IsEmpty() {
		return ""
	}
	parts := make([]string, 0, 6)
	for _, p := range []string{a.Name, a.Street, a.City, a.State, a.Zip, a.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// AddressValidationError reports which required address fields are missing
type AddressValidationError struct {
	Missing []string
}

// Error implements the error interface
func (e *AddressValidationError) Error() string {
	return "address is missing required fields: " + strings.Join(e.Missing, ", ")
}
