package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Address is a value object representing a shipping address.
// It is immutable - all operations return new Address instances.
type Address struct {
	recipient  string
	line1      string
	line2      string
	city       string
	state      string
	postalCode string
	country    string
}

// AddressOption is a functional option for configuring Address
type AddressOption func(*Address)

// WithLine2 sets the second address line (apartment, suite)
func WithLine2(line2 string) AddressOption {
	return func(a *Address) {
		a.line2 = strings.TrimSpace(line2)
	}
}

// WithCountry sets the country for the address
func WithCountry(country string) AddressOption {
	return func(a *Address) {
		a.country = strings.ToUpper(strings.TrimSpace(country))
	}
}

// NewAddress creates a new Address with the required fields.
// Recipient, line1, city, state, and postal code are required;
// line2 is optional and country defaults to US.
func NewAddress(recipient, line1, city, state, postalCode string, opts ...AddressOption) (Address, error) {
	recipient = strings.TrimSpace(recipient)
	line1 = strings.TrimSpace(line1)
	city = strings.TrimSpace(city)
	state = strings.TrimSpace(state)
	postalCode = strings.TrimSpace(postalCode)

	if err := validateRequired("recipient", recipient, 200); err != nil {
		return Address{}, err
	}
	if err := validateRequired("address line", line1, 200); err != nil {
		return Address{}, err
	}
	if err := validateRequired("city", city, 100); err != nil {
		return Address{}, err
	}
	if err := validateRequired("state", state, 100); err != nil {
		return Address{}, err
	}
	if err := validateRequired("postal code", postalCode, 20); err != nil {
		return Address{}, err
	}

	addr := Address{
		recipient:  recipient,
		line1:      line1,
		city:       city,
		state:      state,
		postalCode: postalCode,
		country:    "US",
	}

	for _, opt := range opts {
		opt(&addr)
	}

	if len(addr.line2) > 200 {
		return Address{}, fmt.Errorf("address line cannot exceed 200 characters")
	}
	if addr.country == "" || len(addr.country) > 100 {
		return Address{}, fmt.Errorf("invalid country")
	}

	return addr, nil
}

// MustNewAddress creates a new Address, panics on error
func MustNewAddress(recipient, line1, city, state, postalCode string, opts ...AddressOption) Address {
	addr, err := NewAddress(recipient, line1, city, state, postalCode, opts...)
	if err != nil {
		panic(err)
	}
	return addr
}

// EmptyAddress returns an empty address (for optional address fields)
func EmptyAddress() Address {
	return Address{}
}

// Recipient returns the recipient name
func (a Address) Recipient() string {
	return a.recipient
}

// Line1 returns the first address line
func (a Address) Line1() string {
	return a.line1
}

// Line2 returns the second address line
func (a Address) Line2() string {
	return a.line2
}

// City returns the city
func (a Address) City() string {
	return a.city
}

// State returns the state or province
func (a Address) State() string {
	return a.state
}

// PostalCode returns the postal code
func (a Address) PostalCode() string {
	return a.postalCode
}

// Country returns the country code
func (a Address) Country() string {
	return a.country
}

// IsEmpty returns true if the address has no content
func (a Address) IsEmpty() bool {
	return a.recipient == "" && a.line1 == "" && a.city == "" && a.postalCode == ""
}

// FullAddress returns the complete formatted address string
func (a Address) FullAddress() string {
	if a.IsEmpty() {
		return ""
	}

	parts := make([]string, 0, 6)
	parts = append(parts, a.recipient, a.line1)
	if a.line2 != "" {
		parts = append(parts, a.line2)
	}
	parts = append(parts, fmt.Sprintf("%s, %s %s", a.city, a.state, a.postalCode))
	if a.country != "" {
		parts = append(parts, a.country)
	}
	return strings.Join(parts, ", ")
}

// String returns a string representation of the address
func (a Address) String() string {
	return a.FullAddress()
}

// Equals returns true if both addresses are equal
func (a Address) Equals(other Address) bool {
	return a.recipient == other.recipient &&
		a.line1 == other.line1 &&
		a.line2 == other.line2 &&
		a.city == other.city &&
		a.state == other.state &&
		a.postalCode == other.postalCode &&
		a.country == other.country
}

// addressJSON is used for JSON marshaling/unmarshaling
type addressJSON struct {
	Recipient  string `json:"recipient"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country,omitempty"`
}

// MarshalJSON implements json.Marshaler
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(addressJSON{
		Recipient:  a.recipient,
		Line1:      a.line1,
		Line2:      a.line2,
		City:       a.city,
		State:      a.state,
		PostalCode: a.postalCode,
		Country:    a.country,
	})
}

// UnmarshalJSON implements json.Unmarshaler. Validation is delegated to
// NewAddress so a deserialized address is as constrained as a constructed one.
func (a *Address) UnmarshalJSON(data []byte) error {
	var v addressJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	// Allow empty addresses from JSON
	if v.Recipient == "" && v.Line1 == "" && v.City == "" && v.PostalCode == "" {
		*a = EmptyAddress()
		return nil
	}

	opts := []AddressOption{WithLine2(v.Line2)}
	if v.Country != "" {
		opts = append(opts, WithCountry(v.Country))
	}
	addr, err := NewAddress(v.Recipient, v.Line1, v.City, v.State, v.PostalCode, opts...)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// Value implements driver.Valuer for database storage as JSON
func (a Address) Value() (driver.Value, error) {
	if a.IsEmpty() {
		return nil, nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner for database retrieval
func (a *Address) Scan(value any) error {
	if value == nil {
		*a = EmptyAddress()
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into Address", value)
	}

	if len(data) == 0 || string(data) == "null" {
		*a = EmptyAddress()
		return nil
	}

	return json.Unmarshal(data, a)
}

func validateRequired(field, value string, maxLen int) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", field)
	}
	if len(value) > maxLen {
		return fmt.Errorf("%s cannot exceed %d characters", field, maxLen)
	}
	return nil
}
