package enums

import "fmt"

// SigningType distinguishes how the signing session is conducted.
type SigningType string

const (
	SigningTypeInPerson SigningType = "in_person"
	SigningTypeRON      SigningType = "ron"
	SigningTypeHybrid   SigningType = "hybrid"
)

var validSigningTypes = []SigningType{
	SigningTypeInPerson,
	SigningTypeRON,
	SigningTypeHybrid,
}

// String implements fmt.Stringer.
func (s SigningType) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SigningType.
func (s SigningType) IsValid() bool {
	for _, candidate := range validSigningTypes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSigningType converts raw input into a SigningType.
func ParseSigningType(value string) (SigningType, error) {
	for _, candidate := range validSigningTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid signing type %q", value)
}
