package enums

import "fmt"

// ServiceVariant narrows a ServiceKind to the location/delivery flavor being
// priced. Not every kind accepts every variant; the pricing rate book is the
// authority on which pairs exist.
type ServiceVariant string

const (
	ServiceVariantNone     ServiceVariant = ""
	ServiceVariantOffice   ServiceVariant = "office"
	ServiceVariantMobile   ServiceVariant = "mobile"
	ServiceVariantRemote   ServiceVariant = "remote"
	ServiceVariantInPerson ServiceVariant = "in_person"
	ServiceVariantStandard ServiceVariant = "standard"
)

var validServiceVariants = []ServiceVariant{
	ServiceVariantNone,
	ServiceVariantOffice,
	ServiceVariantMobile,
	ServiceVariantRemote,
	ServiceVariantInPerson,
	ServiceVariantStandard,
}

// String implements fmt.Stringer.
func (s ServiceVariant) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ServiceVariant.
func (s ServiceVariant) IsValid() bool {
	for _, candidate := range validServiceVariants {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseServiceVariant converts raw input into a ServiceVariant.
func ParseServiceVariant(value string) (ServiceVariant, error) {
	for _, candidate := range validServiceVariants {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid service variant %q", value)
}
