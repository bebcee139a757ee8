package enums

import "fmt"

// VendorTier buckets vendors by their elite score. Tier is always derived
// from the score; it is never set independently.
type VendorTier string

const (
	VendorTierBronze VendorTier = "bronze"
	VendorTierSilver VendorTier = "silver"
	VendorTierGold   VendorTier = "gold"
	VendorTierElite  VendorTier = "elite"
)

var validVendorTiers = []VendorTier{
	VendorTierBronze,
	VendorTierSilver,
	VendorTierGold,
	VendorTierElite,
}

// TierForScore maps an elite score (0-100) onto its tier.
func TierForScore(score int) VendorTier {
	switch {
	case score >= 90:
		return VendorTierElite
	case score >= 80:
		return VendorTierGold
	case score >= 70:
		return VendorTierSilver
	default:
		return VendorTierBronze
	}
}

// String implements fmt.Stringer.
func (v VendorTier) String() string {
	return string(v)
}

// IsValid reports whether the value is a known VendorTier.
func (v VendorTier) IsValid() bool {
	for _, candidate := range validVendorTiers {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseVendorTier converts raw input into a VendorTier.
func ParseVendorTier(value string) (VendorTier, error) {
	for _, candidate := range validVendorTiers {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid vendor tier %q", value)
}
