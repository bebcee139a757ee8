package pricing

import (
	"encoding/json"
	"fmt"

	"github.com/keystonenotary/dispatch-backend/pkg/enums"
)

// Rate holds the configured fee components for one service kind/variant pair.
// Every amount is integer cents. A zero component simply means the line item
// does not apply to that service.
type Rate struct {
	NotaryFeeCents     int64 `json:"notary_fee_cents"`
	ServiceFeeCents    int64 `json:"service_fee_cents"`
	TechnologyFeeCents int64 `json:"technology_fee_cents"`
	MileageRateCents   int64 `json:"mileage_rate_cents"`
	PerDocumentCents   int64 `json:"per_document_cents"`
	FlatCents          int64 `json:"flat_cents"`
}

// RateBook maps service kind and variant to the configured rate. Prices are
// configuration data: changing a fee means changing the book, never the
// engine. The variant key is empty for kinds that have no variants.
type RateBook map[enums.ServiceKind]map[enums.ServiceVariant]Rate

// Lookup returns the rate for the kind/variant pair.
func (b RateBook) Lookup(kind enums.ServiceKind, variant enums.ServiceVariant) (Rate, bool) {
	variants, ok := b[kind]
	if !ok {
		return Rate{}, false
	}
	rate, ok := variants[variant]
	return rate, ok
}

// DefaultRateBook returns the built-in price list.
func DefaultRateBook() RateBook {
	return RateBook{
		enums.ServiceKindRON: {
			enums.ServiceVariantNone: {NotaryFeeCents: 500, TechnologyFeeCents: 5500},
		},
		enums.ServiceKindMobileNotary: {
			enums.ServiceVariantNone: {NotaryFeeCents: 500, ServiceFeeCents: 3500, MileageRateCents: 150},
		},
		enums.ServiceKindApostille: {
			enums.ServiceVariantNone: {PerDocumentCents: 7500},
		},
		enums.ServiceKindLoanSigning: {
			enums.ServiceVariantStandard: {NotaryFeeCents: 2500, ServiceFeeCents: 7500},
			enums.ServiceVariantMobile:   {NotaryFeeCents: 2500, ServiceFeeCents: 7500, MileageRateCents: 150},
		},
		enums.ServiceKindI9Verification: {
			enums.ServiceVariantRemote:   {FlatCents: 4500},
			enums.ServiceVariantInPerson: {NotaryFeeCents: 500, ServiceFeeCents: 4000, MileageRateCents: 150},
		},
		enums.ServiceKindCertifiedCopies: {
			enums.ServiceVariantNone: {PerDocumentCents: 1500},
		},
		enums.ServiceKindFingerprinting: {
			enums.ServiceVariantOffice: {FlatCents: 4500},
			enums.ServiceVariantMobile: {FlatCents: 4500, MileageRateCents: 150},
		},
		enums.ServiceKindWitnessService: {
			enums.ServiceVariantOffice: {FlatCents: 3500},
			enums.ServiceVariantMobile: {FlatCents: 3500, MileageRateCents: 150},
		},
		enums.ServiceKindVehicleTitle: {
			enums.ServiceVariantOffice: {FlatCents: 5500},
			enums.ServiceVariantMobile: {FlatCents: 5500, MileageRateCents: 150},
		},
		enums.ServiceKindDocumentPreparation: {
			enums.ServiceVariantNone: {FlatCents: 9900},
		},
		enums.ServiceKindPassportPhotos: {
			enums.ServiceVariantNone: {FlatCents: 1995},
		},
		enums.ServiceKindTranslationCertification: {
			enums.ServiceVariantNone: {PerDocumentCents: 6500},
		},
		enums.ServiceKindVirtualMailbox: {
			enums.ServiceVariantNone: {FlatCents: 2999},
		},
		enums.ServiceKindUCCFiling: {
			enums.ServiceVariantNone: {FlatCents: 12500},
		},
		enums.ServiceKindDocumentRetrieval: {
			enums.ServiceVariantNone: {FlatCents: 8500},
		},
	}
}

// ParseRateBook decodes a JSON rate-book override keyed by kind then variant
// (empty string for variant-less kinds). Unknown kinds or variants are
// rejected so a typo in configuration fails loudly at boot.
func ParseRateBook(raw string) (RateBook, error) {
	var decoded map[string]map[string]Rate
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, fmt.Errorf("parsing rate book json: %w", err)
	}

	book := RateBook{}
	for kindRaw, variants := range decoded {
		kind, err := enums.ParseServiceKind(kindRaw)
		if err != nil {
			return nil, fmt.Errorf("rate book: %w", err)
		}
		book[kind] = map[enums.ServiceVariant]Rate{}
		for variantRaw, rate := range variants {
			variant, err := enums.ParseServiceVariant(variantRaw)
			if err != nil {
				return nil, fmt.Errorf("rate book kind %q: %w", kindRaw, err)
			}
			book[kind][variant] = rate
		}
	}
	return book, nil
}
