package enums

import "fmt"

// ServiceKind is a priceable service offered by the company.
type ServiceKind string

const (
	ServiceKindRON                      ServiceKind = "ron"
	ServiceKindMobileNotary             ServiceKind = "mobile_notary"
	ServiceKindApostille                ServiceKind = "apostille"
	ServiceKindLoanSigning              ServiceKind = "loan_signing"
	ServiceKindI9Verification           ServiceKind = "i9_verification"
	ServiceKindCertifiedCopies          ServiceKind = "certified_copies"
	ServiceKindFingerprinting           ServiceKind = "fingerprinting"
	ServiceKindWitnessService           ServiceKind = "witness_service"
	ServiceKindVehicleTitle             ServiceKind = "vehicle_title"
	ServiceKindDocumentPreparation      ServiceKind = "document_preparation"
	ServiceKindPassportPhotos           ServiceKind = "passport_photos"
	ServiceKindTranslationCertification ServiceKind = "translation_certification"
	ServiceKindVirtualMailbox           ServiceKind = "virtual_mailbox"
	ServiceKindUCCFiling                ServiceKind = "ucc_filing"
	ServiceKindDocumentRetrieval        ServiceKind = "document_retrieval"
)

var validServiceKinds = []ServiceKind{
	ServiceKindRON,
	ServiceKindMobileNotary,
	ServiceKindApostille,
	ServiceKindLoanSigning,
	ServiceKindI9Verification,
	ServiceKindCertifiedCopies,
	ServiceKindFingerprinting,
	ServiceKindWitnessService,
	ServiceKindVehicleTitle,
	ServiceKindDocumentPreparation,
	ServiceKindPassportPhotos,
	ServiceKindTranslationCertification,
	ServiceKindVirtualMailbox,
	ServiceKindUCCFiling,
	ServiceKindDocumentRetrieval,
}

// String implements fmt.Stringer.
func (s ServiceKind) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ServiceKind.
func (s ServiceKind) IsValid() bool {
	for _, candidate := range validServiceKinds {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseServiceKind converts raw input into a ServiceKind.
func ParseServiceKind(value string) (ServiceKind, error) {
	for _, candidate := range validServiceKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid service kind %q", value)
}
