package enums

import "fmt"

// LoanType classifies the loan package behind a loan-signing order.
type LoanType string

const (
	LoanTypePurchase  LoanType = "purchase"
	LoanTypeRefinance LoanType = "refinance"
	LoanTypeHELOC     LoanType = "heloc"
	LoanTypeSeller    LoanType = "seller"
	LoanTypeReverse   LoanType = "reverse"
)

var validLoanTypes = []LoanType{
	LoanTypePurchase,
	LoanTypeRefinance,
	LoanTypeHELOC,
	LoanTypeSeller,
	LoanTypeReverse,
}

// String implements fmt.Stringer.
func (l LoanType) String() string {
	return string(l)
}

// IsValid reports whether the value is a known LoanType.
func (l LoanType) IsValid() bool {
	for _, candidate := range validLoanTypes {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseLoanType converts raw input into a LoanType.
func ParseLoanType(value string) (LoanType, error) {
	for _, candidate := range validLoanTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid loan type %q", value)
}
