package pricing

import (
	"github.com/shopspring/decimal"

	pkgerrors "github.com/keystonenotary/dispatch-backend/pkg/errors"
	"github.com/keystonenotary/dispatch-backend/pkg/enums"
)

// Line item codes, in the order they appear on a breakdown.
const (
	LineNotaryFee     = "notary_fee"
	LineServiceFee    = "service_fee"
	LineTechnologyFee = "technology_fee"
	LineDocumentFee   = "document_fee"
	LineBaseFee       = "base_fee"
	LineMileageFee    = "mileage_fee"
)

var lineLabels = map[string]string{
	LineNotaryFee:     "Notary fee",
	LineServiceFee:    "Service fee",
	LineTechnologyFee: "Technology fee",
	LineDocumentFee:   "Document fee",
	LineBaseFee:       "Base fee",
	LineMileageFee:    "Mileage fee",
}

// Request is the input to Price. RoundTripMiles is the resolved round-trip
// driving distance; nil means the caller could not resolve it.
type Request struct {
	Kind           enums.ServiceKind
	Variant        enums.ServiceVariant
	DocumentCount  int
	RoundTripMiles *float64
}

// LineItem is one fee component of a breakdown, in integer cents.
type LineItem struct {
	Code        string `json:"code"`
	Label       string `json:"label"`
	AmountCents int64  `json:"amount_cents"`
}

// Breakdown is the priced result. Immutable once computed. Provisional is
// true when a travel-based service was priced without a resolved distance,
// meaning the total is a floor the caller must render as "starting at".
type Breakdown struct {
	Lines       []LineItem `json:"lines"`
	TotalCents  int64      `json:"total_cents"`
	Provisional bool       `json:"provisional"`
}

// FormattedTotal renders the total as a dollar string, e.g. "60.00".
func (b Breakdown) FormattedTotal() string {
	return FormatCents(b.TotalCents)
}

// FormatCents renders integer cents as a fixed two-decimal dollar string.
func FormatCents(cents int64) string {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).StringFixed(2)
}

// Engine prices service requests against a rate book. It performs no I/O and
// holds no mutable state, so a single instance is safe for concurrent use.
type Engine struct {
	book RateBook
}

// NewEngine builds an engine over the provided rate book, falling back to the
// built-in book when nil.
func NewEngine(book RateBook) *Engine {
	if book == nil {
		book = DefaultRateBook()
	}
	return &Engine{book: book}
}

// Price computes the fee breakdown for a service request. Deterministic:
// equal requests always produce equal breakdowns.
func (e *Engine) Price(req Request) (*Breakdown, error) {
	rate, ok := e.book.Lookup(req.Kind, req.Variant)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidServiceKind, "unknown service kind or variant").
			WithDetails(map[string]any{"kind": req.Kind.String(), "variant": req.Variant.String()})
	}

	if rate.PerDocumentCents > 0 && req.DocumentCount < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "document count must be at least 1")
	}

	breakdown := &Breakdown{}
	appendLine := func(code string, amount int64) {
		breakdown.Lines = append(breakdown.Lines, LineItem{
			Code:        code,
			Label:       lineLabels[code],
			AmountCents: amount,
		})
		breakdown.TotalCents += amount
	}

	if rate.NotaryFeeCents > 0 {
		appendLine(LineNotaryFee, rate.NotaryFeeCents)
	}
	if rate.ServiceFeeCents > 0 {
		appendLine(LineServiceFee, rate.ServiceFeeCents)
	}
	if rate.TechnologyFeeCents > 0 {
		appendLine(LineTechnologyFee, rate.TechnologyFeeCents)
	}
	if rate.PerDocumentCents > 0 {
		appendLine(LineDocumentFee, rate.PerDocumentCents*int64(req.DocumentCount))
	}
	if rate.FlatCents > 0 {
		appendLine(LineBaseFee, rate.FlatCents)
	}

	if rate.MileageRateCents > 0 {
		if req.RoundTripMiles == nil {
			// No resolved distance: omit the line, mark the total provisional.
			breakdown.Provisional = true
		} else {
			appendLine(LineMileageFee, mileageFeeCents(*req.RoundTripMiles, rate.MileageRateCents))
		}
	}

	return breakdown, nil
}

// mileageFeeCents multiplies miles by the per-mile rate and rounds half-up to
// whole cents. This is the only place fractional money exists; everything
// upstream and downstream stays in integer cents.
func mileageFeeCents(roundTripMiles float64, rateCents int64) int64 {
	return decimal.NewFromFloat(roundTripMiles).
		Mul(decimal.NewFromInt(rateCents)).
		Round(0).
		IntPart()
}
