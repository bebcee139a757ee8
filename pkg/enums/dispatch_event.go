package enums

import "fmt"

// DispatchEvent is an external signal that drives a signing order through
// its lifecycle: vendor callbacks, scanback uploads, QA decisions, funding.
type DispatchEvent string

const (
	DispatchEventVendorAccepted   DispatchEvent = "vendor_accepted"
	DispatchEventVendorDeclined   DispatchEvent = "vendor_declined"
	DispatchEventVendorEnRoute    DispatchEvent = "vendor_en_route"
	DispatchEventVendorArrived    DispatchEvent = "vendor_arrived"
	DispatchEventSigningStarted   DispatchEvent = "signing_started"
	DispatchEventSigningCompleted DispatchEvent = "signing_completed"
	DispatchEventScanbackSent     DispatchEvent = "scanback_sent"
	DispatchEventScanbackUploaded DispatchEvent = "scanback_uploaded"
	DispatchEventQAReviewStarted  DispatchEvent = "qa_review_started"
	DispatchEventQAPassed         DispatchEvent = "qa_passed"
	DispatchEventQARejected       DispatchEvent = "qa_rejected"
	DispatchEventPackageShipped   DispatchEvent = "package_shipped"
	DispatchEventFundsReleased    DispatchEvent = "funds_released"
	DispatchEventOrderCancelled   DispatchEvent = "order_cancelled"
	DispatchEventOrderFailed      DispatchEvent = "order_failed"
)

// DispatchEventOrderAssigned is emitted by the dispatch coordinator when an
// assignment commits. It is not a caller-submitted signal, so it is excluded
// from validDispatchEvents and never parses.
const DispatchEventOrderAssigned DispatchEvent = "order_assigned"

var validDispatchEvents = []DispatchEvent{
	DispatchEventVendorAccepted,
	DispatchEventVendorDeclined,
	DispatchEventVendorEnRoute,
	DispatchEventVendorArrived,
	DispatchEventSigningStarted,
	DispatchEventSigningCompleted,
	DispatchEventScanbackSent,
	DispatchEventScanbackUploaded,
	DispatchEventQAReviewStarted,
	DispatchEventQAPassed,
	DispatchEventQARejected,
	DispatchEventPackageShipped,
	DispatchEventFundsReleased,
	DispatchEventOrderCancelled,
	DispatchEventOrderFailed,
}

// String implements fmt.Stringer.
func (d DispatchEvent) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DispatchEvent.
func (d DispatchEvent) IsValid() bool {
	for _, candidate := range validDispatchEvents {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDispatchEvent converts raw input into a DispatchEvent.
func ParseDispatchEvent(value string) (DispatchEvent, error) {
	for _, candidate := range validDispatchEvents {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid dispatch event %q", value)
}
