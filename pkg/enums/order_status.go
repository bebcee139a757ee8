package enums

import "fmt"

// OrderStatus tracks the lifecycle of a signing order.
type OrderStatus string

const (
	OrderStatusPendingAssignment OrderStatus = "pending_assignment"
	OrderStatusAssigned          OrderStatus = "assigned"
	OrderStatusAccepted          OrderStatus = "accepted"
	OrderStatusDeclined          OrderStatus = "declined"
	OrderStatusEnRoute           OrderStatus = "en_route"
	OrderStatusArrived           OrderStatus = "arrived"
	OrderStatusInProgress        OrderStatus = "in_progress"
	OrderStatusCompleted         OrderStatus = "completed"
	OrderStatusScanbackPending   OrderStatus = "scanback_pending"
	OrderStatusScanbackUploaded  OrderStatus = "scanback_uploaded"
	OrderStatusQAReview          OrderStatus = "qa_review"
	OrderStatusShipped           OrderStatus = "shipped"
	OrderStatusFunded            OrderStatus = "funded"
	OrderStatusCancelled         OrderStatus = "cancelled"
	OrderStatusFailed            OrderStatus = "failed"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPendingAssignment,
	OrderStatusAssigned,
	OrderStatusAccepted,
	OrderStatusDeclined,
	OrderStatusEnRoute,
	OrderStatusArrived,
	OrderStatusInProgress,
	OrderStatusCompleted,
	OrderStatusScanbackPending,
	OrderStatusScanbackUploaded,
	OrderStatusQAReview,
	OrderStatusShipped,
	OrderStatusFunded,
	OrderStatusCancelled,
	OrderStatusFailed,
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// IsTerminal reports whether an order in this status is retained for history
// and can never transition again.
func (o OrderStatus) IsTerminal() bool {
	switch o {
	case OrderStatusFunded, OrderStatusCancelled, OrderStatusFailed:
		return true
	default:
		return false
	}
}

// RequiresVendor reports whether the status is only legal with a vendor
// assigned to the order.
func (o OrderStatus) RequiresVendor() bool {
	switch o {
	case OrderStatusAssigned, OrderStatusAccepted, OrderStatusEnRoute,
		OrderStatusArrived, OrderStatusInProgress, OrderStatusCompleted,
		OrderStatusScanbackPending, OrderStatusScanbackUploaded,
		OrderStatusQAReview, OrderStatusShipped, OrderStatusFunded:
		return true
	default:
		return false
	}
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
