package orders

import (
	"time"

	"github.com/keystonenotary/dispatch-backend/pkg/db/models"
	"github.com/keystonenotary/dispatch-backend/pkg/enums"
	pkgerrors "github.com/keystonenotary/dispatch-backend/pkg/errors"
)

// allowedTransitions is the authority on which status moves are legal. The
// operator override to cancelled/failed from any non-terminal status is
// handled in CanTransition rather than enumerated here.
var allowedTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPendingAssignment: {enums.OrderStatusAssigned},
	enums.OrderStatusAssigned:          {enums.OrderStatusAccepted, enums.OrderStatusDeclined},
	enums.OrderStatusAccepted:          {enums.OrderStatusEnRoute},
	enums.OrderStatusDeclined:          {enums.OrderStatusPendingAssignment},
	enums.OrderStatusEnRoute:           {enums.OrderStatusArrived},
	enums.OrderStatusArrived:           {enums.OrderStatusInProgress},
	enums.OrderStatusInProgress:        {enums.OrderStatusCompleted},
	enums.OrderStatusCompleted:         {enums.OrderStatusScanbackPending},
	enums.OrderStatusScanbackPending:   {enums.OrderStatusScanbackUploaded},
	enums.OrderStatusScanbackUploaded:  {enums.OrderStatusQAReview},
	enums.OrderStatusQAReview:          {enums.OrderStatusShipped, enums.OrderStatusScanbackPending},
	enums.OrderStatusShipped:           {enums.OrderStatusFunded},
}

// Transitions returns a copy of the allow-list, keyed by source status.
func Transitions() map[enums.OrderStatus][]enums.OrderStatus {
	out := make(map[enums.OrderStatus][]enums.OrderStatus, len(allowedTransitions))
	for from, targets := range allowedTransitions {
		out[from] = append([]enums.OrderStatus(nil), targets...)
	}
	return out
}

// CanTransition reports whether from -> to is a legal status move.
func CanTransition(from, to enums.OrderStatus) bool {
	if from.IsTerminal() {
		return false
	}
	if to == enums.OrderStatusCancelled || to == enums.OrderStatusFailed {
		return true
	}
	for _, target := range allowedTransitions[from] {
		if target == to {
			return true
		}
	}
	return false
}

// Change is a planned, not-yet-persisted status transition. Updates holds the
// column writes the repository must apply conditionally on From still being
// the stored status.
type Change struct {
	From    enums.OrderStatus
	To      enums.OrderStatus
	Updates map[string]any
}

// PlanTransition validates the move and computes the column updates:
// the status itself, the first-visit timestamp for the destination, the QA
// rejection bump on a qa_review -> scanback_pending bounce, the one-time
// first-pass-funded determination at funding, and the vendor clear on
// re-queue and on the terminal overrides. The order itself is not mutated.
func PlanTransition(order *models.SigningOrder, to enums.OrderStatus, now time.Time) (*Change, error) {
	from := order.Status
	if !CanTransition(from, to) {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidTransition, "transition not allowed").
			WithDetails(map[string]any{"from": from.String(), "to": to.String()})
	}

	change := &Change{
		From:    from,
		To:      to,
		Updates: map[string]any{"status": to},
	}

	stampOnce := func(column string, current *time.Time) {
		if current == nil {
			change.Updates[column] = now
		}
	}

	switch to {
	case enums.OrderStatusAssigned:
		stampOnce("assigned_at", order.AssignedAt)
	case enums.OrderStatusAccepted:
		stampOnce("accepted_at", order.AcceptedAt)
	case enums.OrderStatusDeclined:
		stampOnce("declined_at", order.DeclinedAt)
	case enums.OrderStatusEnRoute:
		stampOnce("vendor_en_route_at", order.VendorEnRouteAt)
	case enums.OrderStatusArrived:
		stampOnce("vendor_arrived_at", order.VendorArrivedAt)
	case enums.OrderStatusInProgress:
		stampOnce("signing_started_at", order.SigningStartedAt)
	case enums.OrderStatusCompleted:
		stampOnce("signing_completed_at", order.SigningCompletedAt)
	case enums.OrderStatusScanbackUploaded:
		stampOnce("scanback_uploaded_at", order.ScanbackUploadedAt)
	case enums.OrderStatusShipped:
		stampOnce("shipped_at", order.ShippedAt)
	case enums.OrderStatusFunded:
		stampOnce("funded_at", order.FundedAt)
		// Decided exactly once, here: an order funds first-pass iff QA never
		// bounced it. Later reputation changes never rewrite this.
		change.Updates["first_pass_funded"] = order.QARejections == 0
	case enums.OrderStatusCancelled:
		stampOnce("cancelled_at", order.CancelledAt)
		// Terminal overrides release the vendor: only the
		// assigned-through-funded stretch may hold one.
		change.Updates["assigned_vendor_id"] = nil
	case enums.OrderStatusFailed:
		stampOnce("failed_at", order.FailedAt)
		change.Updates["assigned_vendor_id"] = nil
	case enums.OrderStatusScanbackPending:
		if from == enums.OrderStatusQAReview {
			change.Updates["qa_rejections"] = order.QARejections + 1
		}
	case enums.OrderStatusPendingAssignment:
		// Re-queue after a decline releases the vendor.
		change.Updates["assigned_vendor_id"] = nil
	}

	return change, nil
}
