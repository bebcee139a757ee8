package dispatch

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/keystonenotary/dispatch-backend/internal/orders"
	"github.com/keystonenotary/dispatch-backend/internal/vendors"
	"github.com/keystonenotary/dispatch-backend/pkg/db/models"
	"github.com/keystonenotary/dispatch-backend/pkg/enums"
	pkgerrors "github.com/keystonenotary/dispatch-backend/pkg/errors"
	"github.com/keystonenotary/dispatch-backend/pkg/metrics"
)

// eventTargets maps each external signal to the status it drives the order
// into. The state machine still decides whether the move is legal from the
// order's current status.
var eventTargets = map[enums.DispatchEvent]enums.OrderStatus{
	enums.DispatchEventVendorAccepted:   enums.OrderStatusAccepted,
	enums.DispatchEventVendorDeclined:   enums.OrderStatusDeclined,
	enums.DispatchEventVendorEnRoute:    enums.OrderStatusEnRoute,
	enums.DispatchEventVendorArrived:    enums.OrderStatusArrived,
	enums.DispatchEventSigningStarted:   enums.OrderStatusInProgress,
	enums.DispatchEventSigningCompleted: enums.OrderStatusCompleted,
	enums.DispatchEventScanbackSent:     enums.OrderStatusScanbackPending,
	enums.DispatchEventScanbackUploaded: enums.OrderStatusScanbackUploaded,
	enums.DispatchEventQAReviewStarted:  enums.OrderStatusQAReview,
	enums.DispatchEventQAPassed:         enums.OrderStatusShipped,
	enums.DispatchEventQARejected:       enums.OrderStatusScanbackPending,
	enums.DispatchEventPackageShipped:   enums.OrderStatusShipped,
	enums.DispatchEventFundsReleased:    enums.OrderStatusFunded,
	enums.DispatchEventOrderCancelled:   enums.OrderStatusCancelled,
	enums.DispatchEventOrderFailed:      enums.OrderStatusFailed,
}

// autoAssignTiers names the service tiers dispatched to the top-ranked
// vendor without operator review.
var autoAssignTiers = map[enums.ServiceTier]bool{
	enums.ServiceTierPriority: true,
	enums.ServiceTierRescue:   true,
}

type orderService interface {
	Get(ctx context.Context, id uuid.UUID) (*models.SigningOrder, error)
	Transition(ctx context.Context, input orders.TransitionInput) (*models.SigningOrder, error)
	FlagManualAssignment(ctx context.Context, id uuid.UUID) error
}

type vendorReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
	Snapshot(ctx context.Context, commissionState string) ([]models.Vendor, error)
}

// Notifier publishes lifecycle notifications after a transition commits.
// Implementations are fire-and-forget and must never block dispatch.
type Notifier interface {
	OrderEvent(ctx context.Context, order *models.SigningOrder, event enums.DispatchEvent)
}

// AssignInput drives one assignment attempt. An explicit VendorID always
// selects manually, regardless of tier.
type AssignInput struct {
	OrderID  uuid.UUID
	VendorID *uuid.UUID
	Actor    string
}

// AssignmentResult is the outcome of Assign. Either a vendor was assigned
// (Order reflects the committed transition) or Candidates carries the ranked
// list for operator choice with the order left untouched.
type AssignmentResult struct {
	Order          *models.SigningOrder
	AssignedVendor *models.Vendor
	Candidates     []models.Vendor
	AutoAssigned   bool
}

// Service coordinates vendor assignment and lifecycle events across the
// orders state machine, the vendor roster, and the notifier.
type Service interface {
	Assign(ctx context.Context, input AssignInput) (*AssignmentResult, error)
	Candidates(ctx context.Context, orderID uuid.UUID) ([]models.Vendor, error)
	RecordEvent(ctx context.Context, orderID uuid.UUID, kind enums.DispatchEvent, actor string) (*models.SigningOrder, error)
}

type service struct {
	orders   orderService
	vendors  vendorReader
	notifier Notifier
	metrics  *metrics.DispatchMetrics
}

// NewService builds the dispatch coordinator.
func NewService(orderSvc orderService, vendorRepo vendorReader, notifier Notifier, m *metrics.DispatchMetrics) (Service, error) {
	if orderSvc == nil {
		return nil, fmt.Errorf("order service required")
	}
	if vendorRepo == nil {
		return nil, fmt.Errorf("vendor repository required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	return &service{
		orders:   orderSvc,
		vendors:  vendorRepo,
		notifier: notifier,
		metrics:  m,
	}, nil
}

// Assign ranks the eligible vendors for the order and either commits the
// assignment (auto for priority/rescue tiers, or when the caller named a
// vendor) or returns the ranked list for manual choice. Both paths funnel
// through the same pending_assignment -> assigned conditional transition, so
// at most one assignment can ever win.
func (s *service) Assign(ctx context.Context, input AssignInput) (*AssignmentResult, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	order, err := s.orders.Get(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Status != enums.OrderStatusPendingAssignment {
		return nil, pkgerrors.New(pkgerrors.CodeOrderNotAssignable, "order is not awaiting assignment").
			WithDetails(map[string]any{"status": order.Status.String()})
	}

	candidates, err := s.rankedCandidates(ctx, order)
	if err != nil {
		return nil, err
	}

	if len(candidates) == 0 {
		if err := s.orders.FlagManualAssignment(ctx, order.ID); err != nil {
			return nil, err
		}
		return nil, pkgerrors.New(pkgerrors.CodeNoEligibleVendor, "no active vendor commissioned in the property state").
			WithDetails(map[string]any{"property_state": order.PropertyState})
	}

	var chosen *models.Vendor
	auto := false
	switch {
	case input.VendorID != nil:
		for i := range candidates {
			if candidates[i].ID == *input.VendorID {
				chosen = &candidates[i]
				break
			}
		}
		if chosen == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor is not eligible for this order")
		}
	case autoAssignTiers[order.ServiceTier]:
		chosen = &candidates[0]
		auto = true
	default:
		// Standard tier: surface the ranked list, leave the order untouched.
		return &AssignmentResult{Order: order, Candidates: candidates}, nil
	}

	updated, err := s.orders.Transition(ctx, orders.TransitionInput{
		OrderID:  order.ID,
		To:       enums.OrderStatusAssigned,
		Actor:    input.Actor,
		VendorID: &chosen.ID,
	})
	if err != nil {
		if pkgerrors.HasCode(err, pkgerrors.CodeConcurrentModification) {
			s.metrics.IncConflict()
		}
		return nil, err
	}

	mode := "manual"
	if auto {
		mode = "auto"
	}
	s.metrics.IncAssignment(mode)
	s.metrics.IncTransition(enums.OrderStatusPendingAssignment.String(), enums.OrderStatusAssigned.String())
	s.notifier.OrderEvent(ctx, updated, enums.DispatchEventOrderAssigned)

	return &AssignmentResult{
		Order:          updated,
		AssignedVendor: chosen,
		AutoAssigned:   auto,
	}, nil
}

// Candidates returns the ranked eligible vendors without touching the order.
func (s *service) Candidates(ctx context.Context, orderID uuid.UUID) ([]models.Vendor, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.rankedCandidates(ctx, order)
}

// RecordEvent maps an external signal onto the state machine and commits the
// resulting transition. The notification is published only after the commit,
// and a notification failure never unwinds the transition.
func (s *service) RecordEvent(ctx context.Context, orderID uuid.UUID, kind enums.DispatchEvent, actor string) (*models.SigningOrder, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	target, known := eventTargets[kind]
	if !known {
		return nil, pkgerrors.New(pkgerrors.CodeUnknownEvent, "unrecognized dispatch event").
			WithDetails(map[string]any{"event": kind.String()})
	}

	// Read used only for the metric's from-label; the transition itself is
	// still guarded by the conditional update.
	before, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	event := kind
	updated, err := s.orders.Transition(ctx, orders.TransitionInput{
		OrderID: orderID,
		To:      target,
		Event:   &event,
		Actor:   actor,
	})
	if err != nil {
		if pkgerrors.HasCode(err, pkgerrors.CodeConcurrentModification) {
			s.metrics.IncConflict()
		}
		return nil, err
	}

	s.metrics.IncTransition(before.Status.String(), target.String())
	s.notifier.OrderEvent(ctx, updated, kind)

	return updated, nil
}

func (s *service) rankedCandidates(ctx context.Context, order *models.SigningOrder) ([]models.Vendor, error) {
	snapshot, err := s.vendors.Snapshot(ctx, order.PropertyState)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor snapshot")
	}
	return vendors.RankCandidates(order, snapshot), nil
}
