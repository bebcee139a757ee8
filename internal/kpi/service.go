package kpi

import (
	"context"
	"fmt"

	"github.com/keystonenotary/dispatch-backend/pkg/db/models"
	"github.com/keystonenotary/dispatch-backend/pkg/enums"
	pkgerrors "github.com/keystonenotary/dispatch-backend/pkg/errors"
)

// Snapshot is a point-in-time KPI rollup. Recomputed on demand; never
// persisted.
type Snapshot struct {
	TotalOrders          int                      `json:"total_orders"`
	CompletedOrders      int                      `json:"completed_orders"`
	CompletionRate       float64                  `json:"completion_rate"`
	FirstPassFundingRate float64                  `json:"first_pass_funding_rate"`
	FailureRate          float64                  `json:"failure_rate"`
	TierDistribution     map[enums.VendorTier]int `json:"tier_distribution"`
}

// completedStatuses is the denominator set for first-pass funding and the
// numerator set for completion.
func isCompleted(status enums.OrderStatus) bool {
	switch status {
	case enums.OrderStatusCompleted, enums.OrderStatusFunded, enums.OrderStatusShipped:
		return true
	default:
		return false
	}
}

func isFailed(status enums.OrderStatus) bool {
	return status == enums.OrderStatusFailed || status == enums.OrderStatusCancelled
}

// Aggregate computes the KPI snapshot from order and vendor snapshots. Pure:
// it runs on whatever consistent view the caller read, without blocking any
// writer. Every rate is 0 when its denominator is 0.
func Aggregate(orders []models.SigningOrder, vendors []models.Vendor) Snapshot {
	snapshot := Snapshot{
		TotalOrders:      len(orders),
		TierDistribution: map[enums.VendorTier]int{},
	}

	firstPass := 0
	failed := 0
	for _, order := range orders {
		if isCompleted(order.Status) {
			snapshot.CompletedOrders++
		}
		if order.FirstPassFunded {
			firstPass++
		}
		if isFailed(order.Status) {
			failed++
		}
	}

	if snapshot.TotalOrders > 0 {
		snapshot.CompletionRate = float64(snapshot.CompletedOrders) / float64(snapshot.TotalOrders)
		snapshot.FailureRate = float64(failed) / float64(snapshot.TotalOrders)
	}
	if snapshot.CompletedOrders > 0 {
		snapshot.FirstPassFundingRate = float64(firstPass) / float64(snapshot.CompletedOrders)
	}

	for _, vendor := range vendors {
		snapshot.TierDistribution[vendor.Tier]++
	}

	return snapshot
}

type orderReader interface {
	All(ctx context.Context) ([]models.SigningOrder, error)
}

type vendorReader interface {
	List(ctx context.Context, status *enums.VendorStatus) ([]models.Vendor, error)
}

// Service wraps Aggregate with the snapshot reads.
type Service struct {
	orders  orderReader
	vendors vendorReader
}

// NewService builds the KPI service.
func NewService(orders orderReader, vendors vendorReader) (*Service, error) {
	if orders == nil {
		return nil, fmt.Errorf("order reader required")
	}
	if vendors == nil {
		return nil, fmt.Errorf("vendor reader required")
	}
	return &Service{orders: orders, vendors: vendors}, nil
}

// Current reads fresh snapshots and aggregates them.
func (s *Service) Current(ctx context.Context) (*Snapshot, error) {
	orders, err := s.orders.All(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order snapshot")
	}
	vendors, err := s.vendors.List(ctx, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor snapshot")
	}
	snapshot := Aggregate(orders, vendors)
	return &snapshot, nil
}
