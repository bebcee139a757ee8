package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/keystonenotary/dispatch-backend/pkg/db/models"
	pkgerrors "github.com/keystonenotary/dispatch-backend/pkg/errors"
)

// SessionInput is the contract data handed to the payment provider: a
// validated total and the order reference, nothing else.
type SessionInput struct {
	OrderID     uuid.UUID
	OrderNumber string
	TotalCents  int64
}

// SessionProvider creates a hosted checkout session and returns its redirect
// URL. Provider internals (Stripe, Square, invoicing) live outside this
// service; implementations are injected at boot.
type SessionProvider interface {
	CreateSession(ctx context.Context, input SessionInput) (string, error)
}

type orderGetter interface {
	Get(ctx context.Context, id uuid.UUID) (*models.SigningOrder, error)
}

// CreateInput is the caller-supplied request for a checkout session.
type CreateInput struct {
	OrderID uuid.UUID
	// TotalCents is the priced total from a non-provisional breakdown.
	TotalCents  int64
	Provisional bool
}

// Service validates a priced total against its order and delegates session
// creation to the provider.
type Service struct {
	provider SessionProvider
	orders   orderGetter
}

// NewService builds the checkout service.
func NewService(provider SessionProvider, orders orderGetter) (*Service, error) {
	if provider == nil {
		return nil, fmt.Errorf("session provider required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order getter required")
	}
	return &Service{provider: provider, orders: orders}, nil
}

// CreateSession validates the input and returns the provider's redirect URL.
func (s *Service) CreateSession(ctx context.Context, input CreateInput) (string, error) {
	if input.OrderID == uuid.Nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.TotalCents <= 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "total must be positive")
	}
	if input.Provisional {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "provisional totals cannot be checked out")
	}

	order, err := s.orders.Get(ctx, input.OrderID)
	if err != nil {
		return "", err
	}

	url, err := s.provider.CreateSession(ctx, SessionInput{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		TotalCents:  input.TotalCents,
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create checkout session")
	}
	if strings.TrimSpace(url) == "" {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "provider returned empty redirect url")
	}
	return url, nil
}
