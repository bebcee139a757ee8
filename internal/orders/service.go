package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/keystonenotary/dispatch-backend/pkg/db/models"
	"github.com/keystonenotary/dispatch-backend/pkg/enums"
	pkgerrors "github.com/keystonenotary/dispatch-backend/pkg/errors"
	"github.com/keystonenotary/dispatch-backend/pkg/pagination"
)

const defaultActor = "system"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service owns signing-order intake, reads, and status transitions.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.SigningOrder, error)
	Get(ctx context.Context, id uuid.UUID) (*models.SigningOrder, error)
	List(ctx context.Context, input ListInput) ([]models.SigningOrder, string, error)
	Transition(ctx context.Context, input TransitionInput) (*models.SigningOrder, error)
	FlagManualAssignment(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo    Repository
	tx      txRunner
	numbers *NumberSource
	now     func() time.Time
}

// NewService builds the orders service with its required dependencies.
func NewService(repo Repository, tx txRunner, numbers *NumberSource) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if numbers == nil {
		return nil, fmt.Errorf("order number source required")
	}
	return &service{
		repo:    repo,
		tx:      tx,
		numbers: numbers,
		now:     time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.SigningOrder, error) {
	if !input.SigningType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid signing type")
	}
	if input.ServiceTier == "" {
		input.ServiceTier = enums.ServiceTierStandard
	}
	if !input.ServiceTier.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid service tier")
	}
	if strings.TrimSpace(input.SignerName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "signer name required")
	}
	if strings.TrimSpace(input.PropertyState) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "property state required")
	}
	if input.LoanType != nil && !input.LoanType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid loan type")
	}

	order := &models.SigningOrder{
		OrderNumber:         s.numbers.Next(ctx),
		SigningType:         input.SigningType,
		ServiceTier:         input.ServiceTier,
		SignerName:          input.SignerName,
		SignerPhone:         input.SignerPhone,
		SignerEmail:         input.SignerEmail,
		PropertyAddress:     input.PropertyAddress,
		PropertyCity:        input.PropertyCity,
		PropertyState:       strings.ToUpper(strings.TrimSpace(input.PropertyState)),
		PropertyZip:         input.PropertyZip,
		LoanType:            input.LoanType,
		AppointmentAt:       input.AppointmentAt,
		SpecialInstructions: input.SpecialInstructions,
		Status:              enums.OrderStatusPendingAssignment,
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create signing order")
	}
	return order, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.SigningOrder, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindByIDWithEvents(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load signing order")
	}
	return order, nil
}

func (s *service) List(ctx context.Context, input ListInput) ([]models.SigningOrder, string, error) {
	rows, err := s.repo.List(ctx, input)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list signing orders")
	}

	limit := pagination.NormalizeLimit(input.Page.Limit)
	nextCursor := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return rows, nextCursor, nil
}

// Transition moves an order one legal step through the state machine. The
// write is conditional on the status the order was read at, so a concurrent
// mutation surfaces as CONCURRENT_MODIFICATION instead of a silent clobber.
// A decline is immediately followed by the re-queue to pending_assignment in
// the same transaction, releasing the vendor.
func (s *service) Transition(ctx context.Context, input TransitionInput) (*models.SigningOrder, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.To == enums.OrderStatusAssigned && (input.VendorID == nil || *input.VendorID == uuid.Nil) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id required for assignment")
	}
	actor := input.Actor
	if actor == "" {
		actor = defaultActor
	}

	var updated *models.SigningOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		now := s.now().UTC()

		order, err := repo.FindByID(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load signing order")
		}

		change, err := PlanTransition(order, input.To, now)
		if err != nil {
			return err
		}
		if input.To == enums.OrderStatusAssigned {
			change.Updates["assigned_vendor_id"] = *input.VendorID
		}

		if err := s.applyChange(ctx, repo, order.ID, change, input.Event, actor, now); err != nil {
			return err
		}

		if input.To == enums.OrderStatusDeclined {
			order.Status = enums.OrderStatusDeclined
			requeue, err := PlanTransition(order, enums.OrderStatusPendingAssignment, now)
			if err != nil {
				return err
			}
			if err := s.applyChange(ctx, repo, order.ID, requeue, nil, actor, now); err != nil {
				return err
			}
		}

		updated, err = repo.FindByID(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload signing order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) FlagManualAssignment(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if err := s.repo.FlagManualAssignment(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "flag manual assignment")
	}
	return nil
}

func (s *service) applyChange(ctx context.Context, repo Repository, orderID uuid.UUID, change *Change, event *enums.DispatchEvent, actor string, now time.Time) error {
	affected, err := repo.UpdateWhereStatus(ctx, orderID, change.From, change.Updates)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	if affected == 0 {
		exists, err := repo.Exists(ctx, orderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check order existence")
		}
		if !exists {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return pkgerrors.New(pkgerrors.CodeConcurrentModification, "order status changed concurrently").
			WithDetails(map[string]any{"expected_status": change.From.String()})
	}

	return repo.AppendEvent(ctx, &models.OrderEvent{
		ID:         uuid.New(),
		OrderID:    orderID,
		FromStatus: change.From,
		ToStatus:   change.To,
		Event:      event,
		Actor:      actor,
		CreatedAt:  now,
	})
}
