package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/keystonenotary/dispatch-backend/pkg/db/models"
	"github.com/keystonenotary/dispatch-backend/pkg/enums"
	pkgerrors "github.com/keystonenotary/dispatch-backend/pkg/errors"
)

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubOrdersRepo struct {
	order *models.SigningOrder

	// affectedByCall returns the rows-affected result for each successive
	// UpdateWhereStatus call; it defaults to 1 when exhausted.
	affectedByCall []int64
	updateCalls    []map[string]any
	events         []models.OrderEvent
	created        []*models.SigningOrder
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubOrdersRepo) Create(ctx context.Context, order *models.SigningOrder) error {
	s.created = append(s.created, order)
	return nil
}

func (s *stubOrdersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.SigningOrder, error) {
	if s.order == nil || s.order.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	copyOrder := *s.order
	return &copyOrder, nil
}

func (s *stubOrdersRepo) FindByIDWithEvents(ctx context.Context, id uuid.UUID) (*models.SigningOrder, error) {
	return s.FindByID(ctx, id)
}

func (s *stubOrdersRepo) List(ctx context.Context, input ListInput) ([]models.SigningOrder, error) {
	return nil, nil
}

func (s *stubOrdersRepo) All(ctx context.Context) ([]models.SigningOrder, error) {
	return nil, nil
}

func (s *stubOrdersRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.order != nil && s.order.ID == id, nil
}

func (s *stubOrdersRepo) UpdateWhereStatus(ctx context.Context, id uuid.UUID, expected enums.OrderStatus, updates map[string]any) (int64, error) {
	s.updateCalls = append(s.updateCalls, updates)
	affected := int64(1)
	if len(s.affectedByCall) > 0 {
		affected = s.affectedByCall[0]
		s.affectedByCall = s.affectedByCall[1:]
	}
	if affected > 0 && s.order != nil {
		if status, ok := updates["status"].(enums.OrderStatus); ok {
			s.order.Status = status
		}
	}
	return affected, nil
}

func (s *stubOrdersRepo) FlagManualAssignment(ctx context.Context, id uuid.UUID) error {
	if s.order != nil && s.order.ID == id {
		s.order.ManualAssignmentFlagged = true
	}
	return nil
}

func (s *stubOrdersRepo) AppendEvent(ctx context.Context, event *models.OrderEvent) error {
	s.events = append(s.events, *event)
	return nil
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo, stubTxRunner{}, NewNumberSource(nil))
	require.NoError(t, err)
	return svc
}

func TestCreateValidatesInput(t *testing.T) {
	repo := &stubOrdersRepo{}
	svc := newTestService(t, repo)

	_, err := svc.Create(context.Background(), CreateInput{})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	order, err := svc.Create(context.Background(), CreateInput{
		SigningType:   enums.SigningTypeInPerson,
		SignerName:    "Dana Whitfield",
		PropertyState: "pa",
	})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPendingAssignment, order.Status)
	assert.Equal(t, enums.ServiceTierStandard, order.ServiceTier)
	assert.Equal(t, "PA", order.PropertyState)
	assert.Contains(t, order.OrderNumber, "KN-")
	require.Len(t, repo.created, 1)
}

func TestTransitionWritesAuditEvent(t *testing.T) {
	orderID := uuid.New()
	repo := &stubOrdersRepo{
		order: &models.SigningOrder{ID: orderID, Status: enums.OrderStatusAssigned},
	}
	svc := newTestService(t, repo)

	event := enums.DispatchEventVendorAccepted
	updated, err := svc.Transition(context.Background(), TransitionInput{
		OrderID: orderID,
		To:      enums.OrderStatusAccepted,
		Event:   &event,
		Actor:   "vendor",
	})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusAccepted, updated.Status)

	require.Len(t, repo.events, 1)
	assert.Equal(t, enums.OrderStatusAssigned, repo.events[0].FromStatus)
	assert.Equal(t, enums.OrderStatusAccepted, repo.events[0].ToStatus)
	assert.Equal(t, "vendor", repo.events[0].Actor)
	require.NotNil(t, repo.events[0].Event)
	assert.Equal(t, enums.DispatchEventVendorAccepted, *repo.events[0].Event)
}

func TestTransitionConcurrentModification(t *testing.T) {
	orderID := uuid.New()
	repo := &stubOrdersRepo{
		order:          &models.SigningOrder{ID: orderID, Status: enums.OrderStatusPendingAssignment},
		affectedByCall: []int64{0},
	}
	svc := newTestService(t, repo)

	vendorID := uuid.New()
	_, err := svc.Transition(context.Background(), TransitionInput{
		OrderID:  orderID,
		To:       enums.OrderStatusAssigned,
		VendorID: &vendorID,
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConcurrentModification))
	assert.Empty(t, repo.events)
}

func TestTransitionDeclineAutoRequeues(t *testing.T) {
	orderID := uuid.New()
	vendorID := uuid.New()
	repo := &stubOrdersRepo{
		order: &models.SigningOrder{
			ID:               orderID,
			Status:           enums.OrderStatusAssigned,
			AssignedVendorID: &vendorID,
		},
	}
	svc := newTestService(t, repo)

	event := enums.DispatchEventVendorDeclined
	_, err := svc.Transition(context.Background(), TransitionInput{
		OrderID: orderID,
		To:      enums.OrderStatusDeclined,
		Event:   &event,
	})
	require.NoError(t, err)

	// Decline then re-queue, each with its own audit row.
	require.Len(t, repo.updateCalls, 2)
	require.Len(t, repo.events, 2)
	assert.Equal(t, enums.OrderStatusDeclined, repo.events[0].ToStatus)
	assert.Equal(t, enums.OrderStatusPendingAssignment, repo.events[1].ToStatus)

	requeue := repo.updateCalls[1]
	cleared, present := requeue["assigned_vendor_id"]
	assert.True(t, present)
	assert.Nil(t, cleared)
}

func TestTransitionAssignedRequiresVendor(t *testing.T) {
	orderID := uuid.New()
	repo := &stubOrdersRepo{
		order: &models.SigningOrder{ID: orderID, Status: enums.OrderStatusPendingAssignment},
	}
	svc := newTestService(t, repo)

	_, err := svc.Transition(context.Background(), TransitionInput{
		OrderID: orderID,
		To:      enums.OrderStatusAssigned,
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestTransitionUnknownOrder(t *testing.T) {
	repo := &stubOrdersRepo{}
	svc := newTestService(t, repo)

	_, err := svc.Transition(context.Background(), TransitionInput{
		OrderID: uuid.New(),
		To:      enums.OrderStatusCancelled,
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}
