package dispatch

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keystonenotary/dispatch-backend/internal/orders"
	"github.com/keystonenotary/dispatch-backend/pkg/db/models"
	"github.com/keystonenotary/dispatch-backend/pkg/enums"
	pkgerrors "github.com/keystonenotary/dispatch-backend/pkg/errors"
)

type stubOrderService struct {
	order *models.SigningOrder

	transitionErr error
	transitions   []orders.TransitionInput
	flagged       []uuid.UUID
}

func (s *stubOrderService) Get(ctx context.Context, id uuid.UUID) (*models.SigningOrder, error) {
	if s.order == nil || s.order.ID != id {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	copyOrder := *s.order
	return &copyOrder, nil
}

func (s *stubOrderService) Transition(ctx context.Context, input orders.TransitionInput) (*models.SigningOrder, error) {
	s.transitions = append(s.transitions, input)
	if s.transitionErr != nil {
		return nil, s.transitionErr
	}
	updated := *s.order
	updated.Status = input.To
	if input.To == enums.OrderStatusDeclined {
		updated.Status = enums.OrderStatusPendingAssignment
		updated.AssignedVendorID = nil
	}
	if input.VendorID != nil {
		updated.AssignedVendorID = input.VendorID
	}
	s.order = &updated
	return &updated, nil
}

func (s *stubOrderService) FlagManualAssignment(ctx context.Context, id uuid.UUID) error {
	s.flagged = append(s.flagged, id)
	return nil
}

type stubVendorReader struct {
	snapshot []models.Vendor
}

func (s *stubVendorReader) FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	for i := range s.snapshot {
		if s.snapshot[i].ID == id {
			return &s.snapshot[i], nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
}

func (s *stubVendorReader) Snapshot(ctx context.Context, commissionState string) ([]models.Vendor, error) {
	return s.snapshot, nil
}

type stubNotifier struct {
	published []enums.DispatchEvent
}

func (s *stubNotifier) OrderEvent(ctx context.Context, order *models.SigningOrder, event enums.DispatchEvent) {
	s.published = append(s.published, event)
}

func activeVendor(state string, score int) models.Vendor {
	return models.Vendor{
		ID:                     uuid.New(),
		Name:                   "Vendor " + uuid.NewString()[:4],
		PrimaryCommissionState: state,
		Status:                 enums.VendorStatusActive,
		EliteScore:             score,
	}
}

func pendingOrder(tier enums.ServiceTier) *models.SigningOrder {
	return &models.SigningOrder{
		ID:            uuid.New(),
		OrderNumber:   "KN-101",
		ServiceTier:   tier,
		PropertyState: "PA",
		Status:        enums.OrderStatusPendingAssignment,
	}
}

func newDispatch(t *testing.T, orderSvc *stubOrderService, vendorRepo *stubVendorReader, notifier *stubNotifier) Service {
	t.Helper()
	svc, err := NewService(orderSvc, vendorRepo, notifier, nil)
	require.NoError(t, err)
	return svc
}

func TestAssignAutoPicksTopRanked(t *testing.T) {
	order := pendingOrder(enums.ServiceTierPriority)
	best := activeVendor("PA", 95)
	runnerUp := activeVendor("PA", 80)

	orderSvc := &stubOrderService{order: order}
	notifier := &stubNotifier{}
	svc := newDispatch(t, orderSvc, &stubVendorReader{snapshot: []models.Vendor{runnerUp, best}}, notifier)

	result, err := svc.Assign(context.Background(), AssignInput{OrderID: order.ID, Actor: "dispatcher"})
	require.NoError(t, err)

	assert.True(t, result.AutoAssigned)
	require.NotNil(t, result.AssignedVendor)
	assert.Equal(t, best.ID, result.AssignedVendor.ID)
	assert.Equal(t, enums.OrderStatusAssigned, result.Order.Status)

	require.Len(t, orderSvc.transitions, 1)
	assert.Equal(t, enums.OrderStatusAssigned, orderSvc.transitions[0].To)
	require.NotNil(t, orderSvc.transitions[0].VendorID)
	assert.Equal(t, best.ID, *orderSvc.transitions[0].VendorID)

	require.Len(t, notifier.published, 1)
	assert.Equal(t, enums.DispatchEventOrderAssigned, notifier.published[0])
}

func TestAssignStandardReturnsCandidates(t *testing.T) {
	order := pendingOrder(enums.ServiceTierStandard)
	vendorA := activeVendor("PA", 95)
	vendorB := activeVendor("PA", 80)

	orderSvc := &stubOrderService{order: order}
	svc := newDispatch(t, orderSvc, &stubVendorReader{snapshot: []models.Vendor{vendorB, vendorA}}, &stubNotifier{})

	result, err := svc.Assign(context.Background(), AssignInput{OrderID: order.ID})
	require.NoError(t, err)

	assert.False(t, result.AutoAssigned)
	assert.Nil(t, result.AssignedVendor)
	require.Len(t, result.Candidates, 2)
	assert.Equal(t, vendorA.ID, result.Candidates[0].ID)
	assert.Empty(t, orderSvc.transitions)
	assert.Equal(t, enums.OrderStatusPendingAssignment, result.Order.Status)
}

func TestAssignExplicitVendor(t *testing.T) {
	order := pendingOrder(enums.ServiceTierStandard)
	vendorA := activeVendor("PA", 95)
	vendorB := activeVendor("PA", 80)

	orderSvc := &stubOrderService{order: order}
	svc := newDispatch(t, orderSvc, &stubVendorReader{snapshot: []models.Vendor{vendorA, vendorB}}, &stubNotifier{})

	result, err := svc.Assign(context.Background(), AssignInput{OrderID: order.ID, VendorID: &vendorB.ID})
	require.NoError(t, err)

	assert.False(t, result.AutoAssigned)
	assert.Equal(t, vendorB.ID, result.AssignedVendor.ID)
}

func TestAssignExplicitIneligibleVendor(t *testing.T) {
	order := pendingOrder(enums.ServiceTierStandard)
	eligible := activeVendor("PA", 95)
	outsider := uuid.New()

	orderSvc := &stubOrderService{order: order}
	svc := newDispatch(t, orderSvc, &stubVendorReader{snapshot: []models.Vendor{eligible}}, &stubNotifier{})

	_, err := svc.Assign(context.Background(), AssignInput{OrderID: order.ID, VendorID: &outsider})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
	assert.Empty(t, orderSvc.transitions)
}

func TestAssignNoEligibleVendorFlagsOrder(t *testing.T) {
	order := pendingOrder(enums.ServiceTierPriority)

	orderSvc := &stubOrderService{order: order}
	svc := newDispatch(t, orderSvc, &stubVendorReader{}, &stubNotifier{})

	_, err := svc.Assign(context.Background(), AssignInput{OrderID: order.ID})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNoEligibleVendor))

	require.Len(t, orderSvc.flagged, 1)
	assert.Equal(t, order.ID, orderSvc.flagged[0])
	assert.Empty(t, orderSvc.transitions)
}

func TestAssignRejectsNonPendingOrder(t *testing.T) {
	order := pendingOrder(enums.ServiceTierPriority)
	order.Status = enums.OrderStatusAssigned

	orderSvc := &stubOrderService{order: order}
	svc := newDispatch(t, orderSvc, &stubVendorReader{snapshot: []models.Vendor{activeVendor("PA", 90)}}, &stubNotifier{})

	_, err := svc.Assign(context.Background(), AssignInput{OrderID: order.ID})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeOrderNotAssignable))
}

func TestAssignSurfacesLostRace(t *testing.T) {
	order := pendingOrder(enums.ServiceTierPriority)

	// The conditional update lost: another assign landed between the read
	// and the write.
	orderSvc := &stubOrderService{
		order:         order,
		transitionErr: pkgerrors.New(pkgerrors.CodeConcurrentModification, "order status changed concurrently"),
	}
	notifier := &stubNotifier{}
	svc := newDispatch(t, orderSvc, &stubVendorReader{snapshot: []models.Vendor{activeVendor("PA", 90)}}, notifier)

	_, err := svc.Assign(context.Background(), AssignInput{OrderID: order.ID})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConcurrentModification))
	assert.Empty(t, notifier.published)
}

func TestRecordEventMapsSignal(t *testing.T) {
	order := pendingOrder(enums.ServiceTierPriority)
	order.Status = enums.OrderStatusAssigned

	orderSvc := &stubOrderService{order: order}
	notifier := &stubNotifier{}
	svc := newDispatch(t, orderSvc, &stubVendorReader{}, notifier)

	updated, err := svc.RecordEvent(context.Background(), order.ID, enums.DispatchEventVendorAccepted, "vendor")
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusAccepted, updated.Status)

	require.Len(t, orderSvc.transitions, 1)
	require.NotNil(t, orderSvc.transitions[0].Event)
	assert.Equal(t, enums.DispatchEventVendorAccepted, *orderSvc.transitions[0].Event)

	require.Len(t, notifier.published, 1)
	assert.Equal(t, enums.DispatchEventVendorAccepted, notifier.published[0])
}

func TestRecordEventDeclineRequeues(t *testing.T) {
	vendorID := uuid.New()
	order := pendingOrder(enums.ServiceTierPriority)
	order.Status = enums.OrderStatusAssigned
	order.AssignedVendorID = &vendorID

	orderSvc := &stubOrderService{order: order}
	svc := newDispatch(t, orderSvc, &stubVendorReader{}, &stubNotifier{})

	updated, err := svc.RecordEvent(context.Background(), order.ID, enums.DispatchEventVendorDeclined, "vendor")
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPendingAssignment, updated.Status)
	assert.Nil(t, updated.AssignedVendorID)
}

func TestRecordEventUnknownKind(t *testing.T) {
	order := pendingOrder(enums.ServiceTierPriority)

	orderSvc := &stubOrderService{order: order}
	notifier := &stubNotifier{}
	svc := newDispatch(t, orderSvc, &stubVendorReader{}, notifier)

	_, err := svc.RecordEvent(context.Background(), order.ID, enums.DispatchEvent("signer_waved"), "vendor")
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeUnknownEvent))
	assert.Empty(t, orderSvc.transitions)
	assert.Empty(t, notifier.published)
}

func TestRecordEventRejectsCoordinatorSignal(t *testing.T) {
	order := pendingOrder(enums.ServiceTierPriority)

	orderSvc := &stubOrderService{order: order}
	svc := newDispatch(t, orderSvc, &stubVendorReader{}, &stubNotifier{})

	// order_assigned is emitted by Assign, never accepted as input.
	_, err := svc.RecordEvent(context.Background(), order.ID, enums.DispatchEventOrderAssigned, "vendor")
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeUnknownEvent))
	assert.Empty(t, orderSvc.transitions)
}

func TestRecordEventNoNotificationOnFailure(t *testing.T) {
	order := pendingOrder(enums.ServiceTierPriority)
	order.Status = enums.OrderStatusAssigned

	orderSvc := &stubOrderService{
		order:         order,
		transitionErr: pkgerrors.New(pkgerrors.CodeInvalidTransition, "transition not allowed"),
	}
	notifier := &stubNotifier{}
	svc := newDispatch(t, orderSvc, &stubVendorReader{}, notifier)

	_, err := svc.RecordEvent(context.Background(), order.ID, enums.DispatchEventFundsReleased, "ops")
	require.Error(t, err)
	assert.Empty(t, notifier.published)
}
