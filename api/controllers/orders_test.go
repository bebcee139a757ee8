package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	internalorders "github.com/keystonenotary/dispatch-backend/internal/orders"
	"github.com/keystonenotary/dispatch-backend/pkg/db/models"
	"github.com/keystonenotary/dispatch-backend/pkg/enums"
	pkgerrors "github.com/keystonenotary/dispatch-backend/pkg/errors"
	"github.com/keystonenotary/dispatch-backend/pkg/logger"
)

type stubOrdersService struct {
	create     func(ctx context.Context, input internalorders.CreateInput) (*models.SigningOrder, error)
	get        func(ctx context.Context, id uuid.UUID) (*models.SigningOrder, error)
	list       func(ctx context.Context, input internalorders.ListInput) ([]models.SigningOrder, string, error)
	transition func(ctx context.Context, input internalorders.TransitionInput) (*models.SigningOrder, error)
}

func (s *stubOrdersService) Create(ctx context.Context, input internalorders.CreateInput) (*models.SigningOrder, error) {
	return s.create(ctx, input)
}

func (s *stubOrdersService) Get(ctx context.Context, id uuid.UUID) (*models.SigningOrder, error) {
	return s.get(ctx, id)
}

func (s *stubOrdersService) List(ctx context.Context, input internalorders.ListInput) ([]models.SigningOrder, string, error) {
	return s.list(ctx, input)
}

func (s *stubOrdersService) Transition(ctx context.Context, input internalorders.TransitionInput) (*models.SigningOrder, error) {
	return s.transition(ctx, input)
}

func (s *stubOrdersService) FlagManualAssignment(ctx context.Context, id uuid.UUID) error {
	return nil
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("error")})
}

func sampleOrder() *models.SigningOrder {
	return &models.SigningOrder{
		ID:              uuid.New(),
		OrderNumber:     "KN-1042",
		SigningType:     enums.SigningTypeInPerson,
		ServiceTier:     enums.ServiceTierStandard,
		Status:          enums.OrderStatusPendingAssignment,
		SignerName:      "Dana Whitfield",
		SignerPhone:     "215-555-0171",
		PropertyAddress: "822 Pine St",
		PropertyCity:    "Philadelphia",
		PropertyState:   "PA",
		PropertyZip:     "19107",
		CreatedAt:       time.Now().UTC(),
		UpdatedAt:       time.Now().UTC(),
	}
}

func TestCreateOrderReturnsCreated(t *testing.T) {
	order := sampleOrder()
	svc := &stubOrdersService{
		create: func(_ context.Context, input internalorders.CreateInput) (*models.SigningOrder, error) {
			if input.SigningType != enums.SigningTypeInPerson {
				t.Fatalf("unexpected signing type %q", input.SigningType)
			}
			return order, nil
		},
	}

	body := `{
		"signing_type": "in_person",
		"service_tier": "standard",
		"signer_name": "Dana Whitfield",
		"signer_phone": "215-555-0171",
		"property_address": "822 Pine St",
		"property_city": "Philadelphia",
		"property_state": "PA",
		"property_zip": "19107"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	resp := httptest.NewRecorder()
	CreateOrder(svc, testLogger(t))(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data orderResponse `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.OrderNumber != "KN-1042" {
		t.Fatalf("expected order number KN-1042 got %q", envelope.Data.OrderNumber)
	}
	if envelope.Data.Status != string(enums.OrderStatusPendingAssignment) {
		t.Fatalf("expected pending_assignment got %q", envelope.Data.Status)
	}
}

func TestCreateOrderRejectsUnknownSigningType(t *testing.T) {
	svc := &stubOrdersService{
		create: func(context.Context, internalorders.CreateInput) (*models.SigningOrder, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	}

	body := `{
		"signing_type": "timeshare",
		"service_tier": "standard",
		"signer_name": "Dana Whitfield",
		"signer_phone": "215-555-0171",
		"property_address": "822 Pine St",
		"property_city": "Philadelphia",
		"property_state": "PA",
		"property_zip": "19107"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	resp := httptest.NewRecorder()
	CreateOrder(svc, testLogger(t))(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCreateOrderRejectsMissingFields(t *testing.T) {
	svc := &stubOrdersService{
		create: func(context.Context, internalorders.CreateInput) (*models.SigningOrder, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(`{"signing_type":"in_person"}`))
	resp := httptest.NewRecorder()
	CreateOrder(svc, testLogger(t))(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	var envelope struct {
		Error struct {
			Code    string            `json:"code"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR got %q", envelope.Error.Code)
	}
	if _, ok := envelope.Error.Details["signer_name"]; !ok {
		t.Fatalf("expected signer_name in details, got %v", envelope.Error.Details)
	}
}

func TestOrderDetailNotFound(t *testing.T) {
	svc := &stubOrdersService{
		get: func(context.Context, uuid.UUID) (*models.SigningOrder, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+uuid.NewString(), nil)
	rc := chi.NewRouteContext()
	rc.URLParams.Add("orderId", uuid.NewString())
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))

	resp := httptest.NewRecorder()
	OrderDetail(svc, testLogger(t))(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestOrderDetailRejectsMalformedID(t *testing.T) {
	svc := &stubOrdersService{
		get: func(context.Context, uuid.UUID) (*models.SigningOrder, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/not-a-uuid", nil)
	rc := chi.NewRouteContext()
	rc.URLParams.Add("orderId", "not-a-uuid")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))

	resp := httptest.NewRecorder()
	OrderDetail(svc, testLogger(t))(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestListOrdersAppliesStatusFilter(t *testing.T) {
	var seen internalorders.ListInput
	svc := &stubOrdersService{
		list: func(_ context.Context, input internalorders.ListInput) ([]models.SigningOrder, string, error) {
			seen = input
			return []models.SigningOrder{*sampleOrder()}, "next-token", nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?status=pending_assignment&limit=10", nil)
	resp := httptest.NewRecorder()
	ListOrders(svc, testLogger(t))(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if seen.Status == nil || *seen.Status != enums.OrderStatusPendingAssignment {
		t.Fatalf("expected pending_assignment filter, got %v", seen.Status)
	}
	if seen.Page.Limit != 10 {
		t.Fatalf("expected limit 10 got %d", seen.Page.Limit)
	}

	var envelope struct {
		Data orderPageResponse `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Orders) != 1 {
		t.Fatalf("expected 1 order got %d", len(envelope.Data.Orders))
	}
	if envelope.Data.NextCursor != "next-token" {
		t.Fatalf("expected cursor passthrough got %q", envelope.Data.NextCursor)
	}
}

func TestListOrdersRejectsUnknownStatus(t *testing.T) {
	svc := &stubOrdersService{
		list: func(context.Context, internalorders.ListInput) ([]models.SigningOrder, string, error) {
			t.Fatal("service should not be called")
			return nil, "", nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?status=misplaced", nil)
	resp := httptest.NewRecorder()
	ListOrders(svc, testLogger(t))(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
