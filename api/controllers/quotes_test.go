package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/keystonenotary/dispatch-backend/internal/pricing"
	pkgerrors "github.com/keystonenotary/dispatch-backend/pkg/errors"
)

func TestQuotePricesRemoteNotarization(t *testing.T) {
	engine := pricing.NewEngine(pricing.DefaultRateBook())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", strings.NewReader(`{"service_kind":"ron"}`))
	resp := httptest.NewRecorder()
	Quote(engine, nil, testLogger(t))(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data quoteResponse `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.TotalCents != 6000 {
		t.Fatalf("expected 6000 cents got %d", envelope.Data.TotalCents)
	}
	if envelope.Data.Provisional {
		t.Fatal("ron quote should never be provisional")
	}
	if envelope.Data.FormattedTotal != "60.00" {
		t.Fatalf("expected 60.00 got %q", envelope.Data.FormattedTotal)
	}
}

func TestQuoteUsesExplicitMiles(t *testing.T) {
	engine := pricing.NewEngine(pricing.DefaultRateBook())

	body := `{"service_kind":"mobile_notary","round_trip_miles":20}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", strings.NewReader(body))
	resp := httptest.NewRecorder()
	Quote(engine, nil, testLogger(t))(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data quoteResponse `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	// 500 notary + 3500 service + 20 * 150 mileage
	if envelope.Data.TotalCents != 7000 {
		t.Fatalf("expected 7000 cents got %d", envelope.Data.TotalCents)
	}
}

func TestQuoteMarksProvisionalWithoutDistance(t *testing.T) {
	engine := pricing.NewEngine(pricing.DefaultRateBook())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", strings.NewReader(`{"service_kind":"mobile_notary"}`))
	resp := httptest.NewRecorder()
	Quote(engine, nil, testLogger(t))(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data quoteResponse `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data.Provisional {
		t.Fatal("expected provisional quote without distance")
	}
}

func TestQuoteRejectsUnknownKind(t *testing.T) {
	engine := pricing.NewEngine(pricing.DefaultRateBook())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", strings.NewReader(`{"service_kind":"tarot_reading"}`))
	resp := httptest.NewRecorder()
	Quote(engine, nil, testLogger(t))(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeInvalidServiceKind) {
		t.Fatalf("expected INVALID_SERVICE_KIND got %q", envelope.Error.Code)
	}
}

func TestQuoteRejectsUnknownBodyField(t *testing.T) {
	engine := pricing.NewEngine(pricing.DefaultRateBook())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", strings.NewReader(`{"service_kind":"ron","surprise":true}`))
	resp := httptest.NewRecorder()
	Quote(engine, nil, testLogger(t))(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
