package notify

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/keystonenotary/dispatch-backend/pkg/db/models"
	"github.com/keystonenotary/dispatch-backend/pkg/enums"
	"github.com/keystonenotary/dispatch-backend/pkg/logger"
)

func testLogger(out *strings.Builder) *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("info"), Output: out})
}

func TestNewServiceRequiresLogger(t *testing.T) {
	if _, err := NewService(nil, time.Second, nil); err == nil {
		t.Fatal("expected error for nil logger")
	}
}

func TestNewServiceDefaultsTimeout(t *testing.T) {
	var out strings.Builder
	svc, err := NewService(nil, 0, testLogger(&out))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.timeout != defaultPublishTimeout {
		t.Fatalf("expected default timeout, got %v", svc.timeout)
	}
}

func TestOrderEventLogsWithoutPublisher(t *testing.T) {
	var out strings.Builder
	svc, err := NewService(nil, time.Second, testLogger(&out))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	order := &models.SigningOrder{ID: uuid.New(), OrderNumber: "KN-77"}
	svc.OrderEvent(context.Background(), order, enums.DispatchEventFundsReleased)

	logged := out.String()
	if !strings.Contains(logged, "KN-77 has funded") {
		t.Fatalf("expected funded template in log, got %q", logged)
	}
}

func TestOrderEventAssignmentTemplate(t *testing.T) {
	var out strings.Builder
	svc, err := NewService(nil, time.Second, testLogger(&out))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	order := &models.SigningOrder{ID: uuid.New(), OrderNumber: "KN-42"}
	svc.OrderEvent(context.Background(), order, enums.DispatchEventOrderAssigned)

	if !strings.Contains(out.String(), "KN-42 has been assigned to you") {
		t.Fatalf("expected assignment template in log, got %q", out.String())
	}
}

func TestOrderEventIgnoresNilOrder(t *testing.T) {
	var out strings.Builder
	svc, err := NewService(nil, time.Second, testLogger(&out))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	svc.OrderEvent(context.Background(), nil, enums.DispatchEventFundsReleased)
	if out.Len() != 0 {
		t.Fatalf("expected no log output, got %q", out.String())
	}
}

func TestUnknownEventFallsBackToGenericTemplate(t *testing.T) {
	var out strings.Builder
	svc, err := NewService(nil, time.Second, testLogger(&out))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	order := &models.SigningOrder{ID: uuid.New(), OrderNumber: "KN-81"}
	svc.OrderEvent(context.Background(), order, enums.DispatchEvent("meteor_strike"))

	if !strings.Contains(out.String(), "KN-81 status update") {
		t.Fatalf("expected generic template, got %q", out.String())
	}
}
