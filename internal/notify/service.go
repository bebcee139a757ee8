package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/keystonenotary/dispatch-backend/pkg/db/models"
	"github.com/keystonenotary/dispatch-backend/pkg/enums"
	"github.com/keystonenotary/dispatch-backend/pkg/logger"
)

const defaultPublishTimeout = 10 * time.Second

// messageTemplates keys the human-readable notification text by event kind.
// The SMS/email relay consuming the topic does the channel fan-out.
var messageTemplates = map[enums.DispatchEvent]string{
	enums.DispatchEventOrderAssigned:    "Signing order %s has been assigned to you. Please accept or decline.",
	enums.DispatchEventVendorAccepted:   "Your signing order %s has been accepted by the assigned notary.",
	enums.DispatchEventVendorDeclined:   "Order %s is being re-assigned to a new notary.",
	enums.DispatchEventVendorEnRoute:    "The notary for order %s is on the way.",
	enums.DispatchEventVendorArrived:    "The notary for order %s has arrived.",
	enums.DispatchEventSigningStarted:   "Signing for order %s is in progress.",
	enums.DispatchEventSigningCompleted: "Signing for order %s is complete.",
	enums.DispatchEventScanbackUploaded: "Scanbacks for order %s have been uploaded.",
	enums.DispatchEventQARejected:       "Order %s needs corrected scanbacks.",
	enums.DispatchEventPackageShipped:   "Documents for order %s have shipped.",
	enums.DispatchEventFundsReleased:    "Order %s has funded.",
	enums.DispatchEventOrderCancelled:   "Order %s has been cancelled.",
	enums.DispatchEventOrderFailed:      "Order %s could not be completed.",
}

type publisher interface {
	Publish(ctx context.Context, msg *gcppubsub.Message) *gcppubsub.PublishResult
}

type payload struct {
	OrderID     uuid.UUID           `json:"order_id"`
	OrderNumber string              `json:"order_number"`
	Event       enums.DispatchEvent `json:"event"`
	Message     string              `json:"message"`
	OccurredAt  time.Time           `json:"occurred_at"`
}

// Service publishes order lifecycle notifications to the relay topic.
// Publishing is fire-and-forget: it never blocks the caller and a failure is
// logged, never propagated. With a nil publisher (dev mode) it degrades to
// logging only.
type Service struct {
	pub     publisher
	logg    *logger.Logger
	timeout time.Duration
}

// NewService builds the notifier. pub may be nil.
func NewService(pub publisher, timeout time.Duration, logg *logger.Logger) (*Service, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}
	return &Service{pub: pub, logg: logg, timeout: timeout}, nil
}

// OrderEvent publishes the templated notification for a committed
// transition. Returns immediately; the publish happens on its own goroutine
// with a bounded timeout, detached from the caller's cancellation.
func (s *Service) OrderEvent(ctx context.Context, order *models.SigningOrder, event enums.DispatchEvent) {
	if order == nil {
		return
	}

	template, ok := messageTemplates[event]
	if !ok {
		template = "Order %s status update."
	}

	body := payload{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Event:       event,
		Message:     fmt.Sprintf(template, order.OrderNumber),
		OccurredAt:  time.Now().UTC(),
	}

	logCtx := s.logg.WithOrderNumber(s.logg.WithOrderID(context.WithoutCancel(ctx), order.ID.String()), order.OrderNumber)

	if s.pub == nil {
		s.logg.Info(logCtx, "notification (log only): "+body.Message)
		return
	}

	data, err := json.Marshal(body)
	if err != nil {
		s.logg.Error(logCtx, "marshal notification payload", err)
		return
	}

	go func() {
		pctx, cancel := context.WithTimeout(logCtx, s.timeout)
		defer cancel()

		result := s.pub.Publish(pctx, &gcppubsub.Message{
			Data: data,
			Attributes: map[string]string{
				"event":        event.String(),
				"order_number": order.OrderNumber,
			},
		})
		if _, err := result.Get(pctx); err != nil {
			s.logg.Warn(logCtx, "notification publish failed: "+err.Error())
		}
	}()
}
