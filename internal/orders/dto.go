package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/keystonenotary/dispatch-backend/pkg/enums"
	"github.com/keystonenotary/dispatch-backend/pkg/pagination"
)

// CreateInput carries intake data for a new signing order.
type CreateInput struct {
	SigningType enums.SigningType
	ServiceTier enums.ServiceTier

	SignerName  string
	SignerPhone string
	SignerEmail string

	PropertyAddress string
	PropertyCity    string
	PropertyState   string
	PropertyZip     string

	LoanType            *enums.LoanType
	AppointmentAt       *time.Time
	SpecialInstructions *string
}

// TransitionInput drives one status move through the state machine.
type TransitionInput struct {
	OrderID uuid.UUID
	To      enums.OrderStatus
	Event   *enums.DispatchEvent
	Actor   string

	// VendorID is required when transitioning into assigned.
	VendorID *uuid.UUID
}

// ListInput filters the admin order listing.
type ListInput struct {
	Status *enums.OrderStatus
	Page   pagination.Params
}
