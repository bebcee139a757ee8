package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/keystonenotary/dispatch-backend/pkg/enums"
)

// SigningOrder is a booked signing engagement moving through dispatch.
// Orders are never hard-deleted; terminal rows stay behind for KPI history.
type SigningOrder struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber string    `gorm:"column:order_number;uniqueIndex;not null"`

	SigningType enums.SigningType `gorm:"column:signing_type;type:text;not null"`
	ServiceTier enums.ServiceTier `gorm:"column:service_tier;type:text;not null;default:'standard'"`

	SignerName  string `gorm:"column:signer_name;not null"`
	SignerPhone string `gorm:"column:signer_phone;not null"`
	SignerEmail string `gorm:"column:signer_email"`

	PropertyAddress string `gorm:"column:property_address;not null"`
	PropertyCity    string `gorm:"column:property_city;not null"`
	PropertyState   string `gorm:"column:property_state;not null;index"`
	PropertyZip     string `gorm:"column:property_zip;not null"`

	LoanType            *enums.LoanType `gorm:"column:loan_type;type:text"`
	AppointmentAt       *time.Time      `gorm:"column:appointment_at"`
	SpecialInstructions *string         `gorm:"column:special_instructions"`

	Status           enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending_assignment';index"`
	AssignedVendorID *uuid.UUID        `gorm:"column:assigned_vendor_id;type:uuid"`

	AssignedAt         *time.Time `gorm:"column:assigned_at"`
	AcceptedAt         *time.Time `gorm:"column:accepted_at"`
	DeclinedAt         *time.Time `gorm:"column:declined_at"`
	VendorEnRouteAt    *time.Time `gorm:"column:vendor_en_route_at"`
	VendorArrivedAt    *time.Time `gorm:"column:vendor_arrived_at"`
	SigningStartedAt   *time.Time `gorm:"column:signing_started_at"`
	SigningCompletedAt *time.Time `gorm:"column:signing_completed_at"`
	ScanbackUploadedAt *time.Time `gorm:"column:scanback_uploaded_at"`
	ShippedAt          *time.Time `gorm:"column:shipped_at"`
	FundedAt           *time.Time `gorm:"column:funded_at"`
	CancelledAt        *time.Time `gorm:"column:cancelled_at"`
	FailedAt           *time.Time `gorm:"column:failed_at"`

	// QARejections counts qa_review -> scanback_pending cycles. An order only
	// qualifies as first-pass funded when this is still zero at funding time.
	QARejections            int  `gorm:"column:qa_rejections;not null;default:0"`
	FirstPassFunded         bool `gorm:"column:first_pass_funded;not null;default:false"`
	ManualAssignmentFlagged bool `gorm:"column:manual_assignment_flagged;not null;default:false"`

	Events []OrderEvent `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
