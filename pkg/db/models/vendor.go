package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/keystonenotary/dispatch-backend/pkg/enums"
)

// Vendor is a signing agent on the roster. Reputation fields (elite score,
// first-pass funding rate, totals) are maintained by an external process and
// are read-only here.
type Vendor struct {
	ID    uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name  string    `gorm:"column:name;not null"`
	Phone string    `gorm:"column:phone"`
	Email string    `gorm:"column:email"`

	PrimaryCommissionState string             `gorm:"column:primary_commission_state;not null;index"`
	Status                 enums.VendorStatus `gorm:"column:status;type:text;not null;default:'pending'"`

	EliteScore           int              `gorm:"column:elite_score;not null;default:0"`
	Tier                 enums.VendorTier `gorm:"column:tier;type:text;not null;default:'bronze'"`
	FirstPassFundingRate float64          `gorm:"column:first_pass_funding_rate;not null;default:0"`
	TotalSignings        int              `gorm:"column:total_signings;not null;default:0"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
