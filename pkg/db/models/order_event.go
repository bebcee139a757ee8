package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/keystonenotary/dispatch-backend/pkg/enums"
)

// OrderEvent is one row of the append-only audit trail. A row is written in
// the same transaction as every successful status transition and is never
// updated or deleted, so repeated scanback cycles keep their full history.
type OrderEvent struct {
	ID         uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID    uuid.UUID            `gorm:"column:order_id;type:uuid;not null;index"`
	FromStatus enums.OrderStatus    `gorm:"column:from_status;type:text;not null"`
	ToStatus   enums.OrderStatus    `gorm:"column:to_status;type:text;not null"`
	Event      *enums.DispatchEvent `gorm:"column:event;type:text"`
	Actor      string               `gorm:"column:actor"`
	CreatedAt  time.Time            `gorm:"column:created_at;autoCreateTime"`
}
