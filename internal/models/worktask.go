package models

import (
	"time"

	"gorm.io/gorm"

	"design_portal/internal/status"
)

// WorkTask assigns a designer to an order at a scheduled time. During an
// automated flow its status is mutated only by the orchestrator, in lock-step
// with the order.
type WorkTask struct {
	ID          uint                  `json:"id" gorm:"primaryKey"`
	OrderID     uint                  `json:"order_id" gorm:"not null;index"`
	DesignerID  uint                  `json:"designer_id" gorm:"not null;index"`
	ScheduledAt time.Time             `json:"scheduled_at" gorm:"not null"`
	Status      status.WorkTaskStatus `json:"status" gorm:"not null;default:0"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
	DeletedAt   gorm.DeletedAt        `json:"deleted_at" gorm:"index"`
}
