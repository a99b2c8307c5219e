package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"design_portal/internal/status"
)

// ComplaintType is the closed variant that selects which transition graph a
// complaint follows.
type ComplaintType string

const (
	ComplaintRefund        ComplaintType = "Refund"
	ComplaintProductReturn ComplaintType = "ProductReturn"
)

func (t ComplaintType) Valid() bool {
	return t == ComplaintRefund || t == ComplaintProductReturn
}

// Complaint is a post-sale dispute (refund or product return) against a
// delivered service order.
type Complaint struct {
	ID            uint                   `json:"id" gorm:"primaryKey"`
	PublicID      string                 `json:"public_id" gorm:"type:varchar(36);unique;not null"`
	OrderID       uint                   `json:"order_id" gorm:"not null;index"`
	Order         ServiceOrder           `json:"order" gorm:"foreignKey:OrderID"`
	ComplaintType ComplaintType          `json:"complaint_type" gorm:"type:varchar(20);not null"`
	Status        status.ComplaintStatus `json:"status" gorm:"not null;default:0"`
	Details       []ComplaintDetail      `json:"complaint_details" gorm:"foreignKey:ComplaintID"`
	DeliveryCode  string                 `json:"delivery_code" gorm:"type:varchar(64)"` // immutable once set
	Reason        string                 `json:"reason"`
	VideoURL      string                 `json:"video_url"`
	StatusHistory []ComplaintStatusEvent `json:"status_history" gorm:"foreignKey:ComplaintID"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
	DeletedAt     gorm.DeletedAt         `json:"deleted_at" gorm:"index"`
}

// AllDetailsReviewed reports whether every line item has been explicitly
// accepted or rejected, with a reason present on every rejection.
func (c *Complaint) AllDetailsReviewed() bool {
	for i := range c.Details {
		d := &c.Details[i]
		if d.IsCheck == nil {
			return false
		}
		if !*d.IsCheck && d.Description == "" {
			return false
		}
	}
	return true
}

// AcceptedDetails returns the line items explicitly accepted by staff.
func (c *Complaint) AcceptedDetails() []ComplaintDetail {
	var out []ComplaintDetail
	for _, d := range c.Details {
		if d.IsCheck != nil && *d.IsCheck {
			out = append(out, d)
		}
	}
	return out
}

// RejectedDetails returns the line items explicitly rejected by staff.
func (c *Complaint) RejectedDetails() []ComplaintDetail {
	var out []ComplaintDetail
	for _, d := range c.Details {
		if d.IsCheck != nil && !*d.IsCheck {
			out = append(out, d)
		}
	}
	return out
}

// ComplaintDetail is one disputed product line. IsCheck is tri-state:
// nil = unreviewed, true = accepted, false = rejected (Description required).
type ComplaintDetail struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	ComplaintID uint      `json:"complaint_id" gorm:"not null;index"`
	ProductID   string    `json:"product_id" gorm:"type:varchar(64);not null"`
	ProductName string    `json:"product_name" gorm:"not null"`
	Quantity    int       `json:"quantity" gorm:"not null"`
	IsCheck     *bool     `json:"is_check"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (ComplaintDetail) TableName() string {
	return "complaint_details"
}

// ComplaintStatusEvent is one append-only complaint history entry.
type ComplaintStatusEvent struct {
	ID          uint                   `json:"id" gorm:"primaryKey"`
	ComplaintID uint                   `json:"complaint_id" gorm:"not null;index"`
	Status      status.ComplaintStatus `json:"status" gorm:"not null"`
	Actor       string                 `json:"actor" gorm:"type:varchar(32);not null"`
	CreatedAt   time.Time              `json:"created_at"`
}

func (ComplaintStatusEvent) TableName() string {
	return "complaint_status_events"
}

// Ref is a short human identifier used in payment/shipping descriptions.
func (c *Complaint) Ref() string {
	return fmt.Sprintf("complaint-%s", c.PublicID)
}
