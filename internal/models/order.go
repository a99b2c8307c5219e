package models

import (
	"time"

	"gorm.io/gorm"

	"design_portal/internal/status"
)

// ServiceOrder is a commissioned design-and-installation order. Status moves
// only through the lifecycle graph; orders are never deleted, they end in a
// terminal status.
type ServiceOrder struct {
	ID            uint                `json:"id" gorm:"primaryKey"`
	PublicID      string              `json:"public_id" gorm:"type:varchar(36);unique;not null"`
	CustomerID    uint                `json:"customer_id" gorm:"not null;index"`
	Customer      Customer            `json:"customer" gorm:"foreignKey:CustomerID"`
	Status        status.OrderStatus  `json:"status" gorm:"not null;default:0"`
	DesignPrice   *int64              `json:"design_price"`   // VND, set when design pricing completes
	MaterialPrice *int64              `json:"material_price"` // VND, set when material pricing completes
	TotalCost     *int64              `json:"total_cost"`
	SketchRounds  int                 `json:"sketch_rounds" gorm:"default:0"`
	DesignRounds  int                 `json:"design_rounds" gorm:"default:0"`
	Details       []OrderDetail       `json:"service_order_details" gorm:"foreignKey:OrderID"`
	ExternalItems []ExternalProduct   `json:"external_products" gorm:"foreignKey:OrderID"`
	Contracts     []Contract          `json:"contracts" gorm:"foreignKey:OrderID"`
	WorkTasks     []WorkTask          `json:"work_tasks" gorm:"foreignKey:OrderID"`
	StatusHistory []OrderStatusEvent  `json:"status_history" gorm:"foreignKey:OrderID"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
	DeletedAt     gorm.DeletedAt      `json:"deleted_at" gorm:"index"`
}

// RevisionRounds is the number of completed re-sketch/re-design rounds,
// the quantity bounded by the configured revision cap.
func (o *ServiceOrder) RevisionRounds() int {
	return o.SketchRounds + o.DesignRounds
}

// UnsignedContract returns the current cycle's unsigned contract, or nil.
func (o *ServiceOrder) UnsignedContract() *Contract {
	for i := range o.Contracts {
		if !o.Contracts[i].Signed() {
			return &o.Contracts[i]
		}
	}
	return nil
}

// OrderDetail is a catalog line item on a service order.
type OrderDetail struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	OrderID     uint      `json:"order_id" gorm:"not null;index"`
	ProductID   string    `json:"product_id" gorm:"type:varchar(64);not null"`
	ProductName string    `json:"product_name" gorm:"not null"`
	Quantity    int       `json:"quantity" gorm:"not null"`
	UnitPrice   int64     `json:"unit_price" gorm:"not null"` // VND
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ExternalProduct is an ad hoc (non-catalog) line item on a service order.
type ExternalProduct struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	OrderID     uint      `json:"order_id" gorm:"not null;index"`
	ProductName string    `json:"product_name" gorm:"not null"`
	Quantity    int       `json:"quantity" gorm:"not null"`
	UnitPrice   int64     `json:"unit_price" gorm:"not null"` // VND
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OrderStatusEvent is one append-only status history entry. Rows are only
// ever inserted, in commit order; never updated or removed.
type OrderStatusEvent struct {
	ID        uint               `json:"id" gorm:"primaryKey"`
	OrderID   uint               `json:"order_id" gorm:"not null;index"`
	Status    status.OrderStatus `json:"status" gorm:"not null"`
	Actor     string             `json:"actor" gorm:"type:varchar(32);not null"`
	CreatedAt time.Time          `json:"created_at"`
}

func (OrderStatusEvent) TableName() string {
	return "order_status_events"
}
