package models

import (
	"time"

	"gorm.io/gorm"
)

// Customer is the commissioning party. WalletBalance is the last snapshot of
// the customer's wallet in VND, refreshed from the payment backend; the
// orchestrator checks it before attempting any capture.
type Customer struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	PublicID      string         `json:"public_id" gorm:"type:varchar(36);unique;not null"`
	FullName      string         `json:"full_name" gorm:"not null"`
	PhoneNumber   string         `json:"phone_number"`
	Email         string         `json:"email"`
	WalletID      string         `json:"wallet_id" gorm:"type:varchar(64);not null"`
	WalletBalance int64          `json:"wallet_balance" gorm:"not null;default:0"` // VND
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}
