package models

import "time"

// Contract is the generated agreement for one signing cycle of an order.
// Unsigned: Description holds the rendered PDF URL and ModificationDate is
// unset. Signing records the signature artifact and sets ModificationDate;
// a signed contract is immutable.
type Contract struct {
	ID               uint       `json:"id" gorm:"primaryKey"`
	OrderID          uint       `json:"order_id" gorm:"not null;index"`
	Cycle            int        `json:"cycle" gorm:"not null;default:1"`
	Description      string     `json:"description" gorm:"not null"` // PDF URL
	SignatureURL     *string    `json:"signature_url"`
	ModificationDate *time.Time `json:"modification_date"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (c *Contract) Signed() bool {
	return c.ModificationDate != nil
}
