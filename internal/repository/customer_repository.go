package repository

import (
	"context"

	"gorm.io/gorm"

	"design_portal/internal/models"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, id uint) (*models.Customer, error)
	// AdjustWalletBalance applies a signed delta to the cached balance
	// snapshot after a confirmed capture.
	AdjustWalletBalance(ctx context.Context, customer *models.Customer, delta int64) error
}

type customerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *customerRepository) GetByID(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).First(&customer, id).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) AdjustWalletBalance(ctx context.Context, customer *models.Customer, delta int64) error {
	err := r.db.WithContext(ctx).Model(&models.Customer{}).
		Where("id = ?", customer.ID).
		Update("wallet_balance", gorm.Expr("wallet_balance + ?", delta)).Error
	if err != nil {
		return err
	}
	customer.WalletBalance += delta
	return nil
}
