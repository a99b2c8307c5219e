package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"design_portal/internal/models"
)

type ContractRepository interface {
	Create(ctx context.Context, contract *models.Contract) error
	GetByID(ctx context.Context, id uint) (*models.Contract, error)
	// GetUnsigned returns the unsigned contract for the order's current
	// signing cycle, or gorm.ErrRecordNotFound.
	GetUnsigned(ctx context.Context, orderID uint, cycle int) (*models.Contract, error)
	MarkSigned(ctx context.Context, contract *models.Contract, signatureURL string, signedAt time.Time) error
}

type contractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) ContractRepository {
	return &contractRepository{db: db}
}

func (r *contractRepository) Create(ctx context.Context, contract *models.Contract) error {
	return r.db.WithContext(ctx).Create(contract).Error
}

func (r *contractRepository) GetByID(ctx context.Context, id uint) (*models.Contract, error) {
	var contract models.Contract
	err := r.db.WithContext(ctx).First(&contract, id).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepository) GetUnsigned(ctx context.Context, orderID uint, cycle int) (*models.Contract, error) {
	var contract models.Contract
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND cycle = ? AND modification_date IS NULL", orderID, cycle).
		First(&contract).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepository) MarkSigned(ctx context.Context, contract *models.Contract, signatureURL string, signedAt time.Time) error {
	if contract.Signed() {
		return errors.New("contract is already signed")
	}
	err := r.db.WithContext(ctx).Model(&models.Contract{}).
		Where("id = ? AND modification_date IS NULL", contract.ID).
		Updates(map[string]interface{}{
			"signature_url":     signatureURL,
			"modification_date": signedAt,
		}).Error
	if err != nil {
		return err
	}
	contract.SignatureURL = &signatureURL
	contract.ModificationDate = &signedAt
	return nil
}
