package repository

import (
	"context"

	"gorm.io/gorm"

	"design_portal/internal/models"
	"design_portal/internal/status"
)

type WorkTaskRepository interface {
	Create(ctx context.Context, task *models.WorkTask) error
	GetByID(ctx context.Context, id uint) (*models.WorkTask, error)
	// GetCurrentByOrder returns the most recent task for the order, or
	// gorm.ErrRecordNotFound when none was ever assigned.
	GetCurrentByOrder(ctx context.Context, orderID uint) (*models.WorkTask, error)
	UpdateStatus(ctx context.Context, task *models.WorkTask, next status.WorkTaskStatus) error
}

type workTaskRepository struct {
	db *gorm.DB
}

func NewWorkTaskRepository(db *gorm.DB) WorkTaskRepository {
	return &workTaskRepository{db: db}
}

func (r *workTaskRepository) Create(ctx context.Context, task *models.WorkTask) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *workTaskRepository) GetByID(ctx context.Context, id uint) (*models.WorkTask, error) {
	var task models.WorkTask
	err := r.db.WithContext(ctx).First(&task, id).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *workTaskRepository) GetCurrentByOrder(ctx context.Context, orderID uint) (*models.WorkTask, error) {
	var task models.WorkTask
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id DESC").
		First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *workTaskRepository) UpdateStatus(ctx context.Context, task *models.WorkTask, next status.WorkTaskStatus) error {
	err := r.db.WithContext(ctx).Model(&models.WorkTask{}).
		Where("id = ?", task.ID).
		Update("status", next).Error
	if err != nil {
		return err
	}
	task.Status = next
	return nil
}
