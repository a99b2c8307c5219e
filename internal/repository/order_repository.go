package repository

import (
	"context"

	"gorm.io/gorm"

	"design_portal/internal/models"
	"design_portal/internal/status"
)

type OrderRepository interface {
	Create(ctx context.Context, order *models.ServiceOrder) error
	GetByID(ctx context.Context, id uint) (*models.ServiceOrder, error)
	GetByPublicID(ctx context.Context, publicID string) (*models.ServiceOrder, error)
	GetAll(ctx context.Context) ([]models.ServiceOrder, error)
	ListOpen(ctx context.Context) ([]models.ServiceOrder, error)
	Update(ctx context.Context, order *models.ServiceOrder) error
	// CommitStatus advances the status and appends the history event in one
	// transaction, so history order always matches commit order.
	CommitStatus(ctx context.Context, order *models.ServiceOrder, next status.OrderStatus, actor string) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Details").
		Preload("ExternalItems").
		Preload("Contracts").
		Preload("WorkTasks").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_status_events.id ASC")
		})
}

func (r *orderRepository) Create(ctx context.Context, order *models.ServiceOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepository) GetByID(ctx context.Context, id uint) (*models.ServiceOrder, error) {
	var order models.ServiceOrder
	err := r.preloaded(ctx).First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetByPublicID(ctx context.Context, publicID string) (*models.ServiceOrder, error) {
	var order models.ServiceOrder
	err := r.preloaded(ctx).Where("public_id = ?", publicID).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetAll(ctx context.Context) ([]models.ServiceOrder, error) {
	var orders []models.ServiceOrder
	err := r.preloaded(ctx).Order("id DESC").Find(&orders).Error
	return orders, err
}

func (r *orderRepository) ListOpen(ctx context.Context) ([]models.ServiceOrder, error) {
	var orders []models.ServiceOrder
	err := r.preloaded(ctx).
		Where("status NOT IN ?", []status.OrderStatus{
			status.OrderCompleteOrder, status.OrderCancelled, status.OrderStopService,
		}).
		Order("id DESC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) Update(ctx context.Context, order *models.ServiceOrder) error {
	return r.db.WithContext(ctx).Save(order).Error
}

func (r *orderRepository) CommitStatus(ctx context.Context, order *models.ServiceOrder, next status.OrderStatus, actor string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ServiceOrder{}).
			Where("id = ?", order.ID).
			Update("status", next).Error; err != nil {
			return err
		}
		event := models.OrderStatusEvent{OrderID: order.ID, Status: next, Actor: actor}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}
		order.Status = next
		order.StatusHistory = append(order.StatusHistory, event)
		return nil
	})
}
