package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/now"

	"design_portal/internal/lifecycle"
	"design_portal/internal/models"
	"design_portal/internal/notify"
	"design_portal/internal/orchestrator"
	"design_portal/internal/repository"
	"design_portal/internal/status"
	"design_portal/internal/store"
)

type OrderService interface {
	CreateOrder(ctx context.Context, order *models.ServiceOrder) error
	GetAll(ctx context.Context) ([]models.ServiceOrder, error)
	GetByPublicID(ctx context.Context, publicID string) (*models.ServiceOrder, error)
	RequestTransition(ctx context.Context, publicID string, requested status.OrderStatus,
		actor lifecycle.Actor, input orchestrator.OrderInput) (*models.ServiceOrder, *orchestrator.Result, error)
	AssignDesigner(ctx context.Context, publicID string, designerID uint, scheduledAt time.Time) (*models.WorkTask, error)
	CheckWallet(ctx context.Context, publicID string, requested status.OrderStatus) (*orchestrator.WalletCheck, error)
	StatusTable() []status.Info
}

type orderService struct {
	orders   repository.OrderRepository
	tasks    repository.WorkTaskRepository
	orch     *orchestrator.OrderOrchestrator
	store    *store.Store
	notifier notify.Notifier
}

func NewOrderService(
	orders repository.OrderRepository,
	tasks repository.WorkTaskRepository,
	orch *orchestrator.OrderOrchestrator,
	st *store.Store,
	notifier notify.Notifier,
) OrderService {
	return &orderService{orders: orders, tasks: tasks, orch: orch, store: st, notifier: notifier}
}

func (s *orderService) CreateOrder(ctx context.Context, order *models.ServiceOrder) error {
	if order.PublicID == "" {
		order.PublicID = uuid.NewString()
	}
	order.Status = status.OrderPending
	return s.orders.Create(ctx, order)
}

func (s *orderService) GetAll(ctx context.Context) ([]models.ServiceOrder, error) {
	return s.orders.GetAll(ctx)
}

func (s *orderService) GetByPublicID(ctx context.Context, publicID string) (*models.ServiceOrder, error) {
	order, err := s.orders.GetByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	s.store.Reconcile(store.Key{Kind: store.KindOrder, ID: publicID}, order)
	return order, nil
}

func (s *orderService) RequestTransition(
	ctx context.Context,
	publicID string,
	requested status.OrderStatus,
	actor lifecycle.Actor,
	input orchestrator.OrderInput,
) (*models.ServiceOrder, *orchestrator.Result, error) {
	order, result, err := s.orch.Transition(ctx, publicID, requested, actor, input)
	if err == nil {
		s.notifier.OrderStatusChanged(order)
	}
	return order, result, err
}

// AssignDesigner schedules a designer work task for the order. Appointments
// are normalized to the beginning of the day's slot grid.
func (s *orderService) AssignDesigner(ctx context.Context, publicID string, designerID uint, scheduledAt time.Time) (*models.WorkTask, error) {
	order, err := s.orders.GetByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	task := &models.WorkTask{
		OrderID:     order.ID,
		DesignerID:  designerID,
		ScheduledAt: now.New(scheduledAt).BeginningOfHour(),
		Status:      status.TaskConsultingAndSketch,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *orderService) CheckWallet(ctx context.Context, publicID string, requested status.OrderStatus) (*orchestrator.WalletCheck, error) {
	return s.orch.CheckWallet(ctx, publicID, requested)
}

func (s *orderService) StatusTable() []status.Info {
	return status.OrderStatusTable()
}
