package orchestrator

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"design_portal/internal/models"
	"design_portal/internal/repository"
	"design_portal/internal/status"
	"design_portal/pkg/contractgen"
	"design_portal/pkg/payment"
	"design_portal/pkg/shipping"
)

type fakeOrderRepo struct {
	order     *models.ServiceOrder
	commits   []status.OrderStatus
	updates   int
	commitErr error
	updateErr error
}

func (r *fakeOrderRepo) Create(ctx context.Context, o *models.ServiceOrder) error { return nil }

func (r *fakeOrderRepo) GetByID(ctx context.Context, id uint) (*models.ServiceOrder, error) {
	return r.order, nil
}

func (r *fakeOrderRepo) GetByPublicID(ctx context.Context, publicID string) (*models.ServiceOrder, error) {
	if r.order == nil || r.order.PublicID != publicID {
		return nil, gorm.ErrRecordNotFound
	}
	return r.order, nil
}

func (r *fakeOrderRepo) GetAll(ctx context.Context) ([]models.ServiceOrder, error) { return nil, nil }

func (r *fakeOrderRepo) ListOpen(ctx context.Context) ([]models.ServiceOrder, error) {
	return nil, nil
}

func (r *fakeOrderRepo) Update(ctx context.Context, o *models.ServiceOrder) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updates++
	return nil
}

func (r *fakeOrderRepo) CommitStatus(ctx context.Context, o *models.ServiceOrder, next status.OrderStatus, actor string) error {
	if r.commitErr != nil {
		return r.commitErr
	}
	r.commits = append(r.commits, next)
	o.Status = next
	o.StatusHistory = append(o.StatusHistory, models.OrderStatusEvent{OrderID: o.ID, Status: next, Actor: actor})
	return nil
}

type fakeContractRepo struct {
	contracts []*models.Contract
	nextID    uint
}

func (r *fakeContractRepo) Create(ctx context.Context, c *models.Contract) error {
	r.nextID++
	c.ID = r.nextID
	r.contracts = append(r.contracts, c)
	return nil
}

func (r *fakeContractRepo) GetByID(ctx context.Context, id uint) (*models.Contract, error) {
	for _, c := range r.contracts {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeContractRepo) GetUnsigned(ctx context.Context, orderID uint, cycle int) (*models.Contract, error) {
	for _, c := range r.contracts {
		if c.OrderID == orderID && c.Cycle == cycle && !c.Signed() {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeContractRepo) MarkSigned(ctx context.Context, c *models.Contract, signatureURL string, signedAt time.Time) error {
	if c.Signed() {
		return fmt.Errorf("contract is already signed")
	}
	c.SignatureURL = &signatureURL
	c.ModificationDate = &signedAt
	return nil
}

type fakeTaskRepo struct {
	task      *models.WorkTask
	updateErr error
	moves     []status.WorkTaskStatus
}

func (r *fakeTaskRepo) Create(ctx context.Context, t *models.WorkTask) error { return nil }

func (r *fakeTaskRepo) GetByID(ctx context.Context, id uint) (*models.WorkTask, error) {
	return r.task, nil
}

func (r *fakeTaskRepo) GetCurrentByOrder(ctx context.Context, orderID uint) (*models.WorkTask, error) {
	if r.task == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return r.task, nil
}

func (r *fakeTaskRepo) UpdateStatus(ctx context.Context, t *models.WorkTask, next status.WorkTaskStatus) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	t.Status = next
	r.moves = append(r.moves, next)
	return nil
}

type fakeCustomerRepo struct {
	adjustments []int64
	adjustErr   error
}

func (r *fakeCustomerRepo) Create(ctx context.Context, c *models.Customer) error { return nil }

func (r *fakeCustomerRepo) GetByID(ctx context.Context, id uint) (*models.Customer, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCustomerRepo) AdjustWalletBalance(ctx context.Context, c *models.Customer, delta int64) error {
	if r.adjustErr != nil {
		return r.adjustErr
	}
	c.WalletBalance += delta
	r.adjustments = append(r.adjustments, delta)
	return nil
}

type fakeComplaintRepo struct {
	complaint *models.Complaint
	commits   []status.ComplaintStatus
	reasons   []string
	codes     []string
}

func (r *fakeComplaintRepo) Create(ctx context.Context, c *models.Complaint) error { return nil }

func (r *fakeComplaintRepo) GetByID(ctx context.Context, id uint) (*models.Complaint, error) {
	return r.complaint, nil
}

func (r *fakeComplaintRepo) GetByPublicID(ctx context.Context, publicID string) (*models.Complaint, error) {
	if r.complaint == nil || r.complaint.PublicID != publicID {
		return nil, gorm.ErrRecordNotFound
	}
	return r.complaint, nil
}

func (r *fakeComplaintRepo) GetAll(ctx context.Context) ([]models.Complaint, error) { return nil, nil }

func (r *fakeComplaintRepo) ListOpen(ctx context.Context) ([]models.Complaint, error) {
	return nil, nil
}

func (r *fakeComplaintRepo) CommitStatus(ctx context.Context, c *models.Complaint, next status.ComplaintStatus, actor string) error {
	r.commits = append(r.commits, next)
	c.Status = next
	c.StatusHistory = append(c.StatusHistory, models.ComplaintStatusEvent{ComplaintID: c.ID, Status: next, Actor: actor})
	return nil
}

func (r *fakeComplaintRepo) UpdateDetails(ctx context.Context, complaintID uint, reviews []repository.DetailReview) error {
	return nil
}

func (r *fakeComplaintRepo) SetDeliveryCode(ctx context.Context, c *models.Complaint, code string) error {
	if c.DeliveryCode != "" {
		return fmt.Errorf("delivery code is already set")
	}
	c.DeliveryCode = code
	r.codes = append(r.codes, code)
	return nil
}

func (r *fakeComplaintRepo) SetEvidence(ctx context.Context, c *models.Complaint, videoURL string) error {
	c.VideoURL = videoURL
	return nil
}

func (r *fakeComplaintRepo) SetReason(ctx context.Context, c *models.Complaint, reason string) error {
	c.Reason = reason
	r.reasons = append(r.reasons, reason)
	return nil
}

type fakePayments struct {
	captures []payment.CaptureRequest
	err      error
}

func (p *fakePayments) Capture(ctx context.Context, req payment.CaptureRequest) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	p.captures = append(p.captures, req)
	return fmt.Sprintf("tx-%d", len(p.captures)), nil
}

type fakeShipper struct {
	requests []shipping.CreateOrderRequest
	code     string
	err      error
}

func (s *fakeShipper) CreateOrder(ctx context.Context, req shipping.CreateOrderRequest) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.requests = append(s.requests, req)
	return s.code, nil
}

type fakeRenderer struct {
	renders []contractgen.RenderRequest
	err     error
}

func (r *fakeRenderer) Render(ctx context.Context, req contractgen.RenderRequest) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	r.renders = append(r.renders, req)
	return fmt.Sprintf("https://files.example.com/contracts/%s-%d.pdf", req.OrderRef, req.Cycle), nil
}

type fakePublisher struct {
	published int
	err       error
}

func (p *fakePublisher) Publish(ctx context.Context) error {
	if p.err != nil {
		return p.err
	}
	p.published++
	return nil
}
