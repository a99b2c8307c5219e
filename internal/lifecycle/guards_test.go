package lifecycle

import (
	"errors"
	"testing"

	"design_portal/internal/models"
	"design_portal/internal/status"
)

func newEvaluator() *Evaluator {
	return NewEvaluator(Rules{
		DepositPercent:         50,
		CancellationFeePercent: 50,
		RevisionCap:            3,
	})
}

func orderAt(st status.OrderStatus) *models.ServiceOrder {
	designPrice := int64(6_000_000)
	return &models.ServiceOrder{
		ID:          1,
		PublicID:    "ord-1",
		Status:      st,
		DesignPrice: &designPrice,
	}
}

func boolp(b bool) *bool { return &b }

func TestCheckOrder_IllegalEdgeRejected(t *testing.T) {
	e := newEvaluator()
	err := e.CheckOrder(OrderTransitionRequest{
		Order:     orderAt(status.OrderPending),
		Requested: status.OrderWaitDeposit,
		Actor:     ActorStaff,
		Precheck:  true,
	})
	if !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCheckOrder_CancelRequiresReason(t *testing.T) {
	e := newEvaluator()
	req := OrderTransitionRequest{
		Order:     orderAt(status.OrderConsultingAndSketching),
		Requested: status.OrderCancelled,
		Actor:     ActorCustomer,
		Precheck:  true,
	}
	if err := e.CheckOrder(req); !IsValidation(err) {
		t.Fatalf("expected validation error without reason, got %v", err)
	}
	req.Reason = "changed my mind"
	if err := e.CheckOrder(req); err != nil {
		t.Fatalf("expected cancel with reason to pass, got %v", err)
	}
}

func TestCheckOrder_RevisionCap(t *testing.T) {
	e := newEvaluator()
	o := orderAt(status.OrderConsultingAndSketching)
	o.SketchRounds = 2
	req := OrderTransitionRequest{
		Order:     o,
		Requested: status.OrderReConsultingAndSketching,
		Actor:     ActorCustomer,
		Precheck:  true,
	}
	if err := e.CheckOrder(req); err != nil {
		t.Fatalf("round 3 should be allowed, got %v", err)
	}
	o.SketchRounds = 3
	if err := e.CheckOrder(req); !IsValidation(err) {
		t.Fatalf("round 4 should hit the cap, got %v", err)
	}
}

func TestCheckOrder_CancellationFeeBoundary(t *testing.T) {
	e := newEvaluator()

	// below the cap: no fee, wallet state irrelevant
	o := orderAt(status.OrderDoneDesign)
	o.DesignRounds = 2
	if fee := e.CancellationFee(o); fee != 0 {
		t.Fatalf("no fee expected below the cap, got %d", fee)
	}

	// at the cap: half the design price is due
	o.DesignRounds = 3
	if fee := e.CancellationFee(o); fee != 3_000_000 {
		t.Fatalf("fee at the cap: got %d, want 3000000", fee)
	}

	req := OrderTransitionRequest{
		Order:         o,
		Requested:     status.OrderCancelled,
		Actor:         ActorCustomer,
		Reason:        "too many rounds",
		WalletBalance: 1_000_000,
		Precheck:      true,
	}
	err := e.CheckOrder(req)
	var fe *InsufficientFundsError
	if !errors.As(err, &fe) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}
	if fe.Shortfall() != 2_000_000 {
		t.Fatalf("shortfall: got %d, want 2000000", fe.Shortfall())
	}

	req.WalletBalance = 4_000_000
	if err := e.CheckOrder(req); err != nil {
		t.Fatalf("funded cancel should pass precheck, got %v", err)
	}
}

func TestCheckOrder_DepositNeedsFundsThenCapture(t *testing.T) {
	e := newEvaluator()
	o := orderAt(status.OrderWaitDeposit)

	// precheck pass judges the wallet
	req := OrderTransitionRequest{
		Order:         o,
		Requested:     status.OrderDepositSuccessful,
		Actor:         ActorCustomer,
		WalletBalance: 1_000_000,
		Precheck:      true,
	}
	if err := e.CheckOrder(req); !IsInsufficientFunds(err) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}
	req.WalletBalance = 5_000_000
	if err := e.CheckOrder(req); err != nil {
		t.Fatalf("funded deposit precheck should pass, got %v", err)
	}

	// commit pass requires the capture to have happened
	req.Precheck = false
	if err := e.CheckOrder(req); !IsValidation(err) {
		t.Fatalf("uncaptured commit should fail, got %v", err)
	}
	req.PaymentConfirmed = true
	if err := e.CheckOrder(req); err != nil {
		t.Fatalf("captured commit should pass, got %v", err)
	}
}

func TestCheckOrder_FinalPaymentAmount(t *testing.T) {
	e := newEvaluator()
	o := orderAt(status.OrderDoneDeterminingMaterialPrice)
	material := int64(4_000_000)
	o.MaterialPrice = &material

	// remaining 50% of design fee plus material price
	if amt := e.FinalAmount(o); amt != 7_000_000 {
		t.Fatalf("final amount: got %d, want 7000000", amt)
	}

	err := e.CheckOrder(OrderTransitionRequest{
		Order:         o,
		Requested:     status.OrderPaymentSuccess,
		Actor:         ActorCustomer,
		WalletBalance: 6_999_999,
		Precheck:      true,
	})
	if !IsInsufficientFunds(err) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}
}

func TestCheckOrder_ActorRoles(t *testing.T) {
	e := newEvaluator()

	// sketch selection is the customer's call
	err := e.CheckOrder(OrderTransitionRequest{
		Order:     orderAt(status.OrderDoneDeterminingDesignPrice),
		Requested: status.OrderWaitDeposit,
		Actor:     ActorStaff,
		Precheck:  true,
	})
	if !IsValidation(err) {
		t.Fatalf("staff must not select sketches, got %v", err)
	}

	// customers do not drive production
	err = e.CheckOrder(OrderTransitionRequest{
		Order:     orderAt(status.OrderPaymentSuccess),
		Requested: status.OrderProcessing,
		Actor:     ActorCustomer,
		Precheck:  true,
	})
	if !IsValidation(err) {
		t.Fatalf("customer must not start processing, got %v", err)
	}
}

func complaintAt(typ models.ComplaintType, st status.ComplaintStatus) *models.Complaint {
	return &models.Complaint{
		ID:            1,
		PublicID:      "cmp-1",
		ComplaintType: typ,
		Status:        st,
		Details: []models.ComplaintDetail{
			{ID: 1, ProductID: "p1", ProductName: "Đèn gỗ", Quantity: 1},
			{ID: 2, ProductID: "p2", ProductName: "Kệ sách", Quantity: 2},
		},
	}
}

func TestCheckComplaint_RejectNeedsReason(t *testing.T) {
	e := newEvaluator()
	req := ComplaintTransitionRequest{
		Complaint: complaintAt(models.ComplaintRefund, status.ComplaintPending),
		Requested: status.ComplaintRejected,
		Actor:     ActorStaff,
		Precheck:  true,
	}
	if err := e.CheckComplaint(req); !IsValidation(err) {
		t.Fatalf("expected validation error without reason, got %v", err)
	}
	req.Reason = "ngoài phạm vi bảo hành"
	if err := e.CheckComplaint(req); err != nil {
		t.Fatalf("reject with reason should pass, got %v", err)
	}
}

func TestCheckComplaint_ApproveRequiresFullReview(t *testing.T) {
	e := newEvaluator()
	c := complaintAt(models.ComplaintRefund, status.ComplaintPending)
	req := ComplaintTransitionRequest{
		Complaint: c,
		Requested: status.ComplaintApproved,
		Actor:     ActorStaff,
		Reason:    "hợp lệ",
		Precheck:  true,
	}

	// unreviewed line item blocks approval
	if err := e.CheckComplaint(req); !IsValidation(err) {
		t.Fatalf("unreviewed item must block approval, got %v", err)
	}

	// rejection without a per-item reason still blocks
	c.Details[0].IsCheck = boolp(true)
	c.Details[1].IsCheck = boolp(false)
	if err := e.CheckComplaint(req); !IsValidation(err) {
		t.Fatalf("rejected item without reason must block, got %v", err)
	}

	c.Details[1].Description = "không đúng sản phẩm khiếu nại"
	if err := e.CheckComplaint(req); err != nil {
		t.Fatalf("fully reviewed approval should pass, got %v", err)
	}
}

func TestCheckComplaint_WarehouseExitNeedsVideo(t *testing.T) {
	e := newEvaluator()
	c := complaintAt(models.ComplaintProductReturn, status.ComplaintItemArrivedAtWarehouse)
	c.Details[0].IsCheck = boolp(true)
	c.Details[1].IsCheck = boolp(true)
	req := ComplaintTransitionRequest{
		Complaint: c,
		Requested: status.ComplaintProcessing,
		Actor:     ActorStaff,
		Precheck:  true,
	}
	if err := e.CheckComplaint(req); !IsValidation(err) {
		t.Fatalf("expected video requirement, got %v", err)
	}
	c.VideoURL = "https://cdn.example.com/evidence/cmp-1.mp4"
	if err := e.CheckComplaint(req); err != nil {
		t.Fatalf("with video should pass, got %v", err)
	}
}

func TestCheckComplaint_ReturnCannotLeaveProcessingWithoutShipment(t *testing.T) {
	e := newEvaluator()
	c := complaintAt(models.ComplaintProductReturn, status.ComplaintProcessing)
	c.Details[0].IsCheck = boolp(true)
	c.Details[1].IsCheck = boolp(true)
	c.VideoURL = "https://cdn.example.com/evidence/cmp-1.mp4"
	req := ComplaintTransitionRequest{
		Complaint: c,
		Requested: status.ComplaintDelivery,
		Actor:     ActorStaff,
		Precheck:  true,
	}
	if err := e.CheckComplaint(req); !IsValidation(err) {
		t.Fatalf("expected delivery code requirement, got %v", err)
	}
	c.DeliveryCode = "GHN-123456"
	if err := e.CheckComplaint(req); err != nil {
		t.Fatalf("with delivery code should pass, got %v", err)
	}
}

func TestCheckComplaint_RefundPayoutNeedsManager(t *testing.T) {
	e := newEvaluator()
	c := complaintAt(models.ComplaintRefund, status.ComplaintProcessing)
	c.Details[0].IsCheck = boolp(true)
	c.Details[1].IsCheck = boolp(true)
	c.VideoURL = "https://cdn.example.com/evidence/cmp-1.mp4"
	req := ComplaintTransitionRequest{
		Complaint: c,
		Requested: status.ComplaintRefunded,
		Actor:     ActorStaff,
		Precheck:  true,
	}
	if err := e.CheckComplaint(req); !IsValidation(err) {
		t.Fatalf("staff must not confirm payouts, got %v", err)
	}
	req.Actor = ActorManager
	if err := e.CheckComplaint(req); err != nil {
		t.Fatalf("manager payout should pass, got %v", err)
	}
}

func TestCheckComplaint_CustomerCannotTriage(t *testing.T) {
	e := newEvaluator()
	err := e.CheckComplaint(ComplaintTransitionRequest{
		Complaint: complaintAt(models.ComplaintRefund, status.ComplaintPending),
		Requested: status.ComplaintApproved,
		Actor:     ActorCustomer,
		Precheck:  true,
	})
	if !IsValidation(err) {
		t.Fatalf("customer triage must be rejected, got %v", err)
	}
}

func TestAggregateRejectionReason(t *testing.T) {
	c := complaintAt(models.ComplaintRefund, status.ComplaintPending)
	if got := AggregateRejectionReason(c); got != "" {
		t.Fatalf("no rejected items should derive empty reason, got %q", got)
	}
	c.Details[0].IsCheck = boolp(false)
	c.Details[0].Description = "lý do 1"
	c.Details[1].IsCheck = boolp(false)
	c.Details[1].Description = "lý do 2"
	got := AggregateRejectionReason(c)
	want := "Các sản phẩm bị từ chối: Đèn gỗ, Kệ sách"
	if got != want {
		t.Fatalf("aggregate reason: got %q, want %q", got, want)
	}
}
