package lifecycle

import (
	"strings"

	"design_portal/internal/models"
	"design_portal/internal/status"
)

// Rules are the externally configured lifecycle tunables.
type Rules struct {
	DepositPercent         int // percent of design price due at deposit
	CancellationFeePercent int // percent of design price due on late cancel
	RevisionCap            int // max re-sketch/re-design rounds
}

// Evaluator validates transitions against the graph, the actor role and the
// entity snapshot. All checks are pure; the evaluator performs no I/O.
type Evaluator struct {
	rules Rules
}

func NewEvaluator(rules Rules) *Evaluator {
	return &Evaluator{rules: rules}
}

// OrderTransitionRequest is one requested order transition plus everything
// the guards need to judge it.
type OrderTransitionRequest struct {
	Order     *models.ServiceOrder
	Requested status.OrderStatus
	Actor     Actor
	Reason    string

	// WalletBalance is the freshest known customer balance in VND.
	WalletBalance int64

	// Precheck marks the validation pass that runs before any side effect.
	// Payment-bearing edges then require a sufficient balance instead of a
	// completed capture.
	Precheck         bool
	PaymentConfirmed bool
	FeeConfirmed     bool
}

// DepositAmount is the deposit due on signing, in VND.
func (e *Evaluator) DepositAmount(o *models.ServiceOrder) int64 {
	if o.DesignPrice == nil {
		return 0
	}
	return *o.DesignPrice * int64(e.rules.DepositPercent) / 100
}

// FinalAmount is the remaining design fee plus material price, in VND.
func (e *Evaluator) FinalAmount(o *models.ServiceOrder) int64 {
	var total int64
	if o.DesignPrice != nil {
		total += *o.DesignPrice - e.DepositAmount(o)
	}
	if o.MaterialPrice != nil {
		total += *o.MaterialPrice
	}
	return total
}

// CancellationFee is the fee due when cancelling once the revision cap has
// been reached; zero otherwise.
func (e *Evaluator) CancellationFee(o *models.ServiceOrder) int64 {
	if o.RevisionRounds() < e.rules.RevisionCap || o.DesignPrice == nil {
		return 0
	}
	return *o.DesignPrice * int64(e.rules.CancellationFeePercent) / 100
}

// CheckOrder decides whether the requested order transition is permitted.
// Returns nil when allowed, *ValidationError or *InsufficientFundsError when
// not.
func (e *Evaluator) CheckOrder(req OrderTransitionRequest) error {
	o := req.Order
	if o == nil {
		return validation("order", "missing order snapshot")
	}
	if !req.Requested.Valid() {
		return validation("status", "unknown requested status")
	}
	if !req.Actor.Valid() {
		return validation("actor", "unknown actor role")
	}
	if !OrderEdgeAllowed(o.Status, req.Requested) {
		return validation("status", "transition %s -> %s is not allowed", o.Status, req.Requested)
	}
	if !orderActorAllowed(o.Status, req.Requested, req.Actor) {
		return validation("actor", "role %s may not perform %s -> %s", req.Actor, o.Status, req.Requested)
	}

	switch req.Requested {
	case status.OrderCancelled, status.OrderStopService:
		if strings.TrimSpace(req.Reason) == "" {
			return validation("reason", "a reason is required to cancel or stop an order")
		}
	case status.OrderReConsultingAndSketching, status.OrderReDesign:
		if o.RevisionRounds() >= e.rules.RevisionCap {
			return validation("revisions", "revision cap of %d rounds reached", e.rules.RevisionCap)
		}
	}

	// Payment-coupled edges: on the precheck pass the wallet must cover the
	// amount; on the commit pass the capture must already have succeeded.
	switch req.Requested {
	case status.OrderDepositSuccessful:
		if o.DesignPrice == nil {
			return validation("design_price", "design price has not been determined")
		}
		if err := e.checkPayment(req, e.DepositAmount(o), req.PaymentConfirmed); err != nil {
			return err
		}
	case status.OrderPaymentSuccess:
		if o.DesignPrice == nil || o.MaterialPrice == nil {
			return validation("pricing", "design and material prices must be determined")
		}
		if err := e.checkPayment(req, e.FinalAmount(o), req.PaymentConfirmed); err != nil {
			return err
		}
	case status.OrderCancelled:
		if fee := e.CancellationFee(o); fee > 0 {
			if err := e.checkPayment(req, fee, req.FeeConfirmed); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Evaluator) checkPayment(req OrderTransitionRequest, amount int64, confirmed bool) error {
	if req.Precheck {
		return e.CheckFunds(req.WalletBalance, amount)
	}
	if !confirmed {
		return validation("payment", "payment of %d VND has not been captured", amount)
	}
	return nil
}

// CheckFunds rejects with the exact shortfall when the balance cannot cover
// the required amount.
func (e *Evaluator) CheckFunds(available, required int64) error {
	if available < required {
		return &InsufficientFundsError{Required: required, Available: available}
	}
	return nil
}

// customer-driven order edges; everything else is staff work.
func orderActorAllowed(from, to status.OrderStatus, actor Actor) bool {
	switch to {
	case status.OrderCancelled:
		return true
	case status.OrderStopService:
		return actor != ActorCustomer
	case status.OrderReConsultingAndSketching, status.OrderReDesign,
		status.OrderWaitDeposit, status.OrderDepositSuccessful, status.OrderPaymentSuccess:
		return actor == ActorCustomer
	}
	return actor != ActorCustomer
}

// ComplaintTransitionRequest is one requested complaint transition plus the
// evidence the guards inspect.
type ComplaintTransitionRequest struct {
	Complaint *models.Complaint
	Requested status.ComplaintStatus
	Actor     Actor
	Reason    string
	Precheck  bool
}

// CheckComplaint decides whether the requested complaint transition is
// permitted for the complaint's variant.
func (e *Evaluator) CheckComplaint(req ComplaintTransitionRequest) error {
	c := req.Complaint
	if c == nil {
		return validation("complaint", "missing complaint snapshot")
	}
	if !c.ComplaintType.Valid() {
		return validation("complaint_type", "unknown complaint type %q", string(c.ComplaintType))
	}
	if !req.Requested.Valid() {
		return validation("status", "unknown requested status")
	}
	if !req.Actor.Valid() {
		return validation("actor", "unknown actor role")
	}
	if req.Actor == ActorCustomer {
		return validation("actor", "complaint triage is a staff operation")
	}
	if !ComplaintEdgeAllowed(c.ComplaintType, c.Status, req.Requested) {
		return validation("status", "transition %s -> %s is not allowed for %s complaints",
			c.Status, req.Requested, c.ComplaintType)
	}

	switch req.Requested {
	case status.ComplaintRejected:
		if strings.TrimSpace(req.Reason) == "" {
			return validation("reason", "a reason is required to reject a complaint")
		}
	case status.ComplaintApproved:
		if !c.AllDetailsReviewed() {
			return validation("complaint_details", "every line item must be accepted or rejected with a reason")
		}
		if len(c.RejectedDetails()) > 0 && strings.TrimSpace(req.Reason) == "" {
			return validation("reason", "an aggregate reason is required when line items are rejected")
		}
	case status.ComplaintRefunded:
		if req.Actor != ActorManager {
			return validation("actor", "refund payout requires manager confirmation")
		}
	}

	// Leaving the warehouse-inspection stage requires evidentiary video.
	if c.Status == status.ComplaintItemArrivedAtWarehouse && strings.TrimSpace(c.VideoURL) == "" {
		return validation("video_url", "an evidentiary video is required before the warehouse inspection concludes")
	}

	// A product return cannot leave Processing until the carrier accepted it.
	if c.ComplaintType == models.ComplaintProductReturn &&
		c.Status == status.ComplaintProcessing && c.DeliveryCode == "" {
		return validation("delivery_code", "a shipping order must exist before the return is dispatched")
	}

	if req.Requested == status.ComplaintProcessing && !c.AllDetailsReviewed() {
		return validation("complaint_details", "every line item must be accepted or rejected with a reason")
	}
	return nil
}

// AggregateRejectionReason derives the human-readable reason template from
// the rejected line items. Used to pre-populate, never to override, a
// manually edited reason.
func AggregateRejectionReason(c *models.Complaint) string {
	rejected := c.RejectedDetails()
	if len(rejected) == 0 {
		return ""
	}
	names := make([]string, 0, len(rejected))
	for _, d := range rejected {
		names = append(names, d.ProductName)
	}
	return "Các sản phẩm bị từ chối: " + strings.Join(names, ", ")
}
