package orchestrator

import (
	"context"

	"design_portal/internal/effects"
	"design_portal/pkg/contractgen"
	"design_portal/pkg/payment"
	"design_portal/pkg/shipping"
)

// PaymentGateway captures wallet payments. Captures are non-idempotent, so
// the orchestrator never retries one on its own.
type PaymentGateway interface {
	Capture(ctx context.Context, req payment.CaptureRequest) (string, error)
}

// ShippingGateway registers carrier shipments.
type ShippingGateway interface {
	CreateOrder(ctx context.Context, req shipping.CreateOrderRequest) (string, error)
}

// ContractRenderer produces contract documents.
type ContractRenderer interface {
	Render(ctx context.Context, req contractgen.RenderRequest) (string, error)
}

// Publisher broadcasts the opaque "re-sync now" signal after a commit.
type Publisher interface {
	Publish(ctx context.Context) error
}

// Result reports what one transition did: the per-step outcomes in execution
// order and any non-fatal warnings that require manual follow-up.
type Result struct {
	Outcomes []effects.Outcome `json:"outcomes"`
	Warnings []string          `json:"warnings,omitempty"`
}

func buildResult(outcomes []effects.Outcome, warns []*effects.InconsistentStateWarning) *Result {
	res := &Result{Outcomes: outcomes}
	for _, w := range warns {
		res.Warnings = append(res.Warnings, w.Error())
	}
	return res
}
