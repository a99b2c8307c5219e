package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"design_portal/internal/effects"
	"design_portal/internal/lifecycle"
	"design_portal/internal/models"
	"design_portal/internal/repository"
	"design_portal/internal/status"
	"design_portal/internal/store"
	"design_portal/pkg/shipping"
)

// ComplaintInput carries the user-supplied pieces of a complaint transition.
type ComplaintInput struct {
	Reason string
}

// ComplaintOrchestrator runs complaint transitions for both variants.
type ComplaintOrchestrator struct {
	complaints repository.ComplaintRepository
	shipper    ShippingGateway
	store      *store.Store
	publisher  Publisher
	eval       *lifecycle.Evaluator
}

func NewComplaintOrchestrator(
	complaints repository.ComplaintRepository,
	shipper ShippingGateway,
	st *store.Store,
	publisher Publisher,
	eval *lifecycle.Evaluator,
) *ComplaintOrchestrator {
	return &ComplaintOrchestrator{
		complaints: complaints,
		shipper:    shipper,
		store:      st,
		publisher:  publisher,
		eval:       eval,
	}
}

// Transition validates and applies one complaint transition. For an approval
// with rejected line items and no manually edited reason, the aggregate
// reason template is derived from the rejected product names; a caller-
// supplied reason is never overridden.
func (c *ComplaintOrchestrator) Transition(
	ctx context.Context,
	publicID string,
	requested status.ComplaintStatus,
	actor lifecycle.Actor,
	input ComplaintInput,
) (*models.Complaint, *Result, error) {
	key := store.Key{Kind: store.KindComplaint, ID: publicID}
	if !c.store.BeginFlight(key) {
		return nil, nil, &lifecycle.ValidationError{Field: "complaint", Reason: "another transition is already in progress"}
	}
	defer c.store.EndFlight(key)

	complaint, err := c.complaints.GetByPublicID(ctx, publicID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch complaint %s: %w", publicID, err)
	}

	reason := strings.TrimSpace(input.Reason)
	if reason == "" && requested == status.ComplaintApproved {
		reason = lifecycle.AggregateRejectionReason(complaint)
	}

	req := lifecycle.ComplaintTransitionRequest{
		Complaint: complaint,
		Requested: requested,
		Actor:     actor,
		Reason:    reason,
		Precheck:  true,
	}
	if err := c.eval.CheckComplaint(req); err != nil {
		return complaint, nil, err
	}

	var steps []effects.Step

	// A product return enters Processing only once the carrier accepted the
	// shipment of the approved items and issued a tracking code.
	if requested == status.ComplaintProcessing && complaint.ComplaintType == models.ComplaintProductReturn {
		steps = append(steps, c.createShippingOrderStep(complaint))
	}

	if reason != "" && (requested == status.ComplaintRejected || requested == status.ComplaintApproved) {
		steps = append(steps, c.recordReasonStep(complaint, reason))
	}

	steps = append(steps, c.commitStep(complaint, requested, actor, reason, key))
	steps = append(steps, c.publishStep())

	outcomes, warns, runErr := effects.New(steps...).Run(ctx)
	result := buildResult(outcomes, warns)
	if runErr != nil {
		return complaint, result, runErr
	}
	return complaint, result, nil
}

func (c *ComplaintOrchestrator) createShippingOrderStep(complaint *models.Complaint) effects.Step {
	return effects.Step{
		Name: "create shipping order",
		Run: func(ctx context.Context) (string, error) {
			if complaint.DeliveryCode != "" {
				return fmt.Sprintf("shipping order %s already exists", complaint.DeliveryCode), nil
			}
			accepted := complaint.AcceptedDetails()
			if len(accepted) == 0 {
				return "", &lifecycle.ValidationError{Field: "complaint_details", Reason: "no accepted line items to ship"}
			}
			items := make([]shipping.Item, 0, len(accepted))
			for _, d := range accepted {
				items = append(items, shipping.Item{
					ProductID:   d.ProductID,
					ProductName: d.ProductName,
					Quantity:    d.Quantity,
				})
			}
			code, err := c.shipper.CreateOrder(ctx, shipping.CreateOrderRequest{
				Reference:     complaint.Ref(),
				ReceiverName:  complaint.Order.Customer.FullName,
				ReceiverPhone: complaint.Order.Customer.PhoneNumber,
				Address:       "", // the carrier resolves the customer's registered address
				Items:         items,
			})
			if err != nil {
				return "", err
			}
			if err := c.complaints.SetDeliveryCode(ctx, complaint, code); err != nil {
				return "", err
			}
			return fmt.Sprintf("shipping order %s created", code), nil
		},
	}
}

func (c *ComplaintOrchestrator) recordReasonStep(complaint *models.Complaint, reason string) effects.Step {
	return effects.Step{
		Name: "record reason",
		Run: func(ctx context.Context) (string, error) {
			if err := c.complaints.SetReason(ctx, complaint, reason); err != nil {
				return "", err
			}
			return "reason recorded", nil
		},
	}
}

func (c *ComplaintOrchestrator) commitStep(
	complaint *models.Complaint,
	requested status.ComplaintStatus,
	actor lifecycle.Actor,
	reason string,
	key store.Key,
) effects.Step {
	return effects.Step{
		Name: "commit status",
		Run: func(ctx context.Context) (string, error) {
			err := c.eval.CheckComplaint(lifecycle.ComplaintTransitionRequest{
				Complaint: complaint,
				Requested: requested,
				Actor:     actor,
				Reason:    reason,
			})
			if err != nil {
				return "", err
			}
			if err := c.complaints.CommitStatus(ctx, complaint, requested, string(actor)); err != nil {
				return "", err
			}
			c.store.ApplyOptimistic(key, snapshotComplaint(complaint))
			return fmt.Sprintf("complaint advanced to %s", requested), nil
		},
	}
}

func (c *ComplaintOrchestrator) publishStep() effects.Step {
	return effects.Step{
		Name:     "publish invalidation",
		WarnOnly: true,
		Run: func(ctx context.Context) (string, error) {
			if err := c.publisher.Publish(ctx); err != nil {
				return "", err
			}
			return "sync signal published", nil
		},
	}
}

func snapshotComplaint(complaint *models.Complaint) *models.Complaint {
	cp := *complaint
	return &cp
}
