package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"design_portal/internal/effects"
	"design_portal/internal/lifecycle"
	"design_portal/internal/models"
	"design_portal/internal/repository"
	"design_portal/internal/status"
	"design_portal/internal/store"
	"design_portal/pkg/contractgen"
	"design_portal/pkg/payment"
)

// OrderInput carries the user-supplied pieces of an order transition.
type OrderInput struct {
	Reason       string
	SignatureURL string
}

// OrderOrchestrator runs order transitions: guard checks, the ordered side
// effects of the edge, the status commit with history append, optimistic
// store updates and the invalidation broadcast.
type OrderOrchestrator struct {
	orders    repository.OrderRepository
	contracts repository.ContractRepository
	tasks     repository.WorkTaskRepository
	customers repository.CustomerRepository
	payments  PaymentGateway
	renderer  ContractRenderer
	store     *store.Store
	publisher Publisher
	eval      *lifecycle.Evaluator
}

func NewOrderOrchestrator(
	orders repository.OrderRepository,
	contracts repository.ContractRepository,
	tasks repository.WorkTaskRepository,
	customers repository.CustomerRepository,
	payments PaymentGateway,
	renderer ContractRenderer,
	st *store.Store,
	publisher Publisher,
	eval *lifecycle.Evaluator,
) *OrderOrchestrator {
	return &OrderOrchestrator{
		orders:    orders,
		contracts: contracts,
		tasks:     tasks,
		customers: customers,
		payments:  payments,
		renderer:  renderer,
		store:     st,
		publisher: publisher,
		eval:      eval,
	}
}

// WalletCheck previews the payment a transition would capture, so the UI can
// warn about insufficient funds before opening the signing or payment dialog.
type WalletCheck struct {
	Required   int64 `json:"required"`
	Available  int64 `json:"available"`
	Sufficient bool  `json:"sufficient"`
	Shortfall  int64 `json:"shortfall,omitempty"`
}

func (o *OrderOrchestrator) CheckWallet(ctx context.Context, publicID string, requested status.OrderStatus) (*WalletCheck, error) {
	order, err := o.orders.GetByPublicID(ctx, publicID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order %s: %w", publicID, err)
	}
	var required int64
	switch requested {
	case status.OrderDepositSuccessful:
		required = o.eval.DepositAmount(order)
	case status.OrderPaymentSuccess:
		required = o.eval.FinalAmount(order)
	case status.OrderCancelled:
		required = o.eval.CancellationFee(order)
	default:
		return nil, &lifecycle.ValidationError{Field: "status", Reason: "no payment is due for this transition"}
	}
	check := &WalletCheck{Required: required, Available: order.Customer.WalletBalance}
	check.Sufficient = check.Available >= required
	if !check.Sufficient {
		check.Shortfall = required - check.Available
	}
	return check, nil
}

// taskSyncTargets maps an order status to the work-task status that must
// follow it in lock-step.
var taskSyncTargets = map[status.OrderStatus]status.WorkTaskStatus{
	status.OrderConsultingAndSketching:   status.TaskConsultingAndSketch,
	status.OrderReConsultingAndSketching: status.TaskConsultingAndSketch,
	status.OrderDeterminingDesignPrice:   status.TaskDoneConsulting,
	status.OrderDepositSuccessful:        status.TaskDesign,
	status.OrderReDesign:                 status.TaskDesign,
	status.OrderDoneDesign:               status.TaskDoneDesign,
}

// Transition validates and applies one order transition. The entity is
// refetched first so the guard judges the freshest known status; completed
// side effects stay in place on a later failure and are reported in Result.
func (o *OrderOrchestrator) Transition(
	ctx context.Context,
	publicID string,
	requested status.OrderStatus,
	actor lifecycle.Actor,
	input OrderInput,
) (*models.ServiceOrder, *Result, error) {
	key := store.Key{Kind: store.KindOrder, ID: publicID}
	if !o.store.BeginFlight(key) {
		return nil, nil, &lifecycle.ValidationError{Field: "order", Reason: "another transition is already in progress"}
	}
	defer o.store.EndFlight(key)

	order, err := o.orders.GetByPublicID(ctx, publicID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch order %s: %w", publicID, err)
	}

	req := lifecycle.OrderTransitionRequest{
		Order:         order,
		Requested:     requested,
		Actor:         actor,
		Reason:        input.Reason,
		WalletBalance: order.Customer.WalletBalance,
		Precheck:      true,
	}
	if err := o.eval.CheckOrder(req); err != nil {
		return order, nil, err
	}

	pipeline, err := o.buildPipeline(order, requested, actor, input, key)
	if err != nil {
		return order, nil, err
	}

	outcomes, warns, runErr := pipeline.Run(ctx)
	result := buildResult(outcomes, warns)
	if runErr != nil {
		return order, result, runErr
	}
	return order, result, nil
}

func (o *OrderOrchestrator) buildPipeline(
	order *models.ServiceOrder,
	requested status.OrderStatus,
	actor lifecycle.Actor,
	input OrderInput,
	key store.Key,
) (*effects.Pipeline, error) {
	var steps []effects.Step

	switch requested {
	case status.OrderWaitDeposit:
		steps = append(steps, o.generateContractStep(order))

	case status.OrderDepositSuccessful:
		if strings.TrimSpace(input.SignatureURL) == "" {
			return nil, &lifecycle.ValidationError{Field: "signature_url", Reason: "a signature is required to sign the contract"}
		}
		steps = append(steps,
			o.captureStep("capture deposit", order, o.eval.DepositAmount(order), "deposit for order "+order.PublicID),
			o.recordSignatureStep(order, input.SignatureURL),
		)

	case status.OrderPaymentSuccess:
		steps = append(steps,
			o.captureStep("capture final payment", order, o.eval.FinalAmount(order), "final payment for order "+order.PublicID),
		)

	case status.OrderCancelled:
		if fee := o.eval.CancellationFee(order); fee > 0 {
			steps = append(steps,
				o.captureStep("capture cancellation fee", order, fee, "cancellation fee for order "+order.PublicID),
			)
		}

	}

	steps = append(steps, o.commitStep(order, requested, actor, input, key))

	// The round is recorded once the re-work transition has committed.
	if requested == status.OrderReConsultingAndSketching || requested == status.OrderReDesign {
		steps = append(steps, o.bumpRevisionStep(order, requested))
	}

	if _, ok := taskSyncTargets[requested]; ok {
		steps = append(steps, o.syncWorkTaskStep(order, requested))
	}
	steps = append(steps, o.publishStep())
	return effects.New(steps...), nil
}

// generateContractStep synthesizes the current cycle's contract. Idempotent:
// an existing unsigned contract is returned as-is, never duplicated.
func (o *OrderOrchestrator) generateContractStep(order *models.ServiceOrder) effects.Step {
	return effects.Step{
		Name: "generate contract",
		Run: func(ctx context.Context) (string, error) {
			cycle := signedCycles(order) + 1
			if existing, err := o.contracts.GetUnsigned(ctx, order.ID, cycle); err == nil {
				return fmt.Sprintf("unsigned contract #%d already exists", existing.ID), nil
			}
			if order.DesignPrice == nil {
				return "", &lifecycle.ValidationError{Field: "design_price", Reason: "design price has not been determined"}
			}

			items := make([]contractgen.LineItem, 0, len(order.Details))
			for _, d := range order.Details {
				items = append(items, contractgen.LineItem{
					ProductName: d.ProductName,
					Quantity:    d.Quantity,
					UnitPrice:   d.UnitPrice,
				})
			}
			url, err := o.renderer.Render(ctx, contractgen.RenderRequest{
				OrderRef:      order.PublicID,
				Cycle:         cycle,
				CustomerName:  order.Customer.FullName,
				CustomerEmail: order.Customer.Email,
				DesignPrice:   *order.DesignPrice,
				DepositAmount: o.eval.DepositAmount(order),
				Items:         items,
			})
			if err != nil {
				return "", err
			}
			contract := &models.Contract{OrderID: order.ID, Cycle: cycle, Description: url}
			if err := o.contracts.Create(ctx, contract); err != nil {
				return "", err
			}
			order.Contracts = append(order.Contracts, *contract)
			return fmt.Sprintf("contract #%d rendered at %s", contract.ID, url), nil
		},
	}
}

func (o *OrderOrchestrator) captureStep(name string, order *models.ServiceOrder, amount int64, description string) effects.Step {
	return effects.Step{
		Name: name,
		Run: func(ctx context.Context) (string, error) {
			// Re-check the balance snapshot right before the call; the
			// gateway still has the final word.
			if err := o.eval.CheckFunds(order.Customer.WalletBalance, amount); err != nil {
				return "", err
			}
			txID, err := o.payments.Capture(ctx, payment.CaptureRequest{
				WalletID:       order.Customer.WalletID,
				OrderRef:       order.PublicID,
				Amount:         amount,
				Description:    description,
				IdempotencyKey: uuid.NewString(),
			})
			if err != nil {
				if isInsufficientBalance(err) {
					return "", &lifecycle.InsufficientFundsError{
						Required:  amount,
						Available: order.Customer.WalletBalance,
					}
				}
				return "", err
			}
			if err := o.customers.AdjustWalletBalance(ctx, &order.Customer, -amount); err != nil {
				// the capture itself is durable; the stale snapshot heals on
				// the next reconcile
				return fmt.Sprintf("captured %d VND (tx %s), balance snapshot stale", amount, txID), nil
			}
			return fmt.Sprintf("captured %d VND (tx %s)", amount, txID), nil
		},
	}
}

func (o *OrderOrchestrator) recordSignatureStep(order *models.ServiceOrder, signatureURL string) effects.Step {
	return effects.Step{
		Name: "record signed contract",
		Run: func(ctx context.Context) (string, error) {
			cycle := signedCycles(order) + 1
			contract, err := o.contracts.GetUnsigned(ctx, order.ID, cycle)
			if err != nil {
				return "", fmt.Errorf("no unsigned contract for cycle %d: %w", cycle, err)
			}
			if err := o.contracts.MarkSigned(ctx, contract, signatureURL, time.Now()); err != nil {
				return "", err
			}
			for i := range order.Contracts {
				if order.Contracts[i].ID == contract.ID {
					order.Contracts[i] = *contract
				}
			}
			return fmt.Sprintf("contract #%d signed", contract.ID), nil
		},
	}
}

func (o *OrderOrchestrator) bumpRevisionStep(order *models.ServiceOrder, requested status.OrderStatus) effects.Step {
	return effects.Step{
		Name: "record revision round",
		Run: func(ctx context.Context) (string, error) {
			if requested == status.OrderReConsultingAndSketching {
				order.SketchRounds++
			} else {
				order.DesignRounds++
			}
			if err := o.orders.Update(ctx, order); err != nil {
				return "", err
			}
			return fmt.Sprintf("revision round %d recorded", order.RevisionRounds()), nil
		},
	}
}

// commitStep re-validates against the freshest status, then advances the
// order and appends history in one transaction, then patches the store.
func (o *OrderOrchestrator) commitStep(
	order *models.ServiceOrder,
	requested status.OrderStatus,
	actor lifecycle.Actor,
	input OrderInput,
	key store.Key,
) effects.Step {
	return effects.Step{
		Name: "commit status",
		Run: func(ctx context.Context) (string, error) {
			err := o.eval.CheckOrder(lifecycle.OrderTransitionRequest{
				Order:            order,
				Requested:        requested,
				Actor:            actor,
				Reason:           input.Reason,
				WalletBalance:    order.Customer.WalletBalance,
				PaymentConfirmed: paymentApplied(requested),
				FeeConfirmed:     true,
			})
			if err != nil {
				return "", err
			}
			if err := o.orders.CommitStatus(ctx, order, requested, string(actor)); err != nil {
				return "", err
			}
			o.store.ApplyOptimistic(key, snapshotOrder(order))
			return fmt.Sprintf("order advanced to %s", requested), nil
		},
	}
}

func (o *OrderOrchestrator) syncWorkTaskStep(order *models.ServiceOrder, requested status.OrderStatus) effects.Step {
	return effects.Step{
		Name:     "sync work task",
		WarnOnly: true,
		Run: func(ctx context.Context) (string, error) {
			target := taskSyncTargets[requested]
			task, err := o.tasks.GetCurrentByOrder(ctx, order.ID)
			if err != nil {
				return "", fmt.Errorf("no work task for order %s: %w", order.PublicID, err)
			}
			if task.Status == target {
				return fmt.Sprintf("work task #%d already %s", task.ID, target), nil
			}
			if err := o.tasks.UpdateStatus(ctx, task, target); err != nil {
				return "", err
			}
			return fmt.Sprintf("work task #%d moved to %s", task.ID, target), nil
		},
	}
}

func (o *OrderOrchestrator) publishStep() effects.Step {
	return effects.Step{
		Name:     "publish invalidation",
		WarnOnly: true,
		Run: func(ctx context.Context) (string, error) {
			if err := o.publisher.Publish(ctx); err != nil {
				return "", err
			}
			return "sync signal published", nil
		},
	}
}

func paymentApplied(requested status.OrderStatus) bool {
	return requested == status.OrderDepositSuccessful || requested == status.OrderPaymentSuccess
}

// signedCycles counts completed signing cycles; the current cycle is the
// next one.
func signedCycles(order *models.ServiceOrder) int {
	n := 0
	for i := range order.Contracts {
		if order.Contracts[i].Signed() {
			n++
		}
	}
	return n
}

func snapshotOrder(order *models.ServiceOrder) *models.ServiceOrder {
	cp := *order
	return &cp
}

func isInsufficientBalance(err error) bool {
	return errors.Is(err, payment.ErrInsufficientBalance)
}
