package effects

import (
	"context"
	"errors"

	"design_portal/internal/lifecycle"
)

// Outcome is the result of one named effect. Completed outcomes are durable:
// the pipeline never compensates for a later failure.
type Outcome struct {
	Step    string `json:"step"`
	Applied bool   `json:"applied"`
	Warning bool   `json:"warning"`
	Detail  string `json:"detail,omitempty"`
}

// Step is one named, independently testable effect handler. Run returns a
// short human-readable detail on success. A WarnOnly step that fails is
// recorded as an InconsistentStateWarning instead of aborting the sequence.
type Step struct {
	Name     string
	WarnOnly bool
	Run      func(ctx context.Context) (string, error)
}

// Pipeline executes steps strictly in order, awaiting each before the next.
type Pipeline struct {
	steps []Step
}

func New(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Run executes the sequence. On failure it returns every outcome so far,
// including the failed step, plus an error that names the step: guard-level
// errors pass through unchanged, anything else becomes a *TransportError
// carrying the completed outcomes. Warnings are reported in the outcomes and
// in the returned warning list, never as errors.
func (p *Pipeline) Run(ctx context.Context) ([]Outcome, []*InconsistentStateWarning, error) {
	outcomes := make([]Outcome, 0, len(p.steps))
	var warnings []*InconsistentStateWarning

	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			// Started effects always run to completion; only steps not yet
			// begun are skipped when the caller has gone away.
			outcomes = append(outcomes, Outcome{Step: step.Name, Detail: "skipped: " + err.Error()})
			return outcomes, warnings, &TransportError{Step: step.Name, Err: err, Completed: completed(outcomes)}
		}

		detail, err := step.Run(ctx)
		if err != nil {
			if step.WarnOnly {
				w := &InconsistentStateWarning{Step: step.Name, Err: err}
				warnings = append(warnings, w)
				outcomes = append(outcomes, Outcome{Step: step.Name, Warning: true, Detail: err.Error()})
				continue
			}
			outcomes = append(outcomes, Outcome{Step: step.Name, Detail: err.Error()})
			return outcomes, warnings, classify(step.Name, err, completed(outcomes))
		}
		outcomes = append(outcomes, Outcome{Step: step.Name, Applied: true, Detail: detail})
	}
	return outcomes, warnings, nil
}

func completed(outcomes []Outcome) []Outcome {
	out := make([]Outcome, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Applied {
			out = append(out, o)
		}
	}
	return out
}

func classify(step string, err error, done []Outcome) error {
	var ve *lifecycle.ValidationError
	var fe *lifecycle.InsufficientFundsError
	if errors.As(err, &ve) || errors.As(err, &fe) {
		return err
	}
	var te *TransportError
	if errors.As(err, &te) {
		return err
	}
	return &TransportError{Step: step, Err: err, Completed: done}
}
