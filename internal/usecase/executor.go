package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/iho/ledgersync/internal/domain"
	"github.com/iho/ledgersync/internal/infrastructure/metrics"
)

// Executor applies a change plan against the target ledger, strictly in plan
// order. Execution is fail-forward: one operation's failure never aborts the
// run, it only skips the operations that depend on it.
type Executor struct {
	target  TargetClient
	retrier Retrier
	metrics *metrics.Metrics
	log     zerolog.Logger
}

// NewExecutor creates an executor.
func NewExecutor(target TargetClient, retrier Retrier, m *metrics.Metrics, log zerolog.Logger) *Executor {
	return &Executor{
		target:  target,
		retrier: retrier,
		metrics: m,
		log:     log.With().Str("component", "executor").Logger(),
	}
}

const reasonPrerequisiteFailed = "prerequisite failed"

// Execute applies the plan and returns one result per operation, in plan
// order. The result sequence is the authoritative record of the run.
func (e *Executor) Execute(ctx context.Context, plan domain.ChangePlan) []domain.ExecutionResult {
	results := make([]domain.ExecutionResult, 0, len(plan.Operations))
	applied := make(map[string]string)
	outcomes := make(map[string]domain.ResultStatus)

	for _, op := range plan.Operations {
		result := e.apply(ctx, op, applied, outcomes)

		if op.LocalID != "" {
			outcomes[op.LocalID] = result.Status
			if result.Status == domain.StatusApplied {
				applied[op.LocalID] = result.TargetID
			}
		}

		e.record(op, result)
		results = append(results, domain.ExecutionResult{Operation: op, Result: result})
	}
	return results
}

func (e *Executor) apply(
	ctx context.Context,
	op domain.Operation,
	applied map[string]string,
	outcomes map[string]domain.ResultStatus,
) domain.OperationResult {
	for _, dep := range op.DependsOn {
		if outcomes[dep] != domain.StatusApplied {
			return domain.Skipped(reasonPrerequisiteFailed)
		}
	}

	var targetID string
	err := e.retrier.Retry(ctx, func() error {
		var callErr error
		targetID, callErr = e.create(ctx, op, applied)
		return callErr
	})
	if err != nil {
		return domain.Failed(err)
	}
	return domain.Applied(targetID)
}

// create invokes the target client call for one operation, with local refs
// resolved against records created earlier in this run.
func (e *Executor) create(ctx context.Context, op domain.Operation, applied map[string]string) (string, error) {
	switch op.Kind {
	case domain.OpEnsureContact:
		return e.target.CreateContact(ctx, *op.Contact)

	case domain.OpCreateInvoice, domain.OpCreateBill:
		draft := *op.Invoice
		resolved, err := resolveRef(draft.Contact, applied)
		if err != nil {
			return "", err
		}
		draft.Contact = resolved
		if op.Kind == domain.OpCreateBill {
			return e.target.CreateBill(ctx, draft)
		}
		return e.target.CreateInvoice(ctx, draft)

	case domain.OpRecordPayment:
		draft := *op.Payment
		resolved, err := resolveRef(draft.Document, applied)
		if err != nil {
			return "", err
		}
		draft.Document = resolved
		return e.target.CreatePayment(ctx, draft)
	}
	return "", fmt.Errorf("unknown operation kind %q", op.Kind)
}

// resolveRef rewrites a local ref to the target ID assigned earlier in the
// run. A missing entry means a dependency bug, not a target failure.
func resolveRef(ref domain.Ref, applied map[string]string) (domain.Ref, error) {
	if !ref.IsLocal() {
		return ref, nil
	}
	id, ok := applied[ref.LocalID]
	if !ok {
		return domain.Ref{}, fmt.Errorf("unresolved plan reference %q", ref.LocalID)
	}
	return domain.ExistingRef(id), nil
}

func (e *Executor) record(op domain.Operation, result domain.OperationResult) {
	kind := string(op.Kind)
	switch result.Status {
	case domain.StatusApplied:
		e.metrics.OperationsApplied.WithLabelValues(kind).Inc()
		e.log.Info().
			Str("operation", op.LocalID).
			Str("target_id", result.TargetID).
			Msg("operation applied")
	case domain.StatusSkipped:
		e.metrics.OperationsSkipped.WithLabelValues(kind).Inc()
		e.log.Warn().
			Str("operation", op.LocalID).
			Str("reason", result.Reason).
			Msg("operation skipped")
	case domain.StatusFailed:
		e.metrics.OperationsFailed.WithLabelValues(kind).Inc()
		e.log.Error().
			Str("operation", op.LocalID).
			Str("error", result.Message).
			Msg("operation failed")
	}
}
