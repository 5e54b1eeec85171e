package usecase

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/iho/ledgersync/internal/domain"
)

// Reporter renders a change plan and execution results as human-readable
// output. Pure formatting, no side effects beyond the writer.
type Reporter struct {
	out    io.Writer
	dryRun bool
}

// NewReporter creates a reporter. dryRun only changes the line prefix, never
// the rendered operations, so dry-run output previews exactly what a live run
// would attempt.
func NewReporter(out io.Writer, dryRun bool) *Reporter {
	return &Reporter{out: out, dryRun: dryRun}
}

var (
	appliedColor = color.New(color.FgGreen)
	skippedColor = color.New(color.FgYellow)
	failedColor  = color.New(color.FgRed, color.Bold)
)

func (r *Reporter) prefix() string {
	if r.dryRun {
		return "DRYRUN:"
	}
	return "LIVE:"
}

// RenderPlan writes one line per planned operation.
func (r *Reporter) RenderPlan(plan domain.ChangePlan) {
	for i := range plan.Operations {
		fmt.Fprintf(r.out, "%s %s\n", r.prefix(), OperationLine(&plan.Operations[i]))
	}
	fmt.Fprintf(r.out, "%s plan contains %d operation(s)\n", r.prefix(), len(plan.Operations))
}

// RenderResults writes one line per operation with its outcome, then a
// summary. Returns the number of failed operations so callers can flag a run
// that completed incomplete.
func (r *Reporter) RenderResults(results []domain.ExecutionResult) int {
	var applied, skipped, failed int
	for i := range results {
		res := &results[i]
		fmt.Fprintf(r.out, "%s %s %s\n", r.prefix(), OperationLine(&res.Operation), resultSuffix(&res.Result))

		switch res.Result.Status {
		case domain.StatusApplied:
			applied++
		case domain.StatusSkipped:
			skipped++
		case domain.StatusFailed:
			failed++
		}
	}

	summary := fmt.Sprintf("%d applied, %d skipped, %d failed", applied, skipped, failed)
	if failed > 0 {
		summary = failedColor.Sprintf("%s - RUN INCOMPLETE", summary)
	}
	fmt.Fprintf(r.out, "%s %s\n", r.prefix(), summary)
	return failed
}

// OperationLine renders the operation itself, identically in dry-run and live
// mode.
func OperationLine(op *domain.Operation) string {
	switch op.Kind {
	case domain.OpEnsureContact:
		c := op.Contact
		return fmt.Sprintf("create contact '%s' - %s - %s", c.Name, c.Email, c.ExternalRef)
	case domain.OpCreateInvoice:
		inv := op.Invoice
		return fmt.Sprintf("create invoice '%s', %s %s for customer %s %s",
			inv.Description, inv.Total.StringFixed(2), inv.Currency, op.CounterpartyRef, op.Key)
	case domain.OpCreateBill:
		inv := op.Invoice
		return fmt.Sprintf("create bill '%s', %s %s %s",
			inv.Description, inv.Total.StringFixed(2), inv.Currency, op.Key)
	case domain.OpRecordPayment:
		pay := op.Payment
		return fmt.Sprintf("record payment of %s %s on %s %s",
			pay.Amount.StringFixed(2), pay.Currency, pay.Date.Format("2006-01-02"), op.Key)
	}
	return fmt.Sprintf("unknown operation %q", op.Kind)
}

func resultSuffix(res *domain.OperationResult) string {
	switch res.Status {
	case domain.StatusApplied:
		return appliedColor.Sprintf("-> applied %s", res.TargetID)
	case domain.StatusSkipped:
		return skippedColor.Sprintf("-> skipped: %s", res.Reason)
	case domain.StatusFailed:
		return failedColor.Sprintf("-> FAILED: %s", res.Message)
	}
	return ""
}
