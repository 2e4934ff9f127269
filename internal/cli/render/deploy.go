package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/catapult/internal/domain/models"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// DeployRenderer renders deployment outcomes
type DeployRenderer struct {
	out io.Writer
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out io.Writer) *DeployRenderer {
	return &DeployRenderer{out: out}
}

// RenderDeployUnit renders the outcome of a single deployment
func (r *DeployRenderer) RenderDeployUnit(result *usecase.DeployUnitResult) error {
	if result.JobError != nil || result.Record == nil {
		return nil
	}

	header := result.Record.Header()
	if result.Skipped {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("%s already deployed on %s at %s (use --force to redeploy)",
			result.Name, result.Network, header.Address.Hex())))
		return nil
	}

	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Deployed %s on %s", result.Name, result.Network)))
	r.renderRecord(result.Record)
	return nil
}

// RenderPlan renders the outcome of a plan run
func (r *DeployRenderer) RenderPlan(result *usecase.RunPlanResult) error {
	fmt.Fprintln(r.out)

	deployed, skipped := 0, 0
	rows := make([]table.Row, 0, len(result.Executed))
	for _, step := range result.Executed {
		status := okStyle.Sprint("deployed")
		if step.Skipped {
			skipped++
			status = warnStyle.Sprint("skipped")
		} else {
			deployed++
		}
		rows = append(rows, table.Row{nameStyle.Sprint(step.Name), addressStyle.Sprint(step.Address.Hex()), status, faintStyle.Sprint(string(step.Step.Action))})
	}
	if len(rows) > 0 {
		fmt.Fprintln(r.out, renderTable(rows))
	}

	if result.JobError != nil {
		if result.FailedAt != nil {
			fmt.Fprintln(r.out, FormatError(fmt.Sprintf("plan stopped at %s %s", result.FailedAt.Action, result.FailedAt.RecordName())))
		}
		fmt.Fprintln(r.out, faintStyle.Sprintf("%d of %d step(s) completed; progress was saved, rerun to resume", len(result.Executed), len(result.Plan.Steps)))
		return nil
	}

	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Plan completed on %s: %d deployed, %d already present", result.Network, deployed, skipped)))
	fmt.Fprintln(r.out, faintStyle.Sprintf("%d record(s) in ledger", result.LedgerLen))
	return nil
}

// RenderAddress renders a recorded address
func (r *DeployRenderer) RenderAddress(result *usecase.AddressOfResult, short bool) error {
	if short || result.Record == nil {
		fmt.Fprintln(r.out, result.Address.Hex())
		return nil
	}
	r.renderRecord(result.Record)
	return nil
}

func (r *DeployRenderer) renderRecord(rec models.Record) {
	if rec == nil {
		return
	}
	header := rec.Header()
	fmt.Fprintf(r.out, "  %s %s\n", nameStyle.Sprint(header.Name), addressStyle.Sprint(header.Address.Hex()))
	fmt.Fprintf(r.out, "  %s %s\n", faintStyle.Sprint("Type:"), rec.Type())
	if block, ok := models.DeployedAtBlock(rec); ok {
		fmt.Fprintf(r.out, "  %s %d\n", faintStyle.Sprint("Block:"), block)
	}
	if up, ok := rec.(models.UpgradeableRecord); ok {
		fmt.Fprintf(r.out, "  %s %s\n", faintStyle.Sprint("Implementation:"), up.Implementation.Hex())
		fmt.Fprintf(r.out, "  %s %s\n", faintStyle.Sprint("Admin:"), up.Admin.Hex())
	}
}
