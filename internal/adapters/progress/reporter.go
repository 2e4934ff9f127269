package progress

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/trebuchet-org/catapult/internal/domain/models"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

var (
	stepColor    = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	skipColor    = color.New(color.FgYellow)
	addressColor = color.New(color.FgWhite, color.Faint)
)

// Reporter renders deployments as they happen. It is both the deploy hook
// used by the deployer and the progress sink of plan runs and ledger checks.
type Reporter struct {
	out       io.Writer
	spinner   *Spinner
	started   map[string]time.Time
	startTime time.Time
}

// NewReporter creates a progress reporter writing to out
func NewReporter(out io.Writer, interactive bool) *Reporter {
	return &Reporter{
		out:       out,
		spinner:   NewSpinner(out, interactive),
		started:   make(map[string]time.Time),
		startTime: time.Now(),
	}
}

// BeforeDeploy starts the spinner for a deployment
func (p *Reporter) BeforeDeploy(ctx context.Context, name string, factory *models.Factory, args []any) error {
	p.started[name] = time.Now()
	message := fmt.Sprintf("Deploying %s", name)
	if n := len(factory.Links); n > 0 {
		message = fmt.Sprintf("Deploying %s (%d linked)", name, n)
	}
	p.spinner.Start(message)
	return nil
}

// AfterDeploy prints the deployed address
func (p *Reporter) AfterDeploy(ctx context.Context, name string, handle *models.Handle, args []any) error {
	p.spinner.Stop()

	elapsed := ""
	if start, ok := p.started[name]; ok {
		elapsed = fmt.Sprintf(" (%s)", time.Since(start).Round(time.Millisecond))
		delete(p.started, name)
	}
	fmt.Fprintf(p.out, "  %s %s at %s%s\n",
		successColor.Sprint("✓"), name, addressColor.Sprint(handle.Address.Hex()), elapsed)
	return nil
}

// OnProgress renders plan step events
func (p *Reporter) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	switch event.Stage {
	case "step_starting":
		p.spinner.Stop()
		fmt.Fprintf(p.out, "%s %s\n", stepColor.Sprintf("[%d/%d]", event.Current, event.Total), event.Message)

	case "step_completed":
		if result, ok := event.Metadata.(*usecase.PlanStepResult); ok && result.Skipped {
			fmt.Fprintf(p.out, "  %s %s already deployed at %s\n",
				skipColor.Sprint("↷"), result.Name, addressColor.Sprint(result.Address.Hex()))
		}

	case "plan_completed":
		p.spinner.Stop()

	case "verify_done":
		p.spinner.Stop()
		successColor.Fprintf(p.out, "Checked ledger in %s\n", time.Since(p.startTime).Round(time.Millisecond))

	default:
		p.spinner.OnProgress(ctx, event)
	}
}

// Info forwards info messages to the spinner
func (p *Reporter) Info(message string) {
	p.spinner.Info(message)
}

// Error stops the spinner and prints the message
func (p *Reporter) Error(message string) {
	p.spinner.Stop()
	p.spinner.Error(message)
}

// Stop hides any active spinner
func (p *Reporter) Stop() {
	p.spinner.Stop()
}

var (
	_ usecase.ProgressSink = (*Reporter)(nil)
	_ usecase.DeployHooks  = (*Reporter)(nil)
)
