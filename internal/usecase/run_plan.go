package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/domain/models"
	"gopkg.in/yaml.v3"
)

// RunPlanParams contains parameters for running a deployment plan
type RunPlanParams struct {
	PlanPath string
}

// PlanStepResult is the outcome of one executed step
type PlanStepResult struct {
	Step    *models.PlanStep
	Name    string
	Address common.Address
	Skipped bool
}

// RunPlanResult contains the result of running a deployment plan
type RunPlanResult struct {
	Network   string
	Plan      *models.Plan
	Executed  []*PlanStepResult
	FailedAt  *models.PlanStep
	JobError  error
	LedgerLen int
}

// RunPlan executes a YAML deployment plan in a restorable environment
type RunPlan struct {
	cfg       *config.RuntimeConfig
	deployer  *Deployer
	builder   ArtifactBuilder
	confirmer BroadcastConfirmer
	progress  ProgressSink
	log       *slog.Logger
}

// NewRunPlan creates a new RunPlan use case
func NewRunPlan(
	cfg *config.RuntimeConfig,
	deployer *Deployer,
	builder ArtifactBuilder,
	confirmer BroadcastConfirmer,
	progress ProgressSink,
	log *slog.Logger,
) *RunPlan {
	if progress == nil {
		progress = NopProgress{}
	}
	return &RunPlan{
		cfg:       cfg,
		deployer:  deployer,
		builder:   builder,
		confirmer: confirmer,
		progress:  progress,
		log:       log,
	}
}

// Run parses, validates and executes the plan. Steps run in order and the first
// failure stops the plan; the ledger is saved either way.
func (uc *RunPlan) Run(ctx context.Context, params RunPlanParams) (*RunPlanResult, error) {
	plan, err := ParsePlanFile(params.PlanPath)
	if err != nil {
		return nil, err
	}

	summary := fmt.Sprintf("Execute %d step(s) from %s", len(plan.Steps), filepath.Base(params.PlanPath))
	if err := prepareBroadcast(ctx, uc.cfg, uc.builder, uc.confirmer, summary); err != nil {
		return nil, err
	}

	result := &RunPlanResult{Network: uc.cfg.Network.Name, Plan: plan}
	runResult, err := Restorable(ctx, uc.deployer, uc.log, func(ctx context.Context, d *Deployer) error {
		for i, step := range plan.Steps {
			uc.progress.OnProgress(ctx, ProgressEvent{
				Stage:    "step_starting",
				Current:  i + 1,
				Total:    len(plan.Steps),
				Message:  fmt.Sprintf("%s %s", step.Action, step.RecordName()),
				Metadata: step,
			})
			stepResult, err := executeStep(ctx, d, step)
			if err != nil {
				result.FailedAt = step
				uc.progress.Error(fmt.Sprintf("step %d failed: %v", i+1, err))
				return fmt.Errorf("step %s %s: %w", step.Action, step.Unit, err)
			}
			result.Executed = append(result.Executed, stepResult)
			uc.progress.OnProgress(ctx, ProgressEvent{
				Stage:    "step_completed",
				Current:  i + 1,
				Total:    len(plan.Steps),
				Metadata: stepResult,
			})
		}
		return nil
	})
	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "plan_completed"})
	if runResult != nil {
		result.JobError = runResult.JobError
	}
	if ledger := uc.deployer.Ledger(); ledger != nil {
		result.LedgerLen = ledger.Len()
	}
	if err != nil {
		return result, err
	}
	return result, nil
}

func executeStep(ctx context.Context, d *Deployer, step *models.PlanStep) (*PlanStepResult, error) {
	args, err := resolveArgs(d, step.Args)
	if err != nil {
		return nil, err
	}

	result := &PlanStepResult{Step: step, Name: step.RecordName()}
	var handle *models.Handle

	switch step.Action {
	case models.ActionDeploy:
		handle, err = d.Deploy(ctx, step.Unit, args...)
	case models.ActionDeployOrSkip:
		result.Skipped = d.Ledger().Contains(step.Unit)
		handle, err = d.DeployOrSkip(ctx, step.Unit, args...)
	case models.ActionDeployAs:
		handle, err = d.DeployAsWith(ctx, step.Signer, step.Unit, step.Alias, args...)
	case models.ActionDeployWith:
		handle, err = d.DeployWith(ctx, step.Signer, step.Unit, args...)
	case models.ActionDeployUpgradeable:
		var admin common.Address
		admin, err = resolveAddressArg(d, step.Admin)
		if err != nil {
			return nil, fmt.Errorf("admin: %w", err)
		}
		handle, err = d.DeployAsUpgradeable(ctx, step.Unit, admin)
	default:
		err = fmt.Errorf("%w: unknown action %q", domain.ErrInvalidPlan, step.Action)
	}
	if err != nil {
		return nil, err
	}

	result.Address = handle.Address
	return result, nil
}

// ParsePlanFile reads and validates a plan from a YAML file
func ParsePlanFile(path string) (*models.Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}
	return ParsePlan(data)
}

// ParsePlan parses and validates a plan from YAML data
func ParsePlan(data []byte) (*models.Plan, error) {
	var plan models.Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("%w: failed to parse YAML: %v", domain.ErrInvalidPlan, err)
	}
	if err := ValidatePlan(&plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// ValidatePlan checks every step before anything is sent. Missing actions default
// to deploy-or-skip.
func ValidatePlan(plan *models.Plan) error {
	if len(plan.Steps) == 0 {
		return fmt.Errorf("%w: no steps", domain.ErrInvalidPlan)
	}

	for i, step := range plan.Steps {
		if step == nil {
			return fmt.Errorf("%w: step %d is empty", domain.ErrInvalidPlan, i+1)
		}
		if step.Action == "" {
			step.Action = models.ActionDeployOrSkip
		}
		if step.Unit == "" {
			return fmt.Errorf("%w: step %d has no unit", domain.ErrInvalidPlan, i+1)
		}

		switch step.Action {
		case models.ActionDeploy, models.ActionDeployOrSkip:
		case models.ActionDeployAs:
			if step.Alias == "" {
				return fmt.Errorf("%w: step %d (%s) requires alias", domain.ErrInvalidPlan, i+1, step.Unit)
			}
		case models.ActionDeployWith:
			if step.Signer == "" {
				return fmt.Errorf("%w: step %d (%s) requires signer", domain.ErrInvalidPlan, i+1, step.Unit)
			}
		case models.ActionDeployUpgradeable:
			if step.Admin == "" {
				return fmt.Errorf("%w: step %d (%s) requires admin", domain.ErrInvalidPlan, i+1, step.Unit)
			}
			if len(step.Args) > 0 {
				return fmt.Errorf("%w: step %d (%s) upgradeable deployments take no args", domain.ErrInvalidPlan, i+1, step.Unit)
			}
		default:
			return fmt.Errorf("%w: step %d has unknown action %q", domain.ErrInvalidPlan, i+1, step.Action)
		}
	}
	return nil
}
