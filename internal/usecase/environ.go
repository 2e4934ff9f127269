package usecase

import (
	"context"
	"fmt"
	"log/slog"
)

// Job is a unit of deployment work run against an initialized Deployer
type Job func(ctx context.Context, d *Deployer) error

// RunResult contains the outcome of a job run in a restorable environment
type RunResult struct {
	// JobError is the error the job failed with, if any. The ledger was still saved.
	JobError error
}

// Restorable initializes d, runs job and always finalizes, so every deployment that
// succeeded before a failure is persisted. A job error is logged and reported in the
// result; the returned error covers initialize and finalize failures only.
func Restorable(ctx context.Context, d *Deployer, log *slog.Logger, job Job) (*RunResult, error) {
	if err := d.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize deployer: %w", err)
	}

	result := &RunResult{}
	if err := job(ctx, d); err != nil {
		log.Error("deployment job failed, saving progress", "network", d.Network(), "error", err)
		result.JobError = err
	}

	if err := d.Finalize(ctx); err != nil {
		return result, err
	}
	return result, nil
}

// ReadOnly initializes d and runs job without persisting anything
func ReadOnly(ctx context.Context, d *Deployer, job Job) error {
	if err := d.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize deployer: %w", err)
	}
	return job(ctx, d)
}
