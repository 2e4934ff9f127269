package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/samber/lo"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/domain/models"
)

func requireNetwork(cfg *config.RuntimeConfig) (*config.Network, error) {
	if cfg.Network == nil {
		return nil, fmt.Errorf("no network selected, use --network")
	}
	return cfg.Network, nil
}

// loadLedger loads a network ledger, failing open on corrupt files
func loadLedger(ctx context.Context, repo LedgerRepository, network string, log *slog.Logger) (*domain.Ledger, error) {
	ledger, err := repo.Load(ctx, network)
	if err != nil {
		var loadErr *domain.LedgerLoadError
		if !errors.As(err, &loadErr) {
			return nil, err
		}
		log.Warn("ledger could not be read, treating it as empty", "error", err)
	}
	if ledger == nil {
		ledger = domain.NewLedger(network)
	}
	return ledger, nil
}

// ListLedgerParams contains parameters for listing ledger records
type ListLedgerParams struct {
	Type models.RecordType // empty lists every type
}

// ListLedgerResult contains the records of a network ledger
type ListLedgerResult struct {
	Network   string
	Records   []models.Record
	Overrides map[string]string
	Summary   LedgerSummary
}

// LedgerSummary provides per-type record counts
type LedgerSummary struct {
	Total  int
	ByType map[models.RecordType]int
}

// ListLedger is a use case for listing ledger records
type ListLedger struct {
	cfg     *config.RuntimeConfig
	ledgers LedgerRepository
	log     *slog.Logger
}

// NewListLedger creates a new ListLedger use case
func NewListLedger(cfg *config.RuntimeConfig, ledgers LedgerRepository, log *slog.Logger) *ListLedger {
	return &ListLedger{cfg: cfg, ledgers: ledgers, log: log}
}

// Run executes the use case
func (uc *ListLedger) Run(ctx context.Context, params ListLedgerParams) (*ListLedgerResult, error) {
	network, err := requireNetwork(uc.cfg)
	if err != nil {
		return nil, err
	}

	ledger, err := loadLedger(ctx, uc.ledgers, network.Name, uc.log)
	if err != nil {
		return nil, err
	}

	records := ledger.List()
	if params.Type != "" {
		records = lo.Filter(records, func(r models.Record, _ int) bool { return r.Type() == params.Type })
	}

	summary := LedgerSummary{Total: len(records), ByType: make(map[models.RecordType]int)}
	for _, r := range records {
		summary.ByType[r.Type()]++
	}

	return &ListLedgerResult{
		Network:   network.Name,
		Records:   records,
		Overrides: network.Overrides,
		Summary:   summary,
	}, nil
}

// RecordCheck is the on-chain state of one record
type RecordCheck struct {
	Record  models.Record
	HasCode bool
	// ImplementationHasCode is only set for upgradeable records
	ImplementationHasCode bool
	Error                 error
}

// OK reports whether every address of the record holds code
func (c RecordCheck) OK() bool {
	if c.Error != nil || !c.HasCode {
		return false
	}
	if c.Record.Type() == models.UpgradeableRecordType {
		return c.ImplementationHasCode
	}
	return true
}

// VerifyLedgerResult contains the checks of every record
type VerifyLedgerResult struct {
	Network string
	Checks  []RecordCheck
	Missing int
}

// VerifyLedger checks that code exists at every recorded address
type VerifyLedger struct {
	cfg      *config.RuntimeConfig
	ledgers  LedgerRepository
	chain    ChainClient
	progress ProgressSink
	log      *slog.Logger
}

// NewVerifyLedger creates a new VerifyLedger use case
func NewVerifyLedger(
	cfg *config.RuntimeConfig,
	ledgers LedgerRepository,
	chain ChainClient,
	progress ProgressSink,
	log *slog.Logger,
) *VerifyLedger {
	if progress == nil {
		progress = NopProgress{}
	}
	return &VerifyLedger{cfg: cfg, ledgers: ledgers, chain: chain, progress: progress, log: log}
}

// Run executes the use case
func (uc *VerifyLedger) Run(ctx context.Context) (*VerifyLedgerResult, error) {
	network, err := requireNetwork(uc.cfg)
	if err != nil {
		return nil, err
	}

	ledger, err := loadLedger(ctx, uc.ledgers, network.Name, uc.log)
	if err != nil {
		return nil, err
	}

	records := ledger.List()
	result := &VerifyLedgerResult{Network: network.Name}
	for i, rec := range records {
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   "verify",
			Current: i + 1,
			Total:   len(records),
			Message: fmt.Sprintf("Checking %s", rec.Header().Name),
			Spinner: true,
		})

		check := RecordCheck{Record: rec}
		check.HasCode, check.Error = uc.chain.CodeExists(ctx, rec.Header().Address)
		if up, ok := rec.(models.UpgradeableRecord); ok && check.Error == nil {
			check.ImplementationHasCode, check.Error = uc.chain.CodeExists(ctx, up.Implementation)
		}
		if !check.OK() {
			result.Missing++
		}
		result.Checks = append(result.Checks, check)
	}
	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "verify_done"})

	return result, nil
}

// PruneLedgerParams contains parameters for pruning ledger records
type PruneLedgerParams struct {
	// Names to forget. When empty the user is asked to select records.
	Names  []string
	DryRun bool
}

// PruneLedgerResult contains the result of pruning
type PruneLedgerResult struct {
	Network string
	Removed []models.Record
	DryRun  bool
}

// PruneLedger forgets records so the next run deploys them again
type PruneLedger struct {
	cfg      *config.RuntimeConfig
	ledgers  LedgerRepository
	selector RecordSelector
	log      *slog.Logger
}

// NewPruneLedger creates a new PruneLedger use case
func NewPruneLedger(cfg *config.RuntimeConfig, ledgers LedgerRepository, selector RecordSelector, log *slog.Logger) *PruneLedger {
	return &PruneLedger{cfg: cfg, ledgers: ledgers, selector: selector, log: log}
}

// Run executes the use case
func (uc *PruneLedger) Run(ctx context.Context, params PruneLedgerParams) (*PruneLedgerResult, error) {
	network, err := requireNetwork(uc.cfg)
	if err != nil {
		return nil, err
	}

	ledger, err := loadLedger(ctx, uc.ledgers, network.Name, uc.log)
	if err != nil {
		return nil, err
	}

	names := params.Names
	if len(names) == 0 {
		if uc.cfg.NonInteractive || uc.selector == nil {
			return nil, fmt.Errorf("no records given to prune")
		}
		if names, err = uc.selector.SelectRecords(ctx, ledger.List()); err != nil {
			return nil, err
		}
	}

	result := &PruneLedgerResult{Network: network.Name, DryRun: params.DryRun}
	for _, name := range lo.Uniq(names) {
		rec, err := ledger.Get(name)
		if err != nil {
			return nil, err
		}
		result.Removed = append(result.Removed, rec)
	}

	if params.DryRun || len(result.Removed) == 0 {
		return result, nil
	}

	for _, rec := range result.Removed {
		ledger.Remove(rec.Header().Name)
	}
	if err := uc.ledgers.Save(ctx, ledger); err != nil {
		return nil, fmt.Errorf("failed to save ledger: %w", err)
	}
	return result, nil
}
