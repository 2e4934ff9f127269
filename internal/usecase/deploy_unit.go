package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/domain/models"
)

// DeployUnitParams contains parameters for a single deployment
type DeployUnitParams struct {
	Unit        string
	Alias       string
	Signer      string
	Args        []any
	Force       bool
	Upgradeable bool
	Admin       string
}

// DeployUnitResult contains the result of a single deployment
type DeployUnitResult struct {
	Network  string
	Name     string
	Record   models.Record
	Skipped  bool
	JobError error
}

// DeployUnit deploys one unit in a restorable environment
type DeployUnit struct {
	cfg       *config.RuntimeConfig
	deployer  *Deployer
	builder   ArtifactBuilder
	confirmer BroadcastConfirmer
	log       *slog.Logger
}

// NewDeployUnit creates a new DeployUnit use case
func NewDeployUnit(
	cfg *config.RuntimeConfig,
	deployer *Deployer,
	builder ArtifactBuilder,
	confirmer BroadcastConfirmer,
	log *slog.Logger,
) *DeployUnit {
	return &DeployUnit{
		cfg:       cfg,
		deployer:  deployer,
		builder:   builder,
		confirmer: confirmer,
		log:       log,
	}
}

// Run executes the deployment
func (uc *DeployUnit) Run(ctx context.Context, params DeployUnitParams) (*DeployUnitResult, error) {
	if params.Unit == "" {
		return nil, fmt.Errorf("unit name is required")
	}
	if params.Upgradeable && params.Admin == "" {
		return nil, fmt.Errorf("--admin is required for upgradeable deployments")
	}

	name := params.Unit
	if params.Alias != "" {
		name = params.Alias
	}

	if err := prepareBroadcast(ctx, uc.cfg, uc.builder, uc.confirmer, fmt.Sprintf("Deploy %s", name)); err != nil {
		return nil, err
	}

	result := &DeployUnitResult{Network: uc.cfg.Network.Name, Name: name}
	runResult, err := Restorable(ctx, uc.deployer, uc.log, func(ctx context.Context, d *Deployer) error {
		args, err := resolveArgs(d, params.Args)
		if err != nil {
			return err
		}

		switch {
		case params.Upgradeable:
			admin, err := resolveAddressArg(d, params.Admin)
			if err != nil {
				return fmt.Errorf("admin: %w", err)
			}
			_, err = d.DeployAsUpgradeable(ctx, params.Unit, admin)
			if err != nil {
				return err
			}
		case params.Alias != "" || params.Signer != "":
			if !params.Force && d.Ledger().Contains(name) {
				result.Skipped = true
				break
			}
			if _, err := d.DeployAsWith(ctx, params.Signer, params.Unit, name, args...); err != nil {
				return err
			}
		case params.Force:
			if _, err := d.Deploy(ctx, params.Unit, args...); err != nil {
				return err
			}
		default:
			result.Skipped = d.Ledger().Contains(params.Unit)
			if _, err := d.DeployOrSkip(ctx, params.Unit, args...); err != nil {
				return err
			}
		}

		rec, err := d.Ledger().Get(name)
		if err != nil {
			return err
		}
		result.Record = rec
		return nil
	})
	if runResult != nil {
		result.JobError = runResult.JobError
	}
	return result, err
}

// AddressOfParams contains parameters for an address lookup
type AddressOfParams struct {
	Unit string
}

// AddressOfResult contains the recorded address of a unit
type AddressOfResult struct {
	Network string
	Unit    string
	Address common.Address
	Record  models.Record
}

// AddressOf looks up a recorded address in a read-only environment
type AddressOf struct {
	cfg      *config.RuntimeConfig
	deployer *Deployer
}

// NewAddressOf creates a new AddressOf use case
func NewAddressOf(cfg *config.RuntimeConfig, deployer *Deployer) *AddressOf {
	return &AddressOf{cfg: cfg, deployer: deployer}
}

// Run executes the lookup
func (uc *AddressOf) Run(ctx context.Context, params AddressOfParams) (*AddressOfResult, error) {
	result := &AddressOfResult{Unit: params.Unit}
	err := ReadOnly(ctx, uc.deployer, func(ctx context.Context, d *Deployer) error {
		addr, err := d.AddressOf(params.Unit)
		if err != nil {
			return err
		}
		result.Network = d.Network()
		result.Address = addr
		result.Record, _ = d.Ledger().Get(params.Unit)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
