package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/domain/models"
)

type deployerState int

const (
	stateUninitialized deployerState = iota
	stateInitialized
	stateFinalized
)

// Deployer tracks deployed units for one network, deploys missing ones with
// their library dependencies and records the results in its ledger.
//
// A Deployer is not safe for concurrent use.
type Deployer struct {
	cfg      *config.RuntimeConfig
	resolver LinkReferenceResolver
	ledgers  LedgerRepository
	chain    ChainClient
	hooks    DeployHooks
	log      *slog.Logger

	state  deployerState
	ledger *domain.Ledger
	links  domain.LinkReferences
}

// NewDeployer creates a new Deployer
func NewDeployer(
	cfg *config.RuntimeConfig,
	resolver LinkReferenceResolver,
	ledgers LedgerRepository,
	chain ChainClient,
	hooks DeployHooks,
	log *slog.Logger,
) *Deployer {
	if hooks == nil {
		hooks = NopHooks{}
	}
	return &Deployer{
		cfg:      cfg,
		resolver: resolver,
		ledgers:  ledgers,
		chain:    chain,
		hooks:    hooks,
		log:      log.With("run", uuid.NewString()),
	}
}

// Initialize resolves link references, loads the ledger and applies address overrides.
func (d *Deployer) Initialize(ctx context.Context) error {
	switch d.state {
	case stateInitialized:
		return domain.ErrAlreadyInitialized
	case stateFinalized:
		return domain.ErrFinalized
	}
	if d.cfg.Network == nil {
		return fmt.Errorf("no network selected")
	}
	network := d.cfg.Network.Name

	links, err := d.resolver.Resolve(d.cfg.ArtifactsDir)
	if err != nil {
		return fmt.Errorf("failed to resolve link references: %w", err)
	}

	ledger, err := d.ledgers.Load(ctx, network)
	if err != nil {
		var loadErr *domain.LedgerLoadError
		if !errors.As(err, &loadErr) {
			return err
		}
		d.log.Warn("starting with an empty ledger", "error", err)
	}
	if ledger == nil {
		ledger = domain.NewLedger(network)
	}

	for name, addr := range d.cfg.Network.Overrides {
		ledger.Put(name, models.PresetRecord{RecordHeader: models.RecordHeader{
			Name:    name,
			Address: common.HexToAddress(addr),
		}})
	}

	d.links = links
	d.ledger = ledger
	d.state = stateInitialized
	d.log.Debug("deployer initialized", "network", network, "records", ledger.Len(), "linked", len(links))
	return nil
}

// Finalize persists the ledger. It must be called exactly once.
func (d *Deployer) Finalize(ctx context.Context) error {
	if err := d.ensureRunning(); err != nil {
		return err
	}
	d.state = stateFinalized
	if err := d.ledgers.Save(ctx, d.ledger); err != nil {
		return fmt.Errorf("failed to save ledger for %s: %w", d.ledger.Network(), err)
	}
	d.log.Debug("ledger saved", "network", d.ledger.Network(), "records", d.ledger.Len())
	return nil
}

// Network returns the name of the target network
func (d *Deployer) Network() string {
	if d.cfg.Network == nil {
		return ""
	}
	return d.cfg.Network.Name
}

// Ledger returns the in-memory ledger, nil before Initialize
func (d *Deployer) Ledger() *domain.Ledger {
	return d.ledger
}

// LinkReferences returns the link references resolved at Initialize
func (d *Deployer) LinkReferences() domain.LinkReferences {
	return d.links
}

// Deploy always deploys name and records it under name
func (d *Deployer) Deploy(ctx context.Context, name string, args ...any) (*models.Handle, error) {
	return d.deployRecorded(ctx, name, name, "", args)
}

// DeployAs deploys name and records it under alias only
func (d *Deployer) DeployAs(ctx context.Context, name, alias string, args ...any) (*models.Handle, error) {
	return d.deployRecorded(ctx, name, alias, "", args)
}

// DeployWith deploys name with the deployment transaction signed by signer
func (d *Deployer) DeployWith(ctx context.Context, signer, name string, args ...any) (*models.Handle, error) {
	return d.deployRecorded(ctx, name, name, signer, args)
}

// DeployAsWith deploys name signed by signer and records it under alias only
func (d *Deployer) DeployAsWith(ctx context.Context, signer, name, alias string, args ...any) (*models.Handle, error) {
	return d.deployRecorded(ctx, name, alias, signer, args)
}

// DeployOrSkip attaches to the recorded deployment of name, or deploys it when absent
func (d *Deployer) DeployOrSkip(ctx context.Context, name string, args ...any) (*models.Handle, error) {
	if err := d.ensureRunning(); err != nil {
		return nil, err
	}
	if rec, err := d.ledger.Get(name); err == nil {
		d.log.Info("skipping deployed unit", "unit", name, "address", rec.Header().Address.Hex())
		return d.chain.Attach(ctx, name, rec.Header().Address)
	}
	return d.Deploy(ctx, name, args...)
}

// DeployAsUpgradeable deploys name as an implementation behind the configured proxy unit
// administered by admin. Only the proxy is recorded, under name. The returned handle
// carries the implementation ABI at the proxy address.
func (d *Deployer) DeployAsUpgradeable(ctx context.Context, name string, admin common.Address) (*models.Handle, error) {
	if err := d.ensureRunning(); err != nil {
		return nil, err
	}

	impl, _, err := d.deployUnit(ctx, name, name, "", nil, nil)
	if err != nil {
		return nil, err
	}

	proxyArgs := []any{impl.Address, admin, []byte{}}
	proxy, receipt, err := d.deployUnit(ctx, d.proxyUnit(), name+" proxy", "", proxyArgs, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to deploy proxy for %s: %w", name, err)
	}

	d.ledger.Put(name, models.UpgradeableRecord{
		RecordHeader:   models.RecordHeader{Name: name, Address: proxy.Address},
		DeployedAt:     blockOf(receipt),
		Admin:          admin,
		Implementation: impl.Address,
	})
	d.log.Info("deployed upgradeable unit", "unit", name, "proxy", proxy.Address.Hex(), "implementation", impl.Address.Hex())

	return d.chain.Attach(ctx, name, proxy.Address)
}

// GetDeployedUnit returns a handle to the recorded deployment of name
func (d *Deployer) GetDeployedUnit(ctx context.Context, name string) (*models.Handle, error) {
	if err := d.ensureRunning(); err != nil {
		return nil, err
	}
	rec, err := d.ledger.Get(name)
	if err != nil {
		return nil, err
	}
	return d.chain.Attach(ctx, name, rec.Header().Address)
}

// AddressOf returns the recorded address of name
func (d *Deployer) AddressOf(name string) (common.Address, error) {
	if err := d.ensureRunning(); err != nil {
		return common.Address{}, err
	}
	rec, err := d.ledger.Get(name)
	if err != nil {
		return common.Address{}, err
	}
	return rec.Header().Address, nil
}

func (d *Deployer) deployRecorded(ctx context.Context, name, alias, signer string, args []any) (*models.Handle, error) {
	if err := d.ensureRunning(); err != nil {
		return nil, err
	}

	handle, receipt, err := d.deployUnit(ctx, name, alias, signer, args, nil)
	if err != nil {
		return nil, err
	}

	d.record(alias, handle.Address, receipt)
	return handle, nil
}

// deployUnit links and deploys name without recording it. Libraries deployed on the
// way are recorded. Hooks see the unit name, label only names the deployment in
// logs and errors. path holds the units whose libraries are being resolved.
func (d *Deployer) deployUnit(
	ctx context.Context,
	name, label, signer string,
	args []any,
	path []string,
) (*models.Handle, *models.Receipt, error) {
	if slices.Contains(path, name) {
		return nil, nil, &domain.CyclicDependencyError{Path: append(slices.Clone(path), name)}
	}
	path = append(slices.Clone(path), name)

	links, err := d.linkLibraries(ctx, name, path)
	if err != nil {
		return nil, nil, err
	}

	factory, err := d.chain.Factory(ctx, name, links)
	if err != nil {
		return nil, nil, err
	}

	if err := d.hooks.BeforeDeploy(ctx, name, factory, args); err != nil {
		return nil, nil, fmt.Errorf("before-deploy hook for %s: %w", label, err)
	}

	d.log.Debug("deploying unit", "unit", name, "as", label, "signer", signer, "libraries", len(links))
	handle, receipt, err := d.chain.Deploy(ctx, factory, signer, args)
	if err != nil {
		return nil, nil, err
	}

	if err := d.hooks.AfterDeploy(ctx, name, handle, args); err != nil {
		return nil, nil, fmt.Errorf("after-deploy hook for %s: %w", label, err)
	}

	return handle, receipt, nil
}

// linkLibraries returns the address binding for every library unit links against,
// deploying and recording libraries that are not in the ledger yet.
func (d *Deployer) linkLibraries(ctx context.Context, unit string, path []string) (map[string]common.Address, error) {
	libs := d.links[unit]
	if len(libs) == 0 {
		return nil, nil
	}

	bound := make(map[string]common.Address, len(libs))
	for _, lib := range libs {
		if _, ok := bound[lib]; ok {
			continue
		}
		if rec, err := d.ledger.Get(lib); err == nil {
			bound[lib] = rec.Header().Address
			continue
		}

		handle, receipt, err := d.deployUnit(ctx, lib, lib, "", nil, path)
		if err != nil {
			return nil, fmt.Errorf("failed to deploy library %s for %s: %w", lib, unit, err)
		}
		d.record(lib, handle.Address, receipt)
		bound[lib] = handle.Address
	}
	return bound, nil
}

func (d *Deployer) record(name string, address common.Address, receipt *models.Receipt) {
	d.ledger.Put(name, models.PlainRecord{
		RecordHeader: models.RecordHeader{Name: name, Address: address},
		DeployedAt:   blockOf(receipt),
	})
	d.log.Info("deployed unit", "unit", name, "address", address.Hex(), "block", blockOf(receipt))
}

func (d *Deployer) ensureRunning() error {
	switch d.state {
	case stateUninitialized:
		return domain.ErrNotInitialized
	case stateFinalized:
		return domain.ErrFinalized
	}
	return nil
}

func (d *Deployer) proxyUnit() string {
	if d.cfg.ProxyUnit != "" {
		return d.cfg.ProxyUnit
	}
	return config.DefaultProxyUnit
}

func blockOf(receipt *models.Receipt) uint64 {
	if receipt == nil || receipt.BlockNumber == nil {
		return 0
	}
	return receipt.BlockNumber.Uint64()
}
