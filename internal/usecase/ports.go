package usecase

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/models"
)

// LinkReferenceResolver builds the contract -> library names map from compiled artifacts
type LinkReferenceResolver interface {
	Resolve(root string) (domain.LinkReferences, error)
}

// LedgerRepository handles persistence of per-network deployment ledgers
type LedgerRepository interface {
	// Load returns the ledger for a network. A missing ledger is empty with a nil error;
	// an unreadable one is empty with a *domain.LedgerLoadError.
	Load(ctx context.Context, network string) (*domain.Ledger, error)
	Save(ctx context.Context, ledger *domain.Ledger) error
}

// ArtifactRepository provides access to compiled contract artifacts
type ArtifactRepository interface {
	GetContract(ctx context.Context, name string) (*models.Contract, error)
	ContractNames(ctx context.Context) ([]string, error)
}

// ChainClient is the network boundary: factories, deployments and handles
type ChainClient interface {
	// Factory builds a deployable unit with the given library bindings applied
	Factory(ctx context.Context, name string, links map[string]common.Address) (*models.Factory, error)
	// Deploy submits the deployment signed by signer ("" = default) and waits for it to be mined
	Deploy(ctx context.Context, factory *models.Factory, signer string, args []any) (*models.Handle, *models.Receipt, error)
	// Attach returns a handle for an existing deployment without sending a transaction
	Attach(ctx context.Context, name string, address common.Address) (*models.Handle, error)
	CodeExists(ctx context.Context, address common.Address) (bool, error)
}

// DeployHooks observe every deployment the Deployer performs, libraries included.
// An error from either hook aborts the deployment.
type DeployHooks interface {
	BeforeDeploy(ctx context.Context, name string, factory *models.Factory, args []any) error
	AfterDeploy(ctx context.Context, name string, handle *models.Handle, args []any) error
}

// NopHooks is a no-op implementation of DeployHooks
type NopHooks struct{}

func (NopHooks) BeforeDeploy(context.Context, string, *models.Factory, []any) error { return nil }
func (NopHooks) AfterDeploy(context.Context, string, *models.Handle, []any) error    { return nil }

// HookChain runs several hooks in order, stopping at the first error
type HookChain []DeployHooks

func (c HookChain) BeforeDeploy(ctx context.Context, name string, factory *models.Factory, args []any) error {
	for _, h := range c {
		if err := h.BeforeDeploy(ctx, name, factory, args); err != nil {
			return err
		}
	}
	return nil
}

func (c HookChain) AfterDeploy(ctx context.Context, name string, handle *models.Handle, args []any) error {
	for _, h := range c {
		if err := h.AfterDeploy(ctx, name, handle, args); err != nil {
			return err
		}
	}
	return nil
}

// ArtifactBuilder runs the project's build command before artifacts are read
type ArtifactBuilder interface {
	Build(ctx context.Context) error
}

// BroadcastConfirmer asks the user before transactions are sent to a network
type BroadcastConfirmer interface {
	ConfirmBroadcast(ctx context.Context, network string, summary string) (bool, error)
}

// RecordSelector handles interactive selection of ledger records
type RecordSelector interface {
	SelectRecords(ctx context.Context, records []models.Record) ([]string, error)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}
