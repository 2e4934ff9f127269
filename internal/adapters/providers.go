package adapters

import (
	"log/slog"
	"os"

	"github.com/google/wire"
	"github.com/trebuchet-org/catapult/internal/adapters/build"
	"github.com/trebuchet-org/catapult/internal/adapters/chain"
	"github.com/trebuchet-org/catapult/internal/adapters/interactive"
	"github.com/trebuchet-org/catapult/internal/adapters/progress"
	"github.com/trebuchet-org/catapult/internal/adapters/repository/artifacts"
	"github.com/trebuchet-org/catapult/internal/adapters/repository/ledger"
	"github.com/trebuchet-org/catapult/internal/adapters/senders"
	"github.com/trebuchet-org/catapult/internal/config"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// ProvideReporter provides the terminal progress reporter
func ProvideReporter(cfg *config.RuntimeConfig) *progress.Reporter {
	return progress.NewReporter(os.Stdout, !cfg.NonInteractive)
}

// ProvideDeployHooks chains debug logging with the terminal reporter
func ProvideDeployHooks(log *slog.Logger, reporter *progress.Reporter) usecase.DeployHooks {
	return usecase.HookChain{usecase.NewLoggingHooks(log), reporter}
}

// RepositorySet provides file-based repositories
var RepositorySet = wire.NewSet(
	artifacts.NewScanner,

	artifacts.NewRepository,
	wire.Bind(new(usecase.ArtifactRepository), new(*artifacts.Repository)),

	artifacts.NewLinkReferenceResolver,
	wire.Bind(new(usecase.LinkReferenceResolver), new(*artifacts.LinkReferenceResolver)),

	ledger.NewFileRepository,
	wire.Bind(new(usecase.LedgerRepository), new(*ledger.FileRepository)),
)

// ChainSet provides the RPC client and signing keys
var ChainSet = wire.NewSet(
	senders.NewService,

	chain.NewClient,
	wire.Bind(new(usecase.ChainClient), new(*chain.Client)),
)

// BuildSet provides the artifact build runner
var BuildSet = wire.NewSet(
	build.NewRunner,
	wire.Bind(new(usecase.ArtifactBuilder), new(*build.Runner)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.BroadcastConfirmer), new(*interactive.SelectorAdapter)),
	wire.Bind(new(usecase.RecordSelector), new(*interactive.SelectorAdapter)),
)

// ProgressSet provides terminal progress reporting
var ProgressSet = wire.NewSet(
	ProvideReporter,
	wire.Bind(new(usecase.ProgressSink), new(*progress.Reporter)),
	ProvideDeployHooks,
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	RepositorySet,
	ChainSet,
	BuildSet,
	InteractiveSet,
	ProgressSet,
)
