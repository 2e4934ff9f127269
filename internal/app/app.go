package app

import (
	"github.com/trebuchet-org/catapult/internal/adapters/interactive"
	"github.com/trebuchet-org/catapult/internal/adapters/progress"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Shared dependencies
	Artifacts usecase.ArtifactRepository
	Selector  *interactive.SelectorAdapter
	Reporter  *progress.Reporter

	// Use cases
	DeployUnit   *usecase.DeployUnit
	AddressOf    *usecase.AddressOf
	RunPlan      *usecase.RunPlan
	ListLedger   *usecase.ListLedger
	VerifyLedger *usecase.VerifyLedger
	PruneLedger  *usecase.PruneLedger
	ListNetworks *usecase.ListNetworks
	ShowLinks    *usecase.ShowLinks
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	artifacts usecase.ArtifactRepository,
	selector *interactive.SelectorAdapter,
	reporter *progress.Reporter,
	deployUnit *usecase.DeployUnit,
	addressOf *usecase.AddressOf,
	runPlan *usecase.RunPlan,
	listLedger *usecase.ListLedger,
	verifyLedger *usecase.VerifyLedger,
	pruneLedger *usecase.PruneLedger,
	listNetworks *usecase.ListNetworks,
	showLinks *usecase.ShowLinks,
) (*App, error) {
	return &App{
		Config:       cfg,
		Artifacts:    artifacts,
		Selector:     selector,
		Reporter:     reporter,
		DeployUnit:   deployUnit,
		AddressOf:    addressOf,
		RunPlan:      runPlan,
		ListLedger:   listLedger,
		VerifyLedger: verifyLedger,
		PruneLedger:  pruneLedger,
		ListNetworks: listNetworks,
		ShowLinks:    showLinks,
	}, nil
}
