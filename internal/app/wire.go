//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/catapult/internal/adapters"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper) (*App, error) {
	wire.Build(
		// Configuration and logging
		ConfigSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewDeployer,
		usecase.NewDeployUnit,
		usecase.NewAddressOf,
		usecase.NewRunPlan,
		usecase.NewListLedger,
		usecase.NewVerifyLedger,
		usecase.NewPruneLedger,
		usecase.NewListNetworks,
		usecase.NewShowLinks,

		// App
		NewApp,
	)
	return nil, nil
}
