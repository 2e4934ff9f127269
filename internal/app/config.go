package app

import (
	"github.com/google/wire"
	"github.com/trebuchet-org/catapult/internal/config"
	"github.com/trebuchet-org/catapult/internal/logging"
)

// ConfigSet resolves the runtime configuration from viper and builds the logger
var ConfigSet = wire.NewSet(
	config.Provider,
	logging.LoggingSet,
)
