package usecase

import (
	"context"
	"log/slog"

	"github.com/trebuchet-org/catapult/internal/domain/models"
)

// LoggingHooks logs every deployment at debug level
type LoggingHooks struct {
	log *slog.Logger
}

// NewLoggingHooks creates hooks that write to log
func NewLoggingHooks(log *slog.Logger) *LoggingHooks {
	return &LoggingHooks{log: log}
}

func (h *LoggingHooks) BeforeDeploy(ctx context.Context, name string, factory *models.Factory, args []any) error {
	h.log.DebugContext(ctx, "before deploy", "name", name, "unit", factory.Unit, "args", len(args), "libraries", len(factory.Links))
	return nil
}

func (h *LoggingHooks) AfterDeploy(ctx context.Context, name string, handle *models.Handle, args []any) error {
	h.log.DebugContext(ctx, "after deploy", "name", name, "address", handle.Address.Hex())
	return nil
}

var (
	_ DeployHooks = NopHooks{}
	_ DeployHooks = HookChain(nil)
	_ DeployHooks = (*LoggingHooks)(nil)
)
