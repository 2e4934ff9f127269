package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
)

// prepareBroadcast builds artifacts when requested and asks for confirmation before
// transactions go to a non-local network.
func prepareBroadcast(
	ctx context.Context,
	cfg *config.RuntimeConfig,
	builder ArtifactBuilder,
	confirmer BroadcastConfirmer,
	summary string,
) error {
	if cfg.Network == nil {
		return fmt.Errorf("no network selected, use --network")
	}

	if cfg.Build && builder != nil {
		if err := builder.Build(ctx); err != nil {
			return fmt.Errorf("build failed: %w", err)
		}
	}

	if cfg.Network.IsLocal() || cfg.Yes || cfg.NonInteractive || confirmer == nil {
		return nil
	}

	ok, err := confirmer.ConfirmBroadcast(ctx, cfg.Network.Name, summary)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrCancelled
	}
	return nil
}

// resolveAddressArg accepts "@Name" references to recorded units or hex addresses
func resolveAddressArg(d *Deployer, value string) (common.Address, error) {
	if ref, ok := strings.CutPrefix(value, "@"); ok {
		return d.AddressOf(ref)
	}
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("%w: %q", domain.ErrInvalidAddress, value)
	}
	return common.HexToAddress(value), nil
}

// resolveArgs replaces "@Name" strings with recorded addresses, inside
// lists and tuple maps at any nesting depth
func resolveArgs(d *Deployer, args []any) ([]any, error) {
	out := make([]any, len(args))
	for i, arg := range args {
		v, err := resolveArg(d, arg)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func resolveArg(d *Deployer, arg any) (any, error) {
	switch v := arg.(type) {
	case string:
		if strings.HasPrefix(v, "@") {
			return resolveAddressArg(d, v)
		}
		return v, nil
	case []any:
		return resolveArgs(d, v)
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, field := range v {
			resolved, err := resolveArg(d, field)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", key, err)
			}
			out[key] = resolved
		}
		return out, nil
	default:
		return v, nil
	}
}
