package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
)

// loadEnvFiles loads .env files from the project root for variable expansion
func loadEnvFiles(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				// Log warning but don't fail
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

// loadProjectConfig loads and parses catapult.toml.
// A missing file yields the default configuration.
func loadProjectConfig(projectRoot string) (*config.ProjectConfig, error) {
	loadEnvFiles(projectRoot)

	cfg := &config.ProjectConfig{}
	path := filepath.Join(projectRoot, config.ProjectFile)
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", config.ProjectFile, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	applyProjectDefaults(cfg)

	// rpc_url stays raw until the network is selected
	for name, network := range cfg.Networks {
		for unit, addr := range network.Overrides {
			addr = os.ExpandEnv(addr)
			if !common.IsHexAddress(addr) {
				return nil, fmt.Errorf("override %s on network %s: %w: %q", unit, name, domain.ErrInvalidAddress, addr)
			}
			network.Overrides[unit] = addr
		}
		cfg.Networks[name] = network
	}

	for name, sender := range cfg.Senders {
		sender.PrivateKey = os.ExpandEnv(sender.PrivateKey)
		cfg.Senders[name] = sender
	}

	return cfg, nil
}

func applyProjectDefaults(cfg *config.ProjectConfig) {
	if cfg.ArtifactsDir == "" {
		cfg.ArtifactsDir = config.DefaultArtifactsDir
	}
	if cfg.DeploymentsDir == "" {
		cfg.DeploymentsDir = config.DefaultDeploymentsDir
	}
	if cfg.ProxyUnit == "" {
		cfg.ProxyUnit = config.DefaultProxyUnit
	}
	if len(cfg.BuildCommand) == 0 {
		cfg.BuildCommand = append([]string(nil), config.DefaultBuildCommand...)
	}
	if cfg.Networks == nil {
		cfg.Networks = make(map[string]config.NetworkConfig)
	}
	if cfg.Senders == nil {
		cfg.Senders = make(map[string]config.SenderConfig)
	}
}

// resolveNetwork looks up a configured network by name
func resolveNetwork(cfg *config.ProjectConfig, name string) (*config.Network, error) {
	nc, ok := cfg.Networks[name]
	if !ok {
		return nil, fmt.Errorf("network '%s' not found in %s [networks]", name, config.ProjectFile)
	}
	rpcURL, err := resolveRPCURL(name, nc.RPCURL)
	if err != nil {
		return nil, err
	}

	overrides := make(map[string]string, len(nc.Overrides))
	for unit, addr := range nc.Overrides {
		overrides[unit] = addr
	}

	return &config.Network{
		Name:      name,
		RPCURL:    rpcURL,
		ChainID:   nc.ChainID,
		Overrides: overrides,
	}, nil
}

// resolvePath makes p absolute relative to the project root
func resolvePath(projectRoot, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(projectRoot, p)
}
