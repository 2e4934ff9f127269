package config

import (
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot    string
	ArtifactsDir   string // absolute
	DeploymentsDir string // absolute
	ProxyUnit      string
	BuildCommand   []string

	// Context settings
	Network *Network // nil if not specified

	// Execution settings
	Debug          bool
	NonInteractive bool
	Yes            bool // Skip broadcast confirmation
	Build          bool // Run the build command before scanning artifacts
	Timeout        time.Duration

	// Resolved configurations
	ProjectConfig *ProjectConfig
	Senders       map[string]SenderConfig
}

// Network represents a resolved network configuration
type Network struct {
	Name    string
	RPCURL  string
	ChainID uint64
	// Overrides maps unit names to externally deployed addresses
	Overrides map[string]string
}

// IsLocal reports whether the network looks like a local development node
func (n *Network) IsLocal() bool {
	switch n.ChainID {
	case 31337, 1337:
		return true
	}
	return n.Name == "localhost" || n.Name == "hardhat" || n.Name == "local"
}
