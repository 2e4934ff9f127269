package config

// ProjectConfig represents the raw catapult.toml structure
type ProjectConfig struct {
	ArtifactsDir   string                   `toml:"artifacts_dir"`
	DeploymentsDir string                   `toml:"deployments_dir"`
	ProxyUnit      string                   `toml:"proxy_unit"`
	BuildCommand   []string                 `toml:"build_command"`
	Networks       map[string]NetworkConfig `toml:"networks"`
	Senders        map[string]SenderConfig  `toml:"senders"`
}

// NetworkConfig is a [networks.<name>] table
type NetworkConfig struct {
	RPCURL    string            `toml:"rpc_url"`
	ChainID   uint64            `toml:"chain_id"`
	Overrides map[string]string `toml:"overrides"`
}

// SenderConfig is a [senders.<name>] table
type SenderConfig struct {
	PrivateKey string `toml:"private_key"` //nolint:gosec // holds env var reference, not a literal secret
}

const (
	DefaultArtifactsDir   = "artifacts/contracts"
	DefaultDeploymentsDir = "deployments"
	DefaultProxyUnit      = "TransparentUpgradeableProxy"
	DefaultSender         = "default"
	ProjectFile           = "catapult.toml"
)

// DefaultBuildCommand compiles a Hardhat project
var DefaultBuildCommand = []string{"npx", "hardhat", "compile"}
