package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// rpcRefPattern matches an rpc_url that is nothing but a ${VAR} reference
var rpcRefPattern = regexp.MustCompile(`^\$\{([A-Za-z_][A-Za-z0-9_]*)\}$`)

// rpcFallbackVar names the variable consulted for a network without rpc_url,
// e.g. celo-sepolia -> CELO_SEPOLIA_RPC_URL
func rpcFallbackVar(networkName string) string {
	name := strings.NewReplacer("-", "_", ".", "_").Replace(strings.ToUpper(networkName))
	return name + "_RPC_URL"
}

// resolveRPCURL expands the rpc_url of the selected network.
//   - empty: <NETWORK>_RPC_URL must be set
//   - ${VAR}: VAR must be set
//   - anything else is expanded with unset variables left empty
func resolveRPCURL(networkName, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		envVar := rpcFallbackVar(networkName)
		if url := os.Getenv(envVar); url != "" {
			return url, nil
		}
		return "", fmt.Errorf("network '%s' has no rpc_url and %s is not set", networkName, envVar)
	}

	if m := rpcRefPattern.FindStringSubmatch(raw); m != nil {
		url := os.Getenv(m[1])
		if url == "" {
			return "", fmt.Errorf("rpc_url of network '%s' references %s which is not set", networkName, m[1])
		}
		return url, nil
	}

	return os.ExpandEnv(raw), nil
}
