package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/catapult/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out io.Writer
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer) *NetworksRenderer {
	return &NetworksRenderer{out: out}
}

// RenderNetworksList renders the configured networks
func (r *NetworksRenderer) RenderNetworksList(result *usecase.ListNetworksResult) error {
	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured in catapult.toml [networks]")
		return nil
	}

	fmt.Fprintln(r.out, "🌐 Available Networks:")
	fmt.Fprintln(r.out)

	for _, network := range result.Networks {
		marker := " "
		if network.Name == result.Current {
			marker = okStyle.Sprint("*")
		}
		line := fmt.Sprintf("  %s %s - Chain ID: %d", marker, nameStyle.Sprint(network.Name), network.ChainID)
		if network.ChainID == 0 {
			line = fmt.Sprintf("  %s %s - Chain ID: %s", marker, nameStyle.Sprint(network.Name), faintStyle.Sprint("unchecked"))
		}
		if network.Local {
			line += faintStyle.Sprint(" (local)")
		}
		if network.Overrides > 0 {
			line += warnStyle.Sprintf(" [%d override(s)]", network.Overrides)
		}
		fmt.Fprintln(r.out, line)
		fmt.Fprintf(r.out, "      %s\n", faintStyle.Sprint(network.RPCURL))
	}
	return nil
}

// RenderLinks renders the library link references found in the artifacts
func (r *NetworksRenderer) RenderLinks(result *usecase.ShowLinksResult) error {
	if len(result.Contracts) == 0 {
		fmt.Fprintf(r.out, "No contracts link libraries in %s\n", result.ArtifactsDir)
		return nil
	}

	for _, name := range result.Contracts {
		fmt.Fprintln(r.out, nameStyle.Sprint(name))
		for _, lib := range result.Links[name] {
			fmt.Fprintf(r.out, "  └─ %s\n", addressStyle.Sprint(lib))
		}
	}
	return nil
}
