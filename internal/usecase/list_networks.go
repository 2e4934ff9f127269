package usecase

import (
	"context"
	"sort"

	"github.com/trebuchet-org/catapult/internal/domain/config"
)

// ListNetworksParams contains parameters for listing networks
type ListNetworksParams struct{}

// ListNetworksResult contains the result of listing networks
type ListNetworksResult struct {
	Networks []NetworkStatus
	Current  string
}

// NetworkStatus describes one configured network
type NetworkStatus struct {
	Name      string
	RPCURL    string
	ChainID   uint64
	Overrides int
	Local     bool
}

// ListNetworks is a use case for listing configured networks
type ListNetworks struct {
	cfg *config.RuntimeConfig
}

// NewListNetworks creates a new ListNetworks use case
func NewListNetworks(cfg *config.RuntimeConfig) *ListNetworks {
	return &ListNetworks{cfg: cfg}
}

// Run executes the use case
func (uc *ListNetworks) Run(ctx context.Context, params ListNetworksParams) (*ListNetworksResult, error) {
	result := &ListNetworksResult{}
	if uc.cfg.Network != nil {
		result.Current = uc.cfg.Network.Name
	}
	if uc.cfg.ProjectConfig == nil {
		return result, nil
	}

	for name, nc := range uc.cfg.ProjectConfig.Networks {
		n := config.Network{Name: name, RPCURL: nc.RPCURL, ChainID: nc.ChainID}
		result.Networks = append(result.Networks, NetworkStatus{
			Name:      name,
			RPCURL:    nc.RPCURL,
			ChainID:   nc.ChainID,
			Overrides: len(nc.Overrides),
			Local:     n.IsLocal(),
		})
	}
	sort.Slice(result.Networks, func(i, j int) bool {
		return result.Networks[i].Name < result.Networks[j].Name
	})

	return result, nil
}

// ShowLinksResult contains the link references of every linked contract
type ShowLinksResult struct {
	ArtifactsDir string
	Contracts    []string
	Links        map[string][]string
}

// ShowLinks resolves library link references from the artifact directory
type ShowLinks struct {
	cfg      *config.RuntimeConfig
	resolver LinkReferenceResolver
	builder  ArtifactBuilder
}

// NewShowLinks creates a new ShowLinks use case
func NewShowLinks(cfg *config.RuntimeConfig, resolver LinkReferenceResolver, builder ArtifactBuilder) *ShowLinks {
	return &ShowLinks{cfg: cfg, resolver: resolver, builder: builder}
}

// Run executes the use case
func (uc *ShowLinks) Run(ctx context.Context) (*ShowLinksResult, error) {
	if uc.cfg.Build && uc.builder != nil {
		if err := uc.builder.Build(ctx); err != nil {
			return nil, err
		}
	}

	links, err := uc.resolver.Resolve(uc.cfg.ArtifactsDir)
	if err != nil {
		return nil, err
	}

	contracts := make([]string, 0, len(links))
	for name := range links {
		contracts = append(contracts, name)
	}
	sort.Strings(contracts)

	return &ShowLinksResult{
		ArtifactsDir: uc.cfg.ArtifactsDir,
		Contracts:    contracts,
		Links:        links,
	}, nil
}
