package chain

import (
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/models"
)

// LinkBytecode writes each bound library address into every slot the artifact
// reserves for it and returns the decoded bytecode.
func LinkBytecode(artifact *models.Artifact, links map[string]common.Address) ([]byte, error) {
	code := strings.TrimPrefix(strings.TrimSpace(artifact.Bytecode), "0x")
	if code == "" {
		return nil, fmt.Errorf("%s has no bytecode (abstract contract or interface?)", artifact.ContractName)
	}

	// sources are visited in a stable order so errors are deterministic
	sources := make([]string, 0, len(artifact.LinkReferences))
	for source := range artifact.LinkReferences {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	hexCode := []byte(code)
	for _, source := range sources {
		libs := artifact.LinkReferences[source]
		names := make([]string, 0, len(libs))
		for name := range libs {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, lib := range names {
			addr, ok := links[lib]
			if !ok {
				return nil, fmt.Errorf("%s links %s:%s: %w", artifact.ContractName, source, lib, domain.ErrMissingLibrary)
			}
			addrHex := strings.ToLower(addr.Hex()[2:])

			for _, slot := range libs[lib] {
				if slot.Length != common.AddressLength {
					return nil, fmt.Errorf("%s: link slot for %s has length %d, want %d",
						artifact.ContractName, lib, slot.Length, common.AddressLength)
				}
				start, end := slot.Start*2, (slot.Start+slot.Length)*2
				if start < 0 || end > len(hexCode) {
					return nil, fmt.Errorf("%s: link slot for %s at %d is outside the bytecode",
						artifact.ContractName, lib, slot.Start)
				}
				copy(hexCode[start:end], addrHex)
			}
		}
	}

	linked := string(hexCode)
	if idx := strings.Index(linked, "__"); idx >= 0 {
		return nil, fmt.Errorf("%s: unresolved library placeholder at byte %d: %w",
			artifact.ContractName, idx/2, domain.ErrMissingLibrary)
	}
	bytecode, err := hex.DecodeString(linked)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid bytecode: %w", artifact.ContractName, err)
	}
	return bytecode, nil
}
