package models

import (
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

// LinkSlot is a byte range in unlinked bytecode reserved for a library address
type LinkSlot struct {
	Start  int `json:"start"`
	Length int `json:"length"`
}

// Artifact represents a Hardhat compilation artifact
type Artifact struct {
	ContractName string          `json:"contractName"`
	SourceName   string          `json:"sourceName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     string          `json:"bytecode"`
	// LinkReferences maps source file -> library name -> slots
	LinkReferences map[string]map[string][]LinkSlot `json:"linkReferences"`
}

// Contract is an indexed artifact on disk
type Contract struct {
	Name         string
	ArtifactPath string
	Artifact     *Artifact
}

// Factory is a deployable unit with its library bindings applied
type Factory struct {
	Unit     string
	ABI      *abi.ABI
	Bytecode []byte
	Links    map[string]common.Address
}

// Handle is a live reference to a deployed unit
type Handle struct {
	Unit     string
	Address  common.Address
	ABI      *abi.ABI
	Contract *bind.BoundContract
}

// Receipt is the confirmation of a deployment transaction
type Receipt struct {
	TxHash      common.Hash
	BlockNumber *big.Int
	GasUsed     uint64
}
