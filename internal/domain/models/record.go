package models

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// RecordType identifies the variant of a deployment record
type RecordType string

const (
	// PresetRecordType is an address supplied by configuration, never deployed
	PresetRecordType RecordType = "preset"
	// PlainRecordType is a contract deployed directly
	PlainRecordType RecordType = "plain"
	// UpgradeableRecordType is a contract deployed behind a proxy
	UpgradeableRecordType RecordType = "upgradeable"
)

// RecordHeader holds the fields shared by every record variant
type RecordHeader struct {
	Name    string
	Address common.Address
}

// Record is a ledger entry. The concrete type is one of PresetRecord,
// PlainRecord or UpgradeableRecord.
type Record interface {
	Type() RecordType
	Header() RecordHeader
	sealed()
}

// PresetRecord is an externally supplied address
type PresetRecord struct {
	RecordHeader
}

// PlainRecord is a freshly deployed contract
type PlainRecord struct {
	RecordHeader
	DeployedAt uint64
}

// UpgradeableRecord is a proxy deployment. Address is the proxy address.
type UpgradeableRecord struct {
	RecordHeader
	DeployedAt     uint64
	Admin          common.Address
	Implementation common.Address
}

func (PresetRecord) Type() RecordType      { return PresetRecordType }
func (PlainRecord) Type() RecordType       { return PlainRecordType }
func (UpgradeableRecord) Type() RecordType { return UpgradeableRecordType }

func (r PresetRecord) Header() RecordHeader      { return r.RecordHeader }
func (r PlainRecord) Header() RecordHeader       { return r.RecordHeader }
func (r UpgradeableRecord) Header() RecordHeader { return r.RecordHeader }

func (PresetRecord) sealed()      {}
func (PlainRecord) sealed()       {}
func (UpgradeableRecord) sealed() {}

// DeployedAtBlock returns the deployment block for deployed variants.
func DeployedAtBlock(r Record) (uint64, bool) {
	switch rec := r.(type) {
	case PlainRecord:
		return rec.DeployedAt, true
	case UpgradeableRecord:
		return rec.DeployedAt, true
	default:
		return 0, false
	}
}

// recordJSON is the on-disk shape of a record
type recordJSON struct {
	Type         RecordType          `json:"type"`
	Name         string              `json:"name"`
	Address      common.Address      `json:"address"`
	DeployedAt   *uint64             `json:"deployedAt,omitempty"`
	Dependencies *upgradeableDepJSON `json:"dependencies,omitempty"`
}

type upgradeableDepJSON struct {
	Admin          common.Address `json:"admin"`
	Implementation common.Address `json:"implementation"`
}

// MarshalRecord encodes a record into its JSON wire shape
func MarshalRecord(r Record) ([]byte, error) {
	h := r.Header()
	out := recordJSON{
		Type:    r.Type(),
		Name:    h.Name,
		Address: h.Address,
	}
	switch rec := r.(type) {
	case PresetRecord:
	case PlainRecord:
		out.DeployedAt = &rec.DeployedAt
	case UpgradeableRecord:
		out.DeployedAt = &rec.DeployedAt
		out.Dependencies = &upgradeableDepJSON{
			Admin:          rec.Admin,
			Implementation: rec.Implementation,
		}
	default:
		return nil, fmt.Errorf("unsupported record type %T", r)
	}
	return json.Marshal(out)
}

// UnmarshalRecord decodes a record from its JSON wire shape
func UnmarshalRecord(data []byte) (Record, error) {
	var in recordJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, err
	}

	header := RecordHeader{Name: in.Name, Address: in.Address}
	var deployedAt uint64
	if in.DeployedAt != nil {
		deployedAt = *in.DeployedAt
	}

	switch in.Type {
	case PresetRecordType:
		return PresetRecord{RecordHeader: header}, nil
	case PlainRecordType:
		return PlainRecord{RecordHeader: header, DeployedAt: deployedAt}, nil
	case UpgradeableRecordType:
		if in.Dependencies == nil {
			return nil, fmt.Errorf("upgradeable record %q has no dependencies", in.Name)
		}
		return UpgradeableRecord{
			RecordHeader:   header,
			DeployedAt:     deployedAt,
			Admin:          in.Dependencies.Admin,
			Implementation: in.Dependencies.Implementation,
		}, nil
	default:
		return nil, fmt.Errorf("unknown record type %q for %q", in.Type, in.Name)
	}
}
