package models

import (
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalRecord_UpgradeableShape(t *testing.T) {
	rec := UpgradeableRecord{
		RecordHeader:   RecordHeader{Name: "Vault", Address: common.HexToAddress("0x30")},
		DeployedAt:     14,
		Admin:          common.HexToAddress("0x31"),
		Implementation: common.HexToAddress("0x32"),
	}

	data, err := MarshalRecord(rec)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "upgradeable", raw["type"])
	assert.Equal(t, "Vault", raw["name"])
	assert.EqualValues(t, 14, raw["deployedAt"])
	deps, ok := raw["dependencies"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "0x0000000000000000000000000000000000000031", deps["admin"])
	assert.Equal(t, "0x0000000000000000000000000000000000000032", deps["implementation"])

	decoded, err := UnmarshalRecord(data)
	require.NoError(t, err)
	assert.Equal(t, rec, decoded)
}

func TestMarshalRecord_PresetOmitsDeploymentFields(t *testing.T) {
	data, err := MarshalRecord(PresetRecord{RecordHeader: RecordHeader{Name: "WETH", Address: common.HexToAddress("0x20")}})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "deployedAt")
	assert.NotContains(t, string(data), "dependencies")
}

func TestUnmarshalRecord(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		rec, err := UnmarshalRecord([]byte(`{"type":"plain","name":"Pair","address":"0x0000000000000000000000000000000000000010","deployedAt":12}`))
		require.NoError(t, err)
		assert.Equal(t, PlainRecordType, rec.Type())
		block, ok := DeployedAtBlock(rec)
		assert.True(t, ok)
		assert.Equal(t, uint64(12), block)
	})

	t.Run("preset has no block", func(t *testing.T) {
		rec, err := UnmarshalRecord([]byte(`{"type":"preset","name":"WETH","address":"0x0000000000000000000000000000000000000020"}`))
		require.NoError(t, err)
		_, ok := DeployedAtBlock(rec)
		assert.False(t, ok)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := UnmarshalRecord([]byte(`{"type":"beacon","name":"X","address":"0x0000000000000000000000000000000000000020"}`))
		assert.ErrorContains(t, err, "unknown record type")
	})

	t.Run("upgradeable without dependencies", func(t *testing.T) {
		_, err := UnmarshalRecord([]byte(`{"type":"upgradeable","name":"Vault","address":"0x0000000000000000000000000000000000000030"}`))
		assert.Error(t, err)
	})

	t.Run("malformed address", func(t *testing.T) {
		_, err := UnmarshalRecord([]byte(`{"type":"plain","name":"Pair","address":"nope"}`))
		assert.Error(t, err)
	})
}

func TestPlanStep_RecordName(t *testing.T) {
	assert.Equal(t, "Pair", (&PlanStep{Action: ActionDeploy, Unit: "Pair", Alias: "Ignored"}).RecordName())
	assert.Equal(t, "USDC", (&PlanStep{Action: ActionDeployAs, Unit: "Token", Alias: "USDC"}).RecordName())
}
