package interactive

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/catapult/internal/config"
	"github.com/trebuchet-org/catapult/internal/domain/models"
)

func testRecords() []models.Record {
	return []models.Record{
		models.PlainRecord{RecordHeader: models.RecordHeader{Name: "Pair", Address: common.HexToAddress("0x10")}, DeployedAt: 3},
		models.PresetRecord{RecordHeader: models.RecordHeader{Name: "WETH", Address: common.HexToAddress("0x20")}},
		models.PlainRecord{RecordHeader: models.RecordHeader{Name: "Router", Address: common.HexToAddress("0x30")}, DeployedAt: 4},
	}
}

func press(m multiSelectModel, keys ...string) multiSelectModel {
	for _, key := range keys {
		var msg tea.KeyMsg
		switch key {
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
		}
		next, _ := m.Update(msg)
		m = next.(multiSelectModel)
	}
	return m
}

func TestMultiSelect(t *testing.T) {
	m := initialMultiSelectModel(testRecords(), "Select records")

	t.Run("enter without selection does nothing", func(t *testing.T) {
		got := press(m, "enter")
		assert.False(t, got.done)
	})

	t.Run("toggle and confirm", func(t *testing.T) {
		got := press(initialMultiSelectModel(testRecords(), "Select records"), "down", "down", "space", "up", "up", "space", "enter")
		require.True(t, got.done)
		assert.Equal(t, []string{"Pair", "Router"}, got.chosen())
		assert.Empty(t, got.View())
	})

	t.Run("cursor stays in range", func(t *testing.T) {
		got := press(initialMultiSelectModel(testRecords(), "Select records"), "up", "down", "down", "down", "down")
		assert.Equal(t, 2, got.cursor)
	})

	t.Run("select all toggles", func(t *testing.T) {
		got := press(initialMultiSelectModel(testRecords(), "Select records"), "a")
		assert.Len(t, got.chosen(), 3)
		got = press(got, "a")
		assert.Empty(t, got.chosen())
	})

	t.Run("quit", func(t *testing.T) {
		got := press(initialMultiSelectModel(testRecords(), "Select records"), "q")
		assert.True(t, got.quit)
		assert.False(t, got.done)
	})

	t.Run("view lists records", func(t *testing.T) {
		view := initialMultiSelectModel(testRecords(), "Select records").View()
		assert.Contains(t, view, "Select records")
		assert.Contains(t, view, "WETH")
		assert.Contains(t, view, "(preset)")
		assert.Contains(t, view, common.HexToAddress("0x30").Hex())
	})
}

func TestSelectorAdapter_NonInteractive(t *testing.T) {
	s := NewSelectorAdapter(&config.RuntimeConfig{NonInteractive: true})
	ctx := context.Background()

	_, err := s.SelectRecords(ctx, testRecords())
	assert.Error(t, err)

	_, err = s.ConfirmBroadcast(ctx, "sepolia", "Deploy Pair")
	assert.Error(t, err)

	_, err = s.SelectUnit(ctx, []string{"Pair", "Router"}, "Select unit")
	assert.Error(t, err)
}

func TestSelectorAdapter_SingleUnit(t *testing.T) {
	s := NewSelectorAdapter(&config.RuntimeConfig{})
	name, err := s.SelectUnit(context.Background(), []string{"Pair"}, "Select unit")
	require.NoError(t, err)
	assert.Equal(t, "Pair", name)
}

func TestFuzzySearch(t *testing.T) {
	items := []string{"UniswapV2Pair", "UniswapV2Router02", "WETH9"}
	search := createFuzzySearchFunc(items)

	assert.True(t, search("", 2))
	assert.True(t, search("router", 1))
	assert.True(t, search("uv2p", 0))
	assert.False(t, search("router", 2))
}
