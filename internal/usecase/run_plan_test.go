package usecase_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/models"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

const samplePlan = `
steps:
  - unit: Pair
  - unit: Router
    args: ["@Pair", 3000, "2e18"]
  - action: deploy-as
    unit: Token
    alias: TokenA
    args: ["Token A", "TKA"]
  - action: deploy-with
    signer: ops
    unit: Treasury
  - action: deploy-upgradeable
    unit: Vault
    admin: "@Treasury"
`

func writePlan(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParsePlan(t *testing.T) {
	t.Run("defaults and fields", func(t *testing.T) {
		plan, err := usecase.ParsePlan([]byte(samplePlan))
		require.NoError(t, err)
		require.Len(t, plan.Steps, 5)

		assert.Equal(t, models.ActionDeployOrSkip, plan.Steps[0].Action)
		assert.Equal(t, []any{"@Pair", 3000, "2e18"}, plan.Steps[1].Args)
		assert.Equal(t, "TokenA", plan.Steps[2].RecordName())
		assert.Equal(t, "ops", plan.Steps[3].Signer)
		assert.Equal(t, "@Treasury", plan.Steps[4].Admin)
	})

	tests := []struct {
		name string
		yaml string
	}{
		{"empty plan", "steps: []"},
		{"missing unit", "steps:\n  - action: deploy"},
		{"unknown action", "steps:\n  - action: destroy\n    unit: Pair"},
		{"deploy-as without alias", "steps:\n  - action: deploy-as\n    unit: Token"},
		{"deploy-with without signer", "steps:\n  - action: deploy-with\n    unit: Token"},
		{"upgradeable without admin", "steps:\n  - action: deploy-upgradeable\n    unit: Vault"},
		{"upgradeable with args", "steps:\n  - action: deploy-upgradeable\n    unit: Vault\n    admin: \"@A\"\n    args: [1]"},
		{"not yaml", "steps: [unclosed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := usecase.ParsePlan([]byte(tt.yaml))
			assert.ErrorIs(t, err, domain.ErrInvalidPlan)
		})
	}
}

func TestRunPlan(t *testing.T) {
	ctx := context.Background()

	t.Run("executes every step and resolves references", func(t *testing.T) {
		f := newFixture(nil)
		uc := usecase.NewRunPlan(f.cfg, f.deployer(), nil, nil, nil, discardLogger())

		result, err := uc.Run(ctx, usecase.RunPlanParams{PlanPath: writePlan(t, samplePlan)})
		require.NoError(t, err)
		require.NoError(t, result.JobError)
		require.Len(t, result.Executed, 5)

		pair, _ := f.chain.call("Pair")
		router, _ := f.chain.call("Router")
		assert.Equal(t, []any{pair.Address, 3000, "2e18"}, router.Args)

		treasury, _ := f.chain.call("Treasury")
		assert.Equal(t, "ops", treasury.Signer)

		saved := f.ledgers.saved["testnet"]
		assert.Contains(t, saved, "TokenA")
		assert.NotContains(t, saved, "Token")
		vault, ok := saved["Vault"].(models.UpgradeableRecord)
		require.True(t, ok)
		assert.Equal(t, treasury.Address, vault.Admin)
		assert.Equal(t, 5, result.LedgerLen)
	})

	t.Run("rerun skips recorded units", func(t *testing.T) {
		f := newFixture(nil)
		path := writePlan(t, "steps:\n  - unit: Pair\n  - unit: Router\n    args: [\"@Pair\"]\n")

		_, err := usecase.NewRunPlan(f.cfg, f.deployer(), nil, nil, nil, discardLogger()).Run(ctx, usecase.RunPlanParams{PlanPath: path})
		require.NoError(t, err)
		f.chain.deployed = nil

		result, err := usecase.NewRunPlan(f.cfg, f.deployer(), nil, nil, nil, discardLogger()).Run(ctx, usecase.RunPlanParams{PlanPath: path})
		require.NoError(t, err)
		assert.Empty(t, f.chain.deployed)
		for _, step := range result.Executed {
			assert.True(t, step.Skipped)
		}
	})

	t.Run("references inside tuple fields", func(t *testing.T) {
		f := newFixture(nil)
		plan := "steps:\n  - unit: Pair\n  - unit: Router\n    args: [{pair: \"@Pair\", fees: [\"@Pair\", 3000]}]\n"

		result, err := usecase.NewRunPlan(f.cfg, f.deployer(), nil, nil, nil, discardLogger()).
			Run(ctx, usecase.RunPlanParams{PlanPath: writePlan(t, plan)})
		require.NoError(t, err)
		require.NoError(t, result.JobError)

		pair, _ := f.chain.call("Pair")
		router, _ := f.chain.call("Router")
		assert.Equal(t, []any{map[string]any{
			"pair": pair.Address,
			"fees": []any{pair.Address, 3000},
		}}, router.Args)
	})

	t.Run("unknown reference inside a tuple fails the step", func(t *testing.T) {
		f := newFixture(nil)
		plan := "steps:\n  - unit: Router\n    args: [{pair: \"@Missing\"}]\n"

		result, err := usecase.NewRunPlan(f.cfg, f.deployer(), nil, nil, nil, discardLogger()).
			Run(ctx, usecase.RunPlanParams{PlanPath: writePlan(t, plan)})
		require.NoError(t, err)
		assert.ErrorIs(t, result.JobError, domain.ErrNotDeployed)
		assert.Empty(t, f.chain.deployed)
	})

	t.Run("failure stops the plan and saves progress", func(t *testing.T) {
		f := newFixture(nil)
		f.chain.failOn["Router"] = errors.New("reverted")
		path := writePlan(t, "steps:\n  - unit: Pair\n  - unit: Router\n  - unit: Quoter\n")

		result, err := usecase.NewRunPlan(f.cfg, f.deployer(), nil, nil, nil, discardLogger()).Run(ctx, usecase.RunPlanParams{PlanPath: path})
		require.NoError(t, err)
		require.Error(t, result.JobError)
		assert.Equal(t, "Router", result.FailedAt.Unit)
		assert.Equal(t, []string{"Pair"}, f.chain.units())
		assert.Contains(t, f.ledgers.saved["testnet"], "Pair")
	})

	t.Run("unknown reference fails the step", func(t *testing.T) {
		f := newFixture(nil)
		path := writePlan(t, "steps:\n  - unit: Router\n    args: [\"@Pair\"]\n")

		result, err := usecase.NewRunPlan(f.cfg, f.deployer(), nil, nil, nil, discardLogger()).Run(ctx, usecase.RunPlanParams{PlanPath: path})
		require.NoError(t, err)
		assert.ErrorIs(t, result.JobError, domain.ErrNotDeployed)
		assert.Empty(t, f.chain.deployed)
	})

	t.Run("remote networks ask for confirmation", func(t *testing.T) {
		f := newFixture(nil)
		f.cfg.Network.Name = "sepolia"
		f.cfg.Network.ChainID = 11155111
		confirmer := &MockConfirmer{}
		confirmer.On("ConfirmBroadcast", mock.Anything, "sepolia", mock.Anything).Return(false, nil)

		_, err := usecase.NewRunPlan(f.cfg, f.deployer(), nil, confirmer, nil, discardLogger()).
			Run(ctx, usecase.RunPlanParams{PlanPath: writePlan(t, "steps:\n  - unit: Pair\n")})
		assert.ErrorIs(t, err, domain.ErrCancelled)
		assert.Empty(t, f.chain.deployed)
		confirmer.AssertExpectations(t)
	})

	t.Run("yes skips confirmation", func(t *testing.T) {
		f := newFixture(nil)
		f.cfg.Network.Name = "sepolia"
		f.cfg.Network.ChainID = 11155111
		f.cfg.Yes = true
		confirmer := &MockConfirmer{}

		_, err := usecase.NewRunPlan(f.cfg, f.deployer(), nil, confirmer, nil, discardLogger()).
			Run(ctx, usecase.RunPlanParams{PlanPath: writePlan(t, "steps:\n  - unit: Pair\n")})
		require.NoError(t, err)
		confirmer.AssertNotCalled(t, "ConfirmBroadcast", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestDeployUnit(t *testing.T) {
	ctx := context.Background()

	t.Run("default skips recorded units", func(t *testing.T) {
		f := newFixture(nil)
		addr := common.HexToAddress("0x00000000000000000000000000000000000000aa")
		f.ledgers.seed("testnet", plain("Pair", addr, 1))

		result, err := usecase.NewDeployUnit(f.cfg, f.deployer(), nil, nil, discardLogger()).
			Run(ctx, usecase.DeployUnitParams{Unit: "Pair"})
		require.NoError(t, err)
		assert.True(t, result.Skipped)
		assert.Equal(t, addr, result.Record.Header().Address)
		assert.Empty(t, f.chain.deployed)
	})

	t.Run("force redeploys", func(t *testing.T) {
		f := newFixture(nil)
		f.ledgers.seed("testnet", plain("Pair", common.HexToAddress("0xaa"), 1))

		result, err := usecase.NewDeployUnit(f.cfg, f.deployer(), nil, nil, discardLogger()).
			Run(ctx, usecase.DeployUnitParams{Unit: "Pair", Force: true, Args: []any{"1"}})
		require.NoError(t, err)
		assert.False(t, result.Skipped)
		assert.Equal(t, []string{"Pair"}, f.chain.units())
		assert.Equal(t, f.chain.deployed[0].Address, result.Record.Header().Address)
	})

	t.Run("upgradeable with admin reference", func(t *testing.T) {
		f := newFixture(nil)
		admin := common.HexToAddress("0x00000000000000000000000000000000000000ad")
		f.ledgers.seed("testnet", plain("ProxyAdmin", admin, 1))

		result, err := usecase.NewDeployUnit(f.cfg, f.deployer(), nil, nil, discardLogger()).
			Run(ctx, usecase.DeployUnitParams{Unit: "Vault", Upgradeable: true, Admin: "@ProxyAdmin"})
		require.NoError(t, err)
		require.NoError(t, result.JobError)
		up, ok := result.Record.(models.UpgradeableRecord)
		require.True(t, ok)
		assert.Equal(t, admin, up.Admin)
	})

	t.Run("alias and signer together", func(t *testing.T) {
		f := newFixture(nil)

		result, err := usecase.NewDeployUnit(f.cfg, f.deployer(), nil, nil, discardLogger()).
			Run(ctx, usecase.DeployUnitParams{Unit: "Token", Alias: "TokenB", Signer: "ops"})
		require.NoError(t, err)
		require.NoError(t, result.JobError)

		token, ok := f.chain.call("Token")
		require.True(t, ok)
		assert.Equal(t, "ops", token.Signer)
		assert.Equal(t, "TokenB", result.Name)
		assert.Equal(t, token.Address, result.Record.Header().Address)
		assert.NotContains(t, f.ledgers.saved["testnet"], "Token")
	})

	t.Run("signer skips recorded units", func(t *testing.T) {
		f := newFixture(nil)
		f.ledgers.seed("testnet", plain("Treasury", common.HexToAddress("0xaa"), 1))

		result, err := usecase.NewDeployUnit(f.cfg, f.deployer(), nil, nil, discardLogger()).
			Run(ctx, usecase.DeployUnitParams{Unit: "Treasury", Signer: "ops"})
		require.NoError(t, err)
		assert.True(t, result.Skipped)
		assert.Empty(t, f.chain.deployed)
	})

	t.Run("upgradeable requires admin", func(t *testing.T) {
		f := newFixture(nil)
		_, err := usecase.NewDeployUnit(f.cfg, f.deployer(), nil, nil, discardLogger()).
			Run(ctx, usecase.DeployUnitParams{Unit: "Vault", Upgradeable: true})
		assert.Error(t, err)
	})

	t.Run("invalid admin address", func(t *testing.T) {
		f := newFixture(nil)
		result, err := usecase.NewDeployUnit(f.cfg, f.deployer(), nil, nil, discardLogger()).
			Run(ctx, usecase.DeployUnitParams{Unit: "Vault", Upgradeable: true, Admin: "nope"})
		require.NoError(t, err)
		assert.ErrorIs(t, result.JobError, domain.ErrInvalidAddress)
	})
}

func TestAddressOf(t *testing.T) {
	ctx := context.Background()
	f := newFixture(nil)
	addr := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	f.ledgers.seed("testnet", plain("Pair", addr, 1))

	result, err := usecase.NewAddressOf(f.cfg, f.deployer()).Run(ctx, usecase.AddressOfParams{Unit: "Pair"})
	require.NoError(t, err)
	assert.Equal(t, addr, result.Address)
	assert.Equal(t, "testnet", result.Network)

	_, err = usecase.NewAddressOf(f.cfg, f.deployer()).Run(ctx, usecase.AddressOfParams{Unit: "Router"})
	assert.ErrorIs(t, err, domain.ErrNotDeployed)
	assert.Equal(t, 0, f.ledgers.saves)
}
