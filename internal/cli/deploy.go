package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/catapult/internal/cli/render"
	"github.com/trebuchet-org/catapult/internal/usecase"
	"gopkg.in/yaml.v3"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	var (
		alias       string
		signer      string
		force       bool
		upgradeable bool
		admin       string
	)

	cmd := &cobra.Command{
		Use:   "deploy [unit] [constructor args...]",
		Short: "Deploy a contract unless it is already in the ledger",
		Long: `Deploy a compiled contract to the selected network and record it in the ledger.

Libraries the contract links against are deployed first (or reused from the
ledger). A unit that is already recorded is skipped unless --force is given.

Constructor arguments are given positionally. Use @Name to pass the recorded
address of another unit, and YAML/JSON syntax for arrays and tuples.

Examples:
  # Deploy a unit, skipping it if it is already recorded
  catapult deploy UniswapV2Factory 0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266 -n sepolia

  # Deploy under a second name
  catapult deploy Token --as TokenB "Token B" 1e24 -n sepolia

  # Reference a recorded unit
  catapult deploy UniswapV2Router02 @UniswapV2Factory @WETH9 -n sepolia

  # Deploy behind a transparent proxy
  catapult deploy Vault --upgradeable --admin @ProxyAdmin -n sepolia`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			if app.Config.Network == nil {
				return fmt.Errorf("no network selected, --network flag is required")
			}

			var unit string
			if len(args) > 0 {
				unit, args = args[0], args[1:]
			} else {
				names, err := app.Artifacts.ContractNames(cmd.Context())
				if err != nil {
					return err
				}
				unit, err = app.Selector.SelectUnit(cmd.Context(), names, "Select unit to deploy")
				if err != nil {
					return err
				}
			}

			params := usecase.DeployUnitParams{
				Unit:        unit,
				Alias:       alias,
				Signer:      signer,
				Args:        parseArgs(args),
				Force:       force,
				Upgradeable: upgradeable,
				Admin:       admin,
			}

			defer app.Reporter.Stop()
			result, err := app.DeployUnit.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			if err := render.NewDeployRenderer(cmd.OutOrStdout()).RenderDeployUnit(result); err != nil {
				return err
			}
			return result.JobError
		},
	}

	cmd.Flags().StringVar(&alias, "as", "", "Record the deployment under this name")
	cmd.Flags().StringVar(&signer, "signer", "", "Sender to deploy from (a [senders] entry)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Deploy even if the unit is already recorded")
	cmd.Flags().BoolVar(&upgradeable, "upgradeable", false, "Deploy behind a transparent upgradeable proxy")
	cmd.Flags().StringVar(&admin, "admin", "", "Proxy admin address or @Name (with --upgradeable)")
	cmd.MarkFlagsMutuallyExclusive("as", "upgradeable")
	cmd.MarkFlagsMutuallyExclusive("signer", "upgradeable")

	return cmd
}

// parseArgs turns CLI constructor arguments into plan values. Arrays and
// objects are parsed as YAML, anything else is passed through as a string.
func parseArgs(args []string) []any {
	values := make([]any, len(args))
	for i, arg := range args {
		values[i] = arg

		trimmed := strings.TrimSpace(arg)
		if !strings.HasPrefix(trimmed, "[") && !strings.HasPrefix(trimmed, "{") {
			continue
		}
		var v any
		if err := yaml.Unmarshal([]byte(trimmed), &v); err == nil {
			values[i] = v
		}
	}
	return values
}
