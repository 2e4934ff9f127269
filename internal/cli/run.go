package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/catapult/internal/cli/render"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// NewRunCmd creates the run command
func NewRunCmd() *cobra.Command {
	var validateOnly bool

	cmd := &cobra.Command{
		Use:   "run <plan.yaml>",
		Short: "Execute a deployment plan",
		Long: `Execute the steps of a YAML deployment plan in order.

Every deployment is recorded as soon as it is mined. If a step fails the
ledger is still saved, and running the plan again resumes after the last
recorded unit.

Plan format:
  steps:
    - unit: UniswapV2Factory
      args: ["0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"]
    - unit: UniswapV2Router02
      args: ["@UniswapV2Factory", "@WETH9"]
    - action: deploy-as
      unit: Token
      alias: TokenB
      args: ["Token B", "1e24"]
    - action: deploy-upgradeable
      unit: Vault
      admin: "@ProxyAdmin"

Actions: deploy, deploy-or-skip (default), deploy-as, deploy-with, deploy-upgradeable.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			if validateOnly {
				plan, err := usecase.ParsePlanFile(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess(fmt.Sprintf("%s: %d valid step(s)", args[0], len(plan.Steps))))
				return nil
			}

			if app.Config.Network == nil {
				return fmt.Errorf("no network selected, --network flag is required")
			}

			defer app.Reporter.Stop()
			result, err := app.RunPlan.Run(cmd.Context(), usecase.RunPlanParams{PlanPath: args[0]})
			if err != nil {
				return err
			}

			if err := render.NewDeployRenderer(cmd.OutOrStdout()).RenderPlan(result); err != nil {
				return err
			}
			return result.JobError
		},
	}

	cmd.Flags().BoolVar(&validateOnly, "validate", false, "Only parse and validate the plan")

	return cmd
}
