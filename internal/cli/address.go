package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/catapult/internal/cli/render"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// NewAddressCmd creates the address command
func NewAddressCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "address <unit>",
		Short: "Print the recorded address of a unit",
		Long: `Print the address recorded in the ledger of the selected network.

Overrides from catapult.toml are included. Use --short to print only the
address, for example in shell scripts:

  ROUTER=$(catapult address UniswapV2Router02 -n sepolia --short)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.AddressOf.Run(cmd.Context(), usecase.AddressOfParams{Unit: args[0]})
			if err != nil {
				return err
			}

			return render.NewDeployRenderer(cmd.OutOrStdout()).RenderAddress(result, short)
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only the address")

	return cmd
}
