package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/catapult/internal/cli/render"
	"github.com/trebuchet-org/catapult/internal/domain/models"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// NewLedgerCmd creates the ledger command group
func NewLedgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect and edit the deployment ledger of a network",
	}

	cmd.AddCommand(newLedgerListCmd())
	cmd.AddCommand(newLedgerVerifyCmd())
	cmd.AddCommand(newLedgerPruneCmd())

	return cmd
}

func newLedgerListCmd() *cobra.Command {
	var recordType string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded deployments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.ListLedgerParams{Type: models.RecordType(recordType)}
			switch params.Type {
			case "", models.PresetRecordType, models.PlainRecordType, models.UpgradeableRecordType:
			default:
				return fmt.Errorf("unknown record type %q (preset, plain, upgradeable)", recordType)
			}

			result, err := app.ListLedger.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			return render.NewLedgerRenderer(cmd.OutOrStdout()).RenderLedger(result)
		},
	}

	cmd.Flags().StringVar(&recordType, "type", "", "Only list records of this type (preset, plain, upgradeable)")

	return cmd
}

func newLedgerVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check that code exists at every recorded address",
		Long: `Check that every recorded address (and every proxy implementation) holds
contract code on the selected network. Records without code usually mean the
network was reset; prune them to deploy again.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			defer app.Reporter.Stop()
			result, err := app.VerifyLedger.Run(cmd.Context())
			if err != nil {
				return err
			}

			return render.NewLedgerRenderer(cmd.OutOrStdout()).RenderVerify(result)
		},
	}
}

func newLedgerPruneCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "prune [names...]",
		Short: "Forget recorded deployments so they are deployed again",
		Long: `Remove records from the ledger of the selected network. Nothing is changed
on-chain. Without names an interactive selection is shown.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.PruneLedger.Run(cmd.Context(), usecase.PruneLedgerParams{Names: args, DryRun: dryRun})
			if err != nil {
				return err
			}

			return render.NewLedgerRenderer(cmd.OutOrStdout()).RenderPruned(result)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be removed without saving")

	return cmd
}
