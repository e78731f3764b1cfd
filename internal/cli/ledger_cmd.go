package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/chronicle/internal/cli/formatter"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newLedgerCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect or reset the resume ledger",
	}

	cmd.AddCommand(
		newLedgerListCmd(app),
		newLedgerClearCmd(app),
	)

	return cmd
}

func newLedgerListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all ledgered work items",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := app.Ledger.List(context.Background())
			if err != nil {
				return err
			}

			if len(records) == 0 {
				fmt.Println("Ledger is empty.")
				return nil
			}

			fmt.Printf("%s\n", formatter.FormatLedgerList(records))
			return nil
		},
	}
}

func newLedgerClearCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all ledger records (next run re-enriches everything)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			records, err := app.Ledger.List(ctx)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("Ledger is already empty.")
				return nil
			}

			if !force {
				if app.IsInteractive == nil || !app.IsInteractive() {
					return fmt.Errorf("refusing to clear %d ledger records without --force in non-interactive mode", len(records))
				}
				confirmed, err := confirmClear(len(records))
				if err != nil {
					return err
				}
				if !confirmed {
					fmt.Println("Aborted.")
					return nil
				}
			}

			if err := app.Ledger.Clear(ctx); err != nil {
				return err
			}

			fmt.Printf("Cleared %d ledger records.\n", len(records))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation prompt")

	return cmd
}

func confirmClear(count int) (bool, error) {
	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete all %d ledger records?", count)).
				Description("Already-enriched work items will be re-enriched on the next run.").
				Affirmative("Clear").
				Negative("Keep").
				Value(&confirmed),
		),
	)
	if err := form.Run(); err != nil {
		return false, err
	}
	return confirmed, nil
}
