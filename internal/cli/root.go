package cli

import (
	"github.com/alexanderramin/chronicle/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to the service interfaces used by CLI commands.
type App struct {
	Reconcile service.ReconcileService
	Ledger    service.LedgerService

	// IsInteractive reports whether stdin is a terminal; destructive
	// commands only prompt when it returns true.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "chronicle" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "chronicle",
		Short: "Reconcile time-tracking entries against commit and ticket evidence",
	}

	root.AddCommand(
		newRunCmd(app),
		newMatchCmd(app),
		newLedgerCmd(app),
	)

	return root
}
