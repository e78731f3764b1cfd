package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexanderramin/chronicle/internal/cli"
	"github.com/alexanderramin/chronicle/internal/db"
	"github.com/alexanderramin/chronicle/internal/intelligence"
	"github.com/alexanderramin/chronicle/internal/llm"
	"github.com/alexanderramin/chronicle/internal/repository"
	"github.com/alexanderramin/chronicle/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Ledger path: env var or default ~/.chronicle/chronicle.db
	dbPath := os.Getenv("CHRONICLE_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".chronicle", "chronicle.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening ledger database: %w", err)
	}
	defer database.Close()

	ledgerRepo := repository.NewSQLiteLedgerRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	llmCfg := llm.LoadConfig()
	var observer llm.Observer = llm.NoopObserver{}
	if llmCfg.LogCalls {
		observer = llm.NewLogObserver(os.Stderr)
	}
	client := llm.NewOllamaClient(llmCfg, observer)

	reconcileSvc := service.NewReconcileService(
		ledgerRepo,
		uow,
		intelligence.NewSemanticService(client),
		intelligence.NewDecomposeService(client),
		intelligence.NewEnrichService(client),
		intelligence.NewPatternService(client),
		service.NewLogPhaseObserver(os.Stderr),
	)

	app := &cli.App{
		Reconcile: reconcileSvc,
		Ledger:    service.NewLedgerService(ledgerRepo),
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
