package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tallybook-dev/tallybook/internal/config"
	"github.com/tallybook-dev/tallybook/internal/ledger"
)

func newInitCommand() *cobra.Command {
	var account string
	var currency string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new tallybook workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runInit(cmd.Context(), absDir, account, currency)
		},
	}

	cmd.Flags().StringVar(&account, "account", "Checking", "name of the first account")
	cmd.Flags().StringVar(&currency, "currency", "USD", "account currency")

	return cmd
}

func runInit(ctx context.Context, dir, account, currency string) error {
	if err := os.MkdirAll(filepath.Join(dir, "logs"), 0o755); err != nil {
		return fmt.Errorf("creating workspace: %w", err)
	}

	cfg := config.Default()
	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	db, err := ledger.Open(filepath.Join(dir, cfg.Ledger.Path))
	if err != nil {
		return err
	}
	defer db.Close()

	store := ledger.NewStore(db)
	if err := store.Seed(ctx); err != nil {
		return err
	}
	if _, err := store.CreateAccount(ctx, account, currency); err != nil {
		return err
	}

	fmt.Printf("Initialized tallybook workspace at %s (account %q)\n", dir, account)
	return nil
}
