package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tallybook-dev/tallybook/internal/auditlog"
	"github.com/tallybook-dev/tallybook/internal/importer"
	"github.com/tallybook-dev/tallybook/internal/match"
)

func newImportCommand() *cobra.Command {
	var dir, account, category string
	var accept []string

	cmd := &cobra.Command{
		Use:   "import <statement-file>",
		Short: "Reconcile a statement and import the accepted records",
		Long: `Reconcile a statement against an account and persist the accepted
classification groups. Nothing is imported implicitly: exact matches are
already in the ledger and are only written when --accept exact is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(dir)
			if err != nil {
				return err
			}
			defer ws.Close()

			return runImport(cmd, ws, account, category, args[0], accept)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "workspace directory")
	cmd.Flags().StringVar(&account, "account", "", "account name (required)")
	_ = cmd.MarkFlagRequired("account")
	cmd.Flags().StringVar(&category, "category", "", "category for imported rows (default from config)")
	cmd.Flags().StringSliceVar(&accept, "accept", []string{"new"}, "classification groups to import: new, suggestion, exact")

	return cmd
}

func runImport(cmd *cobra.Command, ws *workspace, account, category, path string, accept []string) error {
	ctx := cmd.Context()

	acct, err := ws.store.AccountByName(ctx, account)
	if err != nil {
		return err
	}

	report, err := runPipeline(cmd, ws, account, path)
	if err != nil {
		return err
	}

	wanted, err := acceptSet(accept)
	if err != nil {
		return err
	}
	var accepted []match.Result
	for _, res := range report.Results {
		if wanted[res.Classification] {
			accepted = append(accepted, res)
		}
	}
	if len(accepted) == 0 {
		fmt.Println("Nothing to import.")
		return nil
	}

	categoryName := category
	if categoryName == "" {
		categoryName = ws.cfg.Import.DefaultCategory
	}
	cat, err := ws.store.CategoryByName(ctx, categoryName)
	if err != nil {
		return err
	}

	im := importer.New(ws.store, ws.log, cat.ID)
	outcomes := im.Import(ctx, acct.ID, ws.cfg.Import.User, accepted, nil)

	entries := make([]auditlog.Entry, 0, len(outcomes))
	written, failed := 0, 0
	for _, o := range outcomes {
		result := "imported"
		switch {
		case o.Duplicate():
			result = "duplicate"
			failed++
		case !o.Succeeded():
			result = o.Err.Error()
			failed++
		default:
			written++
		}
		fmt.Printf("  %-9s %s %10s  %s\n", result, o.Date.Format(time.DateOnly), decimal.New(o.AmountCents, -2).StringFixed(2), o.Description)
		entries = append(entries, auditlog.Entry{
			Timestamp:   time.Now().UTC(),
			Statement:   filepath.Base(path),
			AccountID:   acct.ID,
			RowID:       o.RowID,
			AmountCents: o.AmountCents,
			Description: o.Description,
			Result:      result,
		})
	}

	if err := auditlog.Append(ws.auditLogPath(), entries); err != nil {
		return err
	}

	fmt.Printf("Imported %d of %d accepted records (%d not written).\n", written, len(accepted), failed)
	return nil
}

func acceptSet(groups []string) (map[match.Classification]bool, error) {
	wanted := make(map[match.Classification]bool, len(groups))
	for _, g := range groups {
		switch match.Classification(g) {
		case match.ClassNew, match.ClassSuggestion, match.ClassExact:
			wanted[match.Classification(g)] = true
		default:
			return nil, fmt.Errorf("unknown --accept group %q (want new, suggestion or exact)", g)
		}
	}
	return wanted, nil
}
