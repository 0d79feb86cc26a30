package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tallybook-dev/tallybook/internal/match"
	"github.com/tallybook-dev/tallybook/internal/model"
	"github.com/tallybook-dev/tallybook/internal/reconcile"
	"github.com/tallybook-dev/tallybook/internal/statement"
)

func newReconcileCommand() *cobra.Command {
	var dir, account string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "reconcile <statement-file>",
		Short: "Classify a bank statement against the ledger without importing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(dir)
			if err != nil {
				return err
			}
			defer ws.Close()

			report, err := runPipeline(cmd, ws, account, args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return printReportJSON(report)
			}
			printReport(args[0], report)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "workspace directory")
	cmd.Flags().StringVar(&account, "account", "", "account name (required)")
	_ = cmd.MarkFlagRequired("account")
	cmd.Flags().BoolVar(&asJSON, "json", false, "machine-readable output")

	return cmd
}

func runPipeline(cmd *cobra.Command, ws *workspace, account, path string) (reconcile.Report, error) {
	acct, err := ws.store.AccountByName(cmd.Context(), account)
	if err != nil {
		return reconcile.Report{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return reconcile.Report{}, fmt.Errorf("reading statement: %w", err)
	}

	engine := reconcile.NewEngine(ws.store, ws.cfg.Matching, ws.log)
	return engine.Run(cmd.Context(), acct.ID, statement.Document{Data: data})
}

func printReport(path string, report reconcile.Report) {
	s := report.Summarize()
	fmt.Printf("Statement %s (%s variant): %d lines, %d skipped\n",
		path, report.Variant, s.Total, s.Skipped)
	fmt.Printf("  exact %d, suggestions %d, new %d\n\n", s.Exact, s.Suggestions, s.New)

	g := report.Group()
	printGroup("ALREADY RECORDED", g.Exact, report.MatchedExisting)
	printGroup("POSSIBLE DUPLICATES", g.Suggestions, report.MatchedExisting)
	printGroup("NEW", g.New, nil)
}

func printGroup(title string, results []match.Result, existing map[string]model.Transaction) {
	if len(results) == 0 {
		return
	}
	fmt.Println(title)
	for _, res := range results {
		in := res.Incoming
		line := fmt.Sprintf("  %s %10s  %-40s", in.Date.Format("2006-01-02"), in.Amount().StringFixed(2), in.Description)
		if res.MatchedID != "" {
			line += fmt.Sprintf("  [%3d%%]", res.Confidence)
			if ex, ok := existing[res.MatchedID]; ok {
				line += fmt.Sprintf("  ~ %s %s %s", ex.Date.Format("2006-01-02"), ex.Amount().StringFixed(2), ex.Description)
			}
		}
		fmt.Println(line)
	}
	fmt.Println()
}

type reportJSON struct {
	Variant string       `json:"variant"`
	Summary summaryJSON  `json:"summary"`
	Results []resultJSON `json:"results"`
}

type summaryJSON struct {
	Total       int `json:"total"`
	Exact       int `json:"exact"`
	Suggestions int `json:"suggestions"`
	New         int `json:"new"`
	Skipped     int `json:"skipped"`
}

type resultJSON struct {
	Date           string       `json:"date"`
	Amount         string       `json:"amount"`
	Description    string       `json:"description"`
	ExternalID     string       `json:"external_id,omitempty"`
	Classification string       `json:"classification"`
	Confidence     int          `json:"confidence,omitempty"`
	Matched        *matchedJSON `json:"matched,omitempty"`
}

type matchedJSON struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

func printReportJSON(report reconcile.Report) error {
	s := report.Summarize()
	out := reportJSON{
		Variant: string(report.Variant),
		Summary: summaryJSON{Total: s.Total, Exact: s.Exact, Suggestions: s.Suggestions, New: s.New, Skipped: s.Skipped},
		Results: make([]resultJSON, 0, len(report.Results)),
	}
	for _, res := range report.Results {
		r := resultJSON{
			Date:           res.Incoming.Date.Format(time.DateOnly),
			Amount:         res.Incoming.Amount().StringFixed(2),
			Description:    res.Incoming.Description,
			ExternalID:     res.Incoming.ExternalID,
			Classification: string(res.Classification),
			Confidence:     res.Confidence,
		}
		if ex, ok := report.MatchedExisting[res.MatchedID]; ok {
			r.Matched = &matchedJSON{
				ID:          ex.ID,
				Date:        ex.Date.Format(time.DateOnly),
				Amount:      ex.Amount().StringFixed(2),
				Description: ex.Description,
			}
		}
		out.Results = append(out.Results, r)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
