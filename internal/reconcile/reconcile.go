// Package reconcile runs the full statement pipeline for one account:
// parse -> normalize -> match, producing the report the review screen is
// built from. Each run is self-contained: one document in, one freshly
// fetched ledger snapshot, no shared state between runs. Nothing is written
// until the user hands accepted records to the importer.
package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tallybook-dev/tallybook/internal/ledger"
	"github.com/tallybook-dev/tallybook/internal/match"
	"github.com/tallybook-dev/tallybook/internal/model"
	"github.com/tallybook-dev/tallybook/internal/normalize"
	"github.com/tallybook-dev/tallybook/internal/statement"
)

// Engine wires the pipeline stages to a ledger store.
type Engine struct {
	store *ledger.Store
	cfg   match.Config
	log   zerolog.Logger
}

// NewEngine creates an Engine with the given matcher tuning.
func NewEngine(store *ledger.Store, cfg match.Config, log zerolog.Logger) *Engine {
	return &Engine{store: store, cfg: cfg, log: log}
}

// Report is the outcome of one reconciliation run. Results preserve
// statement order; Skipped counts lines the parser or normalizer dropped.
// The user-visible contract is: everything readable is classified, anything
// unreadable is a skip count, never a silent loss.
type Report struct {
	Results []match.Result
	Skipped int
	Variant statement.Variant

	// MatchedExisting holds the ledger entries referenced by exact and
	// suggestion results, for display alongside them.
	MatchedExisting map[string]model.Transaction
}

// Groups is the pure presentation partition of a report. No deduplication
// happens here; that already happened in the matcher.
type Groups struct {
	Exact       []match.Result
	Suggestions []match.Result
	New         []match.Result
}

// Summary holds the review-screen counts.
type Summary struct {
	Total       int
	Exact       int
	Suggestions int
	New         int
	Skipped     int
}

// Group partitions the results by classification, keeping statement order
// within each group.
func (r Report) Group() Groups {
	var g Groups
	for _, res := range r.Results {
		switch res.Classification {
		case match.ClassExact:
			g.Exact = append(g.Exact, res)
		case match.ClassSuggestion:
			g.Suggestions = append(g.Suggestions, res)
		default:
			g.New = append(g.New, res)
		}
	}
	return g
}

// Summarize returns the review-screen counts.
func (r Report) Summarize() Summary {
	g := r.Group()
	return Summary{
		Total:       len(r.Results),
		Exact:       len(g.Exact),
		Suggestions: len(g.Suggestions),
		New:         len(g.New),
		Skipped:     r.Skipped,
	}
}

// Run executes one parse/normalize/match cycle. Parse failures abort the
// whole call; everything after parsing degrades per record.
func (e *Engine) Run(ctx context.Context, accountID string, doc statement.Document) (Report, error) {
	parsed, err := statement.Parse(doc)
	if err != nil {
		return Report{}, fmt.Errorf("parsing statement: %w", err)
	}

	report := Report{Variant: parsed.Variant, Skipped: parsed.Skipped}
	var incoming []model.Transaction
	for _, raw := range parsed.Transactions {
		tx, err := normalize.Normalize(raw)
		if err != nil {
			report.Skipped++
			e.log.Debug().Err(err).Str("amount", raw.AmountRaw).Str("posted_at", raw.PostedAt).
				Msg("skipping unreadable statement line")
			continue
		}
		incoming = append(incoming, tx)
	}

	if len(incoming) == 0 {
		report.Results = []match.Result{}
		report.MatchedExisting = map[string]model.Transaction{}
		return report, nil
	}

	from, to := dateSpan(incoming, e.cfg.WindowDays)
	existing, err := e.store.TransactionsBetween(ctx, accountID, from, to)
	if err != nil {
		return Report{}, fmt.Errorf("loading ledger snapshot: %w", err)
	}

	report.Results = match.All(e.cfg, incoming, existing)
	report.MatchedExisting = matchedByID(report.Results, existing)

	s := report.Summarize()
	e.log.Info().
		Int("total", s.Total).Int("exact", s.Exact).Int("suggestions", s.Suggestions).
		Int("new", s.New).Int("skipped", s.Skipped).Str("account_id", accountID).
		Msg("reconciliation complete")
	return report, nil
}

// dateSpan returns the statement's min/max dates widened by the matching
// window, so the ledger snapshot covers every possible candidate.
func dateSpan(txs []model.Transaction, windowDays int) (time.Time, time.Time) {
	from, to := txs[0].Date, txs[0].Date
	for _, t := range txs[1:] {
		if t.Date.Before(from) {
			from = t.Date
		}
		if t.Date.After(to) {
			to = t.Date
		}
	}
	return from.AddDate(0, 0, -windowDays), to.AddDate(0, 0, windowDays)
}

func matchedByID(results []match.Result, existing []model.Transaction) map[string]model.Transaction {
	byID := make(map[string]model.Transaction, len(existing))
	for _, t := range existing {
		byID[t.ID] = t
	}
	out := make(map[string]model.Transaction)
	for _, res := range results {
		if res.MatchedID == "" {
			continue
		}
		if t, ok := byID[res.MatchedID]; ok {
			out[res.MatchedID] = t
		}
	}
	return out
}
