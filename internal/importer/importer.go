// Package importer persists user-accepted reconciliation results into the
// ledger. Only records the caller explicitly accepted are written — nothing
// is imported implicitly, including exact matches. Each accepted record is
// written at most once: the storage layer enforces a uniqueness key derived
// from the external identifier when present, and from the
// date+amount+description tuple otherwise, so re-running an import after a
// partial failure never creates duplicate rows.
package importer

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tallybook-dev/tallybook/internal/id"
	"github.com/tallybook-dev/tallybook/internal/ledger"
	"github.com/tallybook-dev/tallybook/internal/match"
)

// Override carries the user's review-screen edits for one accepted record.
type Override struct {
	Description string // empty = keep the statement description
	CategoryID  string // empty = use the configured default category
}

// Outcome is the terminal record of one write attempt.
type Outcome struct {
	Description string
	Date        time.Time
	AmountCents int64
	RowID       string // new ledger row id, set on success
	Err         error  // set on failure; ledger.ErrDuplicate for rows already present
}

// Succeeded reports whether the row was written.
func (o Outcome) Succeeded() bool { return o.Err == nil }

// Duplicate reports whether the write was refused because the row already
// exists under the same uniqueness key.
func (o Outcome) Duplicate() bool { return errors.Is(o.Err, ledger.ErrDuplicate) }

// Importer writes accepted records into the ledger.
type Importer struct {
	store             *ledger.Store
	log               zerolog.Logger
	defaultCategoryID string
}

// New creates an Importer. defaultCategoryID is applied to records the user
// did not explicitly categorize.
func New(store *ledger.Store, log zerolog.Logger, defaultCategoryID string) *Importer {
	return &Importer{store: store, log: log, defaultCategoryID: defaultCategoryID}
}

// Import persists every accepted record, one Outcome per record in input
// order. Overrides are keyed by position in accepted. A failing record
// produces a failed Outcome for that record only; the rest of the batch is
// always attempted.
func (im *Importer) Import(ctx context.Context, accountID, userID string, accepted []match.Result, overrides map[int]Override) []Outcome {
	outcomes := make([]Outcome, 0, len(accepted))

	for i, res := range accepted {
		tx := res.Incoming
		desc := tx.Description
		categoryID := im.defaultCategoryID
		if ov, ok := overrides[i]; ok {
			if ov.Description != "" {
				desc = ov.Description
			}
			if ov.CategoryID != "" {
				categoryID = ov.CategoryID
			}
		}

		outcome := Outcome{Description: desc, Date: tx.Date, AmountCents: tx.AmountCents}
		rowID, err := im.store.InsertTransaction(ctx, ledger.InsertParams{
			AccountID:   accountID,
			ExternalID:  tx.ExternalID,
			Date:        tx.Date,
			AmountCents: tx.AmountCents,
			Polarity:    tx.Polarity,
			Description: desc,
			CategoryID:  categoryID,
			UserID:      userID,
			ImportKey:   id.ImportKey(tx.ExternalID, tx.Date, tx.AmountCents, desc),
		})
		if err != nil {
			outcome.Err = err
			im.log.Warn().Err(err).Str("description", desc).Msg("import failed for record")
		} else {
			outcome.RowID = rowID
			im.log.Debug().Str("row_id", rowID).Str("description", desc).Msg("imported record")
		}
		outcomes = append(outcomes, outcome)
	}

	im.log.Info().
		Int("accepted", len(accepted)).
		Int("written", countWritten(outcomes)).
		Str("account_id", accountID).
		Msg("import batch complete")
	return outcomes
}

func countWritten(outcomes []Outcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Succeeded() {
			n++
		}
	}
	return n
}
