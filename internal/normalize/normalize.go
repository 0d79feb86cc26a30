// Package normalize maps extracted statement records into the canonical
// transaction shape the rest of the pipeline understands. All failures are
// per-record; callers skip and count them, they never abort a batch.
package normalize

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallybook-dev/tallybook/internal/model"
	"github.com/tallybook-dev/tallybook/internal/statement"
)

var (
	// ErrInvalidAmount means the amount string could not be read as a decimal.
	ErrInvalidAmount = errors.New("unparseable amount")
	// ErrZeroAmount means the resolved amount is exactly zero. Zero-value
	// line items are rejected, not imported.
	ErrZeroAmount = errors.New("zero amount")
	// ErrInvalidDate means no parseable calendar date exists in the posting
	// timestamp.
	ErrInvalidDate = errors.New("unparseable date")
)

// placeholder stands in when a statement line carries no readable
// description; an unreadable description must not block an import.
const placeholder = "Unidentified transaction"

// Normalize converts one extracted record into canonical form. The input is
// never mutated.
func Normalize(raw statement.ExtractedTransaction) (model.Transaction, error) {
	cents, err := ParseCents(raw.AmountRaw)
	if err != nil {
		return model.Transaction{}, err
	}
	if cents == 0 {
		return model.Transaction{}, fmt.Errorf("%w: %q", ErrZeroAmount, raw.AmountRaw)
	}

	date, err := parseDate(raw.PostedAt)
	if err != nil {
		return model.Transaction{}, err
	}

	return model.Transaction{
		ExternalID:  strings.TrimSpace(raw.ExternalID),
		Date:        date,
		AmountCents: cents,
		Polarity:    resolvePolarity(raw.PolarityHint, cents),
		Description: resolveDescription(raw.Name, raw.Memo),
	}, nil
}

// ParseCents parses a signed decimal string into integer cents by scaling.
// Floating point is never involved: it would silently corrupt values like
// 10.10. Commas are thousands separators when a dot is present ("1,234.56")
// or when they form strict digit triples ("1,234"); any other lone comma is
// a decimal comma ("1234,56"). Amounts with more than two fractional digits
// are rounded to the cent.
func ParseCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	if strings.Contains(s, ",") {
		if strings.Contains(s, ".") || thousandsGrouped(s) {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.ReplaceAll(s, ",", ".")
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return d.Round(2).Shift(2).IntPart(), nil
}

// thousandsGrouped reports whether every comma in s separates strict digit
// triples: a leading group of one to three digits with no leading zero, then
// ",ddd" groups to the end. "0,500" and "1234,56" fail the shape and read as
// decimal commas instead.
func thousandsGrouped(s string) bool {
	if s != "" && (s[0] == '-' || s[0] == '+') {
		s = s[1:]
	}
	groups := strings.Split(s, ",")
	if len(groups) < 2 {
		return false
	}
	first := groups[0]
	if first == "" || len(first) > 3 || first[0] == '0' || !allDigits(first) {
		return false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 || !allDigits(g) {
			return false
		}
	}
	return true
}

// creditHints and debitHints map issuer type tags onto a polarity. Tags not
// listed (OTHER, XFER, ...) carry no usable signal.
var creditHints = map[string]bool{
	"CREDIT": true, "DEP": true, "DEPOSIT": true, "DIRECTDEP": true,
	"INT": true, "DIV": true,
}

var debitHints = map[string]bool{
	"DEBIT": true, "PAYMENT": true, "FEE": true, "SRVCHG": true,
	"CHECK": true, "ATM": true, "POS": true,
}

// resolvePolarity applies the precedence rule: the issuer hint wins when it
// agrees with the sign of the amount; otherwise the sign alone decides,
// negative meaning debit. Issuer hints are occasionally wrong but the signed
// amount is self-consistent by construction.
func resolvePolarity(hint string, cents int64) model.Polarity {
	switch h := strings.ToUpper(strings.TrimSpace(hint)); {
	case creditHints[h] && cents > 0:
		return model.PolarityCredit
	case debitHints[h] && cents < 0:
		return model.PolarityDebit
	}
	if cents < 0 {
		return model.PolarityDebit
	}
	return model.PolarityCredit
}

// resolveDescription prefers the more descriptive of the two free-text
// fields, falling back to whichever is present and finally to a placeholder.
func resolveDescription(name, memo string) string {
	name = collapseSpace(name)
	memo = collapseSpace(memo)
	switch {
	case len(memo) >= len(name) && memo != "":
		return memo
	case name != "":
		return name
	}
	return placeholder
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// parseDate extracts the calendar-date portion of a posting timestamp,
// discarding time of day and offset: statement time precision is unreliable
// and must not participate in matching. Accepted shapes are the compact
// YYYYMMDD... form (with or without time, milliseconds and a [gmt:TZ]
// annotation) and ISO dates.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '['); i >= 0 {
		s = s[:i]
	}

	if len(s) >= 8 && allDigits(s[:8]) {
		t, err := time.Parse("20060102", s[:8])
		if err == nil {
			return t, nil
		}
	}
	if len(s) >= 10 {
		t, err := time.Parse("2006-01-02", s[:10])
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
