package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Polarity states whether a transaction increases or decreases the balance.
type Polarity string

const (
	PolarityCredit Polarity = "credit"
	PolarityDebit  Polarity = "debit"
)

// Transaction is the canonical transaction shape, used both for statement
// lines after normalization and for existing ledger entries loaded for
// matching. Amounts are signed integer cents; positive = credit, negative =
// debit. Date carries no time of day.
type Transaction struct {
	ID          string // ledger row id; empty for incoming statement lines
	AccountID   string
	ExternalID  string // issuer-assigned id, often empty
	Date        time.Time
	AmountCents int64
	Polarity    Polarity
	Description string // original casing, whitespace-collapsed
	CategoryID  string
}

// Amount renders the cent value as a decimal, e.g. 1010 -> "10.10".
func (t Transaction) Amount() decimal.Decimal {
	return decimal.New(t.AmountCents, -2)
}

// SameExternalID reports whether both transactions carry the same non-empty
// external identifier.
func (t Transaction) SameExternalID(other Transaction) bool {
	return t.ExternalID != "" && t.ExternalID == other.ExternalID
}
