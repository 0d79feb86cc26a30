// Package id generates ledger row identifiers and the deduplication keys the
// importer relies on for its at-most-once guarantee.
package id

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewRowID returns a fresh ledger row identifier.
func NewRowID() string {
	return uuid.NewString()
}

// ImportKey returns the uniqueness key enforced at the storage boundary.
// When the issuer supplied an external identifier that is the key; otherwise
// the date+amount+description tuple is fingerprinted. Either way the key is
// stable across re-runs of the same import.
func ImportKey(externalID string, date time.Time, amountCents int64, description string) string {
	if ext := strings.TrimSpace(externalID); ext != "" {
		return "ext:" + ext
	}
	return "fp:" + Fingerprint(date, amountCents, description)
}

// Fingerprint hashes the fields that identify a transaction when no external
// identifier exists.
func Fingerprint(date time.Time, amountCents int64, description string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%d|%s", date.Format("2006-01-02"), amountCents, strings.ToUpper(description))
	return hex.EncodeToString(h.Sum(nil))
}
