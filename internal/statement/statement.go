package statement

import "errors"

// Variant identifies the statement encoding.
type Variant string

const (
	// VariantLegacy is the SGML-style export where leaf close tags are
	// frequently omitted.
	VariantLegacy Variant = "legacy"
	// VariantStrict is the XML-style export where every tag is closed.
	VariantStrict Variant = "strict"
)

// ErrMalformed is returned when a document contains no recognizable
// transaction records at all (wrong file type, truncated upload, etc.).
// Individual bad records inside an otherwise valid document are skipped
// and counted, not fatal.
var ErrMalformed = errors.New("no transaction records found in document")

// Document is one raw uploaded statement. It exists only for the duration
// of a single Parse call.
type Document struct {
	Data []byte
}

// ExtractedTransaction is one statement line exactly as found, before any
// interpretation. Values are never mutated after Parse returns; downstream
// stages derive new values from them.
type ExtractedTransaction struct {
	ExternalID   string // FITID, may be empty or duplicated across lines
	PostedAt     string // DTPOSTED as printed, precision varies
	AmountRaw    string // TRNAMT as printed, signed decimal string
	PolarityHint string // TRNTYPE, may be empty or inconsistent with the sign
	Name         string // short payee/code field
	Memo         string // longer free-text field
}

// Result is the outcome of parsing one document.
type Result struct {
	Transactions []ExtractedTransaction
	Variant      Variant
	Skipped      int // malformed records dropped from an otherwise valid document
}
