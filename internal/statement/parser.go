// Package statement extracts transaction records from exported bank
// statement files. Two encodings of the same logical format are supported:
// a legacy SGML-style variant where close tags are routinely omitted, and a
// strict XML-style variant where every tag is closed. The variant is sniffed
// from the document header; callers never declare it.
package statement

// tagRecord delimits one transaction record.
const tagRecord = "STMTTRN"

// Parse converts a raw document into the ordered list of transaction records
// it contains. A single malformed record is skipped and counted; Parse fails
// only when the document holds no recognizable record boundaries at all.
// Parse is pure and safe to run concurrently across documents.
func Parse(doc Document) (Result, error) {
	variant := sniffVariant(doc.Data)
	toks := tokenize(doc.Data)
	strict := variant == VariantStrict

	res := Result{Variant: variant}
	sawBoundary := false

	i := 0
	for i < len(toks) {
		if toks[i].kind != tokenOpen || toks[i].value != tagRecord {
			i++
			continue
		}
		sawBoundary = true
		rec, next, ok := parseRecord(toks, i+1, strict)
		if ok {
			res.Transactions = append(res.Transactions, rec)
		} else {
			res.Skipped++
		}
		i = next
	}

	if !sawBoundary {
		return Result{}, ErrMalformed
	}
	return res, nil
}

// parseRecord assembles one record starting just past its open tag. It
// returns the record, the position to resume scanning at, and whether the
// record is usable. In strict mode a leaf field without its close tag, a
// missing record end tag, or EOF mid-record poisons the record; in legacy
// mode those are exactly the shapes the format allows.
func parseRecord(toks []token, i int, strict bool) (ExtractedTransaction, int, bool) {
	var rec ExtractedTransaction
	ok := true

	for i < len(toks) {
		t := toks[i]
		switch t.kind {
		case tokenClose:
			if t.value == tagRecord {
				return rec, i + 1, ok && complete(rec)
			}
			// Close of an enclosing or nested aggregate; not ours.
			i++
		case tokenOpen:
			if t.value == tagRecord {
				// Next record began without this one being closed.
				return rec, i, !strict && ok && complete(rec)
			}
			name := t.value
			i++
			if i < len(toks) && toks[i].kind == tokenText {
				value := toks[i].value
				i++
				if strict {
					if i < len(toks) && toks[i].kind == tokenClose && toks[i].value == name {
						i++
					} else {
						ok = false
					}
				}
				setField(&rec, name, value)
			}
			// Open with no text is an aggregate wrapper (e.g. PAYEE);
			// keep walking, its children are handled like any other tag.
		case tokenText:
			i++
		}
	}

	return rec, i, !strict && ok && complete(rec)
}

// setField maps a known tag onto the record. Unrecognized tags are ignored so
// issuer-specific extensions never break a parse.
func setField(rec *ExtractedTransaction, tag, value string) {
	switch tag {
	case "FITID":
		rec.ExternalID = value
	case "DTPOSTED":
		rec.PostedAt = value
	case "TRNAMT":
		rec.AmountRaw = value
	case "TRNTYPE":
		rec.PolarityHint = value
	case "NAME":
		rec.Name = value
	case "MEMO":
		rec.Memo = value
	}
}

// complete reports whether a record carries the minimum fields a transaction
// line must have. Records without an amount or posting date are statement
// noise, not transactions.
func complete(rec ExtractedTransaction) bool {
	return rec.AmountRaw != "" && rec.PostedAt != ""
}
