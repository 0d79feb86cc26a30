package statement

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_LegacyFixture(t *testing.T) {
	data, err := os.ReadFile("../../testdata/statement_legacy.ofx")
	require.NoError(t, err)

	res, err := Parse(Document{Data: data})
	require.NoError(t, err)
	assert.Equal(t, VariantLegacy, res.Variant)
	assert.Equal(t, 0, res.Skipped)
	require.Len(t, res.Transactions, 3)

	first := res.Transactions[0]
	assert.Equal(t, "X1", first.ExternalID)
	assert.Equal(t, "20240301120000[-3:BRT]", first.PostedAt)
	assert.Equal(t, "15.00", first.AmountRaw)
	assert.Equal(t, "CREDIT", first.PolarityHint)
	assert.Equal(t, "MARKET A", first.Name)
	assert.Empty(t, first.Memo)

	second := res.Transactions[1]
	assert.Empty(t, second.ExternalID)
	assert.Equal(t, "-20.00", second.AmountRaw)
	assert.Equal(t, "RENT", second.Memo)

	// Issuer-specific tags are ignored, not rejected.
	third := res.Transactions[2]
	assert.Equal(t, "SUPERMARKET XYZ", third.Name)
	assert.Equal(t, "SUPERMARKET XYZ COMPRA CARTAO", third.Memo)
}

func TestParse_StrictFixture(t *testing.T) {
	data, err := os.ReadFile("../../testdata/statement_strict.ofx")
	require.NoError(t, err)

	res, err := Parse(Document{Data: data})
	require.NoError(t, err)
	assert.Equal(t, VariantStrict, res.Variant)
	assert.Equal(t, 0, res.Skipped)
	require.Len(t, res.Transactions, 2)
	assert.Equal(t, "X1", res.Transactions[0].ExternalID)
	assert.Equal(t, "RENT", res.Transactions[1].Memo)
}

func TestParse_LegacyMissingRecordEndTag(t *testing.T) {
	doc := `OFXHEADER:100

<OFX><BANKTRANLIST>
<STMTTRN>
<DTPOSTED>20240301
<TRNAMT>10.10
<NAME>FIRST
<STMTTRN>
<DTPOSTED>20240302
<TRNAMT>-5.00
<NAME>SECOND
</BANKTRANLIST></OFX>`

	res, err := Parse(Document{Data: []byte(doc)})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Skipped)
	require.Len(t, res.Transactions, 2)
	assert.Equal(t, "FIRST", res.Transactions[0].Name)
	assert.Equal(t, "SECOND", res.Transactions[1].Name)
}

func TestParse_RecordWithoutAmountSkipped(t *testing.T) {
	doc := `<OFX>
<STMTTRN>
<DTPOSTED>20240301
<TRNAMT>10.10
<NAME>GOOD
</STMTTRN>
<STMTTRN>
<DTPOSTED>20240302
<NAME>NO AMOUNT
</STMTTRN>
</OFX>`

	res, err := Parse(Document{Data: []byte(doc)})
	require.NoError(t, err)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "GOOD", res.Transactions[0].Name)
	assert.Equal(t, 1, res.Skipped)
}

func TestParse_StrictUnclosedLeafSkipsRecord(t *testing.T) {
	doc := `<?xml version="1.0"?>
<OFX>
<STMTTRN>
<DTPOSTED>20240301</DTPOSTED>
<TRNAMT>10.10
<NAME>BROKEN</NAME>
</STMTTRN>
<STMTTRN>
<DTPOSTED>20240302</DTPOSTED>
<TRNAMT>-5.00</TRNAMT>
<NAME>FINE</NAME>
</STMTTRN>
</OFX>`

	res, err := Parse(Document{Data: []byte(doc)})
	require.NoError(t, err)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "FINE", res.Transactions[0].Name)
	assert.Equal(t, 1, res.Skipped)
}

func TestParse_NoRecordsAtAll(t *testing.T) {
	for name, doc := range map[string]string{
		"wrong file type": "PDF-1.4 not a statement at all",
		"empty":           "",
		"markup, no records": `<?xml version="1.0"?><OFX><BANKTRANLIST></BANKTRANLIST></OFX>`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(Document{Data: []byte(doc)})
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestParse_PayeeAggregate(t *testing.T) {
	doc := `<OFX>
<STMTTRN>
<DTPOSTED>20240301
<TRNAMT>10.10
<PAYEE>
<NAME>FROM AGGREGATE
</PAYEE>
</STMTTRN>
</OFX>`

	res, err := Parse(Document{Data: []byte(doc)})
	require.NoError(t, err)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "FROM AGGREGATE", res.Transactions[0].Name)
}

func TestParse_EntitiesUnescaped(t *testing.T) {
	doc := `<OFX>
<STMTTRN>
<DTPOSTED>20240301
<TRNAMT>-4.00
<NAME>CAFE &amp; BAR
</STMTTRN>
</OFX>`

	res, err := Parse(Document{Data: []byte(doc)})
	require.NoError(t, err)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "CAFE & BAR", res.Transactions[0].Name)
}

func TestSniffVariant(t *testing.T) {
	assert.Equal(t, VariantStrict, sniffVariant([]byte(`<?xml version="1.0"?><OFX>`)))
	assert.Equal(t, VariantLegacy, sniffVariant([]byte("OFXHEADER:100\nDATA:OFXSGML\n<OFX>")))
	assert.Equal(t, VariantLegacy, sniffVariant([]byte("<OFX><STMTTRN>")))
	// A UTF-8 byte order mark before the prolog must not hide it.
	assert.Equal(t, VariantStrict, sniffVariant([]byte("\uFEFF<?xml version=\"1.0\"?><OFX>")))
}

func TestParse_ByteOrderMarkPrefix(t *testing.T) {
	doc := "\uFEFF" + `<?xml version="1.0"?>
<OFX>
<STMTTRN>
<DTPOSTED>20240301</DTPOSTED>
<TRNAMT>10.10</TRNAMT>
<NAME>MARKET A</NAME>
</STMTTRN>
</OFX>`

	res, err := Parse(Document{Data: []byte(doc)})
	require.NoError(t, err)
	assert.Equal(t, VariantStrict, res.Variant)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "MARKET A", res.Transactions[0].Name)
}
