package auditlog

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "import-log.csv")
	ts := time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

	batch1 := []Entry{
		{Timestamp: ts, Statement: "march.ofx", AccountID: "a1", RowID: "r1", AmountCents: 1500, Description: "MARKET A", Result: "imported"},
		{Timestamp: ts, Statement: "march.ofx", AccountID: "a1", AmountCents: -2000, Description: "RENT", Result: "duplicate"},
	}
	require.NoError(t, Append(path, batch1))

	batch2 := []Entry{
		{Timestamp: ts.Add(time.Hour), Statement: "april.ofx", AccountID: "a1", RowID: "r2", AmountCents: -700, Description: "LUNCH, DOWNTOWN", Result: "imported"},
	}
	require.NoError(t, Append(path, batch2))

	entries, err := Read(path)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, batch1[0], entries[0])
	assert.Equal(t, batch1[1], entries[1])
	assert.Equal(t, batch2[0], entries[2])
}

func TestRead_MissingFile(t *testing.T) {
	entries, err := Read(filepath.Join(t.TempDir(), "nope.csv"))
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestUnmarshalEntry_FieldMismatch(t *testing.T) {
	_, err := UnmarshalEntry([]string{"too", "few"})
	assert.Error(t, err)
}
