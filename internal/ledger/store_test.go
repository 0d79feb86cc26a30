package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallybook-dev/tallybook/internal/id"
	"github.com/tallybook-dev/tallybook/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db)
}

func date(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func TestInsertAndQueryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	acct, err := store.CreateAccount(ctx, "Checking", "USD")
	require.NoError(t, err)

	rowID, err := store.InsertTransaction(ctx, InsertParams{
		AccountID:   acct.ID,
		ExternalID:  "X1",
		Date:        date(1),
		AmountCents: 1010,
		Polarity:    model.PolarityCredit,
		Description: "MARKET A",
		UserID:      "u1",
		ImportKey:   id.ImportKey("X1", date(1), 1010, "MARKET A"),
	})
	require.NoError(t, err)
	require.NotEmpty(t, rowID)

	got, err := store.TransactionsBetween(ctx, acct.ID, date(1), date(31))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, rowID, got[0].ID)
	assert.Equal(t, "X1", got[0].ExternalID)
	assert.Equal(t, int64(1010), got[0].AmountCents)
	assert.Equal(t, model.PolarityCredit, got[0].Polarity)
	assert.Equal(t, "MARKET A", got[0].Description)
	assert.True(t, got[0].Date.Equal(date(1)))
}

func TestTransactionsBetween_ScopedByAccountAndRange(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	a, err := store.CreateAccount(ctx, "Checking", "USD")
	require.NoError(t, err)
	b, err := store.CreateAccount(ctx, "Savings", "USD")
	require.NoError(t, err)

	insert := func(acct model.Account, d int, desc string) {
		_, err := store.InsertTransaction(ctx, InsertParams{
			AccountID:   acct.ID,
			Date:        date(d),
			AmountCents: -100,
			Polarity:    model.PolarityDebit,
			Description: desc,
			ImportKey:   id.ImportKey("", date(d), -100, desc),
		})
		require.NoError(t, err)
	}
	insert(a, 1, "in range")
	insert(a, 20, "out of range")
	insert(b, 2, "other account")

	got, err := store.TransactionsBetween(ctx, a.ID, date(1), date(10))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "in range", got[0].Description)
}

func TestInsertTransaction_DuplicateKey(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	acct, err := store.CreateAccount(ctx, "Checking", "USD")
	require.NoError(t, err)

	p := InsertParams{
		AccountID:   acct.ID,
		ExternalID:  "X1",
		Date:        date(1),
		AmountCents: 1500,
		Polarity:    model.PolarityCredit,
		Description: "MARKET A",
		ImportKey:   id.ImportKey("X1", date(1), 1500, "MARKET A"),
	}
	_, err = store.InsertTransaction(ctx, p)
	require.NoError(t, err)

	_, err = store.InsertTransaction(ctx, p)
	assert.ErrorIs(t, err, ErrDuplicate)

	got, err := store.TransactionsBetween(ctx, acct.ID, date(1), date(31))
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Seed(ctx))
	require.NoError(t, store.Seed(ctx))

	c, err := store.CategoryByName(ctx, "Uncategorized")
	require.NoError(t, err)
	assert.Equal(t, "Uncategorized", c.Name)
}

func TestLookupsNotFound(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.AccountByName(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.CategoryByName(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
