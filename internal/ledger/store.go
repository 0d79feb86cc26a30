package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/tallybook-dev/tallybook/internal/id"
	"github.com/tallybook-dev/tallybook/internal/model"
)

// ErrDuplicate is returned when an insert collides with a row already
// imported under the same uniqueness key.
var ErrDuplicate = errors.New("transaction already imported")

// ErrNotFound is returned for lookups of missing rows.
var ErrNotFound = errors.New("not found")

const dateFormat = "2006-01-02"

// Store provides queries over the ledger database.
type Store struct {
	db *sql.DB
}

// NewStore wraps an open ledger database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// InsertParams holds one row to persist on import.
type InsertParams struct {
	AccountID   string
	ExternalID  string
	Date        time.Time
	AmountCents int64
	Polarity    model.Polarity
	Description string
	CategoryID  string
	UserID      string
	ImportKey   string
}

// InsertTransaction writes one ledger row and returns its id. A collision on
// the import uniqueness key reports ErrDuplicate; the row is not written.
func (s *Store) InsertTransaction(ctx context.Context, p InsertParams) (string, error) {
	rowID := id.NewRowID()
	var categoryID any
	if p.CategoryID != "" {
		categoryID = p.CategoryID
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions(id, account_id, external_id, date, amount, polarity, description, category_id, user_id, import_key)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rowID, p.AccountID, p.ExternalID, p.Date.Format(dateFormat), p.AmountCents,
		string(p.Polarity), p.Description, categoryID, p.UserID, p.ImportKey)
	if err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("%w (key %s)", ErrDuplicate, p.ImportKey)
		}
		return "", fmt.Errorf("inserting transaction: %w", err)
	}
	return rowID, nil
}

// TransactionsBetween returns the account's transactions with from <= date <= to,
// oldest first. This is the existing-ledger snapshot the matcher runs against.
func (s *Store) TransactionsBetween(ctx context.Context, accountID string, from, to time.Time) ([]model.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, account_id, external_id, date, amount, polarity, description, COALESCE(category_id, '')
		FROM transactions
		WHERE account_id = ? AND date >= ? AND date <= ?
		ORDER BY date, created_at`,
		accountID, from.Format(dateFormat), to.Format(dateFormat))
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}
	defer rows.Close()

	var out []model.Transaction
	for rows.Next() {
		var t model.Transaction
		var date string
		if err := rows.Scan(&t.ID, &t.AccountID, &t.ExternalID, &date, &t.AmountCents, &t.Polarity, &t.Description, &t.CategoryID); err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}
		t.Date, err = parseStoredDate(date)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// CreateAccount adds an account and returns it.
func (s *Store) CreateAccount(ctx context.Context, name, currency string) (model.Account, error) {
	a := model.Account{ID: id.NewRowID(), Name: name, Currency: currency}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts(id, name, currency) VALUES(?, ?, ?)`, a.ID, a.Name, a.Currency)
	if err != nil {
		return model.Account{}, fmt.Errorf("creating account %q: %w", name, err)
	}
	return a, nil
}

// AccountByName looks an account up by its unique name.
func (s *Store) AccountByName(ctx context.Context, name string) (model.Account, error) {
	var a model.Account
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, currency FROM accounts WHERE name = ?`, name).
		Scan(&a.ID, &a.Name, &a.Currency)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, fmt.Errorf("account %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("looking up account %q: %w", name, err)
	}
	return a, nil
}

// CreateCategory adds a category and returns it.
func (s *Store) CreateCategory(ctx context.Context, name string, kind model.Polarity) (model.Category, error) {
	c := model.Category{ID: id.NewRowID(), Name: name, Kind: kind}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO categories(id, name, kind) VALUES(?, ?, ?)`, c.ID, c.Name, string(c.Kind))
	if err != nil {
		return model.Category{}, fmt.Errorf("creating category %q: %w", name, err)
	}
	return c, nil
}

// CategoryByName looks a category up by its unique name.
func (s *Store) CategoryByName(ctx context.Context, name string) (model.Category, error) {
	var c model.Category
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, kind FROM categories WHERE name = ?`, name).
		Scan(&c.ID, &c.Name, &c.Kind)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Category{}, fmt.Errorf("category %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return model.Category{}, fmt.Errorf("looking up category %q: %w", name, err)
	}
	return c, nil
}

func isUniqueViolation(err error) bool {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		return serr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			serr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func parseStoredDate(s string) (time.Time, error) {
	if len(s) > len(dateFormat) {
		s = s[:len(dateFormat)]
	}
	t, err := time.Parse(dateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing stored date %q: %w", s, err)
	}
	return t, nil
}
