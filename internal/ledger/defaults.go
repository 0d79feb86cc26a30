package ledger

import (
	"context"
	"fmt"

	"github.com/tallybook-dev/tallybook/internal/model"
)

// DefaultCategories returns the categories seeded into a fresh workspace.
func DefaultCategories() []model.Category {
	return []model.Category{
		{Name: "Groceries", Kind: model.PolarityDebit},
		{Name: "Rent & Housing", Kind: model.PolarityDebit},
		{Name: "Transport", Kind: model.PolarityDebit},
		{Name: "Dining", Kind: model.PolarityDebit},
		{Name: "Utilities", Kind: model.PolarityDebit},
		{Name: "Health", Kind: model.PolarityDebit},
		{Name: "Salary", Kind: model.PolarityCredit},
		{Name: "Interest", Kind: model.PolarityCredit},
		{Name: "Uncategorized", Kind: model.PolarityDebit},
	}
}

// Seed creates the default categories, skipping any that already exist.
func (s *Store) Seed(ctx context.Context) error {
	for _, c := range DefaultCategories() {
		if _, err := s.CategoryByName(ctx, c.Name); err == nil {
			continue
		}
		if _, err := s.CreateCategory(ctx, c.Name, c.Kind); err != nil {
			return fmt.Errorf("seeding categories: %w", err)
		}
	}
	return nil
}
