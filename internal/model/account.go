package model

// Account is a user bank account transactions belong to.
type Account struct {
	ID       string
	Name     string
	Currency string
}

// Category is a user-defined spending/income category.
type Category struct {
	ID   string
	Name string
	Kind Polarity // typical polarity for the category, informational
}
