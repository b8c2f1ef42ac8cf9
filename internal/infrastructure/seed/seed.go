// Package seed loads the default categories and demo accounts into an empty ledger.
package seed

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/ledgerdash/internal/domain"
	"github.com/iho/ledgerdash/internal/usecase"
)

type categorySeed struct {
	name  string
	color string
}

var expenseCategories = []categorySeed{
	{"Loyer", "#ef4444"},
	{"Électricité / Gaz", "#f97316"},
	{"Internet", "#eab308"},
	{"Téléphone", "#22c55e"},
	{"Abonnements", "#3b82f6"},
	{"Transport", "#8b5cf6"},
	{"Courses", "#ec4899"},
	{"Restaurants", "#f59e0b"},
	{"Loisirs", "#10b981"},
	{"Santé", "#06b6d4"},
	{"Habillement", "#8b5cf6"},
	{"Vacances", "#f43f5e"},
	{"Cadeaux", "#a855f7"},
	{"Divers", "#6b7280"},
}

var incomeCategories = []categorySeed{
	{"Salaire", "#22c55e"},
	{"Aides / Allocations", "#3b82f6"},
	{"Remboursements", "#8b5cf6"},
	{"Revenus secondaires", "#f59e0b"},
	{"Autres revenus", "#06b6d4"},
}

var demoAccounts = []usecase.CreateAccountInput{
	{Name: "Compte Principal", Type: domain.AccountTypeBank, InitialBalance: decimal.RequireFromString("59.02"), Institution: "BoursoBank", LastFour: "4920"},
	{Name: "Compte Commun", Type: domain.AccountTypeBank, InitialBalance: decimal.RequireFromString("183.81"), Institution: "BoursoBank", LastFour: "5431"},
	{Name: "Épargne", Type: domain.AccountTypeBank, InitialBalance: decimal.RequireFromString("3501.79"), Institution: "Revolut"},
	{Name: "Carte Déjeuner", Type: domain.AccountTypeWallet, InitialBalance: decimal.RequireFromString("189.04"), Institution: "Edenred"},
	{Name: "Livret A", Type: domain.AccountTypeBank, InitialBalance: decimal.RequireFromString("176.67"), Institution: "Épargne réglementée"},
}

// CategoryService is the part of the category use case the seeder needs.
type CategoryService interface {
	ListCategories(ctx context.Context, categoryType domain.CategoryType) ([]*domain.Category, error)
	CreateCategory(ctx context.Context, input usecase.CreateCategoryInput) (*domain.Category, error)
}

// AccountService is the part of the account use case the seeder needs.
type AccountService interface {
	ListAccounts(ctx context.Context) ([]*domain.Account, error)
	CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
}

// Options selects what to seed.
type Options struct {
	Categories   bool
	DemoAccounts bool
}

// Result counts the records created.
type Result struct {
	Categories int
	Accounts   int
}

// Seeder creates the starter records through the regular use cases.
type Seeder struct {
	categories CategoryService
	accounts   AccountService
}

// New creates a new Seeder.
func New(categories CategoryService, accounts AccountService) *Seeder {
	return &Seeder{categories: categories, accounts: accounts}
}

// Run seeds what opts asks for. Each kind is skipped when records of that
// kind already exist, so restarting on a restored ledger adds nothing.
func (s *Seeder) Run(ctx context.Context, opts Options) (Result, error) {
	var result Result
	logger := zerolog.Ctx(ctx)

	if opts.Categories {
		n, err := s.seedCategories(ctx)
		if err != nil {
			return result, err
		}
		result.Categories = n
	}

	if opts.DemoAccounts {
		n, err := s.seedAccounts(ctx)
		if err != nil {
			return result, err
		}
		result.Accounts = n
	}

	logger.Info().
		Int("categories", result.Categories).
		Int("accounts", result.Accounts).
		Msg("seed complete")

	return result, nil
}

func (s *Seeder) seedCategories(ctx context.Context) (int, error) {
	existing, err := s.categories.ListCategories(ctx, "")
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	created := 0
	for _, group := range []struct {
		kind  domain.CategoryType
		seeds []categorySeed
	}{
		{domain.CategoryTypeExpense, expenseCategories},
		{domain.CategoryTypeIncome, incomeCategories},
	} {
		for _, c := range group.seeds {
			_, err := s.categories.CreateCategory(ctx, usecase.CreateCategoryInput{
				Name:      c.name,
				Type:      group.kind,
				Color:     c.color,
				IsDefault: true,
			})
			if err != nil {
				return created, err
			}
			created++
		}
	}

	return created, nil
}

func (s *Seeder) seedAccounts(ctx context.Context) (int, error) {
	existing, err := s.accounts.ListAccounts(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	for i, input := range demoAccounts {
		if _, err := s.accounts.CreateAccount(ctx, input); err != nil {
			return i, err
		}
	}

	return len(demoAccounts), nil
}
