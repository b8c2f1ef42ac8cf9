package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/ledgerdash/internal/domain"
)

// UncategorizedName labels expenses without a category in breakdowns.
const UncategorizedName = "Uncategorized"

// DashboardUseCase derives read-only aggregates from the ledger.
type DashboardUseCase struct {
	env          Env
	accountRepo  AccountRepository
	categoryRepo CategoryRepository
	txnRepo      TransactionRepository

	cache    StatsCache
	cacheTTL time.Duration
}

// NewDashboardUseCase creates a new DashboardUseCase. cache may be nil.
func NewDashboardUseCase(
	env Env,
	accountRepo AccountRepository,
	categoryRepo CategoryRepository,
	txnRepo TransactionRepository,
	cache StatsCache,
	cacheTTL time.Duration,
) *DashboardUseCase {
	if cacheTTL <= 0 {
		cacheTTL = DefaultStatsCacheTTL
	}

	return &DashboardUseCase{
		env:          env,
		accountRepo:  accountRepo,
		categoryRepo: categoryRepo,
		txnRepo:      txnRepo,
		cache:        cache,
		cacheTTL:     cacheTTL,
	}
}

// GetDashboardStats returns balances, the current month's cash flow and the
// most recent transactions.
func (uc *DashboardUseCase) GetDashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	logger := zerolog.Ctx(ctx)

	if uc.cache != nil {
		stats, ok, err := uc.cache.GetStats(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("stats cache read failed")
		} else if ok {
			return stats, nil
		}
	}

	var stats *domain.DashboardStats

	err := uc.env.inReadTx(ctx, func(tx Transaction) error {
		accounts, err := uc.accountRepo.List(ctx, tx)
		if err != nil {
			return err
		}

		txns, err := uc.txnRepo.List(ctx, tx)
		if err != nil {
			return err
		}

		joiner, err := newViewJoiner(ctx, tx, uc.accountRepo, uc.categoryRepo)
		if err != nil {
			return err
		}

		stats = computeStats(uc.env.now(), accounts, txns, joiner)

		// Cache while the read lock is held: a writer cannot commit, and
		// invalidate, until the stats it would make stale are stored.
		if uc.cache != nil {
			if err := uc.cache.SetStats(ctx, stats, uc.cacheTTL); err != nil {
				logger.Warn().Err(err).Msg("stats cache write failed")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return stats, nil
}

func computeStats(now time.Time, accounts []*domain.Account, txns []*domain.Transaction, joiner *viewJoiner) *domain.DashboardStats {
	stats := &domain.DashboardStats{
		TotalBalance:       decimal.Zero,
		MonthlyIncome:      decimal.Zero,
		MonthlyExpenses:    decimal.Zero,
		AccountBalances:    make([]domain.AccountBalance, 0, len(accounts)),
		TopCategories:      []domain.CategoryTotal{},
		RecentTransactions: []domain.TransactionView{},
	}

	for _, a := range accounts {
		stats.TotalBalance = stats.TotalBalance.Add(a.Balance)
		stats.AccountBalances = append(stats.AccountBalances, domain.AccountBalance{
			AccountID: a.ID,
			Balance:   a.Balance,
		})
	}

	year, month := now.Year(), now.Month()
	for _, t := range txns {
		if !t.InMonth(year, month, now.Location()) {
			continue
		}
		switch t.Type {
		case domain.TransactionTypeIncome:
			stats.MonthlyIncome = stats.MonthlyIncome.Add(t.Amount)
		case domain.TransactionTypeExpense:
			stats.MonthlyExpenses = stats.MonthlyExpenses.Add(t.Amount)
		}
	}
	stats.NetCashFlow = stats.MonthlyIncome.Sub(stats.MonthlyExpenses)

	// Newest insertions first so the stable sort breaks CreatedAt ties that way.
	recent := make([]*domain.Transaction, len(txns))
	for i, t := range txns {
		recent[len(txns)-1-i] = t
	}
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	if len(recent) > domain.RecentTransactionsLimit {
		recent = recent[:domain.RecentTransactionsLimit]
	}
	for _, t := range recent {
		stats.RecentTransactions = append(stats.RecentTransactions, joiner.view(t))
	}

	return stats
}

// GetCategoryBreakdown totals the expenses of a month per category, largest first.
func (uc *DashboardUseCase) GetCategoryBreakdown(ctx context.Context, year int, month time.Month) ([]domain.CategoryTotal, error) {
	if month < time.January || month > time.December || year < 1 {
		return nil, domain.ErrInvalidBudgetPeriod
	}

	var totals []domain.CategoryTotal

	err := uc.env.inReadTx(ctx, func(tx Transaction) error {
		txns, err := uc.txnRepo.List(ctx, tx)
		if err != nil {
			return err
		}

		joiner, err := newViewJoiner(ctx, tx, uc.accountRepo, uc.categoryRepo)
		if err != nil {
			return err
		}

		totals = breakdown(txns, joiner, year, month, uc.env.now().Location())
		return nil
	})
	if err != nil {
		return nil, err
	}

	return totals, nil
}

func breakdown(txns []*domain.Transaction, joiner *viewJoiner, year int, month time.Month, loc *time.Location) []domain.CategoryTotal {
	byCategory := make(map[string]*domain.CategoryTotal)
	var order []string
	total := decimal.Zero

	for _, t := range txns {
		if t.Type != domain.TransactionTypeExpense || !t.InMonth(year, month, loc) {
			continue
		}

		categoryID := t.CategoryID
		if _, known := joiner.categories[categoryID]; !known {
			categoryID = ""
		}

		entry, ok := byCategory[categoryID]
		if !ok {
			entry = &domain.CategoryTotal{CategoryID: categoryID, Name: UncategorizedName, Amount: decimal.Zero}
			if c := joiner.categories[categoryID]; c != nil {
				entry.Name = c.Name
				entry.Color = c.Color
			}
			byCategory[categoryID] = entry
			order = append(order, categoryID)
		}

		entry.Amount = entry.Amount.Add(t.Amount)
		total = total.Add(t.Amount)
	}

	totals := make([]domain.CategoryTotal, 0, len(order))
	for _, id := range order {
		entry := byCategory[id]
		entry.Percentage = decimal.Zero
		if !total.IsZero() {
			entry.Percentage = entry.Amount.Div(total).Mul(decimal.NewFromInt(100)).Round(2)
		}
		totals = append(totals, *entry)
	}

	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Amount.GreaterThan(totals[j].Amount)
	})

	return totals
}
