package domain

import "time"

// Snapshot is the full ledger state at one point in time.
type Snapshot struct {
	Accounts     []*Account
	Categories   []*Category
	Transactions []*Transaction
	Budgets      []*Budget
	Settings     *UserSettings
	TakenAt      time.Time
}

// IsEmpty reports whether the snapshot holds no records at all.
func (s *Snapshot) IsEmpty() bool {
	return s == nil || (len(s.Accounts) == 0 &&
		len(s.Categories) == 0 &&
		len(s.Transactions) == 0 &&
		len(s.Budgets) == 0 &&
		s.Settings == nil)
}
