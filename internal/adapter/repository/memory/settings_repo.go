package memory

import (
	"context"

	"github.com/iho/ledgerdash/internal/domain"
	"github.com/iho/ledgerdash/internal/usecase"
)

// SettingsRepository implements usecase.SettingsRepository.
type SettingsRepository struct {
	store *Store
}

// NewSettingsRepository creates a new SettingsRepository.
func NewSettingsRepository(store *Store) *SettingsRepository {
	return &SettingsRepository{store: store}
}

// Get returns the saved settings.
func (r *SettingsRepository) Get(ctx context.Context, tx usecase.Transaction) (*domain.UserSettings, error) {
	if _, err := r.store.reader(tx); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if r.store.settings == nil {
		return nil, domain.ErrSettingsNotFound
	}

	settings := *r.store.settings

	return &settings, nil
}

// Save stores settings, replacing any previous value.
func (r *SettingsRepository) Save(ctx context.Context, tx usecase.Transaction, settings *domain.UserSettings) error {
	t, err := r.store.writer(tx)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	old := r.store.settings
	cp := *settings
	r.store.settings = &cp
	t.onRollback(func() { r.store.settings = old })

	return nil
}

var _ usecase.SettingsRepository = (*SettingsRepository)(nil)
