package usecase

import (
	"context"
	"errors"

	"github.com/iho/ledgerdash/internal/domain"
)

// SettingsUseCase handles the owner's preferences.
type SettingsUseCase struct {
	env          Env
	settingsRepo SettingsRepository
	accountRepo  AccountRepository
}

// NewSettingsUseCase creates a new SettingsUseCase.
func NewSettingsUseCase(env Env, settingsRepo SettingsRepository, accountRepo AccountRepository) *SettingsUseCase {
	return &SettingsUseCase{
		env:          env,
		settingsRepo: settingsRepo,
		accountRepo:  accountRepo,
	}
}

// GetSettings returns the saved settings, storing the defaults on first use.
func (uc *SettingsUseCase) GetSettings(ctx context.Context) (*domain.UserSettings, error) {
	var settings *domain.UserSettings

	err := uc.env.inTx(ctx, func(tx Transaction) error {
		var err error
		settings, err = uc.load(ctx, tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	return settings, nil
}

// UpdateSettingsInput holds the fields to change; nil fields are left as is.
// An empty DefaultAccountID clears it.
type UpdateSettingsInput struct {
	Currency         *string
	DateFormat       *string
	FiscalStartMonth *int
	FiscalStartYear  *int
	DefaultAccountID *string
	Theme            *domain.Theme
}

// UpdateSettings merges the non-nil fields into the settings.
func (uc *SettingsUseCase) UpdateSettings(ctx context.Context, input UpdateSettingsInput) (*domain.UserSettings, error) {
	var settings *domain.UserSettings

	err := uc.env.inTx(ctx, func(tx Transaction) error {
		current, err := uc.load(ctx, tx)
		if err != nil {
			return err
		}

		updated := *current
		if input.Currency != nil {
			updated.Currency = domain.NormalizeCurrency(*input.Currency)
		}
		if input.DateFormat != nil {
			updated.DateFormat = *input.DateFormat
		}
		if input.FiscalStartMonth != nil {
			updated.FiscalStartMonth = *input.FiscalStartMonth
		}
		if input.FiscalStartYear != nil {
			updated.FiscalStartYear = *input.FiscalStartYear
		}
		if input.DefaultAccountID != nil {
			updated.DefaultAccountID = *input.DefaultAccountID
		}
		if input.Theme != nil {
			updated.Theme = *input.Theme
		}

		if err := updated.Validate(); err != nil {
			return err
		}

		if updated.DefaultAccountID != "" {
			if _, err := uc.accountRepo.GetByID(ctx, tx, updated.DefaultAccountID); err != nil {
				return err
			}
		}

		updated.UpdatedAt = uc.env.now()

		if err := uc.settingsRepo.Save(ctx, tx, &updated); err != nil {
			return err
		}

		settings = &updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.env.emit(ctx, domain.EventTypeSettingsUpdated, domain.AggregateTypeSettings, settings.ID, map[string]any{
		"currency": settings.Currency,
		"theme":    string(settings.Theme),
	})

	return settings, nil
}

func (uc *SettingsUseCase) load(ctx context.Context, tx Transaction) (*domain.UserSettings, error) {
	settings, err := uc.settingsRepo.Get(ctx, tx)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, domain.ErrSettingsNotFound) {
		return nil, err
	}

	settings = domain.DefaultSettings(uc.env.IDGen.Generate(), uc.env.owner(""), uc.env.now())
	if err := uc.settingsRepo.Save(ctx, tx, settings); err != nil {
		return nil, err
	}

	return settings, nil
}
