package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// SnapshotUseCase moves the whole ledger state between the store and a snapshot repository.
type SnapshotUseCase struct {
	state        StateStore
	snapshotRepo SnapshotRepository
	clock        Clock
}

// NewSnapshotUseCase creates a new SnapshotUseCase.
func NewSnapshotUseCase(state StateStore, snapshotRepo SnapshotRepository, clock Clock) *SnapshotUseCase {
	return &SnapshotUseCase{
		state:        state,
		snapshotRepo: snapshotRepo,
		clock:        clock,
	}
}

// Restore loads the saved snapshot into the store. It reports false when nothing was saved.
func (uc *SnapshotUseCase) Restore(ctx context.Context) (bool, error) {
	snapshot, err := uc.snapshotRepo.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("load snapshot: %w", err)
	}

	if snapshot.IsEmpty() {
		return false, nil
	}

	if err := uc.state.Import(ctx, snapshot); err != nil {
		return false, fmt.Errorf("import snapshot: %w", err)
	}

	zerolog.Ctx(ctx).Info().
		Int("accounts", len(snapshot.Accounts)).
		Int("transactions", len(snapshot.Transactions)).
		Time("taken_at", snapshot.TakenAt).
		Msg("ledger restored from snapshot")

	return true, nil
}

// Persist saves the current store state.
func (uc *SnapshotUseCase) Persist(ctx context.Context) error {
	snapshot, err := uc.state.Export(ctx)
	if err != nil {
		return fmt.Errorf("export snapshot: %w", err)
	}

	snapshot.TakenAt = uc.clock.Now()

	if err := uc.snapshotRepo.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	return nil
}
