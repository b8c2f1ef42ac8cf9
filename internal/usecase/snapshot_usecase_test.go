package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/ledgerdash/internal/domain"
	"github.com/iho/ledgerdash/internal/usecase"
	"github.com/iho/ledgerdash/internal/usecase/mocks"
)

func TestSnapshotUseCase_Restore(t *testing.T) {
	ctx := context.Background()

	t.Run("empty snapshot is skipped", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		state := mocks.NewMockStateStore(ctrl)
		repo := mocks.NewMockSnapshotRepository(ctrl)
		repo.EXPECT().Load(gomock.Any()).Return(&domain.Snapshot{}, nil)

		restored, err := usecase.NewSnapshotUseCase(state, repo, mocks.NewMockClock(testNow)).Restore(ctx)
		require.NoError(t, err)
		assert.False(t, restored)
	})

	t.Run("snapshot is imported", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		state := mocks.NewMockStateStore(ctrl)
		repo := mocks.NewMockSnapshotRepository(ctrl)

		snapshot := &domain.Snapshot{Accounts: []*domain.Account{{ID: "a1"}}}
		repo.EXPECT().Load(gomock.Any()).Return(snapshot, nil)
		state.EXPECT().Import(gomock.Any(), snapshot).Return(nil)

		restored, err := usecase.NewSnapshotUseCase(state, repo, mocks.NewMockClock(testNow)).Restore(ctx)
		require.NoError(t, err)
		assert.True(t, restored)
	})

	t.Run("load error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockSnapshotRepository(ctrl)
		loadErr := errors.New("db down")
		repo.EXPECT().Load(gomock.Any()).Return(nil, loadErr)

		_, err := usecase.NewSnapshotUseCase(mocks.NewMockStateStore(ctrl), repo, mocks.NewMockClock(testNow)).Restore(ctx)
		assert.ErrorIs(t, err, loadErr)
	})
}

func TestSnapshotUseCase_PersistRoundTrip(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t)
	x := l.account(t, "X", 100)
	l.record(t, usecase.CreateTransactionInput{AccountID: x.ID, Type: domain.TransactionTypeExpense, Amount: amount(30)})

	ctrl := gomock.NewController(t)
	repo := mocks.NewMockSnapshotRepository(ctrl)

	var saved *domain.Snapshot
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, s *domain.Snapshot) error {
		saved = s
		return nil
	})

	require.NoError(t, usecase.NewSnapshotUseCase(l.store, repo, l.clock).Persist(ctx))
	require.NotNil(t, saved)
	assert.Equal(t, testNow, saved.TakenAt)
	assert.Len(t, saved.Transactions, 1)

	other := newLedger(t)
	repo.EXPECT().Load(gomock.Any()).Return(saved, nil)

	restored, err := usecase.NewSnapshotUseCase(other.store, repo, other.clock).Restore(ctx)
	require.NoError(t, err)
	require.True(t, restored)

	other.requireBalance(t, x.ID, 70)

	report, err := other.reconciliation.GenerateReconciliationReport(ctx)
	require.NoError(t, err)
	assert.True(t, report.LedgerConsistent)
}
