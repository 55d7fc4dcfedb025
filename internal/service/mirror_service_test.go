package service

import (
	"context"
	"testing"
	"time"

	"invest-ledger/internal/core/domain"
	"invest-ledger/internal/core/ports/mocks"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type mirrorSyncTestDeps struct {
	svc         *MirrorSyncServiceImpl
	accountRepo *mocks.MockAccountRepository
	mirror      *mocks.MockMirror
	ctrl        *gomock.Controller
}

func setupMirrorSyncService(t *testing.T) *mirrorSyncTestDeps {
	ctrl := gomock.NewController(t)
	d := &mirrorSyncTestDeps{
		accountRepo: mocks.NewMockAccountRepository(ctrl),
		mirror:      mocks.NewMockMirror(ctrl),
		ctrl:        ctrl,
	}
	d.svc = NewMirrorSyncService(d.accountRepo, d.mirror, time.Second, zerolog.Nop())
	return d
}

func migrateAccounts() []domain.Account {
	return []domain.Account{
		{Email: "a@example.com", Status: domain.AccountStatusActive},
		{Email: "b@example.com", Status: domain.AccountStatusActive},
		{Email: "c@example.com", Status: domain.AccountStatusBlocked},
	}
}

func TestMirrorSyncService_Migrate_FreshMirror(t *testing.T) {
	d := setupMirrorSyncService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.accountRepo.EXPECT().GetAll(ctx).Return(migrateAccounts(), nil)
	d.mirror.EXPECT().AccountExists(gomock.Any(), "a@example.com").Return(false, nil)
	d.mirror.EXPECT().PutAccount(gomock.Any(), gomock.Any()).Return(nil)
	d.mirror.EXPECT().AccountExists(gomock.Any(), "b@example.com").Return(false, nil)
	d.mirror.EXPECT().PutAccount(gomock.Any(), gomock.Any()).Return(nil)
	d.mirror.EXPECT().AccountExists(gomock.Any(), "c@example.com").Return(false, nil)
	d.mirror.EXPECT().PutAccount(gomock.Any(), gomock.Any()).Return(nil)

	report, err := d.svc.Migrate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Migrated)
	assert.Equal(t, 0, report.Skipped)
	assert.Equal(t, 0, report.Failed)
	assert.Equal(t, 3, report.Total())
}

func TestMirrorSyncService_Migrate_Idempotent(t *testing.T) {
	d := setupMirrorSyncService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	// Second sweep: everything already mirrored, nothing is rewritten
	d.accountRepo.EXPECT().GetAll(ctx).Return(migrateAccounts(), nil)
	d.mirror.EXPECT().AccountExists(gomock.Any(), "a@example.com").Return(true, nil)
	d.mirror.EXPECT().AccountExists(gomock.Any(), "b@example.com").Return(true, nil)
	d.mirror.EXPECT().AccountExists(gomock.Any(), "c@example.com").Return(true, nil)

	report, err := d.svc.Migrate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Migrated)
	assert.Equal(t, 3, report.Skipped)
	assert.Equal(t, 0, report.Failed)
}

func TestMirrorSyncService_Migrate_PartialFailure(t *testing.T) {
	d := setupMirrorSyncService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.accountRepo.EXPECT().GetAll(ctx).Return(migrateAccounts(), nil)
	d.mirror.EXPECT().AccountExists(gomock.Any(), "a@example.com").Return(true, nil)
	// b fails on the existence check, c fails on the write; the sweep continues
	d.mirror.EXPECT().AccountExists(gomock.Any(), "b@example.com").Return(false, assert.AnError)
	d.mirror.EXPECT().AccountExists(gomock.Any(), "c@example.com").Return(false, nil)
	d.mirror.EXPECT().PutAccount(gomock.Any(), gomock.Any()).Return(assert.AnError)

	report, err := d.svc.Migrate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Migrated)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 2, report.Failed)
}

func TestMirrorSyncService_Migrate_MirrorDisabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := NewMirrorSyncService(mocks.NewMockAccountRepository(ctrl), nil, time.Second, zerolog.Nop())

	_, err := svc.Migrate(context.Background())
	assertAppError(t, err, "REQ_001")
}
