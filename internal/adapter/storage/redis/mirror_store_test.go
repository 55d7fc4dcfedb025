package redis_test

import (
	"context"
	"testing"
	"time"

	"invest-ledger/internal/adapter/storage/redis"
	"invest-ledger/internal/core/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mirrorTestAccount() *domain.Account {
	return &domain.Account{
		Email:        "user@example.com",
		Name:         "Test User",
		PasswordHash: "hash",
		Balance:      decimal.NewFromInt(5500000),
		Currency:     "EUR",
		Status:       domain.AccountStatusActive,
		JoinedAt:     time.Now().UTC().Truncate(time.Second),
		UpdatedAt:    time.Now().UTC().Truncate(time.Second),
	}
}

func TestMirrorStore_PutAndGetAccount(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := redis.NewMirrorStore(client)
	ctx := context.Background()

	account := mirrorTestAccount()
	require.NoError(t, store.PutAccount(ctx, account))

	got, err := store.GetAccount(ctx, account.Email)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, account.Email, got.Email)
	assert.Equal(t, account.Name, got.Name)
	assert.True(t, account.Balance.Equal(got.Balance))
	assert.Equal(t, domain.AccountStatusActive, got.Status)
}

func TestMirrorStore_GetAccount_Missing(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := redis.NewMirrorStore(client)

	got, err := store.GetAccount(context.Background(), "missing@example.com")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestMirrorStore_AccountExists(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := redis.NewMirrorStore(client)
	ctx := context.Background()

	exists, err := store.AccountExists(ctx, "user@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, store.PutAccount(ctx, mirrorTestAccount()))

	exists, err = store.AccountExists(ctx, "user@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMirrorStore_AccountExists_CaseInsensitive(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := redis.NewMirrorStore(client)
	ctx := context.Background()

	require.NoError(t, store.PutAccount(ctx, mirrorTestAccount()))

	exists, err := store.AccountExists(ctx, "USER@Example.COM")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMirrorStore_PutAccount_Upsert(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := redis.NewMirrorStore(client)
	ctx := context.Background()

	account := mirrorTestAccount()
	require.NoError(t, store.PutAccount(ctx, account))

	account.Balance = decimal.NewFromInt(5499000)
	require.NoError(t, store.PutAccount(ctx, account))

	got, err := store.GetAccount(ctx, account.Email)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(5499000)))
}

func TestMirrorStore_PutTransaction(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := redis.NewMirrorStore(client)
	ctx := context.Background()

	txn := &domain.Transaction{
		ID:           uuid.New(),
		AccountEmail: "user@example.com",
		Direction:    domain.TransactionDeposit,
		Amount:       decimal.NewFromInt(1000),
		Currency:     "EUR",
		Status:       domain.TransactionStatusPending,
		Method:       "bank_transfer",
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, store.PutTransaction(ctx, txn))

	val, err := client.Get(ctx, "mirror:txn:"+txn.ID.String()).Result()
	require.NoError(t, err)
	assert.Contains(t, val, txn.ID.String())
	assert.Contains(t, val, "pending")
}
