package ports

import (
	"context"

	"invest-ledger/internal/core/domain"
)

//go:generate mockgen -source=mirror.go -destination=mocks/mirror_mock.go -package=mocks

// Mirror is the best-effort secondary document store. It must never be read
// as authoritative: writes are attempted after the primary commit and their
// failure is swallowed by callers.
type Mirror interface {
	PutAccount(ctx context.Context, account *domain.Account) error
	GetAccount(ctx context.Context, email string) (*domain.Account, error)
	AccountExists(ctx context.Context, email string) (bool, error)
	PutTransaction(ctx context.Context, transaction *domain.Transaction) error
}
