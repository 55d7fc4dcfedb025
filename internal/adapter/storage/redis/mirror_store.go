package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"invest-ledger/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

// MirrorStore implements ports.Mirror using Redis as the secondary document
// store. Accounts and transactions are kept as JSON documents; neither is
// ever treated as authoritative.
type MirrorStore struct {
	client *goredis.Client
}

// NewMirrorStore creates a new Redis-backed mirror store.
func NewMirrorStore(client *goredis.Client) *MirrorStore {
	return &MirrorStore{client: client}
}

func accountKey(email string) string {
	return "mirror:account:" + domain.NormalizeEmail(email)
}

func transactionKey(id string) string {
	return "mirror:txn:" + id
}

// PutAccount upserts the full account document. Mirror documents carry no
// TTL: the migrate sweep relies on them persisting.
func (s *MirrorStore) PutAccount(ctx context.Context, account *domain.Account) error {
	doc, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("marshal mirror account: %w", err)
	}
	if err := s.client.Set(ctx, accountKey(account.Email), doc, 0).Err(); err != nil {
		return fmt.Errorf("mirror put account: %w", err)
	}
	return nil
}

// GetAccount retrieves the mirrored account document.
// Returns nil, nil if the document does not exist.
func (s *MirrorStore) GetAccount(ctx context.Context, email string) (*domain.Account, error) {
	val, err := s.client.Get(ctx, accountKey(email)).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("mirror get account: %w", err)
	}

	account := &domain.Account{}
	if err := json.Unmarshal(val, account); err != nil {
		return nil, fmt.Errorf("unmarshal mirror account: %w", err)
	}
	return account, nil
}

// AccountExists reports whether a mirror document exists for the email.
func (s *MirrorStore) AccountExists(ctx context.Context, email string) (bool, error) {
	n, err := s.client.Exists(ctx, accountKey(email)).Result()
	if err != nil {
		return false, fmt.Errorf("mirror account exists: %w", err)
	}
	return n > 0, nil
}

// PutTransaction upserts the full transaction document.
func (s *MirrorStore) PutTransaction(ctx context.Context, transaction *domain.Transaction) error {
	doc, err := json.Marshal(transaction)
	if err != nil {
		return fmt.Errorf("marshal mirror transaction: %w", err)
	}
	if err := s.client.Set(ctx, transactionKey(transaction.ID.String()), doc, 0).Err(); err != nil {
		return fmt.Errorf("mirror put transaction: %w", err)
	}
	return nil
}
