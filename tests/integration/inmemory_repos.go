package integration

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"invest-ledger/internal/core/domain"
	"invest-ledger/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// --- In-Memory Account Repo ---

type inMemoryAccountRepo struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account // keyed by normalized email
}

func newInMemoryAccountRepo() *inMemoryAccountRepo {
	return &inMemoryAccountRepo{accounts: make(map[string]*domain.Account)}
}

func (r *inMemoryAccountRepo) Create(ctx context.Context, a *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := domain.NormalizeEmail(a.Email)
	if _, ok := r.accounts[key]; ok {
		return fmt.Errorf("email already exists")
	}
	cp := *a
	r.accounts[key] = &cp
	return nil
}

func (r *inMemoryAccountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[domain.NormalizeEmail(email)]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *inMemoryAccountRepo) GetByEmailForUpdate(ctx context.Context, tx pgx.Tx, email string) (*domain.Account, error) {
	return r.GetByEmail(ctx, email)
}

func (r *inMemoryAccountRepo) GetAll(ctx context.Context) ([]domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JoinedAt.Before(out[j].JoinedAt) })
	return out, nil
}

func (r *inMemoryAccountRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, email string, balance decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[domain.NormalizeEmail(email)]
	if !ok {
		return fmt.Errorf("account not found")
	}
	a.Balance = balance
	return nil
}

func (r *inMemoryAccountRepo) UpdateStatus(ctx context.Context, email string, status domain.AccountStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[domain.NormalizeEmail(email)]
	if !ok {
		return fmt.Errorf("account not found")
	}
	a.Status = status
	return nil
}

func (r *inMemoryAccountRepo) SetVerified(ctx context.Context, email string, verified bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[domain.NormalizeEmail(email)]
	if !ok {
		return fmt.Errorf("account not found")
	}
	a.IsVerified = verified
	return nil
}

// --- In-Memory Transaction Repo ---

type inMemoryTransactionRepo struct {
	mu           sync.RWMutex
	transactions map[uuid.UUID]*domain.Transaction
}

func newInMemoryTransactionRepo() *inMemoryTransactionRepo {
	return &inMemoryTransactionRepo{transactions: make(map[uuid.UUID]*domain.Transaction)}
}

func (r *inMemoryTransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *t
	r.transactions[t.ID] = &cp
	return nil
}

func (r *inMemoryTransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.transactions[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *inMemoryTransactionRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Transaction, error) {
	return r.GetByID(ctx, id)
}

func (r *inMemoryTransactionRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.TransactionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.transactions[id]
	if !ok {
		return fmt.Errorf("transaction not found")
	}
	t.Status = status
	return nil
}

func (r *inMemoryTransactionRepo) ListByAccount(ctx context.Context, email string) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	key := domain.NormalizeEmail(email)
	var out []domain.Transaction
	for _, t := range r.transactions {
		if t.AccountEmail == key {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *inMemoryTransactionRepo) List(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Transaction
	for _, t := range r.transactions {
		if params.AccountEmail != nil && t.AccountEmail != domain.NormalizeEmail(*params.AccountEmail) {
			continue
		}
		if params.Status != nil && t.Status != *params.Status {
			continue
		}
		if params.Direction != nil && t.Direction != *params.Direction {
			continue
		}
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	total := int64(len(result))

	// Simple pagination
	start := (params.Page - 1) * params.PageSize
	if start >= len(result) {
		return []domain.Transaction{}, total, nil
	}
	end := start + params.PageSize
	if end > len(result) {
		end = len(result)
	}
	return result[start:end], total, nil
}

func (r *inMemoryTransactionRepo) GetStats(ctx context.Context) (*ports.LedgerStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats := &ports.LedgerStats{
		PendingDeposits:   decimal.Zero,
		CompletedDeposits: decimal.Zero,
		CompletedOutflows: decimal.Zero,
	}
	for _, t := range r.transactions {
		stats.TotalTransactions++
		switch t.Status {
		case domain.TransactionStatusPending:
			stats.Pending++
			if t.Direction == domain.TransactionDeposit {
				stats.PendingDeposits = stats.PendingDeposits.Add(t.Amount)
			}
		case domain.TransactionStatusCompleted:
			stats.Completed++
			if t.Direction == domain.TransactionDeposit {
				stats.CompletedDeposits = stats.CompletedDeposits.Add(t.Amount)
			} else {
				stats.CompletedOutflows = stats.CompletedOutflows.Add(t.Amount)
			}
		case domain.TransactionStatusRejected:
			stats.Rejected++
		}
	}
	return stats, nil
}

// --- In-Memory Mirror ---

type inMemoryMirror struct {
	mu           sync.RWMutex
	accounts     map[string]*domain.Account
	transactions map[uuid.UUID]*domain.Transaction
	failPuts     bool // when set, PutAccount/PutTransaction fail
}

func newInMemoryMirror() *inMemoryMirror {
	return &inMemoryMirror{
		accounts:     make(map[string]*domain.Account),
		transactions: make(map[uuid.UUID]*domain.Transaction),
	}
}

func (m *inMemoryMirror) PutAccount(ctx context.Context, a *domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failPuts {
		return fmt.Errorf("mirror unavailable")
	}
	cp := *a
	m.accounts[domain.NormalizeEmail(a.Email)] = &cp
	return nil
}

func (m *inMemoryMirror) GetAccount(ctx context.Context, email string) (*domain.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.accounts[domain.NormalizeEmail(email)]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (m *inMemoryMirror) AccountExists(ctx context.Context, email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.accounts[domain.NormalizeEmail(email)]
	return ok, nil
}

func (m *inMemoryMirror) PutTransaction(ctx context.Context, t *domain.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failPuts {
		return fmt.Errorf("mirror unavailable")
	}
	cp := *t
	m.transactions[t.ID] = &cp
	return nil
}

// --- In-Memory Verification Repo ---

type inMemoryVerificationRepo struct {
	mu            sync.RWMutex
	verifications map[uuid.UUID]*domain.Verification
}

func newInMemoryVerificationRepo() *inMemoryVerificationRepo {
	return &inMemoryVerificationRepo{verifications: make(map[uuid.UUID]*domain.Verification)}
}

func (r *inMemoryVerificationRepo) Create(ctx context.Context, v *domain.Verification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *v
	r.verifications[v.ID] = &cp
	return nil
}

func (r *inMemoryVerificationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Verification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.verifications[id]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (r *inMemoryVerificationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.VerificationStatus, notes *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.verifications[id]
	if !ok {
		return fmt.Errorf("verification not found: %s", id)
	}
	v.Status = status
	v.AdminNotes = notes
	now := time.Now().UTC()
	v.DecidedAt = &now
	return nil
}

func (r *inMemoryVerificationRepo) ListByAccount(ctx context.Context, email string) ([]domain.Verification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	key := domain.NormalizeEmail(email)
	var out []domain.Verification
	for _, v := range r.verifications {
		if domain.NormalizeEmail(v.AccountEmail) == key {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.Before(out[j].SubmittedAt) })
	return out, nil
}

func (r *inMemoryVerificationRepo) ListAll(ctx context.Context) ([]domain.Verification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Verification, 0, len(r.verifications))
	for _, v := range r.verifications {
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.Before(out[j].SubmittedAt) })
	return out, nil
}

// --- In-Memory Investment Repo ---

type inMemoryInvestmentRepo struct {
	mu          sync.RWMutex
	investments map[uuid.UUID]*domain.Investment
}

func newInMemoryInvestmentRepo() *inMemoryInvestmentRepo {
	return &inMemoryInvestmentRepo{investments: make(map[uuid.UUID]*domain.Investment)}
}

func (r *inMemoryInvestmentRepo) Create(ctx context.Context, inv *domain.Investment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *inv
	r.investments[inv.ID] = &cp
	return nil
}

func (r *inMemoryInvestmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Investment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inv, ok := r.investments[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (r *inMemoryInvestmentRepo) ListByAccount(ctx context.Context, email string) ([]domain.Investment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	key := domain.NormalizeEmail(email)
	var out []domain.Investment
	for _, inv := range r.investments {
		if domain.NormalizeEmail(inv.AccountEmail) == key {
			out = append(out, *inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (r *inMemoryInvestmentRepo) ListAll(ctx context.Context) ([]domain.Investment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Investment, 0, len(r.investments))
	for _, inv := range r.investments {
		out = append(out, *inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

// --- In-Memory Transactor (no-op tx) ---

type inMemoryTransactor struct{}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return &noopTx{}, nil
}

// noopTx is a no-op pgx.Tx implementation for in-memory testing.
type noopTx struct{}

func (t *noopTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *noopTx) Commit(ctx context.Context) error          { return nil }
func (t *noopTx) Rollback(ctx context.Context) error        { return nil }
func (t *noopTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *noopTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *noopTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *noopTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *noopTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *noopTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *noopTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *noopTx) Conn() *pgx.Conn { return nil }
