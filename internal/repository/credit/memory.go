package credit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	domain "github.com/xpanvictor/audioscribe/internal/domains/credit"
)

// MemoryAccountRepo keeps accounts in process memory. Balances do not
// survive a restart; it backs dev mode and tests.
type MemoryAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]domain.Account
	entries  map[string][]domain.Entry
	applied  map[string]struct{}
	now      func() time.Time
}

// Create implements credit.AccountRepository
func (m *MemoryAccountRepo) Create(ctx context.Context, a *domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.accounts[a.ID]; ok {
		return domain.ErrAccountExists
	}
	if a.BalanceMinutes < 0 {
		return domain.ErrInvalidAmount
	}
	now := m.now()
	a.CreatedAt, a.UpdatedAt = now, now
	m.accounts[a.ID] = *a
	return nil
}

// GetByID implements credit.AccountRepository
func (m *MemoryAccountRepo) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return &a, nil
}

// ApplyDebit implements credit.AccountRepository
func (m *MemoryAccountRepo) ApplyDebit(ctx context.Context, id string, minutes int, reference string) (*domain.Account, bool, error) {
	return m.apply(id, domain.EntryDebit, minutes, reference)
}

// ApplyCredit implements credit.AccountRepository
func (m *MemoryAccountRepo) ApplyCredit(ctx context.Context, id string, minutes int, reference string) (*domain.Account, bool, error) {
	return m.apply(id, domain.EntryCredit, minutes, reference)
}

func (m *MemoryAccountRepo) apply(id string, kind domain.EntryKind, minutes int, reference string) (*domain.Account, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.accounts[id]
	if !ok {
		return nil, false, domain.ErrAccountNotFound
	}
	if _, done := m.applied[refKey(id, reference)]; done && reference != "" {
		return &a, false, nil
	}

	switch kind {
	case domain.EntryDebit:
		if a.BalanceMinutes < minutes {
			return nil, false, domain.ErrInsufficientBalance
		}
		a.BalanceMinutes -= minutes
	case domain.EntryCredit:
		a.BalanceMinutes += minutes
	}
	a.UpdatedAt = m.now()
	m.accounts[id] = a

	if reference != "" {
		m.applied[refKey(id, reference)] = struct{}{}
	}
	m.entries[id] = append(m.entries[id], domain.Entry{
		ID:           uuid.NewString(),
		AccountID:    id,
		Kind:         kind,
		Minutes:      minutes,
		Reference:    reference,
		BalanceAfter: a.BalanceMinutes,
		CreatedAt:    a.UpdatedAt,
	})
	return &a, true, nil
}

// HasReference implements credit.AccountRepository
func (m *MemoryAccountRepo) HasReference(ctx context.Context, id string, reference string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, done := m.applied[refKey(id, reference)]
	return done, nil
}

func refKey(id, reference string) string {
	return id + "\x00" + reference
}

// Entries implements credit.AccountRepository
func (m *MemoryAccountRepo) Entries(ctx context.Context, id string, limit int) ([]domain.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	all := m.entries[id]
	out := make([]domain.Entry, len(all))
	copy(out, all)
	// newest first
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// NewMemoryAccountRepo creates an empty in-memory repository
func NewMemoryAccountRepo() *MemoryAccountRepo {
	return &MemoryAccountRepo{
		accounts: make(map[string]domain.Account),
		entries:  make(map[string][]domain.Entry),
		applied:  make(map[string]struct{}),
		now:      time.Now,
	}
}
