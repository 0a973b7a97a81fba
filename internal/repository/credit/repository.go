package credit

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/xpanvictor/audioscribe/internal/domains/credit"
	"gorm.io/gorm"
)

type GormAccountRepo struct {
	db *gorm.DB
}

// Create implements credit.AccountRepository
func (g *GormAccountRepo) Create(ctx context.Context, a *domain.Account) error {
	entity := &AccountEntity{}
	entity.FromDomain(a)
	if err := g.db.WithContext(ctx).Create(entity).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrAccountExists
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	*a = *entity.ToDomain()
	return nil
}

// GetByID implements credit.AccountRepository
func (g *GormAccountRepo) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	return g.get(g.db.WithContext(ctx), id)
}

func (g *GormAccountRepo) get(tx *gorm.DB, id string) (*domain.Account, error) {
	var entity AccountEntity
	if err := tx.Where("id = ?", id).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return entity.ToDomain(), nil
}

// ApplyDebit implements credit.AccountRepository. The decrement is a
// conditional UPDATE so two processes can never both pass the check.
func (g *GormAccountRepo) ApplyDebit(ctx context.Context, id string, minutes int, reference string) (*domain.Account, bool, error) {
	return g.apply(ctx, id, domain.EntryDebit, minutes, reference)
}

// ApplyCredit implements credit.AccountRepository
func (g *GormAccountRepo) ApplyCredit(ctx context.Context, id string, minutes int, reference string) (*domain.Account, bool, error) {
	return g.apply(ctx, id, domain.EntryCredit, minutes, reference)
}

func (g *GormAccountRepo) apply(ctx context.Context, id string, kind domain.EntryKind, minutes int, reference string) (*domain.Account, bool, error) {
	var (
		result  *domain.Account
		applied bool
	)
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seen, err := g.hasReference(tx, id, reference)
		if err != nil {
			return err
		}
		if seen {
			account, err := g.get(tx, id)
			if err != nil {
				return err
			}
			result = account
			return nil
		}

		update := tx.Model(&AccountEntity{}).Where("id = ?", id)
		switch kind {
		case domain.EntryDebit:
			update = update.Where("balance_minutes >= ?", minutes).
				UpdateColumn("balance_minutes", gorm.Expr("balance_minutes - ?", minutes))
		default:
			update = update.UpdateColumn("balance_minutes", gorm.Expr("balance_minutes + ?", minutes))
		}
		if update.Error != nil {
			return fmt.Errorf("failed to update balance: %w", update.Error)
		}
		if update.RowsAffected == 0 {
			if _, err := g.get(tx, id); err != nil {
				return err
			}
			return domain.ErrInsufficientBalance
		}

		account, err := g.get(tx, id)
		if err != nil {
			return err
		}
		entry := &LedgerEntryEntity{
			AccountID:    id,
			Kind:         string(kind),
			Minutes:      minutes,
			Reference:    reference,
			BalanceAfter: account.BalanceMinutes,
		}
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to record ledger entry: %w", err)
		}
		result, applied = account, true
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// another writer recorded this reference first
			account, getErr := g.GetByID(ctx, id)
			if getErr != nil {
				return nil, false, getErr
			}
			return account, false, nil
		}
		return nil, false, err
	}
	return result, applied, nil
}

// HasReference implements credit.AccountRepository
func (g *GormAccountRepo) HasReference(ctx context.Context, id string, reference string) (bool, error) {
	return g.hasReference(g.db.WithContext(ctx), id, reference)
}

func (g *GormAccountRepo) hasReference(tx *gorm.DB, id string, reference string) (bool, error) {
	var seen int64
	err := tx.Model(&LedgerEntryEntity{}).
		Where("account_id = ? AND reference = ?", id, reference).
		Count(&seen).Error
	if err != nil {
		return false, fmt.Errorf("failed to check ledger reference: %w", err)
	}
	return seen > 0, nil
}

// Entries implements credit.AccountRepository
func (g *GormAccountRepo) Entries(ctx context.Context, id string, limit int) ([]domain.Entry, error) {
	var entities []LedgerEntryEntity
	q := g.db.WithContext(ctx).Where("account_id = ?", id).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&entities).Error; err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	entries := make([]domain.Entry, len(entities))
	for i := range entities {
		entries[i] = entities[i].ToDomain()
	}
	return entries, nil
}

// NewGormAccountRepo creates a new GORM-based account repository
func NewGormAccountRepo(db *gorm.DB) domain.AccountRepository {
	return &GormAccountRepo{db: db}
}
