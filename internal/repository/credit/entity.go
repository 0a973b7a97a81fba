package credit

import (
	"time"

	"github.com/google/uuid"
	domain "github.com/xpanvictor/audioscribe/internal/domains/credit"
	"gorm.io/gorm"
)

// AccountEntity represents the database entity for a credit account
type AccountEntity struct {
	ID             string    `gorm:"primaryKey;type:varchar(64);not null"`
	Email          string    `gorm:"type:varchar(191);index"`
	BalanceMinutes int       `gorm:"column:balance_minutes;not null;default:0;check:balance_minutes >= 0"`
	CreatedAt      time.Time `gorm:"autoCreateTime(3)"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime(3)"`
}

// TableName returns the table name for GORM
func (AccountEntity) TableName() string {
	return "credit_accounts"
}

func (a *AccountEntity) ToDomain() *domain.Account {
	return &domain.Account{
		ID:             a.ID,
		Email:          a.Email,
		BalanceMinutes: a.BalanceMinutes,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func (a *AccountEntity) FromDomain(account *domain.Account) {
	a.ID = account.ID
	a.Email = account.Email
	a.BalanceMinutes = account.BalanceMinutes
	a.CreatedAt = account.CreatedAt
	a.UpdatedAt = account.UpdatedAt
}

// LedgerEntryEntity is one applied debit or credit. A reference is unique
// per account, so each mutation applies at most once.
type LedgerEntryEntity struct {
	ID           string    `gorm:"primaryKey;type:char(36);not null"`
	AccountID    string    `gorm:"column:account_id;type:varchar(64);not null;index:idx_entries_account_created;uniqueIndex:idx_entries_account_reference,priority:1"`
	Kind         string    `gorm:"type:varchar(16);not null"`
	Minutes      int       `gorm:"not null"`
	Reference    string    `gorm:"type:varchar(191);not null;uniqueIndex:idx_entries_account_reference,priority:2"`
	BalanceAfter int       `gorm:"column:balance_after;not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime(3);index:idx_entries_account_created"`
}

// TableName returns the table name for GORM
func (LedgerEntryEntity) TableName() string {
	return "ledger_entries"
}

// BeforeCreate is a GORM hook to ensure UUID is set
func (e *LedgerEntryEntity) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}

func (e *LedgerEntryEntity) ToDomain() domain.Entry {
	return domain.Entry{
		ID:           e.ID,
		AccountID:    e.AccountID,
		Kind:         domain.EntryKind(e.Kind),
		Minutes:      e.Minutes,
		Reference:    e.Reference,
		BalanceAfter: e.BalanceAfter,
		CreatedAt:    e.CreatedAt,
	}
}
