package database

import (
	"fmt"

	"github.com/xpanvictor/audioscribe/internal/repository/credit"
	"gorm.io/gorm"
)

func MigrateDB(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&credit.AccountEntity{},
		&credit.LedgerEntryEntity{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	// references used to be unique across accounts
	m := db.Migrator()
	if m.HasIndex(&credit.LedgerEntryEntity{}, "idx_ledger_entries_reference") {
		if err := m.DropIndex(&credit.LedgerEntryEntity{}, "idx_ledger_entries_reference"); err != nil {
			return fmt.Errorf("failed to drop global reference index: %w", err)
		}
	}
	return nil
}
