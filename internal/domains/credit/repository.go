package credit

import (
	"context"
	"math"
	"time"
)

type EntryKind string

const (
	EntryDebit  EntryKind = "debit"
	EntryCredit EntryKind = "credit"
)

// Account holds a user's minute balance.
// @Description Credit account, 1 credit = 1 minute of audio
type Account struct {
	ID             string    `json:"id" example:"user_01"`
	Email          string    `json:"email,omitempty" example:"guest@example.com"`
	BalanceMinutes int       `json:"balanceMinutes" example:"60"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Sufficient reports whether the account covers required minutes.
func (a Account) Sufficient(required int) bool {
	return a.BalanceMinutes >= required
}

// Entry records one applied balance mutation.
// @Description Ledger entry
type Entry struct {
	ID           string    `json:"id"`
	AccountID    string    `json:"accountId"`
	Kind         EntryKind `json:"kind" example:"debit"`
	Minutes      int       `json:"minutes" example:"3"`
	Reference    string    `json:"reference"`
	BalanceAfter int       `json:"balanceAfter" example:"57"`
	CreatedAt    time.Time `json:"createdAt"`
}

// EstimateMinutes converts an audio duration in seconds to billable whole
// minutes, rounding up: 61 seconds cost 2 minutes.
func EstimateMinutes(seconds float64) int {
	if seconds <= 0 || math.IsNaN(seconds) {
		return 0
	}
	return int(math.Ceil(seconds / 60))
}

// EstimateDuration is EstimateMinutes for a time.Duration.
func EstimateDuration(d time.Duration) int {
	return EstimateMinutes(d.Seconds())
}

// AccountRepository stores accounts. Only the Ledger calls the Apply
// methods; they must be atomic per account.
type AccountRepository interface {
	// Create a new account, ErrAccountExists if the id is taken
	Create(ctx context.Context, account *Account) error

	GetByID(ctx context.Context, id string) (*Account, error)

	// ApplyDebit subtracts minutes only if the balance covers them, else
	// ErrInsufficientBalance and nothing changes. A reference that was
	// already applied returns the current account with applied=false.
	ApplyDebit(ctx context.Context, id string, minutes int, reference string) (account *Account, applied bool, err error)

	// ApplyCredit adds minutes. Same reference semantics as ApplyDebit.
	ApplyCredit(ctx context.Context, id string, minutes int, reference string) (account *Account, applied bool, err error)

	// HasReference reports whether reference was applied to this account.
	// References are scoped per account.
	HasReference(ctx context.Context, id string, reference string) (bool, error)

	// Entries lists the newest entries first.
	Entries(ctx context.Context, id string, limit int) ([]Entry, error)
}
