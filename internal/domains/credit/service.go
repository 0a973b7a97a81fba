package credit

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/xpanvictor/audioscribe/pkg/Logger"
)

// Common errors
var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrAccountExists       = errors.New("account already exists")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrDuplicateReference  = errors.New("reference already used")
)

const DefaultSignupMinutes = 60

// Ledger is the single authority over account balances.
type Ledger interface {
	Get(ctx context.Context, accountID string) (*Account, error)

	// Provision returns the account, creating it with the signup
	// allowance on first sight.
	Provision(ctx context.Context, accountID, email string) (*Account, error)

	// CheckSufficient is a read; it never mutates.
	CheckSufficient(ctx context.Context, accountID string, requiredMinutes int) (bool, error)

	// Debit is checked-then-applied as one step per account. Replaying a
	// reference is a no-op that returns the current account.
	Debit(ctx context.Context, accountID string, minutes int, reference string) (*Account, error)

	Credit(ctx context.Context, accountID string, minutes int, reference string) (*Account, error)

	// Reserve holds minutes against the balance before billable work
	// starts. Held minutes are unavailable to other reservations and
	// debits until the hold is committed or released. A reference this
	// account already used, committed or held, is ErrDuplicateReference.
	Reserve(ctx context.Context, accountID string, minutes int, reference string) (*Reservation, error)

	// Commit debits a reservation and drops the hold.
	Commit(ctx context.Context, reservation *Reservation) (*Account, error)

	// Release drops the hold without debiting.
	Release(reservation *Reservation)

	History(ctx context.Context, accountID string, limit int) ([]Entry, error)
}

// Reservation is a hold on minutes of one account.
type Reservation struct {
	AccountID string
	Reference string
	Minutes   int
}

type ledgerService struct {
	repository    AccountRepository
	logger        *Logger.Logger
	signupMinutes int

	// per-account serialization of check+debit
	locks sync.Map

	holdsMu sync.Mutex
	// account -> reference -> minutes
	holds map[string]map[string]int
}

// held is the total minutes on hold for accountID, skipping one reference.
func (s *ledgerService) held(accountID, except string) int {
	s.holdsMu.Lock()
	defer s.holdsMu.Unlock()
	total := 0
	for ref, minutes := range s.holds[accountID] {
		if ref != except {
			total += minutes
		}
	}
	return total
}

func (s *ledgerService) isHeld(accountID, reference string) bool {
	s.holdsMu.Lock()
	defer s.holdsMu.Unlock()
	_, ok := s.holds[accountID][reference]
	return ok
}

func (s *ledgerService) hold(accountID, reference string, minutes int) {
	s.holdsMu.Lock()
	defer s.holdsMu.Unlock()
	if s.holds[accountID] == nil {
		s.holds[accountID] = make(map[string]int)
	}
	s.holds[accountID][reference] = minutes
}

func (s *ledgerService) drop(accountID, reference string) {
	s.holdsMu.Lock()
	defer s.holdsMu.Unlock()
	delete(s.holds[accountID], reference)
	if len(s.holds[accountID]) == 0 {
		delete(s.holds, accountID)
	}
}

func (s *ledgerService) lock(accountID string) func() {
	v, _ := s.locks.LoadOrStore(accountID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Get implements Ledger
func (s *ledgerService) Get(ctx context.Context, accountID string) (*Account, error) {
	return s.repository.GetByID(ctx, accountID)
}

// Provision implements Ledger
func (s *ledgerService) Provision(ctx context.Context, accountID, email string) (*Account, error) {
	unlock := s.lock(accountID)
	defer unlock()

	existing, err := s.repository.GetByID(ctx, accountID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrAccountNotFound) {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	account := &Account{
		ID:             accountID,
		Email:          email,
		BalanceMinutes: s.signupMinutes,
	}
	if err := s.repository.Create(ctx, account); err != nil {
		if errors.Is(err, ErrAccountExists) {
			// provisioned by another process in between
			return s.repository.GetByID(ctx, accountID)
		}
		s.logger.Errorf("error provisioning account %s: %v", accountID, err)
		return nil, fmt.Errorf("failed to provision account: %w", err)
	}

	s.logger.Infof("account provisioned: %s with %d minutes", accountID, account.BalanceMinutes)
	return account, nil
}

// CheckSufficient implements Ledger
func (s *ledgerService) CheckSufficient(ctx context.Context, accountID string, requiredMinutes int) (bool, error) {
	account, err := s.repository.GetByID(ctx, accountID)
	if err != nil {
		return false, err
	}
	return account.Sufficient(requiredMinutes), nil
}

// Debit implements Ledger
func (s *ledgerService) Debit(ctx context.Context, accountID string, minutes int, reference string) (*Account, error) {
	if minutes < 0 {
		return nil, fmt.Errorf("%w: debit of %d minutes", ErrInvalidAmount, minutes)
	}
	unlock := s.lock(accountID)
	defer unlock()

	if minutes == 0 {
		return s.repository.GetByID(ctx, accountID)
	}
	if reference == "" {
		reference = uuid.NewString()
	}
	account, applied, err := s.debit(ctx, accountID, minutes, reference)
	if err != nil {
		return nil, err
	}
	if !applied {
		s.logger.Infof("debit %s already applied to %s, skipping", reference, accountID)
	}
	return account, nil
}

// debit applies a debit with the account lock held. Minutes on hold for
// other references are not spendable.
func (s *ledgerService) debit(ctx context.Context, accountID string, minutes int, reference string) (*Account, bool, error) {
	current, err := s.repository.GetByID(ctx, accountID)
	if err != nil {
		return nil, false, err
	}
	used, err := s.repository.HasReference(ctx, accountID, "debit:"+reference)
	if err != nil {
		return nil, false, fmt.Errorf("failed to check reference: %w", err)
	}
	if used {
		return current, false, nil
	}
	if available := current.BalanceMinutes - s.held(accountID, reference); available < minutes {
		return nil, false, fmt.Errorf("%w: %d minutes required, %d available", ErrInsufficientBalance, minutes, available)
	}

	account, applied, err := s.repository.ApplyDebit(ctx, accountID, minutes, "debit:"+reference)
	if err != nil {
		if errors.Is(err, ErrInsufficientBalance) || errors.Is(err, ErrAccountNotFound) {
			return nil, false, err
		}
		s.logger.Errorf("error debiting account %s: %v", accountID, err)
		return nil, false, fmt.Errorf("failed to debit account: %w", err)
	}
	if applied {
		s.logger.Infof("debited %d minutes from %s, balance %d", minutes, accountID, account.BalanceMinutes)
	}
	return account, applied, nil
}

// Reserve implements Ledger
func (s *ledgerService) Reserve(ctx context.Context, accountID string, minutes int, reference string) (*Reservation, error) {
	if minutes < 0 {
		return nil, fmt.Errorf("%w: reservation of %d minutes", ErrInvalidAmount, minutes)
	}
	if reference == "" {
		reference = uuid.NewString()
	}
	unlock := s.lock(accountID)
	defer unlock()

	account, err := s.repository.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if s.isHeld(accountID, reference) {
		return nil, fmt.Errorf("%w: %s is in progress", ErrDuplicateReference, reference)
	}
	used, err := s.repository.HasReference(ctx, accountID, "debit:"+reference)
	if err != nil {
		return nil, fmt.Errorf("failed to check reference: %w", err)
	}
	if used {
		return nil, fmt.Errorf("%w: %s was already charged", ErrDuplicateReference, reference)
	}
	if available := account.BalanceMinutes - s.held(accountID, ""); available < minutes {
		return nil, fmt.Errorf("%w: %d minutes required, %d available", ErrInsufficientBalance, minutes, available)
	}

	s.hold(accountID, reference, minutes)
	s.logger.Debugf("reserved %d minutes of %s for %s", minutes, accountID, reference)
	return &Reservation{AccountID: accountID, Reference: reference, Minutes: minutes}, nil
}

// Commit implements Ledger
func (s *ledgerService) Commit(ctx context.Context, r *Reservation) (*Account, error) {
	unlock := s.lock(r.AccountID)
	defer unlock()
	defer s.drop(r.AccountID, r.Reference)

	if !s.isHeld(r.AccountID, r.Reference) {
		return nil, fmt.Errorf("%w: no hold for %s", ErrDuplicateReference, r.Reference)
	}
	if r.Minutes == 0 {
		return s.repository.GetByID(ctx, r.AccountID)
	}
	account, applied, err := s.debit(ctx, r.AccountID, r.Minutes, r.Reference)
	if err != nil {
		return nil, err
	}
	if !applied {
		// charged by another process first
		return nil, fmt.Errorf("%w: %s was already charged", ErrDuplicateReference, r.Reference)
	}
	return account, nil
}

// Release implements Ledger
func (s *ledgerService) Release(r *Reservation) {
	if r == nil {
		return
	}
	unlock := s.lock(r.AccountID)
	defer unlock()
	s.drop(r.AccountID, r.Reference)
}

// Credit implements Ledger
func (s *ledgerService) Credit(ctx context.Context, accountID string, minutes int, reference string) (*Account, error) {
	if minutes < 0 {
		return nil, fmt.Errorf("%w: credit of %d minutes", ErrInvalidAmount, minutes)
	}
	unlock := s.lock(accountID)
	defer unlock()

	if minutes == 0 {
		return s.repository.GetByID(ctx, accountID)
	}
	if reference == "" {
		reference = uuid.NewString()
	}

	account, applied, err := s.repository.ApplyCredit(ctx, accountID, minutes, "credit:"+reference)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, err
		}
		s.logger.Errorf("error crediting account %s: %v", accountID, err)
		return nil, fmt.Errorf("failed to credit account: %w", err)
	}
	if applied {
		s.logger.Infof("credited %d minutes to %s, balance %d", minutes, accountID, account.BalanceMinutes)
	}
	return account, nil
}

// History implements Ledger
func (s *ledgerService) History(ctx context.Context, accountID string, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if _, err := s.repository.GetByID(ctx, accountID); err != nil {
		return nil, err
	}
	return s.repository.Entries(ctx, accountID, limit)
}

// NewLedger creates the ledger service
func NewLedger(repository AccountRepository, logger *Logger.Logger, signupMinutes int) Ledger {
	if signupMinutes <= 0 {
		signupMinutes = DefaultSignupMinutes
	}
	return &ledgerService{
		repository:    repository,
		logger:        logger,
		signupMinutes: signupMinutes,
		holds:         make(map[string]map[string]int),
	}
}
