package service

import (
	"context"
	"sync"
	"time"

	"suiquiz/internal/common"
	"suiquiz/internal/domain/model"
	"suiquiz/internal/domain/repository"
)

// DailyAttemptLimit is the number of quiz questions an account may submit
// per UTC calendar day.
const DailyAttemptLimit = 10

// RateGate enforces the per-account daily attempt quota. Check and
// increment are a single operation under a per-account lock, so two
// concurrent requests can never both pass a check that should only have
// admitted one of them combined. The daily rollover is lazy: stored
// records from a previous day are treated as empty and replaced on the
// next admitted request.
type RateGate struct {
	store repository.QuotaStore

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	now func() time.Time
}

func NewRateGate(store repository.QuotaStore) *RateGate {
	return &RateGate{
		store: store,
		locks: make(map[string]*sync.Mutex),
		now:   time.Now,
	}
}

type AdmitResult struct {
	Allowed   bool `json:"allowed"`
	Remaining int  `json:"remaining"`
}

// Admit reports whether the account may submit requested more attempts
// today, and charges them if so. A rejected request mutates nothing.
// requested == 0 is a peek: it reports the current remaining quota without
// creating or touching any record. Negative counts are a contract
// violation.
func (g *RateGate) Admit(ctx context.Context, accountID string, requested int) (AdmitResult, error) {
	if requested < 0 {
		return AdmitResult{}, common.Errorf("requested count %d is negative: %w", requested, common.ErrInvalidArgument)
	}

	lock := g.accountLock(accountID)
	lock.Lock()
	defer lock.Unlock()

	today := g.today()
	used, err := g.usedToday(ctx, accountID, today)
	if err != nil {
		return AdmitResult{}, err
	}

	if requested == 0 {
		return AdmitResult{Allowed: true, Remaining: DailyAttemptLimit - used}, nil
	}

	if used+requested > DailyAttemptLimit {
		return AdmitResult{Allowed: false, Remaining: DailyAttemptLimit - used}, nil
	}

	record := &model.QuotaRecord{
		AccountID:    accountID,
		WindowDate:   today,
		AttemptsUsed: used + requested,
	}
	if err := g.store.Put(ctx, record); err != nil {
		return AdmitResult{}, common.Errorf("rate gate: store quota record: %w", err)
	}
	return AdmitResult{Allowed: true, Remaining: DailyAttemptLimit - record.AttemptsUsed}, nil
}

// Usage returns the account's quota state for the current day without
// mutating anything.
func (g *RateGate) Usage(ctx context.Context, accountID string) (*model.QuotaRecord, error) {
	today := g.today()
	used, err := g.usedToday(ctx, accountID, today)
	if err != nil {
		return nil, err
	}
	return &model.QuotaRecord{AccountID: accountID, WindowDate: today, AttemptsUsed: used}, nil
}

func (g *RateGate) usedToday(ctx context.Context, accountID, today string) (int, error) {
	record, err := g.store.Get(ctx, accountID)
	if err != nil {
		return 0, common.Errorf("rate gate: load quota record: %w", err)
	}
	if record == nil || record.WindowDate != today {
		return 0, nil
	}
	return record.AttemptsUsed, nil
}

func (g *RateGate) today() string {
	return g.now().UTC().Format("2006-01-02")
}

func (g *RateGate) accountLock(accountID string) *sync.Mutex {
	g.mu.Lock()
	defer g.mu.Unlock()
	lock, ok := g.locks[accountID]
	if !ok {
		lock = &sync.Mutex{}
		g.locks[accountID] = lock
	}
	return lock
}
