package service

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"sync"
	"time"

	"suiquiz/internal/common"
	"suiquiz/internal/domain/model"
	"suiquiz/internal/platform/ledger"
	"suiquiz/internal/platform/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// LedgerReader is the read surface of the Sui fullnode the aggregator
// depends on.
type LedgerReader interface {
	GetObject(ctx context.Context, objectID string) (*ledger.ObjectData, error)
	GetDynamicFields(ctx context.Context, parentID string, cursor *string, limit int) (*ledger.DynamicFieldPage, error)
	GetDynamicFieldObject(ctx context.Context, parentID string, name ledger.DynamicFieldName) (*ledger.ObjectData, error)
}

// LeaderboardService reconstructs the ranked standings from the on-chain
// score table. The result is an eventually-consistent snapshot: the chain
// may advance between key enumeration and per-key resolution, and keys
// whose lookups fail are omitted rather than failing the aggregation.
type LeaderboardService struct {
	ledger        LedgerReader
	boardObjectID string
	pageSize      int
	inFlight      int
	timeout       time.Duration
}

func NewLeaderboardService(reader LedgerReader, boardObjectID string, pageSize, inFlight int, timeout time.Duration) *LeaderboardService {
	if pageSize <= 0 {
		pageSize = 50
	}
	if inFlight <= 0 {
		inFlight = 8
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &LeaderboardService{
		ledger:        reader,
		boardObjectID: boardObjectID,
		pageSize:      pageSize,
		inFlight:      inFlight,
		timeout:       timeout,
	}
}

type AggregateResult struct {
	Entries []model.LeaderboardEntry `json:"entries"`
	// Partial is set when any key was skipped because its lookup failed or
	// the deadline cut the walk short.
	Partial bool `json:"partial"`
}

// leaderboardFields is the Move layout of the shared leaderboard object:
// a Table<address, u64> under the "scores" field.
type leaderboardFields struct {
	Scores struct {
		Fields struct {
			ID struct {
				ID string `json:"id"`
			} `json:"id"`
		} `json:"fields"`
	} `json:"scores"`
}

type scoreValueFields struct {
	Value json.RawMessage `json:"value"`
}

// Aggregate walks the score table and produces the ranked standings:
// descending by score, ties broken by account id ascending, ranks 1-based.
func (s *LeaderboardService) Aggregate(ctx context.Context) (*AggregateResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	tableID, err := s.resolveTableID(ctx)
	if err != nil {
		return nil, err
	}

	accounts, partial := s.enumerateAccounts(ctx, tableID)

	type resolved struct {
		account string
		score   uint64
	}
	results := make([]*resolved, len(accounts))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.inFlight)
	for i, account := range accounts {
		i, account := i, account
		g.Go(func() error {
			score, err := s.resolveScore(gctx, tableID, account)
			if err != nil {
				logger.Log.Warn("leaderboard entry skipped",
					zap.String("account", account),
					zap.Error(err))
				mu.Lock()
				partial = true
				mu.Unlock()
				return nil
			}
			results[i] = &resolved{account: account, score: score}
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; failures are logged and skipped

	entries := make([]model.LeaderboardEntry, 0, len(results))
	for _, r := range results {
		if r == nil {
			continue
		}
		level, rarity := model.TierForScore(r.score)
		entries = append(entries, model.LeaderboardEntry{
			AccountID: r.account,
			Score:     r.score,
			Level:     level,
			Rarity:    rarity,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].AccountID < entries[j].AccountID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	return &AggregateResult{Entries: entries, Partial: partial}, nil
}

// resolveTableID reads the shared leaderboard object and extracts the id
// of its score table.
func (s *LeaderboardService) resolveTableID(ctx context.Context) (string, error) {
	obj, err := s.ledger.GetObject(ctx, s.boardObjectID)
	if err != nil {
		return "", common.Errorf("resolve leaderboard object %s: %v: %w", s.boardObjectID, err, common.ErrLedgerRead)
	}
	if obj.Content == nil {
		return "", common.Errorf("leaderboard object %s has no content: %w", s.boardObjectID, common.ErrLedgerRead)
	}
	var fields leaderboardFields
	if err := json.Unmarshal(obj.Content.Fields, &fields); err != nil {
		return "", common.Errorf("parse leaderboard object %s fields: %v: %w", s.boardObjectID, err, common.ErrLedgerRead)
	}
	tableID := fields.Scores.Fields.ID.ID
	if tableID == "" {
		return "", common.Errorf("leaderboard object %s has no score table: %w", s.boardObjectID, common.ErrLedgerRead)
	}
	return tableID, nil
}

// enumerateAccounts follows the table's pagination cursor until exhausted.
// A failed page ends the walk with whatever keys were collected so far.
func (s *LeaderboardService) enumerateAccounts(ctx context.Context, tableID string) (accounts []string, partial bool) {
	var cursor *string
	for {
		page, err := s.ledger.GetDynamicFields(ctx, tableID, cursor, s.pageSize)
		if err != nil {
			logger.Log.Warn("leaderboard key enumeration cut short",
				zap.String("table", tableID),
				zap.Int("collected", len(accounts)),
				zap.Error(err))
			return accounts, true
		}
		for _, field := range page.Data {
			account, ok := field.Name.Value.(string)
			if !ok || account == "" {
				logger.Log.Warn("leaderboard table key is not an address", zap.Any("name", field.Name))
				partial = true
				continue
			}
			accounts = append(accounts, account)
		}
		if !page.HasNextPage || page.NextCursor == nil {
			return accounts, partial
		}
		cursor = page.NextCursor
	}
}

func (s *LeaderboardService) resolveScore(ctx context.Context, tableID, account string) (uint64, error) {
	obj, err := s.ledger.GetDynamicFieldObject(ctx, tableID, ledger.DynamicFieldName{Type: "address", Value: account})
	if err != nil {
		return 0, common.Errorf("resolve score for %s: %v: %w", account, err, common.ErrLedgerRead)
	}
	if obj.Content == nil {
		return 0, common.Errorf("score entry for %s has no content: %w", account, common.ErrLedgerRead)
	}
	var fields scoreValueFields
	if err := json.Unmarshal(obj.Content.Fields, &fields); err != nil {
		return 0, common.Errorf("parse score entry for %s: %v: %w", account, err, common.ErrLedgerRead)
	}
	return parseU64(fields.Value)
}

// parseU64 accepts the two encodings the fullnode uses for u64 values:
// a JSON string or a JSON number.
func parseU64(raw json.RawMessage) (uint64, error) {
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return strconv.ParseUint(asString, 10, 64)
	}
	var asNumber uint64
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return asNumber, nil
	}
	return 0, common.Errorf("score value %s is not a u64: %w", string(raw), common.ErrLedgerRead)
}
