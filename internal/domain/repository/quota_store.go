package repository

import (
	"context"

	"suiquiz/internal/domain/model"
)

// QuotaStore holds one QuotaRecord per account. Get returns (nil, nil) when
// no record exists. The store is a plain keyed container; the rate gate owns
// the daily-window rules and the serialization of check-and-increment.
type QuotaStore interface {
	Get(ctx context.Context, accountID string) (*model.QuotaRecord, error)
	Put(ctx context.Context, record *model.QuotaRecord) error
}
