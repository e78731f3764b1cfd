package repository

import (
	"context"

	"github.com/alexanderramin/chronicle/internal/domain"
)

// LedgerRepo is the persistence surface of the resume ledger. Records are
// append-only; nothing beyond these three operations is depended on.
type LedgerRepo interface {
	Append(ctx context.Context, rec *domain.LedgerRecord) error
	ListAll(ctx context.Context) ([]*domain.LedgerRecord, error)
	Clear(ctx context.Context) error
}
