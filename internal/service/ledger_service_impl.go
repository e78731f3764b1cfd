package service

import (
	"context"

	"github.com/alexanderramin/chronicle/internal/domain"
	"github.com/alexanderramin/chronicle/internal/repository"
)

type ledgerService struct {
	ledger repository.LedgerRepo
}

func NewLedgerService(ledger repository.LedgerRepo) LedgerService {
	return &ledgerService{ledger: ledger}
}

func (s *ledgerService) List(ctx context.Context) ([]*domain.LedgerRecord, error) {
	return s.ledger.ListAll(ctx)
}

func (s *ledgerService) Clear(ctx context.Context) error {
	return s.ledger.Clear(ctx)
}
