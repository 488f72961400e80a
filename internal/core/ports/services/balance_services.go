package services

import (
	"context"

	"github.com/SscSPs/balance_updater/internal/core/domain"
	"github.com/SscSPs/balance_updater/internal/dto"
)

// BalanceReaderSvc defines read operations for balance data
type BalanceReaderSvc interface {
	// GetCurrentBalance returns the latest balance, or the "no data" sentinel when none exists.
	GetCurrentBalance(ctx context.Context) (domain.CurrentBalance, error)

	// ListBalanceHistory returns a page of records, newest first.
	ListBalanceHistory(ctx context.Context, params dto.ListBalancesParams) (*dto.ListBalancesResponse, error)
}

// BalanceWriterSvc defines write operations for balance data
type BalanceWriterSvc interface {
	// SubmitBalance normalizes rawInput and records it for the current calendar day.
	SubmitBalance(ctx context.Context, rawInput string, operatorID string) (*domain.BalanceRecord, error)
}

// BalanceSvcFacade combines all balance-related service interfaces
type BalanceSvcFacade interface {
	BalanceReaderSvc
	BalanceWriterSvc
}
