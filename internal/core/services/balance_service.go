package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/balance_updater/internal/apperrors"
	"github.com/SscSPs/balance_updater/internal/core/domain"
	portsevents "github.com/SscSPs/balance_updater/internal/core/ports/events"
	portsrepo "github.com/SscSPs/balance_updater/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/balance_updater/internal/core/ports/services"
	"github.com/SscSPs/balance_updater/internal/dto"
	"github.com/SscSPs/balance_updater/internal/utils/accounting"
	"github.com/SscSPs/balance_updater/internal/utils/pagination"
	"github.com/google/uuid"
)

// balanceService implements the BalanceSvcFacade interface
type balanceService struct {
	BaseService
	balanceRepo portsrepo.BalanceRepositoryFacade
	publisher   portsevents.Publisher
	accountName string
	location    *time.Location
	now         func() time.Time
	opTimeout   time.Duration
}

// BalanceServiceOption is a functional option for configuring the balance service
type BalanceServiceOption func(*balanceService)

// WithEventPublisher publishes a BalanceRecorded event after each successful insert.
func WithEventPublisher(p portsevents.Publisher) BalanceServiceOption {
	return func(s *balanceService) {
		s.publisher = p
	}
}

// WithLocation sets the time zone that decides which calendar day "today" is.
func WithLocation(loc *time.Location) BalanceServiceOption {
	return func(s *balanceService) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithClock overrides time.Now, mainly for tests.
func WithClock(now func() time.Time) BalanceServiceOption {
	return func(s *balanceService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithOperationTimeout bounds every store call. Zero leaves the caller's context untouched.
func WithOperationTimeout(d time.Duration) BalanceServiceOption {
	return func(s *balanceService) {
		s.opTimeout = d
	}
}

// NewBalanceService creates a balance service for the single tracked account.
func NewBalanceService(repo portsrepo.BalanceRepositoryFacade, accountName string, options ...BalanceServiceOption) portssvc.BalanceSvcFacade {
	svc := &balanceService{
		balanceRepo: repo,
		accountName: accountName,
		location:    time.Local,
		now:         time.Now,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

func (s *balanceService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.opTimeout)
}

// GetCurrentBalance returns the latest record's amount, or the no-data sentinel.
func (s *balanceService) GetCurrentBalance(ctx context.Context) (domain.CurrentBalance, error) {
	opCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	record, err := s.balanceRepo.FindLatestBalance(opCtx, s.accountName)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogInfo(ctx, "No balance recorded yet", slog.String("account", s.accountName))
			return domain.NoBalance(s.accountName), nil
		}
		s.LogError(ctx, err, "Failed to read current balance", slog.String("account", s.accountName))
		return domain.CurrentBalance{}, fmt.Errorf("failed to read current balance: %w", err)
	}

	recordDate := record.RecordDate
	return domain.CurrentBalance{
		AccountName: record.AccountName,
		Amount:      record.Amount,
		RecordDate:  &recordDate,
		HasData:     true,
	}, nil
}

// SubmitBalance normalizes the operator's text and inserts today's record.
func (s *balanceService) SubmitBalance(ctx context.Context, rawInput string, operatorID string) (*domain.BalanceRecord, error) {
	amount, err := accounting.NormalizeBalanceInput(rawInput)
	if err != nil {
		s.LogWarn(ctx, "Rejected balance input", slog.String("input", rawInput), slog.String("error", err.Error()))
		return nil, err
	}

	now := s.now()
	record := domain.BalanceRecord{
		RecordID:    uuid.NewString(),
		AccountName: s.accountName,
		Amount:      amount,
		RecordDate:  domain.CalendarDay(now, s.location),
		AuditFields: domain.AuditFields{
			CreatedAt: now.UTC(),
			CreatedBy: operatorID,
		},
	}

	opCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.balanceRepo.InsertBalanceRecord(opCtx, record); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateEntryForDay) {
			s.LogWarn(ctx, "Balance already recorded for today",
				slog.String("account", s.accountName),
				slog.String("record_date", record.RecordDate.Format(domain.DateLayout)))
		} else {
			s.LogError(ctx, err, "Failed to insert balance record", slog.String("account", s.accountName))
		}
		return nil, fmt.Errorf("failed to record balance: %w", err)
	}

	s.LogInfo(ctx, "Balance recorded",
		slog.String("record_id", record.RecordID),
		slog.String("account", s.accountName),
		slog.String("amount", amount.StringFixed(accounting.BalancePrecision)),
		slog.String("record_date", record.RecordDate.Format(domain.DateLayout)),
		slog.String("operator", operatorID))

	s.publishRecorded(ctx, record)
	return &record, nil
}

// publishRecorded is best effort: the insert is already committed.
func (s *balanceService) publishRecorded(ctx context.Context, record domain.BalanceRecord) {
	if s.publisher == nil {
		return
	}
	event := portsevents.BalanceRecorded{
		RecordID:    record.RecordID,
		AccountName: record.AccountName,
		Amount:      record.Amount,
		RecordDate:  record.RecordDate.Format(domain.DateLayout),
		RecordedBy:  record.CreatedBy,
		OccurredAt:  record.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, portsevents.BalanceRecordedTopic, event); err != nil {
		s.LogError(ctx, err, "Failed to publish BalanceRecorded event", slog.String("record_id", record.RecordID))
	}
}

// ListBalanceHistory pages through records newest first using a record-date token.
func (s *balanceService) ListBalanceHistory(ctx context.Context, params dto.ListBalancesParams) (*dto.ListBalancesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 30
	}

	var before *time.Time
	if params.NextToken != "" {
		d, err := pagination.DecodeDateBasedToken(params.NextToken)
		if err != nil {
			return nil, apperrors.NewAppError(http.StatusBadRequest, "invalid nextToken", fmt.Errorf("%w: %v", apperrors.ErrValidation, err))
		}
		before = &d
	}

	opCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	records, err := s.balanceRepo.ListBalances(opCtx, s.accountName, before, limit+1)
	if err != nil {
		s.LogError(ctx, err, "Failed to list balance history", slog.String("account", s.accountName))
		return nil, fmt.Errorf("failed to list balance history: %w", err)
	}

	resp := &dto.ListBalancesResponse{}
	if len(records) > limit {
		records = records[:limit]
		token := pagination.EncodeDateBasedToken(records[len(records)-1].RecordDate)
		resp.NextToken = &token
	}
	resp.Records = dto.ToBalanceRecordResponses(records)
	s.LogDebug(ctx, "Listed balance history",
		slog.String("account", s.accountName),
		slog.Int("count", len(resp.Records)),
		slog.Bool("has_more", resp.NextToken != nil))
	return resp, nil
}
