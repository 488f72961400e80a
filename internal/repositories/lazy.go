package repositories

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/balance_updater/internal/apperrors"
	"github.com/SscSPs/balance_updater/internal/core/domain"
	portsrepo "github.com/SscSPs/balance_updater/internal/core/ports/repositories"
	"github.com/SscSPs/balance_updater/internal/platform/config"
)

// OpenFunc connects to a balance store.
type OpenFunc func(ctx context.Context) (portsrepo.RepositoryProvider, error)

// LazyStore defers opening the store until a repository call needs it. A failed open is
// reported as ErrConnectionFailure and tried again on the next call.
type LazyStore struct {
	mu       sync.Mutex
	open     OpenFunc
	provider *portsrepo.RepositoryProvider
}

var (
	_ portsrepo.BalanceRepositoryFacade = (*LazyStore)(nil)
	_ portsrepo.HealthChecker           = (*LazyStore)(nil)
)

// NewLazyStore wraps open.
func NewLazyStore(open OpenFunc) *LazyStore {
	return &LazyStore{open: open}
}

// OpenLazy is Open deferred to first use. It never fails up front, so an interactive caller
// can still show its dialogue while the store is down.
func OpenLazy(cfg *config.Config, logger *slog.Logger) portsrepo.RepositoryProvider {
	store := NewLazyStore(func(ctx context.Context) (portsrepo.RepositoryProvider, error) {
		return Open(ctx, cfg, logger)
	})
	return store.Provider()
}

// Provider exposes the store through the repository ports.
func (s *LazyStore) Provider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		BalanceRepo: s,
		Health:      s,
		Close:       s.Close,
	}
}

func (s *LazyStore) get(ctx context.Context) (portsrepo.RepositoryProvider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.provider != nil {
		return *s.provider, nil
	}
	p, err := s.open(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrConnectionFailure) {
			return portsrepo.RepositoryProvider{}, err
		}
		return portsrepo.RepositoryProvider{}, fmt.Errorf("%w: %v", apperrors.ErrConnectionFailure, err)
	}
	s.provider = &p
	return p, nil
}

func (s *LazyStore) Ping(ctx context.Context) error {
	p, err := s.get(ctx)
	if err != nil {
		return err
	}
	if p.Health == nil {
		return nil
	}
	return p.Health.Ping(ctx)
}

func (s *LazyStore) InsertBalanceRecord(ctx context.Context, record domain.BalanceRecord) error {
	p, err := s.get(ctx)
	if err != nil {
		return err
	}
	return p.BalanceRepo.InsertBalanceRecord(ctx, record)
}

func (s *LazyStore) FindLatestBalance(ctx context.Context, accountName string) (*domain.BalanceRecord, error) {
	p, err := s.get(ctx)
	if err != nil {
		return nil, err
	}
	return p.BalanceRepo.FindLatestBalance(ctx, accountName)
}

func (s *LazyStore) ListBalances(ctx context.Context, accountName string, before *time.Time, limit int) ([]domain.BalanceRecord, error) {
	p, err := s.get(ctx)
	if err != nil {
		return nil, err
	}
	return p.BalanceRepo.ListBalances(ctx, accountName, before, limit)
}

// Close releases the store if it was ever opened.
func (s *LazyStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.provider != nil && s.provider.Close != nil {
		s.provider.Close()
	}
	s.provider = nil
}
