package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vbonduro/boatlog/internal/domain"
)

type logRepository interface {
	Create(ctx context.Context, l *domain.LogEntry) (*domain.LogEntry, error)
	GetByID(ctx context.Context, id int64) (*domain.LogEntry, error)
	List(ctx context.Context) ([]*domain.LogEntry, error)
	Update(ctx context.Context, id int64, patch domain.LogPatch) (*domain.LogEntry, error)
	Delete(ctx context.Context, id int64) error
}

type LogService struct {
	store  logRepository
	logger *slog.Logger
}

func NewLogService(store logRepository, logger *slog.Logger) *LogService {
	return &LogService{store: store, logger: logger}
}

func (s *LogService) ListLogs(ctx context.Context) ([]*domain.LogEntry, error) {
	return s.store.List(ctx)
}

func (s *LogService) GetLog(ctx context.Context, id int64) (*domain.LogEntry, error) {
	return s.store.GetByID(ctx, id)
}

func (s *LogService) CreateLog(ctx context.Context, l domain.LogEntry) (*domain.LogEntry, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	created, err := s.store.Create(ctx, &l)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("log entry created", "log_id", created.ID, "date", created.Date.String())
	return created, nil
}

func (s *LogService) UpdateLog(ctx context.Context, id int64, patch domain.LogPatch) (*domain.LogEntry, error) {
	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("log %d: %w", id, domain.ErrNotFound)
	}
	if patch.IsEmpty() {
		return current, nil
	}
	merged := patch.Apply(*current)
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return s.store.Update(ctx, id, patch)
}

func (s *LogService) DeleteLog(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}
