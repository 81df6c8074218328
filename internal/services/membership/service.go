package membership

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/stadium-auth/internal/lib/sl"
	"github.com/magabrotheeeer/stadium-auth/internal/models"
)

// Repository читает сохранённые записи о членстве.
type Repository interface {
	// GetMembership возвращает запись о членстве участника или models.ErrNotFound.
	GetMembership(ctx context.Context, userID int64) (*models.MembershipRecord, error)
}

// Cache описывает методы для кэширования записей.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// Evaluator вычисляет фактическое состояние членства по сохранённой записи.
// В шлюзе это сервис аутентификации, доступный по gRPC.
type Evaluator interface {
	EvaluateMembership(ctx context.Context, status models.MembershipStatus, expiryDate *time.Time) (models.MembershipView, error)
}

// Details объединяет сохранённую запись и вычисленное представление.
type Details struct {
	Record models.MembershipRecord
	View   models.MembershipView
}

// Service отдаёт состояние членства, кешируя сохранённые записи.
// В кеш попадает только запись из базы, фактический статус всегда вычисляется заново.
type Service struct {
	repo      Repository
	cache     Cache
	evaluator Evaluator
	cacheTTL  time.Duration
	log       *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, cache Cache, evaluator Evaluator, cacheTTL time.Duration, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		cache:     cache,
		evaluator: evaluator,
		cacheTTL:  cacheTTL,
		log:       log,
	}
}

// Get возвращает запись о членстве участника и её фактическое состояние на текущий момент.
func (s *Service) Get(ctx context.Context, userID int64) (*Details, error) {
	const op = "membership.Get"
	log := s.log.With(slog.String("op", op), slog.Int64("user_id", userID))

	record, err := s.load(ctx, log, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	view, err := s.evaluator.EvaluateMembership(ctx, record.Status, record.ExpiryDate)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Details{
		Record: *record,
		View:   view,
	}, nil
}

func (s *Service) load(ctx context.Context, log *slog.Logger, userID int64) (*models.MembershipRecord, error) {
	key := cacheKey(userID)

	var cached models.MembershipRecord
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		log.Warn("failed to read membership from cache", slog.String("key", key), sl.Err(err))
	}
	if found && err == nil {
		return &cached, nil
	}

	record, err := s.repo.GetMembership(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, record, s.cacheTTL); err != nil {
		log.Warn("failed to cache membership", slog.String("key", key), sl.Err(err))
	}
	return record, nil
}

func cacheKey(userID int64) string {
	return fmt.Sprintf("membership:%d", userID)
}
