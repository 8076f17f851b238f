package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

const staffSearchCacheTTL = 30 * time.Second

// StaffService serves the manager-only staff directory.
type StaffService struct {
	users  repository.UserRepository
	redis  *persistence.Redis
	logger *zap.Logger
}

// StaffSummary is the directory view of a staff user: no credentials, no
// assignment internals.
type StaffSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NewStaffService constructs the service.
func NewStaffService(users repository.UserRepository, redis *persistence.Redis, logger *zap.Logger) *StaffService {
	return &StaffService{users: users, redis: redis, logger: logger}
}

// SearchStaff performs a case-insensitive substring search over staff names.
// Results are cached briefly in redis; cache failures fall through to the
// store.
func (s *StaffService) SearchStaff(ctx context.Context, actor *domain.User, name string) ([]StaffSummary, error) {
	if !actor.IsManager {
		return nil, apperrors.NewForbidden("manager role required")
	}

	key := "staff_search:" + strings.ToLower(strings.TrimSpace(name))
	if cached, ok := s.cacheGet(ctx, key); ok {
		return cached, nil
	}

	staff, err := s.users.SearchStaffByName(ctx, name)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	summaries := make([]StaffSummary, 0, len(staff))
	for _, member := range staff {
		summaries = append(summaries, StaffSummary{ID: member.ID, Name: member.Name, Email: member.Email})
	}
	s.cacheSet(ctx, key, summaries)
	return summaries, nil
}

func (s *StaffService) cacheGet(ctx context.Context, key string) ([]StaffSummary, bool) {
	if s.redis == nil || s.redis.Client == nil {
		return nil, false
	}
	raw, err := s.redis.Client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var summaries []StaffSummary
	if err := json.Unmarshal(raw, &summaries); err != nil {
		s.logger.Warn("corrupt staff search cache entry", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return summaries, true
}

func (s *StaffService) cacheSet(ctx context.Context, key string, summaries []StaffSummary) {
	if s.redis == nil || s.redis.Client == nil {
		return
	}
	raw, err := json.Marshal(summaries)
	if err != nil {
		return
	}
	if err := s.redis.Client.SetEx(ctx, key, raw, staffSearchCacheTTL).Err(); err != nil {
		s.logger.Debug("staff search cache write failed", zap.String("key", key), zap.Error(err))
	}
}
