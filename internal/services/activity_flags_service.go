package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"nauticare/internal/dto"
	"nauticare/internal/repositories"
)

// Flag keys, keyed by request id. Kept in the cache, never in the requests
// table: they are screen state, not workflow state.
const (
	flagKeyNew          = "request:new:%s"
	flagKeyStatusUpdate = "request:status_update:%s"

	flagTTL = 30 * 24 * time.Hour
)

type ActivityFlagServiceInterface interface {
	MarkNew(ctx context.Context, requestID uuid.UUID)
	MarkStatusUpdate(ctx context.Context, requestID uuid.UUID)
	ClearOnOpen(ctx context.Context, requestID uuid.UUID)
	Flags(ctx context.Context, requestID uuid.UUID) dto.ActivityFlagsDTO
}

type ActivityFlagService struct {
	cache  repositories.CacheRepositoryInterface
	logger *zap.Logger
}

func NewActivityFlagService(cache repositories.CacheRepositoryInterface, logger *zap.Logger) ActivityFlagServiceInterface {
	return &ActivityFlagService{cache: cache, logger: logger}
}

// All flag operations are best effort: a cache hiccup must never fail a
// workflow call.
func (s *ActivityFlagService) MarkNew(ctx context.Context, requestID uuid.UUID) {
	if err := s.cache.Set(ctx, fmt.Sprintf(flagKeyNew, requestID), "1", flagTTL); err != nil {
		s.logger.Warn("failed to set isNew flag", zap.String("requestId", requestID.String()), zap.Error(err))
	}
}

func (s *ActivityFlagService) MarkStatusUpdate(ctx context.Context, requestID uuid.UUID) {
	if err := s.cache.Set(ctx, fmt.Sprintf(flagKeyStatusUpdate, requestID), "1", flagTTL); err != nil {
		s.logger.Warn("failed to set hasStatusUpdate flag", zap.String("requestId", requestID.String()), zap.Error(err))
	}
}

// ClearOnOpen drops both flags the moment a request is opened.
func (s *ActivityFlagService) ClearOnOpen(ctx context.Context, requestID uuid.UUID) {
	keys := []string{
		fmt.Sprintf(flagKeyNew, requestID),
		fmt.Sprintf(flagKeyStatusUpdate, requestID),
	}
	if err := s.cache.Del(ctx, keys...); err != nil {
		s.logger.Warn("failed to clear activity flags", zap.String("requestId", requestID.String()), zap.Error(err))
	}
}

func (s *ActivityFlagService) Flags(ctx context.Context, requestID uuid.UUID) dto.ActivityFlagsDTO {
	return dto.ActivityFlagsDTO{
		IsNew:           s.flagSet(ctx, fmt.Sprintf(flagKeyNew, requestID)),
		HasStatusUpdate: s.flagSet(ctx, fmt.Sprintf(flagKeyStatusUpdate, requestID)),
	}
}

func (s *ActivityFlagService) flagSet(ctx context.Context, key string) bool {
	_, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("failed to read activity flag", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	return true
}
