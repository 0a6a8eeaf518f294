package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"habit_tracker_backend/internal/config"
	"habit_tracker_backend/internal/engine"
	"habit_tracker_backend/internal/repository"
	"habit_tracker_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// HabitStreakView is the per-habit slice of the streaks payload, served from
// the cached analytics the toggle workflow maintains.
type HabitStreakView struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Icon    string `json:"icon"`
	Current int    `json:"current"`
	Longest int    `json:"longest"`
}

// StreaksResult always derives PerfectDay from raw events and the habits'
// current schedules; it is never served from per-habit cached analytics.
type StreaksResult struct {
	PerfectDay engine.StreakInfo `json:"perfectDay"`
	Habits     []HabitStreakView `json:"habits"`
}

// ProgressOverview bundles the range-filtered history series with the
// range-independent streak block.
type ProgressOverview struct {
	History []engine.DailyProgress `json:"history"`
	Streaks StreaksResult          `json:"streaks"`
}

type ProgressService struct {
	HabitRepo *repository.HabitRepository
	EventRepo *repository.CompletionEventRepository
	Redis     *redis.Client
	Cfg       *config.Config
}

func NewProgressService(habitRepo *repository.HabitRepository, eventRepo *repository.CompletionEventRepository, rdb *redis.Client, cfg *config.Config) *ProgressService {
	return &ProgressService{
		HabitRepo: habitRepo,
		EventRepo: eventRepo,
		Redis:     rdb,
		Cfg:       cfg,
	}
}

// History computes the per-day completion-rate series for [start, end].
func (s *ProgressService) History(userID uint, timezone string, start, end engine.Date) ([]engine.DailyProgress, error) {
	if end.Before(start) {
		return nil, engine.ErrInvalidDateRange
	}

	habits, err := s.HabitRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}

	startInstant, _, err := engine.DayBounds(start, timezone)
	if err != nil {
		return nil, err
	}
	_, endInstant, err := engine.DayBounds(end, timezone)
	if err != nil {
		return nil, err
	}

	events, err := s.EventRepo.FindByUserAndRange(userID, startInstant, endInstant)
	if err != nil {
		return nil, err
	}

	return engine.History(habits, events, timezone, start, end)
}

// Streaks computes the perfect-day streaks plus the cached per-habit ones.
// No caller-supplied range is accepted here: a display filter must never
// change what "current streak" means.
func (s *ProgressService) Streaks(userID uint, timezone string) (*StreaksResult, error) {
	now := time.Now()
	today, _, err := engine.LocalDay(now, timezone)
	if err != nil {
		return nil, err
	}

	habits, err := s.HabitRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}

	// Fetch a little past the engine's lookback so boundary instants in
	// offset zones are still covered.
	windowStart, _, err := engine.DayBounds(today.AddDays(-367), timezone)
	if err != nil {
		return nil, err
	}
	_, windowEnd, err := engine.DayBounds(today, timezone)
	if err != nil {
		return nil, err
	}
	events, err := s.EventRepo.FindByUserAndRange(userID, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}

	perfect, err := engine.PerfectDayStreaks(habits, events, timezone, now)
	if err != nil {
		return nil, err
	}

	result := &StreaksResult{
		PerfectDay: perfect,
		Habits:     make([]HabitStreakView, 0, len(habits)),
	}
	for i := range habits {
		h := &habits[i]
		result.Habits = append(result.Habits, HabitStreakView{
			ID:      h.ID,
			Name:    h.Name,
			Icon:    h.Icon,
			Current: h.CurrentStreak,
			Longest: h.LongestStreak,
		})
	}
	return result, nil
}

// Overview serves the combined history + streaks payload through a short
// read-through Redis cache. The range only trims the history slice; the
// streak block inside ignores it.
func (s *ProgressService) Overview(ctx context.Context, userID uint, timezone string, start, end engine.Date) (*ProgressOverview, error) {
	key, err := s.cacheKey(ctx, userID, timezone, start, end)
	if err == nil && s.Redis != nil {
		if raw, err := s.Redis.Get(ctx, key).Result(); err == nil {
			var cached ProgressOverview
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return &cached, nil
			}
		}
	}

	history, err := s.History(userID, timezone, start, end)
	if err != nil {
		return nil, err
	}
	streaks, err := s.Streaks(userID, timezone)
	if err != nil {
		return nil, err
	}

	overview := &ProgressOverview{History: history, Streaks: *streaks}

	if s.Redis != nil && key != "" {
		if raw, err := json.Marshal(overview); err == nil {
			if err := s.Redis.Set(ctx, key, raw, s.cacheTTL()).Err(); err != nil {
				logger.Log.Warn("progress overview cache write failed", zap.Error(err))
			}
		}
	}
	return overview, nil
}

// Invalidate bumps the user's cache version; keys minted under older
// versions simply age out of Redis via their TTL.
func (s *ProgressService) Invalidate(userID uint) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Incr(context.Background(), versionKey(userID)).Err(); err != nil {
		logger.Log.Warn("progress cache invalidation failed", zap.Uint("user", userID), zap.Error(err))
	}
}

func (s *ProgressService) cacheKey(ctx context.Context, userID uint, timezone string, start, end engine.Date) (string, error) {
	if s.Redis == nil {
		return "", nil
	}
	version, err := s.Redis.Get(ctx, versionKey(userID)).Int64()
	if err != nil && err != redis.Nil {
		return "", err
	}
	return fmt.Sprintf("progress:overview:%d:%d:%s:%s:%s", userID, version, timezone, start, end), nil
}

func (s *ProgressService) cacheTTL() time.Duration {
	ttl := s.Cfg.Progress.OverviewCacheTTLSeconds
	if ttl <= 0 {
		ttl = 60
	}
	return time.Duration(ttl) * time.Second
}

func versionKey(userID uint) string {
	return fmt.Sprintf("progress:version:%d", userID)
}
