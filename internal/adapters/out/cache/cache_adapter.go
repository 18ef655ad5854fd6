package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/suchimauz/clinic-booking-service/internal/config"
	"github.com/suchimauz/clinic-booking-service/internal/core/domain"
	"github.com/suchimauz/clinic-booking-service/internal/core/ports/out"
)

// FeedCacheEntry - лента расписания одного врача вместе с окном, на которое
// она загружалась. Запрос за пределами окна - промах.
type FeedCacheEntry struct {
	Slots     []domain.ScheduleSlot
	StartDate time.Time
	EndDate   time.Time
}

type CacheAdapter struct {
	feeds  *lru.Cache[uuid.UUID, *FeedCacheEntry]
	mu     sync.RWMutex
	logger out.LoggerPort
}

func NewCacheAdapter(cfg *config.Config, logger out.LoggerPort) (*CacheAdapter, error) {
	if !cfg.Cache.Enabled {
		logger.Info("cache.disabled", out.LogFields{
			"message": "Cache is disabled",
		})
		return nil, nil
	}

	feeds, err := lru.New[uuid.UUID, *FeedCacheEntry](cfg.Cache.FeedsSize)
	if err != nil {
		logger.Error("cache.feeds.init_failed", out.LogFields{
			"error": err.Error(),
			"size":  cfg.Cache.FeedsSize,
		})
		return nil, err
	}

	return &CacheAdapter{
		feeds:  feeds,
		logger: logger.WithModule("CacheAdapter"),
	}, nil
}

func (c *CacheAdapter) GetFeed(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]domain.ScheduleSlot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.feeds.Get(doctorID)
	if !exists {
		c.logger.Debug("cache.feed.get.miss", out.LogFields{
			"doctorId": doctorID,
		})
		return nil, false
	}

	if from.Before(entry.StartDate) || to.After(entry.EndDate) {
		c.logger.Debug("cache.feed.get.date_range_mismatch", out.LogFields{
			"doctorId":       doctorID,
			"requestedStart": from,
			"requestedEnd":   to,
			"cachedStart":    entry.StartDate,
			"cachedEnd":      entry.EndDate,
		})
		return nil, false
	}

	c.logger.Debug("cache.feed.get.hit", out.LogFields{
		"doctorId":   doctorID,
		"slotsCount": len(entry.Slots),
	})
	return entry.Slots, true
}

func (c *CacheAdapter) StoreFeed(ctx context.Context, doctorID uuid.UUID, from, to time.Time, slots []domain.ScheduleSlot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Debug("cache.feed.store", out.LogFields{
		"doctorId":   doctorID,
		"slotsCount": len(slots),
	})

	// Пустая лента тоже результат: у врача может не быть приемов в окне
	c.feeds.Add(doctorID, &FeedCacheEntry{
		Slots:     slots,
		StartDate: from,
		EndDate:   to,
	})
}

func (c *CacheAdapter) InvalidateFeed(ctx context.Context, doctorID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Debug("cache.feed.invalidate", out.LogFields{
		"doctorId": doctorID,
	})

	c.feeds.Remove(doctorID)
}
