package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suchimauz/clinic-booking-service/internal/config"
	"github.com/suchimauz/clinic-booking-service/internal/core/domain"
	"github.com/suchimauz/clinic-booking-service/internal/core/ports/out"
)

type nopLogger struct{}

func (nopLogger) Debug(string, out.LogFields)               {}
func (nopLogger) Info(string, out.LogFields)                {}
func (nopLogger) Warn(string, out.LogFields)                {}
func (nopLogger) Error(string, out.LogFields)               {}
func (l nopLogger) WithFields(out.LogFields) out.LoggerPort { return l }
func (l nopLogger) WithModule(string) out.LoggerPort        { return l }

func newTestAdapter(t *testing.T) *CacheAdapter {
	t.Helper()

	cfg, err := config.NewConfig()
	require.NoError(t, err)
	cfg.Cache.Enabled = true

	adapter, err := NewCacheAdapter(cfg, nopLogger{})
	require.NoError(t, err)
	require.NotNil(t, adapter)
	return adapter
}

func window(day time.Time, days int) (time.Time, time.Time) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 0, days).Add(-time.Second)
}

func TestCacheAdapter_Disabled(t *testing.T) {
	cfg, err := config.NewConfig()
	require.NoError(t, err)
	cfg.Cache.Enabled = false

	adapter, err := NewCacheAdapter(cfg, nopLogger{})
	require.NoError(t, err)
	assert.Nil(t, adapter)
}

func TestCacheAdapter_StoreAndGet(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()

	doctorID := uuid.New()
	from, to := window(time.Now(), 14)
	slots := []domain.ScheduleSlot{{ID: uuid.New(), DoctorID: doctorID}}

	adapter.StoreFeed(ctx, doctorID, from, to, slots)

	got, exists := adapter.GetFeed(ctx, doctorID, from, to)
	require.True(t, exists)
	require.Len(t, got, 1)
	assert.Equal(t, slots[0].ID, got[0].ID)
}

func TestCacheAdapter_EmptyFeedIsAResult(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()

	doctorID := uuid.New()
	from, to := window(time.Now(), 14)

	adapter.StoreFeed(ctx, doctorID, from, to, []domain.ScheduleSlot{})

	got, exists := adapter.GetFeed(ctx, doctorID, from, to)
	assert.True(t, exists)
	assert.Empty(t, got)
}

func TestCacheAdapter_DateRangeMismatch(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()

	doctorID := uuid.New()
	from, to := window(time.Now(), 14)
	adapter.StoreFeed(ctx, doctorID, from, to, []domain.ScheduleSlot{{ID: uuid.New()}})

	// Запрос за пределами сохраненного окна - промах
	_, exists := adapter.GetFeed(ctx, doctorID, from, to.AddDate(0, 0, 1))
	assert.False(t, exists)

	_, exists = adapter.GetFeed(ctx, doctorID, from.AddDate(0, 0, -1), to)
	assert.False(t, exists)

	// Запрос внутри окна - попадание
	_, exists = adapter.GetFeed(ctx, doctorID, from.AddDate(0, 0, 1), to.AddDate(0, 0, -1))
	assert.True(t, exists)
}

func TestCacheAdapter_Invalidate(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()

	doctorID := uuid.New()
	from, to := window(time.Now(), 14)
	adapter.StoreFeed(ctx, doctorID, from, to, []domain.ScheduleSlot{{ID: uuid.New()}})

	adapter.InvalidateFeed(ctx, doctorID)

	_, exists := adapter.GetFeed(ctx, doctorID, from, to)
	assert.False(t, exists)
}
