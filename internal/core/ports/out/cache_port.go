package out

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/suchimauz/clinic-booking-service/internal/core/domain"
)

type CachePort interface {
	// Кэширование ленты расписания по врачу
	GetFeed(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]domain.ScheduleSlot, bool)
	StoreFeed(ctx context.Context, doctorID uuid.UUID, from, to time.Time, slots []domain.ScheduleSlot)
	InvalidateFeed(ctx context.Context, doctorID uuid.UUID)
}
