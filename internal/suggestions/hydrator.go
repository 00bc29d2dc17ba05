package suggestions

import (
	"context"
	"errors"
	"time"

	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/common/metrics"
	"dining-concierge/internal/models"
	"dining-concierge/internal/restaurants"
)

// RecordStore is the lookup surface the hydrator needs from the
// restaurant store.
type RecordStore interface {
	GetRestaurant(ctx context.Context, businessID string) (*models.RestaurantRecord, error)
}

// Hydrator resolves sampled business IDs into full restaurant records.
// The index and the store may drift apart, so a missing identifier is
// skipped, and a failed lookup never aborts the remaining ones.
type Hydrator struct {
	store  RecordStore
	logger logger.Logger
}

func NewHydrator(store RecordStore, log logger.Logger) *Hydrator {
	return &Hydrator{
		store:  store,
		logger: log.WithFields(map[string]interface{}{"component": "hydrator"}),
	}
}

// Hydrate returns the records found for businessIDs, in lookup order,
// never padded with placeholders.
func (h *Hydrator) Hydrate(ctx context.Context, businessIDs []string) []models.RestaurantRecord {
	start := time.Now()
	defer func() {
		metrics.HydrationDuration.Observe(time.Since(start).Seconds())
	}()

	records := make([]models.RestaurantRecord, 0, len(businessIDs))
	for _, id := range businessIDs {
		record, err := h.store.GetRestaurant(ctx, id)
		if err != nil {
			if errors.Is(err, restaurants.ErrNotFound) {
				h.logger.Debug("record missing for indexed id", map[string]interface{}{
					"businessId": id,
				})
			} else {
				h.logger.Error("record lookup failed", map[string]interface{}{
					"businessId": id,
					"error":      err,
				})
			}
			continue
		}
		records = append(records, *record)
	}

	h.logger.Info("hydrated restaurant records", map[string]interface{}{
		"requested": len(businessIDs),
		"found":     len(records),
	})
	return records
}
