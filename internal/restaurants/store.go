// Package restaurants reads the denormalized restaurant records that an
// external ingestion process maintains. The service never writes them.
package restaurants

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/models"

	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("restaurant record not found")

// Store looks up restaurant records by business_id in Postgres, with a
// Redis cache in front. Cache failures are invisible to callers; the
// store falls through to the database.
type Store struct {
	db       *sql.DB
	cache    *redis.Client
	cacheTTL time.Duration
	logger   logger.Logger
}

func NewStore(db *sql.DB, cache *redis.Client, cacheTTL time.Duration, log logger.Logger) *Store {
	return &Store{
		db:       db,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   log.WithFields(map[string]interface{}{"component": "restaurant-store"}),
	}
}

func cacheKey(businessID string) string {
	return "restaurant:" + businessID
}

// GetRestaurant returns the record for businessID, or ErrNotFound when
// the store has no row for it. The index being a derived projection,
// misses are expected during ingestion drift.
func (s *Store) GetRestaurant(ctx context.Context, businessID string) (*models.RestaurantRecord, error) {
	if s.cache != nil {
		if val, err := s.cache.Get(ctx, cacheKey(businessID)).Result(); err == nil {
			var record models.RestaurantRecord
			if err := json.Unmarshal([]byte(val), &record); err == nil {
				return &record, nil
			}
		}
	}

	var record models.RestaurantRecord
	err := s.db.QueryRowContext(ctx,
		`SELECT business_id, name, address, rating, num_reviews, cuisine, zip_code
		 FROM restaurants WHERE business_id = $1`, businessID).
		Scan(&record.BusinessID, &record.Name, &record.Address, &record.Rating,
			&record.NumReviews, &record.Cuisine, &record.ZipCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(&record); err == nil {
			if err := s.cache.Set(ctx, cacheKey(businessID), data, s.cacheTTL).Err(); err != nil {
				s.logger.Warn("cache set failed", map[string]interface{}{
					"businessId": businessID,
					"error":      err,
				})
			}
		}
	}

	return &record, nil
}
