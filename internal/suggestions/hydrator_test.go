package suggestions

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/models"
	"dining-concierge/internal/restaurants"
)

type mockRecordStore struct {
	getFunc func(ctx context.Context, businessID string) (*models.RestaurantRecord, error)
	calls   []string
}

func (m *mockRecordStore) GetRestaurant(ctx context.Context, businessID string) (*models.RestaurantRecord, error) {
	m.calls = append(m.calls, businessID)
	return m.getFunc(ctx, businessID)
}

func TestHydrator_SkipsMissingRecords(t *testing.T) {
	store := &mockRecordStore{
		getFunc: func(_ context.Context, id string) (*models.RestaurantRecord, error) {
			if id == "r2" {
				return nil, restaurants.ErrNotFound
			}
			return &models.RestaurantRecord{BusinessID: id, Name: "Restaurant " + id}, nil
		},
	}
	h := NewHydrator(store, logger.NewTestLogger(t))

	records := h.Hydrate(context.Background(), []string{"r1", "r2", "r3"})

	assert.Len(t, records, 2)
	assert.Equal(t, "r1", records[0].BusinessID)
	assert.Equal(t, "r3", records[1].BusinessID)
	assert.Equal(t, []string{"r1", "r2", "r3"}, store.calls)
}

func TestHydrator_LookupFailureDoesNotAbort(t *testing.T) {
	store := &mockRecordStore{
		getFunc: func(_ context.Context, id string) (*models.RestaurantRecord, error) {
			if id == "r1" {
				return nil, fmt.Errorf("store timeout")
			}
			return &models.RestaurantRecord{BusinessID: id}, nil
		},
	}
	h := NewHydrator(store, logger.NewTestLogger(t))

	records := h.Hydrate(context.Background(), []string{"r1", "r2"})

	assert.Len(t, records, 1)
	assert.Equal(t, "r2", records[0].BusinessID)
	// Every id is attempted even after a failure.
	assert.Equal(t, []string{"r1", "r2"}, store.calls)
}

func TestHydrator_AllMissing(t *testing.T) {
	store := &mockRecordStore{
		getFunc: func(_ context.Context, id string) (*models.RestaurantRecord, error) {
			return nil, restaurants.ErrNotFound
		},
	}
	h := NewHydrator(store, logger.NewTestLogger(t))

	records := h.Hydrate(context.Background(), []string{"r1", "r2"})
	assert.Empty(t, records)
}

func TestHydrator_EmptyInput(t *testing.T) {
	store := &mockRecordStore{
		getFunc: func(_ context.Context, id string) (*models.RestaurantRecord, error) {
			t.Fatal("store should not be called")
			return nil, nil
		},
	}
	h := NewHydrator(store, logger.NewTestLogger(t))

	assert.Empty(t, h.Hydrate(context.Background(), nil))
}
