package restaurants

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dining-concierge/internal/common/logger"
)

var recordColumns = []string{"business_id", "name", "address", "rating", "num_reviews", "cuisine", "zip_code"}

func newTestStore(t *testing.T) (*Store, sqlmock.Sqlmock, *miniredis.Miniredis) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	store := NewStore(db, cache, 5*time.Minute, logger.NewTestLogger(t))
	return store, mock, mr
}

func TestStore_GetRestaurant_DatabaseHitPopulatesCache(t *testing.T) {
	store, mock, mr := newTestStore(t)

	mock.ExpectQuery("SELECT business_id, name, address, rating, num_reviews, cuisine, zip_code").
		WithArgs("r1").
		WillReturnRows(sqlmock.NewRows(recordColumns).
			AddRow("r1", "Carbone", "181 Thompson St", 4.5, 2100, "italian", "10012"))

	record, err := store.GetRestaurant(context.Background(), "r1")
	require.NoError(t, err)

	assert.Equal(t, "r1", record.BusinessID)
	assert.Equal(t, "Carbone", record.Name)
	assert.Equal(t, "181 Thompson St", record.Address)
	assert.Equal(t, 4.5, record.Rating)
	assert.Equal(t, 2100, record.NumReviews)
	assert.Equal(t, "italian", record.Cuisine)
	assert.Equal(t, "10012", record.ZipCode)

	cached, err := mr.Get("restaurant:r1")
	require.NoError(t, err)
	assert.Contains(t, cached, "Carbone")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_GetRestaurant_ServedFromCache(t *testing.T) {
	store, mock, mr := newTestStore(t)

	require.NoError(t, mr.Set("restaurant:r1",
		`{"business_id":"r1","name":"Lilia","address":"567 Union Ave","rating":4.7,"num_reviews":900,"cuisine":"italian","zip_code":"11211"}`))

	// No database expectation: a cache hit must not touch Postgres.
	record, err := store.GetRestaurant(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "Lilia", record.Name)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_GetRestaurant_NotFound(t *testing.T) {
	store, mock, _ := newTestStore(t)

	mock.ExpectQuery("SELECT business_id, name, address, rating, num_reviews, cuisine, zip_code").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(recordColumns))

	record, err := store.GetRestaurant(context.Background(), "missing")
	assert.Nil(t, record)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_GetRestaurant_QueryError(t *testing.T) {
	store, mock, _ := newTestStore(t)

	mock.ExpectQuery("SELECT business_id, name, address, rating, num_reviews, cuisine, zip_code").
		WithArgs("r1").
		WillReturnError(fmt.Errorf("connection reset"))

	record, err := store.GetRestaurant(context.Background(), "r1")
	assert.Nil(t, record)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestStore_GetRestaurant_CorruptCacheFallsThrough(t *testing.T) {
	store, mock, mr := newTestStore(t)

	require.NoError(t, mr.Set("restaurant:r1", "{corrupt"))

	mock.ExpectQuery("SELECT business_id, name, address, rating, num_reviews, cuisine, zip_code").
		WithArgs("r1").
		WillReturnRows(sqlmock.NewRows(recordColumns).
			AddRow("r1", "Carbone", "181 Thompson St", 4.5, 2100, "italian", "10012"))

	record, err := store.GetRestaurant(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "Carbone", record.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_GetRestaurant_NilCache(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewStore(db, nil, 0, logger.NewTestLogger(t))

	mock.ExpectQuery("SELECT business_id, name, address, rating, num_reviews, cuisine, zip_code").
		WithArgs("r1").
		WillReturnRows(sqlmock.NewRows(recordColumns).
			AddRow("r1", "Carbone", "181 Thompson St", 4.5, 2100, "italian", "10012"))

	record, err := store.GetRestaurant(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "r1", record.BusinessID)
}
