package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/danevents/api/internal/cache"
	"github.com/danevents/api/internal/config"
	apperrors "github.com/danevents/api/internal/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// memoryCache is a map-backed cache.Service for exercising the service
// without a running Redis.
type memoryCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string]string)}
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value.(string)
	return nil
}

func (m *memoryCache) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return "", errors.New("cache miss")
	}
	return v, nil
}

func (m *memoryCache) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memoryCache) Close() error { return nil }

func (m *memoryCache) contains(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}

// fakeRepository is an in-memory Repository that counts calls
type fakeRepository struct {
	mu        sync.Mutex
	events    map[uuid.UUID]*Event
	listCalls int
	getCalls  int
	createErr error
	saveErr   error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{events: make(map[uuid.UUID]*Event)}
}

func (r *fakeRepository) List(ctx context.Context, opts ListOptions) ([]Event, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	var out []Event
	for _, e := range r.events {
		out = append(out, *e)
	}
	return out, int64(len(out)), nil
}

func (r *fakeRepository) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getCalls++
	e, ok := r.events[id]
	if !ok {
		return nil, nil
	}
	copied := *e
	return &copied, nil
}

func (r *fakeRepository) ExistsOnDay(ctx context.Context, name string, date time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	day := date.Truncate(24 * time.Hour)
	for _, e := range r.events {
		if e.Name == name && e.Date.Truncate(24*time.Hour).Equal(day) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepository) Create(ctx context.Context, event *Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	copied := *event
	r.events[event.ID] = &copied
	return nil
}

func (r *fakeRepository) Save(ctx context.Context, event *Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	copied := *event
	r.events[event.ID] = &copied
	return nil
}

func (r *fakeRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[id]; !ok {
		return 0, nil
	}
	delete(r.events, id)
	return 1, nil
}

type nopLogger struct{}

func (nopLogger) LogInfo(msg string, fields map[string]interface{}) {}
func (nopLogger) LogError(err error, msg string) error              { return err }
func (nopLogger) LogWarn(msg string, fields map[string]interface{}) {}

func testTTL() config.CacheConfig {
	return config.CacheConfig{
		EventTTL:   2 * time.Minute,
		BookingTTL: 200 * time.Second,
		UserTTL:    2 * time.Minute,
	}
}

func validEvent(name string, date time.Time) *Event {
	return &Event{
		CreatedBy:   uuid.New(),
		Name:        name,
		Description: "A long enough description for validation",
		Price:       25,
		Date:        date,
		Venue:       "Main Hall",
		Category:    "music",
	}
}

func TestListEventsServedFromCacheOnSecondRead(t *testing.T) {
	repo := newFakeRepository()
	store := newMemoryCache()
	svc := NewService(repo, store, testTTL(), nopLogger{})

	require.NoError(t, svc.CreateEvent(context.Background(), validEvent("Concert", time.Now().Add(48*time.Hour))))
	repo.listCalls = 0

	opts := ListOptions{Page: 1, Limit: 10}

	first, fromCache, err := svc.ListEvents(context.Background(), opts)
	require.NoError(t, err)
	assert.False(t, fromCache, "first read should come from the repository")
	assert.Len(t, first.Events, 1)

	second, fromCache, err := svc.ListEvents(context.Background(), opts)
	require.NoError(t, err)
	assert.True(t, fromCache, "second read should come from the cache")
	assert.Equal(t, first.Pagination, second.Pagination)
	assert.Equal(t, 1, repo.listCalls, "repository should only be consulted once")
}

func TestCreateEventEvictsListingKey(t *testing.T) {
	repo := newFakeRepository()
	store := newMemoryCache()
	svc := NewService(repo, store, testTTL(), nopLogger{})

	require.NoError(t, store.Set(context.Background(), cache.AllEventsKey, `{"events":[]}`, time.Minute))

	require.NoError(t, svc.CreateEvent(context.Background(), validEvent("Workshop", time.Now().Add(24*time.Hour))))

	assert.False(t, store.contains(cache.AllEventsKey), "events listing key should be evicted on create")
}

func TestCreateEventDuplicateNameAndDay(t *testing.T) {
	repo := newFakeRepository()
	store := newMemoryCache()
	svc := NewService(repo, store, testTTL(), nopLogger{})

	date := time.Now().Add(72 * time.Hour)
	require.NoError(t, svc.CreateEvent(context.Background(), validEvent("Gala", date)))

	err := svc.CreateEvent(context.Background(), validEvent("Gala", date.Add(3*time.Hour)))
	var conflict *apperrors.ConflictError
	require.ErrorAs(t, err, &conflict)

	// same name on a different day is allowed
	assert.NoError(t, svc.CreateEvent(context.Background(), validEvent("Gala", date.Add(48*time.Hour))))
}

func TestCreateEventRaceSettledByUniqueIndex(t *testing.T) {
	repo := newFakeRepository()
	repo.createErr = gorm.ErrDuplicatedKey
	svc := NewService(repo, newMemoryCache(), testTTL(), nopLogger{})

	err := svc.CreateEvent(context.Background(), validEvent("Race", time.Now().Add(24*time.Hour)))
	var conflict *apperrors.ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestCreateEventAppliesDefaultImage(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, newMemoryCache(), testTTL(), nopLogger{})

	e := validEvent("NoImage", time.Now().Add(24*time.Hour))
	require.NoError(t, svc.CreateEvent(context.Background(), e))
	assert.Equal(t, DefaultImageURL, e.ImageURL)
}

func TestCreateEventValidation(t *testing.T) {
	svc := NewService(newFakeRepository(), newMemoryCache(), testTTL(), nopLogger{})

	e := validEvent("ab", time.Now().Add(24*time.Hour))
	err := svc.CreateEvent(context.Background(), e)
	var validation *apperrors.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "name", validation.Field)
}

func TestUpdateEventWritesThroughCache(t *testing.T) {
	repo := newFakeRepository()
	store := newMemoryCache()
	svc := NewService(repo, store, testTTL(), nopLogger{})

	e := validEvent("Original", time.Now().Add(24*time.Hour))
	require.NoError(t, svc.CreateEvent(context.Background(), e))

	newName := "Renamed"
	updated, err := svc.UpdateEvent(context.Background(), e.ID, &UpdateRequest{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)

	// the updated entry must be readable from the cache with no miss window
	repo.getCalls = 0
	got, fromCache, err := svc.GetEvent(context.Background(), e.ID)
	require.NoError(t, err)
	assert.True(t, fromCache, "updated event should be served from the written-through entry")
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, 0, repo.getCalls)
}

func TestUpdateEventNotFound(t *testing.T) {
	svc := NewService(newFakeRepository(), newMemoryCache(), testTTL(), nopLogger{})

	name := "Whatever"
	_, err := svc.UpdateEvent(context.Background(), uuid.New(), &UpdateRequest{Name: &name})
	var notFound *apperrors.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestDeleteEventEvictsEntry(t *testing.T) {
	repo := newFakeRepository()
	store := newMemoryCache()
	svc := NewService(repo, store, testTTL(), nopLogger{})

	e := validEvent("Doomed", time.Now().Add(24*time.Hour))
	require.NoError(t, svc.CreateEvent(context.Background(), e))

	_, _, err := svc.GetEvent(context.Background(), e.ID)
	require.NoError(t, err)
	require.True(t, store.contains(cache.EventKey(e.ID.String())))

	require.NoError(t, svc.DeleteEvent(context.Background(), e.ID))
	assert.False(t, store.contains(cache.EventKey(e.ID.String())), "event key should be evicted on delete")

	var notFound *apperrors.NotFoundError
	require.ErrorAs(t, svc.DeleteEvent(context.Background(), e.ID), &notFound)
}

func TestGetEventMissingIsNotCached(t *testing.T) {
	repo := newFakeRepository()
	store := newMemoryCache()
	svc := NewService(repo, store, testTTL(), nopLogger{})

	id := uuid.New()
	_, _, err := svc.GetEvent(context.Background(), id)
	var notFound *apperrors.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.False(t, store.contains(cache.EventKey(id.String())), "misses must not be cached")
}
