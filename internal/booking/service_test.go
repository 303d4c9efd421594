package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/danevents/api/internal/cache"
	"github.com/danevents/api/internal/config"
	apperrors "github.com/danevents/api/internal/errors"
	"github.com/danevents/api/internal/event"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

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

// fakeBookingRepository keeps bookings in memory and can simulate a
// unique constraint violation on insert.
type fakeBookingRepository struct {
	mu        sync.Mutex
	bookings  []Booking
	createErr error
	listCalls int
}

func (r *fakeBookingRepository) FindConfirmed(ctx context.Context, userID, eventID uuid.UUID) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.bookings {
		b := r.bookings[i]
		if b.UserID == userID && b.EventID == eventID && b.Status == StatusConfirmed {
			return &b, nil
		}
	}
	return nil, nil
}

func (r *fakeBookingRepository) Create(ctx context.Context, booking *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	booking.Status = StatusConfirmed
	r.bookings = append(r.bookings, *booking)
	return nil
}

func (r *fakeBookingRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	var out []Booking
	for _, b := range r.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

// fakeEventRepository serves a fixed set of events
type fakeEventRepository struct {
	events map[uuid.UUID]*event.Event
}

func (r *fakeEventRepository) List(ctx context.Context, opts event.ListOptions) ([]event.Event, int64, error) {
	return nil, 0, nil
}

func (r *fakeEventRepository) GetByID(ctx context.Context, id uuid.UUID) (*event.Event, error) {
	e, ok := r.events[id]
	if !ok {
		return nil, nil
	}
	copied := *e
	return &copied, nil
}

func (r *fakeEventRepository) ExistsOnDay(ctx context.Context, name string, date time.Time) (bool, error) {
	return false, nil
}

func (r *fakeEventRepository) Create(ctx context.Context, e *event.Event) error { return nil }
func (r *fakeEventRepository) Save(ctx context.Context, e *event.Event) error   { return nil }
func (r *fakeEventRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	return 0, nil
}

type nopLogger struct{}

func (nopLogger) LogInfo(msg string, fields map[string]interface{}) {}
func (nopLogger) LogError(err error, msg string) error              { return err }
func (nopLogger) LogWarn(msg string, fields map[string]interface{}) {}

func newTestService(t *testing.T) (*Service, *fakeBookingRepository, *memoryCache, uuid.UUID) {
	t.Helper()
	eventID := uuid.New()
	events := &fakeEventRepository{events: map[uuid.UUID]*event.Event{
		eventID: {
			ID:       eventID,
			Name:     "Concert",
			Date:     time.Now().Add(48 * time.Hour),
			Category: "music",
		},
	}}
	repo := &fakeBookingRepository{}
	store := newMemoryCache()
	ttl := config.CacheConfig{EventTTL: 2 * time.Minute, BookingTTL: 200 * time.Second, UserTTL: 2 * time.Minute}
	return NewService(repo, events, store, ttl, nopLogger{}), repo, store, eventID
}

func TestCreateBooking(t *testing.T) {
	svc, _, _, eventID := newTestService(t)
	userID := uuid.New()

	booking, err := svc.CreateBooking(context.Background(), userID, eventID)
	require.NoError(t, err)
	assert.Equal(t, userID, booking.UserID)
	assert.Equal(t, eventID, booking.EventID)
	assert.Equal(t, StatusConfirmed, booking.Status)
}

func TestCreateBookingUnknownEvent(t *testing.T) {
	svc, _, store, _ := newTestService(t)

	missing := uuid.New()
	_, err := svc.CreateBooking(context.Background(), uuid.New(), missing)
	var notFound *apperrors.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.False(t, store.contains(cache.EventKey(missing.String())), "missing events must not be cached")
}

func TestCreateBookingDuplicate(t *testing.T) {
	svc, _, _, eventID := newTestService(t)
	userID := uuid.New()

	_, err := svc.CreateBooking(context.Background(), userID, eventID)
	require.NoError(t, err)

	_, err = svc.CreateBooking(context.Background(), userID, eventID)
	var conflict *apperrors.ConflictError
	require.ErrorAs(t, err, &conflict)

	// a different user can still book the same event
	_, err = svc.CreateBooking(context.Background(), uuid.New(), eventID)
	assert.NoError(t, err)
}

func TestCreateBookingRaceSettledByUniqueIndex(t *testing.T) {
	svc, repo, _, eventID := newTestService(t)
	repo.createErr = gorm.ErrDuplicatedKey

	_, err := svc.CreateBooking(context.Background(), uuid.New(), eventID)
	var conflict *apperrors.ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestCreateBookingEvictsUserListing(t *testing.T) {
	svc, _, store, eventID := newTestService(t)
	userID := uuid.New()

	// prime the user's bookings listing
	_, fromCache, err := svc.ListBookings(context.Background(), userID)
	require.NoError(t, err)
	require.False(t, fromCache)
	require.True(t, store.contains(cache.UserBookingsKey(userID.String())))

	_, err = svc.CreateBooking(context.Background(), userID, eventID)
	require.NoError(t, err)

	assert.False(t, store.contains(cache.UserBookingsKey(userID.String())),
		"user bookings listing should be evicted on create")

	// next read repopulates with the new booking
	bookings, fromCache, err := svc.ListBookings(context.Background(), userID)
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.Len(t, bookings, 1)
}

func TestListBookingsServedFromCacheOnSecondRead(t *testing.T) {
	svc, repo, _, eventID := newTestService(t)
	userID := uuid.New()

	_, err := svc.CreateBooking(context.Background(), userID, eventID)
	require.NoError(t, err)

	repo.listCalls = 0
	_, fromCache, err := svc.ListBookings(context.Background(), userID)
	require.NoError(t, err)
	assert.False(t, fromCache)

	_, fromCache, err = svc.ListBookings(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, fromCache)
	assert.Equal(t, 1, repo.listCalls)
}
