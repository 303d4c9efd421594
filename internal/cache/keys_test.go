package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventListKeyDefaults(t *testing.T) {
	key := EventListKey(1, 10, "", "", "", "asc", "", "")
	assert.Equal(t, "events:page:1:limit:10:category:all:startDate:none:endDate:none:sort:asc:booked:all:userId:none", key)
}

func TestEventListKeyIncludesFilters(t *testing.T) {
	key := EventListKey(2, 5, "music", "2026-09-01", "2026-09-30", "desc", "true", "8b5c1f9a-46d2-4f11-9c0a-0c2e7a1b3d4e")
	assert.Equal(t, "events:page:2:limit:5:category:music:startDate:2026-09-01:endDate:2026-09-30:sort:desc:booked:true:userId:8b5c1f9a-46d2-4f11-9c0a-0c2e7a1b3d4e", key)

	// different pages of the same filter set never share a key
	assert.NotEqual(t, key, EventListKey(3, 5, "music", "2026-09-01", "2026-09-30", "desc", "true", "8b5c1f9a-46d2-4f11-9c0a-0c2e7a1b3d4e"))
}

func TestEntityKeys(t *testing.T) {
	assert.Equal(t, "event:abc", EventKey("abc"))
	assert.Equal(t, "user:abc", UserKey("abc"))
	assert.Equal(t, "bookings:user:abc", UserBookingsKey("abc"))
}
