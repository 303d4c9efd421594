package cache

import "fmt"

// Unparameterized keys the mutation handlers evict explicitly.
// Parameterized listing keys are not tracked; stale listings age out by
// TTL.
const (
	AllEventsKey = "events:all"
	AllUsersKey  = "users:all"
)

// EventKey returns the cache key for a single event
func EventKey(id string) string {
	return fmt.Sprintf("event:%s", id)
}

// UserKey returns the cache key for a single user
func UserKey(id string) string {
	return fmt.Sprintf("user:%s", id)
}

// UserBookingsKey returns the cache key for a user's bookings listing
func UserBookingsKey(userID string) string {
	return fmt.Sprintf("bookings:user:%s", userID)
}

// EventListKey returns the cache key for a parameterized events listing.
// Every pagination/filter combination yields its own key.
func EventListKey(page, limit int, category, startDate, endDate, sort, booked, userID string) string {
	if category == "" {
		category = "all"
	}
	if startDate == "" {
		startDate = "none"
	}
	if endDate == "" {
		endDate = "none"
	}
	if booked == "" {
		booked = "all"
	}
	if userID == "" {
		userID = "none"
	}
	return fmt.Sprintf("events:page:%d:limit:%d:category:%s:startDate:%s:endDate:%s:sort:%s:booked:%s:userId:%s",
		page, limit, category, startDate, endDate, sort, booked, userID)
}
