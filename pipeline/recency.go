package pipeline

import "time"

// RecencyBucket classifies how old an event is relative to processing time.
type RecencyBucket string

const (
	// RecencyVeryRecent covers events younger than 24 hours.
	RecencyVeryRecent RecencyBucket = "very_recent"
	// RecencyRecent covers events younger than 72 hours.
	RecencyRecent RecencyBucket = "recent"
	// RecencyThisWeek covers events younger than 168 hours.
	RecencyThisWeek RecencyBucket = "this_week"
	// RecencyThisMonth covers events younger than 720 hours.
	RecencyThisMonth RecencyBucket = "this_month"
	// RecencyOlder covers everything else.
	RecencyOlder RecencyBucket = "older"
)

// BucketFor maps elapsed time since the event to its recency bucket. The
// thresholds are contract: each bucket's upper bound is exclusive, so exactly
// 24h is already "recent".
func BucketFor(elapsed time.Duration) RecencyBucket {
	switch {
	case elapsed < 24*time.Hour:
		return RecencyVeryRecent
	case elapsed < 72*time.Hour:
		return RecencyRecent
	case elapsed < 168*time.Hour:
		return RecencyThisWeek
	case elapsed < 720*time.Hour:
		return RecencyThisMonth
	default:
		return RecencyOlder
	}
}
