package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBucketForBoundaries(t *testing.T) {
	h := func(hours float64) time.Duration { return time.Duration(hours * float64(time.Hour)) }

	tests := []struct {
		elapsed time.Duration
		want    RecencyBucket
	}{
		{0, RecencyVeryRecent},
		{h(23.9), RecencyVeryRecent},
		{h(24), RecencyRecent}, // upper bound exclusive
		{h(24.1), RecencyRecent},
		{h(71.9), RecencyRecent},
		{h(72), RecencyThisWeek},
		{h(72.1), RecencyThisWeek},
		{h(167.9), RecencyThisWeek},
		{h(168), RecencyThisMonth},
		{h(719.9), RecencyThisMonth},
		{h(720), RecencyOlder},
		{h(10000), RecencyOlder},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, BucketFor(tt.elapsed), "elapsed=%s", tt.elapsed)
	}
}
