package humantime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatTimeDifference(t *testing.T) {
	cases := []struct {
		seconds int64
		want    string
	}{
		{10, "10 seconds ago"},
		{120, "2 minutes ago"},
		{7200, "2 hours ago"},
		{172800, "2 days ago"},
		{1209600, "2 weeks ago"},
		{5184000, "2 months ago"},
		{63072000, "2 years ago"},

		{0, "0 seconds ago"},
		{1, "1 second ago"},
		{60, "1 minute ago"},
		{3599, "59 minutes ago"},
		{3600, "1 hour ago"},
		{86400, "1 day ago"},
		{604800, "1 week ago"},
		{2627999, "4 weeks ago"},
		{2628000, "1 month ago"},
		{31535999, "12 months ago"},
		{31536000, "1 year ago"},
		{-5, "0 seconds ago"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatTimeDifference(tc.seconds), "seconds=%d", tc.seconds)
	}
}

func TestSince(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "3 hours ago", Since(now.Add(-3*time.Hour-time.Minute), now))
}
