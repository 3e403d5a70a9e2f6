package services

import (
	"testing"
	"time"
)

func TestCacheEntryFreshness(t *testing.T) {
	updatedAt := time.Date(2026, 8, 31, 14, 30, 0, 0, time.UTC)
	entry := cacheEntry{
		UpdatedAt:  updatedAt.Unix(),
		ComputedOn: "2026-08-31",
	}

	cases := []struct {
		name      string
		updatedAt time.Time
		today     time.Time
		want      bool
	}{
		{
			name:      "same updated_at and same day",
			updatedAt: updatedAt,
			today:     time.Date(2026, 8, 31, 23, 59, 0, 0, time.UTC),
			want:      true,
		},
		{
			name:      "assessment changed since computation",
			updatedAt: updatedAt.Add(time.Minute),
			today:     time.Date(2026, 8, 31, 23, 59, 0, 0, time.UTC),
			want:      false,
		},
		{
			name:      "date rolled over to the next month",
			updatedAt: updatedAt,
			today:     time.Date(2026, 9, 1, 0, 1, 0, 0, time.UTC),
			want:      false,
		},
		{
			name:      "date rolled over to the next day",
			updatedAt: updatedAt,
			today:     time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
			want:      false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := entry.fresh(tc.updatedAt, tc.today); got != tc.want {
				t.Fatalf("fresh(%v, %v) = %v, want %v", tc.updatedAt, tc.today, got, tc.want)
			}
		})
	}
}
