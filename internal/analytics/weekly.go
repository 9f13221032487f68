package analytics

import (
	"sort"
	"time"

	"github.com/hpungsan/traction/internal/post"
)

// WeekBucket holds summed metrics for one Monday-anchored week. Ephemeral,
// produced fresh per request.
type WeekBucket struct {
	WeekStart     time.Time `json:"week_start"`
	Reach         int64     `json:"reach"`
	Likes         int64     `json:"likes"`
	FollowsGained int64     `json:"follows_gained"`
	EmailCaptures int64     `json:"email_captures"`
}

// MondayOf returns midnight of the Monday on or before t, in t's location.
func MondayOf(t time.Time) time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(d.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return d.AddDate(0, 0, -offset)
}

// LastFullWeek returns the Monday..Sunday range of the most recent complete
// week before now. Used as the default reporting window.
func LastFullWeek(now time.Time) (start, end time.Time) {
	monday := MondayOf(now)
	return monday.AddDate(0, 0, -7), monday.AddDate(0, 0, -1)
}

// Resample buckets posts into Monday-anchored weekly windows and sums the
// four metrics per bucket, ordered by ascending week start.
//
// Weeks with zero posts do not appear: there is no synthetic zero-fill, so
// consumers building a continuous time series must fill gaps themselves.
func Resample(posts []post.Post) []WeekBucket {
	if len(posts) == 0 {
		return nil
	}
	index := make(map[time.Time]int)
	buckets := make([]WeekBucket, 0)
	for i := range posts {
		ws := MondayOf(posts[i].PostedAt)
		// Map keys compare location as well as wall clock; pin buckets to
		// UTC midnight so one calendar week is one bucket whatever zone the
		// post times carry.
		ws = time.Date(ws.Year(), ws.Month(), ws.Day(), 0, 0, 0, 0, time.UTC)
		j, ok := index[ws]
		if !ok {
			j = len(buckets)
			index[ws] = j
			buckets = append(buckets, WeekBucket{WeekStart: ws})
		}
		buckets[j].Reach += posts[i].Reach
		buckets[j].Likes += posts[i].Likes
		buckets[j].FollowsGained += posts[i].FollowsGained
		buckets[j].EmailCaptures += posts[i].EmailCaptures
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].WeekStart.Before(buckets[j].WeekStart)
	})
	return buckets
}
