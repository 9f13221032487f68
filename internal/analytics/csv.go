package analytics

import (
	"encoding/csv"
	"io"
	"strconv"
)

// WriteCSV renders ranked groups as UTF-8 CSV: a header row followed by one
// data row per group, in the order given. labelColumn names the first
// column (e.g. "platform", "style"). The success_score column is emitted
// only when includeScore is set; floats use default decimal form.
func WriteCSV(w io.Writer, labelColumn string, groups []Group, includeScore bool) error {
	cw := csv.NewWriter(w)

	header := []string{labelColumn, "reach", "likes", "follows_gained", "email_captures", "like_rate", "follow_rate", "capture_rate"}
	if includeScore {
		header = append(header, "success_score")
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i := range groups {
		g := &groups[i]
		rec := []string{
			g.Label,
			strconv.FormatInt(g.Reach, 10),
			strconv.FormatInt(g.Likes, 10),
			strconv.FormatInt(g.FollowsGained, 10),
			strconv.FormatInt(g.EmailCaptures, 10),
			formatFloat(g.LikeRate),
			formatFloat(g.FollowRate),
			formatFloat(g.CaptureRate),
		}
		if includeScore {
			score := 0.0
			if g.Score != nil {
				score = *g.Score
			}
			rec = append(rec, formatFloat(score))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
