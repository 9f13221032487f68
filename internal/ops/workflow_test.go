package ops

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/traction/internal/config"
	"github.com/hpungsan/traction/internal/db"
	"github.com/hpungsan/traction/internal/errors"
	"github.com/hpungsan/traction/internal/taxonomy"
)

// TestFullWorkflow exercises the complete tracking lifecycle:
// add → fetch → list → insights → weekly → scorecard → export → delete →
// insights (no data)
func TestFullWorkflow(t *testing.T) {
	tmpDir := t.TempDir()
	database, err := db.Init(tmpDir)
	require.NoError(t, err)
	defer database.Close()

	cfg := config.DefaultConfig()
	taxo := taxonomy.NewStore(tmpDir)

	posted := time.Date(2026, 8, 19, 0, 0, 0, 0, time.UTC)

	// 1. Add
	addOut, err := AddPost(database, taxo, AddPostInput{
		Platform:      "TikTok",
		PostedAt:      posted,
		Campaign:      "spring launch",
		CaptionStyle:  "Short hook",
		Reach:         2000,
		Likes:         150,
		FollowsGained: 40,
		EmailCaptures: 12,
		Keywords:      []string{"BTS", "recipe"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, addOut.ID)
	require.Equal(t, "bts, recipe", addOut.Keywords)
	id := addOut.ID

	// Entering a new campaign extended the vocabulary
	campaigns, err := taxo.Values(taxonomy.GroupCampaign)
	require.NoError(t, err)
	require.Contains(t, campaigns, "Spring Launch")

	// 2. Fetch: platform lowercased, campaign normalized
	fetchOut, err := Fetch(database, FetchInput{ID: id})
	require.NoError(t, err)
	require.Equal(t, "tiktok", fetchOut.Platform)
	require.Equal(t, "Spring Launch", fetchOut.Campaign)
	require.Equal(t, "2026-08-19", fetchOut.PostedAt[:10])

	// 3. List
	listOut, err := List(database, ListInput{})
	require.NoError(t, err)
	require.Len(t, listOut.Items, 1)
	require.Equal(t, id, listOut.Items[0].ID)

	// 4. Insights over the covering window
	window := InsightsInput{
		Start:     time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC),
		End:       time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC),
		Dimension: "platform",
	}
	insightsOut, err := Insights(database, cfg, window)
	require.NoError(t, err)
	require.Equal(t, "success_score", insightsOut.RankBy)
	require.Len(t, insightsOut.Groups, 1)
	require.Equal(t, "tiktok", insightsOut.Groups[0].Label)
	require.NotNil(t, insightsOut.Groups[0].Score)
	require.InDelta(t, 0.075, insightsOut.Groups[0].LikeRate, 1e-12)

	// 5. Weekly review for the same week
	weeklyOut, err := Weekly(database, WeeklyInput{
		WeekStart: time.Date(2026, 8, 19, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Equal(t, "2026-08-17", weeklyOut.WeekStart)
	require.Equal(t, "2026-08-23", weeklyOut.WeekEnd)
	require.Len(t, weeklyOut.Groups, 1)

	// 6. Scorecard
	scorecardOut, err := Scorecard(database, ScorecardInput{
		Start: window.Start,
		End:   window.End,
	})
	require.NoError(t, err)
	require.Equal(t, int64(2000), scorecardOut.Totals.Reach)
	require.Len(t, scorecardOut.Weeks, 1)

	// 7. Export to CSV
	exportOut, err := ExportInsights(database, cfg, tmpDir, ExportInsightsInput{
		Insights: window,
	})
	require.NoError(t, err)
	require.Equal(t, 1, exportOut.Rows)
	_, err = os.Stat(exportOut.Path)
	require.NoError(t, err)

	// 8. Delete (soft)
	deleteOut, err := Delete(database, DeleteInput{ID: id})
	require.NoError(t, err)
	require.True(t, deleteOut.Deleted)

	// 9. The deleted post no longer feeds reports
	_, err = Insights(database, cfg, window)
	require.True(t, errors.Is(err, errors.ErrNoData))

	_, err = Fetch(database, FetchInput{ID: id})
	require.True(t, errors.Is(err, errors.ErrNotFound))
}

// TestWeeklyHandoff models the review-to-report flow: the weekly window is
// parked in the session and consumed by the next scorecard run.
func TestWeeklyHandoff(t *testing.T) {
	tmpDir := t.TempDir()
	database, err := db.Init(tmpDir)
	require.NoError(t, err)
	defer database.Close()

	taxo := taxonomy.NewStore(tmpDir)
	posted := time.Date(2026, 8, 19, 0, 0, 0, 0, time.UTC)

	_, err = AddPost(database, taxo, AddPostInput{
		Platform: "instagram",
		PostedAt: posted,
		Campaign: "Launch",
		Reach:    500,
		Likes:    50,
	})
	require.NoError(t, err)

	weeklyOut, err := Weekly(database, WeeklyInput{WeekStart: posted})
	require.NoError(t, err)

	session, err := LoadSession(tmpDir)
	require.NoError(t, err)
	session.PendingStart = weeklyOut.WeekStart
	session.PendingEnd = weeklyOut.WeekEnd
	session.PendingCampaigns = []string{"Launch"}
	require.NoError(t, SaveSession(tmpDir, session))

	// The consumer takes the window once
	session, err = LoadSession(tmpDir)
	require.NoError(t, err)
	require.True(t, session.HasPendingWindow())
	start, end, campaigns := session.TakePendingWindow()
	require.Equal(t, "2026-08-17", start)
	require.Equal(t, "2026-08-23", end)
	require.Equal(t, []string{"Launch"}, campaigns)
	require.NoError(t, SaveSession(tmpDir, session))

	startDate, err := ParseDate(start)
	require.NoError(t, err)
	endDate, err := ParseDate(end)
	require.NoError(t, err)

	scorecardOut, err := Scorecard(database, ScorecardInput{
		Start:     startDate,
		End:       endDate,
		Campaigns: campaigns,
	})
	require.NoError(t, err)
	require.Equal(t, int64(500), scorecardOut.Totals.Reach)

	// Taken means gone: a second load sees no pending window
	session, err = LoadSession(tmpDir)
	require.NoError(t, err)
	require.False(t, session.HasPendingWindow())
}
