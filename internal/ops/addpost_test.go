package ops

import (
	"database/sql"
	"testing"
	"time"

	"github.com/hpungsan/traction/internal/db"
	"github.com/hpungsan/traction/internal/errors"
	"github.com/hpungsan/traction/internal/taxonomy"
)

func testEnv(t *testing.T) (*sql.DB, *taxonomy.Store, string) {
	t.Helper()
	tmpDir := t.TempDir()
	database, err := db.Init(tmpDir)
	if err != nil {
		t.Fatalf("db.Init() error = %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database, taxonomy.NewStore(tmpDir), tmpDir
}

func TestAddPost_Validation(t *testing.T) {
	database, taxo, _ := testEnv(t)

	tests := []struct {
		name  string
		input AddPostInput
		code  errors.ErrorCode
	}{
		{
			name:  "missing platform",
			input: AddPostInput{Reach: 100},
			code:  errors.ErrInvalidRequest,
		},
		{
			name:  "unknown platform",
			input: AddPostInput{Platform: "myspace", Reach: 100},
			code:  errors.ErrInvalidRequest,
		},
		{
			name:  "negative metric",
			input: AddPostInput{Platform: "tiktok", Reach: -1},
			code:  errors.ErrInvalidRequest,
		},
		{
			name:  "all-zero metrics",
			input: AddPostInput{Platform: "tiktok"},
			code:  errors.ErrNoMetrics,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AddPost(database, taxo, tt.input)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestAddPost_PlatformCaseInsensitive(t *testing.T) {
	database, taxo, _ := testEnv(t)

	out, err := AddPost(database, taxo, AddPostInput{
		Platform: "  Instagram ",
		Reach:    100,
	})
	if err != nil {
		t.Fatalf("AddPost() error = %v", err)
	}

	got, err := Fetch(database, FetchInput{ID: out.ID})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if got.Platform != "instagram" {
		t.Errorf("platform = %q, want instagram", got.Platform)
	}
}

func TestAddPost_KeywordsNormalized(t *testing.T) {
	database, taxo, _ := testEnv(t)

	out, err := AddPost(database, taxo, AddPostInput{
		Platform: "tiktok",
		Reach:    100,
		Keywords: []string{"Recipe", "BTS", "recipe", " "},
	})
	if err != nil {
		t.Fatalf("AddPost() error = %v", err)
	}
	if out.Keywords != "bts, recipe" {
		t.Errorf("keywords = %q, want %q", out.Keywords, "bts, recipe")
	}
}

func TestAddPost_NewTagsExtendTaxonomy(t *testing.T) {
	database, taxo, _ := testEnv(t)

	_, err := AddPost(database, taxo, AddPostInput{
		Platform:     "tiktok",
		Campaign:     "winter drop",
		CaptionStyle: "carousel recap",
		Reach:        100,
	})
	if err != nil {
		t.Fatalf("AddPost() error = %v", err)
	}

	campaigns, err := taxo.Values(taxonomy.GroupCampaign)
	if err != nil {
		t.Fatalf("Values() error = %v", err)
	}
	found := false
	for _, v := range campaigns {
		if v == "Winter Drop" {
			found = true
		}
	}
	if !found {
		t.Errorf("Winter Drop not in campaign vocabulary: %v", campaigns)
	}

	styles, err := taxo.Values(taxonomy.GroupCaptionStyle)
	if err != nil {
		t.Fatalf("Values() error = %v", err)
	}
	found = false
	for _, v := range styles {
		if v == "Carousel Recap" {
			found = true
		}
	}
	if !found {
		t.Errorf("Carousel Recap not in style vocabulary: %v", styles)
	}
}

func TestAddPost_DefaultsPostedAtToNow(t *testing.T) {
	database, taxo, _ := testEnv(t)

	out, err := AddPost(database, taxo, AddPostInput{
		Platform: "email",
		Reach:    100,
	})
	if err != nil {
		t.Fatalf("AddPost() error = %v", err)
	}

	got, err := db.GetByID(database, out.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	// Stored as the local wall clock, read back zone-free
	now := time.Now()
	wallNow := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), now.Minute(), now.Second(), 0, time.UTC)
	if d := wallNow.Sub(got.PostedAt); d < -time.Minute || d > time.Minute {
		t.Errorf("posted_at = %v, want near %v", got.PostedAt, wallNow)
	}
}

func TestAddPost_GeneratesUniqueIDs(t *testing.T) {
	database, taxo, _ := testEnv(t)

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		out, err := AddPost(database, taxo, AddPostInput{
			Platform: "tiktok",
			Reach:    100,
		})
		if err != nil {
			t.Fatalf("AddPost() error = %v", err)
		}
		if seen[out.ID] {
			t.Fatalf("duplicate id %s", out.ID)
		}
		seen[out.ID] = true
	}
}
