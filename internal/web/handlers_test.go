package web

import (
	"encoding/json"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hpungsan/traction/internal/config"
	"github.com/hpungsan/traction/internal/db"
	"github.com/hpungsan/traction/internal/ops"
	"github.com/hpungsan/traction/internal/taxonomy"
)

func setupTest(t *testing.T) (*Handlers, *taxonomy.Store) {
	t.Helper()
	tmpDir := t.TempDir()
	database, err := db.Init(tmpDir)
	if err != nil {
		t.Fatalf("db.Init: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	cfg := config.DefaultConfig()

	templateSub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		t.Fatalf("template sub-FS: %v", err)
	}
	renderer := NewRenderer(templateSub, "test")

	return &Handlers{
		db:       database,
		cfg:      cfg,
		renderer: renderer,
	}, taxonomy.NewStore(tmpDir)
}

// seedPost stores a post and returns its ID.
func seedPost(t *testing.T, h *Handlers, taxo *taxonomy.Store, input ops.AddPostInput) string {
	t.Helper()
	if input.PostedAt.IsZero() {
		input.PostedAt = time.Date(2026, 8, 19, 0, 0, 0, 0, time.UTC)
	}
	out, err := ops.AddPost(h.db, taxo, input)
	if err != nil {
		t.Fatalf("seed post: %v", err)
	}
	return out.ID
}

// --- HandlePosts ---

func TestHandlePosts_Default(t *testing.T) {
	h, taxo := setupTest(t)
	seedPost(t, h, taxo, ops.AddPostInput{Platform: "tiktok", Campaign: "Launch", Reach: 1000, Likes: 50})

	req := httptest.NewRequest("GET", "/posts", nil)
	rec := httptest.NewRecorder()
	h.HandlePosts(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "tiktok") {
		t.Error("expected platform 'tiktok' in response")
	}
	if !strings.Contains(body, "Launch") {
		t.Error("expected campaign 'Launch' in response")
	}
}

func TestHandlePosts_Empty(t *testing.T) {
	h, _ := setupTest(t)

	req := httptest.NewRequest("GET", "/posts", nil)
	rec := httptest.NewRecorder()
	h.HandlePosts(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

// --- HandleDetail ---

func TestHandleDetail_Found(t *testing.T) {
	h, taxo := setupTest(t)
	id := seedPost(t, h, taxo, ops.AddPostInput{
		Platform: "instagram",
		Reach:    500,
		Likes:    30,
		Notes:    "**strong** carousel",
	})

	req := httptest.NewRequest("GET", "/posts/"+id, nil)
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()
	h.HandleDetail(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, id) {
		t.Error("expected post ID in response")
	}
	// Markdown notes render as HTML
	if !strings.Contains(body, "<strong>strong</strong>") {
		t.Error("expected rendered markdown in response")
	}
}

func TestHandleDetail_NotFound(t *testing.T) {
	h, _ := setupTest(t)

	req := httptest.NewRequest("GET", "/posts/missing", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()
	h.HandleDetail(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

// --- HandleInsights ---

func TestHandleInsights_BareVisitShowsForm(t *testing.T) {
	h, _ := setupTest(t)

	req := httptest.NewRequest("GET", "/insights", nil)
	rec := httptest.NewRecorder()
	h.HandleInsights(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<form") {
		t.Error("expected report form in response")
	}
	if strings.Contains(body, "<table") {
		t.Error("bare visit should not run a report")
	}
}

func TestHandleInsights_RunsReport(t *testing.T) {
	h, taxo := setupTest(t)
	seedPost(t, h, taxo, ops.AddPostInput{Platform: "tiktok", Reach: 2000, Likes: 100, FollowsGained: 40})

	req := httptest.NewRequest("GET", "/insights?dimension=platform&start=2026-08-17&end=2026-08-23", nil)
	rec := httptest.NewRecorder()
	h.HandleInsights(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "tiktok") {
		t.Error("expected ranked group in response")
	}
}

func TestHandleInsights_EmptyOutcomesRenderAsNotice(t *testing.T) {
	h, taxo := setupTest(t)

	// No data at all: notice, not an error page
	req := httptest.NewRequest("GET", "/insights?dimension=platform&start=2026-08-17&end=2026-08-23", nil)
	rec := httptest.NewRecorder()
	h.HandleInsights(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("no-data status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "notice") {
		t.Error("expected notice for empty window")
	}

	// Data exists but the threshold removes it: still a notice
	seedPost(t, h, taxo, ops.AddPostInput{Platform: "tiktok", Reach: 10, Likes: 1})
	req = httptest.NewRequest("GET", "/insights?dimension=platform&start=2026-08-17&end=2026-08-23", nil)
	rec = httptest.NewRecorder()
	h.HandleInsights(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("all-filtered status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "minimum reach") {
		t.Error("expected threshold notice")
	}
}

func TestHandleInsights_BadDateIsError(t *testing.T) {
	h, _ := setupTest(t)

	req := httptest.NewRequest("GET", "/insights?dimension=platform&start=nope&end=2026-08-23", nil)
	rec := httptest.NewRecorder()
	h.HandleInsights(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

// --- HandleWeekly ---

func TestHandleWeekly_RendersTable(t *testing.T) {
	h, taxo := setupTest(t)
	seedPost(t, h, taxo, ops.AddPostInput{Platform: "email", Reach: 300, Likes: 5})

	req := httptest.NewRequest("GET", "/weekly?week_start=2026-08-19", nil)
	rec := httptest.NewRecorder()
	h.HandleWeekly(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "email") {
		t.Error("expected group in response")
	}
	if !strings.Contains(body, "2026-08-17") {
		t.Error("expected snapped week start in response")
	}
}

func TestHandleWeekly_EmptyWeekIsNotice(t *testing.T) {
	h, _ := setupTest(t)

	req := httptest.NewRequest("GET", "/weekly?week_start=2026-08-19", nil)
	rec := httptest.NewRecorder()
	h.HandleWeekly(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "notice") {
		t.Error("expected notice for empty week")
	}
}

// --- Error rendering ---

func TestErrorRendering_JSONNegotiation(t *testing.T) {
	h, _ := setupTest(t)

	req := httptest.NewRequest("GET", "/posts/missing", nil)
	req.SetPathValue("id", "missing")
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.HandleDetail(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %s", ct)
	}

	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	errObj, _ := payload["error"].(map[string]any)
	if errObj["code"] != "NOT_FOUND" {
		t.Errorf("code = %v, want NOT_FOUND", errObj["code"])
	}
}

// --- Server wiring ---

func TestServerRoutes(t *testing.T) {
	h, _ := setupTest(t)

	srv := NewServer(h.db, h.cfg, "test", "127.0.0.1", 0)

	tests := []struct {
		path       string
		wantStatus int
	}{
		{path: "/", wantStatus: http.StatusFound},
		{path: "/posts", wantStatus: http.StatusOK},
		{path: "/insights", wantStatus: http.StatusOK},
		{path: "/weekly", wantStatus: http.StatusOK},
		{path: "/static/style.css", wantStatus: http.StatusOK},
		{path: "/nope", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		req := httptest.NewRequest("GET", tt.path, nil)
		rec := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rec, req)
		if rec.Code != tt.wantStatus {
			t.Errorf("GET %s = %d, want %d", tt.path, rec.Code, tt.wantStatus)
		}
	}
}

func TestSecurityHeaders(t *testing.T) {
	h, _ := setupTest(t)
	srv := NewServer(h.db, h.cfg, "test", "127.0.0.1", 0)

	req := httptest.NewRequest("GET", "/posts", nil)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %s", got)
	}
	if got := rec.Header().Get("Content-Security-Policy"); got == "" {
		t.Error("missing Content-Security-Policy")
	}
}

func TestParseIntParam(t *testing.T) {
	req := httptest.NewRequest("GET", "/posts?limit=7&bad=x", nil)

	if got := parseIntParam(req, "limit", 20); got != 7 {
		t.Errorf("limit = %d, want 7", got)
	}
	if got := parseIntParam(req, "bad", 20); got != 20 {
		t.Errorf("bad = %d, want fallback 20", got)
	}
	if got := parseIntParam(req, "missing", 20); got != 20 {
		t.Errorf("missing = %d, want fallback 20", got)
	}
}
