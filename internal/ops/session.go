package ops

import (
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"

	"github.com/hpungsan/traction/internal/errors"
)

// Session carries explicit request-to-request state between commands: the
// last-used entry selections (which default the next entry) and a pending
// date-range handoff from the weekly review to the next report. It replaces
// the ambient per-process key/value state the workflow grew up with: every
// consumer receives it as a value and decides what to apply.
type Session struct {
	// Last-used entry selections; AddPost callers may default from these.
	LastPlatform     string `json:"last_platform,omitempty"`
	LastCampaign     string `json:"last_campaign,omitempty"`
	LastCaptionStyle string `json:"last_caption_style,omitempty"`

	// Pending window handoff ("use this week in the scorecard"). Consumed
	// once by the next report that runs without an explicit window.
	PendingStart     string   `json:"pending_start,omitempty"`
	PendingEnd       string   `json:"pending_end,omitempty"`
	PendingCampaigns []string `json:"pending_campaigns,omitempty"`
}

// HasPendingWindow reports whether a handoff window is waiting.
func (s *Session) HasPendingWindow() bool {
	return s.PendingStart != "" && s.PendingEnd != ""
}

// TakePendingWindow returns and clears the handoff window and campaigns.
// The caller is responsible for saving the session afterwards.
func (s *Session) TakePendingWindow() (start, end string, campaigns []string) {
	start, end, campaigns = s.PendingStart, s.PendingEnd, s.PendingCampaigns
	s.PendingStart, s.PendingEnd, s.PendingCampaigns = "", "", nil
	return start, end, campaigns
}

// sessionPath is the session file location under the base directory.
func sessionPath(baseDir string) string {
	return filepath.Join(baseDir, "session.json")
}

// LoadSession reads the session file, returning an empty session if it
// does not exist.
func LoadSession(baseDir string) (*Session, error) {
	data, err := os.ReadFile(sessionPath(baseDir))
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return &Session{}, nil
		}
		return nil, errors.NewInternal(err)
	}
	s := &Session{}
	if err := json.Unmarshal(data, s); err != nil {
		// A corrupt session file is not worth failing a command over.
		return &Session{}, nil
	}
	return s, nil
}

// SaveSession writes the session file.
func SaveSession(baseDir string, s *Session) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return errors.NewInternal(err)
	}
	if err := os.WriteFile(sessionPath(baseDir), data, 0600); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}
