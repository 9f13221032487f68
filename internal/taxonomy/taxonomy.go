// Package taxonomy manages the controlled vocabularies for campaign and
// caption-style tags. Values live in a YAML file so they stay hand-editable;
// new values are added through an idempotent upsert instead of inline
// mutation from entry or rendering code.
package taxonomy

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/hpungsan/traction/internal/errors"
)

// Vocabulary group names.
const (
	GroupCampaign     = "campaign"
	GroupCaptionStyle = "caption_style"
)

// Groups lists the known vocabulary groups.
var Groups = []string{GroupCampaign, GroupCaptionStyle}

// defaults seed a fresh taxonomy file.
var defaults = map[string][]string{
	GroupCampaign:     {"BTS", "Storytelling", "Growth", "Launch", "Evergreen"},
	GroupCaptionStyle: {"Short hook", "Story paragraph", "How-to/Recipe", "Question/Poll", "CTA"},
}

// Store persists vocabularies at baseDir/taxonomies.yml.
type Store struct {
	path string
}

// NewStore creates a Store rooted at baseDir.
func NewStore(baseDir string) *Store {
	return &Store{path: filepath.Join(baseDir, "taxonomies.yml")}
}

// Load reads all vocabularies, seeding the file with defaults on first use.
func (s *Store) Load() (map[string][]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			seeded := cloneVocab(defaults)
			if err := s.save(seeded); err != nil {
				return nil, err
			}
			return seeded, nil
		}
		return nil, errors.NewInternal(err)
	}

	vocab := make(map[string][]string)
	if err := yaml.Unmarshal(data, &vocab); err != nil {
		return nil, errors.NewInternal(err)
	}
	return vocab, nil
}

// Values returns the vocabulary for one group.
func (s *Store) Values(group string) ([]string, error) {
	if !knownGroup(group) {
		return nil, errors.NewInvalidRequest("unknown taxonomy group: " + group)
	}
	vocab, err := s.Load()
	if err != nil {
		return nil, err
	}
	return vocab[group], nil
}

// Upsert adds value to a group's vocabulary if a case-insensitive match is
// not already present. The value is normalized (trimmed, title-cased)
// before comparison. Returns the normalized value and whether the
// vocabulary changed; repeating the call is a no-op.
func (s *Store) Upsert(group, value string) (string, bool, error) {
	if !knownGroup(group) {
		return "", false, errors.NewInvalidRequest("unknown taxonomy group: " + group)
	}
	norm := Normalize(value)
	if norm == "" {
		return "", false, errors.NewInvalidRequest("taxonomy value must not be empty")
	}

	vocab, err := s.Load()
	if err != nil {
		return "", false, err
	}
	for _, existing := range vocab[group] {
		if strings.EqualFold(existing, norm) {
			return existing, false, nil
		}
	}

	vocab[group] = append(vocab[group], norm)
	if err := s.save(vocab); err != nil {
		return "", false, err
	}
	return norm, true, nil
}

// Normalize trims and title-cases a taxonomy value ("bts launch" → "Bts
// Launch"). Existing entries keep their stored casing; matching is
// case-insensitive.
func Normalize(value string) string {
	words := strings.Fields(strings.TrimSpace(value))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

func (s *Store) save(vocab map[string][]string) error {
	// yaml.Marshal emits map keys in sorted order, keeping the file
	// diff-friendly.
	data, err := yaml.Marshal(vocab)
	if err != nil {
		return errors.NewInternal(err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

func knownGroup(group string) bool {
	for _, g := range Groups {
		if g == group {
			return true
		}
	}
	return false
}

func cloneVocab(src map[string][]string) map[string][]string {
	dst := make(map[string][]string, len(src))
	for k, v := range src {
		dst[k] = append([]string(nil), v...)
	}
	return dst
}
