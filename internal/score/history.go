package score

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// SessionRecord is one finished ride in the history file.
type SessionRecord struct {
	Date   string  `json:"date"`
	Points float64 `json:"points"`
	Stars  float64 `json:"stars"`
}

// SectionRecord is one graded leg, keyed to its session by index.
type SectionRecord struct {
	Session int     `json:"session"`
	Points  float64 `json:"points"`
	Stars   int     `json:"stars"`
}

// History is every recorded session, loaded from and saved to a JSON
// file in the data directory.
type History struct {
	Sessions []SessionRecord `json:"sessions"`
	Sections []SectionRecord `json:"sections"`

	path    string
	current *SessionScore
}

// LoadHistory reads the history file, returning an empty history when
// the file does not exist yet.
func LoadHistory(path string) (*History, error) {
	h := &History{path: path}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return h, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading score history: %w", err)
	}
	if err := json.Unmarshal(data, h); err != nil {
		return nil, fmt.Errorf("parsing score history: %w", err)
	}
	return h, nil
}

// Save writes the history back to its file.
func (h *History) Save() error {
	if err := os.MkdirAll(filepath.Dir(h.path), 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling score history: %w", err)
	}
	if err := os.WriteFile(h.path, data, 0o644); err != nil {
		return fmt.Errorf("writing score history: %w", err)
	}
	return nil
}

// NewSession ends any current session and starts a fresh one.
func (h *History) NewSession() (*SessionScore, error) {
	if err := h.EndSession(); err != nil {
		return nil, err
	}
	h.current = NewSessionScore()
	return h.current, nil
}

// EndSession records the current session, if it scored anything, and
// saves the file.
func (h *History) EndSession() error {
	if h.current == nil || h.current.Empty() {
		h.current = nil
		return nil
	}
	idx := len(h.Sessions)
	h.Sessions = append(h.Sessions, SessionRecord{
		Date:   time.Now().Format("2006-01-02"),
		Points: h.current.Points,
		Stars:  h.current.Stars,
	})
	for _, sec := range h.current.Sections {
		h.Sections = append(h.Sections, SectionRecord{
			Session: idx,
			Points:  sec.Points,
			Stars:   sec.Stars,
		})
	}
	h.current = nil
	return h.Save()
}
