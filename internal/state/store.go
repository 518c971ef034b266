package state

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sync"
)

const (
	appDirName    = "ActiveSticky"
	stateFileName = "state.json"

	// PathEnv overrides the state file location.
	PathEnv = "ACTIVESTICKY_STATE"
)

// DefaultPath returns the per-user state file path,
// %APPDATA%\ActiveSticky\state.json on Windows.
func DefaultPath() (string, error) {
	if p := os.Getenv(PathEnv); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get config dir: %w", err)
	}
	return filepath.Join(dir, appDirName, stateFileName), nil
}

// Store loads, saves and deletes the state document. Persistence failures
// are logged and never returned: losing a write must not take the widget down.
type Store struct {
	path string
	log  *slog.Logger

	mu sync.Mutex
	// extra holds keys this version does not know, written back on save.
	extra       map[string]json.RawMessage
	lastWritten []byte
}

// NewStore creates a store for the document at path.
func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		path: path,
		log:  logger.With("component", "state"),
	}
}

// Path returns the full path to the state file.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether the state file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads the state file. Any failure yields Defaults(); fields that are
// missing or invalid are filled from Defaults() one by one.
func (s *Store) Load() PersistedState {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.log.Debug("no state file, using defaults", "path", s.path)
		} else {
			s.log.Warn("read state", "path", s.path, "error", err)
		}
		s.setExtra(nil)
		return Defaults()
	}

	st, err := s.adopt(data)
	if err != nil {
		s.log.Warn("decode state, using defaults", "path", s.path, "error", err)
		s.setExtra(nil)
		return Defaults()
	}
	return st
}

// adopt decodes data as the current file contents. Unknown keys are kept for
// the next save only when data decodes.
func (s *Store) adopt(data []byte) (PersistedState, error) {
	st, extra, err := Decode(data)
	if err != nil {
		return PersistedState{}, err
	}
	s.setExtra(extra)
	return st, nil
}

func (s *Store) setExtra(extra map[string]json.RawMessage) {
	s.mu.Lock()
	s.extra = extra
	s.mu.Unlock()
}

// Save writes st to the state file, creating parent directories as needed.
func (s *Store) Save(st PersistedState) {
	if err := s.write(st); err != nil {
		s.log.Error("save state", "path", s.path, "error", err)
	}
}

func (s *Store) write(st PersistedState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := Encode(st, s.extra)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	// Write beside the target and rename so a crash never leaves half a file.
	tmp, err := os.CreateTemp(dir, "state-*.json.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace state file: %w", err)
	}

	s.lastWritten = data
	return nil
}

// Delete removes the state file if present.
func (s *Store) Delete() {
	s.mu.Lock()
	s.extra = nil
	s.lastWritten = nil
	s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.log.Warn("delete state", "path", s.path, "error", err)
		return
	}
	s.log.Info("state deleted", "path", s.path)
}

// wroteLast reports whether data is the document this store wrote last.
func (s *Store) wroteLast(data []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastWritten != nil && bytes.Equal(s.lastWritten, data)
}

// Encode renders st as indented JSON, keeping unknown keys from extra.
func Encode(st PersistedState, extra map[string]json.RawMessage) ([]byte, error) {
	if len(extra) == 0 {
		return json.MarshalIndent(st, "", "  ")
	}
	known, err := json.Marshal(st)
	if err != nil {
		return nil, err
	}

	doc := make(map[string]json.RawMessage, len(extra)+12)
	for k, v := range extra {
		doc[k] = v
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(known, &fields); err != nil {
		return nil, err
	}
	for k, v := range fields {
		doc[k] = v
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Decode parses a state document. The document must be a JSON object;
// each known field falls back to its default when absent or invalid, and
// unknown keys are returned separately.
func Decode(data []byte) (PersistedState, map[string]json.RawMessage, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return Defaults(), nil, err
	}
	if doc == nil {
		return Defaults(), nil, errors.New("state document is null")
	}

	st := Defaults()
	d := decoder{doc: doc}

	d.str("text", &st.Text, nil)
	d.integer("x", &st.X, nil)
	d.integer("y", &st.Y, nil)
	d.integer("w", &st.W, positive)
	d.integer("h", &st.H, positive)
	d.boolean("click_through", &st.ClickThrough)
	d.float("opacity", &st.Opacity, func(v float64) (float64, bool) {
		return ClampOpacity(v), true
	})
	d.float("font_pt", &st.FontPt, func(v float64) (float64, bool) {
		return v, v >= MinFontPt && v <= MaxFontPt
	})
	var theme string
	if d.str("theme", &theme, nil) {
		if t, ok := ParseTheme(theme); ok {
			st.Theme = t
		}
	}
	d.integer("auto_hide_timer", &st.AutoHideTimer, func(v int) (int, bool) {
		if v < 0 {
			return 0, false
		}
		return min(v, MaxAutoHideTimer), true
	})
	d.boolean("word_wrap", &st.WordWrap)
	d.str("font_family", &st.FontFamily, func(v string) (string, bool) {
		return v, v != ""
	})

	for _, k := range knownKeys {
		delete(doc, k)
	}
	if len(doc) == 0 {
		doc = nil
	}
	return st, doc, nil
}

var knownKeys = []string{
	"text", "x", "y", "w", "h", "click_through", "opacity", "font_pt",
	"theme", "auto_hide_timer", "word_wrap", "font_family",
}

func positive(v int) (int, bool) { return v, v > 0 }

// decoder fills typed fields from raw JSON values, leaving the default in
// place when a value is missing, mistyped or rejected by its check.
type decoder struct {
	doc map[string]json.RawMessage
}

// raw returns the value of key; an explicit null counts as absent.
func (d decoder) raw(key string) (json.RawMessage, bool) {
	raw, ok := d.doc[key]
	if !ok || string(bytes.TrimSpace(raw)) == "null" {
		return nil, false
	}
	return raw, true
}

func (d decoder) str(key string, dst *string, check func(string) (string, bool)) bool {
	raw, ok := d.raw(key)
	if !ok {
		return false
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	if check != nil {
		if v, ok = check(v); !ok {
			return false
		}
	}
	*dst = v
	return true
}

func (d decoder) boolean(key string, dst *bool) {
	raw, ok := d.raw(key)
	if !ok {
		return
	}
	var v bool
	if err := json.Unmarshal(raw, &v); err == nil {
		*dst = v
	}
}

func (d decoder) float(key string, dst *float64, check func(float64) (float64, bool)) {
	raw, ok := d.raw(key)
	if !ok {
		return
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return
	}
	if check != nil {
		if v, ok = check(v); !ok {
			return
		}
	}
	*dst = v
}

// integer accepts integral JSON numbers, including forms like 80.0.
func (d decoder) integer(key string, dst *int, check func(int) (int, bool)) {
	raw, ok := d.raw(key)
	if !ok {
		return
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return
	}
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return
	}
	v := int(f)
	if check != nil {
		if v, ok = check(v); !ok {
			return
		}
	}
	*dst = v
}
