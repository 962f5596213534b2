// Package templates keeps a small, ordered collection of named watermark
// settings and persists it as one snapshot under a single key.
package templates

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"wmstudio/pkg/logger"
	"wmstudio/pkg/watermark"
)

const (
	MaxTemplates = 5
	DefaultKey   = "watermarkTemplates"

	formatVersion = 1
)

type Template struct {
	ID       int64                  `json:"id"`
	Name     string                 `json:"name"`
	Settings watermark.RenderParams `json:"settings"`
}

type envelope struct {
	Version   int        `json:"version"`
	Templates []Template `json:"templates"`
}

// Store is the in-memory view of the persisted collection. Every mutation
// writes the whole collection before it becomes visible.
type Store struct {
	mu    sync.Mutex
	kv    KV
	key   string
	now   func() time.Time
	items []Template
}

type Option func(*Store)

// WithKey overrides DefaultKey.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithClock replaces time.Now as the id source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(kv KV, opts ...Option) *Store {
	s := &Store{kv: kv, key: DefaultKey, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize reads the persisted collection. Missing data yields an empty
// collection; unreadable or malformed data is logged and also yields an
// empty collection.
func (s *Store) Initialize() []Template {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil

	data, err := s.kv.Get(s.key)
	switch {
	case errors.Is(err, ErrNoValue):
		return nil
	case err != nil:
		logger.LogError("Template storage unreadable, starting empty: %v", err)
		return nil
	}

	items, err := decode(data)
	if err != nil {
		logger.LogWarn("Discarding stored templates: %v", err)
		return nil
	}
	s.items = items
	return clone(items)
}

// List returns the templates in insertion order.
func (s *Store) List() []Template {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.items)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) Get(id int64) (Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.index(id); i >= 0 {
		return s.items[i], nil
	}
	return Template{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
}

// Load returns the settings of template id. It never mutates the store.
func (s *Store) Load(id int64) (watermark.RenderParams, error) {
	t, err := s.Get(id)
	if err != nil {
		return watermark.RenderParams{}, err
	}
	return t.Settings, nil
}

// Save appends a snapshot of params. The name is trimmed and a blank name
// becomes "Template N" where N is the count after saving.
func (s *Store) Save(name string, params watermark.RenderParams) (Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) >= MaxTemplates {
		return Template{}, fmt.Errorf("%w: %d of %d slots used", ErrCapacity, len(s.items), MaxTemplates)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = fmt.Sprintf("Template %d", len(s.items)+1)
	}

	t := Template{ID: s.nextID(), Name: name, Settings: params}
	next := append(clone(s.items), t)
	if err := s.persist(next); err != nil {
		return Template{}, err
	}
	s.items = next
	return t, nil
}

// Delete removes template id. Deleting an unknown id is a no-op.
func (s *Store) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return nil
	}
	next := make([]Template, 0, len(s.items)-1)
	next = append(next, s.items[:i]...)
	next = append(next, s.items[i+1:]...)
	if err := s.persist(next); err != nil {
		return err
	}
	s.items = next
	return nil
}

// Reset clears the collection and persists the empty snapshot.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist([]Template{}); err != nil {
		return err
	}
	s.items = nil
	return nil
}

func (s *Store) index(id int64) int {
	for i, t := range s.items {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// nextID is the current Unix millisecond, bumped past the highest existing
// id so ids stay unique when the clock stalls or goes back.
func (s *Store) nextID() int64 {
	id := s.now().UnixMilli()
	for _, t := range s.items {
		if t.ID >= id {
			id = t.ID + 1
		}
	}
	return id
}

func (s *Store) persist(items []Template) error {
	data, err := json.Marshal(envelope{Version: formatVersion, Templates: items})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	if err := s.kv.Put(s.key, data); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

// decode accepts the versioned envelope and the bare array written by
// earlier releases.
func decode(data []byte) ([]Template, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty value", errCorrupt)
	}

	var items []Template
	if data[0] == '[' {
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("%w: %v", errCorrupt, err)
		}
	} else {
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("%w: %v", errCorrupt, err)
		}
		if env.Version != formatVersion {
			return nil, fmt.Errorf("%w: unsupported version %d", errCorrupt, env.Version)
		}
		items = env.Templates
	}

	if len(items) > MaxTemplates {
		return nil, fmt.Errorf("%w: %d entries exceed limit of %d", errCorrupt, len(items), MaxTemplates)
	}
	seen := make(map[int64]bool, len(items))
	for _, t := range items {
		if seen[t.ID] {
			return nil, fmt.Errorf("%w: duplicate id %d", errCorrupt, t.ID)
		}
		seen[t.ID] = true
	}
	if len(items) == 0 {
		return nil, nil
	}
	return items, nil
}

func clone(items []Template) []Template {
	if len(items) == 0 {
		return nil
	}
	out := make([]Template, len(items))
	copy(out, items)
	return out
}
