// Package cache keeps small keyed records on disk and expires them lazily on read.
package cache

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"wxballoon/internal/models"
	"wxballoon/pkg/logger"
)

// Stamped is a record that carries its own fetch timestamp.
type Stamped[V any] interface {
	Stamp() time.Time
	WithStamp(time.Time) V
	Validate() error
}

type Status int

const (
	Miss Status = iota
	Expired
	Hit
)

func (s Status) String() string {
	switch s {
	case Hit:
		return "hit"
	case Expired:
		return "expired"
	default:
		return "miss"
	}
}

// Store is not safe for concurrent use.
type Store[K ~string, V Stamped[V]] struct {
	name    string
	path    string
	ttl     time.Duration
	now     func() time.Time
	entries map[K]V
	logger  *logger.Logger
}

type Option func(*options)

type options struct {
	now func() time.Time
}

func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// Load reads path into a new store. Read and decode failures are logged and
// produce an empty store.
func Load[K ~string, V Stamped[V]](name, path string, ttl time.Duration, l *logger.Logger, opts ...Option) *Store[K, V] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Store[K, V]{
		name:    name,
		path:    path,
		ttl:     ttl,
		now:     o.now,
		entries: make(map[K]V),
		logger:  l,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			l.Error(fmt.Errorf("%w: %s: %w", models.ErrCacheLoad, name, err), map[string]any{"path": path})
		}
		return s
	}

	var raw map[K]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		l.Error(fmt.Errorf("%w: %s: %w", models.ErrCacheLoad, name, err), map[string]any{"path": path})
		return s
	}

	for key, msg := range raw {
		v, err := decodeStrict[V](msg)
		if err != nil {
			l.Warning("dropping invalid cache entry", map[string]any{
				"cache": name,
				"key":   string(key),
				"error": err.Error(),
			})
			continue
		}
		s.entries[key] = v
	}

	l.Info("cache loaded", map[string]any{"cache": name, "entries": len(s.entries), "path": path})

	return s
}

func decodeStrict[V Stamped[V]](msg json.RawMessage) (V, error) {
	var v V
	dec := json.NewDecoder(bytes.NewReader(msg))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, err
	}
	return v, v.Validate()
}

// Get reports Expired once for a stale entry and drops it from memory.
func (s *Store[K, V]) Get(key K) (V, Status) {
	v, ok := s.entries[key]
	if !ok {
		var zero V
		return zero, Miss
	}

	if s.now().Sub(v.Stamp()) > s.ttl {
		delete(s.entries, key)
		var zero V
		return zero, Expired
	}

	return v, Hit
}

// Put stamps value with the current time and persists the whole store.
// Persistence failures are logged; the value stays in memory.
func (s *Store[K, V]) Put(key K, value V) V {
	value = value.WithStamp(s.now())
	s.entries[key] = value

	if err := s.Save(); err != nil {
		s.logger.Error(err, map[string]any{"cache": s.name, "path": s.path})
	}

	return value
}

func (s *Store[K, V]) Len() int {
	return len(s.entries)
}

// Save writes every entry, expired ones included, through a temp file rename.
func (s *Store[K, V]) Save() error {
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %s: %w", models.ErrCachePersistence, s.name, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %s: %w", models.ErrCachePersistence, s.name, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %s: %w", models.ErrCachePersistence, s.name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %s: %w", models.ErrCachePersistence, s.name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %s: %w", models.ErrCachePersistence, s.name, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("%w: %s: %w", models.ErrCachePersistence, s.name, err)
	}

	s.logger.Debug("cache saved", map[string]any{"cache": s.name, "entries": len(s.entries)})

	return nil
}
