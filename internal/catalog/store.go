package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"subsidyopt/internal/logger"
	sentryutil "subsidyopt/internal/sentry"
	"sync"
	"sync/atomic"
	"time"
)

// Store holds the active catalog. Readers get a consistent *Catalog without
// locking; reloads and admin updates swap the whole value.
type Store struct {
	cur     atomic.Pointer[Catalog]
	path    string
	mu      sync.Mutex // serializes writers
	modTime time.Time

	// OnSwap, when set, is called after every successful swap.
	OnSwap func(*Catalog)
}

// NewStore loads path with builtin fallback and returns a store serving it.
func NewStore(path string) *Store {
	s := &Store{path: path}
	c, err := Load(path, nil)
	if err != nil {
		logger.Warn("catalog: external file not used, serving builtin", map[string]interface{}{
			"path": path, "error": err.Error(),
		})
	} else if c.IsExternal() {
		s.modTime = fileModTime(path)
	}
	s.swap(c)
	return s
}

// NewStoreWith returns a store serving c, bound to path for reloads and updates.
func NewStoreWith(c *Catalog, path string) *Store {
	s := &Store{path: path}
	s.swap(c)
	return s
}

// Current returns the active catalog.
func (s *Store) Current() *Catalog { return s.cur.Load() }

// Path is the external catalog file this store reloads from.
func (s *Store) Path() string { return s.path }

func (s *Store) swap(c *Catalog) {
	s.cur.Store(c)
	audit(c)
	logger.Info("catalog: active", map[string]interface{}{
		"version": c.Version(), "count": c.Len(), "external": c.IsExternal(),
	})
	if s.OnSwap != nil {
		s.OnSwap(c)
	}
}

// audit reports calculation faults once per loaded catalog.
func audit(c *Catalog) {
	for _, f := range c.Audit() {
		logger.Warn("catalog: calculation fault", map[string]interface{}{
			"version": c.Version(), "subsidy_id": f.SubsidyID, "type": f.Type, "error": f.Error,
		})
		sentryutil.CaptureMessage("catalog calculation fault: "+f.Error, sentryutil.LevelWarning(), map[string]string{
			"subsidy_id": f.SubsidyID, "catalog_version": c.Version(),
		})
	}
}

// Reload re-reads the external file. On failure the current catalog stays active.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reloadLocked()
}

func (s *Store) reloadLocked() error {
	c, err := LoadFile(s.path)
	if err != nil {
		return err
	}
	s.modTime = fileModTime(s.path)
	s.swap(c)
	return nil
}

// Replace validates data, backs up the current external file into backupDir,
// writes data to the store's path and activates it.
func (s *Store) Replace(data []byte, backupDir string) (*Catalog, error) {
	if _, err := Parse(data); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, err := os.ReadFile(s.path); err == nil && backupDir != "" {
		if err := os.MkdirAll(backupDir, 0o755); err != nil {
			return nil, fmt.Errorf("create backup dir: %w", err)
		}
		name := fmt.Sprintf("subsidies-%s.json", time.Now().UTC().Format("20060102T150405.000000000Z"))
		if err := os.WriteFile(filepath.Join(backupDir, name), old, 0o644); err != nil {
			return nil, fmt.Errorf("write backup: %w", err)
		}
	}

	if err := writeAtomic(s.path, data); err != nil {
		return nil, err
	}
	if err := s.reloadLocked(); err != nil {
		return nil, err
	}
	return s.Current(), nil
}

// Watch polls the external file every interval and reloads it when its
// modification time changes. It returns when ctx is done.
func (s *Store) Watch(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		<-ctx.Done()
		return nil
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			s.mu.Lock()
			mt := fileModTime(s.path)
			if !mt.IsZero() && !mt.Equal(s.modTime) {
				if err := s.reloadLocked(); err != nil {
					logger.Warn("catalog: reload failed, keeping current", map[string]interface{}{
						"path": s.path, "error": err.Error(),
					})
					s.modTime = mt
				}
			}
			s.mu.Unlock()
		}
	}
}

func fileModTime(path string) time.Time {
	fi, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return fi.ModTime()
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create catalog dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".catalog-*.json")
	if err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	return nil
}
