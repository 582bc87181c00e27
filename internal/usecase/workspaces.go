package usecase

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/winsnap/internal/domain"
)

// Workspaces owns the snapshot store and its in-memory index.
// Disk is written first; the index only changes after the store succeeds.
type Workspaces struct {
	mu     sync.RWMutex
	store  domain.SnapshotStore
	index  map[string]domain.Snapshot
	logger *zap.Logger
}

// NewWorkspaces creates an empty index over store.
func NewWorkspaces(store domain.SnapshotStore, logger *zap.Logger) *Workspaces {
	return &Workspaces{
		store:  store,
		index:  make(map[string]domain.Snapshot),
		logger: logger,
	}
}

// Load bulk-inserts every snapshot the store can parse.
func (w *Workspaces) Load() error {
	all, err := w.store.LoadAll()
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for name, snap := range all {
		w.index[name] = snap
	}
	w.logger.Debug("snapshots loaded", zap.Int("count", len(all)))
	return nil
}

// Reserve returns base, or base_2, base_3, ... if base is taken in memory or on disk.
func (w *Workspaces) Reserve(base string) string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	name := base
	for n := 2; w.taken(name); n++ {
		name = fmt.Sprintf("%s_%d", base, n)
	}
	return name
}

func (w *Workspaces) taken(name string) bool {
	if _, ok := w.index[name]; ok {
		return true
	}
	return w.store.Exists(name)
}

// Save writes snap and inserts it into the index.
func (w *Workspaces) Save(snap domain.Snapshot) error {
	if err := w.store.Write(snap); err != nil {
		return err
	}

	w.mu.Lock()
	w.index[snap.Name] = snap
	w.mu.Unlock()
	return nil
}

// Delete removes the file, then the index entry. A failed file removal
// leaves the index untouched.
func (w *Workspaces) Delete(name string) error {
	if err := w.store.Delete(name); err != nil {
		return err
	}

	w.mu.Lock()
	delete(w.index, name)
	w.mu.Unlock()
	return nil
}

// Get returns the named snapshot.
func (w *Workspaces) Get(name string) (domain.Snapshot, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	snap, ok := w.index[name]
	if !ok {
		return domain.Snapshot{}, fmt.Errorf("%w: %s", domain.ErrSnapshotNotFound, name)
	}
	return snap, nil
}

// Len returns the number of indexed snapshots.
func (w *Workspaces) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.index)
}

// Names returns indexed names in lexical order.
func (w *Workspaces) Names() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	names := make([]string, 0, len(w.index))
	for n := range w.index {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// List returns the snapshots matching f, newest first.
func (w *Workspaces) List(f Filter) []domain.Snapshot {
	w.mu.RLock()
	all := make([]domain.Snapshot, 0, len(w.index))
	for _, s := range w.index {
		all = append(all, s)
	}
	w.mu.RUnlock()

	return f.Apply(all)
}
