package usecase

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/eliteGoblin/focusd/winsnap/internal/domain"
)

// ExclusionSource hands out the current exclusion set. Callers get an
// immutable value that stays consistent for a whole enumeration.
type ExclusionSource interface {
	Exclusions() *domain.ExclusionSet
}

// StaticExclusions is an ExclusionSource that never changes.
type StaticExclusions struct {
	Set *domain.ExclusionSet
}

// Exclusions returns the fixed set.
func (s StaticExclusions) Exclusions() *domain.ExclusionSet {
	return s.Set
}

// SettingsService owns the persisted settings. Every mutation is written
// through the store before the in-memory value is swapped.
type SettingsService struct {
	mu         sync.Mutex // serializes writers
	store      domain.SettingsStore
	current    atomic.Pointer[domain.Settings]
	exclusions atomic.Pointer[domain.ExclusionSet]
}

// NewSettingsService creates a service holding defaults until Load is called.
func NewSettingsService(store domain.SettingsStore) *SettingsService {
	s := &SettingsService{store: store}
	s.swap(domain.DefaultSettings())
	return s
}

// Load replaces the in-memory settings with the persisted ones.
func (s *SettingsService) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.store.Load()
	if err != nil {
		return err
	}
	s.swap(settings)
	return nil
}

func (s *SettingsService) swap(settings domain.Settings) {
	set := domain.NewExclusionSet(settings.ExcludedProcesses...)
	settings.ExcludedProcesses = set.Names()
	s.current.Store(&settings)
	s.exclusions.Store(set)
}

// Current returns a copy of the settings.
func (s *SettingsService) Current() domain.Settings {
	c := *s.current.Load()
	c.ExcludedProcesses = append(make([]string, 0, len(c.ExcludedProcesses)), c.ExcludedProcesses...)
	return c
}

// Exclusions returns the current exclusion set.
func (s *SettingsService) Exclusions() *domain.ExclusionSet {
	return s.exclusions.Load()
}

func (s *SettingsService) update(mutate func(*domain.Settings) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.Current()
	if err := mutate(&next); err != nil {
		return err
	}
	if err := s.store.Save(next); err != nil {
		return err
	}
	s.swap(next)
	return nil
}

// SetNotifications toggles notifications.
func (s *SettingsService) SetNotifications(on bool) error {
	return s.update(func(st *domain.Settings) error {
		st.ShowNotifications = on
		return nil
	})
}

// SetAutoSave toggles the periodic capture.
func (s *SettingsService) SetAutoSave(on bool) error {
	return s.update(func(st *domain.Settings) error {
		st.AutoSaveEnabled = on
		return nil
	})
}

// SetInterval sets the auto-save interval in seconds (30-3600).
func (s *SettingsService) SetInterval(seconds int) error {
	if seconds < domain.MinSaveInterval || seconds > domain.MaxSaveInterval {
		return domain.ErrIntervalOutOfRange
	}
	return s.update(func(st *domain.Settings) error {
		st.SaveInterval = seconds
		return nil
	})
}

// AddExclusion excludes a process name from capture.
func (s *SettingsService) AddExclusion(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.ErrEmptyProcessName
	}
	return s.update(func(st *domain.Settings) error {
		st.ExcludedProcesses = domain.NewExclusionSet(st.ExcludedProcesses...).With(name).Names()
		return nil
	})
}

// RemoveExclusion stops excluding a process name.
func (s *SettingsService) RemoveExclusion(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.ErrEmptyProcessName
	}
	return s.update(func(st *domain.Settings) error {
		st.ExcludedProcesses = domain.NewExclusionSet(st.ExcludedProcesses...).Without(name).Names()
		return nil
	})
}

var (
	_ ExclusionSource = (*SettingsService)(nil)
	_ ExclusionSource = StaticExclusions{}
)
