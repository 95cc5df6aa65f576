package scenario

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"scenario_valuation/pkg/core/driver"
)

var (
	// ErrNotFound reports an unknown scenario id.
	ErrNotFound = errors.New("scenario not found")

	// ErrLastScenario rejects deleting the only remaining scenario; the
	// store never goes empty.
	ErrLastScenario = errors.New("cannot delete the last remaining scenario")
)

// Store is the injectable in-memory scenario collection with an active
// pointer. Single-writer per process; the mutex covers incidental concurrent
// reads (HTTP handlers), not multi-writer coordination.
type Store struct {
	mu        sync.RWMutex
	scenarios map[string]Scenario
	order     []string // insertion order, drives deterministic choices
	activeID  string
}

// NewStore creates a store seeded with the given scenarios, or the built-in
// presets when none are supplied. The first seed becomes active.
func NewStore(seed ...Scenario) *Store {
	if len(seed) == 0 {
		seed = Presets()
	}
	s := &Store{scenarios: make(map[string]Scenario)}
	for _, sc := range seed {
		if sc.ID == "" {
			sc.ID = uuid.NewString()
		}
		if _, dup := s.scenarios[sc.ID]; dup {
			continue
		}
		s.scenarios[sc.ID] = sc
		s.order = append(s.order, sc.ID)
	}
	s.activeID = s.order[0]
	return s
}

// List returns scenarios in insertion order. Values are copies; mutating the
// result never touches the store.
func (s *Store) List() []Scenario {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Scenario, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.scenarios[id])
	}
	return out
}

// Get returns a copy of the scenario with the given id.
func (s *Store) Get(id string) (Scenario, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sc, ok := s.scenarios[id]
	if !ok {
		return Scenario{}, fmt.Errorf("%w: '%s'", ErrNotFound, id)
	}
	return sc, nil
}

// Active returns the currently active scenario.
func (s *Store) Active() Scenario {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scenarios[s.activeID]
}

// SetActive switches the active pointer.
func (s *Store) SetActive(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.scenarios[id]; !ok {
		return fmt.Errorf("%w: '%s'", ErrNotFound, id)
	}
	s.activeID = id
	return nil
}

// Add inserts a scenario, assigning a fresh id when empty, and makes it
// active. Used by import and load paths.
func (s *Store) Add(sc Scenario) (Scenario, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sc.ID == "" {
		sc.ID = uuid.NewString()
	}
	if _, dup := s.scenarios[sc.ID]; dup {
		return Scenario{}, fmt.Errorf("scenario '%s' already exists", sc.ID)
	}
	s.scenarios[sc.ID] = sc
	s.order = append(s.order, sc.ID)
	s.activeID = sc.ID
	return sc, nil
}

// Duplicate copies the scenario by value under a fresh id and a generated
// name, and makes the copy active. DriverSet has no reference fields, so the
// struct copy is a deep copy.
func (s *Store) Duplicate(id string) (Scenario, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	src, ok := s.scenarios[id]
	if !ok {
		return Scenario{}, fmt.Errorf("%w: '%s'", ErrNotFound, id)
	}
	dup := src
	dup.ID = uuid.NewString()
	dup.Name = fmt.Sprintf("Scenario %d", len(s.order)+1)
	s.scenarios[dup.ID] = dup
	s.order = append(s.order, dup.ID)
	s.activeID = dup.ID
	return dup, nil
}

// UpdateDrivers replaces the driver set of a scenario after validation.
func (s *Store) UpdateDrivers(id string, d driver.DriverSet) error {
	if err := d.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.scenarios[id]
	if !ok {
		return fmt.Errorf("%w: '%s'", ErrNotFound, id)
	}
	sc.Drivers = d
	s.scenarios[id] = sc
	return nil
}

// Delete removes a scenario. Deleting the last one fails; deleting the
// active one moves the pointer to the first remaining scenario in insertion
// order.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.scenarios[id]; !ok {
		return fmt.Errorf("%w: '%s'", ErrNotFound, id)
	}
	if len(s.order) == 1 {
		return ErrLastScenario
	}
	delete(s.scenarios, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if s.activeID == id {
		s.activeID = s.order[0]
	}
	return nil
}

// Len reports the number of scenarios.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
