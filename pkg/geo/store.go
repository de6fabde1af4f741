package geo

import "sync"

// Store is an in-memory location cache. Map instances share one through a
// [SharedStore].
type Store struct {
	mu        sync.RWMutex
	locations map[string]Location
}

func newStore() *Store {
	return &Store{locations: make(map[string]Location)}
}

// Get returns the cached location of place.
func (s *Store) Get(place string, placeType PlaceType) (Location, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.locations[storeKey(place, placeType)]
	return l, ok
}

// Put records the location of place. Unknown locations are recorded too.
func (s *Store) Put(place string, placeType PlaceType, l Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations[storeKey(place, placeType)] = l
}

// Len returns the number of cached places.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.locations)
}

// SharedStore hands one [Store] to every holder of a reference. The store
// is created by the first Acquire and dropped by the last Release. Hosts
// own a SharedStore and pass it to the map visuals they construct.
type SharedStore struct {
	mu    sync.Mutex
	store *Store
	refs  int
}

// NewSharedStore returns a shared store with no references.
func NewSharedStore() *SharedStore { return &SharedStore{} }

// Acquire returns the store, creating it on first use. Every call must be
// paired with [SharedStore.Release].
func (s *SharedStore) Acquire() *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		s.store = newStore()
	}
	s.refs++
	return s.store
}

// Release drops one reference. The store is discarded with the last one.
func (s *SharedStore) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.refs == 0 {
		return
	}
	s.refs--
	if s.refs == 0 {
		s.store = nil
	}
}

// References returns the number of outstanding Acquire calls.
func (s *SharedStore) References() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refs
}
