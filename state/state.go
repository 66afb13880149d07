package state

import (
	"catalog/console"
	"sort"
	"sync"
)

// EditSessions holds the open inline-edit sessions of the admin console, one per product.
type EditSessions struct {
	sessions map[uint]*console.Session
	sync.RWMutex
}

func NewEditSessions() *EditSessions {
	return &EditSessions{sessions: make(map[uint]*console.Session)}
}

// Get fetches the session for a product
func (s *EditSessions) Get(id uint) (*console.Session, bool) {
	s.RLock()
	defer s.RUnlock()
	session, exists := s.sessions[id]
	return session, exists
}

// Put adds or replaces the session for a product
func (s *EditSessions) Put(id uint, session *console.Session) {
	s.Lock()
	defer s.Unlock()
	s.sessions[id] = session
}

// Remove drops a session, reporting whether it still had unsaved changes.
func (s *EditSessions) Remove(id uint) (hadPending bool) {
	s.Lock()
	defer s.Unlock()
	session, exists := s.sessions[id]
	if !exists {
		return false
	}
	delete(s.sessions, id)
	return session.HasPending()
}

// WithPending lists the product ids whose sessions have unsaved changes.
func (s *EditSessions) WithPending() []uint {
	s.RLock()
	defer s.RUnlock()
	var ids []uint
	for id, session := range s.sessions {
		if session.HasPending() {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
