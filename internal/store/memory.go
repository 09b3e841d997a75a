package store

import (
	"sync"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// MemoryStore holds per-session chat state for the life of the process.
// Nothing here survives a restart; that is intentional.
type MemoryStore struct {
	mu          sync.RWMutex
	sessions    map[string][]Message
	maxMessages int
	// Saved profile per session, replaced wholesale on each save
	profileBySession map[string]map[string]any
	// Whether the session already used (or dismissed) the quick-start samples
	quickUsedBySession map[string]bool
}

func NewMemoryStore(maxMessages int) *MemoryStore {
	return &MemoryStore{
		sessions:           make(map[string][]Message),
		maxMessages:        maxMessages,
		profileBySession:   make(map[string]map[string]any),
		quickUsedBySession: make(map[string]bool),
	}
}

func (m *MemoryStore) Append(sessionID string, msg Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sessionID] = append(m.sessions[sessionID], msg)
	m.trimLocked(sessionID)
}

func (m *MemoryStore) Get(sessionID string) []Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	msgs := m.sessions[sessionID]
	copyMsgs := make([]Message, len(msgs))
	copy(copyMsgs, msgs)
	return copyMsgs
}

// Reset clears the transcript but keeps the saved profile.
func (m *MemoryStore) Reset(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	delete(m.quickUsedBySession, sessionID)
}

func (m *MemoryStore) trimLocked(sessionID string) {
	if m.maxMessages <= 0 {
		return
	}
	msgs := m.sessions[sessionID]
	if len(msgs) > m.maxMessages {
		m.sessions[sessionID] = msgs[len(msgs)-m.maxMessages:]
	}
}

// SetProfile stores a copy of the built profile for the session, replacing
// any previous one.
func (m *MemoryStore) SetProfile(sessionID string, profile map[string]any) {
	copyProf := make(map[string]any, len(profile))
	for k, v := range profile {
		copyProf[k] = v
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profileBySession[sessionID] = copyProf
}

// GetProfile returns a copy of the session's saved profile; empty when none
// was saved.
func (m *MemoryStore) GetProfile(sessionID string) map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	prof := m.profileBySession[sessionID]
	copyProf := make(map[string]any, len(prof))
	for k, v := range prof {
		copyProf[k] = v
	}
	return copyProf
}

func (m *MemoryStore) MarkQuickStartUsed(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quickUsedBySession[sessionID] = true
}

func (m *MemoryStore) QuickStartUsed(sessionID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.quickUsedBySession[sessionID]
}
