package state

import (
	"sync"

	"github.com/PaulDelamare/FoudViseur/internal/domain"
)

// User states constants
const (
	None              = "none"
	WaitingForSearch  = "waiting_for_search"
	WaitingForBarcode = "waiting_for_barcode"
)

// StateManager keeps the per-user conversation state.
type StateManager interface {
	SetUserState(userID int64, state string)
	GetUserState(userID int64) string
	ClearUserState(userID int64)

	AddPending(userID int64, foods ...domain.PendingFood)
	Pending(userID int64) []domain.PendingFood
	RemovePending(userID int64, id string) bool
	ClearPending(userID int64)

	SetResults(userID int64, entries []domain.FoodEntry)
	Result(userID int64, index int) (domain.FoodEntry, bool)
}

// Manager manages user states, the meal being composed and the last
// search results in memory.
type Manager struct {
	userStates map[int64]string
	pending    map[int64][]domain.PendingFood
	results    map[int64][]domain.FoodEntry
	mu         sync.RWMutex
}

// NewManager creates a new state manager
func NewManager() *Manager {
	return &Manager{
		userStates: make(map[int64]string),
		pending:    make(map[int64][]domain.PendingFood),
		results:    make(map[int64][]domain.FoodEntry),
	}
}

var _ StateManager = (*Manager)(nil)

// SetUserState sets the state for a user
func (m *Manager) SetUserState(userID int64, state string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.userStates[userID] = state
}

// GetUserState gets the state for a user
func (m *Manager) GetUserState(userID int64) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	state, exists := m.userStates[userID]
	if !exists {
		return None
	}
	return state
}

// ClearUserState clears the state for a user
func (m *Manager) ClearUserState(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.userStates, userID)
}

// AddPending appends foods to the user's selection.
func (m *Manager) AddPending(userID int64, foods ...domain.PendingFood) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending[userID] = append(m.pending[userID], foods...)
}

// Pending returns a copy of the user's selection in insertion order.
func (m *Manager) Pending(userID int64) []domain.PendingFood {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.PendingFood, len(m.pending[userID]))
	copy(out, m.pending[userID])
	return out
}

// RemovePending drops one food from the selection.
func (m *Manager) RemovePending(userID int64, id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	foods := m.pending[userID]
	for i, f := range foods {
		if f.ID == id {
			m.pending[userID] = append(foods[:i:i], foods[i+1:]...)
			return true
		}
	}
	return false
}

func (m *Manager) ClearPending(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, userID)
}

// SetResults remembers the hints shown to the user so buttons can refer to
// them by index.
func (m *Manager) SetResults(userID int64, entries []domain.FoodEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[userID] = entries
}

func (m *Manager) Result(userID int64, index int) (domain.FoodEntry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := m.results[userID]
	if index < 0 || index >= len(entries) {
		return domain.FoodEntry{}, false
	}
	return entries[index], true
}
