package wizard

import "sync"

// Manager keeps one in-flight wizard per authenticated user. Instances are
// created on first access and dropped after a successful submission.
type Manager struct {
	mu     sync.Mutex
	active map[string]*Wizard
}

func NewManager() *Manager {
	return &Manager{active: make(map[string]*Wizard)}
}

func (m *Manager) Get(uid string) *Wizard {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.active[uid]
	if !ok {
		w = New()
		m.active[uid] = w
	}
	return w
}

func (m *Manager) Remove(uid string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.active, uid)
}
