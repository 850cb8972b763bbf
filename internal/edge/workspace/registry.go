package workspace

import "sync"

// Registry хранит workspace'ы по идентификатору сессии. Workspace'ы
// живут только в памяти: рестарт шлюза закрывает все вкладки.
type Registry struct {
	mu         sync.Mutex
	workspaces map[string]*Workspace
}

func NewRegistry() *Registry {
	return &Registry{
		workspaces: make(map[string]*Workspace),
	}
}

func (r *Registry) Get(sessionID string) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()

	ws, ok := r.workspaces[sessionID]
	if !ok {
		ws = New()
		r.workspaces[sessionID] = ws
	}
	return ws
}

// Drop выбрасывает workspace сессии (используется при logout).
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	delete(r.workspaces, sessionID)
	r.mu.Unlock()
}
