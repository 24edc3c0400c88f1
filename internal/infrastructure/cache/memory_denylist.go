package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/Ventas-api/internal/application/ports"
)

var _ ports.TokenDenylist = (*MemoryDenylist)(nil)

// MemoryDenylist lista de revocados en memoria de proceso. Se pierde al reiniciar.
type MemoryDenylist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

// NewMemoryDenylist construye una lista vacía.
func NewMemoryDenylist() *MemoryDenylist {
	return &MemoryDenylist{revoked: make(map[string]time.Time), now: time.Now}
}

func (m *MemoryDenylist) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	if !expiresAt.After(now) {
		return nil
	}
	m.revoked[tokenID] = expiresAt
	// Limpieza perezosa de entradas vencidas.
	for id, exp := range m.revoked {
		if !exp.After(now) {
			delete(m.revoked, id)
		}
	}
	return nil
}

func (m *MemoryDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	exp, ok := m.revoked[tokenID]
	if !ok {
		return false, nil
	}
	if !exp.After(m.now()) {
		delete(m.revoked, tokenID)
		return false, nil
	}
	return true, nil
}
