// Package session modela la sesión autenticada que recibe cada caso de uso y el
// hub de eventos de autenticación (alta, ingreso, salida).
package session

import (
	"sync"
	"time"

	"github.com/jhoicas/Ventas-api/internal/domain"
)

// Session identidad del usuario autenticado. Se construye en el middleware a partir
// del JWT y se pasa explícitamente; no hay sesión global.
type Session struct {
	UserID    string
	Email     string
	TokenID   string // jti del JWT, usado para revocarlo al cerrar sesión
	ExpiresAt time.Time
}

// OwnerID dueño con el que se acotan todas las consultas.
func (s Session) OwnerID() string { return s.UserID }

// Require devuelve domain.ErrUnauthorized si la sesión está vacía.
func (s Session) Require() error {
	if s.UserID == "" {
		return domain.ErrUnauthorized
	}
	return nil
}

// EventType tipo de evento de autenticación.
type EventType string

const (
	EventSignedUp  EventType = "signed_up"
	EventSignedIn  EventType = "signed_in"
	EventSignedOut EventType = "signed_out"
)

// Event cambio de estado de autenticación.
type Event struct {
	Type   EventType
	UserID string
	Email  string
	At     time.Time
}

// Listener recibe eventos publicados en el Hub.
type Listener func(Event)

// Hub distribuye eventos de autenticación a los suscriptores.
type Hub struct {
	mu        sync.RWMutex
	nextID    int
	listeners map[int]Listener
}

// NewHub construye un hub sin suscriptores.
func NewHub() *Hub {
	return &Hub{listeners: make(map[int]Listener)}
}

// Subscribe registra l y devuelve la función que lo da de baja. Llamarla más de una vez no tiene efecto.
func (h *Hub) Subscribe(l Listener) (unsubscribe func()) {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = l
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.listeners, id)
			h.mu.Unlock()
		})
	}
}

// Publish entrega e a todos los suscriptores activos, en el goroutine del llamador.
func (h *Hub) Publish(e Event) {
	if h == nil {
		return
	}
	h.mu.RLock()
	ls := make([]Listener, 0, len(h.listeners))
	for _, l := range h.listeners {
		ls = append(ls, l)
	}
	h.mu.RUnlock()
	for _, l := range ls {
		l(e)
	}
}
