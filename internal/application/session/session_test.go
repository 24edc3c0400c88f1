package session_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Ventas-api/internal/application/session"
	"github.com/jhoicas/Ventas-api/internal/domain"
)

func TestSession_Require(t *testing.T) {
	assert.True(t, errors.Is(session.Session{}.Require(), domain.ErrUnauthorized))
	assert.NoError(t, session.Session{UserID: "u1"}.Require())
}

func TestHub_SubscribeYUnsubscribe(t *testing.T) {
	hub := session.NewHub()
	var got []session.EventType
	unsubscribe := hub.Subscribe(func(e session.Event) { got = append(got, e.Type) })

	hub.Publish(session.Event{Type: session.EventSignedIn, UserID: "u1"})
	unsubscribe()
	unsubscribe()
	hub.Publish(session.Event{Type: session.EventSignedOut, UserID: "u1"})

	assert.Equal(t, []session.EventType{session.EventSignedIn}, got)
}
