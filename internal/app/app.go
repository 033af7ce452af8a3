package app

import (
	"courier/internal/crypto"
	"courier/internal/domain"
)

// App is a connected, authenticated client.
type App struct {
	Keys     *crypto.KeyPair
	Session  domain.SessionService
	Messages domain.MessageService
}

func New(keys *crypto.KeyPair, session domain.SessionService, messages domain.MessageService) *App {
	return &App{
		Keys:     keys,
		Session:  session,
		Messages: messages,
	}
}

// Close ends the session.
func (a *App) Close() error { return a.Session.Close() }
