package services

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"github.com/wadjakorntonsri/linklet-dashboard/pkg/core/domain"
	"github.com/wadjakorntonsri/linklet-dashboard/pkg/ports"
)

var errEmptyToken = errors.New("token is required")

// SessionListener is called synchronously after every login and logout
type SessionListener func(ctx context.Context, s domain.Session)

// SessionService owns the token and the current user. Restore, Login and
// Logout are the only mutators.
type SessionService struct {
	store ports.TokenStore
	api   ports.AuthAPI

	mu        sync.RWMutex
	session   domain.Session
	listeners []SessionListener
}

func NewSessionService(store ports.TokenStore, api ports.AuthAPI) *SessionService {
	return &SessionService{store: store, api: api}
}

// Restore reads the persisted token, if any. The token is trusted as is;
// the server rejects it on first use if it has expired. Listeners are not
// notified since restore runs before anything is mounted.
func (s *SessionService) Restore(ctx context.Context) error {
	token, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}
	s.set(token, userFromToken(token, ""))
	return nil
}

// Authenticate exchanges credentials for a token and logs in with it
func (s *SessionService) Authenticate(ctx context.Context, username, password string) error {
	token, err := s.api.Login(ctx, domain.Credentials{Username: username, Password: password})
	if err != nil {
		return err
	}
	return s.Login(ctx, token, username)
}

func (s *SessionService) Register(ctx context.Context, username, password string) (string, error) {
	return s.api.Register(ctx, domain.Credentials{Username: username, Password: password})
}

// Login persists token, replacing any previous one, and notifies listeners.
func (s *SessionService) Login(ctx context.Context, token, username string) error {
	if token == "" {
		return errEmptyToken
	}
	if err := s.store.Save(ctx, token); err != nil {
		return err
	}
	sess := s.set(token, userFromToken(token, username))
	log.Printf("Login successful for user: %s", sess.User)
	s.notify(ctx, sess)
	return nil
}

// Logout drops the in-memory session even when clearing the slot fails.
func (s *SessionService) Logout(ctx context.Context) error {
	err := s.store.Clear(ctx)
	if err != nil {
		log.Printf("Logout: failed clearing token slot: %v", err)
	}

	s.mu.Lock()
	s.session = domain.Session{Status: domain.Anonymous}
	sess := s.session
	s.mu.Unlock()

	s.notify(ctx, sess)
	return err
}

func (s *SessionService) Subscribe(l SessionListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

func (s *SessionService) Session() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

func (s *SessionService) Status() domain.SessionStatus {
	return s.Session().Status
}

// Token implements ports.TokenProvider
func (s *SessionService) Token() string {
	return s.Session().Token
}

func (s *SessionService) set(token, user string) domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = domain.Session{Token: token, User: user, Status: domain.Authenticated}
	return s.session
}

func (s *SessionService) notify(ctx context.Context, sess domain.Session) {
	s.mu.RLock()
	listeners := make([]SessionListener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()

	for _, l := range listeners {
		l(ctx, sess)
	}
}

// userFromToken reads the subject claim without verifying the signature;
// verification belongs to the server.
func userFromToken(token, fallback string) string {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return fallback
	}
	if claims.Subject == "" {
		return fallback
	}
	return claims.Subject
}
