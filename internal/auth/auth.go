package auth

import (
	"context"
	"fmt"
	"sync"

	"github.com/supabase-community/gotrue-go/types"
	"github.com/supabase-community/supabase-go"
)

// Event — переход состояния аутентификации. Имена совпадают с событиями
// supabase-js, чтобы слой представления мог подписываться на привычные.
type Event string

const (
	EventSignedIn  Event = "SIGNED_IN"
	EventSignedOut Event = "SIGNED_OUT"
)

const refreshTokenKey = "fintrack_session_refresh_token"

type User struct {
	ID    string
	Email string
}

type Session struct {
	User         User
	AccessToken  string
	RefreshToken string
}

// TokenStore — локальное хранилище refresh-токена, благодаря которому
// сессия переживает перезапуск процесса (аналог persistSession).
type TokenStore interface {
	Get(key string) string
	Set(key, value string) error
}

// Service — коллаборатор аутентификации поверх GoTrue.
type Service struct {
	client *supabase.Client
	tokens TokenStore

	mu        sync.Mutex
	session   *Session
	listeners []func(Event, *Session)
}

func NewService(client *supabase.Client, tokens TokenStore) *Service {
	return &Service{client: client, tokens: tokens}
}

func sessionFromTypes(ts types.Session) *Session {
	return &Session{
		User: User{
			ID:    ts.User.ID.String(),
			Email: ts.User.Email,
		},
		AccessToken:  ts.AccessToken,
		RefreshToken: ts.RefreshToken,
	}
}

// GetSession возвращает текущую сессию. Если процесс только запустился,
// пытается восстановить её по сохранённому refresh-токену; неудача
// восстановления означает "не аутентифицирован", а не ошибку.
func (s *Service) GetSession(ctx context.Context) (*Session, error) {
	s.mu.Lock()
	current := s.session
	s.mu.Unlock()
	if current != nil {
		return current, nil
	}

	if s.tokens == nil {
		return nil, nil
	}
	stored := s.tokens.Get(refreshTokenKey)
	if stored == "" {
		return nil, nil
	}

	ts, err := s.client.RefreshToken(stored)
	if err != nil {
		// Протухший или отозванный токен: считаем пользователя вышедшим.
		_ = s.tokens.Set(refreshTokenKey, "")
		return nil, nil
	}

	session := sessionFromTypes(ts)
	s.rememberSession(session)
	return session, nil
}

func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	ts, err := s.client.SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, fmt.Errorf("failed to sign in: %w", err)
	}
	s.client.EnableTokenAutoRefresh(ts)

	session := sessionFromTypes(ts)
	s.rememberSession(session)
	s.notify(EventSignedIn, session)
	return session, nil
}

func (s *Service) SignUp(ctx context.Context, email, password string) error {
	_, err := s.client.Auth.Signup(types.SignupRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return fmt.Errorf("failed to sign up: %w", err)
	}
	return nil
}

func (s *Service) SignOut(ctx context.Context) error {
	if err := s.client.Auth.Logout(); err != nil {
		return fmt.Errorf("failed to sign out: %w", err)
	}

	s.mu.Lock()
	s.session = nil
	s.mu.Unlock()
	if s.tokens != nil {
		_ = s.tokens.Set(refreshTokenKey, "")
	}
	s.notify(EventSignedOut, nil)
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, email string) error {
	if err := s.client.Auth.Recover(types.RecoverRequest{Email: email}); err != nil {
		return fmt.Errorf("failed to request password reset: %w", err)
	}
	return nil
}

// OnAuthStateChange регистрирует наблюдателя переходов сессии.
func (s *Service) OnAuthStateChange(fn func(Event, *Session)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *Service) rememberSession(session *Session) {
	s.mu.Lock()
	s.session = session
	s.mu.Unlock()
	if s.tokens != nil && session != nil {
		_ = s.tokens.Set(refreshTokenKey, session.RefreshToken)
	}
}

func (s *Service) notify(event Event, session *Session) {
	s.mu.Lock()
	listeners := make([]func(Event, *Session), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(event, session)
	}
}
