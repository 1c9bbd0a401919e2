// Package session owns the client session lifecycle.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/explooosion/catalog-console/internal/credstore"
	"github.com/explooosion/catalog-console/internal/models"
	"go.uber.org/zap"
)

// ErrNotAuthenticated is returned for operations that need a session while
// the client is anonymous. No network call has been made.
var ErrNotAuthenticated = errors.New("not authenticated")

// AuthAPI is the interface that wraps the remote authentication endpoints.
type AuthAPI interface {
	// Method Login submits credentials to the remote service.
	//
	// On success it returns the issued token and the account role. A
	// rejection (bad credentials, token-less response) or a transport
	// failure is returned as an error with empty token and role.
	Login(ctx context.Context, username, password string) (string, models.Role, error)
	// Method Refresh exchanges the current token for a fresh one.
	//
	// On failure the old token is still the caller's to keep; refresh never
	// invalidates anything on its own.
	Refresh(ctx context.Context, token string) (string, error)
}

// Manager is the single in-memory source of truth for the session. Every
// state transition is mirrored into the credential store so a restarted
// process can pick up where it left off.
//
// Manager is not safe for concurrent use; it has one logical owner and each
// update is an atomic replacement of the session value.
type Manager struct {
	api     AuthAPI
	store   credstore.Store
	logger  *zap.Logger
	current models.Session
}

// NewManager creates a new session manager
func NewManager(api AuthAPI, store credstore.Store, logger *zap.Logger) *Manager {
	return &Manager{
		api:    api,
		store:  store,
		logger: logger,
	}
}

// Current returns a snapshot of the session
func (m *Manager) Current() models.Session {
	return m.current
}

// Restore loads a persisted session from the credential store. The session
// becomes authenticated only when both token and username are present; role
// is optional. Called once at process start.
func (m *Manager) Restore() error {
	token, hasToken, err := m.store.Get(credstore.KeyToken)
	if err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}
	username, hasUsername, err := m.store.Get(credstore.KeyUsername)
	if err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}
	role, _, err := m.store.Get(credstore.KeyRole)
	if err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}

	if !hasToken || !hasUsername || token == "" || username == "" {
		m.current = models.Session{}
		return nil
	}

	m.current = models.Session{Token: token, Username: username, Role: models.Role(role)}
	m.logger.Info("session restored", zap.String("username", username))
	return nil
}

// Login authenticates against the remote service. On success the session is
// replaced wholesale and all three credential keys are written. On any
// failure the session stays as it was; the attempt is terminal and the caller
// may retry manually.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	token, role, err := m.api.Login(ctx, username, password)
	if err != nil {
		m.logger.Info("login failed", zap.String("username", username), zap.Error(err))
		return err
	}

	m.current = models.Session{
		Token:    token,
		Username: username,
		Role:     role,
	}

	if err := m.persist(); err != nil {
		return err
	}

	m.logger.Info("logged in", zap.String("username", username), zap.String("role", string(role)))
	return nil
}

// Logout unconditionally drops the session and clears the credential store.
// It always succeeds and issues no network call.
func (m *Manager) Logout() {
	m.current = models.Session{}

	for _, key := range []string{credstore.KeyToken, credstore.KeyUsername, credstore.KeyRole} {
		if err := m.store.Remove(key); err != nil {
			m.logger.Warn("failed to clear credential", zap.String("key", key), zap.Error(err))
		}
	}

	m.logger.Info("logged out")
}

// Refresh replaces the session token with a fresh one. It fails locally when
// anonymous. On a remote failure the session is left untouched; the existing
// token stays usable until the server itself rejects it.
func (m *Manager) Refresh(ctx context.Context) error {
	if !m.current.Authenticated() {
		return ErrNotAuthenticated
	}

	token, err := m.api.Refresh(ctx, m.current.Token)
	if err != nil {
		m.logger.Info("token refresh failed", zap.Error(err))
		return err
	}

	m.current.Token = token
	if err := m.store.Set(credstore.KeyToken, token); err != nil {
		return fmt.Errorf("failed to persist refreshed token: %w", err)
	}

	m.logger.Info("token refreshed", zap.String("username", m.current.Username))
	return nil
}

// persist mirrors the full session into the credential store
func (m *Manager) persist() error {
	if err := m.store.Set(credstore.KeyToken, m.current.Token); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}
	if err := m.store.Set(credstore.KeyUsername, m.current.Username); err != nil {
		return fmt.Errorf("failed to persist username: %w", err)
	}
	if err := m.store.Set(credstore.KeyRole, string(m.current.Role)); err != nil {
		return fmt.Errorf("failed to persist role: %w", err)
	}
	return nil
}
