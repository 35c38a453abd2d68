package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"

	"github.com/desertthunder/spin/internal/models"
	"github.com/desertthunder/spin/internal/repositories"
	"github.com/desertthunder/spin/internal/shared"
)

// SessionKey is the key-value store key holding the signed-in session.
const SessionKey = "session"

// AuthService signs users in against an OAuth2 token endpoint using the resource owner password grant.
//
// The token is persisted in a [repositories.KVStore] so sessions survive restarts.
type AuthService struct {
	config     *oauth2.Config
	store      repositories.KVStore
	httpClient *http.Client
	logger     *log.Logger
}

// storedSession is the persisted form of a session; [oauth2.Token] drops its extras when marshaled.
type storedSession struct {
	UserID string        `json:"user_id"`
	Email  string        `json:"email"`
	Token  *oauth2.Token `json:"token"`
}

// NewAuthService creates an AuthService from the [auth] config section.
func NewAuthService(cfg shared.AuthConfig, store repositories.KVStore, client *http.Client, logger *log.Logger) *AuthService {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = log.Default()
	}

	return &AuthService{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		store:      store,
		httpClient: client,
		logger:     logger,
	}
}

func (a *AuthService) withClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)
}

// Login exchanges email and password for a token and persists the session.
func (a *AuthService) Login(ctx context.Context, email, password string) (*models.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", shared.ErrMissingCredentials)
	}

	token, err := a.config.PasswordCredentialsToken(a.withClient(ctx), email, password)
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) {
			return nil, fmt.Errorf("%w: %s", shared.ErrInvalidCredentials, re.ErrorDescription)
		}
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	stored := storedSession{UserID: email, Email: email, Token: token}
	if user, ok := token.Extra("user").(map[string]any); ok {
		if id, ok := user["id"].(string); ok && id != "" {
			stored.UserID = id
		}
		if e, ok := user["email"].(string); ok && e != "" {
			stored.Email = e
		}
	}

	if err := a.save(ctx, stored); err != nil {
		return nil, err
	}

	a.logger.Info("signed in", "user", stored.UserID)
	return stored.session(), nil
}

// Session returns the current session, refreshing the token when it has expired.
//
// No stored session wraps [shared.ErrNotAuthenticated]. An expired token that cannot be refreshed wraps
// [shared.ErrTokenExpired]. Anything else from the provider wraps [shared.ErrAuthFailed].
func (a *AuthService) Session(ctx context.Context) (*models.Session, error) {
	stored, ok, err := a.load(ctx)
	if err != nil {
		return nil, err
	}
	if !ok || stored.Token == nil {
		return nil, shared.ErrNotAuthenticated
	}

	if stored.Token.Valid() {
		return stored.session(), nil
	}
	if stored.Token.RefreshToken == "" {
		return nil, fmt.Errorf("%w: %v", shared.ErrTokenExpired, shared.ErrNoRefreshToken)
	}

	fresh, err := a.config.TokenSource(a.withClient(ctx), stored.Token).Token()
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) {
			return nil, fmt.Errorf("%w: %v", shared.ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	if fresh.AccessToken != stored.Token.AccessToken {
		stored.Token = fresh
		if err := a.save(ctx, stored); err != nil {
			return nil, err
		}
		a.logger.Debug("refreshed session", "user", stored.UserID)
	}

	return stored.session(), nil
}

// SignOut removes any stored session. Signing out twice is not an error.
func (a *AuthService) SignOut(ctx context.Context) error {
	if err := a.store.Delete(ctx, SessionKey); err != nil {
		return fmt.Errorf("failed to sign out: %w", err)
	}
	return nil
}

func (a *AuthService) load(ctx context.Context) (storedSession, bool, error) {
	var stored storedSession

	raw, ok, err := a.store.Get(ctx, SessionKey)
	if err != nil || !ok {
		return stored, false, err
	}

	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		a.logger.Warn("discarding unreadable session", "error", err)
		return stored, false, nil
	}
	return stored, true, nil
}

func (a *AuthService) save(ctx context.Context, stored storedSession) error {
	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := a.store.Set(ctx, SessionKey, string(data)); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

func (s storedSession) session() *models.Session {
	return &models.Session{UserID: s.UserID, Email: s.Email, ExpiresAt: s.Token.Expiry}
}
