package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"github.com/mugiwarahub/mugiwara/internal/database"
	"github.com/mugiwarahub/mugiwara/pkg/types"
)

const (
	tokenKey = "session.token"

	// DefaultLifetime is how long a login is trusted before asking again
	DefaultLifetime = 30 * 24 * time.Hour
)

// Store keeps the backend token in the settings table. It implements
// oauth2.TokenSource so the backend client can ask it for credentials.
type Store struct {
	db       *gorm.DB
	lifetime time.Duration
	now      func() time.Time
}

// NewStore creates a session store over db
func NewStore(db *gorm.DB, lifetime time.Duration) *Store {
	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}
	return &Store{db: db, lifetime: lifetime, now: time.Now}
}

// Save stores a freshly issued access token
func (s *Store) Save(accessToken string) (*oauth2.Token, error) {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return nil, errors.New("empty access token")
	}

	tok := &oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		Expiry:      s.now().Add(s.lifetime),
	}

	data, err := json.Marshal(tok)
	if err != nil {
		return nil, fmt.Errorf("failed to encode token: %w", err)
	}
	if err := database.SetSetting(s.db, tokenKey, string(data)); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return tok, nil
}

// Current returns the stored token. An expired token is removed and
// reported as ErrSessionExpired.
func (s *Store) Current() (*oauth2.Token, error) {
	raw, err := database.GetSetting(s.db, tokenKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if raw == "" {
		return nil, types.ErrNotAuthenticated
	}

	var tok oauth2.Token
	if err := json.Unmarshal([]byte(raw), &tok); err != nil || tok.AccessToken == "" {
		_ = database.DeleteSetting(s.db, tokenKey)
		return nil, types.ErrNotAuthenticated
	}

	if !tok.Expiry.IsZero() && !s.now().Before(tok.Expiry) {
		if err := database.DeleteSetting(s.db, tokenKey); err != nil {
			return nil, fmt.Errorf("failed to clear expired session: %w", err)
		}
		return nil, types.ErrSessionExpired
	}

	return &tok, nil
}

// Token implements oauth2.TokenSource
func (s *Store) Token() (*oauth2.Token, error) {
	return s.Current()
}

// LoggedIn reports whether a valid session exists
func (s *Store) LoggedIn() bool {
	_, err := s.Current()
	return err == nil
}

// Logout forgets the token. Logging out without a session is not an error.
func (s *Store) Logout() error {
	return database.DeleteSetting(s.db, tokenKey)
}

var _ oauth2.TokenSource = (*Store)(nil)
