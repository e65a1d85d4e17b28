// Package session manages the one piece of durable client state: the auth
// token, stored like the storefront's user_token cookie with a one year
// expiry. It also implements the route guard applied around protected pages.
package session

import (
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-faster/errors"
)

// TokenTTL matches the storefront cookie's one-year expiry.
const TokenTTL = 365 * 24 * time.Hour

// TokenStore holds the bearer token between requests. Token returns an
// empty string when no valid token is stored.
type TokenStore interface {
	Token() string
	Set(token string) error
	Clear() error
}

// MemoryTokenStore is an in-memory TokenStore, used in tests and for
// ephemeral sessions.
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
}

func (s *MemoryTokenStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *MemoryTokenStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

// tokenFile is the on-disk shape of a stored token.
type tokenFile struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// FileTokenStore persists the token to a JSON file. Expired tokens read as
// absent; only presence is checked, never signature or server-side validity,
// same as the cookie-based guard.
type FileTokenStore struct {
	mu   sync.Mutex
	path string
}

// NewFileTokenStore creates a store backed by the given file path.
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

func (s *FileTokenStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return ""
	}
	var tf tokenFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return ""
	}
	if tf.Token == "" || time.Now().After(tf.ExpiresAt) {
		return ""
	}
	return tf.Token
}

func (s *FileTokenStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(tokenFile{
		Token:     token,
		ExpiresAt: time.Now().Add(TokenTTL),
	})
	if err != nil {
		return errors.Wrap(err, "marshal token")
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return errors.Wrap(err, "create token dir")
		}
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return errors.Wrap(err, "write token file")
	}
	return nil
}

func (s *FileTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "remove token file")
	}
	return nil
}

// Route guard configuration: routes requiring authentication, and auth
// routes that signed-in users are bounced away from.
var (
	protectedRoutes = []string{"/my-account"}
	authRoutes      = []string{"/login"}
)

// Guard decides whether navigation to path should be redirected, based only
// on token presence. Unauthenticated visits to protected routes go to the
// login page with a redirect-back parameter; authenticated visits to auth
// routes go home. The empty string means proceed.
func Guard(path string, authenticated bool) (redirect string, ok bool) {
	if authenticated && matchesAny(path, authRoutes) {
		return "/", true
	}
	if !authenticated && matchesAny(path, protectedRoutes) {
		return "/login?redirect=" + url.QueryEscape(path), true
	}
	return "", false
}

func matchesAny(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
