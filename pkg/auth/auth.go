package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"product-console/pkg/config"
	"product-console/pkg/store"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrLoginFailed  = errors.New("login failed")
	ErrInvalidToken = errors.New("invalid session token")
)

// sessionKey is the gin context key the guard stores the session under
const sessionKey = "session"

// Claims represents the session cookie claims. The JWT ID is the session ID.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Authenticator exchanges credentials for an API token
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// SessionStore persists sessions
type SessionStore interface {
	GetSession(id string) (store.Session, error)
	PutSession(sess store.Session) error
	DeleteSession(id string) error
}

// Auth owns session state: it logs in against the remote API, persists the
// returned token and answers whether a request is authenticated.
type Auth struct {
	config   *config.SessionConfig
	client   Authenticator
	sessions SessionStore
	log      logrus.FieldLogger

	mu       sync.RWMutex
	onLogout []func(sessionID string)
}

// New creates a new Auth instance
func New(cfg *config.SessionConfig, client Authenticator, sessions SessionStore, log logrus.FieldLogger) *Auth {
	return &Auth{
		config:   cfg,
		client:   client,
		sessions: sessions,
		log:      log,
	}
}

// OnLogout registers fn to run with the session ID whenever a session ends
func (a *Auth) OnLogout(fn func(sessionID string)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onLogout = append(a.onLogout, fn)
}

// Login sends credentials to the remote API and persists the returned token
// in a new session. Nothing is persisted on failure.
func (a *Auth) Login(ctx context.Context, username, password string) (*store.Session, error) {
	token, err := a.client.Login(ctx, username, password)
	if err != nil {
		a.log.WithError(err).WithField("username", username).Warn("login rejected")
		return nil, fmt.Errorf("%w: %w", ErrLoginFailed, err)
	}

	sess := store.Session{
		ID:        uuid.New().String(),
		Username:  username,
		Token:     token,
		CreatedAt: time.Now(),
	}
	if err := a.sessions.PutSession(sess); err != nil {
		return nil, fmt.Errorf("%w: persist session: %w", ErrLoginFailed, err)
	}

	a.log.WithField("username", username).Info("login succeeded")
	return &sess, nil
}

// HasSession reports whether a session with a non-empty token is persisted for id
func (a *Auth) HasSession(id string) bool {
	sess, err := a.sessions.GetSession(id)
	return err == nil && sess.Token != ""
}

// GenerateToken signs the cookie value for a session
func (a *Auth) GenerateToken(sess *store.Session) (string, error) {
	claims := &Claims{
		Username: sess.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       sess.ID,
			IssuedAt: jwt.NewNumericDate(sess.CreatedAt),
			Subject:  sess.Username,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(a.config.Secret))
}

// ValidateToken validates a cookie value and returns the claims
func (a *Auth) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(a.config.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid && claims.ID != "" {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// SetCookie stores the session cookie for the browser session's lifetime
func (a *Auth) SetCookie(c *gin.Context, sess *store.Session) error {
	value, err := a.GenerateToken(sess)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(a.config.CookieName, value, 0, "/", "", a.config.SecureCookie, true)
	return nil
}

func (a *Auth) clearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(a.config.CookieName, "", -1, "/", "", a.config.SecureCookie, true)
}

// Current returns the persisted session the request's cookie points at
func (a *Auth) Current(c *gin.Context) (store.Session, bool) {
	value, err := c.Cookie(a.config.CookieName)
	if err != nil || value == "" {
		return store.Session{}, false
	}

	claims, err := a.ValidateToken(value)
	if err != nil {
		return store.Session{}, false
	}

	sess, err := a.sessions.GetSession(claims.ID)
	if err != nil || sess.Token == "" {
		return store.Session{}, false
	}
	return sess, true
}

// IsAuthenticated reports whether the request carries a live session
func (a *Auth) IsAuthenticated(c *gin.Context) bool {
	_, ok := a.Current(c)
	return ok
}

// Logout removes the persisted session, clears the cookie and runs the
// logout hooks so per-session state is reset.
func (a *Auth) Logout(c *gin.Context) {
	defer a.clearCookie(c)

	value, err := c.Cookie(a.config.CookieName)
	if err != nil || value == "" {
		return
	}
	claims, err := a.ValidateToken(value)
	if err != nil {
		return
	}

	if err := a.sessions.DeleteSession(claims.ID); err != nil {
		a.log.WithError(err).Error("failed to delete session")
	}

	a.mu.RLock()
	hooks := append([]func(string){}, a.onLogout...)
	a.mu.RUnlock()
	for _, fn := range hooks {
		fn(claims.ID)
	}

	a.log.WithField("username", claims.Username).Info("logged out")
}

// Guard redirects unauthenticated requests to /login. Authenticated requests
// continue with the session available through SessionFrom.
func (a *Auth) Guard() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := a.Current(c)
		if !ok {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}

		c.Set(sessionKey, sess)
		c.Next()
	}
}

// SessionFrom returns the session the guard attached to c
func SessionFrom(c *gin.Context) (store.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return store.Session{}, false
	}
	sess, ok := v.(store.Session)
	return sess, ok
}
