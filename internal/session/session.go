package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/careplane/hospital-records/internal/auth"
	"github.com/google/uuid"
)

// CookieName is the browser cookie carrying the session id
const CookieName = "hospital_session"

// ErrNotFound is returned when a session id has no stored state (never
// created, expired, or cleared).
var ErrNotFound = errors.New("session not found")

// Session is the server-side state keyed by the browser cookie. State holds
// the OAuth state nonce between the authorize redirect and the callback;
// Token and AccountID are set once the code exchange succeeds.
type Session struct {
	State     string      `json:"state,omitempty"`
	Token     *auth.Token `json:"token,omitempty"`
	AccountID uint        `json:"account_id,omitempty"`
	Email     string      `json:"email,omitempty"`
}

// Authenticated reports whether the session holds a provider token
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != nil
}

// Store defines the session store interface
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Set(ctx context.Context, id string, sess *Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	Close() error
}

// NewID generates a fresh session id
func NewID() string {
	return uuid.NewString()
}

// FromRequest loads the session referenced by the request's cookie. A missing
// cookie or an unknown id both come back as ErrNotFound.
func FromRequest(ctx context.Context, store Store, r *http.Request) (string, *Session, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", nil, ErrNotFound
	}
	sess, err := store.Get(ctx, cookie.Value)
	if err != nil {
		return cookie.Value, nil, err
	}
	return cookie.Value, sess, nil
}

// SetCookie writes the session cookie on the response
func SetCookie(w http.ResponseWriter, id string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie on the response
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
