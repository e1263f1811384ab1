package handlers

import (
	"net/http"
	"time"

	"github.com/careplane/hospital-records/internal/auth"
	"github.com/careplane/hospital-records/internal/services"
	"github.com/careplane/hospital-records/internal/session"
	"github.com/rs/zerolog/log"
)

// AuthHandler brokers the OpenID Connect login flow: redirect out, exchange
// the code on the way back, and keep the provider token in a server-side
// session keyed by the browser cookie.
type AuthHandler struct {
	client   *auth.Client
	sessions session.Store
	registry *services.RegistryService
	ttl      time.Duration
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(client *auth.Client, sessions session.Store, registry *services.RegistryService, ttl time.Duration) *AuthHandler {
	return &AuthHandler{
		client:   client,
		sessions: sessions,
		registry: registry,
		ttl:      ttl,
	}
}

// Index starts the login flow: stores a state nonce in the session and
// redirects to the provider's authorization endpoint
func (h *AuthHandler) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sid, sess, err := session.FromRequest(ctx, h.sessions, r)
	if err != nil {
		sid = session.NewID()
		sess = &session.Session{}
	}

	state := session.NewID()
	sess.State = state
	if err := h.sessions.Set(ctx, sid, sess, h.ttl); err != nil {
		log.Error().Err(err).Msg("Failed to store session")
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	session.SetCookie(w, sid, h.ttl)
	http.Redirect(w, r, h.client.AuthCodeURL(state), http.StatusFound)
}

// Callback finishes the login flow: verifies the state nonce, exchanges the
// authorization code for a token, reconciles the identity's email claim to an
// account, and stores the token in the session before redirecting to /login.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sid, sess, err := session.FromRequest(ctx, h.sessions, r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "login flow not initiated")
		return
	}

	state := r.URL.Query().Get("state")
	if state == "" || state != sess.State {
		respondError(w, http.StatusBadRequest, "state mismatch")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		respondError(w, http.StatusBadRequest, "missing authorization code")
		return
	}

	token, err := h.client.Exchange(ctx, code)
	if err != nil {
		log.Warn().Err(err).Msg("Token exchange failed")
		respondError(w, http.StatusBadGateway, "authentication provider rejected the login")
		return
	}

	info, err := h.client.Userinfo(ctx, token.AccessToken)
	if err != nil {
		log.Warn().Err(err).Msg("Userinfo fetch failed")
		respondError(w, http.StatusBadGateway, "authentication provider rejected the login")
		return
	}

	next := &session.Session{Token: token, Email: info.Email}
	if info.Email != "" {
		account, err := h.registry.ReconcileIdentity(ctx, info.Email, info.Name)
		if err != nil {
			log.Error().Err(err).Msg("Failed to reconcile identity")
			respondError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		next.AccountID = account.ID
	}

	if err := h.sessions.Set(ctx, sid, next, h.ttl); err != nil {
		log.Error().Err(err).Msg("Failed to store session")
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	session.SetCookie(w, sid, h.ttl)
	http.Redirect(w, r, "/login", http.StatusFound)
}

// Login requires an authenticated session and returns its token; anonymous
// callers are sent back to the start of the flow
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	_, sess, err := session.FromRequest(r.Context(), h.sessions, r)
	if err != nil || !sess.Authenticated() {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	respondJSON(w, http.StatusOK, sess.Token)
}

// Logout clears the session and redirects to the provider's logout endpoint
// with a return URL pointing back at the login start
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if sid, _, _ := session.FromRequest(ctx, h.sessions, r); sid != "" {
		if err := h.sessions.Delete(ctx, sid); err != nil {
			log.Warn().Err(err).Msg("Failed to delete session")
		}
	}
	session.ClearCookie(w)

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	returnTo := scheme + "://" + r.Host + "/"

	http.Redirect(w, r, h.client.LogoutURL(returnTo), http.StatusFound)
}
