// Package oauth implements the social-login bridge: it starts the
// authorization-code flow with an upstream provider and turns the callback
// into local tokens, handing them to the frontend via redirect.
package oauth

import (
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/launchpool/launchpool-api/pkg/auth"
	"github.com/launchpool/launchpool-api/pkg/domain"
)

const stateTTL = 10 * time.Minute

// Handler handles OAuth start and callback endpoints.
type Handler struct {
	logger      *slog.Logger
	login       *auth.LoginService
	providers   map[domain.Provider]auth.OAuthProvider
	frontendURL string
	stateStore  *StateStore
}

// NewHandler creates an OAuth handler over the given providers.
func NewHandler(logger *slog.Logger, login *auth.LoginService, frontendURL string, providers ...auth.OAuthProvider) *Handler {
	byName := make(map[domain.Provider]auth.OAuthProvider, len(providers))
	for _, p := range providers {
		byName[p.Provider()] = p
	}
	return &Handler{
		logger:      logger,
		login:       login,
		providers:   byName,
		frontendURL: frontendURL,
		stateStore:  NewStateStore(),
	}
}

// StateStore stores OAuth state for CSRF protection.
// In production, use Redis or similar for distributed systems.
type StateStore struct {
	mu     sync.RWMutex
	states map[string]time.Time
}

// NewStateStore creates a new state store.
func NewStateStore() *StateStore {
	s := &StateStore{states: make(map[string]time.Time)}
	go s.cleanup()
	return s
}

func (s *StateStore) Set(state string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state] = time.Now().Add(stateTTL)
}

// Consume removes the state and reports whether it was present and unexpired.
func (s *StateStore) Consume(state string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	expiresAt, ok := s.states[state]
	if !ok {
		return false
	}
	delete(s.states, state)
	return time.Now().Before(expiresAt)
}

func (s *StateStore) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	for range ticker.C {
		s.mu.Lock()
		now := time.Now()
		for key, expiresAt := range s.states {
			if now.After(expiresAt) {
				delete(s.states, key)
			}
		}
		s.mu.Unlock()
	}
}

func generateState() string {
	b := make([]byte, 32)
	rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}

// Start initiates the OAuth flow for a provider.
// GET /oauth/{provider}
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	provider, ok := h.provider(w, r)
	if !ok {
		return
	}

	state := generateState()
	h.stateStore.Set(state)
	http.Redirect(w, r, provider.AuthURL(state), http.StatusFound)
}

// Callback handles the provider redirect, exchanging the code and sending
// the browser to the frontend with fresh tokens.
// GET /oauth/{provider}/callback?code=...&state=...
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	provider, ok := h.provider(w, r)
	if !ok {
		return
	}

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.redirectFailure(w, r, errParam)
		return
	}

	if !h.stateStore.Consume(r.URL.Query().Get("state")) {
		h.redirectFailure(w, r, "invalid_state")
		return
	}

	profile, err := provider.FetchProfile(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		h.logger.Error("oauth profile fetch failed", "provider", provider.Provider(), "error", err)
		h.redirectFailure(w, r, "profile_fetch_failed")
		return
	}
	if profile.Email == "" {
		h.redirectFailure(w, r, "email_not_shared")
		return
	}

	result, err := h.login.HandleSocialLogin(r.Context(), provider.Provider(), *profile)
	if err != nil {
		h.logger.Error("social login failed", "provider", provider.Provider(), "error", err)
		h.redirectFailure(w, r, "authentication_failed")
		return
	}

	params := url.Values{
		"token":        {result.Token},
		"refreshToken": {result.RefreshToken},
	}
	http.Redirect(w, r, h.frontendURL+"/oauth-success?"+params.Encode(), http.StatusFound)
}

func (h *Handler) provider(w http.ResponseWriter, r *http.Request) (auth.OAuthProvider, bool) {
	name, err := domain.ParseProvider(chi.URLParam(r, "provider"))
	if err != nil {
		http.NotFound(w, r)
		return nil, false
	}
	provider, ok := h.providers[name]
	if !ok {
		http.NotFound(w, r)
		return nil, false
	}
	return provider, true
}

func (h *Handler) redirectFailure(w http.ResponseWriter, r *http.Request, reason string) {
	params := url.Values{"error": {reason}}
	http.Redirect(w, r, h.frontendURL+"/oauth-error?"+params.Encode(), http.StatusFound)
}
