package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/voicescreen/interviewd/core/auth"
	"github.com/voicescreen/interviewd/core/bank"
	"github.com/voicescreen/interviewd/core/completion"
	"github.com/voicescreen/interviewd/core/interview"
	"github.com/voicescreen/interviewd/core/logger"
	"github.com/voicescreen/interviewd/core/registry"
	"github.com/voicescreen/interviewd/core/token"
	"github.com/voicescreen/interviewd/core/transcript"
	"github.com/voicescreen/interviewd/pkg/clientip"
	"github.com/voicescreen/interviewd/pkg/ratelimiter"
)

// closeDuplicateSession is the close code sent when an identity already has
// a live connection.
const closeDuplicateSession = 4403

type handlers struct {
	log          *slog.Logger
	tokens       *token.Manager
	accounts     *auth.Service
	prefs        auth.PreferenceStore
	orchestrator *interview.Orchestrator
	registry     *registry.Registry
	completer    completion.Completer
	limiter      *ratelimiter.Bucket
	systemPrompt string
	upgrader     websocket.Upgrader
}

func newHandlers(
	log *slog.Logger,
	tokens *token.Manager,
	accounts *auth.Service,
	prefs auth.PreferenceStore,
	orchestrator *interview.Orchestrator,
	reg *registry.Registry,
	completer completion.Completer,
	limiter *ratelimiter.Bucket,
	systemPrompt string,
) *handlers {
	return &handlers{
		log:          log,
		tokens:       tokens,
		accounts:     accounts,
		prefs:        prefs,
		orchestrator: orchestrator,
		registry:     reg,
		completer:    completer,
		limiter:      limiter,
		systemPrompt: systemPrompt,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (h *handlers) routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /auth/signup", h.signup)
	mux.HandleFunc("POST /auth/login", h.login)
	mux.HandleFunc("POST /auth/login/oauth", h.oauthLogin)
	mux.HandleFunc("PUT /auth/reset-password", h.resetPassword)
	mux.HandleFunc("GET /auth/token/refresh", h.refresh)
	mux.HandleFunc("GET /auth/logout", h.logout)
	mux.HandleFunc("POST /auth/deactivate", h.deactivate)
	mux.HandleFunc("GET /user/profile", h.profile)
	mux.HandleFunc("GET /user/preference", h.getPreference)
	mux.HandleFunc("PUT /user/preference", h.savePreference)
	mux.HandleFunc("GET /chat", h.chat)
	mux.HandleFunc("GET /chat/text", h.chatText)
}

type signupRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (h *handlers) signup(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r) {
		return
	}
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Username == "" || len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "email, username and a password of at least 8 characters are required")
		return
	}

	u, err := h.accounts.Signup(r.Context(), req.Email, req.Username, req.Name, req.Password)
	switch {
	case errors.Is(err, auth.ErrEmailTaken), errors.Is(err, auth.ErrUsernameTaken):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		h.log.ErrorContext(r.Context(), "signup failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "signup failed")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": u.ID.String(), "email": u.Email})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r) {
		return
	}
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	_, pair, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	case err != nil:
		h.log.ErrorContext(r.Context(), "login failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  pair.Access,
		RefreshToken: pair.Refresh,
		TokenType:    "bearer",
	})
}

type oauthLoginRequest struct {
	Provider string `json:"provider"`
	Email    string `json:"email"`
	Name     string `json:"name"`
}

// oauthLogin signs in a provider-asserted identity, creating the account on
// first login. The identity provider sits in front of this endpoint and has
// already verified the email.
func (h *handlers) oauthLogin(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r) {
		return
	}
	var req oauthLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Provider == "" || req.Provider == auth.ProviderNative || req.Email == "" {
		writeError(w, http.StatusBadRequest, "provider and email are required")
		return
	}

	_, pair, err := h.accounts.OAuthLogin(r.Context(), req.Provider, req.Email, req.Name)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "account is deactivated")
		return
	case err != nil:
		h.log.ErrorContext(r.Context(), "oauth login failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	writeJSON(w, http.StatusCreated, tokenResponse{
		AccessToken:  pair.Access,
		RefreshToken: pair.Refresh,
		TokenType:    "bearer",
	})
}

type resetPasswordRequest struct {
	Email           string `json:"email"`
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *handlers) resetPassword(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r) {
		return
	}
	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.NewPassword) < 8 {
		writeError(w, http.StatusBadRequest, "a new password of at least 8 characters is required")
		return
	}

	err := h.accounts.ResetPassword(r.Context(), req.Email, req.CurrentPassword, req.NewPassword)
	switch {
	case errors.Is(err, auth.ErrProviderManaged):
		writeError(w, http.StatusForbidden, "account is managed by an identity provider")
		return
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	case err != nil:
		h.log.ErrorContext(r.Context(), "password reset failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "password reset failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) refresh(w http.ResponseWriter, r *http.Request) {
	raw, ok := bearerToken(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	pair, err := h.tokens.Rotate(r.Context(), raw)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  pair.Access,
		RefreshToken: pair.Refresh,
		TokenType:    "bearer",
	})
}

func (h *handlers) logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.authorize(w, r)
	if !ok {
		return
	}
	if err := h.tokens.Revoke(r.Context(), claims.Subject); err != nil {
		h.log.ErrorContext(r.Context(), "logout failed", logger.Error(err), logger.UserID(claims.Subject))
		writeError(w, http.StatusInternalServerError, "logout failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) deactivate(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.authorize(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid token subject")
		return
	}
	if err := h.accounts.Deactivate(r.Context(), id); err != nil {
		h.log.ErrorContext(r.Context(), "deactivation failed", logger.Error(err), logger.UserID(claims.Subject))
		writeError(w, http.StatusInternalServerError, "deactivation failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type profileResponse struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

func (h *handlers) profile(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.authorize(w, r)
	if !ok {
		return
	}
	u, err := h.accounts.Profile(r.Context(), claims.Email)
	switch {
	case errors.Is(err, auth.ErrNotFound):
		writeError(w, http.StatusUnauthorized, "could not validate credentials")
		return
	case err != nil:
		h.log.ErrorContext(r.Context(), "profile lookup failed", logger.Error(err), logger.UserID(claims.Subject))
		writeError(w, http.StatusInternalServerError, "profile lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{Email: u.Email, Username: u.Username, Name: u.Name})
}

// preferencePayload is the wire form of a saved interview preference.
type preferencePayload struct {
	Model      string `json:"model"`
	Voice      string `json:"voice"`
	Difficulty string `json:"difficulty"`
	Topic      string `json:"topic"`
	Language   string `json:"language"`
}

func (h *handlers) getPreference(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.authorize(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid token subject")
		return
	}

	p, err := h.prefs.PreferenceByUser(r.Context(), id)
	switch {
	case errors.Is(err, auth.ErrNotFound):
		writeError(w, http.StatusNotFound, "no preference saved")
		return
	case err != nil:
		h.log.ErrorContext(r.Context(), "preference lookup failed", logger.Error(err), logger.UserID(claims.Subject))
		writeError(w, http.StatusInternalServerError, "preference lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, preferencePayload{
		Model:      p.Model,
		Voice:      p.Voice,
		Difficulty: p.Difficulty,
		Topic:      p.Topic,
		Language:   p.Language,
	})
}

func (h *handlers) savePreference(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.authorize(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid token subject")
		return
	}

	var req preferencePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Model != "" {
		if _, err := completion.ResolveModel(req.Model); err != nil {
			writeError(w, http.StatusBadRequest, "unknown model")
			return
		}
	}

	err = h.prefs.SavePreference(r.Context(), auth.Preference{
		UserID:     id,
		Model:      req.Model,
		Voice:      req.Voice,
		Difficulty: req.Difficulty,
		Topic:      req.Topic,
		Language:   req.Language,
	})
	if err != nil {
		h.log.ErrorContext(r.Context(), "preference save failed", logger.Error(err), logger.UserID(claims.Subject))
		writeError(w, http.StatusInternalServerError, "preference save failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// chat upgrades to WebSocket and runs the audio interview loop, or parks a
// code-viewer connection when channel=code is requested.
func (h *handlers) chat(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.authorizeQuery(w, r)
	if !ok {
		return
	}
	subject, err := uuid.Parse(claims.Subject)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid token subject")
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	conn := registry.NewWSConn(ws)

	q := r.URL.Query()
	if q.Get("channel") == registry.ChannelCode {
		h.runCodeViewer(r, subject, conn)
		return
	}

	pref, err := h.prefs.PreferenceByUser(r.Context(), subject)
	if err != nil && !errors.Is(err, auth.ErrNotFound) {
		// Stored defaults are a convenience; the session starts without them.
		h.log.ErrorContext(r.Context(), "preference lookup failed", logger.Error(err), logger.UserID(claims.Subject))
	}
	filters, model, voice := sessionParams(pref, q)

	opts := []interview.SessionOption{interview.WithFilters(filters)}
	if model != "" {
		if _, err := completion.ResolveModel(model); err != nil {
			h.closeWith(conn, websocket.ClosePolicyViolation, "unknown model")
			return
		}
		opts = append(opts, interview.WithModel(model))
	}
	if voice != "" {
		opts = append(opts, interview.WithVoice(voice))
	}

	sess := interview.NewSession(subject, h.systemPrompt, opts...)
	if err := h.registry.Register(sess.Identity(), conn); err != nil {
		h.closeWith(conn, closeDuplicateSession, "session already connected")
		return
	}

	// Run blocks for the whole session and handles archive + unregister.
	_ = h.orchestrator.Run(r.Context(), sess, conn)
	_ = conn.Close()
}

// runCodeViewer registers the companion connection and parks it until the
// client goes away. The session goroutine looks it up by identity to deliver
// problem and solution text.
func (h *handlers) runCodeViewer(r *http.Request, subject uuid.UUID, conn *registry.WSConn) {
	id := registry.Identity{Subject: subject.String(), Channel: registry.ChannelCode}
	if err := h.registry.Register(id, conn); err != nil {
		h.closeWith(conn, closeDuplicateSession, "viewer already connected")
		return
	}
	defer func() {
		h.registry.Unregister(id)
		_ = conn.Close()
	}()

	for {
		if _, err := conn.ReceiveBytes(r.Context()); err != nil {
			return
		}
	}
}

// sessionParams merges the user's saved preference with the handshake query
// parameters. A query parameter wins over the stored value per field.
func sessionParams(pref auth.Preference, q url.Values) (bank.Filters, string, string) {
	pick := func(param, stored string) string {
		if v := q.Get(param); v != "" {
			return v
		}
		return stored
	}
	filters := bank.Filters{
		Difficulty: pick("difficulty", pref.Difficulty),
		Topic:      pick("topic", pref.Topic),
		Language:   pick("language", pref.Language),
	}
	return filters, pick("model", pref.Model), pick("voice", pref.Voice)
}

// streamTerminator closes each streamed reply on the text chat channel.
const streamTerminator = "[DONE]"

// chatText serves the plain-text chat WebSocket: each inbound message is
// answered with a streamed completion, chunk by chunk, terminated by a
// sentinel message.
func (h *handlers) chatText(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.authorizeQuery(w, r)
	if !ok {
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	conn := registry.NewWSConn(ws)
	defer conn.Close()

	log := h.log.With(logger.UserID(claims.Subject), logger.Component("chat.text"))
	buf := transcript.New(h.systemPrompt)
	ctx := r.Context()

	for {
		msg, err := conn.ReceiveText(ctx, 0)
		if err != nil {
			return
		}
		if msg == "" {
			continue
		}
		buf.Append(transcript.RoleUser, msg)

		chunks, err := h.completer.Stream(ctx, buf.Entries(), completion.DefaultModel)
		if err != nil {
			log.ErrorContext(ctx, "text completion failed", logger.Error(err))
			return
		}

		var reply strings.Builder
		for chunk := range chunks {
			reply.WriteString(chunk)
			if err := conn.SendText(ctx, chunk); err != nil {
				return
			}
		}
		buf.Append(transcript.RoleAssistant, reply.String())

		if err := conn.SendText(ctx, streamTerminator); err != nil {
			return
		}
	}
}

func (h *handlers) authorize(w http.ResponseWriter, r *http.Request) (token.Claims, bool) {
	raw, ok := bearerToken(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return token.Claims{}, false
	}
	claims, err := h.tokens.Validate(r.Context(), raw, token.KindAccess)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return token.Claims{}, false
	}
	return claims, true
}

// authorizeQuery validates the access token passed in the token query
// parameter. Browsers cannot set headers on WebSocket dials, so the upgrade
// endpoints authenticate through the query string.
func (h *handlers) authorizeQuery(w http.ResponseWriter, r *http.Request) (token.Claims, bool) {
	raw := r.URL.Query().Get("token")
	if raw == "" {
		writeError(w, http.StatusUnauthorized, "missing token")
		return token.Claims{}, false
	}
	claims, err := h.tokens.Validate(r.Context(), raw, token.KindAccess)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return token.Claims{}, false
	}
	return claims, true
}

func (h *handlers) closeWith(conn *registry.WSConn, code int, reason string) {
	_ = conn.CloseWithReason(code, reason)
}

// allow enforces the credential-guessing rate limit keyed by client IP.
// Limiter backend failures let the request through rather than locking out
// all logins.
func (h *handlers) allow(w http.ResponseWriter, r *http.Request) bool {
	if h.limiter == nil {
		return true
	}
	ip := clientip.GetIP(r)
	if ip == "" {
		ip = r.RemoteAddr
	}
	res, err := h.limiter.Allow(r.Context(), ip)
	if err != nil {
		h.log.ErrorContext(r.Context(), "rate limiter unavailable", logger.Error(err))
		return true
	}
	if !res.Allowed {
		w.Header().Set("Retry-After", strconv.Itoa(int(res.RetryAfter.Seconds())+1))
		writeError(w, http.StatusTooManyRequests, "too many requests")
		return false
	}
	return true
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix)), true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
