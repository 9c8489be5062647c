package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voicescreen/interviewd/core/auth"
	"github.com/voicescreen/interviewd/core/bank"
	"github.com/voicescreen/interviewd/core/token"
)

type memWhitelist struct {
	mu      sync.Mutex
	entries map[string]string
}

func (s *memWhitelist) Get(_ context.Context, subject string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.entries[subject]
	if !ok {
		return "", token.ErrNotFound
	}
	return v, nil
}

func (s *memWhitelist) Set(_ context.Context, subject, refreshToken string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[subject] = refreshToken
	return nil
}

func (s *memWhitelist) Delete(_ context.Context, subject string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, subject)
	return nil
}

// fakeStore implements auth.Store and auth.PreferenceStore in memory.
type fakeStore struct {
	mu    sync.Mutex
	users map[string]auth.User
	prefs map[uuid.UUID]auth.Preference
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users: make(map[string]auth.User),
		prefs: make(map[uuid.UUID]auth.Preference),
	}
}

func (s *fakeStore) ByEmail(_ context.Context, email string) (auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok {
		return auth.User{}, auth.ErrNotFound
	}
	return u, nil
}

func (s *fakeStore) ByUsername(_ context.Context, username string) (auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return auth.User{}, auth.ErrNotFound
}

func (s *fakeStore) Create(_ context.Context, u auth.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.Email]; ok {
		return auth.ErrEmailTaken
	}
	s.users[u.Email] = u
	return nil
}

func (s *fakeStore) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for email, u := range s.users {
		if u.ID == id {
			u.PasswordHash = hash
			s.users[email] = u
			return nil
		}
	}
	return auth.ErrNotFound
}

func (s *fakeStore) Deactivate(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for email, u := range s.users {
		if u.ID == id {
			u.Active = false
			s.users[email] = u
			return nil
		}
	}
	return nil
}

func (s *fakeStore) PreferenceByUser(_ context.Context, id uuid.UUID) (auth.Preference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.prefs[id]
	if !ok {
		return auth.Preference{}, auth.ErrNotFound
	}
	return p, nil
}

func (s *fakeStore) SavePreference(_ context.Context, p auth.Preference) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs[p.UserID] = p
	return nil
}

func newTestHandlers(t *testing.T) (*http.ServeMux, *auth.Service, *token.Manager) {
	t.Helper()

	tokens, err := token.New("access-secret", "refresh-secret", &memWhitelist{entries: make(map[string]string)})
	require.NoError(t, err)

	store := newFakeStore()
	accounts := auth.NewService(store, tokens)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := newHandlers(log, tokens, accounts, store, nil, nil, nil, nil, "You are an interviewer.")
	mux := http.NewServeMux()
	h.routes(mux)
	return mux, accounts, tokens
}

func sendJSON(t *testing.T, mux *http.ServeMux, method, path string, body any, bearer string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(method, path, &buf)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func getWithBearer(t *testing.T, mux *http.ServeMux, path, bearer string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func accessToken(t *testing.T, tokens *token.Manager, u auth.User) string {
	t.Helper()

	pair, err := tokens.Issue(context.Background(), u.ID.String(), u.Email)
	require.NoError(t, err)
	return pair.Access
}

func TestOAuthLoginRoute(t *testing.T) {
	t.Parallel()

	t.Run("creates account on first login", func(t *testing.T) {
		t.Parallel()

		mux, accounts, _ := newTestHandlers(t)
		w := sendJSON(t, mux, http.MethodPost, "/auth/login/oauth",
			oauthLoginRequest{Provider: "google", Email: "g@example.com", Name: "G User"}, "")
		require.Equal(t, http.StatusCreated, w.Code)

		var resp tokenResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)

		u, err := accounts.Profile(context.Background(), "g@example.com")
		require.NoError(t, err)
		assert.Equal(t, "google", u.Provider)
	})

	t.Run("returning user keeps the account", func(t *testing.T) {
		t.Parallel()

		mux, accounts, _ := newTestHandlers(t)
		first := sendJSON(t, mux, http.MethodPost, "/auth/login/oauth",
			oauthLoginRequest{Provider: "google", Email: "g@example.com"}, "")
		require.Equal(t, http.StatusCreated, first.Code)
		before, err := accounts.Profile(context.Background(), "g@example.com")
		require.NoError(t, err)

		second := sendJSON(t, mux, http.MethodPost, "/auth/login/oauth",
			oauthLoginRequest{Provider: "google", Email: "g@example.com"}, "")
		require.Equal(t, http.StatusCreated, second.Code)
		after, err := accounts.Profile(context.Background(), "g@example.com")
		require.NoError(t, err)
		assert.Equal(t, before.ID, after.ID)
	})

	t.Run("rejects native provider", func(t *testing.T) {
		t.Parallel()

		mux, _, _ := newTestHandlers(t)
		w := sendJSON(t, mux, http.MethodPost, "/auth/login/oauth",
			oauthLoginRequest{Provider: "native", Email: "g@example.com"}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestResetPasswordRoute(t *testing.T) {
	t.Parallel()

	t.Run("rotates the password", func(t *testing.T) {
		t.Parallel()

		mux, accounts, _ := newTestHandlers(t)
		_, err := accounts.Signup(context.Background(), "dev@example.com", "dev", "Dev", "hunter2hunter2")
		require.NoError(t, err)

		w := sendJSON(t, mux, http.MethodPut, "/auth/reset-password", resetPasswordRequest{
			Email:           "dev@example.com",
			CurrentPassword: "hunter2hunter2",
			NewPassword:     "newpassword123",
		}, "")
		require.Equal(t, http.StatusNoContent, w.Code)

		_, _, err = accounts.Login(context.Background(), "dev@example.com", "hunter2hunter2")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
		_, _, err = accounts.Login(context.Background(), "dev@example.com", "newpassword123")
		assert.NoError(t, err)
	})

	t.Run("refuses provider accounts", func(t *testing.T) {
		t.Parallel()

		mux, accounts, _ := newTestHandlers(t)
		_, _, err := accounts.OAuthLogin(context.Background(), "google", "g@example.com", "")
		require.NoError(t, err)

		w := sendJSON(t, mux, http.MethodPut, "/auth/reset-password", resetPasswordRequest{
			Email:           "g@example.com",
			CurrentPassword: "anything",
			NewPassword:     "newpassword123",
		}, "")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("wrong current password", func(t *testing.T) {
		t.Parallel()

		mux, accounts, _ := newTestHandlers(t)
		_, err := accounts.Signup(context.Background(), "dev@example.com", "dev", "Dev", "hunter2hunter2")
		require.NoError(t, err)

		w := sendJSON(t, mux, http.MethodPut, "/auth/reset-password", resetPasswordRequest{
			Email:           "dev@example.com",
			CurrentPassword: "wrong",
			NewPassword:     "newpassword123",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestProfileRoute(t *testing.T) {
	t.Parallel()

	t.Run("returns email and name", func(t *testing.T) {
		t.Parallel()

		mux, accounts, tokens := newTestHandlers(t)
		u, err := accounts.Signup(context.Background(), "dev@example.com", "dev", "Dev One", "hunter2hunter2")
		require.NoError(t, err)

		w := getWithBearer(t, mux, "/user/profile", accessToken(t, tokens, u))
		require.Equal(t, http.StatusOK, w.Code)

		var resp profileResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "dev@example.com", resp.Email)
		assert.Equal(t, "dev", resp.Username)
		assert.Equal(t, "Dev One", resp.Name)
	})

	t.Run("rejects missing token", func(t *testing.T) {
		t.Parallel()

		mux, _, _ := newTestHandlers(t)
		w := getWithBearer(t, mux, "/user/profile", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("deactivated account reads as invalid", func(t *testing.T) {
		t.Parallel()

		mux, accounts, tokens := newTestHandlers(t)
		u, err := accounts.Signup(context.Background(), "dev@example.com", "dev", "Dev", "hunter2hunter2")
		require.NoError(t, err)
		raw := accessToken(t, tokens, u)
		require.NoError(t, accounts.Deactivate(context.Background(), u.ID))

		w := getWithBearer(t, mux, "/user/profile", raw)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestPreferenceRoutes(t *testing.T) {
	t.Parallel()

	t.Run("save and get round trip", func(t *testing.T) {
		t.Parallel()

		mux, accounts, tokens := newTestHandlers(t)
		u, err := accounts.Signup(context.Background(), "dev@example.com", "dev", "Dev", "hunter2hunter2")
		require.NoError(t, err)
		raw := accessToken(t, tokens, u)

		saved := sendJSON(t, mux, http.MethodPut, "/user/preference", preferencePayload{
			Model:      "gemini-flash",
			Voice:      "nova",
			Difficulty: "hard",
			Topic:      "graphs",
			Language:   "go",
		}, raw)
		require.Equal(t, http.StatusNoContent, saved.Code)

		got := getWithBearer(t, mux, "/user/preference", raw)
		require.Equal(t, http.StatusOK, got.Code)

		var resp preferencePayload
		require.NoError(t, json.NewDecoder(got.Body).Decode(&resp))
		assert.Equal(t, "gemini-flash", resp.Model)
		assert.Equal(t, "nova", resp.Voice)
		assert.Equal(t, "hard", resp.Difficulty)
		assert.Equal(t, "graphs", resp.Topic)
		assert.Equal(t, "go", resp.Language)
	})

	t.Run("nothing saved yet", func(t *testing.T) {
		t.Parallel()

		mux, accounts, tokens := newTestHandlers(t)
		u, err := accounts.Signup(context.Background(), "dev@example.com", "dev", "Dev", "hunter2hunter2")
		require.NoError(t, err)

		w := getWithBearer(t, mux, "/user/preference", accessToken(t, tokens, u))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("rejects unknown model", func(t *testing.T) {
		t.Parallel()

		mux, accounts, tokens := newTestHandlers(t)
		u, err := accounts.Signup(context.Background(), "dev@example.com", "dev", "Dev", "hunter2hunter2")
		require.NoError(t, err)

		w := sendJSON(t, mux, http.MethodPut, "/user/preference",
			preferencePayload{Model: "davinci"}, accessToken(t, tokens, u))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSessionParams(t *testing.T) {
	t.Parallel()

	pref := auth.Preference{
		Model:      "gpt-4o",
		Voice:      "nova",
		Difficulty: "hard",
		Topic:      "graphs",
		Language:   "go",
	}

	t.Run("stored preference seeds the session", func(t *testing.T) {
		t.Parallel()

		filters, model, voice := sessionParams(pref, url.Values{})
		assert.Equal(t, bank.Filters{Difficulty: "hard", Topic: "graphs", Language: "go"}, filters)
		assert.Equal(t, "gpt-4o", model)
		assert.Equal(t, "nova", voice)
	})

	t.Run("query parameters win per field", func(t *testing.T) {
		t.Parallel()

		q := url.Values{"language": {"python"}, "voice": {"echo"}}
		filters, model, voice := sessionParams(pref, q)
		assert.Equal(t, bank.Filters{Difficulty: "hard", Topic: "graphs", Language: "python"}, filters)
		assert.Equal(t, "gpt-4o", model)
		assert.Equal(t, "echo", voice)
	})

	t.Run("no preference no parameters", func(t *testing.T) {
		t.Parallel()

		filters, model, voice := sessionParams(auth.Preference{}, url.Values{})
		assert.Equal(t, bank.Filters{}, filters)
		assert.Empty(t, model)
		assert.Empty(t, voice)
	})
}

func TestDeactivateRoute(t *testing.T) {
	t.Parallel()

	t.Run("repeat deactivation succeeds", func(t *testing.T) {
		t.Parallel()

		mux, accounts, tokens := newTestHandlers(t)
		u, err := accounts.Signup(context.Background(), "dev@example.com", "dev", "Dev", "hunter2hunter2")
		require.NoError(t, err)
		raw := accessToken(t, tokens, u)

		req := httptest.NewRequest(http.MethodPost, "/auth/deactivate", nil)
		req.Header.Set("Authorization", "Bearer "+raw)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		require.Equal(t, http.StatusNoContent, w.Code)

		again := httptest.NewRequest(http.MethodPost, "/auth/deactivate", nil)
		again.Header.Set("Authorization", "Bearer "+raw)
		w2 := httptest.NewRecorder()
		mux.ServeHTTP(w2, again)
		assert.Equal(t, http.StatusNoContent, w2.Code)
	})
}
