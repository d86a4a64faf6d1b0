package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gestiong/apiserver/config"
	"github.com/gestiong/apiserver/internal/services"
	"github.com/gestiong/apiserver/internal/store"
	"github.com/gestiong/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	users map[string]types.User
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int) (types.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (types.User, error) {
	user, ok := f.users[username]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) Create(_ context.Context, user types.User) (types.User, error) {
	user.ID = len(f.users) + 1
	f.users[user.Username] = user
	return user, nil
}

func (f *fakeUserRepo) UpdateSecret(_ context.Context, id int, secretHash string) error {
	return nil
}

func (f *fakeUserRepo) ListWithEmail(_ context.Context) ([]types.User, error) {
	return nil, nil
}

type fakeTokenStore struct {
	revoked map[string]bool
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{revoked: map[string]bool{}}
}

func (f *fakeTokenStore) Revoke(_ context.Context, jti string, _ int, _ time.Time) error {
	f.revoked[jti] = true
	return nil
}

func (f *fakeTokenStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	return f.revoked[jti], nil
}

func newTestAuthHandler(t *testing.T) (*AuthHandler, *fakeTokenStore) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &fakeUserRepo{users: map[string]types.User{
		"ana": {ID: 1, Username: "ana", SecretHash: string(hash)},
	}}
	tokens := newFakeTokenStore()
	handler := NewAuthHandler(services.NewUserService(repo), tokens, config.AuthConfig{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
	})
	return handler, tokens
}

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("super-secret")

	token, err := issueToken(42, secret, time.Hour)
	require.NoError(t, err)

	claims, err := parseToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.NotEmpty(t, claims.ID)

	_, err = parseToken(token, []byte("wrong-secret"))
	assert.Error(t, err)
}

func TestTokenExpired(t *testing.T) {
	secret := []byte("secret")
	token, err := issueToken(1, secret, -time.Second)
	require.NoError(t, err)

	_, err = parseToken(token, secret)
	assert.Error(t, err)
}

func TestBearerToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := bearerToken(r)
	assert.Error(t, err)

	r.Header.Set("Authorization", "Basic abc")
	_, err = bearerToken(r)
	assert.Error(t, err)

	r.Header.Set("Authorization", "Bearer  token123 ")
	token, err := bearerToken(r)
	require.NoError(t, err)
	assert.Equal(t, "token123", token)
}

func TestLogin(t *testing.T) {
	handler, _ := newTestAuthHandler(t)

	cases := []struct {
		name   string
		body   string
		status int
	}{
		{"success", `{"usuario":"ana","password":"s3cret"}`, http.StatusOK},
		{"wrong password", `{"usuario":"ana","password":"bad"}`, http.StatusUnauthorized},
		{"unknown user", `{"usuario":"ghost","password":"s3cret"}`, http.StatusUnauthorized},
		{"missing fields", `{"usuario":"ana"}`, http.StatusBadRequest},
		{"malformed body", `{`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			handler.Login(rec, req)
			assert.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusOK {
				assert.Contains(t, rec.Body.String(), `"token"`)
				assert.Contains(t, rec.Body.String(), `"usuario":"ana"`)
			} else {
				assert.Contains(t, rec.Body.String(), `"status":"error"`)
			}
		})
	}
}

func TestRequireAuth(t *testing.T) {
	handler, _ := newTestAuthHandler(t)

	var gotUserID int
	protected := handler.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := userIDFromContext(r.Context())
		require.NoError(t, err)
		gotUserID = id
		w.WriteHeader(http.StatusOK)
	}))

	// No proof of identity: rejected, body carries no data.
	req := httptest.NewRequest(http.MethodGet, "/obtener-gastos", nil)
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Garbage token: rejected.
	req = httptest.NewRequest(http.MethodGet, "/obtener-gastos", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Well-formed token for an account that no longer exists: rejected.
	orphan, err := issueToken(9, handler.secret, time.Hour)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/obtener-gastos", nil)
	req.Header.Set("Authorization", "Bearer "+orphan)
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Valid token: subject resolved from the proof, not from any default.
	token, err := issueToken(1, handler.secret, time.Hour)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/obtener-gastos", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, gotUserID)
}

func TestLogoutRevokesToken(t *testing.T) {
	handler, tokens := newTestAuthHandler(t)

	token, err := issueToken(1, handler.secret, time.Hour)
	require.NoError(t, err)

	protected := handler.RequireAuth(http.HandlerFunc(handler.Logout))

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, tokens.revoked, 1)

	// The revoked token no longer passes the gate.
	gate := handler.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req = httptest.NewRequest(http.MethodGet, "/obtener-gastos", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	gate.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
