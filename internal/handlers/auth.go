package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gestiong/apiserver/config"
	"github.com/gestiong/apiserver/internal/services"
	"github.com/gestiong/apiserver/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenTTL = 24 * time.Hour

// TokenStore records and checks revoked token ids.
type TokenStore interface {
	Revoke(ctx context.Context, jti string, userID int, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// AuthHandler issues and revokes bearer proofs of identity.
type AuthHandler struct {
	userService *services.UserService
	tokens      TokenStore
	secret      []byte
	tokenTTL    time.Duration
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(userService *services.UserService, tokens TokenStore, cfg config.AuthConfig) *AuthHandler {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &AuthHandler{
		userService: userService,
		tokens:      tokens,
		secret:      []byte(cfg.JWTSecret),
		tokenTTL:    ttl,
	}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, handler *AuthHandler) {
	r.Post("/login", handler.Login)
	r.With(handler.RequireAuth).Post("/logout", handler.Logout)
}

// RequireAuth enforces a valid, unrevoked bearer token and injects the user
// id into the request context. There is no fallback identity: requests
// without a valid proof are rejected.
func (h *AuthHandler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, err := bearerToken(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "no autorizado")
			return
		}

		claims, err := parseToken(tokenString, h.secret)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "no autorizado")
			return
		}

		if claims.ID != "" {
			revoked, err := h.tokens.IsRevoked(r.Context(), claims.ID)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "error de autenticación")
				return
			}
			if revoked {
				writeError(w, http.StatusUnauthorized, "no autorizado")
				return
			}
		}

		userID, err := strconv.Atoi(claims.Subject)
		if err != nil || userID < 1 {
			writeError(w, http.StatusUnauthorized, "no autorizado")
			return
		}

		// The subject must resolve to a live account: a token outlives
		// neither its revocation nor its user.
		if _, err := h.userService.GetByID(r.Context(), userID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusUnauthorized, "no autorizado")
				return
			}
			writeError(w, http.StatusInternalServerError, "error de autenticación")
			return
		}

		ctx := context.WithValue(r.Context(), contextSubjectKey, userID)
		ctx = context.WithValue(ctx, contextClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type LoginRequest struct {
	Username string `json:"usuario"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Status   string `json:"status"`
	Username string `json:"usuario"`
	Token    string `json:"token"`
}

// Login verifies credentials and returns a signed token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "petición inválida")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "faltan credenciales")
		return
	}

	user, err := h.userService.GetByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "credenciales inválidas")
			return
		}
		writeError(w, http.StatusInternalServerError, "error de autenticación")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.SecretHash), []byte(req.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "credenciales inválidas")
		return
	}

	token, err := issueToken(user.ID, h.secret, h.tokenTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "no se pudo crear el token")
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Status:   "success",
		Username: user.Username,
		Token:    token,
	})
}

// Logout revokes the presented token. The jti goes on the blocklist until
// the token would have expired anyway.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "no autorizado")
		return
	}

	claims, ok := r.Context().Value(contextClaimsKey).(*jwt.RegisteredClaims)
	if !ok || claims.ID == "" || claims.ExpiresAt == nil {
		writeError(w, http.StatusUnauthorized, "no autorizado")
		return
	}

	if err := h.tokens.Revoke(r.Context(), claims.ID, userID, claims.ExpiresAt.Time); err != nil {
		writeError(w, http.StatusInternalServerError, "no se pudo cerrar la sesión")
		return
	}

	writeJSON(w, http.StatusOK, StatusResponse{Status: "success"})
}

func issueToken(userID int, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.Itoa(userID),
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func parseToken(tokenString string, secret []byte) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, errors.New("missing subject")
	}
	return claims, nil
}

func bearerToken(r *http.Request) (string, error) {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if auth == "" {
		return "", errors.New("missing authorization")
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization")
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errors.New("invalid authorization")
	}
	return token, nil
}
