package emulator

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type ctxKey int

const emailKey ctxKey = iota

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	if in.Email == "" || len(in.Password) < 6 {
		writeError(w, http.StatusBadRequest, "email and a password of at least 6 characters are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not hash password")
		return
	}

	s.mu.Lock()
	if _, exists := s.users[in.Email]; exists {
		s.mu.Unlock()
		writeError(w, http.StatusBadRequest, "email is already registered")
		return
	}
	s.users[in.Email] = string(hash)
	s.mu.Unlock()

	s.issueSession(w, in.Email)
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	s.mu.Lock()
	hash, exists := s.users[in.Email]
	s.mu.Unlock()

	if !exists || bcrypt.CompareHashAndPassword([]byte(hash), []byte(in.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	s.issueSession(w, in.Email)
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	// Tokens are short-lived and not tracked server-side; sign-out is
	// the client discarding its token.
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) issueSession(w http.ResponseWriter, email string) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not sign token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": signed, "email": email})
}

// requireAuth guards the write endpoints. It authenticates only; the
// client is trusted for everything else, matching the hosted backend.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "no bearer token")
			return
		}

		var c claims
		token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), &c, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return s.secret, nil
		})
		if err != nil || !token.Valid || c.Email == "" {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), emailKey, c.Email)))
	})
}

func sessionEmail(ctx context.Context) string {
	email, _ := ctx.Value(emailKey).(string)
	return email
}
