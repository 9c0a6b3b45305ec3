package auth

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/odo-atelier/budget-api/internal/config"
	"github.com/odo-atelier/budget-api/internal/domain"
	"github.com/odo-atelier/budget-api/internal/metrics"
	"go.uber.org/zap"
)

const apiKeyHeader = "x-api-key"

var (
	errMissingCredentials = errors.New("missing authorization header")
	errMalformedHeader    = errors.New("invalid authorization header format")
	errInvalidAPIKey      = errors.New("invalid API key")
)

// RevocationChecker reports whether a signed-out token is presented again
type RevocationChecker interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// Middleware resolves the caller of a request: a person holding a bearer
// token, or automation holding the API key.
type Middleware struct {
	jwtValidator *JWTValidator
	revocations  RevocationChecker
	apiKey       []byte
	logger       *zap.Logger
}

// NewMiddleware builds the middleware. revocations may be nil.
func NewMiddleware(cfg *config.Config, revocations RevocationChecker, logger *zap.Logger) *Middleware {
	return &Middleware{
		jwtValidator: NewJWTValidator(&cfg.Auth),
		revocations:  revocations,
		apiKey:       []byte(cfg.ApiKey.Value),
		logger:       logger,
	}
}

// Authenticate stores the caller in the request context or answers 401
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userCtx, err := m.resolve(r)
		if err != nil {
			reason := failureReason(err)
			metrics.AuthFailuresTotal.WithLabelValues(reason).Inc()

			if reason == "internal" {
				m.logger.Error("authentication lookup failed", zap.Error(err))
				writeAuthError(w, http.StatusInternalServerError, domain.ErrorTypeInternal, "Internal server error")
				return
			}
			m.logger.Warn("request rejected",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.String("reason", reason),
			)
			w.Header().Set("WWW-Authenticate", `Bearer realm="odo"`)
			writeAuthError(w, http.StatusUnauthorized, domain.ErrorTypeUnauthorized, err.Error())
			return
		}

		m.logger.Debug("request authenticated",
			zap.String("path", r.URL.Path),
			zap.String("user_id", userCtx.UserID.String()),
			zap.Bool("system", userCtx.IsSystem()),
		)
		next.ServeHTTP(w, r.WithContext(WithUserContext(r.Context(), userCtx)))
	})
}

// resolve checks the API key header first, then the bearer token
func (m *Middleware) resolve(r *http.Request) (*UserContext, error) {
	if key := r.Header.Get(apiKeyHeader); key != "" {
		if len(m.apiKey) == 0 || subtle.ConstantTimeCompare([]byte(key), m.apiKey) != 1 {
			return nil, errInvalidAPIKey
		}
		return NewSystemContext(), nil
	}

	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, errMissingCredentials
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return nil, errMalformedHeader
	}
	token = strings.TrimSpace(token)

	userCtx, err := m.jwtValidator.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	if m.revocations != nil {
		revoked, err := m.revocations.IsRevoked(r.Context(), token)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, ErrRevokedToken
		}
	}
	return userCtx, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, errMissingCredentials):
		return "missing"
	case errors.Is(err, errMalformedHeader):
		return "malformed"
	case errors.Is(err, errInvalidAPIKey):
		return "api_key"
	case errors.Is(err, ErrExpiredToken):
		return "expired"
	case errors.Is(err, ErrRevokedToken):
		return "revoked"
	case errors.Is(err, ErrInvalidToken):
		return "invalid"
	default:
		return "internal"
	}
}

// RequireUser rejects system callers on routes that act on a person's own data
func (m *Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userCtx, ok := FromContext(r.Context())
		if !ok || userCtx.IsSystem() {
			writeAuthError(w, http.StatusForbidden, domain.ErrorTypeForbidden, "A user token is required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeAuthError(w http.ResponseWriter, status int, errorType, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(domain.NewAPIError(status, errorType, detail))
}
