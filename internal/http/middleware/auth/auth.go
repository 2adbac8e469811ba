// Package auth resolves the requester from a bearer token issued by the
// marketplace's authentication service.
package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"service-bidding/internal/apperr"
	"service-bidding/internal/domain"
	"service-bidding/internal/logx"
)

type ctxKey struct{}

// WithRequester returns a copy of ctx carrying req.
func WithRequester(ctx context.Context, req domain.Requester) context.Context {
	return context.WithValue(ctx, ctxKey{}, req)
}

// FromContext returns the requester stored by the middleware.
func FromContext(ctx context.Context) (domain.Requester, bool) {
	req, ok := ctx.Value(ctxKey{}).(domain.Requester)
	return req, ok
}

// Claims are the token claims the service relies on.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Verifier checks HS256 tokens.
type Verifier struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewVerifier returns a Verifier for tokens signed with secret. An empty
// issuer disables the issuer check.
func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{secret: []byte(secret), issuer: issuer, now: time.Now}
}

// Parse validates token and returns the requester it identifies.
func (v *Verifier) Parse(token string) (domain.Requester, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(v.now),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return domain.Requester{}, fmt.Errorf("%w: %v", apperr.ErrUnauthorized, err)
	}

	req := domain.Requester{ID: strings.TrimSpace(claims.Subject), Role: domain.Role(claims.Role)}
	if req.ID == "" || !req.Role.Valid() {
		return domain.Requester{}, fmt.Errorf("%w: missing subject or role", apperr.ErrUnauthorized)
	}
	return req, nil
}

// Issue signs a token for req. The service never issues tokens to clients;
// this exists for local runs and tests.
func (v *Verifier) Issue(req domain.Requester, ttl time.Duration) (string, error) {
	now := v.now()
	claims := Claims{
		Role: string(req.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   req.ID,
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// Middleware rejects requests without a valid bearer token with 401 and
// stores the requester in the request context otherwise.
func Middleware(logger logx.Logger, v *Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req, err := v.fromHeader(r.Header.Get("Authorization"))
			if err != nil {
				logger.Debug("unauthorized request",
					logx.String("method", r.Method),
					logx.String("path", r.URL.Path),
					logx.Err(err),
				)
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("WWW-Authenticate", `Bearer realm="bidding"`)
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = io.WriteString(w, `{"error":"unauthorized"}`)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithRequester(r.Context(), req)))
		})
	}
}

var errNoBearer = errors.New("missing bearer token")

func (v *Verifier) fromHeader(h string) (domain.Requester, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(h), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return domain.Requester{}, fmt.Errorf("%w: %w", apperr.ErrUnauthorized, errNoBearer)
	}
	return v.Parse(strings.TrimSpace(token))
}
