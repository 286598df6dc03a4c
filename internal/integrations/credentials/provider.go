package credentials

import (
	"context"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/m04kA/holidaze-booking/internal/domain"
)

// Static провайдер с одним заранее известным credential (CLI, тесты)
type Static struct {
	cred domain.Credential
}

// NewStatic создает провайдер с готовым credential
func NewStatic(cred domain.Credential) *Static {
	return &Static{cred: cred}
}

// Credential возвращает сохраненный credential
func (s *Static) Credential(_ context.Context) (domain.Credential, bool) {
	return s.cred, s.cred.AccessToken != ""
}

// FromToken строит credential из access token Holidaze.
// Срок действия берется из claim "exp". Подпись не проверяется: ее проверяет API,
// клиенту нужен только срок жизни, чтобы не отправлять заведомо просроченный токен.
func FromToken(raw string) (domain.Credential, error) {
	raw = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "Bearer "))
	if raw == "" {
		return domain.Credential{}, ErrEmptyToken
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return domain.Credential{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	cred := domain.Credential{AccessToken: raw, Subject: subject(claims)}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return domain.Credential{}, fmt.Errorf("%w: invalid exp claim: %v", ErrMalformedToken, err)
	}
	if exp != nil {
		cred.ExpiresAt = exp.Time
	}

	return cred, nil
}

// subject берет пользователя из claims: sub, затем email и name (токены Noroff не содержат sub)
func subject(claims jwt.MapClaims) string {
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		return sub
	}
	for _, key := range []string{"email", "name"} {
		if v, ok := claims[key].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

type contextKey struct{}

// WithCredential кладет credential текущего запроса в контекст
func WithCredential(ctx context.Context, cred domain.Credential) context.Context {
	return context.WithValue(ctx, contextKey{}, cred)
}

// Context провайдер, читающий credential из контекста запроса (HTTP API)
type Context struct{}

// NewContext создает провайдер credential из контекста
func NewContext() Context {
	return Context{}
}

// Credential возвращает credential, положенный middleware в контекст
func (Context) Credential(ctx context.Context) (domain.Credential, bool) {
	cred, ok := ctx.Value(contextKey{}).(domain.Credential)
	if !ok || cred.AccessToken == "" {
		return domain.Credential{}, false
	}
	return cred, true
}

// Owner возвращает владельца credential текущего запроса.
// Срок действия не проверяется: просроченный токен все еще указывает на пользователя.
func Owner(ctx context.Context) (string, bool) {
	cred, ok := NewContext().Credential(ctx)
	if !ok {
		return "", false
	}
	return cred.Owner(), true
}
