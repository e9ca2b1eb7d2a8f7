package session

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const CookieName = "foodcart_session"

type ctxKey struct{}

func IDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}

func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// Manager ties each browser to a storage namespace through a signed
// cookie. It never authenticates anyone.
type Manager struct {
	Tokens *TokenMaker
	TTL    time.Duration
	Secure bool
	Log    *zap.Logger
	Now    func() time.Time
}

// Middleware resolves the session of every request, starting a fresh one
// when the cookie is missing, expired or fails verification.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		now := m.now()

		if c, err := r.Cookie(CookieName); err == nil {
			claims, err := m.Tokens.Parse(c.Value, now)
			if err == nil {
				next.ServeHTTP(w, r.WithContext(WithID(r.Context(), claims.Subject)))
				return
			}
			if m.Log != nil {
				m.Log.Debug("replacing session cookie", zap.Error(err))
			}
		}

		id := uuid.NewString()
		tok, err := m.Tokens.New(id, now, m.TTL)
		if err != nil {
			if m.Log != nil {
				m.Log.Error("issue session token", zap.Error(err))
			}
			http.Error(w, "server error", http.StatusInternalServerError)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     CookieName,
			Value:    tok,
			Path:     "/",
			Expires:  now.Add(m.TTL),
			MaxAge:   int(m.TTL.Seconds()),
			HttpOnly: true,
			Secure:   m.Secure,
			SameSite: http.SameSiteLaxMode,
		})

		next.ServeHTTP(w, r.WithContext(WithID(r.Context(), id)))
	})
}

func (m *Manager) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}
