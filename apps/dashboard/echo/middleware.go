package echodash

import (
	"net/http"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"

	"github.com/trezcool/mediateam/core"
	"github.com/trezcool/mediateam/core/session"
	sessionsvc "github.com/trezcool/mediateam/services/session"
)

const (
	contextHolderKey = "session"
	csrfField        = "_csrf"
	csrfContextKey   = "csrf"
)

// sessionMiddleware loads the cookie session and exposes it through the request context,
// where the API client picks the token from.
func sessionMiddleware(store *sessionsvc.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			req := ctx.Request()
			h := store.Holder(ctx.Response(), req)
			ctx.Set(contextHolderKey, h)
			ctx.SetRequest(req.WithContext(session.NewContext(req.Context(), h)))
			return next(ctx)
		}
	}
}

func getContextHolder(ctx echo.Context) *sessionsvc.CookieHolder {
	h, _ := ctx.Get(contextHolderKey).(*sessionsvc.CookieHolder)
	return h
}

// gateMiddleware sends visitors without a session token to the login page.
// 303 keeps the protected location out of the browser history.
func gateMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		var d session.Decision
		if h := getContextHolder(ctx); h != nil {
			d = session.Check(h)
		} else {
			d = session.Gate("")
		}
		if !d.Allow {
			return ctx.Redirect(http.StatusSeeOther, d.Redirect)
		}
		return next(ctx)
	}
}

// rateLimitMiddleware allows conf.Attempts requests per client IP and conf.Window.
func rateLimitMiddleware(limiter core.Limiter, conf core.RateLimitConfig, prefix string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if limiter != nil && !limiter.Allow(prefix+ctx.RealIP(), conf.Attempts, conf.Window) {
				return errTooManyAttempts
			}
			return next(ctx)
		}
	}
}

// contextPerson identifies the signed-in staff member from the token claims.
// The claims are not verified; they only label logs and the page header.
func contextPerson(ctx echo.Context) core.Person {
	h := getContextHolder(ctx)
	if h == nil || h.Token() == "" {
		return core.Person{}
	}
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(h.Token(), claims); err != nil {
		return core.Person{}
	}
	var p core.Person
	p.ID, _ = claims["sub"].(string)
	p.Email, _ = claims["email"].(string)
	return p
}

func csrfToken(ctx echo.Context) string {
	token, _ := ctx.Get(csrfContextKey).(string)
	return token
}
