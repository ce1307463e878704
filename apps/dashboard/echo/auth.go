package echodash

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mediateam/core"
	"github.com/trezcool/mediateam/core/auth"
	"github.com/trezcool/mediateam/core/session"
)

const loginTitle = "تسجيل الدخول"

type (
	authHandlers struct {
		svc        *auth.Service
		translator ut.Translator
		logger     core.Logger
	}

	loginData struct {
		Email       string
		FieldErrors map[string]string
	}
)

func registerAuthRoutes(e *echo.Echo, deps ServerDeps) {
	h := authHandlers{svc: deps.AuthSvc, translator: deps.Translator, logger: deps.Logger}

	e.GET(session.LoginPath, h.loginPage)
	e.POST(session.LoginPath, h.login, rateLimitMiddleware(deps.Limiter, deps.Conf.LoginRateLimit, "login:"))
	e.POST("/logout", h.logout)
}

func (h *authHandlers) loginPage(ctx echo.Context) error {
	if holder := getContextHolder(ctx); holder != nil && session.Check(holder).Allow {
		return ctx.Redirect(http.StatusSeeOther, auth.HomePath)
	}
	return ctx.Render(http.StatusOK, "login.html", newPage(ctx, loginTitle, "", loginData{}))
}

func (h *authHandlers) login(ctx echo.Context) error {
	holder := getContextHolder(ctx)
	if holder == nil {
		return errors.New("no session holder in context")
	}
	creds := auth.Credentials{
		Email:    ctx.FormValue("email"),
		Password: ctx.FormValue("password"),
	}

	_, redirect, err := h.svc.Login(ctx.Request().Context(), holder, creds)
	if err != nil {
		data := loginData{Email: creds.Email, FieldErrors: core.FieldErrors(err, h.translator)}
		p := newPage(ctx, loginTitle, "", data)
		code := http.StatusUnprocessableEntity
		if data.FieldErrors == nil {
			code = http.StatusUnauthorized
			if errors.Cause(err) == core.ErrInFlight {
				code = http.StatusConflict
			} else if !core.IsUnauthorized(err) {
				h.logger.Warn("login failed", err)
			}
			p.Error = auth.LoginErrorMessage(err)
		}
		return ctx.Render(code, "login.html", p)
	}
	return ctx.Redirect(http.StatusSeeOther, redirect)
}

func (h *authHandlers) logout(ctx echo.Context) error {
	if holder := getContextHolder(ctx); holder != nil {
		if err := h.svc.Logout(ctx.Request().Context(), holder); err != nil {
			return errors.Wrap(err, "logging out")
		}
	}
	return ctx.Redirect(http.StatusSeeOther, session.LoginPath)
}
