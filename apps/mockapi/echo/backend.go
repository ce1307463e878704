// Package echomock is an in-memory stand-in for the recruitment REST backend.
// It serves local development and the end-to-end tests.
package echomock

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/mediateam/core/application"
	"github.com/trezcool/mediateam/core/auth"
	"github.com/trezcool/mediateam/core/college"
)

const (
	BasePath = "/api/v1"

	msgBadCredentials = "البريد الإلكتروني أو كلمة المرور غير صحيحة"
	msgUnauthorized   = "غير مصرح"
	msgInvalidCollege = "بيانات الكلية غير صالحة"
	msgNoCollege      = "الكلية غير موجودة"
)

type (
	User struct {
		ID       string
		Email    string
		Password string
	}

	// TokenIssuer creates the session token handed out on login.
	TokenIssuer func(usr User) (string, error)

	Option func(*Backend)

	Backend struct {
		app    *echo.Echo
		secret []byte
		issue  TokenIssuer

		mu           sync.Mutex
		users        map[string]User   // by email
		tokens       map[string]string // token -> user ID
		colleges     []college.College
		applications []application.Application
		calls        map[string]int
	}
)

func WithUser(email, password string) Option {
	return func(b *Backend) {
		email = strings.ToLower(email)
		b.users[email] = User{ID: uuid.New().String(), Email: email, Password: password}
	}
}

func WithTokenIssuer(issue TokenIssuer) Option {
	return func(b *Backend) {
		b.issue = issue
	}
}

func WithColleges(colleges ...college.College) Option {
	return func(b *Backend) {
		b.colleges = append(b.colleges, colleges...)
	}
}

func WithApplications(apps ...application.Application) Option {
	return func(b *Backend) {
		b.applications = append(b.applications, apps...)
	}
}

func WithRequestLogs() Option {
	return func(b *Backend) {
		b.app.Use(middleware.Logger())
	}
}

func New(secret string, opts ...Option) *Backend {
	b := &Backend{
		app:    echo.New(),
		secret: []byte(secret),
		users:  make(map[string]User),
		tokens: make(map[string]string),
		calls:  make(map[string]int),
	}
	b.issue = b.signToken
	for _, opt := range opts {
		opt(b)
	}
	b.setup()
	return b
}

func (b *Backend) setup() {
	b.app.HideBanner = true
	b.app.Pre(middleware.RemoveTrailingSlash())
	b.app.Use(b.countCalls)
	b.app.HTTPErrorHandler = errorHandler

	v1 := b.app.Group(BasePath)
	v1.POST("/users/login", b.login)

	ag := v1.Group("", b.requireToken)
	ag.GET("/applications", b.listApplications)
	ag.GET("/colleges", b.listColleges)
	ag.POST("/colleges", b.createCollege)
	ag.PUT("/colleges/:id", b.updateCollege)
	ag.PATCH("/colleges/:id", b.updateCollege)
	ag.DELETE("/colleges/:id", b.deleteCollege)
}

func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.app.ServeHTTP(w, r)
}

func (b *Backend) Start(addr string) error {
	return b.app.Start(addr)
}

func (b *Backend) Shutdown(ctx context.Context) error {
	return b.app.Shutdown(ctx)
}

// Calls returns how many requests matched the route, e.g. Calls("GET", "/colleges").
func (b *Backend) Calls(method, path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[method+" "+BasePath+path]
}

// Revoke makes the backend reject token from now on.
func (b *Backend) Revoke(token string) {
	b.mu.Lock()
	delete(b.tokens, token)
	b.mu.Unlock()
}

func (b *Backend) Colleges() []college.College {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]college.College(nil), b.colleges...)
}

func (b *Backend) signToken(usr User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"jti":   uuid.New().String(),
		"sub":   usr.ID,
		"email": usr.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(24 * time.Hour).Unix(),
	})
	ss, err := token.SignedString(b.secret)
	return ss, errors.Wrap(err, "signing token")
}

// Middleware

func (b *Backend) countCalls(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		b.mu.Lock()
		b.calls[ctx.Request().Method+" "+ctx.Path()]++
		b.mu.Unlock()
		return next(ctx)
	}
}

func (b *Backend) requireToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		header := ctx.Request().Header.Get(echo.HeaderAuthorization)
		token := strings.TrimPrefix(header, "Bearer ")
		if token == header || token == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, msgUnauthorized)
		}
		b.mu.Lock()
		_, ok := b.tokens[token]
		b.mu.Unlock()
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, msgUnauthorized)
		}
		return next(ctx)
	}
}

// errorHandler renders every error as {"message": ...}.
func errorHandler(err error, ctx echo.Context) {
	code := http.StatusInternalServerError
	var message interface{} = http.StatusText(code)
	if herr, ok := errors.Cause(err).(*echo.HTTPError); ok {
		code = herr.Code
		message = herr.Message
	}
	if !ctx.Response().Committed {
		_ = ctx.JSON(code, echo.Map{"message": message})
	}
}

// Handlers

func (b *Backend) login(ctx echo.Context) error {
	var creds auth.Credentials
	if err := ctx.Bind(&creds); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgBadCredentials)
	}

	b.mu.Lock()
	usr, ok := b.users[strings.ToLower(strings.TrimSpace(creds.Email))]
	b.mu.Unlock()
	if !ok || usr.Password != creds.Password {
		return echo.NewHTTPError(http.StatusUnauthorized, msgBadCredentials)
	}

	token, err := b.issue(usr)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.tokens[token] = usr.ID
	b.mu.Unlock()

	return ctx.JSON(http.StatusOK, auth.LoginResult{
		Token: token,
		User:  &auth.User{ID: usr.ID, Email: usr.Email},
	})
}

func (b *Backend) listApplications(ctx echo.Context) error {
	b.mu.Lock()
	apps := append([]application.Application{}, b.applications...)
	b.mu.Unlock()
	return ctx.JSON(http.StatusOK, apps)
}

func (b *Backend) listColleges(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, append([]college.College{}, b.Colleges()...))
}

func bindCollege(ctx echo.Context) (college.Form, error) {
	var form college.Form
	if err := ctx.Bind(&form); err != nil {
		return form, echo.NewHTTPError(http.StatusBadRequest, msgInvalidCollege)
	}
	form.Name = strings.TrimSpace(form.Name)
	if utf8.RuneCountInString(form.Name) < 2 || form.AcademicYearsCount < 1 || form.AcademicYearsCount > 10 {
		return form, echo.NewHTTPError(http.StatusBadRequest, msgInvalidCollege)
	}
	return form, nil
}

func (b *Backend) createCollege(ctx echo.Context) error {
	form, err := bindCollege(ctx)
	if err != nil {
		return err
	}
	c := college.College{ID: uuid.New().String(), Name: form.Name, AcademicYearsCount: form.AcademicYearsCount}

	b.mu.Lock()
	b.colleges = append(b.colleges, c)
	b.mu.Unlock()
	return ctx.JSON(http.StatusCreated, c)
}

func (b *Backend) updateCollege(ctx echo.Context) error {
	form, err := bindCollege(ctx)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.colleges {
		if b.colleges[i].ID == ctx.Param("id") {
			b.colleges[i].Name = form.Name
			b.colleges[i].AcademicYearsCount = form.AcademicYearsCount
			return ctx.JSON(http.StatusOK, b.colleges[i])
		}
	}
	return echo.NewHTTPError(http.StatusNotFound, msgNoCollege)
}

func (b *Backend) deleteCollege(ctx echo.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.colleges {
		if b.colleges[i].ID == ctx.Param("id") {
			b.colleges = append(b.colleges[:i], b.colleges[i+1:]...)
			return ctx.NoContent(http.StatusNoContent)
		}
	}
	return echo.NewHTTPError(http.StatusNotFound, msgNoCollege)
}
