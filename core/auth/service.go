package auth

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/mediateam/core"
	"github.com/trezcool/mediateam/core/query"
	"github.com/trezcool/mediateam/core/session"
)

const loginKind = "auth.login"

type Service struct {
	gw        Gateway
	query     *query.Client
	validate  *validator.Validate
	resources []string
}

// NewService returns the login service. resources are the cached collections dropped on logout.
func NewService(gw Gateway, q *query.Client, validate *validator.Validate, resources ...string) *Service {
	return &Service{gw: gw, query: q, validate: validate, resources: resources}
}

// Login validates creds, exchanges them for a token and stores it in h.
// The token is stored before the redirect target is returned.
func (svc *Service) Login(ctx context.Context, h session.Holder, creds Credentials) (LoginResult, string, error) {
	if err := creds.Validate(svc.validate); err != nil {
		return LoginResult{}, "", err
	}

	done, err := svc.query.Begin(query.Key(loginKind, creds.Email))
	if err != nil {
		return LoginResult{}, "", err
	}
	defer done()

	res, err := svc.gw.Login(ctx, creds)
	if err != nil {
		return LoginResult{}, "", errors.Wrap(err, "logging in")
	}
	if res.Token == "" {
		return LoginResult{}, "", core.NewAPIError(core.KindDecode, 0, "", errors.New("login response without token"))
	}

	if err := h.SetToken(res.Token); err != nil {
		return LoginResult{}, "", errors.Wrap(err, "storing token")
	}
	return res, HomePath, nil
}

// Logout forgets the token of h and the collections cached for it.
func (svc *Service) Logout(ctx context.Context, h session.Holder) error {
	token := h.Token()
	if err := h.Clear(); err != nil {
		return errors.Wrap(err, "clearing token")
	}
	if token == "" || len(svc.resources) == 0 {
		return nil
	}

	keys := make([]string, len(svc.resources))
	for i, r := range svc.resources {
		keys[i] = query.Key(r, token)
	}
	return svc.query.Invalidate(ctx, keys...)
}

// LoginErrorMessage is the message shown for a failed login.
func LoginErrorMessage(err error) string {
	return core.ErrorMessage(err, FailedMessage)
}
