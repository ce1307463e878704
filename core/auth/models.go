// Package auth implements the staff login flow.
package auth

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/mediateam/core"
)

// HomePath is where a successful login lands.
const HomePath = "/"

// FailedMessage is shown when the backend rejects a login without a message of its own.
const FailedMessage = "البريد الإلكتروني أو كلمة المرور غير صحيحة"

type (
	Credentials struct {
		Email    string `json:"email" form:"email" validate:"loginemail"`
		Password string `json:"password" form:"password" validate:"pwdminlen"`
	}

	User struct {
		ID    string `json:"id,omitempty"`
		Email string `json:"email,omitempty"`
		Name  string `json:"name,omitempty"`
	}

	LoginResult struct {
		Token string `json:"token"`
		User  *User  `json:"user,omitempty"`
	}

	// Gateway is the backend port for authentication.
	Gateway interface {
		Login(ctx context.Context, creds Credentials) (LoginResult, error)
	}
)

func (c *Credentials) Validate(validate *validator.Validate) error {
	c.Email = core.CleanString(c.Email)
	return validate.Struct(c)
}
