package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/mediateam/core"
	"github.com/trezcool/mediateam/core/auth"
)

func (cli *commandLine) login(email, pwd string) error {
	ctx := context.Background()
	res, _, err := cli.authSvc.Login(ctx, cli.holder, auth.Credentials{Email: email, Password: pwd})
	if err != nil {
		if core.FieldErrors(err, cli.translator) != nil || errors.Cause(err) == core.ErrInFlight {
			return err
		}
		return errors.New(auth.LoginErrorMessage(err))
	}

	if res.User != nil && res.User.Email != "" {
		fmt.Fprintf(cli.out, "تم تسجيل الدخول: %s\n", res.User.Email)
	} else {
		fmt.Fprintln(cli.out, "تم تسجيل الدخول")
	}
	return nil
}

func (cli *commandLine) logout() error {
	if err := cli.authSvc.Logout(context.Background(), cli.holder); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "تم تسجيل الخروج")
	return nil
}
