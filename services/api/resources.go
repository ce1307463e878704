package apisvc

import (
	"context"
	"net/url"

	"github.com/sendgrid/rest"

	"github.com/trezcool/mediateam/core/application"
	"github.com/trezcool/mediateam/core/auth"
	"github.com/trezcool/mediateam/core/college"
)

var (
	_ auth.Gateway        = (*Client)(nil)
	_ application.Gateway = (*Client)(nil)
	_ college.Gateway     = (*Client)(nil)
)

func (c *Client) Login(ctx context.Context, creds auth.Credentials) (auth.LoginResult, error) {
	var res auth.LoginResult
	err := c.do(ctx, rest.Post, "/users/login", creds, &res)
	return res, err
}

func (c *Client) ListApplications(ctx context.Context) ([]application.Application, error) {
	var apps []application.Application
	err := c.do(ctx, rest.Get, "/applications", nil, &apps)
	return apps, err
}

func (c *Client) ListColleges(ctx context.Context) ([]college.College, error) {
	var colleges []college.College
	err := c.do(ctx, rest.Get, "/colleges", nil, &colleges)
	return colleges, err
}

func (c *Client) CreateCollege(ctx context.Context, form college.Form) (college.College, error) {
	var created college.College
	err := c.do(ctx, rest.Post, "/colleges", form, &created)
	return created, err
}

func (c *Client) UpdateCollege(ctx context.Context, id string, form college.Form) (college.College, error) {
	var updated college.College
	err := c.do(ctx, rest.Put, "/colleges/"+url.PathEscape(id), form, &updated)
	return updated, err
}

func (c *Client) DeleteCollege(ctx context.Context, id string) error {
	return c.do(ctx, rest.Delete, "/colleges/"+url.PathEscape(id), nil, nil)
}
