// Package apisvc is the typed client of the recruitment REST backend.
package apisvc

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/trezcool/mediateam/core"
	"github.com/trezcool/mediateam/core/session"
)

type (
	// RequestHook runs on every outgoing request before it is sent.
	RequestHook func(ctx context.Context, req *rest.Request)

	// TokenFunc returns the current session token, "" when there is none.
	TokenFunc func(ctx context.Context) string

	Client struct {
		baseURL string
		rest    *rest.Client
		hooks   []RequestHook
	}
)

func NewClient(conf core.BackendConfig, hooks ...RequestHook) *Client {
	return &Client{
		baseURL: strings.TrimRight(conf.BaseURL, "/"),
		rest:    &rest.Client{HTTPClient: &http.Client{Timeout: conf.Timeout}},
		hooks:   hooks,
	}
}

// BearerAuth sets "Authorization: Bearer <token>" when token returns a non-empty token.
func BearerAuth(token TokenFunc) RequestHook {
	return func(ctx context.Context, req *rest.Request) {
		if t := token(ctx); t != "" {
			req.Headers["Authorization"] = "Bearer " + t
		}
	}
}

// HolderToken reads the token from a fixed holder.
func HolderToken(h session.Holder) TokenFunc {
	return func(context.Context) string {
		return h.Token()
	}
}

// ContextToken reads the token from the holder carried by the request context.
var ContextToken TokenFunc = session.TokenFromContext

type errorBody struct {
	Message json.RawMessage `json:"message"`
}

// serverMessage extracts the "message" field of an error body. Some backends send a list of messages.
func serverMessage(body string) string {
	var eb errorBody
	if err := json.Unmarshal([]byte(body), &eb); err != nil || len(eb.Message) == 0 {
		return ""
	}
	var msg string
	if err := json.Unmarshal(eb.Message, &msg); err == nil {
		return msg
	}
	var msgs []string
	if err := json.Unmarshal(eb.Message, &msgs); err == nil {
		return strings.Join(msgs, "\n")
	}
	return ""
}

// do sends in as JSON and decodes the response into out. Every failure is a *core.APIError.
func (c *Client) do(ctx context.Context, method rest.Method, path string, in, out interface{}) error {
	req := rest.Request{
		Method:      method,
		BaseURL:     c.baseURL + path,
		Headers:     map[string]string{"Accept": "application/json"},
		QueryParams: map[string]string{},
	}
	if in != nil {
		body, err := json.Marshal(in)
		if err != nil {
			return core.NewAPIError(core.KindDecode, 0, "", errors.Wrap(err, "encoding request"))
		}
		req.Body = body
		req.Headers["Content-Type"] = "application/json"
	}
	for _, hook := range c.hooks {
		hook(ctx, &req)
	}

	res, err := c.rest.SendWithContext(ctx, req)
	if err != nil {
		return core.NewAPIError(core.KindNetwork, 0, "", errors.Wrapf(err, "%s %s", method, path))
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return core.NewAPIError(
			core.KindForStatus(res.StatusCode),
			res.StatusCode,
			serverMessage(res.Body),
			errors.Errorf("%s %s: status %d", method, path, res.StatusCode),
		)
	}

	if out == nil || strings.TrimSpace(res.Body) == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(res.Body), out); err != nil {
		return core.NewAPIError(core.KindDecode, res.StatusCode, "", errors.Wrapf(err, "decoding %s %s", method, path))
	}
	return nil
}
