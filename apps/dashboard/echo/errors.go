package echodash

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mediateam/core"
	"github.com/trezcool/mediateam/core/auth"
	"github.com/trezcool/mediateam/core/session"
)

const (
	msgSessionExpired  = "انتهت الجلسة، يرجى تسجيل الدخول مجددًا"
	msgServerError     = "حدث خطأ غير متوقع. حاول مرة أخرى."
	msgNotFound        = "الصفحة غير موجودة"
	msgInvalidInput    = "البيانات المدخلة غير صالحة"
	msgTooManyAttempts = "محاولات كثيرة، يرجى المحاولة لاحقًا"
)

var errTooManyAttempts = echo.NewHTTPError(http.StatusTooManyRequests, msgTooManyAttempts)

// statusFor maps a failed backend call to the status of the page reporting it.
func statusFor(err error) int {
	if errors.Cause(err) == core.ErrInFlight {
		return http.StatusConflict
	}
	apiErr, ok := core.AsAPIError(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch apiErr.Kind {
	case core.KindNotFound:
		return http.StatusNotFound
	case core.KindRejected:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, authSvc *auth.Service, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		var code int
		var message string

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			code = origErr.Code
			if msg, ok := origErr.Message.(string); ok && code != http.StatusNotFound {
				message = msg
			} else {
				message = msgNotFound
			}
		case validator.ValidationErrors, *core.ValidationError:
			code = http.StatusUnprocessableEntity
			message = msgInvalidInput
		case *core.APIError:
			if origErr.Kind == core.KindUnauthorized {
				forceLogout(ctx, authSvc, logger)
				return
			}
			code = statusFor(origErr)
			message = core.ErrorMessage(origErr, "")
		default: // any other error is a server error
			code = http.StatusInternalServerError
			message = msgServerError
			logger.Error(http.StatusText(code), errors.Wrap(err, ctx.Request().URL.Path), contextPerson(ctx))

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug && code == http.StatusInternalServerError {
			message = fmt.Sprintf("%+v", err)
		}

		if ctx.Request().Method == http.MethodHead { // Issue #608
			err = ctx.NoContent(code)
		} else {
			err = ctx.Render(code, "error.html", newPage(ctx, "خطأ", "", errorData{Code: code, Message: message}))
		}
		if err != nil {
			ctx.Echo().Logger.Error(err)
		}
	}
}

// forceLogout ends a session the backend no longer accepts.
func forceLogout(ctx echo.Context, authSvc *auth.Service, logger core.Logger) {
	if h := getContextHolder(ctx); h != nil {
		if err := authSvc.Logout(ctx.Request().Context(), h); err != nil {
			logger.Warn("logging out rejected session", err)
		}
		_ = h.AddFlash(msgSessionExpired)
	}
	if err := ctx.Redirect(http.StatusSeeOther, session.LoginPath); err != nil {
		ctx.Echo().Logger.Error(err)
	}
}
