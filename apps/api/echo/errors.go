package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/Shakso89/pokeayman-16-sub001/core"
	"github.com/Shakso89/pokeayman-16-sub001/core/assignment"
	"github.com/Shakso89/pokeayman-16-sub001/core/ledger"
	"github.com/Shakso89/pokeayman-16-sub001/core/organization"
	"github.com/Shakso89/pokeayman-16-sub001/core/pool"
	"github.com/Shakso89/pokeayman-16-sub001/core/reward"
	"github.com/Shakso89/pokeayman-16-sub001/core/wheel"
)

var (
	errUnauthorized   = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errNoOrganization = echo.NewHTTPError(http.StatusForbidden, "identity has no organization")
	errHttpForbidden  = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errHttpNotFound   = echo.NewHTTPError(http.StatusNotFound, "not found")
)

// domainErrCodes maps engine sentinels to HTTP status codes.
var domainErrCodes = map[error]int{
	organization.ErrNotFound: http.StatusNotFound,

	pool.ErrNotFound:           http.StatusNotFound,
	pool.ErrAlreadyClaimed:     http.StatusConflict,
	pool.ErrDuplicateEntry:     http.StatusConflict,
	pool.ErrCatalogUnavailable: http.StatusServiceUnavailable,

	assignment.ErrNotFound:      http.StatusNotFound,
	assignment.ErrRaceLost:      http.StatusConflict,
	assignment.ErrAlreadyHeld:   http.StatusConflict,
	assignment.ErrNoneAvailable: http.StatusNotFound,

	ledger.ErrInsufficientFunds: http.StatusPaymentRequired,
	ledger.ErrInvalidAmount:     http.StatusBadRequest,
	ledger.ErrBalanceOverflow:   http.StatusConflict,

	wheel.ErrRefreshLimitReached: http.StatusTooManyRequests,

	reward.ErrAlreadyResolved: http.StatusConflict,
	reward.ErrNotFound:        http.StatusNotFound,
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		cause := errors.Cause(err)
		switch origErr := cause.(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				message = origErr.Message
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			code = http.StatusBadRequest
			message = core.TranslateErrors(origErr, translator)
		case *core.ValidationError:
			code = http.StatusBadRequest
			if flds := origErr.FieldMap(); flds != nil {
				message = flds
			} else {
				message = origErr.Error()
			}
		default:
			if c, ok := domainErrCodes[cause]; ok {
				code = c
				message = cause.Error()
				break
			}

			// any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg

			var id core.Identity
			if claims, cErr := getContextClaims(ctx); cErr == nil {
				id = claims.Identity()
			}
			logger.Error(msg, errors.Wrap(err, msg), id)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		} else if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
