package api

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/aulaflow/scheduler/internal/model"
	"github.com/aulaflow/scheduler/internal/scheduling"
)

// newHTTPErrorHandler maps domain errors to transport codes. Booking error
// kinds drive the status; StoreUnavailable is the only retryable condition
// and surfaces as 503.
func newHTTPErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		var (
			code    int
			message interface{}
		)

		var bookingErr *scheduling.Error
		var fieldErrs validator.ValidationErrors
		var httpErr *echo.HTTPError

		switch {
		case errors.As(err, &bookingErr):
			code = statusForKind(bookingErr.Kind)
			message = bookingErr.Msg
			if code >= http.StatusInternalServerError {
				logger.Error("booking operation failed", zap.Error(err))
			}
		case errors.As(err, &fieldErrs):
			flds := make(map[string]string, len(fieldErrs))
			for _, fe := range fieldErrs {
				flds[fe.Field()] = fe.Translate(translator)
			}
			code = http.StatusBadRequest
			message = flds
		case errors.Is(err, model.ErrNotFound):
			code = http.StatusNotFound
			message = "not found"
		case errors.Is(err, model.ErrCPFExists):
			code = http.StatusConflict
			message = model.ErrCPFExists.Error()
		case errors.As(err, &httpErr):
			code = httpErr.Code
			message = httpErr.Message
		default:
			code = http.StatusInternalServerError
			message = http.StatusText(code)
			logger.Error("unhandled error", zap.Error(err))
		}

		if m, ok := message.(string); ok {
			message = echo.Map{"message": m}
		} else if flds, ok := message.(map[string]string); ok {
			message = echo.Map{"fields": flds}
		}

		var sendErr error
		if ctx.Request().Method == http.MethodHead {
			sendErr = ctx.NoContent(code)
		} else {
			sendErr = ctx.JSON(code, message)
		}
		if sendErr != nil {
			logger.Error("failed to write error response", zap.Error(sendErr))
		}
	}
}

func statusForKind(kind scheduling.Kind) int {
	switch kind {
	case scheduling.KindNotFound:
		return http.StatusNotFound
	case scheduling.KindLeadTime,
		scheduling.KindCapacity,
		scheduling.KindTerminalState,
		scheduling.KindValidation:
		return http.StatusBadRequest
	case scheduling.KindUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
