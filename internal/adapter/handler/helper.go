package handler

import (
	stdErrors "errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/voice-memo/errors"
	"github.com/johnquangdev/voice-memo/internal/adapter/dto/common"
	usecaseErrors "github.com/johnquangdev/voice-memo/internal/usecase/errors"
	pkgai "github.com/johnquangdev/voice-memo/pkg/ai"
)

// getRequestID reads the request ID set by the RequestID middleware, falling back to the client header
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}

// toAppError translates usecase, validation and provider errors into the API taxonomy
func toAppError(c echo.Context, err error) errors.AppError {
	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		return appErr
	}

	var verrs validator.ValidationErrors
	if stdErrors.As(err, &verrs) {
		out := errors.ErrInvalidArgument("Validation failed")
		for _, fe := range verrs {
			out = out.WithDetail(fe.Field(), fe.Tag())
		}
		return out
	}

	var httpErr *echo.HTTPError
	if stdErrors.As(err, &httpErr) {
		switch httpErr.Code {
		case http.StatusRequestEntityTooLarge:
			return errors.AppError{HTTPCode: http.StatusRequestEntityTooLarge, Code: errors.ErrorCode_PAYLOAD_TOO_LARGE, Message: "File too large"}
		case http.StatusBadRequest, http.StatusUnsupportedMediaType:
			return errors.ErrInvalidPayload()
		case http.StatusNotFound:
			return errors.ErrNotFound("Route")
		case http.StatusTooManyRequests:
			return errors.ErrRateLimited()
		}
		if httpErr.Code < http.StatusInternalServerError {
			return errors.AppError{HTTPCode: httpErr.Code, Code: errors.ErrorCode_INVALID_ARGUMENT, Message: http.StatusText(httpErr.Code)}
		}
	}

	switch {
	case stdErrors.Is(err, usecaseErrors.ErrMemoNotFound):
		return errors.ErrMemoNotFound(c.Param("id"))
	case stdErrors.Is(err, usecaseErrors.ErrCommentNotFound):
		return errors.ErrCommentNotFound(c.Param("commentId"))
	case stdErrors.Is(err, usecaseErrors.ErrNotFound):
		return errors.ErrNotFound("Resource")
	case stdErrors.Is(err, usecaseErrors.ErrInvalidInput):
		return errors.ErrInvalidArgument(err.Error())
	case stdErrors.Is(err, usecaseErrors.ErrStorageUnavailable):
		return errors.ErrStorageUnavailable()
	case stdErrors.Is(err, usecaseErrors.ErrQAUnavailable):
		return errors.ErrServiceUnavailable("Question answering")
	case stdErrors.Is(err, usecaseErrors.ErrTranscriptNotReady):
		return errors.ErrTranscriptNotReady(c.Param("id"))
	}

	var providerErr *pkgai.ProviderError
	if stdErrors.As(err, &providerErr) {
		return errors.ErrAIServiceUnavailable(providerErr.Provider)
	}

	return errors.ErrInternal(err)
}

// HandleSuccess writes data as the JSON body with the given status
func HandleSuccess(logger *zap.Logger, c echo.Context, status int, data interface{}) error {
	if logger != nil {
		logger.Debug("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
			zap.Int("status", status),
		)
	}
	return c.JSON(status, data)
}

// HandleError centralizes error handling and logging. The cause is logged, never returned.
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	appErr := toAppError(c, err)

	if logger != nil {
		fields := []zap.Field{
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
			zap.Stringer("app_code", appErr.Code),
			zap.Error(err),
		}
		if appErr.HTTPCode >= http.StatusInternalServerError {
			logger.Error("http.response.error", fields...)
		} else {
			logger.Info("http.response.error", fields...)
		}
	}

	message := appErr.Message
	if appErr.Code == errors.ErrorCode_INTERNAL {
		message = "Internal server error"
	}

	return c.JSON(appErr.HTTPCode, common.ErrorResponse{
		Code:    appErr.Code,
		Message: message,
		Details: appErr.Details,
	})
}

// NewHTTPErrorHandler routes errors returned by middleware and unknown routes through HandleError
func NewHTTPErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(toAppError(c, err).HTTPCode)
			return
		}
		_ = HandleError(logger, c, err)
	}
}
