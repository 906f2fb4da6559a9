package apperrors

import (
	"github.com/gin-gonic/gin"

	"pareto_backend/internal/logger"
)

// ErrorResponse - standard error body
type ErrorResponse struct {
	Error *AppError `json:"error"`
}

// GinErrorHandler - error writer for gin
type GinErrorHandler struct {
	Debug bool
}

// HandleGinError writes err as JSON with its HTTP status
func (h *GinErrorHandler) HandleGinError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError(err)
	}
	if appErr.HTTPCode >= 500 && !h.Debug {
		// hide internals in production
		hidden := *appErr
		hidden.Details = nil
		appErr = &hidden
	}

	if appErr.HTTPCode >= 500 {
		logger.CtxError(c.Request.Context(), "Server error", "error", appErr.Error())
	}

	c.AbortWithStatusJSON(appErr.HTTPCode, ErrorResponse{Error: appErr})
}

// debugErrors is switched off by the app in production
var debugErrors = true

// SetDebug toggles detailed 5xx payloads
func SetDebug(debug bool) {
	debugErrors = debug
}

// HandleError - shortcut used by handlers and middleware
func HandleError(c *gin.Context, err error) {
	handler := &GinErrorHandler{Debug: debugErrors}
	handler.HandleGinError(c, err)
}

// AsAppError tries to convert err into *AppError
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
