package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"pareto_backend/internal/logger"
	"pareto_backend/internal/middleware"
	"pareto_backend/internal/models"
	"pareto_backend/internal/services/dto"
	"pareto_backend/internal/validator"
	"pareto_backend/pkg/apperrors"
	"pareto_backend/pkg/contextkeys"
)

// maxMultipartMemory - the rest of a multipart body spills to temp files
const maxMultipartMemory = 8 << 20

type BaseHandler struct {
	validator *validator.Validator
}

func NewBaseHandler(v *validator.Validator) *BaseHandler {
	return &BaseHandler{
		validator: v,
	}
}

// RouteGroups are the router groups handlers attach to. Each group already
// carries its auth middleware.
type RouteGroups struct {
	Public  *gin.RouterGroup // no session
	Session *gin.RouterGroup // any signed-in user, temporary password allowed
	Portal  *gin.RouterGroup // fellow, alumni and staff
	Admin   *gin.RouterGroup // admin and super_admin
}

// GetDB returns the *gorm.DB (pool or transaction) DBMiddleware put on the context
func (h *BaseHandler) GetDB(c *gin.Context) *gorm.DB {
	dbKey := string(contextkeys.DBContextKey)

	val, ok := c.Get(dbKey)
	if !ok {
		logger.CtxError(c.Request.Context(), "critical error: db key not found in context", "key", dbKey)
		panic("critical error: DBMiddleware did not set the db key")
	}

	db, ok := val.(*gorm.DB)
	if !ok {
		logger.CtxError(c.Request.Context(), "critical error: db in context is not *gorm.DB", "key", dbKey, "type", fmt.Sprintf("%T", val))
		panic("critical error: db in context has incorrect type")
	}

	return db
}

func (h *BaseHandler) BindAndValidate_JSON(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := c.ShouldBindJSON(obj); err != nil {
		logger.CtxWithError(ctx, "Failed to bind JSON body", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
		return false
	}
	return h.validate(c, obj)
}

func (h *BaseHandler) BindAndValidate_Query(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := c.ShouldBindQuery(obj); err != nil {
		logger.CtxWithError(ctx, "Failed to bind query params", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid query parameters: "+err.Error()))
		return false
	}
	return h.validate(c, obj)
}

func (h *BaseHandler) validate(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := h.validator.Validate(obj); err != nil {
		if vErr, ok := err.(*validator.ValidationError); ok {
			logger.CtxWarn(ctx, "Validation failed", "errors", vErr.Errors, "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.ValidationError(vErr.Errors))
		} else {
			logger.CtxWithError(ctx, "Internal validator error", err, "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.InternalError(err))
		}
		return false
	}
	return true
}

// BindMultipartPayload reads the JSON document in the "payload" form field
// of a multipart request into obj.
func (h *BaseHandler) BindMultipartPayload(c *gin.Context, obj interface{}) bool {
	if err := c.Request.ParseMultipartForm(maxMultipartMemory); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid multipart body: "+err.Error()))
		return false
	}
	raw := c.Request.FormValue("payload")
	if raw == "" {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Missing payload field"))
		return false
	}
	if err := json.Unmarshal([]byte(raw), obj); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid payload: "+err.Error()))
		return false
	}
	return true
}

// FormFile returns the upload in field, or nil when the field is absent.
func FormFile(c *gin.Context, field string) *dto.FileUpload {
	fh, err := c.FormFile(field)
	if err != nil {
		if err != http.ErrMissingFile {
			logger.CtxWarn(c.Request.Context(), "Unreadable form file", "field", field, "error", err)
		}
		return nil
	}
	return dto.FromMultipart(fh)
}

func isMultipart(c *gin.Context) bool {
	return c.ContentType() == gin.MIMEMultipartPOSTForm
}

func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) {
		if appErr.HTTPCode >= http.StatusInternalServerError {
			logger.CtxWithError(ctx, "Service error", err, "path", c.Request.URL.Path)
		} else {
			logger.CtxWarn(ctx, "Service error",
				"error", appErr.Message,
				"details", appErr.Details,
				"path", c.Request.URL.Path,
			)
		}
		apperrors.HandleError(c, appErr)
	} else {
		logger.CtxWithError(ctx, "Internal server error", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.InternalError(err))
	}
}

func (h *BaseHandler) GetAndAuthorizeUserID(c *gin.Context) (string, bool) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		logger.CtxWarn(c.Request.Context(), "Unauthorized access: userID not found in context",
			"path", c.Request.URL.Path,
			"ip", c.ClientIP(),
		)
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("User not authenticated"))
		return "", false
	}
	return userID, true
}

func (h *BaseHandler) GetRole(c *gin.Context) models.Role {
	return middleware.GetRole(c)
}

func ParseQueryInt(c *gin.Context, key string, defaultValue int) int {
	valueStr := c.Query(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func ParseParamInt(c *gin.Context, key string) (int, error) {
	valueStr := c.Param(key)
	if valueStr == "" {
		return 0, apperrors.NewBadRequestError("Missing required path parameter: " + key)
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, apperrors.NewBadRequestError("Invalid path parameter: " + key + " is not an integer")
	}
	return value, nil
}
