package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pareto_backend/internal/services"
	"pareto_backend/internal/services/dto"
)

// UserHandler - staff account management
type UserHandler struct {
	*BaseHandler
	accountService services.AccountService
}

func NewUserHandler(base *BaseHandler, accountService services.AccountService) *UserHandler {
	return &UserHandler{
		BaseHandler:    base,
		accountService: accountService,
	}
}

func (h *UserHandler) RegisterRoutes(g RouteGroups) {
	users := g.Admin.Group("/users")
	{
		users.POST("/approved", h.CreateApprovedUser)
		users.PUT("/:id/role", h.AssignRole)
	}
}

// CreateApprovedUser godoc
// @Summary Create the fellow account for an approved applicant
// @Description Idempotent. Emails the temporary password after the account is committed.
// @Tags admin-users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateApprovedUserRequest true "Applicant name and email"
// @Success 200 {object} dto.CreateApprovedUserResult
// @Failure 400 {object} apperrors.AppError
// @Router /admin/users/approved [post]
func (h *UserHandler) CreateApprovedUser(c *gin.Context) {
	var req dto.CreateApprovedUserRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	res, err := h.accountService.CreateApprovedUser(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// AssignRole - super_admin only, checked by the service
func (h *UserHandler) AssignRole(c *gin.Context) {
	var req dto.AssignRoleRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.accountService.AssignRole(h.GetDB(c), h.GetRole(c), c.Param("id"), req.Role)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
