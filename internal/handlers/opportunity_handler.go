package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"pareto_backend/internal/services"
	"pareto_backend/internal/services/dto"
	"pareto_backend/pkg/apperrors"
)

type OpportunityHandler struct {
	*BaseHandler
	opportunityService services.OpportunityService
}

func NewOpportunityHandler(base *BaseHandler, opportunityService services.OpportunityService) *OpportunityHandler {
	return &OpportunityHandler{
		BaseHandler:        base,
		opportunityService: opportunityService,
	}
}

func (h *OpportunityHandler) RegisterRoutes(g RouteGroups) {
	admin := g.Admin.Group("/opportunities")
	{
		admin.GET("", h.List)
		admin.POST("", h.Create)
		admin.PUT("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)
	}

	portal := g.Portal.Group("/opportunities")
	{
		portal.GET("", h.List)
		portal.GET("/:id", h.Get)
		portal.POST("/:id/apply", h.Apply)
	}
}

// bindRequest accepts JSON, or multipart form fields plus an optional "logo" file.
func (h *OpportunityHandler) bindRequest(c *gin.Context) (*dto.OpportunityRequest, bool) {
	var req dto.OpportunityRequest
	if !isMultipart(c) {
		if !h.BindAndValidate_JSON(c, &req) {
			return nil, false
		}
		return &req, true
	}

	if err := c.ShouldBind(&req); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid form: "+err.Error()))
		return nil, false
	}
	// "tags" may come as one comma separated field
	if len(req.Tags) == 1 && strings.Contains(req.Tags[0], ",") {
		req.Tags = strings.Split(req.Tags[0], ",")
	}
	req.Logo = FormFile(c, "logo")
	if !h.validate(c, &req) {
		return nil, false
	}
	return &req, true
}

// List godoc
// @Summary Opportunities, featured first
// @Tags opportunities
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Opportunity
// @Router /portal/opportunities [get]
func (h *OpportunityHandler) List(c *gin.Context) {
	opps, err := h.opportunityService.List(h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, opps)
}

func (h *OpportunityHandler) Get(c *gin.Context) {
	opp, err := h.opportunityService.Get(h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, opp)
}

// Create godoc
// @Summary Post an opportunity
// @Description JSON, or multipart/form-data with an optional "logo" image.
// @Tags admin-opportunities
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param request body dto.OpportunityRequest true "Opportunity"
// @Success 201 {object} models.Opportunity
// @Failure 400 {object} apperrors.AppError
// @Router /admin/opportunities [post]
func (h *OpportunityHandler) Create(c *gin.Context) {
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}

	opp, err := h.opportunityService.Create(c.Request.Context(), h.GetDB(c), req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, opp)
}

func (h *OpportunityHandler) Update(c *gin.Context) {
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}

	opp, err := h.opportunityService.Update(c.Request.Context(), h.GetDB(c), c.Param("id"), req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, opp)
}

func (h *OpportunityHandler) Delete(c *gin.Context) {
	if err := h.opportunityService.Delete(h.GetDB(c), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Apply godoc
// @Summary Express interest in an opportunity
// @Description Emails the opportunity contact, or the program team when none is set. Nothing is stored.
// @Tags opportunities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Opportunity ID"
// @Param request body dto.ApplyRequest false "Message"
// @Success 200 {object} dto.MessageResponse
// @Router /portal/opportunities/{id}/apply [post]
func (h *OpportunityHandler) Apply(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ApplyRequest
	if c.Request.ContentLength != 0 && !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.opportunityService.Apply(c.Request.Context(), h.GetDB(c), c.Param("id"), userID, req.Message); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Your interest has been sent"})
}
