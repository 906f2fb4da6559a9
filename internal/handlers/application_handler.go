package handlers

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pareto_backend/internal/review"
	"pareto_backend/internal/services"
	"pareto_backend/internal/services/dto"
)

// ApplicationHandler is the admin review console
type ApplicationHandler struct {
	*BaseHandler
	applicationService services.ApplicationService
}

func NewApplicationHandler(base *BaseHandler, applicationService services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		BaseHandler:        base,
		applicationService: applicationService,
	}
}

func (h *ApplicationHandler) RegisterRoutes(g RouteGroups) {
	apps := g.Admin.Group("/applications")
	{
		apps.GET("", h.List)
		apps.GET("/export", h.ExportCSV)
		apps.GET("/compare", h.Compare)
		apps.GET("/:id", h.Get)
		apps.PATCH("/:id/status", h.UpdateStatus)
		apps.POST("/:id/flag", h.ToggleFlag)
		apps.GET("/:id/neighbors", h.Neighbors)
		apps.POST("/:id/shortcut", h.Shortcut)
		apps.GET("/:id/documents", h.Documents)
	}
}

func (h *ApplicationHandler) filter(c *gin.Context, q *dto.ApplicationListQuery) (review.Filter, bool) {
	f, err := services.ParseFilter(q.Search, q.Facet)
	if err != nil {
		h.HandleServiceError(c, err)
		return review.Filter{}, false
	}
	return f, true
}

// List godoc
// @Summary List applications, newest first
// @Tags admin-applications
// @Produce json
// @Security BearerAuth
// @Param search query string false "Name, email, school or major"
// @Param facet query string false "all, pending, approved, rejected or flagged"
// @Success 200 {object} dto.ApplicationListResponse
// @Router /admin/applications [get]
func (h *ApplicationHandler) List(c *gin.Context) {
	var q dto.ApplicationListQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}
	f, ok := h.filter(c, &q)
	if !ok {
		return
	}

	apps, err := h.applicationService.List(h.GetDB(c), f)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ApplicationListResponse{Applications: apps, Total: len(apps)})
}

func (h *ApplicationHandler) Get(c *gin.Context) {
	app, err := h.applicationService.Get(h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

// UpdateStatus godoc
// @Summary Set the review status
// @Tags admin-applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param request body dto.UpdateStatusRequest true "pending, approved or rejected"
// @Success 200 {object} models.Application
// @Failure 400 {object} apperrors.AppError
// @Failure 404 {object} apperrors.AppError
// @Router /admin/applications/{id}/status [patch]
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	app, err := h.applicationService.UpdateStatus(h.GetDB(c), c.Param("id"), req.Status)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) ToggleFlag(c *gin.Context) {
	app, err := h.applicationService.ToggleFlag(h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

// Neighbors returns the previous and next ids within the filtered list
func (h *ApplicationHandler) Neighbors(c *gin.Context) {
	var q dto.ApplicationListQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}
	f, ok := h.filter(c, &q)
	if !ok {
		return
	}

	resp, err := h.applicationService.Neighbors(h.GetDB(c), c.Param("id"), f)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Shortcut godoc
// @Summary Run a keyboard shortcut on the open application
// @Description Keys: ArrowLeft, ArrowRight, a, r, p, f, Escape.
// @Tags admin-applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param request body dto.ShortcutRequest true "Key and the active filter"
// @Success 200 {object} dto.ShortcutResponse
// @Router /admin/applications/{id}/shortcut [post]
func (h *ApplicationHandler) Shortcut(c *gin.Context) {
	var req dto.ShortcutRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	f, ok := h.filter(c, &dto.ApplicationListQuery{Search: req.Search, Facet: req.Facet})
	if !ok {
		return
	}

	resp, err := h.applicationService.ExecuteShortcut(h.GetDB(c), c.Param("id"), req.Key, f)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ApplicationHandler) Compare(c *gin.Context) {
	var q dto.CompareQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}
	f, ok := h.filter(c, &q.ApplicationListQuery)
	if !ok {
		return
	}

	apps, err := h.applicationService.Compare(h.GetDB(c), f, q.N)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ApplicationListResponse{Applications: apps, Total: len(apps)})
}

// ExportCSV godoc
// @Summary Download the filtered applications as CSV
// @Tags admin-applications
// @Produce text/csv
// @Security BearerAuth
// @Param search query string false "Name, email, school or major"
// @Param facet query string false "all, pending, approved, rejected or flagged"
// @Success 200 {file} file
// @Router /admin/applications/export [get]
func (h *ApplicationHandler) ExportCSV(c *gin.Context) {
	var q dto.ApplicationListQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}
	f, ok := h.filter(c, &q)
	if !ok {
		return
	}

	// buffered so a failure can still produce a JSON error
	var buf bytes.Buffer
	rows, err := h.applicationService.ExportCSV(h.GetDB(c), f, &buf)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+review.CSVFilename+`"`)
	c.Header("X-Total-Count", strconv.Itoa(rows))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// Documents godoc
// @Summary Short-lived links to the application's documents
// @Tags admin-applications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {object} dto.DocumentLinksResponse
// @Router /admin/applications/{id}/documents [get]
func (h *ApplicationHandler) Documents(c *gin.Context) {
	resp, err := h.applicationService.DocumentLinks(c.Request.Context(), h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
