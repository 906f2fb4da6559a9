package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pareto_backend/internal/services"
	"pareto_backend/internal/services/dto"
)

type EventHandler struct {
	*BaseHandler
	eventService services.EventService
}

func NewEventHandler(base *BaseHandler, eventService services.EventService) *EventHandler {
	return &EventHandler{
		BaseHandler:  base,
		eventService: eventService,
	}
}

func (h *EventHandler) RegisterRoutes(g RouteGroups) {
	admin := g.Admin.Group("/events")
	{
		admin.GET("", h.List)
		admin.POST("", h.Create)
		admin.PUT("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)
	}

	portal := g.Portal.Group("/events")
	{
		portal.GET("", h.List)
		portal.GET("/:id", h.Get)
	}
}

// List godoc
// @Summary Upcoming events, soonest first
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param past query bool false "List past events instead, latest first"
// @Success 200 {array} models.Event
// @Router /portal/events [get]
func (h *EventHandler) List(c *gin.Context) {
	var q dto.EventListQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	events, err := h.eventService.List(h.GetDB(c), q.Past)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) Get(c *gin.Context) {
	event, err := h.eventService.Get(h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// Create godoc
// @Summary Schedule an event
// @Tags admin-events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.EventRequest true "Event"
// @Success 201 {object} models.Event
// @Failure 400 {object} apperrors.AppError
// @Router /admin/events [post]
func (h *EventHandler) Create(c *gin.Context) {
	var req dto.EventRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	event, err := h.eventService.Create(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

func (h *EventHandler) Update(c *gin.Context) {
	var req dto.EventRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	event, err := h.eventService.Update(h.GetDB(c), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) Delete(c *gin.Context) {
	if err := h.eventService.Delete(h.GetDB(c), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
