package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pareto_backend/internal/content"
)

// PublicHandler serves the static catalogue behind the marketing pages
type PublicHandler struct {
	*BaseHandler
	catalogue *content.Catalogue
}

func NewPublicHandler(base *BaseHandler, catalogue *content.Catalogue) *PublicHandler {
	return &PublicHandler{
		BaseHandler: base,
		catalogue:   catalogue,
	}
}

func (h *PublicHandler) RegisterRoutes(g RouteGroups) {
	public := g.Public.Group("/public")
	{
		public.GET("/mentors", h.Mentors)
		public.GET("/testimonials", h.Testimonials)
	}
}

// Mentors godoc
// @Summary List mentors
// @Tags public
// @Produce json
// @Success 200 {array} content.Mentor
// @Router /public/mentors [get]
func (h *PublicHandler) Mentors(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalogue.Mentors)
}

// Testimonials godoc
// @Summary List alumni testimonials
// @Tags public
// @Produce json
// @Success 200 {array} content.Testimonial
// @Router /public/testimonials [get]
func (h *PublicHandler) Testimonials(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalogue.Testimonials)
}
