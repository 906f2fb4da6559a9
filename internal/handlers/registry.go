package handlers

// AppHandlers holds every HTTP handler of the main API
type AppHandlers struct {
	PublicHandler      *PublicHandler
	IntakeHandler      *IntakeHandler
	AuthHandler        *AuthHandler
	ApplicationHandler *ApplicationHandler
	AnalyticsHandler   *AnalyticsHandler
	EventHandler       *EventHandler
	OpportunityHandler *OpportunityHandler
	UserHandler        *UserHandler
	ProfileHandler     *ProfileHandler
	// nil unless storage is local
	FileHandler *FileHandler
}

// RegisterRoutes attaches every handler to its groups
func (h *AppHandlers) RegisterRoutes(g RouteGroups) {
	h.PublicHandler.RegisterRoutes(g)
	h.IntakeHandler.RegisterRoutes(g)
	h.AuthHandler.RegisterRoutes(g)
	h.ApplicationHandler.RegisterRoutes(g)
	h.AnalyticsHandler.RegisterRoutes(g)
	h.EventHandler.RegisterRoutes(g)
	h.OpportunityHandler.RegisterRoutes(g)
	h.UserHandler.RegisterRoutes(g)
	h.ProfileHandler.RegisterRoutes(g)
}
