package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pareto_backend/internal/services"
	"pareto_backend/internal/services/dto"
	"pareto_backend/internal/wizard"
	"pareto_backend/pkg/apperrors"
)

// ProfileHandler - fellow directory, own profile and the onboarding wizard
type ProfileHandler struct {
	*BaseHandler
	profileService services.ProfileService
}

func NewProfileHandler(base *BaseHandler, profileService services.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler:    base,
		profileService: profileService,
	}
}

func (h *ProfileHandler) RegisterRoutes(g RouteGroups) {
	portal := g.Portal
	{
		portal.GET("/fellows", h.Directory)
		portal.GET("/fellows/:id", h.GetFellow)

		portal.GET("/profile", h.GetOwn)
		portal.PUT("/profile", h.Update)

		portal.GET("/onboarding", h.OnboardingForm)
		portal.POST("/onboarding/steps/:step/validate", h.ValidateStep)
		portal.POST("/onboarding", h.CompleteOnboarding)
	}
}

// Directory godoc
// @Summary Onboarded fellows, by last name
// @Tags portal
// @Produce json
// @Security BearerAuth
// @Param search query string false "Name, university, major or company"
// @Success 200 {object} dto.DirectoryResponse
// @Router /portal/fellows [get]
func (h *ProfileHandler) Directory(c *gin.Context) {
	var q dto.DirectoryQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	fellows, err := h.profileService.Directory(h.GetDB(c), q.Search)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.DirectoryResponse{Fellows: fellows, Total: len(fellows)})
}

func (h *ProfileHandler) GetFellow(c *gin.Context) {
	profile, err := h.profileService.GetByID(h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) GetOwn(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetOwn(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// OnboardingForm returns the wizard pre-filled from the stored profile
func (h *ProfileHandler) OnboardingForm(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	form, err := h.profileService.OnboardingForm(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, form)
}

func (h *ProfileHandler) ValidateStep(c *gin.Context) {
	step, ok := h.parseStep(c, wizard.OnboardingLastStep)
	if !ok {
		return
	}

	var form wizard.OnboardingForm
	if err := c.ShouldBindJSON(&form); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, h.profileService.ValidateOnboardingStep(step, &form))
}

// Update godoc
// @Summary Edit the own profile
// @Description JSON body, or multipart/form-data with a "payload" JSON field and an optional "picture" image.
// @Tags portal
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param request body wizard.OnboardingForm true "Profile answers"
// @Success 200 {object} dto.ProfileUpdateResult
// @Failure 400 {object} apperrors.AppError
// @Router /portal/profile [put]
func (h *ProfileHandler) Update(c *gin.Context) {
	h.save(c, false)
}

// CompleteOnboarding godoc
// @Summary Submit the last onboarding step
// @Description Same body as PUT /portal/profile. Marks onboarding completed and returns where to go next.
// @Tags portal
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param payload formData string true "wizard.OnboardingForm as JSON"
// @Param picture formData file false "Profile picture (jpeg, png, webp)"
// @Success 200 {object} dto.ProfileUpdateResult
// @Router /portal/onboarding [post]
func (h *ProfileHandler) CompleteOnboarding(c *gin.Context) {
	h.save(c, true)
}

func (h *ProfileHandler) save(c *gin.Context, complete bool) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	update := &dto.ProfileUpdate{CompleteOnboarding: complete}
	if isMultipart(c) {
		if !h.BindMultipartPayload(c, &update.Form) {
			return
		}
		update.Picture = FormFile(c, "picture")
	} else if err := c.ShouldBindJSON(&update.Form); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
		return
	}

	res, err := h.profileService.Update(c.Request.Context(), h.GetDB(c), userID, h.GetRole(c), update)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
