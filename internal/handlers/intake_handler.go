package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pareto_backend/internal/services"
	"pareto_backend/internal/services/dto"
	"pareto_backend/internal/wizard"
	"pareto_backend/pkg/apperrors"
)

type IntakeHandler struct {
	*BaseHandler
	intakeService services.IntakeService
}

func NewIntakeHandler(base *BaseHandler, intakeService services.IntakeService) *IntakeHandler {
	return &IntakeHandler{
		BaseHandler:   base,
		intakeService: intakeService,
	}
}

func (h *IntakeHandler) RegisterRoutes(g RouteGroups) {
	g.Public.GET("/intake/form", h.Form)
	g.Public.POST("/intake/steps/:step/validate", h.ValidateStep)
	g.Public.POST("/applications", h.Submit)
}

// Form godoc
// @Summary Visible intake fields and choice lists
// @Tags intake
// @Produce json
// @Param university query string false "Selected university"
// @Param building_company query bool false "Applicant is building a company"
// @Param competition_experience query bool false "Applicant has competition experience"
// @Success 200 {object} dto.IntakeFormResponse
// @Router /intake/form [get]
func (h *IntakeHandler) Form(c *gin.Context) {
	var query dto.IntakeFormQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}
	c.JSON(http.StatusOK, h.intakeService.Form(&query))
}

// ValidateStep godoc
// @Summary Validate one wizard step
// @Description Returns the next step, or the same step with field errors.
// @Tags intake
// @Accept json
// @Produce json
// @Param step path int true "Step number (1-3)"
// @Param form body wizard.IntakeForm true "Answers so far"
// @Success 200 {object} dto.StepValidationResponse
// @Failure 400 {object} apperrors.AppError
// @Router /intake/steps/{step}/validate [post]
func (h *IntakeHandler) ValidateStep(c *gin.Context) {
	step, ok := h.parseStep(c, wizard.StepAdditional)
	if !ok {
		return
	}

	var form wizard.IntakeForm
	if err := c.ShouldBindJSON(&form); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, h.intakeService.ValidateStep(step, &form))
}

// Submit godoc
// @Summary Submit an application
// @Description multipart/form-data with a "payload" JSON field and resume (required), deck and memo files.
// @Tags intake
// @Accept multipart/form-data
// @Produce json
// @Param payload formData string true "wizard.IntakeForm as JSON"
// @Param resume formData file true "Resume (pdf)"
// @Param deck formData file false "Pitch deck (pdf, ppt, pptx)"
// @Param memo formData file false "Memo (pdf, doc, docx)"
// @Success 201 {object} dto.IntakeSubmissionResult
// @Failure 400 {object} apperrors.AppError
// @Router /applications [post]
func (h *IntakeHandler) Submit(c *gin.Context) {
	var form wizard.IntakeForm
	if !h.BindMultipartPayload(c, &form) {
		return
	}

	result, err := h.intakeService.Submit(c.Request.Context(), h.GetDB(c), &dto.IntakeSubmission{
		Form:   form,
		Resume: FormFile(c, "resume"),
		Deck:   FormFile(c, "deck"),
		Memo:   FormFile(c, "memo"),
	})
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *BaseHandler) parseStep(c *gin.Context, last wizard.Step) (wizard.Step, bool) {
	n, err := ParseParamInt(c, "step")
	if err != nil {
		apperrors.HandleError(c, err)
		return 0, false
	}
	step := wizard.Step(n)
	if step < wizard.StepPersonal || step > last {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Unknown step"))
		return 0, false
	}
	return step, true
}
