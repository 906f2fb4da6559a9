package services

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pareto_backend/internal/config"
	"pareto_backend/internal/logger"
	"pareto_backend/internal/repositories"
	"pareto_backend/internal/services/dto"
	"pareto_backend/internal/wizard"
	"pareto_backend/pkg/apperrors"
)

// IntakeService runs the public application wizard
type IntakeService interface {
	Form(query *dto.IntakeFormQuery) *dto.IntakeFormResponse
	ValidateStep(step wizard.Step, form *wizard.IntakeForm) *dto.StepValidationResponse
	Submit(ctx context.Context, db *gorm.DB, sub *dto.IntakeSubmission) (*dto.IntakeSubmissionResult, error)
}

type IntakeServiceImpl struct {
	appRepo repositories.ApplicationRepository
	uploads UploadService
	emails  *EmailService
}

func NewIntakeService(appRepo repositories.ApplicationRepository, uploads UploadService, emails *EmailService) IntakeService {
	return &IntakeServiceImpl{
		appRepo: appRepo,
		uploads: uploads,
		emails:  emails,
	}
}

func (s *IntakeServiceImpl) Form(query *dto.IntakeFormQuery) *dto.IntakeFormResponse {
	form := &wizard.IntakeForm{
		University:            query.University,
		BuildingCompany:       query.BuildingCompany,
		CompetitionExperience: query.CompetitionExperience,
	}
	steps := make([]string, 0, int(wizard.IntakeLastStep))
	for st := wizard.StepPersonal; st <= wizard.IntakeLastStep; st++ {
		steps = append(steps, st.String())
	}
	return &dto.IntakeFormResponse{
		Visibility:       wizard.VisibleIntakeFields(form),
		GrandesEcoles:    wizard.GrandesEcoles,
		OtherUniversity:  wizard.OtherUniversity,
		PrepClassOptions: wizard.PrepClassOptions,
		CompanyStages:    wizard.CompanyStages,
		Steps:            steps,
	}
}

func (s *IntakeServiceImpl) ValidateStep(step wizard.Step, form *wizard.IntakeForm) *dto.StepValidationResponse {
	errs := wizard.ValidateIntakeStep(step, form)
	return &dto.StepValidationResponse{
		Step:     int(step),
		NextStep: int(wizard.Advance(step, wizard.IntakeLastStep, errs)),
		PrevStep: int(wizard.Back(step)),
		Valid:    len(errs) == 0,
		Errors:   errs,
	}
}

// Submit uploads the documents, inserts the application and sends the
// confirmation email. Only the resume upload is required to succeed; a
// deck or memo that cannot be stored is skipped and reported. The email
// is best effort.
func (s *IntakeServiceImpl) Submit(ctx context.Context, db *gorm.DB, sub *dto.IntakeSubmission) (*dto.IntakeSubmissionResult, error) {
	form := &sub.Form
	form.HasResume = sub.Resume != nil
	if errs := wizard.ValidateIntake(form); len(errs) > 0 {
		return nil, apperrors.ValidationError(errs)
	}

	sessionID := uuid.NewString()
	var stored []string
	cleanup := func() {
		for _, key := range stored {
			s.uploads.RemoveDocument(ctx, key)
		}
	}

	app := form.ToApplication()
	result := &dto.IntakeSubmissionResult{Application: app}
	uploads := []struct {
		kind     config.FileKind
		file     *dto.FileUpload
		dst      *string
		required bool
	}{
		{config.FileResume, sub.Resume, &app.ResumeURL, true},
		{config.FileDeck, sub.Deck, &app.DeckURL, false},
		{config.FileMemo, sub.Memo, &app.MemoURL, false},
	}
	for _, u := range uploads {
		if u.file == nil {
			continue
		}
		key, err := s.uploads.StoreDocument(ctx, u.kind, sessionID, u.file)
		if err != nil {
			if u.required || isClientError(err) {
				cleanup()
				return nil, err
			}
			logger.CtxWarn(ctx, "Optional document skipped", "kind", u.kind, "email", app.Email, "error", err)
			if result.DocumentErrors == nil {
				result.DocumentErrors = map[string]string{}
			}
			result.DocumentErrors[string(u.kind)] = "Upload failed, the application was submitted without it"
			continue
		}
		stored = append(stored, key)
		*u.dst = key
	}

	if err := s.appRepo.Create(db, app); err != nil {
		cleanup()
		logger.CtxError(ctx, "Failed to insert application", "email", app.Email, "error", err)
		return nil, apperrors.InternalError(err)
	}
	logger.CtxInfo(ctx, "Application submitted", "application_id", app.ID)

	if err := s.emails.SendConfirmation(ctx, app.Email, app.FirstName); err != nil {
		logger.CtxWarn(ctx, "Confirmation email failed", "application_id", app.ID, "error", err)
	}
	return result, nil
}

// isClientError reports errors caused by the upload itself (type, size)
func isClientError(err error) bool {
	appErr, ok := apperrors.AsAppError(err)
	return ok && appErr.HTTPCode < http.StatusInternalServerError
}
