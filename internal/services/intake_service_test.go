package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pareto_backend/internal/email"
	"pareto_backend/internal/models"
	"pareto_backend/internal/services/dto"
	"pareto_backend/internal/storage"
	"pareto_backend/internal/wizard"
	"pareto_backend/pkg/apperrors"
)

func validIntakeForm() wizard.IntakeForm {
	return wizard.IntakeForm{
		FirstName:      "Marie",
		LastName:       "Curie",
		Email:          "Marie@Example.com",
		Country:        "France",
		Nationality:    "Polish",
		University:     "MIT",
		Major:          "Physics",
		GraduationYear: "2026",
	}
}

func TestIntake_FormVisibility(t *testing.T) {
	env := newTestEnv(t)

	form := env.svc.IntakeService.Form(&dto.IntakeFormQuery{University: "Polytechnique"})
	assert.True(t, form.Visibility.PreparatoryClasses)
	assert.Len(t, form.Steps, 4)

	form = env.svc.IntakeService.Form(&dto.IntakeFormQuery{University: "MIT", BuildingCompany: true})
	assert.False(t, form.Visibility.PreparatoryClasses)
	assert.True(t, form.Visibility.CompanyFields)
}

func TestIntake_ValidateStepKeepsStepOnError(t *testing.T) {
	env := newTestEnv(t)

	form := validIntakeForm()
	form.LastName = ""
	resp := env.svc.IntakeService.ValidateStep(wizard.StepPersonal, &form)
	assert.False(t, resp.Valid)
	assert.Equal(t, int(wizard.StepPersonal), resp.NextStep)
	assert.Contains(t, resp.Errors, "last_name")
	assert.Equal(t, int(wizard.StepPersonal), resp.PrevStep)

	form = validIntakeForm()
	resp = env.svc.IntakeService.ValidateStep(wizard.StepPersonal, &form)
	assert.True(t, resp.Valid)
	assert.Equal(t, int(wizard.StepEducation), resp.NextStep)

	resp = env.svc.IntakeService.ValidateStep(wizard.StepAdditional, &form)
	assert.Equal(t, int(wizard.StepEducation), resp.PrevStep)
}

func TestIntake_SubmitStoresDocumentsAndConfirms(t *testing.T) {
	env := newTestEnv(t)

	app, err := env.svc.IntakeService.Submit(ctx, env.db, &dto.IntakeSubmission{
		Form:   validIntakeForm(),
		Resume: dto.NewFileUpload("cv.PDF", "application/pdf", []byte("%PDF-1.4")),
		Deck:   dto.NewFileUpload("deck.pptx", "", []byte("pptx")),
	})
	require.NoError(t, err)

	assert.Equal(t, models.ApplicationStatusPending, app.Status)
	assert.False(t, app.Flagged)
	assert.Equal(t, "marie@example.com", app.Email)
	assert.True(t, strings.HasPrefix(app.ResumeURL, "applications/"), app.ResumeURL)
	assert.Contains(t, app.ResumeURL, "/resume-")
	assert.True(t, strings.HasSuffix(app.DeckURL, ".pptx"))
	assert.Empty(t, app.MemoURL)

	rc, err := env.store.Get(ctx, env.cfg.Storage.Buckets.Documents, app.ResumeURL)
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "%PDF-1.4", string(body))

	sent := env.mail.SentTo("marie@example.com")
	require.Len(t, sent, 1)
	assert.Equal(t, email.TemplateConfirmation, sent[0].Template)
}

func TestIntake_SubmitWithoutResume(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.IntakeService.Submit(ctx, env.db, &dto.IntakeSubmission{Form: validIntakeForm()})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code)

	var count int64
	env.db.Model(&models.Application{}).Count(&count)
	assert.Zero(t, count)
}

func TestIntake_SubmitRejectsWrongType(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.IntakeService.Submit(ctx, env.db, &dto.IntakeSubmission{
		Form:   validIntakeForm(),
		Resume: dto.NewFileUpload("cv.docx", "", []byte("doc")),
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidFileType))
}

func TestIntake_ConfirmationFailureIsNotFatal(t *testing.T) {
	env := newTestEnv(t)
	env.mail.SetFail(assert.AnError)

	app, err := env.svc.IntakeService.Submit(ctx, env.db, &dto.IntakeSubmission{
		Form:   validIntakeForm(),
		Resume: dto.NewFileUpload("cv.pdf", "application/pdf", []byte("%PDF")),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, app.ID)
}

// failingSaves refuses writes whose key contains fragment
type failingSaves struct {
	storage.Storage
	fragment string
}

func (f *failingSaves) Save(ctx context.Context, bucket, key string, reader io.Reader, contentType string) error {
	if strings.Contains(key, f.fragment) {
		return errors.New("storage down")
	}
	return f.Storage.Save(ctx, bucket, key, reader, contentType)
}

func TestIntake_OptionalDocumentFailureIsSkipped(t *testing.T) {
	env := newTestEnvWithStorage(t, func(s storage.Storage) storage.Storage {
		return &failingSaves{Storage: s, fragment: "/deck-"}
	})

	res, err := env.svc.IntakeService.Submit(ctx, env.db, &dto.IntakeSubmission{
		Form:   validIntakeForm(),
		Resume: dto.NewFileUpload("cv.pdf", "application/pdf", []byte("%PDF")),
		Deck:   dto.NewFileUpload("deck.pdf", "application/pdf", []byte("%PDF deck")),
		Memo:   dto.NewFileUpload("memo.pdf", "application/pdf", []byte("%PDF memo")),
	})
	require.NoError(t, err)
	assert.Contains(t, res.DocumentErrors, "deck")
	assert.NotContains(t, res.DocumentErrors, "memo")

	var stored models.Application
	require.NoError(t, env.db.First(&stored, "id = ?", res.ID).Error)
	assert.NotEmpty(t, stored.ResumeURL)
	assert.Empty(t, stored.DeckURL)
	assert.NotEmpty(t, stored.MemoURL)
	assert.Len(t, env.mail.SentTo("marie@example.com"), 1)
}

func TestIntake_ResumeFailureAbortsAndCleansUp(t *testing.T) {
	env := newTestEnvWithStorage(t, func(s storage.Storage) storage.Storage {
		return &failingSaves{Storage: s, fragment: "/resume-"}
	})

	_, err := env.svc.IntakeService.Submit(ctx, env.db, &dto.IntakeSubmission{
		Form:   validIntakeForm(),
		Resume: dto.NewFileUpload("cv.pdf", "application/pdf", []byte("%PDF")),
	})
	require.Error(t, err)

	var count int64
	env.db.Model(&models.Application{}).Count(&count)
	assert.Zero(t, count)
	assert.Empty(t, env.mail.Sent())
}

func TestIntake_WrongOptionalTypeStillRejected(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.IntakeService.Submit(ctx, env.db, &dto.IntakeSubmission{
		Form:   validIntakeForm(),
		Resume: dto.NewFileUpload("cv.pdf", "application/pdf", []byte("%PDF")),
		Memo:   dto.NewFileUpload("memo.exe", "", []byte("MZ")),
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidFileType))
}

func pngUpload(t *testing.T, name string) *dto.FileUpload {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 40, 40))))
	return dto.NewFileUpload(name, "image/png", buf.Bytes())
}
