package services

import (
	"context"
	"io"

	"gorm.io/gorm"

	"pareto_backend/internal/logger"
	"pareto_backend/internal/metrics"
	"pareto_backend/internal/models"
	"pareto_backend/internal/repositories"
	"pareto_backend/internal/review"
	"pareto_backend/internal/services/dto"
	"pareto_backend/pkg/apperrors"
)

// ApplicationService backs the admin review console
type ApplicationService interface {
	List(db *gorm.DB, filter review.Filter) ([]models.Application, error)
	Get(db *gorm.DB, id string) (*models.Application, error)
	UpdateStatus(db *gorm.DB, id, status string) (*models.Application, error)
	ToggleFlag(db *gorm.DB, id string) (*models.Application, error)
	Neighbors(db *gorm.DB, id string, filter review.Filter) (*dto.NeighborsResponse, error)
	ExecuteShortcut(db *gorm.DB, id, key string, filter review.Filter) (*dto.ShortcutResponse, error)
	Compare(db *gorm.DB, filter review.Filter, n int) ([]models.Application, error)
	ExportCSV(db *gorm.DB, filter review.Filter, w io.Writer) (int, error)
	DocumentLinks(ctx context.Context, db *gorm.DB, id string) (*dto.DocumentLinksResponse, error)
}

type ApplicationServiceImpl struct {
	appRepo         repositories.ApplicationRepository
	uploads         UploadService
	documentsBucket string
}

func NewApplicationService(appRepo repositories.ApplicationRepository, uploads UploadService, documentsBucket string) ApplicationService {
	return &ApplicationServiceImpl{
		appRepo:         appRepo,
		uploads:         uploads,
		documentsBucket: documentsBucket,
	}
}

// ParseFilter builds a review filter from query parameters
func ParseFilter(search, facet string) (review.Filter, error) {
	f, err := review.ParseFacet(facet)
	if err != nil {
		return review.Filter{}, apperrors.ValidationError(map[string]string{"facet": err.Error()})
	}
	return review.Filter{Search: search, Facet: f}, nil
}

func (s *ApplicationServiceImpl) List(db *gorm.DB, filter review.Filter) ([]models.Application, error) {
	apps, err := s.appRepo.FindAll(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return review.Apply(apps, filter), nil
}

func (s *ApplicationServiceImpl) Get(db *gorm.DB, id string) (*models.Application, error) {
	app, err := s.appRepo.FindByID(db, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return app, nil
}

// UpdateStatus overwrites the status; there are no terminal states
func (s *ApplicationServiceImpl) UpdateStatus(db *gorm.DB, id, status string) (*models.Application, error) {
	target := models.ApplicationStatus(status)
	if !target.Valid() {
		return nil, apperrors.ErrInvalidApplicationStatus
	}

	if err := s.appRepo.UpdateStatus(db, id, target); err != nil {
		return nil, mapRepoError(err)
	}
	metrics.StatusChanges.WithLabelValues(status).Inc()

	app, err := s.appRepo.FindByID(db, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	logger.Info("Application status updated", "application_id", id, "status", status)
	return app, nil
}

func (s *ApplicationServiceImpl) ToggleFlag(db *gorm.DB, id string) (*models.Application, error) {
	app, err := s.appRepo.FindByID(db, id)
	if err != nil {
		return nil, mapRepoError(err)
	}

	if err := s.appRepo.SetFlagged(db, id, !app.Flagged); err != nil {
		return nil, mapRepoError(err)
	}
	app.Flagged = !app.Flagged
	return app, nil
}

// Neighbors cycles within the filtered list, the same rows the table shows
func (s *ApplicationServiceImpl) Neighbors(db *gorm.DB, id string, filter review.Filter) (*dto.NeighborsResponse, error) {
	apps, err := s.List(db, filter)
	if err != nil {
		return nil, err
	}

	nav := review.NewNavigator(apps)
	resp := &dto.NeighborsResponse{
		CurrentID: id,
		Position:  nav.Position(id),
		Total:     nav.Len(),
	}
	resp.PrevID, _ = nav.Prev(id)
	resp.NextID, _ = nav.Next(id)
	return resp, nil
}

func (s *ApplicationServiceImpl) ExecuteShortcut(db *gorm.DB, id, key string, filter review.Filter) (*dto.ShortcutResponse, error) {
	action, err := review.ParseShortcut(key)
	if err != nil {
		return nil, apperrors.ErrUnknownShortcut.WithDetails(map[string]string{"key": key})
	}

	resp := &dto.ShortcutResponse{Action: string(action)}

	if status, ok := action.Status(); ok {
		app, err := s.UpdateStatus(db, id, string(status))
		if err != nil {
			return nil, err
		}
		resp.Application = app
		return resp, nil
	}

	switch action {
	case review.ActionToggleFlag:
		app, err := s.ToggleFlag(db, id)
		if err != nil {
			return nil, err
		}
		resp.Application = app
	case review.ActionNext, review.ActionPrev:
		neighbors, err := s.Neighbors(db, id, filter)
		if err != nil {
			return nil, err
		}
		if action == review.ActionNext {
			resp.NavigateTo = neighbors.NextID
		} else {
			resp.NavigateTo = neighbors.PrevID
		}
	case review.ActionClose:
		resp.Closed = true
	}
	return resp, nil
}

func (s *ApplicationServiceImpl) Compare(db *gorm.DB, filter review.Filter, n int) ([]models.Application, error) {
	apps, err := s.List(db, filter)
	if err != nil {
		return nil, err
	}
	return review.Compare(apps, n), nil
}

// ExportCSV writes the filtered rows and returns how many were written
func (s *ApplicationServiceImpl) ExportCSV(db *gorm.DB, filter review.Filter, w io.Writer) (int, error) {
	apps, err := s.List(db, filter)
	if err != nil {
		return 0, err
	}
	if err := review.WriteCSV(w, apps); err != nil {
		return 0, apperrors.InternalError(err)
	}
	return len(apps), nil
}

// DocumentLinks signs one URL per stored document, fresh on every call
func (s *ApplicationServiceImpl) DocumentLinks(ctx context.Context, db *gorm.DB, id string) (*dto.DocumentLinksResponse, error) {
	app, err := s.appRepo.FindByID(db, id)
	if err != nil {
		return nil, mapRepoError(err)
	}

	resp := &dto.DocumentLinksResponse{ApplicationID: app.ID, Documents: []dto.DocumentLink{}}
	docs := []struct {
		kind string
		key  string
	}{
		{"resume", app.ResumeURL},
		{"deck", app.DeckURL},
		{"memo", app.MemoURL},
	}
	for _, d := range docs {
		if d.key == "" {
			continue
		}
		url, expiresAt, err := s.uploads.SignedURL(ctx, s.documentsBucket, d.key)
		if err != nil {
			logger.CtxError(ctx, "Failed to sign document", "application_id", id, "kind", d.kind, "error", err)
			return nil, err
		}
		resp.Documents = append(resp.Documents, dto.DocumentLink{Kind: d.kind, URL: url, ExpiresAt: expiresAt})
	}
	return resp, nil
}
