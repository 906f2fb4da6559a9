package services

import (
	"errors"

	"pareto_backend/internal/repositories"
	"pareto_backend/pkg/apperrors"
)

// mapRepoError turns repository sentinels into API errors
func mapRepoError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	switch {
	case errors.Is(err, repositories.ErrApplicationNotFound):
		return apperrors.ErrApplicationNotFound
	case errors.Is(err, repositories.ErrProfileNotFound):
		return apperrors.ErrProfileNotFound
	case errors.Is(err, repositories.ErrUserNotFound):
		return apperrors.ErrUserNotFound
	case errors.Is(err, repositories.ErrEventNotFound):
		return apperrors.ErrEventNotFound
	case errors.Is(err, repositories.ErrOpportunityNotFound):
		return apperrors.ErrOpportunityNotFound
	case errors.Is(err, repositories.ErrUserAlreadyExists):
		return apperrors.ErrAlreadyExists(err)
	}
	return apperrors.InternalError(err)
}
