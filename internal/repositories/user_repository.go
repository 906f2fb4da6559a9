package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pareto_backend/internal/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrRoleNotFound      = errors.New("role not found")
)

type UserRepository interface {
	FindByID(db *gorm.DB, id string) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)
	FindByMagicTokenHash(db *gorm.DB, hash string) (*models.User, error)
	Create(db *gorm.DB, user *models.User) error

	SetMagicToken(db *gorm.DB, userID, hash string, expiresAt time.Time) error
	// ConsumeMagicToken clears the token and records the sign-in; false when it was already used
	ConsumeMagicToken(db *gorm.DB, userID, hash string, at time.Time) (bool, error)
	RecordSignIn(db *gorm.DB, userID string, at time.Time) error
	ClearExpiredMagicTokens(db *gorm.DB, now time.Time) (int64, error)
	UpdatePassword(db *gorm.DB, userID, hash string, mustChange bool) error

	// Roles
	FindRole(db *gorm.DB, userID string) (*models.UserRole, error)
	UpsertRole(db *gorm.DB, userID string, role models.Role) error
	CountByRole(db *gorm.DB, role models.Role) (int64, error)

	// FindFellowsWithoutProfile - users holding the fellow role with no profile row
	FindFellowsWithoutProfile(db *gorm.DB, limit int) ([]models.User, error)
}

type UserRepositoryImpl struct{}

func NewUserRepository() UserRepository {
	return &UserRepositoryImpl{}
}

func (r *UserRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := db.Preload("Role").First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	err := db.Preload("Role").Where("email = ?", normalizeEmail(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByMagicTokenHash(db *gorm.DB, hash string) (*models.User, error) {
	if hash == "" {
		return nil, ErrUserNotFound
	}
	var user models.User
	err := db.Preload("Role").Where("magic_token_hash = ?", hash).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) Create(db *gorm.DB, user *models.User) error {
	user.Email = normalizeEmail(user.Email)

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrUserAlreadyExists
	}
	return db.Create(user).Error
}

func (r *UserRepositoryImpl) SetMagicToken(db *gorm.DB, userID, hash string, expiresAt time.Time) error {
	result := db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"magic_token_hash":       hash,
		"magic_token_expires_at": expiresAt,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) ConsumeMagicToken(db *gorm.DB, userID, hash string, at time.Time) (bool, error) {
	// the hash condition makes a concurrent second use affect zero rows
	result := db.Model(&models.User{}).
		Where("id = ? AND magic_token_hash = ?", userID, hash).
		Updates(map[string]interface{}{
			"magic_token_hash":       "",
			"magic_token_expires_at": nil,
			"last_sign_in_at":        at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *UserRepositoryImpl) ClearExpiredMagicTokens(db *gorm.DB, now time.Time) (int64, error) {
	result := db.Model(&models.User{}).
		Where("magic_token_hash <> '' AND magic_token_expires_at < ?", now).
		Updates(map[string]interface{}{
			"magic_token_hash":       "",
			"magic_token_expires_at": nil,
		})
	return result.RowsAffected, result.Error
}

func (r *UserRepositoryImpl) RecordSignIn(db *gorm.DB, userID string, at time.Time) error {
	return db.Model(&models.User{}).Where("id = ?", userID).Update("last_sign_in_at", at).Error
}

func (r *UserRepositoryImpl) UpdatePassword(db *gorm.DB, userID, hash string, mustChange bool) error {
	result := db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"password_hash":        hash,
		"must_change_password": mustChange,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) FindRole(db *gorm.DB, userID string) (*models.UserRole, error) {
	var role models.UserRole
	if err := db.Where("user_id = ?", userID).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	return &role, nil
}

func (r *UserRepositoryImpl) UpsertRole(db *gorm.DB, userID string, role models.Role) error {
	row := &models.UserRole{UserID: userID, Role: role}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"role", "updated_at"}),
	}).Create(row).Error
}

func (r *UserRepositoryImpl) CountByRole(db *gorm.DB, role models.Role) (int64, error) {
	var count int64
	err := db.Model(&models.UserRole{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

func (r *UserRepositoryImpl) FindFellowsWithoutProfile(db *gorm.DB, limit int) ([]models.User, error) {
	var users []models.User
	err := db.Model(&models.User{}).
		Joins("JOIN user_roles ON user_roles.user_id = users.id").
		Where("user_roles.role = ?", models.RoleFellow).
		Where("NOT EXISTS (SELECT 1 FROM profiles WHERE profiles.user_id = users.id)").
		Order("users.created_at ASC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
