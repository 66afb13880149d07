package service

import (
	"catalog/models"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var validate = validator.New()

// AdminService resolves identities against the admin allow-list.
type AdminService struct {
	db *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

// Authorize returns the active admin row for email.
// Unknown or inactive emails yield ErrForbidden; store failures yield ErrUpstream.
func (s *AdminService) Authorize(ctx context.Context, email string) (*models.AdminUser, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validate.Var(email, "required,email"); err != nil {
		return nil, wrapSentinel("User is not authorized as admin", ErrForbidden)
	}

	var admin models.AdminUser
	err := s.db.WithContext(ctx).
		Where("email = ? AND is_active = ?", email, true).
		First(&admin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, wrapSentinel("User is not authorized as admin", ErrForbidden)
		}
		return nil, upstream("Authentication failed", err)
	}
	return &admin, nil
}

// TouchLastLogin records a login time without blocking the caller. Failures are only logged.
func (s *AdminService) TouchLastLogin(adminID uint) {
	now := time.Now()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := s.db.WithContext(ctx).Model(&models.AdminUser{}).
			Where("id = ?", adminID).
			Update("last_login", now).Error
		if err != nil {
			zap.S().Warnw("failed to update last_login", "admin_id", adminID, "error", err)
		}
	}()
}

// Upsert adds email to the allow-list or changes its active flag.
func (s *AdminService) Upsert(ctx context.Context, email string, active bool) (*models.AdminUser, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validate.Var(email, "required,email"); err != nil {
		return nil, wrapSentinel("A valid email is required", ErrBadRequest)
	}

	admin := models.AdminUser{Email: email}
	err := s.db.WithContext(ctx).
		Where(models.AdminUser{Email: email}).
		Assign(map[string]interface{}{"is_active": active}).
		FirstOrCreate(&admin).Error
	if err != nil {
		return nil, upstream("Failed to save admin user", err)
	}
	return &admin, nil
}

// List returns every allow-list row ordered by email.
func (s *AdminService) List(ctx context.Context) ([]models.AdminUser, error) {
	var admins []models.AdminUser
	if err := s.db.WithContext(ctx).Order("email").Find(&admins).Error; err != nil {
		return nil, upstream("Failed to fetch admin users", err)
	}
	return admins, nil
}
