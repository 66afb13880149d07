package service

import (
	"catalog/core"

	"gorm.io/gorm"
)

// Services is the global service container
type Services struct {
	Products *ProductService
	Config   *ConfigService
	Audit    *AuditService
	Admins   *AdminService
}

// GlobalServices is the global service instance
var GlobalServices *Services

// NewServices wires the services over db and the storage collaborators.
func NewServices(db *gorm.DB, store core.ObjectStore, images core.ImageProcessor) (*Services, error) {
	auditSvc := NewAuditService(db)
	productSvc, err := NewProductService(db, auditSvc, store, images)
	if err != nil {
		return nil, err
	}

	return &Services{
		Products: productSvc,
		Config:   NewConfigService(db, auditSvc),
		Audit:    auditSvc,
		Admins:   NewAdminService(db),
	}, nil
}

// InitServices initializes GlobalServices
func InitServices(db *gorm.DB, store core.ObjectStore, images core.ImageProcessor) error {
	svcs, err := NewServices(db, store, images)
	if err != nil {
		return err
	}
	GlobalServices = svcs
	return nil
}
