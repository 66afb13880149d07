package service

import (
	"catalog/core"
	"catalog/metrics"
	"catalog/models"
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ImageUpload is an image file received with a product request.
type ImageUpload struct {
	Filename string
	Data     []byte
}

// ProductService handles product business logic
type ProductService struct {
	db     *gorm.DB
	audit  *AuditService
	store  core.ObjectStore
	images core.ImageProcessor
	ids    *snowflake.Node
}

// NewProductService constructs a product service
func NewProductService(db *gorm.DB, audit *AuditService, store core.ObjectStore, images core.ImageProcessor) (*ProductService, error) {
	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, fmt.Errorf("failed to create id generator: %w", err)
	}
	return &ProductService{db: db, audit: audit, store: store, images: images, ids: node}, nil
}

// List returns all products, newest first.
func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).Order("created_at desc").Order("id desc").Find(&products).Error; err != nil {
		return nil, upstream("Failed to fetch products", err)
	}
	return products, nil
}

// Get fetches a product by ID
func (s *ProductService) Get(ctx context.Context, id uint) (*models.Product, error) {
	return s.get(s.db.WithContext(ctx), id, "Failed to fetch product")
}

func (s *ProductService) get(db *gorm.DB, id uint, failMsg string) (*models.Product, error) {
	var product models.Product
	if err := db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, wrapSentinel("Product not found", ErrNotFound)
		}
		return nil, upstream(failMsg, err)
	}
	return &product, nil
}

// Create stores a new product, uploading its image first when one is supplied.
func (s *ProductService) Create(ctx context.Context, adminID uint, in models.ProductInput, upload *ImageUpload) (*models.Product, error) {
	in.Normalize()
	if in.MissingRequired() {
		return nil, wrapSentinel("Missing required fields: name, price, category", ErrBadRequest)
	}

	product := models.Product{
		Badges:         []string{},
		Specifications: []string{},
	}
	in.ApplyTo(&product)

	var uploadedURL string
	if upload != nil {
		url, err := s.storeImage(ctx, upload, "Failed to create product")
		if err != nil {
			return nil, err
		}
		uploadedURL = url
		product.Image = &url
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&product).Error; err != nil {
			return err
		}
		return s.audit.Record(tx, adminID, models.ActionCreate, models.EntityProduct,
			fmt.Sprint(product.ID), map[string]interface{}{"created": product})
	})
	if err != nil {
		if uploadedURL != "" {
			s.removeImage(ctx, uploadedURL)
		}
		return nil, upstream("Failed to create product", err)
	}
	return &product, nil
}

// Update merges the supplied fields over the stored product. A new image replaces
// the old one, which is then removed best-effort.
func (s *ProductService) Update(ctx context.Context, adminID, id uint, in models.ProductInput, upload *ImageUpload) (*models.Product, error) {
	existing, err := s.get(s.db.WithContext(ctx), id, "Failed to update product")
	if err != nil {
		return nil, err
	}
	before := cloneProduct(existing)

	in.Normalize()

	var uploadedURL string
	if upload != nil {
		url, err := s.storeImage(ctx, upload, "Failed to update product")
		if err != nil {
			return nil, err
		}
		uploadedURL = url
		in.Image = &url
	}

	product := cloneProduct(existing)
	in.ApplyTo(&product)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&product).Error; err != nil {
			return err
		}
		return s.audit.Record(tx, adminID, models.ActionUpdate, models.EntityProduct,
			fmt.Sprint(product.ID), map[string]interface{}{"before": before, "after": product})
	})
	if err != nil {
		if uploadedURL != "" {
			s.removeImage(ctx, uploadedURL)
		}
		return nil, upstream("Failed to update product", err)
	}

	if old := before.ImageURL(); old != "" && old != product.ImageURL() {
		s.removeImage(ctx, old)
	}
	return &product, nil
}

// Delete removes the product's image best-effort, then the row.
func (s *ProductService) Delete(ctx context.Context, adminID, id uint) (*models.Product, error) {
	product, err := s.get(s.db.WithContext(ctx), id, "Failed to delete product")
	if err != nil {
		return nil, err
	}

	if img := product.ImageURL(); img != "" {
		s.removeImage(ctx, img)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Product{}, product.ID).Error; err != nil {
			return err
		}
		return s.audit.Record(tx, adminID, models.ActionDelete, models.EntityProduct,
			fmt.Sprint(product.ID), map[string]interface{}{"deleted": product})
	})
	if err != nil {
		return nil, upstream("Failed to delete product", err)
	}
	return product, nil
}

// storeImage validates, normalizes and stores an upload under a time-ordered unique name.
func (s *ProductService) storeImage(ctx context.Context, upload *ImageUpload, failMsg string) (string, error) {
	if err := core.CheckImageUpload(upload.Filename, upload.Data); err != nil {
		metrics.ImageUploads.WithLabelValues("rejected").Inc()
		return "", wrapSentinel(err.Error(), ErrBadRequest)
	}

	data, ext, contentType, err := s.images.Normalize(upload.Data)
	if err != nil {
		metrics.ImageUploads.WithLabelValues("rejected").Inc()
		if errors.Is(err, core.ErrImageDimensions) {
			return "", wrapSentinel(core.ErrImageDimensions.Error(), ErrBadRequest)
		}
		return "", wrapSentinel("Invalid image file", ErrBadRequest)
	}

	name := fmt.Sprintf("product-%d%s", s.ids.Generate().Int64(), ext)
	url, err := s.store.Put(ctx, name, data, contentType)
	if err != nil {
		metrics.ImageUploads.WithLabelValues("failed").Inc()
		return "", upstream(failMsg, err)
	}
	metrics.ImageUploads.WithLabelValues("stored").Inc()
	return url, nil
}

func (s *ProductService) removeImage(ctx context.Context, publicURL string) {
	name := core.ObjectNameFromURL(publicURL)
	if name == "" {
		return
	}
	if err := s.store.Remove(ctx, name); err != nil && !errors.Is(err, core.ErrObjectNotFound) {
		metrics.ImageCleanupFailures.Inc()
		zap.S().Warnw("failed to remove product image", "object", name, "error", err)
	}
}

func cloneProduct(p *models.Product) models.Product {
	c := *p
	c.Badges = append([]string{}, p.Badges...)
	c.Specifications = append([]string{}, p.Specifications...)
	if p.OldPrice != nil {
		v := *p.OldPrice
		c.OldPrice = &v
	}
	if p.Image != nil {
		v := *p.Image
		c.Image = &v
	}
	return c
}
