package featured

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/industrialpartner/storefront-backend/pkg/db/models"
	pkgerrors "github.com/industrialpartner/storefront-backend/pkg/errors"
)

// Service reads the locally curated featured products shown on manufacturer
// landing pages.
type Service interface {
	List(ctx context.Context) ([]models.FeaturedProduct, error)
}

type service struct {
	db *gorm.DB
}

// NewService returns a Service backed by the given GORM connection.
func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("featured: db connection is required")
	}
	return &service{db: db}, nil
}

// List returns the active featured products ordered by display position.
func (s *service) List(ctx context.Context) ([]models.FeaturedProduct, error) {
	var products []models.FeaturedProduct
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("position ASC").
		Find(&products).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing featured products")
	}
	return products, nil
}
