package repository

import (
	"context"

	"github.com/amirphl/affiliate-rhonat/models"
	"gorm.io/gorm"
)

// ProductRepositoryImpl implements ProductRepository
type ProductRepositoryImpl struct {
	*BaseRepository[models.Product, models.ProductFilter]
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &ProductRepositoryImpl{BaseRepository: NewBaseRepository[models.Product, models.ProductFilter](db)}
}

func (r *ProductRepositoryImpl) applyFilter(db *gorm.DB, f models.ProductFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.BrandID != nil {
		db = db.Where("brand_id = ?", *f.BrandID)
	}
	if f.Name != nil {
		db = db.Where("name = ?", *f.Name)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

func (r *ProductRepositoryImpl) ByFilter(ctx context.Context, filter models.ProductFilter, orderBy string, limit, offset int) ([]*models.Product, error) {
	db := r.getDB(ctx)
	query := paginate(r.applyFilter(db.Model(&models.Product{}), filter), orderBy, limit, offset)
	var rows []*models.Product
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ProductRepositoryImpl) Count(ctx context.Context, filter models.ProductFilter) (int64, error) {
	db := r.getDB(ctx)
	var count int64
	if err := r.applyFilter(db.Model(&models.Product{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ProductRepositoryImpl) Exists(ctx context.Context, filter models.ProductFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
