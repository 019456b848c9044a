package repository

import (
	"context"

	"github.com/amirphl/affiliate-rhonat/models"
	"gorm.io/gorm"
)

// BrandRepositoryImpl implements BrandRepository
type BrandRepositoryImpl struct {
	*BaseRepository[models.Brand, models.BrandFilter]
}

func NewBrandRepository(db *gorm.DB) BrandRepository {
	return &BrandRepositoryImpl{BaseRepository: NewBaseRepository[models.Brand, models.BrandFilter](db)}
}

func (r *BrandRepositoryImpl) applyFilter(db *gorm.DB, f models.BrandFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if len(f.IDs) > 0 {
		db = db.Where("id IN ?", f.IDs)
	}
	if f.Name != nil {
		db = db.Where("name = ?", *f.Name)
	}
	if f.OwnerID != nil {
		db = db.Where("owner_id = ?", *f.OwnerID)
	}
	return db
}

func (r *BrandRepositoryImpl) ByFilter(ctx context.Context, filter models.BrandFilter, orderBy string, limit, offset int) ([]*models.Brand, error) {
	db := r.getDB(ctx)
	query := paginate(r.applyFilter(db.Model(&models.Brand{}), filter), orderBy, limit, offset)
	var rows []*models.Brand
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *BrandRepositoryImpl) Count(ctx context.Context, filter models.BrandFilter) (int64, error) {
	db := r.getDB(ctx)
	var count int64
	if err := r.applyFilter(db.Model(&models.Brand{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *BrandRepositoryImpl) Exists(ctx context.Context, filter models.BrandFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
