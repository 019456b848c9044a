package repository

import (
	"context"

	"github.com/amirphl/affiliate-rhonat/models"
	"gorm.io/gorm"
)

// SaleRepositoryImpl implements SaleRepository
type SaleRepositoryImpl struct {
	*BaseRepository[models.Sale, models.SaleFilter]
}

func NewSaleRepository(db *gorm.DB) SaleRepository {
	return &SaleRepositoryImpl{BaseRepository: NewBaseRepository[models.Sale, models.SaleFilter](db)}
}

func (r *SaleRepositoryImpl) applyFilter(db *gorm.DB, f models.SaleFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.LinkID != nil {
		db = db.Where("link_id = ?", *f.LinkID)
	}
	if len(f.LinkIDs) > 0 {
		db = db.Where("link_id IN ?", f.LinkIDs)
	}
	if f.OrderID != nil {
		db = db.Where("order_id = ?", *f.OrderID)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

func (r *SaleRepositoryImpl) ByFilter(ctx context.Context, filter models.SaleFilter, orderBy string, limit, offset int) ([]*models.Sale, error) {
	db := r.getDB(ctx)
	query := paginate(r.applyFilter(db.Model(&models.Sale{}), filter), orderBy, limit, offset)
	var rows []*models.Sale
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *SaleRepositoryImpl) Count(ctx context.Context, filter models.SaleFilter) (int64, error) {
	db := r.getDB(ctx)
	var count int64
	if err := r.applyFilter(db.Model(&models.Sale{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *SaleRepositoryImpl) Exists(ctx context.Context, filter models.SaleFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
