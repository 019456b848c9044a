package repository

import (
	"context"

	"github.com/amirphl/affiliate-rhonat/models"
	"gorm.io/gorm"
)

// AffiliateLinkRepositoryImpl implements AffiliateLinkRepository
type AffiliateLinkRepositoryImpl struct {
	*BaseRepository[models.AffiliateLink, models.AffiliateLinkFilter]
}

func NewAffiliateLinkRepository(db *gorm.DB) AffiliateLinkRepository {
	return &AffiliateLinkRepositoryImpl{BaseRepository: NewBaseRepository[models.AffiliateLink, models.AffiliateLinkFilter](db)}
}

func (r *AffiliateLinkRepositoryImpl) ByCode(ctx context.Context, code string) (*models.AffiliateLink, error) {
	filter := models.AffiliateLinkFilter{Code: &code}
	rows, err := r.ByFilter(ctx, filter, "created_at DESC", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *AffiliateLinkRepositoryImpl) applyFilter(db *gorm.DB, f models.AffiliateLinkFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.Code != nil {
		db = db.Where("code = ?", *f.Code)
	}
	if f.ProductID != nil {
		db = db.Where("product_id = ?", *f.ProductID)
	}
	if f.AffiliateID != nil {
		db = db.Where("affiliate_id = ?", *f.AffiliateID)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

func (r *AffiliateLinkRepositoryImpl) ByFilter(ctx context.Context, filter models.AffiliateLinkFilter, orderBy string, limit, offset int) ([]*models.AffiliateLink, error) {
	db := r.getDB(ctx)
	query := paginate(r.applyFilter(db.Model(&models.AffiliateLink{}), filter), orderBy, limit, offset)
	var rows []*models.AffiliateLink
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AffiliateLinkRepositoryImpl) Count(ctx context.Context, filter models.AffiliateLinkFilter) (int64, error) {
	db := r.getDB(ctx)
	var count int64
	if err := r.applyFilter(db.Model(&models.AffiliateLink{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *AffiliateLinkRepositoryImpl) Exists(ctx context.Context, filter models.AffiliateLinkFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
