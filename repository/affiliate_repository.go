package repository

import (
	"context"

	"github.com/amirphl/affiliate-rhonat/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AffiliateRepositoryImpl implements AffiliateRepository
type AffiliateRepositoryImpl struct {
	*BaseRepository[models.Affiliate, models.AffiliateFilter]
}

func NewAffiliateRepository(db *gorm.DB) AffiliateRepository {
	return &AffiliateRepositoryImpl{BaseRepository: NewBaseRepository[models.Affiliate, models.AffiliateFilter](db)}
}

func (r *AffiliateRepositoryImpl) ByUserID(ctx context.Context, userID uuid.UUID) (*models.Affiliate, error) {
	rows, err := r.ByFilter(ctx, models.AffiliateFilter{UserID: &userID}, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *AffiliateRepositoryImpl) applyFilter(db *gorm.DB, f models.AffiliateFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.UserID != nil {
		db = db.Where("user_id = ?", *f.UserID)
	}
	if f.DisplayName != nil {
		db = db.Where("display_name = ?", *f.DisplayName)
	}
	return db
}

func (r *AffiliateRepositoryImpl) ByFilter(ctx context.Context, filter models.AffiliateFilter, orderBy string, limit, offset int) ([]*models.Affiliate, error) {
	db := r.getDB(ctx)
	query := paginate(r.applyFilter(db.Model(&models.Affiliate{}), filter), orderBy, limit, offset)
	var rows []*models.Affiliate
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AffiliateRepositoryImpl) Count(ctx context.Context, filter models.AffiliateFilter) (int64, error) {
	db := r.getDB(ctx)
	var count int64
	if err := r.applyFilter(db.Model(&models.Affiliate{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *AffiliateRepositoryImpl) Exists(ctx context.Context, filter models.AffiliateFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
