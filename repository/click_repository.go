package repository

import (
	"context"

	"github.com/amirphl/affiliate-rhonat/models"
	"gorm.io/gorm"
)

// ClickRepositoryImpl implements ClickRepository
type ClickRepositoryImpl struct {
	*BaseRepository[models.Click, models.ClickFilter]
}

func NewClickRepository(db *gorm.DB) ClickRepository {
	return &ClickRepositoryImpl{BaseRepository: NewBaseRepository[models.Click, models.ClickFilter](db)}
}

func (r *ClickRepositoryImpl) applyFilter(db *gorm.DB, f models.ClickFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.LinkID != nil {
		db = db.Where("link_id = ?", *f.LinkID)
	}
	if len(f.LinkIDs) > 0 {
		db = db.Where("link_id IN ?", f.LinkIDs)
	}
	if f.IP != nil {
		db = db.Where("ip = ?", *f.IP)
	}
	if f.Fingerprint != nil {
		db = db.Where("fingerprint = ?", *f.Fingerprint)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

func (r *ClickRepositoryImpl) ByFilter(ctx context.Context, filter models.ClickFilter, orderBy string, limit, offset int) ([]*models.Click, error) {
	db := r.getDB(ctx)
	query := paginate(r.applyFilter(db.Model(&models.Click{}), filter), orderBy, limit, offset)
	var rows []*models.Click
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ClickRepositoryImpl) Count(ctx context.Context, filter models.ClickFilter) (int64, error) {
	db := r.getDB(ctx)
	var count int64
	if err := r.applyFilter(db.Model(&models.Click{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ClickRepositoryImpl) Exists(ctx context.Context, filter models.ClickFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
