package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amirphl/metatag-sync/models"
	"gorm.io/gorm"
)

// URLRepositoryImpl implements URLRepository
type URLRepositoryImpl struct {
	*BaseRepository[models.URL, models.URLFilter]
}

func NewURLRepository(db *gorm.DB) URLRepository {
	return &URLRepositoryImpl{BaseRepository: NewBaseRepository[models.URL, models.URLFilter](db)}
}

func (r *URLRepositoryImpl) ByID(ctx context.Context, id uint) (*models.URL, error) {
	db := r.getDB(ctx)
	var row models.URL
	if err := db.Last(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// ByURI retrieves the tracked URL for a cleaned page URI
func (r *URLRepositoryImpl) ByURI(ctx context.Context, uri string) (*models.URL, error) {
	filter := models.URLFilter{URI: &uri}
	rows, err := r.ByFilter(ctx, filter, "id DESC", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// UpdateCheckDate records when the URL was last processed
func (r *URLRepositoryImpl) UpdateCheckDate(ctx context.Context, id uint, checkedAt time.Time) error {
	db := r.getDB(ctx)
	res := db.Model(&models.URL{}).
		Where("id = ?", id).
		Updates(map[string]any{"checked_at": checkedAt, "updated_at": checkedAt})
	if res.Error != nil {
		return fmt.Errorf("failed to update check date of url %d: %w", id, res.Error)
	}
	return nil
}

func (r *URLRepositoryImpl) applyFilter(db *gorm.DB, f models.URLFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.URI != nil {
		db = db.Where("uri = ?", *f.URI)
	}
	if f.Autoupdate != nil {
		db = db.Where("autoupdate = ?", *f.Autoupdate)
	}
	if f.Published != nil {
		db = db.Where("published = ?", *f.Published)
	}
	return db
}

func (r *URLRepositoryImpl) ByFilter(ctx context.Context, filter models.URLFilter, orderBy string, limit, offset int) ([]*models.URL, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.URL{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.URL
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find urls by filter: %w", err)
	}
	return rows, nil
}

func (r *URLRepositoryImpl) Count(ctx context.Context, filter models.URLFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.URL{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *URLRepositoryImpl) Exists(ctx context.Context, filter models.URLFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
