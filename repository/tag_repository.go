package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirphl/metatag-sync/models"
	"gorm.io/gorm"
)

// TagRepositoryImpl implements TagRepository interface
type TagRepositoryImpl struct {
	*BaseRepository[models.Tag, models.TagFilter]
}

// NewTagRepository creates a new tag repository
func NewTagRepository(db *gorm.DB) TagRepository {
	return &TagRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Tag, models.TagFilter](db),
	}
}

// ByID retrieves a tag by its ID
func (r *TagRepositoryImpl) ByID(ctx context.Context, id uint) (*models.Tag, error) {
	db := r.getDB(ctx)
	var row models.Tag
	if err := db.Last(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// ByURLID loads the tag set of a URL
func (r *TagRepositoryImpl) ByURLID(ctx context.Context, urlID uint) (models.TagSet, error) {
	rows, err := r.ListByURLID(ctx, urlID)
	if err != nil {
		return models.TagSet{}, err
	}
	return models.NewTagSet(rows), nil
}

// ListByURLID returns the tags of a URL ordered for display
func (r *TagRepositoryImpl) ListByURLID(ctx context.Context, urlID uint) ([]*models.Tag, error) {
	rows, err := r.ByFilter(ctx, models.TagFilter{URLID: &urlID}, "ordering ASC, id ASC", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load tags of url %d: %w", urlID, err)
	}
	return rows, nil
}

// ApplyDelta stores the result of a reconciliation pass.
// New tags go in one insert without id and ordering so storage assigns them.
// Updated tags are deleted by id and inserted again with their original id and ordering.
func (r *TagRepositoryImpl) ApplyDelta(ctx context.Context, toInsert, toUpdate []*models.Tag) (err error) {
	if len(toInsert) == 0 && len(toUpdate) == 0 {
		return nil
	}

	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}
	defer func() { err = finish(db, shouldCommit, err) }()

	if len(toInsert) > 0 {
		if err = db.Omit("ID", "Ordering").Create(toInsert).Error; err != nil {
			return fmt.Errorf("failed to insert tags: %w", err)
		}
	}

	if len(toUpdate) > 0 {
		ids := make([]uint, 0, len(toUpdate))
		for _, t := range toUpdate {
			ids = append(ids, t.ID)
		}
		if err = db.Where("id IN ?", ids).Delete(&models.Tag{}).Error; err != nil {
			return fmt.Errorf("failed to delete replaced tags: %w", err)
		}
		if err = db.Create(toUpdate).Error; err != nil {
			return fmt.Errorf("failed to reinsert updated tags: %w", err)
		}
	}

	return nil
}

// applyFilter applies filter criteria to a GORM query
func (r *TagRepositoryImpl) applyFilter(query *gorm.DB, filter models.TagFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.Name != nil {
		query = query.Where("name = ?", *filter.Name)
	}
	if filter.URLID != nil {
		query = query.Where("url_id = ?", *filter.URLID)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	return query
}

// ByFilter retrieves tags based on filter criteria
func (r *TagRepositoryImpl) ByFilter(ctx context.Context, filter models.TagFilter, orderBy string, limit, offset int) ([]*models.Tag, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Tag{})

	query = r.applyFilter(query, filter)

	if orderBy == "" {
		orderBy = "id DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Tag
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of tags matching the filter
func (r *TagRepositoryImpl) Count(ctx context.Context, filter models.TagFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Tag{})
	query = r.applyFilter(query, filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
