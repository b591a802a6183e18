// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/amirphl/metatag-sync/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	Count(ctx context.Context, filter F) (int64, error)
}

// Transactor runs fn in one database transaction. Repositories called with the ctx passed
// to fn join that transaction.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// TagRepository defines operations for the metadata tags of tracked URLs
type TagRepository interface {
	Repository[models.Tag, models.TagFilter]
	// ByURLID loads every tag owned by the URL as a name-addressable set
	ByURLID(ctx context.Context, urlID uint) (models.TagSet, error)
	// ListByURLID returns the URL's tags in display order
	ListByURLID(ctx context.Context, urlID uint) ([]*models.Tag, error)
	// ApplyDelta inserts new tags and replaces updated ones by id in a single transaction
	ApplyDelta(ctx context.Context, toInsert, toUpdate []*models.Tag) error
}

// URLRepository defines operations for tracked URLs
type URLRepository interface {
	Repository[models.URL, models.URLFilter]
	ByURI(ctx context.Context, uri string) (*models.URL, error)
	Exists(ctx context.Context, filter models.URLFilter) (bool, error)
	UpdateCheckDate(ctx context.Context, id uint, checkedAt time.Time) error
}
