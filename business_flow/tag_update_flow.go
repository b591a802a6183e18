package businessflow

import (
	"context"
	"log"
	"time"

	"github.com/amirphl/metatag-sync/app/services"
	"github.com/amirphl/metatag-sync/config"
	"github.com/amirphl/metatag-sync/extension"
	"github.com/amirphl/metatag-sync/repository"
	"github.com/amirphl/metatag-sync/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pass outcomes used as metric labels
const (
	OutcomeProcessed = "processed"
	OutcomeSkipped   = "skipped"
	OutcomeFailed    = "failed"
)

var (
	// Tag update passes partitioned by outcome and restriction reason
	tagPassesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "metatag_update_passes_total",
			Help: "Total number of tag update passes by outcome",
		},
		[]string{"outcome", "reason"},
	)

	tagsInsertedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "metatag_tags_inserted_total",
			Help: "Total number of tags inserted",
		},
	)

	tagsUpdatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "metatag_tags_updated_total",
			Help: "Total number of tags replaced with fresh content",
		},
	)
)

// ProcessResult reports what one pass did
type ProcessResult struct {
	Processed        bool
	Reason           RestrictionReason
	URLID            uint
	Inserted         int
	Updated          int
	CacheInvalidated bool
}

// TagUpdateFlow refreshes the stored tags of a page after it has been dispatched
type TagUpdateFlow interface {
	Process(ctx context.Context, req RequestContext) (*ProcessResult, error)
}

type TagUpdateFlowImpl struct {
	cfg       config.TagsConfig
	urlRepo   repository.URLRepository
	tagRepo   repository.TagRepository
	checker   RestrictionChecker
	content   extension.Reader
	generator TagGenerator
	cache     services.PageCache
	tx        repository.Transactor
	now       func() time.Time
}

func NewTagUpdateFlow(
	cfg config.TagsConfig,
	urlRepo repository.URLRepository,
	tagRepo repository.TagRepository,
	checker RestrictionChecker,
	content extension.Reader,
	generator TagGenerator,
	cache services.PageCache,
	tx repository.Transactor,
) TagUpdateFlow {
	return &TagUpdateFlowImpl{
		cfg:       cfg,
		urlRepo:   urlRepo,
		tagRepo:   tagRepo,
		checker:   checker,
		content:   content,
		generator: generator,
		cache:     cache,
		tx:        tx,
		now:       utils.UTCNow,
	}
}

func (f *TagUpdateFlowImpl) Process(ctx context.Context, req RequestContext) (result *ProcessResult, err error) {
	result = &ProcessResult{}
	defer func() {
		switch {
		case err != nil:
			tagPassesTotal.WithLabelValues(OutcomeFailed, "").Inc()
		case result.Processed:
			tagPassesTotal.WithLabelValues(OutcomeProcessed, "").Inc()
			tagsInsertedTotal.Add(float64(result.Inserted))
			tagsUpdatedTotal.Add(float64(result.Updated))
		default:
			tagPassesTotal.WithLabelValues(OutcomeSkipped, string(result.Reason)).Inc()
		}
	}()

	if reason := f.checker.RequestRestriction(req); reason != RestrictionNone {
		result.Reason = reason
		return result, nil
	}

	url, err := f.urlRepo.ByURI(ctx, req.PageURL)
	if err != nil {
		return nil, NewBusinessError("URL_LOOKUP_FAILED", "Failed to lookup tracked url", err)
	}

	now := f.now()
	ok, reason := f.checker.ShouldProcess(req, url, now)
	if !ok {
		result.Reason = reason
		return result, nil
	}
	result.URLID = url.ID

	data, err := f.content.Data(ctx, req.ExtensionOptions(f.cfg.GenerateMetaDesc, f.cfg.ExtractImage))
	if err != nil {
		return nil, NewBusinessError("CONTENT_READ_FAILED", "Failed to read page content", err)
	}

	candidates := f.generator.Generate(data, req.PageURL)

	// the tag delta and the check date commit together
	err = f.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if len(candidates) > 0 {
			existing, err := f.tagRepo.ByURLID(txCtx, url.ID)
			if err != nil {
				return NewBusinessErrorf("TAGS_LOAD_FAILED", "Failed to load tags of url %d", err, url.ID)
			}

			toInsert, toUpdate := Reconcile(existing, candidates, url.ID)
			if err := f.tagRepo.ApplyDelta(txCtx, toInsert, toUpdate); err != nil {
				return NewBusinessErrorf("TAGS_STORE_FAILED", "Failed to store tags of url %d", err, url.ID)
			}
			result.Inserted = len(toInsert)
			result.Updated = len(toUpdate)
		}

		if err := f.urlRepo.UpdateCheckDate(txCtx, url.ID, now); err != nil {
			return NewBusinessError("URL_CHECK_DATE_FAILED", "Failed to update url check date", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Inserted+result.Updated > 0 {
		if err := f.cache.Invalidate(ctx, req.PageURL); err != nil {
			log.Printf("Tag update [%s]: %v", req.RequestID, err)
		} else {
			result.CacheInvalidated = true
		}
	}

	result.Processed = true
	return result, nil
}
