package businessflow

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/amirphl/metatag-sync/app/dto"
	"github.com/amirphl/metatag-sync/app/services"
	"github.com/amirphl/metatag-sync/repository"
	"github.com/amirphl/metatag-sync/utils"
)

// TagRenderFlow returns the head markup of a tracked page, read through the page cache
type TagRenderFlow interface {
	Render(ctx context.Context, req *dto.RenderTagsRequest) (*dto.RenderTagsResponse, error)
}

type TagRenderFlowImpl struct {
	urlRepo repository.URLRepository
	tagRepo repository.TagRepository
	cache   services.PageCache
}

func NewTagRenderFlow(urlRepo repository.URLRepository, tagRepo repository.TagRepository, cache services.PageCache) TagRenderFlow {
	return &TagRenderFlowImpl{urlRepo: urlRepo, tagRepo: tagRepo, cache: cache}
}

func (f *TagRenderFlowImpl) Render(ctx context.Context, req *dto.RenderTagsRequest) (*dto.RenderTagsResponse, error) {
	uri, err := utils.CleanURI(req.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	markup, hit, err := f.cache.Get(ctx, uri)
	if err != nil {
		log.Printf("Tag render: %v", err)
	}
	if hit {
		return &dto.RenderTagsResponse{URI: uri, Markup: markup, Cached: true}, nil
	}

	// read before loading tags so an invalidation in between discards this render
	generation, genErr := f.cache.Generation(ctx, uri)
	if genErr != nil {
		log.Printf("Tag render: %v", genErr)
	}

	url, err := f.urlRepo.ByURI(ctx, uri)
	if err != nil {
		return nil, NewBusinessError("URL_LOOKUP_FAILED", "Failed to lookup tracked url", err)
	}
	if url == nil {
		return nil, ErrURLNotFound
	}

	// unpublished pages render no tags
	if url.IsPublished() {
		tags, err := f.tagRepo.ListByURLID(ctx, url.ID)
		if err != nil {
			return nil, NewBusinessError("TAGS_LOAD_FAILED", "Failed to load tags of url", err)
		}
		lines := make([]string, 0, len(tags))
		for _, tag := range tags {
			if out := strings.TrimSpace(tag.Output); out != "" {
				lines = append(lines, out)
			}
		}
		markup = strings.Join(lines, "\n")
	}

	if genErr == nil {
		if err := f.cache.Set(ctx, uri, markup, generation); err != nil {
			log.Printf("Tag render: %v", err)
		}
	}

	return &dto.RenderTagsResponse{URI: uri, Markup: markup}, nil
}
