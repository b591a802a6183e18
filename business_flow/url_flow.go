package businessflow

import (
	"context"
	"fmt"

	"github.com/amirphl/metatag-sync/app/dto"
	"github.com/amirphl/metatag-sync/models"
	"github.com/amirphl/metatag-sync/repository"
	"github.com/amirphl/metatag-sync/utils"
)

// URLFlow registers tracked URLs and lists their tags
type URLFlow interface {
	CreateURL(ctx context.Context, req *dto.CreateURLRequest) (*dto.CreateURLResponse, error)
	ListTags(ctx context.Context, urlID uint) (*dto.ListURLTagsResponse, error)
}

type URLFlowImpl struct {
	urlRepo repository.URLRepository
	tagRepo repository.TagRepository
}

func NewURLFlow(urlRepo repository.URLRepository, tagRepo repository.TagRepository) URLFlow {
	return &URLFlowImpl{urlRepo: urlRepo, tagRepo: tagRepo}
}

func (f *URLFlowImpl) CreateURL(ctx context.Context, req *dto.CreateURLRequest) (*dto.CreateURLResponse, error) {
	uri, err := utils.CleanURI(req.URI)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	tracked, err := f.urlRepo.Exists(ctx, models.URLFilter{URI: &uri})
	if err != nil {
		return nil, NewBusinessError("URL_LOOKUP_FAILED", "Failed to lookup tracked url", err)
	}
	if tracked {
		return nil, ErrURLAlreadyTracked
	}

	url := &models.URL{
		URI:        uri,
		Autoupdate: utils.ToPtr(true),
		Published:  utils.ToPtr(true),
	}
	if req.Autoupdate != nil {
		url.Autoupdate = utils.ToPtr(*req.Autoupdate)
	}
	if req.Published != nil {
		url.Published = utils.ToPtr(*req.Published)
	}
	now := utils.UTCNow()
	url.CreatedAt = now
	url.UpdatedAt = now

	if err := f.urlRepo.Save(ctx, url); err != nil {
		return nil, NewBusinessError("URL_CREATE_FAILED", "Failed to create tracked url", err)
	}

	return &dto.CreateURLResponse{
		Message: "URL registered successfully",
		URL:     ToURLDTO(url),
	}, nil
}

func (f *URLFlowImpl) ListTags(ctx context.Context, urlID uint) (*dto.ListURLTagsResponse, error) {
	url, err := f.urlRepo.ByID(ctx, urlID)
	if err != nil {
		return nil, NewBusinessError("URL_LOOKUP_FAILED", "Failed to lookup tracked url", err)
	}
	if url == nil {
		return nil, ErrURLNotFound
	}

	tags, err := f.tagRepo.ListByURLID(ctx, url.ID)
	if err != nil {
		return nil, NewBusinessError("TAGS_LOAD_FAILED", "Failed to load tags of url", err)
	}

	out := make([]dto.TagDTO, 0, len(tags))
	for _, tag := range tags {
		out = append(out, ToTagDTO(tag))
	}
	return &dto.ListURLTagsResponse{URL: ToURLDTO(url), Tags: out}, nil
}
