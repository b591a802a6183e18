package businessflow

import (
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/amirphl/metatag-sync/app/dto"
	"github.com/amirphl/metatag-sync/extension"
	"github.com/amirphl/metatag-sync/models"
	"github.com/amirphl/metatag-sync/utils"
)

// RequestContext describes one dispatched page request.
// It is built once per request and passed by value through every step of a pass.
type RequestContext struct {
	RequestID    string
	PageURL      string // clean absolute URL of the page
	Method       string
	DocumentType string
	IsAdmin      bool
	Option       string
	View         string
	Task         string
	MenuItemID   int
	vars         map[string]string
}

// NewRequestContext validates a dispatch request and builds its request context
func NewRequestContext(req *dto.DispatchRequest, requestID string) (RequestContext, error) {
	if req == nil {
		return RequestContext{}, ErrDispatchRequestNil
	}
	pageURL, err := utils.CleanURI(req.URL)
	if err != nil {
		return RequestContext{}, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	docType := strings.ToLower(strings.TrimSpace(req.DocumentType))
	if docType == "" {
		docType = "html"
	}

	return RequestContext{
		RequestID:    requestID,
		PageURL:      pageURL,
		Method:       strings.ToUpper(strings.TrimSpace(req.Method)),
		DocumentType: docType,
		IsAdmin:      req.IsAdmin,
		Option:       strings.TrimSpace(req.Option),
		View:         strings.TrimSpace(req.View),
		Task:         strings.TrimSpace(req.Task),
		MenuItemID:   req.MenuItemID,
		vars:         maps.Clone(req.Vars),
	}, nil
}

// Var returns a route variable of the page, or "" when absent
func (r RequestContext) Var(name string) string {
	return r.vars[name]
}

// ExtensionOptions returns the reader options for the request's extension page
func (r RequestContext) ExtensionOptions(generateMetaDesc, extractImage bool) extension.Options {
	return extension.Options{
		Option:           r.Option,
		View:             r.View,
		Task:             r.Task,
		MenuItemID:       r.MenuItemID,
		Vars:             maps.Clone(r.vars),
		GenerateMetaDesc: generateMetaDesc,
		ExtractImage:     extractImage,
	}
}

// ToTagDTO converts a tag model to its API representation
func ToTagDTO(tag *models.Tag) dto.TagDTO {
	return dto.TagDTO{
		ID:       tag.ID,
		Name:     tag.Name,
		Title:    tag.Title,
		Type:     tag.Type,
		Tag:      tag.Tag,
		Content:  tag.Content,
		Output:   tag.Output,
		Ordering: tag.Ordering,
		URLID:    tag.URLID,
	}
}

// ToURLDTO converts a URL model to its API representation
func ToURLDTO(url *models.URL) dto.URLDTO {
	out := dto.URLDTO{
		ID:         url.ID,
		URI:        url.URI,
		Autoupdate: url.IsAutoupdate(),
		Published:  url.IsPublished(),
		CreatedAt:  url.CreatedAt.Format(time.RFC3339),
	}
	if url.CheckedAt != nil {
		checked := url.CheckedAt.UTC().Format(time.RFC3339)
		out.CheckedAt = &checked
	}
	return out
}
