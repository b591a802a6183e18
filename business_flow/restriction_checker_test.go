package businessflow

import (
	"testing"
	"time"

	"github.com/amirphl/metatag-sync/config"
	"github.com/amirphl/metatag-sync/models"
	"github.com/amirphl/metatag-sync/utils"
	"github.com/stretchr/testify/assert"
)

func siteRequest() RequestContext {
	return RequestContext{
		PageURL:      "https://example.com/blog/12-article",
		Method:       "GET",
		DocumentType: "html",
		Option:       config.ExtensionContent,
		View:         "article",
	}
}

func trackedURL() *models.URL {
	return &models.URL{
		ID:         1,
		URI:        "https://example.com/blog/12-article",
		Autoupdate: utils.ToPtr(true),
		Published:  utils.ToPtr(true),
	}
}

func TestShouldProcess(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	daysAgo := func(d int) *time.Time {
		v := now.Add(-time.Duration(d) * 24 * time.Hour)
		return &v
	}

	tests := []struct {
		name     string
		mutate   func(cfg *config.TagsConfig, req *RequestContext, url **models.URL)
		ok       bool
		expected RestrictionReason
	}{
		{name: "allowed", mutate: func(*config.TagsConfig, *RequestContext, **models.URL) {}, ok: true},
		{name: "admin", mutate: func(_ *config.TagsConfig, req *RequestContext, _ **models.URL) { req.IsAdmin = true }, expected: RestrictionAdmin},
		{name: "json document", mutate: func(_ *config.TagsConfig, req *RequestContext, _ **models.URL) { req.DocumentType = "json" }, expected: RestrictionDocumentType},
		{name: "post", mutate: func(_ *config.TagsConfig, req *RequestContext, _ **models.URL) { req.Method = "POST" }, expected: RestrictionMethod},
		{name: "head", mutate: func(_ *config.TagsConfig, req *RequestContext, _ **models.URL) { req.Method = "HEAD" }, expected: RestrictionMethod},
		{name: "component disabled", mutate: func(cfg *config.TagsConfig, _ *RequestContext, _ **models.URL) { cfg.Enabled = false }, expected: RestrictionDisabled},
		{name: "unsupported extension", mutate: func(_ *config.TagsConfig, req *RequestContext, _ **models.URL) { req.Option = "com_users" }, expected: RestrictionUnsupportedExtension},
		{name: "extension disabled", mutate: func(cfg *config.TagsConfig, _ *RequestContext, _ **models.URL) { cfg.Extensions.Content = false }, expected: RestrictionExtensionDisabled},
		{name: "url missing", mutate: func(_ *config.TagsConfig, _ *RequestContext, url **models.URL) { *url = nil }, expected: RestrictionURLNotTracked},
		{name: "url without id", mutate: func(_ *config.TagsConfig, _ *RequestContext, url **models.URL) { (*url).ID = 0 }, expected: RestrictionURLNotTracked},
		{name: "autoupdate off", mutate: func(_ *config.TagsConfig, _ *RequestContext, url **models.URL) {
			(*url).Autoupdate = utils.ToPtr(false)
		}, expected: RestrictionNoAutoupdate},
		{name: "unpublished", mutate: func(_ *config.TagsConfig, _ *RequestContext, url **models.URL) { (*url).Published = utils.ToPtr(false) }, expected: RestrictionUnpublished},
		{name: "checked within period", mutate: func(cfg *config.TagsConfig, _ *RequestContext, url **models.URL) {
			cfg.AutoupdatePeriod = 3
			(*url).CheckedAt = daysAgo(2)
		}, expected: RestrictionRecentlyChecked},
		{name: "period elapsed", mutate: func(cfg *config.TagsConfig, _ *RequestContext, url **models.URL) {
			cfg.AutoupdatePeriod = 3
			(*url).CheckedAt = daysAgo(3)
		}, ok: true},
		{name: "never checked", mutate: func(cfg *config.TagsConfig, _ *RequestContext, url **models.URL) {
			cfg.AutoupdatePeriod = 3
			(*url).CheckedAt = nil
		}, ok: true},
		{name: "no period", mutate: func(_ *config.TagsConfig, _ *RequestContext, url **models.URL) { (*url).CheckedAt = &now }, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultTagsConfig()
			req := siteRequest()
			url := trackedURL()
			tt.mutate(&cfg, &req, &url)

			ok, reason := NewRestrictionChecker(cfg).ShouldProcess(req, url, now)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, reason)
		})
	}
}

func TestRequestRestrictionIgnoresURL(t *testing.T) {
	checker := NewRestrictionChecker(config.DefaultTagsConfig())
	assert.Equal(t, RestrictionNone, checker.RequestRestriction(siteRequest()))

	req := siteRequest()
	req.Option = ""
	assert.Equal(t, RestrictionUnsupportedExtension, checker.RequestRestriction(req))
}
