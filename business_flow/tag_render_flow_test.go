package businessflow

import (
	"context"
	"testing"

	"github.com/amirphl/metatag-sync/app/dto"
	"github.com/amirphl/metatag-sync/models"
	"github.com/amirphl/metatag-sync/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderReadsThroughCache(t *testing.T) {
	urls := newFakeURLRepo(trackedURL())
	tags := newFakeTagRepo(
		&models.Tag{ID: 1, Name: "ogurl", Output: `<meta property="og:url" content="x" />`, Ordering: 2, URLID: 1},
		&models.Tag{ID: 2, Name: "ogtitle", Output: `<meta property="og:title" content="t" />`, Ordering: 1, URLID: 1},
		&models.Tag{ID: 3, Name: "twitter_card", Output: "  ", Ordering: 3, URLID: 1},
	)
	cache := newFakeCache()
	flow := NewTagRenderFlow(urls, tags, cache)
	ctx := context.Background()
	req := &dto.RenderTagsRequest{URL: "https://EXAMPLE.com/blog/12-article"}

	resp, err := flow.Render(ctx, req)
	require.NoError(t, err)
	assert.False(t, resp.Cached)
	assert.Equal(t, "https://example.com/blog/12-article", resp.URI)
	assert.Equal(t, "<meta property=\"og:title\" content=\"t\" />\n<meta property=\"og:url\" content=\"x\" />", resp.Markup)

	resp, err = flow.Render(ctx, req)
	require.NoError(t, err)
	assert.True(t, resp.Cached)
	assert.Contains(t, resp.Markup, "og:title")
}

func TestRenderUnpublishedURL(t *testing.T) {
	url := trackedURL()
	url.Published = utils.ToPtr(false)
	tags := newFakeTagRepo(&models.Tag{ID: 1, Name: "ogurl", Output: "<meta />", URLID: 1})
	flow := NewTagRenderFlow(newFakeURLRepo(url), tags, newFakeCache())

	resp, err := flow.Render(context.Background(), &dto.RenderTagsRequest{URL: url.URI})
	require.NoError(t, err)
	assert.Empty(t, resp.Markup)
}

func TestRenderErrors(t *testing.T) {
	flow := NewTagRenderFlow(newFakeURLRepo(), newFakeTagRepo(), newFakeCache())

	_, err := flow.Render(context.Background(), &dto.RenderTagsRequest{URL: "https://example.com/missing"})
	assert.True(t, IsURLNotFound(err))

	_, err = flow.Render(context.Background(), &dto.RenderTagsRequest{URL: "not a url"})
	assert.True(t, IsInvalidURL(err))
}

func TestRenderIgnoresCacheFailures(t *testing.T) {
	cache := newFakeCache()
	cache.err = errStorage
	tags := newFakeTagRepo(&models.Tag{ID: 1, Name: "ogurl", Output: "<meta />", URLID: 1})
	flow := NewTagRenderFlow(newFakeURLRepo(trackedURL()), tags, cache)

	resp, err := flow.Render(context.Background(), &dto.RenderTagsRequest{URL: trackedURL().URI})
	require.NoError(t, err)
	assert.Equal(t, "<meta />", resp.Markup)
}

func TestRenderDropsMarkupInvalidatedMidRead(t *testing.T) {
	url := trackedURL()
	tags := newFakeTagRepo(&models.Tag{ID: 1, Name: "ogtitle", Output: "<meta old />", URLID: 1})
	cache := newFakeCache()
	ctx := context.Background()
	tags.onList = func() {
		tags.onList = nil
		require.NoError(t, cache.Invalidate(ctx, url.URI))
	}
	flow := NewTagRenderFlow(newFakeURLRepo(url), tags, cache)

	resp, err := flow.Render(ctx, &dto.RenderTagsRequest{URL: url.URI})
	require.NoError(t, err)
	assert.Equal(t, "<meta old />", resp.Markup)
	assert.Empty(t, cache.entries, "markup read before the invalidation must not be cached")

	resp, err = flow.Render(ctx, &dto.RenderTagsRequest{URL: url.URI})
	require.NoError(t, err)
	assert.False(t, resp.Cached)
	assert.Equal(t, "<meta old />", cache.entries[url.URI])
}
