package businessflow

import (
	"context"
	"testing"
	"time"

	"github.com/amirphl/metatag-sync/app/services"
	"github.com/amirphl/metatag-sync/config"
	"github.com/amirphl/metatag-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type updateFixture struct {
	flow    *TagUpdateFlowImpl
	urls    *fakeURLRepo
	tags    *fakeTagRepo
	content *fakeContent
	cache   *fakeCache
	tx      *fakeTransactor
	now     time.Time
}

func newUpdateFixture(t *testing.T, mutate func(cfg *config.TagsConfig)) *updateFixture {
	t.Helper()
	cfg := config.DefaultTagsConfig()
	cfg.SiteRoot = "https://example.com"
	if mutate != nil {
		mutate(&cfg)
	}
	catalog, err := services.NewTagCatalog("")
	require.NoError(t, err)

	fx := &updateFixture{
		urls:    newFakeURLRepo(trackedURL()),
		tags:    newFakeTagRepo(),
		content: &fakeContent{data: models.ContentData{Title: "Article", MetaDesc: "About the article"}},
		cache:   newFakeCache(),
		tx:      &fakeTransactor{},
		now:     time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
	flow := NewTagUpdateFlow(cfg, fx.urls, fx.tags, NewRestrictionChecker(cfg), fx.content, NewTagGenerator(cfg, catalog), fx.cache, fx.tx).(*TagUpdateFlowImpl)
	flow.now = func() time.Time { return fx.now }
	fx.flow = flow
	return fx
}

func TestProcessInsertsThenConverges(t *testing.T) {
	fx := newUpdateFixture(t, nil)
	ctx := context.Background()
	req := siteRequest()

	result, err := fx.flow.Process(ctx, req)
	require.NoError(t, err)
	assert.True(t, result.Processed)
	assert.Equal(t, uint(1), result.URLID)
	assert.Greater(t, result.Inserted, 0)
	assert.Zero(t, result.Updated)
	assert.True(t, result.CacheInvalidated)
	assert.Equal(t, []string{req.PageURL}, fx.cache.invalidated)
	require.NotNil(t, fx.urls.urls[1].CheckedAt)
	assert.Equal(t, fx.now, *fx.urls.urls[1].CheckedAt)

	stored, _ := fx.tags.ListByURLID(ctx, 1)
	assert.Len(t, stored, result.Inserted)

	// second pass with unchanged content writes nothing and leaves the cache alone
	result, err = fx.flow.Process(ctx, req)
	require.NoError(t, err)
	assert.True(t, result.Processed)
	assert.Zero(t, result.Inserted)
	assert.Zero(t, result.Updated)
	assert.False(t, result.CacheInvalidated)
	assert.Len(t, fx.cache.invalidated, 1)
	assert.Equal(t, 1, fx.tags.applied)
	assert.Len(t, fx.urls.checkedIDs, 2)
}

func TestProcessUpdatesEditedContent(t *testing.T) {
	fx := newUpdateFixture(t, nil)
	ctx := context.Background()
	req := siteRequest()

	_, err := fx.flow.Process(ctx, req)
	require.NoError(t, err)
	before, _ := fx.tags.ByURLID(ctx, 1)
	original := *before.Get(TagOGTitle)

	fx.content.data.Title = "Edited Article"
	result, err := fx.flow.Process(ctx, req)
	require.NoError(t, err)
	assert.Zero(t, result.Inserted)
	// og, twitter and dublin core titles
	assert.Equal(t, 3, result.Updated)

	after, _ := fx.tags.ByURLID(ctx, 1)
	updated := after.Get(TagOGTitle)
	assert.Equal(t, original.ID, updated.ID)
	assert.Equal(t, original.Ordering, updated.Ordering)
	assert.Equal(t, "Edited Article", updated.Content)
}

func TestProcessSkipsRestrictedRequests(t *testing.T) {
	fx := newUpdateFixture(t, nil)
	req := siteRequest()
	req.Method = "POST"

	result, err := fx.flow.Process(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, result.Processed)
	assert.Equal(t, RestrictionMethod, result.Reason)
	assert.Empty(t, fx.content.calls)
	assert.Empty(t, fx.urls.checkedIDs)
}

func TestProcessSkipsUntrackedURL(t *testing.T) {
	fx := newUpdateFixture(t, nil)
	req := siteRequest()
	req.PageURL = "https://example.com/unknown"

	result, err := fx.flow.Process(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, result.Processed)
	assert.Equal(t, RestrictionURLNotTracked, result.Reason)
	assert.Empty(t, fx.content.calls)
}

func TestProcessPassesReaderOptions(t *testing.T) {
	fx := newUpdateFixture(t, func(cfg *config.TagsConfig) {
		cfg.GenerateMetaDesc = false
		cfg.ExtractImage = true
	})
	req := siteRequest()
	req.vars = map[string]string{"id": "12:article"}
	req.MenuItemID = 101

	_, err := fx.flow.Process(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, fx.content.calls, 1)
	opts := fx.content.calls[0]
	assert.Equal(t, req.Option, opts.Option)
	assert.Equal(t, "article", opts.View)
	assert.Equal(t, 101, opts.MenuItemID)
	assert.Equal(t, "12:article", opts.Var("id"))
	assert.False(t, opts.GenerateMetaDesc)
	assert.True(t, opts.ExtractImage)
}

func TestProcessWithoutCandidatesStillMarksChecked(t *testing.T) {
	fx := newUpdateFixture(t, func(cfg *config.TagsConfig) {
		cfg.OpenGraph = config.OpenGraphTags{}
		cfg.Twitter = config.TwitterTags{}
		cfg.SEO = config.SEOTags{}
		cfg.DublinCore = config.DublinCoreTags{}
		cfg.TwitterCard = ""
	})

	result, err := fx.flow.Process(context.Background(), siteRequest())
	require.NoError(t, err)
	assert.True(t, result.Processed)
	assert.Zero(t, fx.tags.applied)
	assert.Empty(t, fx.cache.invalidated)
	assert.Equal(t, []uint{1}, fx.urls.checkedIDs)
}

func TestProcessStorageErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(fx *updateFixture)
		code   string
	}{
		{name: "url lookup", mutate: func(fx *updateFixture) { fx.urls.lookupErr = errStorage }, code: "URL_LOOKUP_FAILED"},
		{name: "content read", mutate: func(fx *updateFixture) { fx.content.err = errStorage }, code: "CONTENT_READ_FAILED"},
		{name: "apply delta", mutate: func(fx *updateFixture) { fx.tags.applyErr = errStorage }, code: "TAGS_STORE_FAILED"},
		{name: "check date", mutate: func(fx *updateFixture) { fx.urls.checkErr = errStorage }, code: "URL_CHECK_DATE_FAILED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newUpdateFixture(t, nil)
			tt.mutate(fx)

			result, err := fx.flow.Process(context.Background(), siteRequest())
			require.Error(t, err)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, errStorage)

			var be *BusinessError
			require.ErrorAs(t, err, &be)
			assert.Equal(t, tt.code, be.Code)
		})
	}
}

func TestProcessCommitsDeltaAndCheckDateTogether(t *testing.T) {
	fx := newUpdateFixture(t, nil)

	result, err := fx.flow.Process(context.Background(), siteRequest())
	require.NoError(t, err)
	assert.True(t, result.Processed)
	assert.Equal(t, 1, fx.tx.runs)
	assert.Equal(t, 1, fx.tx.committed)
	assert.True(t, fx.tags.inTx)
	assert.True(t, fx.urls.checkedInTx)
}

func TestProcessRollsBackWhenCheckDateFails(t *testing.T) {
	fx := newUpdateFixture(t, nil)
	fx.urls.checkErr = errStorage

	_, err := fx.flow.Process(context.Background(), siteRequest())
	require.Error(t, err)
	assert.Equal(t, 1, fx.tags.applied)
	assert.Equal(t, 1, fx.tx.rolledBack)
	assert.Zero(t, fx.tx.committed)
	// nothing was committed, so the cached markup is still current
	assert.Empty(t, fx.cache.invalidated)
}

func TestProcessSkipDoesNotOpenTransaction(t *testing.T) {
	fx := newUpdateFixture(t, nil)
	req := siteRequest()
	req.IsAdmin = true

	_, err := fx.flow.Process(context.Background(), req)
	require.NoError(t, err)
	assert.Zero(t, fx.tx.runs)
}

func TestProcessCacheFailureIsNotFatal(t *testing.T) {
	fx := newUpdateFixture(t, nil)
	fx.cache.err = errStorage

	result, err := fx.flow.Process(context.Background(), siteRequest())
	require.NoError(t, err)
	assert.True(t, result.Processed)
	assert.False(t, result.CacheInvalidated)
	assert.Greater(t, result.Inserted, 0)
}
