package businessflow

import (
	"testing"

	"github.com/amirphl/metatag-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileUpdatesChangedContent(t *testing.T) {
	existing := models.NewTagSet([]*models.Tag{
		{ID: 7, Name: "ogtitle", Title: "Open Graph Title", Type: models.TagTypeMetaProperty, Tag: "og:title", Content: "Old Title", Ordering: 3, URLID: 1},
	})
	candidates := map[string]*models.TagCandidate{
		"ogtitle": {Tag: "og:title", Content: "New Title", Output: `<meta property="og:title" content="New Title" />`},
	}

	toInsert, toUpdate := Reconcile(existing, candidates, 1)

	assert.Empty(t, toInsert)
	require.Len(t, toUpdate, 1)
	updated := toUpdate[0]
	assert.Equal(t, uint(7), updated.ID)
	assert.Equal(t, 3, updated.Ordering)
	assert.Equal(t, "og:title", updated.Tag)
	assert.Equal(t, "New Title", updated.Content)
	assert.Equal(t, `<meta property="og:title" content="New Title" />`, updated.Output)
	assert.Equal(t, "Open Graph Title", updated.Title)
	assert.Equal(t, uint(1), updated.URLID)

	assert.Equal(t, "Old Title", existing.Get("ogtitle").Content, "the loaded set is left untouched")
}

func TestReconcileInsertsUnknownNames(t *testing.T) {
	candidates := map[string]*models.TagCandidate{
		"ogurl": {Title: "Open Graph URL", Type: models.TagTypeMetaProperty, Tag: "og:url", Content: "https://example.com/a"},
	}

	toInsert, toUpdate := Reconcile(models.NewTagSet(nil), candidates, 42)

	assert.Empty(t, toUpdate)
	require.Len(t, toInsert, 1)
	tag := toInsert[0]
	assert.Equal(t, "ogurl", tag.Name)
	assert.Equal(t, uint(42), tag.URLID)
	assert.Equal(t, "og:url", tag.Tag)
	assert.Equal(t, "https://example.com/a", tag.Content)
	assert.Equal(t, "Open Graph URL", tag.Title)
	assert.Equal(t, models.TagTypeMetaProperty, tag.Type)
	assert.Zero(t, tag.ID)
	assert.Zero(t, tag.Ordering)
}

func TestReconcileSkipsEmptyCandidates(t *testing.T) {
	candidates := map[string]*models.TagCandidate{
		"ogtitle":       {},
		"ogdescription": nil,
		"ogimage":       {Title: "only a title"},
		"ogurl":         {Tag: "og:url", Content: "https://example.com/"},
	}

	toInsert, toUpdate := Reconcile(models.NewTagSet(nil), candidates, 1)

	assert.Empty(t, toUpdate)
	require.Len(t, toInsert, 1)
	assert.Equal(t, "ogurl", toInsert[0].Name)
}

func TestReconcileIsIdempotent(t *testing.T) {
	existing := models.NewTagSet([]*models.Tag{
		{ID: 1, Name: "ogtitle", Tag: "og:title", Content: "Title", Ordering: 1, URLID: 9},
		{ID: 2, Name: "ogurl", Tag: "og:url", Content: "https://example.com/a", Ordering: 2, URLID: 9},
	})
	candidates := map[string]*models.TagCandidate{
		"ogtitle": {Tag: "og:title", Content: "Title"},
		"ogurl":   {Tag: "og:url", Content: "  https://example.com/a "},
	}

	for i := 0; i < 2; i++ {
		toInsert, toUpdate := Reconcile(existing, candidates, 9)
		assert.Empty(t, toInsert)
		assert.Empty(t, toUpdate)
	}
}

func TestReconcileAppliedDeltaConverges(t *testing.T) {
	repo := newFakeTagRepo()
	candidates := map[string]*models.TagCandidate{
		"ogtitle": {Tag: "og:title", Content: "Title"},
		"ogurl":   {Tag: "og:url", Content: "https://example.com/a"},
	}

	set, _ := repo.ByURLID(t.Context(), 5)
	toInsert, toUpdate := Reconcile(set, candidates, 5)
	require.Len(t, toInsert, 2)
	require.NoError(t, repo.ApplyDelta(t.Context(), toInsert, toUpdate))

	set, _ = repo.ByURLID(t.Context(), 5)
	toInsert, toUpdate = Reconcile(set, candidates, 5)
	assert.Empty(t, toInsert)
	assert.Empty(t, toUpdate)
}

func TestReconcileOrdersByName(t *testing.T) {
	candidates := map[string]*models.TagCandidate{
		"twitter_card_url": {Tag: "twitter:url", Content: "u"},
		"ogurl":            {Tag: "og:url", Content: "u"},
		"dublincore_url":   {Tag: "DC.identifier", Content: "u"},
	}

	toInsert, _ := Reconcile(models.NewTagSet(nil), candidates, 1)

	require.Len(t, toInsert, 3)
	assert.Equal(t, "dublincore_url", toInsert[0].Name)
	assert.Equal(t, "ogurl", toInsert[1].Name)
	assert.Equal(t, "twitter_card_url", toInsert[2].Name)
}

func TestTagChanged(t *testing.T) {
	tests := []struct {
		name      string
		current   models.Tag
		candidate models.TagCandidate
		expected  bool
	}{
		{
			name:      "identical",
			current:   models.Tag{Tag: "og:title", Content: "Title"},
			candidate: models.TagCandidate{Tag: "og:title", Content: "Title"},
			expected:  false,
		},
		{
			name:      "template differs with equal content",
			current:   models.Tag{Tag: "og:title", Content: "Title"},
			candidate: models.TagCandidate{Tag: "twitter:title", Content: "Title"},
			expected:  true,
		},
		{
			name:      "empty content filled",
			current:   models.Tag{Tag: "og:title", Content: "  "},
			candidate: models.TagCandidate{Tag: "og:title", Content: "Title"},
			expected:  true,
		},
		{
			name:      "content edited",
			current:   models.Tag{Tag: "og:title", Content: "Old"},
			candidate: models.TagCandidate{Tag: "og:title", Content: "New"},
			expected:  true,
		},
		{
			name:      "content differs only in surrounding whitespace",
			current:   models.Tag{Tag: "og:title", Content: "Title\n"},
			candidate: models.TagCandidate{Tag: "og:title", Content: " Title"},
			expected:  false,
		},
		{
			name:      "candidate content empty keeps stored content",
			current:   models.Tag{Tag: "og:title", Content: "Title"},
			candidate: models.TagCandidate{Tag: "og:title", Content: ""},
			expected:  false,
		},
		{
			name:      "both empty",
			current:   models.Tag{Tag: "twitter:card"},
			candidate: models.TagCandidate{Tag: "twitter:card"},
			expected:  false,
		},
		{
			name:      "stored literal placeholder text is ordinary content",
			current:   models.Tag{Tag: "og:title", Content: "$oldContent"},
			candidate: models.TagCandidate{Tag: "og:title", Content: "$oldContent"},
			expected:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TagChanged(&tt.current, &tt.candidate))
		})
	}
}

func TestReconcileTemplateChangeUpdatesRegardlessOfContent(t *testing.T) {
	existing := models.NewTagSet([]*models.Tag{
		{ID: 3, Name: "twitter_card", Tag: "twitter:card", Content: "summary", Ordering: 4},
	})
	candidates := map[string]*models.TagCandidate{
		"twitter_card": {Tag: "twitter:card:type", Content: "summary"},
	}

	_, toUpdate := Reconcile(existing, candidates, 1)

	require.Len(t, toUpdate, 1)
	assert.Equal(t, uint(3), toUpdate[0].ID)
	assert.Equal(t, 4, toUpdate[0].Ordering)
	assert.Equal(t, "twitter:card:type", toUpdate[0].Tag)
}
