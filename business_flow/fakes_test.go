package businessflow

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/amirphl/metatag-sync/extension"
	"github.com/amirphl/metatag-sync/models"
)

var errStorage = errors.New("storage unavailable")

type fakeURLRepo struct {
	urls        map[uint]*models.URL
	nextID      uint
	lookupErr   error
	checkErr    error
	checkedIDs  []uint
	checkedInTx bool
}

func newFakeURLRepo(urls ...*models.URL) *fakeURLRepo {
	r := &fakeURLRepo{urls: map[uint]*models.URL{}, nextID: 1}
	for _, u := range urls {
		r.urls[u.ID] = u
		if u.ID >= r.nextID {
			r.nextID = u.ID + 1
		}
	}
	return r
}

func (r *fakeURLRepo) ByID(_ context.Context, id uint) (*models.URL, error) {
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	return r.urls[id], nil
}

func (r *fakeURLRepo) ByURI(_ context.Context, uri string) (*models.URL, error) {
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	for _, u := range r.urls {
		if u.URI == uri {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeURLRepo) ByFilter(context.Context, models.URLFilter, string, int, int) ([]*models.URL, error) {
	return nil, nil
}

func (r *fakeURLRepo) Save(_ context.Context, u *models.URL) error {
	if u.ID == 0 {
		u.ID = r.nextID
		r.nextID++
	}
	r.urls[u.ID] = u
	return nil
}

func (r *fakeURLRepo) Count(context.Context, models.URLFilter) (int64, error) {
	return int64(len(r.urls)), nil
}

func (r *fakeURLRepo) Exists(_ context.Context, filter models.URLFilter) (bool, error) {
	if r.lookupErr != nil {
		return false, r.lookupErr
	}
	for _, u := range r.urls {
		if filter.URI != nil && u.URI != *filter.URI {
			continue
		}
		return true, nil
	}
	return false, nil
}

func (r *fakeURLRepo) UpdateCheckDate(ctx context.Context, id uint, checkedAt time.Time) error {
	r.checkedInTx = inTx(ctx)
	if r.checkErr != nil {
		return r.checkErr
	}
	r.checkedIDs = append(r.checkedIDs, id)
	if u, ok := r.urls[id]; ok {
		u.CheckedAt = &checkedAt
	}
	return nil
}

// fakeTagRepo stores tags in memory and applies deltas the way the database does:
// inserts get the next id, updates replace the row with the same id
type fakeTagRepo struct {
	tags     map[uint]*models.Tag
	nextID   uint
	applyErr error
	applied  int
	inTx     bool
	// onList runs before ListByURLID returns, to interleave a concurrent update
	onList func()
}

func newFakeTagRepo(tags ...*models.Tag) *fakeTagRepo {
	r := &fakeTagRepo{tags: map[uint]*models.Tag{}, nextID: 1}
	for _, t := range tags {
		r.tags[t.ID] = t
		if t.ID >= r.nextID {
			r.nextID = t.ID + 1
		}
	}
	return r
}

func (r *fakeTagRepo) ByID(_ context.Context, id uint) (*models.Tag, error) {
	return r.tags[id], nil
}

func (r *fakeTagRepo) ByFilter(context.Context, models.TagFilter, string, int, int) ([]*models.Tag, error) {
	return nil, nil
}

func (r *fakeTagRepo) Save(_ context.Context, t *models.Tag) error {
	if t.ID == 0 {
		t.ID = r.nextID
		r.nextID++
	}
	r.tags[t.ID] = t
	return nil
}

func (r *fakeTagRepo) Count(context.Context, models.TagFilter) (int64, error) {
	return int64(len(r.tags)), nil
}

func (r *fakeTagRepo) ListByURLID(_ context.Context, urlID uint) ([]*models.Tag, error) {
	if r.onList != nil {
		r.onList()
	}
	var out []*models.Tag
	for _, t := range r.tags {
		if t.URLID == urlID {
			c := *t
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Ordering != out[j].Ordering {
			return out[i].Ordering < out[j].Ordering
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *fakeTagRepo) ByURLID(ctx context.Context, urlID uint) (models.TagSet, error) {
	tags, err := r.ListByURLID(ctx, urlID)
	if err != nil {
		return models.TagSet{}, err
	}
	return models.NewTagSet(tags), nil
}

func (r *fakeTagRepo) ApplyDelta(ctx context.Context, toInsert, toUpdate []*models.Tag) error {
	r.inTx = inTx(ctx)
	if r.applyErr != nil {
		return r.applyErr
	}
	if len(toInsert) == 0 && len(toUpdate) == 0 {
		return nil
	}
	r.applied++
	for _, t := range toInsert {
		c := *t
		c.ID = r.nextID
		c.Ordering = int(r.nextID)
		r.nextID++
		r.tags[c.ID] = &c
	}
	for _, t := range toUpdate {
		c := *t
		r.tags[c.ID] = &c
	}
	return nil
}

type txKey struct{}

// fakeTransactor runs fn with a marked context and records the outcome
type fakeTransactor struct {
	runs       int
	committed  int
	rolledBack int
}

func (t *fakeTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.runs++
	if err := fn(context.WithValue(ctx, txKey{}, t)); err != nil {
		t.rolledBack++
		return err
	}
	t.committed++
	return nil
}

func inTx(ctx context.Context) bool {
	return ctx.Value(txKey{}) != nil
}

type fakeCache struct {
	entries     map[string]string
	generations map[string]int64
	invalidated []string
	err         error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]string{}, generations: map[string]int64{}}
}

func (c *fakeCache) Get(_ context.Context, uri string) (string, bool, error) {
	if c.err != nil {
		return "", false, c.err
	}
	v, ok := c.entries[uri]
	return v, ok, nil
}

func (c *fakeCache) Generation(_ context.Context, uri string) (int64, error) {
	if c.err != nil {
		return 0, c.err
	}
	return c.generations[uri], nil
}

func (c *fakeCache) Set(_ context.Context, uri string, markup string, generation int64) error {
	if c.err != nil {
		return c.err
	}
	if c.generations[uri] != generation {
		return nil
	}
	c.entries[uri] = markup
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, uri string) error {
	if c.err != nil {
		return c.err
	}
	c.invalidated = append(c.invalidated, uri)
	c.generations[uri]++
	delete(c.entries, uri)
	return nil
}

type fakeContent struct {
	data  models.ContentData
	err   error
	calls []extension.Options
}

func (f *fakeContent) Data(_ context.Context, opts extension.Options) (models.ContentData, error) {
	f.calls = append(f.calls, opts)
	return f.data, f.err
}
