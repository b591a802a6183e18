// Package extension reads page content from the database of each supported site extension
package extension

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/amirphl/metatag-sync/models"
	"gorm.io/gorm"
)

// Options describe the dispatched page: which extension, view and row it shows
type Options struct {
	Option string
	View   string
	Task   string
	// MenuItemID is the active menu item. Its link supplies the row id when the route omits it.
	MenuItemID int
	// Vars are the route variables parsed from the page URL, e.g. id, catid
	Vars map[string]string

	GenerateMetaDesc bool
	ExtractImage     bool
}

// Var returns a route variable, or "" when absent
func (o Options) Var(name string) string {
	if o.Vars == nil {
		return ""
	}
	return strings.TrimSpace(o.Vars[name])
}

// Reader loads the content data of the item or category shown by a page
type Reader interface {
	Data(ctx context.Context, opts Options) (models.ContentData, error)
}

// columns are SQL expressions selecting each content field; empty means the source lacks it
type columns struct {
	Title    string
	MetaDesc string
	Image    string
	ImageAlt string
	Text     string
	Created  string
	Modified string
}

// source describes where one kind of page (item, category, profile...) keeps its content
type source struct {
	// from is the FROM clause; {p} is replaced with the configured table prefix
	from    string
	idCol   string
	idVar   string
	columns columns
	// image post-processes the raw image column, e.g. expanding a file name to a path
	image func(id uint64, raw string) (image, alt string)
}

type row struct {
	Title    string
	MetaDesc string
	Image    string
	ImageAlt string
	Text     string
	Created  *time.Time
	Modified *time.Time
}

// tableReader runs the single-row lookups shared by every extension variant
type tableReader struct {
	db     *gorm.DB
	prefix string
}

func (r tableReader) load(ctx context.Context, src *source, id uint64) (*row, error) {
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ? LIMIT 1",
		src.columns.selectList(),
		strings.ReplaceAll(src.from, "{p}", r.prefix),
		src.idCol,
	)

	var out row
	res := r.db.WithContext(ctx).Raw(sql, id).Scan(&out)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to load content from %s: %w", src.from, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &out, nil
}

func (c columns) selectList() string {
	text := func(expr, alias string) string {
		if expr == "" {
			return "'' AS " + alias
		}
		return "COALESCE(" + expr + ", '') AS " + alias
	}
	ts := func(expr, alias string) string {
		if expr == "" {
			return "NULL AS " + alias
		}
		return expr + " AS " + alias
	}
	return strings.Join([]string{
		text(c.Title, "title"),
		text(c.MetaDesc, "meta_desc"),
		text(c.Image, "image"),
		text(c.ImageAlt, "image_alt"),
		text(c.Text, "text"),
		ts(c.Created, "created"),
		ts(c.Modified, "modified"),
	}, ", ")
}

// read resolves src for the page and turns the row into content data
func (r tableReader) read(ctx context.Context, src *source, opts Options) (models.ContentData, error) {
	if src == nil {
		return models.ContentData{}, nil
	}
	raw := opts.Var(src.idVar)
	if raw == "" && opts.MenuItemID > 0 {
		var err error
		if raw, err = r.menuVar(ctx, opts, src.idVar); err != nil {
			return models.ContentData{}, err
		}
	}
	id, ok := parseID(raw)
	if !ok {
		return models.ContentData{}, nil
	}

	rw, err := r.load(ctx, src, id)
	if err != nil {
		return models.ContentData{}, err
	}
	if rw == nil {
		return models.ContentData{}, nil
	}

	data := models.ContentData{
		Title:    strings.TrimSpace(rw.Title),
		MetaDesc: strings.TrimSpace(rw.MetaDesc),
		Image:    strings.TrimSpace(rw.Image),
		ImageAlt: strings.TrimSpace(rw.ImageAlt),
		Created:  formatTime(rw.Created),
		Modified: formatTime(rw.Modified),
	}
	if src.image != nil {
		img, alt := src.image(id, data.Image)
		data.Image = img
		if alt != "" {
			data.ImageAlt = alt
		}
	}

	if data.MetaDesc == "" && opts.GenerateMetaDesc {
		data.MetaDesc = Summarize(rw.Text, 0)
	}
	if data.Image == "" && opts.ExtractImage {
		data.Image = FirstImage(rw.Text)
	}

	return data, nil
}

// menuVar looks up a route variable in the link of the active menu item
func (r tableReader) menuVar(ctx context.Context, opts Options, name string) (string, error) {
	var link string
	sql := "SELECT link FROM " + r.prefix + "menu WHERE id = ? AND published = 1 LIMIT 1"
	res := r.db.WithContext(ctx).Raw(sql, opts.MenuItemID).Scan(&link)
	if res.Error != nil {
		return "", fmt.Errorf("failed to load menu item %d: %w", opts.MenuItemID, res.Error)
	}
	return menuLinkVar(link, opts.Option, name), nil
}

// menuLinkVar extracts name from a menu link such as
// "index.php?option=com_content&view=article&id=5". Links to another extension yield "".
func menuLinkVar(link, option, name string) string {
	i := strings.IndexByte(link, '?')
	if i < 0 {
		return ""
	}
	q, err := url.ParseQuery(link[i+1:])
	if err != nil || q.Get("option") != option {
		return ""
	}
	return strings.TrimSpace(q.Get(name))
}

// parseID reads a row id from a route variable. Slugged ids such as "12:my-article" are accepted.
func parseID(v string) (uint64, bool) {
	if i := strings.IndexByte(v, ':'); i >= 0 {
		v = v[:i]
	}
	if i := strings.IndexByte(v, '-'); i > 0 {
		v = v[:i]
	}
	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
