package extension

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/amirphl/metatag-sync/models"
)

// ContentReader reads articles and categories of com_content
type ContentReader struct{ tableReader }

var (
	contentArticle = &source{
		from:  "{p}content",
		idCol: "id",
		idVar: "id",
		columns: columns{
			Title: "title", MetaDesc: "metadesc", Image: "images",
			Text: "CONCAT(introtext, ' ', fulltext)", Created: "created", Modified: "modified",
		},
		image: jsonImage("image_fulltext", "image_fulltext_alt", "image_intro", "image_intro_alt"),
	}
	contentCategory = &source{
		from:  "{p}categories",
		idCol: "id",
		idVar: "id",
		columns: columns{
			Title: "title", MetaDesc: "metadesc", Image: "params",
			Text: "description", Created: "created_time", Modified: "modified_time",
		},
		image: jsonImage("image", "image_alt"),
	}
)

func (r ContentReader) Data(ctx context.Context, opts Options) (models.ContentData, error) {
	var src *source
	switch opts.View {
	case "article":
		src = contentArticle
	case "category":
		src = contentCategory
	}
	return r.read(ctx, src, opts)
}

// K2Reader reads K2 items and item-list categories
type K2Reader struct{ tableReader }

var (
	k2Item = &source{
		from:  "{p}k2_items",
		idCol: "id",
		idVar: "id",
		columns: columns{
			Title: "title", MetaDesc: "metadesc", ImageAlt: "image_caption",
			Text: "CONCAT(introtext, ' ', fulltext)", Created: "created", Modified: "modified",
		},
	}
	k2Category = &source{
		from:    "{p}k2_categories",
		idCol:   "id",
		idVar:   "id",
		columns: columns{Title: "name", Image: "image", Text: "description"},
		image:   prefixedImage("media/k2/categories/"),
	}
)

func (r K2Reader) Data(ctx context.Context, opts Options) (models.ContentData, error) {
	var src *source
	switch {
	case opts.View == "item":
		src = k2Item
	case opts.View == "itemlist" && opts.Task == "category":
		src = k2Category
	}
	return r.read(ctx, src, opts)
}

// CobaltReader reads Cobalt records and sections
type CobaltReader struct{ tableReader }

var (
	cobaltRecord = &source{
		from:  "{p}js_res_record",
		idCol: "id",
		idVar: "id",
		columns: columns{
			Title: "title", MetaDesc: "meta_descr", Text: "fieldsdata",
			Created: "ctime", Modified: "mtime",
		},
	}
	cobaltCategory = &source{
		from:  "{p}js_res_categories",
		idCol: "id",
		idVar: "cat_id",
		columns: columns{
			Title: "title", MetaDesc: "metadesc", Image: "image", Text: "description",
			Created: "created_time", Modified: "modified_time",
		},
	}
)

func (r CobaltReader) Data(ctx context.Context, opts Options) (models.ContentData, error) {
	var src *source
	switch {
	case opts.View == "record":
		src = cobaltRecord
	case opts.View == "records" && opts.Var("cat_id") != "":
		src = cobaltCategory
	}
	return r.read(ctx, src, opts)
}

// CrowdfundingReader reads crowdfunding projects
type CrowdfundingReader struct{ tableReader }

var crowdfundingProject = &source{
	from:  "{p}crowdf_projects",
	idCol: "id",
	idVar: "id",
	columns: columns{
		Title: "title", MetaDesc: "short_desc", Image: "image", Text: "description",
		Created: "created",
	},
	image: prefixedImage("images/crowdfunding/"),
}

func (r CrowdfundingReader) Data(ctx context.Context, opts Options) (models.ContentData, error) {
	var src *source
	switch opts.View {
	case "details", "backing", "embed":
		src = crowdfundingProject
	}
	return r.read(ctx, src, opts)
}

// UserIdeasReader reads user ideas items
type UserIdeasReader struct{ tableReader }

var userIdeasItem = &source{
	from:    "{p}uideas_items",
	idCol:   "id",
	idVar:   "id",
	columns: columns{Title: "title", Text: "description", Created: "record_date"},
}

func (r UserIdeasReader) Data(ctx context.Context, opts Options) (models.ContentData, error) {
	var src *source
	if opts.View == "details" {
		src = userIdeasItem
	}
	return r.read(ctx, src, opts)
}

// SocialCommunityReader reads member profiles
type SocialCommunityReader struct{ tableReader }

var socialProfile = &source{
	from:    "{p}itpsc_profiles",
	idCol:   "user_id",
	idVar:   "id",
	columns: columns{Title: "name", MetaDesc: "bio", Image: "image", Text: "bio"},
	image:   prefixedImage("images/profiles/"),
}

func (r SocialCommunityReader) Data(ctx context.Context, opts Options) (models.ContentData, error) {
	var src *source
	if opts.View == "profile" {
		src = socialProfile
	}
	return r.read(ctx, src, opts)
}

// VirtueMartReader reads products and categories in the site language tables
type VirtueMartReader struct {
	tableReader
	language string
}

func (r VirtueMartReader) sources() (product, category *source) {
	lang := r.language
	if lang == "" {
		lang = "en_gb"
	}
	product = &source{
		from: "{p}virtuemart_products_" + lang + " AS pd JOIN {p}virtuemart_products AS p " +
			"ON p.virtuemart_product_id = pd.virtuemart_product_id",
		idCol: "pd.virtuemart_product_id",
		idVar: "virtuemart_product_id",
		columns: columns{
			Title: "pd.product_name", MetaDesc: "pd.metadesc",
			Text:    "CONCAT(pd.product_s_desc, ' ', pd.product_desc)",
			Created: "p.created_on", Modified: "p.modified_on",
		},
	}
	category = &source{
		from:  "{p}virtuemart_categories_" + lang,
		idCol: "virtuemart_category_id",
		idVar: "virtuemart_category_id",
		columns: columns{
			Title: "category_name", MetaDesc: "metadesc", Text: "category_description",
		},
	}
	return product, category
}

func (r VirtueMartReader) Data(ctx context.Context, opts Options) (models.ContentData, error) {
	product, category := r.sources()
	var src *source
	switch opts.View {
	case "productdetails":
		src = product
	case "category":
		src = category
	}
	return r.read(ctx, src, opts)
}

// EShopReader reads EShop products and categories
type EShopReader struct{ tableReader }

var (
	eshopProduct = &source{
		from:  "{p}eshop_productdetails AS pd JOIN {p}eshop_products AS p ON p.id = pd.product_id",
		idCol: "pd.product_id",
		idVar: "id",
		columns: columns{
			Title: "pd.product_name", MetaDesc: "pd.meta_desc", Image: "p.product_image",
			Text:    "CONCAT(pd.product_short_desc, ' ', pd.product_desc)",
			Created: "p.created_date", Modified: "p.modified_date",
		},
		image: prefixedImage("media/com_eshop/products/"),
	}
	eshopCategory = &source{
		from:  "{p}eshop_categorydetails AS cd JOIN {p}eshop_categories AS c ON c.id = cd.category_id",
		idCol: "cd.category_id",
		idVar: "id",
		columns: columns{
			Title: "cd.category_name", MetaDesc: "cd.meta_desc", Image: "c.category_image",
			Text: "cd.category_desc", Created: "c.created_date", Modified: "c.modified_date",
		},
		image: prefixedImage("media/com_eshop/categories/"),
	}
)

func (r EShopReader) Data(ctx context.Context, opts Options) (models.ContentData, error) {
	var src *source
	switch opts.View {
	case "product":
		src = eshopProduct
	case "category":
		src = eshopCategory
	}
	return r.read(ctx, src, opts)
}

// prefixedImage expands a stored file name to a site-relative path
func prefixedImage(dir string) func(uint64, string) (string, string) {
	return func(_ uint64, raw string) (string, string) {
		if raw == "" || strings.HasPrefix(raw, "http") || strings.Contains(raw, "/") {
			return raw, ""
		}
		return dir + raw, ""
	}
}

// jsonImage picks the first non-empty image from a JSON params column.
// keys come in (image, alt) pairs in order of preference.
func jsonImage(keys ...string) func(uint64, string) (string, string) {
	return func(_ uint64, raw string) (string, string) {
		if raw == "" {
			return "", ""
		}
		var params map[string]any
		if err := json.Unmarshal([]byte(raw), &params); err != nil {
			return "", ""
		}
		for i := 0; i+1 < len(keys); i += 2 {
			img, _ := params[keys[i]].(string)
			img = cleanMediaPath(img)
			if img == "" {
				continue
			}
			alt, _ := params[keys[i+1]].(string)
			return img, strings.TrimSpace(alt)
		}
		return "", ""
	}
}

// cleanMediaPath drops the media-field suffix (e.g. "#joomlaImage://...") newer sites append
func cleanMediaPath(p string) string {
	if i := strings.IndexByte(p, '#'); i >= 0 {
		p = p[:i]
	}
	return strings.TrimSpace(p)
}
