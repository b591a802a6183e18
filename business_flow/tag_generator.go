package businessflow

import (
	"log"
	"strings"

	"github.com/amirphl/metatag-sync/app/services"
	"github.com/amirphl/metatag-sync/config"
	"github.com/amirphl/metatag-sync/models"
	"github.com/amirphl/metatag-sync/utils"
)

// Tag names produced by the generator
const (
	TagOGTitle                 = "ogtitle"
	TagOGDescription           = "ogdescription"
	TagOGImage                 = "ogimage"
	TagOGURL                   = "ogurl"
	TagOGArticlePublishedTime  = "ogarticle_published_time"
	TagOGArticleModifiedTime   = "ogarticle_modified_time"
	TagTwitterCard             = "twitter_card"
	TagTwitterCardTitle        = "twitter_card_title"
	TagTwitterCardDescription  = "twitter_card_description"
	TagTwitterCardImage        = "twitter_card_image"
	TagTwitterCardImageAlt     = "twitter_card_image_alt"
	TagTwitterCardURL          = "twitter_card_url"
	TagSEOCanonical            = "seo_canonical"
	TagDublinCoreTitle         = "dublincore_title"
	TagDublinCoreDescription   = "dublincore_description"
	TagDublinCoreURL           = "dublincore_url"
	TagDublinCorePublishedTime = "dublincore_published_time"
	TagDublinCoreModifiedTime  = "dublincore_modified_time"
)

// TagGenerator maps the content of a page to named tag candidates
type TagGenerator interface {
	Generate(data models.ContentData, pageURL string) map[string]*models.TagCandidate
}

type TagGeneratorImpl struct {
	cfg     config.TagsConfig
	catalog services.TagCatalog
}

func NewTagGenerator(cfg config.TagsConfig, catalog services.TagCatalog) TagGenerator {
	return &TagGeneratorImpl{cfg: cfg, catalog: catalog}
}

// entityEscaper encodes the characters html entity encoding with quotes touches in ASCII text
var entityEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

func escapeText(s string) string {
	return strings.TrimSpace(entityEscaper.Replace(s))
}

// urlEscaper percent-encodes what may not appear raw in a URL attribute value and
// entity-encodes the query separator
var urlEscaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "%22",
	"'", "%27",
	"<", "%3C",
	">", "%3E",
	"`", "%60",
	" ", "%20",
	"\t", "%09",
	"\n", "%0A",
	"\r", "%0D",
)

func escapeURL(s string) string {
	return urlEscaper.Replace(strings.TrimSpace(s))
}

func (g *TagGeneratorImpl) Generate(data models.ContentData, pageURL string) map[string]*models.TagCandidate {
	tags := make(map[string]*models.TagCandidate)

	title := escapeText(data.Title)
	desc := escapeText(data.MetaDesc)
	image := escapeURL(g.resolveImage(data.Image))
	imageAlt := escapeText(data.ImageAlt)
	created := escapeText(data.Created)
	modified := escapeText(data.Modified)
	pageURL = escapeURL(pageURL)

	og := g.cfg.OpenGraph
	g.add(tags, TagOGTitle, og.Title, title)
	g.add(tags, TagOGDescription, og.Description, desc)
	g.add(tags, TagOGImage, og.Image, image)
	g.add(tags, TagOGURL, og.URL, pageURL)
	g.add(tags, TagOGArticlePublishedTime, og.ArticlePublishedTime, created)
	g.add(tags, TagOGArticleModifiedTime, og.ArticleModifiedTime, modified)

	g.add(tags, TagSEOCanonical, g.cfg.SEO.Canonical, pageURL)

	// the card type tag takes its content from the selected definition
	if g.cfg.TwitterCard != "" {
		if def, ok := g.lookup(g.cfg.TwitterCard); ok {
			tags[TagTwitterCard] = g.candidate(def, def.Content)
		}
	}
	tw := g.cfg.Twitter
	g.add(tags, TagTwitterCardTitle, tw.Title, title)
	g.add(tags, TagTwitterCardDescription, tw.Description, desc)
	g.add(tags, TagTwitterCardImage, tw.Image, image)
	g.add(tags, TagTwitterCardImageAlt, tw.ImageAlt, imageAlt)
	g.add(tags, TagTwitterCardURL, tw.URL, pageURL)

	dc := g.cfg.DublinCore
	g.add(tags, TagDublinCoreTitle, dc.Title, title)
	g.add(tags, TagDublinCoreDescription, dc.Description, desc)
	g.add(tags, TagDublinCoreURL, dc.URL, pageURL)
	g.add(tags, TagDublinCorePublishedTime, dc.PublishedTime, created)
	g.add(tags, TagDublinCoreModifiedTime, dc.ModifiedTime, modified)

	return tags
}

// add stores a candidate under name when the tag is enabled and has content
func (g *TagGeneratorImpl) add(tags map[string]*models.TagCandidate, name string, enabled bool, content string) {
	if !enabled || content == "" {
		return
	}
	def, ok := g.lookup(name)
	if !ok {
		return
	}
	tags[name] = g.candidate(def, content)
}

func (g *TagGeneratorImpl) lookup(name string) (services.TagDefinition, bool) {
	def, ok := g.catalog.Lookup(name)
	if !ok {
		log.Printf("Tag generator: %v: %s", ErrTagDefinitionNotFound, name)
	}
	return def, ok
}

func (g *TagGeneratorImpl) candidate(def services.TagDefinition, content string) *models.TagCandidate {
	return &models.TagCandidate{
		Title:   def.Title,
		Type:    def.Type,
		Tag:     def.Tag,
		Content: content,
		Output:  g.catalog.Render(def, content),
	}
}

// resolveImage picks the content image or the default image and makes it absolute
func (g *TagGeneratorImpl) resolveImage(image string) string {
	image = strings.TrimSpace(image)
	if image == "" {
		image = strings.TrimSpace(g.cfg.DefaultImage)
	}
	return utils.AbsoluteURL(g.cfg.SiteRoot, image)
}
