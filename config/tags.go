package config

import (
	"fmt"
	"regexp"
	"strings"
)

var languageTag = regexp.MustCompile(`^[a-z]{2,3}_[a-z]{2,3}$`)

// Supported extension options. The registry in package extension resolves a reader for each.
const (
	ExtensionContent         = "com_content"
	ExtensionK2              = "com_k2"
	ExtensionCobalt          = "com_cobalt"
	ExtensionCrowdfunding    = "com_crowdfunding"
	ExtensionUserIdeas       = "com_userideas"
	ExtensionSocialCommunity = "com_socialcommunity"
	ExtensionVirtueMart      = "com_virtuemart"
	ExtensionEShop           = "com_eshop"
)

// SupportedExtensions lists every extension option the service can read content from
var SupportedExtensions = []string{
	ExtensionK2,
	ExtensionContent,
	ExtensionCobalt,
	ExtensionCrowdfunding,
	ExtensionUserIdeas,
	ExtensionSocialCommunity,
	ExtensionVirtueMart,
	ExtensionEShop,
}

// Twitter card definitions selectable through TAGS_TWITTER_CARD
var TwitterCardTypes = []string{
	"twitter_card_summary",
	"twitter_card_summary_large_image",
	"twitter_card_app",
	"twitter_card_player",
}

// TagsConfig holds every option that drives restriction checks and tag generation
type TagsConfig struct {
	Enabled          bool   `json:"enabled"`
	GenerateMetaDesc bool   `json:"generate_metadesc"`
	ExtractImage     bool   `json:"extract_image"`
	AutoupdatePeriod int    `json:"autoupdate_period"` // days
	DefaultImage     string `json:"default_image"`
	SiteRoot         string `json:"site_root"`
	TwitterCard      string `json:"twitter_card"` // catalog name, empty disables the card type tag
	CatalogPath      string `json:"catalog_path"`
	TablePrefix      string `json:"table_prefix"`
	// VirtueMartLanguage is the language suffix of the VirtueMart content tables, e.g. en_gb
	VirtueMartLanguage string `json:"virtuemart_language"`

	Extensions ExtensionsConfig `json:"extensions"`

	OpenGraph  OpenGraphTags  `json:"open_graph"`
	Twitter    TwitterTags    `json:"twitter"`
	SEO        SEOTags        `json:"seo"`
	DublinCore DublinCoreTags `json:"dublin_core"`
}

// ExtensionsConfig enables processing per supported extension
type ExtensionsConfig struct {
	Content         bool `json:"com_content"`
	K2              bool `json:"com_k2"`
	Cobalt          bool `json:"com_cobalt"`
	Crowdfunding    bool `json:"com_crowdfunding"`
	UserIdeas       bool `json:"com_userideas"`
	SocialCommunity bool `json:"com_socialcommunity"`
	VirtueMart      bool `json:"com_virtuemart"`
	EShop           bool `json:"com_eshop"`
}

// Enabled reports whether option is a supported extension that is switched on.
// The second result is false when the option is not supported at all.
func (e ExtensionsConfig) Enabled(option string) (enabled bool, supported bool) {
	switch option {
	case ExtensionContent:
		return e.Content, true
	case ExtensionK2:
		return e.K2, true
	case ExtensionCobalt:
		return e.Cobalt, true
	case ExtensionCrowdfunding:
		return e.Crowdfunding, true
	case ExtensionUserIdeas:
		return e.UserIdeas, true
	case ExtensionSocialCommunity:
		return e.SocialCommunity, true
	case ExtensionVirtueMart:
		return e.VirtueMart, true
	case ExtensionEShop:
		return e.EShop, true
	}
	return false, false
}

type OpenGraphTags struct {
	Title                bool `json:"ogtitle"`
	Description          bool `json:"ogdescription"`
	Image                bool `json:"ogimage"`
	URL                  bool `json:"ogurl"`
	ArticlePublishedTime bool `json:"ogarticle_published_time"`
	ArticleModifiedTime  bool `json:"ogarticle_modified_time"`
}

type TwitterTags struct {
	Title       bool `json:"twitter_card_title"`
	Description bool `json:"twitter_card_description"`
	Image       bool `json:"twitter_card_image"`
	ImageAlt    bool `json:"twitter_card_image_alt"`
	URL         bool `json:"twitter_card_url"`
}

type SEOTags struct {
	Canonical bool `json:"seo_canonical"`
}

type DublinCoreTags struct {
	Title         bool `json:"dublincore_title"`
	Description   bool `json:"dublincore_description"`
	URL           bool `json:"dublincore_url"`
	PublishedTime bool `json:"dublincore_published_time"`
	ModifiedTime  bool `json:"dublincore_modified_time"`
}

// DefaultTagsConfig returns the option set used when nothing is configured
func DefaultTagsConfig() TagsConfig {
	return TagsConfig{
		Enabled:            true,
		GenerateMetaDesc:   true,
		ExtractImage:       false,
		AutoupdatePeriod:   0,
		TwitterCard:        "twitter_card_summary",
		VirtueMartLanguage: "en_gb",
		Extensions: ExtensionsConfig{
			Content: true, K2: true, Cobalt: true, Crowdfunding: true,
			UserIdeas: true, SocialCommunity: true, VirtueMart: true, EShop: true,
		},
		OpenGraph: OpenGraphTags{
			Title: true, Description: true, Image: true, URL: true,
			ArticlePublishedTime: true, ArticleModifiedTime: true,
		},
		Twitter: TwitterTags{
			Title: true, Description: true, Image: true, ImageAlt: true, URL: true,
		},
		SEO: SEOTags{Canonical: true},
		DublinCore: DublinCoreTags{
			Title: true, Description: true, URL: true, PublishedTime: true, ModifiedTime: true,
		},
	}
}

func loadTagsConfig() TagsConfig {
	d := DefaultTagsConfig()
	return TagsConfig{
		Enabled:            getEnvBool("TAGS_ENABLED", d.Enabled),
		GenerateMetaDesc:   getEnvBool("TAGS_GENERATE_METADESC", d.GenerateMetaDesc),
		ExtractImage:       getEnvBool("TAGS_EXTRACT_IMAGE", d.ExtractImage),
		AutoupdatePeriod:   getEnvInt("TAGS_AUTOUPDATE_PERIOD", d.AutoupdatePeriod),
		DefaultImage:       getEnvString("TAGS_DEFAULT_IMAGE", d.DefaultImage),
		SiteRoot:           getEnvString("TAGS_SITE_ROOT", d.SiteRoot),
		TwitterCard:        getEnvString("TAGS_TWITTER_CARD", d.TwitterCard),
		CatalogPath:        getEnvString("TAGS_CATALOG_PATH", d.CatalogPath),
		TablePrefix:        getEnvString("TAGS_TABLE_PREFIX", d.TablePrefix),
		VirtueMartLanguage: strings.ToLower(getEnvString("TAGS_VIRTUEMART_LANGUAGE", d.VirtueMartLanguage)),
		Extensions: ExtensionsConfig{
			Content:         getEnvBool("EXT_COM_CONTENT", d.Extensions.Content),
			K2:              getEnvBool("EXT_COM_K2", d.Extensions.K2),
			Cobalt:          getEnvBool("EXT_COM_COBALT", d.Extensions.Cobalt),
			Crowdfunding:    getEnvBool("EXT_COM_CROWDFUNDING", d.Extensions.Crowdfunding),
			UserIdeas:       getEnvBool("EXT_COM_USERIDEAS", d.Extensions.UserIdeas),
			SocialCommunity: getEnvBool("EXT_COM_SOCIALCOMMUNITY", d.Extensions.SocialCommunity),
			VirtueMart:      getEnvBool("EXT_COM_VIRTUEMART", d.Extensions.VirtueMart),
			EShop:           getEnvBool("EXT_COM_ESHOP", d.Extensions.EShop),
		},
		OpenGraph: OpenGraphTags{
			Title:                getEnvBool("TAG_OGTITLE", d.OpenGraph.Title),
			Description:          getEnvBool("TAG_OGDESCRIPTION", d.OpenGraph.Description),
			Image:                getEnvBool("TAG_OGIMAGE", d.OpenGraph.Image),
			URL:                  getEnvBool("TAG_OGURL", d.OpenGraph.URL),
			ArticlePublishedTime: getEnvBool("TAG_OGARTICLE_PUBLISHED_TIME", d.OpenGraph.ArticlePublishedTime),
			ArticleModifiedTime:  getEnvBool("TAG_OGARTICLE_MODIFIED_TIME", d.OpenGraph.ArticleModifiedTime),
		},
		Twitter: TwitterTags{
			Title:       getEnvBool("TAG_TWITTER_CARD_TITLE", d.Twitter.Title),
			Description: getEnvBool("TAG_TWITTER_CARD_DESCRIPTION", d.Twitter.Description),
			Image:       getEnvBool("TAG_TWITTER_CARD_IMAGE", d.Twitter.Image),
			ImageAlt:    getEnvBool("TAG_TWITTER_CARD_IMAGE_ALT", d.Twitter.ImageAlt),
			URL:         getEnvBool("TAG_TWITTER_CARD_URL", d.Twitter.URL),
		},
		SEO: SEOTags{
			Canonical: getEnvBool("TAG_SEO_CANONICAL", d.SEO.Canonical),
		},
		DublinCore: DublinCoreTags{
			Title:         getEnvBool("TAG_DUBLINCORE_TITLE", d.DublinCore.Title),
			Description:   getEnvBool("TAG_DUBLINCORE_DESCRIPTION", d.DublinCore.Description),
			URL:           getEnvBool("TAG_DUBLINCORE_URL", d.DublinCore.URL),
			PublishedTime: getEnvBool("TAG_DUBLINCORE_PUBLISHED_TIME", d.DublinCore.PublishedTime),
			ModifiedTime:  getEnvBool("TAG_DUBLINCORE_MODIFIED_TIME", d.DublinCore.ModifiedTime),
		},
	}
}

func validateTagsConfig(cfg *TagsConfig) []string {
	var errors []string

	if cfg.AutoupdatePeriod < 0 {
		errors = append(errors, "TAGS_AUTOUPDATE_PERIOD must not be negative")
	}
	if cfg.TwitterCard != "" {
		valid := false
		for _, card := range TwitterCardTypes {
			if cfg.TwitterCard == card {
				valid = true
				break
			}
		}
		if !valid {
			errors = append(errors, fmt.Sprintf("TAGS_TWITTER_CARD must be one of: %v", TwitterCardTypes))
		}
	}
	if cfg.SiteRoot != "" && !strings.HasPrefix(cfg.SiteRoot, "http") {
		errors = append(errors, "TAGS_SITE_ROOT must be an absolute http(s) URL")
	}
	if cfg.DefaultImage != "" && !strings.HasPrefix(cfg.DefaultImage, "http") && cfg.SiteRoot == "" {
		errors = append(errors, "TAGS_SITE_ROOT is required when TAGS_DEFAULT_IMAGE is a relative path")
	}
	if strings.ContainsAny(cfg.TablePrefix, " ;'\"`") {
		errors = append(errors, "TAGS_TABLE_PREFIX contains invalid characters")
	}
	if !languageTag.MatchString(cfg.VirtueMartLanguage) {
		errors = append(errors, "TAGS_VIRTUEMART_LANGUAGE must look like en_gb")
	}

	return errors
}
