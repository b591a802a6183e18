package models

import "strings"

// Tag types describe the HTML construct a tag renders as
const (
	TagTypeMetaProperty = "meta_property"
	TagTypeMetaName     = "meta_name"
	TagTypeLinkRel      = "link_rel"
)

// Tag represents one metadata entry attached to a tracked URL
// Table: itpm_tags
// Unique by (url_id, name)
// ID and Ordering are assigned by storage on first insert and survive content refreshes
type Tag struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:64;not null;uniqueIndex:uk_itpm_tags_url_id_name,priority:2" json:"name"`
	Title    string `gorm:"size:255;not null;default:''" json:"title"`
	Type     string `gorm:"size:32;not null;default:''" json:"type"`
	Tag      string `gorm:"type:text;not null;default:''" json:"tag"`
	Content  string `gorm:"type:text;not null;default:''" json:"content"`
	Output   string `gorm:"type:text;not null;default:''" json:"output"`
	Ordering int    `gorm:"not null;default:0" json:"ordering"`
	URLID    uint   `gorm:"column:url_id;not null;uniqueIndex:uk_itpm_tags_url_id_name,priority:1;index:idx_itpm_tags_url_id" json:"url_id"`
}

func (Tag) TableName() string { return "itpm_tags" }

// TagFilter represents filter criteria for tag queries
type TagFilter struct {
	ID    *uint
	Name  *string
	URLID *uint
	Type  *string
}

// TagCandidate is a freshly generated tag value for one tag name
// Built from a catalog definition plus the content computed for the page
type TagCandidate struct {
	Title   string `json:"title"`
	Type    string `json:"type"`
	Tag     string `json:"tag"`
	Content string `json:"content"`
	Output  string `json:"output"`
}

// IsEmpty reports whether the candidate carries nothing worth storing
func (c *TagCandidate) IsEmpty() bool {
	if c == nil {
		return true
	}
	return strings.TrimSpace(c.Tag) == "" &&
		strings.TrimSpace(c.Content) == "" &&
		strings.TrimSpace(c.Output) == ""
}

// TagSet is the collection of tags owned by one URL, addressable by name
type TagSet struct {
	byName map[string]*Tag
}

// NewTagSet indexes tags by name. When storage holds duplicates for a name the first row wins.
func NewTagSet(tags []*Tag) TagSet {
	set := TagSet{byName: make(map[string]*Tag, len(tags))}
	for _, t := range tags {
		if t == nil {
			continue
		}
		if _, ok := set.byName[t.Name]; ok {
			continue
		}
		set.byName[t.Name] = t
	}
	return set
}

// Get returns the tag with the given name or nil
func (s TagSet) Get(name string) *Tag {
	if s.byName == nil {
		return nil
	}
	return s.byName[name]
}

// Len returns the number of tags in the set
func (s TagSet) Len() int { return len(s.byName) }
