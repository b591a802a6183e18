// Package services provides the technical services behind the tag flows: the tag definition catalog and the page cache
package services

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/amirphl/metatag-sync/models"
	"github.com/amirphl/metatag-sync/utils"
	"github.com/goccy/go-yaml"
)

//go:embed catalog/tag_catalog.yaml
var defaultCatalog []byte

// TagDefinition describes how a named tag renders
type TagDefinition struct {
	Name    string `yaml:"name"`
	Title   string `yaml:"title"`
	Type    string `yaml:"type"`
	Tag     string `yaml:"tag"`
	Content string `yaml:"content"`
}

type catalogFile struct {
	Tags []TagDefinition `yaml:"tags"`
}

// TagCatalog resolves tag definitions by name and renders them to markup
type TagCatalog interface {
	Lookup(name string) (TagDefinition, bool)
	Render(def TagDefinition, content string) string
	Names() []string
}

type TagCatalogImpl struct {
	defs map[string]TagDefinition
}

// layouts per tag type; {TAG} is the definition's tag, {CONTENT} the tag content
var layouts = map[string]string{
	models.TagTypeMetaProperty: `<meta property="{TAG}" content="` + utils.ContentPlaceholder + `" />`,
	models.TagTypeMetaName:     `<meta name="{TAG}" content="` + utils.ContentPlaceholder + `" />`,
	models.TagTypeLinkRel:      `<link rel="{TAG}" href="` + utils.ContentPlaceholder + `" />`,
}

// NewTagCatalog loads the built-in definitions and, when overridePath is set, merges the
// definitions of that file over them by name.
func NewTagCatalog(overridePath string) (TagCatalog, error) {
	defs, err := parseCatalog(defaultCatalog)
	if err != nil {
		return nil, fmt.Errorf("failed to parse built-in tag catalog: %w", err)
	}

	if overridePath != "" {
		raw, err := os.ReadFile(overridePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read tag catalog %s: %w", overridePath, err)
		}
		overrides, err := parseCatalog(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse tag catalog %s: %w", overridePath, err)
		}
		for name, def := range overrides {
			defs[name] = def
		}
	}

	return &TagCatalogImpl{defs: defs}, nil
}

func parseCatalog(raw []byte) (map[string]TagDefinition, error) {
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, err
	}

	defs := make(map[string]TagDefinition, len(file.Tags))
	var problems []string
	for i, def := range file.Tags {
		def.Name = strings.TrimSpace(def.Name)
		switch {
		case def.Name == "":
			problems = append(problems, fmt.Sprintf("entry %d has no name", i))
			continue
		case def.Tag == "":
			problems = append(problems, fmt.Sprintf("%s has no tag", def.Name))
			continue
		}
		if _, ok := layouts[def.Type]; !ok {
			problems = append(problems, fmt.Sprintf("%s has unknown type %q", def.Name, def.Type))
			continue
		}
		if _, dup := defs[def.Name]; dup {
			problems = append(problems, fmt.Sprintf("%s is defined twice", def.Name))
			continue
		}
		defs[def.Name] = def
	}
	if len(problems) > 0 {
		return nil, errors.New(strings.Join(problems, "; "))
	}
	return defs, nil
}

func (c *TagCatalogImpl) Lookup(name string) (TagDefinition, bool) {
	def, ok := c.defs[name]
	return def, ok
}

// Render fills the layout of the definition's type. content is inserted as given and must already be attribute safe.
func (c *TagCatalogImpl) Render(def TagDefinition, content string) string {
	layout, ok := layouts[def.Type]
	if !ok {
		return ""
	}
	return strings.NewReplacer("{TAG}", def.Tag, utils.ContentPlaceholder, content).Replace(layout)
}

func (c *TagCatalogImpl) Names() []string {
	names := make([]string, 0, len(c.defs))
	for name := range c.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
