package extension

import (
	"context"

	"github.com/amirphl/metatag-sync/config"
	"github.com/amirphl/metatag-sync/models"
	"gorm.io/gorm"
)

// Registry resolves the content reader of a supported extension option
type Registry struct {
	readers map[string]Reader
}

// NewRegistry wires one reader per supported extension against the site database.
// vmLanguage selects the VirtueMart language tables; empty falls back to en_gb.
func NewRegistry(db *gorm.DB, tablePrefix, vmLanguage string) *Registry {
	base := tableReader{db: db, prefix: tablePrefix}
	return NewRegistryWith(map[string]Reader{
		config.ExtensionContent:         ContentReader{base},
		config.ExtensionK2:              K2Reader{base},
		config.ExtensionCobalt:          CobaltReader{base},
		config.ExtensionCrowdfunding:    CrowdfundingReader{base},
		config.ExtensionUserIdeas:       UserIdeasReader{base},
		config.ExtensionSocialCommunity: SocialCommunityReader{base},
		config.ExtensionVirtueMart:      VirtueMartReader{tableReader: base, language: vmLanguage},
		config.ExtensionEShop:           EShopReader{base},
	})
}

// NewRegistryWith builds a registry from explicit readers
func NewRegistryWith(readers map[string]Reader) *Registry {
	r := &Registry{readers: make(map[string]Reader, len(readers))}
	for option, reader := range readers {
		r.readers[option] = reader
	}
	return r
}

// Reader returns the reader registered for option
func (r *Registry) Reader(option string) (Reader, bool) {
	reader, ok := r.readers[option]
	return reader, ok
}

// Data loads content for the page. Unknown options yield empty data, not an error.
func (r *Registry) Data(ctx context.Context, opts Options) (models.ContentData, error) {
	reader, ok := r.Reader(opts.Option)
	if !ok {
		return models.ContentData{}, nil
	}
	return reader.Data(ctx, opts)
}
