package testing

import (
	"fmt"

	"github.com/amirphl/metatag-sync/models"
	"github.com/amirphl/metatag-sync/utils"
	"github.com/google/uuid"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestURL tracks a unique page URL with autoupdate and published switched on
func (tf *TestFixtures) CreateTestURL() (*models.URL, error) {
	u := &models.URL{
		URI:        fmt.Sprintf("https://example.com/page-%s", uuid.NewString()),
		Autoupdate: utils.ToPtr(true),
		Published:  utils.ToPtr(true),
	}
	if err := tf.DB.DB.Create(u).Error; err != nil {
		return nil, fmt.Errorf("failed to create test url: %w", err)
	}
	return u, nil
}

// CreateTestTag stores a tag for the URL and reloads it so storage assigned fields are set
func (tf *TestFixtures) CreateTestTag(urlID uint, name, tag, content string) (*models.Tag, error) {
	t := &models.Tag{
		Name:    name,
		Title:   name,
		Type:    models.TagTypeMetaProperty,
		Tag:     tag,
		Content: content,
		Output:  fmt.Sprintf(`<meta property="%s" content="%s" />`, tag, content),
		URLID:   urlID,
	}
	if err := tf.DB.DB.Omit("Ordering").Create(t).Error; err != nil {
		return nil, fmt.Errorf("failed to create test tag %s: %w", name, err)
	}
	if err := tf.DB.DB.First(t, t.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload test tag %s: %w", name, err)
	}
	return t, nil
}
