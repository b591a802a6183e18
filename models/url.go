package models

import "time"

// URL represents a tracked page whose metadata tags are kept up to date
// Table: itpm_urls
// URI is the cleaned absolute page URL and is unique
// CheckedAt is nil until the first processing pass
type URL struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	URI        string     `gorm:"type:text;not null;uniqueIndex:uk_itpm_urls_uri" json:"uri"`
	Autoupdate *bool      `gorm:"not null;default:true" json:"autoupdate"`
	Published  *bool      `gorm:"not null;default:true;index:idx_itpm_urls_published" json:"published"`
	CheckedAt  *time.Time `gorm:"index:idx_itpm_urls_checked_at" json:"checked_at,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (URL) TableName() string { return "itpm_urls" }

// IsAutoupdate reports whether the URL opts in to automatic tag refresh
func (u *URL) IsAutoupdate() bool {
	return u != nil && u.Autoupdate != nil && *u.Autoupdate
}

// IsPublished reports whether the URL is published
func (u *URL) IsPublished() bool {
	return u != nil && u.Published != nil && *u.Published
}

// URLFilter represents filter criteria for URL queries
type URLFilter struct {
	ID         *uint
	URI        *string
	Autoupdate *bool
	Published  *bool
}
