package businessflow

import (
	"time"

	"github.com/amirphl/metatag-sync/config"
	"github.com/amirphl/metatag-sync/models"
	"github.com/amirphl/metatag-sync/utils"
)

// RestrictionReason names why a pass was skipped. The empty reason means processing may run.
type RestrictionReason string

const (
	RestrictionNone                 RestrictionReason = ""
	RestrictionAdmin                RestrictionReason = "admin_context"
	RestrictionDocumentType         RestrictionReason = "document_type"
	RestrictionMethod               RestrictionReason = "method"
	RestrictionDisabled             RestrictionReason = "disabled"
	RestrictionUnsupportedExtension RestrictionReason = "unsupported_extension"
	RestrictionExtensionDisabled    RestrictionReason = "extension_disabled"
	RestrictionURLNotTracked        RestrictionReason = "url_not_tracked"
	RestrictionNoAutoupdate         RestrictionReason = "autoupdate_off"
	RestrictionUnpublished          RestrictionReason = "unpublished"
	RestrictionRecentlyChecked      RestrictionReason = "recently_checked"
)

// RestrictionChecker decides whether a dispatched request should refresh the page's tags
type RestrictionChecker interface {
	// RequestRestriction checks everything that can be decided without the URL record
	RequestRestriction(req RequestContext) RestrictionReason
	ShouldProcess(req RequestContext, url *models.URL, now time.Time) (bool, RestrictionReason)
}

type RestrictionCheckerImpl struct {
	cfg config.TagsConfig
}

func NewRestrictionChecker(cfg config.TagsConfig) RestrictionChecker {
	return &RestrictionCheckerImpl{cfg: cfg}
}

func (c *RestrictionCheckerImpl) RequestRestriction(req RequestContext) RestrictionReason {
	if req.IsAdmin {
		return RestrictionAdmin
	}
	if req.DocumentType != "html" {
		return RestrictionDocumentType
	}
	// Only GET requests are processed
	if req.Method != "GET" {
		return RestrictionMethod
	}
	if !c.cfg.Enabled {
		return RestrictionDisabled
	}

	enabled, supported := c.cfg.Extensions.Enabled(req.Option)
	if !supported {
		return RestrictionUnsupportedExtension
	}
	if !enabled {
		return RestrictionExtensionDisabled
	}
	return RestrictionNone
}

func (c *RestrictionCheckerImpl) ShouldProcess(req RequestContext, url *models.URL, now time.Time) (bool, RestrictionReason) {
	if reason := c.RequestRestriction(req); reason != RestrictionNone {
		return false, reason
	}

	switch {
	case url == nil || url.ID == 0:
		return false, RestrictionURLNotTracked
	case !url.IsAutoupdate():
		return false, RestrictionNoAutoupdate
	case !url.IsPublished():
		return false, RestrictionUnpublished
	}

	// A URL that was never checked is always due
	if c.cfg.AutoupdatePeriod > 0 && url.CheckedAt != nil {
		if utils.DaysBetween(*url.CheckedAt, now) < c.cfg.AutoupdatePeriod {
			return false, RestrictionRecentlyChecked
		}
	}

	return true, RestrictionNone
}
