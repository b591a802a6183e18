package businessflow

import (
	"sort"
	"strings"

	"github.com/amirphl/metatag-sync/models"
	"github.com/amirphl/metatag-sync/utils"
)

// Reconcile splits freshly generated candidates into tags to insert and tags to replace.
//
// A candidate whose name has no stored tag becomes a new tag owned by urlID, without id or
// ordering. A candidate whose stored tag changed (see TagChanged) yields a copy of the stored
// tag carrying the candidate's tag, content and output, keeping its id, ordering, title and
// type. Empty candidates are skipped. Neither input is modified.
func Reconcile(existing models.TagSet, candidates map[string]*models.TagCandidate, urlID uint) (toInsert, toUpdate []*models.Tag) {
	names := make([]string, 0, len(candidates))
	for name := range candidates {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		candidate := candidates[name]
		if candidate.IsEmpty() {
			continue
		}

		current := existing.Get(name)
		if current == nil {
			toInsert = append(toInsert, &models.Tag{
				Name:    name,
				Title:   candidate.Title,
				Type:    candidate.Type,
				Tag:     candidate.Tag,
				Content: candidate.Content,
				Output:  candidate.Output,
				URLID:   urlID,
			})
			continue
		}

		if !TagChanged(current, candidate) {
			continue
		}
		updated := *current
		updated.Tag = candidate.Tag
		updated.Content = candidate.Content
		updated.Output = candidate.Output
		toUpdate = append(toUpdate, &updated)
	}

	return toInsert, toUpdate
}

// TagChanged reports whether a stored tag must be replaced by the candidate.
//
// It is changed when the tag templates differ, when the stored content is empty and the
// candidate's is not, or when both contents are non-empty and differ. Contents are compared
// after trimming surrounding whitespace.
func TagChanged(current *models.Tag, candidate *models.TagCandidate) bool {
	if utils.MD5Hex(current.Tag) != utils.MD5Hex(candidate.Tag) {
		return true
	}

	oldContent := strings.TrimSpace(current.Content)
	newContent := strings.TrimSpace(candidate.Content)

	if oldContent == "" && newContent != "" {
		return true
	}

	if oldContent != "" && newContent != "" {
		return utils.MD5Hex(oldContent) != utils.MD5Hex(newContent)
	}

	return false
}
