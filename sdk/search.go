package sdk

import (
	"github.com/driveclone/go-drive-sdk/utils"
	"strings"
)

// ViewMode selects how the caller renders the projected sequence: grid
// tiles or tabular rows.
type ViewMode string

const (
	ViewModeGrid ViewMode = "grid"
	ViewModeList ViewMode = "list"
)

func matchesSearchTerm(name string, needle string) bool {
	return strings.Contains(strings.ToLower(utils.NormalizeString(name)), needle)
}

// Project derives the visible listing: the catalog entries whose name
// contains searchTerm case-insensitively, preserving most-recent-first
// order. An empty term passes every entry.
//
// The viewMode never affects which entries are included: filtering and
// display mode are orthogonal. Project yields the same sequence for both
// modes.
func (state *State) Project(searchTerm string, viewMode ViewMode) []FileEntry {
	entries := state.storage.fileCatalog.all()
	if searchTerm == "" {
		return entries
	}
	needle := strings.ToLower(utils.NormalizeString(searchTerm))
	filtered := make([]FileEntry, 0, len(entries))
	for _, entry := range entries {
		if matchesSearchTerm(entry.Name, needle) {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}
