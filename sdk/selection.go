package sdk

import (
	"github.com/ztrue/tracerr"
)

// ToggleSelect adds the entry to the selection if absent, removes it if
// present, and reports whether it is selected afterwards. The id must
// reference an entry currently in the catalog; ErrorFileNotFound is
// returned otherwise, which keeps every selected id valid by
// construction. Selection is independent of search filtering.
func (state *State) ToggleSelect(fileId string) (bool, error) {
	err := state.checkSdkOpen()
	if err != nil {
		return false, tracerr.Wrap(err)
	}
	if !state.storage.fileCatalog.has(fileId) {
		return false, tracerr.Wrap(ErrorFileNotFound.AddDetails(fileId))
	}
	return state.storage.selection.toggle(fileId), nil
}

// IsSelected reports whether the entry with the given id is selected.
func (state *State) IsSelected(fileId string) bool {
	return state.storage.selection.has(fileId)
}

// SelectedIds returns the ids of the currently selected entries, in no
// particular order.
func (state *State) SelectedIds() []string {
	return state.storage.selection.all()
}

// SelectedCount returns the number of selected entries.
func (state *State) SelectedCount() int {
	return state.storage.selection.len()
}

// ClearSelection empties the selection. It runs automatically on LogOut,
// and batch actions (delete/download/share) must call it when they
// commit.
func (state *State) ClearSelection() {
	state.storage.selection.clear()
}
