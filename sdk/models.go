package sdk

import (
	"github.com/driveclone/go-drive-sdk/common_models"
	"github.com/driveclone/go-drive-sdk/utils"
	"sync"
	"time"
)

type currentIdentityStorage struct { // no need for lock here, guarded by State.locks.currentIdentityLock
	currentIdentity *currentIdentity
}

// currentIdentity is the persisted session record: the authenticated
// Identity, plus the auth token the gateway issued for it.
type currentIdentity struct {
	Identity     common_models.Identity `bson:"identity"`
	AuthToken    string                 `bson:"authToken,omitempty"`
	TokenExpires *time.Time             `bson:"tokenExpires,omitempty"`
}

func (record currentIdentity) isAnonymous() bool {
	return record.Identity.Id == "" && record.Identity.Email == ""
}

func (storage *currentIdentityStorage) get() currentIdentity {
	return *storage.currentIdentity
}

func (storage *currentIdentityStorage) set(record currentIdentity) {
	storage.currentIdentity = &record
}

// fileCatalogStorage owns the ordered collection of FileEntry,
// most-recent-first. Entries are only ever inserted at the front and
// mutated by star-toggle; there is no removal path.
type fileCatalogStorage struct {
	entries []FileEntry
	lock    sync.RWMutex
}

func (catalog *fileCatalogStorage) insertFront(entry FileEntry) {
	catalog.lock.Lock()
	defer catalog.lock.Unlock()
	catalog.entries = append([]FileEntry{entry}, catalog.entries...)
}

func (catalog *fileCatalogStorage) get(fileId string) *FileEntry {
	catalog.lock.RLock()
	defer catalog.lock.RUnlock()
	for _, entry := range catalog.entries {
		if entry.Id == fileId {
			e := entry
			return &e
		}
	}
	return nil
}

func (catalog *fileCatalogStorage) has(fileId string) bool {
	return catalog.get(fileId) != nil
}

// toggleStar flips the starred flag of the entry with the given id, and
// reports whether such an entry exists.
func (catalog *fileCatalogStorage) toggleStar(fileId string) bool {
	catalog.lock.Lock()
	defer catalog.lock.Unlock()
	for i := range catalog.entries {
		if catalog.entries[i].Id == fileId {
			catalog.entries[i].Starred = !catalog.entries[i].Starred
			return true
		}
	}
	return false
}

// all returns a snapshot copy, preserving most-recent-first order.
func (catalog *fileCatalogStorage) all() []FileEntry {
	catalog.lock.RLock()
	defer catalog.lock.RUnlock()
	snapshot := make([]FileEntry, len(catalog.entries))
	copy(snapshot, catalog.entries)
	return snapshot
}

func (catalog *fileCatalogStorage) len() int {
	catalog.lock.RLock()
	defer catalog.lock.RUnlock()
	return len(catalog.entries)
}

// selectionStorage owns the set of selected catalog entry ids. It holds
// ids only, never entries: the catalog stays the single owner of entry
// data.
type selectionStorage struct {
	ids  utils.Set[string]
	lock sync.RWMutex
}

func (selection *selectionStorage) init() {
	selection.lock.Lock()
	defer selection.lock.Unlock()
	selection.ids = utils.Set[string]{}
}

// toggle adds the id if absent, removes it if present, and reports
// whether the id is selected afterwards.
func (selection *selectionStorage) toggle(fileId string) bool {
	selection.lock.Lock()
	defer selection.lock.Unlock()
	if selection.ids.Has(fileId) {
		selection.ids.Remove(fileId)
		return false
	}
	selection.ids.Add(fileId)
	return true
}

func (selection *selectionStorage) has(fileId string) bool {
	selection.lock.RLock()
	defer selection.lock.RUnlock()
	return selection.ids.Has(fileId)
}

func (selection *selectionStorage) clear() {
	selection.lock.Lock()
	defer selection.lock.Unlock()
	selection.ids = utils.Set[string]{}
}

func (selection *selectionStorage) all() []string {
	selection.lock.RLock()
	defer selection.lock.RUnlock()
	ids := make([]string, 0, len(selection.ids))
	for id := range selection.ids {
		ids = append(ids, id)
	}
	return ids
}

func (selection *selectionStorage) len() int {
	selection.lock.RLock()
	defer selection.lock.RUnlock()
	return len(selection.ids)
}
