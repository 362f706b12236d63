package sdk

import (
	"github.com/ztrue/tracerr"
)

// MemoryStorage is an implementation of Database, which keeps the
// persisted identity in memory only: nothing survives the instance.
// This instance should then directly be passed to InitializeOptions.
type MemoryStorage struct {
	initialized bool
	closed      bool
}

func (f *MemoryStorage) initialize() error {
	if f.initialized {
		return tracerr.Wrap(ErrorDatabaseAlreadyInitialized)
	}
	f.initialized = true
	return nil
}

func (f *MemoryStorage) close() error {
	f.closed = true
	return nil
}

func (f *MemoryStorage) readCurrentIdentity(storage *currentIdentityStorage) error {
	if f.closed {
		return tracerr.Wrap(ErrorDatabaseClosed)
	}
	storage.currentIdentity = &currentIdentity{}
	return nil
}

func (f *MemoryStorage) writeCurrentIdentity(storage *currentIdentityStorage) error {
	if f.closed {
		return tracerr.Wrap(ErrorDatabaseClosed)
	}
	return nil
}
