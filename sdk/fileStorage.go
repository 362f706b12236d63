package sdk

import (
	"crypto/rand"
	"github.com/allan-simon/go-singleinstance"
	"github.com/driveclone/go-drive-sdk/utils"
	"github.com/ztrue/tracerr"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/chacha20poly1305"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

var (
	// ErrorDatabaseLocked is returned when another SDK instance is already using this database
	ErrorDatabaseLocked = utils.NewDriveError("DATABASE_LOCKED", "another SDK instance is already using this database")
	// ErrorDatabaseClosed is returned when trying to use a database which is not open
	ErrorDatabaseClosed = utils.NewDriveError("DATABASE_CLOSED", "database closed")
	// ErrorDatabaseAlreadyInitialized is returned when trying to initialize a database which has already been initialized
	ErrorDatabaseAlreadyInitialized = utils.NewDriveError("DATABASE_ALREADY_INITIALIZED", "database already initialized")
	// ErrorStorageInvalidKeySize is returned when the EncryptionKey is not 32 bytes
	ErrorStorageInvalidKeySize = utils.NewDriveError("STORAGE_INVALID_KEY_SIZE", "EncryptionKey must be 32 bytes")
	// ErrorStorageCorrupted is returned when an encrypted storage file cannot be opened with the given key
	ErrorStorageCorrupted = utils.NewDriveError("STORAGE_CORRUPTED", "storage file cannot be decrypted")
)

const currentIdentityFileName = "current_identity_storage"

func sealStorage(key []byte, plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, tracerr.Wrap(err)
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	_, err = rand.Read(nonce)
	if err != nil {
		return nil, tracerr.Wrap(err)
	}
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

func openStorage(key []byte, sealed []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, tracerr.Wrap(err)
	}
	if len(sealed) < chacha20poly1305.NonceSizeX {
		return nil, tracerr.Wrap(ErrorStorageCorrupted)
	}
	plaintext, err := aead.Open(nil, sealed[:chacha20poly1305.NonceSizeX], sealed[chacha20poly1305.NonceSizeX:], nil)
	if err != nil {
		return nil, tracerr.Wrap(ErrorStorageCorrupted.AddDetails(err.Error()))
	}
	return plaintext, nil
}

func readStorage[T interface{}](fileName string, key []byte, data *T) error {
	read, err := os.ReadFile(fileName)

	if err != nil {
		if os.IsNotExist(err) {
			return nil
		} else {
			return tracerr.Wrap(err)
		}
	}

	if len(read) == 0 {
		return nil
	}

	if key != nil {
		read, err = openStorage(key, read)
		if err != nil {
			return tracerr.Wrap(err)
		}
	}

	err = bson.Unmarshal(read, data)

	if err != nil {
		return tracerr.Wrap(err)
	}

	return nil
}

func writeStorage[T interface{}](fileName string, key []byte, data *T) error {
	marshalledData, err := bson.Marshal(data)

	if err != nil {
		return tracerr.Wrap(err)
	}

	if key != nil {
		marshalledData, err = sealStorage(key, marshalledData)
		if err != nil {
			return tracerr.Wrap(err)
		}
	}

	t := time.Now()
	// time formats are a bit esoteric ... basically, you have to write the date-time "Mon. Jan 2nd 2006 03:04:05 PM" with the format you want. And the Replace because I don't want the '.', which Format requires for milliseconds, somehow...
	now := strings.Replace(t.Format("20060102150405.000"), ".", "", 1)
	tempFileName := fileName + "_temp_" + now

	// write in 2 steps for atomic write
	err = os.WriteFile(tempFileName, marshalledData, 0600)
	if err != nil {
		return tracerr.Wrap(err)
	}

	err = os.Rename(tempFileName, fileName)
	if err != nil {
		return tracerr.Wrap(err)
	}

	return nil
}

// FileStorage is an implementation of Database, which stores the persisted
// identity on the File System. To create it, instantiate a FileStorage
// with a DatabaseDir, and optionally a 32-byte EncryptionKey for at-rest
// encryption (see utils.DeriveStorageKey). This instance should then
// directly be passed to InitializeOptions.
type FileStorage struct {
	DatabaseDir      string
	EncryptionKey    []byte
	databaseLock     *os.File
	identityFileLock sync.Mutex // lock for the file on FS, whereas the State lock guards the record in memory
}

func (f *FileStorage) initialize() error {
	if f.databaseLock != nil {
		return tracerr.Wrap(ErrorDatabaseAlreadyInitialized)
	}
	if f.EncryptionKey != nil && len(f.EncryptionKey) != chacha20poly1305.KeySize {
		return tracerr.Wrap(ErrorStorageInvalidKeySize)
	}

	err := os.MkdirAll(f.DatabaseDir, 0700)
	if err != nil {
		return tracerr.Wrap(err)
	}
	lockPath := filepath.Join(f.DatabaseDir, "lock")
	databaseLock, err := singleinstance.CreateLockFile(lockPath)
	if err != nil {
		if (runtime.GOOS == "windows" && err.Error() == "remove "+lockPath+": The process cannot access the file because it is being used by another process.") ||
			err.Error() == "resource temporarily unavailable" {
			return tracerr.Wrap(ErrorDatabaseLocked)
		} else {
			return tracerr.Wrap(err)
		}
	}
	f.databaseLock = databaseLock
	return nil
}

func (f *FileStorage) close() error {
	// ensure any writes which are already in flight finish before closing the DB
	f.identityFileLock.Lock()
	defer f.identityFileLock.Unlock()

	// release the DB lock
	err := f.databaseLock.Close()
	if err != nil {
		return tracerr.Wrap(err)
	}
	f.databaseLock = nil

	return nil
}

func (f *FileStorage) readCurrentIdentity(storage *currentIdentityStorage) error {
	if f.databaseLock == nil {
		return tracerr.Wrap(ErrorDatabaseClosed)
	}
	storage.currentIdentity = &currentIdentity{}
	f.identityFileLock.Lock()
	defer f.identityFileLock.Unlock()
	return readStorage[currentIdentity](filepath.Join(f.DatabaseDir, currentIdentityFileName), f.EncryptionKey, storage.currentIdentity)
}

func (f *FileStorage) writeCurrentIdentity(storage *currentIdentityStorage) error {
	if f.databaseLock == nil {
		return tracerr.Wrap(ErrorDatabaseClosed)
	}
	f.identityFileLock.Lock()
	defer f.identityFileLock.Unlock()
	return writeStorage[currentIdentity](filepath.Join(f.DatabaseDir, currentIdentityFileName), f.EncryptionKey, storage.currentIdentity)
}
