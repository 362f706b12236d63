package sdk

import (
	"github.com/driveclone/go-drive-sdk/utils"
	"github.com/google/uuid"
	"github.com/ztrue/tracerr"
)

var (
	// ErrorFileNotFound is returned when the given file id references no entry in the catalog
	ErrorFileNotFound = utils.NewDriveError("FILE_NOT_FOUND", "no catalog entry with this id")
)

const (
	justNowLabel        = "Just now"
	anonymousOwnerLabel = "Anonymous"
)

// FileEntry represents one item in the catalog. It models the gateway's
// *accepted* upload, not a server-confirmed durable record.
type FileEntry struct {
	// Id is a client-generated unique identifier, stable for the lifetime of this SDK instance.
	Id string `json:"id"`
	// Name is the display name of the file.
	Name string `json:"name"`
	// Type is the semantic class derived from Name at creation; it is never recomputed.
	Type FileType `json:"type"`
	// Size is the human-readable size string, e.g. "2.00 KB".
	Size string `json:"size"`
	// Modified is the modification label.
	Modified string `json:"modified"`
	// Owner is the display label of the identity that uploaded the file.
	Owner string `json:"owner"`
	// Starred reports whether the user starred this entry.
	Starred bool `json:"starred"`
}

func (state *State) ownerLabel() string {
	state.locks.currentIdentityLock.RLock()
	defer state.locks.currentIdentityLock.RUnlock()
	record := state.storage.currentIdentity.get()
	return utils.Ternary(record.isAnonymous(), anonymousOwnerLabel, record.Identity.DisplayLabel())
}

// Upload sends the file bytes to the upload gateway and, on acceptance,
// optimistically inserts a FileEntry at the front of the catalog
// (most-recent-first). On gateway failure the catalog is unchanged: a
// failed upload never partially mutates local state.
//
// Callers are expected to expose a busy indicator and disable the upload
// trigger while a call is outstanding; the SDK does not queue uploads.
func (state *State) Upload(fileName string, fileContent []byte) (*FileEntry, error) {
	err := state.checkSdkOpen()
	if err != nil {
		return nil, tracerr.Wrap(err)
	}
	state.logger.Debug().Str("fileName", fileName).Int("size", len(fileContent)).Msg("Uploading...")

	_, err = state.apiClient.uploadFile(&uploadFileRequest{FileName: fileName, FileContent: fileContent})
	if err != nil {
		return nil, tracerr.Wrap(err)
	}

	entry := FileEntry{
		Id:       uuid.NewString(),
		Name:     fileName,
		Type:     ClassifyFileName(fileName),
		Size:     HumanizeSize(int64(len(fileContent))),
		Modified: justNowLabel,
		Owner:    state.ownerLabel(),
		Starred:  false,
	}
	state.storage.fileCatalog.insertFront(entry)

	state.logger.Info().Str("fileId", entry.Id).Str("fileName", fileName).Msg("Upload accepted")
	return &entry, nil
}

// ToggleStar flips the starred flag of the entry with the given id.
// It returns ErrorFileNotFound if no entry has this id.
func (state *State) ToggleStar(fileId string) error {
	err := state.checkSdkOpen()
	if err != nil {
		return tracerr.Wrap(err)
	}
	if !state.storage.fileCatalog.toggleStar(fileId) {
		return tracerr.Wrap(ErrorFileNotFound.AddDetails(fileId))
	}
	return nil
}

// Files returns a snapshot of the catalog, most-recent-first.
func (state *State) Files() []FileEntry {
	return state.storage.fileCatalog.all()
}
