package sdk

import (
	"github.com/driveclone/go-drive-sdk/utils"
	"math"
	"strconv"
	"strings"
)

// FileType is the semantic class of a catalog entry, derived once from
// its name at creation time. The set is closed: classification always
// produces one of these values.
type FileType string

const (
	FileTypeFolder   FileType = "folder"
	FileTypeDocument FileType = "document"
	FileTypeImage    FileType = "image"
	FileTypeVideo    FileType = "video"
	FileTypeAudio    FileType = "audio"
	FileTypeArchive  FileType = "archive"
	FileTypeFile     FileType = "file"
)

var extensionTypes = map[string]FileType{
	"jpg": FileTypeImage, "jpeg": FileTypeImage, "png": FileTypeImage, "gif": FileTypeImage, "svg": FileTypeImage, "webp": FileTypeImage,
	"mp4": FileTypeVideo, "avi": FileTypeVideo, "mov": FileTypeVideo, "wmv": FileTypeVideo, "flv": FileTypeVideo,
	"mp3": FileTypeAudio, "wav": FileTypeAudio, "flac": FileTypeAudio, "aac": FileTypeAudio,
	"pdf": FileTypeDocument, "doc": FileTypeDocument, "docx": FileTypeDocument, "txt": FileTypeDocument, "rtf": FileTypeDocument,
	"zip": FileTypeArchive, "rar": FileTypeArchive, "7z": FileTypeArchive, "tar": FileTypeArchive, "gz": FileTypeArchive,
}

// ClassifyFileName maps a file name to its FileType by the lowercased
// extension after the final '.'. Names without an extension, and unknown
// extensions, classify as FileTypeFile. Total: never fails.
func ClassifyFileName(fileName string) FileType {
	dot := strings.LastIndexByte(fileName, '.')
	if dot == -1 {
		return FileTypeFile
	}
	if fileType, ok := extensionTypes[strings.ToLower(fileName[dot+1:])]; ok {
		return fileType
	}
	return FileTypeFile
}

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// HumanizeSize renders a byte count with base-1024 scaling and two
// decimal places, e.g. 2048 -> "2.00 KB". Zero is special-cased as
// "0 Bytes". The unit is clamped at GB.
func HumanizeSize(bytes int64) string {
	if bytes == 0 {
		return "0 Bytes"
	}
	// Log2 is exact on powers of two, so 1024 lands on "1.00 KB" and not
	// "1024.00 Bytes".
	unit := int(math.Floor(math.Log2(float64(bytes)) / 10))
	unit = utils.Min(utils.Max(unit, 0), len(sizeUnits)-1)
	value := float64(bytes) / math.Pow(1024, float64(unit))
	return strconv.FormatFloat(value, 'f', 2, 64) + " " + sizeUnits[unit]
}
