package filestorage

import "mime/multipart"

// StoredFile describes a file after it has been written to the blob store.
type StoredFile struct {
	URL      string // Accessible URL for the stored file
	Filename string // Original filename as uploaded
	Size     int64  // Size in bytes
}

// FileStorage defines the interface for blob storage operations.
type FileStorage interface {
	// SaveFile stores an uploaded file under the given subdirectory and
	// returns where it landed.
	SaveFile(fileHeader *multipart.FileHeader, subPath string) (*StoredFile, error)

	// DeleteFile removes a previously stored file. Deleting a missing file
	// is not an error.
	DeleteFile(fileURL string) error

	// GetFullPath returns the full filesystem path for a given file URL.
	GetFullPath(fileURL string) string
}
