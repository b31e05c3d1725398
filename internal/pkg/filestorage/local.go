package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/anirudhb/achievehub/internal/pkg/logger"
)

// LocalStorage stores files on the local filesystem.
type LocalStorage struct {
	basePath string // Root directory where files are written
	baseURL  string // Base URL prepended to returned file paths
}

var _ FileStorage = (*LocalStorage)(nil)

// NewLocalStorage creates a new LocalStorage rooted at basePath. baseURL is
// the URL prefix under which the directory is served.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// SaveFile stores an uploaded file under basePath/subPath with a generated
// name to prevent collisions, keeping the original extension.
func (ls *LocalStorage) SaveFile(fileHeader *multipart.FileHeader, subPath string) (*StoredFile, error) {
	if fileHeader == nil {
		return nil, nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	fullDirPath := ls.basePath
	if subPath != "" {
		fullDirPath = filepath.Join(ls.basePath, subPath)
		if err := os.MkdirAll(fullDirPath, os.ModePerm); err != nil {
			logger.Error().Err(err).Str("path", fullDirPath).Msg("Failed to create subdirectory")
			return nil, fmt.Errorf("failed to create subdirectory: %w", err)
		}
	}

	ext := filepath.Ext(fileHeader.Filename)
	uniqueFilename := uuid.New().String() + ext
	dstPath := filepath.Join(fullDirPath, uniqueFilename)

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return nil, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, file)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		_ = os.Remove(dstPath)
		return nil, fmt.Errorf("failed to save file content: %w", err)
	}

	fileURL := ls.baseURL + "/" + uniqueFilename
	if subPath != "" {
		fileURL = ls.baseURL + "/" + subPath + "/" + uniqueFilename
	}

	logger.Info().Str("filename", fileHeader.Filename).Str("saved_as", uniqueFilename).Str("url", fileURL).Msg("File saved")
	return &StoredFile{
		URL:      fileURL,
		Filename: fileHeader.Filename,
		Size:     written,
	}, nil
}

// DeleteFile removes a stored file given the URL that SaveFile returned.
// Returns nil if the file does not exist.
func (ls *LocalStorage) DeleteFile(fileURL string) error {
	if fileURL == "" {
		return nil
	}

	fullPath := ls.GetFullPath(fileURL)
	if fullPath == "" {
		return nil
	}

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		logger.Error().Err(err).Str("path", fullPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file %s: %w", fullPath, err)
	}

	return nil
}

// GetFullPath maps a file URL back to its location under basePath.
func (ls *LocalStorage) GetFullPath(fileURL string) string {
	relative := strings.TrimPrefix(fileURL, ls.baseURL)
	relative = strings.TrimLeft(relative, "/")
	if relative == "" {
		return ""
	}
	return filepath.Join(ls.basePath, filepath.FromSlash(relative))
}
