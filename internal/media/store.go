package media

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/yoursocial/yoursocial/internal/models"
	"github.com/yoursocial/yoursocial/pkg/config"
)

// Store persists uploaded media on local disk under per-kind directories
// and serves them through a static route
type Store struct {
	rootDir      string
	baseURL      string
	thumbnailMax int
}

// NewStore creates a media store, ensuring the root directory exists
func NewStore(cfg *config.MediaConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.RootDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media root: %w", err)
	}
	return &Store{
		rootDir:      cfg.RootDir,
		baseURL:      strings.TrimSuffix(cfg.BaseURL, "/"),
		thumbnailMax: cfg.ThumbnailMax,
	}, nil
}

// RootDir returns the on-disk media root
func (s *Store) RootDir() string {
	return s.rootDir
}

// ThumbnailMax returns the bounding box size for generated thumbnails
func (s *Store) ThumbnailMax() int {
	return s.thumbnailMax
}

// Upload is the result of a stored upload
type Upload struct {
	URL       string
	MediaType string
}

// Save stores an uploaded file under a random name, returning its public
// URL and classified media type
func (s *Store) Save(kind string, header *multipart.FileHeader) (*Upload, error) {
	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	name := uuid.New().String() + ext
	dir := filepath.Join(s.rootDir, kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media dir: %w", err)
	}

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to create media file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return nil, fmt.Errorf("failed to write media file: %w", err)
	}

	return &Upload{
		URL:       fmt.Sprintf("%s/%s/%s", s.baseURL, kind, name),
		MediaType: ClassifyExtension(ext),
	}, nil
}

// Delete removes a stored file given its public URL; unknown URLs are
// ignored
func (s *Store) Delete(url string) error {
	rel := strings.TrimPrefix(url, s.baseURL+"/")
	if rel == url || rel == "" || strings.Contains(rel, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(s.rootDir, filepath.FromSlash(rel)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// ClassifyExtension maps a file extension to a media type constant
func ClassifyExtension(ext string) string {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "jpg", "jpeg", "png", "gif", "webp":
		return models.MediaTypeImage
	case "mp4", "mov", "avi", "webm":
		return models.MediaTypeVideo
	case "mp3", "wav", "ogg", "m4a":
		return models.MediaTypeAudio
	default:
		return models.MediaTypeFile
	}
}
