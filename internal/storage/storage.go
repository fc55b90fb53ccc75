// Package storage handles media uploads for posts: whitelist checks,
// random object naming and writing to the local upload bucket.
package storage

import (
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/mdobak/go-xerrors"
)

const MaxFileSize = 10 << 20 // 10 MiB

const bucketDir = "uploads"

var (
	ErrFileTooLarge    = xerrors.Message("file exceeds the 10MB limit")
	ErrUnsupportedType = xerrors.Message("unsupported file type (jpg, png, gif, webp, mp4, webm only)")
	ErrBadExtension    = xerrors.Message("invalid file extension")
)

// Declared content type and file extension are checked independently:
// a whitelisted type with a mismatching extension is still rejected.
var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"video/mp4":  true,
	"video/webm": true,
	"video/ogg":  true,
}

var allowedExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
	"webp": true,
	"mp4":  true,
	"webm": true,
	"ogg":  true,
}

type UploadResult struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

type Store struct {
	dir     string
	baseURL string
	log     *slog.Logger
}

// New creates an upload store writing under dir/uploads and issuing
// public URLs below baseURL.
func New(dir, baseURL string, log *slog.Logger) *Store {
	return &Store{
		dir:     dir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		log:     log,
	}
}

// Save validates and stores one uploaded file. The object is stored
// under a random name; the client-supplied filename is only consulted
// for its extension.
func (s *Store) Save(filename, contentType string, size int64, r io.Reader) (*UploadResult, error) {
	if size > MaxFileSize {
		return nil, xerrors.New(ErrFileTooLarge)
	}

	if !allowedTypes[strings.ToLower(contentType)] {
		return nil, xerrors.New(ErrUnsupportedType)
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if !allowedExtensions[ext] {
		return nil, xerrors.New(ErrBadExtension)
	}

	if err := os.MkdirAll(filepath.Join(s.dir, bucketDir), 0o755); err != nil {
		return nil, xerrors.New(err)
	}

	name := uuid.NewString() + "." + ext
	objectPath := path.Join(bucketDir, name)
	fullPath := filepath.Join(s.dir, bucketDir, name)

	dst, err := os.Create(fullPath)
	if err != nil {
		return nil, xerrors.New(err)
	}
	defer dst.Close()

	// The declared size is not trusted; the copy itself is capped too.
	written, err := io.Copy(dst, io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		_ = os.Remove(fullPath)
		return nil, xerrors.New(err)
	}
	if written > MaxFileSize {
		_ = os.Remove(fullPath)
		return nil, xerrors.New(ErrFileTooLarge)
	}

	s.log.Info("file uploaded", "path", objectPath, "size", written, "content_type", contentType)

	return &UploadResult{
		URL:  s.baseURL + "/" + objectPath,
		Path: objectPath,
	}, nil
}
