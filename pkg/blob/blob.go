// Package blob stores uploaded media on local disk and hands back the public
// path under which the API serves it.
package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"

	apperrors "github.com/jayant413/contrashutter-backend/pkg/errors"
)

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrTooLarge        = errors.New("file too large")
	ErrInvalidRef      = errors.New("invalid blob reference")
)

// ImageTypes are the MIME types accepted for profile pictures, banners and event images.
var ImageTypes = []string{"image/jpeg", "image/png"}

const sniffLen = 3072

// MaxImageSize caps profile pictures, banners and event images.
const MaxImageSize = 5 << 20

type LocalStore struct {
	root     string
	basePath string
}

func NewLocalStore(root, basePath string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads dir %s: %w", root, err)
	}
	return &LocalStore{
		root:     root,
		basePath: "/" + strings.Trim(basePath, "/"),
	}, nil
}

func (s *LocalStore) Root() string {
	return s.root
}

// RegisterRoutes serves stored files under the public base path.
func (s *LocalStore) RegisterRoutes(router *httprouter.Router) {
	router.ServeFiles(s.basePath+"/*filepath", http.Dir(s.root))
}

// Upload describes one incoming file.
type Upload struct {
	Reader   io.Reader
	Filename string
	MaxBytes int64
	// Allowed restricts the sniffed MIME type. Empty allows anything.
	Allowed []string
}

// Store writes the upload under folder with a random name and returns its public path.
func (s *LocalStore) Store(ctx context.Context, folder string, up Upload) (string, error) {
	return s.StoreAs(ctx, folder, uuid.NewString(), up)
}

// StoreAs writes the upload as folder/name plus the detected extension, replacing any file already there.
func (s *LocalStore) StoreAs(ctx context.Context, folder, name string, up Upload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := readLimited(up.Reader, up.MaxBytes)
	if err != nil {
		return "", err
	}

	ext, err := detectExtension(data, up.Filename, up.Allowed)
	if err != nil {
		return "", err
	}

	rel := path.Join(cleanSegment(folder), cleanSegment(name)+ext)
	full := filepath.Join(s.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("failed to create folder %s: %w", folder, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(full), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to close upload: %w", err)
	}
	if err := os.Rename(tmp.Name(), full); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to move upload into place: %w", err)
	}

	return s.URL(rel), nil
}

// Delete removes the file behind a public path. Missing files are not an error.
func (s *LocalStore) Delete(_ context.Context, ref string) error {
	full, err := s.resolve(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", ref, err)
	}
	return nil
}

func (s *LocalStore) URL(rel string) string {
	return s.basePath + "/" + strings.TrimLeft(filepath.ToSlash(rel), "/")
}

func (s *LocalStore) resolve(ref string) (string, error) {
	if ref == "" {
		return "", ErrInvalidRef
	}
	rel := strings.TrimPrefix(ref, s.basePath)
	if rel == ref && strings.HasPrefix(ref, "/") {
		return "", fmt.Errorf("%w: %s", ErrInvalidRef, ref)
	}
	rel = path.Clean("/" + rel)
	if rel == "/" {
		return "", fmt.Errorf("%w: %s", ErrInvalidRef, ref)
	}
	return filepath.Join(s.root, filepath.FromSlash(rel)), nil
}

func readLimited(r io.Reader, maxBytes int64) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: empty upload", ErrUnsupportedType)
	}
	if maxBytes <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, ErrTooLarge
	}
	return data, nil
}

func detectExtension(data []byte, filename string, allowed []string) (string, error) {
	head := data
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	mt := mimetype.Detect(head)

	if len(allowed) > 0 && !mimetype.EqualsAny(mt.String(), allowed...) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mt.String())
	}

	if ext := strings.ToLower(filepath.Ext(filename)); ext != "" && isExtensionOf(mt, ext) {
		return ext, nil
	}
	return mt.Extension(), nil
}

func isExtensionOf(mt *mimetype.MIME, ext string) bool {
	for m := mt; m != nil; m = m.Parent() {
		if m.Extension() == ext {
			return true
		}
	}
	// jpeg has two common spellings
	return ext == ".jpeg" && mt.Is("image/jpeg")
}

func cleanSegment(s string) string {
	s = path.Clean("/" + filepath.ToSlash(s))
	return strings.Trim(strings.ReplaceAll(s, "..", ""), "/")
}

// Bytes is a convenience for callers holding the whole file in memory.
func Bytes(data []byte, filename string, maxBytes int64, allowed ...string) Upload {
	return Upload{Reader: bytes.NewReader(data), Filename: filename, MaxBytes: maxBytes, Allowed: allowed}
}

// AppError maps a failed Store to the response the client should see.
func AppError(err error) error {
	switch {
	case errors.Is(err, ErrUnsupportedType):
		return apperrors.InvalidInput("Invalid file type. Only JPEG, PNG, and JPG are allowed.")
	case errors.Is(err, ErrTooLarge):
		return apperrors.InvalidInput("File too large. The limit is 5MB.")
	default:
		return apperrors.Internal("Failed to store file", err)
	}
}
