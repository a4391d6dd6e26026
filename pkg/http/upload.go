package http

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/jayant413/contrashutter-backend/pkg/blob"
	apperrors "github.com/jayant413/contrashutter-backend/pkg/errors"
)

const multipartMemory = 32 << 20

func IsMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && strings.HasPrefix(mediaType, "multipart/")
}

// ParseMultipart parses a multipart body once. Other content types are left alone.
func ParseMultipart(r *http.Request) error {
	if !IsMultipart(r) || r.MultipartForm != nil {
		return nil
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return apperrors.InvalidInput("Invalid multipart body: " + err.Error())
	}
	return nil
}

// FormUpload returns the file sent under field as an image upload, or nil
// when there is none.
func FormUpload(r *http.Request, field string) (*blob.Upload, error) {
	if err := ParseMultipart(r); err != nil {
		return nil, err
	}
	if r.MultipartForm == nil {
		return nil, nil
	}
	headers := r.MultipartForm.File[field]
	if len(headers) == 0 {
		return nil, nil
	}
	uploads, err := readUploads(headers[:1])
	if err != nil {
		return nil, err
	}
	return &uploads[0], nil
}

// FormUploads returns every file sent under field, in order.
func FormUploads(r *http.Request, field string) ([]blob.Upload, error) {
	if err := ParseMultipart(r); err != nil {
		return nil, err
	}
	if r.MultipartForm == nil {
		return nil, nil
	}
	return readUploads(r.MultipartForm.File[field])
}

func readUploads(headers []*multipart.FileHeader) ([]blob.Upload, error) {
	uploads := make([]blob.Upload, 0, len(headers))
	for _, h := range headers {
		f, err := h.Open()
		if err != nil {
			return nil, apperrors.InvalidInput(fmt.Sprintf("Could not read file %s", h.Filename))
		}
		data, err := io.ReadAll(io.LimitReader(f, blob.MaxImageSize+1))
		f.Close()
		if err != nil {
			return nil, apperrors.InvalidInput(fmt.Sprintf("Could not read file %s", h.Filename))
		}
		uploads = append(uploads, blob.Bytes(data, h.Filename, blob.MaxImageSize, blob.ImageTypes...))
	}
	return uploads, nil
}
