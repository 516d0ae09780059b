package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrNotImage = errors.New("only image files can be uploaded")
	ErrTooLarge = errors.New("image is too large")
)

// formOverhead is the room left for text fields and part headers on top of
// the image itself.
const formOverhead = 1 << 20

// LimitBody caps the request body at maxBytes plus formOverhead, so an
// oversized upload fails while it is being read rather than after it has
// been spooled to disk. A maxBytes of 0 leaves the body alone.
func LimitBody(w http.ResponseWriter, r *http.Request, maxBytes int64) {
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+formOverhead)
	}
}

// IsBodyTooLarge reports whether err was caused by the cap set by LimitBody.
func IsBodyTooLarge(err error) bool {
	var tooBig *http.MaxBytesError
	return errors.As(err, &tooBig)
}

// UploadImage checks that fh is an image no bigger than maxBytes and hands
// it to u. The declared content type is trusted only if it says image/*;
// otherwise the bytes are sniffed.
func UploadImage(ctx context.Context, u Uploader, fh *multipart.FileHeader, maxBytes int64) (string, error) {
	if u == nil {
		return "", ErrNotConfigured
	}
	if maxBytes > 0 && fh.Size > maxBytes {
		return "", ErrTooLarge
	}

	file, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		mt, err := mimetype.DetectReader(file)
		if err != nil {
			return "", fmt.Errorf("detect content type: %w", err)
		}
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			return "", fmt.Errorf("rewind upload: %w", err)
		}
		contentType = mt.String()
		if !strings.HasPrefix(contentType, "image/") {
			return "", ErrNotImage
		}
	}

	return u.Upload(ctx, fh.Filename, contentType, file)
}
