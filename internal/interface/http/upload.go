package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/servicemart/internal/application"
)

var errInvalidUpload = errors.New("invalid upload")

var allowedUploadTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"image/gif":       true,
	"application/pdf": true,
}

// UploadLimits bounds multipart files accepted by a handler.
type UploadLimits struct {
	MaxBytes int64
}

// files reads up to maxFiles parts named field. Content types are sniffed
// from the bytes, never taken from the client. The returned func closes
// the parts and must be called once the service is done with them.
func (l UploadLimits) files(c *gin.Context, field string, maxFiles int) ([]application.Upload, func(), error) {
	noop := func() {}
	form, err := c.MultipartForm()
	if errors.Is(err, http.ErrNotMultipart) || (err == nil && len(form.File[field]) == 0) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, fmt.Errorf("%w: %v", errInvalidUpload, err)
	}
	headers := form.File[field]
	if len(headers) > maxFiles {
		return nil, noop, fmt.Errorf("%w: at most %d files in %s", errInvalidUpload, maxFiles, field)
	}

	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}
	out := make([]application.Upload, 0, len(headers))
	for _, fh := range headers {
		if l.MaxBytes > 0 && fh.Size > l.MaxBytes {
			closeAll()
			return nil, noop, fmt.Errorf("%w: %s exceeds %d bytes", errInvalidUpload, fh.Filename, l.MaxBytes)
		}
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, noop, fmt.Errorf("%w: %v", errInvalidUpload, err)
		}
		opened = append(opened, f)

		head := make([]byte, 512)
		n, err := io.ReadFull(f, head)
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
			closeAll()
			return nil, noop, fmt.Errorf("%w: %v", errInvalidUpload, err)
		}
		head = head[:n]
		ct := http.DetectContentType(head)
		if !allowedUploadTypes[ct] {
			closeAll()
			return nil, noop, fmt.Errorf("%w: %s has unsupported type %s", errInvalidUpload, fh.Filename, ct)
		}
		out = append(out, application.Upload{
			Filename:    filepath.Base(fh.Filename),
			ContentType: ct,
			Size:        fh.Size,
			Body:        io.MultiReader(bytes.NewReader(head), f),
		})
	}
	return out, closeAll, nil
}
