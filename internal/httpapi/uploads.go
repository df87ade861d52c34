package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"cukuraja/backend/internal/xid"
)

const (
	maxExpenseProofBytes = 3 << 20
	maxPaymentProofBytes = 5 << 20
	maxLogoBytes         = 2 << 20
)

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

var imageAndPDFExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".pdf":  true,
}

// saveUploadedFile reads a single multipart file from the named form field,
// enforces the size cap and extension allowlist, and writes it under the
// upload directory with a generated name. It returns the public /uploads/
// path for storing on the record.
func (a *API) saveUploadedFile(w http.ResponseWriter, r *http.Request, field string, prefix string, maxBytes int64, allowedExts map[string]bool) (string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+(1<<19))
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return "", fmt.Errorf("invalid multipart form: %w", err)
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", err
		}
		return "", fmt.Errorf("file field %q: %w", field, err)
	}
	defer func() { _ = file.Close() }()

	if header.Size > maxBytes {
		return "", fmt.Errorf("file too large, max %d bytes", maxBytes)
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExts[ext] {
		return "", fmt.Errorf("file type %s not allowed", ext)
	}

	if err := os.MkdirAll(a.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("prepare upload dir: %w", err)
	}

	name := xid.New(prefix) + ext
	dest, err := os.Create(filepath.Join(a.uploadDir, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer func() { _ = dest.Close() }()

	if _, err := io.Copy(dest, io.LimitReader(file, maxBytes)); err != nil {
		return "", fmt.Errorf("write upload file: %w", err)
	}

	return "/uploads/" + name, nil
}
