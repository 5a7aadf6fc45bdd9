package services

import (
	"context"
	"errors"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/qaunion/portal/utils/filevalidation"
)

// Logo sources offered by the university form
const (
	LogoMethodFile = "file"
	LogoMethodURL  = "url"
)

// WarnUploadFailed is reported when the new logo could not be stored and the
// current one was kept
const WarnUploadFailed = "universities.errors.uploadFailed"

// ObjectStore keeps uploaded logos in a public bucket
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// BackendUploader posts a file to the backend's upload endpoint
type BackendUploader interface {
	UploadFile(ctx context.Context, token, filename, contentType string, content []byte) (string, error)
}

// LogoRequest is the logo part of a create or edit form
type LogoRequest struct {
	Method  string
	URL     string
	File    *multipart.FileHeader
	Remove  bool
	Current string
}

// LogoError is a rejected upload; Key is its dictionary key
type LogoError struct {
	Key string
}

func (e *LogoError) Error() string { return e.Key }

// LogoService turns a LogoRequest into the logo URL to store
type LogoService struct {
	objects ObjectStore
	backend BackendUploader
}

// NewLogoService uploads to objects when it is non-nil, otherwise to backend
func NewLogoService(objects ObjectStore, backend BackendUploader) *LogoService {
	return &LogoService{objects: objects, backend: backend}
}

// Resolve returns the logo to store. A URL wins when the URL method is chosen;
// a valid file is uploaded; otherwise the current logo stays unless removed.
// When the upload itself fails the current logo is kept and warning is set.
func (s *LogoService) Resolve(ctx context.Context, token string, req LogoRequest) (logo string, warning string, err error) {
	current := strings.TrimSpace(req.Current)
	if req.Remove {
		current = ""
	}

	switch {
	case req.Method == LogoMethodURL && strings.TrimSpace(req.URL) != "":
		return strings.TrimSpace(req.URL), "", nil
	case req.Method != LogoMethodURL && req.File != nil && req.File.Size > 0:
		result, err := filevalidation.ValidateFile(req.File, filevalidation.LogoLimits)
		if err != nil {
			return current, "", err
		}
		if !result.Valid {
			return current, "", &LogoError{Key: result.Error}
		}
		url, err := s.upload(ctx, token, req.File.Filename, result.ContentType, result.Content)
		if err != nil {
			log.Printf("Logo upload failed, keeping current logo: %v", err)
			return current, WarnUploadFailed, nil
		}
		return url, "", nil
	}
	return current, "", nil
}

func (s *LogoService) upload(ctx context.Context, token, filename, contentType string, content []byte) (string, error) {
	if s.objects != nil {
		key := "logos/" + uuid.NewString() + strings.ToLower(filepath.Ext(filename))
		return s.objects.Upload(ctx, key, content, contentType)
	}
	if s.backend != nil {
		return s.backend.UploadFile(ctx, token, filename, contentType, content)
	}
	return "", errors.New("no upload target configured")
}
