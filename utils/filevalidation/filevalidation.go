package filevalidation

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

// Limits defines what an upload may look like
type Limits struct {
	MaxFileSizeMB int
	Extensions    []string // lower case, with dot; empty allows any
	ContentPrefix string   // sniffed content type must start with this; empty skips sniffing
}

var (
	// LogoLimits accepts any image up to 5 MB
	LogoLimits = Limits{
		MaxFileSizeMB: 5,
		ContentPrefix: "image/",
	}

	// WorkbookLimits accepts spreadsheets for the universities import
	WorkbookLimits = Limits{
		MaxFileSizeMB: 10,
		Extensions:    []string{".xlsx", ".xls"},
	}
)

// Result carries the read content when Valid. Error is a dictionary key.
type Result struct {
	Valid       bool
	FileSize    int64
	ContentType string
	Content     []byte
	Error       string
}

// Error keys
const (
	ErrTooLarge     = "universities.errors.imageTooLarge"
	ErrInvalidImage = "universities.errors.invalidImage"
	ErrInvalidFile  = "universities.errors.import"
)

// ValidateFile opens the multipart file and checks it against limits
func ValidateFile(file *multipart.FileHeader, limits Limits) (*Result, error) {
	result := &Result{FileSize: file.Size}

	if file.Size > limits.maxBytes() {
		result.Error = limits.sizeError()
		return result, nil
	}
	if !limits.extensionAllowed(file.Filename) {
		result.Error = ErrInvalidFile
		return result, nil
	}

	f, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	// one byte past the limit is enough to know it is too large
	content, err := io.ReadAll(io.LimitReader(f, limits.maxBytes()+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return check(result, content, file.Header.Get("Content-Type"), limits), nil
}

// ValidateBytes applies the same checks to content already in memory
func ValidateBytes(content []byte, declaredType string, limits Limits) *Result {
	return check(&Result{FileSize: int64(len(content))}, content, declaredType, limits)
}

func check(result *Result, content []byte, declaredType string, limits Limits) *Result {
	if int64(len(content)) > limits.maxBytes() {
		result.Error = limits.sizeError()
		return result
	}

	result.ContentType = declaredType
	if limits.ContentPrefix != "" {
		sniffed := http.DetectContentType(content)
		// svg sniffs as text/xml, trust a declared image type in that case
		if !strings.HasPrefix(sniffed, limits.ContentPrefix) {
			if !strings.HasPrefix(declaredType, limits.ContentPrefix) || !bytes.Contains(content, []byte("<svg")) {
				result.Error = ErrInvalidImage
				return result
			}
		} else {
			result.ContentType = sniffed
		}
	}

	result.Content = content
	result.Valid = true
	return result
}

func (l Limits) maxBytes() int64 {
	return int64(l.MaxFileSizeMB) * 1024 * 1024
}

func (l Limits) sizeError() string {
	if l.ContentPrefix == "image/" {
		return ErrTooLarge
	}
	return ErrInvalidFile
}

func (l Limits) extensionAllowed(name string) bool {
	if len(l.Extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range l.Extensions {
		if ext == e {
			return true
		}
	}
	return false
}
