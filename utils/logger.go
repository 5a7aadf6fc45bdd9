package utils

import (
	"io"
	"log"
	"os"
	"path/filepath"
)

// NewLogWriter returns stdout, or stdout plus an append-only file when path is set
func NewLogWriter(path string) (io.Writer, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("Writing logs to %s", path)
	return io.MultiWriter(os.Stdout, file), file.Close, nil
}
