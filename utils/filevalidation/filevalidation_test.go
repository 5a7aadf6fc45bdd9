package filevalidation

import (
	"bytes"
	"testing"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestValidateBytesAcceptsImage(t *testing.T) {
	r := ValidateBytes(pngHeader, "application/octet-stream", LogoLimits)
	if !r.Valid {
		t.Fatalf("expected valid png, got %q", r.Error)
	}
	if r.ContentType != "image/png" {
		t.Fatalf("content type = %q", r.ContentType)
	}
}

func TestValidateBytesRejectsNonImage(t *testing.T) {
	r := ValidateBytes([]byte("%PDF-1.7"), "application/pdf", LogoLimits)
	if r.Valid || r.Error != ErrInvalidImage {
		t.Fatalf("expected invalid image, got %+v", r)
	}
}

func TestValidateBytesAcceptsDeclaredSVG(t *testing.T) {
	svg := []byte(`<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg"></svg>`)
	r := ValidateBytes(svg, "image/svg+xml", LogoLimits)
	if !r.Valid {
		t.Fatalf("expected svg to pass, got %q", r.Error)
	}
}

func TestValidateBytesRejectsLargeImage(t *testing.T) {
	big := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 5*1024*1024)...)
	r := ValidateBytes(big, "image/png", LogoLimits)
	if r.Valid || r.Error != ErrTooLarge {
		t.Fatalf("expected too large, got valid=%v err=%q", r.Valid, r.Error)
	}
}

func TestExtensionAllowed(t *testing.T) {
	cases := map[string]bool{
		"جامعات.xlsx": true,
		"OLD.XLS":     true,
		"list.csv":    false,
		"noext":       false,
	}
	for name, want := range cases {
		if got := WorkbookLimits.extensionAllowed(name); got != want {
			t.Errorf("%s: got %v want %v", name, got, want)
		}
	}
	if !LogoLimits.extensionAllowed("anything.bin") {
		t.Error("logo limits should not restrict extensions")
	}
}
