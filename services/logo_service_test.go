package services

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

func fileHeader(t *testing.T, name, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="logo"; filename="`+name+`"`)
	h.Set("Content-Type", contentType)
	part, _ := mw.CreatePart(h)
	part.Write(content)
	mw.Close()

	form, err := multipart.NewReader(&buf, mw.Boundary()).ReadForm(10 << 20)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["logo"][0]
}

type fakeObjects struct {
	key string
	err error
}

func (f *fakeObjects) Upload(_ context.Context, key string, _ []byte, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.key = key
	return "https://cdn.example/" + key, nil
}

type fakeBackendUploader struct {
	token string
}

func (f *fakeBackendUploader) UploadFile(_ context.Context, token, filename, _ string, _ []byte) (string, error) {
	f.token = token
	return "http://localhost:5000/uploads/" + filename, nil
}

func TestLogoURLMethodWins(t *testing.T) {
	s := NewLogoService(nil, nil)
	logo, warn, err := s.Resolve(context.Background(), "", LogoRequest{
		Method: LogoMethodURL, URL: " https://example.com/l.png ", Current: "https://old/l.png",
	})
	if err != nil || warn != "" || logo != "https://example.com/l.png" {
		t.Fatalf("got %q %q %v", logo, warn, err)
	}
}

func TestLogoFileGoesToObjectStore(t *testing.T) {
	objects := &fakeObjects{}
	s := NewLogoService(objects, &fakeBackendUploader{})
	logo, _, err := s.Resolve(context.Background(), "tok", LogoRequest{
		Method: LogoMethodFile, File: fileHeader(t, "Cairo.PNG", "image/png", pngBytes),
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(objects.key, "logos/") || !strings.HasSuffix(objects.key, ".png") {
		t.Fatalf("key = %q", objects.key)
	}
	if logo != "https://cdn.example/"+objects.key {
		t.Fatalf("logo = %q", logo)
	}
}

func TestLogoFileFallsBackToBackend(t *testing.T) {
	backend := &fakeBackendUploader{}
	s := NewLogoService(nil, backend)
	logo, _, err := s.Resolve(context.Background(), "tok", LogoRequest{
		Method: LogoMethodFile, File: fileHeader(t, "a.png", "image/png", pngBytes),
	})
	if err != nil || logo != "http://localhost:5000/uploads/a.png" || backend.token != "tok" {
		t.Fatalf("got %q %v token %q", logo, err, backend.token)
	}
}

func TestLogoUploadFailureKeepsCurrent(t *testing.T) {
	s := NewLogoService(&fakeObjects{err: errors.New("denied")}, nil)
	logo, warn, err := s.Resolve(context.Background(), "", LogoRequest{
		Method: LogoMethodFile, File: fileHeader(t, "a.png", "image/png", pngBytes), Current: "https://old/l.png",
	})
	if err != nil || warn != WarnUploadFailed || logo != "https://old/l.png" {
		t.Fatalf("got %q %q %v", logo, warn, err)
	}
}

func TestLogoRejectsNonImage(t *testing.T) {
	s := NewLogoService(&fakeObjects{}, nil)
	_, _, err := s.Resolve(context.Background(), "", LogoRequest{
		Method: LogoMethodFile, File: fileHeader(t, "a.txt", "text/plain", []byte("hello world")),
	})
	var logoErr *LogoError
	if !errors.As(err, &logoErr) || logoErr.Key != "universities.errors.invalidImage" {
		t.Fatalf("err = %v", err)
	}
}

func TestLogoKeepOrRemoveCurrent(t *testing.T) {
	s := NewLogoService(nil, nil)
	ctx := context.Background()

	if logo, _, _ := s.Resolve(ctx, "", LogoRequest{Method: LogoMethodFile, Current: "https://old/l.png"}); logo != "https://old/l.png" {
		t.Fatalf("kept = %q", logo)
	}
	if logo, _, _ := s.Resolve(ctx, "", LogoRequest{Method: LogoMethodURL, Current: "https://old/l.png", Remove: true}); logo != "" {
		t.Fatalf("removed = %q", logo)
	}
}
