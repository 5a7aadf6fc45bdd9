package backend

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/qaunion/portal/model"
)

// RegisterResponse is the /Auth/register result
type RegisterResponse struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
}

// Rejected reports a 2xx answer that still says success=false. A missing
// success field counts as accepted.
func (r *RegisterResponse) Rejected() bool {
	return r != nil && r.Success != nil && !*r.Success
}

func (c *Client) Register(ctx context.Context, req model.RegisterRequest) (*RegisterResponse, error) {
	var out RegisterResponse
	if err := c.doRequest(ctx, http.MethodPost, "/Auth/register", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login returns ErrUnauthorized when the backend answers without a token
func (c *Client) Login(ctx context.Context, email, password string) (*model.LoginResponse, error) {
	body := map[string]string{"email": email, "password": password}

	var out model.LoginResponse
	if err := c.doRequest(ctx, http.MethodPost, "/Auth/login", "", body, &out); err != nil {
		return nil, err
	}
	if !out.Success || out.Token == "" {
		if out.Message != "" {
			return nil, fmt.Errorf("%w: %s", ErrUnauthorized, out.Message)
		}
		return nil, ErrUnauthorized
	}
	return &out, nil
}

func (c *Client) UserDashboard(ctx context.Context, token string) (*model.DashboardStats, error) {
	var out model.DashboardStats
	if err := c.doRequest(ctx, http.MethodGet, "/Dashboard/user", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AdminDashboard(ctx context.Context, token string) (*model.DashboardStats, error) {
	var out model.DashboardStats
	if err := c.doRequest(ctx, http.MethodGet, "/Dashboard/admin", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type uploadResult struct {
	FileURL  string `json:"file_url"`
	FilePath string `json:"file_path"`
}

// UploadFile posts one file as multipart field "file" and returns its public URL
func (c *Client) UploadFile(ctx context.Context, token, filename, contentType string, content []byte) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return "", fmt.Errorf("failed to create form part: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return "", fmt.Errorf("failed to write form part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/Files/upload", &buf)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	var out uploadResult
	if err := c.send(req, token, &out); err != nil {
		return "", err
	}
	return c.resolveUploadURL(out)
}

// resolveUploadURL prefers file_url, then an absolute file_path, then
// file_path joined to the backend origin
func (c *Client) resolveUploadURL(r uploadResult) (string, error) {
	switch {
	case r.FileURL != "":
		return r.FileURL, nil
	case strings.HasPrefix(r.FilePath, "http://"), strings.HasPrefix(r.FilePath, "https://"):
		return r.FilePath, nil
	case r.FilePath != "":
		if !strings.HasPrefix(r.FilePath, "/") {
			r.FilePath = "/" + r.FilePath
		}
		return c.Origin() + r.FilePath, nil
	}
	return "", fmt.Errorf("upload response has no file url")
}
