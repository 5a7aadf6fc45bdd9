package university

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/qaunion/portal/database"
	"github.com/qaunion/portal/model"
	"github.com/qaunion/portal/services"
	"github.com/qaunion/portal/utils/middleware"
	"github.com/qaunion/portal/utils/sessions"
	"github.com/qaunion/portal/views"
	"github.com/xuri/excelize/v2"
)

type fakeObjects struct {
	keys []string
}

func (f *fakeObjects) Upload(_ context.Context, key string, _ []byte, _ string) (string, error) {
	f.keys = append(f.keys, key)
	return "https://cdn.example/" + key, nil
}

type fixture struct {
	app     *fiber.App
	service *services.UniversityService
	objects *fakeObjects
	cookies []*http.Cookie
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		service: services.NewUniversityService(database.NewUniversityStore(database.NewMemoryStore())),
		objects: &fakeObjects{},
	}
	h := NewUniversityHandler(f.service, services.NewLogoService(f.objects, nil))

	f.app = fiber.New(fiber.Config{Views: views.Engine()})
	sm := sessions.NewManager(nil, time.Hour, false)
	signedIn := func(c *fiber.Ctx) error {
		s, err := sm.Get(c)
		if err != nil {
			return err
		}
		c.Locals(middleware.LocalSession, s)
		c.Locals(middleware.LocalToken, "tok")
		c.Locals(middleware.LocalUser, &model.User{Name: "Mona"})
		return c.Next()
	}

	g := f.app.Group("/:locale/dashboard/universities", middleware.Locale(), signedIn)
	g.Get("/", h.Index)
	g.Get("/create", h.New)
	g.Post("/create", h.Create)
	g.Get("/edit/:id", h.Edit)
	g.Post("/edit/:id", h.Update)
	g.Get("/delete/:id", h.ConfirmDelete)
	g.Post("/delete/:id", h.Delete)
	g.Get("/print", h.Print)
	g.Get("/export", h.Export)
	g.Get("/template", h.Template)
	g.Post("/import", h.Import)

	api := f.app.Group("/api/v1/universities")
	api.Get("/", h.ListUniversities)
	api.Post("/", h.CreateUniversity)
	api.Get("/:id", h.GetUniversity)
	api.Put("/:id", h.UpdateUniversity)
	api.Delete("/:id", h.DeleteUniversity)
	return f
}

func (f *fixture) send(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()
	for _, ck := range f.cookies {
		req.AddCookie(ck)
	}
	resp, err := f.app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if cks := resp.Cookies(); len(cks) > 0 {
		f.cookies = cks
	}
	b, _ := io.ReadAll(resp.Body)
	return resp, string(b)
}

func (f *fixture) get(t *testing.T, path string) (*http.Response, string) {
	return f.send(t, httptest.NewRequest("GET", path, nil))
}

func (f *fixture) postForm(t *testing.T, path string, form url.Values) (*http.Response, string) {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return f.send(t, req)
}

func multipartBody(t *testing.T, fields map[string]string, fileField, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		_ = w.WriteField(k, v)
	}
	if fileField != "" {
		part, err := w.CreateFormFile(fileField, fileName)
		if err != nil {
			t.Fatal(err)
		}
		_, _ = part.Write(content)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, w.FormDataContentType()
}

func (f *fixture) seed(t *testing.T, names ...string) {
	t.Helper()
	for _, n := range names {
		if _, err := f.service.Create(context.Background(), model.UniversityInput{Name: n}); err != nil {
			t.Fatal(err)
		}
	}
}

func TestIndexViews(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "Cairo University", "Alexandria University")

	resp, body := f.get(t, "/en/dashboard/universities")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, `class="uni-grid"`) || !strings.Contains(body, "Alexandria University") {
		t.Fatal("grid view should list every university")
	}

	_, body = f.get(t, "/en/dashboard/universities?view=list&q=cairo")
	if !strings.Contains(body, `<table class="table">`) {
		t.Fatal("list view should render a table")
	}
	if strings.Contains(body, "Alexandria University") {
		t.Fatal("search should filter by name")
	}
}

func TestCreateRequiresName(t *testing.T) {
	f := newFixture(t)
	resp, body := f.postForm(t, "/en/dashboard/universities/create", url.Values{"university_name": {"   "}})
	if resp.StatusCode != fiber.StatusUnprocessableEntity {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Please enter the university name") {
		t.Fatal("missing name message")
	}
}

func TestCreateWithLogoURL(t *testing.T) {
	f := newFixture(t)
	resp, _ := f.postForm(t, "/en/dashboard/universities/create", url.Values{
		"university_name": {"Cairo University"},
		"logo_method":     {services.LogoMethodURL},
		"logo_url":        {"https://example.com/cu.png"},
	})
	if resp.StatusCode != fiber.StatusSeeOther || resp.Header.Get("Location") != "/en/dashboard/universities" {
		t.Fatalf("status = %d location = %q", resp.StatusCode, resp.Header.Get("Location"))
	}

	u, err := f.service.Get(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if u.UniversityLogo != "https://example.com/cu.png" {
		t.Fatalf("logo = %q", u.UniversityLogo)
	}

	_, body := f.get(t, "/en/dashboard/universities")
	if !strings.Contains(body, "University added successfully") {
		t.Fatal("flash should follow the redirect")
	}
}

func TestCreateUploadsLogoFile(t *testing.T) {
	f := newFixture(t)
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	body, contentType := multipartBody(t, map[string]string{"university_name": "Tanta University", "logo_method": "file"}, "logo_file", "logo.png", png)
	req := httptest.NewRequest("POST", "/ar/dashboard/universities/create", body)
	req.Header.Set("Content-Type", contentType)

	resp, _ := f.send(t, req)
	if resp.StatusCode != fiber.StatusSeeOther {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if len(f.objects.keys) != 1 || !strings.HasSuffix(f.objects.keys[0], ".png") {
		t.Fatalf("uploads = %v", f.objects.keys)
	}
}

func TestCreateRejectsNonImageLogo(t *testing.T) {
	f := newFixture(t)
	body, contentType := multipartBody(t, map[string]string{"university_name": "Tanta University"}, "logo_file", "logo.pdf", []byte("%PDF-1.7"))
	req := httptest.NewRequest("POST", "/en/dashboard/universities/create", body)
	req.Header.Set("Content-Type", contentType)

	resp, page := f.send(t, req)
	if resp.StatusCode != fiber.StatusUnprocessableEntity || !strings.Contains(page, "Please choose a valid image") {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if list, _ := f.service.List(context.Background(), ""); len(list) != 0 {
		t.Fatal("nothing should be stored")
	}
}

func TestEditUnknownIsNotFound(t *testing.T) {
	f := newFixture(t)
	resp, body := f.get(t, "/en/dashboard/universities/edit/42")
	if resp.StatusCode != fiber.StatusNotFound || !strings.Contains(body, "The requested university was not found") {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestUpdateKeepsLogo(t *testing.T) {
	f := newFixture(t)
	if _, err := f.service.Create(context.Background(), model.UniversityInput{Name: "Cairo", Logo: "https://example.com/a.png"}); err != nil {
		t.Fatal(err)
	}

	_, body := f.get(t, "/en/dashboard/universities/edit/1")
	if !strings.Contains(body, `value="Cairo"`) {
		t.Fatal("edit form should be prefilled")
	}

	resp, _ := f.postForm(t, "/en/dashboard/universities/edit/1", url.Values{"university_name": {"Cairo University"}})
	if resp.StatusCode != fiber.StatusSeeOther {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	u, _ := f.service.Get(context.Background(), 1)
	if u.UniversityName != "Cairo University" || u.UniversityLogo != "https://example.com/a.png" {
		t.Fatalf("university = %+v", u)
	}

	f.postForm(t, "/en/dashboard/universities/edit/1", url.Values{"university_name": {"Cairo University"}, "remove_logo": {"1"}})
	u, _ = f.service.Get(context.Background(), 1)
	if u.UniversityLogo != "" {
		t.Fatalf("logo should be removed, got %q", u.UniversityLogo)
	}
}

func TestDeleteFlow(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "Cairo University")

	_, body := f.get(t, "/en/dashboard/universities/delete/1")
	if !strings.Contains(body, "Cairo University") {
		t.Fatal("confirmation should name the university")
	}

	resp, _ := f.postForm(t, "/en/dashboard/universities/delete/1", url.Values{})
	if resp.StatusCode != fiber.StatusSeeOther {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if list, _ := f.service.List(context.Background(), ""); len(list) != 0 {
		t.Fatalf("list = %+v", list)
	}
}

func TestExportEmptyRedirects(t *testing.T) {
	f := newFixture(t)
	resp, _ := f.get(t, "/en/dashboard/universities/export")
	if resp.StatusCode != fiber.StatusSeeOther {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	_, body := f.get(t, "/en/dashboard/universities")
	if !strings.Contains(body, "There is no data to export") {
		t.Fatal("empty export should flash an error")
	}
}

func TestExportDownloadsWorkbook(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "Cairo University")

	resp, body := f.get(t, "/en/dashboard/universities/export")
	if resp.StatusCode != fiber.StatusOK || resp.Header.Get("Content-Type") != xlsxContentType {
		t.Fatalf("status = %d type = %q", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.HasPrefix(cd, `attachment; filename="universities.xlsx"; filename*=UTF-8''`) {
		t.Fatalf("disposition = %q", cd)
	}
	wb, err := excelize.OpenReader(strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer wb.Close()
	rows, err := wb.GetRows(services.SheetUniversities)
	if err != nil || len(rows) != 2 || rows[1][1] != "Cairo University" {
		t.Fatalf("rows = %v err = %v", rows, err)
	}
}

func TestImportTemplate(t *testing.T) {
	f := newFixture(t)
	resp, content := f.get(t, "/en/dashboard/universities/template")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("template status = %d", resp.StatusCode)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, `filename="universities_template.xlsx"`) {
		t.Fatalf("template disposition = %q", cd)
	}

	body, contentType := multipartBody(t, nil, "file", "universities.xlsx", []byte(content))
	req := httptest.NewRequest("POST", "/en/dashboard/universities/import", body)
	req.Header.Set("Content-Type", contentType)
	resp, _ = f.send(t, req)
	if resp.StatusCode != fiber.StatusSeeOther {
		t.Fatalf("import status = %d", resp.StatusCode)
	}

	list, _ := f.service.List(context.Background(), "")
	if len(list) == 0 {
		t.Fatal("template rows should be imported")
	}
	_, page := f.get(t, "/en/dashboard/universities")
	if !strings.Contains(page, "Import completed!") {
		t.Fatal("import result should be flashed")
	}
}

func TestImportRejectsOtherFiles(t *testing.T) {
	f := newFixture(t)
	body, contentType := multipartBody(t, nil, "file", "notes.txt", []byte("hello"))
	req := httptest.NewRequest("POST", "/en/dashboard/universities/import", body)
	req.Header.Set("Content-Type", contentType)
	f.send(t, req)

	_, page := f.get(t, "/en/dashboard/universities")
	if !strings.Contains(page, "Check the file format") {
		t.Fatal("a non-workbook upload should flash the import error")
	}
}

func TestPrintIsArabic(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "جامعة القاهرة")
	resp, body := f.get(t, "/en/dashboard/universities/print")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, `dir="rtl"`) || !strings.Contains(body, "جامعة القاهرة") {
		t.Fatal("print document should be right to left and list the university")
	}
	if strings.Contains(body, `class="sidebar`) {
		t.Fatal("print document has no dashboard layout")
	}
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code   string            `json:"code"`
		Fields map[string]string `json:"fields"`
	} `json:"error"`
	Pagination struct {
		Total      int64 `json:"total"`
		TotalPages int   `json:"total_pages"`
	} `json:"pagination"`
}

func decode(t *testing.T, body string) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		t.Fatalf("decode %q: %v", body, err)
	}
	return env
}

func TestAPICrud(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest("POST", "/api/v1/universities", strings.NewReader(`{"university_name":"  Cairo University "}`))
	req.Header.Set("Content-Type", "application/json")
	resp, body := f.send(t, req)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("create status = %d body = %s", resp.StatusCode, body)
	}
	var created model.University
	if err := json.Unmarshal(decode(t, body).Data, &created); err != nil {
		t.Fatal(err)
	}
	if created.UniversityID != 1 || created.UniversityName != "Cairo University" {
		t.Fatalf("created = %+v", created)
	}

	req = httptest.NewRequest("POST", "/api/v1/universities", strings.NewReader(`{"university_name":""}`))
	req.Header.Set("Content-Type", "application/json")
	resp, body = f.send(t, req)
	if resp.StatusCode != fiber.StatusUnprocessableEntity {
		t.Fatalf("invalid create status = %d", resp.StatusCode)
	}
	if env := decode(t, body); env.Error == nil || env.Error.Fields["university_name"] == "" {
		t.Fatalf("envelope = %s", body)
	}

	req = httptest.NewRequest("PUT", "/api/v1/universities/9", strings.NewReader(`{"university_name":"Nowhere"}`))
	req.Header.Set("Content-Type", "application/json")
	if resp, _ = f.send(t, req); resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("update unknown status = %d", resp.StatusCode)
	}

	if resp, _ = f.send(t, httptest.NewRequest("DELETE", "/api/v1/universities/1", nil)); resp.StatusCode != fiber.StatusOK {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}
	if resp, _ = f.get(t, "/api/v1/universities/1"); resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("get deleted status = %d", resp.StatusCode)
	}
}

func TestAPIListPaginates(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "A", "B", "C", "D", "E")

	_, body := f.get(t, "/api/v1/universities?page=2&limit=2")
	env := decode(t, body)
	var page []model.University
	if err := json.Unmarshal(env.Data, &page); err != nil {
		t.Fatal(err)
	}
	if len(page) != 2 || page[0].UniversityName != "C" {
		t.Fatalf("page = %+v", page)
	}
	if env.Pagination.Total != 5 || env.Pagination.TotalPages != 3 {
		t.Fatalf("pagination = %+v", env.Pagination)
	}

	_, body = f.get(t, "/api/v1/universities?page=9&limit=2")
	if err := json.Unmarshal(decode(t, body).Data, &page); err != nil || len(page) != 0 {
		t.Fatalf("past the end: %v %+v", err, page)
	}
}
