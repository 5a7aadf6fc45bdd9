package public

import (
	"errors"
	"io"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/qaunion/portal/i18n"
	"github.com/qaunion/portal/services"
	"github.com/qaunion/portal/utils/middleware"
	"github.com/qaunion/portal/views"
)

type fakeMailer struct {
	err  error
	sent []services.ContactMessage
}

func (f *fakeMailer) IsConfigured() bool { return true }

func (f *fakeMailer) SendContactMessage(m services.ContactMessage) error {
	f.sent = append(f.sent, m)
	return f.err
}

func newApp() *fiber.App {
	return newAppWithMailer(nil)
}

func newAppWithMailer(mailer Mailer) *fiber.App {
	app := fiber.New(fiber.Config{Views: views.Engine()})
	h := NewPublicHandler(mailer)
	app.Get("/", h.RedirectRoot)
	loc := app.Group("/:locale", middleware.Locale())
	loc.Get("/", h.Home)
	loc.Post("/contact", h.Contact)
	return app
}

func do(t *testing.T, app *fiber.App, method, path string, form url.Values) (int, string, string) {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, resp.Header.Get("Location"), string(b)
}

func articles(n int) []i18n.Article {
	out := make([]i18n.Article, n)
	for i := range out {
		out[i] = i18n.Article{ID: i + 1}
	}
	return out
}

func TestBuildCarousel(t *testing.T) {
	tests := []struct {
		name      string
		n, index  int
		current   int
		prev      int
		next      int
		sideFirst int
		sideLen   int
	}{
		{"first", 6, 0, 1, 5, 1, 2, 4},
		{"wraps forward", 6, 6, 1, 5, 1, 2, 4},
		{"wraps backward", 6, -1, 6, 4, 0, 1, 4},
		{"short list", 3, 1, 2, 0, 2, 3, 2},
		{"single", 1, 0, 1, 0, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := BuildCarousel(articles(tt.n), tt.index)
			if c.Current.ID != tt.current || c.Prev != tt.prev || c.Next != tt.next {
				t.Fatalf("carousel = %+v", c)
			}
			if len(c.Side) != tt.sideLen {
				t.Fatalf("side = %d, want %d", len(c.Side), tt.sideLen)
			}
			if tt.sideLen > 0 && c.Side[0].ID != tt.sideFirst {
				t.Fatalf("side starts at %d, want %d", c.Side[0].ID, tt.sideFirst)
			}
		})
	}

	if c := BuildCarousel(nil, 3); c.Total != 0 {
		t.Fatalf("empty carousel = %+v", c)
	}
}

func TestRedirectRoot(t *testing.T) {
	status, location, _ := do(t, newApp(), "GET", "/", nil)
	if status != fiber.StatusFound || location != "/en" {
		t.Fatalf("status = %d location = %q", status, location)
	}
}

func TestHomeRendersBothLocales(t *testing.T) {
	app := newApp()
	status, _, body := do(t, app, "GET", "/ar", nil)
	if status != fiber.StatusOK || !strings.Contains(body, `dir="rtl"`) {
		t.Fatalf("arabic home: status = %d", status)
	}
	if !strings.Contains(body, `id="university-map-data"`) {
		t.Fatal("map data should be embedded")
	}

	_, _, body = do(t, app, "GET", "/en?faq=1", nil)
	if !strings.Contains(body, `dir="ltr"`) || !strings.Contains(body, "Quality Assurance Units Information System") {
		t.Fatal("english home should be left to right")
	}

	status, _, _ = do(t, app, "GET", "/fr", nil)
	if status != fiber.StatusNotFound {
		t.Fatalf("unsupported locale: status = %d", status)
	}
}

func TestContactValidation(t *testing.T) {
	app := newApp()
	status, _, body := do(t, app, "POST", "/en/contact", url.Values{
		"name": {""}, "email": {"not-an-email"}, "university": {"atlantis"}, "message": {"hi"},
	})
	if status != fiber.StatusUnprocessableEntity {
		t.Fatalf("status = %d", status)
	}
	if !strings.Contains(body, "The value is not allowed") {
		t.Fatal("unknown university should be rejected")
	}
	if strings.Contains(body, "Your message was sent successfully") {
		t.Fatal("invalid form must not be acknowledged")
	}
	if !strings.Contains(body, `value="not-an-email"`) {
		t.Fatal("entered values should be kept")
	}
}

func TestContactSent(t *testing.T) {
	status, _, body := do(t, newApp(), "POST", "/en/contact", url.Values{
		"name": {"Mona"}, "email": {"mona@example.com"}, "university": {"cairo"}, "message": {"Hello"},
	})
	if status != fiber.StatusOK || !strings.Contains(body, "Your message was sent successfully") {
		t.Fatalf("status = %d", status)
	}
	if strings.Contains(body, `value="mona@example.com"`) {
		t.Fatal("form should be cleared after sending")
	}
}

func TestContactRelaysByMail(t *testing.T) {
	form := url.Values{"name": {"Mona"}, "email": {"mona@example.com"}, "university": {"tanta"}, "message": {"Hello"}}

	mailer := &fakeMailer{}
	status, _, _ := do(t, newAppWithMailer(mailer), "POST", "/ar/contact", form)
	if status != fiber.StatusOK || len(mailer.sent) != 1 {
		t.Fatalf("status = %d sent = %d", status, len(mailer.sent))
	}
	if got := mailer.sent[0]; got.University != "tanta" || got.Locale != "ar" {
		t.Fatalf("message = %+v", got)
	}

	failing := &fakeMailer{err: errors.New("smtp down")}
	status, _, body := do(t, newAppWithMailer(failing), "POST", "/en/contact", form)
	if status != fiber.StatusServiceUnavailable || !strings.Contains(body, "Something went wrong while sending your message") {
		t.Fatalf("failed relay: status = %d", status)
	}
	if !strings.Contains(body, `value="mona@example.com"`) {
		t.Fatal("a failed relay keeps the form")
	}
}

func TestMapMarkersFollowLocale(t *testing.T) {
	ar := MapMarkers(i18n.Arabic)
	en := MapMarkers(i18n.English)
	if len(ar) != len(en) || len(ar) == 0 {
		t.Fatalf("markers: %d ar, %d en", len(ar), len(en))
	}
	if ar[0].Label != "جامعة القاهرة" || en[0].Label != "Cairo University" {
		t.Fatalf("labels = %q / %q", ar[0].Label, en[0].Label)
	}
}
