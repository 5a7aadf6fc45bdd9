package public

import (
	"encoding/json"
	"html/template"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/qaunion/portal/handlers"
	"github.com/qaunion/portal/i18n"
	"github.com/qaunion/portal/services"
	"github.com/qaunion/portal/services/signup"
	"github.com/qaunion/portal/utils/middleware"
	"github.com/qaunion/portal/utils/validation"
)

// SideArticles is how many articles sit beside the featured one
const SideArticles = 4

// Mailer relays contact messages
type Mailer interface {
	IsConfigured() bool
	SendContactMessage(m services.ContactMessage) error
}

// PublicHandler renders the landing page and accepts the contact form
type PublicHandler struct {
	mailer    Mailer
	validator *validation.Validator
}

// NewPublicHandler creates the handler. Without a configured mailer contact
// messages are only logged.
func NewPublicHandler(mailer Mailer) *PublicHandler {
	return &PublicHandler{mailer: mailer, validator: validation.NewValidator()}
}

// ContactForm is the contact section's form
type ContactForm struct {
	Name       string `json:"name" form:"name" validate:"required,max=120"`
	University string `json:"university" form:"university" validate:"required"`
	Email      string `json:"email" form:"email" validate:"required,email,max=255"`
	Message    string `json:"message" form:"message" validate:"required,max=5000"`
}

func (f *ContactForm) normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.University = strings.TrimSpace(f.University)
	f.Email = strings.TrimSpace(f.Email)
	f.Message = strings.TrimSpace(f.Message)
}

// Carousel is the news slider state for one request
type Carousel struct {
	Current i18n.Article
	Index   int
	Prev    int
	Next    int
	Side    []i18n.Article
	Total   int
}

// BuildCarousel features articles[index], wrapping out-of-range indexes, and
// lists the following articles beside it
func BuildCarousel(articles []i18n.Article, index int) Carousel {
	n := len(articles)
	if n == 0 {
		return Carousel{}
	}
	index = ((index % n) + n) % n

	c := Carousel{
		Current: articles[index],
		Index:   index,
		Prev:    (index - 1 + n) % n,
		Next:    (index + 1) % n,
		Total:   n,
	}
	for i := 1; i < n && len(c.Side) < SideArticles; i++ {
		c.Side = append(c.Side, articles[(index+i)%n])
	}
	return c
}

// RedirectRoot sends / to the locale negotiated from Accept-Language
func (h *PublicHandler) RedirectRoot(c *fiber.Ctx) error {
	l := i18n.Match(c.Get(fiber.HeaderAcceptLanguage))
	return c.Redirect("/"+l.String(), fiber.StatusFound)
}

// Home handles GET /:locale
func (h *PublicHandler) Home(c *fiber.Ctx) error {
	return h.render(c, ContactForm{}, nil, "")
}

// Contact handles POST /:locale/contact. Messages are not stored; a valid form
// is relayed by mail when possible, then acknowledged and cleared.
func (h *PublicHandler) Contact(c *fiber.Ctx) error {
	l := middleware.CurrentLocale(c)

	var form ContactForm
	if err := c.BodyParser(&form); err != nil {
		c.Status(fiber.StatusBadRequest)
		return h.render(c, form, nil, i18n.T(l, "contact.form.error"))
	}
	form.normalize()

	fields := map[string]string{}
	if err := h.validator.ValidateStruct(&form); err != nil {
		fields = h.validator.FormatValidationErrors(err, l)
	}
	if _, ok := fields["university"]; !ok && !signup.Contains(ContactUniversities, form.University) {
		fields["university"] = i18n.T(l, "validation.oneof")
	}
	if len(fields) > 0 {
		c.Status(fiber.StatusUnprocessableEntity)
		return h.render(c, form, fields, "")
	}

	if h.mailer != nil && h.mailer.IsConfigured() {
		err := h.mailer.SendContactMessage(services.ContactMessage{
			Name:       form.Name,
			University: form.University,
			Email:      form.Email,
			Message:    form.Message,
			Locale:     l.String(),
			SentAt:     time.Now(),
		})
		if err != nil {
			log.Printf("Failed to relay contact message from %s: %v", form.Email, err)
			c.Status(fiber.StatusServiceUnavailable)
			return h.render(c, form, nil, i18n.T(l, "contact.form.error"))
		}
	} else {
		log.Printf("Contact message received from %s (%s)", form.Email, form.University)
	}
	page := h.page(c, ContactForm{}, nil, "")
	page["ContactSent"] = true
	return c.Render("public/home", page, handlers.LayoutMain)
}

func (h *PublicHandler) render(c *fiber.Ctx, form ContactForm, fields map[string]string, formError string) error {
	return c.Render("public/home", h.page(c, form, fields, formError), handlers.LayoutMain)
}

func (h *PublicHandler) page(c *fiber.Ctx, form ContactForm, fields map[string]string, formError string) fiber.Map {
	l := middleware.CurrentLocale(c)
	dict := i18n.Get(l).Dict

	index, _ := strconv.Atoi(c.Query("news"))

	page := handlers.NewPage(c, "hero.title")
	page["Dict"] = dict
	page["News"] = BuildCarousel(dict.News.Articles, index)
	page["FAQOpen"] = c.QueryInt("faq", 0)
	page["Contact"] = form
	page["ContactErrors"] = fields
	page["ContactError"] = formError
	page["ContactUniversities"] = ContactUniversities
	page["MapData"] = mapData(l)
	return page
}

// mapData is the JSON read by static/js/map.js
func mapData(l i18n.Locale) template.JS {
	b, err := json.Marshal(fiber.Map{
		"center":  []float64{MapCenterLat, MapCenterLng},
		"zoom":    MapZoom,
		"tiles":   MapTiles,
		"markers": MapMarkers(l),
	})
	if err != nil {
		return "{}"
	}
	return template.JS(b)
}
