package university

import (
	"bytes"
	"errors"
	"log"
	"mime/multipart"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/qaunion/portal/database"
	"github.com/qaunion/portal/handlers"
	"github.com/qaunion/portal/i18n"
	"github.com/qaunion/portal/model"
	"github.com/qaunion/portal/services"
	"github.com/qaunion/portal/utils/filevalidation"
	"github.com/qaunion/portal/utils/middleware"
	"github.com/qaunion/portal/utils/sessions"
	"github.com/qaunion/portal/utils/validation"
	"github.com/xuri/excelize/v2"
)

// List views
const (
	ViewGrid = "grid"
	ViewList = "list"
)

// UniversityHandler handles the universities screens and their JSON API
type UniversityHandler struct {
	universities *services.UniversityService
	logos        *services.LogoService
	validator    *validation.Validator
}

// NewUniversityHandler creates a new university handler
func NewUniversityHandler(universities *services.UniversityService, logos *services.LogoService) *UniversityHandler {
	return &UniversityHandler{
		universities: universities,
		logos:        logos,
		validator:    validation.NewValidator(),
	}
}

func basePath(l i18n.Locale) string {
	return "/" + l.String() + "/dashboard/universities"
}

// Index handles GET /:locale/dashboard/universities
func (h *UniversityHandler) Index(c *fiber.Ctx) error {
	l := middleware.CurrentLocale(c)
	page := handlers.DashboardPage(c, "universities.title")

	view := c.Query("view", ViewGrid)
	if view != ViewList {
		view = ViewGrid
	}
	query := c.Query("q")

	list, err := h.universities.List(c.UserContext(), query)
	if err != nil {
		log.Printf("Failed to list universities: %v", err)
		page["Flash"] = &sessions.Flash{Kind: sessions.FlashError, Message: i18n.T(l, "universities.errors.load")}
		list = []model.University{}
	}

	page["View"] = view
	page["Query"] = query
	page["Universities"] = list
	page["Count"] = len(list)
	return c.Render("universities/index", page, handlers.LayoutDashboard)
}

// universityForm is the state of the create/edit form
type universityForm struct {
	editing   bool
	id        int
	input     model.UniversityInput
	method    string
	logoURL   string
	current   string
	fields    map[string]string
	logoError string
	err       string
}

func (h *UniversityHandler) renderForm(c *fiber.Ctx, f universityForm) error {
	l := middleware.CurrentLocale(c)
	titleKey := "universities.create"
	action := basePath(l) + "/create"
	if f.editing {
		titleKey = "universities.edit"
		action = basePath(l) + "/edit/" + strconv.Itoa(f.id)
	}
	page := handlers.DashboardPage(c, titleKey)
	page["Editing"] = f.editing
	page["Action"] = action
	page["Name"] = f.input.Name
	page["LogoMethod"] = f.method
	page["LogoURL"] = f.logoURL
	page["CurrentLogo"] = f.current
	page["Fields"] = f.fields
	page["LogoError"] = f.logoError
	page["Error"] = f.err
	return c.Render("universities/form", page, handlers.LayoutDashboard)
}

// New handles GET /:locale/dashboard/universities/create
func (h *UniversityHandler) New(c *fiber.Ctx) error {
	return h.renderForm(c, universityForm{method: services.LogoMethodFile})
}

// Edit handles GET /:locale/dashboard/universities/edit/:id
func (h *UniversityHandler) Edit(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return h.notFound(c)
	}
	u, err := h.universities.Get(c.UserContext(), id)
	if err != nil {
		return h.notFound(c)
	}

	f := universityForm{
		editing: true,
		id:      id,
		input:   model.UniversityInput{Name: u.UniversityName, Logo: u.UniversityLogo},
		method:  services.LogoMethodFile,
		current: u.UniversityLogo,
	}
	return h.renderForm(c, f)
}

func (h *UniversityHandler) notFound(c *fiber.Ctx) error {
	page := handlers.DashboardPage(c, "universities.edit")
	page["NotFound"] = true
	c.Status(fiber.StatusNotFound)
	return c.Render("universities/form", page, handlers.LayoutDashboard)
}

// Create handles POST /:locale/dashboard/universities/create
func (h *UniversityHandler) Create(c *fiber.Ctx) error {
	return h.save(c, universityForm{})
}

// Update handles POST /:locale/dashboard/universities/edit/:id
func (h *UniversityHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return h.notFound(c)
	}
	u, err := h.universities.Get(c.UserContext(), id)
	if err != nil {
		return h.notFound(c)
	}
	return h.save(c, universityForm{editing: true, id: id, current: u.UniversityLogo})
}

func (h *UniversityHandler) save(c *fiber.Ctx, f universityForm) error {
	l := middleware.CurrentLocale(c)
	ctx := c.UserContext()

	f.input.Name = c.FormValue("university_name")
	f.method = c.FormValue("logo_method", services.LogoMethodFile)
	f.logoURL = c.FormValue("logo_url")

	req := services.LogoRequest{
		Method:  f.method,
		URL:     f.logoURL,
		File:    formFile(c, "logo_file"),
		Remove:  c.FormValue("remove_logo") != "",
		Current: f.current,
	}
	logo, warning, err := h.logos.Resolve(ctx, middleware.CurrentToken(c), req)
	var logoErr *services.LogoError
	switch {
	case errors.As(err, &logoErr):
		f.logoError = i18n.T(l, logoErr.Key)
		c.Status(fiber.StatusUnprocessableEntity)
		return h.renderForm(c, f)
	case err != nil:
		log.Printf("Logo processing failed: %v", err)
		f.err = i18n.T(l, "universities.errors.save")
		c.Status(fiber.StatusInternalServerError)
		return h.renderForm(c, f)
	}
	f.input.Logo = logo
	f.input.Normalize()

	if err := h.validator.ValidateStruct(&f.input); err != nil {
		f.fields = h.validator.FormatValidationErrors(err, l)
		if _, ok := f.fields["university_name"]; ok && f.input.Name == "" {
			f.fields["university_name"] = i18n.T(l, "universities.errors.nameRequired")
		}
		c.Status(fiber.StatusUnprocessableEntity)
		return h.renderForm(c, f)
	}

	flashKey := "universities.created"
	if f.editing {
		_, err = h.universities.Update(ctx, f.id, f.input)
		flashKey = "universities.updated"
	} else {
		_, err = h.universities.Create(ctx, f.input)
	}
	switch {
	case errors.Is(err, database.ErrNotFound):
		return h.notFound(c)
	case errors.Is(err, services.ErrNameRequired):
		f.fields = map[string]string{"university_name": i18n.T(l, err.Error())}
		c.Status(fiber.StatusUnprocessableEntity)
		return h.renderForm(c, f)
	case err != nil:
		log.Printf("Failed to save university: %v", err)
		f.err = i18n.T(l, "universities.errors.save")
		c.Status(fiber.StatusInternalServerError)
		return h.renderForm(c, f)
	}

	if warning != "" {
		handlers.SetFlash(c, sessions.FlashError, i18n.T(l, warning))
	} else {
		handlers.SetFlash(c, sessions.FlashSuccess, i18n.T(l, flashKey))
	}
	return c.Redirect(basePath(l), fiber.StatusSeeOther)
}

// ConfirmDelete handles GET /:locale/dashboard/universities/delete/:id
func (h *UniversityHandler) ConfirmDelete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return h.notFound(c)
	}
	u, err := h.universities.Get(c.UserContext(), id)
	if err != nil {
		return h.notFound(c)
	}
	page := handlers.DashboardPage(c, "universities.confirmDeleteTitle")
	page["University"] = u
	return c.Render("universities/delete", page, handlers.LayoutDashboard)
}

// Delete handles POST /:locale/dashboard/universities/delete/:id. Deleting an
// id that does not exist leaves the list unchanged.
func (h *UniversityHandler) Delete(c *fiber.Ctx) error {
	l := middleware.CurrentLocale(c)
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Redirect(basePath(l), fiber.StatusSeeOther)
	}
	if err := h.universities.Delete(c.UserContext(), id); err != nil {
		log.Printf("Failed to delete university %d: %v", id, err)
		handlers.SetFlash(c, sessions.FlashError, i18n.T(l, "universities.errors.delete"))
	} else {
		handlers.SetFlash(c, sessions.FlashSuccess, i18n.T(l, "universities.deleted"))
	}
	return c.Redirect(basePath(l), fiber.StatusSeeOther)
}

// Print handles GET /:locale/dashboard/universities/print. The document is
// always Arabic and right to left and has no layout; the list page loads it
// into a hidden frame.
func (h *UniversityHandler) Print(c *fiber.Ctx) error {
	doc, err := h.universities.Print(c.UserContext())
	if err != nil {
		return err
	}
	return c.Render("universities/print", fiber.Map{"Document": doc})
}

// Export handles GET /:locale/dashboard/universities/export
func (h *UniversityHandler) Export(c *fiber.Ctx) error {
	l := middleware.CurrentLocale(c)
	f, err := h.universities.Export(c.UserContext())
	if errors.Is(err, services.ErrNothingToExport) {
		handlers.SetFlash(c, sessions.FlashError, i18n.T(l, err.Error()))
		return c.Redirect(basePath(l), fiber.StatusSeeOther)
	}
	if err != nil {
		return err
	}
	return sendWorkbook(c, f, exportASCIIName, h.universities.ExportFileName())
}

// Template handles GET /:locale/dashboard/universities/template
func (h *UniversityHandler) Template(c *fiber.Ctx) error {
	f, err := services.TemplateWorkbook()
	if err != nil {
		return err
	}
	return sendWorkbook(c, f, templateASCIIName, services.TemplateFileName)
}

// Import handles POST /:locale/dashboard/universities/import
func (h *UniversityHandler) Import(c *fiber.Ctx) error {
	l := middleware.CurrentLocale(c)
	result, key := h.importUpload(c)
	if key != "" {
		handlers.SetFlash(c, sessions.FlashError, i18n.T(l, key))
		return c.Redirect(basePath(l), fiber.StatusSeeOther)
	}
	handlers.SetFlash(c, sessions.FlashSuccess, i18n.T(l, "universities.importResult",
		"succeeded", i18n.Digits(l, strconv.Itoa(result.Succeeded)),
		"failed", i18n.Digits(l, strconv.Itoa(result.Failed))))
	return c.Redirect(basePath(l), fiber.StatusSeeOther)
}

// importUpload reads the "file" part and imports it. key is a dictionary key
// describing why nothing was imported.
func (h *UniversityHandler) importUpload(c *fiber.Ctx) (services.ImportResult, string) {
	file := formFile(c, "file")
	if file == nil {
		return services.ImportResult{}, "universities.errors.noFile"
	}
	checked, err := filevalidation.ValidateFile(file, filevalidation.WorkbookLimits)
	if err != nil {
		log.Printf("Failed to read import file: %v", err)
		return services.ImportResult{}, services.ErrInvalidWorkbook.Error()
	}
	if !checked.Valid {
		return services.ImportResult{}, checked.Error
	}

	result, err := h.universities.Import(c.UserContext(), bytes.NewReader(checked.Content))
	if err != nil {
		log.Printf("Import failed: %v", err)
		return services.ImportResult{}, services.ErrInvalidWorkbook.Error()
	}
	return result, ""
}

func formFile(c *fiber.Ctx, name string) *multipart.FileHeader {
	fh, err := c.FormFile(name)
	if err != nil || fh == nil || fh.Size == 0 {
		return nil
	}
	return fh
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ASCII fallbacks for clients that ignore filename*
const (
	exportASCIIName   = "universities.xlsx"
	templateASCIIName = "universities_template.xlsx"
)

func sendWorkbook(c *fiber.Ctx, f *excelize.File, asciiName, filename string) error {
	defer f.Close()
	buf, err := f.WriteToBuffer()
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+asciiName+`"; filename*=UTF-8''`+url.PathEscape(filename))
	return c.Send(buf.Bytes())
}
