package auth

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/qaunion/portal/handlers"
	"github.com/qaunion/portal/i18n"
	"github.com/qaunion/portal/services/backend"
	"github.com/qaunion/portal/services/signup"
	"github.com/qaunion/portal/utils/middleware"
	"github.com/qaunion/portal/utils/sessions"
)

// Wizard actions posted by the signup form
const (
	ActionNext    = "next"
	ActionBack    = "back"
	ActionSubmit  = "submit"
	ActionRefresh = "refresh"
	actionEdit    = "edit:"
)

// stepOptions are the option lists a wizard step may show
type stepOptions struct {
	UserTypes    []signup.Option
	Universities []signup.Option
	Faculties    []signup.Option
	Departments  []signup.Option
}

// ReviewRow is one line of the summary shown on the last step
type ReviewRow struct {
	Step  int
	Label string
	Value string
}

// StepTitle labels the step bar
type StepTitle struct {
	Title   string
	Done    bool
	Current bool
}

// SignupPage handles GET /:locale/signup
func (h *AuthHandler) SignupPage(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c)
	if err != nil {
		return err
	}
	w := signup.DecodeWizard(sessions.Wizard(sess))
	opts, errKey := h.loadOptions(c.UserContext(), w)
	return h.renderSignup(c, w, opts, errKey)
}

// Signup handles POST /:locale/signup. The form's action button decides
// between next, back, edit:<step>, refresh and submit.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c)
	if err != nil {
		return err
	}
	w := signup.DecodeWizard(sessions.Wizard(sess))
	ctx := c.UserContext()

	var in signup.FormData
	if err := c.BodyParser(&in); err != nil {
		c.Status(fiber.StatusBadRequest)
		opts, _ := h.loadOptions(ctx, w)
		return h.renderSignup(c, w, opts, "errors.badRequest")
	}
	action := c.FormValue("action", ActionNext)

	if w.Step == 1 {
		types, err := h.lookups.UserTypes(ctx)
		if err != nil {
			log.Printf("Failed to load user types: %v", err)
		}
		w.SetUserType(in.UserTypeID, signup.UserTypeOptions(types))
	}
	w.Merge(in)
	if w.IsLast() {
		w.AcceptTerms = c.FormValue("acceptTerms") != ""
	}

	opts, errKey := h.loadOptions(ctx, w)

	submit := false
	switch {
	case action == ActionBack:
		w.Back()
	case strings.HasPrefix(action, actionEdit):
		step, _ := strconv.Atoi(strings.TrimPrefix(action, actionEdit))
		w.Jump(step)
	case action == ActionRefresh:
	case action == ActionSubmit:
		submit = true
	default:
		ready, err := w.Next()
		if err != nil {
			errKey = err.Error()
		}
		submit = ready
	}

	if submit {
		if key := h.submit(c, sess, w); key != "" {
			errKey = key
		} else {
			return h.afterRegister(c, sess, w.Data.Email, w.Data.Password)
		}
	}

	h.saveWizard(sess, w)
	if errKey != "" {
		c.Status(fiber.StatusUnprocessableEntity)
	}
	return h.renderSignup(c, w, opts, errKey)
}

// submit validates the last step and registers. It returns a dictionary key
// or a backend message on failure, empty on success.
func (h *AuthHandler) submit(c *fiber.Ctx, sess *session.Session, w *signup.Wizard) string {
	if err := w.Validate(); err != nil {
		return err.Error()
	}
	if !w.IsLast() {
		return signup.ErrMissingBasic.Error()
	}
	if !w.AcceptTerms {
		return signup.ErrTermsNotAccepted.Error()
	}

	payload, err := w.RegisterRequest()
	if err != nil {
		return err.Error()
	}
	res, err := h.backend.Register(c.UserContext(), payload)
	if err != nil {
		log.Printf("Registration failed for %s: %v", payload.Email, err)
		if f := backend.Classify(err); f.Message != "" && f.Key == "" {
			return f.Message
		}
		return "signup.errors.failed"
	}
	if res.Rejected() {
		if res.Message != "" {
			return res.Message
		}
		return "signup.errors.failed"
	}

	sessions.ClearWizard(sess)
	return ""
}

// afterRegister signs the new account in and opens the dashboard, falling back
// to the login page when the backend does not accept the fresh credentials
func (h *AuthHandler) afterRegister(c *fiber.Ctx, sess *session.Session, email, password string) error {
	l := middleware.CurrentLocale(c)
	res, err := h.backend.Login(c.UserContext(), email, password)
	if err != nil {
		log.Printf("Sign-in after registration failed for %s: %v", email, err)
		if err := sess.Save(); err != nil {
			log.Printf("Session save failed: %v", err)
		}
		return c.Redirect("/"+l.String()+"/login", fiber.StatusSeeOther)
	}
	if err := sessions.SetAuth(sess, res.Token, res.User); err != nil {
		log.Printf("Session write failed: %v", err)
	}
	if err := sess.Save(); err != nil {
		log.Printf("Session save failed: %v", err)
	}
	return c.Redirect("/"+l.String()+"/dashboard", fiber.StatusSeeOther)
}

func (h *AuthHandler) saveWizard(sess *session.Session, w *signup.Wizard) {
	raw, err := w.Encode()
	if err != nil {
		log.Printf("Wizard encode failed: %v", err)
		return
	}
	sessions.SetWizard(sess, raw)
	if err := sess.Save(); err != nil {
		log.Printf("Session save failed: %v", err)
	}
}

// loadOptions fetches the lists the wizard needs and drops dependent choices
// that the refreshed lists no longer offer. errKey names the first lookup
// that failed.
func (h *AuthHandler) loadOptions(ctx context.Context, w *signup.Wizard) (opts stepOptions, errKey string) {
	types, err := h.lookups.UserTypes(ctx)
	if err != nil {
		log.Printf("Failed to load user types: %v", err)
		errKey = "signup.errors.userTypes"
	}
	opts.UserTypes = signup.UserTypeOptions(types)

	fields := w.Fields()
	if !fields.ShowUniversity {
		return opts, errKey
	}

	unis, err := h.lookups.Universities(ctx)
	if err != nil {
		log.Printf("Failed to load universities: %v", err)
		if errKey == "" {
			errKey = "signup.errors.lookup"
		}
	}
	opts.Universities = signup.UniversityOptions(unis)

	opts.Faculties = []signup.Option{}
	if fields.ShowFaculty {
		if uniID, err := strconv.Atoi(w.Data.UniversityID); err == nil {
			faculties, err := h.lookups.Faculties(ctx, uniID)
			if err != nil {
				log.Printf("Failed to load faculties for university %d: %v", uniID, err)
				if errKey == "" {
					errKey = "signup.errors.lookup"
				}
			}
			opts.Faculties = signup.FacultyOptions(faculties)
		}
		w.ReconcileFaculty(opts.Faculties)
	}

	opts.Departments = []signup.Option{}
	if fields.ShowDepartment {
		if facultyID, err := strconv.Atoi(w.Data.FacultyID); err == nil {
			programs, err := h.lookups.Programs(ctx, facultyID, signup.ProgramType(w.Code()))
			if err != nil {
				log.Printf("Failed to load programs for faculty %d: %v", facultyID, err)
				if errKey == "" {
					errKey = "signup.errors.lookup"
				}
			}
			opts.Departments = signup.ProgramOptions(programs)
		}
		w.ReconcileDepartment(opts.Departments)
	}
	return opts, errKey
}

func (h *AuthHandler) renderSignup(c *fiber.Ctx, w *signup.Wizard, opts stepOptions, errKey string) error {
	l := middleware.CurrentLocale(c)
	page := handlers.NewPage(c, "signup.title")
	page["Wizard"] = w
	page["Fields"] = w.Fields()
	page["Steps"] = stepTitles(l, w)
	page["UserTypes"] = opts.UserTypes
	page["Universities"] = opts.Universities
	page["Faculties"] = opts.Faculties
	page["Departments"] = opts.Departments
	page["Levels"] = signup.LevelOptions(l)
	page["Standards"] = signup.StandardOptions(l)
	page["Genders"] = signup.GenderOptions(l)
	page["Review"] = reviewRows(l, w, opts)
	if errKey != "" {
		page["Error"] = i18n.T(l, errKey)
	}
	return c.Render("auth/signup", page, handlers.LayoutMain)
}

var stepKeys = []string{"signup.basicInfo", "signup.academicInfo", "signup.academicInfoMore"}

func stepTitles(l i18n.Locale, w *signup.Wizard) []StepTitle {
	n := w.MaxSteps()
	out := make([]StepTitle, 0, n)
	for i := 1; i <= n && i <= len(stepKeys); i++ {
		out = append(out, StepTitle{Title: i18n.T(l, stepKeys[i-1]), Done: i < w.Step, Current: i == w.Step})
	}
	return out
}

// reviewRows lists what was entered, limited to the fields the user type collects
func reviewRows(l i18n.Locale, w *signup.Wizard, opts stepOptions) []ReviewRow {
	d := w.Data
	fields := w.Fields()
	rows := []ReviewRow{
		{1, i18n.T(l, "signup.fullName"), d.FullName},
		{1, i18n.T(l, "signup.userType"), w.UserTypeName},
		{1, i18n.T(l, "signup.email"), d.Email},
		{1, i18n.T(l, "signup.phone"), d.Phone},
		{1, i18n.T(l, "signup.nationalId"), d.NationalID},
		{1, i18n.T(l, "signup.gender"), labelOrEmpty(signup.GenderOptions(l), d.Gender)},
	}
	if fields.ShowUniversity {
		rows = append(rows, ReviewRow{2, i18n.T(l, "signup.university"), labelOrEmpty(opts.Universities, d.UniversityID)})
	}
	if fields.ShowFaculty {
		rows = append(rows, ReviewRow{2, i18n.T(l, "signup.faculty"), labelOrEmpty(opts.Faculties, d.FacultyID)})
	}
	if fields.ShowDepartment {
		rows = append(rows, ReviewRow{2, i18n.T(l, "signup.department"), labelOrEmpty(opts.Departments, d.Department)})
	}
	if fields.ShowLevel {
		rows = append(rows, ReviewRow{2, i18n.T(l, "signup.level"), labelOrEmpty(signup.LevelOptions(l), d.Level)})
	}
	if fields.ShowStandard && d.StandardID != "" {
		rows = append(rows, ReviewRow{3, i18n.T(l, "signup.standard"), labelOrEmpty(signup.StandardOptions(l), d.StandardID)})
	}
	return rows
}

func labelOrEmpty(options []signup.Option, value string) string {
	if value == "" {
		return ""
	}
	return signup.LabelFor(options, value)
}

// Option kinds served by the search endpoint
const (
	KindUserTypes    = "user-types"
	KindUniversities = "universities"
	KindFaculties    = "faculties"
	KindDepartments  = "departments"
	KindLevels       = "levels"
	KindStandards    = "standards"
)

var errUnknownKind = errors.New("unknown option kind")

// Options handles GET /:locale/signup/options/:kind?q= and returns the
// matching <option> elements. Faculties and departments follow the
// selections stored in the wizard.
func (h *AuthHandler) Options(c *fiber.Ctx) error {
	l := middleware.CurrentLocale(c)
	sess, err := h.sessions.Get(c)
	if err != nil {
		return err
	}
	w := signup.DecodeWizard(sessions.Wizard(sess))

	options, err := h.optionsFor(c.UserContext(), l, w, c.Params("kind"))
	if errors.Is(err, errUnknownKind) {
		return fiber.ErrNotFound
	}
	if err != nil {
		log.Printf("Option lookup failed: %v", err)
		return fiber.NewError(fiber.StatusBadGateway, i18n.T(l, "signup.errors.lookup"))
	}

	return c.Render("auth/options", fiber.Map{
		"Locale":  l,
		"Options": signup.FilterOptions(options, c.Query("q")),
	})
}

func (h *AuthHandler) optionsFor(ctx context.Context, l i18n.Locale, w *signup.Wizard, kind string) ([]signup.Option, error) {
	switch kind {
	case KindUserTypes:
		types, err := h.lookups.UserTypes(ctx)
		return signup.UserTypeOptions(types), err
	case KindUniversities:
		unis, err := h.lookups.Universities(ctx)
		return signup.UniversityOptions(unis), err
	case KindFaculties:
		id, err := strconv.Atoi(w.Data.UniversityID)
		if err != nil {
			return nil, nil
		}
		faculties, err := h.lookups.Faculties(ctx, id)
		return signup.FacultyOptions(faculties), err
	case KindDepartments:
		id, err := strconv.Atoi(w.Data.FacultyID)
		if err != nil {
			return nil, nil
		}
		programs, err := h.lookups.Programs(ctx, id, signup.ProgramType(w.Code()))
		return signup.ProgramOptions(programs), err
	case KindLevels:
		return signup.LevelOptions(l), nil
	case KindStandards:
		return signup.StandardOptions(l), nil
	}
	return nil, errUnknownKind
}
