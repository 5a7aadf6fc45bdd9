package signup

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/qaunion/portal/model"
)

// Step errors carry the dictionary key of their message as text
var (
	ErrMissingBasic      = errors.New("signup.errors.required")
	ErrMissingUniversity = errors.New("signup.errors.university")
	ErrMissingFaculty    = errors.New("signup.errors.faculty")
	ErrMissingDepartment = errors.New("signup.errors.department")
	ErrMissingLevel      = errors.New("signup.errors.level")
	ErrTermsNotAccepted  = errors.New("signup.errors.terms")
	ErrInvalidStep       = errors.New("signup.errors.step")
)

// FormData is the flat record collected over the wizard steps
type FormData struct {
	FullName     string `json:"fullName" form:"fullName"`
	Email        string `json:"email" form:"email"`
	Phone        string `json:"phone" form:"phone"`
	NationalID   string `json:"nationalId" form:"nationalId"`
	Gender       string `json:"gender" form:"gender"`
	Password     string `json:"password" form:"password"`
	UserTypeID   string `json:"userTypeId" form:"userTypeId"`
	UniversityID string `json:"universityId" form:"universityId"`
	FacultyID    string `json:"facultyId" form:"facultyId"`
	Department   string `json:"department" form:"department"`
	Level        string `json:"level" form:"level"`
	StandardID   string `json:"standardId" form:"standardId"`
}

// Wizard is the per-visitor signup session
type Wizard struct {
	Step         int      `json:"step"`
	Data         FormData `json:"data"`
	UserTypeName string   `json:"userTypeName"`
	AcceptTerms  bool     `json:"acceptTerms"`
}

func NewWizard() *Wizard {
	return &Wizard{Step: 1}
}

// DecodeWizard restores a wizard from its session form; bad input starts over
func DecodeWizard(raw string) *Wizard {
	w := NewWizard()
	if raw == "" {
		return w
	}
	if err := json.Unmarshal([]byte(raw), w); err != nil {
		return NewWizard()
	}
	w.clampStep()
	return w
}

func (w *Wizard) Encode() (string, error) {
	b, err := json.Marshal(w)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Code is the stable code of the selected user type
func (w *Wizard) Code() UserTypeCode {
	return CodeForLabel(w.UserTypeName)
}

func (w *Wizard) Fields() FieldSet {
	return ResolveLabel(w.UserTypeName)
}

func (w *Wizard) MaxSteps() int {
	return w.Fields().MaxSteps
}

// IsLast reports whether the current step submits the form
func (w *Wizard) IsLast() bool {
	return w.Step >= w.MaxSteps()
}

// SetUserType records the selected user type id and resolves its label from options
func (w *Wizard) SetUserType(id string, options []Option) {
	w.Data.UserTypeID = id
	w.UserTypeName = ""
	if id != "" && Contains(options, id) {
		w.UserTypeName = LabelFor(options, id)
	}
	w.clampStep()
}

// Merge copies the submitted fields of the current step onto the wizard
func (w *Wizard) Merge(in FormData) {
	switch w.Step {
	case 1:
		w.Data.FullName = strings.TrimSpace(in.FullName)
		w.Data.Email = strings.TrimSpace(in.Email)
		w.Data.Phone = strings.TrimSpace(in.Phone)
		w.Data.NationalID = strings.TrimSpace(in.NationalID)
		w.Data.Gender = in.Gender
		if in.Password != "" {
			w.Data.Password = in.Password
		}
	case 2:
		w.Data.UniversityID = in.UniversityID
		w.Data.FacultyID = in.FacultyID
		w.Data.Department = in.Department
		w.Data.Level = in.Level
	case 3:
		w.Data.StandardID = in.StandardID
	}
}

// Validate checks the fields shown on the current step
func (w *Wizard) Validate() error {
	switch w.Step {
	case 1:
		d := w.Data
		if d.FullName == "" || d.Email == "" || d.Phone == "" || d.NationalID == "" ||
			d.Gender == "" || d.Password == "" || d.UserTypeID == "" {
			return ErrMissingBasic
		}
		return nil
	case 2:
		fs := w.Fields()
		switch {
		case fs.ShowUniversity && w.Data.UniversityID == "":
			return ErrMissingUniversity
		case fs.ShowFaculty && w.Data.FacultyID == "":
			return ErrMissingFaculty
		case fs.ShowDepartment && w.Data.Department == "":
			return ErrMissingDepartment
		case fs.ShowLevel && w.Data.Level == "":
			return ErrMissingLevel
		}
		return nil
	case 3:
		return nil
	}
	return ErrInvalidStep
}

// Next validates the current step and advances. ready is true when the
// current step is the last one and the form should be submitted instead.
func (w *Wizard) Next() (ready bool, err error) {
	if err := w.Validate(); err != nil {
		return false, err
	}
	if w.IsLast() {
		return true, nil
	}
	w.Step++
	return false, nil
}

func (w *Wizard) Back() {
	if w.Step > 1 {
		w.Step--
	}
}

// Jump moves to an earlier step, used by the review edit links
func (w *Wizard) Jump(step int) {
	if step >= 1 && step <= w.Step {
		w.Step = step
	}
}

// ReconcileFaculty clears the faculty and everything below it when the
// refreshed options no longer contain it. It reports whether a reset happened.
func (w *Wizard) ReconcileFaculty(options []Option) bool {
	if w.Data.FacultyID == "" || Contains(options, w.Data.FacultyID) {
		return false
	}
	w.Data.FacultyID = ""
	w.Data.Department = ""
	return true
}

// ReconcileDepartment clears the department when it is no longer offered
func (w *Wizard) ReconcileDepartment(options []Option) bool {
	if w.Data.Department == "" || Contains(options, w.Data.Department) {
		return false
	}
	w.Data.Department = ""
	return true
}

// RegisterRequest builds the backend payload. The university is sent only when
// the user type collects it.
func (w *Wizard) RegisterRequest() (model.RegisterRequest, error) {
	userTypeID, err := strconv.Atoi(w.Data.UserTypeID)
	if err != nil {
		return model.RegisterRequest{}, ErrMissingBasic
	}
	req := model.RegisterRequest{
		Name:       w.Data.FullName,
		Email:      w.Data.Email,
		Password:   w.Data.Password,
		UserTypeID: userTypeID,
	}
	if w.Fields().ShowUniversity && w.Data.UniversityID != "" {
		id, err := strconv.Atoi(w.Data.UniversityID)
		if err != nil {
			return model.RegisterRequest{}, ErrMissingUniversity
		}
		req.UniversityID = &id
	}
	return req, nil
}

func (w *Wizard) clampStep() {
	if w.Step < 1 {
		w.Step = 1
	}
	if last := w.MaxSteps(); w.Step > last {
		w.Step = last
	}
}
