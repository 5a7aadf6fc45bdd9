// Package signup holds the registration wizard rules: which affiliation fields a
// user type must fill in, how many steps the wizard has, and step validation.
package signup

// UserTypeCode is the stable identifier of a user type. The Arabic label served
// by the backend is only a display attribute and is mapped through CodeForLabel.
type UserTypeCode string

const (
	CodeUnknown            UserTypeCode = ""
	CodeGeneralSupervisor  UserTypeCode = "general_supervisor"
	CodeUniversityAdmin    UserTypeCode = "university_admin"
	CodeFacultyAdmin       UserTypeCode = "faculty_admin"
	CodeDoctor             UserTypeCode = "doctor"
	CodeProfessor          UserTypeCode = "professor"
	CodeAssistantProfessor UserTypeCode = "assistant_professor"
	CodeTeachingAssistant  UserTypeCode = "teaching_assistant"
	CodeAssistantLecturer  UserTypeCode = "assistant_lecturer"
	CodeEmployee           UserTypeCode = "employee"
	CodeUndergraduate      UserTypeCode = "undergraduate"
	CodeGraduate           UserTypeCode = "graduate"
	CodePostgraduate       UserTypeCode = "postgraduate"
	CodeMasterStudent      UserTypeCode = "master_student"
	CodeDoctorateStudent   UserTypeCode = "doctorate_student"
	CodeVisitor            UserTypeCode = "visitor"
)

var labels = map[UserTypeCode]string{
	CodeGeneralSupervisor:  "مشرف عام",
	CodeUniversityAdmin:    "إداري جامعة",
	CodeFacultyAdmin:       "إداري كلية",
	CodeDoctor:             "دكتور",
	CodeProfessor:          "أستاذ",
	CodeAssistantProfessor: "أستاذ مساعد",
	CodeTeachingAssistant:  "معيد",
	CodeAssistantLecturer:  "مدرس مساعد",
	CodeEmployee:           "موظف",
	CodeUndergraduate:      "طالب بكالوريوس",
	CodeGraduate:           "خريج",
	CodePostgraduate:       "طالب دراسات عليا",
	CodeMasterStudent:      "طالب ماجستير",
	CodeDoctorateStudent:   "طالب دكتوراه",
	CodeVisitor:            "زائر",
}

var codesByLabel = func() map[string]UserTypeCode {
	m := make(map[string]UserTypeCode, len(labels))
	for code, label := range labels {
		m[label] = code
	}
	return m
}()

// CodeForLabel maps a backend label to its code by exact match
func CodeForLabel(label string) UserTypeCode {
	return codesByLabel[label]
}

// Label returns the display label of a code, empty for CodeUnknown
func (c UserTypeCode) Label() string {
	return labels[c]
}

// FieldSet says which affiliation fields the wizard collects and how many steps it has
type FieldSet struct {
	ShowUniversity bool `json:"showUniversity"`
	ShowFaculty    bool `json:"showFaculty"`
	ShowDepartment bool `json:"showDepartment"`
	ShowLevel      bool `json:"showLevel"`
	ShowStandard   bool `json:"showStandard"`
	MaxSteps       int  `json:"maxSteps"`
}

var (
	noAffiliation      = FieldSet{MaxSteps: 1}
	universityOnly     = FieldSet{ShowUniversity: true, MaxSteps: 2}
	universityFaculty  = FieldSet{ShowUniversity: true, ShowFaculty: true, MaxSteps: 2}
	withDepartment     = FieldSet{ShowUniversity: true, ShowFaculty: true, ShowDepartment: true, MaxSteps: 2}
	allFields          = FieldSet{ShowUniversity: true, ShowFaculty: true, ShowDepartment: true, ShowLevel: true, ShowStandard: true, MaxSteps: 3}
	permissiveFallback = allFields
)

var rules = map[UserTypeCode]FieldSet{
	CodeGeneralSupervisor:  noAffiliation,
	CodeUniversityAdmin:    universityOnly,
	CodeFacultyAdmin:       universityFaculty,
	CodeDoctor:             universityFaculty,
	CodeProfessor:          universityFaculty,
	CodeAssistantProfessor: universityFaculty,
	CodeTeachingAssistant:  universityFaculty,
	CodeAssistantLecturer:  universityFaculty,
	CodeEmployee:           universityFaculty,
	CodeUndergraduate:      allFields,
	CodeGraduate:           withDepartment,
	CodePostgraduate:       withDepartment,
	CodeVisitor:            universityFaculty,
}

// Resolve returns the field set for a code. Codes without a rule, including
// CodeUnknown, get every field and three steps.
func Resolve(code UserTypeCode) FieldSet {
	if fs, ok := rules[code]; ok {
		return fs
	}
	return permissiveFallback
}

// ResolveLabel resolves a backend user-type label
func ResolveLabel(label string) FieldSet {
	return Resolve(CodeForLabel(label))
}

// Program types used to filter departments
const (
	ProgramTypeAny           = 0
	ProgramTypeUndergraduate = 1
	ProgramTypePostgraduate  = 2
	ProgramTypeDoctorate     = 3
)

// ProgramType selects which programs are offered as departments; ProgramTypeAny
// means every program of the faculty.
func ProgramType(code UserTypeCode) int {
	switch code {
	case CodeUndergraduate:
		return ProgramTypeUndergraduate
	case CodePostgraduate, CodeMasterStudent:
		return ProgramTypePostgraduate
	case CodeDoctorateStudent:
		return ProgramTypeDoctorate
	default:
		return ProgramTypeAny
	}
}
