package signup

import (
	"strconv"
	"strings"

	"github.com/qaunion/portal/i18n"
	"github.com/qaunion/portal/model"
)

// Option is one entry of a searchable select
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FilterOptions keeps options whose label contains term, ignoring case.
// An empty term keeps everything.
func FilterOptions(options []Option, term string) []Option {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return options
	}
	out := make([]Option, 0, len(options))
	for _, o := range options {
		if strings.Contains(strings.ToLower(o.Label), term) {
			out = append(out, o)
		}
	}
	return out
}

// Contains reports whether value is one of the options
func Contains(options []Option, value string) bool {
	for _, o := range options {
		if o.Value == value {
			return true
		}
	}
	return false
}

// LabelFor returns the label of value, or value itself when absent
func LabelFor(options []Option, value string) string {
	for _, o := range options {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

func UserTypeOptions(types []model.UserType) []Option {
	out := make([]Option, 0, len(types))
	for _, t := range types {
		out = append(out, Option{Value: strconv.Itoa(t.UserTypeID), Label: t.UserTypeName})
	}
	return out
}

func UniversityOptions(unis []model.University) []Option {
	out := make([]Option, 0, len(unis))
	for _, u := range unis {
		out = append(out, Option{Value: strconv.Itoa(u.UniversityID), Label: u.UniversityName})
	}
	return out
}

func FacultyOptions(faculties []model.Faculty) []Option {
	out := make([]Option, 0, len(faculties))
	for _, f := range faculties {
		out = append(out, Option{Value: strconv.Itoa(f.FacultyID), Label: f.FacultyName})
	}
	return out
}

func ProgramOptions(programs []model.Program) []Option {
	out := make([]Option, 0, len(programs))
	for _, p := range programs {
		out = append(out, Option{Value: strconv.Itoa(p.ProgramID), Label: p.ProgramName})
	}
	return out
}

type bilingual struct {
	value  string
	ar, en string
}

var levels = []bilingual{
	{"1", "الفرقة الإعدادية", "Preparatory year"},
	{"2", "الفرقة الأولى", "First year"},
	{"3", "الفرقة الثانية", "Second year"},
	{"4", "الفرقة الثالثة", "Third year"},
	{"5", "الفرقة الرابعة", "Fourth year"},
	{"6", "الفرقة الخامسة", "Fifth year"},
}

var standards = []bilingual{
	{"1", "المعيار الأول: الرؤية والرسالة", "Standard 1: Vision and mission"},
	{"2", "المعيار الثاني: القيادة والحوكمة", "Standard 2: Leadership and governance"},
	{"3", "المعيار الثالث: أعضاء هيئة التدريس", "Standard 3: Faculty members"},
	{"4", "المعيار الرابع: الموارد المادية والمالية", "Standard 4: Physical and financial resources"},
	{"5", "المعيار الخامس: المعايير الأكاديمية", "Standard 5: Academic standards"},
	{"6", "المعيار السادس: البرامج التعليمية", "Standard 6: Educational programs"},
	{"7", "المعيار السابع: التدريس والتعلم", "Standard 7: Teaching and learning"},
	{"8", "المعيار الثامن: الطلاب والخريجون", "Standard 8: Students and graduates"},
	{"9", "المعيار التاسع: البحث العلمي والأنشطة العلمية", "Standard 9: Scientific research and activities"},
	{"10", "المعيار العاشر: الدراسات العليا", "Standard 10: Postgraduate studies"},
	{"11", "المعيار الحادي عشر: التقييم المستمر", "Standard 11: Continuous evaluation"},
}

var genders = []bilingual{
	{"male", "ذكر", "Male"},
	{"female", "أنثى", "Female"},
}

func localize(items []bilingual, l i18n.Locale) []Option {
	out := make([]Option, 0, len(items))
	for _, it := range items {
		label := it.ar
		if l == i18n.English {
			label = it.en
		}
		out = append(out, Option{Value: it.value, Label: label})
	}
	return out
}

// LevelOptions lists the academic levels, preparatory through fifth year
func LevelOptions(l i18n.Locale) []Option { return localize(levels, l) }

// StandardOptions lists the eleven accreditation standards
func StandardOptions(l i18n.Locale) []Option { return localize(standards, l) }

func GenderOptions(l i18n.Locale) []Option { return localize(genders, l) }
