package signup

import (
	"testing"

	"github.com/qaunion/portal/i18n"
)

func TestResolveLabel(t *testing.T) {
	tests := []struct {
		label string
		want  FieldSet
	}{
		{"مشرف عام", FieldSet{MaxSteps: 1}},
		{"إداري جامعة", FieldSet{ShowUniversity: true, MaxSteps: 2}},
		{"إداري كلية", FieldSet{ShowUniversity: true, ShowFaculty: true, MaxSteps: 2}},
		{"دكتور", FieldSet{ShowUniversity: true, ShowFaculty: true, MaxSteps: 2}},
		{"أستاذ", FieldSet{ShowUniversity: true, ShowFaculty: true, MaxSteps: 2}},
		{"أستاذ مساعد", FieldSet{ShowUniversity: true, ShowFaculty: true, MaxSteps: 2}},
		{"معيد", FieldSet{ShowUniversity: true, ShowFaculty: true, MaxSteps: 2}},
		{"مدرس مساعد", FieldSet{ShowUniversity: true, ShowFaculty: true, MaxSteps: 2}},
		{"موظف", FieldSet{ShowUniversity: true, ShowFaculty: true, MaxSteps: 2}},
		{"طالب بكالوريوس", FieldSet{ShowUniversity: true, ShowFaculty: true, ShowDepartment: true, ShowLevel: true, ShowStandard: true, MaxSteps: 3}},
		{"خريج", FieldSet{ShowUniversity: true, ShowFaculty: true, ShowDepartment: true, MaxSteps: 2}},
		{"طالب دراسات عليا", FieldSet{ShowUniversity: true, ShowFaculty: true, ShowDepartment: true, MaxSteps: 2}},
		{"زائر", FieldSet{ShowUniversity: true, ShowFaculty: true, MaxSteps: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			if got := ResolveLabel(tt.label); got != tt.want {
				t.Errorf("ResolveLabel(%q) = %+v, want %+v", tt.label, got, tt.want)
			}
		})
	}
}

func TestResolveUnknownIsPermissive(t *testing.T) {
	all := FieldSet{ShowUniversity: true, ShowFaculty: true, ShowDepartment: true, ShowLevel: true, ShowStandard: true, MaxSteps: 3}
	for _, label := range []string{"", "student", "طالب ماجستير", "طالب دكتوراه", " زائر"} {
		if got := ResolveLabel(label); got != all {
			t.Errorf("ResolveLabel(%q) = %+v, want permissive default", label, got)
		}
	}
	if got := Resolve(CodeUnknown); got != all {
		t.Errorf("Resolve(unknown) = %+v", got)
	}
}

func TestLabelsRoundTrip(t *testing.T) {
	for code, label := range labels {
		if CodeForLabel(label) != code {
			t.Errorf("label %q does not map back to %q", label, code)
		}
		if code.Label() != label {
			t.Errorf("code %q has label %q", code, code.Label())
		}
	}
}

func TestProgramType(t *testing.T) {
	tests := map[UserTypeCode]int{
		CodeUndergraduate:    ProgramTypeUndergraduate,
		CodePostgraduate:     ProgramTypePostgraduate,
		CodeMasterStudent:    ProgramTypePostgraduate,
		CodeDoctorateStudent: ProgramTypeDoctorate,
		CodeGraduate:         ProgramTypeAny,
		CodeUnknown:          ProgramTypeAny,
	}
	for code, want := range tests {
		if got := ProgramType(code); got != want {
			t.Errorf("ProgramType(%q) = %d, want %d", code, got, want)
		}
	}
}

func TestFilterOptions(t *testing.T) {
	opts := []Option{
		{"1", "Cairo University"},
		{"2", "Ain Shams University"},
		{"3", "جامعة القاهرة"},
	}

	if got := FilterOptions(opts, ""); len(got) != 3 {
		t.Errorf("empty term should keep all options, got %d", len(got))
	}
	if got := FilterOptions(opts, "CAIRO"); len(got) != 1 || got[0].Value != "1" {
		t.Errorf("case-insensitive filter failed: %+v", got)
	}
	if got := FilterOptions(opts, "university"); len(got) != 2 {
		t.Errorf("expected 2 matches, got %+v", got)
	}
	if got := FilterOptions(opts, "القاهرة"); len(got) != 1 || got[0].Value != "3" {
		t.Errorf("arabic filter failed: %+v", got)
	}
	if got := FilterOptions(opts, "zzz"); len(got) != 0 {
		t.Errorf("expected no matches, got %+v", got)
	}
}

func TestStaticOptions(t *testing.T) {
	if got := LevelOptions(i18n.Arabic); len(got) != 6 || got[0].Label != "الفرقة الإعدادية" {
		t.Errorf("unexpected levels %+v", got)
	}
	std := StandardOptions(i18n.English)
	if len(std) != 11 || std[10].Value != "11" {
		t.Errorf("unexpected standards %+v", std)
	}
	if got := GenderOptions(i18n.Arabic); got[0].Label != "ذكر" || got[1].Label != "أنثى" {
		t.Errorf("unexpected genders %+v", got)
	}
}
