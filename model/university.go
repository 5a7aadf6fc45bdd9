package model

import "strings"

// University is one record of the locally persisted universities collection.
// The JSON names match the backend's snake_case payloads.
type University struct {
	UniversityID   int    `json:"university_id"`
	UniversityName string `json:"university_name"`
	UniversityLogo string `json:"university_logo,omitempty"`
}

// UniversityInput carries the mutable fields of a University
type UniversityInput struct {
	Name string `json:"university_name" form:"university_name" validate:"required,max=255"`
	Logo string `json:"university_logo" form:"university_logo" validate:"omitempty,max=2048"`
}

// Normalize trims the name and logo in place
func (in *UniversityInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Logo = strings.TrimSpace(in.Logo)
}

// Apply copies the input onto a university, leaving the id untouched
func (in UniversityInput) Apply(u *University) {
	u.UniversityName = in.Name
	u.UniversityLogo = in.Logo
}
