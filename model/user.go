package model

// User is the account returned by the backend on login, kept in the session
type User struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role,omitempty"`
	UserTypeID   int    `json:"userTypeId"`
	UniversityID *int   `json:"universityId,omitempty"`
	FacultyID    *int   `json:"facultyId,omitempty"`
}

// UserType is a role label served by /UserTypes
type UserType struct {
	UserTypeID   int    `json:"userTypeId"`
	UserTypeName string `json:"userTypeName"`
}

// Faculty belongs to a university
type Faculty struct {
	FacultyID    int    `json:"faculty_id"`
	FacultyName  string `json:"faculty_name"`
	UniversityID int    `json:"university_id"`
}

// Program is an academic department or programme within a faculty.
// ProgramType is 1 for undergraduate, 2 for postgraduate and 3 for doctorate.
type Program struct {
	ProgramID   int    `json:"program_id"`
	ProgramName string `json:"program_name"`
	FacultyID   int    `json:"faculty_id"`
	ProgramType *int   `json:"program_type,omitempty"`
}

// RegisterRequest is the /Auth/register payload
type RegisterRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	UserTypeID   int    `json:"userTypeId"`
	UniversityID *int   `json:"universityId,omitempty"`
}

// LoginResponse is the /Auth/login result
type LoginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Token   string `json:"token,omitempty"`
	User    *User  `json:"user,omitempty"`
}
