package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/qaunion/portal/model"
)

// Record types as the backend serves them
type (
	UserTypeRecord   = model.UserType
	UniversityRecord = model.University
	FacultyRecord    = model.Faculty
	ProgramRecord    = model.Program
)

// Resource is the list/get/create/update/delete surface the backend offers
// for each lookup collection
type Resource[T any] struct {
	client *Client
	path   string
}

func (r Resource[T]) List(ctx context.Context, token string) ([]T, error) {
	var out []T
	if err := r.client.doRequest(ctx, http.MethodGet, r.path, token, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func (r Resource[T]) Get(ctx context.Context, token string, id int) (*T, error) {
	var out T
	if err := r.client.doRequest(ctx, http.MethodGet, fmt.Sprintf("%s/%d", r.path, id), token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r Resource[T]) Create(ctx context.Context, token string, v T) (*T, error) {
	var out T
	if err := r.client.doRequest(ctx, http.MethodPost, r.path, token, v, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r Resource[T]) Update(ctx context.Context, token string, id int, v T) (*T, error) {
	var out T
	if err := r.client.doRequest(ctx, http.MethodPut, fmt.Sprintf("%s/%d", r.path, id), token, v, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r Resource[T]) Delete(ctx context.Context, token string, id int) error {
	return r.client.doRequest(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", r.path, id), token, nil, nil)
}

// FacultiesByUniversity lists the faculties of one university
func (c *Client) FacultiesByUniversity(ctx context.Context, token string, universityID int) ([]model.Faculty, error) {
	var out []model.Faculty
	if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/Faculties/university/%d", universityID), token, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Faculty{}
	}
	return out, nil
}

// ProgramsByFaculty lists a faculty's programs; programType 0 means all types
func (c *Client) ProgramsByFaculty(ctx context.Context, token string, facultyID, programType int) ([]model.Program, error) {
	endpoint := fmt.Sprintf("/Programs/faculty/%d", facultyID)
	if programType > 0 {
		endpoint = fmt.Sprintf("/Programs/faculty/%d/type/%d", facultyID, programType)
	}

	var out []model.Program
	if err := c.doRequest(ctx, http.MethodGet, endpoint, token, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Program{}
	}
	return out, nil
}
