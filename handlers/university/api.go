package university

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/qaunion/portal/database"
	"github.com/qaunion/portal/i18n"
	"github.com/qaunion/portal/model"
	"github.com/qaunion/portal/services"
	"github.com/qaunion/portal/utils/middleware"
	"github.com/qaunion/portal/utils/response"
)

// ListUniversities handles GET /api/v1/universities
func (h *UniversityHandler) ListUniversities(c *fiber.Ctx) error {
	list, err := h.universities.List(c.UserContext(), c.Query("search"))
	if err != nil {
		log.Printf("Failed to list universities: %v", err)
		return response.InternalServerError(c, "Failed to load universities")
	}

	meta := response.CalculatePagination(c.QueryInt("page", 1), c.QueryInt("limit", 20), int64(len(list)))
	start, end := meta.Window(len(list))
	return response.Paginated(c, list[start:end], meta)
}

// GetUniversity handles GET /api/v1/universities/:id
func (h *UniversityHandler) GetUniversity(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid university ID")
	}
	u, err := h.universities.Get(c.UserContext(), id)
	if errors.Is(err, database.ErrNotFound) {
		return response.NotFound(c, "University not found")
	}
	if err != nil {
		return response.InternalServerError(c, "Failed to load university")
	}
	return response.Success(c, u)
}

// CreateUniversity handles POST /api/v1/universities
func (h *UniversityHandler) CreateUniversity(c *fiber.Ctx) error {
	in, ok, err := h.parseInput(c)
	if !ok {
		return err
	}
	u, err := h.universities.Create(c.UserContext(), in)
	if err != nil {
		return h.saveFailed(c, err)
	}
	return response.Created(c, "University created successfully", u)
}

// UpdateUniversity handles PUT /api/v1/universities/:id
func (h *UniversityHandler) UpdateUniversity(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid university ID")
	}
	in, ok, err := h.parseInput(c)
	if !ok {
		return err
	}
	u, err := h.universities.Update(c.UserContext(), id, in)
	if err != nil {
		return h.saveFailed(c, err)
	}
	return response.SuccessWithMessage(c, "University updated successfully", u)
}

// DeleteUniversity handles DELETE /api/v1/universities/:id
func (h *UniversityHandler) DeleteUniversity(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid university ID")
	}
	if err := h.universities.Delete(c.UserContext(), id); err != nil {
		log.Printf("Failed to delete university %d: %v", id, err)
		return response.InternalServerError(c, "Failed to delete university")
	}
	return response.SuccessWithMessage(c, "University deleted successfully", nil)
}

// ExportUniversities handles GET /api/v1/universities/export
func (h *UniversityHandler) ExportUniversities(c *fiber.Ctx) error {
	f, err := h.universities.Export(c.UserContext())
	if errors.Is(err, services.ErrNothingToExport) {
		return response.Error(c, fiber.StatusConflict, i18n.T(middleware.CurrentLocale(c), err.Error()), "NOTHING_TO_EXPORT")
	}
	if err != nil {
		log.Printf("Export failed: %v", err)
		return response.InternalServerError(c, "Failed to export universities")
	}
	return sendWorkbook(c, f, exportASCIIName, h.universities.ExportFileName())
}

// ImportUniversities handles POST /api/v1/universities/import
func (h *UniversityHandler) ImportUniversities(c *fiber.Ctx) error {
	result, key := h.importUpload(c)
	if key != "" {
		return response.Error(c, fiber.StatusBadRequest, i18n.T(middleware.CurrentLocale(c), key), "INVALID_FILE")
	}
	return response.Success(c, result)
}

// parseInput reports ok=false after it has already written the error response
func (h *UniversityHandler) parseInput(c *fiber.Ctx) (model.UniversityInput, bool, error) {
	var in model.UniversityInput
	if err := c.BodyParser(&in); err != nil {
		return in, false, response.BadRequest(c, "Invalid request body")
	}
	in.Normalize()
	if err := h.validator.ValidateStruct(&in); err != nil {
		fields := h.validator.FormatValidationErrors(err, middleware.CurrentLocale(c))
		return in, false, response.ValidationError(c, "Validation failed", fields)
	}
	return in, true, nil
}

func (h *UniversityHandler) saveFailed(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, database.ErrNotFound):
		return response.NotFound(c, "University not found")
	case errors.Is(err, services.ErrNameRequired):
		l := middleware.CurrentLocale(c)
		return response.ValidationError(c, "Validation failed", map[string]string{"university_name": i18n.T(l, err.Error())})
	}
	log.Printf("Failed to save university: %v", err)
	return response.InternalServerError(c, "Failed to save university")
}
