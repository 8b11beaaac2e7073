package server

import (
	"context"
	"errors"

	"newsdesk/internal/middleware"
	"newsdesk/internal/models"
	"newsdesk/internal/repository"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type categoryRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Slug        string `json:"slug" validate:"required,max=120,lowercase"`
	Description string `json:"description"`
}

type cityRequest struct {
	Name string `json:"name" validate:"required,max=120"`
	Slug string `json:"slug" validate:"required,max=120,lowercase"`
}

type sourceRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Slug     string `json:"slug" validate:"required,max=120,lowercase"`
	Homepage string `json:"homepage" validate:"omitempty,url"`
}

func (s *Server) setupTaxonomyRoutes(api fiber.Router) {
	staffOnly := middleware.RequireRole(models.RoleAdmin, models.RoleEditor)

	categories := api.Group("/categories")
	categories.Get("/", s.ListCategories)
	categories.Get("/:id", s.GetCategory)
	categories.Post("/", middleware.AuthRequired, staffOnly, s.CreateCategory)
	categories.Put("/:id", middleware.AuthRequired, staffOnly, s.UpdateCategory)
	categories.Delete("/:id", middleware.AuthRequired, staffOnly, s.DeleteCategory)

	cities := api.Group("/cities")
	cities.Get("/", s.ListCities)
	cities.Get("/:id", s.GetCity)
	cities.Post("/", middleware.AuthRequired, staffOnly, s.CreateCity)
	cities.Put("/:id", middleware.AuthRequired, staffOnly, s.UpdateCity)
	cities.Delete("/:id", middleware.AuthRequired, staffOnly, s.DeleteCity)

	sources := api.Group("/sources")
	sources.Get("/", s.ListSources)
	sources.Get("/:id", s.GetSource)
	sources.Post("/", middleware.AuthRequired, staffOnly, s.CreateSource)
	sources.Put("/:id", middleware.AuthRequired, staffOnly, s.UpdateSource)
	sources.Delete("/:id", middleware.AuthRequired, staffOnly, s.DeleteSource)
}

// The three taxonomy tables share their read and delete handling; the
// named handlers below exist so each route documents itself.

func listTaxonomy[T any](c *fiber.Ctx, repo repository.TaxonomyRepository[T]) error {
	rows, err := repo.List(c.Context())
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(rows)
}

func getTaxonomy[T any](c *fiber.Ctx, s *Server, repo repository.TaxonomyRepository[T], resource string) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	row, err := repo.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondAppError(c, models.NewNotFoundError(resource, id))
		}
		return respondAppError(c, err)
	}
	return c.JSON(row)
}

func deleteTaxonomy[T any](c *fiber.Ctx, s *Server, repo repository.TaxonomyRepository[T], resource string) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := repo.Delete(c.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondAppError(c, models.NewNotFoundError(resource, id))
		}
		return respondAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListCategories handles GET /api/categories
// @Summary List categories
// @Tags taxonomy
// @Produce json
// @Success 200 {array} models.Category
// @Router /categories [get]
func (s *Server) ListCategories(c *fiber.Ctx) error {
	return listTaxonomy(c, s.categoryRepo)
}

// GetCategory handles GET /api/categories/:id
// @Summary Get category
// @Tags taxonomy
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} models.Category
// @Failure 404 {object} models.ErrorResponse
// @Router /categories/{id} [get]
func (s *Server) GetCategory(c *fiber.Ctx) error {
	return getTaxonomy(c, s, s.categoryRepo, "Category")
}

// DeleteCategory handles DELETE /api/categories/:id
// @Summary Delete category
// @Tags taxonomy
// @Param id path int true "Category ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /categories/{id} [delete]
func (s *Server) DeleteCategory(c *fiber.Ctx) error {
	return deleteTaxonomy(c, s, s.categoryRepo, "Category")
}

// ListCities handles GET /api/cities
// @Summary List cities
// @Tags taxonomy
// @Produce json
// @Success 200 {array} models.City
// @Router /cities [get]
func (s *Server) ListCities(c *fiber.Ctx) error {
	return listTaxonomy(c, s.cityRepo)
}

// GetCity handles GET /api/cities/:id
// @Summary Get city
// @Tags taxonomy
// @Produce json
// @Param id path int true "City ID"
// @Success 200 {object} models.City
// @Failure 404 {object} models.ErrorResponse
// @Router /cities/{id} [get]
func (s *Server) GetCity(c *fiber.Ctx) error {
	return getTaxonomy(c, s, s.cityRepo, "City")
}

// DeleteCity handles DELETE /api/cities/:id
// @Summary Delete city
// @Tags taxonomy
// @Param id path int true "City ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /cities/{id} [delete]
func (s *Server) DeleteCity(c *fiber.Ctx) error {
	return deleteTaxonomy(c, s, s.cityRepo, "City")
}

// ListSources handles GET /api/sources
// @Summary List sources
// @Tags taxonomy
// @Produce json
// @Success 200 {array} models.Source
// @Router /sources [get]
func (s *Server) ListSources(c *fiber.Ctx) error {
	return listTaxonomy(c, s.sourceRepo)
}

// GetSource handles GET /api/sources/:id
// @Summary Get source
// @Tags taxonomy
// @Produce json
// @Param id path int true "Source ID"
// @Success 200 {object} models.Source
// @Failure 404 {object} models.ErrorResponse
// @Router /sources/{id} [get]
func (s *Server) GetSource(c *fiber.Ctx) error {
	return getTaxonomy(c, s, s.sourceRepo, "Source")
}

// DeleteSource handles DELETE /api/sources/:id
// @Summary Delete source
// @Tags taxonomy
// @Param id path int true "Source ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /sources/{id} [delete]
func (s *Server) DeleteSource(c *fiber.Ctx) error {
	return deleteTaxonomy(c, s, s.sourceRepo, "Source")
}

// checkSlug enforces slug uniqueness within a taxonomy table, ignoring the
// row being updated.
func checkSlug[T any](ctx context.Context, repo repository.TaxonomyRepository[T], slug string, excludeID uint) error {
	taken, err := repo.SlugExists(ctx, slug, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return models.NewValidationError("Slug is already in use")
	}
	return nil
}

// CreateCategory handles POST /api/categories
// @Summary Create category
// @Tags taxonomy
// @Accept json
// @Produce json
// @Param request body categoryRequest true "Category fields"
// @Success 201 {object} models.Category
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /categories [post]
func (s *Server) CreateCategory(c *fiber.Ctx) error {
	ctx := c.Context()

	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := s.validate.Struct(req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if err := checkSlug(ctx, s.categoryRepo, req.Slug, 0); err != nil {
		return respondAppError(c, err)
	}

	row := &models.Category{Name: req.Name, Slug: req.Slug, Description: req.Description}
	if err := s.categoryRepo.Create(ctx, row); err != nil {
		return respondAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(row)
}

// UpdateCategory handles PUT /api/categories/:id
// @Summary Update category
// @Tags taxonomy
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Param request body categoryRequest true "Category fields"
// @Success 200 {object} models.Category
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /categories/{id} [put]
func (s *Server) UpdateCategory(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := s.validate.Struct(req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if err := checkSlug(ctx, s.categoryRepo, req.Slug, id); err != nil {
		return respondAppError(c, err)
	}

	row, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondAppError(c, models.NewNotFoundError("Category", id))
		}
		return respondAppError(c, err)
	}
	row.Name = req.Name
	row.Slug = req.Slug
	row.Description = req.Description
	if err := s.categoryRepo.Update(ctx, row); err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(row)
}

// CreateCity handles POST /api/cities
// @Summary Create city
// @Tags taxonomy
// @Accept json
// @Produce json
// @Param request body cityRequest true "City fields"
// @Success 201 {object} models.City
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /cities [post]
func (s *Server) CreateCity(c *fiber.Ctx) error {
	ctx := c.Context()

	var req cityRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := s.validate.Struct(req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if err := checkSlug(ctx, s.cityRepo, req.Slug, 0); err != nil {
		return respondAppError(c, err)
	}

	row := &models.City{Name: req.Name, Slug: req.Slug}
	if err := s.cityRepo.Create(ctx, row); err != nil {
		return respondAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(row)
}

// UpdateCity handles PUT /api/cities/:id
// @Summary Update city
// @Tags taxonomy
// @Accept json
// @Produce json
// @Param id path int true "City ID"
// @Param request body cityRequest true "City fields"
// @Success 200 {object} models.City
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /cities/{id} [put]
func (s *Server) UpdateCity(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req cityRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := s.validate.Struct(req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if err := checkSlug(ctx, s.cityRepo, req.Slug, id); err != nil {
		return respondAppError(c, err)
	}

	row, err := s.cityRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondAppError(c, models.NewNotFoundError("City", id))
		}
		return respondAppError(c, err)
	}
	row.Name = req.Name
	row.Slug = req.Slug
	if err := s.cityRepo.Update(ctx, row); err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(row)
}

// CreateSource handles POST /api/sources
// @Summary Create source
// @Tags taxonomy
// @Accept json
// @Produce json
// @Param request body sourceRequest true "Source fields"
// @Success 201 {object} models.Source
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /sources [post]
func (s *Server) CreateSource(c *fiber.Ctx) error {
	ctx := c.Context()

	var req sourceRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := s.validate.Struct(req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if err := checkSlug(ctx, s.sourceRepo, req.Slug, 0); err != nil {
		return respondAppError(c, err)
	}

	row := &models.Source{Name: req.Name, Slug: req.Slug, Homepage: req.Homepage}
	if err := s.sourceRepo.Create(ctx, row); err != nil {
		return respondAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(row)
}

// UpdateSource handles PUT /api/sources/:id
// @Summary Update source
// @Tags taxonomy
// @Accept json
// @Produce json
// @Param id path int true "Source ID"
// @Param request body sourceRequest true "Source fields"
// @Success 200 {object} models.Source
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /sources/{id} [put]
func (s *Server) UpdateSource(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req sourceRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := s.validate.Struct(req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if err := checkSlug(ctx, s.sourceRepo, req.Slug, id); err != nil {
		return respondAppError(c, err)
	}

	row, err := s.sourceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondAppError(c, models.NewNotFoundError("Source", id))
		}
		return respondAppError(c, err)
	}
	row.Name = req.Name
	row.Slug = req.Slug
	row.Homepage = req.Homepage
	if err := s.sourceRepo.Update(ctx, row); err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(row)
}
