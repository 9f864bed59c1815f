package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tallyhq/tally-backend/internal/domain"
	"github.com/tallyhq/tally-backend/internal/store"
)

// CategoryHandler handles category HTTP requests
type CategoryHandler struct {
	categories *store.CategoriesStore
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categories *store.CategoriesStore) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// GetCategories returns categories, optionally narrowed to the root
// categories of a type (?type=) or the children of a parent (?parentId=).
func (h *CategoryHandler) GetCategories(c echo.Context) error {
	if parentID := c.QueryParam("parentId"); parentID != "" {
		return c.JSON(http.StatusOK, h.categories.GetSubcategories(parentID))
	}
	if typ := c.QueryParam("type"); typ != "" {
		return c.JSON(http.StatusOK, h.categories.GetRootCategories(domain.TransactionType(typ)))
	}
	return c.JSON(http.StatusOK, h.categories.GetCategories())
}

// GetCategory returns a single category by id
func (h *CategoryHandler) GetCategory(c echo.Context) error {
	category, ok := h.categories.GetCategoryByID(c.Param("id"))
	if !ok {
		return NewNotFoundError(c, "category not found")
	}
	return c.JSON(http.StatusOK, category)
}

// CreateCategory creates a new category
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var input store.AddCategoryInput
	if err := c.Bind(&input); err != nil {
		return NewValidationError(c, "invalid request body")
	}

	category, err := h.categories.AddCategory(input)
	if err != nil {
		return NewValidationError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, category)
}

// UpdateCategory applies a partial update to a category
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	var patch store.CategoryPatch
	if err := c.Bind(&patch); err != nil {
		return NewValidationError(c, "invalid request body")
	}

	category, err := h.categories.UpdateCategory(c.Param("id"), patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return NewNotFoundError(c, "category not found")
		}
		return NewValidationError(c, err.Error())
	}
	return c.JSON(http.StatusOK, category)
}

// DeleteCategory removes a category. Children and transactions referencing
// it are left dangling; their lookups return absent.
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	if err := h.categories.DeleteCategory(c.Param("id")); err != nil {
		return NewNotFoundError(c, "category not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// SuggestCategory returns the best auto-categorization match for a
// transaction description (?description=).
func (h *CategoryHandler) SuggestCategory(c echo.Context) error {
	description := c.QueryParam("description")
	if description == "" {
		return NewValidationError(c, "description query parameter is required")
	}

	categoryID, ok := h.categories.SuggestCategory(description)
	if !ok {
		return NewNotFoundError(c, "no pattern matches the description")
	}
	return c.JSON(http.StatusOK, map[string]string{"categoryId": categoryID})
}
