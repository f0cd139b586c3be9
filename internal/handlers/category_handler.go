package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fintrack/internal/models"
	"fintrack/internal/services"
)

// CategoryHandler handles category-related requests
type CategoryHandler struct {
	categoryService services.CategoryServicer
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService services.CategoryServicer) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CategoryRequest represents the request payload for creating or updating a category
type CategoryRequest struct {
	Name        string `json:"name" binding:"required,not_blank,min=2,max=50"`
	Description string `json:"description" binding:"max=255"`
	Icon        string `json:"icon" binding:"max=50"`
	Color       string `json:"color" binding:"omitempty,hex_color"`
}

func (r CategoryRequest) details() models.CategoryDetails {
	return models.CategoryDetails{
		Name:        r.Name,
		Description: r.Description,
		Icon:        r.Icon,
		Color:       r.Color,
	}
}

// CreateCategory handles the creation of a new category
// @Summary     Create a category
// @Description Create a category owned by the calling user
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       X-User-ID header string true "Caller user ID"
// @Param       request body CategoryRequest true "Category details"
// @Success     201 {object} map[string]models.Category "Category created"
// @Failure     400 {object} ErrorResponse "Invalid input or duplicate name"
// @Failure     401 {object} ErrorResponse "Missing user"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	category, err := h.categoryService.CreateCategory(c.Request.Context(), userID, req.details())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// ListCategories returns the categories visible to the caller
// @Summary     List visible categories
// @Description Active defaults plus the caller's own active categories, ordered by name
// @Tags        categories
// @Produce     json
// @Param       X-User-ID header string true "Caller user ID"
// @Success     200 {object} map[string][]models.Category "Visible categories"
// @Failure     401 {object} ErrorResponse "Missing user"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categories, err := h.categoryService.ListVisibleCategories(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// ListDefaultCategories returns the active shared categories
// @Summary     List default categories
// @Tags        categories
// @Produce     json
// @Success     200 {object} map[string][]models.Category "Default categories"
// @Router      /categories/defaults [get]
func (h *CategoryHandler) ListDefaultCategories(c *gin.Context) {
	categories, err := h.categoryService.ListDefaultCategories(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// SeedDefaultCategories inserts any missing catalog entries
// @Summary     Seed default categories
// @Tags        categories
// @Produce     json
// @Success     200 {object} map[string]int "Number of categories inserted"
// @Failure     503 {object} ErrorResponse "Store unavailable"
// @Router      /categories/defaults/seed [post]
func (h *CategoryHandler) SeedDefaultCategories(c *gin.Context) {
	inserted, err := h.categoryService.SeedDefaultCategories(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"inserted": inserted})
}

// GetCategory returns a category in any state
// @Summary     Get a category
// @Tags        categories
// @Produce     json
// @Param       X-User-ID header string true "Caller user ID"
// @Param       id path string true "Category ID"
// @Success     200 {object} map[string]models.Category "Category"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /categories/{id} [get]
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categoryService.GetCategoryByID(c.Request.Context(), categoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}

// UpdateCategory replaces the details of one of the caller's categories
// @Summary     Update a category
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       X-User-ID header string true "Caller user ID"
// @Param       id path string true "Category ID"
// @Param       request body CategoryRequest true "Category details"
// @Success     200 {object} map[string]models.Category "Category updated"
// @Failure     400 {object} ErrorResponse "Invalid input, default category, not owned or duplicate name"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	category, err := h.categoryService.UpdateCategory(c.Request.Context(), userID, categoryID, req.details())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}

// DeleteCategory soft-deletes one of the caller's categories
// @Summary     Delete a category
// @Tags        categories
// @Param       X-User-ID header string true "Caller user ID"
// @Param       id path string true "Category ID"
// @Success     204 "Category deleted"
// @Failure     400 {object} ErrorResponse "Default category or not owned"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.categoryService.DeleteCategory(c.Request.Context(), userID, categoryID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
