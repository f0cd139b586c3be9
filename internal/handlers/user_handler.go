package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fintrack/internal/services"
)

// UserHandler exposes the user directory.
type UserHandler struct {
	userService services.UserServicer
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService services.UserServicer) *UserHandler {
	return &UserHandler{userService: userService}
}

// UserRequest is the payload for creating or updating a user
type UserRequest struct {
	Email       string `json:"email" binding:"required,email,max=255"`
	FirstName   string `json:"first_name" binding:"required,not_blank,max=100"`
	LastName    string `json:"last_name" binding:"required,not_blank,max=100"`
	PhoneNumber string `json:"phone_number" binding:"omitempty,max=32"`
	AvatarURL   string `json:"avatar_url" binding:"omitempty,url,max=512"`
}

func (r UserRequest) input() services.UserInput {
	return services.UserInput{
		Email:       r.Email,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		PhoneNumber: r.PhoneNumber,
		AvatarURL:   r.AvatarURL,
	}
}

// CreateUser handles user registration
// @Summary     Create a user
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       request body UserRequest true "User details"
// @Success     201 {object} map[string]models.User "User created"
// @Failure     400 {object} ErrorResponse "Invalid input or duplicate email"
// @Failure     503 {object} ErrorResponse "Store unavailable"
// @Router      /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// ListActiveUsers returns every active user
// @Summary     List active users
// @Tags        users
// @Produce     json
// @Success     200 {object} map[string][]models.User "Active users"
// @Router      /users [get]
func (h *UserHandler) ListActiveUsers(c *gin.Context) {
	users, err := h.userService.ListActiveUsers(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// CountActiveUsers returns the number of active users
// @Summary     Count active users
// @Tags        users
// @Produce     json
// @Success     200 {object} map[string]int64 "Active user count"
// @Router      /users/count [get]
func (h *UserHandler) CountActiveUsers(c *gin.Context) {
	count, err := h.userService.CountActiveUsers(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// EmailExists reports whether an email is registered
// @Summary     Check email
// @Tags        users
// @Produce     json
// @Param       email query string true "Email address"
// @Success     200 {object} map[string]bool "Whether the email is taken"
// @Failure     400 {object} ErrorResponse "Missing email"
// @Router      /users/exists [get]
func (h *UserHandler) EmailExists(c *gin.Context) {
	var query struct {
		Email string `form:"email" binding:"required"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		bindError(c, err)
		return
	}

	exists, err := h.userService.EmailExists(c.Request.Context(), query.Email)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

// GetUserByEmail looks a user up by email
// @Summary     Get a user by email
// @Tags        users
// @Produce     json
// @Param       email path string true "Email address"
// @Success     200 {object} map[string]models.User "User"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /users/by-email/{email} [get]
func (h *UserHandler) GetUserByEmail(c *gin.Context) {
	user, err := h.userService.GetUserByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// GetUser returns a user, active or not
// @Summary     Get a user
// @Tags        users
// @Produce     json
// @Param       id path string true "User ID"
// @Success     200 {object} map[string]models.User "User"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateUser replaces a user's profile
// @Summary     Update a user
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       id path string true "User ID"
// @Param       request body UserRequest true "User details"
// @Success     200 {object} map[string]models.User "User updated"
// @Failure     400 {object} ErrorResponse "Invalid input or duplicate email"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), id, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// DeactivateUser soft-deletes a user
// @Summary     Deactivate a user
// @Tags        users
// @Param       id path string true "User ID"
// @Success     204 "User deactivated"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /users/{id} [delete]
func (h *UserHandler) DeactivateUser(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.userService.DeactivateUser(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
