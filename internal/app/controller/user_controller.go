package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jattu8602/ek-sub000/internal/app/model"
	"github.com/jattu8602/ek-sub000/internal/app/service"
	"github.com/jattu8602/ek-sub000/internal/middleware"
)

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type UserController struct {
	userService service.UserService
}

func NewUserController(userService service.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

// GetUsers lists registered users for the admin panel
// GET /api/v1/admin/users
func (ctrl *UserController) GetUsers(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	role := c.Query("role")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

	users, total, err := ctrl.userService.ListUsers(role, page, perPage)
	if err != nil {
		log.Error("Failed to list users", err, map[string]interface{}{
			"role": role,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch users",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"total": total,
		"page":  page,
	})
}

// UpdateUserRole promotes or demotes a user
// PUT /api/v1/admin/users/:id/role
func (ctrl *UserController) UpdateUserRole(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	adminID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid user ID",
		})
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	user, err := ctrl.userService.UpdateRole(adminID, uint(userID), model.UserRole(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "User not found",
			})
		case errors.Is(err, service.ErrInvalidRole):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid role value",
			})
		case errors.Is(err, service.ErrCannotChangeSelf):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "You cannot change your own role",
			})
		default:
			log.Error("Failed to update user role", err, map[string]interface{}{
				"user_id": userID,
				"role":    req.Role,
			})
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to update user role",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User role updated",
		"user":    user,
	})
}

// DeleteUser removes a user account
// DELETE /api/v1/admin/users/:id
func (ctrl *UserController) DeleteUser(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	adminID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid user ID",
		})
		return
	}

	if err := ctrl.userService.DeleteUser(adminID, uint(userID)); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "User not found",
			})
		case errors.Is(err, service.ErrCannotChangeSelf):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "You cannot delete your own account here",
			})
		default:
			log.Error("Failed to delete user", err, map[string]interface{}{
				"user_id": userID,
			})
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to delete user",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User deleted",
	})
}
