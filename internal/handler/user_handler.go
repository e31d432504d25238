package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/foliolog/internal/db"
	"github.com/foliolog/internal/service"
	"github.com/gin-gonic/gin"
)

type userRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func userView(user *db.User) gin.H {
	return gin.H{
		"id":        user.ID,
		"username":  user.Username,
		"email":     user.Email,
		"role":      user.Role,
		"createdAt": user.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// ListUsers 返回全部后台用户。
func (a *API) ListUsers(c *gin.Context) {
	users, err := a.users.List()
	if err != nil {
		log.Printf("list users: %v", err)
		respondError(c, http.StatusInternalServerError, "failed to list users")
		return
	}

	views := make([]gin.H, 0, len(users))
	for i := range users {
		views = append(views, userView(&users[i]))
	}
	c.JSON(http.StatusOK, gin.H{"users": views})
}

// CreateUser 新建后台用户。
func (a *API) CreateUser(c *gin.Context) {
	var req userRequest
	if !bindJSON(c, &req, "invalid request body") {
		return
	}
	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Password) == "" {
		respondError(c, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := a.users.Create(service.UserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		if errors.Is(err, service.ErrDuplicateUsername) {
			respondError(c, http.StatusConflict, "username already taken")
			return
		}
		log.Printf("create user: %v", err)
		respondError(c, http.StatusInternalServerError, "failed to create user")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": userView(user), "message": "user created"})
}

// UpdateUser 修改后台用户；密码字段留空表示不变。
func (a *API) UpdateUser(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req userRequest
	if !bindJSON(c, &req, "invalid request body") {
		return
	}

	user, err := a.users.Update(id, service.UserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, http.StatusNotFound, "user not found")
		case errors.Is(err, service.ErrDuplicateUsername):
			respondError(c, http.StatusConflict, "username already taken")
		case errors.Is(err, service.ErrLastAdmin):
			respondError(c, http.StatusConflict, "cannot demote the last admin")
		default:
			log.Printf("update user: %v", err)
			respondError(c, http.StatusInternalServerError, "failed to update user")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": userView(user), "message": "user updated"})
}

// DeleteUser 删除后台用户，最后一名管理员不可删除。
func (a *API) DeleteUser(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.users.Delete(id); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, http.StatusNotFound, "user not found")
		case errors.Is(err, service.ErrLastAdmin):
			respondError(c, http.StatusConflict, "cannot delete the last admin")
		default:
			log.Printf("delete user: %v", err)
			respondError(c, http.StatusInternalServerError, "failed to delete user")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}
