package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"parking-api/models"
	"parking-api/services"
	"parking-api/utils"

	"github.com/gin-gonic/gin"
)

// RegisterInput 註冊輸入
type RegisterInput struct {
	Username string `json:"username" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=20"`
}

// LoginInput 登入輸入
type LoginInput struct {
	Username string `json:"username" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdatePasswordInput 修改密碼輸入
type UpdatePasswordInput struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6,max=20"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// RegisterUser 註冊新帳號，預設角色為 client
func RegisterUser(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Printf("Invalid register input: %v", err)
		ErrorResponse(c, http.StatusUnprocessableEntity, "無效的輸入資料", err.Error())
		return
	}

	user := &models.User{
		Username: input.Username,
		Password: input.Password,
	}
	if err := userService.Register(user); err != nil {
		if errors.Is(err, services.ErrUsernameExists) {
			ErrorResponse(c, http.StatusConflict, "帳號已存在", err.Error())
			return
		}
		log.Printf("Failed to register user: %v", err)
		ErrorResponse(c, http.StatusInternalServerError, "註冊失敗", err.Error())
		return
	}

	SuccessResponse(c, http.StatusCreated, "註冊成功", user.ToResponse())
}

// LoginUser 登入並簽發 token
func LoginUser(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Printf("Invalid login input: %v", err)
		ErrorResponse(c, http.StatusUnprocessableEntity, "無效的輸入資料", err.Error())
		return
	}

	user, err := userService.Login(input.Username, input.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			ErrorResponse(c, http.StatusBadRequest, "無效的帳號或密碼", err.Error())
			return
		}
		log.Printf("Failed to login: %v", err)
		ErrorResponse(c, http.StatusInternalServerError, "登入失敗", err.Error())
		return
	}

	token, err := utils.GenerateToken(user.UserID, user.Role)
	if err != nil {
		log.Printf("Failed to generate token for user %d: %v", user.UserID, err)
		ErrorResponse(c, http.StatusInternalServerError, "登入失敗", err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "登入成功", gin.H{
		"token": token,
		"user":  user.ToResponse(),
	})
}

// GetUser 查詢特定帳號（admin 或本人）
func GetUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "無效的帳號 ID", err.Error())
		return
	}

	// 非 admin 只能查自己
	role := c.GetString("role")
	if role != models.RoleAdmin && c.GetInt("user_id") != id {
		ErrorResponse(c, http.StatusForbidden, "權限不足", "you can only view your own account")
		return
	}

	user, err := userService.FindByID(id)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			ErrorResponse(c, http.StatusNotFound, "帳號不存在", err.Error())
			return
		}
		log.Printf("Failed to get user %d: %v", id, err)
		ErrorResponse(c, http.StatusInternalServerError, "查詢失敗", err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "查詢成功", user.ToResponse())
}

// GetAllUsers 查詢所有帳號（admin）
func GetAllUsers(c *gin.Context) {
	users, err := userService.FindAll()
	if err != nil {
		log.Printf("Failed to list users: %v", err)
		ErrorResponse(c, http.StatusInternalServerError, "查詢失敗", err.Error())
		return
	}

	responses := make([]models.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	SuccessResponse(c, http.StatusOK, "查詢成功", responses)
}

// UpdateUserPassword 修改自己的密碼
func UpdateUserPassword(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "無效的帳號 ID", err.Error())
		return
	}

	if c.GetInt("user_id") != id {
		ErrorResponse(c, http.StatusForbidden, "權限不足", "you can only change your own password")
		return
	}

	var input UpdatePasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		ErrorResponse(c, http.StatusUnprocessableEntity, "無效的輸入資料", err.Error())
		return
	}

	err = userService.UpdatePassword(id, input.CurrentPassword, input.NewPassword, input.ConfirmPassword)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPasswordConfirm), errors.Is(err, services.ErrWrongCurrentPassword):
			ErrorResponse(c, http.StatusBadRequest, "密碼驗證失敗", err.Error())
		case errors.Is(err, services.ErrUserNotFound):
			ErrorResponse(c, http.StatusNotFound, "帳號不存在", err.Error())
		default:
			log.Printf("Failed to update password for user %d: %v", id, err)
			ErrorResponse(c, http.StatusInternalServerError, "更新失敗", err.Error())
		}
		return
	}

	SuccessResponse(c, http.StatusOK, "密碼更新成功", nil)
}
