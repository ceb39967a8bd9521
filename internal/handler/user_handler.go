package handler

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/goaltracker/internal/db"
	"github.com/goaltracker/internal/service"
)

const sessionUserKey = "user_id"

type userPayload struct {
	UserID     uint      `json:"user_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      *string   `json:"phone"`
	Occupation *string   `json:"occupation"`
	CreatedAt  time.Time `json:"created_at"`
}

type signupPayload struct {
	Name       string  `json:"name" binding:"required"`
	Email      string  `json:"email" binding:"required,email"`
	Phone      *string `json:"phone"`
	Occupation *string `json:"occupation"`
	Password   string  `json:"password" binding:"required"`
}

type loginPayload struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type changePasswordPayload struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// 密码哈希不出现在任何响应中
func userToPayload(user *db.User) userPayload {
	return userPayload{
		UserID:     user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Phone:      user.Phone,
		Occupation: user.Occupation,
		CreatedAt:  user.CreatedAt,
	}
}

// Signup 注册新用户
func (a *API) Signup(c *gin.Context) {
	var payload signupPayload
	if !bindJSON(c, &payload, "Invalid signup payload") {
		return
	}

	user, err := a.users.Create(c.Request.Context(), service.UserInput{
		Name:       payload.Name,
		Email:      payload.Email,
		Phone:      payload.Phone,
		Occupation: payload.Occupation,
		Password:   payload.Password,
	})
	if err != nil {
		a.respondServiceError(c, err, "Failed to create user")
		return
	}
	c.JSON(http.StatusOK, userToPayload(user))
}

// Login 校验邮箱密码并把用户 ID 写入会话
func (a *API) Login(c *gin.Context) {
	var payload loginPayload
	if !bindJSON(c, &payload, "Invalid login payload") {
		return
	}

	user, err := a.users.Authenticate(c.Request.Context(), payload.Email, payload.Password)
	if err != nil {
		a.respondServiceError(c, err, "Failed to log in")
		return
	}

	session := sessions.Default(c)
	session.Set(sessionUserKey, user.ID)
	if err := session.Save(); err != nil {
		a.respondServiceError(c, err, "Failed to save session")
		return
	}
	c.JSON(http.StatusOK, userToPayload(user))
}

// Logout 清空会话
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		a.respondServiceError(c, err, "Failed to clear session")
		return
	}
	respondMessage(c, "Logged out successfully")
}

// CurrentUser 返回会话中登录的用户
func (a *API) CurrentUser(c *gin.Context) {
	userID, ok := sessions.Default(c).Get(sessionUserKey).(uint)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Not logged in")
		return
	}

	user, err := a.users.Get(c.Request.Context(), userID)
	if err != nil {
		a.respondServiceError(c, err, "Failed to load user")
		return
	}
	c.JSON(http.StatusOK, userToPayload(user))
}

// GetUser 根据 ID 返回用户
func (a *API) GetUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	user, err := a.users.Get(c.Request.Context(), id)
	if err != nil {
		a.respondServiceError(c, err, "Failed to load user")
		return
	}
	c.JSON(http.StatusOK, userToPayload(user))
}

// UpdateUser 部分更新用户资料（不含密码）
func (a *API) UpdateUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var payload service.UserPatch
	if !bindJSON(c, &payload, "Invalid user payload") {
		return
	}

	user, err := a.users.Update(c.Request.Context(), id, payload)
	if err != nil {
		a.respondServiceError(c, err, "Failed to update user")
		return
	}
	c.JSON(http.StatusOK, userToPayload(user))
}

// ChangePassword 校验旧密码后设置新密码
func (a *API) ChangePassword(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var payload changePasswordPayload
	if !bindJSON(c, &payload, "Invalid password payload") {
		return
	}

	user, err := a.users.ChangePassword(c.Request.Context(), id, payload.OldPassword, payload.NewPassword)
	if err != nil {
		a.respondServiceError(c, err, "Failed to change password")
		return
	}
	c.JSON(http.StatusOK, userToPayload(user))
}

// DeleteUser 删除用户及其全部目标
func (a *API) DeleteUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := a.users.Delete(c.Request.Context(), id); err != nil {
		a.respondServiceError(c, err, "Failed to delete user")
		return
	}
	respondMessage(c, "User deleted successfully")
}
