package models

import "time"

// 使用者角色
const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

type User struct {
	UserID    int       `json:"user_id" gorm:"primaryKey;autoIncrement;type:INT"`
	Username  string    `json:"username" gorm:"type:varchar(100);not null;uniqueIndex" binding:"required,email"` // 帳號（email 格式）
	Password  string    `json:"password" gorm:"type:varchar(100);not null" binding:"required,min=6,max=20"`      // bcrypt 哈希後儲存
	Role      string    `json:"role" gorm:"type:enum('admin', 'client');not null;default:'client'"`              // admin/client
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}

type UserResponse struct {
	UserID    int    `json:"user_id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// ToResponse 轉換為回應結構（不輸出密碼）
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		UserID:    u.UserID,
		Username:  u.Username,
		Role:      u.Role,
		CreatedAt: u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
