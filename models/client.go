package models

import "time"

// Client 客戶表：一個客戶綁定一個已註冊的使用者帳號
type Client struct {
	ClientID  int       `json:"client_id" gorm:"primaryKey;autoIncrement;type:INT"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null" binding:"required,min=5,max=100"`                       // 客戶姓名
	CPF       string    `json:"cpf" gorm:"type:varchar(11);not null;uniqueIndex;column:cpf" binding:"required,len=11,numeric"` // 身分證號（唯一）
	UserID    int       `json:"user_id" gorm:"index;not null;type:INT"`
	User      User      `json:"-" gorm:"foreignKey:UserID;references:UserID"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Client) TableName() string {
	return "clients"
}

type ClientResponse struct {
	ClientID int    `json:"client_id"`
	Name     string `json:"name"`
	CPF      string `json:"cpf"`
}

func (c *Client) ToResponse() ClientResponse {
	return ClientResponse{
		ClientID: c.ClientID,
		Name:     c.Name,
		CPF:      c.CPF,
	}
}
