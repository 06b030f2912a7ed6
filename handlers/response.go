package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// APIResponse 定義統一的 API 回應結構
type APIResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"` // omitempty 表示如果為空則不顯示
	Error   string      `json:"error,omitempty"`
}

// PagedData 分頁查詢的回應內容
type PagedData struct {
	Content       interface{} `json:"content"`
	Page          int         `json:"page"`
	Size          int         `json:"size"`
	TotalElements int64       `json:"total_elements"`
	TotalPages    int64       `json:"total_pages"`
}

// SuccessResponse 返回成功的回應
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, APIResponse{
		Status:  true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse 返回失敗的回應
func ErrorResponse(c *gin.Context, statusCode int, message string, err string) {
	c.JSON(statusCode, APIResponse{
		Status:  false,
		Message: message,
		Error:   err,
	})
}

// NewPagedData 組裝分頁回應
func NewPagedData(content interface{}, page, size int, total int64) PagedData {
	totalPages := total / int64(size)
	if total%int64(size) != 0 {
		totalPages++
	}
	return PagedData{
		Content:       content,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
	}
}

// parsePageParams 解析 page/size 查詢參數，預設第 0 頁、每頁 5 筆
func parsePageParams(c *gin.Context) (page, size int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil || page < 0 {
		page = 0
	}
	size, err = strconv.Atoi(c.DefaultQuery("size", "5"))
	if err != nil || size < 1 || size > 100 {
		size = 5
	}
	return page, size
}
