package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"parking-api/models"
	"parking-api/services"

	"github.com/gin-gonic/gin"
)

// ClientInput 建立客戶的輸入
type ClientInput struct {
	Name string `json:"name" binding:"required,min=5,max=100"`
	CPF  string `json:"cpf" binding:"required,len=11,numeric"`
}

// CreateClient 建立客戶資料並綁定登入中的帳號（client 角色）
func CreateClient(c *gin.Context) {
	var input ClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Printf("Invalid client input: %v", err)
		ErrorResponse(c, http.StatusUnprocessableEntity, "無效的輸入資料", err.Error())
		return
	}

	client := &models.Client{
		Name:   input.Name,
		CPF:    input.CPF,
		UserID: c.GetInt("user_id"),
	}
	if err := clientService.Create(client); err != nil {
		if errors.Is(err, services.ErrCPFAlreadyRegistered) {
			ErrorResponse(c, http.StatusConflict, "CPF 已註冊", err.Error())
			return
		}
		log.Printf("Failed to create client: %v", err)
		ErrorResponse(c, http.StatusInternalServerError, "建立客戶失敗", err.Error())
		return
	}

	SuccessResponse(c, http.StatusCreated, "建立成功", client.ToResponse())
}

// GetClient 查詢特定客戶（admin）
func GetClient(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "無效的客戶 ID", err.Error())
		return
	}

	client, err := clientService.FindByID(id)
	if err != nil {
		if errors.Is(err, services.ErrClientRecordNotFound) {
			ErrorResponse(c, http.StatusNotFound, "客戶不存在", err.Error())
			return
		}
		log.Printf("Failed to get client %d: %v", id, err)
		ErrorResponse(c, http.StatusInternalServerError, "查詢失敗", err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "查詢成功", client.ToResponse())
}

// GetClientDetails 查詢登入客戶自己的資料
func GetClientDetails(c *gin.Context) {
	client, err := clientService.FindByUserID(c.GetInt("user_id"))
	if err != nil {
		if errors.Is(err, services.ErrClientRecordNotFound) {
			ErrorResponse(c, http.StatusNotFound, "客戶不存在", err.Error())
			return
		}
		log.Printf("Failed to get client details: %v", err)
		ErrorResponse(c, http.StatusInternalServerError, "查詢失敗", err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "查詢成功", client.ToResponse())
}

// GetAllClients 分頁查詢所有客戶（admin）
func GetAllClients(c *gin.Context) {
	page, size := parsePageParams(c)

	clients, total, err := clientService.List(page, size)
	if err != nil {
		log.Printf("Failed to list clients: %v", err)
		ErrorResponse(c, http.StatusInternalServerError, "查詢失敗", err.Error())
		return
	}

	responses := make([]models.ClientResponse, len(clients))
	for i, client := range clients {
		responses[i] = client.ToResponse()
	}
	SuccessResponse(c, http.StatusOK, "查詢成功", NewPagedData(responses, page, size, total))
}
