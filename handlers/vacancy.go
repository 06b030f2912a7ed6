package handlers

import (
	"errors"
	"log"
	"net/http"

	"parking-api/models"
	"parking-api/services"

	"github.com/gin-gonic/gin"
)

// VacancyInput 建立車位的輸入
type VacancyInput struct {
	Code   string `json:"code" binding:"required,len=4"`
	Status string `json:"status" binding:"omitempty,oneof=FREE BUSY"`
}

// CreateVacancy 建立車位（admin），代碼固定四碼且唯一
func CreateVacancy(c *gin.Context) {
	var input VacancyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Printf("Invalid vacancy input: %v", err)
		ErrorResponse(c, http.StatusUnprocessableEntity, "無效的輸入資料", err.Error())
		return
	}

	vacancy := &models.Vacancy{
		Code:   input.Code,
		Status: input.Status,
	}
	if err := vacancyService.Create(vacancy); err != nil {
		if errors.Is(err, services.ErrVacancyCodeExists) {
			ErrorResponse(c, http.StatusConflict, "車位代碼已存在", err.Error())
			return
		}
		log.Printf("Failed to create vacancy: %v", err)
		ErrorResponse(c, http.StatusInternalServerError, "建立車位失敗", err.Error())
		return
	}

	SuccessResponse(c, http.StatusCreated, "建立成功", vacancy.ToResponse())
}

// GetVacancyByCode 以代碼查詢車位（admin）
func GetVacancyByCode(c *gin.Context) {
	code := c.Param("code")

	vacancy, err := vacancyService.FindByCode(code)
	if err != nil {
		if errors.Is(err, services.ErrVacancyNotFound) {
			ErrorResponse(c, http.StatusNotFound, "車位不存在", err.Error())
			return
		}
		log.Printf("Failed to get vacancy %s: %v", code, err)
		ErrorResponse(c, http.StatusInternalServerError, "查詢失敗", err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "查詢成功", vacancy.ToResponse())
}
