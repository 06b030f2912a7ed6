// handlers/parking.go
package handlers

import (
	"errors"
	"log"
	"net/http"

	"parking-api/models"
	"parking-api/services"

	"github.com/gin-gonic/gin"
)

// CheckIn 車輛進場（admin）：分配空車位並開立收據
func CheckIn(c *gin.Context) {
	var input services.CheckInInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Printf("Invalid check-in input: %v", err)
		ErrorResponse(c, http.StatusUnprocessableEntity, "無效的輸入資料", err.Error())
		return
	}

	session, err := parkingService.CheckIn(input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrClientNotFound):
			ErrorResponse(c, http.StatusNotFound, "客戶 CPF 未註冊", err.Error())
		case errors.Is(err, services.ErrNoFreeVacancy):
			ErrorResponse(c, http.StatusNotFound, "目前沒有空車位", err.Error())
		default:
			log.Printf("Failed to check in: %v", err)
			ErrorResponse(c, http.StatusInternalServerError, "進場失敗", err.Error())
		}
		return
	}

	c.Header("Location", "/api/v1/parking-lots/"+session.Receipt)
	SuccessResponse(c, http.StatusCreated, "進場成功", session.ToResponse())
}

// CheckOut 車輛出場（admin）：計算費用與折扣並釋放車位
func CheckOut(c *gin.Context) {
	receipt := c.Param("receipt")

	session, err := parkingService.CheckOut(receipt)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrReceiptNotFound):
			ErrorResponse(c, http.StatusNotFound, "收據不存在或已完成出場", err.Error())
		case errors.Is(err, services.ErrInvalidInterval):
			log.Printf("Invalid interval on check-out for receipt %s: %v", receipt, err)
			ErrorResponse(c, http.StatusInternalServerError, "出場失敗", err.Error())
		case errors.Is(err, services.ErrVacancyStateConflict):
			log.Printf("Vacancy state conflict on check-out for receipt %s: %v", receipt, err)
			ErrorResponse(c, http.StatusInternalServerError, "出場失敗", err.Error())
		default:
			log.Printf("Failed to check out receipt %s: %v", receipt, err)
			ErrorResponse(c, http.StatusInternalServerError, "出場失敗", err.Error())
		}
		return
	}

	SuccessResponse(c, http.StatusOK, "出場成功", session.ToResponse())
}

// GetParkingByReceipt 以收據查詢停車中的車輛
func GetParkingByReceipt(c *gin.Context) {
	receipt := c.Param("receipt")

	session, err := parkingService.GetByReceipt(receipt)
	if err != nil {
		if errors.Is(err, services.ErrReceiptNotFound) {
			ErrorResponse(c, http.StatusNotFound, "收據不存在或已完成出場", err.Error())
			return
		}
		log.Printf("Failed to get parking by receipt %s: %v", receipt, err)
		ErrorResponse(c, http.StatusInternalServerError, "查詢失敗", err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "查詢成功", session.ToResponse())
}

// GetParkingsByCPF 查詢特定客戶的停車紀錄（admin，分頁）
func GetParkingsByCPF(c *gin.Context) {
	cpf := c.Param("cpf")
	page, size := parsePageParams(c)

	sessions, total, err := parkingService.ListByClientCPF(cpf, page, size)
	if err != nil {
		log.Printf("Failed to list parkings for cpf %s: %v", cpf, err)
		ErrorResponse(c, http.StatusInternalServerError, "查詢失敗", err.Error())
		return
	}

	responses := make([]models.ParkingSessionResponse, len(sessions))
	for i, session := range sessions {
		responses[i] = session.ToResponse()
	}
	SuccessResponse(c, http.StatusOK, "查詢成功", NewPagedData(responses, page, size, total))
}

// GetOwnParkings 查詢登入客戶自己的停車紀錄（分頁）
func GetOwnParkings(c *gin.Context) {
	page, size := parsePageParams(c)

	sessions, total, err := parkingService.ListByUserID(c.GetInt("user_id"), page, size)
	if err != nil {
		log.Printf("Failed to list own parkings: %v", err)
		ErrorResponse(c, http.StatusInternalServerError, "查詢失敗", err.Error())
		return
	}

	responses := make([]models.ParkingSessionResponse, len(sessions))
	for i, session := range sessions {
		responses[i] = session.ToResponse()
	}
	SuccessResponse(c, http.StatusOK, "查詢成功", NewPagedData(responses, page, size, total))
}
