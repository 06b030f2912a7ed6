// models/parking.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ParkingSession 停車場次表：一次進場到出場的完整紀錄，以收據號碼識別
type ParkingSession struct {
	SessionID     int                 `json:"session_id" gorm:"primaryKey;autoIncrement;type:INT"`
	Receipt       string              `json:"receipt" gorm:"type:varchar(15);not null;uniqueIndex"` // 收據號碼（YYYYMMDD-HHMMSS）
	Plate         string              `json:"plate" gorm:"type:varchar(8);not null"`                // 車牌
	Brand         string              `json:"brand" gorm:"type:varchar(45);not null"`               // 廠牌
	Model         string              `json:"model" gorm:"type:varchar(45);not null"`               // 車型
	Color         string              `json:"color" gorm:"type:varchar(45);not null"`               // 顏色
	EntryDate     time.Time           `json:"entry_date" gorm:"type:datetime;not null"`             // 進場時間
	DepartureDate *time.Time          `json:"departure_date" gorm:"type:datetime;default:null"`     // 出場時間，NULL 表示尚未出場
	Value         decimal.NullDecimal `json:"value" gorm:"type:decimal(7,2);default:null"`          // 停車費用，出場時才寫入
	Discount      decimal.NullDecimal `json:"discount" gorm:"type:decimal(7,2);default:null"`       // 折扣金額，僅供參考，不從費用扣除
	ClientID      int                 `json:"client_id" gorm:"index;not null;type:INT"`
	VacancyID     int                 `json:"vacancy_id" gorm:"index;not null;type:INT"`
	Client        Client              `json:"-" gorm:"foreignKey:ClientID;references:ClientID"`
	Vacancy       Vacancy             `json:"-" gorm:"foreignKey:VacancyID;references:VacancyID"`
	CreatedAt     time.Time           `json:"created_at" gorm:"column:created_at"`
	UpdatedAt     time.Time           `json:"updated_at" gorm:"column:updated_at"`
}

func (ParkingSession) TableName() string {
	return "client_vacancies"
}

// IsOpen 場次尚未出場
func (s *ParkingSession) IsOpen() bool {
	return s.DepartureDate == nil
}

type ParkingSessionResponse struct {
	Receipt       string `json:"receipt"`
	Plate         string `json:"plate"`
	Brand         string `json:"brand"`
	Model         string `json:"model"`
	Color         string `json:"color"`
	ClientCPF     string `json:"client_cpf"`
	VacancyCode   string `json:"vacancy_code"`
	EntryDate     string `json:"entry_date"`
	DepartureDate string `json:"departure_date,omitempty"`
	Value         string `json:"value,omitempty"`
	Discount      string `json:"discount,omitempty"`
}

func (s *ParkingSession) ToResponse() ParkingSessionResponse {
	resp := ParkingSessionResponse{
		Receipt:     s.Receipt,
		Plate:       s.Plate,
		Brand:       s.Brand,
		Model:       s.Model,
		Color:       s.Color,
		ClientCPF:   s.Client.CPF,
		VacancyCode: s.Vacancy.Code,
		EntryDate:   s.EntryDate.Format("2006-01-02 15:04:05"),
	}
	if s.DepartureDate != nil {
		resp.DepartureDate = s.DepartureDate.Format("2006-01-02 15:04:05")
	}
	if s.Value.Valid {
		resp.Value = s.Value.Decimal.StringFixed(2)
	}
	if s.Discount.Valid {
		resp.Discount = s.Discount.Decimal.StringFixed(2)
	}
	return resp
}
