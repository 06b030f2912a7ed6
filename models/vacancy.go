package models

// 車位狀態
const (
	VacancyFree = "FREE"
	VacancyBusy = "BUSY"
)

// Vacancy 車位表：每個實體車位一筆，代碼固定四碼且唯一
type Vacancy struct {
	VacancyID int    `json:"vacancy_id" gorm:"primaryKey;autoIncrement;type:INT"`
	Code      string `json:"code" gorm:"type:varchar(4);not null;uniqueIndex" binding:"required,len=4"`                           // 車位代碼
	Status    string `json:"status" gorm:"type:enum('FREE', 'BUSY');not null;default:'FREE'" binding:"omitempty,oneof=FREE BUSY"` // FREE/BUSY
}

func (Vacancy) TableName() string {
	return "vacancies"
}

type VacancyResponse struct {
	VacancyID int    `json:"vacancy_id"`
	Code      string `json:"code"`
	Status    string `json:"status"`
}

func (v *Vacancy) ToResponse() VacancyResponse {
	return VacancyResponse{
		VacancyID: v.VacancyID,
		Code:      v.Code,
		Status:    v.Status,
	}
}
