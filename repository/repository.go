package repository

import (
	"errors"

	"parking-api/models"
)

// 共用的資料層錯誤，由 service 層轉換為對外的錯誤訊息
var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicate      = errors.New("duplicate record")
	ErrNoFreeVacancy  = errors.New("no free vacancy available")
	ErrVacancyNotBusy = errors.New("vacancy is not busy")
)

type UserStore interface {
	Insert(user *models.User) error
	FindByID(id int) (*models.User, error)
	FindByUsername(username string) (*models.User, error)
	FindAll() ([]models.User, error)
	UpdatePassword(id int, hashedPassword string) error
}

type ClientStore interface {
	Insert(client *models.Client) error
	FindByID(id int) (*models.Client, error)
	FindByCPF(cpf string) (*models.Client, error)
	FindByUserID(userID int) (*models.Client, error)
	FindAll(page, size int) ([]models.Client, int64, error)
}

// VacancyStore 管理車位集合。AcquireFree 與 Release 是僅有的兩個狀態轉換入口：
// AcquireFree 以代碼順序挑出一個 FREE 車位並原子性地翻為 BUSY，
// Release 只允許 BUSY→FREE，對已經 FREE 的車位回傳 ErrVacancyNotBusy。
type VacancyStore interface {
	Insert(vacancy *models.Vacancy) error
	FindByCode(code string) (*models.Vacancy, error)
	AcquireFree() (*models.Vacancy, error)
	Release(vacancyID int) error
	CountByStatus(status string) (int64, error)
}

// SessionStore 持久化停車場次。收據查詢只看未出場的場次，
// 「查無收據」與「已經出場」刻意共用同一個 ErrNotFound。
type SessionStore interface {
	InsertOpen(session *models.ParkingSession) error
	FindOpenByReceipt(receipt string) (*models.ParkingSession, error)
	Close(session *models.ParkingSession) error
	CountClosedForClient(clientID int) (int64, error)
	FindAllByClientCPF(cpf string, page, size int) ([]models.ParkingSession, int64, error)
	FindAllByUserID(userID, page, size int) ([]models.ParkingSession, int64, error)
}

// Store 聚合所有資料存取介面。InTransaction 內拿到的 Store 綁定同一筆交易，
// 進出場流程的所有讀寫都必須在這個範圍內完成，要嘛全部提交要嘛全部回滾。
type Store interface {
	Users() UserStore
	Clients() ClientStore
	Vacancies() VacancyStore
	Sessions() SessionStore
	InTransaction(fn func(Store) error) error
}
