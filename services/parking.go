package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"parking-api/models"
	"parking-api/repository"
	"parking-api/utils"

	"github.com/shopspring/decimal"
)

// 進出場流程對外的錯誤
var (
	ErrClientNotFound = errors.New("client cpf not registered in the system")
	ErrNoFreeVacancy  = errors.New("cannot found a vacancy free")
	// 查無收據與已完成出場刻意不區分，沿用同一個錯誤
	ErrReceiptNotFound = errors.New("receipt not found in system or checkout already done")
	// 車位狀態與場次紀錄脫鉤，屬於內部錯誤，正常營運不應該發生
	ErrVacancyStateConflict = errors.New("vacancy state conflicts with parking records")
)

// CheckInInput 進場資料：客戶身分與車輛描述
type CheckInInput struct {
	ClientCPF string `json:"client_cpf" binding:"required,len=11,numeric"`
	Plate     string `json:"plate" binding:"required,max=8"`
	Brand     string `json:"brand" binding:"required,max=45"`
	Model     string `json:"model" binding:"required,max=45"`
	Color     string `json:"color" binding:"required,max=45"`
}

// ParkingService 進出場流程的唯一入口。每個操作都包在單一交易內：
// 車位翻轉與場次寫入一起提交或一起回滾，不留下部分狀態
type ParkingService struct {
	store repository.Store
	now   func() time.Time
}

func NewParkingService(store repository.Store) *ParkingService {
	return &ParkingService{
		store: store,
		now:   time.Now,
	}
}

// CheckIn 車輛進場：確認客戶存在、取得空車位並翻為 BUSY、
// 產生收據號碼、建立未出場的場次紀錄
func (s *ParkingService) CheckIn(input CheckInInput) (*models.ParkingSession, error) {
	var session *models.ParkingSession

	err := s.store.InTransaction(func(tx repository.Store) error {
		client, err := tx.Clients().FindByCPF(input.ClientCPF)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrClientNotFound
			}
			return fmt.Errorf("failed to find client by cpf: %w", err)
		}

		vacancy, err := tx.Vacancies().AcquireFree()
		if err != nil {
			if errors.Is(err, repository.ErrNoFreeVacancy) {
				return ErrNoFreeVacancy
			}
			return fmt.Errorf("failed to acquire free vacancy: %w", err)
		}

		now := s.now()
		session = &models.ParkingSession{
			Receipt:   utils.GenerateReceipt(now),
			Plate:     input.Plate,
			Brand:     input.Brand,
			Model:     input.Model,
			Color:     input.Color,
			EntryDate: now,
			ClientID:  client.ClientID,
			VacancyID: vacancy.VacancyID,
			Client:    *client,
			Vacancy:   *vacancy,
		}
		if err := tx.Sessions().InsertOpen(session); err != nil {
			return fmt.Errorf("failed to insert parking session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Check-in completed: receipt=%s, vacancy=%s, cpf=%s",
		session.Receipt, session.Vacancy.Code, session.Client.CPF)
	return session, nil
}

// CheckOut 車輛出場：以收據找到未出場的場次、計算費用與折扣、
// 釋放車位並關閉場次，全部在同一筆交易內完成
func (s *ParkingService) CheckOut(receipt string) (*models.ParkingSession, error) {
	var session *models.ParkingSession

	err := s.store.InTransaction(func(tx repository.Store) error {
		found, err := tx.Sessions().FindOpenByReceipt(receipt)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrReceiptNotFound
			}
			return fmt.Errorf("failed to find open session by receipt: %w", err)
		}

		departure := s.now()
		value, err := CalculateCost(found.EntryDate, departure)
		if err != nil {
			return err
		}

		// 折扣看的是本次之前已完成的次數，不含正在關閉的這一筆
		completed, err := tx.Sessions().CountClosedForClient(found.ClientID)
		if err != nil {
			return fmt.Errorf("failed to count completed sessions: %w", err)
		}
		discount := CalculateDiscount(value, completed)

		found.DepartureDate = &departure
		found.Value = decimal.NullDecimal{Decimal: value, Valid: true}
		found.Discount = decimal.NullDecimal{Decimal: discount, Valid: true}

		if err := tx.Vacancies().Release(found.VacancyID); err != nil {
			if errors.Is(err, repository.ErrVacancyNotBusy) {
				return ErrVacancyStateConflict
			}
			return fmt.Errorf("failed to release vacancy: %w", err)
		}
		if err := tx.Sessions().Close(found); err != nil {
			return fmt.Errorf("failed to close parking session: %w", err)
		}

		found.Vacancy.Status = models.VacancyFree
		session = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Check-out completed: receipt=%s, value=%s, discount=%s",
		session.Receipt, session.Value.Decimal.StringFixed(2), session.Discount.Decimal.StringFixed(2))
	return session, nil
}

// GetByReceipt 以收據查詢尚未出場的場次
func (s *ParkingService) GetByReceipt(receipt string) (*models.ParkingSession, error) {
	session, err := s.store.Sessions().FindOpenByReceipt(receipt)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReceiptNotFound
		}
		return nil, fmt.Errorf("failed to find session by receipt: %w", err)
	}
	return session, nil
}

// ListByClientCPF 查詢特定客戶的停車紀錄（分頁）
func (s *ParkingService) ListByClientCPF(cpf string, page, size int) ([]models.ParkingSession, int64, error) {
	return s.store.Sessions().FindAllByClientCPF(cpf, page, size)
}

// ListByUserID 查詢登入客戶自己的停車紀錄（分頁）
func (s *ParkingService) ListByUserID(userID, page, size int) ([]models.ParkingSession, int64, error) {
	return s.store.Sessions().FindAllByUserID(userID, page, size)
}
