package services

import (
	"errors"
	"fmt"
	"log"

	"parking-api/models"
	"parking-api/repository"
)

var (
	ErrVacancyCodeExists = errors.New("vacancy code already registered")
	ErrVacancyNotFound   = errors.New("vacancy not found")
)

// VacancyService 車位的行政管理（建立與查詢）。
// 狀態轉換不在這裡做，一律走 ParkingService 的進出場流程
type VacancyService struct {
	store repository.Store
}

func NewVacancyService(store repository.Store) *VacancyService {
	return &VacancyService{store: store}
}

// Create 建立車位，代碼重複時回報衝突
func (s *VacancyService) Create(vacancy *models.Vacancy) error {
	if vacancy.Status == "" {
		vacancy.Status = models.VacancyFree
	}
	if err := s.store.Vacancies().Insert(vacancy); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrVacancyCodeExists
		}
		return fmt.Errorf("failed to create vacancy: %w", err)
	}
	log.Printf("Vacancy created: code=%s, status=%s", vacancy.Code, vacancy.Status)
	return nil
}

// FindByCode 以代碼查詢車位
func (s *VacancyService) FindByCode(code string) (*models.Vacancy, error) {
	vacancy, err := s.store.Vacancies().FindByCode(code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrVacancyNotFound
		}
		return nil, fmt.Errorf("failed to find vacancy by code: %w", err)
	}
	return vacancy, nil
}

// OccupancySnapshot 回傳目前空位與使用中車位數量，給定時任務記錄用
func (s *VacancyService) OccupancySnapshot() (free, busy int64, err error) {
	free, err = s.store.Vacancies().CountByStatus(models.VacancyFree)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count free vacancies: %w", err)
	}
	busy, err = s.store.Vacancies().CountByStatus(models.VacancyBusy)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count busy vacancies: %w", err)
	}
	return free, busy, nil
}
