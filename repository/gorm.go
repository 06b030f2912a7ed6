package repository

import (
	"errors"
	"fmt"

	"parking-api/models"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore 以 GORM 實作 Store，所有方法共用同一個 *gorm.DB，
// InTransaction 內則換成交易專用的 handle
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Users() UserStore        { return &gormUserStore{db: s.db} }
func (s *GormStore) Clients() ClientStore    { return &gormClientStore{db: s.db} }
func (s *GormStore) Vacancies() VacancyStore { return &gormVacancyStore{db: s.db} }
func (s *GormStore) Sessions() SessionStore  { return &gormSessionStore{db: s.db} }

func (s *GormStore) InTransaction(fn func(Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

// isDuplicateEntry 判斷是否為 MySQL 唯一鍵衝突（error 1062）
func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

// --- users ---

type gormUserStore struct {
	db *gorm.DB
}

func (s *gormUserStore) Insert(user *models.User) error {
	if err := s.db.Create(user).Error; err != nil {
		if isDuplicateEntry(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *gormUserStore) FindByID(id int) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by id %d: %w", id, err)
	}
	return &user, nil
}

func (s *gormUserStore) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by username %s: %w", username, err)
	}
	return &user, nil
}

func (s *gormUserStore) FindAll() ([]models.User, error) {
	var users []models.User
	if err := s.db.Order("user_id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *gormUserStore) UpdatePassword(id int, hashedPassword string) error {
	res := s.db.Model(&models.User{}).Where("user_id = ?", id).Update("password", hashedPassword)
	if res.Error != nil {
		return fmt.Errorf("failed to update password for user %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- clients ---

type gormClientStore struct {
	db *gorm.DB
}

func (s *gormClientStore) Insert(client *models.Client) error {
	if err := s.db.Create(client).Error; err != nil {
		if isDuplicateEntry(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert client: %w", err)
	}
	return nil
}

func (s *gormClientStore) FindByID(id int) (*models.Client, error) {
	var client models.Client
	if err := s.db.First(&client, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find client by id %d: %w", id, err)
	}
	return &client, nil
}

func (s *gormClientStore) FindByCPF(cpf string) (*models.Client, error) {
	var client models.Client
	if err := s.db.Where("cpf = ?", cpf).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find client by cpf %s: %w", cpf, err)
	}
	return &client, nil
}

func (s *gormClientStore) FindByUserID(userID int) (*models.Client, error) {
	var client models.Client
	if err := s.db.Where("user_id = ?", userID).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find client by user id %d: %w", userID, err)
	}
	return &client, nil
}

func (s *gormClientStore) FindAll(page, size int) ([]models.Client, int64, error) {
	var total int64
	if err := s.db.Model(&models.Client{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count clients: %w", err)
	}

	var clients []models.Client
	if err := s.db.Order("client_id ASC").Offset(page * size).Limit(size).Find(&clients).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, total, nil
}

// --- vacancies ---

type gormVacancyStore struct {
	db *gorm.DB
}

func (s *gormVacancyStore) Insert(vacancy *models.Vacancy) error {
	if err := s.db.Create(vacancy).Error; err != nil {
		if isDuplicateEntry(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert vacancy: %w", err)
	}
	return nil
}

func (s *gormVacancyStore) FindByCode(code string) (*models.Vacancy, error) {
	var vacancy models.Vacancy
	if err := s.db.Where("code = ?", code).First(&vacancy).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find vacancy by code %s: %w", code, err)
	}
	return &vacancy, nil
}

// AcquireFree 以 SELECT ... FOR UPDATE 鎖住代碼最小的 FREE 車位再翻成 BUSY。
// 必須在 InTransaction 裡呼叫，否則行鎖撐不到狀態更新
func (s *gormVacancyStore) AcquireFree() (*models.Vacancy, error) {
	var vacancy models.Vacancy
	err := s.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("status = ?", models.VacancyFree).
		Order("code ASC").
		First(&vacancy).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoFreeVacancy
		}
		return nil, fmt.Errorf("failed to select free vacancy: %w", err)
	}

	res := s.db.Model(&models.Vacancy{}).
		Where("vacancy_id = ? AND status = ?", vacancy.VacancyID, models.VacancyFree).
		Update("status", models.VacancyBusy)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to mark vacancy %s busy: %w", vacancy.Code, res.Error)
	}
	if res.RowsAffected == 0 {
		// 行鎖之下不應該發生，視同沒有空位
		return nil, ErrNoFreeVacancy
	}

	vacancy.Status = models.VacancyBusy
	return &vacancy, nil
}

// Release 只接受 BUSY→FREE；對已是 FREE 的車位回報錯誤，代表帳與車位狀態脫鉤
func (s *gormVacancyStore) Release(vacancyID int) error {
	res := s.db.Model(&models.Vacancy{}).
		Where("vacancy_id = ? AND status = ?", vacancyID, models.VacancyBusy).
		Update("status", models.VacancyFree)
	if res.Error != nil {
		return fmt.Errorf("failed to release vacancy %d: %w", vacancyID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrVacancyNotBusy
	}
	return nil
}

func (s *gormVacancyStore) CountByStatus(status string) (int64, error) {
	var count int64
	if err := s.db.Model(&models.Vacancy{}).Where("status = ?", status).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count vacancies with status %s: %w", status, err)
	}
	return count, nil
}

// --- parking sessions ---

type gormSessionStore struct {
	db *gorm.DB
}

func (s *gormSessionStore) InsertOpen(session *models.ParkingSession) error {
	if err := s.db.Create(session).Error; err != nil {
		if isDuplicateEntry(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert parking session: %w", err)
	}
	return nil
}

func (s *gormSessionStore) FindOpenByReceipt(receipt string) (*models.ParkingSession, error) {
	var session models.ParkingSession
	err := s.db.Preload("Client").Preload("Vacancy").
		Where("receipt = ? AND departure_date IS NULL", receipt).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find open session by receipt %s: %w", receipt, err)
	}
	return &session, nil
}

func (s *gormSessionStore) Close(session *models.ParkingSession) error {
	res := s.db.Model(&models.ParkingSession{}).
		Where("session_id = ? AND departure_date IS NULL", session.SessionID).
		Updates(map[string]interface{}{
			"departure_date": session.DepartureDate,
			"value":          session.Value,
			"discount":       session.Discount,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to close session %s: %w", session.Receipt, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormSessionStore) CountClosedForClient(clientID int) (int64, error) {
	var count int64
	err := s.db.Model(&models.ParkingSession{}).
		Where("client_id = ? AND departure_date IS NOT NULL", clientID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count closed sessions for client %d: %w", clientID, err)
	}
	return count, nil
}

func (s *gormSessionStore) FindAllByClientCPF(cpf string, page, size int) ([]models.ParkingSession, int64, error) {
	base := s.db.Model(&models.ParkingSession{}).
		Joins("JOIN clients ON clients.client_id = client_vacancies.client_id").
		Where("clients.cpf = ?", cpf)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count sessions for cpf %s: %w", cpf, err)
	}

	var sessions []models.ParkingSession
	err := s.db.Preload("Client").Preload("Vacancy").
		Joins("JOIN clients ON clients.client_id = client_vacancies.client_id").
		Where("clients.cpf = ?", cpf).
		Order("entry_date ASC").
		Offset(page * size).Limit(size).
		Find(&sessions).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list sessions for cpf %s: %w", cpf, err)
	}
	return sessions, total, nil
}

func (s *gormSessionStore) FindAllByUserID(userID, page, size int) ([]models.ParkingSession, int64, error) {
	base := s.db.Model(&models.ParkingSession{}).
		Joins("JOIN clients ON clients.client_id = client_vacancies.client_id").
		Where("clients.user_id = ?", userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count sessions for user %d: %w", userID, err)
	}

	var sessions []models.ParkingSession
	err := s.db.Preload("Client").Preload("Vacancy").
		Joins("JOIN clients ON clients.client_id = client_vacancies.client_id").
		Where("clients.user_id = ?", userID).
		Order("entry_date ASC").
		Offset(page * size).Limit(size).
		Find(&sessions).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list sessions for user %d: %w", userID, err)
	}
	return sessions, total, nil
}
