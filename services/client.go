package services

import (
	"errors"
	"fmt"
	"log"

	"parking-api/models"
	"parking-api/repository"
)

var (
	ErrCPFAlreadyRegistered = errors.New("client cpf already registered")
	ErrClientRecordNotFound = errors.New("client record not found")
)

// ClientService 客戶資料的建立與查詢，客戶一律綁定一個已註冊帳號
type ClientService struct {
	store repository.Store
}

func NewClientService(store repository.Store) *ClientService {
	return &ClientService{store: store}
}

// Create 建立客戶並綁定登入中的使用者帳號，CPF 重複時回報衝突
func (s *ClientService) Create(client *models.Client) error {
	if err := s.store.Clients().Insert(client); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrCPFAlreadyRegistered
		}
		return fmt.Errorf("failed to create client: %w", err)
	}
	log.Printf("Client created: id=%d, cpf=%s", client.ClientID, client.CPF)
	return nil
}

// FindByID 以ID查詢客戶
func (s *ClientService) FindByID(id int) (*models.Client, error) {
	client, err := s.store.Clients().FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientRecordNotFound
		}
		return nil, fmt.Errorf("failed to find client by id: %w", err)
	}
	return client, nil
}

// FindByUserID 查詢登入使用者自己的客戶資料
func (s *ClientService) FindByUserID(userID int) (*models.Client, error) {
	client, err := s.store.Clients().FindByUserID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientRecordNotFound
		}
		return nil, fmt.Errorf("failed to find client by user id: %w", err)
	}
	return client, nil
}

// List 分頁查詢所有客戶
func (s *ClientService) List(page, size int) ([]models.Client, int64, error) {
	return s.store.Clients().FindAll(page, size)
}
