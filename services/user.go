package services

import (
	"errors"
	"fmt"
	"log"

	"parking-api/models"
	"parking-api/repository"
	"parking-api/utils"
)

var (
	ErrUsernameExists       = errors.New("username already exists")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrPasswordConfirm      = errors.New("new password not equals with password confirmation")
	ErrWrongCurrentPassword = errors.New("current password is not correct")
)

// UserService 帳號註冊、登入與密碼管理
type UserService struct {
	store repository.Store
}

func NewUserService(store repository.Store) *UserService {
	return &UserService{store: store}
}

// Register 註冊帳號，預設角色為 client，密碼以 bcrypt 哈希後儲存
func (s *UserService) Register(user *models.User) error {
	if user.Role == "" {
		user.Role = models.RoleClient
	}

	hashedPassword, err := utils.HashPassword(user.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = hashedPassword

	if err := s.store.Users().Insert(user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrUsernameExists
		}
		return fmt.Errorf("failed to register user: %w", err)
	}

	log.Printf("User registered: id=%d, username=%s, role=%s", user.UserID, user.Username, user.Role)
	return nil
}

// Login 驗證帳號密碼，帳號不存在與密碼錯誤回同一個錯誤
func (s *UserService) Login(username, password string) (*models.User, error) {
	user, err := s.store.Users().FindByUsername(username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to login user: %w", err)
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		log.Printf("Invalid password for username %s", username)
		return nil, ErrInvalidCredentials
	}

	log.Printf("User %d logged in successfully", user.UserID)
	return user, nil
}

// FindByID 以ID查詢帳號
func (s *UserService) FindByID(id int) (*models.User, error) {
	user, err := s.store.Users().FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by id: %w", err)
	}
	return user, nil
}

// FindAll 查詢所有帳號
func (s *UserService) FindAll() ([]models.User, error) {
	return s.store.Users().FindAll()
}

// UpdatePassword 更新密碼：確認新密碼一致且舊密碼正確
func (s *UserService) UpdatePassword(id int, currentPassword, newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		return ErrPasswordConfirm
	}

	user, err := s.FindByID(id)
	if err != nil {
		return err
	}

	if !utils.CheckPasswordHash(currentPassword, user.Password) {
		return ErrWrongCurrentPassword
	}

	hashedPassword, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}
	if err := s.store.Users().UpdatePassword(id, hashedPassword); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	log.Printf("Password updated for user %d", id)
	return nil
}
