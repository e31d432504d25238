package service

import (
	"errors"
	"strings"

	"github.com/foliolog/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already taken")
	ErrInvalidLogin      = errors.New("invalid username or password")
	ErrLastAdmin         = errors.New("cannot remove the last admin user")
)

// UserService 管理后台用户账号。
type UserService struct {
	db *gorm.DB
}

// UserInput represents fields accepted when creating or updating a user.
// Password 为空时表示更新场景下保留原有密码。
type UserInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

// NewUserService creates a UserService instance.
func NewUserService(gdb *gorm.DB) *UserService {
	return &UserService{db: gdb}
}

// List returns all users ordered by creation time.
func (s *UserService) List() ([]db.User, error) {
	var users []db.User
	if err := s.db.Order("created_at asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Create registers a new user with a bcrypt hashed password.
func (s *UserService) Create(input UserInput) (*db.User, error) {
	username := strings.TrimSpace(input.Username)

	var count int64
	if err := s.db.Model(&db.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateUsername
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := db.User{
		Username: username,
		Email:    strings.TrimSpace(input.Email),
		Password: string(hashed),
		Role:     normalizeRole(input.Role),
	}
	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}
	return &user, nil
}

// Update modifies a user; an empty password keeps the current hash.
func (s *UserService) Update(id uint, input UserInput) (*db.User, error) {
	var user db.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	username := strings.TrimSpace(input.Username)
	if username != "" && username != user.Username {
		var count int64
		if err := s.db.Model(&db.User{}).
			Where("username = ? AND id <> ?", username, id).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrDuplicateUsername
		}
		user.Username = username
	}

	user.Email = strings.TrimSpace(input.Email)

	newRole := normalizeRole(input.Role)
	if user.Role == db.RoleAdmin && newRole != db.RoleAdmin {
		lastAdmin, err := s.isLastAdmin(user.ID)
		if err != nil {
			return nil, err
		}
		if lastAdmin {
			return nil, ErrLastAdmin
		}
	}
	user.Role = newRole

	if password := strings.TrimSpace(input.Password); password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hashed)
	}

	if err := s.db.Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete removes a user. The last remaining admin cannot be deleted.
func (s *UserService) Delete(id uint) error {
	var user db.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if user.Role == db.RoleAdmin {
		lastAdmin, err := s.isLastAdmin(user.ID)
		if err != nil {
			return err
		}
		if lastAdmin {
			return ErrLastAdmin
		}
	}

	return s.db.Unscoped().Delete(&db.User{}, id).Error
}

// Authenticate verifies credentials and returns the matching user.
func (s *UserService) Authenticate(username, password string) (*db.User, error) {
	var user db.User
	if err := s.db.Where("username = ?", strings.TrimSpace(username)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidLogin
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidLogin
	}
	return &user, nil
}

func (s *UserService) isLastAdmin(excludeID uint) (bool, error) {
	var count int64
	if err := s.db.Model(&db.User{}).
		Where("role = ? AND id <> ?", db.RoleAdmin, excludeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}

func normalizeRole(role string) string {
	if strings.ToLower(strings.TrimSpace(role)) == db.RoleAdmin {
		return db.RoleAdmin
	}
	return db.RoleEditor
}
