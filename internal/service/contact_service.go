package service

import (
	"errors"
	"strings"

	"github.com/foliolog/internal/db"
	"gorm.io/gorm"
)

var ErrMessageNotFound = errors.New("contact message not found")

// ContactService 管理联系表单留言。
type ContactService struct {
	db *gorm.DB
}

// ContactMessageInput 是访客提交留言时接受的字段。
type ContactMessageInput struct {
	Name    string
	Email   string
	Subject string
	Body    string
}

// NewContactService creates a ContactService instance.
func NewContactService(gdb *gorm.DB) *ContactService {
	return &ContactService{db: gdb}
}

// Create stores a visitor message.
func (s *ContactService) Create(input ContactMessageInput) (*db.ContactMessage, error) {
	msg := db.ContactMessage{
		Name:    strings.TrimSpace(input.Name),
		Email:   strings.TrimSpace(input.Email),
		Subject: strings.TrimSpace(input.Subject),
		Body:    strings.TrimSpace(input.Body),
	}
	if err := s.db.Create(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// List returns all messages, newest first.
func (s *ContactService) List() ([]db.ContactMessage, error) {
	var messages []db.ContactMessage
	if err := s.db.Order("created_at desc").Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkRead flags a message as read.
func (s *ContactService) MarkRead(id uint) error {
	result := s.db.Model(&db.ContactMessage{}).Where("id = ?", id).Update("read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMessageNotFound
	}
	return nil
}

// Delete removes a message permanently.
func (s *ContactService) Delete(id uint) error {
	result := s.db.Unscoped().Delete(&db.ContactMessage{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMessageNotFound
	}
	return nil
}
