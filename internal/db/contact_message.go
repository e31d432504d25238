package db

import "gorm.io/gorm"

// ContactMessage 保存访客通过联系表单提交的留言。
type ContactMessage struct {
	gorm.Model
	Name    string `gorm:"size:100;not null"`
	Email   string `gorm:"size:200;not null"`
	Subject string `gorm:"size:200"`
	Body    string `gorm:"type:text;not null"`
	Read    bool   `gorm:"default:false"`
}
