package db

import "gorm.io/gorm"

// Project 定义了作品集项目模型。与 Blog 不同，更新标题时会重新生成 Slug。
type Project struct {
	gorm.Model
	Slug        string `gorm:"size:200;uniqueIndex;not null"`
	Title       string `gorm:"size:200;not null"`
	Content     string `gorm:"type:text"`
	Plaintext   string `gorm:"type:text"`
	Description string `gorm:"size:500"`
	Status      string `gorm:"size:20;default:in_progress;index"`
	RepoURL     string `gorm:"size:500"`
	DemoURL     string `gorm:"size:500"`
	Views       uint64 `gorm:"default:0"`
	Images      []ProjectImage
}

const (
	// ProjectStatusCompleted 表示项目已完成。
	ProjectStatusCompleted = "completed"
	// ProjectStatusInProgress 表示项目进行中。
	ProjectStatusInProgress = "in_progress"
)

// ProjectImage 是项目的图片附件，结构与 BlogImage 对称。
type ProjectImage struct {
	gorm.Model
	ProjectID uint   `gorm:"index;not null"`
	ImageURL  string `gorm:"size:500;not null"`
	Type      string `gorm:"size:20;not null"`
	SortOrder int    `gorm:"default:0"`
}
